// Package main is the entry point for the elmserve CLI.
//
// elmserve can be run either as a library (SDK) or as a standalone binary.
// This CLI provides the standalone binary approach.
//
// Usage:
//
//	elmserve serve                     # Serve the current directory
//	elmserve serve --port 9000 --root ./app
//	elmserve validate -c elmserve.yaml # Validate configuration
//	elmserve version                   # Show version info
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Version information - set by GoReleaser at build time via ldflags.
// Example: go build -ldflags "-X main.version=1.0.0"
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// rootCmd is the base command when called without subcommands.
// It just displays help - actual functionality is in subcommands.
var rootCmd = &cobra.Command{
	Use:   "elmserve",
	Short: "A development server for Elm projects",
	Long: `elmserve is a local development server for Elm projects.

It serves a project directory over HTTP, compiles .elm files on request,
and reloads connected browsers when a served file changes on disk.

Quick start:
  1. cd into your Elm project
  2. Run: elmserve serve
  3. Open http://localhost:8000 in your browser

Requests for .elm files are compiled and served as HTML; compile errors
render as readable diagnostics pages. Everything else is served as a code
view, a raw file, or a directory listing.`,
	// No Run/RunE means this just shows help when called without subcommands
}

// Execute runs the root command.
// This is the main entry point called from main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		// Cobra already prints the error, just exit with code 1
		os.Exit(1)
	}
}

func main() {
	Execute()
}

// versionCmd prints version information.
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Long:  `Print the version, commit hash, and build date of this elmserve binary.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("elmserve %s\n", version)
		fmt.Printf("  commit: %s\n", commit)
		fmt.Printf("  built:  %s\n", date)
	},
}

func init() {
	// Register subcommands with root
	rootCmd.AddCommand(versionCmd)
}
