package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/jpalmerr/elmserve"
	"github.com/jpalmerr/elmserve/config"
)

const shutdownTimeout = 10 * time.Second

// newLogger creates a JSON logger for CLI use.
func newLogger(verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
}

// serveCmd starts the development server.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the development server",
	Long: `Start the elmserve development server.

The server will:
  - Serve the project directory over HTTP
  - Compile .elm files on request (append ?debug for the client-side harness)
  - Reload connected browsers when a served file changes

Settings can come from flags or an optional YAML config file; flags win.
The server runs until interrupted (Ctrl+C) or receives SIGTERM.

Example:
  elmserve serve
  elmserve serve --host 0.0.0.0 --port 9000 --root ./app
  elmserve serve -c elmserve.yaml`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().String("host", config.DefaultHost, "bind address")
	serveCmd.Flags().IntP("port", "p", config.DefaultPort, "HTTP port")
	serveCmd.Flags().StringP("root", "r", config.DefaultRoot, "project directory to serve")
	serveCmd.Flags().StringP("config", "c", "", "path to optional config file")
	serveCmd.Flags().BoolP("verbose", "v", false, "enable debug logging")
}

// resolveSettings merges the optional config file with flags; a flag the
// user set explicitly always wins over the file.
func resolveSettings(cmd *cobra.Command) (*config.Config, error) {
	cfg := &config.Config{
		Host: config.DefaultHost,
		Port: config.DefaultPort,
		Root: config.DefaultRoot,
	}

	if file, _ := cmd.Flags().GetString("config"); file != "" {
		loaded, err := config.Load(file)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	if cmd.Flags().Changed("host") {
		cfg.Host, _ = cmd.Flags().GetString("host")
	}
	if cmd.Flags().Changed("port") {
		cfg.Port, _ = cmd.Flags().GetInt("port")
	}
	if cmd.Flags().Changed("root") {
		cfg.Root, _ = cmd.Flags().GetString("root")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func runServe(cmd *cobra.Command, args []string) error {
	verbose, _ := cmd.Flags().GetBool("verbose")
	logger := newLogger(verbose)

	cfg, err := resolveSettings(cmd)
	if err != nil {
		return err
	}

	srv, err := elmserve.New(
		elmserve.WithRoot(cfg.Root),
		elmserve.WithHost(cfg.Host),
		elmserve.WithPort(cfg.Port),
		elmserve.WithLogger(logger),
	)
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	banner(cfg.Host, cfg.Port)

	// set up context with signal handling - cancel on SIGINT/SIGTERM
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// start server - blocks until context cancelled
	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Start(ctx)
	}()

	select {
	case err := <-errChan:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		logger.Info("shutdown complete")
		return nil

	case <-ctx.Done():
		// signal received, wait for graceful shutdown with timeout
		select {
		case err := <-errChan:
			if err != nil {
				return fmt.Errorf("server error: %w", err)
			}
			logger.Info("shutdown complete")
			return nil
		case <-time.After(shutdownTimeout):
			logger.Warn("shutdown timed out",
				"timeout", shutdownTimeout.String(),
				"action", "forcing exit",
			)
			return nil
		}
	}
}

// banner prints the startup message to stdout. Logs carry the same
// information in JSON; the banner exists for humans at a terminal.
func banner(host string, port int) {
	cyan := color.New(color.FgCyan)
	bold := color.New(color.FgCyan, color.Bold)

	cyan.Printf("elmserve %s\n", version)
	fmt.Print("Go to ")
	bold.Printf("http://%s:%d", host, port)
	fmt.Println(" to see your project.")
}
