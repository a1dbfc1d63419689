package elmserve

import (
	"errors"
	"log/slog"

	"github.com/jpalmerr/elmserve/internal/compile"
)

// svConfig holds mutable state during [Server] construction.
type svConfig struct {
	root     string
	host     string
	port     int
	logger   *slog.Logger
	compiler compile.Compiler
}

// Option is a function that configures a [Server] instance during
// construction.
//
// Option implements the functional options pattern, allowing optional
// configuration to be passed to [New] in a type-safe, extensible way.
// Options return an error if validation fails.
//
// Built-in options: [WithRoot], [WithHost], [WithPort], [WithLogger],
// [WithCompiler].
type Option func(*svConfig) error

// WithRoot sets the project directory to serve. Defaults to the current
// directory. The directory must exist when [New] is called.
func WithRoot(root string) Option {
	return func(cfg *svConfig) error {
		if root == "" {
			return errors.New("root cannot be empty")
		}
		cfg.root = root
		return nil
	}
}

// WithHost sets the bind host for the HTTP server. Defaults to
// "localhost"; use "0.0.0.0" to accept connections from other machines.
func WithHost(host string) Option {
	return func(cfg *svConfig) error {
		if host == "" {
			return errors.New("host cannot be empty")
		}
		cfg.host = host
		return nil
	}
}

// WithPort sets the HTTP port. Defaults to 8000.
//
// Returns an error if the port is outside the valid range (1-65535).
func WithPort(port int) Option {
	return func(cfg *svConfig) error {
		if port < 1 || port > 65535 {
			return errors.New("port must be between 1 and 65535")
		}
		cfg.port = port
		return nil
	}
}

// WithLogger sets a custom [slog.Logger] for the server.
//
// This allows SDK consumers to control where logs are written and in what
// format. If not specified, [slog.Default] is used.
//
// Returns an error if the logger is nil.
func WithLogger(logger *slog.Logger) Option {
	return func(cfg *svConfig) error {
		if logger == nil {
			return errors.New("logger cannot be nil")
		}
		cfg.logger = logger
		return nil
	}
}

// WithCompiler replaces the default Elm compiler collaborator.
//
// Useful for pointing at a specific elm binary or substituting a fake in
// tests. If not specified, the "elm" binary on PATH is used.
//
// Returns an error if the compiler is nil.
func WithCompiler(c compile.Compiler) Option {
	return func(cfg *svConfig) error {
		if c == nil {
			return errors.New("compiler cannot be nil")
		}
		cfg.compiler = c
		return nil
	}
}
