package elmserve

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/jpalmerr/elmserve/internal/compile"
	"github.com/jpalmerr/elmserve/internal/server"
	"github.com/jpalmerr/elmserve/internal/watch"
)

const (
	defaultHost = "localhost"
	defaultPort = 8000
)

// Server is the main orchestrator for serving an Elm project directory.
//
// Server wires the HTTP dispatcher, the Elm compiler, and the file watcher
// together. It is created with [New] using functional options and started
// with [Server.Start].
//
// The caller controls the lifecycle via the context passed to Start; cancel
// it to trigger graceful shutdown.
type Server struct {
	root     string
	host     string
	port     int
	logger   *slog.Logger
	compiler compile.Compiler
}

// New creates a new [Server] instance with the given options.
//
// Defaults: root ".", host "localhost", port 8000, the system "elm" binary
// as compiler, and [slog.Default] for logging.
//
// Returns an error if any option is invalid or if the configured root is
// not an existing directory.
func New(opts ...Option) (*Server, error) {
	cfg := &svConfig{
		root: ".",
		host: defaultHost,
		port: defaultPort,
	}

	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, err
		}
	}

	abs, err := filepath.Abs(cfg.root)
	if err != nil {
		return nil, fmt.Errorf("resolve root %q: %w", cfg.root, err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("served root %q: %w", cfg.root, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("served root %q is not a directory", cfg.root)
	}

	logger := cfg.logger
	if logger == nil {
		logger = slog.Default()
	}

	compiler := cfg.compiler
	if compiler == nil {
		compiler = compile.NewElm(abs, logger)
	}

	return &Server{
		root:     abs,
		host:     cfg.host,
		port:     cfg.port,
		logger:   logger,
		compiler: compiler,
	}, nil
}

// Start serves the project directory until the context is cancelled.
//
// Start is a blocking call. During execution:
//
//   - The file watcher starts for the served root
//   - The HTTP server binds the configured host and port
//   - Requests are served concurrently; each is independent
//
// Returns nil on graceful shutdown, or an error if the watcher or HTTP
// server fails to start (a bind failure is the typical case).
func (s *Server) Start(ctx context.Context) error {
	s.logger.Info("elmserve starting", "root", s.root)

	if ctx.Err() != nil {
		return nil
	}

	watcher, err := watch.New(s.root, s.logger)
	if err != nil {
		return fmt.Errorf("failed to start file watcher: %w", err)
	}

	httpServer := server.New(s.root, s.host, s.port, s.compiler, watcher, s.logger)
	if err := httpServer.Start(ctx); err != nil {
		watcher.Close()
		return fmt.Errorf("failed to start HTTP server: %w", err)
	}

	s.logger.Info("project available", "url", fmt.Sprintf("http://%s:%d", s.host, s.port))

	<-ctx.Done()
	if err := watcher.Close(); err != nil {
		s.logger.Warn("watcher close error", "error", err)
	}
	s.logger.Info("elmserve stopped")
	return nil
}

// Root returns the absolute path of the served directory.
func (s *Server) Root() string {
	return s.root
}

// Host returns the configured bind host.
func (s *Server) Host() string {
	return s.host
}

// Port returns the configured HTTP port.
func (s *Server) Port() int {
	return s.port
}
