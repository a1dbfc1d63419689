package server

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/jpalmerr/elmserve/internal/compile"
	"github.com/jpalmerr/elmserve/internal/watch"
)

// shutdownTimeout bounds graceful shutdown of in-flight requests.
const shutdownTimeout = 5 * time.Second

// Subscriber is the watcher collaborator consumed by the notification
// bridge. Satisfied by [watch.Watcher].
type Subscriber interface {
	// Subscribe registers interest in a sanitized relative path,
	// returning the ordered event channel and a cancel function.
	Subscribe(path string) (<-chan watch.Event, func(), error)
}

// Server handles HTTP requests for a served project directory.
//
// Requests are resolved in a fixed priority order: embedded static asset,
// compiled Elm page, code view or raw file, directory listing, then a
// rendered 404 page. The dedicated "/_elmserve/notify" route upgrades to a
// WebSocket carrying change events for one file.
//
// The server is designed for graceful shutdown via context cancellation.
type Server struct {
	root       string
	host       string
	port       int
	compiler   compile.Compiler
	watcher    Subscriber
	logger     *slog.Logger
	httpServer *http.Server
}

// New creates a new HTTP [Server].
//
// Parameters:
//   - root: absolute path of the served project directory
//   - host, port: bind address
//   - compiler: Elm compiler collaborator
//   - watcher: change-notification collaborator
//   - logger: logger for server events
//
// The server is not started until [Server.Start] is called.
func New(root, host string, port int, compiler compile.Compiler, watcher Subscriber, logger *slog.Logger) *Server {
	return &Server{
		root:     root,
		host:     host,
		port:     port,
		compiler: compiler,
		watcher:  watcher,
		logger:   logger,
	}
}

// Handler builds the request router. Exposed so tests can drive the full
// dispatch chain through httptest without binding a port.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(requestLogger(s.logger))

	r.Get("/_elmserve/notify", s.handleNotify)
	r.Get("/*", s.handleRequest)
	r.Head("/*", s.handleRequest)

	return r
}

// Start begins serving HTTP requests in a background goroutine.
//
// Start is non-blocking and returns immediately after confirming the
// server is listening. The server runs until the context is cancelled, at
// which point it initiates a graceful shutdown.
//
// Returns an error if the server fails to bind to the configured address.
func (s *Server) Start(ctx context.Context) error {
	addr := net.JoinHostPort(s.host, strconv.Itoa(s.port))

	// create the listener first so bind failures surface synchronously
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to bind to %s: %w", addr, err)
	}

	s.httpServer = &http.Server{
		Handler: s.Handler(),
		// BaseContext derives all request contexts from the server
		// context, so cancelling ctx also cancels long-lived handlers
		// like the notification bridge.
		BaseContext: func(_ net.Listener) context.Context {
			return ctx
		},
	}

	go func() {
		if err := s.httpServer.Serve(ln); err != nil && err != http.ErrServerClosed {
			s.logger.Error("http server error", "error", err)
		}
	}()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			s.logger.Error("http server shutdown error", "error", err)
		}
	}()

	return nil
}

// handleRequest is the dispatcher for everything except the notification
// route: asset-resolution pipeline first, then the directory fallback, then
// the 404 page. Exactly one response is written.
func (s *Server) handleRequest(w http.ResponseWriter, r *http.Request) {
	rel, ok := sanitizePath(r.URL.Path)
	if !ok {
		s.serveNotFound(w, r.URL.Path)
		return
	}

	if s.resolve(w, r, rel) {
		return
	}

	if abs, isDir := s.statDir(rel); isDir {
		s.serveListing(w, rel, abs)
		return
	}

	s.serveNotFound(w, rel)
}
