// Package elmserve provides a local development server for Elm projects.
//
// elmserve serves a project directory over HTTP, compiling .elm files on
// request and presenting everything else as readable code views, raw files,
// or directory listings. Pages rendered by the server subscribe to a
// change-notification WebSocket and reload when their file changes on disk.
//
// # Quick Start
//
// Create a server and start it with graceful shutdown:
//
//	srv, err := elmserve.New(elmserve.WithRoot("."))
//	if err != nil {
//	    slog.Error("failed to create server", "error", err)
//	    os.Exit(1)
//	}
//
//	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
//	defer stop()
//
//	srv.Start(ctx) // blocks until context is cancelled
//
// # Configuration
//
// elmserve uses the functional options pattern for configuration:
//
//	srv, err := elmserve.New(
//	    elmserve.WithRoot("~/projects/app"),
//	    elmserve.WithHost("0.0.0.0"),
//	    elmserve.WithPort(9000),
//	)
//
// # Request resolution
//
// Every request is resolved in a fixed priority order:
//
//  1. Embedded static assets (stylesheet, reload client, favicon)
//  2. Elm sources: compiled server-side, or served as a client-side debug
//     harness when the "debug" query parameter is present. Compile failures
//     render as diagnostics pages with status 200; they are user-facing
//     content, not server errors.
//  3. Other files: a code-view page for textual or unknown types, a
//     verbatim stream for everything else
//  4. Directory listings (always explicit; index.html is never auto-served)
//  5. A rendered 404 page
//
// # Architecture
//
// elmserve consists of several internal packages (under internal/):
//
//   - internal/server: HTTP dispatch, asset resolution, and the
//     change-notification bridge
//   - internal/compile: the Elm compiler collaborator
//   - internal/watch: fsnotify-backed per-file change subscriptions
//   - internal/mimetype: compound-extension content-type resolution
//   - internal/render: HTML document renderers
//   - assets: embedded static assets
//
// The internal packages are not part of the public API and may change
// without notice. The server is designed for single-binary deployment
// using Go's embed directive for static assets.
package elmserve
