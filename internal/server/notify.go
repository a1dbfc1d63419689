package server

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"
)

// notifyWriteTimeout bounds a single WebSocket write so a dead client
// cannot stall the bridge past shutdown.
const notifyWriteTimeout = 5 * time.Second

// upgrader accepts any origin: this is a local development server and the
// notification channel carries only file paths.
var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(*http.Request) bool { return true },
}

// handleNotify is the change-notification bridge.
//
// The required "file" query parameter names the watched file (URL-decoded
// by the query parser, sanitized like any request path). Missing parameter
// means 400 and no upgrade. Otherwise the connection upgrades to a
// WebSocket and each change event for the file is forwarded as a text
// message, in watcher order, until the client disconnects, the watcher
// closes, or the server shuts down. The subscription lives and dies with
// this handler invocation; the bridge keeps no global state.
func (s *Server) handleNotify(w http.ResponseWriter, r *http.Request) {
	file := r.URL.Query().Get("file")
	if file == "" {
		http.Error(w, `missing required query parameter "file"`, http.StatusBadRequest)
		return
	}
	rel, ok := sanitizePath(file)
	if !ok || rel == "" {
		http.Error(w, `invalid "file" parameter`, http.StatusBadRequest)
		return
	}

	// subscribe before upgrading so failures can still be plain HTTP errors
	events, cancel, err := s.watcher.Subscribe(rel)
	if err != nil {
		s.logger.Warn("watch subscription refused", "path", rel, "error", err)
		http.Error(w, "cannot watch that path", http.StatusBadRequest)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already written its own error response
		cancel()
		return
	}
	defer conn.Close()
	defer cancel()

	s.logger.Debug("notify client connected", "path", rel, "remote", r.RemoteAddr)

	// reader loop: its only job is noticing the client going away
	clientGone := make(chan struct{})
	go func() {
		defer close(clientGone)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	// request context derives from the server context via BaseContext, so
	// shutdown cancels it even while this connection is hijacked
	ctx := r.Context()

	for {
		select {
		case ev, ok := <-events:
			if !ok {
				return
			}
			_ = conn.SetWriteDeadline(time.Now().Add(notifyWriteTimeout))
			if err := conn.WriteMessage(websocket.TextMessage, []byte(ev.Path)); err != nil {
				return
			}

		case <-clientGone:
			s.logger.Debug("notify client disconnected", "path", rel)
			return

		case <-ctx.Done():
			deadline := time.Now().Add(notifyWriteTimeout)
			msg := websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down")
			_ = conn.WriteControl(websocket.CloseMessage, msg, deadline)
			return
		}
	}
}
