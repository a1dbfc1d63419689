// Package server provides the HTTP server for elmserve.
//
// This package is internal to elmserve and handles all HTTP concerns:
//
//   - Asset resolution: embedded static assets, compiled Elm pages, code
//     views, and raw file serving, tried in a fixed priority order
//   - Directory listings: explicit index pages for directories (no
//     index.html auto-serving)
//   - Change notifications: a WebSocket endpoint at "/_elmserve/notify"
//     that streams file-change events for one subscribed file
//
// The server supports graceful shutdown via context cancellation, with a
// 5-second timeout for in-flight requests.
//
// Users of the elmserve library should not need to interact with this
// package directly. The server is started automatically by
// [elmserve.Server.Start].
package server
