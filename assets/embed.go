// Package assets provides the embedded static assets served by elmserve.
//
// This package uses Go's embed directive to include the stylesheet, reload
// client script, and favicon at compile time, enabling single-binary
// deployment without external asset files.
//
// Assets are addressed by virtual request path (e.g. "_elmserve/styles.css").
// These paths always win over same-named files in the served project
// directory; the filesystem is never consulted for them. The table is
// populated once at init and is read-only afterwards, so unsynchronized
// concurrent lookups are safe.
package assets

import (
	"embed"
	"fmt"
)

//go:embed static/*
var files embed.FS

// Asset is one embedded payload together with its fixed content type.
// The content type carries no charset; the server appends charset=utf-8
// when writing the response.
type Asset struct {
	Body        []byte
	ContentType string
}

// table maps virtual request paths (no leading slash) to assets.
var table = map[string]Asset{}

func init() {
	for virtual, entry := range map[string]struct {
		file        string
		contentType string
	}{
		"_elmserve/styles.css": {"static/styles.css", "text/css"},
		"_elmserve/client.js":  {"static/client.js", "application/javascript"},
		"favicon.ico":          {"static/favicon.ico", "image/x-icon"},
	} {
		body, err := files.ReadFile(entry.file)
		if err != nil {
			// embed guarantees the files exist; a failure here is a build defect
			panic(fmt.Sprintf("assets: missing embedded file %s: %v", entry.file, err))
		}
		table[virtual] = Asset{Body: body, ContentType: entry.contentType}
	}
}

// Lookup returns the asset registered for the virtual path, if any.
// The path must be relative and slash-separated, matching the sanitized
// request path form.
func Lookup(path string) (Asset, bool) {
	a, ok := table[path]
	return a, ok
}

// Paths returns every registered virtual path. Intended for tests and
// diagnostics; order is not specified.
func Paths() []string {
	paths := make([]string, 0, len(table))
	for p := range table {
		paths = append(paths, p)
	}
	return paths
}
