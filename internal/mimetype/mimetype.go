// Package mimetype resolves file paths to content types.
//
// Unlike the standard library's mime.TypeByExtension, resolution considers
// the full compound extension first (".tar.gz" before ".gz"), because some
// formats are only unambiguous in compound form. The mapping table is fixed
// at startup and safe for concurrent reads.
package mimetype

import (
	"path"
	"strings"
)

// types maps dotted extensions (simple or compound) to content types.
// Compound entries must appear here explicitly; lookup never consults the
// platform mime database, so resolution is deterministic across systems.
var types = map[string]string{
	".css":  "text/css",
	".csv":  "text/csv",
	".htm":  "text/html",
	".html": "text/html",
	".md":   "text/markdown",
	".txt":  "text/plain",
	".xml":  "text/xml",

	".js":   "application/javascript",
	".mjs":  "application/javascript",
	".json": "application/json",
	".pdf":  "application/pdf",
	".wasm": "application/wasm",

	".gz":     "application/gzip",
	".tar":    "application/x-tar",
	".tar.gz": "application/x-tgz",
	".tgz":    "application/x-tgz",
	".zip":    "application/zip",

	".gif":  "image/gif",
	".ico":  "image/x-icon",
	".jpeg": "image/jpeg",
	".jpg":  "image/jpeg",
	".png":  "image/png",
	".svg":  "image/svg+xml",
	".webp": "image/webp",

	".eot":   "application/vnd.ms-fontobject",
	".otf":   "font/otf",
	".ttf":   "font/ttf",
	".woff":  "font/woff",
	".woff2": "font/woff2",

	".mp3":  "audio/mpeg",
	".ogg":  "audio/ogg",
	".wav":  "audio/wav",
	".mp4":  "video/mp4",
	".webm": "video/webm",
}

// Resolve returns the content type for the given path, or false if no
// candidate extension matches.
//
// Candidates are generated from the final path segment, longest suffix
// first: for "archive.tar.gz" the candidates are ".tar.gz" then ".gz".
// The first match wins, so compound extensions take priority over their
// trailing component. A path whose final segment contains no dot yields
// no candidates and resolves to false.
func Resolve(p string) (string, bool) {
	for _, ext := range candidates(path.Base(p)) {
		if ct, ok := types[ext]; ok {
			return ct, true
		}
	}
	return "", false
}

// candidates returns every dotted suffix of name, longest first.
// "a.tar.gz" yields [".tar.gz", ".gz"]; "Makefile" yields nil.
func candidates(name string) []string {
	var exts []string
	i := strings.IndexByte(name, '.')
	for i >= 0 {
		exts = append(exts, name[i:])
		j := strings.IndexByte(name[i+1:], '.')
		if j < 0 {
			break
		}
		i += 1 + j
	}
	return exts
}
