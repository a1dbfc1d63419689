package server

import (
	"bytes"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/jpalmerr/elmserve/assets"
	"github.com/jpalmerr/elmserve/internal/mimetype"
	"github.com/jpalmerr/elmserve/internal/render"
)

// sanitizePath normalizes an incoming URL path into a slash-separated
// relative path that cannot escape the served root. Cleaning against a
// virtual "/" root collapses every ".." segment, so the result never points
// above the root. The empty string denotes the root itself.
func sanitizePath(p string) (string, bool) {
	if strings.ContainsRune(p, 0) {
		return "", false
	}
	clean := path.Clean("/" + p)
	rel := strings.TrimPrefix(clean, "/")
	if rel == "." {
		rel = ""
	}
	return rel, true
}

// absPath maps a sanitized relative path onto the served root.
func (s *Server) absPath(rel string) string {
	return filepath.Join(s.root, filepath.FromSlash(rel))
}

// statDir reports whether the sanitized path names a directory under the
// root, returning the filesystem path when it does.
func (s *Server) statDir(rel string) (string, bool) {
	abs := s.absPath(rel)
	info, err := os.Stat(abs)
	if err != nil || !info.IsDir() {
		return "", false
	}
	return abs, true
}

// resolve is the asset-resolution pipeline. It reports whether it handled
// the request; false means the caller should fall through to the directory
// listing or the 404 page. The branch order is a correctness requirement:
// static assets always win, and the filesystem is only consulted after
// they miss.
func (s *Server) resolve(w http.ResponseWriter, r *http.Request, rel string) bool {
	// 1. embedded static asset: exact virtual-path match, filesystem untouched
	if a, ok := assets.Lookup(rel); ok {
		w.Header().Set("Content-Type", a.ContentType+"; charset=utf-8")
		if _, err := w.Write(a.Body); err != nil {
			s.logger.Error("failed to write asset", "path", rel, "error", err)
		}
		return true
	}

	// 2. the pipeline only activates for existing regular files
	abs := s.absPath(rel)
	info, err := os.Stat(abs)
	if err != nil || !info.Mode().IsRegular() {
		return false
	}

	// 3. Elm source: debug harness or server-side compile
	if strings.HasSuffix(rel, ".elm") {
		if r.URL.Query().Has("debug") {
			s.serveDebugHarness(w, r, rel)
		} else {
			s.serveCompiled(w, r, rel)
		}
		return true
	}

	// 4. typed raw serve vs. code view
	ct, ok := mimetype.Resolve(rel)
	if !ok || strings.HasPrefix(ct, "text/") {
		s.serveCodeView(w, rel, abs)
	} else {
		s.serveRaw(w, r, abs, ct)
	}
	return true
}

// serveCompiled invokes the compiler and renders either branch of the
// outcome as a 200 page. Compile failures are user-facing content, not
// server errors; only a failure to run the compiler at all is a 500.
func (s *Server) serveCompiled(w http.ResponseWriter, r *http.Request, rel string) {
	res, err := s.compiler.Compile(r.Context(), rel)
	if err != nil {
		s.serveFault(w, rel, err)
		return
	}

	if res.Failed() {
		var buf bytes.Buffer
		if err := render.CompileErrors(&buf, rel, res.Diagnostics); err != nil {
			s.serveFault(w, rel, err)
			return
		}
		s.writeHTML(w, http.StatusOK, buf.Bytes())
		return
	}

	s.writeHTML(w, http.StatusOK, res.HTML)
}

// serveDebugHarness returns the client-side compilation page. The file's
// existence was checked by the pipeline, but nothing further: the harness
// itself reports compile problems in the browser.
func (s *Server) serveDebugHarness(w http.ResponseWriter, r *http.Request, rel string) {
	var buf bytes.Buffer
	if err := render.DebugHarness(&buf, rel, r.Host); err != nil {
		s.serveFault(w, rel, err)
		return
	}
	s.writeHTML(w, http.StatusOK, buf.Bytes())
}

// serveCodeView renders the file's literal contents as a readable page.
// Used for textual and unknown content types.
func (s *Server) serveCodeView(w http.ResponseWriter, rel, abs string) {
	data, err := os.ReadFile(abs)
	if err != nil {
		s.serveFault(w, rel, err)
		return
	}

	var buf bytes.Buffer
	if err := render.CodeView(&buf, rel, string(data)); err != nil {
		s.serveFault(w, rel, err)
		return
	}
	s.writeHTML(w, http.StatusOK, buf.Bytes())
}

// serveRaw streams the file verbatim with the resolved content type and no
// forced charset. ServeContent honors the pre-set Content-Type header and
// brings range support along.
func (s *Server) serveRaw(w http.ResponseWriter, r *http.Request, abs, contentType string) {
	f, err := os.Open(abs)
	if err != nil {
		s.serveFault(w, abs, err)
		return
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		s.serveFault(w, abs, err)
		return
	}

	w.Header().Set("Content-Type", contentType)
	http.ServeContent(w, r, info.Name(), info.ModTime(), f)
}

// serveNotFound renders the 404 document.
func (s *Server) serveNotFound(w http.ResponseWriter, rel string) {
	var buf bytes.Buffer
	if err := render.NotFound(&buf, rel); err != nil {
		s.serveFault(w, rel, err)
		return
	}
	s.writeHTML(w, http.StatusNotFound, buf.Bytes())
}

// serveFault reports a request-local server fault: I/O failure on a file
// that was confirmed to exist, a compiler that cannot run, or a renderer
// error. Other in-flight requests are unaffected.
func (s *Server) serveFault(w http.ResponseWriter, rel string, err error) {
	s.logger.Error("request failed", "path", rel, "error", err)
	http.Error(w, "internal server error", http.StatusInternalServerError)
}

func (s *Server) writeHTML(w http.ResponseWriter, status int, body []byte) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if _, err := w.Write(body); err != nil {
		s.logger.Error("failed to write response", "error", err)
	}
}
