// Package render produces the HTML documents served by elmserve: code views,
// compile-error pages, directory listings, the not-found page, and the debug
// harness.
//
// Every renderer writes a complete text/html document. Templates are parsed
// once at init; all interpolation goes through html/template, so user
// content (file contents, paths, compiler diagnostics) is escaped and can
// never inject markup.
package render

import (
	"html/template"
	"io"
)

// Entry is one row of a directory listing.
type Entry struct {
	// Name is the entry's base name, without any trailing slash.
	Name string

	// Href is the slash-separated request path that reaches the entry.
	Href string

	// Dir reports whether the entry is a directory.
	Dir bool
}

const pageTmpl = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<link rel="stylesheet" href="/_elmserve/styles.css">
</head>
<body>
<header><h1><a href="/">~/</a>{{.Crumb}}</h1></header>
<main>
{{- if .Code}}
<pre class="code-view"><code>{{.Code}}</code></pre>
{{- end}}
{{- if .Errors}}
<pre class="compile-errors">{{.Errors}}</pre>
{{- end}}
{{- if .Entries}}
<ul class="listing">
{{- range .Entries}}
<li{{if .Dir}} class="dir"{{end}}><a href="/{{.Href}}">{{.Name}}</a></li>
{{- end}}
</ul>
{{- end}}
{{- if .NotFound}}
<div class="not-found">
<h2>404 &mdash; not found</h2>
<p>There is nothing at <code>{{.Crumb}}</code>.</p>
<p class="muted">Files in the served directory appear here by their relative path.</p>
</div>
{{- end}}
</main>
{{- if .WatchPath}}
<script src="/_elmserve/client.js" data-path="{{.WatchPath}}"></script>
{{- end}}
</body>
</html>
`

const harnessTmpl = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.File}} (debug)</title>
<link rel="stylesheet" href="/_elmserve/styles.css">
</head>
<body>
<header><h1><a href="/">~/</a>{{.File}}</h1></header>
<main>
<div id="debug-target"></div>
<p class="muted">Debug session for <code>{{.File}}</code> on {{.Host}}; compilation happens in this browser.</p>
</main>
<script>
window.elmserve = {
  host: {{.Host}},
  file: {{.File}},
  target: "debug-target"
};
</script>
<script src="/_elmserve/client.js" data-path="{{.File}}"></script>
</body>
</html>
`

var (
	page    = template.Must(template.New("page").Parse(pageTmpl))
	harness = template.Must(template.New("harness").Parse(harnessTmpl))
)

// pageData is the union of inputs the page template understands; each
// renderer fills only its section.
type pageData struct {
	Title     string
	Crumb     string
	Code      string
	Errors    string
	Entries   []Entry
	NotFound  bool
	WatchPath string
}

// CodeView renders a file's literal contents as a readable code page.
// The page is titled with a virtual "~/" prefix and subscribes to change
// notifications for the file.
func CodeView(w io.Writer, relPath, contents string) error {
	return page.Execute(w, pageData{
		Title:     "~/" + relPath,
		Crumb:     relPath,
		Code:      contents,
		WatchPath: relPath,
	})
}

// CompileErrors renders compiler diagnostics as a user-facing document.
// The page subscribes to change notifications so fixing the file reloads it.
func CompileErrors(w io.Writer, relPath, diagnostics string) error {
	return page.Execute(w, pageData{
		Title:     "Errors in ~/" + relPath,
		Crumb:     relPath,
		Errors:    diagnostics,
		WatchPath: relPath,
	})
}

// Listing renders a directory index. Entries are emitted in the order given.
func Listing(w io.Writer, relPath string, entries []Entry) error {
	return page.Execute(w, pageData{
		Title:   "~/" + relPath,
		Crumb:   relPath,
		Entries: entries,
	})
}

// NotFound renders the 404 document for a path that matched nothing.
func NotFound(w io.Writer, relPath string) error {
	return page.Execute(w, pageData{
		Title:    "404 ~/" + relPath,
		Crumb:    relPath,
		NotFound: true,
	})
}

// DebugHarness renders the client-side compilation harness for an Elm file.
// The server does not check that the file exists or compiles; the harness
// surfaces both failures in the browser.
func DebugHarness(w io.Writer, relPath, host string) error {
	return harness.Execute(w, struct {
		File string
		Host string
	}{File: relPath, Host: host})
}

