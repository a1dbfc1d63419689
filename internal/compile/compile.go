// Package compile invokes the Elm compiler and reports its outcome.
//
// The compiler is treated as a black box behind the [Compiler] interface:
// it either produces a renderable HTML document or a set of diagnostics.
// Both are ordinary outcomes carried by [Result]; only failures to run the
// compiler at all (binary missing, I/O errors) surface as Go errors.
package compile

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"strings"
	"time"
)

// Compiler turns an Elm source file into a renderable outcome.
//
// Implementations must be safe for concurrent use; the server invokes
// Compile from independent request handlers.
type Compiler interface {
	// Compile builds the file at the given path, relative to the project
	// root. It returns a non-nil Result for both successful builds and
	// compile failures; an error means the compiler could not be run.
	Compile(ctx context.Context, file string) (*Result, error)
}

// Result is the outcome of one compiler invocation: exactly one of HTML or
// Diagnostics is populated.
type Result struct {
	// HTML is the compiled document, present on success.
	HTML []byte

	// Diagnostics is the human-readable compiler report, present on failure.
	Diagnostics string
}

// Failed reports whether the result carries diagnostics instead of a
// compiled document.
func (r *Result) Failed() bool {
	return len(r.HTML) == 0
}

const defaultTimeout = 30 * time.Second

// ElmCompiler runs the elm binary to build files. The zero value is not
// usable; construct with [NewElm].
type ElmCompiler struct {
	binary  string
	dir     string
	timeout time.Duration
	logger  *slog.Logger
}

// NewElm creates an [ElmCompiler] that builds files inside dir (the
// directory containing elm.json). The binary is looked up on PATH as "elm"
// unless overridden with [ElmCompiler.SetBinary].
func NewElm(dir string, logger *slog.Logger) *ElmCompiler {
	if logger == nil {
		logger = slog.Default()
	}
	return &ElmCompiler{
		binary:  "elm",
		dir:     dir,
		timeout: defaultTimeout,
		logger:  logger,
	}
}

// SetBinary overrides the compiler executable; accepts a bare name looked
// up on PATH or an absolute path.
func (c *ElmCompiler) SetBinary(path string) {
	c.binary = path
}

// Compile builds file with "elm make --report=json".
//
// Compiler exit with diagnostics is returned as a failed [Result], not an
// error. Output goes through a temp file because elm writes documents to
// disk rather than stdout.
func (c *ElmCompiler) Compile(ctx context.Context, file string) (*Result, error) {
	tmp, err := os.CreateTemp("", "elmserve-*.html")
	if err != nil {
		return nil, fmt.Errorf("create output file: %w", err)
	}
	tmpName := tmp.Name()
	tmp.Close()
	defer os.Remove(tmpName)

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	start := time.Now()
	cmd := exec.CommandContext(ctx, c.binary, "make", file, "--output="+tmpName, "--report=json")
	cmd.Dir = c.dir
	cmd.Stdout = io.Discard
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	runErr := cmd.Run()
	elapsed := time.Since(start)

	if runErr != nil {
		var exitErr *exec.ExitError
		if !errors.As(runErr, &exitErr) {
			return nil, fmt.Errorf("run %s: %w", c.binary, runErr)
		}
		c.logger.Debug("compile failed",
			"file", file,
			"duration_ms", elapsed.Milliseconds(),
		)
		return &Result{Diagnostics: FormatReport(stderr.Bytes())}, nil
	}

	html, err := os.ReadFile(tmpName)
	if err != nil {
		return nil, fmt.Errorf("read compiled output: %w", err)
	}
	c.logger.Debug("compile succeeded",
		"file", file,
		"duration_ms", elapsed.Milliseconds(),
		"bytes", len(html),
	)
	return &Result{HTML: html}, nil
}

// report mirrors the elm --report=json error formats. Two shapes exist:
// "compile-errors" with per-file problem lists, and "error" for
// project-level failures (bad elm.json, missing source directories).
type report struct {
	Type    string  `json:"type"`
	Path    string  `json:"path"`
	Title   string  `json:"title"`
	Message []chunk `json:"message"`
	Errors  []struct {
		Path     string `json:"path"`
		Problems []struct {
			Title   string  `json:"title"`
			Message []chunk `json:"message"`
		} `json:"problems"`
	} `json:"errors"`
}

// chunk is one piece of an elm error message: either a plain string or a
// styled object carrying its text in a "string" field.
type chunk struct {
	text string
}

func (c *chunk) UnmarshalJSON(b []byte) error {
	if len(b) > 0 && b[0] == '"' {
		return json.Unmarshal(b, &c.text)
	}
	var styled struct {
		String string `json:"string"`
	}
	if err := json.Unmarshal(b, &styled); err != nil {
		return err
	}
	c.text = styled.String
	return nil
}

// FormatReport flattens an elm JSON error report into display text.
// Input that is not a recognizable report (older compilers, crashes) is
// passed through verbatim so the user still sees something actionable.
func FormatReport(raw []byte) string {
	var rep report
	if err := json.Unmarshal(raw, &rep); err != nil {
		return string(raw)
	}

	var b strings.Builder
	switch rep.Type {
	case "compile-errors":
		for _, e := range rep.Errors {
			for _, p := range e.Problems {
				writeProblem(&b, p.Title, e.Path, p.Message)
			}
		}
	case "error":
		writeProblem(&b, rep.Title, rep.Path, rep.Message)
	default:
		return string(raw)
	}
	return b.String()
}

func writeProblem(b *strings.Builder, title, path string, message []chunk) {
	if b.Len() > 0 {
		b.WriteString("\n\n")
	}
	header := "-- " + title + " "
	if pad := 60 - len(header) - len(path); pad > 1 {
		header += strings.Repeat("-", pad)
	} else {
		header += "----"
	}
	b.WriteString(header + " " + path + "\n\n")
	for _, ch := range message {
		b.WriteString(ch.text)
	}
	b.WriteString("\n")
}
