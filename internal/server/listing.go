package server

import (
	"bytes"
	"net/http"
	"os"
	"path"
	"sort"

	"github.com/jpalmerr/elmserve/internal/render"
)

// serveListing renders an explicit directory index: directories first, then
// files, each group sorted by name. There is no index.html auto-serving; a
// directory request always gets the listing.
func (s *Server) serveListing(w http.ResponseWriter, rel, abs string) {
	dirents, err := readDir(abs)
	if err != nil {
		s.serveFault(w, rel, err)
		return
	}

	entries := make([]render.Entry, 0, len(dirents))
	for _, d := range dirents {
		entries = append(entries, render.Entry{
			Name: d.name,
			Href: path.Join(rel, d.name),
			Dir:  d.dir,
		})
	}

	var buf bytes.Buffer
	if err := render.Listing(&buf, rel, entries); err != nil {
		s.serveFault(w, rel, err)
		return
	}
	s.writeHTML(w, http.StatusOK, buf.Bytes())
}

type dirent struct {
	name string
	dir  bool
}

// readDir enumerates a directory with directories ordered before files.
// os.ReadDir already sorts by name; the stable partition preserves that
// order within each group.
func readDir(abs string) ([]dirent, error) {
	raw, err := os.ReadDir(abs)
	if err != nil {
		return nil, err
	}
	entries := make([]dirent, 0, len(raw))
	for _, e := range raw {
		entries = append(entries, dirent{name: e.Name(), dir: e.IsDir()})
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].dir && !entries[j].dir
	})
	return entries, nil
}
