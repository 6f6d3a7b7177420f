package api

import (
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
)

const entryDocument = "index.html"

// spaHandler serves the pre-built frontend. Paths that don't name a file
// (or name a dotfile) get the entry document so client side routing works.
type spaHandler struct {
	dir   string
	files http.Handler
}

func newSPAHandler(dir string) *spaHandler {
	return &spaHandler{
		dir:   dir,
		files: http.FileServer(http.Dir(dir)),
	}
}

func (h *spaHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	name := path.Clean("/" + r.URL.Path)

	if !hidden(name) {
		full := filepath.Join(h.dir, filepath.FromSlash(name))
		if info, err := os.Stat(full); err == nil {
			if !info.IsDir() {
				serveFile(w, r, full)
				return
			}
			if _, err := os.Stat(filepath.Join(full, entryDocument)); err == nil {
				h.files.ServeHTTP(w, r)
				return
			}
		}
	}

	serveFile(w, r, filepath.Join(h.dir, entryDocument))
}

// serveFile writes the file at name without the index.html redirect that
// http.ServeFile and http.FileServer apply.
func serveFile(w http.ResponseWriter, r *http.Request, name string) {
	f, err := os.Open(name)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil || info.IsDir() {
		http.NotFound(w, r)
		return
	}

	http.ServeContent(w, r, info.Name(), info.ModTime(), f)
}

func hidden(name string) bool {
	for _, part := range strings.Split(name, "/") {
		if strings.HasPrefix(part, ".") {
			return true
		}
	}
	return false
}
