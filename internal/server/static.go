package server

import (
	"io/fs"
	"net/http"
	"path"
	"strings"
)

var mimeTypes = map[string]string{
	".html": "text/html",
	".css":  "text/css",
	".js":   "application/javascript",
	".png":  "image/png",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".gif":  "image/gif",
}

const defaultMimeType = "application/octet-stream"

// staticFiles serves files from fsys, mapping the request path onto it.
// Directories resolve to their index.html. Only GET and HEAD are served.
type staticFiles struct {
	fsys fs.FS
}

func newStaticFiles(fsys fs.FS) http.Handler {
	return staticFiles{fsys: fsys}
}

func (h staticFiles) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		w.Header().Set("Allow", "GET, HEAD")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	name := staticPath(r.URL.Path)
	if info, err := fs.Stat(h.fsys, name); err == nil && info.IsDir() {
		name = path.Join(name, "index.html")
	}

	contents, err := fs.ReadFile(h.fsys, name)
	if err != nil {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte("File not found"))
		return
	}

	w.Header().Set("Content-Type", mimeType(name))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(contents)
}

// staticPath turns a URL path into an fs.FS name. Cleaning against "/" keeps
// ".." segments from climbing out of the static root.
func staticPath(urlPath string) string {
	name := strings.TrimPrefix(path.Clean("/"+urlPath), "/")
	if name == "" {
		return "."
	}
	return name
}

func mimeType(name string) string {
	if t, ok := mimeTypes[path.Ext(name)]; ok {
		return t
	}
	return defaultMimeType
}
