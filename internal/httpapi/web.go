package httpapi

import (
	_ "embed"
	"net/http"
)

//go:embed index.html
var indexHTML []byte

// handleIndex serves the embedded demo page at the root; everything else
// falls through to a JSON 404.
func (r *Router) handleIndex(w http.ResponseWriter, req *http.Request) {
	if req.URL.Path != "/" {
		writeError(w, http.StatusNotFound, "not_found", "the requested endpoint does not exist")
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(indexHTML)
}
