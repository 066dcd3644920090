package api

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
)

// pathID returns the trimmed {id} path parameter. Format checks are left to
// the store, which knows its own id shape.
func pathID(r *http.Request) string {
	return strings.TrimSpace(chi.URLParam(r, "id"))
}
