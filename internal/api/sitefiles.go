package api

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/starford/ley/internal/registry"
)

// SiteHandler serves files from the built output directory.
type SiteHandler struct {
	root string
}

// NewSiteHandler creates a handler rooted at the output directory.
func NewSiteHandler(root string) *SiteHandler {
	abs, err := filepath.Abs(root)
	if err != nil {
		abs = root
	}
	return &SiteHandler{root: abs}
}

// safePath resolves rel under the output root and rejects traversal and
// hidden files. An empty path or a directory maps to its index page.
func (h *SiteHandler) safePath(rel string) (string, error) {
	cleaned := filepath.Clean("/" + filepath.FromSlash(rel))
	for _, part := range strings.Split(cleaned, string(os.PathSeparator)) {
		if strings.HasPrefix(part, ".") {
			return "", fmt.Errorf("invalid path: %s", rel)
		}
	}
	abs := filepath.Join(h.root, cleaned)
	if !strings.HasPrefix(abs, h.root+string(os.PathSeparator)) && abs != h.root {
		return "", fmt.Errorf("path escapes site directory")
	}
	if info, err := os.Stat(abs); err == nil && info.IsDir() {
		abs = filepath.Join(abs, registry.IndexFile)
	}
	return abs, nil
}

// ServeFile handles GET /site/*.
func (h *SiteHandler) ServeFile(w http.ResponseWriter, r *http.Request) {
	abs, err := h.safePath(chi.URLParam(r, "*"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	info, statErr := os.Stat(abs)
	if statErr != nil || !info.Mode().IsRegular() {
		http.NotFound(w, r)
		return
	}
	http.ServeFile(w, r, abs)
}
