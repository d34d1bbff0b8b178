package api

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/starford/ley/internal/apperr"
	"github.com/starford/ley/internal/index"
	"github.com/starford/ley/internal/ley"
	"github.com/starford/ley/internal/models"
	"github.com/starford/ley/internal/site"
)

const maxSourceBytes = 10 << 20

// Handler holds API route handlers.
type Handler struct {
	builder  *site.Builder
	manifest index.Manifest
}

// NewHandler creates a new Handler.
func NewHandler(b *site.Builder, manifest index.Manifest) *Handler {
	return &Handler{builder: b, manifest: manifest}
}

// wildcardPath extracts the path after the route prefix.
// Supports encoded slashes from OpenAPI clients (e.g. guide%2Fintro.ley).
func wildcardPath(r *http.Request) string {
	raw := strings.TrimPrefix(chi.URLParam(r, "*"), "/")
	if raw == "" {
		return ""
	}
	decoded, err := url.PathUnescape(raw)
	if err != nil {
		return raw
	}
	return decoded
}

// ListPages handles GET /api/pages.
//
//	@Summary		List built pages ordered by source path
//	@Tags			pages
//	@Produce		json
//	@Success		200		{object}	PageListResponse
//	@Security		BearerAuth
//	@Router			/pages [get]
func (h *Handler) ListPages(w http.ResponseWriter, r *http.Request) {
	pages, err := h.manifest.ListPages()
	if err != nil {
		slog.Error("list pages failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	if pages == nil {
		pages = []models.Page{}
	}
	writeJSON(w, http.StatusOK, PageListResponse{Pages: pages, Total: len(pages)})
}

// GetPage handles GET /api/pages/*.
//
//	@Summary		Get a built page by source path
//	@Tags			pages
//	@Produce		json
//	@Param			path	path		string	true	"Source path"
//	@Success		200		{object}	PageDetail
//	@Failure		404		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/pages/{path} [get]
func (h *Handler) GetPage(w http.ResponseWriter, r *http.Request) {
	path := wildcardPath(r)
	if path == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("path is required"))
		return
	}
	page, err := h.manifest.GetPage(path)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, errorBody("not found"))
		} else {
			slog.Error("get page failed", slog.String("path", path), slog.String("error", err.Error()))
			writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		}
		return
	}
	bl, err := h.manifest.Backlinks(page.Output)
	if err != nil {
		slog.Error("backlinks failed", slog.String("path", path), slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	if page.Links == nil {
		page.Links = []string{}
	}
	if bl == nil {
		bl = []string{}
	}
	writeJSON(w, http.StatusOK, PageDetail{Page: *page, Backlinks: bl})
}

// GetSource handles GET /api/sources/*.
//
//	@Summary		Get the raw text of a source file
//	@Tags			pages
//	@Produce		json
//	@Param			path	path		string	true	"Source path"
//	@Success		200		{object}	SourceResponse
//	@Failure		404		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/sources/{path} [get]
func (h *Handler) GetSource(w http.ResponseWriter, r *http.Request) {
	path := wildcardPath(r)
	data, err := h.builder.ReadSource(path)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, errorBody("not found"))
		} else {
			slog.Error("read source failed", slog.String("path", path), slog.String("error", err.Error()))
			writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		}
		return
	}
	writeJSON(w, http.StatusOK, SourceResponse{Path: path, Content: string(data)})
}

// Render handles POST /api/render. The body is Ley source text; the response
// is the rendered page.
//
//	@Summary		Render Ley source to HTML
//	@Tags			render
//	@Accept			plain
//	@Produce		html
//	@Success		200		{string}	string	"Rendered page"
//	@Failure		422		{object}	ParseErrorResponse
//	@Security		BearerAuth
//	@Router			/render [post]
func (h *Handler) Render(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxSourceBytes)
	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("failed to read body"))
		return
	}

	_, html, err := h.builder.Render(body)
	if err != nil {
		var perr *ley.ParseError
		if errors.As(err, &perr) {
			writeJSON(w, http.StatusUnprocessableEntity, parseErrorBody(perr))
			return
		}
		slog.Error("render failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = io.WriteString(w, html)
}

// Build handles POST /api/build.
//
//	@Summary		Rebuild the site from the source tree
//	@Tags			render
//	@Produce		json
//	@Success		200		{object}	BuildResponse
//	@Failure		422		{object}	ParseErrorResponse
//	@Security		BearerAuth
//	@Router			/build [post]
func (h *Handler) Build(w http.ResponseWriter, r *http.Request) {
	report, err := h.builder.BuildAll(r.Context())
	if err != nil {
		var perr *ley.ParseError
		if errors.As(err, &perr) {
			body := parseErrorBody(perr)
			body.Error = err.Error()
			writeJSON(w, http.StatusUnprocessableEntity, body)
			return
		}
		slog.Error("build failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	writeJSON(w, http.StatusOK, report)
}

// Search handles GET /api/search.
//
//	@Summary		Full-text search across built pages
//	@Tags			search
//	@Produce		json
//	@Param			q		query		string	true	"Search query"
//	@Param			limit	query		int		false	"Max results"
//	@Success		200		{object}	SearchResponse
//	@Failure		400		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/search [get]
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	if q == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("query parameter 'q' is required"))
		return
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	results, err := h.manifest.Search(q, limit)
	if err != nil {
		slog.Error("search failed", slog.String("query", q), slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	if results == nil {
		results = []index.SearchResult{}
	}
	writeJSON(w, http.StatusOK, SearchResponse{Results: results})
}

func parseErrorBody(perr *ley.ParseError) ParseErrorResponse {
	body := ParseErrorResponse{
		Error: perr.Error(),
		Kind:  perr.Kind.String(),
		Text:  perr.Text,
	}
	if perr.HasPos {
		body.Line = perr.Pos.Line
		body.Column = perr.Pos.Column
	}
	return body
}
