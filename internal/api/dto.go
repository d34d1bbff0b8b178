package api

import (
	"github.com/starford/ley/internal/index"
	"github.com/starford/ley/internal/models"
	"github.com/starford/ley/internal/site"
)

// PageDetail is a manifest page plus the sources linking to it.
type PageDetail struct {
	models.Page
	Backlinks []string `json:"backlinks"`
}

// PageListResponse wraps page listings.
type PageListResponse struct {
	Pages []models.Page `json:"pages" validate:"required"`
	Total int           `json:"total" example:"42" validate:"required"`
}

// SearchResponse wraps search results.
type SearchResponse struct {
	Results []index.SearchResult `json:"results" validate:"required"`
}

// SourceResponse carries the raw text of a source file.
type SourceResponse struct {
	Path    string `json:"path" example:"guide/intro.ley" validate:"required"`
	Content string `json:"content" example:"!title:{Intro}" validate:"required"`
}

// BuildResponse is returned after a triggered build.
type BuildResponse = site.Report

// ParseErrorResponse describes why a document failed to parse.
type ParseErrorResponse struct {
	Error  string `json:"error" example:"unexpected end of file" validate:"required"`
	Kind   string `json:"kind" example:"end_of_file" validate:"required"`
	Text   string `json:"text,omitempty" example:"!"`
	Line   int    `json:"line,omitempty" example:"1"`
	Column int    `json:"column,omitempty" example:"1"`
}
