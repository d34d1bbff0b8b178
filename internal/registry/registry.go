// Package registry assembles the index page that links every built page.
package registry

import (
	"github.com/starford/ley/internal/ley"
)

// IndexTitle is the title of the generated index document.
const IndexTitle = "Index"

// IndexFile is the file name the index page is written to.
const IndexFile = "index.html"

// Page describes one rendered document.
type Page struct {
	Location string // output path relative to the site root, used as link target
	Title    string // display title
}

// Registry collects pages in the order they are added.
type Registry struct {
	pages []Page
}

// New returns a registry seeded with pages.
func New(pages ...Page) *Registry {
	return &Registry{pages: append([]Page(nil), pages...)}
}

// Add records a rendered page.
func (r *Registry) Add(location, title string) {
	r.pages = append(r.pages, Page{Location: location, Title: title})
}

// Pages returns the recorded pages.
func (r *Registry) Pages() []Page {
	return r.pages
}

// Document builds the index: one anonymous section holding, per page, a
// paragraph wrapping a link to it. style is used as the stylesheet.
func (r *Registry) Document(style string) *ley.Document {
	entries := make([]ley.Node, 0, len(r.pages))
	for _, p := range r.pages {
		link := ley.NewSection(ley.Phrase{p.Location}, ley.KindLink, ley.NewText(p.Title))
		entries = append(entries, ley.NewSection(nil, ley.KindParagraph, link))
	}

	doc := ley.NewDocument(ley.NewSection(nil, ley.KindSection, entries...))
	doc.Title = ley.PhraseOf(IndexTitle)
	doc.Style = ley.PhraseOf(style)
	return doc
}
