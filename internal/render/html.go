// Package render turns parsed Ley documents into HTML pages.
//
// Output is never escaped. Ley sources are trusted, so text, names and link
// targets are written exactly as they appear in the document.
package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/starford/ley/internal/ley"
)

// Fallbacks for absent metadata.
const (
	DefaultTitle  = "Untitled Page"
	DefaultAuthor = "No Author"
	DefaultDate   = "Unknown Date"
	DefaultStyle  = "main.css"
)

const pageTemplate = `<html><head><title>%[1]s</title><meta charset="utf-8"><link rel="stylesheet" href="%[4]s"></head>` +
	`<body><h1>%[1]s</h1><div>%[2]s, %[3]s</div>%[5]s</body></html>`

// HTML renders doc as a complete page.
func HTML(doc *ley.Document) string {
	return fmt.Sprintf(pageTemplate,
		doc.Title.Or(DefaultTitle),
		doc.Author.Or(DefaultAuthor),
		doc.Date.Or(DefaultDate),
		doc.Style.Or(DefaultStyle),
		Body(doc.Children),
	)
}

// Write renders doc to w.
func Write(w io.Writer, doc *ley.Document) error {
	_, err := io.WriteString(w, HTML(doc))
	return err
}

// Body renders nodes without the page skeleton, starting at heading level 1.
func Body(nodes []ley.Node) string {
	var b strings.Builder
	writeNodes(&b, nodes, 1)
	return b.String()
}

// writeNodes renders a node sequence. depth is the heading level used for
// named sections and only grows when entering one.
func writeNodes(b *strings.Builder, nodes []ley.Node, depth int) {
	for _, n := range nodes {
		switch n := n.(type) {
		case *ley.Text:
			b.WriteString(n.Content.String())
			b.WriteByte(' ')
		case *ley.Section:
			writeSection(b, n, depth)
		case *ley.Comment:
		}
	}
}

func writeSection(b *strings.Builder, s *ley.Section, depth int) {
	named := s.Name != nil
	switch {
	case s.Kind == ley.KindSection && named:
		name := s.Name.String()
		fmt.Fprintf(b, `<h%d id="%s">%s</h%d><div class="depth_%d">`, depth, name, name, depth, depth)
		writeNodes(b, s.Children, depth+1)
		b.WriteString("</div>")
	case s.Kind == ley.KindSection, s.Kind == ley.KindParagraph:
		b.WriteString("<p>")
		writeNodes(b, s.Children, depth)
		b.WriteString("</p>")
	case s.Kind == ley.KindLink:
		if named {
			fmt.Fprintf(b, `<a href="%s">`, s.Name)
		} else {
			b.WriteString("<a>")
		}
		writeNodes(b, s.Children, depth)
		b.WriteString("</a>")
	case s.Kind == ley.KindCode:
		b.WriteString("<code>")
		writeNodes(b, s.Children, depth)
		b.WriteString("</code>")
	case s.Kind == ley.KindImage && named:
		fmt.Fprintf(b, `<img src="%s">`, s.Name)
	}
	// Metadata and anonymous images render nothing.
}
