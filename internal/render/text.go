package render

import (
	"strings"

	"github.com/starford/ley/internal/ley"
)

// PlainText returns the visible words of doc joined by single spaces.
// Metadata sections and images contribute nothing, as in HTML output.
func PlainText(doc *ley.Document) string {
	var words []string
	ley.Walk(doc.Children, func(n ley.Node) bool {
		switch n := n.(type) {
		case *ley.Text:
			words = append(words, n.Content...)
		case *ley.Section:
			if n.Kind == ley.KindMetadata || n.Kind == ley.KindImage {
				return false
			}
			if n.Kind == ley.KindSection && n.Name != nil {
				words = append(words, n.Name...)
			}
		}
		return true
	})
	return strings.Join(words, " ")
}

// Links returns the targets of named link sections in document order,
// without duplicates.
func Links(doc *ley.Document) []string {
	seen := make(map[string]struct{})
	var out []string
	ley.Walk(doc.Children, func(n ley.Node) bool {
		s, ok := n.(*ley.Section)
		if !ok || s.Kind != ley.KindLink || s.Name == nil {
			return true
		}
		target := s.Name.String()
		if _, dup := seen[target]; !dup {
			seen[target] = struct{}{}
			out = append(out, target)
		}
		return true
	})
	return out
}
