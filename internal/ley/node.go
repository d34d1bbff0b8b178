package ley

// SectionKind selects how a section is rendered. All kinds parse the same way.
type SectionKind uint8

const (
	KindSection SectionKind = iota
	KindParagraph
	KindMetadata
	KindLink
	KindImage
	KindCode
)

var sectionKeywords = map[string]SectionKind{
	"section":   KindSection,
	"paragraph": KindParagraph,
	"para":      KindParagraph,
	"p":         KindParagraph,
	"meta":      KindMetadata,
	"metadata":  KindMetadata,
	"link":      KindLink,
	"image":     KindImage,
	"img":       KindImage,
	"code":      KindCode,
	"lang":      KindCode,
}

// LookupKind resolves a section keyword such as "para" or "img".
func LookupKind(keyword string) (SectionKind, bool) {
	k, ok := sectionKeywords[keyword]
	return k, ok
}

func (k SectionKind) String() string {
	switch k {
	case KindSection:
		return "section"
	case KindParagraph:
		return "paragraph"
	case KindMetadata:
		return "metadata"
	case KindLink:
		return "link"
	case KindImage:
		return "image"
	case KindCode:
		return "code"
	default:
		return "unknown"
	}
}

// Node is one element of a document tree: *Section, *Text or *Comment.
type Node interface {
	node()
}

// Section is a brace-delimited node with an optional name.
type Section struct {
	Name     Phrase
	Kind     SectionKind
	Children []Node
}

// Text is a run of words.
type Text struct {
	Content Phrase
}

// Comment marks a discarded section. It carries nothing.
type Comment struct{}

func (*Section) node() {}
func (*Text) node()    {}
func (*Comment) node() {}

// NewSection builds a section node. A nil name makes it anonymous.
func NewSection(name Phrase, kind SectionKind, children ...Node) *Section {
	return &Section{Name: name, Kind: kind, Children: children}
}

// NewText builds a text node from s, normalising whitespace.
func NewText(s string) *Text {
	return &Text{Content: PhraseOf(s)}
}

// Walk visits nodes depth-first in document order. Returning false from fn
// skips the node's children.
func Walk(nodes []Node, fn func(Node) bool) {
	for _, n := range nodes {
		if !fn(n) {
			continue
		}
		if s, ok := n.(*Section); ok {
			Walk(s.Children, fn)
		}
	}
}
