// Package ley tokenizes and parses Ley markup into a document tree.
//
// A Ley document is a sequence of text runs and brace-delimited sections:
//
//	!title:{My Page}
//	!Introduction:{
//	    Some words. !example.com:link{a link}
//	}
//	!;{a comment, parsed and dropped}
package ley

import "log/slog"

// Document is a parsed Ley source: the content tree plus metadata taken from
// top-level metadata sections. Absent metadata fields are nil.
type Document struct {
	Children []Node

	Title  Phrase
	Author Phrase
	Date   Phrase
	Style  Phrase
}

// NewDocument builds a document from already constructed nodes.
func NewDocument(children ...Node) *Document {
	return &Document{Children: children}
}

// Option configures Parse.
type Option func(*options)

type options struct {
	style  Phrase
	logger *slog.Logger
}

// WithStyle sets the stylesheet used when the document declares none.
func WithStyle(style string) Option {
	return func(o *options) {
		o.style = PhraseOf(style)
	}
}

// WithLogger sets the logger that receives warnings about dropped metadata.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// Parse tokenizes and parses a complete source text.
func Parse(source string, opts ...Option) (*Document, error) {
	return ParseTokens(Tokenize(source), opts...)
}

// ParseTokens builds a document from a token stream. There is no partial
// result: any error discards the whole document.
func ParseTokens(tokens []Token, opts ...Option) (*Document, error) {
	o := options{logger: slog.Default()}
	for _, opt := range opts {
		opt(&o)
	}

	doc := &Document{}
	p := &parser{tokens: tokens}
	for !p.done() {
		n, err := p.parseNode(true)
		if err != nil {
			return nil, err
		}
		switch n := n.(type) {
		case *Comment:
			continue
		case *Section:
			if n.Kind == KindMetadata {
				if err := doc.absorb(n, o.logger); err != nil {
					return nil, err
				}
				continue
			}
		}
		doc.Children = append(doc.Children, n)
	}

	if doc.Style == nil {
		doc.Style = o.style
	}
	return doc, nil
}

// absorb stores a top-level metadata section. Later sections overwrite
// earlier ones.
func (d *Document) absorb(s *Section, logger *slog.Logger) error {
	var field *Phrase
	switch {
	case s.Name.Is("title"):
		field = &d.Title
	case s.Name.Is("author"):
		field = &d.Author
	case s.Name.Is("date"):
		field = &d.Date
	case s.Name.Is("style"):
		field = &d.Style
	case s.Name == nil:
		logger.Warn("ley: metadata section without a name dropped")
		return nil
	default:
		logger.Warn("ley: unknown metadata dropped", slog.String("name", s.Name[0]))
		return nil
	}

	if len(s.Children) != 1 {
		return &ParseError{Kind: KindExpectedString}
	}
	text, ok := s.Children[0].(*Text)
	if !ok {
		return &ParseError{Kind: KindExpectedString}
	}
	*field = text.Content
	return nil
}
