package ley

// metadataKeys are the names a keyword-less top-level section may use to
// declare metadata, as in !title:{My Page}.
var metadataKeys = []string{"title", "author", "date", "style"}

// parser is the cursor over a token slice. One parser is used per document.
type parser struct {
	tokens []Token
	pos    int
}

func (p *parser) done() bool {
	return p.pos >= len(p.tokens)
}

func (p *parser) peek() (Token, bool) {
	if p.done() {
		return Token{}, false
	}
	return p.tokens[p.pos], true
}

// next consumes one token. Running out of tokens, or reaching the marker left
// by an unterminated quote, is an end-of-file error.
func (p *parser) next() (Token, error) {
	tok, ok := p.peek()
	if !ok {
		return Token{}, &ParseError{Kind: KindEndOfFile}
	}
	if tok.Type == TokenUnterminated {
		return tok, errAt(KindEndOfFile, tok)
	}
	p.pos++
	return tok, nil
}

// words consumes the longest run of word tokens. It returns nil for an empty run.
func (p *parser) words() Phrase {
	var out Phrase
	for {
		tok, ok := p.peek()
		if !ok || tok.Type != TokenWord {
			return out
		}
		out = append(out, tok.Text)
		p.pos++
	}
}

// parseNode parses one node. top is true only for direct children of the
// document.
func (p *parser) parseNode(top bool) (Node, error) {
	tok, err := p.next()
	if err != nil {
		return nil, err
	}
	switch tok.Type {
	case TokenBang:
		return p.parseSection(tok, top)
	case TokenWord:
		content := append(Phrase{tok.Text}, p.words()...)
		return &Text{Content: content}, nil
	default:
		e := errAt(KindUnexpectedCloseBracket, tok)
		e.Text = tok.Type.String()
		return nil, e
	}
}

func (p *parser) parseSection(bang Token, top bool) (Node, error) {
	name := p.words()

	delim, err := p.next()
	if err != nil {
		return nil, err
	}
	var comment bool
	switch delim.Type {
	case TokenColon:
	case TokenSemicolon:
		comment = true
	default:
		return nil, errAt(KindExpectedColon, delim)
	}

	kind, err := p.parseKind(name, comment, top)
	if err != nil {
		return nil, err
	}

	var children []Node
	for {
		tok, ok := p.peek()
		if !ok {
			return nil, errAt(KindUnclosedSection, bang)
		}
		if tok.Type == TokenCloseBrace {
			p.pos++
			break
		}
		child, err := p.parseNode(false)
		if err != nil {
			return nil, err
		}
		if _, skip := child.(*Comment); skip {
			continue
		}
		children = append(children, child)
	}

	if comment {
		return &Comment{}, nil
	}
	return &Section{Name: name, Kind: kind, Children: children}, nil
}

// parseKind consumes the optional kind keyword and the opening brace.
func (p *parser) parseKind(name Phrase, comment, top bool) (SectionKind, error) {
	tok, err := p.next()
	if err != nil {
		return 0, err
	}
	switch tok.Type {
	case TokenWord:
		brace, err := p.next()
		if err != nil {
			return 0, err
		}
		if brace.Type != TokenOpenBrace {
			return 0, errAt(KindExpectedOpenBrace, brace)
		}
		if comment {
			return KindSection, nil
		}
		kind, ok := LookupKind(tok.Text)
		if !ok {
			e := errAt(KindUnknownSection, tok)
			e.Text = tok.Text
			return 0, e
		}
		return kind, nil
	case TokenOpenBrace:
		switch {
		case name == nil:
			return KindParagraph, nil
		case top && !comment && isMetadataKey(name):
			return KindMetadata, nil
		default:
			return KindSection, nil
		}
	default:
		return 0, errAt(KindExpectedOpenBrace, tok)
	}
}

func isMetadataKey(name Phrase) bool {
	for _, key := range metadataKeys {
		if name.Is(key) {
			return true
		}
	}
	return false
}
