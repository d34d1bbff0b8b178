package ley

import "strings"

const tripleQuote = `"""`

var punctuation = map[byte]TokenType{
	'{': TokenOpenBrace,
	'}': TokenCloseBrace,
	'!': TokenBang,
	':': TokenColon,
	';': TokenSemicolon,
}

// Lexer splits Ley source text into tokens.
type Lexer struct {
	input  string
	pos    int // current byte offset
	line   int // 1-based
	col    int // 1-based
	tokens []Token
}

// NewLexer creates a lexer over input.
func NewLexer(input string) *Lexer {
	return &Lexer{input: input, line: 1, col: 1}
}

// Tokenize is shorthand for NewLexer(source).Tokenize().
func Tokenize(source string) []Token {
	return NewLexer(source).Tokenize()
}

// Tokenize consumes the whole input and returns its tokens. It never fails:
// if the input ends inside a quoted word the stream stops with a single
// TokenUnterminated, which the parser reports as an end-of-file error.
func (l *Lexer) Tokenize() []Token {
	for l.pos < len(l.input) {
		ch := l.input[l.pos]
		switch {
		case isSpace(ch):
			l.advance()
		case ch == '"':
			if !l.quoted() {
				return l.tokens
			}
		default:
			if typ, ok := punctuation[ch]; ok {
				l.tokens = append(l.tokens, Token{Type: typ, Pos: l.position()})
				l.advance()
				continue
			}
			l.word()
		}
	}
	return l.tokens
}

// word scans a run of ordinary characters.
func (l *Lexer) word() {
	start, startPos := l.pos, l.position()
	for l.pos < len(l.input) && isWordByte(l.input[l.pos]) {
		l.advance()
	}
	l.tokens = append(l.tokens, Token{Type: TokenWord, Text: l.input[start:l.pos], Pos: startPos})
}

// quoted scans a "..." or """...""" word. It reports false when the input
// ends before the closing delimiter.
func (l *Lexer) quoted() bool {
	startPos := l.position()
	delim := `"`
	if strings.HasPrefix(l.input[l.pos:], tripleQuote) {
		delim = tripleQuote
	}
	l.advanceN(len(delim))

	end := strings.Index(l.input[l.pos:], delim)
	if end < 0 {
		l.tokens = append(l.tokens, Token{Type: TokenUnterminated, Pos: startPos})
		l.advanceN(len(l.input) - l.pos)
		return false
	}
	text := l.input[l.pos : l.pos+end]
	l.advanceN(end + len(delim))
	l.tokens = append(l.tokens, Token{Type: TokenWord, Text: text, Pos: startPos})
	return true
}

func (l *Lexer) position() Position {
	return Position{Offset: l.pos, Line: l.line, Column: l.col}
}

func (l *Lexer) advance() {
	if l.input[l.pos] == '\n' {
		l.line++
		l.col = 1
	} else {
		l.col++
	}
	l.pos++
}

func (l *Lexer) advanceN(n int) {
	for i := 0; i < n; i++ {
		l.advance()
	}
}

func isSpace(ch byte) bool {
	return ch == ' ' || ch == '\t' || ch == '\r' || ch == '\n'
}

func isWordByte(ch byte) bool {
	if isSpace(ch) || ch == '"' {
		return false
	}
	_, special := punctuation[ch]
	return !special
}
