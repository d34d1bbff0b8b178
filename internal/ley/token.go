package ley

import "fmt"

// TokenType identifies the kind of a lexer token.
type TokenType uint8

const (
	TokenWord TokenType = iota
	TokenOpenBrace
	TokenCloseBrace
	TokenBang
	TokenColon
	TokenSemicolon

	// Reserved for inline markup. The lexer never produces these.
	TokenStar
	TokenDoubleStar
	TokenBacktick
	TokenUnderscore
	TokenTilde

	// TokenUnterminated is emitted once, as the final token, when the input
	// ends inside a quoted word.
	TokenUnterminated
)

// String returns the token type name.
func (t TokenType) String() string {
	switch t {
	case TokenWord:
		return "WORD"
	case TokenOpenBrace:
		return "{"
	case TokenCloseBrace:
		return "}"
	case TokenBang:
		return "!"
	case TokenColon:
		return ":"
	case TokenSemicolon:
		return ";"
	case TokenStar:
		return "*"
	case TokenDoubleStar:
		return "**"
	case TokenBacktick:
		return "`"
	case TokenUnderscore:
		return "_"
	case TokenTilde:
		return "~"
	case TokenUnterminated:
		return "UNTERMINATED"
	default:
		return "UNKNOWN"
	}
}

// Position is a location in the source text.
type Position struct {
	Offset int // byte offset
	Line   int // 1-based
	Column int // 1-based, in bytes
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// Token is one lexical unit. Text is a substring of the source for words and
// empty for punctuation.
type Token struct {
	Type TokenType
	Text string
	Pos  Position
}

// String returns a debug representation of the token.
func (t Token) String() string {
	if t.Type == TokenWord {
		return fmt.Sprintf("%s(%q)", t.Type, t.Text)
	}
	return t.Type.String()
}
