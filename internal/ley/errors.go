package ley

import "fmt"

// ErrorKind classifies a parse failure.
type ErrorKind uint8

const (
	KindEndOfFile ErrorKind = iota + 1
	KindUnclosedSection
	KindUnexpectedCloseBracket
	KindUnknownSection
	KindExpectedColon
	KindExpectedOpenBrace
	KindExpectedString
)

// String returns a stable identifier for the kind, suitable for logs and
// API responses.
func (k ErrorKind) String() string {
	switch k {
	case KindEndOfFile:
		return "end_of_file"
	case KindUnclosedSection:
		return "unclosed_section"
	case KindUnexpectedCloseBracket:
		return "unexpected_close_bracket"
	case KindUnknownSection:
		return "unknown_section"
	case KindExpectedColon:
		return "expected_colon"
	case KindExpectedOpenBrace:
		return "expected_open_brace"
	case KindExpectedString:
		return "expected_string"
	default:
		return "unknown"
	}
}

// Sentinels for errors.Is. Only the kind is compared.
var (
	ErrEndOfFile              = &ParseError{Kind: KindEndOfFile}
	ErrUnclosedSection        = &ParseError{Kind: KindUnclosedSection}
	ErrUnexpectedCloseBracket = &ParseError{Kind: KindUnexpectedCloseBracket}
	ErrUnknownSection         = &ParseError{Kind: KindUnknownSection}
	ErrExpectedColon          = &ParseError{Kind: KindExpectedColon}
	ErrExpectedOpenBrace      = &ParseError{Kind: KindExpectedOpenBrace}
	ErrExpectedString         = &ParseError{Kind: KindExpectedString}
)

// ParseError is returned for any malformed document.
type ParseError struct {
	Kind ErrorKind
	// Text is the offending keyword for KindUnknownSection and the offending
	// token for KindUnexpectedCloseBracket.
	Text string
	Pos  Position
	// HasPos is false when the error has no single source location, such as
	// running off the end of the stream.
	HasPos bool
}

// Message returns the human-readable description without location.
func (e *ParseError) Message() string {
	switch e.Kind {
	case KindEndOfFile:
		return "unexpected end of file"
	case KindUnclosedSection:
		return "unclosed section, expected `}`"
	case KindUnexpectedCloseBracket:
		text := e.Text
		if text == "" {
			text = "}"
		}
		return fmt.Sprintf("unexpected `%s`", text)
	case KindUnknownSection:
		return fmt.Sprintf("unknown section kind `%s`", e.Text)
	case KindExpectedColon:
		return "expected `:`"
	case KindExpectedOpenBrace:
		return "expected `{`"
	case KindExpectedString:
		return "expected a string"
	default:
		return "parse error"
	}
}

func (e *ParseError) Error() string {
	if !e.HasPos {
		return e.Message()
	}
	return fmt.Sprintf("%s at %s", e.Message(), e.Pos)
}

// Is matches another *ParseError of the same kind.
func (e *ParseError) Is(target error) bool {
	t, ok := target.(*ParseError)
	return ok && t.Kind == e.Kind
}

func errAt(kind ErrorKind, tok Token) *ParseError {
	return &ParseError{Kind: kind, Pos: tok.Pos, HasPos: true}
}
