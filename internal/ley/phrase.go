package ley

import "strings"

// Phrase is an ordered run of words treated as one string value. A nil
// Phrase means the value is absent.
type Phrase []string

// PhraseOf splits s on whitespace. It returns nil when s has no words.
func PhraseOf(s string) Phrase {
	words := strings.Fields(s)
	if len(words) == 0 {
		return nil
	}
	return Phrase(words)
}

// String joins the words with single spaces.
func (p Phrase) String() string {
	return strings.Join(p, " ")
}

// Is reports whether the first word equals key. Metadata keys are matched
// this way, so "title of the page" is a title.
func (p Phrase) Is(key string) bool {
	return len(p) > 0 && p[0] == key
}

// Or returns the joined phrase, or fallback when the phrase is absent.
func (p Phrase) Or(fallback string) string {
	if p == nil {
		return fallback
	}
	return p.String()
}
