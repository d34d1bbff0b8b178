package ley

import (
	"bytes"
	"errors"
	"log/slog"
	"reflect"
	"strings"
	"testing"
)

func mustParse(t *testing.T, src string, opts ...Option) *Document {
	t.Helper()
	doc, err := Parse(src, opts...)
	if err != nil {
		t.Fatalf("Parse(%q): %v", src, err)
	}
	return doc
}

func TestParse_Empty(t *testing.T) {
	doc := mustParse(t, "")
	if len(doc.Children) != 0 {
		t.Errorf("children = %v, want none", doc.Children)
	}
	if doc.Title != nil || doc.Author != nil || doc.Date != nil || doc.Style != nil {
		t.Errorf("metadata should be absent: %+v", doc)
	}
}

func TestParse_TitleAndParagraph(t *testing.T) {
	doc := mustParse(t, "!title:{Hello} !:{World}")
	if doc.Title.String() != "Hello" {
		t.Errorf("title = %q, want %q", doc.Title, "Hello")
	}
	want := []Node{
		&Section{Kind: KindParagraph, Children: []Node{&Text{Content: Phrase{"World"}}}},
	}
	if !reflect.DeepEqual(doc.Children, want) {
		t.Errorf("children = %#v", doc.Children)
	}
}

func TestParse_Link(t *testing.T) {
	doc := mustParse(t, "!example.com:link{Click here}")
	if len(doc.Children) != 1 {
		t.Fatalf("len = %d", len(doc.Children))
	}
	s, ok := doc.Children[0].(*Section)
	if !ok {
		t.Fatalf("child is %T", doc.Children[0])
	}
	if s.Kind != KindLink || s.Name.String() != "example.com" {
		t.Errorf("section = %v %q", s.Kind, s.Name)
	}
	if len(s.Children) != 1 || s.Children[0].(*Text).Content.String() != "Click here" {
		t.Errorf("children = %#v", s.Children)
	}
}

func TestParse_KindKeywords(t *testing.T) {
	cases := map[string]SectionKind{
		"section": KindSection, "paragraph": KindParagraph, "para": KindParagraph,
		"p": KindParagraph, "link": KindLink, "image": KindImage, "img": KindImage,
		"code": KindCode, "lang": KindCode,
	}
	for kw, want := range cases {
		doc := mustParse(t, "!x:"+kw+"{y}")
		s := doc.Children[0].(*Section)
		if s.Kind != want {
			t.Errorf("%s: kind = %v, want %v", kw, s.Kind, want)
		}
	}
}

func TestParse_DefaultKinds(t *testing.T) {
	doc := mustParse(t, "!:{a} !Named:{b}")
	if k := doc.Children[0].(*Section).Kind; k != KindParagraph {
		t.Errorf("anonymous kind = %v, want paragraph", k)
	}
	if k := doc.Children[1].(*Section).Kind; k != KindSection {
		t.Errorf("named kind = %v, want section", k)
	}
}

func TestParse_TextRunsMerge(t *testing.T) {
	doc := mustParse(t, "one two\nthree")
	if len(doc.Children) != 1 {
		t.Fatalf("len = %d", len(doc.Children))
	}
	if got := doc.Children[0].(*Text).Content; !reflect.DeepEqual(got, Phrase{"one", "two", "three"}) {
		t.Errorf("content = %v", got)
	}
}

func TestParse_Nested(t *testing.T) {
	doc := mustParse(t, "!A:{ !B:{ !C:{ deep } } }")
	depth := 0
	nodes := doc.Children
	for len(nodes) == 1 {
		s, ok := nodes[0].(*Section)
		if !ok {
			break
		}
		depth++
		nodes = s.Children
	}
	if depth != 3 {
		t.Errorf("depth = %d, want 3", depth)
	}
}

func TestParse_CommentDiscarded(t *testing.T) {
	doc := mustParse(t, "!;{ignored content}")
	if len(doc.Children) != 0 {
		t.Errorf("children = %v, want none", doc.Children)
	}
	doc = mustParse(t, "!:{a !;{b} c}")
	p := doc.Children[0].(*Section)
	if len(p.Children) != 2 {
		t.Errorf("nested comment kept: %#v", p.Children)
	}
}

func TestParse_CommentKeywordNotValidated(t *testing.T) {
	doc := mustParse(t, "!note;whatever{ !x:{y} }")
	if len(doc.Children) != 0 {
		t.Errorf("children = %v", doc.Children)
	}
}

func TestParse_CommentMustBalance(t *testing.T) {
	_, err := Parse("!;{ open")
	if !errors.Is(err, ErrUnclosedSection) {
		t.Errorf("err = %v, want unclosed section", err)
	}
}

func TestParse_MetadataLastWriteWins(t *testing.T) {
	doc := mustParse(t, "!title:{a} !title:{b} !title:{a}")
	if doc.Title.String() != "a" {
		t.Errorf("title = %q, want %q", doc.Title, "a")
	}
	doc = mustParse(t, "!title:{first} !title:meta{second}")
	if doc.Title.String() != "second" {
		t.Errorf("title = %q, want %q", doc.Title, "second")
	}
}

func TestParse_MetadataIgnoresComments(t *testing.T) {
	doc := mustParse(t, "!title:{!;{x} Hello}")
	if doc.Title.String() != "Hello" {
		t.Errorf("title = %q, want %q", doc.Title, "Hello")
	}
	if len(doc.Children) != 0 {
		t.Errorf("children = %v", doc.Children)
	}
}

func TestParse_AllMetadata(t *testing.T) {
	doc := mustParse(t, `!title:{T} !author:meta{Ann Lee} !date:metadata{2021} !style:{site.css} body`)
	if doc.Title.String() != "T" || doc.Author.String() != "Ann Lee" ||
		doc.Date.String() != "2021" || doc.Style.String() != "site.css" {
		t.Errorf("metadata = %+v", doc)
	}
	if len(doc.Children) != 1 {
		t.Errorf("children = %v", doc.Children)
	}
}

func TestParse_MetadataKeyUsesFirstWord(t *testing.T) {
	doc := mustParse(t, "!title of page:meta{X}")
	if doc.Title.String() != "X" {
		t.Errorf("title = %q", doc.Title)
	}
}

func TestParse_StyleFallback(t *testing.T) {
	doc := mustParse(t, "text", WithStyle("ext.css"))
	if doc.Style.String() != "ext.css" {
		t.Errorf("style = %q, want ext.css", doc.Style)
	}
	doc = mustParse(t, "!style:{own.css}", WithStyle("ext.css"))
	if doc.Style.String() != "own.css" {
		t.Errorf("style = %q, want own.css", doc.Style)
	}
}

func TestParse_UnknownMetadataWarns(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	doc := mustParse(t, "!colour:meta{red} text", WithLogger(logger))
	if len(doc.Children) != 1 {
		t.Errorf("children = %v", doc.Children)
	}
	if !strings.Contains(buf.String(), "colour") {
		t.Errorf("expected warning naming the key, got %q", buf.String())
	}
}

func TestParse_NestedMetadataKept(t *testing.T) {
	doc := mustParse(t, "!Outer:{ !title:meta{inner} }")
	if doc.Title != nil {
		t.Errorf("nested metadata absorbed: %q", doc.Title)
	}
	outer := doc.Children[0].(*Section)
	if outer.Children[0].(*Section).Kind != KindMetadata {
		t.Errorf("nested kind = %v", outer.Children[0].(*Section).Kind)
	}
}

func TestParse_NestedMetadataShorthandIsSection(t *testing.T) {
	doc := mustParse(t, "!Outer:{ !title:{inner} }")
	inner := doc.Children[0].(*Section).Children[0].(*Section)
	if inner.Kind != KindSection {
		t.Errorf("kind = %v, want section", inner.Kind)
	}
}

func TestParse_Errors(t *testing.T) {
	cases := []struct {
		src  string
		want *ParseError
	}{
		{"!:{hello", ErrUnclosedSection},
		{"!A:{ !B:{ x }", ErrUnclosedSection},
		{"}", ErrUnexpectedCloseBracket},
		{"word :", ErrUnexpectedCloseBracket},
		{"!:{ ; }", ErrUnexpectedCloseBracket},
		{"!x:bogus{y}", ErrUnknownSection},
		{"!x{y}", ErrExpectedColon},
		{"!x:link y", ErrExpectedOpenBrace},
		{"!x:}", ErrExpectedOpenBrace},
		{"!title:{}", ErrExpectedString},
		{"!title:{ !:{x} }", ErrExpectedString},
		{"!title:{a !:{b} c}", ErrExpectedString},
		{"!", ErrEndOfFile},
		{"!x:", ErrEndOfFile},
		{"!x:link", ErrEndOfFile},
		{`!:{ "unterminated }`, ErrEndOfFile},
	}
	for _, tc := range cases {
		doc, err := Parse(tc.src)
		if err == nil {
			t.Errorf("%q: expected error, got %#v", tc.src, doc)
			continue
		}
		if !errors.Is(err, tc.want) {
			t.Errorf("%q: err = %v, want kind %v", tc.src, err, tc.want.Kind)
		}
		if doc != nil {
			t.Errorf("%q: partial document returned", tc.src)
		}
	}
}

func TestParseError_Messages(t *testing.T) {
	_, err := Parse("!x:bogus{y}")
	if err == nil || err.Error() != "unknown section kind `bogus` at 1:4" {
		t.Errorf("err = %v", err)
	}
	_, err = Parse("a }")
	if err == nil || err.Error() != "unexpected `}` at 1:3" {
		t.Errorf("err = %v", err)
	}
	_, err = Parse("!")
	if err == nil || err.Error() != "unexpected end of file" {
		t.Errorf("err = %v", err)
	}
}

func TestParse_Deterministic(t *testing.T) {
	src := `!title:{Page} !Intro:{ Hello !a.com:link{there} !;{hidden} !img.png:img{} } !:code{x = 1}`
	a := mustParse(t, src)
	b := mustParse(t, src)
	if !reflect.DeepEqual(a, b) {
		t.Error("re-parsing produced a different tree")
	}
}

func TestWalk(t *testing.T) {
	doc := mustParse(t, "!A:{ x !b.com:link{y} } !:{ z }")
	var kinds []string
	Walk(doc.Children, func(n Node) bool {
		switch n := n.(type) {
		case *Section:
			kinds = append(kinds, n.Kind.String())
		case *Text:
			kinds = append(kinds, n.Content.String())
		}
		return true
	})
	want := []string{"section", "x", "link", "y", "paragraph", "z"}
	if !reflect.DeepEqual(kinds, want) {
		t.Errorf("walk = %v, want %v", kinds, want)
	}
}

func TestPhrase(t *testing.T) {
	p := PhraseOf("  a   b c ")
	if p.String() != "a b c" {
		t.Errorf("String = %q", p.String())
	}
	if !p.Is("a") || p.Is("b") {
		t.Error("Is should compare the first word only")
	}
	var absent Phrase
	if absent.Or("dflt") != "dflt" || p.Or("dflt") != "a b c" {
		t.Error("Or fallback mismatch")
	}
	if PhraseOf(" ") != nil {
		t.Error("blank phrase should be nil")
	}
}
