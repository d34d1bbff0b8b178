package render

import (
	"fmt"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"

	"github.com/starford/ley/internal/ley"
)

func parse(t *testing.T, src string) *ley.Document {
	t.Helper()
	doc, err := ley.Parse(src)
	if err != nil {
		t.Fatalf("Parse(%q): %v", src, err)
	}
	return doc
}

func page(title, author, date, style, content string) string {
	return `<html><head><title>` + title + `</title><meta charset="utf-8"><link rel="stylesheet" href="` + style +
		`"></head><body><h1>` + title + `</h1><div>` + author + `, ` + date + `</div>` + content + `</body></html>`
}

func TestHTML_EmptyDocumentUsesFallbacks(t *testing.T) {
	got := HTML(parse(t, ""))
	want := page("Untitled Page", "No Author", "Unknown Date", "main.css", "")
	if got != want {
		t.Errorf("HTML =\n%s\nwant\n%s", got, want)
	}
}

func TestHTML_Metadata(t *testing.T) {
	got := HTML(parse(t, "!title:{My Page} !author:{Ann} !date:{May 2021} !style:{a.css}"))
	want := page("My Page", "Ann", "May 2021", "a.css", "")
	if got != want {
		t.Errorf("HTML =\n%s\nwant\n%s", got, want)
	}
}

func TestHTML_TextOnly(t *testing.T) {
	doc := ley.NewDocument(ley.NewText("one two"), ley.NewText("three"))
	if got := Body(doc.Children); got != "one two three " {
		t.Errorf("Body = %q", got)
	}
	want := page(DefaultTitle, DefaultAuthor, DefaultDate, DefaultStyle, "one two three ")
	if got := HTML(doc); got != want {
		t.Errorf("HTML = %q", got)
	}
}

func TestHTML_TitleAndParagraph(t *testing.T) {
	got := HTML(parse(t, "!title:{Hello} !:{World}"))
	if !strings.Contains(got, "<p>World </p>") {
		t.Errorf("missing paragraph: %s", got)
	}
	if !strings.Contains(got, "<title>Hello</title>") {
		t.Errorf("missing title: %s", got)
	}
}

func TestBody_Link(t *testing.T) {
	got := Body(parse(t, "!example.com:link{Click here}").Children)
	if got != `<a href="example.com">Click here </a>` {
		t.Errorf("Body = %q", got)
	}
	got = Body(parse(t, "!:link{bare}").Children)
	if got != `<a>bare </a>` {
		t.Errorf("Body = %q", got)
	}
}

func TestBody_CommentProducesNothing(t *testing.T) {
	if got := HTML(parse(t, "!;{ignored content}")); got != HTML(parse(t, "")) {
		t.Errorf("comment changed output: %s", got)
	}
	if got := Body([]ley.Node{&ley.Comment{}}); got != "" {
		t.Errorf("Body = %q", got)
	}
}

func TestBody_Shapes(t *testing.T) {
	cases := []struct {
		src  string
		want string
	}{
		{"!A:{x}", `<h1 id="A">A</h1><div class="depth_1">x </div>`},
		{"!:section{x}", `<p>x </p>`},
		{"!Named:para{x}", `<p>x </p>`},
		{"!:code{x = 1}", `<code>x = 1 </code>`},
		{"!go:lang{f()}", `<code>f() </code>`},
		{"!cat.png:img{ignored}", `<img src="cat.png">`},
		{"!:img{}", ``},
		{"!Outer:{ !title:meta{x} y }", `<h1 id="Outer">Outer</h1><div class="depth_1">y </div>`},
		{`!:{<b>raw</b>}`, `<p><b>raw</b> </p>`},
		{"!Two Words:{x}", `<h1 id="Two Words">Two Words</h1><div class="depth_1">x </div>`},
	}
	for _, tc := range cases {
		if got := Body(parse(t, tc.src).Children); got != tc.want {
			t.Errorf("%q: Body = %q, want %q", tc.src, got, tc.want)
		}
	}
}

func TestBody_HeadingDepth(t *testing.T) {
	const n = 5
	var src strings.Builder
	for i := 1; i <= n; i++ {
		fmt.Fprintf(&src, "!S%d:{ text%d ", i, i)
	}
	src.WriteString(strings.Repeat("}", n))

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(Body(parse(t, src.String()).Children)))
	if err != nil {
		t.Fatalf("goquery: %v", err)
	}
	headings := doc.Find("[id]")
	if headings.Length() != n {
		t.Fatalf("headings = %d, want %d", headings.Length(), n)
	}
	headings.Each(func(i int, s *goquery.Selection) {
		if tag := goquery.NodeName(s); tag != fmt.Sprintf("h%d", i+1) {
			t.Errorf("heading %d is %s, want h%d", i, tag, i+1)
		}
		if id, _ := s.Attr("id"); id != fmt.Sprintf("S%d", i+1) {
			t.Errorf("heading %d id = %q", i, id)
		}
	})
}

func TestBody_DepthOnlyGrowsForNamedSections(t *testing.T) {
	src := "!A:{ !:{ !B:{ x } } !l.com:link{ !C:{ y } } !D:{ z } } !E:{ w }"
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(Body(parse(t, src).Children)))
	if err != nil {
		t.Fatalf("goquery: %v", err)
	}
	want := map[string]string{"A": "h1", "B": "h2", "C": "h2", "D": "h2", "E": "h1"}
	for id, tag := range want {
		sel := doc.Find(`[id="` + id + `"]`)
		if sel.Length() != 1 {
			t.Errorf("%s: found %d", id, sel.Length())
			continue
		}
		if got := goquery.NodeName(sel); got != tag {
			t.Errorf("%s: tag = %s, want %s", id, got, tag)
		}
	}
}

func TestHTML_Deterministic(t *testing.T) {
	src := "!title:{T} !A:{ a !b.com:link{b} !B:{ c !:code{d} } }"
	if HTML(parse(t, src)) != HTML(parse(t, src)) {
		t.Error("rendering is not reproducible")
	}
}

func TestWrite(t *testing.T) {
	var b strings.Builder
	doc := parse(t, "hi")
	if err := Write(&b, doc); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if b.String() != HTML(doc) {
		t.Errorf("Write = %q", b.String())
	}
}
