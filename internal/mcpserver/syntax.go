package mcpserver

// SyntaxGuide describes the Ley markup language for LLM consumers that
// write or render pages.
const SyntaxGuide = `# Ley Syntax Guide

Ley is a small markup language that compiles to HTML. A document is a
sequence of plain words and sections. Whitespace between words collapses.

## Sections

` + "```" + `
!name:keyword{ children }
` + "```" + `

- ` + "`!`" + ` opens a section. The optional **name** is every word up to ` + "`:`" + `.
- The optional **keyword** picks the kind. Without one, a named section is a
  heading section and an unnamed one is a paragraph.
- Children go between braces and may contain words and further sections.

| Keyword | Renders as | Name is used as |
|---|---|---|
| (none, named) | ` + "`<hN id=\"name\">name</hN><div class=\"depth_N\">…</div>`" + ` | heading text and id |
| (none, unnamed) / ` + "`paragraph`" + ` | ` + "`<p>…</p>`" + ` | ignored |
| ` + "`section`" + ` | same as a named or unnamed section | heading text |
| ` + "`link`" + ` | ` + "`<a href=\"name\">…</a>`" + ` | link target |
| ` + "`image`" + ` | ` + "`<img src=\"name\">`" + ` (children ignored) | image source |
| ` + "`code`" + ` | ` + "`<code>…</code>`" + ` | ignored |
| ` + "`metadata`" + ` | nothing | metadata key |

Heading levels start at 1 and grow by one per nested named section.

## Metadata

Top-level sections named ` + "`title`" + `, ` + "`author`" + `, ` + "`date`" + ` or ` + "`style`" + `
set page metadata instead of rendering. Their body must be plain words:

` + "```" + `
!title:{My Page}
!author:{Ann Example}
!date:{2024-01-31}
!style:{print.css}
` + "```" + `

When a key repeats, the last one wins. Missing values fall back to
"Untitled Page", "No Author", "Unknown Date" and "main.css".

## Comments

` + "`!;{ … }`" + ` is a comment. Its body must still have balanced braces and is
dropped from the output.

## Quoting

Wrap text in ` + "`\"…\"`" + ` or ` + "`\"\"\"…\"\"\"`" + ` to use ` + "`!`, `:`, `;`, `{` or `}`" + ` literally.
A quoted run is a single word. An unterminated quote is an error.

## Errors

A document either parses completely or fails with one of: unexpected end of
file, unclosed section, unexpected token, unknown section kind, expected ` + "`:`" + `,
expected ` + "`{`" + `, expected a string.

## Example

` + "```" + `
!title:{Release notes}
!date:{2024-05-01}

!Highlights:{
    Faster builds. See !changelog.html:link{the changelog}.
    !:{A paragraph of its own.}
    !logo.png:image{}
}
!;{drafted by the docs team}
` + "```" + `
`
