package markdown

import (
	"html"
	"strconv"
	"strings"

	gmhtml "github.com/yuin/goldmark/renderer/html"
)

// RenderHTML serialises a document tree to HTML. Raw HTML from the source is
// escaped, script-capable link and image URLs are blanked, and highlighter
// and diagram output is trusted.
func RenderHTML(doc *Document) string {
	if doc == nil || doc.Root == nil {
		return ""
	}
	var b strings.Builder
	writeNode(&b, doc.Root)
	return b.String()
}

func writeChildren(b *strings.Builder, n *Node) {
	for _, c := range n.Children {
		writeNode(b, c)
	}
}

func wrap(b *strings.Builder, open, close string, n *Node) {
	b.WriteString(open)
	writeChildren(b, n)
	b.WriteString(close)
}

func writeNode(b *strings.Builder, n *Node) {
	esc := html.EscapeString
	switch n.Kind {
	case KindDocument:
		writeChildren(b, n)
	case KindHeading:
		level := strconv.Itoa(min(max(n.Level, 1), 6))
		wrap(b, `<h`+level+` id="`+esc(n.ID)+`">`, `</h`+level+">\n", n)
	case KindParagraph:
		wrap(b, "<p>", "</p>\n", n)
	case KindText:
		b.WriteString(esc(n.Text))
	case KindEmphasis:
		wrap(b, "<em>", "</em>", n)
	case KindStrong:
		wrap(b, "<strong>", "</strong>", n)
	case KindStrikethrough:
		wrap(b, "<del>", "</del>", n)
	case KindLink:
		open := `<a href="` + esc(safeURL(n.Href)) + `"`
		if n.Title != "" {
			open += ` title="` + esc(n.Title) + `"`
		}
		if n.External {
			open += ` target="_blank" rel="noreferrer"`
		}
		wrap(b, open+">", "</a>", n)
	case KindImage:
		b.WriteString(`<img src="` + esc(safeURL(n.Href)) + `" alt="` + esc(n.Text) + `"`)
		if n.Title != "" {
			b.WriteString(` title="` + esc(n.Title) + `"`)
		}
		b.WriteString(">")
	case KindCodeSpan:
		b.WriteString("<code>" + esc(n.Text) + "</code>")
	case KindCodeBlock:
		if n.HTML != "" {
			b.WriteString(n.HTML + "\n")
			return
		}
		b.WriteString("<pre><code>" + esc(n.Text) + "</code></pre>\n")
	case KindDiagram:
		if n.Err != "" {
			b.WriteString(`<div class="diagram-error" role="alert"><p>Diagram failed to render: ` + esc(n.Err) + "</p>")
			b.WriteString("<pre><code>" + esc(n.Text) + "</code></pre></div>\n")
			return
		}
		b.WriteString(`<figure class="diagram">` + n.HTML + "</figure>\n")
	case KindList:
		if !n.Ordered {
			wrap(b, "<ul>\n", "</ul>\n", n)
			return
		}
		open := "<ol>\n"
		if n.Start > 1 {
			open = `<ol start="` + strconv.Itoa(n.Start) + `">` + "\n"
		}
		wrap(b, open, "</ol>\n", n)
	case KindListItem:
		b.WriteString("<li>")
		if n.Checked != nil {
			b.WriteString(`<input type="checkbox" disabled`)
			if *n.Checked {
				b.WriteString(" checked")
			}
			b.WriteString("> ")
		}
		writeChildren(b, n)
		b.WriteString("</li>\n")
	case KindBlockquote:
		wrap(b, "<blockquote>\n", "</blockquote>\n", n)
	case KindCallout:
		title := n.Title
		if title == "" {
			title = n.Callout.DefaultTitle()
		}
		b.WriteString(`<div class="callout callout-` + esc(string(n.Callout)) + `">`)
		b.WriteString(`<p class="callout-title">` + esc(title) + "</p>")
		wrap(b, `<div class="callout-body">`, "</div></div>\n", n)
	case KindTable:
		writeTable(b, n)
	case KindTableHead:
		wrap(b, "<thead>\n<tr>", "</tr>\n</thead>\n", n)
	case KindTableRow:
		wrap(b, "<tr>", "</tr>\n", n)
	case KindTableCell:
		tag := "td"
		if n.Header {
			tag = "th"
		}
		open := "<" + tag
		if n.Align != "" {
			open += ` style="text-align:` + esc(n.Align) + `"`
		}
		wrap(b, open+">", "</"+tag+">", n)
	case KindThematicBreak:
		b.WriteString("<hr>\n")
	case KindLineBreak:
		b.WriteString("<br>\n")
	case KindHTML:
		b.WriteString(esc(n.Text))
	}
}

func writeTable(b *strings.Builder, n *Node) {
	b.WriteString(`<div class="docs-table"><table>` + "\n")
	inBody := false
	for _, c := range n.Children {
		if c.Kind == KindTableRow && !inBody {
			b.WriteString("<tbody>\n")
			inBody = true
		}
		writeNode(b, c)
	}
	if inBody {
		b.WriteString("</tbody>\n")
	}
	b.WriteString("</table></div>\n")
}

// safeURL returns "" for javascript:, vbscript:, file: and non-image data:
// URLs, ignoring leading control characters and embedded tabs or newlines.
func safeURL(u string) string {
	bare := strings.Map(func(r rune) rune {
		if r == '\t' || r == '\n' || r == '\r' {
			return -1
		}
		return r
	}, strings.TrimLeftFunc(u, func(r rune) bool { return r <= ' ' }))
	if gmhtml.IsDangerousURL([]byte(bare)) {
		return ""
	}
	return u
}
