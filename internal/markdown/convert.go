package markdown

import (
	"strings"

	gmast "github.com/yuin/goldmark/ast"
	east "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/util"

	"git.home.luguber.info/inful/docsite/internal/highlight"
)

// converter rewrites a goldmark tree into Nodes.
type converter struct {
	source []byte
	rc     RenderContext
	hl     highlight.Highlighter

	slugs    slugger
	headings []Heading
	diagrams []*Node
}

func one(n *Node) []*Node { return []*Node{n} }

func (c *converter) children(n gmast.Node) []*Node {
	var out []*Node
	for ch := n.FirstChild(); ch != nil; ch = ch.NextSibling() {
		out = append(out, c.convert(ch)...)
	}
	return out
}

func (c *converter) convert(n gmast.Node) []*Node {
	switch n := n.(type) {
	case *gmast.Document:
		return one(&Node{Kind: KindDocument, Children: c.children(n)})
	case *gmast.TextBlock:
		return c.children(n)
	case *gmast.Paragraph:
		return one(&Node{Kind: KindParagraph, Children: c.children(n)})
	case *gmast.Heading:
		return one(c.heading(n))
	case *gmast.ThematicBreak:
		return one(&Node{Kind: KindThematicBreak})
	case *gmast.Blockquote:
		return one(c.blockquote(n))
	case *calloutBlock:
		return one(&Node{Kind: KindCallout, Callout: n.Callout.Kind, Title: n.Callout.Title, Children: c.children(n)})
	case *gmast.List:
		list := &Node{Kind: KindList, Ordered: n.IsOrdered(), Children: c.children(n)}
		if n.IsOrdered() {
			list.Start = n.Start
		}
		return one(list)
	case *gmast.ListItem:
		return one(c.listItem(n))
	case *gmast.FencedCodeBlock:
		return one(c.fencedCode(n))
	case *gmast.CodeBlock:
		return one(&Node{Kind: KindCodeBlock, Text: c.lines(n)})
	case *gmast.HTMLBlock:
		raw := c.lines(n)
		if n.HasClosure() {
			raw += string(n.ClosureLine.Value(c.source))
		}
		return one(&Node{Kind: KindHTML, Text: raw})

	case *gmast.Text:
		return c.text(n)
	case *gmast.String:
		return one(&Node{Kind: KindText, Text: string(n.Value)})
	case *gmast.Emphasis:
		kind := KindEmphasis
		if n.Level >= 2 {
			kind = KindStrong
		}
		return one(&Node{Kind: kind, Children: c.children(n)})
	case *gmast.CodeSpan:
		return one(&Node{Kind: KindCodeSpan, Text: c.codeSpan(n)})
	case *gmast.Link:
		return c.link(string(n.Destination), string(n.Title), c.children(n))
	case *gmast.AutoLink:
		url := string(n.URL(c.source))
		if n.AutoLinkType == gmast.AutoLinkEmail && !strings.HasPrefix(strings.ToLower(url), "mailto:") {
			url = "mailto:" + url
		}
		return c.link(url, "", one(&Node{Kind: KindText, Text: string(n.Label(c.source))}))
	case *gmast.Image:
		return one(&Node{Kind: KindImage, Href: string(n.Destination), Title: string(n.Title), Text: PlainText(c.children(n)...)})
	case *gmast.RawHTML:
		var b strings.Builder
		for i := 0; i < n.Segments.Len(); i++ {
			seg := n.Segments.At(i)
			b.Write(seg.Value(c.source))
		}
		return one(&Node{Kind: KindHTML, Text: b.String()})

	case *east.Strikethrough:
		return one(&Node{Kind: KindStrikethrough, Children: c.children(n)})
	case *east.TaskCheckBox:
		return nil
	case *east.Table:
		return one(c.table(n))
	case *east.TableCell:
		cell := &Node{Kind: KindTableCell, Children: c.children(n)}
		if n.Alignment != east.AlignNone {
			cell.Align = n.Alignment.String()
		}
		if _, ok := n.Parent().(*east.TableHeader); ok {
			cell.Header = true
		}
		return one(cell)
	}
	return c.children(n)
}

func (c *converter) heading(n *gmast.Heading) *Node {
	children := c.children(n)
	text := strings.TrimSpace(PlainText(children...))
	id := c.slugs.unique(text)
	c.headings = append(c.headings, Heading{Level: n.Level, ID: id, Text: text})
	return &Node{Kind: KindHeading, Level: n.Level, ID: id, Children: children}
}

func (c *converter) text(n *gmast.Text) []*Node {
	value := n.Segment.Value(c.source)
	if !n.IsRaw() {
		value = util.ResolveEntityNames(util.ResolveNumericReferences(util.UnescapePunctuations(value)))
	}
	s := string(value)
	if n.SoftLineBreak() {
		s += "\n"
	}
	out := one(&Node{Kind: KindText, Text: s})
	if n.HardLineBreak() {
		out = append(out, &Node{Kind: KindLineBreak})
	}
	return out
}

func (c *converter) codeSpan(n *gmast.CodeSpan) string {
	var b strings.Builder
	for ch := n.FirstChild(); ch != nil; ch = ch.NextSibling() {
		switch t := ch.(type) {
		case *gmast.Text:
			b.Write(t.Segment.Value(c.source))
		case *gmast.String:
			b.Write(t.Value)
		}
	}
	return b.String()
}

func (c *converter) lines(n gmast.Node) string {
	var b strings.Builder
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		b.Write(seg.Value(c.source))
	}
	return b.String()
}

func (c *converter) listItem(n *gmast.ListItem) *Node {
	item := &Node{Kind: KindListItem, Children: c.children(n)}
	if first := n.FirstChild(); first != nil {
		if cb, ok := first.FirstChild().(*east.TaskCheckBox); ok {
			checked := cb.IsChecked
			item.Checked = &checked
			trimTaskSpace(item)
		}
	}
	return item
}

// trimTaskSpace drops the space goldmark leaves between the checkbox and the item text.
func trimTaskSpace(item *Node) {
	if len(item.Children) == 0 {
		return
	}
	first := item.Children[0]
	if first.Kind == KindParagraph && len(first.Children) > 0 {
		first = first.Children[0]
	}
	if first.Kind == KindText {
		first.Text = strings.TrimLeft(first.Text, " ")
	}
}

func (c *converter) fencedCode(n *gmast.FencedCodeBlock) *Node {
	lang := ""
	if n.Info != nil {
		lang = string(n.Language(c.source))
	}
	code := strings.TrimSuffix(c.lines(n), "\n")

	if IsDiagram(lang, code) {
		d := &Node{Kind: KindDiagram, Lang: lang, Text: code}
		c.diagrams = append(c.diagrams, d)
		return d
	}

	if lang == "" {
		return &Node{Kind: KindCodeSpan, Text: code}
	}
	node := &Node{Kind: KindCodeBlock, Lang: lang, Text: code}
	out, err := c.hl.Highlight(code, lang)
	if err != nil {
		out, _ = highlight.Plain{}.Highlight(code, lang)
	}
	node.HTML = out
	return node
}

// blockquote renders a quote whose first line is a callout marker as a
// callout. This catches quotes the source pre-pass does not reach, such as
// quotes nested in list items.
func (c *converter) blockquote(n *gmast.Blockquote) *Node {
	para, ok := n.FirstChild().(*gmast.Paragraph)
	if !ok || para.Lines().Len() == 0 {
		return &Node{Kind: KindBlockquote, Children: c.children(n)}
	}
	first := para.Lines().At(0)
	co, ok := MatchCallout(string(first.Value(c.source)))
	if !ok {
		return &Node{Kind: KindBlockquote, Children: c.children(n)}
	}

	title := co.Title
	if title == "" {
		title = co.Kind.DefaultTitle()
	}
	node := &Node{Kind: KindCallout, Callout: co.Kind, Title: title}
	if rest := c.afterFirstLine(para); len(rest) > 0 {
		node.Children = append(node.Children, &Node{Kind: KindParagraph, Children: rest})
	}
	for ch := para.NextSibling(); ch != nil; ch = ch.NextSibling() {
		node.Children = append(node.Children, c.convert(ch)...)
	}
	return node
}

func (c *converter) afterFirstLine(para *gmast.Paragraph) []*Node {
	ch := para.FirstChild()
	for ; ch != nil; ch = ch.NextSibling() {
		if t, ok := ch.(*gmast.Text); ok && (t.SoftLineBreak() || t.HardLineBreak()) {
			ch = ch.NextSibling()
			break
		}
	}
	var out []*Node
	for ; ch != nil; ch = ch.NextSibling() {
		out = append(out, c.convert(ch)...)
	}
	return out
}

func (c *converter) table(n *east.Table) *Node {
	table := &Node{Kind: KindTable}
	for ch := n.FirstChild(); ch != nil; ch = ch.NextSibling() {
		switch row := ch.(type) {
		case *east.TableHeader:
			table.Children = append(table.Children, &Node{Kind: KindTableHead, Children: c.children(row)})
		case *east.TableRow:
			table.Children = append(table.Children, &Node{Kind: KindTableRow, Children: c.children(row)})
		}
	}
	return table
}
