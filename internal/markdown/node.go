package markdown

import "fmt"

// Kind tags a Node. The set is closed: every parsed construct maps onto one
// of these.
type Kind int

const (
	KindDocument Kind = iota
	KindHeading
	KindParagraph
	KindText
	KindEmphasis
	KindStrong
	KindStrikethrough
	KindLink
	KindImage
	KindCodeSpan
	KindCodeBlock
	KindDiagram
	KindList
	KindListItem
	KindBlockquote
	KindCallout
	KindTable
	KindTableHead
	KindTableRow
	KindTableCell
	KindThematicBreak
	KindLineBreak
	KindHTML
)

var kindNames = [...]string{
	KindDocument:      "document",
	KindHeading:       "heading",
	KindParagraph:     "paragraph",
	KindText:          "text",
	KindEmphasis:      "emphasis",
	KindStrong:        "strong",
	KindStrikethrough: "strikethrough",
	KindLink:          "link",
	KindImage:         "image",
	KindCodeSpan:      "code_span",
	KindCodeBlock:     "code_block",
	KindDiagram:       "diagram",
	KindList:          "list",
	KindListItem:      "list_item",
	KindBlockquote:    "blockquote",
	KindCallout:       "callout",
	KindTable:         "table",
	KindTableHead:     "table_head",
	KindTableRow:      "table_row",
	KindTableCell:     "table_cell",
	KindThematicBreak: "thematic_break",
	KindLineBreak:     "line_break",
	KindHTML:          "html",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("kind(%d)", int(k))
	}
	return kindNames[k]
}

// MarshalText implements encoding.TextMarshaler.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Node is one element of a rendered document. Which fields are set depends
// on Kind.
type Node struct {
	Kind     Kind    `json:"kind"`
	Children []*Node `json:"children,omitempty"`

	// Text is the literal content of text, code, diagram source and raw HTML nodes.
	Text string `json:"text,omitempty"`

	Level int    `json:"level,omitempty"`
	ID    string `json:"id,omitempty"`

	Href     string `json:"href,omitempty"`
	Title    string `json:"title,omitempty"`
	Internal bool   `json:"internal,omitempty"`
	External bool   `json:"external,omitempty"`

	Lang string `json:"lang,omitempty"`
	// HTML holds highlighter or diagram renderer output.
	HTML       string `json:"html,omitempty"`
	Err        string `json:"error,omitempty"`
	ClientSide bool   `json:"clientSide,omitempty"`

	Ordered bool  `json:"ordered,omitempty"`
	Start   int   `json:"start,omitempty"`
	Checked *bool `json:"checked,omitempty"`

	Callout CalloutKind `json:"callout,omitempty"`

	Align  string `json:"align,omitempty"`
	Header bool   `json:"header,omitempty"`
}

// Heading is a table-of-contents entry.
type Heading struct {
	Level int    `json:"level"`
	ID    string `json:"id"`
	Text  string `json:"text"`
}

// Document is the structured form of one markdown page.
type Document struct {
	Root     *Node     `json:"root"`
	Headings []Heading `json:"headings"`
}

// PlainText concatenates the text content of nodes and their descendants.
func PlainText(nodes ...*Node) string {
	var out []byte
	var walk func(n *Node)
	walk = func(n *Node) {
		switch n.Kind {
		case KindText, KindCodeSpan:
			out = append(out, n.Text...)
		case KindLineBreak:
			out = append(out, ' ')
		}
		for _, c := range n.Children {
			walk(c)
		}
	}
	for _, n := range nodes {
		walk(n)
	}
	return string(out)
}

// Walk visits n and its descendants depth-first in document order.
func Walk(n *Node, fn func(*Node)) {
	if n == nil {
		return
	}
	fn(n)
	for _, c := range n.Children {
		Walk(c, fn)
	}
}
