package markdown

import (
	"bytes"
	"regexp"

	"github.com/yuin/goldmark"
	gmast "github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

// calloutBlock is the goldmark node produced for a `:::kind title` container.
type calloutBlock struct {
	gmast.BaseBlock
	Callout Callout
}

var calloutNodeKind = gmast.NewNodeKind("Callout")

// Kind implements ast.Node.
func (n *calloutBlock) Kind() gmast.NodeKind { return calloutNodeKind }

// Dump implements ast.Node.
func (n *calloutBlock) Dump(source []byte, level int) {
	gmast.DumpHelper(n, source, level, map[string]string{
		"Kind":  string(n.Callout.Kind),
		"Title": n.Callout.Title,
	}, nil)
}

var containerOpen = regexp.MustCompile(`^:::([a-z]+)(?:[ \t]+(.*?))?\s*$`)

type calloutParser struct{}

func (calloutParser) Trigger() []byte { return []byte{':'} }

func (calloutParser) Open(_ gmast.Node, reader text.Reader, _ parser.Context) (gmast.Node, parser.State) {
	line, segment := reader.PeekLine()
	m := containerOpen.FindSubmatch(bytes.TrimLeft(line, " "))
	if m == nil {
		return nil, parser.NoChildren
	}
	kind := CalloutKind(m[1])
	if !kind.Valid() {
		return nil, parser.NoChildren
	}
	title := string(m[2])
	if title == "" {
		title = kind.DefaultTitle()
	}
	reader.Advance(segment.Len() - trailingNewline(line))
	return &calloutBlock{Callout: Callout{Kind: kind, Title: title}}, parser.HasChildren
}

func (calloutParser) Continue(_ gmast.Node, reader text.Reader, _ parser.Context) parser.State {
	line, segment := reader.PeekLine()
	if string(bytes.TrimSpace(line)) == ":::" {
		reader.Advance(segment.Len() - trailingNewline(line))
		return parser.Close
	}
	return parser.Continue | parser.HasChildren
}

func (calloutParser) Close(gmast.Node, text.Reader, parser.Context) {}

func (calloutParser) CanInterruptParagraph() bool { return true }

func (calloutParser) CanAcceptIndentedLine() bool { return false }

type calloutExtension struct{}

// Extend implements goldmark.Extender.
func (calloutExtension) Extend(m goldmark.Markdown) {
	m.Parser().AddOptions(parser.WithBlockParsers(
		util.Prioritized(calloutParser{}, 50),
	))
}

func trailingNewline(line []byte) int {
	if len(line) > 0 && line[len(line)-1] == '\n' {
		return 1
	}
	return 0
}
