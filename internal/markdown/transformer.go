// Package markdown turns a page's raw markdown into a structured document
// tree: cross-links resolved against the source manifest, callouts,
// highlighted code, rendered diagrams and heading anchors.
package markdown

import (
	"context"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/text"

	"git.home.luguber.info/inful/docsite/internal/config"
	"git.home.luguber.info/inful/docsite/internal/diagram"
	"git.home.luguber.info/inful/docsite/internal/highlight"
	"git.home.luguber.info/inful/docsite/internal/manifest"
	"git.home.luguber.info/inful/docsite/internal/metrics"
)

// RenderContext is what a page needs from its surroundings to resolve links.
// Without a SourceID or Manifest, links are left as written.
type RenderContext struct {
	SourceID string
	Manifest *manifest.Manifest
	DocsRoot string
}

func (rc RenderContext) docsRoot() string {
	if rc.DocsRoot == "" {
		return config.DefaultDocsRoot
	}
	return rc.DocsRoot
}

// Transformer renders markdown into Documents. The zero value uses plain code
// blocks and client-side diagrams.
type Transformer struct {
	Highlighter        highlight.Highlighter
	Diagrams           diagram.Renderer
	DiagramConcurrency int
	Recorder           metrics.Recorder
}

// Transform parses src and renders it into a Document. Individual diagram
// failures are reported on their nodes; only a cancelled ctx fails the call.
func (t *Transformer) Transform(ctx context.Context, src string, rc RenderContext) (*Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	source := []byte(NormalizeCallouts(src))
	md := goldmark.New(
		goldmark.WithExtensions(extension.GFM, calloutExtension{}),
	)
	root := md.Parser().Parse(text.NewReader(source))

	c := &converter{source: source, rc: rc, hl: t.highlighter()}
	nodes := c.convert(root)

	renderDiagrams(ctx, t.diagrams(), t.DiagramConcurrency, metrics.OrNoop(t.Recorder), c.diagrams)

	doc := &Document{Root: nodes[0], Headings: c.headings}
	if doc.Headings == nil {
		doc.Headings = []Heading{}
	}
	return doc, nil
}

func (t *Transformer) highlighter() highlight.Highlighter {
	if t.Highlighter == nil {
		return highlight.Plain{}
	}
	return t.Highlighter
}

func (t *Transformer) diagrams() diagram.Renderer {
	if t.Diagrams == nil {
		return diagram.ClientSide{}
	}
	return t.Diagrams
}
