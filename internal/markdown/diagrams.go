package markdown

import (
	"context"
	"strings"

	"golang.org/x/sync/errgroup"

	"git.home.luguber.info/inful/docsite/internal/diagram"
	"git.home.luguber.info/inful/docsite/internal/metrics"
)

// DefaultDiagramConcurrency bounds parallel diagram rendering per document.
const DefaultDiagramConcurrency = 4

var diagramKeywords = map[string]bool{
	"graph":           true,
	"flowchart":       true,
	"sequenceDiagram": true,
	"classDiagram":    true,
	"stateDiagram":    true,
	"stateDiagram-v2": true,
	"erDiagram":       true,
	"journey":         true,
	"gantt":           true,
	"pie":             true,
	"gitGraph":        true,
	"timeline":        true,
	"mindmap":         true,
}

// IsDiagram reports whether a code fence holds diagram source: either it is
// tagged mermaid, or its first token is a mermaid diagram keyword.
func IsDiagram(lang, code string) bool {
	if strings.EqualFold(lang, "mermaid") {
		return true
	}
	fields := strings.Fields(code)
	return len(fields) > 0 && diagramKeywords[fields[0]]
}

// renderDiagrams renders every diagram node concurrently. A failure is
// recorded on the node and never fails the document.
func renderDiagrams(ctx context.Context, r diagram.Renderer, limit int, rec metrics.Recorder, nodes []*Node) {
	if len(nodes) == 0 {
		return
	}
	if limit < 1 {
		limit = DefaultDiagramConcurrency
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for _, n := range nodes {
		g.Go(func() error {
			art, err := r.Render(gctx, n.Text)
			if err != nil {
				n.Err = err.Error()
				rec.IncDiagramResult(false)
				return nil
			}
			n.HTML = art.HTML()
			n.ClientSide = art.ClientSide
			rec.IncDiagramResult(true)
			return nil
		})
	}
	_ = g.Wait()
}
