// Package diagram renders diagram-description text (mermaid) into a visual
// artifact, either in the browser or through a Kroki server.
package diagram

import (
	"context"
	"html"
)

// Artifact is a rendered diagram. ClientSide artifacts carry markup that a
// browser-side renderer turns into an image.
type Artifact struct {
	SVG        string `json:"svg,omitempty"`
	ClientSide bool   `json:"clientSide,omitempty"`
	Source     string `json:"source,omitempty"`
}

// Renderer turns diagram source into an Artifact or an error to show inline.
type Renderer interface {
	Render(ctx context.Context, source string) (Artifact, error)
}

// ClientSide defers rendering to mermaid.js in the browser.
type ClientSide struct{}

// Render implements Renderer.
func (ClientSide) Render(_ context.Context, source string) (Artifact, error) {
	return Artifact{ClientSide: true, Source: source}, nil
}

// HTML returns the markup for an artifact: inline SVG, or a pre.mermaid
// element for client-side rendering.
func (a Artifact) HTML() string {
	if a.ClientSide {
		return `<pre class="mermaid">` + html.EscapeString(a.Source) + `</pre>`
	}
	return a.SVG
}
