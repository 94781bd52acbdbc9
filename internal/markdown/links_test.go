package markdown

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/docsite/internal/manifest"
)

func agentManifest() *manifest.Manifest {
	return &manifest.Manifest{
		Version: 1,
		Title:   "SSI Agent",
		Sections: []manifest.Section{{
			ID:    "start",
			Title: "Getting Started",
			Pages: []manifest.Page{
				{ID: "intro", Title: "Introduction", File: "intro.md"},
				{ID: "setup", Title: "Setup", File: "setup.md"},
			},
		}},
	}
}

func firstLink(t *testing.T, doc *Document) *Node {
	t.Helper()
	links := collect(doc.Root, KindLink)
	require.NotEmpty(t, links)
	return links[0]
}

func TestTransform_Links(t *testing.T) {
	rc := RenderContext{SourceID: "agent", Manifest: agentManifest(), DocsRoot: "docs"}

	tests := []struct {
		name     string
		src      string
		rc       RenderContext
		href     string
		internal bool
		external bool
	}{
		{"manifest page", "[Setup](./setup.md)", rc, "/docs/agent/setup", true, false},
		{"manifest page without dot slash", "[Intro](intro.md)", rc, "/docs/agent/intro", true, false},
		{"unknown file", "[Missing](./missing.md)", rc, "./missing.md", false, false},
		{"external https", "[Site](https://example.com/setup.md)", rc, "https://example.com/setup.md", false, true},
		{"mailto", "[Mail](mailto:dev@example.com)", rc, "mailto:dev@example.com", false, true},
		{"protocol relative", "[CDN](//cdn.example.com/x)", rc, "//cdn.example.com/x", false, true},
		{"no manifest", "[Setup](./setup.md)", RenderContext{SourceID: "agent"}, "./setup.md", false, false},
		{"no source", "[Setup](./setup.md)", RenderContext{Manifest: agentManifest()}, "./setup.md", false, false},
		{"fragment is not resolved", "[Setup](./setup.md#install)", rc, "./setup.md#install", false, false},
		{"custom docs root", "[Setup](setup.md)", RenderContext{SourceID: "agent", Manifest: agentManifest(), DocsRoot: "/guides/"}, "/guides/agent/setup", true, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := (&Transformer{}).Transform(context.Background(), tt.src, tt.rc)
			require.NoError(t, err)
			link := firstLink(t, doc)
			assert.Equal(t, tt.href, link.Href)
			assert.Equal(t, tt.internal, link.Internal)
			assert.Equal(t, tt.external, link.External)
		})
	}
}

func TestTransform_LinkWithoutTargetRendersText(t *testing.T) {
	doc, err := (&Transformer{}).Transform(context.Background(), "see [here]() now", RenderContext{})
	require.NoError(t, err)
	assert.Empty(t, collect(doc.Root, KindLink))
	assert.Equal(t, "see here now", PlainText(doc.Root))
}

func TestRenderHTML_ExternalLinkOpensNewTab(t *testing.T) {
	doc, err := (&Transformer{}).Transform(context.Background(), "[Site](https://example.com) and [Local](./x.md)", RenderContext{})
	require.NoError(t, err)
	out := RenderHTML(doc)
	assert.Contains(t, out, `<a href="https://example.com" target="_blank" rel="noreferrer">Site</a>`)
	assert.Contains(t, out, `<a href="./x.md">Local</a>`)
}

func TestIsExternal(t *testing.T) {
	assert.True(t, IsExternal("http://x"))
	assert.True(t, IsExternal("ftp://x"))
	assert.True(t, IsExternal("mailto:a@b.c"))
	assert.False(t, IsExternal("./setup.md"))
	assert.False(t, IsExternal("guide/setup.md"))
	assert.False(t, IsExternal("/abs/path.md"))
}

func TestExtractLinks_InlineLink(t *testing.T) {
	links := ExtractLinks([]byte("See [API](api.md) for details."))
	require.Len(t, links, 1)
	require.Equal(t, LinkKindInline, links[0].Kind)
	require.Equal(t, "api.md", links[0].Destination)
}

func TestExtractLinks_ImageLink(t *testing.T) {
	links := ExtractLinks([]byte("![Diagram](diagram.png)"))
	require.Len(t, links, 1)
	require.Equal(t, LinkKindImage, links[0].Kind)
	require.Equal(t, "diagram.png", links[0].Destination)
}

func TestExtractLinks_AutoLink(t *testing.T) {
	links := ExtractLinks([]byte("<https://example.com/path>"))
	require.Len(t, links, 1)
	require.Equal(t, LinkKindAuto, links[0].Kind)
	require.Equal(t, "https://example.com/path", links[0].Destination)
}

func TestExtractLinks_ReferenceLinkUsageAndDefinition(t *testing.T) {
	links := ExtractLinks([]byte("See [API][ref].\n\n[ref]: api.md\n"))

	require.Len(t, links, 2)
	require.Equal(t, LinkKindInline, links[0].Kind)
	require.Equal(t, "api.md", links[0].Destination)
	require.Equal(t, LinkKindReferenceDefinition, links[1].Kind)
	require.Equal(t, "api.md", links[1].Destination)
}

func TestExtractLinks_SkipsInlineCodeAndCodeBlocks(t *testing.T) {
	src := []byte("" +
		"Inline code: `[Link](./ignored-inline.md)`\n" +
		"\n" +
		"```\n" +
		"[Link](./ignored-fence.md)\n" +
		"```\n" +
		"\n" +
		"Real: [OK](./real.md)\n")

	links := ExtractLinks(src)
	require.Len(t, links, 1)
	require.Equal(t, "./real.md", links[0].Destination)
}
