package resolve

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"git.home.luguber.info/inful/docsite/internal/manifest"
	"git.home.luguber.info/inful/docsite/internal/registry"
)

func sample() *manifest.Manifest {
	return &manifest.Manifest{Version: 1, Title: "SSI Agent", Sections: []manifest.Section{
		{ID: "start", Pages: []manifest.Page{
			{ID: "index", File: "intro.md"},
			{ID: "setup", File: "setup.md"},
		}},
		{ID: "guides", Pages: []manifest.Page{
			{ID: "cli/usage", File: "guides/cli.md"},
			{ID: "setup", File: "guides/setup.md"},
		}},
	}}
}

func TestSource(t *testing.T) {
	reg, err := registry.New([]registry.Source{
		{ID: "agent", Enabled: true},
		{ID: "legacy", Enabled: false},
	})
	require.NoError(t, err)

	s, ok := Source(reg, "agent")
	require.True(t, ok)
	assert.Equal(t, "agent", s.ID)

	for _, id := range []string{"legacy", "missing", "Agent", "agen", ""} {
		_, ok := Source(reg, id)
		assert.False(t, ok, id)
	}
	_, ok = Source(nil, "agent")
	assert.False(t, ok)
}

func TestPage(t *testing.T) {
	m := sample()
	cases := []struct {
		path   string
		wantOK bool
		file   string
	}{
		{"", true, "intro.md"},
		{"index", true, "intro.md"},
		{"setup", true, "setup.md"}, // first in flattened order wins
		{"cli/usage", true, "guides/cli.md"},
		{"Setup", false, ""},
		{"nope", false, ""},
	}
	for _, tc := range cases {
		t.Run(tc.path, func(t *testing.T) {
			p, ok := Page(m, tc.path)
			assert.Equal(t, tc.wantOK, ok)
			assert.Equal(t, tc.file, p.File)
		})
	}
}

func TestPage_EmptyManifests(t *testing.T) {
	for _, m := range []*manifest.Manifest{nil, manifest.Empty("x"), {Sections: []manifest.Section{{ID: "a"}}}} {
		_, ok := Page(m, "")
		assert.False(t, ok)
		_, ok = Page(m, "index")
		assert.False(t, ok)
	}
}

func TestJoinPath(t *testing.T) {
	assert.Equal(t, "", JoinPath(nil))
	assert.Equal(t, "setup", JoinPath([]string{"setup"}))
	assert.Equal(t, "cli/usage", JoinPath([]string{"cli", "", "usage"}))
}

func TestHref(t *testing.T) {
	m := sample()
	first, _ := Page(m, "")
	setup, _ := Page(m, "setup")
	cli, _ := Page(m, "cli/usage")

	assert.True(t, IsDefault(m, first))
	assert.False(t, IsDefault(m, setup))
	assert.Equal(t, "/docs/agent", Href("docs", "agent", m, first))
	assert.Equal(t, "/docs/agent/setup", Href("/docs/", "agent", m, setup))
	assert.Equal(t, "/docs/agent/cli/usage", Href("docs", "agent", m, cli))
	assert.False(t, IsDefault(manifest.Empty("x"), manifest.Page{}))
}

func genManifest() *rapid.Generator[*manifest.Manifest] {
	id := rapid.SampledFrom([]string{"index", "setup", "usage", "faq", "api", "Setup"})
	page := rapid.Custom(func(t *rapid.T) manifest.Page {
		pid := id.Draw(t, "id")
		return manifest.Page{ID: pid, File: pid + ".md", Order: rapid.IntRange(0, 5).Draw(t, "order")}
	})
	section := rapid.Custom(func(t *rapid.T) manifest.Section {
		return manifest.Section{ID: rapid.StringMatching(`[a-z]{1,5}`).Draw(t, "section"), Pages: rapid.SliceOfN(page, 0, 4).Draw(t, "pages")}
	})
	return rapid.Custom(func(t *rapid.T) *manifest.Manifest {
		return &manifest.Manifest{Version: 1, Sections: rapid.SliceOfN(section, 0, 4).Draw(t, "sections")}
	})
}

func TestPage_Properties(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		m := genManifest().Draw(t, "manifest")
		path := rapid.SampledFrom([]string{"", "index", "setup", "usage", "missing"}).Draw(t, "path")
		flat := m.Pages()

		p1, ok1 := Page(m, path)
		p2, ok2 := Page(m, path)
		if p1 != p2 || ok1 != ok2 {
			t.Fatalf("resolution is not deterministic")
		}

		if path == "" {
			if len(flat) == 0 {
				if ok1 {
					t.Fatalf("expected not found on a manifest without pages")
				}
				return
			}
			if !ok1 || p1 != flat[0] {
				t.Fatalf("default page must be the first flattened page")
			}
			return
		}

		for _, p := range flat {
			if p.ID == path {
				if !ok1 || p1 != p {
					t.Fatalf("expected first page with id %q", path)
				}
				return
			}
		}
		if ok1 {
			t.Fatalf("expected not found for %q", path)
		}
	})
}

func TestSource_DisabledProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		id := rapid.StringMatching(`[a-z0-9][a-z0-9-]{0,8}`).Draw(t, "id")
		src := registry.Source{
			ID:       id,
			Title:    rapid.String().Draw(t, "title"),
			Order:    rapid.Int().Draw(t, "order"),
			Owner:    rapid.String().Draw(t, "owner"),
			Repo:     rapid.String().Draw(t, "repo"),
			Branch:   rapid.String().Draw(t, "branch"),
			DocsPath: rapid.String().Draw(t, "docsPath"),
			Enabled:  false,
		}
		reg, err := registry.New([]registry.Source{src})
		if err != nil {
			t.Fatalf("registry: %v", err)
		}
		if _, ok := Source(reg, id); ok {
			t.Fatalf("disabled source %q resolved", id)
		}
	})
}
