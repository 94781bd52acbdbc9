package manifest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/docsite/internal/foundation/errors"
)

const sampleJSON = `{
  "version": 2,
  "title": "SSI Agent",
  "generator": "ignored",
  "sections": [
    {"id": "start", "title": "Getting started", "order": 1, "pages": [
      {"id": "index", "title": "Introduction", "file": "intro.md", "order": 1},
      {"id": "setup", "title": "Setup", "file": "setup.md", "order": 2}
    ]},
    {"id": "guides", "title": "Guides", "order": 2, "pages": [
      {"id": "cli/usage", "title": "CLI", "file": "guides/cli.md", "order": 1, "draft": true}
    ]},
    {"id": "empty", "title": "Empty", "order": 3}
  ]
}`

func TestParse_TolerantReader(t *testing.T) {
	m, err := Parse([]byte(sampleJSON))
	require.NoError(t, err)

	assert.Equal(t, 2, m.Version)
	assert.Equal(t, "SSI Agent", m.Title)
	require.Len(t, m.Sections, 3)
	assert.NotNil(t, m.Sections[2].Pages)
	assert.Empty(t, m.Sections[2].Pages)

	var ids []string
	for _, p := range m.Pages() {
		ids = append(ids, p.ID)
	}
	assert.Equal(t, []string{"index", "setup", "cli/usage"}, ids)
}

func TestParse_MissingSections(t *testing.T) {
	m, err := Parse([]byte(`{"version": 1, "title": "x"}`))
	require.NoError(t, err)
	assert.NotNil(t, m.Sections)
	assert.Empty(t, m.Pages())
}

func TestParse_Malformed(t *testing.T) {
	_, err := Parse([]byte(`{"sections": [`))
	require.Error(t, err)
	assert.Equal(t, errors.CategoryParse, errors.GetCategory(err))
}

func TestEmpty(t *testing.T) {
	m := Empty("SSI Agent")
	assert.Equal(t, 1, m.Version)
	assert.Equal(t, "SSI Agent", m.Title)
	assert.NotNil(t, m.Sections)
	assert.Empty(t, m.Sections)
}

func TestPageByFile(t *testing.T) {
	m, err := Parse([]byte(sampleJSON))
	require.NoError(t, err)

	p, ok := m.PageByFile("guides/cli.md")
	require.True(t, ok)
	assert.Equal(t, "cli/usage", p.ID)

	_, ok = m.PageByFile("./setup.md")
	assert.False(t, ok)

	var nilManifest *Manifest
	_, ok = nilManifest.PageByFile("setup.md")
	assert.False(t, ok)
}

func TestValidate(t *testing.T) {
	m := &Manifest{Sections: []Section{
		{ID: "a", Pages: []Page{{ID: "index", File: "intro.md"}, {ID: "", Title: "Orphan", File: "x.md"}}},
		{ID: "b", Pages: []Page{{ID: "index", File: "other.md"}, {ID: "nofile"}}},
	}}

	issues := m.Validate()
	require.Len(t, issues, 3)
	assert.Equal(t, `section "a": page "Orphan" has an empty id`, issues[0].String())
	assert.Equal(t, `section "b" page "index": duplicate page id (first defined in section "a")`, issues[1].String())
	assert.Equal(t, `section "b" page "nofile": empty file path`, issues[2].String())

	clean, err := Parse([]byte(sampleJSON))
	require.NoError(t, err)
	assert.Empty(t, clean.Validate())
}
