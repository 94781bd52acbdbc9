package commands

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/docsite/internal/config"
	"git.home.luguber.info/inful/docsite/internal/foundation/errors"
	"git.home.luguber.info/inful/docsite/internal/manifest"
)

const agentManifest = `{"version":1,"title":"SSI Agent","sections":[
  {"id":"start","title":"Getting Started","order":1,"pages":[
    {"id":"index","title":"Introduction","file":"intro.md","order":1},
    {"id":"setup","title":"Setup","file":"setup.md","order":2}
  ]}]}`

func goodFiles() map[string]string {
	return map[string]string{
		"manifest.json": agentManifest,
		"intro.md":      "# Introduction\n\nSee [Setup](./setup.md) and [the repo](https://example.com/x.md).\n",
		"setup.md":      "---\ntitle: Installing\n---\n# Setup\n\n```go\nfunc main() {}\n```\n",
	}
}

// newUpstream serves files under the raw URL layout of source "agent".
func newUpstream(t *testing.T, files map[string]string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rel := strings.TrimPrefix(r.URL.Path, "/acme/agent/main/docs/")
		body, ok := files[rel]
		if !ok || rel == r.URL.Path {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func writeConfig(t *testing.T, baseURL string) string {
	t.Helper()
	cfg := `sources:
  - id: agent
    title: SSI Agent
    order: 1
    owner: acme
    repo: agent
  - id: off
    title: Retired
    order: 2
    owner: acme
    repo: off
    enabled: false
fetch:
  raw_base_url: ` + baseURL + `
  retry:
    max_retries: 0
cache:
  backend: none
logging:
  level: error
`
	path := filepath.Join(t.TempDir(), "docsite.yaml")
	require.NoError(t, os.WriteFile(path, []byte(cfg), 0o600))
	return path
}

func run(t *testing.T, files map[string]string, cmd interface {
	Run(*Global, *CLI) error
},
) (string, error) {
	t.Helper()
	upstream := newUpstream(t, files)
	var out bytes.Buffer
	err := cmd.Run(&Global{Stdout: &out}, &CLI{Config: writeConfig(t, upstream.URL)})
	return out.String(), err
}

func TestSourcesCmd(t *testing.T) {
	out, err := run(t, goodFiles(), &SourcesCmd{})
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[0], "REPOSITORY")
	assert.Contains(t, lines[1], "agent")
	assert.Contains(t, lines[1], "acme/agent@main")
	assert.True(t, strings.HasSuffix(lines[1], "enabled"))
	assert.True(t, strings.HasSuffix(lines[2], "disabled"))
}

func TestRenderCmd(t *testing.T) {
	tests := []struct {
		name     string
		cmd      *RenderCmd
		contains []string
	}{
		{
			name:     "default page",
			cmd:      &RenderCmd{Source: "agent"},
			contains: []string{`<h1 id="introduction">Introduction</h1>`, `<a href="/docs/agent/setup">Setup</a>`, `target="_blank"`},
		},
		{
			name:     "named page strips front matter",
			cmd:      &RenderCmd{Source: "agent", Page: "setup"},
			contains: []string{`<h1 id="setup">Setup</h1>`, "<pre"},
		},
		{
			name:     "json document tree",
			cmd:      &RenderCmd{Source: "agent", Page: "/setup/", JSON: true},
			contains: []string{`"kind": "document"`, `"headings"`},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := run(t, goodFiles(), tt.cmd)
			require.NoError(t, err)
			for _, want := range tt.contains {
				assert.Contains(t, out, want)
			}
			assert.NotContains(t, out, "title: Installing")
		})
	}
}

func TestRenderCmd_OutputFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "intro.json")
	out, err := run(t, goodFiles(), &RenderCmd{Source: "agent", JSON: true, Output: path})
	require.NoError(t, err)
	assert.Empty(t, out)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var doc map[string]any
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.Contains(t, doc, "root")
}

func TestRenderCmd_NotFound(t *testing.T) {
	tests := []struct {
		name string
		cmd  *RenderCmd
	}{
		{name: "unknown page", cmd: &RenderCmd{Source: "agent", Page: "nope"}},
		{name: "unknown source", cmd: &RenderCmd{Source: "missing"}},
		{name: "disabled source", cmd: &RenderCmd{Source: "off"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := run(t, goodFiles(), tt.cmd)
			require.Error(t, err)
			assert.True(t, errors.HasCategory(err, errors.CategoryNotFound))
			assert.Equal(t, 4, errors.NewCLIErrorAdapter(false, nil).ExitCodeFor(err))
		})
	}
}

func TestCheckCmd(t *testing.T) {
	t.Run("clean source", func(t *testing.T) {
		out, err := run(t, goodFiles(), &CheckCmd{Source: "agent", Color: "never"})
		require.NoError(t, err)
		assert.Equal(t, "ok agent\n", out)
	})

	t.Run("broken link and missing page", func(t *testing.T) {
		files := goodFiles()
		files["intro.md"] = "# Intro\n\n[gone](./missing.md) and `[code](./ignored.md)`\n"
		delete(files, "setup.md")

		out, err := run(t, files, &CheckCmd{Source: "agent", Color: "never"})
		require.Error(t, err)
		assert.True(t, errors.HasCategory(err, errors.CategoryValidation))
		assert.Contains(t, out, "FAIL agent (2 problem(s))")
		assert.Contains(t, out, "agent/index: unresolved link ./missing.md")
		assert.Contains(t, out, "agent/setup: unreadable setup.md")
		assert.NotContains(t, out, "ignored.md")
	})

	t.Run("unparseable manifest", func(t *testing.T) {
		files := goodFiles()
		files["manifest.json"] = "{not json"
		out, err := run(t, files, &CheckCmd{Source: "agent", Color: "always"})
		require.Error(t, err)
		assert.Contains(t, out, "\x1b[31mFAIL\x1b[0m agent")
		assert.Contains(t, out, "agent: manifest:")
	})

	t.Run("unknown source", func(t *testing.T) {
		_, err := run(t, goodFiles(), &CheckCmd{Source: "missing", Color: "never"})
		require.Error(t, err)
		assert.True(t, errors.HasCategory(err, errors.CategoryNotFound))
	})
}

func TestManifestTree(t *testing.T) {
	m, err := manifest.Parse([]byte(agentManifest))
	require.NoError(t, err)

	out := ManifestTree("agent", "docs", m)
	assert.True(t, strings.HasPrefix(out, "SSI Agent (agent)\n"))
	assert.Contains(t, out, "Getting Started")
	assert.Contains(t, out, "Introduction [intro.md] -> /docs/agent\n")
	assert.Contains(t, out, "Setup [setup.md] -> /docs/agent/setup")
}

func TestTreeCmd_DegradedManifest(t *testing.T) {
	files := goodFiles()
	delete(files, "manifest.json")

	out, err := run(t, files, &TreeCmd{Source: "agent"})
	require.NoError(t, err)
	assert.Equal(t, "SSI Agent (agent)\n", out)
}

func TestInitCmd(t *testing.T) {
	dir := t.TempDir()
	var out bytes.Buffer
	g := &Global{Stdout: &out}
	root := &CLI{Config: filepath.Join(dir, "unused.yaml")}

	require.NoError(t, (&InitCmd{Output: dir}).Run(g, root))
	path := filepath.Join(dir, config.DefaultPath)
	assert.Contains(t, out.String(), "Writing configuration to "+path)

	cfg, err := config.Load(path)
	require.NoError(t, err)
	require.Len(t, cfg.Sources, 1)
	assert.Equal(t, "agent", cfg.Sources[0].ID)

	err = (&InitCmd{Output: dir}).Run(g, root)
	require.Error(t, err)
	assert.True(t, errors.HasCategory(err, errors.CategoryConfig))

	require.NoError(t, (&InitCmd{Output: dir, Force: true}).Run(g, root))
}

func TestNewLogger(t *testing.T) {
	tests := []struct {
		name    string
		cfg     config.LoggingConfig
		verbose bool
		logDbg  bool
		json    bool
	}{
		{name: "text info", cfg: config.LoggingConfig{Level: config.LogLevelInfo, Format: config.LogFormatText}},
		{name: "json debug", cfg: config.LoggingConfig{Level: config.LogLevelDebug, Format: config.LogFormatJSON}, logDbg: true, json: true},
		{name: "verbose overrides level", cfg: config.LoggingConfig{Level: config.LogLevelError}, verbose: true, logDbg: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := NewLogger(&buf, tt.cfg, tt.verbose)
			logger.Debug("debug line")
			logger.Error("error line")

			assert.Equal(t, tt.logDbg, strings.Contains(buf.String(), "debug line"))
			assert.Contains(t, buf.String(), "error line")
			if tt.json {
				first := strings.SplitN(buf.String(), "\n", 2)[0]
				assert.True(t, json.Valid([]byte(first)))
			}
		})
	}
}
