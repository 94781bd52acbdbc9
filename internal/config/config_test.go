package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/docsite/internal/foundation/errors"
)

const minimalYAML = `
sources:
  - id: agent
    title: SSI Agent
    order: 1
    owner: RemiZlatinis
    repo: ssi-agent
`

func TestParse_AppliesDefaults(t *testing.T) {
	cfg, err := Parse([]byte(minimalYAML))
	require.NoError(t, err)

	require.Len(t, cfg.Sources, 1)
	s := cfg.Sources[0]
	assert.Equal(t, "main", s.Branch)
	assert.Equal(t, "docs", s.DocsPath)
	assert.True(t, s.IsEnabled())

	assert.Equal(t, DefaultAddr, cfg.Server.Addr)
	assert.Equal(t, "docs", cfg.Server.DocsRoot)
	assert.True(t, cfg.Server.GzipEnabled())
	assert.Equal(t, FetchModeHTTP, cfg.Fetch.Mode)
	assert.Equal(t, DefaultRawBaseURL, cfg.Fetch.RawBaseURL)
	assert.Equal(t, 10*time.Second, cfg.Fetch.Timeout)
	assert.Equal(t, RetryBackoffLinear, cfg.Fetch.Retry.Mode)
	assert.Equal(t, 2, cfg.Fetch.Retry.Retries())
	assert.Equal(t, CacheBackendMemory, cfg.Cache.Backend)
	assert.Equal(t, time.Hour, cfg.Cache.TTL)
	assert.Equal(t, DiagramRendererClient, cfg.Render.Diagrams.Renderer)
	assert.Equal(t, 4, cfg.Render.Diagrams.Concurrency)
	assert.True(t, cfg.Render.LineNumbersEnabled())
	assert.Equal(t, LogLevelInfo, cfg.Logging.Level)
	assert.Equal(t, LogFormatText, cfg.Logging.Format)
	assert.True(t, cfg.Metrics.IsEnabled())
	assert.Equal(t, "/metrics", cfg.Metrics.Path)
}

func TestParse_NormalizesEnums(t *testing.T) {
	cfg, err := Parse([]byte(minimalYAML + `
fetch:
  mode: " GIT "
  retry:
    max_retries: 0
logging:
  level: DEBUG
  format: Json
cache:
  backend: SQLite
`))
	require.NoError(t, err)
	assert.Equal(t, FetchModeGit, cfg.Fetch.Mode)
	assert.Equal(t, 0, cfg.Fetch.Retry.Retries())
	assert.Equal(t, LogLevelDebug, cfg.Logging.Level)
	assert.Equal(t, LogFormatJSON, cfg.Logging.Format)
	assert.Equal(t, CacheBackendSQLite, cfg.Cache.Backend)
	assert.Equal(t, DefaultSQLitePath, cfg.Cache.SQLitePath)
}

func TestParse_ExpandsEnvironment(t *testing.T) {
	t.Setenv("DOCSITE_TEST_OWNER", "someone")
	cfg, err := Parse([]byte(`
sources:
  - id: agent
    owner: ${DOCSITE_TEST_OWNER}
    repo: ssi-agent
`))
	require.NoError(t, err)
	assert.Equal(t, "someone", cfg.Sources[0].Owner)
	assert.Equal(t, "agent", cfg.Sources[0].Title)
}

func TestParse_Invalid(t *testing.T) {
	cases := []struct {
		name     string
		yaml     string
		category errors.ErrorCategory
	}{
		{"no sources", "server: {addr: ':1'}\n", errors.CategoryConfig},
		{"bad id", "sources: [{id: 'Bad ID', owner: o, repo: r}]\n", errors.CategoryValidation},
		{"duplicate id", "sources: [{id: a, owner: o, repo: r}, {id: a, owner: o, repo: r}]\n", errors.CategoryValidation},
		{"missing repo", "sources: [{id: a, owner: o}]\n", errors.CategoryValidation},
		{"unknown mode", minimalYAML + "fetch: {mode: ftp}\n", errors.CategoryValidation},
		{"unknown backend", minimalYAML + "cache: {backend: redis}\n", errors.CategoryValidation},
		{"nats without url", minimalYAML + "cache: {backend: nats}\n", errors.CategoryValidation},
		{"negative ttl", minimalYAML + "cache: {ttl: -1s}\n", errors.CategoryValidation},
		{"watch without dir", minimalYAML + "fetch: {watch_local: true}\n", errors.CategoryValidation},
		{"malformed yaml", "sources: [\n", errors.CategoryConfig},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse([]byte(tc.yaml))
			require.Error(t, err)
			assert.Equal(t, tc.category, errors.GetCategory(err))
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.Equal(t, errors.CategoryConfig, errors.GetCategory(err))
}

func TestInit_WritesLoadableExample(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultPath)
	require.NoError(t, Init(path, false))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Len(t, cfg.Sources, 1)
	assert.Equal(t, "agent", cfg.Sources[0].ID)
	assert.Equal(t, "RemiZlatinis", cfg.Sources[0].Owner)
	assert.Equal(t, "ssi-agent", cfg.Sources[0].Repo)
	assert.Equal(t, 20, cfg.Fetch.RateLimit.Burst)

	err = Init(path, false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")

	require.NoError(t, Init(path, true))
	_, err = os.Stat(path)
	require.NoError(t, err)
}
