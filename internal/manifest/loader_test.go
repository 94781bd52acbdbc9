package manifest

import (
	"bytes"
	"context"
	stderrors "errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/docsite/internal/foundation/errors"
	"git.home.luguber.info/inful/docsite/internal/metrics"
	"git.home.luguber.info/inful/docsite/internal/registry"
)

type stubFetcher struct {
	body  string
	err   error
	paths []string
}

func (s *stubFetcher) Fetch(_ context.Context, _ registry.Source, relPath string) (string, error) {
	s.paths = append(s.paths, relPath)
	return s.body, s.err
}

type degradedRecorder struct {
	metrics.NoopRecorder
	source, reason string
}

func (r *degradedRecorder) IncManifestDegraded(source, reason string) {
	r.source, r.reason = source, reason
}

var agent = registry.Source{ID: "agent", Title: "SSI Agent", Owner: "RemiZlatinis", Repo: "ssi-agent", Branch: "main", DocsPath: "docs", Enabled: true}

func TestLoader_Load(t *testing.T) {
	f := &stubFetcher{body: sampleJSON}
	l := &Loader{Fetcher: f}

	m := l.Load(context.Background(), agent)
	assert.Equal(t, "SSI Agent", m.Title)
	assert.Len(t, m.Pages(), 3)
	assert.Equal(t, []string{FileName}, f.paths)
}

func TestLoader_Degrades(t *testing.T) {
	cases := []struct {
		name   string
		f      *stubFetcher
		reason string
	}{
		{"retrieval failure", &stubFetcher{err: errors.RetrievalError("GET failed").WithContext("status", 404).Build()}, ReasonRetrieval},
		{"plain error", &stubFetcher{err: stderrors.New("connection reset")}, ReasonRetrieval},
		{"parse failure", &stubFetcher{body: "<html>not json</html>"}, ReasonParse},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var logs bytes.Buffer
			rec := &degradedRecorder{}
			l := &Loader{Fetcher: tc.f, Recorder: rec, Logger: slog.New(slog.NewTextHandler(&logs, nil))}

			m := l.Load(context.Background(), agent)
			require.NotNil(t, m)
			assert.Equal(t, "SSI Agent", m.Title)
			assert.Empty(t, m.Sections)
			assert.Equal(t, 1, m.Version)

			assert.Equal(t, "agent", rec.source)
			assert.Equal(t, tc.reason, rec.reason)
			assert.Contains(t, logs.String(), "manifest unavailable")
			assert.Contains(t, logs.String(), "reason="+tc.reason)
		})
	}
}

func TestLoader_LoadStrictPropagates(t *testing.T) {
	l := &Loader{Fetcher: &stubFetcher{body: "{"}}
	_, err := l.LoadStrict(context.Background(), agent)
	require.Error(t, err)
	ce, ok := errors.AsClassified(err)
	require.True(t, ok)
	assert.Equal(t, errors.CategoryParse, ce.Category())
	src, _ := ce.Context().GetString("source")
	assert.Equal(t, "agent", src)
}

func TestLoader_LogsValidationIssues(t *testing.T) {
	var logs bytes.Buffer
	dup := `{"sections":[{"id":"a","pages":[{"id":"x","file":"a.md"}]},{"id":"b","pages":[{"id":"x","file":"b.md"}]}]}`
	l := &Loader{Fetcher: &stubFetcher{body: dup}, Logger: slog.New(slog.NewTextHandler(&logs, nil))}

	m := l.Load(context.Background(), agent)
	assert.Len(t, m.Pages(), 2)
	assert.Contains(t, logs.String(), "duplicate page id")
}
