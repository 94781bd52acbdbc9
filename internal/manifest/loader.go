package manifest

import (
	"context"
	"log/slog"

	"git.home.luguber.info/inful/docsite/internal/foundation/errors"
	"git.home.luguber.info/inful/docsite/internal/logfields"
	"git.home.luguber.info/inful/docsite/internal/metrics"
	"git.home.luguber.info/inful/docsite/internal/registry"
)

// Degradation reasons reported to the metrics recorder.
const (
	ReasonRetrieval = "retrieval"
	ReasonParse     = "parse"
)

// Fetcher returns the raw text of a file relative to a source's docs path.
type Fetcher interface {
	Fetch(ctx context.Context, src registry.Source, relPath string) (string, error)
}

// Loader retrieves and parses manifest.json for a source. It does no caching.
type Loader struct {
	Fetcher  Fetcher
	Recorder metrics.Recorder
	Logger   *slog.Logger
}

// Load returns the source's manifest. Retrieval and parse failures never
// propagate: they are logged, counted, and replaced by Empty(src.Title).
func (l *Loader) Load(ctx context.Context, src registry.Source) *Manifest {
	m, err := l.LoadStrict(ctx, src)
	if err == nil {
		return m
	}
	reason := ReasonRetrieval
	if errors.HasCategory(err, errors.CategoryParse) {
		reason = ReasonParse
	}
	l.logger().WarnContext(ctx, "manifest unavailable, using empty manifest",
		logfields.Source(src.ID), logfields.Reason(reason), logfields.Error(err))
	metrics.OrNoop(l.Recorder).IncManifestDegraded(src.ID, reason)
	return Empty(src.Title)
}

// LoadStrict is Load without degradation: retrieval and parse errors are returned.
func (l *Loader) LoadStrict(ctx context.Context, src registry.Source) (*Manifest, error) {
	if l.Fetcher == nil {
		return nil, errors.InternalError("manifest loader has no fetcher").Build()
	}
	raw, err := l.Fetcher.Fetch(ctx, src, FileName)
	if err != nil {
		return nil, err
	}
	m, err := Parse([]byte(raw))
	if err != nil {
		if ce, ok := errors.AsClassified(err); ok {
			return nil, ce.WithContext("source", src.ID)
		}
		return nil, err
	}
	for _, issue := range m.Validate() {
		l.logger().WarnContext(ctx, "manifest issue", logfields.Source(src.ID), slog.String("issue", issue.String()))
	}
	return m, nil
}

func (l *Loader) logger() *slog.Logger {
	if l.Logger == nil {
		return slog.Default()
	}
	return l.Logger
}
