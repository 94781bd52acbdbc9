package metrics

import "time"

// CacheResult labels fetch cache lookups.
type CacheResult string

const (
	CacheHit   CacheResult = "hit"
	CacheMiss  CacheResult = "miss"
	CacheStale CacheResult = "stale"
)

// PageResult labels the outcome of one page render.
type PageResult string

const (
	PageOK       PageResult = "ok"
	PageNotFound PageResult = "not_found"
	PageError    PageResult = "error"
)

// Recorder defines observability hooks for fetch, cache and render metrics.
type Recorder interface {
	ObserveFetchDuration(strategy string, d time.Duration, success bool)
	IncCacheResult(result CacheResult)
	IncManifestDegraded(source, reason string)
	ObservePageRenderDuration(d time.Duration)
	IncPageResult(result PageResult)
	IncDiagramResult(success bool)
}

// NoopRecorder is a Recorder that does nothing (default when metrics not configured).
type NoopRecorder struct{}

func (NoopRecorder) ObserveFetchDuration(string, time.Duration, bool) {}
func (NoopRecorder) IncCacheResult(CacheResult)                      {}
func (NoopRecorder) IncManifestDegraded(string, string)              {}
func (NoopRecorder) ObservePageRenderDuration(time.Duration)         {}
func (NoopRecorder) IncPageResult(PageResult)                        {}
func (NoopRecorder) IncDiagramResult(bool)                           {}

// OrNoop returns r, or NoopRecorder when r is nil.
func OrNoop(r Recorder) Recorder {
	if r == nil {
		return NoopRecorder{}
	}
	return r
}
