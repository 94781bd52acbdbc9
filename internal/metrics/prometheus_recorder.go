package metrics

import (
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

const namespace = "docsite"

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	fetchDuration    *prom.HistogramVec
	cacheResults     *prom.CounterVec
	manifestDegraded *prom.CounterVec
	renderDuration   prom.Histogram
	pageResults      *prom.CounterVec
	diagramResults   *prom.CounterVec
}

// NewPrometheusRecorder constructs the collectors and registers them on reg.
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{
		fetchDuration: prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "fetch_duration_seconds",
			Help:      "Duration of raw content fetches by strategy and result",
			Buckets:   prom.DefBuckets,
		}, []string{"strategy", "result"}),
		cacheResults: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "cache_results_total",
			Help:      "Fetch cache lookups by result",
		}, []string{"result"}),
		manifestDegraded: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "manifest_degraded_total",
			Help:      "Manifest loads that fell back to an empty manifest",
		}, []string{"source", "reason"}),
		renderDuration: prom.NewHistogram(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "page_render_duration_seconds",
			Help:      "End-to-end page pipeline duration",
			Buckets:   prom.DefBuckets,
		}),
		pageResults: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "page_results_total",
			Help:      "Page renders by outcome",
		}, []string{"result"}),
		diagramResults: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "diagram_results_total",
			Help:      "Diagram renders by outcome",
		}, []string{"result"}),
	}
	reg.MustRegister(pr.fetchDuration, pr.cacheResults, pr.manifestDegraded, pr.renderDuration, pr.pageResults, pr.diagramResults)
	return pr
}

func resultLabel(success bool) string {
	if success {
		return "success"
	}
	return "failed"
}

func (p *PrometheusRecorder) ObserveFetchDuration(strategy string, d time.Duration, success bool) {
	if p == nil {
		return
	}
	p.fetchDuration.WithLabelValues(strategy, resultLabel(success)).Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncCacheResult(result CacheResult) {
	if p == nil {
		return
	}
	p.cacheResults.WithLabelValues(string(result)).Inc()
}

func (p *PrometheusRecorder) IncManifestDegraded(source, reason string) {
	if p == nil {
		return
	}
	p.manifestDegraded.WithLabelValues(source, reason).Inc()
}

func (p *PrometheusRecorder) ObservePageRenderDuration(d time.Duration) {
	if p == nil {
		return
	}
	p.renderDuration.Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncPageResult(result PageResult) {
	if p == nil {
		return
	}
	p.pageResults.WithLabelValues(string(result)).Inc()
}

func (p *PrometheusRecorder) IncDiagramResult(success bool) {
	if p == nil {
		return
	}
	p.diagramResults.WithLabelValues(resultLabel(success)).Inc()
}
