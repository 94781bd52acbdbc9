// Package metrics provides observability hooks for the documentation pipeline.
//
// Components receive a Recorder through dependency injection and default to
// NoopRecorder, so no nil checks are needed at call sites:
//
//	type Loader struct {
//	    Recorder metrics.Recorder
//	}
//
//	func (l *Loader) recorder() metrics.Recorder {
//	    if l.Recorder == nil {
//	        return metrics.NoopRecorder{}
//	    }
//	    return l.Recorder
//	}
//
// PrometheusRecorder registers its collectors on the registry it is given;
// HTTPHandler exposes that registry for scraping.
package metrics
