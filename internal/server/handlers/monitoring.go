package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"git.home.luguber.info/inful/docsite/internal/foundation/errors"
	"git.home.luguber.info/inful/docsite/internal/server/responses"
	"git.home.luguber.info/inful/docsite/internal/version"
)

// MonitoringHandlers contains liveness, readiness and asset handlers.
type MonitoringHandlers struct {
	site         Site
	startTime    time.Time
	stylesheet   string
	errorAdapter *errors.HTTPErrorAdapter
}

// NewMonitoringHandlers creates a new monitoring handlers instance. stylesheet
// is served as the syntax highlighting CSS.
func NewMonitoringHandlers(s Site, stylesheet string, logger *slog.Logger) *MonitoringHandlers {
	return &MonitoringHandlers{
		site:         s,
		startTime:    time.Now(),
		stylesheet:   stylesheet,
		errorAdapter: errors.NewHTTPErrorAdapter(logger),
	}
}

// HandleHealthCheck reports that the process is serving.
func (h *MonitoringHandlers) HandleHealthCheck(w http.ResponseWriter, r *http.Request) {
	health := &responses.HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().UTC(),
		Version:   version.Version,
		Uptime:    time.Since(h.startTime).Seconds(),
	}
	if err := writeJSONPretty(w, r, http.StatusOK, health); err != nil {
		internalErr := errors.WrapError(err, errors.CategoryInternal, "failed to write health response").
			Build()
		h.errorAdapter.WriteErrorResponse(w, r, internalErr)
	}
}

// HandleReadiness reports ready once at least one source is enabled.
func (h *MonitoringHandlers) HandleReadiness(w http.ResponseWriter, r *http.Request) {
	n := len(h.site.Sources())
	if n == 0 {
		err := errors.RuntimeError("no documentation sources enabled").Build()
		h.errorAdapter.WriteErrorResponse(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, &responses.ReadinessResponse{Status: "ready", Sources: n}); err != nil {
		internalErr := errors.WrapError(err, errors.CategoryInternal, "failed to write readiness response").
			Build()
		h.errorAdapter.WriteErrorResponse(w, r, internalErr)
	}
}

// HandleStylesheet serves the highlighter CSS.
func (h *MonitoringHandlers) HandleStylesheet(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/css; charset=utf-8")
	w.Header().Set("Cache-Control", "public, max-age=3600")
	_, _ = w.Write([]byte(h.stylesheet))
}
