package handlers

import (
	"log/slog"
	"net/http"
	"strings"

	"git.home.luguber.info/inful/docsite/internal/foundation/errors"
	"git.home.luguber.info/inful/docsite/internal/resolve"
	"git.home.luguber.info/inful/docsite/internal/server/responses"
)

// APIHandlers serves the JSON API.
type APIHandlers struct {
	site         Site
	docsRoot     string
	errorAdapter *errors.HTTPErrorAdapter
}

// NewAPIHandlers creates a new API handlers instance.
func NewAPIHandlers(s Site, docsRoot string, logger *slog.Logger) *APIHandlers {
	return &APIHandlers{
		site:         s,
		docsRoot:     docsRoot,
		errorAdapter: errors.NewHTTPErrorAdapter(logger),
	}
}

// HandleSources lists enabled sources.
func (h *APIHandlers) HandleSources(w http.ResponseWriter, r *http.Request) {
	resp := responses.SourcesResponse{Sources: []responses.SourceSummary{}}
	for _, src := range h.site.Sources() {
		resp.Sources = append(resp.Sources, responses.NewSourceSummary(src, resolve.SourceHref(h.docsRoot, src.ID)))
	}
	h.write(w, r, resp)
}

// HandleManifest returns a source's manifest. A degraded (empty) manifest is
// a successful response.
func (h *APIHandlers) HandleManifest(w http.ResponseWriter, r *http.Request) {
	m, err := h.site.Manifest(r.Context(), r.PathValue("source"))
	if err != nil {
		h.errorAdapter.WriteErrorResponse(w, r, err)
		return
	}
	h.write(w, r, m)
}

// HandlePage returns the rendered document tree and HTML of one page.
func (h *APIHandlers) HandlePage(w http.ResponseWriter, r *http.Request) {
	page, err := h.site.RenderPage(r.Context(), r.PathValue("source"), strings.Split(r.PathValue("page"), "/"))
	if err != nil {
		h.errorAdapter.WriteErrorResponse(w, r, err)
		return
	}
	if notModified(w, r, page.Fingerprint) {
		return
	}
	h.write(w, r, page)
}

func (h *APIHandlers) write(w http.ResponseWriter, r *http.Request, v any) {
	if err := writeJSONPretty(w, r, http.StatusOK, v); err != nil {
		internalErr := errors.WrapError(err, errors.CategoryInternal, "failed to write API response").Build()
		h.errorAdapter.WriteErrorResponse(w, r, internalErr)
	}
}
