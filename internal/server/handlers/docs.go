package handlers

import (
	"bytes"
	"html/template"
	"log/slog"
	"net/http"
	"strings"

	"git.home.luguber.info/inful/docsite/internal/foundation/errors"
	"git.home.luguber.info/inful/docsite/internal/logfields"
	"git.home.luguber.info/inful/docsite/internal/markdown"
	"git.home.luguber.info/inful/docsite/internal/site"
)

// DocsHandlers serves rendered documentation pages.
type DocsHandlers struct {
	site         Site
	logger       *slog.Logger
	errorAdapter *errors.HTTPErrorAdapter
	page         *template.Template
	notFound     *template.Template
}

// NewDocsHandlers creates the page handlers. The templates are parsed once here.
func NewDocsHandlers(s Site, logger *slog.Logger) *DocsHandlers {
	if logger == nil {
		logger = slog.Default()
	}
	return &DocsHandlers{
		site:         s,
		logger:       logger,
		errorAdapter: errors.NewHTTPErrorAdapter(logger),
		page:         template.Must(template.New("page").Parse(layoutHTMLTemplate + pageHTMLTemplate)),
		notFound:     template.Must(template.New("error").Parse(layoutHTMLTemplate + errorHTMLTemplate)),
	}
}

// HandleLanding redirects to the first enabled source.
func (h *DocsHandlers) HandleLanding(w http.ResponseWriter, r *http.Request) {
	href, ok := h.site.LandingHref()
	if !ok {
		h.renderError(w, r, http.StatusNotFound, "No documentation sources are configured.")
		return
	}
	http.Redirect(w, r, href, http.StatusTemporaryRedirect)
}

// HandlePage renders /{root}/{source}[/{page...}].
func (h *DocsHandlers) HandlePage(w http.ResponseWriter, r *http.Request) {
	var segments []string
	if p := r.PathValue("page"); p != "" {
		segments = strings.Split(p, "/")
	}
	page, err := h.site.RenderPage(r.Context(), r.PathValue("source"), segments)
	if err != nil {
		status := h.errorAdapter.StatusCodeFor(err)
		if status == http.StatusNotFound {
			h.renderError(w, r, status, "The page you are looking for does not exist.")
			return
		}
		h.logger.ErrorContext(r.Context(), "page render failed", logfields.Path(r.URL.Path), logfields.Error(err))
		h.renderError(w, r, status, "The page could not be rendered.")
		return
	}
	if notModified(w, r, page.Fingerprint) {
		return
	}

	var buf bytes.Buffer
	if err := h.page.Execute(&buf, newPageView(page)); err != nil {
		internalErr := errors.WrapError(err, errors.CategoryInternal, "failed to execute page template").Build()
		h.errorAdapter.WriteErrorResponse(w, r, internalErr)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(buf.Bytes())
}

func (h *DocsHandlers) renderError(w http.ResponseWriter, r *http.Request, status int, message string) {
	var buf bytes.Buffer
	view := errorView{Title: http.StatusText(status), Status: status, Message: message}
	if err := h.notFound.Execute(&buf, view); err != nil {
		h.logger.ErrorContext(r.Context(), "failed to execute error template", logfields.Error(err))
		http.Error(w, http.StatusText(status), status)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(buf.Bytes())
}

type pageView struct {
	Title          string
	SourceTitle    string
	Nav            site.Nav
	Headings       []markdown.Heading
	Body           template.HTML
	ClientDiagrams bool
}

func newPageView(p *site.Page) pageView {
	v := pageView{
		Title:       p.Title,
		SourceTitle: p.Source.Title,
		Nav:         p.Nav,
		// Body is produced by markdown.RenderHTML, which escapes all source text.
		Body: template.HTML(p.HTML), //nolint:gosec // trusted renderer output
	}
	if p.Document != nil {
		for _, hd := range p.Document.Headings {
			if hd.Level == 2 || hd.Level == 3 {
				v.Headings = append(v.Headings, hd)
			}
		}
		markdown.Walk(p.Document.Root, func(n *markdown.Node) {
			if n.Kind == markdown.KindDiagram && n.ClientSide {
				v.ClientDiagrams = true
			}
		})
	}
	return v
}

type errorView struct {
	Title   string
	Status  int
	Message string
}
