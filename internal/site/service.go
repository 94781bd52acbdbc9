// Package site runs the per-request documentation pipeline: resolve the
// source, load its manifest, resolve the page, fetch and render the body.
package site

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/inful/mdfp"

	"git.home.luguber.info/inful/docsite/internal/config"
	"git.home.luguber.info/inful/docsite/internal/fetch"
	"git.home.luguber.info/inful/docsite/internal/foundation/errors"
	"git.home.luguber.info/inful/docsite/internal/frontmatter"
	"git.home.luguber.info/inful/docsite/internal/logfields"
	"git.home.luguber.info/inful/docsite/internal/manifest"
	"git.home.luguber.info/inful/docsite/internal/markdown"
	"git.home.luguber.info/inful/docsite/internal/metrics"
	"git.home.luguber.info/inful/docsite/internal/observability"
	"git.home.luguber.info/inful/docsite/internal/registry"
	"git.home.luguber.info/inful/docsite/internal/resolve"
)

// Service wires the pipeline collaborators. All fields except Recorder,
// Logger and DocsRoot are required.
type Service struct {
	Registry    *registry.Registry
	Loader      *manifest.Loader
	Fetcher     fetch.Fetcher
	Transformer *markdown.Transformer
	Recorder    metrics.Recorder
	Logger      *slog.Logger
	DocsRoot    string
}

// Page is a fully rendered documentation page.
type Page struct {
	Source      registry.Source    `json:"source"`
	Manifest    *manifest.Manifest `json:"manifest"`
	Page        manifest.Page      `json:"page"`
	Title       string             `json:"title"`
	Href        string             `json:"href"`
	Document    *markdown.Document `json:"document"`
	HTML        string             `json:"html"`
	Fingerprint string             `json:"fingerprint"`
	Nav         Nav                `json:"nav"`
}

// RenderPage resolves and renders the page addressed by sourceID and the
// remaining URL segments. An unknown or disabled source, an unresolved page
// and an unobtainable page body all yield a NotFound error; an unknown
// source is rejected before any content is fetched.
func (s *Service) RenderPage(ctx context.Context, sourceID string, segments []string) (*Page, error) {
	start := time.Now()
	page, err := s.renderPage(ctx, sourceID, segments)

	rec := metrics.OrNoop(s.Recorder)
	rec.ObservePageRenderDuration(time.Since(start))
	switch {
	case err == nil:
		rec.IncPageResult(metrics.PageOK)
	case errors.HasCategory(err, errors.CategoryNotFound):
		rec.IncPageResult(metrics.PageNotFound)
	default:
		rec.IncPageResult(metrics.PageError)
	}
	return page, err
}

func (s *Service) renderPage(ctx context.Context, sourceID string, segments []string) (*Page, error) {
	ctx = observability.WithSource(ctx, sourceID)
	src, err := s.Source(sourceID)
	if err != nil {
		return nil, err
	}

	m := s.Loader.Load(ctx, src)
	pagePath := resolve.JoinPath(segments)
	pg, ok := resolve.Page(m, pagePath)
	if !ok {
		return nil, errors.NotFoundError("documentation page not found").
			WithContext("source", src.ID).
			WithContext("page", pagePath).
			Build()
	}
	ctx = observability.WithPage(ctx, pg.ID)

	raw, err := s.Fetcher.Fetch(ctx, src, pg.File)
	if err != nil {
		observability.WarnContext(ctx, s.logger(), "page body unavailable",
			logfields.Path(pg.File), logfields.Error(err))
		return nil, errors.WrapError(err, errors.CategoryNotFound, "documentation page not found").
			WithContext("source", src.ID).
			WithContext("page", pg.ID).
			Build()
	}

	fm, err := frontmatter.Parse(raw)
	if err != nil {
		observability.DebugContext(ctx, s.logger(), "front matter ignored", logfields.Error(err))
	}

	doc, err := s.Transformer.Transform(ctx, fm.Body, markdown.RenderContext{
		SourceID: src.ID,
		Manifest: m,
		DocsRoot: s.docsRoot(),
	})
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryRender, "failed to render page").
			WithContext("source", src.ID).
			WithContext("page", pg.ID).
			Build()
	}

	title := pg.Title
	if t := fm.Title(); t != "" {
		title = t
	}
	page := &Page{
		Source:   src,
		Manifest: m,
		Page:     pg,
		Title:    title,
		Href:     resolve.Href(s.docsRoot(), src.ID, m, pg),
		Document: doc,
		HTML:     markdown.RenderHTML(doc),
		Nav:      s.Nav(src.ID, m, pg),
	}
	page.Fingerprint = fingerprint(fm.Raw, page)
	return page, nil
}

// fingerprint covers everything a page response is built from: the front
// matter, the rendered body and the manifest-derived chrome. A manifest
// edit that leaves the markdown untouched still changes it.
func fingerprint(frontMatter string, p *Page) string {
	chrome, err := json.Marshal(struct {
		Title    string             `json:"title"`
		Href     string             `json:"href"`
		Manifest *manifest.Manifest `json:"manifest"`
		Nav      Nav                `json:"nav"`
	}{p.Title, p.Href, p.Manifest, p.Nav})
	if err != nil {
		return ""
	}
	return mdfp.CalculateFingerprintFromParts(frontMatter, p.HTML+"\n"+string(chrome))
}

// Source returns the enabled source with this ID or a NotFound error.
func (s *Service) Source(sourceID string) (registry.Source, error) {
	src, ok := resolve.Source(s.Registry, sourceID)
	if !ok {
		return registry.Source{}, errors.NotFoundError("documentation source not found").
			WithContext("source", sourceID).
			Build()
	}
	return src, nil
}

// Manifest loads the (possibly degraded) manifest of an enabled source.
func (s *Service) Manifest(ctx context.Context, sourceID string) (*manifest.Manifest, error) {
	src, err := s.Source(sourceID)
	if err != nil {
		return nil, err
	}
	return s.Loader.Load(observability.WithSource(ctx, sourceID), src), nil
}

// Sources lists the enabled sources in navigation order.
func (s *Service) Sources() []registry.Source {
	return s.Registry.Enabled()
}

// LandingHref is where the site root redirects: the first enabled source.
func (s *Service) LandingHref() (string, bool) {
	src, ok := s.Registry.First()
	if !ok {
		return "", false
	}
	return resolve.SourceHref(s.docsRoot(), src.ID), true
}

func (s *Service) docsRoot() string {
	if s.DocsRoot == "" {
		return config.DefaultDocsRoot
	}
	return s.DocsRoot
}

func (s *Service) logger() *slog.Logger {
	if s.Logger == nil {
		return slog.Default()
	}
	return s.Logger
}
