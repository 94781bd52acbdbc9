package handlers

import (
	"context"

	"git.home.luguber.info/inful/docsite/internal/manifest"
	"git.home.luguber.info/inful/docsite/internal/registry"
	"git.home.luguber.info/inful/docsite/internal/site"
)

// Site is the page pipeline surface the handlers need.
type Site interface {
	RenderPage(ctx context.Context, sourceID string, segments []string) (*site.Page, error)
	Manifest(ctx context.Context, sourceID string) (*manifest.Manifest, error)
	Sources() []registry.Source
	LandingHref() (string, bool)
}

var _ Site = (*site.Service)(nil)
