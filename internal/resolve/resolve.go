// Package resolve maps request coordinates onto registry and manifest entries.
// All functions are pure: they never touch the network and never panic on
// nil or empty inputs.
package resolve

import (
	"strings"

	"git.home.luguber.info/inful/docsite/internal/manifest"
	"git.home.luguber.info/inful/docsite/internal/registry"
)

// Source returns the registry entry with exactly this ID. Disabled entries
// are reported as absent.
func Source(reg *registry.Registry, sourceID string) (registry.Source, bool) {
	s, ok := reg.Lookup(sourceID)
	if !ok || !s.Enabled {
		return registry.Source{}, false
	}
	return s, true
}

// Page resolves pagePath against the manifest's flattened page sequence.
// An empty path selects the first page; otherwise the first page whose ID
// equals pagePath (case-sensitive) wins.
func Page(m *manifest.Manifest, pagePath string) (manifest.Page, bool) {
	pages := m.Pages()
	if pagePath == "" {
		if len(pages) == 0 {
			return manifest.Page{}, false
		}
		return pages[0], true
	}
	for _, p := range pages {
		if p.ID == pagePath {
			return p, true
		}
	}
	return manifest.Page{}, false
}

// JoinPath joins URL page segments into a page path. Empty segments are dropped.
func JoinPath(segments []string) string {
	parts := make([]string, 0, len(segments))
	for _, s := range segments {
		if s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, "/")
}

// IsDefault reports whether page is the one Page(m, "") selects.
func IsDefault(m *manifest.Manifest, page manifest.Page) bool {
	def, ok := Page(m, "")
	return ok && def == page
}

// Href builds the navigable path for a page: /{root}/{source}/{page}, with
// the page segment omitted for the source's default page.
func Href(docsRoot, sourceID string, m *manifest.Manifest, page manifest.Page) string {
	base := SourceHref(docsRoot, sourceID)
	if IsDefault(m, page) {
		return base
	}
	return base + "/" + page.ID
}

// SourceHref is the landing path of a source.
func SourceHref(docsRoot, sourceID string) string {
	return "/" + strings.Trim(docsRoot, "/") + "/" + sourceID
}
