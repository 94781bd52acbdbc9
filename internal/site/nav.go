package site

import (
	"git.home.luguber.info/inful/docsite/internal/manifest"
	"git.home.luguber.info/inful/docsite/internal/resolve"
)

// Nav is the navigation chrome around a page: a source switcher and the
// active source's section tree.
type Nav struct {
	Sources  []NavSource  `json:"sources"`
	Sections []NavSection `json:"sections"`
}

// NavSource is one entry of the source switcher.
type NavSource struct {
	ID     string `json:"id"`
	Title  string `json:"title"`
	Href   string `json:"href"`
	Active bool   `json:"active"`
}

// NavSection groups page links under a section title.
type NavSection struct {
	ID    string    `json:"id"`
	Title string    `json:"title"`
	Pages []NavPage `json:"pages"`
}

// NavPage links one page. The default page links to the source root.
type NavPage struct {
	ID     string `json:"id"`
	Title  string `json:"title"`
	Href   string `json:"href"`
	Active bool   `json:"active"`
}

// Nav builds the navigation for a page of sourceID. Only the first page
// equal to active is flagged, so a duplicated entry never lights up twice.
func (s *Service) Nav(sourceID string, m *manifest.Manifest, active manifest.Page) Nav {
	root := s.docsRoot()
	nav := Nav{Sources: []NavSource{}, Sections: []NavSection{}}
	for _, src := range s.Registry.Enabled() {
		nav.Sources = append(nav.Sources, NavSource{
			ID:     src.ID,
			Title:  src.Title,
			Href:   resolve.SourceHref(root, src.ID),
			Active: src.ID == sourceID,
		})
	}
	if m == nil {
		return nav
	}

	marked := false
	for _, sec := range m.Sections {
		ns := NavSection{ID: sec.ID, Title: sec.Title, Pages: make([]NavPage, 0, len(sec.Pages))}
		for _, p := range sec.Pages {
			isActive := !marked && p == active
			marked = marked || isActive
			ns.Pages = append(ns.Pages, NavPage{
				ID:     p.ID,
				Title:  p.Title,
				Href:   resolve.Href(root, sourceID, m, p),
				Active: isActive,
			})
		}
		nav.Sections = append(nav.Sections, ns)
	}
	return nav
}
