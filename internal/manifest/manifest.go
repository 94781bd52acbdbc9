// Package manifest models a source's manifest.json (sections containing
// ordered pages) and loads it through a content fetcher, degrading to an
// empty manifest when retrieval or parsing fails.
package manifest

import (
	"encoding/json"
	"fmt"

	"git.home.luguber.info/inful/docsite/internal/foundation/errors"
)

// FileName is the manifest location relative to a source's docs path.
const FileName = "manifest.json"

// IndexID is the reserved page identifier for a landing page.
const IndexID = "index"

// Manifest describes the navigational layout of one source. Never mutated
// after creation; replaced wholesale.
type Manifest struct {
	Version  int       `json:"version"`
	Title    string    `json:"title"`
	Sections []Section `json:"sections"`
}

// Section is an ordered group of pages.
type Section struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Order int    `json:"order"`
	Pages []Page `json:"pages"`
}

// Page is a single document backed by a markdown file under the docs path.
type Page struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	File  string `json:"file"`
	Order int    `json:"order"`
}

// Empty returns a structurally valid manifest with no sections.
func Empty(title string) *Manifest {
	return &Manifest{Version: 1, Title: title, Sections: []Section{}}
}

// Parse decodes manifest JSON. Unknown fields are ignored and missing
// sections/pages become empty slices.
func Parse(data []byte) (*Manifest, error) {
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, errors.WrapError(err, errors.CategoryParse, "invalid manifest JSON").Build()
	}
	if m.Sections == nil {
		m.Sections = []Section{}
	}
	for i := range m.Sections {
		if m.Sections[i].Pages == nil {
			m.Sections[i].Pages = []Page{}
		}
	}
	return &m, nil
}

// Pages flattens all sections' pages in section order, then page order.
func (m *Manifest) Pages() []Page {
	if m == nil {
		return nil
	}
	n := 0
	for _, s := range m.Sections {
		n += len(s.Pages)
	}
	out := make([]Page, 0, n)
	for _, s := range m.Sections {
		out = append(out, s.Pages...)
	}
	return out
}

// PageByFile returns the first page whose File equals file exactly.
func (m *Manifest) PageByFile(file string) (Page, bool) {
	for _, p := range m.Pages() {
		if p.File == file {
			return p, true
		}
	}
	return Page{}, false
}

// Issue is a structural problem found by Validate.
type Issue struct {
	Section string
	Page    string
	Message string
}

func (i Issue) String() string {
	if i.Page == "" {
		return fmt.Sprintf("section %q: %s", i.Section, i.Message)
	}
	return fmt.Sprintf("section %q page %q: %s", i.Section, i.Page, i.Message)
}

// Validate reports empty page IDs, empty file paths and page IDs that appear
// more than once across the manifest. Resolution still succeeds with such
// manifests; the first page in flattened order wins.
func (m *Manifest) Validate() []Issue {
	if m == nil {
		return nil
	}
	var issues []Issue
	seen := make(map[string]string)
	for _, s := range m.Sections {
		for _, p := range s.Pages {
			if p.ID == "" {
				issues = append(issues, Issue{Section: s.ID, Message: fmt.Sprintf("page %q has an empty id", p.Title)})
				continue
			}
			if p.File == "" {
				issues = append(issues, Issue{Section: s.ID, Page: p.ID, Message: "empty file path"})
			}
			if first, dup := seen[p.ID]; dup {
				issues = append(issues, Issue{Section: s.ID, Page: p.ID, Message: fmt.Sprintf("duplicate page id (first defined in section %q)", first)})
				continue
			}
			seen[p.ID] = s.ID
		}
	}
	return issues
}
