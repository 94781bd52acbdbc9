// Package registry holds the immutable set of documentation sources known to
// the process. It is built once at start-up and shared read-only.
package registry

import (
	"fmt"
	"regexp"
	"slices"
	"strings"

	"git.home.luguber.info/inful/docsite/internal/config"
	"git.home.luguber.info/inful/docsite/internal/foundation/errors"
)

var idPattern = regexp.MustCompile(`^[a-z0-9][a-z0-9_-]*$`)

// Source is an external repository registered as a documentation provider.
type Source struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Order    int    `json:"order"`
	Owner    string `json:"owner"`
	Repo     string `json:"repo"`
	Branch   string `json:"branch"`
	DocsPath string `json:"docsPath"`
	Enabled  bool   `json:"enabled"`
}

// Registry is a read-only lookup table of sources.
type Registry struct {
	sources []Source
	byID    map[string]int
}

// New copies sources into a registry, rejecting empty, non URL-safe or duplicate IDs.
func New(sources []Source) (*Registry, error) {
	r := &Registry{
		sources: slices.Clone(sources),
		byID:    make(map[string]int, len(sources)),
	}
	for i, s := range r.sources {
		if !idPattern.MatchString(s.ID) {
			return nil, errors.ValidationError(fmt.Sprintf("source id %q is not URL-safe", s.ID)).
				WithContext("source", s.ID).Build()
		}
		if _, dup := r.byID[s.ID]; dup {
			return nil, errors.ValidationError(fmt.Sprintf("duplicate source id %q", s.ID)).
				WithContext("source", s.ID).Build()
		}
		r.byID[s.ID] = i
	}
	return r, nil
}

// FromConfig builds the registry from the `sources` configuration section.
func FromConfig(sources []config.SourceConfig) (*Registry, error) {
	out := make([]Source, 0, len(sources))
	for _, s := range sources {
		out = append(out, Source{
			ID:       s.ID,
			Title:    s.Title,
			Order:    s.Order,
			Owner:    s.Owner,
			Repo:     s.Repo,
			Branch:   s.Branch,
			DocsPath: strings.Trim(s.DocsPath, "/"),
			Enabled:  s.IsEnabled(),
		})
	}
	return New(out)
}

// Lookup returns the entry with exactly this ID, enabled or not.
func (r *Registry) Lookup(id string) (Source, bool) {
	if r == nil {
		return Source{}, false
	}
	i, ok := r.byID[id]
	if !ok {
		return Source{}, false
	}
	return r.sources[i], true
}

// All returns every entry in configuration order.
func (r *Registry) All() []Source {
	if r == nil {
		return nil
	}
	return slices.Clone(r.sources)
}

// Enabled returns the enabled entries sorted by Order, then ID.
func (r *Registry) Enabled() []Source {
	if r == nil {
		return nil
	}
	out := make([]Source, 0, len(r.sources))
	for _, s := range r.sources {
		if s.Enabled {
			out = append(out, s)
		}
	}
	slices.SortStableFunc(out, func(a, b Source) int {
		if a.Order != b.Order {
			return a.Order - b.Order
		}
		return strings.Compare(a.ID, b.ID)
	})
	return out
}

// First returns the first enabled source in navigation order.
func (r *Registry) First() (Source, bool) {
	enabled := r.Enabled()
	if len(enabled) == 0 {
		return Source{}, false
	}
	return enabled[0], true
}
