// Package fetch retrieves raw documentation files for a source. It is the one
// place where local-override versus remote retrieval is decided, and where
// caching with a bounded staleness window happens.
package fetch

import (
	"context"
	"fmt"
	"strings"

	"git.home.luguber.info/inful/docsite/internal/foundation/errors"
	"git.home.luguber.info/inful/docsite/internal/registry"
)

// Fetcher returns the UTF-8 text of a file relative to a source's docs path.
type Fetcher interface {
	Fetch(ctx context.Context, src registry.Source, relPath string) (string, error)
}

// Func adapts a plain function to Fetcher.
type Func func(ctx context.Context, src registry.Source, relPath string) (string, error)

// Fetch calls f.
func (f Func) Fetch(ctx context.Context, src registry.Source, relPath string) (string, error) {
	return f(ctx, src, relPath)
}

// Address joins the source coordinates and relPath into
// {owner}/{repo}/{branch}/{docsPath}/{relPath}, collapsing duplicate slashes
// and dropping a leading "./" from relPath.
func Address(src registry.Source, relPath string) string {
	return joinClean(src.Owner, src.Repo, src.Branch, src.DocsPath, cleanRel(relPath))
}

// repoPath is the path of relPath inside the repository: {docsPath}/{relPath}.
func repoPath(src registry.Source, relPath string) string {
	return joinClean(src.DocsPath, cleanRel(relPath))
}

func cleanRel(relPath string) string {
	for strings.HasPrefix(relPath, "./") {
		relPath = relPath[2:]
	}
	return relPath
}

func joinClean(parts ...string) string {
	segs := make([]string, 0, len(parts))
	for _, p := range parts {
		for _, s := range strings.Split(p, "/") {
			if s != "" {
				segs = append(segs, s)
			}
		}
	}
	return strings.Join(segs, "/")
}

// retrievalError builds the classified error returned for any failed retrieval.
func retrievalError(address string, status int, cause error) *errors.ClassifiedError {
	msg := fmt.Sprintf("failed to retrieve %s", address)
	if status > 0 {
		msg = fmt.Sprintf("failed to retrieve %s (status %d)", address, status)
	}
	b := errors.RetrievalError(msg).WithContext("address", address)
	if status > 0 {
		b = b.WithContext("status", status)
	}
	if cause != nil {
		b = b.WithCause(cause)
	}
	return b.Build()
}

// IsRetrieval reports whether err is a retrieval failure, as opposed to a
// parse failure of content that was retrieved.
func IsRetrieval(err error) bool {
	return errors.HasCategory(err, errors.CategoryRetrieval)
}

// StatusOf returns the HTTP status recorded on a retrieval error, or 0.
func StatusOf(err error) int {
	ce, ok := errors.AsClassified(err)
	if !ok {
		return 0
	}
	v, ok := ce.Context().Get("status")
	if !ok {
		return 0
	}
	status, _ := v.(int)
	return status
}

// hasTraversal reports whether a relative path contains a ".." segment.
func hasTraversal(rel string) bool {
	for _, s := range strings.Split(rel, "/") {
		if s == ".." {
			return true
		}
	}
	return false
}
