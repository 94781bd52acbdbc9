package fetch

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"

	"git.home.luguber.info/inful/docsite/internal/logfields"
	"git.home.luguber.info/inful/docsite/internal/registry"
)

// LocalFetcher serves files from a development checkout at
// {Dir}/{repo}/{docsPath}/{relPath}, falling back to Remote on any read failure.
type LocalFetcher struct {
	Dir    string
	Remote Fetcher
	Logger *slog.Logger
}

// LocalPath returns the on-disk location checked for relPath.
func (l *LocalFetcher) LocalPath(src registry.Source, relPath string) string {
	return filepath.Join(l.Dir, src.Repo, filepath.FromSlash(repoPath(src, relPath)))
}

// Fetch implements Fetcher.
func (l *LocalFetcher) Fetch(ctx context.Context, src registry.Source, relPath string) (string, error) {
	if l.Dir != "" && !hasTraversal(relPath) {
		p := l.LocalPath(src, relPath)
		data, err := os.ReadFile(p)
		if err == nil {
			return string(data), nil
		}
		l.logger().DebugContext(ctx, "local override unavailable, falling back to remote",
			logfields.Source(src.ID), logfields.Path(p), logfields.Error(err))
	}
	if l.Remote == nil {
		return "", retrievalError(Address(src, relPath), 0, os.ErrNotExist)
	}
	return l.Remote.Fetch(ctx, src, relPath)
}

func (l *LocalFetcher) logger() *slog.Logger {
	if l.Logger == nil {
		return slog.Default()
	}
	return l.Logger
}
