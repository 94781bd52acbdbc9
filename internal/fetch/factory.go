package fetch

import (
	"context"
	"io"
	"log/slog"

	"git.home.luguber.info/inful/docsite/internal/config"
	"git.home.luguber.info/inful/docsite/internal/foundation/errors"
	"git.home.luguber.info/inful/docsite/internal/metrics"
)

// Stack is the assembled fetcher chain: remote strategy, optional local
// override, optional cache.
type Stack struct {
	Fetcher Fetcher
	Cache   *CachingFetcher // nil when caching is disabled

	closers []io.Closer
}

// Close releases cache backend connections.
func (s *Stack) Close() error {
	var first error
	for _, c := range s.closers {
		if err := c.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// Build assembles the fetcher chain described by cfg. The cache sits outermost
// so local overrides are cached too; the watcher invalidates them on change.
func Build(ctx context.Context, cfg *config.Config, rec metrics.Recorder, logger *slog.Logger) (*Stack, error) {
	var remote Fetcher
	switch cfg.Fetch.Mode {
	case config.FetchModeGit:
		remote = NewGitFetcher(cfg.Cache.TTL, cfg.Fetch.Timeout, rec, logger)
	default:
		remote = NewHTTPFetcher(cfg.Fetch, rec, logger)
	}

	stack := &Stack{Fetcher: remote}
	if cfg.Fetch.LocalDir != "" {
		stack.Fetcher = &LocalFetcher{Dir: cfg.Fetch.LocalDir, Remote: remote, Logger: logger}
	}

	var store Store
	switch cfg.Cache.Backend {
	case config.CacheBackendNone:
		return stack, nil
	case config.CacheBackendSQLite:
		s, err := NewSQLiteStore(cfg.Cache.SQLitePath)
		if err != nil {
			return nil, errors.WrapError(err, errors.CategoryConfig, "failed to open sqlite cache").
				WithContext("path", cfg.Cache.SQLitePath).Build()
		}
		store = s
		stack.closers = append(stack.closers, s)
	case config.CacheBackendNATS:
		s, err := NewNATSStore(ctx, cfg.Cache.NATSURL, cfg.Cache.NATSBucket, cfg.Cache.TTL)
		if err != nil {
			return nil, errors.WrapError(err, errors.CategoryRuntime, "failed to open NATS cache").
				WithContext("url", cfg.Cache.NATSURL).Build()
		}
		store = s
		stack.closers = append(stack.closers, s)
	default:
		store = NewMemoryStore()
	}

	stack.Cache = NewCachingFetcher(stack.Fetcher, store, cfg.Cache.TTL, rec, logger)
	stack.Fetcher = stack.Cache
	return stack, nil
}
