package fetch

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/singleflight"

	"git.home.luguber.info/inful/docsite/internal/logfields"
	"git.home.luguber.info/inful/docsite/internal/metrics"
	"git.home.luguber.info/inful/docsite/internal/registry"
)

// DefaultTTL is the staleness window for cached content.
const DefaultTTL = time.Hour

// CachingFetcher serves fetched content from a Store for up to TTL. Misses
// for the same key are collapsed into one upstream fetch, and when upstream
// fails a stale entry is served instead of the error.
type CachingFetcher struct {
	Next     Fetcher
	Store    Store
	TTL      time.Duration
	Recorder metrics.Recorder
	Logger   *slog.Logger
	Now      func() time.Time

	group singleflight.Group
}

// NewCachingFetcher wraps next with store.
func NewCachingFetcher(next Fetcher, store Store, ttl time.Duration, rec metrics.Recorder, logger *slog.Logger) *CachingFetcher {
	return &CachingFetcher{Next: next, Store: store, TTL: ttl, Recorder: rec, Logger: logger}
}

// Fetch implements Fetcher.
func (c *CachingFetcher) Fetch(ctx context.Context, src registry.Source, relPath string) (string, error) {
	key := Address(src, relPath)
	rec := metrics.OrNoop(c.Recorder)

	entry, cached, err := c.Store.Get(ctx, key)
	if err != nil {
		c.logger().WarnContext(ctx, "cache read failed", logfields.Address(key), logfields.Error(err))
		cached = false
	}
	if cached && c.now().Sub(entry.FetchedAt) < c.ttl() {
		rec.IncCacheResult(metrics.CacheHit)
		c.logger().DebugContext(ctx, "cache hit", logfields.Address(key), logfields.Cache(string(metrics.CacheHit)))
		return entry.Content, nil
	}

	// The shared fetch outlives any single caller; Next bounds it with its own timeout.
	shared := context.WithoutCancel(ctx)
	ch := c.group.DoChan(key, func() (any, error) {
		content, err := c.Next.Fetch(shared, src, relPath)
		if err != nil {
			return "", err
		}
		if err := c.Store.Set(shared, key, Entry{Content: content, FetchedAt: c.now()}); err != nil {
			c.logger().WarnContext(shared, "cache write failed", logfields.Address(key), logfields.Error(err))
		}
		return content, nil
	})

	var v any
	select {
	case res := <-ch:
		v, err = res.Val, res.Err
	case <-ctx.Done():
		err = retrievalError(key, 0, ctx.Err())
	}
	if err != nil {
		if cached {
			rec.IncCacheResult(metrics.CacheStale)
			c.logger().WarnContext(ctx, "upstream fetch failed, serving stale content",
				logfields.Address(key), logfields.Cache(string(metrics.CacheStale)),
				slog.Time("fetched_at", entry.FetchedAt), logfields.Error(err))
			return entry.Content, nil
		}
		return "", err
	}
	rec.IncCacheResult(metrics.CacheMiss)
	return v.(string), nil
}

// Invalidate drops the cached entry for relPath so the next Fetch goes upstream.
func (c *CachingFetcher) Invalidate(ctx context.Context, src registry.Source, relPath string) error {
	return c.Store.Delete(ctx, Address(src, relPath))
}

func (c *CachingFetcher) ttl() time.Duration {
	if c.TTL <= 0 {
		return DefaultTTL
	}
	return c.TTL
}

func (c *CachingFetcher) now() time.Time {
	if c.Now == nil {
		return time.Now()
	}
	return c.Now()
}

func (c *CachingFetcher) logger() *slog.Logger {
	if c.Logger == nil {
		return slog.Default()
	}
	return c.Logger
}
