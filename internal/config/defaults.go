package config

import "time"

// Default values applied when the configuration leaves a field empty.
const (
	DefaultAddr           = ":8080"
	DefaultDocsRoot       = "docs"
	DefaultRawBaseURL     = "https://raw.githubusercontent.com"
	DefaultFetchTimeout   = 10 * time.Second
	DefaultCacheTTL       = time.Hour
	DefaultSQLitePath     = "docsite-cache.db"
	DefaultNATSBucket     = "docsite_content"
	DefaultHighlightStyle = "github"
	DefaultKrokiURL       = "https://kroki.io"
	DefaultWarmupInterval = 30 * time.Minute
	DefaultMetricsPath    = "/metrics"
)

func applyDefaults(c *Config) {
	for i := range c.Sources {
		s := &c.Sources[i]
		if s.Branch == "" {
			s.Branch = "main"
		}
		if s.DocsPath == "" {
			s.DocsPath = "docs"
		}
		if s.Title == "" {
			s.Title = s.ID
		}
	}

	if c.Server.Addr == "" {
		c.Server.Addr = DefaultAddr
	}
	if c.Server.DocsRoot == "" {
		c.Server.DocsRoot = DefaultDocsRoot
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = 15 * time.Second
	}
	if c.Server.WriteTimeout == 0 {
		c.Server.WriteTimeout = 60 * time.Second
	}

	if c.Fetch.Mode == "" {
		c.Fetch.Mode = FetchModeHTTP
	}
	if c.Fetch.RawBaseURL == "" {
		c.Fetch.RawBaseURL = DefaultRawBaseURL
	}
	if c.Fetch.Timeout == 0 {
		c.Fetch.Timeout = DefaultFetchTimeout
	}
	if c.Fetch.Retry.Mode == "" {
		c.Fetch.Retry.Mode = RetryBackoffLinear
	}
	if c.Fetch.Retry.Initial == 0 {
		c.Fetch.Retry.Initial = time.Second
	}
	if c.Fetch.Retry.Max == 0 {
		c.Fetch.Retry.Max = 10 * time.Second
	}
	if c.Fetch.RateLimit.PerSecond > 0 && c.Fetch.RateLimit.Burst <= 0 {
		c.Fetch.RateLimit.Burst = int(2 * c.Fetch.RateLimit.PerSecond)
		if c.Fetch.RateLimit.Burst < 1 {
			c.Fetch.RateLimit.Burst = 1
		}
	}

	if c.Cache.Backend == "" {
		c.Cache.Backend = CacheBackendMemory
	}
	if c.Cache.TTL == 0 {
		c.Cache.TTL = DefaultCacheTTL
	}
	if c.Cache.Backend == CacheBackendSQLite && c.Cache.SQLitePath == "" {
		c.Cache.SQLitePath = DefaultSQLitePath
	}
	if c.Cache.Backend == CacheBackendNATS && c.Cache.NATSBucket == "" {
		c.Cache.NATSBucket = DefaultNATSBucket
	}

	if c.Render.HighlightStyle == "" {
		c.Render.HighlightStyle = DefaultHighlightStyle
	}
	if c.Render.Diagrams.Renderer == "" {
		c.Render.Diagrams.Renderer = DiagramRendererClient
	}
	if c.Render.Diagrams.Renderer == DiagramRendererKroki && c.Render.Diagrams.KrokiURL == "" {
		c.Render.Diagrams.KrokiURL = DefaultKrokiURL
	}
	if c.Render.Diagrams.Timeout == 0 {
		c.Render.Diagrams.Timeout = 10 * time.Second
	}
	if c.Render.Diagrams.Concurrency == 0 {
		c.Render.Diagrams.Concurrency = 4
	}

	if c.Warmup.Interval == 0 {
		c.Warmup.Interval = DefaultWarmupInterval
	}

	if c.Logging.Level == "" {
		c.Logging.Level = LogLevelInfo
	}
	if c.Logging.Format == "" {
		c.Logging.Format = LogFormatText
	}

	if c.Metrics.Path == "" {
		c.Metrics.Path = DefaultMetricsPath
	}
}
