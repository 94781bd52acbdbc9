package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"git.home.luguber.info/inful/docsite/internal/foundation/errors"
)

// Example returns the configuration written by Init.
func Example() Config {
	enabled := true
	return Config{
		Sources: []SourceConfig{
			{
				ID:       "agent",
				Title:    "SSI Agent",
				Order:    1,
				Owner:    "RemiZlatinis",
				Repo:     "ssi-agent",
				Branch:   "main",
				DocsPath: "docs",
				Enabled:  &enabled,
			},
		},
		Server: ServerConfig{Addr: DefaultAddr, DocsRoot: DefaultDocsRoot},
		Fetch: FetchConfig{
			Mode:       FetchModeHTTP,
			RawBaseURL: DefaultRawBaseURL,
			Timeout:    DefaultFetchTimeout,
			RateLimit:  RateLimitConfig{PerSecond: 10, Burst: 20},
		},
		Cache:   CacheConfig{Backend: CacheBackendMemory, TTL: DefaultCacheTTL},
		Render:  RenderConfig{HighlightStyle: DefaultHighlightStyle, Diagrams: DiagramConfig{Renderer: DiagramRendererClient}},
		Warmup:  WarmupConfig{Enabled: false, Interval: DefaultWarmupInterval},
		Logging: LoggingConfig{Level: LogLevelInfo, Format: LogFormatText},
		Metrics: MetricsConfig{Path: DefaultMetricsPath},
	}
}

// Init creates a new configuration file with example content.
func Init(configPath string, force bool) error {
	if _, err := os.Stat(configPath); err == nil && !force {
		return errors.ConfigError(fmt.Sprintf("configuration file already exists: %s (use --force to overwrite)", configPath)).
			WithContext("path", configPath).Build()
	}

	cfg := Example()
	data, err := yaml.Marshal(&cfg)
	if err != nil {
		return errors.WrapError(err, errors.CategoryInternal, "failed to marshal config").Build()
	}

	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		return errors.WrapError(err, errors.CategoryConfig, "failed to write config file").
			WithContext("path", configPath).Build()
	}
	return nil
}
