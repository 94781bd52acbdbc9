package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"git.home.luguber.info/inful/docsite/internal/foundation/errors"
)

// DefaultPath is the configuration file used when none is given on the command line.
const DefaultPath = "docsite.yaml"

// Config represents the application configuration.
type Config struct {
	Sources []SourceConfig `yaml:"sources"`
	Server  ServerConfig   `yaml:"server"`
	Fetch   FetchConfig    `yaml:"fetch"`
	Cache   CacheConfig    `yaml:"cache"`
	Render  RenderConfig   `yaml:"render"`
	Warmup  WarmupConfig   `yaml:"warmup"`
	Logging LoggingConfig  `yaml:"logging"`
	Metrics MetricsConfig  `yaml:"metrics"`
}

// SourceConfig describes one documentation source (an external repository).
type SourceConfig struct {
	ID       string `yaml:"id"`
	Title    string `yaml:"title"`
	Order    int    `yaml:"order"`
	Owner    string `yaml:"owner"`
	Repo     string `yaml:"repo"`
	Branch   string `yaml:"branch,omitempty"`
	DocsPath string `yaml:"docs_path,omitempty"`
	Enabled  *bool  `yaml:"enabled,omitempty"` // nil means enabled
}

// IsEnabled reports whether the source is enabled; sources default to enabled.
func (s SourceConfig) IsEnabled() bool { return s.Enabled == nil || *s.Enabled }

// ServerConfig configures the HTTP listener.
type ServerConfig struct {
	Addr         string        `yaml:"addr"`
	DocsRoot     string        `yaml:"docs_root"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
	Gzip         *bool         `yaml:"gzip,omitempty"`
}

// GzipEnabled reports whether responses are compressed (default true).
func (s ServerConfig) GzipEnabled() bool { return s.Gzip == nil || *s.Gzip }

// FetchConfig selects and tunes the content retrieval strategy.
type FetchConfig struct {
	Mode       FetchMode       `yaml:"mode"`
	RawBaseURL string          `yaml:"raw_base_url,omitempty"`
	Timeout    time.Duration   `yaml:"timeout"`
	LocalDir   string          `yaml:"local_dir,omitempty"`
	WatchLocal bool            `yaml:"watch_local,omitempty"`
	Retry      RetryConfig     `yaml:"retry"`
	RateLimit  RateLimitConfig `yaml:"rate_limit"`
}

// RetryConfig holds backoff settings for transient fetch failures.
type RetryConfig struct {
	Mode       RetryBackoffMode `yaml:"mode"`
	Initial    time.Duration    `yaml:"initial"`
	Max        time.Duration    `yaml:"max"`
	MaxRetries *int             `yaml:"max_retries,omitempty"`
}

// Retries returns the configured retry count (default 2).
func (r RetryConfig) Retries() int {
	if r.MaxRetries == nil {
		return 2
	}
	return *r.MaxRetries
}

// RateLimitConfig bounds outbound fetch requests. PerSecond <= 0 disables limiting.
type RateLimitConfig struct {
	PerSecond float64 `yaml:"per_second"`
	Burst     int     `yaml:"burst"`
}

// CacheConfig selects the fetch cache backend.
type CacheConfig struct {
	Backend    CacheBackend  `yaml:"backend"`
	TTL        time.Duration `yaml:"ttl"`
	SQLitePath string        `yaml:"sqlite_path,omitempty"`
	NATSURL    string        `yaml:"nats_url,omitempty"`
	NATSBucket string        `yaml:"nats_bucket,omitempty"`
}

// RenderConfig tunes markdown rendering collaborators.
type RenderConfig struct {
	HighlightStyle string        `yaml:"highlight_style"`
	LineNumbers    *bool         `yaml:"line_numbers,omitempty"`
	Diagrams       DiagramConfig `yaml:"diagrams"`
}

// LineNumbersEnabled reports whether highlighted code carries line numbers (default true).
func (r RenderConfig) LineNumbersEnabled() bool { return r.LineNumbers == nil || *r.LineNumbers }

// DiagramConfig selects the diagram renderer.
type DiagramConfig struct {
	Renderer    DiagramRenderer `yaml:"renderer"`
	KrokiURL    string          `yaml:"kroki_url,omitempty"`
	Timeout     time.Duration   `yaml:"timeout"`
	Concurrency int             `yaml:"concurrency"`
}

// WarmupConfig configures the background cache warmer.
type WarmupConfig struct {
	Enabled  bool          `yaml:"enabled"`
	Interval time.Duration `yaml:"interval"`
}

// LoggingConfig selects the slog handler.
type LoggingConfig struct {
	Level  LogLevel  `yaml:"level"`
	Format LogFormat `yaml:"format"`
}

// MetricsConfig toggles the Prometheus endpoint.
type MetricsConfig struct {
	Enabled *bool  `yaml:"enabled,omitempty"`
	Path    string `yaml:"path"`
}

// IsEnabled reports whether metrics are exposed (default true).
func (m MetricsConfig) IsEnabled() bool { return m.Enabled == nil || *m.Enabled }

// Load reads, expands, normalizes, defaults and validates the configuration at path.
// A .env or .env.local in the working directory is loaded first; variables
// already present in the environment win.
func Load(path string) (*Config, error) {
	loadEnvFiles()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, errors.ConfigError(fmt.Sprintf("configuration file not found: %s", path)).
			WithContext("path", path).Build()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryConfig, "failed to read config file").
			WithContext("path", path).Fatal().Build()
	}
	return Parse(data)
}

// Parse decodes configuration YAML with ${VAR} expansion, then normalizes,
// applies defaults and validates it.
func Parse(data []byte) (*Config, error) {
	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, errors.WrapError(err, errors.CategoryConfig, "failed to unmarshal config").Fatal().Build()
	}

	if err := normalize(&cfg); err != nil {
		return nil, err
	}
	applyDefaults(&cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func loadEnvFiles() {
	var present []string
	for _, p := range []string{".env", ".env.local"} {
		if _, err := os.Stat(p); err == nil {
			present = append(present, p)
		}
	}
	if len(present) == 0 {
		return
	}
	// godotenv.Load never overrides variables that are already set.
	if err := godotenv.Load(present...); err != nil {
		fmt.Fprintf(os.Stderr, "Note: .env file could not be loaded: %v\n", err)
	}
}
