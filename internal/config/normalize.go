package config

import (
	"fmt"
	"slices"
	"strings"

	"git.home.luguber.info/inful/docsite/internal/foundation/errors"
)

// FetchMode selects the remote retrieval strategy.
type FetchMode string

const (
	FetchModeHTTP FetchMode = "http"
	FetchModeGit  FetchMode = "git"
)

// CacheBackend selects where fetched content is cached.
type CacheBackend string

const (
	CacheBackendMemory CacheBackend = "memory"
	CacheBackendSQLite CacheBackend = "sqlite"
	CacheBackendNATS   CacheBackend = "nats"
	CacheBackendNone   CacheBackend = "none"
)

// DiagramRenderer selects how diagram blocks are turned into visuals.
type DiagramRenderer string

const (
	DiagramRendererClient DiagramRenderer = "client"
	DiagramRendererKroki  DiagramRenderer = "kroki"
)

// RetryBackoffMode enumerates supported backoff strategies for retries.
type RetryBackoffMode string

const (
	RetryBackoffFixed       RetryBackoffMode = "fixed"
	RetryBackoffLinear      RetryBackoffMode = "linear"
	RetryBackoffExponential RetryBackoffMode = "exponential"
)

// LogLevel enumerates supported logging levels.
type LogLevel string

const (
	LogLevelDebug LogLevel = "debug"
	LogLevelInfo  LogLevel = "info"
	LogLevelWarn  LogLevel = "warn"
	LogLevelError LogLevel = "error"
)

// LogFormat enumerates supported log output formats.
type LogFormat string

const (
	LogFormatJSON LogFormat = "json"
	LogFormatText LogFormat = "text"
)

// enum is the closed set of accepted values for one string-typed config field.
type enum[T ~string] struct {
	field  string
	values []T
}

// normalize lowercases and trims raw. Empty input stays empty so defaults apply later.
func (e enum[T]) normalize(raw T) (T, error) {
	v := T(strings.ToLower(strings.TrimSpace(string(raw))))
	if v == "" || slices.Contains(e.values, v) {
		return v, nil
	}
	valid := make([]string, len(e.values))
	for i, x := range e.values {
		valid[i] = string(x)
	}
	return v, errors.ValidationError(fmt.Sprintf("invalid %s %q (valid: %s)", e.field, string(raw), strings.Join(valid, ", "))).
		WithContext("field", e.field).Build()
}

var (
	fetchModes       = enum[FetchMode]{"fetch.mode", []FetchMode{FetchModeHTTP, FetchModeGit}}
	cacheBackends    = enum[CacheBackend]{"cache.backend", []CacheBackend{CacheBackendMemory, CacheBackendSQLite, CacheBackendNATS, CacheBackendNone}}
	diagramRenderers = enum[DiagramRenderer]{"render.diagrams.renderer", []DiagramRenderer{DiagramRendererClient, DiagramRendererKroki}}
	retryModes       = enum[RetryBackoffMode]{"fetch.retry.mode", []RetryBackoffMode{RetryBackoffFixed, RetryBackoffLinear, RetryBackoffExponential}}
	logLevels        = enum[LogLevel]{"logging.level", []LogLevel{LogLevelDebug, LogLevelInfo, LogLevelWarn, LogLevelError}}
	logFormats       = enum[LogFormat]{"logging.format", []LogFormat{LogFormatText, LogFormatJSON}}
)

// normalize canonicalizes enumerated fields in place prior to default application.
func normalize(c *Config) error {
	var err error
	if c.Fetch.Mode, err = fetchModes.normalize(c.Fetch.Mode); err != nil {
		return err
	}
	if c.Fetch.Retry.Mode, err = retryModes.normalize(c.Fetch.Retry.Mode); err != nil {
		return err
	}
	if c.Cache.Backend, err = cacheBackends.normalize(c.Cache.Backend); err != nil {
		return err
	}
	if c.Render.Diagrams.Renderer, err = diagramRenderers.normalize(c.Render.Diagrams.Renderer); err != nil {
		return err
	}
	if c.Logging.Level, err = logLevels.normalize(c.Logging.Level); err != nil {
		return err
	}
	if c.Logging.Format, err = logFormats.normalize(c.Logging.Format); err != nil {
		return err
	}
	for i := range c.Sources {
		c.Sources[i].ID = strings.TrimSpace(c.Sources[i].ID)
	}
	return nil
}
