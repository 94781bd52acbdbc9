package config

import (
	"fmt"
	"regexp"

	"git.home.luguber.info/inful/docsite/internal/foundation/errors"
)

var sourceIDPattern = regexp.MustCompile(`^[a-z0-9][a-z0-9_-]*$`)

// Validate checks the configuration after defaults have been applied.
func (c *Config) Validate() error {
	v := configurationValidator{config: c}
	return v.validate()
}

type configurationValidator struct {
	config *Config
}

func (cv configurationValidator) validate() error {
	if err := cv.validateSources(); err != nil {
		return err
	}
	if err := cv.validateFetch(); err != nil {
		return err
	}
	if err := cv.validateCache(); err != nil {
		return err
	}
	return cv.validateRender()
}

func (cv configurationValidator) validateSources() error {
	if len(cv.config.Sources) == 0 {
		return errors.ConfigError("sources must not be empty").Build()
	}
	seen := make(map[string]struct{}, len(cv.config.Sources))
	for i, s := range cv.config.Sources {
		if !sourceIDPattern.MatchString(s.ID) {
			return errors.ValidationError(fmt.Sprintf("sources[%d]: id %q must match %s", i, s.ID, sourceIDPattern)).
				WithContext("source", s.ID).Build()
		}
		if _, dup := seen[s.ID]; dup {
			return errors.ValidationError(fmt.Sprintf("sources[%d]: duplicate id %q", i, s.ID)).
				WithContext("source", s.ID).Build()
		}
		seen[s.ID] = struct{}{}
		if s.Owner == "" || s.Repo == "" {
			return errors.ValidationError(fmt.Sprintf("sources[%d]: owner and repo are required", i)).
				WithContext("source", s.ID).Build()
		}
	}
	return nil
}

func (cv configurationValidator) validateFetch() error {
	f := cv.config.Fetch
	if f.Timeout <= 0 {
		return errors.ValidationError("fetch.timeout must be positive").Build()
	}
	if f.Retry.Initial <= 0 || f.Retry.Max <= 0 {
		return errors.ValidationError("fetch.retry initial and max must be positive").Build()
	}
	if f.Retry.Retries() < 0 {
		return errors.ValidationError("fetch.retry.max_retries cannot be negative").Build()
	}
	if f.WatchLocal && f.LocalDir == "" {
		return errors.ValidationError("fetch.watch_local requires fetch.local_dir").Build()
	}
	return nil
}

func (cv configurationValidator) validateCache() error {
	c := cv.config.Cache
	if c.TTL <= 0 {
		return errors.ValidationError("cache.ttl must be positive").Build()
	}
	switch c.Backend {
	case CacheBackendSQLite:
		if c.SQLitePath == "" {
			return errors.ValidationError("cache.sqlite_path is required for the sqlite backend").Build()
		}
	case CacheBackendNATS:
		if c.NATSURL == "" {
			return errors.ValidationError("cache.nats_url is required for the nats backend").Build()
		}
	}
	return nil
}

func (cv configurationValidator) validateRender() error {
	d := cv.config.Render.Diagrams
	if d.Timeout <= 0 {
		return errors.ValidationError("render.diagrams.timeout must be positive").Build()
	}
	if d.Concurrency < 1 {
		return errors.ValidationError("render.diagrams.concurrency must be at least 1").Build()
	}
	if cv.config.Warmup.Enabled && cv.config.Warmup.Interval <= 0 {
		return errors.ValidationError("warmup.interval must be positive").Build()
	}
	return nil
}
