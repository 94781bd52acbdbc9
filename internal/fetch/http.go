package fetch

import (
	"context"
	stderrors "errors"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"git.home.luguber.info/inful/docsite/internal/config"
	"git.home.luguber.info/inful/docsite/internal/logfields"
	"git.home.luguber.info/inful/docsite/internal/metrics"
	"git.home.luguber.info/inful/docsite/internal/registry"
	"git.home.luguber.info/inful/docsite/internal/retry"
)

// maxBodyBytes bounds a single raw file.
const maxBodyBytes = 8 << 20

// HTTPFetcher retrieves files from a raw-content host such as
// raw.githubusercontent.com at {BaseURL}/{Address}.
type HTTPFetcher struct {
	BaseURL  string
	Client   *http.Client
	Timeout  time.Duration
	Limiter  *rate.Limiter // optional
	Retry    retry.Policy
	Recorder metrics.Recorder
	Logger   *slog.Logger
}

// NewHTTPFetcher builds an HTTP fetcher from the fetch configuration block.
func NewHTTPFetcher(cfg config.FetchConfig, rec metrics.Recorder, logger *slog.Logger) *HTTPFetcher {
	f := &HTTPFetcher{
		BaseURL:  cfg.RawBaseURL,
		Client:   &http.Client{},
		Timeout:  cfg.Timeout,
		Retry:    retry.FromConfig(cfg.Retry),
		Recorder: rec,
		Logger:   logger,
	}
	if cfg.RateLimit.PerSecond > 0 {
		f.Limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit.PerSecond), cfg.RateLimit.Burst)
	}
	return f
}

// URL returns the absolute URL of relPath for src.
func (f *HTTPFetcher) URL(src registry.Source, relPath string) string {
	return strings.TrimRight(f.BaseURL, "/") + "/" + Address(src, relPath)
}

// Fetch GETs the file, retrying 5xx, 429 and network failures per the retry policy.
func (f *HTTPFetcher) Fetch(ctx context.Context, src registry.Source, relPath string) (string, error) {
	address := Address(src, relPath)
	url := f.URL(src, relPath)
	start := time.Now()

	var body string
	err := f.Retry.Do(ctx, isTransientHTTP, func(ctx context.Context) error {
		var err error
		body, err = f.get(ctx, url, address)
		if err != nil {
			f.logger().DebugContext(ctx, "fetch attempt failed", logfields.Address(address), logfields.Error(err))
		}
		return err
	})

	metrics.OrNoop(f.Recorder).ObserveFetchDuration("http", time.Since(start), err == nil)
	if err != nil {
		return "", err
	}
	f.logger().DebugContext(ctx, "fetched", logfields.Address(address), logfields.Duration(time.Since(start)))
	return body, nil
}

func (f *HTTPFetcher) get(ctx context.Context, url, address string) (string, error) {
	if f.Limiter != nil {
		if err := f.Limiter.Wait(ctx); err != nil {
			return "", retrievalError(address, 0, err)
		}
	}
	if f.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, f.Timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", retrievalError(address, 0, err)
	}
	resp, err := f.client().Do(req)
	if err != nil {
		return "", retrievalError(address, 0, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return "", retrievalError(address, resp.StatusCode, nil)
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return "", retrievalError(address, resp.StatusCode, err)
	}
	return string(data), nil
}

func (f *HTTPFetcher) client() *http.Client {
	if f.Client == nil {
		return http.DefaultClient
	}
	return f.Client
}

func (f *HTTPFetcher) logger() *slog.Logger {
	if f.Logger == nil {
		return slog.Default()
	}
	return f.Logger
}

// isTransientHTTP treats 5xx, 429 and transport failures as retryable.
// Context cancellation is not.
func isTransientHTTP(err error) bool {
	if stderrors.Is(err, context.Canceled) {
		return false
	}
	status := StatusOf(err)
	switch {
	case status == 0:
		return true
	case status == http.StatusTooManyRequests, status >= 500:
		return true
	default:
		return false
	}
}
