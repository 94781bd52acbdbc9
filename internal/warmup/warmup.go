// Package warmup periodically renders the default page of every enabled
// source so that the fetch cache holds fresh entries before readers ask.
package warmup

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron/v2"

	"git.home.luguber.info/inful/docsite/internal/config"
	"git.home.luguber.info/inful/docsite/internal/logfields"
	"git.home.luguber.info/inful/docsite/internal/registry"
	"git.home.luguber.info/inful/docsite/internal/site"
)

// Site is the subset of site.Service the warmer drives.
type Site interface {
	Sources() []registry.Source
	RenderPage(ctx context.Context, sourceID string, segments []string) (*site.Page, error)
}

// Warmer wraps a gocron scheduler running one singleton warm-up job.
type Warmer struct {
	site      Site
	interval  time.Duration
	logger    *slog.Logger
	scheduler gocron.Scheduler
}

// New creates a warmer. A non-positive interval falls back to the default.
func New(s Site, interval time.Duration, logger *slog.Logger) (*Warmer, error) {
	if interval <= 0 {
		interval = config.DefaultWarmupInterval
	}
	if logger == nil {
		logger = slog.Default()
	}
	sched, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("failed to create gocron scheduler: %w", err)
	}
	return &Warmer{site: s, interval: interval, logger: logger, scheduler: sched}, nil
}

// Start schedules the job, runs it immediately and then every interval.
// ctx bounds every run; cancel it together with Stop.
func (w *Warmer) Start(ctx context.Context) error {
	_, err := w.scheduler.NewJob(
		gocron.DurationJob(w.interval),
		gocron.NewTask(func() { w.RunOnce(ctx) }),
		gocron.WithName("cache-warmup"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
		gocron.WithStartAt(gocron.WithStartImmediately()),
	)
	if err != nil {
		return fmt.Errorf("failed to create warmup job: %w", err)
	}
	w.logger.Info("Starting cache warmer", logfields.Duration(w.interval))
	w.scheduler.Start()
	return nil
}

// Stop shuts the scheduler down, waiting for a running job to finish.
func (w *Warmer) Stop() error {
	w.logger.Info("Stopping cache warmer")
	if err := w.scheduler.Shutdown(); err != nil {
		return fmt.Errorf("failed to stop warmup scheduler: %w", err)
	}
	return nil
}

// RunOnce renders the default page of each enabled source and returns how
// many succeeded. Failures are logged and do not stop the sweep.
func (w *Warmer) RunOnce(ctx context.Context) int {
	start := time.Now()
	warmed := 0
	for _, src := range w.site.Sources() {
		if ctx.Err() != nil {
			break
		}
		if _, err := w.site.RenderPage(ctx, src.ID, nil); err != nil {
			w.logger.WarnContext(ctx, "warmup failed", logfields.Source(src.ID), logfields.Error(err))
			continue
		}
		warmed++
	}
	w.logger.DebugContext(ctx, "warmup finished",
		logfields.Count(warmed), logfields.Duration(time.Since(start)))
	return warmed
}
