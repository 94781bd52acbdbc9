package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"git.home.luguber.info/inful/docsite/internal/config"
	"git.home.luguber.info/inful/docsite/internal/fetch"
	"git.home.luguber.info/inful/docsite/internal/logfields"
	"git.home.luguber.info/inful/docsite/internal/metrics"
	"git.home.luguber.info/inful/docsite/internal/server/httpserver"
	"git.home.luguber.info/inful/docsite/internal/warmup"
)

// ServeCmd implements the 'serve' command.
type ServeCmd struct {
	Addr string `short:"a" help:"Override the listen address from the configuration"`
}

func (s *ServeCmd) Run(g *Global, root *CLI) error {
	cfg, err := root.loadConfig(g)
	if err != nil {
		return err
	}
	if s.Addr != "" {
		cfg.Server.Addr = s.Addr
	}
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()
	return RunServe(ctx, cfg, g.Logger)
}

// RunServe starts the HTTP server plus the optional warmer and local
// watcher, and blocks until ctx is cancelled.
func RunServe(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	reg := prom.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	rec := metrics.NewPrometheusRecorder(reg)

	rt, err := buildRuntime(ctx, cfg, rec, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := rt.Close(); err != nil {
			logger.Warn("Failed to close fetch stack", logfields.Error(err))
		}
	}()

	srv := httpserver.New(cfg, httpserver.Options{
		Site:           rt.Site,
		Stylesheet:     rt.Highlighter.CSS(),
		MetricsHandler: metrics.HTTPHandler(reg),
		Logger:         logger,
	})
	if err := srv.Start(ctx); err != nil {
		return err
	}

	if cfg.Warmup.Enabled {
		w, err := warmup.New(rt.Site, cfg.Warmup.Interval, logger)
		if err != nil {
			return err
		}
		if err := w.Start(ctx); err != nil {
			return err
		}
		defer func() {
			if err := w.Stop(); err != nil {
				logger.Warn("Failed to stop cache warmer", logfields.Error(err))
			}
		}()
	}

	if cfg.Fetch.WatchLocal && cfg.Fetch.LocalDir != "" && rt.Stack.Cache != nil {
		watcher := &fetch.Watcher{
			Dir:     cfg.Fetch.LocalDir,
			Sources: rt.Registry.Enabled(),
			Cache:   rt.Stack.Cache,
			Logger:  logger,
		}
		go func() {
			if err := watcher.Run(ctx); err != nil {
				logger.Error("Local watcher stopped", logfields.Error(err))
			}
		}()
	}

	logger.Info("docsite serving", logfields.Address(srv.Addr()), logfields.Count(len(rt.Registry.Enabled())))
	<-ctx.Done()
	logger.Info("Shutdown signal received, stopping server...")

	stopCtx, stopCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer stopCancel()
	if err := srv.Stop(stopCtx); err != nil {
		return fmt.Errorf("failed to stop server: %w", err)
	}
	logger.Info("Server stopped successfully")
	return nil
}
