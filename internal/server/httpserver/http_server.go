// Package httpserver wires the docsite routes, middleware and lifecycle.
package httpserver

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strings"

	"git.home.luguber.info/inful/docsite/internal/config"
	derrors "git.home.luguber.info/inful/docsite/internal/foundation/errors"
	"git.home.luguber.info/inful/docsite/internal/logfields"
	handlers "git.home.luguber.info/inful/docsite/internal/server/handlers"
	smw "git.home.luguber.info/inful/docsite/internal/server/middleware"
)

// Options carries the runtime collaborators of the server.
type Options struct {
	Site handlers.Site
	// Stylesheet is served at /assets/chroma.css.
	Stylesheet string
	// MetricsHandler is mounted at the configured metrics path; nil disables it.
	MetricsHandler http.Handler
	Logger         *slog.Logger
}

// Server manages the documentation HTTP endpoint.
type Server struct {
	cfg    *config.Config
	opts   Options
	logger *slog.Logger
	srv    *http.Server
	ln     net.Listener

	docsHandlers       *handlers.DocsHandlers
	apiHandlers        *handlers.APIHandlers
	monitoringHandlers *handlers.MonitoringHandlers

	mchain func(http.Handler) http.Handler
}

// New constructs a server; call Start to begin serving.
func New(cfg *config.Config, opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{cfg: cfg, opts: opts, logger: logger}

	s.docsHandlers = handlers.NewDocsHandlers(opts.Site, logger)
	s.apiHandlers = handlers.NewAPIHandlers(opts.Site, s.docsRoot(), logger)
	s.monitoringHandlers = handlers.NewMonitoringHandlers(opts.Site, opts.Stylesheet, logger)

	s.mchain = smw.Chain(logger, derrors.NewHTTPErrorAdapter(logger), cfg.Server.GzipEnabled())
	return s
}

func (s *Server) docsRoot() string {
	root := strings.Trim(s.cfg.Server.DocsRoot, "/")
	if root == "" {
		return config.DefaultDocsRoot
	}
	return root
}

// Handler returns the fully wrapped route table.
func (s *Server) Handler() http.Handler {
	root := "/" + s.docsRoot()
	mux := http.NewServeMux()

	mux.HandleFunc("GET /{$}", s.docsHandlers.HandleLanding)
	mux.HandleFunc("GET "+root, s.docsHandlers.HandleLanding)
	mux.HandleFunc("GET "+root+"/{$}", s.docsHandlers.HandleLanding)
	mux.HandleFunc("GET "+root+"/{source}", s.docsHandlers.HandlePage)
	mux.HandleFunc("GET "+root+"/{source}/{page...}", s.docsHandlers.HandlePage)

	mux.HandleFunc("GET /api/sources", s.apiHandlers.HandleSources)
	mux.HandleFunc("GET /api/docs/{source}/manifest", s.apiHandlers.HandleManifest)
	mux.HandleFunc("GET /api/docs/{source}/pages/{page...}", s.apiHandlers.HandlePage)

	mux.HandleFunc("GET /assets/chroma.css", s.monitoringHandlers.HandleStylesheet)
	mux.HandleFunc("GET /healthz", s.monitoringHandlers.HandleHealthCheck)
	mux.HandleFunc("GET /readyz", s.monitoringHandlers.HandleReadiness)

	if s.opts.MetricsHandler != nil && s.cfg.Metrics.IsEnabled() {
		path := s.cfg.Metrics.Path
		if path == "" {
			path = config.DefaultMetricsPath
		}
		mux.Handle("GET "+path, s.opts.MetricsHandler)
	}
	return s.mchain(mux)
}

// Start binds the listen address and serves in the background. Binding
// happens synchronously so an occupied port fails fast.
func (s *Server) Start(ctx context.Context) error {
	addr := s.cfg.Server.Addr
	if addr == "" {
		addr = config.DefaultAddr
	}
	lc := net.ListenConfig{}
	ln, err := lc.Listen(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("http startup failed: %w", err)
	}
	s.ln = ln
	s.srv = &http.Server{
		Handler:      s.Handler(),
		ReadTimeout:  s.cfg.Server.ReadTimeout,
		WriteTimeout: s.cfg.Server.WriteTimeout,
		BaseContext:  func(net.Listener) context.Context { return ctx },
	}

	go func() {
		if err := s.srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("docs server error", logfields.Error(err))
		}
	}()
	s.logger.Info("HTTP server started", logfields.Address(ln.Addr().String()))
	return nil
}

// Addr is the bound listen address, or "" before Start.
func (s *Server) Addr() string {
	if s.ln == nil {
		return ""
	}
	return s.ln.Addr().String()
}

// Stop gracefully shuts the server down.
func (s *Server) Stop(ctx context.Context) error {
	if s.srv == nil {
		return nil
	}
	if err := s.srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("docs server shutdown: %w", err)
	}
	s.logger.Info("HTTP server stopped")
	return nil
}
