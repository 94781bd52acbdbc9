package commands

import (
	"context"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/docsite/internal/config"
	"git.home.luguber.info/inful/docsite/internal/diagram"
	"git.home.luguber.info/inful/docsite/internal/fetch"
	"git.home.luguber.info/inful/docsite/internal/highlight"
	"git.home.luguber.info/inful/docsite/internal/manifest"
	"git.home.luguber.info/inful/docsite/internal/markdown"
	"git.home.luguber.info/inful/docsite/internal/metrics"
	"git.home.luguber.info/inful/docsite/internal/registry"
	"git.home.luguber.info/inful/docsite/internal/site"
)

// Global carries process-wide collaborators into every command.
type Global struct {
	Logger *slog.Logger
	Stdout io.Writer
}

func (g *Global) out() io.Writer {
	if g.Stdout == nil {
		return os.Stdout
	}
	return g.Stdout
}

// CLI definition & global flags.
type CLI struct {
	Config  string           `short:"c" help:"Configuration file path" default:"docsite.yaml" type:"path"`
	Verbose bool             `short:"v" help:"Enable verbose logging"`
	Version kong.VersionFlag `name:"version" help:"Show version and exit"`

	Serve   ServeCmd   `cmd:"" help:"Serve the documentation site over HTTP"`
	Render  RenderCmd  `cmd:"" help:"Render one page to stdout or a file"`
	Check   CheckCmd   `cmd:"" help:"Validate manifests and cross-page links"`
	Tree    TreeCmd    `cmd:"" help:"Print a source's navigation tree"`
	Sources SourcesCmd `cmd:"" help:"List configured documentation sources"`
	Init    InitCmd    `cmd:"" help:"Initialize a new configuration file"`
}

// AfterApply installs a stderr logger honouring -v; commands that load a
// configuration replace it with the configured handler.
// nolint:unparam // AfterApply currently never returns an error.
func (c *CLI) AfterApply(g *Global) error {
	level := slog.LevelInfo
	if c.Verbose {
		level = slog.LevelDebug
	}
	g.Logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(g.Logger)
	return nil
}

// loadConfig reads the configuration and switches logging to its settings.
func (c *CLI) loadConfig(g *Global) (*config.Config, error) {
	cfg, err := config.Load(c.Config)
	if err != nil {
		return nil, err
	}
	g.Logger = NewLogger(os.Stderr, cfg.Logging, c.Verbose)
	slog.SetDefault(g.Logger)
	return cfg, nil
}

// NewLogger builds the slog handler selected by the logging section. verbose
// forces debug level.
func NewLogger(w io.Writer, cfg config.LoggingConfig, verbose bool) *slog.Logger {
	var level slog.Level
	switch cfg.Level {
	case config.LogLevelDebug:
		level = slog.LevelDebug
	case config.LogLevelWarn:
		level = slog.LevelWarn
	case config.LogLevelError:
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}
	if verbose {
		level = slog.LevelDebug
	}
	opts := &slog.HandlerOptions{Level: level}
	if cfg.Format == config.LogFormatJSON {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// runtime is the assembled rendering pipeline shared by serve, render and check.
type runtime struct {
	Registry    *registry.Registry
	Stack       *fetch.Stack
	Loader      *manifest.Loader
	Highlighter *highlight.Chroma
	Site        *site.Service
}

func (r *runtime) Close() error {
	if r.Stack == nil {
		return nil
	}
	return r.Stack.Close()
}

func newDiagramRenderer(cfg config.DiagramConfig) diagram.Renderer {
	if cfg.Renderer == config.DiagramRendererKroki {
		return &diagram.Kroki{BaseURL: cfg.KrokiURL, Timeout: cfg.Timeout}
	}
	return diagram.ClientSide{}
}

// buildRuntime wires registry, fetch stack, manifest loader, highlighter,
// diagram renderer and the site service from cfg.
func buildRuntime(ctx context.Context, cfg *config.Config, rec metrics.Recorder, logger *slog.Logger) (*runtime, error) {
	rec = metrics.OrNoop(rec)
	reg, err := registry.FromConfig(cfg.Sources)
	if err != nil {
		return nil, err
	}
	stack, err := fetch.Build(ctx, cfg, rec, logger)
	if err != nil {
		return nil, err
	}

	hl := highlight.NewChroma(cfg.Render.HighlightStyle, cfg.Render.LineNumbersEnabled())
	loader := &manifest.Loader{Fetcher: stack.Fetcher, Recorder: rec, Logger: logger}
	svc := &site.Service{
		Registry: reg,
		Loader:   loader,
		Fetcher:  stack.Fetcher,
		Transformer: &markdown.Transformer{
			Highlighter:        hl,
			Diagrams:           newDiagramRenderer(cfg.Render.Diagrams),
			DiagramConcurrency: cfg.Render.Diagrams.Concurrency,
			Recorder:           rec,
		},
		Recorder: rec,
		Logger:   logger,
		DocsRoot: cfg.Server.DocsRoot,
	}
	return &runtime{Registry: reg, Stack: stack, Loader: loader, Highlighter: hl, Site: svc}, nil
}

const shutdownTimeout = 30 * time.Second
