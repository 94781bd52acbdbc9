package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"git.home.luguber.info/inful/docsite/internal/foundation/errors"
	"git.home.luguber.info/inful/docsite/internal/logfields"
)

// RenderCmd implements the 'render' command.
type RenderCmd struct {
	Source string `arg:"" help:"Source identifier"`
	Page   string `arg:"" optional:"" help:"Page path; omit for the default page"`
	JSON   bool   `name:"json" help:"Write the document tree as JSON instead of HTML"`
	Output string `short:"o" help:"Write to this file instead of stdout" type:"path"`
}

func (r *RenderCmd) Run(g *Global, root *CLI) error {
	cfg, err := root.loadConfig(g)
	if err != nil {
		return err
	}
	ctx := context.Background()
	rt, err := buildRuntime(ctx, cfg, nil, g.Logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := rt.Close(); err != nil {
			g.Logger.Warn("Failed to close fetch stack", logfields.Error(err))
		}
	}()

	var segments []string
	if p := strings.Trim(r.Page, "/"); p != "" {
		segments = strings.Split(p, "/")
	}
	page, err := rt.Site.RenderPage(ctx, r.Source, segments)
	if err != nil {
		return err
	}

	w := g.out()
	if r.Output != "" {
		f, err := os.Create(r.Output)
		if err != nil {
			return errors.WrapError(err, errors.CategoryConfig, "failed to create output file").
				WithContext("path", r.Output).Build()
		}
		defer func() { _ = f.Close() }()
		w = f
	}
	return writeRendered(w, page.HTML, page.Document, r.JSON)
}

func writeRendered(w io.Writer, html string, doc any, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(doc); err != nil {
			return errors.WrapError(err, errors.CategoryInternal, "failed to encode document").Build()
		}
		return nil
	}
	if _, err := fmt.Fprintln(w, html); err != nil {
		return errors.WrapError(err, errors.CategoryInternal, "failed to write output").Build()
	}
	return nil
}
