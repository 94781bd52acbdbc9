package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"

	"git.home.luguber.info/inful/docsite/internal/foundation/errors"
	"git.home.luguber.info/inful/docsite/internal/logfields"
	"git.home.luguber.info/inful/docsite/internal/manifest"
	"git.home.luguber.info/inful/docsite/internal/markdown"
	"git.home.luguber.info/inful/docsite/internal/registry"
)

// CheckCmd implements the 'check' command.
type CheckCmd struct {
	Source string `arg:"" optional:"" help:"Only check this source"`
	Color  string `enum:"auto,always,never" default:"auto" help:"Colour markers (auto, always, never)"`
}

// Problem is one finding reported by check.
type Problem struct {
	Source string
	Page   string
	Detail string
}

func (p Problem) String() string {
	if p.Page == "" {
		return p.Source + ": " + p.Detail
	}
	return p.Source + "/" + p.Page + ": " + p.Detail
}

func (c *CheckCmd) Run(g *Global, root *CLI) error {
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

	sources := rt.Registry.Enabled()
	if c.Source != "" {
		src, ok := rt.Registry.Lookup(c.Source)
		if !ok {
			return errors.NotFoundError(fmt.Sprintf("source %q is not configured", c.Source)).
				WithContext("source", c.Source).Build()
		}
		sources = []registry.Source{src}
	}

	checker := &Checker{Loader: rt.Loader, Fetcher: rt.Stack.Fetcher}
	w := g.out()
	total := 0
	for _, src := range sources {
		problems := checker.Check(ctx, src)
		total += len(problems)
		reportSource(w, src, problems, c.useColor(w))
	}
	if total > 0 {
		return errors.ValidationError(fmt.Sprintf("check found %d problem(s)", total)).
			WithContext("problems", total).Build()
	}
	return nil
}

func (c *CheckCmd) useColor(w io.Writer) bool {
	switch c.Color {
	case "always":
		return true
	case "never":
		return false
	}
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func reportSource(w io.Writer, src registry.Source, problems []Problem, color bool) {
	okMark, failMark := "ok", "FAIL"
	if color {
		okMark, failMark = "\x1b[32mok\x1b[0m", "\x1b[31mFAIL\x1b[0m"
	}
	if len(problems) == 0 {
		_, _ = fmt.Fprintf(w, "%s %s\n", okMark, src.ID)
		return
	}
	_, _ = fmt.Fprintf(w, "%s %s (%d problem(s))\n", failMark, src.ID, len(problems))
	for _, p := range problems {
		_, _ = fmt.Fprintf(w, "  - %s\n", p)
	}
}

// Checker validates one source: its manifest loads strictly and passes
// Validate, every page body is retrievable, and every .md link inside a page
// names a manifest file the way the renderer resolves it.
type Checker struct {
	Loader  *manifest.Loader
	Fetcher manifest.Fetcher
}

// Check returns the problems found for src, in manifest order.
func (c *Checker) Check(ctx context.Context, src registry.Source) []Problem {
	m, err := c.Loader.LoadStrict(ctx, src)
	if err != nil {
		return []Problem{{Source: src.ID, Detail: "manifest: " + errorMessage(err)}}
	}

	var problems []Problem
	for _, issue := range m.Validate() {
		problems = append(problems, Problem{Source: src.ID, Detail: "manifest: " + issue.String()})
	}
	for _, pg := range m.Pages() {
		body, err := c.Fetcher.Fetch(ctx, src, pg.File)
		if err != nil {
			problems = append(problems, Problem{Source: src.ID, Page: pg.ID, Detail: "unreadable " + pg.File + ": " + errorMessage(err)})
			continue
		}
		for _, link := range markdown.ExtractLinks([]byte(body)) {
			if !markdown.IsPageLink(link.Destination) {
				continue
			}
			if _, ok := m.PageByFile(strings.TrimPrefix(link.Destination, "./")); !ok {
				problems = append(problems, Problem{Source: src.ID, Page: pg.ID, Detail: "unresolved link " + link.Destination})
			}
		}
	}
	return problems
}

func errorMessage(err error) string {
	if ce, ok := errors.AsClassified(err); ok {
		return ce.Message()
	}
	return err.Error()
}
