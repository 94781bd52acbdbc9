package commands

import (
	"context"
	"fmt"

	"github.com/disiqueira/gotree/v3"

	"git.home.luguber.info/inful/docsite/internal/logfields"
	"git.home.luguber.info/inful/docsite/internal/manifest"
	"git.home.luguber.info/inful/docsite/internal/resolve"
)

// TreeCmd implements the 'tree' command.
type TreeCmd struct {
	Source string `arg:"" help:"Source identifier"`
}

func (t *TreeCmd) Run(g *Global, root *CLI) error {
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

	m, err := rt.Site.Manifest(ctx, t.Source)
	if err != nil {
		return err
	}
	_, err = fmt.Fprint(g.out(), ManifestTree(t.Source, cfg.Server.DocsRoot, m))
	return err
}

// ManifestTree renders the navigation of m: sections in order, each page
// labelled with its title, file and canonical href.
func ManifestTree(sourceID, docsRoot string, m *manifest.Manifest) string {
	tree := gotree.New(fmt.Sprintf("%s (%s)", m.Title, sourceID))
	for _, sec := range m.Sections {
		branch := tree.Add(sec.Title)
		for _, pg := range sec.Pages {
			branch.Add(fmt.Sprintf("%s [%s] -> %s", pg.Title, pg.File, resolve.Href(docsRoot, sourceID, m, pg)))
		}
	}
	return tree.Print()
}
