package commands

import (
	"fmt"
	"io"
	"text/tabwriter"

	"git.home.luguber.info/inful/docsite/internal/registry"
)

// SourcesCmd implements the 'sources' command.
type SourcesCmd struct{}

func (s *SourcesCmd) Run(g *Global, root *CLI) error {
	cfg, err := root.loadConfig(g)
	if err != nil {
		return err
	}
	reg, err := registry.FromConfig(cfg.Sources)
	if err != nil {
		return err
	}
	return WriteSources(g.out(), reg.All())
}

// WriteSources prints one aligned row per source in registry order.
func WriteSources(w io.Writer, sources []registry.Source) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "ID\tTITLE\tREPOSITORY\tDOCS\tSTATUS")
	for _, src := range sources {
		status := "enabled"
		if !src.Enabled {
			status = "disabled"
		}
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s/%s@%s\t%s\t%s\n",
			src.ID, src.Title, src.Owner, src.Repo, src.Branch, src.DocsPath, status)
	}
	return tw.Flush()
}
