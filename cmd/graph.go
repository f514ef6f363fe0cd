package cmd

import (
	"github.com/spf13/cobra"

	"github.com/JakeFAU/sitespider/internal/report"
)

func newGraphCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "graph <seed>",
		Short: "Write the site's link graph in Graphviz DOT",
		Long: `Crawls the site rooted at <seed> and writes a directed graph with one
edge per link found on each fetched page, including links that leave the
site. Render it with, for example:

  spider graph example.com | dot -Tsvg > links.svg`,
		Args: cobra.ExactArgs(1),
		RunE: withApp(runGraphCommand),
	}
}

func runGraphCommand(cmd *cobra.Command, args []string, appInstance App) error {
	ctx := cmd.Context()
	run, err := startCrawl(ctx, appInstance, args[0])
	if err != nil {
		return err
	}

	out, closeOut, err := openOutput(run.app.GetConfig().Report.Output, cmd.OutOrStdout())
	if err != nil {
		return err
	}
	g := report.NewGraphWriter(out)
	if err := g.Begin(); err != nil {
		return closeWith(err, closeOut)
	}

	visited := 0
	for step := range run.steps {
		visited++
		for _, link := range step.Links {
			if err := g.Edge(step.Response.URL, link); err != nil {
				return closeWith(err, closeOut)
			}
		}
	}
	if err := g.End(); err != nil {
		return closeWith(err, closeOut)
	}
	if err := closeWith(nil, closeOut); err != nil {
		return err
	}
	return run.finish(ctx, visited)
}
