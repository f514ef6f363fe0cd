package cmd

import (
	"errors"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/JakeFAU/sitespider/internal/crawler"
	"github.com/JakeFAU/sitespider/internal/extract"
	"github.com/JakeFAU/sitespider/internal/report"
	"github.com/JakeFAU/sitespider/internal/robots"
)

func newMetadataCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "metadata <seed>",
		Short: "Report head metadata and robots.txt rules for every page",
		Long: `Crawls the site rooted at <seed> and writes one row per fetched URL:

  url, title, description, keywords, allow, disallow, noindex,
  meta robots, canonical, referer, status

allow, disallow and noindex list the robots.txt user-agents whose rules
give that verdict for the URL. Pages that could not be fetched have an
empty status.`,
		Args: cobra.ExactArgs(1),
		RunE: withApp(runMetadataCommand),
	}
	cmd.Flags().String("format", "csv", "report format: csv or markdown")
	if err := v.BindPFlag("report.format", cmd.Flags().Lookup("format")); err != nil {
		panic(err)
	}
	return cmd
}

func runMetadataCommand(cmd *cobra.Command, args []string, appInstance App) error {
	ctx := cmd.Context()
	run, err := startCrawl(ctx, appInstance, args[0])
	if err != nil {
		return err
	}
	cfg := run.app.GetConfig()

	out, closeOut, err := openOutput(cfg.Report.Output, cmd.OutOrStdout())
	if err != nil {
		return err
	}
	w, err := report.NewMetadataWriter(cfg.Report.Format, out)
	if err != nil {
		return closeWith(err, closeOut)
	}
	if err := w.WriteHeader(); err != nil {
		return closeWith(err, closeOut)
	}

	visited := 0
	for step := range run.steps {
		visited++
		rules := robots.ApplicableRules(run.robots.Policy, step.Response.URL)
		meta := readMetadata(run.logger, step)
		if err := w.WriteRow(BuildRow(step, rules, meta)); err != nil {
			return closeWith(err, closeOut)
		}
	}
	if err := w.Flush(); err != nil {
		return closeWith(err, closeOut)
	}
	if err := closeWith(nil, closeOut); err != nil {
		return err
	}
	return run.finish(ctx, visited)
}

// readMetadata returns the page's head metadata, or empty metadata for
// failed fetches and non-HTML bodies.
func readMetadata(logger *zap.Logger, step crawler.CrawlStep) extract.Metadata {
	if step.Failed() {
		return extract.Metadata{}
	}
	meta, err := extract.ReadMetadata(step.Response)
	if err != nil {
		if !errors.Is(err, crawler.ErrNotHTML) {
			logger.Warn("read metadata failed", zap.String("url", step.Response.URL), zap.Error(err))
		}
		return extract.Metadata{}
	}
	return meta
}

// BuildRow renders one crawl step as a metadata report row.
func BuildRow(step crawler.CrawlStep, rules robots.Rules, meta extract.Metadata) report.Row {
	row := report.Row{
		URL:         step.Response.URL,
		Title:       meta.Title,
		Description: meta.Description,
		Keywords:    meta.Keywords,
		Allow:       strings.Join(rules.Allow(), ","),
		Disallow:    strings.Join(rules.Disallow(), ","),
		Noindex:     strings.Join(rules.Noindex(), ","),
		MetaRobots:  meta.MetaRobots,
		Canonical:   meta.Canonical,
		Referer:     step.Referer,
	}
	if !step.Failed() {
		row.Status = strconv.Itoa(step.Response.StatusCode)
	}
	return row
}
