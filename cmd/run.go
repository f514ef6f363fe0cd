package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"iter"
	"os"

	"go.uber.org/zap"

	"github.com/JakeFAU/sitespider/internal/crawler"
	"github.com/JakeFAU/sitespider/internal/robots"
)

// crawlRun bundles what both commands need for one traversal.
type crawlRun struct {
	app    App
	logger *zap.Logger
	seed   string
	robots robots.Document
	steps  iter.Seq[crawler.CrawlStep]
}

// startCrawl normalizes the seed, loads robots.txt and prepares the step
// sequence. No page is fetched until the sequence is ranged over.
func startCrawl(ctx context.Context, appInstance App, rawSeed string) (*crawlRun, error) {
	seed, err := crawler.NormalizeSeed(rawSeed)
	if err != nil {
		return nil, err
	}
	logger := appInstance.GetLogger().With(zap.String("seed", seed))

	doc := appInstance.LoadRobots(ctx, seed)

	var gate crawler.Gate
	if appInstance.GetConfig().Crawler.RespectRobots {
		g, err := robots.NewGate(doc, appInstance.GetConfig().Crawler.UserAgent)
		if err != nil {
			logger.Warn("robots.txt gate disabled", zap.Error(err))
		} else {
			gate = g
		}
	}

	steps, err := appInstance.NewCrawler(gate).Crawl(ctx, seed)
	if err != nil {
		return nil, fmt.Errorf("start crawl: %w", err)
	}
	return &crawlRun{
		app:    appInstance,
		logger: logger,
		seed:   seed,
		robots: doc,
		steps:  steps,
	}, nil
}

// finish reports an interrupted crawl as an error once output is flushed.
func (r *crawlRun) finish(ctx context.Context, visited int) error {
	if err := ctx.Err(); err != nil {
		r.logger.Warn("crawl interrupted", zap.Int("visited", visited))
		return fmt.Errorf("crawl interrupted: %w", err)
	}
	r.logger.Info("crawl finished", zap.Int("visited", visited))
	return nil
}

// openOutput returns path opened for writing, or stdout when path is empty.
func openOutput(path string, stdout io.Writer) (io.Writer, func() error, error) {
	if path == "" {
		return stdout, func() error { return nil }, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, fmt.Errorf("create output: %w", err)
	}
	return f, f.Close, nil
}

// closeWith joins a close error into err.
func closeWith(err error, closeFn func() error) error {
	if cerr := closeFn(); cerr != nil {
		return errors.Join(err, fmt.Errorf("close output: %w", cerr))
	}
	return err
}
