package crawler

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"net/http"

	"go.uber.org/zap"
)

// Engine drives one crawl at a time from a seed to completion. Each call to
// Crawl owns a fresh Frontier; the engine itself holds no traversal state.
type Engine struct {
	cfg      Config
	fetcher  Fetcher
	links    LinkExtractor
	gate     Gate
	clock    Clock
	observer Observer
	logger   *zap.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the engine logger.
func WithLogger(logger *zap.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithClock sets the clock used for inter-step delays.
func WithClock(clock Clock) Option {
	return func(e *Engine) {
		e.clock = clock
	}
}

// WithGate filters in-domain links before they are enqueued.
func WithGate(gate Gate) Option {
	return func(e *Engine) {
		e.gate = gate
	}
}

// WithObserver attaches a traversal observer.
func WithObserver(observer Observer) Option {
	return func(e *Engine) {
		if observer != nil {
			e.observer = observer
		}
	}
}

// NewEngine wires an Engine from its collaborators.
func NewEngine(cfg Config, fetcher Fetcher, links LinkExtractor, opts ...Option) *Engine {
	if cfg.UserAgent == "" {
		cfg.UserAgent = DefaultUserAgent
	}
	e := &Engine{
		cfg:      cfg,
		fetcher:  fetcher,
		links:    links,
		observer: nopObserver{},
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Crawl validates seed and returns the lazy sequence of crawl steps. Nothing
// is fetched until the sequence is ranged over; breaking out of the range or
// cancelling ctx stops further fetches. Step order is unspecified beyond the
// seed coming first.
func (e *Engine) Crawl(ctx context.Context, seed string) (iter.Seq[CrawlStep], error) {
	if err := e.cfg.Validate(); err != nil {
		return nil, err
	}
	base, err := NormalizeSeed(seed)
	if err != nil {
		return nil, err
	}
	return func(yield func(CrawlStep) bool) {
		frontier := NewFrontier()
		frontier.Enqueue(base, base)
		baseDomain := RegistrableDomain(base)

		for pageURL, referer := range frontier.Drain() {
			if ctx.Err() != nil {
				return
			}
			step := e.visit(ctx, frontier, baseDomain, pageURL, referer)
			if step.Failed() && ctx.Err() != nil {
				return
			}
			e.observer.ObserveStep(step)
			e.observer.ObservePending(frontier.Len())
			if !yield(step) {
				return
			}
			if e.cfg.Delay > 0 && frontier.HasWork() && e.clock != nil {
				if err := e.clock.Sleep(ctx, e.cfg.Delay); err != nil {
					return
				}
			}
		}
	}, nil
}

func (e *Engine) visit(ctx context.Context, frontier *Frontier, baseDomain, pageURL, referer string) CrawlStep {
	headers := make(http.Header)
	headers.Set("Referer", referer)
	headers.Set("User-Agent", e.cfg.UserAgent)

	page, err := e.fetcher.Fetch(ctx, FetchRequest{URL: pageURL, Referer: referer, Headers: headers})
	if err != nil {
		e.logger.Warn("fetch failed; skipping page", zap.String("url", pageURL), zap.Error(err))
		return CrawlStep{
			Referer:  referer,
			Response: Page{URL: pageURL},
			Err:      fmt.Errorf("fetch %s: %w", pageURL, err),
		}
	}
	e.logger.Debug("fetched page",
		zap.String("url", page.URL),
		zap.String("referer", referer),
		zap.Int("status", page.StatusCode),
		zap.Duration("duration", page.Duration),
	)

	links, err := e.links.Links(page)
	switch {
	case errors.Is(err, ErrNotHTML):
		e.logger.Debug("no html content; no links followed", zap.String("url", page.URL))
	case err != nil:
		e.logger.Warn("link extraction failed", zap.String("url", page.URL), zap.Error(err))
	}

	for _, link := range links {
		if RegistrableDomain(link) != baseDomain {
			e.observer.ObserveLink(false)
			continue
		}
		e.observer.ObserveLink(true)
		if e.gate != nil && !e.gate.Allowed(link) {
			e.logger.Debug("link refused by robots gate", zap.String("url", link))
			continue
		}
		frontier.Enqueue(link, pageURL)
	}

	return CrawlStep{Referer: referer, Response: page, Links: links}
}
