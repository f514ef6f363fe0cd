// Package app initializes and holds the services shared by one spider run,
// acting as a dependency injection container.
package app

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/JakeFAU/sitespider/internal/api"
	"github.com/JakeFAU/sitespider/internal/clock/system"
	"github.com/JakeFAU/sitespider/internal/config"
	"github.com/JakeFAU/sitespider/internal/crawler"
	"github.com/JakeFAU/sitespider/internal/extract"
	collyfetcher "github.com/JakeFAU/sitespider/internal/fetcher/colly"
	"github.com/JakeFAU/sitespider/internal/id/uuid"
	"github.com/JakeFAU/sitespider/internal/logging"
	"github.com/JakeFAU/sitespider/internal/metrics"
	"github.com/JakeFAU/sitespider/internal/robots"
)

// App holds the long-lived services of a run: logger, fetcher, robots
// loader, metrics and the optional diagnostics server. It is built once per
// command invocation and closed when the command returns.
type App struct {
	cfg      config.Config
	logger   *zap.Logger
	registry *prometheus.Registry
	recorder *metrics.Recorder
	fetcher  *collyfetcher.Fetcher
	robots   *robots.Loader
	clock    *system.Clock

	stopDiagnostics context.CancelFunc
	diagnosticsDone chan error
}

// Option customizes App construction.
type Option func(*App)

// WithLogger replaces the logger built from the logging config.
func WithLogger(logger *zap.Logger) Option {
	return func(a *App) {
		a.logger = logger
	}
}

// New wires the services described by cfg. When cfg.Metrics.Addr is set the
// diagnostics server starts listening before New returns.
func New(cfg config.Config, opts ...Option) (*App, error) {
	a := &App{cfg: cfg}
	for _, opt := range opts {
		opt(a)
	}

	if a.logger == nil {
		logger, err := logging.New(cfg.LoggerConfig())
		if err != nil {
			return nil, fmt.Errorf("init logger: %w", err)
		}
		a.logger = logger
	}

	runID, err := uuid.New().NewID()
	if err != nil {
		return nil, fmt.Errorf("generate run id: %w", err)
	}
	a.logger = a.logger.With(zap.String("run_id", runID))

	a.registry = prometheus.NewRegistry()
	a.recorder = metrics.NewRecorder(a.registry)
	a.clock = system.New()
	a.fetcher = collyfetcher.New(collyfetcher.Config{
		UserAgent:    cfg.Crawler.UserAgent,
		Timeout:      cfg.Timeout(),
		MaxBodyBytes: cfg.Crawler.MaxBodyBytes,
	})
	a.robots = robots.NewLoader(
		&http.Client{Timeout: cfg.Timeout()},
		cfg.Crawler.UserAgent,
		a.logger.Named("robots"),
	)

	if cfg.Metrics.Addr != "" {
		if err := a.startDiagnostics(cfg.Metrics.Addr); err != nil {
			return nil, err
		}
	}

	a.logger.Debug("application services initialized")
	return a, nil
}

func (a *App) startDiagnostics(addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", addr, err)
	}
	server := api.NewServer(a.registry, a.logger.Named("api"))

	ctx, cancel := context.WithCancel(context.Background())
	a.stopDiagnostics = cancel
	a.diagnosticsDone = make(chan error, 1)
	go func() {
		a.diagnosticsDone <- server.Serve(ctx, ln)
	}()
	return nil
}

// GetLogger returns the run-scoped logger.
func (a *App) GetLogger() *zap.Logger {
	return a.logger
}

// GetConfig returns the validated configuration.
func (a *App) GetConfig() config.Config {
	return a.cfg
}

// LoadRobots fetches the robots.txt governing seed.
func (a *App) LoadRobots(ctx context.Context, seed string) robots.Document {
	return a.robots.Load(ctx, seed)
}

// NewCrawler builds a traversal engine. A nil gate enqueues every in-domain
// link.
func (a *App) NewCrawler(gate crawler.Gate) crawler.Crawler {
	opts := []crawler.Option{
		crawler.WithLogger(a.logger.Named("crawler")),
		crawler.WithClock(a.clock),
		crawler.WithObserver(a.recorder),
	}
	if gate != nil {
		opts = append(opts, crawler.WithGate(gate))
	}
	return crawler.NewEngine(a.cfg.CrawlerConfig(), a.fetcher, extract.New(), opts...)
}

// Close stops the diagnostics server and flushes the logger.
func (a *App) Close() {
	if a.stopDiagnostics != nil {
		a.stopDiagnostics()
		if err := <-a.diagnosticsDone; err != nil && !errors.Is(err, context.Canceled) {
			a.logger.Warn("diagnostics server shutdown failed", zap.Error(err))
		}
		a.stopDiagnostics = nil
	}
	// Sync on stderr returns EINVAL on some platforms.
	_ = a.logger.Sync()
}
