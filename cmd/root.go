// Package cmd defines and implements the CLI commands for the spider executable.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/JakeFAU/sitespider/internal/app"
	"github.com/JakeFAU/sitespider/internal/config"
	"github.com/JakeFAU/sitespider/internal/crawler"
	"github.com/JakeFAU/sitespider/internal/robots"
)

// appKeyType is the key for storing the App in the context.
type appKeyType string

const appKey appKeyType = "app"

// App defines the services the commands use.
// This allows us to inject a mock app during tests.
type App interface {
	Close()
	GetLogger() *zap.Logger
	GetConfig() config.Config
	LoadRobots(ctx context.Context, seed string) robots.Document
	NewCrawler(gate crawler.Gate) crawler.Crawler
}

// newApp is the application factory. It's a variable so tests can
// replace it.
var newApp = func(cfg config.Config) (App, error) {
	return app.New(cfg)
}

// flagBindings maps config keys to the persistent flags that override them.
var flagBindings = map[string]string{
	"crawler.user_agent":     "user-agent",
	"crawler.delay_seconds":  "delay",
	"crawler.respect_robots": "respect-robots",
	"http.timeout_seconds":   "timeout",
	"metrics.addr":           "metrics-addr",
	"logging.development":    "dev-log",
	"report.output":          "output",
}

// newRootCmd creates and configures the root command.
func newRootCmd() *cobra.Command {
	var cfgFile string
	v := viper.New()

	cmd := &cobra.Command{
		Use:   "spider",
		Short: "Crawl a single site and report on what it finds.",
		Long: `spider walks every page reachable from a seed URL without leaving the
seed's domain (a leading "www." is ignored). Each URL is fetched once, and
redirects are reported rather than followed.

The metadata command writes one row per page with its head metadata and
the robots.txt rules that apply to it. The graph command writes the link
graph in Graphviz DOT.`,
		SilenceUsage: true,

		// Config is loaded here, after flags are parsed, so flag values win.
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(v, cfgFile)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			appInstance, err := newApp(cfg)
			if err != nil {
				return fmt.Errorf("failed to initialize application services: %w", err)
			}

			ctx := context.WithValue(cmd.Context(), appKey, appInstance)
			cmd.SetContext(ctx)
			return nil
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (yaml, json or toml)")
	flags.String("user-agent", crawler.DefaultUserAgent, "User-Agent header sent with every request")
	flags.Float64("delay", 0, "seconds to wait between fetches")
	flags.Bool("respect-robots", false, "skip links robots.txt disallows for the user agent")
	flags.Int("timeout", 15, "HTTP timeout in seconds")
	flags.String("metrics-addr", "", "serve /healthz and /metrics on this address during the crawl")
	flags.Bool("dev-log", false, "human-readable debug logging")
	flags.StringP("output", "o", "", "write the report to this file instead of stdout")
	for key, name := range flagBindings {
		if err := v.BindPFlag(key, flags.Lookup(name)); err != nil {
			panic(fmt.Sprintf("bind flag %s: %v", name, err))
		}
	}

	cmd.AddCommand(newMetadataCmd(v))
	cmd.AddCommand(newGraphCmd())

	return cmd
}

// Execute is the main entry point. SIGINT and SIGTERM stop the crawl after
// the current fetch; whatever was written so far is flushed.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

// withApp adapts a command body that needs the App. The App is closed when
// the body returns, including on failure, which PersistentPostRun would skip.
func withApp(fn func(cmd *cobra.Command, args []string, appInstance App) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		appInstance, err := resolveApp(cmd.Context())
		if err != nil {
			return err
		}
		defer appInstance.Close()
		return fn(cmd, args, appInstance)
	}
}

func resolveApp(ctx context.Context) (App, error) {
	appInstance, ok := ctx.Value(appKey).(App)
	if !ok || appInstance == nil {
		return nil, errors.New("application services not initialized")
	}
	return appInstance, nil
}
