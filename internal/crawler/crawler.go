package crawler

import (
	"context"
	"fmt"
	"iter"
	"time"
)

// DefaultUserAgent identifies the spider when no User-Agent is configured.
const DefaultUserAgent = "Fusionbox spider"

// Config holds the settings for a crawl run.
// It is decoupled from Viper so the engine can be configured and tested
// independently of the CLI.
type Config struct {
	UserAgent string
	// Delay is a politeness pause taken after each yielded step.
	Delay time.Duration
}

// Validate checks for obviously bad configuration values.
func (c Config) Validate() error {
	if c.Delay < 0 {
		return fmt.Errorf("crawler delay must be >= 0, got %s", c.Delay)
	}
	return nil
}

// Crawler produces the crawl steps of a site, starting from seed.
type Crawler interface {
	Crawl(ctx context.Context, seed string) (iter.Seq[CrawlStep], error)
}
