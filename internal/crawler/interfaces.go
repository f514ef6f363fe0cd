package crawler

import (
	"context"
	"time"
)

// Fetcher fetches a URL and returns the body plus metadata. Implementations
// must not follow redirects.
type Fetcher interface {
	Fetch(ctx context.Context, request FetchRequest) (Page, error)
}

// LinkExtractor returns the absolute, fragment-free links found in a page.
// It returns ErrNotHTML when the page has no parseable HTML body.
type LinkExtractor interface {
	Links(page Page) ([]string, error)
}

// Gate decides whether a discovered link may be enqueued.
type Gate interface {
	Allowed(rawURL string) bool
}

// Clock paces the traversal.
type Clock interface {
	Sleep(ctx context.Context, d time.Duration) error
}

// Observer receives traversal events, typically to feed metrics.
type Observer interface {
	ObserveStep(step CrawlStep)
	ObserveLink(inScope bool)
	ObservePending(n int)
}

type nopObserver struct{}

func (nopObserver) ObserveStep(CrawlStep) {}
func (nopObserver) ObserveLink(bool)      {}
func (nopObserver) ObservePending(int)    {}
