package crawler

import (
	"net/http"
	"time"
)

// FetchRequest captures everything needed to fetch a URL.
type FetchRequest struct {
	URL     string
	Referer string
	Headers http.Header
}

// Page is the result returned by a Fetcher implementation. URL is the final
// URL reported by the transport, which does not follow redirects.
type Page struct {
	URL         string
	StatusCode  int
	ContentType string
	Headers     http.Header
	Body        []byte
	Duration    time.Duration
}

// CrawlStep is one unit of traversal output.
type CrawlStep struct {
	// Referer is the page that first linked to Response.URL (the seed refers
	// to itself).
	Referer string
	// Response is the fetched page. When Err is set it only carries the
	// requested URL.
	Response Page
	// Links holds every link extracted from the page in document order,
	// including links outside the crawl domain.
	Links []string
	// Err reports a transport failure for this URL only.
	Err error
}

// Failed reports whether the step carries a transport failure.
func (s CrawlStep) Failed() bool {
	return s.Err != nil
}
