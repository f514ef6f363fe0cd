package robots

import (
	"fmt"
	"net/url"

	"github.com/temoto/robotstxt"
)

// Gate enforces robots.txt for the crawler's own User-Agent. It is used
// only when the crawl is asked to respect robots.txt; the default crawl
// visits every reachable URL and merely reports the rules.
type Gate struct {
	data      *robotstxt.RobotsData
	userAgent string
}

// NewGate builds a Gate from a fetched document. A document that could not
// be fetched at all allows everything; otherwise status semantics follow
// robotstxt.FromStatusAndBytes (4xx allows everything, 5xx disallows
// everything, other non-2xx statuses are an error).
func NewGate(doc Document, userAgent string) (*Gate, error) {
	if doc.StatusCode == 0 {
		return &Gate{}, nil
	}
	data, err := robotstxt.FromStatusAndBytes(doc.StatusCode, doc.Body)
	if err != nil {
		return nil, fmt.Errorf("parse robots for gate: %w", err)
	}
	return &Gate{data: data, userAgent: userAgent}, nil
}

// Allowed implements crawler.Gate.
func (g *Gate) Allowed(rawURL string) bool {
	if g == nil || g.data == nil {
		return true
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	path := u.EscapedPath()
	if path == "" {
		path = "/"
	}
	if u.RawQuery != "" {
		path += "?" + u.RawQuery
	}
	return g.data.TestAgent(path, g.userAgent)
}
