package crawler

import (
	"context"
	"errors"
	"net/http"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type stubFetcher struct {
	mu       sync.Mutex
	failures map[string]error
	requests []FetchRequest
}

func (s *stubFetcher) Fetch(_ context.Context, req FetchRequest) (Page, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.requests = append(s.requests, req)
	if err, ok := s.failures[req.URL]; ok {
		return Page{}, err
	}
	return Page{
		URL:         req.URL,
		StatusCode:  http.StatusOK,
		ContentType: "text/html",
		Body:        []byte("<html></html>"),
	}, nil
}

func (s *stubFetcher) fetched() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, 0, len(s.requests))
	for _, r := range s.requests {
		out = append(out, r.URL)
	}
	sort.Strings(out)
	return out
}

// linkGraph maps a page URL to the links it contains.
type linkGraph map[string][]string

func (g linkGraph) Links(page Page) ([]string, error) {
	links, ok := g[page.URL]
	if !ok {
		return nil, ErrNotHTML
	}
	return links, nil
}

type fakeClock struct {
	sleeps []time.Duration
}


func (c *fakeClock) Sleep(_ context.Context, d time.Duration) error {
	c.sleeps = append(c.sleeps, d)
	return nil
}

type denyGate map[string]bool

func (g denyGate) Allowed(rawURL string) bool { return !g[rawURL] }

func collect(t *testing.T, e *Engine, seed string) []CrawlStep {
	t.Helper()
	seq, err := e.Crawl(context.Background(), seed)
	require.NoError(t, err)
	var steps []CrawlStep
	for step := range seq {
		steps = append(steps, step)
	}
	return steps
}

func referers(steps []CrawlStep) map[string]string {
	out := make(map[string]string, len(steps))
	for _, s := range steps {
		out[s.Response.URL] = s.Referer
	}
	return out
}

func TestEngineScopesToSeedDomain(t *testing.T) {
	t.Parallel()

	graph := linkGraph{
		"http://example.com/": {
			"http://example.com/about",
			"http://other.com/x",
			"http://www.example.com/",
		},
		"http://example.com/about":  {"http://example.com/"},
		"http://www.example.com/":   {"http://example.com/about"},
		"http://other.com/x":        {},
		"http://example.com/orphan": {},
	}
	fetcher := &stubFetcher{}
	steps := collect(t, NewEngine(Config{}, fetcher, graph), "http://example.com/")

	require.Equal(t, []string{
		"http://example.com/",
		"http://example.com/about",
		"http://www.example.com/",
	}, fetcher.fetched())
	require.Equal(t, map[string]string{
		"http://example.com/":      "http://example.com/",
		"http://example.com/about": "http://example.com/",
		"http://www.example.com/":  "http://example.com/",
	}, referers(steps))
}

func TestEngineSeedWithoutScheme(t *testing.T) {
	t.Parallel()

	fetcher := &stubFetcher{}
	steps := collect(t, NewEngine(Config{}, fetcher, linkGraph{}), "example.com")
	require.Len(t, steps, 1)
	require.Equal(t, "http://example.com/", steps[0].Response.URL)
	require.Equal(t, "http://example.com/", steps[0].Referer)
}

func TestEngineTerminatesOnCycles(t *testing.T) {
	t.Parallel()

	graph := linkGraph{
		"http://a.com/":  {"http://a.com/1", "http://a.com/2", "http://a.com/3"},
		"http://a.com/1": {"http://a.com/", "http://a.com/2", "http://a.com/3"},
		"http://a.com/2": {"http://a.com/1", "http://a.com/3"},
		"http://a.com/3": {"http://a.com/", "http://a.com/1"},
	}
	steps := collect(t, NewEngine(Config{}, &stubFetcher{}, graph), "http://a.com/")
	require.Len(t, steps, 4)
}

func TestEngineSendsRefererAndUserAgent(t *testing.T) {
	t.Parallel()

	graph := linkGraph{"http://a.com/": {"http://a.com/child"}, "http://a.com/child": nil}
	fetcher := &stubFetcher{}
	collect(t, NewEngine(Config{UserAgent: "test-agent"}, fetcher, graph), "http://a.com/")

	require.Len(t, fetcher.requests, 2)
	for _, req := range fetcher.requests {
		require.Equal(t, "test-agent", req.Headers.Get("User-Agent"))
		require.Equal(t, "http://a.com/", req.Headers.Get("Referer"))
		require.Equal(t, "http://a.com/", req.Referer)
	}
}

func TestEngineDefaultsUserAgent(t *testing.T) {
	t.Parallel()

	fetcher := &stubFetcher{}
	collect(t, NewEngine(Config{}, fetcher, linkGraph{}), "http://a.com/")
	require.Equal(t, DefaultUserAgent, fetcher.requests[0].Headers.Get("User-Agent"))
}

func TestEngineRecoversFromFetchFailure(t *testing.T) {
	t.Parallel()

	boom := errors.New("connection refused")
	graph := linkGraph{"http://a.com/": {"http://a.com/broken", "http://a.com/ok"}, "http://a.com/ok": nil}
	fetcher := &stubFetcher{failures: map[string]error{"http://a.com/broken": boom}}
	steps := collect(t, NewEngine(Config{}, fetcher, graph), "http://a.com/")

	require.Len(t, steps, 3)
	var failed []CrawlStep
	for _, s := range steps {
		if s.Failed() {
			failed = append(failed, s)
		}
	}
	require.Len(t, failed, 1)
	require.ErrorIs(t, failed[0].Err, boom)
	require.Equal(t, "http://a.com/broken", failed[0].Response.URL)
	require.Equal(t, "http://a.com/", failed[0].Referer)
}

func TestEngineTreatsNonHTMLAsLeaf(t *testing.T) {
	t.Parallel()

	// The seed is missing from the graph, so extraction reports ErrNotHTML.
	steps := collect(t, NewEngine(Config{}, &stubFetcher{}, linkGraph{}), "http://a.com/")
	require.Len(t, steps, 1)
	require.NoError(t, steps[0].Err)
	require.Empty(t, steps[0].Links)
}

func TestEngineKeepsAllLinksOnStep(t *testing.T) {
	t.Parallel()

	graph := linkGraph{"http://a.com/": {"http://b.com/", "http://a.com/x"}, "http://a.com/x": nil}
	steps := collect(t, NewEngine(Config{}, &stubFetcher{}, graph), "http://a.com/")
	require.Equal(t, "http://a.com/", steps[0].Response.URL)
	require.Equal(t, []string{"http://b.com/", "http://a.com/x"}, steps[0].Links)
}

func TestEngineDelaysBetweenSteps(t *testing.T) {
	t.Parallel()

	graph := linkGraph{
		"http://a.com/":  {"http://a.com/1"},
		"http://a.com/1": {"http://a.com/2"},
		"http://a.com/2": nil,
	}
	clock := &fakeClock{}
	e := NewEngine(Config{Delay: 250 * time.Millisecond}, &stubFetcher{}, graph, WithClock(clock))
	steps := collect(t, e, "http://a.com/")

	require.Len(t, steps, 3)
	require.Equal(t, []time.Duration{250 * time.Millisecond, 250 * time.Millisecond}, clock.sleeps)
}

func TestEngineRejectsNegativeDelay(t *testing.T) {
	t.Parallel()

	_, err := NewEngine(Config{Delay: -time.Second}, &stubFetcher{}, linkGraph{}).Crawl(context.Background(), "a.com")
	require.Error(t, err)
}

func TestEngineStopsWhenConsumerStops(t *testing.T) {
	t.Parallel()

	graph := linkGraph{"http://a.com/": {"http://a.com/1", "http://a.com/2"}}
	fetcher := &stubFetcher{}
	seq, err := NewEngine(Config{}, fetcher, graph).Crawl(context.Background(), "http://a.com/")
	require.NoError(t, err)
	for range seq {
		break
	}
	require.Len(t, fetcher.requests, 1)
}

func TestEngineStopsOnCancel(t *testing.T) {
	t.Parallel()

	graph := linkGraph{"http://a.com/": {"http://a.com/1", "http://a.com/2"}}
	fetcher := &stubFetcher{}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	seq, err := NewEngine(Config{}, fetcher, graph).Crawl(ctx, "http://a.com/")
	require.NoError(t, err)

	count := 0
	for range seq {
		count++
		cancel()
	}
	require.Equal(t, 1, count)
	require.Len(t, fetcher.requests, 1)
}

func TestEngineGateRefusesLinks(t *testing.T) {
	t.Parallel()

	graph := linkGraph{"http://a.com/": {"http://a.com/private", "http://a.com/public"}, "http://a.com/public": nil}
	fetcher := &stubFetcher{}
	e := NewEngine(Config{}, fetcher, graph, WithGate(denyGate{"http://a.com/private": true}))
	collect(t, e, "http://a.com/")
	require.Equal(t, []string{"http://a.com/", "http://a.com/public"}, fetcher.fetched())
}

func TestEngineInvalidSeed(t *testing.T) {
	t.Parallel()

	_, err := NewEngine(Config{}, &stubFetcher{}, linkGraph{}).Crawl(context.Background(), "ftp://a.com")
	require.ErrorIs(t, err, ErrInvalidSeed)
}

type countingObserver struct {
	steps, inScope, outScope int
}

func (o *countingObserver) ObserveStep(CrawlStep) { o.steps++ }
func (o *countingObserver) ObserveLink(in bool) {
	if in {
		o.inScope++
		return
	}
	o.outScope++
}
func (o *countingObserver) ObservePending(int) {}

func TestEngineNotifiesObserver(t *testing.T) {
	t.Parallel()

	graph := linkGraph{"http://a.com/": {"http://a.com/x", "http://b.com/"}, "http://a.com/x": nil}
	obs := &countingObserver{}
	collect(t, NewEngine(Config{}, &stubFetcher{}, graph, WithObserver(obs)), "http://a.com/")
	require.Equal(t, 2, obs.steps)
	require.Equal(t, 1, obs.inScope)
	require.Equal(t, 1, obs.outScope)
}
