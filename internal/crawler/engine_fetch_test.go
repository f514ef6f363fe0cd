package crawler_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/JakeFAU/sitespider/internal/crawler"
	"github.com/JakeFAU/sitespider/internal/extract"
	collyfetcher "github.com/JakeFAU/sitespider/internal/fetcher/colly"
)

// hitCounter serves a two-page site whose pages link back to the root in
// every spelling a browser treats as the same page.
type hitCounter struct {
	mu   sync.Mutex
	hits map[string]int
}

func (h *hitCounter) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	h.hits[r.URL.Path]++
	h.mu.Unlock()

	w.Header().Set("Content-Type", "text/html")
	switch r.URL.Path {
	case "/":
		_, _ = io.WriteString(w, `<a href="/">home</a><a href="/about">about</a>`)
	case "/about":
		host := "http://" + r.Host
		_, _ = io.WriteString(w, `<a href="`+host+`">home</a><a href="/#top">top</a><a href="/">root</a>`)
	default:
		http.NotFound(w, r)
	}
}

func TestEngineVisitsSchemelessRootOnceWithCollyFetcher(t *testing.T) {
	t.Parallel()

	site := &hitCounter{hits: map[string]int{}}
	srv := httptest.NewServer(site)
	defer srv.Close()

	fetcher := collyfetcher.New(collyfetcher.Config{Timeout: 5 * time.Second})
	engine := crawler.NewEngine(crawler.Config{}, fetcher, extract.New())

	for _, seed := range []string{srv.URL, strings.TrimPrefix(srv.URL, "http://")} {
		site.mu.Lock()
		site.hits = map[string]int{}
		site.mu.Unlock()

		seq, err := engine.Crawl(context.Background(), seed)
		require.NoError(t, err)

		var urls []string
		for step := range seq {
			require.NoError(t, step.Err)
			urls = append(urls, step.Response.URL)
		}
		sort.Strings(urls)

		require.Equal(t, []string{srv.URL + "/", srv.URL + "/about"}, urls, "seed %q", seed)
		site.mu.Lock()
		require.Equal(t, map[string]int{"/": 1, "/about": 1}, site.hits, "seed %q", seed)
		site.mu.Unlock()
	}
}
