package crawler

import "iter"

// Frontier is the visit-once work queue of a single traversal. Pending work
// is keyed on URL with the first-seen referer as satellite data, so a URL
// discovered from several pages is queued once.
//
// Drain order is unspecified. A Frontier is not safe for concurrent use and
// must not be shared between traversals.
type Frontier struct {
	visited map[string]struct{}
	pending map[string]string
}

// NewFrontier returns an empty Frontier.
func NewFrontier() *Frontier {
	return &Frontier{
		visited: make(map[string]struct{}),
		pending: make(map[string]string),
	}
}

// Enqueue schedules url with the given referer. It is a no-op for URLs that
// were already drained, and keeps the existing referer for URLs that are
// already pending.
func (f *Frontier) Enqueue(url, referer string) {
	if f.seen(url) {
		return
	}
	if _, ok := f.pending[url]; ok {
		return
	}
	f.pending[url] = referer
}

// HasWork reports whether any URL is pending.
func (f *Frontier) HasWork() bool {
	return len(f.pending) > 0
}

// Len returns the number of pending URLs.
func (f *Frontier) Len() int {
	return len(f.pending)
}

// seen reports whether url has already been drained.
func (f *Frontier) seen(url string) bool {
	_, ok := f.visited[url]
	return ok
}

// Drain yields pending (url, referer) pairs until none remain, marking each
// URL visited before it is yielded. The consumer may call Enqueue while
// ranging; new work is picked up by the same sequence. Once exhausted the
// sequence yields nothing on later calls.
func (f *Frontier) Drain() iter.Seq2[string, string] {
	return func(yield func(string, string) bool) {
		for f.HasWork() {
			url, referer := f.pop()
			if !yield(url, referer) {
				return
			}
		}
	}
}

func (f *Frontier) pop() (string, string) {
	for url, referer := range f.pending {
		delete(f.pending, url)
		f.visited[url] = struct{}{}
		return url, referer
	}
	return "", ""
}
