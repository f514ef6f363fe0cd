// Package metrics exposes Prometheus collectors for crawl activity.
package metrics

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/JakeFAU/sitespider/internal/crawler"
)

// statusError labels steps that never produced an HTTP status.
const statusError = "error"

// Recorder feeds crawl events into Prometheus collectors. It implements
// crawler.Observer.
type Recorder struct {
	pages       *prometheus.CounterVec
	bytes       prometheus.Counter
	fetchErrors prometheus.Counter
	links       *prometheus.CounterVec
	pending     prometheus.Gauge
}

var _ crawler.Observer = (*Recorder)(nil)

// NewRecorder registers the crawl collectors with reg. Each registry accepts
// a single Recorder.
func NewRecorder(reg prometheus.Registerer) *Recorder {
	factory := promauto.With(reg)
	return &Recorder{
		pages: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "spider_pages_total",
				Help: "Total number of pages visited, labeled by HTTP status.",
			},
			[]string{"status"},
		),
		bytes: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "spider_bytes_total",
				Help: "Total number of body bytes fetched.",
			},
		),
		fetchErrors: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "spider_fetch_errors_total",
				Help: "Total number of URLs that failed at the transport level.",
			},
		),
		links: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "spider_links_total",
				Help: "Total number of links discovered, labeled by crawl scope.",
			},
			[]string{"scope"},
		),
		pending: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "spider_frontier_pending",
				Help: "Number of URLs waiting in the frontier.",
			},
		),
	}
}

// ObserveStep counts a visited URL.
func (r *Recorder) ObserveStep(step crawler.CrawlStep) {
	if step.Failed() {
		r.fetchErrors.Inc()
		r.pages.WithLabelValues(statusError).Inc()
		return
	}
	r.pages.WithLabelValues(strconv.Itoa(step.Response.StatusCode)).Inc()
	if n := len(step.Response.Body); n > 0 {
		r.bytes.Add(float64(n))
	}
}

// ObserveLink counts a discovered link.
func (r *Recorder) ObserveLink(inScope bool) {
	scope := "out"
	if inScope {
		scope = "in"
	}
	r.links.WithLabelValues(scope).Inc()
}

// ObservePending records the frontier size.
func (r *Recorder) ObservePending(n int) {
	r.pending.Set(float64(n))
}

// Handler returns an http.Handler exposing the metrics gathered by g.
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}
