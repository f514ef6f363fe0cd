// Package api hosts the optional diagnostics HTTP server that runs alongside
// a crawl. Routes:
//   - GET /healthz for liveness checks.
//   - GET /metrics for Prometheus scraping of the crawl collectors.
package api
