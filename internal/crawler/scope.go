package crawler

import (
	"net/url"
	"strings"
)

const wwwPrefix = "www."

// RegistrableDomain returns the crawl-scoping key for a host or URL: the
// network location with a literal leading "www." removed. No case folding,
// port stripping or IDN handling is applied.
func RegistrableDomain(hostOrURL string) string {
	host := hostOrURL
	if u, err := url.Parse(hostOrURL); err == nil && u.Host != "" {
		host = u.Host
	}
	return strings.TrimPrefix(host, wwwPrefix)
}

// SameDomain reports whether a and b share a registrable domain.
func SameDomain(a, b string) bool {
	return RegistrableDomain(a) == RegistrableDomain(b)
}
