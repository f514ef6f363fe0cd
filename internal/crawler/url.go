package crawler

import (
	"fmt"
	"net/url"
	"strings"
)

// NormalizeSeed prepares a user-supplied seed for crawling. A missing scheme
// defaults to http and an empty path becomes "/", the form links to the
// home page resolve to. Only http and https seeds with a host are accepted.
func NormalizeSeed(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("%w: empty", ErrInvalidSeed)
	}
	if !strings.Contains(raw, "://") {
		raw = "http://" + raw
	}
	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidSeed, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", fmt.Errorf("%w: unsupported scheme %q", ErrInvalidSeed, u.Scheme)
	}
	if u.Host == "" {
		return "", fmt.Errorf("%w: missing host in %q", ErrInvalidSeed, raw)
	}
	if u.Path == "" {
		u.Path = "/"
	}
	return u.String(), nil
}

// ResolveLink joins href against base and removes the fragment, so links
// that differ only in their fragment resolve to the same URL. An http(s)
// link with a host and no path gets the root path, matching NormalizeSeed.
func ResolveLink(base *url.URL, href string) (string, error) {
	ref, err := url.Parse(strings.TrimSpace(href))
	if err != nil {
		return "", fmt.Errorf("parse href %q: %w", href, err)
	}
	resolved := ref
	if base != nil {
		resolved = base.ResolveReference(ref)
	}
	if resolved.Path == "" && resolved.Host != "" && (resolved.Scheme == "http" || resolved.Scheme == "https") {
		rooted := *resolved
		rooted.Path = "/"
		resolved = &rooted
	}
	return StripFragment(resolved), nil
}

// StripFragment renders u without its fragment component.
func StripFragment(u *url.URL) string {
	clean := *u
	clean.Fragment = ""
	clean.RawFragment = ""
	return clean.String()
}
