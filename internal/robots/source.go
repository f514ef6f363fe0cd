package robots

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"
)

const maxRobotsBytes = 1 << 20

// Document is a fetched robots.txt together with its parsed policy.
// StatusCode is zero when the file could not be fetched at all.
type Document struct {
	URL        string
	StatusCode int
	Body       []byte
	Policy     *Policy
}

// Available reports whether a robots.txt was fetched and parsed.
func (d Document) Available() bool {
	return d.StatusCode >= 200 && d.StatusCode < 300
}

// Loader fetches and parses robots.txt for a crawl seed.
type Loader struct {
	client    *http.Client
	userAgent string
	logger    *zap.Logger
}

// NewLoader builds a Loader. A nil client gets a 10 second timeout.
func NewLoader(client *http.Client, userAgent string, logger *zap.Logger) *Loader {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Loader{client: client, userAgent: userAgent, logger: logger}
}

// RobotsURL returns <scheme>://<host>/robots.txt for rawURL.
func RobotsURL(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("parse url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("url %q is not absolute", rawURL)
	}
	robotsURL := url.URL{Scheme: u.Scheme, Host: u.Host, Path: "/robots.txt"}
	return robotsURL.String(), nil
}

// Load fetches the robots.txt governing seed. It never fails: when the file
// is missing, unreachable or unreadable the document carries an empty
// policy, so no rule ever applies.
func (l *Loader) Load(ctx context.Context, seed string) Document {
	robotsURL, err := RobotsURL(seed)
	if err != nil {
		l.logger.Warn("robots.txt unavailable; using empty policy", zap.String("seed", seed), zap.Error(err))
		return Document{Policy: &Policy{}}
	}
	doc := Document{URL: robotsURL, Policy: &Policy{}}

	status, body, err := l.fetch(ctx, robotsURL)
	doc.StatusCode = status
	if err != nil {
		l.logger.Warn("robots.txt unavailable; using empty policy", zap.String("url", robotsURL), zap.Error(err))
		return doc
	}
	doc.Body = body
	if !doc.Available() {
		l.logger.Warn("robots.txt unavailable; using empty policy",
			zap.String("url", robotsURL), zap.Int("status", status))
		return doc
	}

	policy, err := ParseBytes(body)
	if err != nil {
		l.logger.Warn("robots.txt unparseable; using empty policy", zap.String("url", robotsURL), zap.Error(err))
		return doc
	}
	doc.Policy = policy
	if policy.Empty() {
		l.logger.Warn("robots.txt has no rule groups; using empty policy", zap.String("url", robotsURL))
		return doc
	}
	l.logger.Debug("robots.txt loaded",
		zap.String("url", robotsURL),
		zap.Bool("default_entry", policy.Default != nil),
		zap.Int("entries", len(policy.Entries)),
	)
	return doc
}

func (l *Loader) fetch(ctx context.Context, robotsURL string) (int, []byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, robotsURL, nil)
	if err != nil {
		return 0, nil, fmt.Errorf("new robots request: %w", err)
	}
	if l.userAgent != "" {
		req.Header.Set("User-Agent", l.userAgent)
	}
	resp, err := l.client.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("fetch robots: %w", err)
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			l.logger.Debug("failed to close robots response body", zap.Error(cerr))
		}
	}()
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxRobotsBytes))
	if err != nil {
		return resp.StatusCode, nil, fmt.Errorf("read robots body: %w", err)
	}
	return resp.StatusCode, body, nil
}
