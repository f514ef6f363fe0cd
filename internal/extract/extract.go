// Package extract turns fetched pages into links and head metadata.
package extract

import (
	"bytes"
	"fmt"
	"mime"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html/charset"

	"github.com/JakeFAU/sitespider/internal/crawler"
)

// Extractor implements crawler.LinkExtractor.
type Extractor struct{}

// New returns an Extractor.
func New() *Extractor {
	return &Extractor{}
}

// Links implements crawler.LinkExtractor.
func (Extractor) Links(page crawler.Page) ([]string, error) {
	return Links(page)
}

// Links returns the href of every anchor in document order, resolved
// against the page URL and stripped of fragments. Hrefs that cannot be
// parsed are skipped. It returns crawler.ErrNotHTML for empty or non-HTML
// content.
func Links(page crawler.Page) ([]string, error) {
	doc, err := parse(page)
	if err != nil {
		return nil, err
	}
	base, err := url.Parse(page.URL)
	if err != nil {
		return nil, fmt.Errorf("parse page url: %w", err)
	}
	links := make([]string, 0)
	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		link, err := crawler.ResolveLink(base, href)
		if err != nil {
			return
		}
		links = append(links, link)
	})
	return links, nil
}

// parse decodes the page body to UTF-8 and builds a document.
func parse(page crawler.Page) (*goquery.Document, error) {
	if len(bytes.TrimSpace(page.Body)) == 0 {
		return nil, crawler.ErrNotHTML
	}
	if !isHTML(page.ContentType) {
		return nil, fmt.Errorf("%w: content type %q", crawler.ErrNotHTML, page.ContentType)
	}
	reader, err := charset.NewReader(bytes.NewReader(page.Body), page.ContentType)
	if err != nil {
		return nil, fmt.Errorf("%w: decode charset: %w", crawler.ErrNotHTML, err)
	}
	doc, err := goquery.NewDocumentFromReader(reader)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", crawler.ErrNotHTML, err)
	}
	return doc, nil
}

// isHTML accepts a missing Content-Type; the parser copes with whatever
// the body holds.
func isHTML(contentType string) bool {
	if strings.TrimSpace(contentType) == "" {
		return true
	}
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	switch mediaType {
	case "text/html", "application/xhtml+xml":
		return true
	default:
		return false
	}
}
