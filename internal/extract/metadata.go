package extract

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/JakeFAU/sitespider/internal/crawler"
)

// Metadata holds the head fields reported per page. Each field joins all
// matching values with commas; absent values are empty strings.
type Metadata struct {
	Title       string
	Description string
	Keywords    string
	MetaRobots  string
	Canonical   string
}

// ReadMetadata extracts head metadata from a page. Pages that are not HTML
// yield empty Metadata together with crawler.ErrNotHTML.
func ReadMetadata(page crawler.Page) (Metadata, error) {
	doc, err := parse(page)
	if err != nil {
		return Metadata{}, err
	}
	return Metadata{
		Title:       joinText(doc.Find("head title")),
		Description: joinAttr(doc.Find(`head meta[name="description"]`), "content"),
		Keywords:    joinAttr(doc.Find(`head meta[name="keywords"]`), "content"),
		MetaRobots:  joinAttr(doc.Find(`meta[name="robots"]`), "content"),
		Canonical:   joinAttr(doc.Find(`link[rel="canonical"]`), "href"),
	}, nil
}

func joinAttr(sel *goquery.Selection, attr string) string {
	values := make([]string, 0, sel.Length())
	sel.Each(func(_ int, s *goquery.Selection) {
		if v, ok := s.Attr(attr); ok {
			values = append(values, v)
		}
	})
	return strings.Join(values, ",")
}

func joinText(sel *goquery.Selection) string {
	values := make([]string, 0, sel.Length())
	sel.Each(func(_ int, s *goquery.Selection) {
		if text := s.Text(); text != "" {
			values = append(values, text)
		}
	})
	return strings.Join(values, ",")
}
