package report

import (
	"fmt"
	"io"
	"strings"
)

// Columns is the metadata report header.
var Columns = []string{
	"url",
	"title",
	"description",
	"keywords",
	"allow",
	"disallow",
	"noindex",
	"meta robots",
	"canonical",
	"referer",
	"status",
}

// Row is one metadata report line. Multi-valued fields are already
// comma-joined; absent values are empty strings.
type Row struct {
	URL         string
	Title       string
	Description string
	Keywords    string
	Allow       string
	Disallow    string
	Noindex     string
	MetaRobots  string
	Canonical   string
	Referer     string
	// Status is the decimal HTTP status, or empty when the fetch failed.
	Status string
}

// Record returns the row's cells in Columns order, each normalized to UTF-8.
func (r Row) Record() []string {
	cells := []string{
		r.URL,
		r.Title,
		r.Description,
		r.Keywords,
		r.Allow,
		r.Disallow,
		r.Noindex,
		r.MetaRobots,
		r.Canonical,
		r.Referer,
		r.Status,
	}
	for i, cell := range cells {
		cells[i] = toUTF8(cell)
	}
	return cells
}

// MetadataWriter writes a metadata report. WriteHeader is called once before
// any row, and Flush once after the last row.
type MetadataWriter interface {
	WriteHeader() error
	WriteRow(row Row) error
	Flush() error
}

// NewMetadataWriter returns the writer for format ("csv" or "markdown").
func NewMetadataWriter(format string, w io.Writer) (MetadataWriter, error) {
	switch format {
	case "csv":
		return NewCSVWriter(w), nil
	case "markdown":
		return NewMarkdownWriter(w), nil
	default:
		return nil, fmt.Errorf("unknown report format %q", format)
	}
}

func toUTF8(s string) string {
	return strings.ToValidUTF8(s, "�")
}
