package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/nao1215/markdown"
)

// MarkdownWriter renders the metadata report as a Markdown table. A table
// cannot be emitted incrementally, so rows are buffered until Flush.
type MarkdownWriter struct {
	output io.Writer
	title  string
	rows   [][]string
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to w.
func NewMarkdownWriter(w io.Writer) *MarkdownWriter {
	return &MarkdownWriter{output: w, title: "Crawl Metadata"}
}

// WriteHeader is a no-op; the header is rendered with the table.
func (m *MarkdownWriter) WriteHeader() error {
	return nil
}

// WriteRow buffers a row.
func (m *MarkdownWriter) WriteRow(row Row) error {
	record := row.Record()
	for i, cell := range record {
		record[i] = escapeCell(cell)
	}
	m.rows = append(m.rows, record)
	return nil
}

// Flush renders the buffered rows.
func (m *MarkdownWriter) Flush() error {
	md := markdown.NewMarkdown(m.output)
	md.H1(m.title)
	md.PlainText("")
	md.Table(markdown.TableSet{
		Header: Columns,
		Rows:   m.rows,
	})
	if err := md.Build(); err != nil {
		return fmt.Errorf("write markdown report: %w", err)
	}
	m.rows = nil
	return nil
}

var cellReplacer = strings.NewReplacer("|", `\|`, "\r\n", " ", "\n", " ", "\r", " ")

// escapeCell keeps a value inside a single table cell.
func escapeCell(s string) string {
	return cellReplacer.Replace(s)
}
