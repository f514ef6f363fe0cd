package report

import (
	"encoding/csv"
	"fmt"
	"io"
)

// CSVWriter writes the metadata report as RFC 4180 CSV.
type CSVWriter struct {
	w *csv.Writer
}

// NewCSVWriter creates a CSVWriter that outputs to w.
func NewCSVWriter(w io.Writer) *CSVWriter {
	return &CSVWriter{w: csv.NewWriter(w)}
}

// WriteHeader writes the column names.
func (c *CSVWriter) WriteHeader() error {
	if err := c.w.Write(Columns); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	return nil
}

// WriteRow writes one record and flushes it, so partial reports survive an
// interrupted crawl.
func (c *CSVWriter) WriteRow(row Row) error {
	if err := c.w.Write(row.Record()); err != nil {
		return fmt.Errorf("write csv row: %w", err)
	}
	return c.Flush()
}

// Flush writes any buffered data to the underlying writer.
func (c *CSVWriter) Flush() error {
	c.w.Flush()
	if err := c.w.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return nil
}
