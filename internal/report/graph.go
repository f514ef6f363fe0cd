package report

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// GraphWriter writes a directed link graph in Graphviz DOT.
type GraphWriter struct {
	w *bufio.Writer
}

// NewGraphWriter creates a GraphWriter that outputs to w.
func NewGraphWriter(w io.Writer) *GraphWriter {
	return &GraphWriter{w: bufio.NewWriter(w)}
}

// Begin opens the digraph block.
func (g *GraphWriter) Begin() error {
	return g.line("digraph links {")
}

// Edge writes one from -> to edge.
func (g *GraphWriter) Edge(from, to string) error {
	return g.line(fmt.Sprintf("  %s -> %s;", quoteID(from), quoteID(to)))
}

// End closes the digraph block and flushes.
func (g *GraphWriter) End() error {
	if err := g.line("}"); err != nil {
		return err
	}
	return g.Flush()
}

// Flush writes buffered edges to the underlying writer.
func (g *GraphWriter) Flush() error {
	if err := g.w.Flush(); err != nil {
		return fmt.Errorf("flush graph: %w", err)
	}
	return nil
}

func (g *GraphWriter) line(s string) error {
	if _, err := g.w.WriteString(s + "\n"); err != nil {
		return fmt.Errorf("write graph: %w", err)
	}
	return nil
}

var idReplacer = strings.NewReplacer(`"`, `\"`)

// quoteID renders s as a DOT double-quoted ID.
func quoteID(s string) string {
	return `"` + idReplacer.Replace(toUTF8(s)) + `"`
}
