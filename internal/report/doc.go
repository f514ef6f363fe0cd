// Package report serializes crawl results. Metadata reports have one row per
// crawl step in a fixed column order and are written as CSV or as a Markdown
// table. Link graphs are written in Graphviz DOT.
//
// Every field is normalized to valid UTF-8 before it reaches a writer.
package report
