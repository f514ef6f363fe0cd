// Package crawler implements the single-site traversal engine: the
// visit-once Frontier, the domain scoper, and the Engine that drains the
// frontier, fetches each page, and yields crawl steps to the caller.
package crawler
