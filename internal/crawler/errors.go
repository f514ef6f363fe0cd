package crawler

import "errors"

var (
	// ErrNotHTML marks a page whose content is absent or not an HTML document.
	// It is recoverable: the page simply contributes no links or metadata.
	ErrNotHTML = errors.New("content is not html")

	// ErrInvalidSeed is returned when the seed URL cannot anchor a crawl.
	ErrInvalidSeed = errors.New("invalid seed url")
)
