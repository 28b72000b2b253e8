package engine

import "fmt"

// ParseHTMLWithReadability parses HTML content using the Readability algorithm.
func ParseHTMLWithReadability(html string, opts *ReadabilityOptions) (*ReadabilityArticle, error) {
	r, err := NewFromHTML(html, opts)
	if err != nil {
		return nil, fmt.Errorf("engine: creating parser: %w", err)
	}
	return r.Parse()
}

// Parse extracts article content from HTML using default options.
func Parse(html string) (*ReadabilityArticle, error) {
	return ParseHTMLWithReadability(html, nil)
}
