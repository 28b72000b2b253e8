// Package readex extracts the readable article content from an HTML
// document, the way a browser's reader mode does: given the raw HTML, an
// optional base URL, and a set of Options, it returns the article's title,
// byline, language/direction, cleaned HTML, and plain text.
//
// It is a pure, synchronous, single-use-per-call operation: an Engine value
// may be Parsed exactly once.
package readex

import (
	"fmt"
	"strings"
	"sync/atomic"

	"github.com/PuerkitoBio/goquery"

	"github.com/pagelens/readex/internal/cleanup"
	"github.com/pagelens/readex/internal/engine"
)

// Engine extracts readable content from HTML. An Engine is single-use:
// after a successful or failed Parse, subsequent calls return
// ErrAlreadyParsed. Create a new Engine per document.
type Engine struct {
	options Options
	parsed  atomic.Bool
}

// New constructs an Engine configured by opts.
func New(opts ...Option) *Engine {
	options := DefaultOptions()
	for _, opt := range opts {
		opt(&options)
	}
	return &Engine{options: options}
}

// Parse extracts the readable content from html. baseURL anchors relative
// links and selects site-specific rules; it may be empty, in which case a
// <base href> or og:url meta tag found in the document is used instead.
func (e *Engine) Parse(html string, baseURL string) (*Result, error) {
	if !e.parsed.CompareAndSwap(false, true) {
		return nil, ErrAlreadyParsed
	}

	engineOpts := e.options.toEngineOptions(baseURL)
	article, err := engine.ParseHTMLWithReadability(html, &engineOpts)
	if err != nil {
		return nil, mapEngineError(err)
	}

	result := &Result{
		Title:         article.Title,
		Byline:        article.Byline,
		Dir:           article.Dir,
		Lang:          article.Lang,
		Content:       article.Content,
		TextContent:   article.TextContent,
		Length:        article.Length,
		Excerpt:       article.Excerpt,
		SiteName:      article.SiteName,
		PublishedTime: article.PublishedTime,
	}

	if e.options.ContentDigests || e.options.NodeIndexes {
		blocks, err := buildBlocks(article.Content, e.options.ContentDigests, e.options.NodeIndexes)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrParsingFailed, err)
		}
		result.Blocks = blocks
	}

	return result, nil
}

// buildBlocks renders html through the content-digest/node-index annotator
// and reads the attributes it attached back off each paragraph/list item.
func buildBlocks(html string, digests, indexes bool) ([]Block, error) {
	plain, err := cleanup.PlainContent(html, digests, indexes)
	if err != nil {
		return nil, err
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(plain))
	if err != nil {
		return nil, err
	}

	var blocks []Block
	doc.Find("p, li").Each(func(_ int, s *goquery.Selection) {
		text := strings.TrimSpace(s.Text())
		if text == "" {
			return
		}
		block := Block{Text: text}
		if digest, ok := s.Attr("data-content-digest"); ok {
			block.ContentDigest = digest
		}
		if idx, ok := s.Attr("data-node-index"); ok {
			block.NodeIndex = idx
		}
		blocks = append(blocks, block)
	})

	return blocks, nil
}
