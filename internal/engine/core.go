// Package engine implements the core Readability extraction pipeline: document
// preparation, metadata resolution, candidate scoring/selection, sibling
// merging, and the multi-attempt fallback loop.
package engine

import (
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/pagelens/readex/internal/siterules"
)

// ReadabilityOptions configures a single extraction attempt.
type ReadabilityOptions struct {
	Debug                  bool
	DebugWriter            io.Writer
	MaxElemsToParse        int
	NbTopCandidates        int
	CharThreshold          int
	ClassesToPreserve      []string
	KeepClasses            bool
	DisableJSONLD          bool
	AllowedVideoRegex      *regexp.Regexp
	LinkDensityModifier    float64
	PreserveImportantLinks bool
	// BaseURL anchors relative hrefs/srcs and selects site-specific rules.
	// When empty, a <base href> or og:url meta tag found in the document is
	// used instead.
	BaseURL string
}

func defaultReadabilityOptions() ReadabilityOptions {
	return ReadabilityOptions{
		Debug:                  false,
		DebugWriter:            io.Discard,
		MaxElemsToParse:        DefaultMaxElemsToParse,
		NbTopCandidates:        DefaultNTopCandidates,
		CharThreshold:          DefaultCharThreshold,
		ClassesToPreserve:      append([]string{}, ClassesToPreserve...),
		KeepClasses:            false,
		DisableJSONLD:          false,
		AllowedVideoRegex:      RegexpVideos,
		LinkDensityModifier:    0,
		PreserveImportantLinks: false,
	}
}

func (r *Readability) debugf(format string, args ...interface{}) {
	if !r.options.Debug {
		return
	}
	w := r.options.DebugWriter
	if w == nil {
		w = io.Discard
	}
	fmt.Fprintf(w, format, args...)
}

// ReadabilityArticle is the result of one successful attempt.
type ReadabilityArticle struct {
	Title         string
	Byline        string
	Dir           string
	Lang          string
	Content       string
	TextContent   string
	Length        int
	Excerpt       string
	SiteName      string
	PublishedTime string
}

// Readability holds the mutable state of a single extraction run: the
// document being scored, the current flag set, accumulated attempts, and
// resolved article-level metadata. A Readability value is single-use.
type Readability struct {
	doc             *goquery.Document
	options         ReadabilityOptions
	articleTitle    string
	articleByline   string
	articleDir      string
	articleLang     string
	articleSiteName string
	attempts        []attemptRecord
	flags           int
}

// attemptRecord tracks one fallback attempt's content and text length so the
// best-effort result can be chosen if every attempt lands below CharThreshold.
type attemptRecord struct {
	content    *goquery.Selection
	textLength int
}

// createElement builds a detached element node, owned by r's document, that
// can be appended into the tree (goquery.Document exposes no constructor).
func (r *Readability) createElement(tagName string) *goquery.Selection {
	node := &html.Node{
		Type: html.ElementNode,
		Data: tagName,
	}
	return goquery.NewDocumentFromNode(node).Find(tagName)
}

// NodeInfo pairs a scored node with its accumulated content score.
type NodeInfo struct {
	node         *goquery.Selection
	contentScore float64
}

// NewFromDocument builds a Readability run over an already-parsed document.
func NewFromDocument(doc *goquery.Document, opts *ReadabilityOptions) *Readability {
	options := defaultReadabilityOptions()
	if opts != nil {
		options = *opts
		if options.DebugWriter == nil {
			options.DebugWriter = io.Discard
		}
	}

	return &Readability{
		doc:     doc,
		options: options,
		flags:   FlagStripUnlikelys | FlagWeightClasses | FlagCleanConditionally,
	}
}

// NewFromHTML parses html and builds a Readability run over the result.
func NewFromHTML(htmlSrc string, opts *ReadabilityOptions) (*Readability, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlSrc))
	if err != nil {
		return nil, fmt.Errorf("engine: parsing failed: %w", err)
	}

	return NewFromDocument(doc, opts), nil
}

// bodyHTML snapshots the current <body> outer HTML so a fallback attempt can
// restore the document to its pre-attempt shape before retrying with a
// relaxed flag set (spec: each attempt starts from the restored-from-snapshot
// body).
func (r *Readability) bodyHTML() string {
	body := r.doc.Find("body").First()
	if body.Length() == 0 {
		return ""
	}
	return getOuterHTML(body)
}

// restoreBody replaces the current <body> with the snapshot taken at the
// start of Parse, undoing every mutation the previous attempt made.
func (r *Readability) restoreBody(snapshot string) error {
	if snapshot == "" {
		return nil
	}
	newDoc, err := goquery.NewDocumentFromReader(strings.NewReader(snapshot))
	if err != nil {
		return fmt.Errorf("engine: restoring attempt snapshot: %w", err)
	}
	newBody := newDoc.Find("body").First()
	if newBody.Length() == 0 {
		return nil
	}

	oldBody := r.doc.Find("body").First()
	if oldBody.Length() == 0 {
		r.doc.Find("html").First().AppendSelection(newBody)
		return nil
	}
	oldBody.ReplaceWithSelection(newBody)
	return nil
}

// removeScripts strips every <script> and <noscript> element from the
// document, ahead of the rest of document preparation.
func (r *Readability) removeScripts() {
	r.doc.Find("script, noscript").Remove()
}

// Parse runs the Readability algorithm end to end: document preparation,
// metadata resolution, the scoring/fallback loop, and post-extraction
// cleaning. It does not enforce single-use — that lifecycle guarantee lives
// in the public Engine wrapper (readex.go), which is the only supported
// entry point.
func (r *Readability) Parse() (*ReadabilityArticle, error) {
	if r.doc == nil || r.doc.Selection.Length() == 0 {
		return nil, ErrNoDocument
	}
	if r.doc.Find("body").Length() == 0 {
		return nil, ErrNoBody
	}

	if r.options.MaxElemsToParse > 0 {
		numNodes := r.doc.Find("*").Length()
		if numNodes > r.options.MaxElemsToParse {
			return nil, fmt.Errorf("engine: document too large (%d elements, max %d)", numNodes, r.options.MaxElemsToParse)
		}
	}

	snapshot := r.bodyHTML()

	r.unwrapNoscriptImages()

	jsonLd := make(map[string]string)
	if !r.options.DisableJSONLD {
		jsonLd = r.getJSONLD()
	}

	r.removeScripts()

	metadata := r.getArticleMetadata(jsonLd)
	r.articleTitle = metadata["title"]
	r.resolveDirLang()

	r.prepDocument()
	siterules.Apply(r.doc.Selection, r.options.BaseURL)

	article, textLength := r.attemptExtraction()
	r.attempts = append(r.attempts, attemptRecord{content: article, textLength: textLength})

	for textLength < r.options.CharThreshold {
		if !r.relaxFlags() {
			break
		}
		if err := r.restoreBody(snapshot); err != nil {
			return nil, err
		}
		article, textLength = r.attemptExtraction()
		r.attempts = append(r.attempts, attemptRecord{content: article, textLength: textLength})
	}

	if textLength < r.options.CharThreshold {
		best := r.bestAttempt()
		if best == nil || best.textLength == 0 {
			return nil, &ContentTooShortError{Actual: bestLength(r.attempts), Threshold: r.options.CharThreshold}
		}
		article = best.content
		textLength = best.textLength
	}

	if article == nil {
		return nil, ErrNoContent
	}

	r.postProcessContent(article)
	r.finalCleanupFooters(article)

	excerpt := metadata["excerpt"]
	if excerpt == "" {
		article.Find("p").EachWithBreak(func(i int, s *goquery.Selection) bool {
			text := strings.TrimSpace(s.Text())
			if text != "" {
				excerpt = text
				return false
			}
			return true
		})
	}

	textContent := getInnerText(article, true)

	page := r.createElement("div")
	page.SetAttr("id", "readability-page-1")
	page.SetAttr("class", "page")
	page.AppendSelection(article)

	return &ReadabilityArticle{
		Title:         r.articleTitle,
		Byline:        metadata["byline"],
		Dir:           r.articleDir,
		Lang:          r.articleLang,
		Content:       getOuterHTML(page),
		TextContent:   textContent,
		Length:        len([]rune(textContent)),
		Excerpt:       excerpt,
		SiteName:      metadata["siteName"],
		PublishedTime: metadata["date"],
	}, nil
}

// attemptExtraction runs one grabArticle pass under the current flag set and
// reports the resulting text length, without mutating r.attempts itself.
func (r *Readability) attemptExtraction() (*goquery.Selection, int) {
	article := r.grabArticle()
	if article == nil {
		return nil, 0
	}
	return article, len([]rune(getInnerText(article, true)))
}

// relaxFlags clears the next flag in the spec's fallback ladder
// (STRIP_UNLIKELYS, then WEIGHT_CLASSES, then CLEAN_CONDITIONALLY),
// re-setting STRIP_UNLIKELYS/WEIGHT_CLASSES as spec.md 4.10 requires so only
// one flag is ever net-new-cleared per attempt. Returns false once all three
// have been tried.
func (r *Readability) relaxFlags() bool {
	switch r.flags {
	case FlagStripUnlikelys | FlagWeightClasses | FlagCleanConditionally:
		r.flags = FlagWeightClasses | FlagCleanConditionally
		return true
	case FlagWeightClasses | FlagCleanConditionally:
		r.flags = FlagStripUnlikelys | FlagCleanConditionally
		return true
	case FlagStripUnlikelys | FlagCleanConditionally:
		r.flags = FlagStripUnlikelys | FlagWeightClasses
		return true
	default:
		return false
	}
}

func (r *Readability) bestAttempt() *attemptRecord {
	var best *attemptRecord
	for i := range r.attempts {
		a := &r.attempts[i]
		if best == nil || a.textLength > best.textLength {
			best = a
		}
	}
	return best
}

func bestLength(attempts []attemptRecord) int {
	max := 0
	for _, a := range attempts {
		if a.textLength > max {
			max = a.textLength
		}
	}
	return max
}
