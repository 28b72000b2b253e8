package metadata

import (
	"sort"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// BylineSelectors maps a CSS selector for an element that might carry the
// article's author to a confidence score; higher wins when more than one
// selector matches.
var BylineSelectors = map[string]int{
	"meta[property='article:author']":    10,
	"meta[property='og:article:author']": 9,
	"meta[name='author']":                8,
	"meta[name='sailthru.author']":       7,
	"meta[name='byl']":                   6,
	"meta[name='twitter:creator']":       5,
	"meta[property='book:author']":       4,
	"meta[name='dc.creator']":            3,
	"meta[name='dcterms.creator']":       3,
	"a[rel='author']":                    2,
	"span[class*='author']":              1,
	"p[class*='author']":                 1,
	"div[class*='author']":               1,
	"span[class*='byline']":              1,
	"p[class*='byline']":                 1,
	"div[class*='byline']":               1,
	"span[itemprop='author']":            1,
	"div[itemprop='author']":             1,
}

// bylinePrefixes are the paragraph-opening phrases extractBylineParagraph
// treats as a plain-text credit line.
var bylinePrefixes = []string{"by ", "written by "}

// ExtractByline looks for an author credit: first across BylineSelectors in
// descending confidence order, falling back to a paragraph that opens with
// "By " or "Written by ".
func ExtractByline(html string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return ""
	}

	// A schema.org Article's itemprop="author" names the node carrying
	// structured data about the piece, not necessarily a human-readable
	// credit worth surfacing as the byline.
	if doc.Find(`[itemtype*="schema.org/Article"] [itemprop="author"]`).Length() > 0 {
		return ""
	}

	if byline := extractBylineBySelector(doc); byline != "" {
		return byline
	}
	return extractBylineParagraph(doc)
}

// bylineCandidate pairs a selector with its confidence score for sorting.
type bylineCandidate struct {
	selector string
	score    int
}

// rankedBylineSelectors returns BylineSelectors ordered by descending
// score, selector name breaking ties, so the highest-confidence match wins
// regardless of Go's randomized map iteration order.
func rankedBylineSelectors() []bylineCandidate {
	ranked := make([]bylineCandidate, 0, len(BylineSelectors))
	for selector, score := range BylineSelectors {
		ranked = append(ranked, bylineCandidate{selector, score})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].score != ranked[j].score {
			return ranked[i].score > ranked[j].score
		}
		return ranked[i].selector < ranked[j].selector
	})
	return ranked
}

// extractBylineBySelector walks rankedBylineSelectors and returns the
// cleaned value of the first one that matches, preferring the meta
// "content" attribute and falling back to element text.
func extractBylineBySelector(doc *goquery.Document) string {
	for _, candidate := range rankedBylineSelectors() {
		var found string
		doc.Find(candidate.selector).EachWithBreak(func(_ int, s *goquery.Selection) bool {
			if strings.HasPrefix(candidate.selector, "meta") {
				found, _ = s.Attr("content")
			} else {
				found = s.Text()
			}
			return found == ""
		})
		if found == "" {
			continue
		}
		if cleaned := cleanByline(found); cleaned != "" {
			return cleaned
		}
	}
	return ""
}

// extractBylineParagraph scans top-level paragraphs for one that opens with
// a plain-text credit phrase, for pages that carry no structured byline at
// all.
func extractBylineParagraph(doc *goquery.Document) string {
	var result string
	doc.Find("p").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		text := s.Text()
		lower := strings.ToLower(text)
		for _, prefix := range bylinePrefixes {
			if strings.HasPrefix(lower, prefix) {
				result = cleanByline(text)
				return false
			}
		}
		return true
	})
	return result
}

// cleanByline trims a raw byline of the prefixes and suffixes publishers
// commonly wrap the author's name in.
func cleanByline(byline string) string {
	byline = strings.TrimSpace(byline)

	for _, prefix := range []string{"By ", "by ", "Author: ", "Written by ", "Posted by ", "Published by ", "Reported by "} {
		if strings.HasPrefix(byline, prefix) {
			byline = strings.TrimSpace(byline[len(prefix):])
		}
	}

	for _, suffix := range []string{" | Author", " | Writer", " | Reporter", " | Staff"} {
		if strings.HasSuffix(byline, suffix) {
			byline = strings.TrimSpace(byline[:len(byline)-len(suffix)])
		}
	}

	return byline
}
