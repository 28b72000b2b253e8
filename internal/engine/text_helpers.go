package engine

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"github.com/PuerkitoBio/goquery"
)

// wordCount is a cheap word count used by heuristics that only care about
// rough length, not tokenization details.
func wordCount(text string) int {
	return len(strings.Fields(text))
}

var (
	namedEntityPattern   = regexp.MustCompile(`&(quot|amp|apos|lt|gt);`)
	numericEntityPattern = regexp.MustCompile(`&#(?:x([0-9a-f]{1,4})|([0-9]{1,4}));`)
	collapseWhitespace   = regexp.MustCompile(`\s+`)
)

// unescapeHtmlEntities decodes the named entities in HTMLEscapeMap and both
// hex (&#x..;) and decimal (&#..;) numeric entities.
func unescapeHtmlEntities(text string) string {
	if text == "" {
		return text
	}

	result := namedEntityPattern.ReplaceAllStringFunc(text, func(match string) string {
		if val, ok := HTMLEscapeMap[match[1:len(match)-1]]; ok {
			return val
		}
		return match
	})

	return numericEntityPattern.ReplaceAllStringFunc(result, func(match string) string {
		base, body := 10, match[2:len(match)-1]
		if strings.HasPrefix(match, "&#x") {
			base, body = 16, match[3:len(match)-1]
		}
		code, err := strconv.ParseInt(body, base, 32)
		if err != nil {
			return match
		}
		return string(rune(code))
	})
}

// getInnerText walks s's contents and concatenates their text, recursing
// into phrasing-content elements inline and padding block elements with a
// surrounding space so adjacent block text doesn't run together.
func getInnerText(s *goquery.Selection, normalize bool) string {
	if empty(s) {
		return ""
	}

	var b strings.Builder
	if n := s.Contents().Length(); n > 0 {
		b.Grow(n * 100)
	}

	s.Contents().Each(func(_ int, el *goquery.Selection) {
		node := el.Get(0)
		if node == nil {
			return
		}
		switch node.Type {
		case TextNode:
			b.WriteString(el.Text())
		case ElementNode:
			if isPhrasingContent(node) {
				b.WriteString(getInnerText(el, false))
			} else {
				b.WriteString(" ")
				b.WriteString(getInnerText(el, false))
				b.WriteString(" ")
			}
		}
	})

	text := b.String()
	if normalize {
		text = strings.TrimSpace(collapseWhitespace.ReplaceAllString(text, " "))
	}
	return text
}

// textSimilarity returns the Jaccard similarity of textA and textB's
// lowercased, tokenized word sets: |intersection| / |union|.
func textSimilarity(textA, textB string) float64 {
	if textA == textB {
		return 1.0
	}
	if textA == "" || textB == "" {
		return 0.0
	}

	tokenize := func(text string) []string {
		var tokens []string
		seen := make(map[string]bool)
		for _, tok := range RegexpTokenize.Split(strings.ToLower(text), -1) {
			if tok = strings.TrimSpace(tok); tok != "" && !seen[tok] {
				seen[tok] = true
				tokens = append(tokens, tok)
			}
		}
		return tokens
	}

	tokensA, tokensB := tokenize(textA), tokenize(textB)
	if len(tokensA) == 0 || len(tokensB) == 0 {
		return 0.0
	}

	matches := 0
	for _, a := range tokensA {
		for _, b := range tokensB {
			if a == b {
				matches++
				break
			}
		}
	}

	return float64(matches) / float64(len(tokensA)+len(tokensB)-matches)
}

// getCharCount counts occurrences of delimiter (default ",") in s's
// normalized text; used as a crude prose-vs-boilerplate signal.
func getCharCount(s *goquery.Selection, delimiter string) int {
	if empty(s) {
		return 0
	}
	if delimiter == "" {
		delimiter = ","
	}
	return len(strings.Split(getInnerText(s, true), delimiter)) - 1
}

// getLinkDensity is the fraction of s's text that sits inside <a> tags,
// with anchors to in-page hash targets discounted to 30% weight since they
// tend to be tables-of-contents rather than navigation chrome.
func getLinkDensity(s *goquery.Selection) float64 {
	if empty(s) {
		return 0
	}

	textLength := len(getInnerText(s, true))
	if textLength == 0 {
		return 0
	}

	var linkLength float64
	s.Find("a").Each(func(_ int, link *goquery.Selection) {
		if dataType, ok := link.Attr("data-type"); ok && (dataType == "indexterm" || dataType == "noteref") {
			return
		}

		coefficient := 1.0
		if href, ok := link.Attr("href"); ok && RegexpHashUrl.MatchString(href) {
			coefficient = 0.3
		}
		linkLength += float64(len(getInnerText(link, true))) * coefficient
	})

	return linkLength / float64(textLength)
}

// metaFieldVariations maps a logical metadata field to the different
// meta-tag naming conventions sites use for it.
var metaFieldVariations = map[string][]string{
	"author": {
		"author", "byline", "dc.creator", "article:author", "creator", "og:article:author",
	},
	"date": {
		"date", "created", "article:published_time", "article:modified_time",
		"publication_date", "sailthru.date", "timestamp", "dc.date", "og:published_time",
		"og:updated_time", "publication-date", "modified-date", "last-modified",
	},
	"sitename": {
		"og:site_name", "application-name", "site_name", "publisher", "dc.publisher", "copyright",
	},
	"description": {
		"description", "og:description", "dc.description", "twitter:description",
	},
	"title": {
		"title", "og:title", "dc.title", "twitter:title",
	},
}

// extractMeta looks up field across its known naming variations, trying the
// name/property/itemprop attribute forms (and, for Twitter cards, the
// nonstandard "value" attribute) before falling back to defaultValue.
func extractMeta(doc *goquery.Document, field, defaultValue string) string {
	variations, ok := metaFieldVariations[field]
	if !ok {
		variations = []string{field}
	}

	for _, variation := range variations {
		for _, attr := range [...]string{"name", "property", "itemprop"} {
			if value := doc.Find(fmt.Sprintf("meta[%s='%s']", attr, variation)).AttrOr("content", ""); value != "" {
				return strings.TrimSpace(value)
			}
		}
		if strings.HasPrefix(variation, "twitter:") {
			if value := doc.Find(fmt.Sprintf("meta[name='%s']", variation)).AttrOr("value", ""); value != "" {
				return strings.TrimSpace(value)
			}
		}
	}

	if field == "title" {
		if title := doc.Find("title").Text(); title != "" {
			return strings.TrimSpace(title)
		}
	}

	return defaultValue
}

// getNormalized collapses runs of whitespace to a single space and trims
// the ends.
func getNormalized(text string) string {
	return strings.TrimSpace(RegexpNormalize.ReplaceAllString(text, " "))
}

// isValidByline rejects candidate byline text that's empty, implausibly
// long, or looks like a bare date (a short string dominated by digits
// around a date-divider character).
func isValidByline(text string) bool {
	const maxBylineLen = 100
	if len(text) == 0 || len(text) > maxBylineLen {
		return false
	}

	for _, divider := range []string{"/", "•", "·", "|", "-", "—"} {
		if !strings.Contains(text, divider) {
			continue
		}
		digits := 0
		for _, r := range text {
			if unicode.IsDigit(r) {
				digits++
			}
		}
		if float64(digits)/float64(len(text)) > 0.3 {
			return false
		}
	}
	return true
}
