package metadata

import (
	"regexp"
	"sort"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/pagelens/readex/internal/textnorm"
)

// SelectorScore pairs an XPath-style expression with the confidence the
// caller assigns elements matching it.
type SelectorScore struct {
	Selector string
	Score    int
}

// ExtractedElement accumulates the confidence score and contributing
// selectors for one distinct text/attribute value ExtractElement found.
type ExtractedElement struct {
	Score     int
	Selectors []string
}

// ProcessDictFunc post-processes ExtractElement's result map, e.g. to merge
// entries that are near-duplicates of each other.
type ProcessDictFunc func(map[string]*ExtractedElement) map[string]*ExtractedElement

var xpathExprPattern = regexp.MustCompile(`^//([a-zA-Z0-9_-]+)(?:\[@([a-zA-Z0-9_-]+)='([^']+)'\])?(?:/{1,2}@([a-zA-Z0-9_-]+))?$`)

// xpathToCSS translates the small subset of XPath used by this package's
// selector tables (tag, optional single attribute-equals predicate,
// optional trailing attribute extraction) into a goquery CSS selector plus
// whether the match should read an attribute rather than text, and which
// one. Anything outside that subset is passed through unchanged and will
// simply fail to match.
func xpathToCSS(xpath string) (css string, isAttr bool, attr string) {
	m := xpathExprPattern.FindStringSubmatch(xpath)
	if len(m) == 0 {
		return xpath, false, ""
	}

	tag := m[1]
	if tag == "*" {
		tag = "" // universal selector in CSS
	}

	switch {
	case m[2] == "" && m[4] == "":
		return tag, false, "" // //div
	case m[2] != "" && m[4] == "":
		return tag + "[" + m[2] + "='" + m[3] + "']", false, "" // //div[@class='content']
	case m[2] != "" && m[4] != "":
		return tag + "[" + m[2] + "='" + m[3] + "']", true, m[4] // //meta[@property='og:title']//@content
	default:
		return tag, true, m[4] // //meta//@content
	}
}

// ExtractElement runs each selector against htmlContent, normalizes the
// text (or attribute, for selectors ending in an XPath attribute step) of
// every match, and accumulates a score per distinct value: values matched
// by more than one selector sum their scores and record every contributing
// selector, letting a caller treat ExtractElement's result as a ranked
// vote rather than a single winner-take-all lookup.
func ExtractElement(htmlContent string, selectors []SelectorScore, processDictFn ProcessDictFunc) map[string]*ExtractedElement {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlContent))
	if err != nil {
		return nil
	}

	found := make(map[string]*ExtractedElement)
	for _, sel := range selectors {
		cssSelector, isAttrSelector, attrName := xpathToCSS(sel.Selector)

		doc.Find(cssSelector).Each(func(_ int, s *goquery.Selection) {
			var value string
			if isAttrSelector {
				value, _ = s.Attr(attrName)
			} else {
				value = s.Text()
			}

			value = textnorm.NormalizeWhitespace(value)
			if value == "" {
				return
			}

			if existing, ok := found[value]; ok {
				existing.Score += sel.Score
				existing.Selectors = append(existing.Selectors, sel.Selector)
				sort.Strings(existing.Selectors)
			} else {
				found[value] = &ExtractedElement{Score: sel.Score, Selectors: []string{sel.Selector}}
			}
		})
	}

	if processDictFn != nil {
		found = processDictFn(found)
	}
	return found
}
