package siterules

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// errorPageRule detects 404/500-style pages by title, class, and sparse-DOM
// heuristics, then vetoes whatever candidate scoring picked, so the attempt
// yields no article.
var errorPageRule = Rule{
	Name:  "error-page",
	Match: func(host string, doc *goquery.Selection) bool { return hasErrorPageIndicators(doc) },
	ShouldKeepCandidate: func(candidate *goquery.Selection) bool {
		// An error page's "main content" is rarely worth keeping verbatim;
		// rejecting it leaves the attempt without an article.
		return false
	},
}

// referencePageRule detects Wikipedia/MediaWiki-shaped documents (table of
// contents, infobox, citation list, edit links) and promotes the dedicated
// content container over whatever the generic scorer would otherwise pick.
var referencePageRule = Rule{
	Name:  "reference-page",
	Match: func(host string, doc *goquery.Selection) bool { return hasReferenceStructure(doc) },
	PromoteCandidate: func(doc *goquery.Selection) *goquery.Selection {
		container := doc.Find("#mw-content-text, div.mw-content-text, div#wiki-content").First()
		if container.Length() == 0 {
			return nil
		}
		return container
	},
}

func hasErrorPageIndicators(doc *goquery.Selection) bool {
	errorPhrases := []string{
		"404", "not found", "page not found", "page doesn't exist", "error",
		"page missing", "no longer available", "page unavailable", "cannot be found",
		"couldn't be found", "could not be found", "doesn't exist", "does not exist",
		"broken link", "page deleted", "no longer exists", "500", "server error",
		"internal error", "service unavailable", "unavailable", "temporarily unavailable",
		"maintenance", "we're sorry", "we are sorry", "gone", "bad request", "forbidden",
		"access denied", "403",
	}

	title := strings.ToLower(doc.Find("title").Text())
	for _, phrase := range errorPhrases {
		if strings.Contains(title, phrase) {
			return true
		}
	}

	errorClasses := []string{"error", "not-found", "404", "500", "missing", "unavailable"}
	for _, class := range errorClasses {
		sel := "body." + class + ", div." + class + ", main." + class + ", #" + class + ", .error-page, .not-found-page"
		if doc.Find(sel).Length() > 0 {
			return true
		}
	}

	errorMatchCount := 0
	doc.Find("h1, h2, h3, .error-title, .error-message, .error-description, .message, .alert").Each(func(_ int, s *goquery.Selection) {
		text := strings.ToLower(s.Text())
		for _, phrase := range errorPhrases {
			if strings.Contains(text, phrase) {
				errorMatchCount++
			}
		}
	})
	if errorMatchCount >= 1 {
		return true
	}

	if doc.Find("body *").Length() < 30 {
		bodyText := strings.ToLower(doc.Find("body").Text())
		for _, phrase := range errorPhrases {
			if strings.Contains(bodyText, phrase) {
				return true
			}
		}
	}

	return false
}

func hasReferenceStructure(doc *goquery.Selection) bool {
	hasTOC := doc.Find("div#toc, div.toc, div#mw-content-text, div.mw-content-text, div#wiki-content").Length() > 0
	hasInfobox := doc.Find("table.infobox, div.infobox, table.wikitable").Length() > 0
	hasCitations := doc.Find("div.reflist, div.references, ol.references").Length() > 0
	hasEditLinks := doc.Find("a[title*='edit'], a.edit, span.mw-editsection").Length() > 0

	score := 0
	if hasTOC {
		score += 2
	}
	if hasInfobox {
		score += 2
	}
	if hasCitations {
		score++
	}
	if hasEditLinks {
		score++
	}

	return score >= 3
}
