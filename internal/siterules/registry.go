// Package siterules implements the pluggable post-processing registry: a
// small set of rules, each matched against the document's host and shape,
// that nudge candidate selection without branching the generic pipeline on
// hostname. The pipeline only ever calls Match, PromoteCandidate, and
// ShouldKeepCandidate — it never special-cases a site by name itself.
package siterules

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Rule is one pluggable post-process/selection hook. Match decides whether
// the rule applies to the current document. PromoteCandidate, when non-nil,
// returns a replacement candidate to prefer over whatever scoring picked
// (e.g. NYTimes's #story container). ShouldKeepCandidate, when non-nil, can
// veto a candidate scoring otherwise accepted (e.g. an error page's sparse
// body).
type Rule struct {
	Name                string
	Match               func(host string, doc *goquery.Selection) bool
	PromoteCandidate    func(doc *goquery.Selection) *goquery.Selection
	ShouldKeepCandidate func(candidate *goquery.Selection) bool
	Transform           func(doc *goquery.Selection)
}

// Registry is the seed rule set, evaluated in order. A document can match
// more than one rule; transforms apply cumulatively, the first matching
// PromoteCandidate hook wins, and a veto from any matching
// ShouldKeepCandidate hook rejects the candidate.
var Registry = []Rule{
	errorPageRule,
	referencePageRule,
	nyTimesRule,
	wikipediaRule,
	wordpressPaginationRule,
	genericArticleTagRule,
}

// Host extracts the lowercase hostname from a page URL for Match functions.
func Host(pageURL string) string {
	u, err := url.Parse(pageURL)
	if err != nil {
		return ""
	}
	return strings.ToLower(u.Hostname())
}

// Apply runs every matching rule's Transform against doc, in registry order.
func Apply(doc *goquery.Selection, pageURL string) {
	host := Host(pageURL)
	for _, rule := range Registry {
		if rule.Transform == nil {
			continue
		}
		if rule.Match(host, doc) {
			rule.Transform(doc)
		}
	}
}

// PromoteCandidate returns the first non-nil promotion offered by a matching
// rule, or nil if none applies.
func PromoteCandidate(doc *goquery.Selection, pageURL string) *goquery.Selection {
	host := Host(pageURL)
	for _, rule := range Registry {
		if rule.PromoteCandidate == nil {
			continue
		}
		if rule.Match(host, doc) {
			if promoted := rule.PromoteCandidate(doc); promoted != nil && promoted.Length() > 0 {
				return promoted
			}
		}
	}
	return nil
}

// ShouldKeepCandidate reports false if any matching rule vetoes candidate.
func ShouldKeepCandidate(doc *goquery.Selection, candidate *goquery.Selection, pageURL string) bool {
	host := Host(pageURL)
	for _, rule := range Registry {
		if rule.ShouldKeepCandidate == nil {
			continue
		}
		if rule.Match(host, doc) && !rule.ShouldKeepCandidate(candidate) {
			return false
		}
	}
	return true
}
