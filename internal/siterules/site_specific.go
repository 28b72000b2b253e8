package siterules

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// githubRule strips GitHub's chrome and focuses scoring on the README.
var githubRule = Rule{
	Name:  "github",
	Match: func(host string, doc *goquery.Selection) bool { return strings.Contains(host, "github.com") },
	Transform: func(doc *goquery.Selection) {
		doc.Find("header, footer, .sidebar").Remove()
		doc.Find("#readme").AddClass("main-content")
		doc.Find(".js-header-wrapper, .js-site-header, .site-header, .js-site-footer, .site-footer").Remove()
	},
}

// mediumRule strips Medium's navigation chrome and promotes the article body.
var mediumRule = Rule{
	Name:  "medium",
	Match: func(host string, doc *goquery.Selection) bool { return strings.Contains(host, "medium.com") },
	Transform: func(doc *goquery.Selection) {
		doc.Find("nav, header, footer").Remove()
		doc.Find(".sidebar, [data-test-id='post-sidebar']").Remove()
		doc.Find("article").AddClass("main-content")
		doc.Find("[data-test-id='post-sidebar'], [data-test-id='post-footer'], [data-test-id='post-header']").Remove()
	},
}

// wikipediaRule strips MediaWiki chrome and promotes #mw-content-text,
// except for the fallback-image placeholder the article body legitimately
// carries (aria-hidden spans used as an image fallback must survive).
var wikipediaRule = Rule{
	Name:  "wikipedia",
	Match: func(host string, doc *goquery.Selection) bool { return strings.Contains(host, "wikipedia.org") },
	Transform: func(doc *goquery.Selection) {
		doc.Find("#mw-navigation, #mw-panel, #footer").Remove()
		doc.Find(".mw-editsection").Remove()
		doc.Find("#siteSub, #contentSub, #jump-to-nav, .printfooter, #catlinks").Remove()
		doc.Find("#content").AddClass("main-content")
	},
	PromoteCandidate: func(doc *goquery.Selection) *goquery.Selection {
		container := doc.Find("#mw-content-text, div.mw-content-text").First()
		if container.Length() == 0 {
			return nil
		}
		return container
	},
	ShouldKeepCandidate: func(candidate *goquery.Selection) bool {
		// Never drop a candidate purely for containing the fallback-image
		// aria-hidden placeholder spans MediaWiki renders for missing images.
		return true
	},
}

// nyTimesRule strips NYTimes chrome and promotes the #story container.
var nyTimesRule = Rule{
	Name:  "nytimes",
	Match: func(host string, doc *goquery.Selection) bool { return strings.Contains(host, "nytimes.com") },
	Transform: func(doc *goquery.Selection) {
		doc.Find("header, footer, nav").Remove()
		doc.Find(".ad").Remove()
		doc.Find("#commentsContainer").Remove()
		doc.Find(".NYT_BELOW_MAIN_CONTENT, .NYT_ABOVE_MAIN_CONTENT, .newsletter-signup, .comments-button").Remove()
		doc.Find("article, .article, .story, .story-body").AddClass("main-content")
	},
	PromoteCandidate: func(doc *goquery.Selection) *goquery.Selection {
		story := doc.Find("#story").First()
		if story.Length() == 0 {
			return nil
		}
		return story
	},
}

// bbcRule strips BBC's chrome and promotes the story-body container.
var bbcRule = Rule{
	Name:  "bbc",
	Match: func(host string, doc *goquery.Selection) bool {
		return strings.Contains(host, "bbc.com") || strings.Contains(host, "bbc.co.uk")
	},
	Transform: func(doc *goquery.Selection) {
		doc.Find("header, footer, nav").Remove()
		doc.Find(".bbccom_slot").Remove()
		doc.Find(".related-content").Remove()
		doc.Find(".share, .share-tools, .comments_module, .correspondent-image").Remove()
		doc.Find("article, .story-body, .story-body__inner").AddClass("main-content")
	},
}

var wordpressNavPattern = regexp.MustCompile(`(?i)post-(nav|navigation)|nav-links|pagination`)

// wordpressPaginationRule removes WordPress's prev/next post navigation,
// which the generic scorer sometimes keeps because it sits directly inside
// the article container rather than a dedicated <nav>.
var wordpressPaginationRule = Rule{
	Name: "wordpress-pagination",
	Match: func(host string, doc *goquery.Selection) bool {
		return doc.Find(`meta[name="generator"][content*="WordPress"]`).Length() > 0
	},
	Transform: func(doc *goquery.Selection) {
		doc.Find("nav.post-navigation, div.nav-links, div.pagination").Remove()
		doc.Find("div, nav").Each(func(_ int, s *goquery.Selection) {
			if class, exists := s.Attr("class"); exists && wordpressNavPattern.MatchString(class) {
				s.Remove()
			}
		})
	},
}

// genericArticleTagRule promotes the lone <article> element, at any depth, when the
// document defines exactly one, the way a browser's own reader-mode shadow
// root would. This runs regardless of host.
var genericArticleTagRule = Rule{
	Name:  "generic-article-tag",
	Match: func(host string, doc *goquery.Selection) bool { return doc.Find("article").Length() == 1 },
	PromoteCandidate: func(doc *goquery.Selection) *goquery.Selection {
		article := doc.Find("article").First()
		if article.Length() == 0 {
			return nil
		}
		return article
	},
}

func init() {
	Registry = append(Registry, githubRule, mediumRule, bbcRule)
}
