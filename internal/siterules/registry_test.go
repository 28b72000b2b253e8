package siterules

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHost(t *testing.T) {
	assert.Equal(t, "www.nytimes.com", Host("https://www.nytimes.com/2024/01/01/world/story.html"))
	assert.Equal(t, "", Host(":::not a url"))
}

func TestErrorPageRuleVetoesCandidate(t *testing.T) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(
		`<html><head><title>404 Page Not Found</title></head><body><h1>Page not found</h1></body></html>`))
	require.NoError(t, err)

	assert.True(t, errorPageRule.Match("example.com", doc.Selection))
	assert.False(t, errorPageRule.ShouldKeepCandidate(doc.Find("body")))
}

func TestReferencePageRulePromotesMwContent(t *testing.T) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(`<html><body>
		<div id="toc">TOC</div>
		<table class="infobox"></table>
		<div class="reflist"></div>
		<a title="edit this section">edit</a>
		<div id="mw-content-text">article body</div>
	</body></html>`))
	require.NoError(t, err)

	assert.True(t, hasReferenceStructure(doc.Selection))
	promoted := PromoteCandidate(doc.Selection, "https://en.wikipedia.org/wiki/Go")
	require.NotNil(t, promoted)
	assert.Equal(t, "article body", strings.TrimSpace(promoted.Text()))
}

func TestGenericArticleTagRulePromotesLoneArticle(t *testing.T) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(
		`<html><body><nav>nav</nav><article>content</article></body></html>`))
	require.NoError(t, err)

	promoted := PromoteCandidate(doc.Selection, "https://example.com/post")
	require.NotNil(t, promoted)
	assert.Equal(t, "content", strings.TrimSpace(promoted.Text()))
}

func TestApplyRunsMatchingTransforms(t *testing.T) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(
		`<html><body><header>chrome</header><div id="readme">readme text</div></body></html>`))
	require.NoError(t, err)

	Apply(doc.Selection, "https://github.com/owner/repo")
	assert.Equal(t, 0, doc.Find("header").Length())
	assert.True(t, doc.Find("#readme").HasClass("main-content"))
}
