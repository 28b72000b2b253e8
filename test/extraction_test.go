package test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pagelens/readex"
)

func longParagraph(words string) string {
	p := ""
	for i := 0; i < 40; i++ {
		p += words + " "
	}
	return p
}

func TestParseBasicArticle(t *testing.T) {
	html := `<html><head><title>My Great Article</title></head><body>
		<header><nav><a href="/">Home</a></nav></header>
		<article>
			<h1>My Great Article</h1>
			<p>` + longParagraph("This is the first paragraph of the article with plenty of text.") + `</p>
			<p>` + longParagraph("This is the second paragraph, also full of real article content.") + `</p>
		</article>
		<footer>Copyright 2026</footer>
	</body></html>`

	eng := readex.New()
	result, err := eng.Parse(html, "")
	require.NoError(t, err)

	assert.Equal(t, "My Great Article", result.Title)
	assert.Contains(t, result.TextContent, "first paragraph")
	assert.Greater(t, result.Length, 0)
	assert.NotContains(t, result.Content, "Copyright 2026")
}

func TestParseWrapsContentInReadabilityPageDiv(t *testing.T) {
	html := `<html><head><title>Wrapped</title></head><body>
		<article>
			<p>` + longParagraph("A paragraph long enough to clear the content threshold on its own.") + `</p>
		</article>
	</body></html>`

	eng := readex.New()
	result, err := eng.Parse(html, "")
	require.NoError(t, err)

	assert.Regexp(t, `^<div id="readability-page-1" class="page">`, result.Content)
}

func TestParseIsSingleUse(t *testing.T) {
	html := `<html><body><article><p>` + longParagraph("content") + `</p></article></body></html>`

	eng := readex.New()
	_, err := eng.Parse(html, "")
	require.NoError(t, err)

	_, err = eng.Parse(html, "")
	assert.ErrorIs(t, err, readex.ErrAlreadyParsed)
}

func TestParseNoBodyReturnsErrElementNotFound(t *testing.T) {
	eng := readex.New()
	_, err := eng.Parse(`<html><head><title>No Body</title></head></html>`, "")
	assert.ErrorIs(t, err, readex.ErrElementNotFound)
}

func TestParseContentTooShort(t *testing.T) {
	eng := readex.New(readex.WithCharThreshold(10000))
	_, err := eng.Parse(`<html><body><p>short</p></body></html>`, "")
	require.Error(t, err)

	var tooShort *readex.ContentTooShortError
	require.ErrorAs(t, err, &tooShort)
	assert.Equal(t, 10000, tooShort.Threshold)
}

func TestParseResolvesByline(t *testing.T) {
	html := `<html><head>
		<meta name="author" content="Jane Reporter">
	</head><body>
		<article>
			<h1>Headline</h1>
			<p>` + longParagraph("Plenty of article body text goes right here for scoring.") + `</p>
		</article>
	</body></html>`

	eng := readex.New()
	result, err := eng.Parse(html, "")
	require.NoError(t, err)
	assert.Equal(t, "Jane Reporter", result.Byline)
}

func TestParseResolvesDirAndLangFromBody(t *testing.T) {
	html := `<html lang="en"><body dir="rtl" lang="ar">
		<article><p>` + longParagraph("Some reasonably long article text for the body element.") + `</p></article>
	</body></html>`

	eng := readex.New()
	result, err := eng.Parse(html, "")
	require.NoError(t, err)
	assert.Equal(t, "rtl", result.Dir)
	assert.Equal(t, "ar", result.Lang)
}

func TestParseExtractsJSONLDMetadata(t *testing.T) {
	html := `<html><head>
		<script type="application/ld+json">
		{"@context":"https://schema.org","@type":"NewsArticle","headline":"JSON-LD Headline","author":{"name":"A. Writer"},"datePublished":"2026-01-02"}
		</script>
	</head><body>
		<article><p>` + longParagraph("Body content long enough to be picked as the article.") + `</p></article>
	</body></html>`

	eng := readex.New()
	result, err := eng.Parse(html, "")
	require.NoError(t, err)
	assert.Equal(t, "JSON-LD Headline", result.Title)
	assert.Equal(t, "A. Writer", result.Byline)
	assert.Equal(t, "2026-01-02", result.PublishedTime)
}

func TestParseBlocksWithContentDigestsAndNodeIndexes(t *testing.T) {
	html := `<html><body><article>
		<p>` + longParagraph("First block of article text for digesting purposes here.") + `</p>
		<p>` + longParagraph("Second block of article text, also long enough to survive.") + `</p>
	</article></body></html>`

	eng := readex.New(readex.WithContentDigests(true), readex.WithNodeIndexes(true))
	result, err := eng.Parse(html, "")
	require.NoError(t, err)
	require.NotEmpty(t, result.Blocks)
	for _, b := range result.Blocks {
		assert.NotEmpty(t, b.Text)
		assert.NotEmpty(t, b.ContentDigest)
		assert.NotEmpty(t, b.NodeIndex)
	}
}

func TestParseWithoutDigestOptionsLeavesBlocksEmpty(t *testing.T) {
	html := `<html><body><article><p>` + longParagraph("Article text that does not request blocks.") + `</p></article></body></html>`

	eng := readex.New()
	result, err := eng.Parse(html, "")
	require.NoError(t, err)
	assert.Empty(t, result.Blocks)
}
