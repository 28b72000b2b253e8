package test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pagelens/readex"
)

func TestParseWikipediaPromotesContentContainer(t *testing.T) {
	html := `<html><body>
		<div id="mw-navigation">Navigation chrome that should not win scoring</div>
		<div id="content">
			<div id="mw-content-text">
				<p>` + longParagraph("The Go programming language was designed at Google and released in 2009.") + `</p>
				<p>` + longParagraph("It emphasizes simplicity, fast compilation, and built-in concurrency support.") + `</p>
			</div>
		</div>
		<div id="footer">Footer chrome</div>
	</body></html>`

	eng := readex.New()
	result, err := eng.Parse(html, "https://en.wikipedia.org/wiki/Go_(programming_language)")
	require.NoError(t, err)
	assert.Contains(t, result.Content, "Go programming language")
	assert.NotContains(t, result.Content, "Navigation chrome")
}

func TestParseNYTimesPromotesStoryContainer(t *testing.T) {
	html := `<html><body>
		<header>Masthead nav that is not the story</header>
		<div id="story">
			<p>` + longParagraph("Reporters covered the city council meeting late into the night yesterday.") + `</p>
			<p>` + longParagraph("Residents raised concerns about the proposed zoning changes downtown today.") + `</p>
		</div>
		<div class="ad">Advertisement content</div>
	</body></html>`

	eng := readex.New()
	result, err := eng.Parse(html, "https://www.nytimes.com/2026/01/02/nyregion/story.html")
	require.NoError(t, err)
	assert.Contains(t, result.Content, "city council")
	assert.NotContains(t, result.Content, "Advertisement content")
}

func TestParseErrorPageIsRejected(t *testing.T) {
	html := `<html><body>
		<div class="error-page">
			<h1>404 Not Found</h1>
			<p>The page you requested could not be found. It may have been moved or deleted.</p>
			<p>Try searching for what you were looking for, or return to the homepage.</p>
		</div>
	</body></html>`

	eng := readex.New()
	_, err := eng.Parse(html, "https://example.com/missing")
	require.Error(t, err)
}

func TestParseWordPressPaginationIsStripped(t *testing.T) {
	html := `<html><head>
		<meta name="generator" content="WordPress 6.4">
	</head><body>
		<article>
			<p>` + longParagraph("A lengthy WordPress blog post about gardening tips for early spring.") + `</p>
			<p>` + longParagraph("More detailed advice about soil preparation and seasonal planting schedules.") + `</p>
			<div class="nav-links"><a href="/prev">Previous post</a><a href="/next">Next post</a></div>
		</article>
	</body></html>`

	eng := readex.New()
	result, err := eng.Parse(html, "https://blog.example.com/post")
	require.NoError(t, err)
	assert.NotContains(t, result.Content, "Previous post")
}
