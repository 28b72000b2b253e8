package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePublishedTimeFallsBackToScoredDateLadder(t *testing.T) {
	html := `<html><head><title>Dated Article</title></head><body>
		<article>
			<h1>Dated Article</h1>
			<p class="byline">By the newsroom staff <time>January 2, 2026</time></p>
			<p>This article contains a reasonable amount of filler text for scoring purposes here.</p>
			<p>A second paragraph keeps the total text comfortably above the threshold.</p>
		</article>
	</body></html>`

	r, err := NewFromHTML(html, nil)
	require.NoError(t, err)

	article, err := r.Parse()
	require.NoError(t, err)
	assert.NotEmpty(t, article.PublishedTime)
}
