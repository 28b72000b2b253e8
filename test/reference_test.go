package test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/require"

	"github.com/pagelens/readex"
	"github.com/pagelens/readex/internal/domdiff"
)

// paragraphFragment renders the <p> elements found in html, in document
// order, as a bare fragment. Extraction may wrap or relabel the surrounding
// container (a generic article tag can get promoted wholesale, a synthetic
// page div can appear) but the paragraph text and order it preserves are
// what these fixtures pin down.
func paragraphFragment(t *testing.T, htmlStr string) string {
	t.Helper()

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlStr))
	require.NoError(t, err)

	var b strings.Builder
	doc.Find("p").Each(func(_ int, p *goquery.Selection) {
		out, err := goquery.OuterHtml(p)
		require.NoError(t, err)
		b.WriteString(out)
		b.WriteString("\n")
	})
	return b.String()
}

// TestFixtures walks test/testdata/fixtures/<case>/ and checks that parsing
// input.html reproduces the paragraph structure recorded in expected.html.
func TestFixtures(t *testing.T) {
	root := filepath.Join("testdata", "fixtures")
	entries, err := os.ReadDir(root)
	require.NoError(t, err)

	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		name := entry.Name()

		t.Run(name, func(t *testing.T) {
			inputPath := filepath.Join(root, name, "input.html")
			expectedPath := filepath.Join(root, name, "expected.html")

			input, err := os.ReadFile(inputPath)
			require.NoError(t, err)
			expected, err := os.ReadFile(expectedPath)
			require.NoError(t, err)

			eng := readex.New()
			result, err := eng.Parse(string(input), "")
			require.NoError(t, err)

			got := paragraphFragment(t, result.Content)
			want := paragraphFragment(t, string(expected))

			ok, reason := domdiff.Equivalent(
				"<body>"+got+"</body>",
				"<body>"+want+"</body>",
			)
			require.True(t, ok, reason)
		})
	}
}
