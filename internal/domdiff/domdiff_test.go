package domdiff

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEquivalentIgnoresWhitespace(t *testing.T) {
	a := `<body><p>Hello   world</p></body>`
	b := `<body>
		<p>
			Hello world
		</p>
	</body>`

	ok, reason := Equivalent(a, b)
	assert.True(t, ok, reason)
}

func TestEquivalentCatchesTagMismatch(t *testing.T) {
	a := `<body><p>Hello</p></body>`
	b := `<body><div>Hello</div></body>`

	ok, _ := Equivalent(a, b)
	assert.False(t, ok)
}

func TestEquivalentCatchesTextMismatch(t *testing.T) {
	a := `<body><p>Hello world</p></body>`
	b := `<body><p>Hello there</p></body>`

	ok, _ := Equivalent(a, b)
	assert.False(t, ok)
}

func TestEquivalentCatchesExtraSibling(t *testing.T) {
	a := `<body><p>One</p></body>`
	b := `<body><p>One</p><p>Two</p></body>`

	ok, _ := Equivalent(a, b)
	assert.False(t, ok)
}
