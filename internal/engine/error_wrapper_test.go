package engine

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSentinelErrors(t *testing.T) {
	assert.EqualError(t, ErrNoDocument, "engine: no document to parse")
	assert.EqualError(t, ErrNoBody, "engine: document has no body element")
	assert.EqualError(t, ErrNoContent, "engine: could not extract article content")
}

func TestContentTooShortError(t *testing.T) {
	err := &ContentTooShortError{Actual: 42, Threshold: 500}
	assert.Contains(t, err.Error(), "42")
	assert.Contains(t, err.Error(), "500")

	var target *ContentTooShortError
	assert.True(t, errors.As(err, &target))
	assert.Equal(t, 42, target.Actual)
}
