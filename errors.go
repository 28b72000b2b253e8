package readex

import (
	"errors"
	"fmt"

	"github.com/pagelens/readex/internal/engine"
)

// Sentinel errors returned by Engine.Parse.
var (
	// ErrAlreadyParsed is returned when Parse is called more than once on
	// the same Engine. An Engine is single-use: create a new one per call.
	ErrAlreadyParsed = errors.New("readex: engine already parsed a document")

	// ErrNoContent is returned when every extraction attempt produced no
	// content at all.
	ErrNoContent = errors.New("readex: no content could be extracted")

	// ErrElementNotFound is returned when the document has no <body>
	// element to extract from.
	ErrElementNotFound = errors.New("readex: required element not found: body")

	// ErrParsingFailed is returned when the input could not be parsed as
	// HTML.
	ErrParsingFailed = errors.New("readex: parsing failed")
)

// ContentTooShortError reports that the best extraction attempt produced
// fewer characters than Options.CharThreshold required.
type ContentTooShortError struct {
	Actual    int
	Threshold int
}

func (e *ContentTooShortError) Error() string {
	return fmt.Sprintf("readex: extracted content too short (%d chars, need %d)", e.Actual, e.Threshold)
}

// mapEngineError translates an internal/engine error into the public
// sentinel/structured error it corresponds to.
func mapEngineError(err error) error {
	if err == nil {
		return nil
	}

	var tooShort *engine.ContentTooShortError
	if errors.As(err, &tooShort) {
		return &ContentTooShortError{Actual: tooShort.Actual, Threshold: tooShort.Threshold}
	}

	switch {
	case errors.Is(err, engine.ErrNoBody):
		return ErrElementNotFound
	case errors.Is(err, engine.ErrNoContent):
		return ErrNoContent
	case errors.Is(err, engine.ErrNoDocument):
		return fmt.Errorf("%w: %v", ErrParsingFailed, err)
	default:
		return fmt.Errorf("%w: %v", ErrParsingFailed, err)
	}
}
