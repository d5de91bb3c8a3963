package feed

import (
	"errors"
	"fmt"
)

// Pipeline-level failures surfaced to the feed composer's caller.
// Per-source failures never escape the aggregator.
var (
	// ErrAllSourcesFailed means every configured adapter failed for a
	// call. Distinct from a legitimate empty result set.
	ErrAllSourcesFailed = errors.New("all news sources failed")

	// ErrMissingLocation is returned for regional feeds when the user
	// has no stored location.
	ErrMissingLocation = errors.New("no location on file")

	// ErrUnauthorized is returned when a personalized feed is requested
	// by a guest.
	ErrUnauthorized = errors.New("sign in required")
)

// SourceError wraps a single provider failure with its provider tag so
// the aggregator can log which source dropped out.
type SourceError struct {
	Provider string
	Err      error
}

func (e *SourceError) Error() string {
	return fmt.Sprintf("source %s: %v", e.Provider, e.Err)
}

func (e *SourceError) Unwrap() error { return e.Err }
