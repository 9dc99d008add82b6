// Package scorer obtains sentiment classifications for review text.
//
// The production implementation runs an external process per review; the lexicon scorer is a
// dependency-free stand-in for local development, and Fake serves tests.
package scorer

import (
	"context"
	"errors"

	"github.com/redmonkez12/sentiment-api/internal/sentiment"
)

var (
	// ErrUnavailable means the scorer could not produce output: it failed to start,
	// exited non-zero or ran past its deadline.
	ErrUnavailable = errors.New("scorer unavailable")
	// ErrProtocol means the scorer ran but its output did not honour the contract.
	ErrProtocol = errors.New("scorer protocol error")
)

// Scorer classifies a single review
type Scorer interface {
	Score(ctx context.Context, review string) (sentiment.Result, error)
}
