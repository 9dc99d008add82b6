// Package sentiment defines the closed set of classifications and the scored result shared by
// the scorer and the review ledger.
package sentiment

import (
	"errors"
	"fmt"
	"math"
)

// Sentiment is one of Positive, Negative or Neutral
type Sentiment string

const (
	Positive Sentiment = "positive"
	Negative Sentiment = "negative"
	Neutral  Sentiment = "neutral"
)

var (
	ErrUnknownSentiment  = errors.New("unknown sentiment")
	ErrInvalidConfidence = errors.New("confidence must be within [0, 1]")
)

// Valid reports whether s belongs to the closed enumeration
func (s Sentiment) Valid() bool {
	switch s {
	case Positive, Negative, Neutral:
		return true
	}
	return false
}

// Result is a classification with its confidence
type Result struct {
	Sentiment  Sentiment `json:"sentiment"`
	Confidence float64   `json:"confidence"`
}

// Validate checks the enumeration and confidence invariants
func (r Result) Validate() error {
	if !r.Sentiment.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownSentiment, string(r.Sentiment))
	}
	if math.IsNaN(r.Confidence) || r.Confidence < 0 || r.Confidence > 1 {
		return fmt.Errorf("%w: got %v", ErrInvalidConfidence, r.Confidence)
	}
	return nil
}
