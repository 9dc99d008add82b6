package scorer

import (
	"context"
	"strings"

	"github.com/redmonkez12/sentiment-api/internal/sentiment"
)

var (
	positiveWords = map[string]struct{}{
		"good": {}, "great": {}, "excellent": {}, "amazing": {},
		"wonderful": {}, "love": {}, "enjoy": {}, "best": {},
	}
	negativeWords = map[string]struct{}{
		"bad": {}, "terrible": {}, "awful": {}, "worst": {},
		"hate": {}, "poor": {}, "disappointing": {}, "boring": {},
	}
)

// LexiconScorer counts positive and negative keywords among the whitespace-separated,
// lowercased words of a review. Punctuation is not stripped.
type LexiconScorer struct{}

func NewLexiconScorer() *LexiconScorer {
	return &LexiconScorer{}
}

func (LexiconScorer) Score(_ context.Context, review string) (sentiment.Result, error) {
	var positive, negative int
	for _, word := range strings.Fields(strings.ToLower(review)) {
		if _, ok := positiveWords[word]; ok {
			positive++
		}
		if _, ok := negativeWords[word]; ok {
			negative++
		}
	}

	total := positive + negative
	switch {
	case total == 0:
		return sentiment.Result{Sentiment: sentiment.Neutral, Confidence: 0.5}, nil
	case positive > negative:
		return sentiment.Result{Sentiment: sentiment.Positive, Confidence: float64(positive) / float64(total)}, nil
	default:
		// ties go negative
		return sentiment.Result{Sentiment: sentiment.Negative, Confidence: float64(negative) / float64(total)}, nil
	}
}
