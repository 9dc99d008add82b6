package analysis

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/redmonkez12/sentiment-api/internal/metrics"
	"github.com/redmonkez12/sentiment-api/internal/review"
	"github.com/redmonkez12/sentiment-api/internal/scorer"
	"github.com/redmonkez12/sentiment-api/internal/sentiment"
)

func TestAnalyze_ScoresAndRecords(t *testing.T) {
	fake := &scorer.Fake{Result: sentiment.Result{Sentiment: sentiment.Positive, Confidence: 0.87}}
	ledger := newMemLedger()
	svc := NewService(fake, ledger, nil)

	owner := uuid.New()
	outcome, err := svc.Analyze(context.Background(), owner, "Inception", "Great movie!")
	require.NoError(t, err)

	assert.Equal(t, sentiment.Result{Sentiment: sentiment.Positive, Confidence: 0.87}, outcome.Result)
	assert.NoError(t, outcome.PersistErr)
	require.NotNil(t, outcome.Record)
	assert.Equal(t, owner, *outcome.Record.UserID)
	assert.Equal(t, "Great movie!", outcome.Record.ReviewText)
	assert.Equal(t, sentiment.Positive, outcome.Record.Sentiment)
	assert.Equal(t, 0.87, outcome.Record.Confidence)
	assert.Equal(t, []string{"Great movie!"}, fake.Calls())
	assert.Equal(t, 1, ledger.count())
}

func TestAnalyze_ScorerFailureRecordsNothing(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		reason string
	}{
		{"unavailable", scorer.ErrUnavailable, metrics.ReasonUnavailable},
		{"protocol", scorer.ErrProtocol, metrics.ReasonProtocol},
		{"other", errors.New("boom"), metrics.ReasonOther},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := metrics.New()
			ledger := newMemLedger()
			svc := NewService(&scorer.Fake{Err: tt.err}, ledger, m)

			_, err := svc.Analyze(context.Background(), uuid.New(), "", "Great movie!")
			require.ErrorIs(t, err, tt.err)
			assert.Zero(t, ledger.count())

			failures, err := testutil.GatherAndCount(m.Registry(), "sentiment_scorer_failures_total")
			require.NoError(t, err)
			assert.Equal(t, 1, failures)
		})
	}
}

func TestAnalyze_InvalidScorerResultIsProtocolError(t *testing.T) {
	ledger := newMemLedger()
	svc := NewService(&scorer.Fake{Result: sentiment.Result{Sentiment: "mixed", Confidence: 0.5}}, ledger, nil)

	_, err := svc.Analyze(context.Background(), uuid.New(), "", "hmm")
	assert.ErrorIs(t, err, scorer.ErrProtocol)
	assert.Zero(t, ledger.count())
}

func TestAnalyze_PersistFailureStillReturnsResult(t *testing.T) {
	ledger := newMemLedger()
	ledger.appendErr = review.ErrStorage
	svc := NewService(&scorer.Fake{Result: sentiment.Result{Sentiment: sentiment.Negative, Confidence: 0.6}}, ledger, nil)

	outcome, err := svc.Analyze(context.Background(), uuid.New(), "", "Boring")
	require.NoError(t, err)
	assert.Equal(t, sentiment.Negative, outcome.Result.Sentiment)
	assert.Nil(t, outcome.Record)
	assert.ErrorIs(t, outcome.PersistErr, review.ErrStorage)
}

func TestAnalyze_BlankReview(t *testing.T) {
	fake := &scorer.Fake{Result: sentiment.Result{Sentiment: sentiment.Neutral, Confidence: 0.5}}
	svc := NewService(fake, newMemLedger(), nil)

	for _, text := range []string{"", "   ", "\n\t"} {
		_, err := svc.Analyze(context.Background(), uuid.New(), "", text)
		assert.ErrorIs(t, err, ErrReviewRequired)
	}
	assert.Empty(t, fake.Calls())
}

func TestAnalyze_ReviewLengthLimit(t *testing.T) {
	fake := &scorer.Fake{Result: sentiment.Result{Sentiment: sentiment.Neutral, Confidence: 0.5}}
	ledger := newMemLedger()
	svc := NewService(fake, ledger, nil)

	_, err := svc.Analyze(context.Background(), uuid.New(), "", strings.Repeat("a", MaxReviewBytes+1))
	require.ErrorIs(t, err, ErrReviewTooLong)
	assert.Empty(t, fake.Calls())
	assert.Zero(t, ledger.count())

	_, err = svc.Analyze(context.Background(), uuid.New(), "", strings.Repeat("a", MaxReviewBytes))
	require.NoError(t, err)
	assert.Len(t, fake.Calls(), 1)
}

func TestHistory_MostRecentFirstAndScopedToOwner(t *testing.T) {
	ledger := newMemLedger()
	svc := NewService(&scorer.Fake{Result: sentiment.Result{Sentiment: sentiment.Neutral, Confidence: 0.5}}, ledger, nil)

	owner, other := uuid.New(), uuid.New()
	for _, text := range []string{"t1", "t2", "t3"} {
		_, err := svc.Analyze(context.Background(), owner, "", text)
		require.NoError(t, err)
	}
	_, err := svc.Analyze(context.Background(), other, "", "not mine")
	require.NoError(t, err)

	first, err := svc.History(context.Background(), owner)
	require.NoError(t, err)
	require.Len(t, first, 3)
	assert.Equal(t, []string{"t3", "t2", "t1"}, texts(first))

	second, err := svc.History(context.Background(), owner)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestHistory_EmptyIsNotNil(t *testing.T) {
	svc := NewService(&scorer.Fake{}, newMemLedger(), nil)

	got, err := svc.History(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestHistory_StorageError(t *testing.T) {
	ledger := newMemLedger()
	ledger.listErr = review.ErrStorage
	svc := NewService(&scorer.Fake{}, ledger, nil)

	_, err := svc.History(context.Background(), uuid.New())
	assert.ErrorIs(t, err, review.ErrStorage)
}

func texts(reviews []review.Review) []string {
	out := make([]string, 0, len(reviews))
	for _, r := range reviews {
		out = append(out, r.ReviewText)
	}
	return out
}
