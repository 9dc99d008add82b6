// Package analysis runs the analyze pipeline: score a review, record it, return the result.
package analysis

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/redmonkez12/sentiment-api/internal/logging"
	"github.com/redmonkez12/sentiment-api/internal/metrics"
	"github.com/redmonkez12/sentiment-api/internal/review"
	"github.com/redmonkez12/sentiment-api/internal/scorer"
	"github.com/redmonkez12/sentiment-api/internal/sentiment"
)

// MaxReviewBytes bounds review text; it is passed to the scorer as a single process argument
const MaxReviewBytes = 64 << 10

var (
	ErrReviewRequired = errors.New("review is required")
	ErrReviewTooLong  = fmt.Errorf("review must be at most %d bytes", MaxReviewBytes)
)

// Stage is a step of an analyze request. Authorization happens in the HTTP gate before the
// service is reached.
type Stage string

const (
	StageReceived   Stage = "received"
	StageScoring    Stage = "scoring"
	StagePersisting Stage = "persisting"
	StageCompleted  Stage = "completed"
)

// Ledger records analyses and lists them per owner
type Ledger interface {
	Append(ctx context.Context, ownerID *uuid.UUID, movieTitle, reviewText string, result sentiment.Result) (*review.Review, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]review.Review, error)
}

// Outcome is a scored analysis. Record is nil and PersistErr set when the ledger write failed;
// the result is still valid for the caller.
type Outcome struct {
	Result     sentiment.Result
	Record     *review.Review
	PersistErr error
}

// Service composes the scorer and the ledger
type Service struct {
	scorer  scorer.Scorer
	ledger  Ledger
	metrics *metrics.Metrics
	now     func() time.Time
}

func NewService(s scorer.Scorer, ledger Ledger, m *metrics.Metrics) *Service {
	return &Service{
		scorer:  s,
		ledger:  ledger,
		metrics: m,
		now:     time.Now,
	}
}

// Analyze scores reviewText for ownerID and records the result.
// A scoring failure is returned as an error and nothing is recorded. A recording failure is
// reported on the Outcome only.
func (s *Service) Analyze(ctx context.Context, ownerID uuid.UUID, movieTitle, reviewText string) (*Outcome, error) {
	logger := logging.GetLoggerFromContext(ctx).With("user_id", ownerID)
	logger.Debug("analysis stage", "stage", StageReceived)

	if strings.TrimSpace(reviewText) == "" {
		return nil, ErrReviewRequired
	}
	if len(reviewText) > MaxReviewBytes {
		return nil, ErrReviewTooLong
	}

	logger.Debug("analysis stage", "stage", StageScoring)
	result, err := s.score(ctx, reviewText)
	if err != nil {
		logger.Error("scoring failed", "error", err.Error())
		return nil, err
	}

	logger.Debug("analysis stage", "stage", StagePersisting)
	outcome := &Outcome{Result: result}

	record, err := s.ledger.Append(ctx, &ownerID, movieTitle, reviewText, result)
	if err != nil {
		s.metrics.ObserveLedgerWriteFailure()
		logger.Error("failed to record analysis, returning result anyway", "error", err.Error())
		outcome.PersistErr = err
	} else {
		outcome.Record = record
	}

	s.metrics.ObserveAnalysis(result.Sentiment)
	logger.Debug("analysis stage", "stage", StageCompleted,
		"sentiment", result.Sentiment, "confidence", result.Confidence)

	return outcome, nil
}

func (s *Service) score(ctx context.Context, reviewText string) (sentiment.Result, error) {
	start := s.now()
	result, err := s.scorer.Score(ctx, reviewText)
	s.metrics.ObserveScorerDuration(s.now().Sub(start))

	if err == nil {
		// scorers other than the subprocess adapter are held to the same contract
		if vErr := result.Validate(); vErr != nil {
			err = fmt.Errorf("%w: %w", scorer.ErrProtocol, vErr)
		}
	}
	if err != nil {
		s.metrics.ObserveScorerFailure(failureReason(err))
		return sentiment.Result{}, fmt.Errorf("failed to score review: %w", err)
	}

	return result, nil
}

// History returns every analysis recorded for ownerID, most recent first
func (s *Service) History(ctx context.Context, ownerID uuid.UUID) ([]review.Review, error) {
	reviews, err := s.ledger.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to load history: %w", err)
	}
	if reviews == nil {
		reviews = []review.Review{}
	}
	return reviews, nil
}

func failureReason(err error) string {
	switch {
	case errors.Is(err, scorer.ErrUnavailable):
		return metrics.ReasonUnavailable
	case errors.Is(err, scorer.ErrProtocol):
		return metrics.ReasonProtocol
	default:
		return metrics.ReasonOther
	}
}
