package analysis

import (
	"cmp"
	"context"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/redmonkez12/sentiment-api/internal/review"
	"github.com/redmonkez12/sentiment-api/internal/sentiment"
)

// memLedger is an in-memory Ledger with a controllable clock
type memLedger struct {
	mu        sync.Mutex
	reviews   []review.Review
	nextID    int64
	clock     time.Time
	appendErr error
	listErr   error
}

func newMemLedger() *memLedger {
	return &memLedger{clock: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)}
}

func (m *memLedger) Append(_ context.Context, ownerID *uuid.UUID, movieTitle, reviewText string, result sentiment.Result) (*review.Review, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.appendErr != nil {
		return nil, m.appendErr
	}
	if movieTitle == "" {
		movieTitle = review.DefaultMovieTitle
	}

	m.nextID++
	m.clock = m.clock.Add(time.Second)
	rec := review.Review{
		ID:         m.nextID,
		UserID:     ownerID,
		MovieTitle: movieTitle,
		ReviewText: reviewText,
		Sentiment:  result.Sentiment,
		Confidence: result.Confidence,
		CreatedAt:  m.clock,
	}
	m.reviews = append(m.reviews, rec)
	return &rec, nil
}

func (m *memLedger) ListByOwner(_ context.Context, ownerID uuid.UUID) ([]review.Review, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.listErr != nil {
		return nil, m.listErr
	}

	var out []review.Review
	for _, r := range m.reviews {
		if r.UserID != nil && *r.UserID == ownerID {
			out = append(out, r)
		}
	}
	slices.SortFunc(out, func(a, b review.Review) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(b.ID, a.ID)
	})
	return out, nil
}

func (m *memLedger) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.reviews)
}
