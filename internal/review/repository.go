package review

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/redmonkez12/sentiment-api/internal/database"
	"github.com/redmonkez12/sentiment-api/internal/sentiment"
)

var (
	// ErrStorage wraps every failure of the underlying store
	ErrStorage     = errors.New("review storage unavailable")
	ErrEmptyReview = errors.New("review text is empty")
)

// Repository is the review ledger backed by the reviews table
type Repository struct {
	db bun.IDB
}

func NewRepository(db bun.IDB) *Repository {
	return &Repository{db: db}
}

// Append records a scored review. The store assigns the id and creation timestamp.
// A blank movie title is stored as DefaultMovieTitle.
func (r *Repository) Append(ctx context.Context, ownerID *uuid.UUID, movieTitle, reviewText string, result sentiment.Result) (*Review, error) {
	if reviewText == "" {
		return nil, ErrEmptyReview
	}
	if err := result.Validate(); err != nil {
		return nil, fmt.Errorf("refusing to record review: %w", err)
	}

	movieTitle = strings.TrimSpace(movieTitle)
	if movieTitle == "" {
		movieTitle = DefaultMovieTitle
	}

	dbReview := &database.Review{
		UserID:     ownerID,
		MovieTitle: movieTitle,
		ReviewText: reviewText,
		Sentiment:  string(result.Sentiment),
		Confidence: result.Confidence,
	}

	_, err := r.db.NewInsert().
		Model(dbReview).
		Returning("*").
		Exec(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to append review: %w", ErrStorage, err)
	}

	return mapDBReviewToModel(dbReview), nil
}

// ListByOwner returns every review recorded for ownerID, most recent first.
// Reviews created in the same instant are ordered by descending id.
func (r *Repository) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]Review, error) {
	var rows []database.Review
	err := r.db.NewSelect().
		Model(&rows).
		Where("user_id = ?", ownerID).
		OrderExpr("created_at DESC, id DESC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to list reviews: %w", ErrStorage, err)
	}

	reviews := make([]Review, 0, len(rows))
	for i := range rows {
		reviews = append(reviews, *mapDBReviewToModel(&rows[i]))
	}

	return reviews, nil
}

func mapDBReviewToModel(dbr *database.Review) *Review {
	return &Review{
		ID:         dbr.ID,
		UserID:     dbr.UserID,
		MovieTitle: dbr.MovieTitle,
		ReviewText: dbr.ReviewText,
		Sentiment:  sentiment.Sentiment(dbr.Sentiment),
		Confidence: dbr.Confidence,
		CreatedAt:  dbr.CreatedAt,
	}
}
