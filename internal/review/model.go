package review

import (
	"time"

	"github.com/google/uuid"

	"github.com/redmonkez12/sentiment-api/internal/sentiment"
)

// DefaultMovieTitle is recorded when a review is submitted without a title
const DefaultMovieTitle = "Unknown"

// Review is one recorded analysis. Records are never mutated after creation.
type Review struct {
	ID         int64               `json:"id"`
	UserID     *uuid.UUID          `json:"user_id"`
	MovieTitle string              `json:"movie_title"`
	ReviewText string              `json:"review_text"`
	Sentiment  sentiment.Sentiment `json:"sentiment"`
	Confidence float64             `json:"confidence"`
	CreatedAt  time.Time           `json:"created_at"`
}
