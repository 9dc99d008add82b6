package review

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/redmonkez12/sentiment-api/internal/database"
	"github.com/redmonkez12/sentiment-api/internal/sentiment"
)

var reviewColumns = []string{"id", "user_id", "movie_title", "review_text", "sentiment", "confidence", "created_at"}

func newRepoWithMock(t *testing.T) (*Repository, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	return NewRepository(database.NewBunDB(sqlDB)), mock
}

func TestAppend_Success(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	owner := uuid.New()
	created := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	mock.ExpectQuery(`INSERT INTO "reviews" .*'Inception'.*'Great movie!'.*'positive'.*0\.87`).
		WillReturnRows(sqlmock.NewRows(reviewColumns).
			AddRow(int64(7), owner.String(), "Inception", "Great movie!", "positive", 0.87, created))

	got, err := repo.Append(context.Background(), &owner, "Inception", "Great movie!",
		sentiment.Result{Sentiment: sentiment.Positive, Confidence: 0.87})
	require.NoError(t, err)
	assert.Equal(t, int64(7), got.ID)
	require.NotNil(t, got.UserID)
	assert.Equal(t, owner, *got.UserID)
	assert.Equal(t, sentiment.Positive, got.Sentiment)
	assert.Equal(t, 0.87, got.Confidence)
	assert.True(t, created.Equal(got.CreatedAt))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAppend_DefaultsMovieTitle(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	owner := uuid.New()
	mock.ExpectQuery(`INSERT INTO "reviews" .*'Unknown'`).
		WillReturnRows(sqlmock.NewRows(reviewColumns).
			AddRow(int64(1), owner.String(), "Unknown", "meh", "neutral", 0.5, time.Now()))

	got, err := repo.Append(context.Background(), &owner, "   ", "meh",
		sentiment.Result{Sentiment: sentiment.Neutral, Confidence: 0.5})
	require.NoError(t, err)
	assert.Equal(t, DefaultMovieTitle, got.MovieTitle)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAppend_RejectsInvalidInput(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	owner := uuid.New()

	_, err := repo.Append(context.Background(), &owner, "", "", sentiment.Result{Sentiment: sentiment.Neutral, Confidence: 0.5})
	assert.ErrorIs(t, err, ErrEmptyReview)

	_, err = repo.Append(context.Background(), &owner, "", "x", sentiment.Result{Sentiment: "mixed", Confidence: 0.5})
	assert.ErrorIs(t, err, sentiment.ErrUnknownSentiment)

	_, err = repo.Append(context.Background(), &owner, "", "x", sentiment.Result{Sentiment: sentiment.Positive, Confidence: 1.5})
	assert.ErrorIs(t, err, sentiment.ErrInvalidConfidence)

	// nothing reached the store
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAppend_StorageError(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	mock.ExpectQuery(`INSERT INTO "reviews"`).WillReturnError(errors.New("connection refused"))

	owner := uuid.New()
	_, err := repo.Append(context.Background(), &owner, "", "x", sentiment.Result{Sentiment: sentiment.Negative, Confidence: 0.9})
	require.ErrorIs(t, err, ErrStorage)
	assert.Contains(t, err.Error(), "connection refused")
}

func TestListByOwner_OrderedMostRecentFirst(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	owner := uuid.New()
	t1 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows(reviewColumns).
		AddRow(int64(3), owner.String(), "C", "third", "neutral", 0.5, t1.Add(2*time.Minute)).
		AddRow(int64(2), owner.String(), "B", "second", "negative", 0.7, t1.Add(time.Minute)).
		AddRow(int64(1), owner.String(), "A", "first", "positive", 0.9, t1)
	mock.ExpectQuery(`SELECT .* FROM "reviews" AS "r" WHERE \(user_id = '.+'\) ORDER BY created_at DESC, id DESC`).
		WillReturnRows(rows)

	got, err := repo.ListByOwner(context.Background(), owner)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, []int64{3, 2, 1}, []int64{got[0].ID, got[1].ID, got[2].ID})
	assert.Equal(t, sentiment.Negative, got[1].Sentiment)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListByOwner_EmptyIsNotNil(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	mock.ExpectQuery(`FROM "reviews"`).WillReturnRows(sqlmock.NewRows(reviewColumns))

	got, err := repo.ListByOwner(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestListByOwner_StorageError(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	mock.ExpectQuery(`FROM "reviews"`).WillReturnError(errors.New("timeout"))

	_, err := repo.ListByOwner(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrStorage)
}
