package database

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// User is the bun table model for the users table
type User struct {
	bun.BaseModel `bun:"table:users,alias:u"`

	ID           uuid.UUID `bun:"id,pk,type:uuid,default:gen_random_uuid()"`
	Username     string    `bun:"username,notnull"`
	Email        string    `bun:"email,notnull"`
	PasswordHash string    `bun:"password_hash,notnull"`
	CreatedAt    time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp"`
}

// Review is the bun table model for the reviews table
type Review struct {
	bun.BaseModel `bun:"table:reviews,alias:r"`

	ID         int64      `bun:"id,pk,autoincrement"`
	UserID     *uuid.UUID `bun:"user_id,type:uuid"`
	MovieTitle string     `bun:"movie_title,notnull"`
	ReviewText string     `bun:"review_text,notnull"`
	Sentiment  string     `bun:"sentiment,notnull"`
	Confidence float64    `bun:"confidence,notnull"`
	CreatedAt  time.Time  `bun:"created_at,nullzero,notnull,default:current_timestamp"`
}
