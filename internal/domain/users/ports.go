package users

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// Repository defines the interface for user persistence
type Repository interface {
	// ExpiredSellers locks and returns a batch of sellers whose lease
	// has run out, skipping rows another worker already holds.
	ExpiredSellers(ctx context.Context, tx pgx.Tx, now time.Time, limit int) ([]*User, error)

	// Downgrade flips a seller back to bidder within a transaction
	Downgrade(ctx context.Context, tx pgx.Tx, userID uuid.UUID) error
}

// SessionStore invalidates a user's login sessions
type SessionStore interface {
	Invalidate(ctx context.Context, userID uuid.UUID) error
}
