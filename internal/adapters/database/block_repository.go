package database

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/WillyisSus/course-final-project-sub000/internal/domain/blocks"
	pkgdb "github.com/WillyisSus/course-final-project-sub000/pkg/database"
)

// PostgresBlockRepository implements blocks.Repository using pgx
type PostgresBlockRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresBlockRepository creates a new PostgreSQL block repository
func NewPostgresBlockRepository(pool *pgxpool.Pool) *PostgresBlockRepository {
	return &PostgresBlockRepository{pool: pool}
}

// Insert persists a block within a transaction. The unique
// (auction_id, blocked_user_id) constraint backs the duplicate check.
func (r *PostgresBlockRepository) Insert(ctx context.Context, tx pgx.Tx, block *blocks.Block) error {
	query := `
		INSERT INTO blocks (id, auction_id, blocked_user_id, reason, blocked_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := tx.Exec(ctx, query,
		block.ID,
		block.AuctionID,
		block.BlockedUserID,
		block.Reason,
		block.BlockedAt,
	)
	if err != nil {
		if pkgdb.IsUniqueViolation(err) {
			return blocks.ErrAlreadyBlocked
		}
		return fmt.Errorf("failed to insert block: %w", err)
	}
	return nil
}

// Exists reports whether a user is already blocked from an auction
func (r *PostgresBlockRepository) Exists(ctx context.Context, auctionID, userID uuid.UUID) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM blocks WHERE auction_id = $1 AND blocked_user_id = $2
		)
	`
	var exists bool
	if err := r.pool.QueryRow(ctx, query, auctionID, userID).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check block: %w", err)
	}
	return exists, nil
}
