package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/WillyisSus/course-final-project-sub000/internal/domain/autobids"
	pkgdb "github.com/WillyisSus/course-final-project-sub000/pkg/database"
)

// PostgresAutoBidRepository implements autobids.AutoBidRepository using pgx
type PostgresAutoBidRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresAutoBidRepository creates a new PostgreSQL auto-bid repository
func NewPostgresAutoBidRepository(pool *pgxpool.Pool) *PostgresAutoBidRepository {
	return &PostgresAutoBidRepository{pool: pool}
}

// Create persists a new auto-bid. The unique (auction_id, bidder_id)
// constraint is the duplicate check.
func (r *PostgresAutoBidRepository) Create(ctx context.Context, ab *autobids.AutoBid) error {
	query := `
		INSERT INTO auto_bids (id, auction_id, bidder_id, max_price, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := r.pool.Exec(ctx, query,
		ab.ID,
		ab.AuctionID,
		ab.BidderID,
		ab.MaxPrice,
		ab.CreatedAt,
		ab.UpdatedAt,
	)
	if err != nil {
		if pkgdb.IsUniqueViolation(err) {
			return autobids.ErrDuplicateAutoBid
		}
		return fmt.Errorf("failed to insert auto-bid: %w", err)
	}
	return nil
}

// GetByID retrieves an auto-bid by its ID
func (r *PostgresAutoBidRepository) GetByID(ctx context.Context, autoBidID uuid.UUID) (*autobids.AutoBid, error) {
	query := `
		SELECT id, auction_id, bidder_id, max_price, created_at, updated_at
		FROM auto_bids
		WHERE id = $1
	`
	ab, err := scanAutoBid(r.pool.QueryRow(ctx, query, autoBidID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("auto-bid not found")
		}
		return nil, fmt.Errorf("failed to get auto-bid: %w", err)
	}
	return ab, nil
}

// GetForBidder retrieves a bidder's auto-bid for an auction within a
// transaction. Returns (nil, nil) when none exists.
func (r *PostgresAutoBidRepository) GetForBidder(ctx context.Context, tx pgx.Tx, auctionID, bidderID uuid.UUID) (*autobids.AutoBid, error) {
	query := `
		SELECT id, auction_id, bidder_id, max_price, created_at, updated_at
		FROM auto_bids
		WHERE auction_id = $1 AND bidder_id = $2
	`
	ab, err := scanAutoBid(tx.QueryRow(ctx, query, auctionID, bidderID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get auto-bid: %w", err)
	}
	return ab, nil
}

// UpdateMaxPrice replaces the ceiling. created_at stays untouched: it is
// the first-to-commit tie-break key.
func (r *PostgresAutoBidRepository) UpdateMaxPrice(ctx context.Context, autoBidID uuid.UUID, maxPrice decimal.Decimal) error {
	query := `
		UPDATE auto_bids
		SET max_price = $1, updated_at = NOW()
		WHERE id = $2
	`
	result, err := r.pool.Exec(ctx, query, maxPrice, autoBidID)
	if err != nil {
		return fmt.Errorf("failed to update auto-bid: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("auto-bid not found")
	}
	return nil
}

// Delete removes an auto-bid
func (r *PostgresAutoBidRepository) Delete(ctx context.Context, autoBidID uuid.UUID) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM auto_bids WHERE id = $1`, autoBidID)
	if err != nil {
		return fmt.Errorf("failed to delete auto-bid: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("auto-bid not found")
	}
	return nil
}

// DeleteForBidder removes a bidder's auto-bid for an auction within a
// transaction (block cascade)
func (r *PostgresAutoBidRepository) DeleteForBidder(ctx context.Context, tx pgx.Tx, auctionID, bidderID uuid.UUID) (int64, error) {
	result, err := tx.Exec(ctx, `DELETE FROM auto_bids WHERE auction_id = $1 AND bidder_id = $2`, auctionID, bidderID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete auto-bid: %w", err)
	}
	return result.RowsAffected(), nil
}

// scanAutoBid reads one auto-bid row from any pgx row source
func scanAutoBid(row pgx.Row) (*autobids.AutoBid, error) {
	var ab autobids.AutoBid
	err := row.Scan(
		&ab.ID,
		&ab.AuctionID,
		&ab.BidderID,
		&ab.MaxPrice,
		&ab.CreatedAt,
		&ab.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &ab, nil
}
