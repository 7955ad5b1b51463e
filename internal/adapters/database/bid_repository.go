package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/WillyisSus/course-final-project-sub000/internal/domain/autobids"
)

// PostgresBidRepository implements autobids.BidRepository using pgx
type PostgresBidRepository struct {
	pool *pgxpool.Pool // Keep pool for read-only operations
}

// NewPostgresBidRepository creates a new PostgreSQL bid repository
func NewPostgresBidRepository(pool *pgxpool.Pool) *PostgresBidRepository {
	return &PostgresBidRepository{pool: pool}
}

// Insert appends a bid within a transaction
func (r *PostgresBidRepository) Insert(ctx context.Context, tx pgx.Tx, bid *autobids.Bid) error {
	query := `
		INSERT INTO bids (id, auction_id, bidder_id, amount, status, created_at)
		VALUES ($1, $2, $3, $4, $5::bid_status, $6)
	`
	_, err := tx.Exec(ctx, query,
		bid.ID,
		bid.AuctionID,
		bid.BidderID,
		bid.Amount,
		bid.Status,
		bid.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert bid: %w", err)
	}
	return nil
}

// HighestValid returns the highest valid bid for an auction within a
// transaction, or (nil, nil) when the ledger holds none. Ties on amount
// go to the earlier row.
func (r *PostgresBidRepository) HighestValid(ctx context.Context, tx pgx.Tx, auctionID uuid.UUID) (*autobids.Bid, error) {
	query := `
		SELECT id, auction_id, bidder_id, amount, status, created_at
		FROM bids
		WHERE auction_id = $1 AND status = 'valid'
		ORDER BY amount DESC, created_at ASC
		LIMIT 1
	`
	var bid autobids.Bid
	err := tx.QueryRow(ctx, query, auctionID).Scan(
		&bid.ID,
		&bid.AuctionID,
		&bid.BidderID,
		&bid.Amount,
		&bid.Status,
		&bid.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get highest bid: %w", err)
	}
	return &bid, nil
}

// CancelForBidder flips a bidder's valid bids to cancelled within a
// transaction. The rows stay in the ledger; only the status changes.
func (r *PostgresBidRepository) CancelForBidder(ctx context.Context, tx pgx.Tx, auctionID, bidderID uuid.UUID) (int64, error) {
	query := `
		UPDATE bids
		SET status = 'cancelled'
		WHERE auction_id = $1 AND bidder_id = $2 AND status = 'valid'
	`
	result, err := tx.Exec(ctx, query, auctionID, bidderID)
	if err != nil {
		return 0, fmt.Errorf("failed to cancel bids: %w", err)
	}
	return result.RowsAffected(), nil
}

// ListByAuction returns the full ladder, newest first
func (r *PostgresBidRepository) ListByAuction(ctx context.Context, auctionID uuid.UUID) ([]*autobids.Bid, error) {
	query := `
		SELECT id, auction_id, bidder_id, amount, status, created_at
		FROM bids
		WHERE auction_id = $1
		ORDER BY created_at DESC
	`
	rows, err := r.pool.Query(ctx, query, auctionID)
	if err != nil {
		return nil, fmt.Errorf("failed to query bids: %w", err)
	}
	defer rows.Close()

	var result []*autobids.Bid
	for rows.Next() {
		var bid autobids.Bid
		if err := rows.Scan(
			&bid.ID,
			&bid.AuctionID,
			&bid.BidderID,
			&bid.Amount,
			&bid.Status,
			&bid.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan bid: %w", err)
		}
		result = append(result, &bid)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating bids: %w", err)
	}
	return result, nil
}

// DistinctBidders returns every user holding at least one bid row for an
// auction, regardless of status
func (r *PostgresBidRepository) DistinctBidders(ctx context.Context, tx pgx.Tx, auctionID uuid.UUID) ([]uuid.UUID, error) {
	query := `
		SELECT DISTINCT bidder_id
		FROM bids
		WHERE auction_id = $1
	`
	rows, err := tx.Query(ctx, query, auctionID)
	if err != nil {
		return nil, fmt.Errorf("failed to query bidders: %w", err)
	}
	defer rows.Close()

	var result []uuid.UUID
	for rows.Next() {
		var bidderID uuid.UUID
		if err := rows.Scan(&bidderID); err != nil {
			return nil, fmt.Errorf("failed to scan bidder: %w", err)
		}
		result = append(result, bidderID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating bidders: %w", err)
	}
	return result, nil
}
