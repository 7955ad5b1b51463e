package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/WillyisSus/course-final-project-sub000/internal/domain/auctions"
)

// PostgresReceiptRepository implements auctions.ReceiptRepository using pgx
type PostgresReceiptRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresReceiptRepository creates a new PostgreSQL receipt repository
func NewPostgresReceiptRepository(pool *pgxpool.Pool) *PostgresReceiptRepository {
	return &PostgresReceiptRepository{pool: pool}
}

// Create persists a receipt within a transaction
func (r *PostgresReceiptRepository) Create(ctx context.Context, tx pgx.Tx, receipt *auctions.Receipt) error {
	query := `
		INSERT INTO receipts (id, auction_id, buyer_id, seller_id, amount,
			buyer_confirmed, seller_confirmed, paid, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := tx.Exec(ctx, query,
		receipt.ID,
		receipt.AuctionID,
		receipt.BuyerID,
		receipt.SellerID,
		receipt.Amount,
		receipt.BuyerConfirmed,
		receipt.SellerConfirmed,
		receipt.Paid,
		receipt.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert receipt: %w", err)
	}
	return nil
}

// GetByAuctionID retrieves the receipt for an auction
func (r *PostgresReceiptRepository) GetByAuctionID(ctx context.Context, auctionID uuid.UUID) (*auctions.Receipt, error) {
	query := `
		SELECT id, auction_id, buyer_id, seller_id, amount,
			buyer_confirmed, seller_confirmed, paid, created_at
		FROM receipts
		WHERE auction_id = $1
	`
	var receipt auctions.Receipt
	err := r.pool.QueryRow(ctx, query, auctionID).Scan(
		&receipt.ID,
		&receipt.AuctionID,
		&receipt.BuyerID,
		&receipt.SellerID,
		&receipt.Amount,
		&receipt.BuyerConfirmed,
		&receipt.SellerConfirmed,
		&receipt.Paid,
		&receipt.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("receipt not found")
		}
		return nil, fmt.Errorf("failed to get receipt: %w", err)
	}
	return &receipt, nil
}
