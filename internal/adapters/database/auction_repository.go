package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/WillyisSus/course-final-project-sub000/internal/domain/auctions"
	pkgdb "github.com/WillyisSus/course-final-project-sub000/pkg/database"
	"github.com/WillyisSus/course-final-project-sub000/pkg/faults"
)

const auctionColumns = `id, seller_id, title, description, start_price, step, buy_now_price,
		current_price, winner_id, auto_extend, end_time, status, created_at, updated_at`

// PostgresAuctionRepository implements the auction repository ports using pgx
type PostgresAuctionRepository struct {
	pool *pgxpool.Pool // Keep pool for non-transactional reads
}

// NewPostgresAuctionRepository creates a new PostgreSQL auction repository
func NewPostgresAuctionRepository(pool *pgxpool.Pool) *PostgresAuctionRepository {
	return &PostgresAuctionRepository{pool: pool}
}

// Create persists a new auction
func (r *PostgresAuctionRepository) Create(ctx context.Context, a *auctions.Auction) error {
	query := `
		INSERT INTO auctions (id, seller_id, title, description, start_price, step, buy_now_price,
			auto_extend, end_time, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10::auction_status, $11, $12)
	`
	_, err := r.pool.Exec(ctx, query,
		a.ID,
		a.SellerID,
		a.Title,
		a.Description,
		a.StartPrice,
		a.Step,
		a.BuyNowPrice,
		a.AutoExtend,
		a.EndTime,
		a.Status,
		a.CreatedAt,
		a.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert auction: %w", err)
	}
	return nil
}

// GetByID retrieves an auction by its ID (non-transactional read)
func (r *PostgresAuctionRepository) GetByID(ctx context.Context, auctionID uuid.UUID) (*auctions.Auction, error) {
	return r.getAuction(ctx, r.pool, auctionID, false)
}

// GetForUpdate retrieves an auction and takes the exclusive row lock.
// A timed-out lock wait surfaces as a retryable contention fault.
func (r *PostgresAuctionRepository) GetForUpdate(ctx context.Context, tx pgx.Tx, auctionID uuid.UUID) (*auctions.Auction, error) {
	return r.getAuction(ctx, tx, auctionID, true)
}

// getAuction is the internal implementation that works with any DBTX
func (r *PostgresAuctionRepository) getAuction(ctx context.Context, db pkgdb.DBTX, auctionID uuid.UUID, forUpdate bool) (*auctions.Auction, error) {
	query := `SELECT ` + auctionColumns + ` FROM auctions WHERE id = $1`
	if forUpdate {
		query += " FOR UPDATE"
	}

	a, err := scanAuction(db.QueryRow(ctx, query, auctionID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("auction not found")
		}
		if pkgdb.IsLockTimeout(err) {
			return nil, faults.Wrap(faults.KindContention, err)
		}
		return nil, fmt.Errorf("failed to get auction: %w", err)
	}
	return a, nil
}

// DueForClosing locks and returns a batch of expired active auctions.
// SKIP LOCKED keeps overlapping sweeps and in-flight resolutions from
// stalling the batch; skipped rows come back on the next tick.
func (r *PostgresAuctionRepository) DueForClosing(ctx context.Context, tx pgx.Tx, now time.Time, limit int) ([]*auctions.Auction, error) {
	query := `
		SELECT ` + auctionColumns + `
		FROM auctions
		WHERE status = 'active' AND end_time <= $1
		ORDER BY end_time ASC
		LIMIT $2
		FOR UPDATE SKIP LOCKED
	`
	rows, err := tx.Query(ctx, query, now, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query expired auctions: %w", err)
	}
	defer rows.Close()

	var result []*auctions.Auction
	for rows.Next() {
		a, scanErr := scanAuction(rows)
		if scanErr != nil {
			return nil, fmt.Errorf("failed to scan auction: %w", scanErr)
		}
		result = append(result, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating auctions: %w", err)
	}
	return result, nil
}

// UpdateLead applies a price/winner patch within a transaction
func (r *PostgresAuctionRepository) UpdateLead(ctx context.Context, tx pgx.Tx, auctionID uuid.UUID, patch auctions.LeadPatch) error {
	query := `
		UPDATE auctions
		SET current_price = $1, winner_id = $2, updated_at = NOW()
		WHERE id = $3
	`
	result, err := tx.Exec(ctx, query, patch.CurrentPrice, patch.WinnerID, auctionID)
	if err != nil {
		return fmt.Errorf("failed to update lead: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("auction not found")
	}
	return nil
}

// ExtendEnd pushes the end time out within a transaction
func (r *PostgresAuctionRepository) ExtendEnd(ctx context.Context, tx pgx.Tx, auctionID uuid.UUID, endTime time.Time) error {
	query := `
		UPDATE auctions
		SET end_time = $1, updated_at = NOW()
		WHERE id = $2
	`
	result, err := tx.Exec(ctx, query, endTime, auctionID)
	if err != nil {
		return fmt.Errorf("failed to extend end time: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("auction not found")
	}
	return nil
}

// Close transitions an auction out of active exactly once: the guard on
// the current status makes a double close impossible.
func (r *PostgresAuctionRepository) Close(ctx context.Context, tx pgx.Tx, auctionID uuid.UUID, status auctions.Status) error {
	query := `
		UPDATE auctions
		SET status = $1::auction_status, updated_at = NOW()
		WHERE id = $2 AND status = 'active'
	`
	result, err := tx.Exec(ctx, query, status, auctionID)
	if err != nil {
		return fmt.Errorf("failed to close auction: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("auction already closed")
	}
	return nil
}

// scanAuction reads one auction row from any pgx row source
func scanAuction(row pgx.Row) (*auctions.Auction, error) {
	var a auctions.Auction
	err := row.Scan(
		&a.ID,
		&a.SellerID,
		&a.Title,
		&a.Description,
		&a.StartPrice,
		&a.Step,
		&a.BuyNowPrice,
		&a.CurrentPrice,
		&a.WinnerID,
		&a.AutoExtend,
		&a.EndTime,
		&a.Status,
		&a.CreatedAt,
		&a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &a, nil
}
