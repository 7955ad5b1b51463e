package database

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/WillyisSus/course-final-project-sub000/internal/domain/users"
)

// PostgresUserRepository implements users.Repository using pgx
type PostgresUserRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresUserRepository creates a new PostgreSQL user repository
func NewPostgresUserRepository(pool *pgxpool.Pool) *PostgresUserRepository {
	return &PostgresUserRepository{pool: pool}
}

// ExpiredSellers locks and returns a batch of sellers whose lease has run
// out. SKIP LOCKED keeps overlapping sweeps off each other's rows.
func (r *PostgresUserRepository) ExpiredSellers(ctx context.Context, tx pgx.Tx, now time.Time, limit int) ([]*users.User, error) {
	query := `
		SELECT id, email, role, seller_until, created_at, updated_at
		FROM users
		WHERE role = 'seller' AND seller_until IS NOT NULL AND seller_until <= $1
		ORDER BY seller_until ASC
		LIMIT $2
		FOR UPDATE SKIP LOCKED
	`
	rows, err := tx.Query(ctx, query, now, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query expired sellers: %w", err)
	}
	defer rows.Close()

	var result []*users.User
	for rows.Next() {
		var u users.User
		if err := rows.Scan(
			&u.ID,
			&u.Email,
			&u.Role,
			&u.SellerUntil,
			&u.CreatedAt,
			&u.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		result = append(result, &u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating users: %w", err)
	}
	return result, nil
}

// Downgrade flips a seller back to bidder within a transaction
func (r *PostgresUserRepository) Downgrade(ctx context.Context, tx pgx.Tx, userID uuid.UUID) error {
	query := `
		UPDATE users
		SET role = 'bidder', seller_until = NULL, updated_at = NOW()
		WHERE id = $1 AND role = 'seller'
	`
	result, err := tx.Exec(ctx, query, userID)
	if err != nil {
		return fmt.Errorf("failed to downgrade user: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("user not found or not a seller")
	}
	return nil
}
