package users

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/WillyisSus/course-final-project-sub000/pkg/database"
)

// Sweeper periodically downgrades expired sellers back to bidder and
// invalidates their sessions. It locks user rows only, so it neither
// blocks nor is blocked by the auction-closing sweep.
type Sweeper struct {
	userRepo  Repository
	sessions  SessionStore
	txManager database.TransactionManager
	batchSize int
	interval  time.Duration
	logger    *slog.Logger
}

// NewSweeper creates a new seller-downgrade sweep
func NewSweeper(
	userRepo Repository,
	sessions SessionStore,
	txManager database.TransactionManager,
	batchSize int,
	interval time.Duration,
	logger *slog.Logger,
) *Sweeper {
	return &Sweeper{
		userRepo:  userRepo,
		sessions:  sessions,
		txManager: txManager,
		batchSize: batchSize,
		interval:  interval,
		logger:    logger,
	}
}

// Run starts the polling loop
func (s *Sweeper) Run(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	// Initial run
	if err := s.SweepOnce(ctx); err != nil {
		s.logger.Error("Error downgrading expired sellers", "error", err)
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if err := s.SweepOnce(ctx); err != nil {
				s.logger.Error("Error downgrading expired sellers", "error", err)
			}
		}
	}
}

// SweepOnce downgrades one batch of expired sellers. Session invalidation
// happens after commit; the session store is not part of the transaction.
func (s *Sweeper) SweepOnce(ctx context.Context) error {
	tx, err := s.txManager.BeginTx(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	expired, err := s.userRepo.ExpiredSellers(ctx, tx, time.Now(), s.batchSize)
	if err != nil {
		return fmt.Errorf("failed to fetch expired sellers: %w", err)
	}

	if len(expired) == 0 {
		return nil // Nothing to do
	}

	s.logger.Info("Downgrading expired sellers", "count", len(expired))

	downgraded := make([]uuid.UUID, 0, len(expired))
	for _, user := range expired {
		if dgErr := s.userRepo.Downgrade(ctx, tx, user.ID); dgErr != nil {
			return fmt.Errorf("failed to downgrade user %s: %w", user.ID, dgErr)
		}
		downgraded = append(downgraded, user.ID)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	for _, userID := range downgraded {
		if invErr := s.sessions.Invalidate(ctx, userID); invErr != nil {
			// The role change is already committed; a stale session key
			// just expires on its own TTL.
			s.logger.Error("Failed to invalidate session", "user_id", userID, "error", invErr)
		}
	}
	return nil
}
