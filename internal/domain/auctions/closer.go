package auctions

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/WillyisSus/course-final-project-sub000/pkg/database"
	"github.com/WillyisSus/course-final-project-sub000/pkg/events"
)

// Closer is the periodic sweep that finalizes expired auctions. Each due
// auction is processed under the same exclusive row lock the resolution
// engine uses, so an auction closes exactly once even when sweeps overlap.
// Rows another transaction holds are skipped and picked up on the next tick.
type Closer struct {
	auctionRepo Repository
	receiptRepo ReceiptRepository
	bidders     BidderLister
	outbox      OutboxWriter
	txManager   database.TransactionManager
	batchSize   int
	interval    time.Duration
	logger      *slog.Logger
}

// NewCloser creates a new closing sweep
func NewCloser(
	auctionRepo Repository,
	receiptRepo ReceiptRepository,
	bidders BidderLister,
	outbox OutboxWriter,
	txManager database.TransactionManager,
	batchSize int,
	interval time.Duration,
	logger *slog.Logger,
) *Closer {
	return &Closer{
		auctionRepo: auctionRepo,
		receiptRepo: receiptRepo,
		bidders:     bidders,
		outbox:      outbox,
		txManager:   txManager,
		batchSize:   batchSize,
		interval:    interval,
		logger:      logger,
	}
}

// Run starts the polling loop
func (c *Closer) Run(ctx context.Context) error {
	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	// Initial run
	if err := c.SweepOnce(ctx); err != nil {
		c.logger.Error("Error closing expired auctions", "error", err)
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if err := c.SweepOnce(ctx); err != nil {
				c.logger.Error("Error closing expired auctions", "error", err)
			}
		}
	}
}

// SweepOnce locks one batch of expired auctions and closes each of them.
// All closures in the batch commit atomically.
func (c *Closer) SweepOnce(ctx context.Context) error {
	tx, err := c.txManager.BeginTx(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	due, err := c.auctionRepo.DueForClosing(ctx, tx, time.Now(), c.batchSize)
	if err != nil {
		return fmt.Errorf("failed to fetch expired auctions: %w", err)
	}

	if len(due) == 0 {
		return nil // Nothing to do
	}

	c.logger.Info("Closing expired auctions", "count", len(due))

	for _, auction := range due {
		if closeErr := c.closeOne(ctx, tx, auction); closeErr != nil {
			return fmt.Errorf("failed to close auction %s: %w", auction.ID, closeErr)
		}
	}

	return tx.Commit(ctx)
}

// closeOne finalizes a single locked auction: receipt plus notifications
// when a winner exists, a bare closure otherwise.
func (c *Closer) closeOne(ctx context.Context, tx pgx.Tx, auction *Auction) error {
	if !auction.WinnerID.Valid {
		if err := c.auctionRepo.Close(ctx, tx, auction.ID, StatusClosedNoSale); err != nil {
			return err
		}
		return c.emitClosed(ctx, tx, auction, StatusClosedNoSale, nil)
	}

	receipt := NewReceipt(auction)
	if err := c.receiptRepo.Create(ctx, tx, receipt); err != nil {
		return fmt.Errorf("failed to create receipt: %w", err)
	}

	if err := c.auctionRepo.Close(ctx, tx, auction.ID, StatusClosedWon); err != nil {
		return err
	}

	// Notify the winner
	wonEvent, err := events.NewEvent(auction.ID, EventTypeAuctionWon, AuctionWonEvent{
		AuctionID: auction.ID.String(),
		BuyerID:   receipt.BuyerID.String(),
		ReceiptID: receipt.ID.String(),
		Amount:    receipt.Amount.String(),
		ClosedAt:  time.Now(),
	})
	if err != nil {
		return err
	}
	if err := c.outbox.SaveEvent(ctx, tx, wonEvent); err != nil {
		return fmt.Errorf("failed to save outbox event: %w", err)
	}

	return c.emitClosed(ctx, tx, auction, StatusClosedWon, receipt)
}

// emitClosed fans the closure out to every distinct historical bidder.
func (c *Closer) emitClosed(ctx context.Context, tx pgx.Tx, auction *Auction, status Status, receipt *Receipt) error {
	bidderIDs, err := c.bidders.DistinctBidders(ctx, tx, auction.ID)
	if err != nil {
		return fmt.Errorf("failed to list bidders: %w", err)
	}

	closedAt := time.Now()
	for _, bidderID := range bidderIDs {
		payload := AuctionClosedEvent{
			AuctionID:   auction.ID.String(),
			RecipientID: bidderID.String(),
			Status:      status.String(),
			ClosedAt:    closedAt,
		}
		if receipt != nil {
			payload.WinnerID = receipt.BuyerID.String()
			payload.Amount = receipt.Amount.String()
		}

		event, evErr := events.NewEvent(auction.ID, EventTypeAuctionClosed, payload)
		if evErr != nil {
			return evErr
		}
		if saveErr := c.outbox.SaveEvent(ctx, tx, event); saveErr != nil {
			return fmt.Errorf("failed to save outbox event: %w", saveErr)
		}
	}
	return nil
}
