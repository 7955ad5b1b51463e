package blocks

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/WillyisSus/course-final-project-sub000/internal/domain/auctions"
	"github.com/WillyisSus/course-final-project-sub000/pkg/database"
	"github.com/WillyisSus/course-final-project-sub000/pkg/events"
	"github.com/WillyisSus/course-final-project-sub000/pkg/faults"
)

// Enforcer errors
var (
	ErrAlreadyBlocked  = faults.New(faults.KindConflict, "user is already blocked from this auction")
	ErrNotSeller       = faults.New(faults.KindAuthorization, "only the seller can block a bidder")
	ErrCannotBlockSelf = faults.New(faults.KindValidation, "seller cannot block themselves")
)

// Enforcer removes a bidder's standing from one auction: their ceiling is
// deleted, their ledger rows are cancelled, and if they held the lead the
// winner falls back to the highest remaining recorded amount. The fallback
// deliberately does not re-run the proxy algorithm against the next
// bidder's true ceiling, so the auction may end under-priced relative to
// that ceiling.
type Enforcer struct {
	txManager   database.TransactionManager
	blockRepo   Repository
	auctionRepo AuctionRepository
	autoBidRepo AutoBidRemover
	bidLedger   BidLedger
	outbox      OutboxWriter
}

// NewEnforcer creates a new block enforcer
func NewEnforcer(
	txManager database.TransactionManager,
	blockRepo Repository,
	auctionRepo AuctionRepository,
	autoBidRepo AutoBidRemover,
	bidLedger BidLedger,
	outbox OutboxWriter,
) *Enforcer {
	return &Enforcer{
		txManager:   txManager,
		blockRepo:   blockRepo,
		auctionRepo: auctionRepo,
		autoBidRepo: autoBidRepo,
		bidLedger:   bidLedger,
		outbox:      outbox,
	}
}

// Block bars a user from an auction and re-derives the winner if the
// blocked user held the lead. The whole cascade is one transaction under
// the auction's exclusive row lock.
func (e *Enforcer) Block(ctx context.Context, cmd BlockCommand) (*Block, error) {
	auction, err := e.auctionRepo.GetByID(ctx, cmd.AuctionID)
	if err != nil {
		return nil, fmt.Errorf("auction not found: %w", err)
	}
	if auction.SellerID != cmd.RequestedBy {
		return nil, ErrNotSeller
	}
	if cmd.BlockedUserID == auction.SellerID {
		return nil, ErrCannotBlockSelf
	}

	blocked, err := e.blockRepo.Exists(ctx, cmd.AuctionID, cmd.BlockedUserID)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing block: %w", err)
	}
	if blocked {
		return nil, ErrAlreadyBlocked
	}

	tx, err := e.txManager.BeginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	auction, err = e.auctionRepo.GetForUpdate(ctx, tx, cmd.AuctionID)
	if err != nil {
		return nil, fmt.Errorf("auction not found: %w", err)
	}

	block := &Block{
		ID:            uuid.New(),
		AuctionID:     cmd.AuctionID,
		BlockedUserID: cmd.BlockedUserID,
		Reason:        cmd.Reason,
		BlockedAt:     time.Now(),
	}
	if err := e.blockRepo.Insert(ctx, tx, block); err != nil {
		return nil, err
	}

	if _, err := e.autoBidRepo.DeleteForBidder(ctx, tx, cmd.AuctionID, cmd.BlockedUserID); err != nil {
		return nil, fmt.Errorf("failed to remove auto-bid: %w", err)
	}
	if _, err := e.bidLedger.CancelForBidder(ctx, tx, cmd.AuctionID, cmd.BlockedUserID); err != nil {
		return nil, fmt.Errorf("failed to cancel bids: %w", err)
	}

	payload := BidderBlockedEvent{
		AuctionID:     cmd.AuctionID.String(),
		BlockedUserID: cmd.BlockedUserID.String(),
		Reason:        cmd.Reason,
		BlockedAt:     block.BlockedAt,
	}

	// Only a blocked leader forces a recompute.
	if auction.WinnerID.Valid && auction.WinnerID.UUID == cmd.BlockedUserID {
		top, topErr := e.bidLedger.HighestValid(ctx, tx, cmd.AuctionID)
		if topErr != nil {
			return nil, fmt.Errorf("failed to load highest remaining bid: %w", topErr)
		}

		patch := auctions.ClearLead()
		if top != nil {
			patch = auctions.NewLead(top.BidderID, top.Amount)
			payload.NewWinnerID = top.BidderID.String()
			payload.NewPrice = top.Amount.String()
		}
		if leadErr := e.auctionRepo.UpdateLead(ctx, tx, cmd.AuctionID, patch); leadErr != nil {
			return nil, fmt.Errorf("failed to update lead: %w", leadErr)
		}
	}

	event, err := events.NewEvent(cmd.AuctionID, EventTypeBidderBlocked, payload)
	if err != nil {
		return nil, err
	}
	if err := e.outbox.SaveEvent(ctx, tx, event); err != nil {
		return nil, fmt.Errorf("failed to save outbox event: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return block, nil
}
