package autobids

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/WillyisSus/course-final-project-sub000/internal/domain/auctions"
	"github.com/WillyisSus/course-final-project-sub000/pkg/database"
	"github.com/WillyisSus/course-final-project-sub000/pkg/events"
	"github.com/WillyisSus/course-final-project-sub000/pkg/faults"
)

// Engine errors
var (
	ErrAuctionNotActive = faults.New(faults.KindConflict, "auction is not active")
	ErrAuctionEnded     = faults.New(faults.KindValidation, "auction has ended")
	ErrBidTooLow        = faults.New(faults.KindValidation, "bid amount must be at least the current price plus step")
	ErrSellerCannotBid  = faults.New(faults.KindValidation, "seller cannot bid on their own auction")
	ErrAutoBidMissing   = faults.New(faults.KindInvariant, "auto-bid vanished between write and resolution")
)

// Anti-sniping: a manual bid landing inside the final window pushes the
// end time out by the same amount.
const antiSnipeWindow = 5 * time.Minute

// Engine recomputes the public bid ladder when a ceiling changes. One
// resolution is one transaction holding the exclusive auction row lock,
// and commits at most one bid insert plus one auction update.
type Engine struct {
	txManager   database.TransactionManager
	auctionRepo AuctionRepository
	autoBidRepo AutoBidRepository
	bidRepo     BidRepository
	receiptRepo ReceiptWriter
	blockList   BlockChecker
	outbox      OutboxWriter
}

// NewEngine creates a new resolution engine
func NewEngine(
	txManager database.TransactionManager,
	auctionRepo AuctionRepository,
	autoBidRepo AutoBidRepository,
	bidRepo BidRepository,
	receiptRepo ReceiptWriter,
	blockList BlockChecker,
	outbox OutboxWriter,
) *Engine {
	return &Engine{
		txManager:   txManager,
		auctionRepo: auctionRepo,
		autoBidRepo: autoBidRepo,
		bidRepo:     bidRepo,
		receiptRepo: receiptRepo,
		blockList:   blockList,
		outbox:      outbox,
	}
}

// Resolve recomputes the ladder after bidderID wrote or raised their
// ceiling. Returns the bid it recorded, or nil when the ladder was
// already settled (the current leader raised their own ceiling — no
// self-outbid).
func (e *Engine) Resolve(ctx context.Context, auctionID, bidderID uuid.UUID) (*Bid, error) {
	tx, err := e.txManager.BeginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	auction, err := e.auctionRepo.GetForUpdate(ctx, tx, auctionID)
	if err != nil {
		return nil, fmt.Errorf("auction not found: %w", err)
	}

	if auction.Status != auctions.StatusActive {
		return nil, ErrAuctionNotActive
	}

	// The caller persisted this auto-bid before invoking resolution.
	// Its absence under the lock is a broken invariant, not bad input.
	own, err := e.autoBidRepo.GetForBidder(ctx, tx, auctionID, bidderID)
	if err != nil {
		return nil, fmt.Errorf("failed to load auto-bid: %w", err)
	}
	if own == nil {
		return nil, fmt.Errorf("%w: auction %s bidder %s", ErrAutoBidMissing, auctionID, bidderID)
	}

	top, err := e.bidRepo.HighestValid(ctx, tx, auctionID)
	if err != nil {
		return nil, fmt.Errorf("failed to load highest bid: %w", err)
	}

	// First bid ever: open the ladder at the start price.
	if top == nil {
		bid, placeErr := e.recordBid(ctx, tx, auction, bidderID, auction.StartPrice, bidderID)
		if placeErr != nil {
			return nil, placeErr
		}
		if commitErr := tx.Commit(ctx); commitErr != nil {
			return nil, fmt.Errorf("failed to commit transaction: %w", commitErr)
		}
		return bid, nil
	}

	// The incumbent is the current winner, defending their own ceiling.
	// A manual leader with no ceiling defends only their recorded amount.
	leaderID := top.BidderID
	if auction.WinnerID.Valid {
		leaderID = auction.WinnerID.UUID
	}

	// The leader raising their own ceiling changes nothing publicly.
	if leaderID == bidderID {
		return nil, nil
	}

	incumbent := ladderSide{BidderID: leaderID, Max: top.Amount, Since: top.CreatedAt}
	leaderAuto, err := e.autoBidRepo.GetForBidder(ctx, tx, auctionID, leaderID)
	if err != nil {
		return nil, fmt.Errorf("failed to load incumbent auto-bid: %w", err)
	}
	if leaderAuto != nil {
		incumbent.Max = leaderAuto.MaxPrice
		incumbent.Since = leaderAuto.CreatedAt
	}

	outcome := nextRung(incumbent, ladderSide{BidderID: bidderID, Max: own.MaxPrice, Since: own.CreatedAt}, auction.Step)

	bid, err := e.recordBid(ctx, tx, auction, bidderID, outcome.Amount, outcome.WinnerID)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return bid, nil
}

// recordBid appends the acting bidder's ledger entry, moves the lead to
// the resolved winner, and queues the notification, all inside the
// caller's transaction.
func (e *Engine) recordBid(ctx context.Context, tx pgx.Tx, auction *auctions.Auction, bidderID uuid.UUID, amount decimal.Decimal, winnerID uuid.UUID) (*Bid, error) {
	bid := &Bid{
		ID:        uuid.New(),
		AuctionID: auction.ID,
		BidderID:  bidderID,
		Amount:    amount,
		Status:    BidStatusValid,
		CreatedAt: time.Now(),
	}

	if err := e.bidRepo.Insert(ctx, tx, bid); err != nil {
		return nil, fmt.Errorf("failed to insert bid: %w", err)
	}

	if err := e.auctionRepo.UpdateLead(ctx, tx, auction.ID, auctions.NewLead(winnerID, amount)); err != nil {
		return nil, fmt.Errorf("failed to update lead: %w", err)
	}

	event, err := events.NewEvent(auction.ID, EventTypeBidPlaced, BidPlacedEvent{
		AuctionID: auction.ID.String(),
		BidID:     bid.ID.String(),
		BidderID:  bidderID.String(),
		LeaderID:  winnerID.String(),
		Amount:    amount.String(),
		PlacedAt:  bid.CreatedAt,
	})
	if err != nil {
		return nil, err
	}
	if err := e.outbox.SaveEvent(ctx, tx, event); err != nil {
		return nil, fmt.Errorf("failed to save outbox event: %w", err)
	}

	return bid, nil
}

// PlaceBid is the manual bid path: a one-shot bid at an explicit amount
// under the same lock discipline as resolution. It carries the collaborator
// behaviors the proxy path does not: anti-sniping extension and buy-now.
func (e *Engine) PlaceBid(ctx context.Context, cmd PlaceBidCommand) (*Bid, error) {
	blocked, err := e.blockList.Exists(ctx, cmd.AuctionID, cmd.BidderID)
	if err != nil {
		return nil, fmt.Errorf("failed to check block list: %w", err)
	}
	if blocked {
		return nil, ErrBidderBlocked
	}

	tx, err := e.txManager.BeginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	auction, err := e.auctionRepo.GetForUpdate(ctx, tx, cmd.AuctionID)
	if err != nil {
		return nil, fmt.Errorf("auction not found: %w", err)
	}

	if auction.Status != auctions.StatusActive {
		return nil, ErrAuctionNotActive
	}
	if auction.SellerID == cmd.BidderID {
		return nil, ErrSellerCannotBid
	}
	if time.Now().After(auction.EndTime) {
		return nil, ErrAuctionEnded
	}
	if cmd.Amount.LessThan(priceFloor(auction)) {
		return nil, ErrBidTooLow
	}

	bid, err := e.recordBid(ctx, tx, auction, cmd.BidderID, cmd.Amount, cmd.BidderID)
	if err != nil {
		return nil, err
	}

	if auction.BuyNowPrice.Valid && cmd.Amount.GreaterThanOrEqual(auction.BuyNowPrice.Decimal) {
		if err := e.closeAtBuyNow(ctx, tx, auction, bid); err != nil {
			return nil, err
		}
	} else if auction.AutoExtend && time.Until(auction.EndTime) < antiSnipeWindow {
		if err := e.auctionRepo.ExtendEnd(ctx, tx, auction.ID, auction.EndTime.Add(antiSnipeWindow)); err != nil {
			return nil, fmt.Errorf("failed to extend end time: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return bid, nil
}

// closeAtBuyNow finalizes the auction immediately at the buy-now bid.
func (e *Engine) closeAtBuyNow(ctx context.Context, tx pgx.Tx, auction *auctions.Auction, bid *Bid) error {
	receipt := &auctions.Receipt{
		ID:        uuid.New(),
		AuctionID: auction.ID,
		BuyerID:   bid.BidderID,
		SellerID:  auction.SellerID,
		Amount:    bid.Amount,
		CreatedAt: time.Now(),
	}
	if err := e.receiptRepo.Create(ctx, tx, receipt); err != nil {
		return fmt.Errorf("failed to create receipt: %w", err)
	}

	if err := e.auctionRepo.Close(ctx, tx, auction.ID, auctions.StatusClosedWon); err != nil {
		return fmt.Errorf("failed to close auction: %w", err)
	}

	event, err := events.NewEvent(auction.ID, auctions.EventTypeAuctionWon, auctions.AuctionWonEvent{
		AuctionID: auction.ID.String(),
		BuyerID:   bid.BidderID.String(),
		ReceiptID: receipt.ID.String(),
		Amount:    bid.Amount.String(),
		ClosedAt:  receipt.CreatedAt,
	})
	if err != nil {
		return err
	}
	if err := e.outbox.SaveEvent(ctx, tx, event); err != nil {
		return fmt.Errorf("failed to save outbox event: %w", err)
	}
	return nil
}
