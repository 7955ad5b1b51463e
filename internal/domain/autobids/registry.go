package autobids

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/WillyisSus/course-final-project-sub000/internal/domain/auctions"
	"github.com/WillyisSus/course-final-project-sub000/pkg/faults"
)

// Registry errors
var (
	ErrAutoBidNotFound  = faults.New(faults.KindConflict, "auto-bid not found")
	ErrDuplicateAutoBid = faults.New(faults.KindConflict, "bidder already holds an auto-bid for this auction")
	ErrNotOwner         = faults.New(faults.KindAuthorization, "only the owner can modify an auto-bid")
	ErrMaxPriceTooLow   = faults.New(faults.KindValidation, "max price must be at least the current price plus step")
	ErrBidderBlocked    = faults.New(faults.KindConflict, "bidder is blocked from this auction")
)

// priceFloor is the minimum acceptable amount for a new ceiling or bid:
// the start price while the ledger is empty, one step above the current
// price afterwards.
func priceFloor(a *auctions.Auction) decimal.Decimal {
	if a.CurrentPrice.Valid {
		return a.CurrentPrice.Decimal.Add(a.Step)
	}
	return a.StartPrice
}

// validateMaxPrice checks a ceiling against the live price. The read
// happens outside the resolution lock, so a concurrent resolution can
// raise the floor between this check and the write; resolution does not
// re-validate.
func validateMaxPrice(maxPrice decimal.Decimal, a *auctions.Auction) error {
	if maxPrice.LessThan(priceFloor(a)) {
		return ErrMaxPriceTooLow
	}
	return nil
}

// Registry owns the auto-bid lifecycle: one ceiling per (auction, bidder),
// validated against the live price, with every accepted mutation handed to
// the resolution engine.
type Registry struct {
	auctionRepo AuctionRepository
	autoBidRepo AutoBidRepository
	blockList   BlockChecker
	engine      *Engine
}

// NewRegistry creates a new auto-bid registry
func NewRegistry(auctionRepo AuctionRepository, autoBidRepo AutoBidRepository, blockList BlockChecker, engine *Engine) *Registry {
	return &Registry{
		auctionRepo: auctionRepo,
		autoBidRepo: autoBidRepo,
		blockList:   blockList,
		engine:      engine,
	}
}

// Create declares a new ceiling and triggers resolution.
func (r *Registry) Create(ctx context.Context, cmd CreateAutoBidCommand) (*AutoBid, error) {
	auction, err := r.auctionRepo.GetByID(ctx, cmd.AuctionID)
	if err != nil {
		return nil, fmt.Errorf("auction not found: %w", err)
	}

	if auction.Status != auctions.StatusActive {
		return nil, ErrAuctionNotActive
	}
	if auction.SellerID == cmd.BidderID {
		return nil, ErrSellerCannotBid
	}

	blocked, err := r.blockList.Exists(ctx, cmd.AuctionID, cmd.BidderID)
	if err != nil {
		return nil, fmt.Errorf("failed to check block list: %w", err)
	}
	if blocked {
		return nil, ErrBidderBlocked
	}

	if valErr := validateMaxPrice(cmd.MaxPrice, auction); valErr != nil {
		return nil, valErr
	}

	autoBid := &AutoBid{
		ID:        uuid.New(),
		AuctionID: cmd.AuctionID,
		BidderID:  cmd.BidderID,
		MaxPrice:  cmd.MaxPrice,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	// The unique (auction, bidder) constraint is the duplicate check;
	// no read-then-write window.
	if err := r.autoBidRepo.Create(ctx, autoBid); err != nil {
		return nil, err
	}

	if _, err := r.engine.Resolve(ctx, cmd.AuctionID, cmd.BidderID); err != nil {
		return nil, err
	}

	return autoBid, nil
}

// Update re-validates a ceiling against the live price and triggers
// resolution.
func (r *Registry) Update(ctx context.Context, cmd UpdateAutoBidCommand) (*AutoBid, error) {
	autoBid, err := r.autoBidRepo.GetByID(ctx, cmd.AutoBidID)
	if err != nil {
		return nil, ErrAutoBidNotFound
	}
	if autoBid.BidderID != cmd.BidderID {
		return nil, ErrNotOwner
	}

	auction, err := r.auctionRepo.GetByID(ctx, autoBid.AuctionID)
	if err != nil {
		return nil, fmt.Errorf("auction not found: %w", err)
	}
	if auction.Status != auctions.StatusActive {
		return nil, ErrAuctionNotActive
	}
	if valErr := validateMaxPrice(cmd.MaxPrice, auction); valErr != nil {
		return nil, valErr
	}

	if err := r.autoBidRepo.UpdateMaxPrice(ctx, cmd.AutoBidID, cmd.MaxPrice); err != nil {
		return nil, fmt.Errorf("failed to update auto-bid: %w", err)
	}
	autoBid.MaxPrice = cmd.MaxPrice

	if _, err := r.engine.Resolve(ctx, autoBid.AuctionID, cmd.BidderID); err != nil {
		return nil, err
	}

	return autoBid, nil
}

// Delete withdraws a ceiling. Already-recorded bids stand: a withdrawn
// ceiling never lowers the ladder, so no resolution runs.
func (r *Registry) Delete(ctx context.Context, cmd DeleteAutoBidCommand) error {
	autoBid, err := r.autoBidRepo.GetByID(ctx, cmd.AutoBidID)
	if err != nil {
		return ErrAutoBidNotFound
	}
	if autoBid.BidderID != cmd.BidderID {
		return ErrNotOwner
	}

	if err := r.autoBidRepo.Delete(ctx, cmd.AutoBidID); err != nil {
		return fmt.Errorf("failed to delete auto-bid: %w", err)
	}
	return nil
}
