package autobids

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/WillyisSus/course-final-project-sub000/internal/domain/auctions"
	"github.com/WillyisSus/course-final-project-sub000/pkg/events"
)

// AutoBidRepository defines the interface for auto-bid persistence
type AutoBidRepository interface {
	// Create persists a new auto-bid. A duplicate (auction, bidder)
	// pair surfaces ErrDuplicateAutoBid.
	Create(ctx context.Context, autoBid *AutoBid) error

	// GetByID retrieves an auto-bid by its ID
	GetByID(ctx context.Context, autoBidID uuid.UUID) (*AutoBid, error)

	// GetForBidder retrieves a bidder's auto-bid for an auction within a
	// transaction. Returns (nil, nil) when none exists.
	GetForBidder(ctx context.Context, tx pgx.Tx, auctionID, bidderID uuid.UUID) (*AutoBid, error)

	// UpdateMaxPrice replaces the ceiling without touching CreatedAt
	UpdateMaxPrice(ctx context.Context, autoBidID uuid.UUID, maxPrice decimal.Decimal) error

	// Delete removes an auto-bid
	Delete(ctx context.Context, autoBidID uuid.UUID) error

	// DeleteForBidder removes a bidder's auto-bid for an auction within
	// a transaction (block cascade). Returns the number of rows removed.
	DeleteForBidder(ctx context.Context, tx pgx.Tx, auctionID, bidderID uuid.UUID) (int64, error)
}

// BidRepository defines the interface for the append-only bid ledger
type BidRepository interface {
	// Insert appends a bid within a transaction
	Insert(ctx context.Context, tx pgx.Tx, bid *Bid) error

	// HighestValid returns the highest valid bid for an auction within a
	// transaction, or (nil, nil) when the ledger holds none.
	HighestValid(ctx context.Context, tx pgx.Tx, auctionID uuid.UUID) (*Bid, error)

	// CancelForBidder flips a bidder's valid bids to cancelled within a
	// transaction. Returns the number of rows affected.
	CancelForBidder(ctx context.Context, tx pgx.Tx, auctionID, bidderID uuid.UUID) (int64, error)

	// ListByAuction returns the full ladder, newest first
	ListByAuction(ctx context.Context, auctionID uuid.UUID) ([]*Bid, error)

	// DistinctBidders returns every user holding at least one bid row
	DistinctBidders(ctx context.Context, tx pgx.Tx, auctionID uuid.UUID) ([]uuid.UUID, error)
}

// AuctionRepository is the slice of auction persistence the registry and
// engine need: the locked read plus the typed patch writes.
type AuctionRepository interface {
	GetByID(ctx context.Context, auctionID uuid.UUID) (*auctions.Auction, error)
	GetForUpdate(ctx context.Context, tx pgx.Tx, auctionID uuid.UUID) (*auctions.Auction, error)
	UpdateLead(ctx context.Context, tx pgx.Tx, auctionID uuid.UUID, patch auctions.LeadPatch) error
	ExtendEnd(ctx context.Context, tx pgx.Tx, auctionID uuid.UUID, endTime time.Time) error
	Close(ctx context.Context, tx pgx.Tx, auctionID uuid.UUID, status auctions.Status) error
}

// BlockChecker reports whether a user is barred from an auction
type BlockChecker interface {
	Exists(ctx context.Context, auctionID, userID uuid.UUID) (bool, error)
}

// ReceiptWriter persists the sale record for a buy-now close
type ReceiptWriter interface {
	Create(ctx context.Context, tx pgx.Tx, receipt *auctions.Receipt) error
}

// OutboxWriter saves an outbox event within a transaction
type OutboxWriter interface {
	SaveEvent(ctx context.Context, tx pgx.Tx, event *events.OutboxEvent) error
}
