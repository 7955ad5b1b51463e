package auctions

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/WillyisSus/course-final-project-sub000/pkg/events"
)

// Repository defines the interface for auction persistence
type Repository interface {
	// Create persists a new auction
	Create(ctx context.Context, auction *Auction) error

	// GetByID retrieves an auction by its ID (non-transactional read)
	GetByID(ctx context.Context, auctionID uuid.UUID) (*Auction, error)

	// GetForUpdate retrieves an auction and takes the exclusive row lock.
	// Every price/winner/status mutation goes through this lock.
	// Must be called within a transaction.
	GetForUpdate(ctx context.Context, tx pgx.Tx, auctionID uuid.UUID) (*Auction, error)

	// DueForClosing locks and returns a batch of active auctions whose
	// end time has passed, skipping rows another worker already holds.
	DueForClosing(ctx context.Context, tx pgx.Tx, now time.Time, limit int) ([]*Auction, error)

	// UpdateLead applies a price/winner patch within a transaction
	UpdateLead(ctx context.Context, tx pgx.Tx, auctionID uuid.UUID, patch LeadPatch) error

	// ExtendEnd pushes the end time out (anti-sniping) within a transaction
	ExtendEnd(ctx context.Context, tx pgx.Tx, auctionID uuid.UUID, endTime time.Time) error

	// Close transitions an auction to a closed status within a transaction
	Close(ctx context.Context, tx pgx.Tx, auctionID uuid.UUID, status Status) error
}

// ReceiptRepository defines the interface for receipt persistence
type ReceiptRepository interface {
	// Create persists a receipt within a transaction
	Create(ctx context.Context, tx pgx.Tx, receipt *Receipt) error

	// GetByAuctionID retrieves the receipt for an auction
	GetByAuctionID(ctx context.Context, auctionID uuid.UUID) (*Receipt, error)
}

// BidderLister exposes the distinct historical bidders of an auction,
// used to fan out close notifications.
type BidderLister interface {
	DistinctBidders(ctx context.Context, tx pgx.Tx, auctionID uuid.UUID) ([]uuid.UUID, error)
}

// OutboxWriter saves an outbox event within a transaction
type OutboxWriter interface {
	SaveEvent(ctx context.Context, tx pgx.Tx, event *events.OutboxEvent) error
}
