package blocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/WillyisSus/course-final-project-sub000/internal/domain/auctions"
	"github.com/WillyisSus/course-final-project-sub000/internal/domain/autobids"
	"github.com/WillyisSus/course-final-project-sub000/pkg/events"
)

// Repository defines the interface for block persistence
type Repository interface {
	// Insert persists a block within a transaction. A duplicate
	// (auction, user) pair surfaces ErrAlreadyBlocked.
	Insert(ctx context.Context, tx pgx.Tx, block *Block) error

	// Exists reports whether a user is already blocked from an auction
	Exists(ctx context.Context, auctionID, userID uuid.UUID) (bool, error)
}

// AuctionRepository is the slice of auction persistence the enforcer needs
type AuctionRepository interface {
	GetByID(ctx context.Context, auctionID uuid.UUID) (*auctions.Auction, error)
	GetForUpdate(ctx context.Context, tx pgx.Tx, auctionID uuid.UUID) (*auctions.Auction, error)
	UpdateLead(ctx context.Context, tx pgx.Tx, auctionID uuid.UUID, patch auctions.LeadPatch) error
}

// AutoBidRemover cascades the block onto the blocked user's ceiling
type AutoBidRemover interface {
	DeleteForBidder(ctx context.Context, tx pgx.Tx, auctionID, bidderID uuid.UUID) (int64, error)
}

// BidLedger is the slice of the ledger the enforcer needs: cancelling the
// blocked user's rows and finding the best remaining one.
type BidLedger interface {
	CancelForBidder(ctx context.Context, tx pgx.Tx, auctionID, bidderID uuid.UUID) (int64, error)
	HighestValid(ctx context.Context, tx pgx.Tx, auctionID uuid.UUID) (*autobids.Bid, error)
}

// OutboxWriter saves an outbox event within a transaction
type OutboxWriter interface {
	SaveEvent(ctx context.Context, tx pgx.Tx, event *events.OutboxEvent) error
}
