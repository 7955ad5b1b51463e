package autobids

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AutoBid is a bidder's privately held ceiling for one auction. At most
// one exists per (auction, bidder). CreatedAt is the first-to-commit
// tie-break key and never changes on update.
type AutoBid struct {
	ID        uuid.UUID       `db:"id"`
	AuctionID uuid.UUID       `db:"auction_id"`
	BidderID  uuid.UUID       `db:"bidder_id"`
	MaxPrice  decimal.Decimal `db:"max_price"`
	CreatedAt time.Time       `db:"created_at"`
	UpdatedAt time.Time       `db:"updated_at"`
}

// BidStatus represents the administrative state of a ledger entry
type BidStatus string

const (
	BidStatusValid     BidStatus = "valid"
	BidStatusRejected  BidStatus = "rejected"
	BidStatusCancelled BidStatus = "cancelled"
)

// String returns the string representation of the status
func (s BidStatus) String() string {
	return string(s)
}

// IsValid checks if the status is a known value
func (s BidStatus) IsValid() bool {
	switch s {
	case BidStatusValid, BidStatusRejected, BidStatusCancelled:
		return true
	default:
		return false
	}
}

// Bid is an append-only ledger entry. Rows are only ever written by the
// resolution engine or the manual bid path, and only their status may
// change afterwards.
type Bid struct {
	ID        uuid.UUID       `db:"id"`
	AuctionID uuid.UUID       `db:"auction_id"`
	BidderID  uuid.UUID       `db:"bidder_id"`
	Amount    decimal.Decimal `db:"amount"`
	Status    BidStatus       `db:"status"`
	CreatedAt time.Time       `db:"created_at"`
}

// CreateAutoBidCommand represents the command to declare a ceiling
type CreateAutoBidCommand struct {
	AuctionID uuid.UUID
	BidderID  uuid.UUID
	MaxPrice  decimal.Decimal
}

// UpdateAutoBidCommand represents the command to raise or lower a ceiling
type UpdateAutoBidCommand struct {
	AutoBidID uuid.UUID
	BidderID  uuid.UUID
	MaxPrice  decimal.Decimal
}

// DeleteAutoBidCommand represents the command to withdraw a ceiling
type DeleteAutoBidCommand struct {
	AutoBidID uuid.UUID
	BidderID  uuid.UUID
}

// PlaceBidCommand represents the command to place a direct bid
type PlaceBidCommand struct {
	AuctionID uuid.UUID
	BidderID  uuid.UUID
	Amount    decimal.Decimal
}

// EventTypeBidPlaced identifies a new leading bid notification
const EventTypeBidPlaced = "bid.placed"

// BidPlacedEvent announces a new rung on the ladder. LeaderID may differ
// from BidderID when an incumbent ceiling absorbed the challenge.
type BidPlacedEvent struct {
	AuctionID string    `json:"auction_id"`
	BidID     string    `json:"bid_id"`
	BidderID  string    `json:"bidder_id"`
	LeaderID  string    `json:"leader_id"`
	Amount    string    `json:"amount"`
	PlacedAt  time.Time `json:"placed_at"`
}
