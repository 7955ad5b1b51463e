package blocks

import (
	"time"

	"github.com/google/uuid"
)

// Block bars a user from one auction. Its presence excludes the user from
// every future recomputation of that auction's ladder.
type Block struct {
	ID            uuid.UUID `db:"id"`
	AuctionID     uuid.UUID `db:"auction_id"`
	BlockedUserID uuid.UUID `db:"blocked_user_id"`
	Reason        string    `db:"reason"`
	BlockedAt     time.Time `db:"blocked_at"`
}

// BlockCommand represents the command to block a bidder from an auction
type BlockCommand struct {
	AuctionID     uuid.UUID
	BlockedUserID uuid.UUID
	RequestedBy   uuid.UUID
	Reason        string
}

// EventTypeBidderBlocked identifies a block notification
const EventTypeBidderBlocked = "bidder.blocked"

// BidderBlockedEvent announces a block and the re-derived lead, if any.
type BidderBlockedEvent struct {
	AuctionID     string    `json:"auction_id"`
	BlockedUserID string    `json:"blocked_user_id"`
	Reason        string    `json:"reason,omitempty"`
	NewWinnerID   string    `json:"new_winner_id,omitempty"`
	NewPrice      string    `json:"new_price,omitempty"`
	BlockedAt     time.Time `json:"blocked_at"`
}
