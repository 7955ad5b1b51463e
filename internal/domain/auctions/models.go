package auctions

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Status represents the lifecycle state of an auction
type Status string

const (
	StatusActive       Status = "active"
	StatusClosedWon    Status = "closed_won"
	StatusClosedNoSale Status = "closed_no_sale"
)

// String returns the string representation of the status
func (s Status) String() string {
	return string(s)
}

// IsValid checks if the status is a known value
func (s Status) IsValid() bool {
	switch s {
	case StatusActive, StatusClosedWon, StatusClosedNoSale:
		return true
	default:
		return false
	}
}

// Closed reports whether the auction has been finalized.
func (s Status) Closed() bool {
	return s == StatusClosedWon || s == StatusClosedNoSale
}

// Auction represents a single ascending-price listing. CurrentPrice and
// WinnerID stay NULL until the first valid bid lands.
type Auction struct {
	ID           uuid.UUID           `db:"id"`
	SellerID     uuid.UUID           `db:"seller_id"`
	Title        string              `db:"title"`
	Description  string              `db:"description"`
	StartPrice   decimal.Decimal     `db:"start_price"`
	Step         decimal.Decimal     `db:"step"`
	BuyNowPrice  decimal.NullDecimal `db:"buy_now_price"`
	CurrentPrice decimal.NullDecimal `db:"current_price"`
	WinnerID     uuid.NullUUID       `db:"winner_id"`
	AutoExtend   bool                `db:"auto_extend"`
	EndTime      time.Time           `db:"end_time"`
	Status       Status              `db:"status"`
	CreatedAt    time.Time           `db:"created_at"`
	UpdatedAt    time.Time           `db:"updated_at"`
}

// LeadPatch is the explicit shape of a price/winner mutation. An invalid
// NullDecimal/NullUUID clears the column.
type LeadPatch struct {
	CurrentPrice decimal.NullDecimal
	WinnerID     uuid.NullUUID
}

// NewLead builds a patch assigning the lead to a bidder at an amount.
func NewLead(bidderID uuid.UUID, amount decimal.Decimal) LeadPatch {
	return LeadPatch{
		CurrentPrice: decimal.NullDecimal{Decimal: amount, Valid: true},
		WinnerID:     uuid.NullUUID{UUID: bidderID, Valid: true},
	}
}

// ClearLead builds a patch removing price and winner entirely.
func ClearLead() LeadPatch {
	return LeadPatch{}
}

// Receipt is the sale record materialized when an auction closes with a
// winner. All confirmation flags start false.
type Receipt struct {
	ID              uuid.UUID       `db:"id"`
	AuctionID       uuid.UUID       `db:"auction_id"`
	BuyerID         uuid.UUID       `db:"buyer_id"`
	SellerID        uuid.UUID       `db:"seller_id"`
	Amount          decimal.Decimal `db:"amount"`
	BuyerConfirmed  bool            `db:"buyer_confirmed"`
	SellerConfirmed bool            `db:"seller_confirmed"`
	Paid            bool            `db:"paid"`
	CreatedAt       time.Time       `db:"created_at"`
}

// NewReceipt builds the receipt for an auction's winning bid.
func NewReceipt(a *Auction) *Receipt {
	return &Receipt{
		ID:        uuid.New(),
		AuctionID: a.ID,
		BuyerID:   a.WinnerID.UUID,
		SellerID:  a.SellerID,
		Amount:    a.CurrentPrice.Decimal,
		CreatedAt: time.Now(),
	}
}

// CreateAuctionCommand represents the command to create a new listing
type CreateAuctionCommand struct {
	SellerID    uuid.UUID
	Title       string
	Description string
	StartPrice  decimal.Decimal
	Step        decimal.Decimal
	BuyNowPrice decimal.NullDecimal
	AutoExtend  bool
	EndTime     time.Time
}

// Event types emitted through the outbox
const (
	EventTypeAuctionClosed = "auction.closed"
	EventTypeAuctionWon    = "auction.won"
)

// AuctionClosedEvent notifies a historical bidder that an auction ended.
type AuctionClosedEvent struct {
	AuctionID   string    `json:"auction_id"`
	RecipientID string    `json:"recipient_id,omitempty"`
	Status      string    `json:"status"`
	WinnerID    string    `json:"winner_id,omitempty"`
	Amount      string    `json:"amount,omitempty"`
	ClosedAt    time.Time `json:"closed_at"`
}

// AuctionWonEvent notifies the winner that the sale went through.
type AuctionWonEvent struct {
	AuctionID string    `json:"auction_id"`
	BuyerID   string    `json:"buyer_id"`
	ReceiptID string    `json:"receipt_id"`
	Amount    string    `json:"amount"`
	ClosedAt  time.Time `json:"closed_at"`
}
