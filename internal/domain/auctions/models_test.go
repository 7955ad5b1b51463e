package auctions

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

// TestStatus_IsValid tests the IsValid method of Status
func TestStatus_IsValid(t *testing.T) {
	tests := []struct {
		name   string
		status Status
		want   bool
	}{
		{
			name:   "valid status - active",
			status: StatusActive,
			want:   true,
		},
		{
			name:   "valid status - closed_won",
			status: StatusClosedWon,
			want:   true,
		},
		{
			name:   "valid status - closed_no_sale",
			status: StatusClosedNoSale,
			want:   true,
		},
		{
			name:   "invalid status - unknown",
			status: Status("draft"),
			want:   false,
		},
		{
			name:   "invalid status - empty string",
			status: Status(""),
			want:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.status.IsValid())
		})
	}
}

// TestStatus_Closed tests the Closed method of Status
func TestStatus_Closed(t *testing.T) {
	assert.False(t, StatusActive.Closed())
	assert.True(t, StatusClosedWon.Closed())
	assert.True(t, StatusClosedNoSale.Closed())
}

// TestLeadPatch tests the lead patch constructors
func TestLeadPatch(t *testing.T) {
	t.Run("NewLead sets both columns", func(t *testing.T) {
		bidderID := uuid.New()
		amount := decimal.NewFromInt(150)

		patch := NewLead(bidderID, amount)

		assert.True(t, patch.CurrentPrice.Valid)
		assert.True(t, amount.Equal(patch.CurrentPrice.Decimal))
		assert.True(t, patch.WinnerID.Valid)
		assert.Equal(t, bidderID, patch.WinnerID.UUID)
	})

	t.Run("ClearLead clears both columns", func(t *testing.T) {
		patch := ClearLead()

		assert.False(t, patch.CurrentPrice.Valid)
		assert.False(t, patch.WinnerID.Valid)
	})
}

// TestNewReceipt tests receipt materialization from a closing auction
func TestNewReceipt(t *testing.T) {
	winnerID := uuid.New()
	auction := &Auction{
		ID:           uuid.New(),
		SellerID:     uuid.New(),
		CurrentPrice: decimal.NullDecimal{Decimal: decimal.NewFromInt(210), Valid: true},
		WinnerID:     uuid.NullUUID{UUID: winnerID, Valid: true},
	}

	receipt := NewReceipt(auction)

	assert.Equal(t, auction.ID, receipt.AuctionID)
	assert.Equal(t, winnerID, receipt.BuyerID)
	assert.Equal(t, auction.SellerID, receipt.SellerID)
	assert.True(t, decimal.NewFromInt(210).Equal(receipt.Amount))
	assert.False(t, receipt.BuyerConfirmed)
	assert.False(t, receipt.SellerConfirmed)
	assert.False(t, receipt.Paid)
}
