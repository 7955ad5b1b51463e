package autobids

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/WillyisSus/course-final-project-sub000/internal/domain/auctions"
)

func activeAuction(startPrice, step string) *auctions.Auction {
	return &auctions.Auction{
		ID:         uuid.New(),
		SellerID:   uuid.New(),
		StartPrice: decimal.RequireFromString(startPrice),
		Step:       decimal.RequireFromString(step),
		Status:     auctions.StatusActive,
	}
}

// TestPriceFloor tests the minimum acceptable amount calculation
func TestPriceFloor(t *testing.T) {
	tests := []struct {
		name         string
		currentPrice string
		want         string
	}{
		{
			name:         "no bids yet - floor is the start price",
			currentPrice: "",
			want:         "100",
		},
		{
			name:         "ladder open - floor is one step above the current price",
			currentPrice: "150",
			want:         "160",
		},
		{
			name:         "fractional prices stay exact",
			currentPrice: "99.95",
			want:         "109.95",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			auction := activeAuction("100", "10")
			if tt.currentPrice != "" {
				auction.CurrentPrice = decimal.NullDecimal{
					Decimal: decimal.RequireFromString(tt.currentPrice),
					Valid:   true,
				}
			}

			got := priceFloor(auction)

			assert.True(t, decimal.RequireFromString(tt.want).Equal(got),
				"want %s, got %s", tt.want, got)
		})
	}
}

// TestValidateMaxPrice tests the ceiling validation logic
func TestValidateMaxPrice(t *testing.T) {
	tests := []struct {
		name         string
		maxPrice     string
		currentPrice string
		wantErr      error
	}{
		{
			name:     "valid - ceiling at the start price on an empty ladder",
			maxPrice: "100",
			wantErr:  nil,
		},
		{
			name:     "valid - ceiling above the start price on an empty ladder",
			maxPrice: "500",
			wantErr:  nil,
		},
		{
			name:     "invalid - ceiling below the start price on an empty ladder",
			maxPrice: "99.99",
			wantErr:  ErrMaxPriceTooLow,
		},
		{
			name:         "valid - ceiling exactly one step above the current price",
			maxPrice:     "160",
			currentPrice: "150",
			wantErr:      nil,
		},
		{
			name:         "invalid - ceiling equal to the current price",
			maxPrice:     "150",
			currentPrice: "150",
			wantErr:      ErrMaxPriceTooLow,
		},
		{
			name:         "invalid - ceiling inside the step window",
			maxPrice:     "159.99",
			currentPrice: "150",
			wantErr:      ErrMaxPriceTooLow,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			auction := activeAuction("100", "10")
			if tt.currentPrice != "" {
				auction.CurrentPrice = decimal.NullDecimal{
					Decimal: decimal.RequireFromString(tt.currentPrice),
					Valid:   true,
				}
			}

			err := validateMaxPrice(decimal.RequireFromString(tt.maxPrice), auction)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
