package autobids

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

// TestNextRung tests the ladder resolution rule between two ceilings
func TestNextRung(t *testing.T) {
	incumbentID := uuid.New()
	challengerID := uuid.New()
	earlier := time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC)
	later := earlier.Add(time.Hour)
	step := decimal.NewFromInt(10)

	tests := []struct {
		name       string
		incumbent  ladderSide
		challenger ladderSide
		wantAmount decimal.Decimal
		wantWinner uuid.UUID
	}{
		{
			name:       "challenger clears the ceiling - lead moves one step above it",
			incumbent:  ladderSide{BidderID: incumbentID, Max: decimal.NewFromInt(200), Since: earlier},
			challenger: ladderSide{BidderID: challengerID, Max: decimal.NewFromInt(300), Since: later},
			wantAmount: decimal.NewFromInt(210),
			wantWinner: challengerID,
		},
		{
			name:       "challenger clears the ceiling by less than a step - capped at own ceiling",
			incumbent:  ladderSide{BidderID: incumbentID, Max: decimal.NewFromInt(200), Since: earlier},
			challenger: ladderSide{BidderID: challengerID, Max: decimal.NewFromInt(205), Since: later},
			wantAmount: decimal.NewFromInt(205),
			wantWinner: challengerID,
		},
		{
			name:       "challenger below the ceiling - incumbent topped up to the challenger's max",
			incumbent:  ladderSide{BidderID: incumbentID, Max: decimal.NewFromInt(200), Since: earlier},
			challenger: ladderSide{BidderID: challengerID, Max: decimal.NewFromInt(150), Since: later},
			wantAmount: decimal.NewFromInt(150),
			wantWinner: incumbentID,
		},
		{
			name:       "equal ceilings - older commitment keeps the lead",
			incumbent:  ladderSide{BidderID: incumbentID, Max: decimal.NewFromInt(200), Since: earlier},
			challenger: ladderSide{BidderID: challengerID, Max: decimal.NewFromInt(200), Since: later},
			wantAmount: decimal.NewFromInt(200),
			wantWinner: incumbentID,
		},
		{
			name:       "equal ceilings but challenger committed first - challenger takes the lead",
			incumbent:  ladderSide{BidderID: incumbentID, Max: decimal.NewFromInt(200), Since: later},
			challenger: ladderSide{BidderID: challengerID, Max: decimal.NewFromInt(200), Since: earlier},
			wantAmount: decimal.NewFromInt(200),
			wantWinner: challengerID,
		},
		{
			name:       "fractional step arithmetic stays exact",
			incumbent:  ladderSide{BidderID: incumbentID, Max: decimal.RequireFromString("99.95"), Since: earlier},
			challenger: ladderSide{BidderID: challengerID, Max: decimal.RequireFromString("120.00"), Since: later},
			wantAmount: decimal.RequireFromString("100.05"),
			wantWinner: challengerID,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := nextRung(tt.incumbent, tt.challenger, step)

			assert.True(t, tt.wantAmount.Equal(got.Amount),
				"amount: want %s, got %s", tt.wantAmount, got.Amount)
			assert.Equal(t, tt.wantWinner, got.WinnerID)
		})
	}
}

// TestNextRung_FractionalStep tests an uneven step against the cap rule
func TestNextRung_FractionalStep(t *testing.T) {
	incumbentID := uuid.New()
	challengerID := uuid.New()
	now := time.Now()

	incumbent := ladderSide{BidderID: incumbentID, Max: decimal.RequireFromString("50.00"), Since: now}
	challenger := ladderSide{BidderID: challengerID, Max: decimal.RequireFromString("50.10"), Since: now.Add(time.Minute)}

	got := nextRung(incumbent, challenger, decimal.RequireFromString("0.25"))

	// One step above 50.00 would be 50.25, past the challenger's ceiling.
	assert.True(t, decimal.RequireFromString("50.10").Equal(got.Amount))
	assert.Equal(t, challengerID, got.WinnerID)
}
