package autobids

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ladderSide is one party in a ladder resolution: who they are, the
// ceiling they committed to, and when they committed it.
type ladderSide struct {
	BidderID uuid.UUID
	Max      decimal.Decimal
	Since    time.Time
}

// ladderOutcome is the result of one resolution. The ledger entry is
// always written for the acting bidder at Amount; the lead can land on
// either side.
type ladderOutcome struct {
	Amount   decimal.Decimal
	WinnerID uuid.UUID
}

// nextRung computes the next rung of the ladder when a challenger's
// ceiling meets the incumbent leader's. All comparison is exact decimal
// arithmetic.
//
// A challenger clearing the incumbent's ceiling takes the lead one step
// above it, capped at their own ceiling. Otherwise the price rises to the
// lower of the two ceilings and the lead goes to whichever side committed
// its ceiling first: the classic "top up the incumbent, don't replace
// them" proxy rule. The challenger's bid is recorded either way.
func nextRung(incumbent, challenger ladderSide, step decimal.Decimal) ladderOutcome {
	if challenger.Max.GreaterThan(incumbent.Max) {
		return ladderOutcome{
			Amount:   decimal.Min(incumbent.Max.Add(step), challenger.Max),
			WinnerID: challenger.BidderID,
		}
	}

	winner := incumbent
	if challenger.Since.Before(incumbent.Since) {
		winner = challenger
	}
	return ladderOutcome{
		Amount:   decimal.Min(incumbent.Max, challenger.Max),
		WinnerID: winner.BidderID,
	}
}
