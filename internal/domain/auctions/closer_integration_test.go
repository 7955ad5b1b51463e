//go:build integration

package auctions_test

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	adapters "github.com/WillyisSus/course-final-project-sub000/internal/adapters/database"
	"github.com/WillyisSus/course-final-project-sub000/internal/domain/auctions"
	"github.com/WillyisSus/course-final-project-sub000/internal/domain/autobids"
	"github.com/WillyisSus/course-final-project-sub000/internal/testhelpers"
	"github.com/WillyisSus/course-final-project-sub000/pkg/database"
	"github.com/WillyisSus/course-final-project-sub000/pkg/events"
)

type closerFixture struct {
	pool        *pgxpool.Pool
	txManager   *database.PostgresTransactionManager
	auctionRepo *adapters.PostgresAuctionRepository
	receiptRepo *adapters.PostgresReceiptRepository
	outboxRepo  *adapters.PostgresOutboxRepository
	registry    *autobids.Registry
	closer      *auctions.Closer
}

func newCloserFixture(t *testing.T) *closerFixture {
	t.Helper()
	testDB := testhelpers.NewTestDatabase(t, "../../../migrations")
	t.Cleanup(testDB.Close)

	pool := testDB.Pool
	txManager := database.NewPostgresTransactionManager(pool, 5*time.Second)
	auctionRepo := adapters.NewPostgresAuctionRepository(pool)
	autoBidRepo := adapters.NewPostgresAutoBidRepository(pool)
	bidRepo := adapters.NewPostgresBidRepository(pool)
	receiptRepo := adapters.NewPostgresReceiptRepository(pool)
	outboxRepo := adapters.NewPostgresOutboxRepository(pool)
	blockRepo := adapters.NewPostgresBlockRepository(pool)

	engine := autobids.NewEngine(txManager, auctionRepo, autoBidRepo, bidRepo, receiptRepo, blockRepo, outboxRepo)
	return &closerFixture{
		pool:        pool,
		txManager:   txManager,
		auctionRepo: auctionRepo,
		receiptRepo: receiptRepo,
		outboxRepo:  outboxRepo,
		registry:    autobids.NewRegistry(auctionRepo, autoBidRepo, blockRepo, engine),
		closer: auctions.NewCloser(
			auctionRepo, receiptRepo, bidRepo, outboxRepo,
			txManager, 50, time.Second, slog.Default(),
		),
	}
}

func (f *closerFixture) seedAuction(t *testing.T, endTime time.Time) *auctions.Auction {
	t.Helper()
	auction := &auctions.Auction{
		ID:         uuid.New(),
		SellerID:   uuid.New(),
		Title:      "Walnut Writing Desk",
		StartPrice: decimal.NewFromInt(100),
		Step:       decimal.NewFromInt(10),
		EndTime:    endTime,
		Status:     auctions.StatusActive,
		CreatedAt:  time.Now(),
		UpdatedAt:  time.Now(),
	}
	require.NoError(t, f.auctionRepo.Create(context.Background(), auction))
	return auction
}

// expireAuction rewinds an auction's end time so the sweep picks it up.
// Bids are placed while the auction is still open, then the clock moves.
func (f *closerFixture) expireAuction(t *testing.T, auctionID uuid.UUID) {
	t.Helper()
	_, err := f.pool.Exec(context.Background(),
		"UPDATE auctions SET end_time = NOW() - INTERVAL '1 minute' WHERE id = $1", auctionID)
	require.NoError(t, err)
}

func (f *closerFixture) pendingEvents(t *testing.T) []*events.OutboxEvent {
	t.Helper()
	ctx := context.Background()
	tx, err := f.txManager.BeginTx(ctx)
	require.NoError(t, err)
	defer tx.Rollback(ctx)

	pending, err := f.outboxRepo.GetPendingEvents(ctx, tx, 100)
	require.NoError(t, err)
	return pending
}

// TestCloser_ClosesWonAuction covers the full closing path: status flip,
// receipt at the final price, a won event for the buyer, and a closed
// event per distinct bidder.
func TestCloser_ClosesWonAuction(t *testing.T) {
	f := newCloserFixture(t)
	ctx := context.Background()
	auction := f.seedAuction(t, time.Now().Add(time.Hour))
	bidderX := uuid.New()
	bidderY := uuid.New()

	_, err := f.registry.Create(ctx, autobids.CreateAutoBidCommand{
		AuctionID: auction.ID, BidderID: bidderX, MaxPrice: decimal.NewFromInt(200),
	})
	require.NoError(t, err)
	_, err = f.registry.Create(ctx, autobids.CreateAutoBidCommand{
		AuctionID: auction.ID, BidderID: bidderY, MaxPrice: decimal.NewFromInt(150),
	})
	require.NoError(t, err)

	f.expireAuction(t, auction.ID)
	require.NoError(t, f.closer.SweepOnce(ctx))

	closed, err := f.auctionRepo.GetByID(ctx, auction.ID)
	require.NoError(t, err)
	assert.Equal(t, auctions.StatusClosedWon, closed.Status)

	receipt, err := f.receiptRepo.GetByAuctionID(ctx, auction.ID)
	require.NoError(t, err)
	assert.Equal(t, bidderX, receipt.BuyerID)
	assert.Equal(t, auction.SellerID, receipt.SellerID)
	assert.True(t, decimal.NewFromInt(150).Equal(receipt.Amount),
		"receipt is cut at the final price, got %s", receipt.Amount)

	var wonEvents, closedEvents int
	for _, event := range f.pendingEvents(t) {
		switch event.EventType {
		case auctions.EventTypeAuctionWon:
			wonEvents++
		case auctions.EventTypeAuctionClosed:
			closedEvents++
		}
	}
	assert.Equal(t, 1, wonEvents)
	assert.Equal(t, 2, closedEvents, "one closed event per distinct bidder")
}

// TestCloser_ClosesNoSaleAuction covers expiry without a single bid.
func TestCloser_ClosesNoSaleAuction(t *testing.T) {
	f := newCloserFixture(t)
	ctx := context.Background()
	auction := f.seedAuction(t, time.Now().Add(time.Hour))
	f.expireAuction(t, auction.ID)

	require.NoError(t, f.closer.SweepOnce(ctx))

	closed, err := f.auctionRepo.GetByID(ctx, auction.ID)
	require.NoError(t, err)
	assert.Equal(t, auctions.StatusClosedNoSale, closed.Status)

	_, err = f.receiptRepo.GetByAuctionID(ctx, auction.ID)
	assert.Error(t, err, "no receipt without a winner")
}

// TestCloser_SweepIsIdempotent covers overlapping sweeps: a second pass
// over an already-closed auction changes nothing and cuts no second receipt.
func TestCloser_SweepIsIdempotent(t *testing.T) {
	f := newCloserFixture(t)
	ctx := context.Background()
	auction := f.seedAuction(t, time.Now().Add(time.Hour))
	bidderX := uuid.New()

	_, err := f.registry.Create(ctx, autobids.CreateAutoBidCommand{
		AuctionID: auction.ID, BidderID: bidderX, MaxPrice: decimal.NewFromInt(200),
	})
	require.NoError(t, err)

	f.expireAuction(t, auction.ID)
	require.NoError(t, f.closer.SweepOnce(ctx))
	require.NoError(t, f.closer.SweepOnce(ctx))

	var receipts int
	err = f.pool.QueryRow(ctx,
		"SELECT COUNT(*) FROM receipts WHERE auction_id = $1", auction.ID,
	).Scan(&receipts)
	require.NoError(t, err)
	assert.Equal(t, 1, receipts)
}

// TestCloser_LeavesOpenAuctionsAlone covers the due filter.
func TestCloser_LeavesOpenAuctionsAlone(t *testing.T) {
	f := newCloserFixture(t)
	ctx := context.Background()
	auction := f.seedAuction(t, time.Now().Add(time.Hour))

	require.NoError(t, f.closer.SweepOnce(ctx))

	open, err := f.auctionRepo.GetByID(ctx, auction.ID)
	require.NoError(t, err)
	assert.Equal(t, auctions.StatusActive, open.Status)
}
