package auctions

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/WillyisSus/course-final-project-sub000/pkg/faults"
)

// Service errors
var (
	ErrInvalidStartPrice = faults.New(faults.KindValidation, "start price must be greater than 0")
	ErrInvalidStep       = faults.New(faults.KindValidation, "step must be greater than 0")
	ErrInvalidEndTime    = faults.New(faults.KindValidation, "end time must be in the future")
	ErrInvalidBuyNow     = faults.New(faults.KindValidation, "buy-now price must be at least the start price")
	ErrAuctionNotFound   = faults.New(faults.KindConflict, "auction not found")
)

// validateNewAuction checks business rules for a new listing
func validateNewAuction(cmd CreateAuctionCommand) error {
	if cmd.StartPrice.LessThanOrEqual(decimal.Zero) {
		return ErrInvalidStartPrice
	}
	if cmd.Step.LessThanOrEqual(decimal.Zero) {
		return ErrInvalidStep
	}
	if !cmd.EndTime.After(time.Now()) {
		return ErrInvalidEndTime
	}
	if cmd.BuyNowPrice.Valid && cmd.BuyNowPrice.Decimal.LessThan(cmd.StartPrice) {
		return ErrInvalidBuyNow
	}
	return nil
}

// Service implements the core business logic for auction records
type Service struct {
	repo Repository
}

// NewService creates a new auction service
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Create creates a new auction listing
func (s *Service) Create(ctx context.Context, cmd CreateAuctionCommand) (*Auction, error) {
	if err := validateNewAuction(cmd); err != nil {
		return nil, err
	}

	auction := &Auction{
		ID:          uuid.New(),
		SellerID:    cmd.SellerID,
		Title:       cmd.Title,
		Description: cmd.Description,
		StartPrice:  cmd.StartPrice,
		Step:        cmd.Step,
		BuyNowPrice: cmd.BuyNowPrice,
		AutoExtend:  cmd.AutoExtend,
		EndTime:     cmd.EndTime,
		Status:      StatusActive,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}

	if err := s.repo.Create(ctx, auction); err != nil {
		return nil, fmt.Errorf("failed to create auction: %w", err)
	}

	return auction, nil
}

// Get retrieves an auction by ID
func (s *Service) Get(ctx context.Context, auctionID uuid.UUID) (*Auction, error) {
	auction, err := s.repo.GetByID(ctx, auctionID)
	if err != nil {
		return nil, ErrAuctionNotFound
	}
	return auction, nil
}
