package bidding

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"live-auction/internal/biddingerrors"
	"live-auction/internal/metrics"
	"live-auction/internal/models"
	"live-auction/internal/repository"
	"live-auction/utils"
)

//go:generate mockgen -source=bidding_service.go -destination=mocks_test.go -package=bidding

// AuctionResolver reads auctions through the cache
type AuctionResolver interface {
	ResolveAuction(ctx context.Context, auctionID string) (models.AuctionView, error)
	RefreshByID(ctx context.Context, auctionID string) (models.Auction, error)
}

// Notifier pushes bid outcomes to connected clients
type Notifier interface {
	BidPlaced(bid models.Bid)
	UserNotification(userID, message string)
}

// BiddingService defines the business logic for auction bidding
type BiddingService struct {
	repo     repository.AuctionDB
	resolver AuctionResolver
	notifier Notifier
	now      func() time.Time
}

// Option configures a BiddingService
type Option func(*BiddingService)

// WithClock overrides the wall clock
func WithClock(now func() time.Time) Option {
	return func(s *BiddingService) { s.now = now }
}

// NewBiddingService creates a new BiddingService instance
func NewBiddingService(repo repository.AuctionDB, resolver AuctionResolver, notifier Notifier, opts ...Option) *BiddingService {
	s := &BiddingService{
		repo:     repo,
		resolver: resolver,
		notifier: notifier,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// PlaceBid validates and records a bid. Rejections are also pushed privately to
// the bidder with a human-readable reason. A rejected bid is never retried.
func (s *BiddingService) PlaceBid(ctx context.Context, auctionID string, bidder models.User, amount float64) (models.Bid, error) {
	bid, err := s.placeBid(ctx, auctionID, bidder, amount)
	if err != nil {
		metrics.BidsTotal.WithLabelValues(biddingerrors.KindOf(err).String()).Inc()
		if bidder.UserID != "" {
			s.notifier.UserNotification(bidder.UserID, biddingerrors.UserMessage(err))
		}
		return models.Bid{}, err
	}

	metrics.BidsTotal.WithLabelValues("accepted").Inc()
	return bid, nil
}

func (s *BiddingService) placeBid(ctx context.Context, auctionID string, bidder models.User, amount float64) (models.Bid, error) {
	if err := validateBid(auctionID, bidder, amount); err != nil {
		return models.Bid{}, err
	}

	auction, err := s.resolver.ResolveAuction(ctx, auctionID)
	if err != nil {
		return models.Bid{}, fmt.Errorf("service: failed to resolve auction %s: %w", auctionID, err)
	}
	if err := checkBiddable(auction, amount, s.now()); err != nil {
		return models.Bid{}, err
	}

	applied, err := s.repo.UpdateHighestBidIfLower(ctx, auctionID, amount)
	if err != nil {
		return models.Bid{}, fmt.Errorf("service: failed to update highest bid for auction %s: %w", auctionID, err)
	}
	if !applied {
		return models.Bid{}, s.explainRejection(ctx, auctionID, amount)
	}

	bid := models.Bid{
		BidID:      utils.GenerateID(),
		AuctionID:  auctionID,
		UserID:     bidder.UserID,
		BidderName: bidder.Name,
		Amount:     amount,
		CreatedAt:  s.now().UTC(),
	}
	if err := s.repo.RecordBid(ctx, bid); err != nil {
		utils.Error("service: price updated but bid not recorded", map[string]any{
			"auction_id": auctionID,
			"user_id":    bidder.UserID,
			"amount":     amount,
			"error":      err.Error(),
		})
		return models.Bid{}, fmt.Errorf("service: failed to record bid for auction %s by user %s: %w", auctionID, bidder.UserID, err)
	}

	s.notifier.BidPlaced(bid)
	if _, err := s.resolver.RefreshByID(ctx, auctionID); err != nil {
		utils.Warn("service: failed to refresh auction after bid", map[string]any{"auction_id": auctionID, "error": err.Error()})
	}
	return bid, nil
}

// explainRejection re-reads the durable record after a conditional write did not
// apply, so the bidder learns whether the auction closed or was outbid
func (s *BiddingService) explainRejection(ctx context.Context, auctionID string, amount float64) error {
	fresh, err := s.repo.FindAuctionByID(ctx, auctionID)
	if err != nil {
		return fmt.Errorf("service: failed to re-read auction %s: %w", auctionID, err)
	}
	if fresh.Status != models.StatusActive {
		return fmt.Errorf("service: %w - auction is %s", biddingerrors.ErrAuctionNotActive, fresh.Status)
	}
	return fmt.Errorf("service: %w - %.2f does not beat current highest bid %.2f", biddingerrors.ErrBidTooLow, amount, fresh.CurrentHighestBid)
}

// validateBid checks input validity
func validateBid(auctionID string, bidder models.User, amount float64) error {
	if bidder.UserID == "" {
		return fmt.Errorf("service: %w - missing bidder", biddingerrors.ErrUnauthenticated)
	}
	if auctionID == "" {
		return fmt.Errorf("service: %w - missing auctionID", biddingerrors.ErrInvalidBid)
	}
	if amount <= 0 || math.IsNaN(amount) || math.IsInf(amount, 0) {
		return fmt.Errorf("service: %w - bid amount must be a positive number", biddingerrors.ErrInvalidBid)
	}
	return nil
}

// checkBiddable applies the business rules in the order bidders see them
func checkBiddable(auction models.AuctionView, amount float64, now time.Time) error {
	switch {
	case now.Before(auction.StartTime):
		return fmt.Errorf("service: %w", biddingerrors.ErrAuctionNotStarted)
	case now.After(auction.EndTime):
		return fmt.Errorf("service: %w", biddingerrors.ErrAuctionEnded)
	case auction.Status != models.StatusActive:
		return fmt.Errorf("service: %w", biddingerrors.ErrAuctionNotActive)
	case amount <= auction.CurrentHighestBid:
		return fmt.Errorf("service: %w - current highest bid is %.2f", biddingerrors.ErrBidTooLow, auction.CurrentHighestBid)
	}
	return nil
}

// GetBidsForAuction returns all bids for an auction, highest first
func (s *BiddingService) GetBidsForAuction(ctx context.Context, auctionID string) ([]models.Bid, error) {
	if auctionID == "" {
		return nil, fmt.Errorf("service: %w - empty auction ID", biddingerrors.ErrInvalidBid)
	}

	bids, err := s.repo.GetBidsByAuction(ctx, auctionID)
	if err != nil {
		return nil, fmt.Errorf("service: failed to get bids for auction %s: %w", auctionID, err)
	}
	return bids, nil
}

// GetWinningBid returns the highest bid for an auction
func (s *BiddingService) GetWinningBid(ctx context.Context, auctionID string) (models.Bid, error) {
	if auctionID == "" {
		return models.Bid{}, fmt.Errorf("service: %w - empty auction ID", biddingerrors.ErrInvalidBid)
	}

	winningBid, err := s.repo.GetWinningBid(ctx, auctionID)
	if err != nil {
		return models.Bid{}, fmt.Errorf("service: failed to get winning bid for auction %s: %w", auctionID, err)
	}
	return winningBid, nil
}

// GetBidsByUser returns every bid a user placed, with the auction titles
func (s *BiddingService) GetBidsByUser(ctx context.Context, userID string) ([]models.UserBid, error) {
	if userID == "" {
		return nil, fmt.Errorf("service: %w - empty user ID", biddingerrors.ErrUnauthenticated)
	}

	bids, err := s.repo.GetBidsByUser(ctx, userID)
	if err != nil && !errors.Is(err, biddingerrors.ErrNoBids) {
		return nil, fmt.Errorf("service: failed to get bids for user %s: %w", userID, err)
	}
	if bids == nil {
		bids = []models.UserBid{}
	}
	return bids, nil
}
