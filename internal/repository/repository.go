package repository

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"live-auction/internal/biddingerrors"
	"live-auction/internal/models"
)

//go:generate mockgen -source=repository.go -destination=mock_repository.go -package=repository

// AuctionFilter narrows FindAuctions and CountAuctions. Zero values mean "no constraint".
type AuctionFilter struct {
	Statuses  []models.AuctionStatus
	StartedBy *time.Time // start_time <= StartedBy
	Search    string     // case-insensitive substring of the title
	Offset    int
	Limit     int
}

// AuctionDB defines the durable storage interface for the auction system.
// UpdateHighestBidIfLower is the only write path for the price and must be
// applied atomically by every implementation.
type AuctionDB interface {
	CreateAuction(ctx context.Context, auction models.Auction) error
	FindAuctionByID(ctx context.Context, auctionID string) (models.Auction, error)
	FindAuctions(ctx context.Context, filter AuctionFilter) ([]models.Auction, error)
	CountAuctions(ctx context.Context, filter AuctionFilter) (int64, error)

	UpdateHighestBidIfLower(ctx context.Context, auctionID string, amount float64) (bool, error)
	UpdateStatus(ctx context.Context, auctionID string, from, to models.AuctionStatus) (bool, error)
	CompleteAuction(ctx context.Context, auctionID string, winning *models.Bid) (bool, error)

	RecordBid(ctx context.Context, bid models.Bid) error
	GetBidsByAuction(ctx context.Context, auctionID string) ([]models.Bid, error)
	GetWinningBid(ctx context.Context, auctionID string) (models.Bid, error)
	GetBidsByUser(ctx context.Context, userID string) ([]models.UserBid, error)

	AddParticipant(ctx context.Context, auctionID, userID string) error
	RemoveParticipant(ctx context.Context, auctionID, userID string) error
}

// MemoryRepo is a concurrency-safe in-memory implementation of AuctionDB
type MemoryRepo struct {
	mu           sync.RWMutex
	auctions     map[string]models.Auction       // key: auctionID -> value: auction without participant lists
	bids         map[string][]models.Bid         // key: auctionID -> value: bids in arrival order
	userAuctions map[string][]string             // key: userID -> value: auctionIDs user has bid on
	everJoined   map[string][]string             // key: auctionID -> value: userIDs in first-join order
	joined       map[string]map[string]struct{} // key: auctionID -> value: currently joined userIDs
}

// NewMemoryRepo creates a new in-memory repository instance
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		auctions:     make(map[string]models.Auction),
		bids:         make(map[string][]models.Bid),
		userAuctions: make(map[string][]string),
		everJoined:   make(map[string][]string),
		joined:       make(map[string]map[string]struct{}),
	}
}

// CreateAuction stores a new auction
func (r *MemoryRepo) CreateAuction(_ context.Context, auction models.Auction) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if auction.AuctionID == "" {
		return fmt.Errorf("create auction: %w - missing auction ID", biddingerrors.ErrInvalidAuction)
	}
	if _, exists := r.auctions[auction.AuctionID]; exists {
		return fmt.Errorf("create auction %s: %w - duplicate auction ID", auction.AuctionID, biddingerrors.ErrInvalidAuction)
	}

	now := time.Now().UTC()
	if auction.CreatedAt.IsZero() {
		auction.CreatedAt = now
	}
	auction.UpdatedAt = now
	auction.Participants, auction.AllParticipants = nil, nil
	r.auctions[auction.AuctionID] = auction
	return nil
}

// FindAuctionByID returns the auction with its participant lists
func (r *MemoryRepo) FindAuctionByID(_ context.Context, auctionID string) (models.Auction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	auction, ok := r.auctions[auctionID]
	if !ok {
		return models.Auction{}, fmt.Errorf("find auction %s: %w", auctionID, biddingerrors.ErrAuctionNotFound)
	}
	return r.withParticipants(auction), nil
}

// FindAuctions returns auctions matching filter, newest first
func (r *MemoryRepo) FindAuctions(_ context.Context, filter AuctionFilter) ([]models.Auction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	matched := r.match(filter)
	sort.Slice(matched, func(i, j int) bool {
		if matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].AuctionID > matched[j].AuctionID
		}
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	if filter.Offset > 0 {
		if filter.Offset >= len(matched) {
			return []models.Auction{}, nil
		}
		matched = matched[filter.Offset:]
	}
	if filter.Limit > 0 && filter.Limit < len(matched) {
		matched = matched[:filter.Limit]
	}

	out := make([]models.Auction, 0, len(matched))
	for _, a := range matched {
		out = append(out, r.withParticipants(a))
	}
	return out, nil
}

// CountAuctions counts auctions matching filter, ignoring offset and limit
func (r *MemoryRepo) CountAuctions(_ context.Context, filter AuctionFilter) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return int64(len(r.match(filter))), nil
}

// UpdateHighestBidIfLower raises the current highest bid only when the auction is
// active and amount is strictly greater. The check and write happen under one lock.
func (r *MemoryRepo) UpdateHighestBidIfLower(_ context.Context, auctionID string, amount float64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	auction, ok := r.auctions[auctionID]
	if !ok {
		return false, fmt.Errorf("update highest bid for auction %s: %w", auctionID, biddingerrors.ErrAuctionNotFound)
	}
	if auction.Status != models.StatusActive || auction.CurrentHighestBid >= amount {
		return false, nil
	}

	auction.CurrentHighestBid = amount
	auction.UpdatedAt = time.Now().UTC()
	r.auctions[auctionID] = auction
	return true, nil
}

// UpdateStatus moves the auction from one status to another if it is still in from
func (r *MemoryRepo) UpdateStatus(_ context.Context, auctionID string, from, to models.AuctionStatus) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	auction, ok := r.auctions[auctionID]
	if !ok {
		return false, fmt.Errorf("update status for auction %s: %w", auctionID, biddingerrors.ErrAuctionNotFound)
	}
	if auction.Status != from {
		return false, nil
	}

	auction.Status = to
	auction.UpdatedAt = time.Now().UTC()
	r.auctions[auctionID] = auction
	return true, nil
}

// CompleteAuction marks an active auction completed and, when winning is set,
// records the winner and flags the winning bid. It does not apply while the
// stored price differs from the winning amount (or the starting bid when there
// is no winner), which happens when a bid committed its price but not yet its
// record.
func (r *MemoryRepo) CompleteAuction(_ context.Context, auctionID string, winning *models.Bid) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	auction, ok := r.auctions[auctionID]
	if !ok {
		return false, fmt.Errorf("complete auction %s: %w", auctionID, biddingerrors.ErrAuctionNotFound)
	}
	if auction.Status != models.StatusActive {
		return false, nil
	}
	if auction.CurrentHighestBid != expectedFinalPrice(auction, winning) {
		return false, nil
	}

	if winning != nil {
		bids := r.bids[auctionID]
		found := false
		for i := range bids {
			if bids[i].BidID == winning.BidID {
				bids[i].Win = true
				found = true
				break
			}
		}
		if !found {
			return false, fmt.Errorf("complete auction %s: winning bid %s: %w", auctionID, winning.BidID, biddingerrors.ErrNoBids)
		}
		winnerID, bidID := winning.UserID, winning.BidID
		auction.WinnerID = &winnerID
		auction.WinningBidID = &bidID
	}

	auction.Status = models.StatusCompleted
	auction.UpdatedAt = time.Now().UTC()
	r.auctions[auctionID] = auction
	return true, nil
}

// expectedFinalPrice is the price an auction must hold to be completed with winning
func expectedFinalPrice(auction models.Auction, winning *models.Bid) float64 {
	if winning == nil {
		return auction.StartingBid
	}
	return winning.Amount
}

// RecordBid records a user's bid on an auction
func (r *MemoryRepo) RecordBid(_ context.Context, bid models.Bid) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.auctions[bid.AuctionID]; !ok {
		return fmt.Errorf("record bid for auction %s: %w", bid.AuctionID, biddingerrors.ErrAuctionNotFound)
	}

	r.bids[bid.AuctionID] = append(r.bids[bid.AuctionID], bid)

	for _, id := range r.userAuctions[bid.UserID] {
		if id == bid.AuctionID {
			return nil
		}
	}
	r.userAuctions[bid.UserID] = append(r.userAuctions[bid.UserID], bid.AuctionID)

	return nil
}

// GetBidsByAuction returns all bids for an auction, highest first
func (r *MemoryRepo) GetBidsByAuction(_ context.Context, auctionID string) ([]models.Bid, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if _, ok := r.auctions[auctionID]; !ok {
		return nil, fmt.Errorf("get bids for auction %s: %w", auctionID, biddingerrors.ErrAuctionNotFound)
	}

	bids := append([]models.Bid{}, r.bids[auctionID]...)
	SortBidsByRank(bids)
	return bids, nil
}

// GetWinningBid returns the highest bid for an auction. Ties go to the earliest bid.
func (r *MemoryRepo) GetWinningBid(_ context.Context, auctionID string) (models.Bid, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	bids, ok := r.bids[auctionID]
	if !ok || len(bids) == 0 {
		return models.Bid{}, fmt.Errorf("get winning bid for auction %s: %w", auctionID, biddingerrors.ErrNoBids)
	}

	winning := bids[0]
	for _, b := range bids[1:] {
		if b.Amount > winning.Amount || (b.Amount == winning.Amount && b.CreatedAt.Before(winning.CreatedAt)) {
			winning = b
		}
	}
	return winning, nil
}

// GetBidsByUser returns every bid the user placed, newest first
func (r *MemoryRepo) GetBidsByUser(_ context.Context, userID string) ([]models.UserBid, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := []models.UserBid{}
	for _, auctionID := range r.userAuctions[userID] {
		title := r.auctions[auctionID].Title
		for _, b := range r.bids[auctionID] {
			if b.UserID == userID {
				out = append(out, models.UserBid{Bid: b, AuctionTitle: title})
			}
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

// AddParticipant marks the user as joined. Joining twice is a no-op.
func (r *MemoryRepo) AddParticipant(_ context.Context, auctionID, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.auctions[auctionID]; !ok {
		return fmt.Errorf("add participant to auction %s: %w", auctionID, biddingerrors.ErrAuctionNotFound)
	}

	if r.joined[auctionID] == nil {
		r.joined[auctionID] = make(map[string]struct{})
	}
	r.joined[auctionID][userID] = struct{}{}

	for _, id := range r.everJoined[auctionID] {
		if id == userID {
			return nil
		}
	}
	r.everJoined[auctionID] = append(r.everJoined[auctionID], userID)
	return nil
}

// RemoveParticipant removes the user from the current participants only
func (r *MemoryRepo) RemoveParticipant(_ context.Context, auctionID, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.auctions[auctionID]; !ok {
		return fmt.Errorf("remove participant from auction %s: %w", auctionID, biddingerrors.ErrAuctionNotFound)
	}
	if _, ok := r.joined[auctionID][userID]; !ok {
		return fmt.Errorf("remove participant %s from auction %s: %w", userID, auctionID, biddingerrors.ErrNotJoined)
	}
	delete(r.joined[auctionID], userID)
	return nil
}

// match must be called with the lock held
func (r *MemoryRepo) match(filter AuctionFilter) []models.Auction {
	search := strings.ToLower(strings.TrimSpace(filter.Search))
	out := make([]models.Auction, 0, len(r.auctions))
	for _, a := range r.auctions {
		if len(filter.Statuses) > 0 && !hasStatus(filter.Statuses, a.Status) {
			continue
		}
		if filter.StartedBy != nil && a.StartTime.After(*filter.StartedBy) {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(a.Title), search) {
			continue
		}
		out = append(out, a)
	}
	return out
}

// withParticipants must be called with the lock held
func (r *MemoryRepo) withParticipants(a models.Auction) models.Auction {
	all := r.everJoined[a.AuctionID]
	a.AllParticipants = append([]string{}, all...)
	a.Participants = make([]string, 0, len(r.joined[a.AuctionID]))
	for _, id := range all {
		if _, ok := r.joined[a.AuctionID][id]; ok {
			a.Participants = append(a.Participants, id)
		}
	}
	return a
}

func hasStatus(statuses []models.AuctionStatus, s models.AuctionStatus) bool {
	for _, st := range statuses {
		if st == s {
			return true
		}
	}
	return false
}

// SortBidsByRank orders bids by amount descending, earliest first on ties
func SortBidsByRank(bids []models.Bid) {
	sort.SliceStable(bids, func(i, j int) bool {
		if bids[i].Amount == bids[j].Amount {
			return bids[i].CreatedAt.Before(bids[j].CreatedAt)
		}
		return bids[i].Amount > bids[j].Amount
	})
}
