package auction

import (
	"context"
	"errors"
	"fmt"
	"time"

	"live-auction/internal/cache"
	"live-auction/internal/models"
	"live-auction/internal/repository"
	"live-auction/utils"
)

// DefaultSnapshotGrace keeps a snapshot alive past the auction end so the
// resolve sweep still finds it
const DefaultSnapshotGrace = 5 * time.Minute

// Resolver reads auctions from the snapshot cache first and falls back to the
// repository. Cache failures never fail a read.
type Resolver struct {
	repo       repository.AuctionDB
	snapshots  *cache.Snapshots
	repopulate bool
	grace      time.Duration
	now        func() time.Time
}

// ResolverOption configures a Resolver
type ResolverOption func(*Resolver)

// WithRepopulate writes a snapshot back after a cache miss on an active auction
func WithRepopulate(enabled bool) ResolverOption {
	return func(r *Resolver) { r.repopulate = enabled }
}

// WithSnapshotGrace overrides DefaultSnapshotGrace
func WithSnapshotGrace(grace time.Duration) ResolverOption {
	return func(r *Resolver) { r.grace = grace }
}

// WithResolverClock overrides the wall clock
func WithResolverClock(now func() time.Time) ResolverOption {
	return func(r *Resolver) { r.now = now }
}

// NewResolver creates a Resolver reading snapshots before the repository
func NewResolver(repo repository.AuctionDB, snapshots *cache.Snapshots, opts ...ResolverOption) *Resolver {
	r := &Resolver{
		repo:      repo,
		snapshots: snapshots,
		grace:     DefaultSnapshotGrace,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// ResolveAuction returns the auction without its bids
func (r *Resolver) ResolveAuction(ctx context.Context, auctionID string) (models.AuctionView, error) {
	snap, err := r.snapshots.Get(ctx, auctionID)
	if err == nil {
		return snap.View(), nil
	}
	if !errors.Is(err, cache.ErrMiss) {
		utils.Warn("resolver: cache read failed, falling back to repository", map[string]any{
			"auction_id": auctionID,
			"error":      err.Error(),
		})
	}

	auction, err := r.repo.FindAuctionByID(ctx, auctionID)
	if err != nil {
		return models.AuctionView{}, fmt.Errorf("resolve auction %s: %w", auctionID, err)
	}
	if r.repopulate && auction.Status == models.StatusActive {
		r.store(ctx, auction)
	}
	return auction.View(), nil
}

// ResolveAuctionView returns the auction together with its bids, highest first
func (r *Resolver) ResolveAuctionView(ctx context.Context, auctionID string) (models.AuctionView, error) {
	view, err := r.ResolveAuction(ctx, auctionID)
	if err != nil {
		return models.AuctionView{}, err
	}

	bids, err := r.repo.GetBidsByAuction(ctx, auctionID)
	if err != nil {
		return models.AuctionView{}, fmt.Errorf("resolve bids for auction %s: %w", auctionID, err)
	}
	view.Bids = bids
	return view, nil
}

// RefreshByID reloads the durable record and rewrites its snapshot while the
// auction is active. A failed cache write is logged, not returned.
func (r *Resolver) RefreshByID(ctx context.Context, auctionID string) (models.Auction, error) {
	auction, err := r.repo.FindAuctionByID(ctx, auctionID)
	if err != nil {
		return models.Auction{}, fmt.Errorf("refresh auction %s: %w", auctionID, err)
	}
	if auction.Status == models.StatusActive {
		r.store(ctx, auction)
	}
	return auction, nil
}

// SnapshotTTL is the remaining auction window plus the grace period
func (r *Resolver) SnapshotTTL(endTime time.Time) time.Duration {
	remaining := endTime.Sub(r.now())
	if remaining < 0 {
		remaining = 0
	}
	return remaining + r.grace
}

// PutSnapshot writes the cached projection of auction
func (r *Resolver) PutSnapshot(ctx context.Context, auction models.Auction) error {
	snap := auction.Snapshot(r.now().UTC())
	if err := r.snapshots.Put(ctx, snap, r.SnapshotTTL(auction.EndTime)); err != nil {
		return fmt.Errorf("put snapshot %s: %w", auction.AuctionID, err)
	}
	return nil
}

func (r *Resolver) store(ctx context.Context, auction models.Auction) {
	if err := r.PutSnapshot(ctx, auction); err != nil {
		utils.Warn("resolver: failed to write snapshot", map[string]any{
			"auction_id": auction.AuctionID,
			"error":      err.Error(),
		})
	}
}
