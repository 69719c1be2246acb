package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"live-auction/internal/models"
)

// SnapshotPrefix namespaces cached active auctions
const SnapshotPrefix = "activeAuction:"

// SnapshotKey returns the cache key for an auction
func SnapshotKey(auctionID string) string {
	return SnapshotPrefix + auctionID
}

// Snapshots stores AuctionSnapshot values as JSON in a Store
type Snapshots struct {
	store Store
}

// NewSnapshots stores auction snapshots in store
func NewSnapshots(store Store) *Snapshots {
	return &Snapshots{store: store}
}

// Get returns ErrMiss when no snapshot is cached
func (s *Snapshots) Get(ctx context.Context, auctionID string) (models.AuctionSnapshot, error) {
	raw, err := s.store.Get(ctx, SnapshotKey(auctionID))
	if err != nil {
		return models.AuctionSnapshot{}, err
	}

	var snap models.AuctionSnapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		return models.AuctionSnapshot{}, fmt.Errorf("decode snapshot %s: %w", auctionID, err)
	}
	return snap, nil
}

func (s *Snapshots) Put(ctx context.Context, snap models.AuctionSnapshot, ttl time.Duration) error {
	raw, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("encode snapshot %s: %w", snap.AuctionID, err)
	}
	return s.store.Set(ctx, SnapshotKey(snap.AuctionID), raw, ttl)
}

func (s *Snapshots) Delete(ctx context.Context, auctionID string) error {
	return s.store.Delete(ctx, SnapshotKey(auctionID))
}

// IDs lists the auction IDs that currently have a snapshot
func (s *Snapshots) IDs(ctx context.Context) ([]string, error) {
	keys, err := s.store.Keys(ctx, SnapshotPrefix)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(keys))
	for _, k := range keys {
		ids = append(ids, strings.TrimPrefix(k, SnapshotPrefix))
	}
	return ids, nil
}
