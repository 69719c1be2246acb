package perftests

import (
	"context"
	"fmt"
	"testing"
	"time"

	"live-auction/internal/auction"
	bidding "live-auction/internal/biddingService"
	"live-auction/internal/broadcast"
	"live-auction/internal/cache"
	"live-auction/internal/models"
	"live-auction/internal/repository"
)

// benchStack is the bidding path wired on in-memory backends
type benchStack struct {
	repo     *repository.MemoryRepo
	resolver *auction.Resolver
	hub      *broadcast.Hub
	svc      *bidding.BiddingService
}

func auctionID(i int) string {
	return fmt.Sprintf("auction_%d", i)
}

func bidder(id string) models.User {
	return models.User{UserID: id, Name: id}
}

// newBenchStack seeds numAuctions running auctions, each with a warm snapshot
func newBenchStack(tb testing.TB, numAuctions int, startingBid float64) *benchStack {
	tb.Helper()
	ctx := context.Background()
	now := time.Now().UTC()

	repo := repository.NewMemoryRepo()
	resolver := auction.NewResolver(repo, cache.NewSnapshots(cache.NewMemoryStore()), auction.WithRepopulate(true))
	hub := broadcast.NewHub()
	svc := bidding.NewBiddingService(repo, resolver, broadcast.NewNotifier(hub))

	for i := 0; i < numAuctions; i++ {
		a := models.Auction{
			AuctionID:         auctionID(i),
			Title:             fmt.Sprintf("Benchmark Auction %d", i),
			OwnerID:           "seller",
			StartTime:         now.Add(-time.Minute),
			EndTime:           now.Add(time.Hour),
			StartingBid:       startingBid,
			CurrentHighestBid: startingBid,
			Status:            models.StatusActive,
			CreatedAt:         now,
		}
		if err := repo.CreateAuction(ctx, a); err != nil {
			tb.Fatalf("failed to seed auction: %v", err)
		}
		if err := resolver.PutSnapshot(ctx, a); err != nil {
			tb.Fatalf("failed to seed snapshot: %v", err)
		}
	}
	return &benchStack{repo: repo, resolver: resolver, hub: hub, svc: svc}
}

// nopChannel accepts every message, like a client that keeps up
type nopChannel struct{ id string }

func (c nopChannel) ID() string { return c.id }
func (c nopChannel) Send(broadcast.Message) error { return nil }
