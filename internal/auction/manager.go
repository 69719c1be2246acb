package auction

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"live-auction/internal/biddingerrors"
	"live-auction/internal/cache"
	"live-auction/internal/models"
	"live-auction/internal/repository"
	"live-auction/utils"
)

const (
	defaultPage  = 1
	defaultLimit = 10
	maxLimit     = 100
)

// Announcer delivers lifecycle events to connected clients
type Announcer interface {
	RoomNotification(auctionID, message string)
	AuctionEnded(result models.AuctionResult)
}

// Manager owns auction creation, room participation and the scheduled
// inactive -> active -> completed transitions
type Manager struct {
	repo      repository.AuctionDB
	resolver  *Resolver
	snapshots *cache.Snapshots
	announcer Announcer
	now       func() time.Time
}

// ManagerOption configures a Manager
type ManagerOption func(*Manager)

// WithManagerClock overrides the wall clock
func WithManagerClock(now func() time.Time) ManagerOption {
	return func(m *Manager) { m.now = now }
}

// NewManager creates a Manager over the repository, resolver and snapshot cache
func NewManager(repo repository.AuctionDB, resolver *Resolver, snapshots *cache.Snapshots, announcer Announcer, opts ...ManagerOption) *Manager {
	m := &Manager{
		repo:      repo,
		resolver:  resolver,
		snapshots: snapshots,
		announcer: announcer,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// CreateAuction validates and stores a new inactive auction owned by owner
func (m *Manager) CreateAuction(ctx context.Context, owner models.User, req models.NewAuction) (models.Auction, error) {
	if owner.UserID == "" {
		return models.Auction{}, fmt.Errorf("manager: %w - missing owner", biddingerrors.ErrUnauthenticated)
	}
	if err := m.validateNewAuction(req); err != nil {
		return models.Auction{}, err
	}

	auction := models.Auction{
		AuctionID:         utils.GenerateID(),
		ItemID:            req.ItemID,
		OwnerID:           owner.UserID,
		Title:             strings.TrimSpace(req.Title),
		StartTime:         req.StartTime.UTC(),
		EndTime:           req.EndTime.UTC(),
		StartingBid:       req.StartingBid,
		CurrentHighestBid: req.StartingBid,
		Status:            models.StatusInactive,
		CreatedAt:         m.now().UTC(),
	}
	if err := m.repo.CreateAuction(ctx, auction); err != nil {
		return models.Auction{}, fmt.Errorf("manager: failed to create auction: %w", err)
	}

	utils.Info("auction created", map[string]any{
		"auction_id": auction.AuctionID,
		"owner_id":   owner.UserID,
		"start_time": auction.StartTime,
		"end_time":   auction.EndTime,
	})
	return auction, nil
}

func (m *Manager) validateNewAuction(req models.NewAuction) error {
	if strings.TrimSpace(req.Title) == "" {
		return fmt.Errorf("manager: %w - empty title", biddingerrors.ErrInvalidAuction)
	}
	if req.StartingBid < 0 || math.IsNaN(req.StartingBid) || math.IsInf(req.StartingBid, 0) {
		return fmt.Errorf("manager: %w - starting bid must be a non-negative number", biddingerrors.ErrInvalidAuction)
	}
	if !req.EndTime.After(req.StartTime) {
		return fmt.Errorf("manager: %w", biddingerrors.ErrEndBeforeStart)
	}
	if !req.StartTime.After(m.now()) {
		return fmt.Errorf("manager: %w", biddingerrors.ErrStartTimeNotInFuture)
	}
	return nil
}

// ListAuctions returns one page of auctions, newest first
func (m *Manager) ListAuctions(ctx context.Context, q models.AuctionQuery) (models.AuctionPage, error) {
	if q.Page <= 0 {
		q.Page = defaultPage
	}
	if q.Limit <= 0 {
		q.Limit = defaultLimit
	}
	if q.Limit > maxLimit {
		q.Limit = maxLimit
	}
	if q.Status != "" && !q.Status.Valid() {
		return models.AuctionPage{}, fmt.Errorf("manager: %w - unknown status %q", biddingerrors.ErrInvalidQuery, q.Status)
	}

	filter := repository.AuctionFilter{Search: q.Search, Offset: (q.Page - 1) * q.Limit, Limit: q.Limit}
	if q.Status != "" {
		filter.Statuses = []models.AuctionStatus{q.Status}
	}

	auctions, err := m.repo.FindAuctions(ctx, filter)
	if err != nil {
		return models.AuctionPage{}, fmt.Errorf("manager: failed to list auctions: %w", err)
	}
	total, err := m.repo.CountAuctions(ctx, filter)
	if err != nil {
		return models.AuctionPage{}, fmt.Errorf("manager: failed to count auctions: %w", err)
	}

	totalPages := int((total + int64(q.Limit) - 1) / int64(q.Limit))
	return models.AuctionPage{
		Auctions: auctions,
		Pagination: models.Pagination{
			Page:       q.Page,
			Limit:      q.Limit,
			Total:      total,
			TotalPages: totalPages,
			HasNext:    q.Page < totalPages,
			HasPrev:    q.Page > 1,
		},
	}, nil
}

// GetAuctionView returns the auction with its bids
func (m *Manager) GetAuctionView(ctx context.Context, auctionID string) (models.AuctionView, error) {
	view, err := m.resolver.ResolveAuctionView(ctx, auctionID)
	if err != nil {
		return models.AuctionView{}, fmt.Errorf("manager: %w", err)
	}
	return view, nil
}

// GetAuctionStatus is the cheap poll used by clients between pushes
func (m *Manager) GetAuctionStatus(ctx context.Context, auctionID string) (models.AuctionStatusView, error) {
	view, err := m.resolver.ResolveAuction(ctx, auctionID)
	if err != nil {
		return models.AuctionStatusView{}, fmt.Errorf("manager: %w", err)
	}
	return models.AuctionStatusView{
		AuctionID:         view.AuctionID,
		Status:            view.Status,
		CurrentHighestBid: view.CurrentHighestBid,
		ParticipantsCount: view.ParticipantsCount,
		EndTime:           view.EndTime,
		IsActive:          view.IsOpen(m.now()),
	}, nil
}

// JoinAuctionRoom records the user as a participant of a running auction and
// returns the auction with its bids
func (m *Manager) JoinAuctionRoom(ctx context.Context, auctionID string, user models.User) (models.AuctionView, error) {
	if user.UserID == "" {
		return models.AuctionView{}, fmt.Errorf("manager: %w - missing user", biddingerrors.ErrUnauthenticated)
	}

	view, err := m.resolver.ResolveAuctionView(ctx, auctionID)
	if err != nil {
		return models.AuctionView{}, fmt.Errorf("manager: %w", err)
	}

	now := m.now()
	switch {
	case view.Status != models.StatusActive:
		return models.AuctionView{}, fmt.Errorf("manager: join auction %s: %w", auctionID, biddingerrors.ErrAuctionNotActive)
	case now.Before(view.StartTime):
		return models.AuctionView{}, fmt.Errorf("manager: join auction %s: %w", auctionID, biddingerrors.ErrAuctionNotStarted)
	case now.After(view.EndTime):
		return models.AuctionView{}, fmt.Errorf("manager: join auction %s: %w", auctionID, biddingerrors.ErrAuctionEnded)
	}

	if err := m.repo.AddParticipant(ctx, auctionID, user.UserID); err != nil {
		return models.AuctionView{}, fmt.Errorf("manager: failed to join auction %s: %w", auctionID, err)
	}

	bids := view.Bids
	if fresh, err := m.resolver.RefreshByID(ctx, auctionID); err == nil {
		view = fresh.View()
		view.Bids = bids
	} else {
		utils.Warn("manager: failed to refresh auction after join", map[string]any{"auction_id": auctionID, "error": err.Error()})
	}

	m.announcer.RoomNotification(auctionID, fmt.Sprintf("%s joined the auction.", nameOf(user)))
	return view, nil
}

// LeaveAuctionRoom removes the user from the current participants
func (m *Manager) LeaveAuctionRoom(ctx context.Context, auctionID string, user models.User) error {
	if user.UserID == "" {
		return fmt.Errorf("manager: %w - missing user", biddingerrors.ErrUnauthenticated)
	}
	if err := m.repo.RemoveParticipant(ctx, auctionID, user.UserID); err != nil {
		return fmt.Errorf("manager: failed to leave auction %s: %w", auctionID, err)
	}
	if _, err := m.resolver.RefreshByID(ctx, auctionID); err != nil {
		utils.Warn("manager: failed to refresh auction after leave", map[string]any{"auction_id": auctionID, "error": err.Error()})
	}
	return nil
}

// SweepPromote activates every inactive auction whose start time has passed and
// (re)writes the snapshot of every running auction. Safe to run repeatedly or
// concurrently.
func (m *Manager) SweepPromote(ctx context.Context) (models.SweepReport, error) {
	var report models.SweepReport
	now := m.now()

	due, err := m.repo.FindAuctions(ctx, repository.AuctionFilter{
		Statuses:  []models.AuctionStatus{models.StatusInactive, models.StatusActive},
		StartedBy: &now,
	})
	if err != nil {
		return report, fmt.Errorf("manager: sweep promote: %w", err)
	}

	for _, a := range due {
		report.Scanned++
		if err := m.promoteOne(ctx, a, &report); err != nil {
			report.Failed++
			utils.Error("manager: failed to promote auction", map[string]any{
				"auction_id": a.AuctionID,
				"error":      err.Error(),
			})
		}
	}

	utils.Info("sweep promote finished", map[string]any{
		"scanned":      report.Scanned,
		"transitioned": report.Transitioned,
		"failed":       report.Failed,
	})
	return report, nil
}

func (m *Manager) promoteOne(ctx context.Context, a models.Auction, report *models.SweepReport) error {
	if a.Status == models.StatusInactive {
		applied, err := m.repo.UpdateStatus(ctx, a.AuctionID, models.StatusInactive, models.StatusActive)
		if err != nil {
			return err
		}
		if applied {
			report.Transitioned++
			utils.Info("auction activated", map[string]any{"auction_id": a.AuctionID})
		}
	}

	// the snapshot is always built from the committed record
	fresh, err := m.repo.FindAuctionByID(ctx, a.AuctionID)
	if err != nil {
		return err
	}
	if fresh.Status != models.StatusActive {
		return nil
	}
	return m.resolver.PutSnapshot(ctx, fresh)
}

// SweepResolve completes every cached auction whose end time has passed,
// announces each completion once and removes its snapshot
func (m *Manager) SweepResolve(ctx context.Context) (models.SweepReport, error) {
	var report models.SweepReport
	now := m.now()

	ids, err := m.snapshots.IDs(ctx)
	if err != nil {
		return report, fmt.Errorf("manager: sweep resolve: %w", err)
	}

	for _, id := range ids {
		snap, err := m.snapshots.Get(ctx, id)
		if errors.Is(err, cache.ErrMiss) {
			continue
		}
		report.Scanned++
		if err != nil {
			report.Failed++
			utils.Error("manager: failed to read snapshot", map[string]any{"auction_id": id, "error": err.Error()})
			continue
		}
		if snap.EndTime.After(now) {
			continue
		}

		applied, err := m.resolveOne(ctx, id)
		if err != nil {
			report.Failed++
			utils.Error("manager: failed to resolve auction", map[string]any{"auction_id": id, "error": err.Error()})
			continue
		}
		if applied {
			report.Transitioned++
		}
	}

	utils.Info("sweep resolve finished", map[string]any{
		"scanned":      report.Scanned,
		"transitioned": report.Transitioned,
		"failed":       report.Failed,
	})
	return report, nil
}

func (m *Manager) resolveOne(ctx context.Context, auctionID string) (bool, error) {
	auction, err := m.repo.FindAuctionByID(ctx, auctionID)
	if errors.Is(err, biddingerrors.ErrAuctionNotFound) {
		return false, m.snapshots.Delete(ctx, auctionID)
	}
	if err != nil {
		return false, err
	}

	applied := false
	var result models.AuctionResult
	if auction.Status == models.StatusActive {
		var winning *models.Bid
		bid, err := m.repo.GetWinningBid(ctx, auctionID)
		switch {
		case err == nil:
			winning = &bid
		case errors.Is(err, biddingerrors.ErrNoBids):
		default:
			return false, err
		}

		applied, err = m.repo.CompleteAuction(ctx, auctionID, winning)
		if err != nil {
			return false, err
		}
		if !applied {
			fresh, err := m.repo.FindAuctionByID(ctx, auctionID)
			if err != nil {
				return false, err
			}
			if fresh.Status == models.StatusActive {
				// a bid moved the price and is still being recorded; the next sweep
				// completes the auction from the snapshot kept here
				utils.Info("auction completion deferred", map[string]any{
					"auction_id":          auctionID,
					"current_highest_bid": fresh.CurrentHighestBid,
				})
				return false, nil
			}
		}
		result = models.AuctionResult{AuctionID: auctionID, Title: auction.Title}
		if winning != nil {
			result.WinnerID = winning.UserID
			result.WinnerName = winning.BidderName
			result.WinningBidID = winning.BidID
			result.Amount = winning.Amount
		}
	}

	if applied {
		m.announce(result)
	}
	// the durable write is committed, so losing the snapshot is safe now
	if err := m.snapshots.Delete(ctx, auctionID); err != nil {
		return applied, fmt.Errorf("delete snapshot: %w", err)
	}
	return applied, nil
}

func (m *Manager) announce(result models.AuctionResult) {
	utils.Info("auction completed", map[string]any{
		"auction_id":     result.AuctionID,
		"winner_id":      result.WinnerID,
		"winning_bid_id": result.WinningBidID,
		"amount":         result.Amount,
	})
	m.announcer.AuctionEnded(result)
}

func nameOf(user models.User) string {
	if user.Name != "" {
		return user.Name
	}
	return user.UserID
}
