package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"live-auction/internal/biddingerrors"
	"live-auction/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormRepo implements AuctionDB on a relational database through gorm
type GormRepo struct {
	db *gorm.DB
}

// NewGormRepo wraps an open gorm connection
func NewGormRepo(db *gorm.DB) *GormRepo {
	return &GormRepo{db: db}
}

// Migrate creates or updates the tables used by GormRepo
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&models.Auction{}, &models.Bid{}, &models.Participant{}); err != nil {
		return fmt.Errorf("migrate auction schema: %w", err)
	}
	return nil
}

func (r *GormRepo) CreateAuction(ctx context.Context, auction models.Auction) error {
	if auction.AuctionID == "" {
		return fmt.Errorf("create auction: %w - missing auction ID", biddingerrors.ErrInvalidAuction)
	}
	// sqlite compares timestamps as text, so keep every stored instant in UTC
	auction.StartTime, auction.EndTime = auction.StartTime.UTC(), auction.EndTime.UTC()
	if err := r.db.WithContext(ctx).Create(&auction).Error; err != nil {
		return fmt.Errorf("create auction %s: %w: %w", auction.AuctionID, biddingerrors.ErrUnavailable, err)
	}
	return nil
}

func (r *GormRepo) FindAuctionByID(ctx context.Context, auctionID string) (models.Auction, error) {
	var auction models.Auction
	err := r.db.WithContext(ctx).First(&auction, "auction_id = ?", auctionID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.Auction{}, fmt.Errorf("find auction %s: %w", auctionID, biddingerrors.ErrAuctionNotFound)
	}
	if err != nil {
		return models.Auction{}, fmt.Errorf("find auction %s: %w: %w", auctionID, biddingerrors.ErrUnavailable, err)
	}

	if err := r.loadParticipants(ctx, &auction); err != nil {
		return models.Auction{}, err
	}
	return auction, nil
}

func (r *GormRepo) FindAuctions(ctx context.Context, filter AuctionFilter) ([]models.Auction, error) {
	q := r.applyFilter(r.db.WithContext(ctx).Model(&models.Auction{}), filter).
		Order("created_at desc").Order("auction_id desc")
	if filter.Offset > 0 {
		q = q.Offset(filter.Offset)
	}
	if filter.Limit > 0 {
		q = q.Limit(filter.Limit)
	}

	var auctions []models.Auction
	if err := q.Find(&auctions).Error; err != nil {
		return nil, fmt.Errorf("find auctions: %w: %w", biddingerrors.ErrUnavailable, err)
	}
	for i := range auctions {
		if err := r.loadParticipants(ctx, &auctions[i]); err != nil {
			return nil, err
		}
	}
	return auctions, nil
}

func (r *GormRepo) CountAuctions(ctx context.Context, filter AuctionFilter) (int64, error) {
	var total int64
	q := r.applyFilter(r.db.WithContext(ctx).Model(&models.Auction{}), filter)
	if err := q.Count(&total).Error; err != nil {
		return 0, fmt.Errorf("count auctions: %w: %w", biddingerrors.ErrUnavailable, err)
	}
	return total, nil
}

// UpdateHighestBidIfLower issues a single conditional UPDATE so concurrent bidders
// are serialised by the database.
func (r *GormRepo) UpdateHighestBidIfLower(ctx context.Context, auctionID string, amount float64) (bool, error) {
	res := r.db.WithContext(ctx).Model(&models.Auction{}).
		Where("auction_id = ? AND status = ? AND current_highest_bid < ?", auctionID, string(models.StatusActive), amount).
		Update("current_highest_bid", amount)
	if res.Error != nil {
		return false, fmt.Errorf("update highest bid for auction %s: %w: %w", auctionID, biddingerrors.ErrUnavailable, res.Error)
	}
	if res.RowsAffected == 1 {
		return true, nil
	}
	return false, r.ensureExists(ctx, auctionID)
}

func (r *GormRepo) UpdateStatus(ctx context.Context, auctionID string, from, to models.AuctionStatus) (bool, error) {
	res := r.db.WithContext(ctx).Model(&models.Auction{}).
		Where("auction_id = ? AND status = ?", auctionID, string(from)).
		Update("status", string(to))
	if res.Error != nil {
		return false, fmt.Errorf("update status for auction %s: %w: %w", auctionID, biddingerrors.ErrUnavailable, res.Error)
	}
	if res.RowsAffected == 1 {
		return true, nil
	}
	return false, r.ensureExists(ctx, auctionID)
}

// CompleteAuction commits the status change, the winner fields and the bid's win
// flag in one transaction. Like MemoryRepo it only applies while the stored price
// still matches the winning amount, or the starting bid without a winner.
func (r *GormRepo) CompleteAuction(ctx context.Context, auctionID string, winning *models.Bid) (bool, error) {
	applied := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		updates := map[string]any{"status": string(models.StatusCompleted)}
		q := tx.Model(&models.Auction{}).
			Where("auction_id = ? AND status = ?", auctionID, string(models.StatusActive))
		if winning != nil {
			updates["winner_id"] = winning.UserID
			updates["winning_bid_id"] = winning.BidID
			q = q.Where("current_highest_bid = ?", winning.Amount)
		} else {
			q = q.Where("current_highest_bid = starting_bid")
		}

		res := q.Updates(updates)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil
		}

		if winning != nil {
			res := tx.Model(&models.Bid{}).
				Where("bid_id = ? AND auction_id = ?", winning.BidID, auctionID).
				Update("win", true)
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return fmt.Errorf("winning bid %s: %w", winning.BidID, biddingerrors.ErrNoBids)
			}
		}
		applied = true
		return nil
	})
	if errors.Is(err, biddingerrors.ErrNoBids) {
		return false, fmt.Errorf("complete auction %s: %w", auctionID, err)
	}
	if err != nil {
		return false, fmt.Errorf("complete auction %s: %w: %w", auctionID, biddingerrors.ErrUnavailable, err)
	}
	if !applied {
		return false, r.ensureExists(ctx, auctionID)
	}
	return true, nil
}

func (r *GormRepo) RecordBid(ctx context.Context, bid models.Bid) error {
	if err := r.ensureExists(ctx, bid.AuctionID); err != nil {
		return fmt.Errorf("record bid: %w", err)
	}
	if err := r.db.WithContext(ctx).Create(&bid).Error; err != nil {
		return fmt.Errorf("record bid for auction %s: %w: %w", bid.AuctionID, biddingerrors.ErrUnavailable, err)
	}
	return nil
}

func (r *GormRepo) GetBidsByAuction(ctx context.Context, auctionID string) ([]models.Bid, error) {
	if err := r.ensureExists(ctx, auctionID); err != nil {
		return nil, fmt.Errorf("get bids: %w", err)
	}

	bids := []models.Bid{}
	err := r.db.WithContext(ctx).
		Where("auction_id = ?", auctionID).
		Order("amount desc").Order("created_at asc").
		Find(&bids).Error
	if err != nil {
		return nil, fmt.Errorf("get bids for auction %s: %w: %w", auctionID, biddingerrors.ErrUnavailable, err)
	}
	return bids, nil
}

func (r *GormRepo) GetWinningBid(ctx context.Context, auctionID string) (models.Bid, error) {
	var bid models.Bid
	err := r.db.WithContext(ctx).
		Where("auction_id = ?", auctionID).
		Order("amount desc").Order("created_at asc").
		First(&bid).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.Bid{}, fmt.Errorf("get winning bid for auction %s: %w", auctionID, biddingerrors.ErrNoBids)
	}
	if err != nil {
		return models.Bid{}, fmt.Errorf("get winning bid for auction %s: %w: %w", auctionID, biddingerrors.ErrUnavailable, err)
	}
	return bid, nil
}

func (r *GormRepo) GetBidsByUser(ctx context.Context, userID string) ([]models.UserBid, error) {
	out := []models.UserBid{}
	err := r.db.WithContext(ctx).
		Table("bids").
		Select("bids.*, auctions.title AS auction_title").
		Joins("JOIN auctions ON auctions.auction_id = bids.auction_id").
		Where("bids.user_id = ?", userID).
		Order("bids.created_at desc").
		Scan(&out).Error
	if err != nil {
		return nil, fmt.Errorf("get bids for user %s: %w: %w", userID, biddingerrors.ErrUnavailable, err)
	}
	return out, nil
}

func (r *GormRepo) AddParticipant(ctx context.Context, auctionID, userID string) error {
	if err := r.ensureExists(ctx, auctionID); err != nil {
		return fmt.Errorf("add participant: %w", err)
	}

	p := models.Participant{
		AuctionID: auctionID,
		UserID:    userID,
		Active:    true,
		JoinedAt:  time.Now().UTC(),
	}
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "auction_id"}, {Name: "user_id"}},
		DoUpdates: clause.Assignments(map[string]any{"active": true}),
	}).Create(&p).Error
	if err != nil {
		return fmt.Errorf("add participant %s to auction %s: %w: %w", userID, auctionID, biddingerrors.ErrUnavailable, err)
	}
	return nil
}

func (r *GormRepo) RemoveParticipant(ctx context.Context, auctionID, userID string) error {
	if err := r.ensureExists(ctx, auctionID); err != nil {
		return fmt.Errorf("remove participant: %w", err)
	}

	res := r.db.WithContext(ctx).Model(&models.Participant{}).
		Where("auction_id = ? AND user_id = ? AND active = ?", auctionID, userID, true).
		Update("active", false)
	if res.Error != nil {
		return fmt.Errorf("remove participant %s from auction %s: %w: %w", userID, auctionID, biddingerrors.ErrUnavailable, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("remove participant %s from auction %s: %w", userID, auctionID, biddingerrors.ErrNotJoined)
	}
	return nil
}

func (r *GormRepo) applyFilter(q *gorm.DB, filter AuctionFilter) *gorm.DB {
	if len(filter.Statuses) > 0 {
		statuses := make([]string, 0, len(filter.Statuses))
		for _, s := range filter.Statuses {
			statuses = append(statuses, string(s))
		}
		q = q.Where("status IN ?", statuses)
	}
	if filter.StartedBy != nil {
		q = q.Where("start_time <= ?", filter.StartedBy.UTC())
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		q = q.Where("LOWER(title) LIKE ?", "%"+strings.ToLower(search)+"%")
	}
	return q
}

func (r *GormRepo) loadParticipants(ctx context.Context, auction *models.Auction) error {
	var rows []models.Participant
	err := r.db.WithContext(ctx).
		Where("auction_id = ?", auction.AuctionID).
		Order("joined_at asc").
		Find(&rows).Error
	if err != nil {
		return fmt.Errorf("load participants for auction %s: %w: %w", auction.AuctionID, biddingerrors.ErrUnavailable, err)
	}

	auction.Participants = make([]string, 0, len(rows))
	auction.AllParticipants = make([]string, 0, len(rows))
	for _, p := range rows {
		auction.AllParticipants = append(auction.AllParticipants, p.UserID)
		if p.Active {
			auction.Participants = append(auction.Participants, p.UserID)
		}
	}
	return nil
}

// ensureExists distinguishes "condition not met" from "no such auction"
func (r *GormRepo) ensureExists(ctx context.Context, auctionID string) error {
	var n int64
	if err := r.db.WithContext(ctx).Model(&models.Auction{}).Where("auction_id = ?", auctionID).Count(&n).Error; err != nil {
		return fmt.Errorf("lookup auction %s: %w: %w", auctionID, biddingerrors.ErrUnavailable, err)
	}
	if n == 0 {
		return fmt.Errorf("auction %s: %w", auctionID, biddingerrors.ErrAuctionNotFound)
	}
	return nil
}
