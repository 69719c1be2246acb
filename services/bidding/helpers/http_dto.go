package helpers

import (
	"encoding/json"
	"time"

	"live-auction/internal/models"
)

// Request/Response DTOs
type PlaceBidRequest struct {
	AuctionID string  `json:"auction_id" binding:"required"`
	Amount    float64 `json:"amount" binding:"required,gt=0"`
}

type BidResponse struct {
	BidID      string  `json:"bid_id"`
	AuctionID  string  `json:"auction_id"`
	UserID     string  `json:"user_id"`
	BidderName string  `json:"bidder_name,omitempty"`
	Amount     float64 `json:"amount"`
	Win        bool    `json:"win"`
	CreatedAt  string  `json:"created_at"`
}

// NewBidResponse renders a bid with an RFC3339 timestamp
func NewBidResponse(bid models.Bid) BidResponse {
	return BidResponse{
		BidID:      bid.BidID,
		AuctionID:  bid.AuctionID,
		UserID:     bid.UserID,
		BidderName: bid.BidderName,
		Amount:     bid.Amount,
		Win:        bid.Win,
		CreatedAt:  bid.CreatedAt.UTC().Format(time.RFC3339),
	}
}

type CreateAuctionRequest struct {
	Title       string    `json:"title" binding:"required"`
	ItemID      *string   `json:"item_id"`
	StartTime   time.Time `json:"start_time" binding:"required"`
	EndTime     time.Time `json:"end_time" binding:"required"`
	StartingBid float64   `json:"starting_bid" binding:"gte=0"`
}

// ToNewAuction converts the request into the service input
func (r CreateAuctionRequest) ToNewAuction() models.NewAuction {
	return models.NewAuction{
		Title:       r.Title,
		ItemID:      r.ItemID,
		StartTime:   r.StartTime,
		EndTime:     r.EndTime,
		StartingBid: r.StartingBid,
	}
}

type ListAuctionsQuery struct {
	Page   int    `form:"page" binding:"omitempty,gte=1"`
	Limit  int    `form:"limit" binding:"omitempty,gte=1,lte=100"`
	Status string `form:"status"`
	Search string `form:"search"`
}

type TriggerRequest struct {
	Trigger string `json:"trigger" binding:"required"`
}

// WebSocket frames. Every frame in either direction is {event, data}.
type WSFrame struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

type WSRoomPayload struct {
	AuctionID string `json:"auction_id"`
}

type WSBidPayload struct {
	AuctionID string  `json:"auction_id"`
	Amount    float64 `json:"amount"`
}

type WSError struct {
	Message   string `json:"message"`
	AuctionID string `json:"auction_id,omitempty"`
}
