package handler

import (
	"context"
	"net/http"

	"live-auction/internal/models"
	"live-auction/services/bidding/helpers"
	"live-auction/utils"

	"github.com/gin-gonic/gin"
)

//go:generate mockgen -source=bidding_handler.go -destination=mocks_test.go -package=handler

type BiddingServiceInterface interface {
	PlaceBid(ctx context.Context, auctionID string, bidder models.User, amount float64) (models.Bid, error)
	GetBidsForAuction(ctx context.Context, auctionID string) ([]models.Bid, error)
	GetWinningBid(ctx context.Context, auctionID string) (models.Bid, error)
	GetBidsByUser(ctx context.Context, userID string) ([]models.UserBid, error)
}

type BiddingHandler struct {
	service BiddingServiceInterface
}

func NewBiddingHandler(service BiddingServiceInterface) *BiddingHandler {
	return &BiddingHandler{service: service}
}

// RecordBidHandler handles POST /bids
func (h *BiddingHandler) RecordBidHandler(c *gin.Context) {
	var req helpers.PlaceBidRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.HandleBindError(c, "RecordBidHandler", err)
		return
	}

	user, _ := helpers.CurrentUser(c)
	bid, err := h.service.PlaceBid(c.Request.Context(), req.AuctionID, user, req.Amount)
	if err != nil {
		helpers.RespondError(c, "RecordBidHandler", err, map[string]any{
			"auction_id": req.AuctionID,
			"user_id":    user.UserID,
			"amount":     req.Amount,
		})
		return
	}

	utils.JSONResponse(c, http.StatusCreated, helpers.NewBidResponse(bid), "bid recorded successfully")
	helpers.LogSuccess("RecordBidHandler", "bid recorded successfully", map[string]any{
		"bid_id":     bid.BidID,
		"auction_id": bid.AuctionID,
		"user_id":    bid.UserID,
		"amount":     bid.Amount,
	})
}

// GetBidsByAuctionHandler handles GET /auctions/:auction_id/bids
func (h *BiddingHandler) GetBidsByAuctionHandler(c *gin.Context) {
	auctionID := c.Param("auction_id")
	bids, err := h.service.GetBidsForAuction(c.Request.Context(), auctionID)
	if err != nil {
		helpers.RespondError(c, "GetBidsByAuctionHandler", err, map[string]any{"auction_id": auctionID})
		return
	}

	resp := make([]helpers.BidResponse, 0, len(bids))
	for _, bid := range bids {
		resp = append(resp, helpers.NewBidResponse(bid))
	}

	utils.JSONResponse(c, http.StatusOK, resp, "bids retrieved successfully")
	helpers.LogSuccess("GetBidsByAuctionHandler", "bids retrieved successfully", map[string]any{
		"auction_id": auctionID,
		"count":      len(resp),
	})
}

// GetWinningBidHandler handles GET /auctions/:auction_id/winning
func (h *BiddingHandler) GetWinningBidHandler(c *gin.Context) {
	auctionID := c.Param("auction_id")
	bid, err := h.service.GetWinningBid(c.Request.Context(), auctionID)
	if err != nil {
		helpers.RespondError(c, "GetWinningBidHandler", err, map[string]any{"auction_id": auctionID})
		return
	}

	utils.JSONResponse(c, http.StatusOK, helpers.NewBidResponse(bid), "winning bid retrieved successfully")
	helpers.LogSuccess("GetWinningBidHandler", "winning bid retrieved successfully", map[string]any{
		"bid_id":     bid.BidID,
		"auction_id": bid.AuctionID,
		"user_id":    bid.UserID,
		"amount":     bid.Amount,
	})
}

// GetMyBidsHandler handles GET /users/me/bids
func (h *BiddingHandler) GetMyBidsHandler(c *gin.Context) {
	user, _ := helpers.CurrentUser(c)
	bids, err := h.service.GetBidsByUser(c.Request.Context(), user.UserID)
	if err != nil {
		helpers.RespondError(c, "GetMyBidsHandler", err, map[string]any{"user_id": user.UserID})
		return
	}

	utils.JSONResponse(c, http.StatusOK, bids, "bids retrieved successfully")
	helpers.LogSuccess("GetMyBidsHandler", "bids retrieved successfully", map[string]any{
		"user_id": user.UserID,
		"count":   len(bids),
	})
}
