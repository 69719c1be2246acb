package handler

import (
	"context"
	"net/http"

	"live-auction/internal/models"
	"live-auction/services/bidding/helpers"
	"live-auction/utils"

	"github.com/gin-gonic/gin"
)

//go:generate mockgen -source=auction_handler.go -destination=auction_mocks_test.go -package=handler

type AuctionServiceInterface interface {
	CreateAuction(ctx context.Context, owner models.User, req models.NewAuction) (models.Auction, error)
	ListAuctions(ctx context.Context, q models.AuctionQuery) (models.AuctionPage, error)
	GetAuctionView(ctx context.Context, auctionID string) (models.AuctionView, error)
	GetAuctionStatus(ctx context.Context, auctionID string) (models.AuctionStatusView, error)
	JoinAuctionRoom(ctx context.Context, auctionID string, user models.User) (models.AuctionView, error)
	LeaveAuctionRoom(ctx context.Context, auctionID string, user models.User) error
}

type AuctionHandler struct {
	service AuctionServiceInterface
}

func NewAuctionHandler(service AuctionServiceInterface) *AuctionHandler {
	return &AuctionHandler{service: service}
}

// CreateAuctionHandler handles POST /auctions
func (h *AuctionHandler) CreateAuctionHandler(c *gin.Context) {
	var req helpers.CreateAuctionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.HandleBindError(c, "CreateAuctionHandler", err)
		return
	}

	owner, _ := helpers.CurrentUser(c)
	auction, err := h.service.CreateAuction(c.Request.Context(), owner, req.ToNewAuction())
	if err != nil {
		helpers.RespondError(c, "CreateAuctionHandler", err, map[string]any{"owner_id": owner.UserID, "title": req.Title})
		return
	}

	utils.JSONResponse(c, http.StatusCreated, auction, "auction created successfully")
	helpers.LogSuccess("CreateAuctionHandler", "auction created successfully", map[string]any{
		"auction_id": auction.AuctionID,
		"owner_id":   auction.OwnerID,
		"start_time": auction.StartTime,
	})
}

// ListAuctionsHandler handles GET /auctions
func (h *AuctionHandler) ListAuctionsHandler(c *gin.Context) {
	var q helpers.ListAuctionsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		helpers.HandleBindError(c, "ListAuctionsHandler", err)
		return
	}

	page, err := h.service.ListAuctions(c.Request.Context(), models.AuctionQuery{
		Page:   q.Page,
		Limit:  q.Limit,
		Status: models.AuctionStatus(q.Status),
		Search: q.Search,
	})
	if err != nil {
		helpers.RespondError(c, "ListAuctionsHandler", err, map[string]any{"status": q.Status})
		return
	}

	utils.JSONPage(c, http.StatusOK, page.Auctions, page.Pagination, "auctions retrieved successfully")
}

// GetAuctionHandler handles GET /auctions/:auction_id
func (h *AuctionHandler) GetAuctionHandler(c *gin.Context) {
	auctionID := c.Param("auction_id")
	view, err := h.service.GetAuctionView(c.Request.Context(), auctionID)
	if err != nil {
		helpers.RespondError(c, "GetAuctionHandler", err, map[string]any{"auction_id": auctionID})
		return
	}
	utils.JSONResponse(c, http.StatusOK, view, "auction retrieved successfully")
}

// GetAuctionStatusHandler handles GET /auctions/:auction_id/status
func (h *AuctionHandler) GetAuctionStatusHandler(c *gin.Context) {
	auctionID := c.Param("auction_id")
	status, err := h.service.GetAuctionStatus(c.Request.Context(), auctionID)
	if err != nil {
		helpers.RespondError(c, "GetAuctionStatusHandler", err, map[string]any{"auction_id": auctionID})
		return
	}
	utils.JSONResponse(c, http.StatusOK, status, "auction status retrieved successfully")
}

// JoinAuctionHandler handles POST /auctions/:auction_id/join. Live updates
// need the websocket joinAuction event as well.
func (h *AuctionHandler) JoinAuctionHandler(c *gin.Context) {
	auctionID := c.Param("auction_id")
	user, _ := helpers.CurrentUser(c)

	view, err := h.service.JoinAuctionRoom(c.Request.Context(), auctionID, user)
	if err != nil {
		helpers.RespondError(c, "JoinAuctionHandler", err, map[string]any{"auction_id": auctionID, "user_id": user.UserID})
		return
	}

	utils.JSONResponse(c, http.StatusOK, view, "joined auction successfully")
	helpers.LogSuccess("JoinAuctionHandler", "joined auction", map[string]any{"auction_id": auctionID, "user_id": user.UserID})
}

// LeaveAuctionHandler handles POST /auctions/:auction_id/leave
func (h *AuctionHandler) LeaveAuctionHandler(c *gin.Context) {
	auctionID := c.Param("auction_id")
	user, _ := helpers.CurrentUser(c)

	if err := h.service.LeaveAuctionRoom(c.Request.Context(), auctionID, user); err != nil {
		helpers.RespondError(c, "LeaveAuctionHandler", err, map[string]any{"auction_id": auctionID, "user_id": user.UserID})
		return
	}

	utils.JSONResponse(c, http.StatusOK, gin.H{"auction_id": auctionID}, "left auction successfully")
	helpers.LogSuccess("LeaveAuctionHandler", "left auction", map[string]any{"auction_id": auctionID, "user_id": user.UserID})
}
