package handler

import (
	"fmt"
	"net/http"
	"time"

	"live-auction/internal/biddingerrors"
	"live-auction/internal/broadcast"
	"live-auction/internal/scheduler"
	"live-auction/services/bidding/helpers"
	"live-auction/utils"

	"github.com/gin-gonic/gin"
)

// RoomHandler exposes point-in-time room membership for operators
type RoomHandler struct {
	hub *broadcast.Hub
}

func NewRoomHandler(hub *broadcast.Hub) *RoomHandler {
	return &RoomHandler{hub: hub}
}

// ListRoomsHandler handles GET /rooms
func (h *RoomHandler) ListRoomsHandler(c *gin.Context) {
	utils.JSONResponse(c, http.StatusOK, gin.H{
		"rooms":     h.hub.Rooms(broadcast.AuctionRoomPrefix),
		"connected": h.hub.Connected(),
	}, "rooms retrieved successfully")
}

// TriggerHandler lets an external scheduler fire sweeps over HTTP
type TriggerHandler struct {
	publisher scheduler.Publisher
}

func NewTriggerHandler(publisher scheduler.Publisher) *TriggerHandler {
	return &TriggerHandler{publisher: publisher}
}

// FireTriggerHandler handles POST /internal/triggers
func (h *TriggerHandler) FireTriggerHandler(c *gin.Context) {
	var req helpers.TriggerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.HandleBindError(c, "FireTriggerHandler", err)
		return
	}

	msg := scheduler.NewMessage(scheduler.Trigger(req.Trigger), time.Now())
	if err := msg.Validate(); err != nil {
		utils.JSONError(c, http.StatusBadRequest, err, "unknown trigger")
		utils.Warn("FireTriggerHandler: unknown trigger", map[string]any{"trigger": req.Trigger})
		return
	}

	if err := h.publisher.Publish(c.Request.Context(), msg); err != nil {
		helpers.RespondError(c, "FireTriggerHandler", fmt.Errorf("%w: %w", biddingerrors.ErrUnavailable, err), map[string]any{"trigger": req.Trigger})
		return
	}

	utils.JSONResponse(c, http.StatusAccepted, msg, "trigger accepted")
	helpers.LogSuccess("FireTriggerHandler", "trigger accepted", map[string]any{"trigger": msg.Trigger})
}
