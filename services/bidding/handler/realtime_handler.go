package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"live-auction/internal/biddingerrors"
	"live-auction/internal/broadcast"
	"live-auction/internal/models"
	"live-auction/services/bidding/helpers"
	"live-auction/utils"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// Client events and their replies
const (
	EventJoinAuction     = "joinAuction"
	EventLeaveAuction    = "leaveAuction"
	EventPlaceBid        = "placeBid"
	EventRoomJoined      = "room-joined"
	EventRoomJoinedError = "room-joined-error"
	EventRoomLeft        = "room-left"
	EventRoomLeftError   = "room-left-error"
	EventBidPlaced       = "bid-placed"
	EventBidPlacedError  = "bid-placed-error"
	EventError           = "error"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
	sendBuffer     = 64
)

var (
	errClientClosed = errors.New("client closed")
	errSlowClient   = errors.New("client send buffer full")
)

// RealtimeHandler serves the websocket channel. Each connection is one
// broadcast channel, joined to its user's private room on connect.
type RealtimeHandler struct {
	hub      *broadcast.Hub
	auctions AuctionServiceInterface
	bids     BiddingServiceInterface
	upgrader websocket.Upgrader
}

func NewRealtimeHandler(hub *broadcast.Hub, auctions AuctionServiceInterface, bids BiddingServiceInterface) *RealtimeHandler {
	return &RealtimeHandler{
		hub:      hub,
		auctions: auctions,
		bids:     bids,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// identity comes from the gateway, which also enforces origins
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// client is a connected websocket. Sends never block: a client that cannot
// keep up loses messages instead of stalling a broadcast.
type client struct {
	id   string
	user models.User
	conn *websocket.Conn
	send chan broadcast.Message

	mu     sync.Mutex
	closed bool
}

func newClient(conn *websocket.Conn, user models.User) *client {
	return &client{
		id:   utils.GenerateID(),
		user: user,
		conn: conn,
		send: make(chan broadcast.Message, sendBuffer),
	}
}

func (cl *client) ID() string { return cl.id }

func (cl *client) Send(msg broadcast.Message) error {
	cl.mu.Lock()
	defer cl.mu.Unlock()
	if cl.closed {
		return errClientClosed
	}
	select {
	case cl.send <- msg:
		return nil
	default:
		return errSlowClient
	}
}

func (cl *client) close() {
	cl.mu.Lock()
	defer cl.mu.Unlock()
	if !cl.closed {
		cl.closed = true
		close(cl.send)
	}
}

// ServeWS handles GET /ws
func (h *RealtimeHandler) ServeWS(c *gin.Context) {
	user, ok := helpers.CurrentUser(c)
	if !ok {
		user = models.User{
			UserID: strings.TrimSpace(c.Query("user_id")),
			Name:   strings.TrimSpace(c.Query("name")),
		}
	}
	if user.UserID == "" {
		helpers.RespondError(c, "ServeWS", biddingerrors.ErrUnauthenticated, nil)
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		utils.Warn("ServeWS: upgrade failed", map[string]any{"user_id": user.UserID, "error": err.Error()})
		return
	}

	cl := newClient(conn, user)
	h.hub.Join(broadcast.UserRoom(user.UserID), cl)
	utils.Info("ServeWS: client connected", map[string]any{"client_id": cl.id, "user_id": user.UserID})

	go h.writePump(cl)
	h.readPump(c.Request.Context(), cl)
}

func (h *RealtimeHandler) readPump(ctx context.Context, cl *client) {
	defer func() {
		h.hub.Disconnect(cl.id)
		cl.close()
		utils.Info("ServeWS: client disconnected", map[string]any{"client_id": cl.id, "user_id": cl.user.UserID})
	}()

	cl.conn.SetReadLimit(maxMessageSize)
	_ = cl.conn.SetReadDeadline(time.Now().Add(pongWait))
	cl.conn.SetPongHandler(func(string) error {
		return cl.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := cl.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				utils.Warn("ServeWS: read failed", map[string]any{"client_id": cl.id, "error": err.Error()})
			}
			return
		}

		var frame helpers.WSFrame
		if err := json.Unmarshal(data, &frame); err != nil {
			_ = cl.Send(reply(EventError, helpers.WSError{Message: "Malformed message."}))
			continue
		}
		if err := cl.Send(h.dispatch(ctx, cl, frame)); err != nil {
			utils.Warn("ServeWS: reply dropped", map[string]any{"client_id": cl.id, "event": frame.Event, "error": err.Error()})
		}
	}
}

func (h *RealtimeHandler) writePump(cl *client) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = cl.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-cl.send:
			_ = cl.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = cl.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := cl.conn.WriteJSON(msg); err != nil {
				return
			}
		case <-ticker.C:
			_ = cl.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := cl.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// dispatch runs one client event and returns the reply for the sender
func (h *RealtimeHandler) dispatch(ctx context.Context, cl *client, frame helpers.WSFrame) broadcast.Message {
	switch frame.Event {
	case EventJoinAuction:
		var p helpers.WSRoomPayload
		if err := decodePayload(frame, &p); err != nil {
			return replyError(EventRoomJoinedError, p.AuctionID, err)
		}
		view, err := h.auctions.JoinAuctionRoom(ctx, p.AuctionID, cl.user)
		if err != nil {
			return replyError(EventRoomJoinedError, p.AuctionID, err)
		}
		h.hub.Join(broadcast.AuctionRoom(p.AuctionID), cl)
		return reply(EventRoomJoined, view)

	case EventLeaveAuction:
		var p helpers.WSRoomPayload
		if err := decodePayload(frame, &p); err != nil {
			return replyError(EventRoomLeftError, p.AuctionID, err)
		}
		// the channel stops receiving room events even if the durable leave fails
		h.hub.Leave(broadcast.AuctionRoom(p.AuctionID), cl.id)
		if err := h.auctions.LeaveAuctionRoom(ctx, p.AuctionID, cl.user); err != nil {
			return replyError(EventRoomLeftError, p.AuctionID, err)
		}
		return reply(EventRoomLeft, helpers.WSRoomPayload{AuctionID: p.AuctionID})

	case EventPlaceBid:
		var p helpers.WSBidPayload
		if err := decodePayload(frame, &p); err != nil {
			return replyError(EventBidPlacedError, p.AuctionID, err)
		}
		bid, err := h.bids.PlaceBid(ctx, p.AuctionID, cl.user, p.Amount)
		if err != nil {
			return replyError(EventBidPlacedError, p.AuctionID, err)
		}
		return reply(EventBidPlaced, helpers.NewBidResponse(bid))
	}

	return reply(EventError, helpers.WSError{Message: "Unknown event."})
}

func decodePayload(frame helpers.WSFrame, v any) error {
	if len(frame.Data) == 0 {
		return biddingerrors.ErrInvalidRequest
	}
	if err := json.Unmarshal(frame.Data, v); err != nil {
		return fmt.Errorf("%w: %w", biddingerrors.ErrInvalidRequest, err)
	}
	return nil
}

func reply(event string, data any) broadcast.Message {
	return broadcast.Message{Event: event, Data: data, Timestamp: time.Now().UTC()}
}

func replyError(event, auctionID string, err error) broadcast.Message {
	return reply(event, helpers.WSError{Message: biddingerrors.UserMessage(err), AuctionID: auctionID})
}
