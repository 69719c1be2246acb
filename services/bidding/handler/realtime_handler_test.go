package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"live-auction/internal/biddingerrors"
	"live-auction/internal/broadcast"
	"live-auction/internal/models"
	"live-auction/services/bidding/helpers"

	"github.com/golang/mock/gomock"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"
)

func frame(t *testing.T, event string, data any) helpers.WSFrame {
	t.Helper()
	raw, err := json.Marshal(data)
	require.NoError(t, err)
	return helpers.WSFrame{Event: event, Data: raw}
}

func TestRealtimeHandler_Dispatch(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	tests := []struct {
		name      string
		frame     func(t *testing.T) helpers.WSFrame
		mockSetup func(a *MockAuctionServiceInterface, b *MockBiddingServiceInterface)
		wantEvent string
		wantError string
		wantRoom  int
	}{
		{
			name:  "join",
			frame: func(t *testing.T) helpers.WSFrame { return frame(t, EventJoinAuction, helpers.WSRoomPayload{AuctionID: "a1"}) },
			mockSetup: func(a *MockAuctionServiceInterface, b *MockBiddingServiceInterface) {
				a.EXPECT().JoinAuctionRoom(gomock.Any(), "a1", testUser).Return(models.AuctionView{AuctionID: "a1"}, nil)
			},
			wantEvent: EventRoomJoined,
			wantRoom:  1,
		},
		{
			name:  "join_ended",
			frame: func(t *testing.T) helpers.WSFrame { return frame(t, EventJoinAuction, helpers.WSRoomPayload{AuctionID: "a1"}) },
			mockSetup: func(a *MockAuctionServiceInterface, b *MockBiddingServiceInterface) {
				a.EXPECT().JoinAuctionRoom(gomock.Any(), "a1", testUser).Return(models.AuctionView{}, biddingerrors.ErrAuctionEnded)
			},
			wantEvent: EventRoomJoinedError,
			wantError: "Auction ended.",
		},
		{
			name:      "join_without_payload",
			frame:     func(t *testing.T) helpers.WSFrame { return helpers.WSFrame{Event: EventJoinAuction} },
			mockSetup: func(a *MockAuctionServiceInterface, b *MockBiddingServiceInterface) {},
			wantEvent: EventRoomJoinedError,
			wantError: "Invalid request.",
		},
		{
			name:  "leave_not_joined",
			frame: func(t *testing.T) helpers.WSFrame { return frame(t, EventLeaveAuction, helpers.WSRoomPayload{AuctionID: "a1"}) },
			mockSetup: func(a *MockAuctionServiceInterface, b *MockBiddingServiceInterface) {
				a.EXPECT().LeaveAuctionRoom(gomock.Any(), "a1", testUser).Return(biddingerrors.ErrNotJoined)
			},
			wantEvent: EventRoomLeftError,
			wantError: "You have not joined this auction.",
		},
		{
			name:  "leave",
			frame: func(t *testing.T) helpers.WSFrame { return frame(t, EventLeaveAuction, helpers.WSRoomPayload{AuctionID: "a1"}) },
			mockSetup: func(a *MockAuctionServiceInterface, b *MockBiddingServiceInterface) {
				a.EXPECT().LeaveAuctionRoom(gomock.Any(), "a1", testUser).Return(nil)
			},
			wantEvent: EventRoomLeft,
		},
		{
			name: "bid",
			frame: func(t *testing.T) helpers.WSFrame {
				return frame(t, EventPlaceBid, helpers.WSBidPayload{AuctionID: "a1", Amount: 120})
			},
			mockSetup: func(a *MockAuctionServiceInterface, b *MockBiddingServiceInterface) {
				b.EXPECT().PlaceBid(gomock.Any(), "a1", testUser, 120.0).Return(models.Bid{BidID: "b1", AuctionID: "a1", Amount: 120}, nil)
			},
			wantEvent: EventBidPlaced,
		},
		{
			name: "bid_too_low",
			frame: func(t *testing.T) helpers.WSFrame {
				return frame(t, EventPlaceBid, helpers.WSBidPayload{AuctionID: "a1", Amount: 10})
			},
			mockSetup: func(a *MockAuctionServiceInterface, b *MockBiddingServiceInterface) {
				b.EXPECT().PlaceBid(gomock.Any(), "a1", testUser, 10.0).Return(models.Bid{}, biddingerrors.ErrBidTooLow)
			},
			wantEvent: EventBidPlacedError,
			wantError: "Bid amount must be higher than current highest bid.",
		},
		{
			name:      "unknown_event",
			frame:     func(t *testing.T) helpers.WSFrame { return helpers.WSFrame{Event: "dance"} },
			mockSetup: func(a *MockAuctionServiceInterface, b *MockBiddingServiceInterface) {},
			wantEvent: EventError,
			wantError: "Unknown event.",
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			ctrl := gomock.NewController(t)
			auctions := NewMockAuctionServiceInterface(ctrl)
			bids := NewMockBiddingServiceInterface(ctrl)
			tc.mockSetup(auctions, bids)

			hub := broadcast.NewHub()
			h := NewRealtimeHandler(hub, auctions, bids)
			cl := &client{id: "c1", user: testUser, send: make(chan broadcast.Message, 4)}

			got := h.dispatch(ctx, cl, tc.frame(t))
			require.Equal(t, tc.wantEvent, got.Event)
			if tc.wantError != "" {
				require.Equal(t, tc.wantError, got.Data.(helpers.WSError).Message)
			}
			require.Equal(t, tc.wantRoom, hub.Count(broadcast.AuctionRoom("a1")))
		})
	}
}

func TestClient_SendNeverBlocks(t *testing.T) {
	t.Parallel()

	cl := &client{id: "c1", send: make(chan broadcast.Message, 1)}
	require.NoError(t, cl.Send(broadcast.Message{Event: "one"}))
	require.ErrorIs(t, cl.Send(broadcast.Message{Event: "two"}), errSlowClient)

	cl.close()
	cl.close()
	require.ErrorIs(t, cl.Send(broadcast.Message{Event: "three"}), errClientClosed)
}

// readUntil reads frames until one with the wanted event arrives
func readUntil(t *testing.T, conn *websocket.Conn, event string) map[string]any {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	for {
		var msg map[string]any
		require.NoError(t, conn.ReadJSON(&msg))
		if msg["event"] == event {
			return msg
		}
	}
}

func TestRealtimeHandler_ServeWS(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	auctions := NewMockAuctionServiceInterface(ctrl)
	bids := NewMockBiddingServiceInterface(ctrl)
	auctions.EXPECT().JoinAuctionRoom(gomock.Any(), "a1", testUser).Return(models.AuctionView{AuctionID: "a1", Status: models.StatusActive}, nil)
	bids.EXPECT().PlaceBid(gomock.Any(), "a1", testUser, 120.0).Return(models.Bid{BidID: "b1", AuctionID: "a1", UserID: "user1", Amount: 120}, nil)

	hub := broadcast.NewHub()
	router := newTestRouter()
	router.GET("/ws", NewRealtimeHandler(hub, auctions, bids).ServeWS)
	server := httptest.NewServer(router)
	t.Cleanup(server.Close)

	wsURL := "ws" + strings.TrimPrefix(server.URL, "http") + "/ws"

	t.Run("rejects_anonymous", func(t *testing.T) {
		_, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
		require.Error(t, err)
		require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	conn, _, err := websocket.DefaultDialer.Dial(wsURL+"?user_id=user1&name=Alice", nil)
	require.NoError(t, err)

	require.Eventually(t, func() bool { return hub.Count(broadcast.UserRoom("user1")) == 1 }, time.Second, 10*time.Millisecond)

	require.NoError(t, conn.WriteJSON(frame(t, EventJoinAuction, helpers.WSRoomPayload{AuctionID: "a1"})))
	joined := readUntil(t, conn, EventRoomJoined)
	require.Equal(t, "a1", joined["data"].(map[string]any)["auction_id"])
	require.Equal(t, 1, hub.Count(broadcast.AuctionRoom("a1")))

	hub.Broadcast(broadcast.AuctionRoom("a1"), broadcast.EventNewBid, models.Bid{BidID: "other", AuctionID: "a1", Amount: 110})
	newBid := readUntil(t, conn, broadcast.EventNewBid)
	require.Equal(t, "auctionRoom:a1", newBid["room"])

	require.NoError(t, conn.WriteJSON(frame(t, EventPlaceBid, helpers.WSBidPayload{AuctionID: "a1", Amount: 120})))
	placed := readUntil(t, conn, EventBidPlaced)
	require.Equal(t, "b1", placed["data"].(map[string]any)["bid_id"])

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("not json")))
	readUntil(t, conn, EventError)

	require.NoError(t, conn.Close())
	require.Eventually(t, func() bool { return hub.Connected() == 0 }, time.Second, 10*time.Millisecond)
	require.Zero(t, hub.Count(broadcast.AuctionRoom("a1")))
}
