package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"live-auction/internal/biddingerrors"
	"live-auction/internal/models"
	"live-auction/services/bidding/helpers"

	"github.com/gin-gonic/gin"
	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

var testUser = models.User{UserID: "user1", Name: "Alice"}

// newTestRouter builds a gin engine that trusts the identity headers the way
// the real server does
func newTestRouter() *gin.Engine {
	router := gin.New()
	router.Use(func(c *gin.Context) {
		if user, ok := helpers.UserFromHeaders(c.Request); ok {
			helpers.SetCurrentUser(c, user)
		}
		c.Next()
	})
	return router
}

// doRequest sends body (a raw string or a value to marshal) as the given user
func doRequest(t *testing.T, router http.Handler, method, path string, body any, user *models.User) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()

	var reqBody []byte
	switch v := body.(type) {
	case nil:
	case string:
		reqBody = []byte(v)
	default:
		var err error
		reqBody, err = json.Marshal(v)
		require.NoError(t, err)
	}

	req := httptest.NewRequest(method, path, bytes.NewReader(reqBody))
	req.Header.Set("Content-Type", "application/json")
	if user != nil {
		req.Header.Set(helpers.HeaderUserID, user.UserID)
		req.Header.Set(helpers.HeaderUserName, user.Name)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return w, resp
}

// Test RecordBidHandler
func TestRecordBidHandler(t *testing.T) {
	t.Parallel()

	now := time.Now().UTC()

	tests := []struct {
		name           string
		requestBody    any
		mockSetup      func(m *MockBiddingServiceInterface)
		expectedStatus int
		expectedMsg    string
		validateData   func(t *testing.T, data map[string]any)
	}{
		{
			name:        "success_valid_bid",
			requestBody: helpers.PlaceBidRequest{AuctionID: "a1", Amount: 100},
			mockSetup: func(m *MockBiddingServiceInterface) {
				m.EXPECT().
					PlaceBid(gomock.Any(), "a1", testUser, 100.0).
					Return(models.Bid{
						BidID:      uuid.NewString(),
						AuctionID:  "a1",
						UserID:     "user1",
						BidderName: "Alice",
						Amount:     100.0,
						CreatedAt:  now,
					}, nil)
			},
			expectedStatus: http.StatusCreated,
			expectedMsg:    "bid recorded successfully",
			validateData: func(t *testing.T, data map[string]any) {
				bidID := data["bid_id"].(string)
				_, parseErr := uuid.Parse(bidID)
				require.NoError(t, parseErr, "BidID should be a valid UUID")
				require.Equal(t, "a1", data["auction_id"])
				require.Equal(t, "user1", data["user_id"])
				require.Equal(t, "Alice", data["bidder_name"])
				require.Equal(t, 100.0, data["amount"])
			},
		},
		{
			name:           "invalid_json",
			requestBody:    `{invalid json}`,
			mockSetup:      func(m *MockBiddingServiceInterface) {},
			expectedStatus: http.StatusBadRequest,
			expectedMsg:    "invalid request payload",
		},
		{
			name:           "missing_auction_id",
			requestBody:    helpers.PlaceBidRequest{Amount: 50},
			mockSetup:      func(m *MockBiddingServiceInterface) {},
			expectedStatus: http.StatusBadRequest,
			expectedMsg:    "invalid request payload",
		},
		{
			name:           "invalid_amount_zero",
			requestBody:    helpers.PlaceBidRequest{AuctionID: "a1", Amount: 0},
			mockSetup:      func(m *MockBiddingServiceInterface) {},
			expectedStatus: http.StatusBadRequest,
			expectedMsg:    "invalid request payload",
		},
		{
			name:           "negative_amount",
			requestBody:    helpers.PlaceBidRequest{AuctionID: "a1", Amount: -10},
			mockSetup:      func(m *MockBiddingServiceInterface) {},
			expectedStatus: http.StatusBadRequest,
			expectedMsg:    "invalid request payload",
		},
		{
			name:        "service_bid_too_low",
			requestBody: helpers.PlaceBidRequest{AuctionID: "a1", Amount: 50},
			mockSetup: func(m *MockBiddingServiceInterface) {
				m.EXPECT().PlaceBid(gomock.Any(), "a1", testUser, 50.0).Return(models.Bid{}, biddingerrors.ErrBidTooLow)
			},
			expectedStatus: http.StatusBadRequest,
			expectedMsg:    "Bid amount must be higher than current highest bid.",
		},
		{
			name:        "service_auction_ended",
			requestBody: helpers.PlaceBidRequest{AuctionID: "a1", Amount: 50},
			mockSetup: func(m *MockBiddingServiceInterface) {
				m.EXPECT().PlaceBid(gomock.Any(), "a1", testUser, 50.0).Return(models.Bid{}, biddingerrors.ErrAuctionEnded)
			},
			expectedStatus: http.StatusBadRequest,
			expectedMsg:    "Auction ended.",
		},
		{
			name:        "service_auction_not_found",
			requestBody: helpers.PlaceBidRequest{AuctionID: "nope", Amount: 50},
			mockSetup: func(m *MockBiddingServiceInterface) {
				m.EXPECT().PlaceBid(gomock.Any(), "nope", testUser, 50.0).Return(models.Bid{}, biddingerrors.ErrAuctionNotFound)
			},
			expectedStatus: http.StatusNotFound,
			expectedMsg:    "Auction not found.",
		},
		{
			name:        "service_generic_error",
			requestBody: helpers.PlaceBidRequest{AuctionID: "a1", Amount: 100},
			mockSetup: func(m *MockBiddingServiceInterface) {
				m.EXPECT().PlaceBid(gomock.Any(), "a1", testUser, 100.0).Return(models.Bid{}, errors.New("database failure"))
			},
			expectedStatus: http.StatusInternalServerError,
			expectedMsg:    "Something went wrong.",
		},
		{
			name:        "service_store_unavailable",
			requestBody: helpers.PlaceBidRequest{AuctionID: "a1", Amount: 100},
			mockSetup: func(m *MockBiddingServiceInterface) {
				m.EXPECT().PlaceBid(gomock.Any(), "a1", testUser, 100.0).Return(models.Bid{}, biddingerrors.ErrUnavailable)
			},
			expectedStatus: http.StatusServiceUnavailable,
			expectedMsg:    "Service temporarily unavailable, please retry.",
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			ctrl := gomock.NewController(t)
			mockService := NewMockBiddingServiceInterface(ctrl)
			tc.mockSetup(mockService)

			router := newTestRouter()
			router.POST("/bids", NewBiddingHandler(mockService).RecordBidHandler)

			user := testUser
			w, resp := doRequest(t, router, http.MethodPost, "/bids", tc.requestBody, &user)

			require.Equal(t, tc.expectedStatus, w.Code)
			require.Contains(t, resp["message"], tc.expectedMsg)

			if tc.validateData != nil && w.Code == http.StatusCreated {
				tc.validateData(t, resp["data"].(map[string]any))
			}
		})
	}
}

// Test GetBidsByAuctionHandler
func TestGetBidsByAuctionHandler(t *testing.T) {
	t.Parallel()

	now := time.Now().UTC()

	tests := []struct {
		name           string
		auctionID      string
		mockSetup      func(m *MockBiddingServiceInterface)
		expectedStatus int
		expectedCount  int
	}{
		{
			name:      "auction_with_bids",
			auctionID: "a1",
			mockSetup: func(m *MockBiddingServiceInterface) {
				m.EXPECT().GetBidsForAuction(gomock.Any(), "a1").Return([]models.Bid{
					{BidID: "b2", AuctionID: "a1", UserID: "user2", Amount: 150, CreatedAt: now.Add(time.Second)},
					{BidID: "b1", AuctionID: "a1", UserID: "user1", Amount: 100, CreatedAt: now},
				}, nil)
			},
			expectedStatus: http.StatusOK,
			expectedCount:  2,
		},
		{
			name:      "auction_without_bids",
			auctionID: "a2",
			mockSetup: func(m *MockBiddingServiceInterface) {
				m.EXPECT().GetBidsForAuction(gomock.Any(), "a2").Return([]models.Bid{}, nil)
			},
			expectedStatus: http.StatusOK,
			expectedCount:  0,
		},
		{
			name:      "unknown_auction",
			auctionID: "missing",
			mockSetup: func(m *MockBiddingServiceInterface) {
				m.EXPECT().GetBidsForAuction(gomock.Any(), "missing").Return(nil, biddingerrors.ErrAuctionNotFound)
			},
			expectedStatus: http.StatusNotFound,
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			ctrl := gomock.NewController(t)
			mockService := NewMockBiddingServiceInterface(ctrl)
			tc.mockSetup(mockService)

			router := newTestRouter()
			router.GET("/auctions/:auction_id/bids", NewBiddingHandler(mockService).GetBidsByAuctionHandler)

			w, resp := doRequest(t, router, http.MethodGet, "/auctions/"+tc.auctionID+"/bids", nil, nil)
			require.Equal(t, tc.expectedStatus, w.Code)
			if w.Code == http.StatusOK {
				data := resp["data"].([]any)
				require.Len(t, data, tc.expectedCount)
				if tc.expectedCount > 0 {
					require.Equal(t, "b2", data[0].(map[string]any)["bid_id"])
				}
			}
		})
	}
}

// Test GetWinningBidHandler
func TestGetWinningBidHandler(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name           string
		auctionID      string
		mockSetup      func(m *MockBiddingServiceInterface)
		expectedStatus int
		expectedMsg    string
	}{
		{
			name:      "winning_bid_found",
			auctionID: "a1",
			mockSetup: func(m *MockBiddingServiceInterface) {
				m.EXPECT().GetWinningBid(gomock.Any(), "a1").Return(models.Bid{
					BidID: "b1", AuctionID: "a1", UserID: "user1", Amount: 100, Win: true, CreatedAt: time.Now(),
				}, nil)
			},
			expectedStatus: http.StatusOK,
			expectedMsg:    "winning bid retrieved successfully",
		},
		{
			name:      "no_bids",
			auctionID: "a2",
			mockSetup: func(m *MockBiddingServiceInterface) {
				m.EXPECT().GetWinningBid(gomock.Any(), "a2").Return(models.Bid{}, biddingerrors.ErrNoBids)
			},
			expectedStatus: http.StatusNotFound,
			expectedMsg:    "No bids found for auction.",
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			ctrl := gomock.NewController(t)
			mockService := NewMockBiddingServiceInterface(ctrl)
			tc.mockSetup(mockService)

			router := newTestRouter()
			router.GET("/auctions/:auction_id/winning", NewBiddingHandler(mockService).GetWinningBidHandler)

			w, resp := doRequest(t, router, http.MethodGet, "/auctions/"+tc.auctionID+"/winning", nil, nil)
			require.Equal(t, tc.expectedStatus, w.Code)
			require.Equal(t, tc.expectedMsg, resp["message"])
			if w.Code == http.StatusOK {
				require.Equal(t, true, resp["data"].(map[string]any)["win"])
			}
		})
	}
}

// Test GetMyBidsHandler
func TestGetMyBidsHandler(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	mockService := NewMockBiddingServiceInterface(ctrl)
	mockService.EXPECT().GetBidsByUser(gomock.Any(), "user1").Return([]models.UserBid{
		{Bid: models.Bid{BidID: "b1", AuctionID: "a1", UserID: "user1", Amount: 20}, AuctionTitle: "Lamp"},
	}, nil)
	mockService.EXPECT().GetBidsByUser(gomock.Any(), "").Return(nil, biddingerrors.ErrUnauthenticated)

	router := newTestRouter()
	router.GET("/users/me/bids", NewBiddingHandler(mockService).GetMyBidsHandler)

	user := testUser
	w, resp := doRequest(t, router, http.MethodGet, "/users/me/bids", nil, &user)
	require.Equal(t, http.StatusOK, w.Code)
	data := resp["data"].([]any)
	require.Len(t, data, 1)
	require.Equal(t, "Lamp", data[0].(map[string]any)["auction_title"])

	w, _ = doRequest(t, router, http.MethodGet, "/users/me/bids", nil, nil)
	require.Equal(t, http.StatusUnauthorized, w.Code)
}
