package server

import (
	"net/http"

	"live-auction/internal/broadcast"
	"live-auction/internal/scheduler"
	handler "live-auction/services/bidding/handler"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Dependencies are the services the HTTP surface is wired to
type Dependencies struct {
	Auctions  handler.AuctionServiceInterface
	Bidding   handler.BiddingServiceInterface
	Hub       *broadcast.Hub
	Publisher scheduler.Publisher
}

// SetupRouter configures all Gin routes for the application
func SetupRouter(deps Dependencies) *gin.Engine {
	router := gin.New() // New router without default middleware for full control over middleware and logging

	router.Use(gin.Recovery())          // recover from panics
	router.Use(IdentityMiddleware)      // trusted gateway identity
	router.Use(PrometheusMiddleware())  // request metrics
	router.Use(RequestLoggerMiddleware) // custom request logging

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	auctionHandler := handler.NewAuctionHandler(deps.Auctions)
	biddingHandler := handler.NewBiddingHandler(deps.Bidding)
	realtimeHandler := handler.NewRealtimeHandler(deps.Hub, deps.Auctions, deps.Bidding)
	roomHandler := handler.NewRoomHandler(deps.Hub)

	// the websocket accepts identity from the query string as well
	router.GET("/ws", realtimeHandler.ServeWS)
	router.GET("/rooms", roomHandler.ListRoomsHandler)

	auctions := router.Group("/auctions")
	{
		auctions.GET("", auctionHandler.ListAuctionsHandler)
		auctions.GET("/:auction_id", auctionHandler.GetAuctionHandler)
		auctions.GET("/:auction_id/status", auctionHandler.GetAuctionStatusHandler)
		auctions.GET("/:auction_id/bids", biddingHandler.GetBidsByAuctionHandler)
		auctions.GET("/:auction_id/winning", biddingHandler.GetWinningBidHandler)

		auctions.POST("", RequireIdentity, auctionHandler.CreateAuctionHandler)
		auctions.POST("/:auction_id/join", RequireIdentity, auctionHandler.JoinAuctionHandler)
		auctions.POST("/:auction_id/leave", RequireIdentity, auctionHandler.LeaveAuctionHandler)
	}

	bids := router.Group("/bids", RequireIdentity)
	{
		bids.POST("", biddingHandler.RecordBidHandler)
	}

	users := router.Group("/users", RequireIdentity)
	{
		users.GET("/me/bids", biddingHandler.GetMyBidsHandler)
	}

	if deps.Publisher != nil {
		internal := router.Group("/internal")
		{
			internal.POST("/triggers", handler.NewTriggerHandler(deps.Publisher).FireTriggerHandler)
		}
	}

	return router
}
