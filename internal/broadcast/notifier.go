package broadcast

import (
	"fmt"

	"live-auction/internal/models"

	"github.com/shopspring/decimal"
)

// Event names seen by clients
const (
	EventNewBid       = "newBid"
	EventNotification = "notification"
	EventAuctionEnd   = "auctionEnd"
)

// Notification is the payload of EventNotification
type Notification struct {
	Message   string `json:"message"`
	AuctionID string `json:"auction_id,omitempty"`
}

// Notifier turns domain events into room broadcasts
type Notifier struct {
	hub *Hub
}

// NewNotifier creates a Notifier delivering through hub
func NewNotifier(hub *Hub) *Notifier {
	return &Notifier{hub: hub}
}

// BidPlaced tells the auction room about an accepted bid
func (n *Notifier) BidPlaced(bid models.Bid) {
	room := AuctionRoom(bid.AuctionID)
	n.hub.Broadcast(room, EventNewBid, bid)
	n.hub.Broadcast(room, EventNotification, Notification{
		Message:   fmt.Sprintf("%s placed a bid of %s on the auction.", displayName(bid.BidderName, bid.UserID), FormatAmount(bid.Amount)),
		AuctionID: bid.AuctionID,
	})
}

// RoomNotification sends a free-text notification to the auction room
func (n *Notifier) RoomNotification(auctionID, message string) {
	n.hub.Broadcast(AuctionRoom(auctionID), EventNotification, Notification{Message: message, AuctionID: auctionID})
}

// UserNotification sends a private notification to every channel of a user
func (n *Notifier) UserNotification(userID, message string) {
	n.hub.Broadcast(UserRoom(userID), EventNotification, Notification{Message: message})
}

// AuctionEnded announces a completed auction to everyone connected
func (n *Notifier) AuctionEnded(result models.AuctionResult) {
	if result.HasWinner() {
		n.hub.BroadcastGlobal(EventNotification, Notification{
			Message:   fmt.Sprintf("%s has won the auction: %s", displayName(result.WinnerName, result.WinnerID), result.Title),
			AuctionID: result.AuctionID,
		})
	}
	n.hub.BroadcastGlobal(EventAuctionEnd, struct {
		models.AuctionResult
		Message string `json:"message"`
	}{result, fmt.Sprintf("%s has ended", result.Title)})
}

// FormatAmount renders a monetary amount with two decimals
func FormatAmount(amount float64) string {
	return decimal.NewFromFloat(amount).StringFixed(2)
}

func displayName(name, fallback string) string {
	if name != "" {
		return name
	}
	return fallback
}
