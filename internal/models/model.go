package models

import "time"

// AuctionStatus is the lifecycle state of an auction
type AuctionStatus string

const (
	StatusInactive  AuctionStatus = "inactive"
	StatusActive    AuctionStatus = "active"
	StatusCompleted AuctionStatus = "completed"
)

// Valid reports whether s is a known status
func (s AuctionStatus) Valid() bool {
	switch s {
	case StatusInactive, StatusActive, StatusCompleted:
		return true
	}
	return false
}

// User represents the authenticated caller. Identity is supplied by the gateway.
type User struct {
	UserID string `json:"user_id"`
	Name   string `json:"name"`
}

// Auction is the durable record of a time-boxed auction
type Auction struct {
	AuctionID         string        `json:"auction_id" gorm:"primaryKey;type:varchar(36)"`
	ItemID            *string       `json:"item_id,omitempty" gorm:"type:varchar(64)"`
	OwnerID           string        `json:"owner_id" gorm:"index;not null"`
	Title             string        `json:"title" gorm:"not null"`
	StartTime         time.Time     `json:"start_time" gorm:"index;not null"`
	EndTime           time.Time     `json:"end_time" gorm:"index;not null"`
	StartingBid       float64       `json:"starting_bid" gorm:"not null"`
	CurrentHighestBid float64       `json:"current_highest_bid" gorm:"not null"`
	Status            AuctionStatus `json:"status" gorm:"type:varchar(16);index;not null"`
	WinnerID          *string       `json:"winner_id,omitempty" gorm:"type:varchar(64)"`
	WinningBidID      *string       `json:"winning_bid_id,omitempty" gorm:"type:varchar(36)"`

	// loaded from auction_participants
	Participants    []string `json:"participants" gorm:"-"`
	AllParticipants []string `json:"all_participants" gorm:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Participant links a user to an auction. Active is false once the user left;
// the row itself is never removed so the all-participants history stays intact.
type Participant struct {
	AuctionID string    `gorm:"primaryKey;type:varchar(36)"`
	UserID    string    `gorm:"primaryKey;type:varchar(64)"`
	Active    bool      `gorm:"not null"`
	JoinedAt  time.Time `gorm:"not null"`
}

// TableName overrides the gorm default
func (Participant) TableName() string {
	return "auction_participants"
}

// Bid represents a user's bid on an auction
type Bid struct {
	BidID      string    `json:"bid_id" gorm:"primaryKey;type:varchar(36)"`
	AuctionID  string    `json:"auction_id" gorm:"index;not null"`
	UserID     string    `json:"user_id" gorm:"index;not null"`
	BidderName string    `json:"bidder_name"`
	Amount     float64   `json:"amount" gorm:"not null"`
	Win        bool      `json:"win" gorm:"not null;default:false"`
	CreatedAt  time.Time `json:"created_at" gorm:"index"`
}

// UserBid is a bid together with the title of the auction it was placed on
type UserBid struct {
	Bid
	AuctionTitle string `json:"auction_title"`
}

// NewAuction carries the fields a seller supplies when creating an auction
type NewAuction struct {
	Title       string
	ItemID      *string
	StartTime   time.Time
	EndTime     time.Time
	StartingBid float64
}

// AuctionQuery is the listing request
type AuctionQuery struct {
	Page   int
	Limit  int
	Status AuctionStatus
	Search string
}

// Pagination describes one page of a listing
type Pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
	HasNext    bool  `json:"has_next"`
	HasPrev    bool  `json:"has_prev"`
}

// AuctionPage is a page of auctions
type AuctionPage struct {
	Auctions   []Auction  `json:"auctions"`
	Pagination Pagination `json:"pagination"`
}

// AuctionStatusView is the lightweight status poll response
type AuctionStatusView struct {
	AuctionID         string        `json:"auction_id"`
	Status            AuctionStatus `json:"status"`
	CurrentHighestBid float64       `json:"current_highest_bid"`
	ParticipantsCount int           `json:"participants_count"`
	EndTime           time.Time     `json:"end_time"`
	IsActive          bool          `json:"is_active"`
}

// AuctionResult is announced once an auction completes
type AuctionResult struct {
	AuctionID    string  `json:"auction_id"`
	Title        string  `json:"title"`
	WinnerID     string  `json:"winner_id,omitempty"`
	WinnerName   string  `json:"winner_name,omitempty"`
	WinningBidID string  `json:"winning_bid_id,omitempty"`
	Amount       float64 `json:"amount,omitempty"`
}

// HasWinner reports whether the auction closed with at least one bid
func (r AuctionResult) HasWinner() bool {
	return r.WinningBidID != ""
}

// SweepReport summarises one lifecycle sweep
type SweepReport struct {
	Scanned      int `json:"scanned"`
	Transitioned int `json:"transitioned"`
	Failed       int `json:"failed"`
}
