package models

import "time"

// Sources of a resolved auction
const (
	SourceCache = "cache"
	SourceStore = "store"
)

// AuctionSnapshot is the cached projection of an active auction
type AuctionSnapshot struct {
	AuctionID            string        `json:"id"`
	Title                string        `json:"title"`
	ItemID               *string       `json:"item_id,omitempty"`
	StartTime            time.Time     `json:"start_time"`
	EndTime              time.Time     `json:"end_time"`
	Status               AuctionStatus `json:"status"`
	StartingBid          float64       `json:"starting_bid"`
	CurrentHighestBid    float64       `json:"current_highest_bid"`
	ParticipantsCount    int           `json:"participants_count"`
	AllParticipantsCount int           `json:"all_participants_count"`
	LastUpdated          time.Time     `json:"last_updated"`
}

// AuctionView is what readers of an auction see, whichever layer served it
type AuctionView struct {
	AuctionID            string        `json:"auction_id"`
	Title                string        `json:"title"`
	ItemID               *string       `json:"item_id,omitempty"`
	OwnerID              string        `json:"owner_id,omitempty"`
	StartTime            time.Time     `json:"start_time"`
	EndTime              time.Time     `json:"end_time"`
	Status               AuctionStatus `json:"status"`
	StartingBid          float64       `json:"starting_bid"`
	CurrentHighestBid    float64       `json:"current_highest_bid"`
	ParticipantsCount    int           `json:"participants_count"`
	AllParticipantsCount int           `json:"all_participants_count"`
	WinnerID             *string       `json:"winner_id,omitempty"`
	Source               string        `json:"source"`
	Bids                 []Bid         `json:"bids,omitempty"`
}

// Snapshot projects the durable record into its cached form
func (a Auction) Snapshot(now time.Time) AuctionSnapshot {
	return AuctionSnapshot{
		AuctionID:            a.AuctionID,
		Title:                a.Title,
		ItemID:               a.ItemID,
		StartTime:            a.StartTime,
		EndTime:              a.EndTime,
		Status:               a.Status,
		StartingBid:          a.StartingBid,
		CurrentHighestBid:    a.CurrentHighestBid,
		ParticipantsCount:    len(a.Participants),
		AllParticipantsCount: len(a.AllParticipants),
		LastUpdated:          now,
	}
}

// View builds a reader view from the durable record
func (a Auction) View() AuctionView {
	return AuctionView{
		AuctionID:            a.AuctionID,
		Title:                a.Title,
		ItemID:               a.ItemID,
		OwnerID:              a.OwnerID,
		StartTime:            a.StartTime,
		EndTime:              a.EndTime,
		Status:               a.Status,
		StartingBid:          a.StartingBid,
		CurrentHighestBid:    a.CurrentHighestBid,
		ParticipantsCount:    len(a.Participants),
		AllParticipantsCount: len(a.AllParticipants),
		WinnerID:             a.WinnerID,
		Source:               SourceStore,
	}
}

// View builds a reader view from the cached snapshot
func (s AuctionSnapshot) View() AuctionView {
	return AuctionView{
		AuctionID:            s.AuctionID,
		Title:                s.Title,
		ItemID:               s.ItemID,
		StartTime:            s.StartTime,
		EndTime:              s.EndTime,
		Status:               s.Status,
		StartingBid:          s.StartingBid,
		CurrentHighestBid:    s.CurrentHighestBid,
		ParticipantsCount:    s.ParticipantsCount,
		AllParticipantsCount: s.AllParticipantsCount,
		Source:               SourceCache,
	}
}

// IsOpen reports whether the auction accepts bids at now
func (v AuctionView) IsOpen(now time.Time) bool {
	return v.Status == StatusActive && !now.Before(v.StartTime) && !now.After(v.EndTime)
}
