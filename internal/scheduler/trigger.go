package scheduler

import (
	"errors"
	"fmt"
	"time"
)

// Trigger names a lifecycle sweep
type Trigger string

const (
	SaveActiveAuctions     Trigger = "SAVE_ACTIVE_AUCTIONS"
	AnnounceAuctionResults Trigger = "ANNOUNCE_AUCTION_RESULTS"
)

// Triggers lists every known trigger in the order the ticker publishes them
var Triggers = []Trigger{SaveActiveAuctions, AnnounceAuctionResults}

// ErrUnknownTrigger is returned for messages naming no known sweep
var ErrUnknownTrigger = errors.New("unknown trigger")

// Subject returns the NATS subject a trigger travels on
func (t Trigger) Subject() string {
	switch t {
	case SaveActiveAuctions:
		return "auctions.save"
	case AnnounceAuctionResults:
		return "auctions.announce.results"
	}
	return ""
}

// Valid reports whether t is a known trigger
func (t Trigger) Valid() bool {
	return t.Subject() != ""
}

// TriggerForSubject maps a subject back to its trigger
func TriggerForSubject(subject string) (Trigger, bool) {
	for _, t := range Triggers {
		if t.Subject() == subject {
			return t, true
		}
	}
	return "", false
}

// Message is the payload carried by every transport
type Message struct {
	Trigger   Trigger   `json:"trigger"`
	Timestamp time.Time `json:"timestamp"`
}

// NewMessage stamps a trigger with the given time
func NewMessage(trigger Trigger, at time.Time) Message {
	return Message{Trigger: trigger, Timestamp: at.UTC()}
}

func (m Message) Validate() error {
	if !m.Trigger.Valid() {
		return fmt.Errorf("scheduler: %w %q", ErrUnknownTrigger, m.Trigger)
	}
	return nil
}
