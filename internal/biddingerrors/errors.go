package biddingerrors

import "errors"

// Repository-level errors
var (
	ErrAuctionNotFound = errors.New("auction not found")
	ErrNoBids          = errors.New("no bids found for auction")
	ErrNotJoined       = errors.New("user has not joined the auction")
)

// business logic errors
var (
	ErrInvalidBid           = errors.New("invalid bid")
	ErrBidTooLow            = errors.New("bid amount too low")
	ErrAuctionNotStarted    = errors.New("auction not started")
	ErrAuctionEnded         = errors.New("auction ended")
	ErrAuctionNotActive     = errors.New("auction not active")
	ErrInvalidAuction       = errors.New("invalid auction")
	ErrStartTimeNotInFuture = errors.New("start time must be in the future")
	ErrEndBeforeStart       = errors.New("end time must be after start time")
	ErrInvalidQuery         = errors.New("invalid query")
	ErrInvalidRequest       = errors.New("invalid request")
	ErrUnauthenticated      = errors.New("unauthenticated")
)

// infrastructure errors
var (
	ErrUnavailable = errors.New("dependency unavailable")
)

// Kind groups errors by how callers should react to them
type Kind int

const (
	KindInternal Kind = iota
	KindNotFound
	KindInvalidState
	KindInvalidInput
	KindUnauthenticated
	KindUnavailable
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindInvalidState:
		return "invalid_state"
	case KindInvalidInput:
		return "invalid_input"
	case KindUnauthenticated:
		return "unauthenticated"
	case KindUnavailable:
		return "unavailable"
	default:
		return "internal"
	}
}

// KindOf classifies err by the first sentinel it wraps
func KindOf(err error) Kind {
	switch {
	case err == nil:
		return KindInternal
	case errors.Is(err, ErrAuctionNotFound), errors.Is(err, ErrNoBids):
		return KindNotFound
	case errors.Is(err, ErrAuctionNotStarted), errors.Is(err, ErrAuctionEnded),
		errors.Is(err, ErrAuctionNotActive), errors.Is(err, ErrNotJoined):
		return KindInvalidState
	case errors.Is(err, ErrInvalidBid), errors.Is(err, ErrBidTooLow), errors.Is(err, ErrInvalidAuction),
		errors.Is(err, ErrStartTimeNotInFuture), errors.Is(err, ErrEndBeforeStart),
		errors.Is(err, ErrInvalidQuery), errors.Is(err, ErrInvalidRequest):
		return KindInvalidInput
	case errors.Is(err, ErrUnauthenticated):
		return KindUnauthenticated
	case errors.Is(err, ErrUnavailable):
		return KindUnavailable
	default:
		return KindInternal
	}
}

// UserMessage returns the human-readable reason shown to bidders
func UserMessage(err error) string {
	switch {
	case errors.Is(err, ErrAuctionNotFound):
		return "Auction not found."
	case errors.Is(err, ErrAuctionNotStarted):
		return "Auction not started yet."
	case errors.Is(err, ErrAuctionEnded):
		return "Auction ended."
	case errors.Is(err, ErrAuctionNotActive):
		return "Auction not active."
	case errors.Is(err, ErrBidTooLow):
		return "Bid amount must be higher than current highest bid."
	case errors.Is(err, ErrInvalidBid):
		return "Invalid bid."
	case errors.Is(err, ErrNotJoined):
		return "You have not joined this auction."
	case errors.Is(err, ErrUnauthenticated):
		return "Authentication required."
	case errors.Is(err, ErrStartTimeNotInFuture):
		return "Start time must be in the future."
	case errors.Is(err, ErrEndBeforeStart):
		return "End time must be after start time."
	case errors.Is(err, ErrInvalidAuction):
		return "Invalid auction details."
	case errors.Is(err, ErrInvalidQuery):
		return "Invalid query."
	case errors.Is(err, ErrInvalidRequest):
		return "Invalid request."
	case errors.Is(err, ErrNoBids):
		return "No bids found for auction."
	case errors.Is(err, ErrUnavailable):
		return "Service temporarily unavailable, please retry."
	default:
		return "Something went wrong."
	}
}
