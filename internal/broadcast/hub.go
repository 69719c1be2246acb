package broadcast

import (
	"sort"
	"strings"
	"sync"
	"time"

	"live-auction/internal/metrics"
	"live-auction/utils"
)

// Room name prefixes
const (
	AuctionRoomPrefix = "auctionRoom:"
	UserRoomPrefix    = "user:"
)

// AuctionRoom returns the room of everyone following an auction
func AuctionRoom(auctionID string) string {
	return AuctionRoomPrefix + auctionID
}

// UserRoom returns the private room of a user
func UserRoom(userID string) string {
	return UserRoomPrefix + userID
}

// Message is a named event delivered to a channel
type Message struct {
	Event     string    `json:"event"`
	Room      string    `json:"room,omitempty"`
	Data      any       `json:"data"`
	Timestamp time.Time `json:"timestamp"`
}

// Channel is one connected client. Send must not block for long.
type Channel interface {
	ID() string
	Send(msg Message) error
}

// Hub owns room membership. Other components only ask it to deliver.
type Hub struct {
	mu       sync.RWMutex
	channels map[string]Channel
	rooms    map[string]map[string]Channel // room -> channelID -> channel
	joined   map[string]map[string]struct{} // channelID -> rooms
}

// NewHub creates an empty Hub
func NewHub() *Hub {
	return &Hub{
		channels: make(map[string]Channel),
		rooms:    make(map[string]map[string]Channel),
		joined:   make(map[string]map[string]struct{}),
	}
}

// Connect registers a channel for global broadcasts
func (h *Hub) Connect(ch Channel) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.connectLocked(ch)
}

// Disconnect removes the channel and every room membership it held
func (h *Hub) Disconnect(channelID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.channels[channelID]; !ok {
		return
	}
	for room := range h.joined[channelID] {
		h.removeLocked(room, channelID)
	}
	delete(h.joined, channelID)
	delete(h.channels, channelID)
	metrics.ConnectedChannels.Dec()
}

// Join adds the channel to room, connecting it first if needed
func (h *Hub) Join(room string, ch Channel) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.connectLocked(ch)
	if h.rooms[room] == nil {
		h.rooms[room] = make(map[string]Channel)
	}
	h.rooms[room][ch.ID()] = ch
	h.joined[ch.ID()][room] = struct{}{}
}

// Leave removes the channel from room. Unknown memberships are ignored.
func (h *Hub) Leave(room, channelID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.removeLocked(room, channelID)
	if rooms, ok := h.joined[channelID]; ok {
		delete(rooms, room)
	}
}

// Broadcast delivers event to every member of room and returns how many sends succeeded
func (h *Hub) Broadcast(room, event string, data any) int {
	h.mu.RLock()
	members := make([]Channel, 0, len(h.rooms[room]))
	for _, ch := range h.rooms[room] {
		members = append(members, ch)
	}
	h.mu.RUnlock()

	return deliver(members, Message{Event: event, Room: room, Data: data, Timestamp: time.Now().UTC()})
}

// BroadcastGlobal delivers event to every connected channel
func (h *Hub) BroadcastGlobal(event string, data any) int {
	h.mu.RLock()
	all := make([]Channel, 0, len(h.channels))
	for _, ch := range h.channels {
		all = append(all, ch)
	}
	h.mu.RUnlock()

	return deliver(all, Message{Event: event, Data: data, Timestamp: time.Now().UTC()})
}

// Members returns the channel IDs in room, sorted
func (h *Hub) Members(room string) []string {
	h.mu.RLock()
	defer h.mu.RUnlock()

	ids := make([]string, 0, len(h.rooms[room]))
	for id := range h.rooms[room] {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Count returns the number of channels in room
func (h *Hub) Count(room string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[room])
}

// Rooms returns member counts of rooms whose name starts with prefix
func (h *Hub) Rooms(prefix string) map[string]int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	out := make(map[string]int)
	for room, members := range h.rooms {
		if strings.HasPrefix(room, prefix) {
			out[room] = len(members)
		}
	}
	return out
}

// Connected returns the number of connected channels
func (h *Hub) Connected() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.channels)
}

func (h *Hub) connectLocked(ch Channel) {
	if _, ok := h.channels[ch.ID()]; ok {
		return
	}
	h.channels[ch.ID()] = ch
	h.joined[ch.ID()] = make(map[string]struct{})
	metrics.ConnectedChannels.Inc()
}

func (h *Hub) removeLocked(room, channelID string) {
	members, ok := h.rooms[room]
	if !ok {
		return
	}
	delete(members, channelID)
	if len(members) == 0 {
		delete(h.rooms, room)
	}
}

// deliver runs outside the hub lock. Failures are logged and dropped.
func deliver(targets []Channel, msg Message) int {
	delivered := 0
	for _, ch := range targets {
		if err := ch.Send(msg); err != nil {
			metrics.BroadcastDeliveries.WithLabelValues(msg.Event, "failed").Inc()
			utils.Warn("broadcast: delivery failed", map[string]any{
				"event":      msg.Event,
				"room":       msg.Room,
				"channel_id": ch.ID(),
				"error":      err.Error(),
			})
			continue
		}
		metrics.BroadcastDeliveries.WithLabelValues(msg.Event, "ok").Inc()
		delivered++
	}
	return delivered
}
