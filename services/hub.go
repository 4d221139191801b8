package services

import (
	"sync"

	"github.com/addisbingo/cartela-backend/game"
	"go.uber.org/zap"
)

// Hub is the broadcast gateway: it tracks which clients are subscribed
// to which room and fans egress events out to them. It implements
// game.Broadcaster; the core publishes through it and never hears back.
type Hub struct {
	mu    sync.RWMutex
	rooms map[string]map[*Client]bool
	log   *zap.SugaredLogger
}

func NewHub(log *zap.SugaredLogger) *Hub {
	return &Hub{
		rooms: make(map[string]map[*Client]bool),
		log:   log,
	}
}

func (h *Hub) register(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	subs, ok := h.rooms[c.roomID]
	if !ok {
		subs = make(map[*Client]bool)
		h.rooms[c.roomID] = subs
	}
	subs[c] = true
}

// unregister removes the client and closes its send channel. The hub is
// the only closer of send, and it only ever closes under the write lock,
// so a fan-out in progress can never hit a closed channel.
func (h *Hub) unregister(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	subs, ok := h.rooms[c.roomID]
	if !ok {
		return
	}
	if _, subscribed := subs[c]; !subscribed {
		return
	}
	delete(subs, c)
	close(c.send)
	if len(subs) == 0 {
		delete(h.rooms, c.roomID)
	}
}

// Publish sends one event to every subscriber of the room. Slow
// consumers get dropped frames, never a stalled room: the next
// number_called frame carries the full history anyway. The read lock is
// held across the sends; they are non-blocking, and holding it is what
// keeps a concurrent unregister from closing a channel mid-fan-out.
func (h *Hub) Publish(roomID, eventType string, payload any) {
	frame, err := game.Encode(eventType, payload)
	if err != nil {
		h.log.Errorw("event encode failed", "room", roomID, "event", eventType, "error", err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.rooms[roomID] {
		select {
		case c.send <- frame:
		default:
			h.log.Infow("dropping frame for slow consumer",
				"room", roomID, "player", c.playerID, "event", eventType)
		}
	}
}
