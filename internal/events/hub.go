package events

import "sync"

// subscriberBuffer is how many events a subscriber may fall behind before
// it starts missing them.
const subscriberBuffer = 16

// Hub fans dashboard events out to SSE subscribers. Slow subscribers miss
// events rather than block a state transition.
type Hub struct {
	mu        sync.Mutex
	clients   map[chan string]struct{}
	published uint64
	dropped   uint64
}

// HubStats is what /health reports about the event stream.
type HubStats struct {
	Subscribers int    `json:"subscribers"`
	Published   uint64 `json:"published"`
	Dropped     uint64 `json:"dropped"`
}

func NewHub() *Hub {
	return &Hub{clients: make(map[chan string]struct{})}
}

func (h *Hub) Subscribe() chan string {
	ch := make(chan string, subscriberBuffer)
	h.mu.Lock()
	h.clients[ch] = struct{}{}
	h.mu.Unlock()
	return ch
}

// Unsubscribe removes and closes ch. Unknown channels are ignored.
func (h *Hub) Unsubscribe(ch chan string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[ch]; !ok {
		return
	}
	delete(h.clients, ch)
	close(ch)
}

func (h *Hub) Publish(evt string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.published++
	for ch := range h.clients {
		select {
		case ch <- evt:
		default:
			h.dropped++
		}
	}
}

func (h *Hub) Stats() HubStats {
	h.mu.Lock()
	defer h.mu.Unlock()
	return HubStats{
		Subscribers: len(h.clients),
		Published:   h.published,
		Dropped:     h.dropped,
	}
}
