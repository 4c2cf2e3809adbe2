package agent

import (
	"log/slog"
	"sync"

	"github.com/nstehr/vimy/vimy-sim/ipc"
)

// outboxSize is how many broadcasts a client may fall behind before it is
// dropped.
const outboxSize = 64

// subscriber pairs a connection with its pending broadcasts. A dedicated
// writer goroutine drains out.
type subscriber struct {
	conn *ipc.Connection
	out  chan ipc.Envelope
}

// Hub is the Publisher used in production. Publish never blocks on a client:
// each connection has a bounded outbox and clients that overflow it or fail
// a write are dropped.
type Hub struct {
	mu   sync.Mutex
	subs map[*ipc.Connection]*subscriber
}

func NewHub() *Hub {
	return &Hub{subs: make(map[*ipc.Connection]*subscriber)}
}

func (h *Hub) Subscribe(c *ipc.Connection) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.subs[c]; ok {
		return
	}
	s := &subscriber{conn: c, out: make(chan ipc.Envelope, outboxSize)}
	h.subs[c] = s
	go h.writeLoop(s)
}

// Unsubscribe is safe to call for connections that were never subscribed or
// were already dropped.
func (h *Hub) Unsubscribe(c *ipc.Connection) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.removeLocked(c)
}

func (h *Hub) removeLocked(c *ipc.Connection) bool {
	s, ok := h.subs[c]
	if !ok {
		return false
	}
	delete(h.subs, c)
	close(s.out)
	return true
}

func (h *Hub) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}

func (h *Hub) Publish(msgType string, data any) {
	env, err := ipc.NewEnvelope(msgType, data)
	if err != nil {
		slog.Error("failed to encode broadcast", "type", msgType, "error", err)
		return
	}

	var overflowed []*ipc.Connection
	h.mu.Lock()
	for c, s := range h.subs {
		select {
		case s.out <- env:
		default:
			h.removeLocked(c)
			overflowed = append(overflowed, c)
		}
	}
	h.mu.Unlock()

	for _, c := range overflowed {
		slog.Warn("dropping slow client", "client", c.Client, "type", msgType)
		c.Close()
	}
}

func (h *Hub) writeLoop(s *subscriber) {
	for env := range s.out {
		if err := s.conn.SendEnvelope(env); err != nil {
			h.mu.Lock()
			dropped := h.removeLocked(s.conn)
			h.mu.Unlock()
			if dropped {
				slog.Warn("dropping client", "client", s.conn.Client, "type", env.Type, "error", err)
			}
			s.conn.Close()
			return
		}
	}
}
