// internal/httpserver/events.go
//
// Round event stream over WebSocket.
// Each connection subscribes to its player's events. Publishing never
// blocks the round: a subscriber whose buffer is full misses the event
// (the client can resync with GET /round). Pings keep idle proxies open.
package httpserver

import (
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/connections/internal/round"
)

const (
	eventBuffer    = 16
	eventHeartbeat = 30 * time.Second
	writeWait      = 10 * time.Second
)

// subscriber is one open event stream.
type subscriber struct {
	ch     chan round.Event
	player string
}

// Hub fans round events out to the player's connections.
type Hub struct {
	mu       sync.RWMutex
	subs     map[*subscriber]struct{}
	upgrader websocket.Upgrader
}

// NewHub accepts browser upgrades from origin only; requests without an
// Origin header (non-browser clients) are always accepted.
func NewHub(origin string) *Hub {
	return &Hub{
		subs: make(map[*subscriber]struct{}),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				o := r.Header.Get("Origin")
				return o == "" || o == origin
			},
		},
	}
}

// Subscribe registers a stream for player.
func (h *Hub) Subscribe(player string) *subscriber {
	s := &subscriber{ch: make(chan round.Event, eventBuffer), player: player}
	h.mu.Lock()
	h.subs[s] = struct{}{}
	h.mu.Unlock()
	return s
}

// Unsubscribe removes s and closes its channel.
func (h *Hub) Unsubscribe(s *subscriber) {
	h.mu.Lock()
	if _, ok := h.subs[s]; ok {
		delete(h.subs, s)
		close(s.ch)
	}
	h.mu.Unlock()
}

// Publish delivers e to every stream of player without blocking.
func (h *Hub) Publish(player string, e round.Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for s := range h.subs {
		if s.player != player {
			continue
		}
		select {
		case s.ch <- e:
		default:
			log.Debug().Str("player", player).Str("event", string(e.Kind)).Msg("event dropped for slow subscriber")
		}
	}
}

// Count returns the number of open streams for player.
func (h *Hub) Count(player string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	n := 0
	for s := range h.subs {
		if s.player == player {
			n++
		}
	}
	return n
}

// ServeWS upgrades the request and streams player's events as JSON text
// frames until either side goes away.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request, player string) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Warn().Err(err).Msg("websocket upgrade")
		return
	}
	defer conn.Close()

	s := h.Subscribe(player)
	defer h.Unsubscribe(s)

	// Reader: the stream is one-way, but reading is needed to see close frames.
	gone := make(chan struct{})
	go func() {
		defer close(gone)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(eventHeartbeat)
	defer ticker.Stop()

	for {
		select {
		case <-gone:
			return
		case <-r.Context().Done():
			return
		case e, ok := <-s.ch:
			if !ok {
				return
			}
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteJSON(e); err != nil {
				return
			}
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return
			}
		}
	}
}
