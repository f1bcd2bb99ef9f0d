// Package web serves a read-only spectator feed of the running game over
// websockets.
package web

import (
	"encoding/json"
	"log"
	"sync"

	"github.com/tmorr/voxtrivia/internal/game"
)

// Hub fans game state out to connected spectators. It implements
// game.EventSink so it can be wired straight into the engine.
type Hub struct {
	mu      sync.RWMutex
	clients map[chan []byte]struct{}
	last    []byte
}

func NewHub() *Hub {
	return &Hub{clients: make(map[chan []byte]struct{})}
}

// Subscribe returns a channel of marshaled events. If a game state has
// already been published, it is replayed immediately so a late spectator
// does not join blind.
func (h *Hub) Subscribe() chan []byte {
	ch := make(chan []byte, 64)
	h.mu.Lock()
	h.clients[ch] = struct{}{}
	if h.last != nil {
		ch <- h.last
	}
	h.mu.Unlock()
	return ch
}

func (h *Hub) Unsubscribe(ch chan []byte) {
	h.mu.Lock()
	delete(h.clients, ch)
	h.mu.Unlock()
	close(ch)
}

// GameChanged implements game.EventSink. Slow spectators drop messages
// rather than stalling the game loop.
func (h *Hub) GameChanged(s game.Snapshot) {
	payload, err := json.Marshal(gameStateEvent(s))
	if err != nil {
		log.Printf("event marshal error: %v", err)
		return
	}

	h.mu.Lock()
	h.last = payload
	for ch := range h.clients {
		select {
		case ch <- payload:
		default:
		}
	}
	h.mu.Unlock()
}
