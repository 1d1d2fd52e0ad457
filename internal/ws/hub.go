package ws

import (
	"context"
	"encoding/json"
	"log"
	"sync"

	"github.com/playmatatu/lanes/internal/game"
)

// Hub maintains the set of connected clients grouped by lane.
type Hub struct {
	rooms      map[string]map[*Client]bool // laneID -> clients
	register   chan *Client
	unregister chan *Client
	done       chan struct{}
	mu         sync.RWMutex
}

// NewHub creates a new Hub. Run must be started before clients register.
func NewHub() *Hub {
	return &Hub{
		rooms:      make(map[string]map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
	}
}

// Run processes registrations until ctx is cancelled, then drops every
// client.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			h.mu.Lock()
			for laneID, room := range h.rooms {
				for c := range room {
					close(c.send)
				}
				delete(h.rooms, laneID)
			}
			h.mu.Unlock()
			return

		case c := <-h.register:
			h.mu.Lock()
			room, ok := h.rooms[c.laneID]
			if !ok {
				room = make(map[*Client]bool)
				h.rooms[c.laneID] = room
			}
			room[c] = true
			size := len(room)
			h.mu.Unlock()
			log.Printf("[WS] Client joined lane %s (watchers=%d)", c.laneID, size)

		case c := <-h.unregister:
			h.mu.Lock()
			if room, ok := h.rooms[c.laneID]; ok && room[c] {
				delete(room, c)
				close(c.send)
				if len(room) == 0 {
					delete(h.rooms, c.laneID)
				}
				log.Printf("[WS] Client left lane %s", c.laneID)
			}
			h.mu.Unlock()
		}
	}
}

// Broadcast sends a lane event to everyone watching that lane. A closed
// event also disconnects them.
func (h *Hub) Broadcast(ev game.LaneEvent) {
	data, err := json.Marshal(ev)
	if err != nil {
		log.Printf("[WS] Error marshaling %s event: %v", ev.Type, err)
		return
	}

	if ev.Type == game.EventClosed {
		h.mu.Lock()
		defer h.mu.Unlock()
		for c := range h.rooms[ev.LaneID] {
			select {
			case c.send <- data:
			default:
			}
			close(c.send)
		}
		delete(h.rooms, ev.LaneID)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.rooms[ev.LaneID] {
		select {
		case c.send <- data:
		default:
			log.Printf("[WS] Send buffer full on lane %s, dropping %s", ev.LaneID, ev.Type)
		}
	}
}

// Watchers returns how many clients are connected to a lane.
func (h *Hub) Watchers(laneID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[laneID])
}
