package ws

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/playmatatu/lanes/internal/game"
)

var (
	errInvalidData = errors.New("invalid intent data")
	errUnknownType = errors.New("unknown message type")
)

// Handler upgrades lane requests to WebSocket connections.
type Handler struct {
	hub      *Hub
	manager  *game.Manager
	upgrader websocket.Upgrader
}

func NewHandler(hub *Hub, manager *game.Manager, checkOrigin func(*http.Request) bool) *Handler {
	return &Handler{
		hub:     hub,
		manager: manager,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     checkOrigin,
		},
	}
}

// ServeLane handles GET /lanes/:id/ws. Token checks happen in middleware.
func (h *Handler) ServeLane(c *gin.Context) {
	laneID := c.Param("id")
	s, err := h.manager.Get(laneID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "lane not found"})
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("[WS] Upgrade error: %v", err)
		return
	}

	client := &Client{
		hub:     h.hub,
		manager: h.manager,
		conn:    conn,
		laneID:  laneID,
		send:    make(chan []byte, 256),
	}
	select {
	case h.hub.register <- client:
	case <-h.hub.done:
		conn.Close()
		return
	}

	snap := s.Snapshot()
	client.sendEvent(game.LaneEvent{Type: game.EventSnapshot, LaneID: laneID, Snapshot: &snap})

	go client.writePump()
	go client.readPump()
}
