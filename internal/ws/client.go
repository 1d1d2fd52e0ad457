package ws

import (
	"encoding/json"
	"log"
	"time"

	"github.com/gorilla/websocket"
	"github.com/playmatatu/lanes/internal/game"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = 30 * time.Second
	maxMessage = 4096
)

// Client is one WebSocket connection watching, and possibly playing, a lane.
type Client struct {
	hub     *Hub
	manager *game.Manager
	conn    *websocket.Conn
	laneID  string
	send    chan []byte
}

// Message is the envelope for everything a client sends.
type Message struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

// IntentData carries the arguments of an intent message.
type IntentData struct {
	Angle     float64 `json:"angle"`
	Power     float64 `json:"power"`
	FromMeter bool    `json:"from_meter"`
	DZ        float64 `json:"dz"`
}

// writePump writes messages to the WebSocket connection
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				log.Printf("[WS] Write error on lane %s: %v", c.laneID, err)
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				log.Printf("[WS] Ping error on lane %s: %v", c.laneID, err)
				return
			}
		}
	}
}

// readPump turns incoming messages into intents until the connection drops.
func (c *Client) readPump() {
	defer func() {
		select {
		case c.hub.unregister <- c:
		case <-c.hub.done:
		}
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessage)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("[WS] Unexpected close on lane %s: %v", c.laneID, err)
			}
			return
		}

		var msg Message
		if err := json.Unmarshal(raw, &msg); err != nil {
			c.sendError("invalid message")
			continue
		}
		c.handleMessage(msg)
	}
}

func (c *Client) handleMessage(msg Message) {
	if msg.Type == "get_state" {
		s, err := c.manager.Get(c.laneID)
		if err != nil {
			c.sendError(err.Error())
			return
		}
		snap := s.Snapshot()
		c.sendEvent(game.LaneEvent{Type: game.EventSnapshot, LaneID: c.laneID, Snapshot: &snap})
		return
	}

	in, err := decodeIntent(msg)
	if err != nil {
		c.sendError(err.Error())
		return
	}
	if err := c.manager.Submit(c.laneID, in); err != nil {
		c.sendError(err.Error())
	}
}

// decodeIntent builds a game intent from a client message.
func decodeIntent(msg Message) (game.Intent, error) {
	var data IntentData
	if len(msg.Data) > 0 {
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			return game.Intent{}, errInvalidData
		}
	}
	in := game.Intent{
		Type:      game.IntentType(msg.Type),
		Angle:     data.Angle,
		Power:     data.Power,
		FromMeter: data.FromMeter,
		DZ:        data.DZ,
	}
	if !in.Valid() {
		return game.Intent{}, errUnknownType
	}
	return in, nil
}

func (c *Client) sendEvent(ev game.LaneEvent) {
	data, err := json.Marshal(ev)
	if err != nil {
		return
	}
	c.trySend(data)
}

// sendError sends an error message to the client
func (c *Client) sendError(message string) {
	data, _ := json.Marshal(map[string]interface{}{
		"type":    "error",
		"message": message,
	})
	c.trySend(data)
}

func (c *Client) trySend(data []byte) {
	defer func() {
		// the hub may have closed send after the lane closed
		recover()
	}()
	select {
	case c.send <- data:
	default:
		log.Printf("[WS] Send buffer full on lane %s, dropping reply", c.laneID)
	}
}
