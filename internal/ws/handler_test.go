package ws

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/playmatatu/lanes/internal/game"
	"github.com/playmatatu/lanes/internal/physics"
)

func setupServer(t *testing.T) (*httptest.Server, *game.Manager) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	m := game.NewManager(nil, nil, game.ManagerOptions{
		Settings: game.DefaultSettings(),
		NewWorld: func(l game.Lane) game.World {
			return physics.NewWorld(l, physics.DefaultParams())
		},
		TickRateHz: 200,
	})
	t.Cleanup(m.Shutdown)

	hub := startHub(t)
	m.Subscribe(hub.Broadcast)

	router := gin.New()
	h := NewHandler(hub, m, func(*http.Request) bool { return true })
	router.GET("/lanes/:id/ws", h.ServeLane)

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return srv, m
}

func dial(t *testing.T, srv *httptest.Server, laneID string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/lanes/" + laneID + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

// readUntil reads messages until one has the wanted type.
func readUntil(t *testing.T, conn *websocket.Conn, typ string) map[string]interface{} {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(3 * time.Second))
	for {
		var msg map[string]interface{}
		if err := conn.ReadJSON(&msg); err != nil {
			t.Fatalf("reading for %q: %v", typ, err)
		}
		if msg["type"] == typ {
			return msg
		}
	}
}

func TestServeLaneSendsInitialSnapshot(t *testing.T) {
	srv, m := setupServer(t)
	s, err := m.Create("ada", "")
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	conn := dial(t, srv, s.ID)
	msg := readUntil(t, conn, game.EventSnapshot)
	if msg["lane_id"] != s.ID {
		t.Errorf("lane_id = %v", msg["lane_id"])
	}
	snap, ok := msg["snapshot"].(map[string]interface{})
	if !ok || snap["phase"] != string(game.PhaseReady) {
		t.Errorf("snapshot = %v", msg["snapshot"])
	}
}

func TestServeLaneIntentsAndErrors(t *testing.T) {
	srv, m := setupServer(t)
	s, _ := m.Create("ada", "")
	conn := dial(t, srv, s.ID)
	readUntil(t, conn, game.EventSnapshot)

	if err := conn.WriteJSON(map[string]interface{}{"type": "juggle"}); err != nil {
		t.Fatalf("write: %v", err)
	}
	errMsg := readUntil(t, conn, "error")
	if errMsg["message"] != errUnknownType.Error() {
		t.Errorf("error message = %v", errMsg["message"])
	}

	conn.WriteJSON(map[string]interface{}{"type": "release", "data": map[string]float64{"angle": 0, "power": 1}})
	conn.WriteJSON(map[string]interface{}{"type": "debug_skip"})
	roll := readUntil(t, conn, game.EventRoll)
	ev, _ := roll["roll"].(map[string]interface{})
	if ev == nil || ev["frame"] != float64(0) || ev["roll"] != float64(0) {
		t.Errorf("roll = %v", roll["roll"])
	}
}

func TestServeLaneUnknownLane(t *testing.T) {
	srv, _ := setupServer(t)
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/lanes/lane_missing/ws"
	_, resp, err := websocket.DefaultDialer.Dial(url, nil)
	if err == nil {
		t.Fatal("expected dial to fail")
	}
	if resp == nil || resp.StatusCode != http.StatusNotFound {
		t.Errorf("response = %v", resp)
	}
}

func TestServeLaneClosedLaneDisconnects(t *testing.T) {
	srv, m := setupServer(t)
	s, _ := m.Create("ada", "")
	conn := dial(t, srv, s.ID)
	readUntil(t, conn, game.EventSnapshot)

	if err := m.Close(s.ID, "test"); err != nil {
		t.Fatalf("close: %v", err)
	}
	readUntil(t, conn, game.EventClosed)

	conn.SetReadDeadline(time.Now().Add(3 * time.Second))
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
}
