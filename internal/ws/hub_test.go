package ws

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/playmatatu/lanes/internal/game"
)

func startHub(t *testing.T) *Hub {
	t.Helper()
	h := NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	go h.Run(ctx)
	t.Cleanup(func() {
		cancel()
		<-h.done
	})
	return h
}

func join(t *testing.T, h *Hub, laneID string) *Client {
	t.Helper()
	c := &Client{hub: h, laneID: laneID, send: make(chan []byte, 8)}
	h.register <- c
	return c
}

func waitWatchers(t *testing.T, h *Hub, laneID string, want int) {
	t.Helper()
	deadline := time.Now().Add(time.Second)
	for h.Watchers(laneID) != want {
		if time.Now().After(deadline) {
			t.Fatalf("lane %s has %d watchers, want %d", laneID, h.Watchers(laneID), want)
		}
		time.Sleep(time.Millisecond)
	}
}

func TestHubBroadcastsToLaneOnly(t *testing.T) {
	h := startHub(t)
	a := join(t, h, "lane_a")
	b := join(t, h, "lane_b")
	waitWatchers(t, h, "lane_a", 1)
	waitWatchers(t, h, "lane_b", 1)

	h.Broadcast(game.LaneEvent{Type: game.EventRoll, LaneID: "lane_a", Roll: &game.RollEvent{Pins: 7}})

	select {
	case data := <-a.send:
		var ev game.LaneEvent
		if err := json.Unmarshal(data, &ev); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if ev.Type != game.EventRoll || ev.Roll == nil || ev.Roll.Pins != 7 {
			t.Errorf("event = %+v", ev)
		}
	default:
		t.Fatal("lane_a watcher got nothing")
	}
	select {
	case data := <-b.send:
		t.Errorf("lane_b watcher got %s", data)
	default:
	}
}

func TestHubClosedEventDisconnects(t *testing.T) {
	h := startHub(t)
	c := join(t, h, "lane_a")
	waitWatchers(t, h, "lane_a", 1)

	h.Broadcast(game.LaneEvent{Type: game.EventClosed, LaneID: "lane_a"})

	if _, ok := <-c.send; !ok {
		t.Fatal("expected the closed event before the channel closed")
	}
	if _, ok := <-c.send; ok {
		t.Error("send channel still open")
	}
	if n := h.Watchers("lane_a"); n != 0 {
		t.Errorf("watchers = %d", n)
	}

	// a late unregister from the read pump is harmless
	h.unregister <- c
}

func TestHubUnregister(t *testing.T) {
	h := startHub(t)
	c1 := join(t, h, "lane_a")
	join(t, h, "lane_a")
	waitWatchers(t, h, "lane_a", 2)

	h.unregister <- c1
	waitWatchers(t, h, "lane_a", 1)
	if _, ok := <-c1.send; ok {
		t.Error("unregistered client channel still open")
	}
}

func TestDecodeIntent(t *testing.T) {
	tests := []struct {
		name    string
		msg     string
		want    game.Intent
		wantErr error
	}{
		{"release", `{"type":"release","data":{"angle":0.2,"power":0.9}}`, game.Release(0.2, 0.9), nil},
		{"charged release", `{"type":"release","data":{"angle":-0.1,"from_meter":true}}`, game.ReleaseCharged(-0.1), nil},
		{"approach", `{"type":"approach","data":{"dz":0.5}}`, game.Approach(0.5), nil},
		{"no data", `{"type":"begin_charge"}`, game.BeginCharge(), nil},
		{"reset", `{"type":"reset_game"}`, game.ResetGame(), nil},
		{"unknown", `{"type":"bowl_backwards"}`, game.Intent{}, errUnknownType},
		{"bad data", `{"type":"aim","data":"left"}`, game.Intent{}, errInvalidData},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var msg Message
			if err := json.Unmarshal([]byte(tt.msg), &msg); err != nil {
				t.Fatalf("unmarshal: %v", err)
			}
			got, err := decodeIntent(msg)
			if err != tt.wantErr {
				t.Fatalf("err = %v, want %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("intent = %+v, want %+v", got, tt.want)
			}
		})
	}
}
