package ws

import (
	"context"
	"encoding/json"
	"log"

	"github.com/playmatatu/lanes/internal/game"
	"github.com/redis/go-redis/v9"
)

// StartEventSubscriber relays lane events published on Redis to the hub, so
// every server process can serve watchers of any lane.
func StartEventSubscriber(ctx context.Context, rdb *redis.Client, hub *Hub) {
	if rdb == nil {
		log.Println("[WS] Redis client not set; event subscriber not started")
		return
	}

	pubsub := rdb.Subscribe(ctx, game.EventsChannel)
	ch := pubsub.Channel()
	go func() {
		<-ctx.Done()
		pubsub.Close()
	}()
	go func() {
		log.Printf("[WS] %s subscriber started", game.EventsChannel)
		for msg := range ch {
			var ev game.LaneEvent
			if err := json.Unmarshal([]byte(msg.Payload), &ev); err != nil {
				log.Printf("[WS] Invalid event payload: %v", err)
				continue
			}
			if ev.LaneID == "" {
				continue
			}
			hub.Broadcast(ev)
		}
		log.Printf("[WS] %s subscriber stopped", game.EventsChannel)
	}()
}
