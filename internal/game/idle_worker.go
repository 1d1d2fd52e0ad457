package game

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

// StartIdleWorker closes lanes nobody has sent an intent to for timeout.
// With Redis configured it works off the lane_idle sorted set so several
// server processes agree on what is idle; otherwise it scans in memory.
func StartIdleWorker(ctx context.Context, m *Manager, timeout, poll time.Duration) {
	if m == nil || timeout <= 0 || poll <= 0 {
		log.Println("[IDLE] Manager or timings missing; idle worker not started")
		return
	}

	log.Printf("[IDLE] Idle worker started (timeout=%s poll=%s)", timeout, poll)
	go func() {
		ticker := time.NewTicker(poll)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				log.Println("[IDLE] Idle worker stopping")
				return
			case now := <-ticker.C:
				n := m.reapIdle(ctx, now, timeout)
				if n > 0 {
					log.Printf("[IDLE] Closed %d idle lanes", n)
				}
			}
		}
	}()
}

// reapIdle closes every lane idle since before now-timeout and returns how
// many it closed.
func (m *Manager) reapIdle(ctx context.Context, now time.Time, timeout time.Duration) int {
	cutoff := now.Add(-timeout)

	if m.rdb == nil {
		closed := 0
		for _, info := range m.List() {
			if info.LastActivity.Before(cutoff) {
				if err := m.Close(info.ID, "idle"); err == nil {
					closed++
				}
			}
		}
		return closed
	}

	members, err := m.rdb.ZRangeByScore(ctx, IdleSetKey, &redis.ZRangeBy{
		Min: "-inf",
		Max: fmt.Sprintf("%d", cutoff.Unix()),
	}).Result()
	if err != nil {
		log.Printf("[IDLE] Failed to fetch idle lanes: %v", err)
		return 0
	}

	closed := 0
	for _, id := range members {
		// lanes held by another process are left for that process
		if _, err := m.Get(id); err != nil {
			continue
		}
		if removed, err := m.rdb.ZRem(ctx, IdleSetKey, id).Result(); err != nil || removed == 0 {
			continue
		}
		if err := m.Close(id, "idle"); err == nil {
			closed++
		}
	}
	return closed
}
