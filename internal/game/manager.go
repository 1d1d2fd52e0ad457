package game

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/playmatatu/lanes/internal/models"
	"github.com/redis/go-redis/v9"
)

var (
	ErrSessionNotFound = errors.New("lane not found")
	ErrTooManySessions = errors.New("too many active lanes")
)

const (
	// EventsChannel is the Redis pub/sub channel lane events are published on.
	EventsChannel = "lane_events"
	// IdleSetKey is the sorted set of lane IDs scored by last activity.
	IdleSetKey = "lane_idle"

	snapshotTTL = time.Hour
)

func snapshotKey(laneID string) string {
	return "lane:" + laneID + ":state"
}

// ManagerOptions configures a Manager.
type ManagerOptions struct {
	Settings    Settings
	NewWorld    func(Lane) World
	TickRateHz  int
	BroadcastHz float64
	MaxSessions int
}

// Manager owns every active lane session, runs one ticking goroutine per
// session and persists their results.
type Manager struct {
	opts ManagerOptions
	rdb  *redis.Client // snapshots, events and idle tracking; optional
	db   *sqlx.DB      // completed game history; optional

	mu        sync.RWMutex
	sessions  map[string]*Session
	listeners []func(LaneEvent)

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewManager(db *sqlx.DB, rdb *redis.Client, opts ManagerOptions) *Manager {
	if opts.TickRateHz <= 0 {
		opts.TickRateHz = 60
	}
	if opts.BroadcastHz <= 0 {
		opts.BroadcastHz = 10
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Manager{
		opts:     opts,
		rdb:      rdb,
		db:       db,
		sessions: make(map[string]*Session),
		ctx:      ctx,
		cancel:   cancel,
	}
}

var (
	randRead = rand.Read
	tokenSeq uint64
)

// generateToken generates a secure random token. If the system source
// fails it falls back to the clock and a counter so IDs stay unique.
func generateToken(length int) string {
	bytes := make([]byte, length)
	if _, err := randRead(bytes); err != nil {
		log.Printf("[MANAGER] crypto/rand failed, using fallback token: %v", err)
		return fmt.Sprintf("%x%x", time.Now().UnixNano(), atomic.AddUint64(&tokenSeq, 1))
	}
	return hex.EncodeToString(bytes)
}

func generateLaneID() string {
	return "lane_" + generateToken(8)
}

// Settings is the tuning new sessions start from.
func (m *Manager) Settings() Settings {
	return m.opts.Settings
}

// Subscribe registers fn for every lane event published by this process
// when Redis is not configured or a publish fails.
func (m *Manager) Subscribe(fn func(LaneEvent)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listeners = append(m.listeners, fn)
}

// Create starts a new lane for playerName. An empty scoring mode uses the
// manager's default.
func (m *Manager) Create(playerName string, scoring ScoringMode) (*Session, error) {
	settings := m.opts.Settings
	if scoring != "" {
		mode, err := ParseScoringMode(string(scoring))
		if err != nil {
			return nil, err
		}
		settings.Rules.Scoring = mode
	}

	m.mu.Lock()
	if m.opts.MaxSessions > 0 && len(m.sessions) >= m.opts.MaxSessions {
		m.mu.Unlock()
		return nil, ErrTooManySessions
	}
	id := generateLaneID()
	s := newSession(id, playerName, m.opts.NewWorld(settings.Lane), settings)
	m.sessions[id] = s
	count := len(m.sessions)
	m.mu.Unlock()

	log.Printf("[MANAGER] Lane %s created for %q (scoring=%s, active=%d)", id, playerName, settings.Rules.Scoring, count)

	m.touch(id)
	snap := s.Snapshot()
	m.cacheSnapshot(id, snap)

	m.wg.Add(1)
	go m.run(s)
	return s, nil
}

// Get returns an active session.
func (m *Manager) Get(id string) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return s, nil
}

// List returns every active session, oldest first.
func (m *Manager) List() []SessionInfo {
	m.mu.RLock()
	sessions := make([]*Session, 0, len(m.sessions))
	for _, s := range m.sessions {
		sessions = append(sessions, s)
	}
	m.mu.RUnlock()

	out := make([]SessionInfo, 0, len(sessions))
	for _, s := range sessions {
		out = append(out, s.Info())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out
}

// Count returns the number of active sessions.
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// Submit forwards an intent to a lane and refreshes its idle score.
func (m *Manager) Submit(id string, in Intent) error {
	s, err := m.Get(id)
	if err != nil {
		return err
	}
	if !s.Submit(in) {
		return fmt.Errorf("unknown intent %q", in.Type)
	}
	m.touch(id)
	return nil
}

// Close stops a lane and forgets it.
func (m *Manager) Close(id string, reason string) error {
	m.mu.Lock()
	s, ok := m.sessions[id]
	if ok {
		delete(m.sessions, id)
	}
	m.mu.Unlock()
	if !ok {
		return ErrSessionNotFound
	}

	s.close()
	log.Printf("[MANAGER] Lane %s closed: %s", id, reason)

	if m.rdb != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := m.rdb.ZRem(ctx, IdleSetKey, id).Err(); err != nil {
			log.Printf("[REDIS] Failed to drop idle entry for %s: %v", id, err)
		}
	}
	m.publish(LaneEvent{Type: EventClosed, LaneID: id})
	return nil
}

// Shutdown stops every runner and waits for them to exit.
func (m *Manager) Shutdown() {
	m.cancel()
	m.wg.Wait()
	log.Printf("[MANAGER] Shut down with %d lanes open", m.Count())
}

// run ticks one session until it is closed or the manager shuts down.
func (m *Manager) run(s *Session) {
	defer m.wg.Done()

	ticker := time.NewTicker(time.Second / time.Duration(m.opts.TickRateHz))
	defer ticker.Stop()
	broadcastEvery := time.Duration(float64(time.Second) / m.opts.BroadcastHz)

	last := time.Now()
	lastBroadcast := time.Time{}
	for {
		select {
		case <-s.done:
			return
		case <-m.ctx.Done():
			return
		case now := <-ticker.C:
			res := s.step(now.Sub(last).Seconds())
			last = now

			for i := range res.rolls {
				ev := res.rolls[i]
				m.publish(LaneEvent{Type: EventRoll, LaneID: s.ID, Roll: &ev})
			}

			rolling := res.phase == PhaseRolling && now.Sub(lastBroadcast) >= broadcastEvery
			if res.dirty || res.phaseChanged || len(res.rolls) > 0 || rolling {
				snap := s.Snapshot()
				m.publish(LaneEvent{Type: EventSnapshot, LaneID: s.ID, Snapshot: &snap})
				lastBroadcast = now
				if res.phaseChanged || len(res.rolls) > 0 {
					m.cacheSnapshot(s.ID, snap)
				}
				if res.history != nil {
					m.recordGame(s, snap, res.history)
				}
			}
		}
	}
}

// publish fans an event out through Redis when configured, and to local
// subscribers otherwise.
func (m *Manager) publish(ev LaneEvent) {
	if m.rdb != nil {
		data, err := json.Marshal(ev)
		if err == nil {
			ctx, cancel := context.WithTimeout(m.ctx, time.Second)
			err = m.rdb.Publish(ctx, EventsChannel, data).Err()
			cancel()
			if err == nil {
				return
			}
		}
		log.Printf("[REDIS] Publish %s for %s failed, delivering locally: %v", ev.Type, ev.LaneID, err)
	}
	m.Deliver(ev)
}

// Deliver hands an event to the local subscribers.
func (m *Manager) Deliver(ev LaneEvent) {
	m.mu.RLock()
	listeners := append([]func(LaneEvent){}, m.listeners...)
	m.mu.RUnlock()
	for _, fn := range listeners {
		fn(ev)
	}
}

func (m *Manager) touch(id string) {
	if m.rdb == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	score := float64(time.Now().Unix())
	if err := m.rdb.ZAdd(ctx, IdleSetKey, redis.Z{Score: score, Member: id}).Err(); err != nil {
		log.Printf("[REDIS] Failed to refresh idle score for %s: %v", id, err)
	}
}

func (m *Manager) cacheSnapshot(id string, snap Snapshot) {
	if m.rdb == nil {
		return
	}
	data, err := json.Marshal(snap)
	if err != nil {
		log.Printf("[REDIS] Failed to marshal snapshot for %s: %v", id, err)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := m.rdb.SetEx(ctx, snapshotKey(id), data, snapshotTTL).Err(); err != nil {
		log.Printf("[REDIS] Failed to cache snapshot for %s: %v", id, err)
	}
}

// CachedSnapshot returns the last snapshot cached for a lane, including
// lanes that have since closed or live in another process.
func (m *Manager) CachedSnapshot(ctx context.Context, id string) (*Snapshot, error) {
	if m.rdb == nil {
		return nil, ErrSessionNotFound
	}
	data, err := m.rdb.Get(ctx, snapshotKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load snapshot %s: %w", id, err)
	}
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("decode snapshot %s: %w", id, err)
	}
	return &snap, nil
}

// recordGame stores a completed game and its balls in one transaction.
func (m *Manager) recordGame(s *Session, snap Snapshot, rolls []RollEvent) {
	if m.db == nil {
		return
	}

	frames, err := json.Marshal(snap.Frames)
	if err != nil {
		log.Printf("[DB] Failed to marshal frames for lane %s: %v", s.ID, err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	tx, err := m.db.BeginTxx(ctx, nil)
	if err != nil {
		log.Printf("[DB] Failed to begin tx for lane %s: %v", s.ID, err)
		return
	}
	defer tx.Rollback()

	var gameID int64
	err = tx.QueryRowxContext(ctx,
		`INSERT INTO games (lane_id, player_name, final_score, scoring_mode, frames, completed_at)
		 VALUES ($1, $2, $3, $4, $5::jsonb, NOW()) RETURNING id`,
		s.ID, s.PlayerName, snap.Total, string(snap.Scoring), string(frames),
	).Scan(&gameID)
	if err != nil {
		log.Printf("[DB] Failed to insert game for lane %s: %v", s.ID, err)
		return
	}

	for _, r := range rolls {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO game_rolls (game_id, frame_index, roll_index, pins, foul, gutter) VALUES ($1,$2,$3,$4,$5,$6)`,
			gameID, r.Frame, r.Roll, r.Pins, r.Foul, r.Gutter,
		)
		if err != nil {
			log.Printf("[DB] Failed to insert roll %d/%d for game %d: %v", r.Frame+1, r.Roll+1, gameID, err)
			return
		}
	}

	if err := tx.Commit(); err != nil {
		log.Printf("[DB] Failed to commit game for lane %s: %v", s.ID, err)
		return
	}
	log.Printf("[DB] Recorded game %d for lane %s: score=%d rolls=%d", gameID, s.ID, snap.Total, len(rolls))
}

// Leaderboard returns the best completed games for a scoring mode.
func (m *Manager) Leaderboard(ctx context.Context, mode ScoringMode, limit int) ([]models.LeaderboardEntry, error) {
	if m.db == nil {
		return []models.LeaderboardEntry{}, nil
	}
	if limit <= 0 || limit > 100 {
		limit = 10
	}
	entries := []models.LeaderboardEntry{}
	err := m.db.SelectContext(ctx, &entries,
		`SELECT id, player_name, final_score, scoring_mode, completed_at
		 FROM games WHERE scoring_mode = $1
		 ORDER BY final_score DESC, completed_at ASC LIMIT $2`,
		string(mode), limit,
	)
	if err != nil {
		return nil, fmt.Errorf("leaderboard query: %w", err)
	}
	return entries, nil
}

// GameRolls returns the recorded balls of a completed game.
func (m *Manager) GameRolls(ctx context.Context, gameID int64) ([]models.RollRecord, error) {
	if m.db == nil {
		return nil, ErrSessionNotFound
	}
	rolls := []models.RollRecord{}
	err := m.db.SelectContext(ctx, &rolls,
		`SELECT id, game_id, frame_index, roll_index, pins, foul, gutter
		 FROM game_rolls WHERE game_id = $1 ORDER BY frame_index, roll_index`, gameID)
	if err != nil {
		return nil, fmt.Errorf("game rolls query: %w", err)
	}
	return rolls, nil
}

// GetGame returns a completed game by its history ID.
func (m *Manager) GetGame(ctx context.Context, gameID int64) (*models.GameRecord, error) {
	if m.db == nil {
		return nil, ErrSessionNotFound
	}
	var rec models.GameRecord
	err := m.db.GetContext(ctx, &rec,
		`SELECT id, lane_id, player_name, final_score, scoring_mode, frames, completed_at
		 FROM games WHERE id = $1`, gameID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("game query: %w", err)
	}
	return &rec, nil
}
