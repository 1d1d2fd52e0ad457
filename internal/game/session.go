package game

import (
	"sync"
	"time"
)

// LaneEvent is what a session fans out to observers.
type LaneEvent struct {
	Type     string     `json:"type"` // "snapshot", "roll" or "closed"
	LaneID   string     `json:"lane_id"`
	Snapshot *Snapshot  `json:"snapshot,omitempty"`
	Roll     *RollEvent `json:"roll,omitempty"`
}

const (
	EventSnapshot = "snapshot"
	EventRoll     = "roll"
	EventClosed   = "closed"
)

// SessionInfo summarises a session for listings.
type SessionInfo struct {
	ID           string      `json:"lane_id"`
	PlayerName   string      `json:"player_name"`
	Scoring      ScoringMode `json:"scoring"`
	Phase        Phase       `json:"phase"`
	FrameIndex   int         `json:"frame_index"`
	Total        int         `json:"total"`
	CreatedAt    time.Time   `json:"created_at"`
	LastActivity time.Time   `json:"last_activity"`
}

// Session is one lane being played: a Game, the World it runs on and the
// clock that drives them. The Game itself is single-threaded; the session
// serialises intents from the network against the runner's ticks.
type Session struct {
	ID         string
	PlayerName string
	CreatedAt  time.Time

	mu           sync.Mutex
	game         *Game
	loop         *Loop
	lastActivity time.Time
	dirty        bool
	pending      []RollEvent
	rolls        []RollEvent

	done      chan struct{}
	closeOnce sync.Once
}

func newSession(id, playerName string, world World, settings Settings) *Session {
	g := NewGame(world, settings)
	s := &Session{
		ID:           id,
		PlayerName:   playerName,
		CreatedAt:    time.Now(),
		game:         g,
		loop:         NewLoop(world, g),
		lastActivity: time.Now(),
		dirty:        true,
		done:         make(chan struct{}),
	}
	g.OnRoll(s.recordRoll)
	return s
}

// recordRoll runs inside Tick, with s.mu held by step.
func (s *Session) recordRoll(ev RollEvent) {
	if ev.Frame == 0 && ev.Roll == 0 {
		s.rolls = s.rolls[:0]
	}
	s.rolls = append(s.rolls, ev)
	s.pending = append(s.pending, ev)
}

// Submit queues an intent for the next tick. Unknown intents are refused.
func (s *Session) Submit(in Intent) bool {
	if !in.Valid() {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.game.Enqueue(in)
	s.lastActivity = time.Now()
	s.dirty = true
	return true
}

// stepResult is what one runner tick produced.
type stepResult struct {
	phase        Phase
	phaseChanged bool
	dirty        bool
	rolls        []RollEvent
	history      []RollEvent // full history, only set once the game completes
}

func (s *Session) step(dt float64) stepResult {
	s.mu.Lock()
	defer s.mu.Unlock()

	before := s.game.Phase()
	s.loop.Advance(dt)
	after := s.game.Phase()

	res := stepResult{
		phase:        after,
		phaseChanged: before != after,
		dirty:        s.dirty,
		rolls:        s.pending,
	}
	s.pending = nil
	s.dirty = false

	for _, ev := range res.rolls {
		if ev.Phase == PhaseComplete {
			res.history = append([]RollEvent(nil), s.rolls...)
			break
		}
	}
	return res
}

func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.game.Snapshot()
}

func (s *Session) Info() SessionInfo {
	s.mu.Lock()
	defer s.mu.Unlock()
	return SessionInfo{
		ID:           s.ID,
		PlayerName:   s.PlayerName,
		Scoring:      s.game.Settings().Rules.Scoring,
		Phase:        s.game.Phase(),
		FrameIndex:   s.game.FrameIndex(),
		Total:        FinalScore(s.game.Scores()),
		CreatedAt:    s.CreatedAt,
		LastActivity: s.lastActivity,
	}
}

// LastActivity is when the player last sent an intent.
func (s *Session) LastActivity() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastActivity
}

func (s *Session) close() {
	s.closeOnce.Do(func() { close(s.done) })
}
