package game

import (
	"log"
)

// RollEvent describes one recorded ball.
type RollEvent struct {
	Frame   int   `json:"frame"`
	Roll    int   `json:"roll"`
	Pins    int   `json:"pins"`    // credited to the scoresheet
	Knocked int   `json:"knocked"` // actually fell
	Strike  bool  `json:"strike"`
	Spare   bool  `json:"spare"`
	Foul    bool  `json:"foul"`
	Gutter  bool  `json:"gutter"`
	Phase   Phase `json:"phase"` // after the frame advanced
}

// Snapshot is a read-only copy of a Game for presentation and persistence.
type Snapshot struct {
	Phase        Phase                `json:"phase"`
	FrameIndex   int                  `json:"frame_index"`
	RollIndex    int                  `json:"roll_index"`
	Frames       [NumFrames]Frame     `json:"frames"`
	Scores       [NumFrames]*int      `json:"scores"`
	Marks        [NumFrames][]string  `json:"marks"`
	Total        int                  `json:"total"`
	Scoring      ScoringMode          `json:"scoring"`
	PinsStanding int                  `json:"pins_standing"`
	Pins         []PinState           `json:"pins"`
	Ball         *Body                `json:"ball,omitempty"`
	Aim          float64              `json:"aim"`
	Power        float64              `json:"power"`
	Charging     bool                 `json:"charging"`
	Foul         bool                 `json:"foul"`
}

// Game is the roll and frame state machine for a single bowler on a
// single lane. It owns the rack, the ball handle and the roll history;
// nothing else mutates them. A Game is not safe for concurrent use.
type Game struct {
	settings Settings
	world    World
	rack     *PinRack

	ball    BodyID
	hasBall bool
	thrown  bool

	frames     [NumFrames]Frame
	frameIndex int
	rollIndex  int
	phase      Phase

	pinsStandingAtStart int
	foul                bool
	aim                 float64
	meter               PowerMeter
	intents             []Intent

	onRoll func(RollEvent)
}

// NewGame racks the pins, places a ball and waits for the first release.
func NewGame(world World, settings Settings) *Game {
	g := &Game{
		settings: settings,
		world:    world,
		rack:     NewPinRack(world, settings.Lane, settings.PinDown),
		meter:    PowerMeter{Rate: settings.PowerRate},
	}
	g.Reset()
	return g
}

// OnRoll registers fn to be called synchronously after each recorded ball.
func (g *Game) OnRoll(fn func(RollEvent)) {
	g.onRoll = fn
}

// Enqueue queues an intent for the next Tick.
func (g *Game) Enqueue(in Intent) {
	g.intents = append(g.intents, in)
}

func (g *Game) Phase() Phase { return g.phase }

func (g *Game) FrameIndex() int { return g.frameIndex }

func (g *Game) RollIndex() int { return g.rollIndex }

func (g *Game) Settings() Settings { return g.settings }

// Frames returns a copy of the roll history.
func (g *Game) Frames() [NumFrames]Frame {
	var out [NumFrames]Frame
	for i, f := range g.frames {
		out[i] = f.clone()
	}
	return out
}

// Scores returns the cumulative frame scores under the configured mode.
func (g *Game) Scores() [NumFrames]*int {
	return FrameScores(g.settings.Rules.Scoring, g.frames)
}

// Reset clears the scoresheet and starts a new game on a fresh rack.
func (g *Game) Reset() {
	g.frames = [NumFrames]Frame{}
	g.frameIndex = 0
	g.rollIndex = 0
	g.rack.Reset()
	g.pinsStandingAtStart = g.rack.CountStanding()
	g.prepareBall()
	log.Printf("[LANE] game reset, %d pins racked", g.pinsStandingAtStart)
}

// Tick consumes queued intents, advances the power meter and, while a ball
// is in flight, checks whether the roll has finished.
func (g *Game) Tick(dt float64) {
	pending := g.intents
	g.intents = nil
	for _, in := range pending {
		g.apply(in)
	}

	g.meter.Advance(dt)

	if g.phase != PhaseRolling || !g.hasBall {
		return
	}
	ball, ok := g.world.Body(g.ball)
	if !ok {
		g.FinishRoll()
		return
	}
	if InGutter(g.settings.Gutter, g.settings.Lane.X, ball.Position) {
		g.finish(true)
		return
	}
	if ShouldSettle(g.settings.Settle, ball.Speed(), g.rack.MaxPinSpeed(), ball.Position.Z, g.settings.Lane.PitZ) {
		g.FinishRoll()
	}
}

func (g *Game) apply(in Intent) {
	switch in.Type {
	case IntentBeginCharge:
		if g.canThrow() && !g.meter.Charging() {
			g.meter.Start()
		}
	case IntentAim:
		if g.phase == PhaseReady {
			g.aim = clampFloat(in.Angle, -g.settings.Launch.MaxAim, g.settings.Launch.MaxAim)
		}
	case IntentApproach:
		g.approach(in.DZ)
	case IntentRelease:
		power := in.Power
		if in.FromMeter {
			power = g.meter.Value()
		}
		g.LaunchRoll(in.Angle, power)
	case IntentDebugSkip:
		g.FinishRoll()
	case IntentResetGame:
		g.Reset()
	}
}

func (g *Game) canThrow() bool {
	return g.phase == PhaseReady && g.hasBall && !g.thrown
}

func (g *Game) approach(dz float64) {
	if !g.canThrow() || g.meter.Charging() {
		return
	}
	b, ok := g.world.Body(g.ball)
	if !ok {
		return
	}
	pos := b.Position
	pos.Z = clampFloat(pos.Z+dz, g.settings.Lane.ApproachMinZ, g.settings.Lane.FoulLineZ+1)
	g.world.SetPosition(g.ball, pos)
}

// LaunchRoll releases the ball. It is ignored unless the lane is READY with
// an unthrown ball, and reports whether the ball was released.
func (g *Game) LaunchRoll(aimAngle, power float64) bool {
	if !g.canThrow() {
		return false
	}

	g.pinsStandingAtStart = g.rack.CountStanding()

	g.foul = false
	if g.settings.Rules.FoulLine && !g.settings.Rules.RampMode {
		if b, ok := g.world.Body(g.ball); ok && b.Position.Z > g.settings.Lane.FoulLineZ {
			g.foul = true
		}
	}

	g.aim = clampFloat(aimAngle, -g.settings.Launch.MaxAim, g.settings.Launch.MaxAim)
	linear, angular := ComputeLaunch(g.settings.Launch, g.aim, power)
	g.world.SetVelocity(g.ball, linear, angular)
	g.thrown = true
	g.meter.Clear()
	g.phase = PhaseRolling

	log.Printf("[LANE] frame %d roll %d released: aim=%.2f power=%.2f standing=%d foul=%v",
		g.frameIndex+1, g.rollIndex+1, g.aim, clampFloat(power, 0, 1), g.pinsStandingAtStart, g.foul)
	return true
}

// FinishRoll records the outcome of the ball in flight and advances the
// frame. Calls outside ROLLING, including a repeat for the same ball, are
// ignored. It reports whether a ball was recorded.
func (g *Game) FinishRoll() bool {
	return g.finish(false)
}

func (g *Game) finish(gutter bool) bool {
	if g.phase != PhaseRolling {
		return false
	}
	g.phase = PhaseSettling

	standing := g.rack.CountStanding()
	knocked := clampInt(g.pinsStandingAtStart-standing, 0, g.pinsStandingAtStart)
	credited := knocked
	if g.foul {
		credited = 0
	}

	frame := &g.frames[g.frameIndex]
	carry, fresh := rackCarry(g.frameIndex, frame.Rolls)
	credited = clampInt(credited, 0, PinsPerRack-carry)
	frame.Rolls = append(frame.Rolls, credited)

	ev := RollEvent{
		Frame:   g.frameIndex,
		Roll:    len(frame.Rolls) - 1,
		Pins:    credited,
		Knocked: knocked,
		Strike:  fresh && credited == PinsPerRack,
		Spare:   !fresh && carry+credited == PinsPerRack,
		Foul:    g.foul,
		Gutter:  gutter,
	}

	log.Printf("[LANE] frame %d roll %d: started=%d standing=%d knocked=%d credited=%d gutter=%v",
		g.frameIndex+1, ev.Roll+1, g.pinsStandingAtStart, standing, knocked, credited, gutter)

	g.advance()

	ev.Phase = g.phase
	if g.onRoll != nil {
		g.onRoll(ev)
	}
	return true
}

// rackCarry reports, for the next ball of a frame, the pins already
// credited against the rack it will face and whether that rack is a fresh
// ten on the scoresheet.
func rackCarry(frameIndex int, rolls []int) (carry int, fresh bool) {
	switch len(rolls) {
	case 0:
		return 0, true
	case 1:
		if frameIndex == LastFrame && rolls[0] == PinsPerRack {
			return 0, true
		}
		return rolls[0], false
	}
	if rolls[0] == PinsPerRack && rolls[1] != PinsPerRack {
		return rolls[1], false
	}
	return 0, true
}

// advance applies the frame-advance rules after a ball has been recorded.
func (g *Game) advance() {
	frame := g.frames[g.frameIndex]
	rolls := frame.Rolls
	last := rolls[len(rolls)-1]

	if g.frameIndex < LastFrame {
		switch {
		case len(rolls) == 1 && last == PinsPerRack:
			g.nextFrame()
		case len(rolls) == 1:
			g.rollIndex = 1
			g.rack.RemoveDown()
		default:
			g.nextFrame()
		}
	} else {
		switch len(rolls) {
		case 1:
			g.rollIndex = 1
			if last == PinsPerRack {
				g.rack.Reset()
			} else {
				g.rack.RemoveDown()
			}
		case 2:
			strike := rolls[0] == PinsPerRack
			spare := !strike && rolls[0]+rolls[1] == PinsPerRack
			if !strike && !spare {
				g.complete()
				return
			}
			g.rollIndex = 2
			if spare {
				g.rack.Reset()
			} else {
				// bonus ball after a strike: standing pins carry over. If roll 2
				// cleared them, RemoveDown re-racks so a 300 game stays reachable.
				g.rack.RemoveDown()
			}
		default:
			g.complete()
			return
		}
	}

	if g.frameIndex > LastFrame {
		g.frameIndex = LastFrame
		g.complete()
		return
	}
	g.prepareBall()
}

func (g *Game) nextFrame() {
	g.frameIndex++
	g.rollIndex = 0
	if g.frameIndex > LastFrame {
		return
	}
	g.rack.Reset()
}

func (g *Game) complete() {
	g.phase = PhaseComplete
	g.meter.Clear()
	log.Printf("[LANE] game complete, final score %d", FinalScore(g.Scores()))
}

// prepareBall swaps in a fresh ball at the spawn point and returns to READY.
func (g *Game) prepareBall() {
	if g.hasBall {
		g.world.Remove(g.ball)
	}
	g.ball = g.world.SpawnBall(g.settings.Lane.BallSpawn())
	g.hasBall = true
	g.thrown = false
	g.foul = false
	g.meter.Clear()
	g.phase = PhaseReady
}

// Snapshot copies the state a presentation layer needs.
func (g *Game) Snapshot() Snapshot {
	frames := g.Frames()
	scores := FrameScores(g.settings.Rules.Scoring, frames)
	s := Snapshot{
		Phase:        g.phase,
		FrameIndex:   g.frameIndex,
		RollIndex:    g.rollIndex,
		Frames:       frames,
		Scores:       scores,
		Total:        FinalScore(scores),
		Scoring:      g.settings.Rules.Scoring,
		PinsStanding: g.rack.CountStanding(),
		Pins:         g.rack.States(),
		Aim:          g.aim,
		Power:        g.meter.Value(),
		Charging:     g.meter.Charging(),
		Foul:         g.foul,
	}
	for i, f := range frames {
		s.Marks[i] = f.Marks(i)
	}
	if g.hasBall {
		if b, ok := g.world.Body(g.ball); ok {
			s.Ball = &b
		}
	}
	return s
}
