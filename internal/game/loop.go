package game

// Loop drives a World and a Game from wall-clock time. The world is stepped
// at a fixed rate so a roll replays the same way regardless of frame rate;
// the game is ticked once per Advance with the real elapsed time.
type Loop struct {
	World World
	Game  *Game

	step  float64
	maxDt float64
	acc   float64
}

// NewLoop uses PhysStep for the world and caps each Advance at MaxTick.
func NewLoop(world World, g *Game) *Loop {
	return &Loop{World: world, Game: g, step: PhysStep, maxDt: MaxTick}
}

// Advance runs as many fixed physics steps as dt covers, then ticks the
// game. A long stall is clamped to maxDt so the simulation never tries to
// catch up on seconds of lost time. It returns the number of steps taken.
func (l *Loop) Advance(dt float64) int {
	if dt <= 0 {
		l.Game.Tick(0)
		return 0
	}
	if dt > l.maxDt {
		dt = l.maxDt
	}
	l.acc += dt
	steps := 0
	for l.acc >= l.step {
		l.World.Step(l.step)
		l.acc -= l.step
		steps++
	}
	l.Game.Tick(dt)
	return steps
}
