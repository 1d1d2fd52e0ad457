package main

import (
	"github.com/gdamore/tcell/v2"
	"github.com/playmatatu/lanes/internal/game"
)

const (
	aimStep      = 0.05
	approachStep = 0.25
)

// controls turns key presses into intents and remembers the aim between
// them.
type controls struct {
	aim    float64
	maxAim float64
}

func isQuit(ev *tcell.EventKey) bool {
	return ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC ||
		(ev.Key() == tcell.KeyRune && (ev.Rune() == 'q' || ev.Rune() == 'Q'))
}

// intent maps a key to an intent. Space starts the power meter, and a
// second press releases at the meter's value.
func (c *controls) intent(ev *tcell.EventKey, charging bool) (game.Intent, bool) {
	switch ev.Key() {
	case tcell.KeyLeft:
		return c.turn(-aimStep), true
	case tcell.KeyRight:
		return c.turn(aimStep), true
	case tcell.KeyUp:
		return game.Approach(approachStep), true
	case tcell.KeyDown:
		return game.Approach(-approachStep), true
	case tcell.KeyRune:
		switch ev.Rune() {
		case ' ':
			if charging {
				return game.ReleaseCharged(c.aim), true
			}
			return game.BeginCharge(), true
		case 's', 'S':
			return game.DebugSkip(), true
		case 'r', 'R':
			c.aim = 0
			return game.ResetGame(), true
		}
	}
	return game.Intent{}, false
}

func (c *controls) turn(delta float64) game.Intent {
	c.aim += delta
	if c.aim > c.maxAim {
		c.aim = c.maxAim
	}
	if c.aim < -c.maxAim {
		c.aim = -c.maxAim
	}
	return game.Aim(c.aim)
}
