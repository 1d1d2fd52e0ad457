package main

import (
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/playmatatu/lanes/internal/game"
)

var (
	styleLane   = tcell.StyleDefault.Foreground(tcell.ColorTan)
	styleGutter = tcell.StyleDefault.Foreground(tcell.ColorGray)
	styleFoul   = tcell.StyleDefault.Foreground(tcell.ColorRed)
	stylePin    = tcell.StyleDefault.Foreground(tcell.ColorWhite).Bold(true)
	styleDown   = tcell.StyleDefault.Foreground(tcell.ColorDarkGray)
	styleBall   = tcell.StyleDefault.Foreground(tcell.ColorBlue).Bold(true)
	styleText   = tcell.StyleDefault.Foreground(tcell.ColorGreen)
	styleMeter  = tcell.StyleDefault.Foreground(tcell.ColorYellow)
)

// view maps lane coordinates onto a screen rectangle with the pins at the
// top and the approach at the bottom.
type view struct {
	left, top, width, height int
	lane                     game.Lane
}

func (v view) cell(p game.Vec3) (int, int) {
	fx := (p.X - v.lane.X + v.lane.HalfWidth) / (2 * v.lane.HalfWidth)
	fz := (v.lane.PitZ - p.Z) / (v.lane.PitZ - v.lane.ApproachMinZ)
	x := v.left + int(fx*float64(v.width-1)+0.5)
	y := v.top + int(fz*float64(v.height-1)+0.5)
	return x, y
}

func (v view) contains(x, y int) bool {
	return x >= v.left && x < v.left+v.width && y >= v.top && y < v.top+v.height
}

func draw(s tcell.Screen, snap game.Snapshot, lane game.Lane, ctl *controls) {
	s.Clear()
	w, h := s.Size()

	drawText(s, 0, 0, styleText, scoreLine(snap))
	drawText(s, 0, 1, styleText, totalsLine(snap))

	v := view{left: 2, top: 3, width: 19, height: h - 7, lane: lane}
	if v.height < 10 || w < 40 {
		drawText(s, 0, 3, styleFoul, "terminal too small")
		s.Show()
		return
	}

	for y := v.top; y < v.top+v.height; y++ {
		s.SetContent(v.left-1, y, '|', nil, styleGutter)
		s.SetContent(v.left+v.width, y, '|', nil, styleGutter)
		for x := v.left; x < v.left+v.width; x++ {
			s.SetContent(x, y, '.', nil, styleLane)
		}
	}
	_, foulY := v.cell(game.NewVec3(lane.X, 0, lane.FoulLineZ))
	for x := v.left; x < v.left+v.width; x++ {
		s.SetContent(x, foulY, '-', nil, styleFoul)
	}

	for _, p := range snap.Pins {
		x, y := v.cell(p.Position)
		if !v.contains(x, y) {
			continue
		}
		if p.Down {
			s.SetContent(x, y, 'x', nil, styleDown)
		} else {
			s.SetContent(x, y, 'I', nil, stylePin)
		}
	}
	if snap.Ball != nil {
		if x, y := v.cell(snap.Ball.Position); v.contains(x, y) {
			s.SetContent(x, y, 'O', nil, styleBall)
		}
	}

	info := v.left + v.width + 3
	drawText(s, info, v.top, styleText, fmt.Sprintf("Frame %d  Ball %d", snap.FrameIndex+1, snap.RollIndex+1))
	drawText(s, info, v.top+1, styleText, fmt.Sprintf("Phase   %s", snap.Phase))
	drawText(s, info, v.top+2, styleText, fmt.Sprintf("Standing %d", snap.PinsStanding))
	drawText(s, info, v.top+3, styleText, fmt.Sprintf("Aim     %+.2f (max %.2f)", ctl.aim, ctl.maxAim))
	if snap.Charging {
		drawText(s, info, v.top+4, styleMeter, meterBar(snap.Power, 20))
	}
	if snap.Foul {
		drawText(s, info, v.top+5, styleFoul, "FOUL")
	}
	if snap.Phase == game.PhaseComplete {
		drawText(s, info, v.top+6, styleMeter, fmt.Sprintf("Game over: %d  (r to play again)", snap.Total))
	}

	drawText(s, 0, h-2, styleGutter, "space charge/release  <- -> aim  up/down approach")
	drawText(s, 0, h-1, styleGutter, "s skip roll  r new game  q quit")
	s.Show()
}

func scoreLine(snap game.Snapshot) string {
	var b strings.Builder
	for i, marks := range snap.Marks {
		cell := strings.Join(marks, " ")
		if i == game.LastFrame {
			fmt.Fprintf(&b, "|%-5s|", cell)
		} else {
			fmt.Fprintf(&b, "|%-3s", cell)
		}
	}
	return b.String()
}

func totalsLine(snap game.Snapshot) string {
	var b strings.Builder
	for i, score := range snap.Scores {
		width := 3
		if i == game.LastFrame {
			width = 5
		}
		if score == nil {
			fmt.Fprintf(&b, "|%*s", width, "")
		} else {
			fmt.Fprintf(&b, "|%*d", width, *score)
		}
	}
	b.WriteString("|")
	return b.String()
}

func meterBar(power float64, width int) string {
	filled := int(power*float64(width) + 0.5)
	if filled > width {
		filled = width
	}
	return "[" + strings.Repeat("#", filled) + strings.Repeat(" ", width-filled) + "]"
}

func drawText(s tcell.Screen, x, y int, style tcell.Style, text string) {
	for i, r := range []rune(text) {
		s.SetContent(x+i, y, r, nil, style)
	}
}
