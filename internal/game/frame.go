package game

import "strconv"

// Frame holds the pinfall of each ball delivered in one frame.
type Frame struct {
	Rolls []int `json:"rolls"`
}

func (f Frame) roll(i int) (int, bool) {
	if i < len(f.Rolls) {
		return f.Rolls[i], true
	}
	return 0, false
}

// IsStrike: ten pins on the first ball.
func (f Frame) IsStrike() bool {
	r1, ok := f.roll(0)
	return ok && r1 == PinsPerRack
}

// IsSpare: ten pins over the first two balls, not a strike.
func (f Frame) IsSpare() bool {
	r1, ok1 := f.roll(0)
	r2, ok2 := f.roll(1)
	return ok1 && ok2 && r1 != PinsPerRack && r1+r2 == PinsPerRack
}

func (f Frame) clone() Frame {
	rolls := make([]int, len(f.Rolls))
	copy(rolls, f.Rolls)
	return Frame{Rolls: rolls}
}

// Marks renders the frame the way a scoresheet does: X for a strike,
// / for a spare, digits otherwise. The tenth frame has up to three marks.
func (f Frame) Marks(index int) []string {
	r1, ok1 := f.roll(0)
	r2, ok2 := f.roll(1)
	r3, ok3 := f.roll(2)

	if index < LastFrame {
		switch {
		case !ok1:
			return []string{"", ""}
		case r1 == PinsPerRack:
			return []string{"X", ""}
		case !ok2:
			return []string{strconv.Itoa(r1), ""}
		case r1+r2 == PinsPerRack:
			return []string{strconv.Itoa(r1), "/"}
		default:
			return []string{strconv.Itoa(r1), strconv.Itoa(r2)}
		}
	}

	marks := []string{"", "", ""}
	if ok1 {
		marks[0] = ballMark(r1)
	}
	if ok2 {
		if r1 == PinsPerRack {
			marks[1] = ballMark(r2)
		} else if r1+r2 == PinsPerRack {
			marks[1] = "/"
		} else {
			marks[1] = strconv.Itoa(r2)
		}
	}
	if ok3 {
		// after a spare roll 3 is the first ball of a fresh rack
		if r1 == PinsPerRack && r2 != PinsPerRack && r2+r3 == PinsPerRack {
			marks[2] = "/"
		} else {
			marks[2] = ballMark(r3)
		}
	}
	return marks
}

func ballMark(pins int) string {
	if pins == PinsPerRack {
		return "X"
	}
	return strconv.Itoa(pins)
}
