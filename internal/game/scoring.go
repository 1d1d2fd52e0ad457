package game

import "fmt"

// ScoringMode selects how frame scores are derived from pinfall.
type ScoringMode string

const (
	// ScoringTraditional adds strike and spare bonuses from later balls.
	ScoringTraditional ScoringMode = "traditional"
	// ScoringAdditive scores each frame as the sum of its own balls.
	ScoringAdditive ScoringMode = "additive"
)

func ParseScoringMode(s string) (ScoringMode, error) {
	switch ScoringMode(s) {
	case ScoringTraditional, ScoringAdditive:
		return ScoringMode(s), nil
	case "":
		return ScoringTraditional, nil
	}
	return "", fmt.Errorf("unknown scoring mode %q", s)
}

// FrameScores computes cumulative frame scores in the given mode.
func FrameScores(mode ScoringMode, frames [NumFrames]Frame) [NumFrames]*int {
	if mode == ScoringAdditive {
		return ComputeAdditiveScores(frames)
	}
	return ComputeFrameScores(frames)
}

// ComputeFrameScores returns the cumulative score after each frame, with
// strike and spare bonuses. A frame that cannot be resolved yet is nil, and
// every frame after it stays nil until it resolves.
func ComputeFrameScores(frames [NumFrames]Frame) [NumFrames]*int {
	var scores [NumFrames]*int
	cumulative := 0

	for i := 0; i < NumFrames; i++ {
		own, ok := frameScore(frames, i)
		if !ok {
			break
		}
		cumulative += own
		total := cumulative
		scores[i] = &total
	}
	return scores
}

// frameScore is the score a single frame contributes, bonuses included.
func frameScore(frames [NumFrames]Frame, i int) (int, bool) {
	f := frames[i]
	r1, ok1 := f.roll(0)
	r2, ok2 := f.roll(1)
	if !ok1 {
		return 0, false
	}

	if i == LastFrame {
		r3, ok3 := f.roll(2)
		if r1 == PinsPerRack || (ok2 && r1+r2 == PinsPerRack) {
			if !ok2 || !ok3 {
				return 0, false
			}
			return r1 + r2 + r3, true
		}
		if !ok2 {
			return 0, false
		}
		return r1 + r2, true
	}

	if r1 == PinsPerRack {
		bonus := laterRolls(frames, i, 2)
		if len(bonus) < 2 {
			return 0, false
		}
		return PinsPerRack + bonus[0] + bonus[1], true
	}
	if !ok2 {
		return 0, false
	}
	if r1+r2 == PinsPerRack {
		bonus := laterRolls(frames, i, 1)
		if len(bonus) < 1 {
			return 0, false
		}
		return PinsPerRack + bonus[0], true
	}
	return r1 + r2, true
}

// laterRolls returns up to n balls bowled after frame i, in the order they
// were delivered.
func laterRolls(frames [NumFrames]Frame, i, n int) []int {
	out := make([]int, 0, n)
	for j := i + 1; j < NumFrames && len(out) < n; j++ {
		for _, r := range frames[j].Rolls {
			out = append(out, r)
			if len(out) == n {
				break
			}
		}
	}
	return out
}

// ComputeAdditiveScores sums each frame's own balls with no bonuses. A
// frame with no balls yet is nil and stops the running total.
func ComputeAdditiveScores(frames [NumFrames]Frame) [NumFrames]*int {
	var scores [NumFrames]*int
	cumulative := 0
	for i := 0; i < NumFrames; i++ {
		if len(frames[i].Rolls) == 0 {
			break
		}
		for _, r := range frames[i].Rolls {
			cumulative += r
		}
		total := cumulative
		scores[i] = &total
	}
	return scores
}

// FinalScore is the last resolved cumulative score, or 0.
func FinalScore(scores [NumFrames]*int) int {
	total := 0
	for _, s := range scores {
		if s == nil {
			break
		}
		total = *s
	}
	return total
}
