package game

import "math"

// SettleConfig holds the speeds below which a roll is considered finished.
type SettleConfig struct {
	BallSpeed float64 `json:"ball_speed" yaml:"ball_speed"`
	PinSpeed  float64 `json:"pin_speed" yaml:"pin_speed"`
}

func DefaultSettleConfig() SettleConfig {
	return SettleConfig{BallSpeed: 0.8, PinSpeed: 0.3}
}

// ShouldSettle reports whether a roll's outcome is final: the ball and the
// fastest pin have both slowed below threshold, or the ball has travelled
// past pitZ, the settle line behind the back row of pins.
func ShouldSettle(cfg SettleConfig, ballSpeed, maxPinSpeed, ballZ, pitZ float64) bool {
	if ballZ > pitZ {
		return true
	}
	return ballSpeed < cfg.BallSpeed && maxPinSpeed < cfg.PinSpeed
}

// GutterConfig controls early finishing of rolls that leave the lane.
type GutterConfig struct {
	Enabled bool `json:"enabled" yaml:"enabled"`
	// HalfWidth is the distance from the lane centre to the gutter edge.
	HalfWidth float64 `json:"half_width" yaml:"half_width"`
	// CheckFromZ: gutter balls are only called once the ball is this far
	// down the lane, so pins hit on the way are still counted.
	CheckFromZ float64 `json:"check_from_z" yaml:"check_from_z"`
}

func DefaultGutterConfig() GutterConfig {
	return GutterConfig{
		Enabled:    true,
		HalfWidth:  LaneHalfWidth,
		CheckFromZ: PitZ - 2,
	}
}

// InGutter reports whether the ball has dropped off the lane into a gutter.
func InGutter(cfg GutterConfig, laneX float64, ballPos Vec3) bool {
	if !cfg.Enabled {
		return false
	}
	return ballPos.Z > cfg.CheckFromZ && math.Abs(ballPos.X-laneX) > cfg.HalfWidth
}
