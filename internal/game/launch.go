package game

import "math"

// LaunchConfig bounds the release of the ball.
type LaunchConfig struct {
	MinSpeed   float64 `json:"min_speed" yaml:"min_speed"`
	MaxSpeed   float64 `json:"max_speed" yaml:"max_speed"`
	MaxAim     float64 `json:"max_aim" yaml:"max_aim"`         // radians either side of straight
	HookFactor float64 `json:"hook_factor" yaml:"hook_factor"` // spin about Y per radian of aim
}

func DefaultLaunchConfig() LaunchConfig {
	return LaunchConfig{
		MinSpeed:   5,
		MaxSpeed:   20,
		MaxAim:     0.6,
		HookFactor: 2.0,
	}
}

// ComputeLaunch turns an aim angle (radians, positive to the right) and a
// power in [0,1] into the ball's initial linear and angular velocity.
func ComputeLaunch(cfg LaunchConfig, aimAngle, power float64) (linear, angular Vec3) {
	aim := clampFloat(aimAngle, -cfg.MaxAim, cfg.MaxAim)
	p := clampFloat(power, 0, 1)

	speed := cfg.MinSpeed + p*(cfg.MaxSpeed-cfg.MinSpeed)
	dir := NewVec3(math.Sin(aim), 0, 1).Normalize()

	linear = dir.Times(speed)
	angular = NewVec3(0, aim*cfg.HookFactor, 0)
	return linear, angular
}

func clampFloat(v, lo, hi float64) float64 {
	if math.IsNaN(v) {
		return lo + (hi-lo)/2
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
