package physics

// Params tunes the lane simulation. Units are SI: metres, seconds, kilograms.
type Params struct {
	Gravity      float64 `json:"gravity" yaml:"gravity"`
	BallMass     float64 `json:"ball_mass" yaml:"ball_mass"`
	PinMass      float64 `json:"pin_mass" yaml:"pin_mass"`
	Restitution  float64 `json:"restitution" yaml:"restitution"`
	RollFriction float64 `json:"roll_friction" yaml:"roll_friction"` // ball deceleration on the deck
	PinFriction  float64 `json:"pin_friction" yaml:"pin_friction"`   // sliding deceleration of a pin base
	HookGain     float64 `json:"hook_gain" yaml:"hook_gain"`         // lateral acceleration per rad/s of side spin
	SpinDecay    float64 `json:"spin_decay" yaml:"spin_decay"`       // fraction of side spin lost per second
	Substeps     int     `json:"substeps" yaml:"substeps"`
}

func DefaultParams() Params {
	return Params{
		Gravity:      9.81,
		BallMass:     7.0,
		PinMass:      1.5,
		Restitution:  0.6,
		RollFriction: 0.3,
		PinFriction:  3.0,
		HookGain:     0.35,
		SpinDecay:    0.2,
		Substeps:     4,
	}
}

const (
	// minSpeed snaps slower bodies to rest so settlement is reachable.
	minSpeed = 0.01

	gutterOffset = 0.12 // channel centre beyond the deck edge
	gutterDrop   = 0.08
	pitDrop      = 0.3
	pitOverrun   = 0.5 // how far past the rack base a ball travels before the pit stops it

	// contacts softer than this impulse are not reported
	contactThreshold = 0.5
)
