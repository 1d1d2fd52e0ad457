package game

// Phase is where the current roll is in its lifecycle.
type Phase string

const (
	PhaseReady    Phase = "READY"    // waiting for a release, ball at rest
	PhaseRolling  Phase = "ROLLING"  // ball in flight, outcome pending
	PhaseSettling Phase = "SETTLING" // outcome recorded, advancing
	PhaseComplete Phase = "COMPLETE" // all ten frames bowled
)

// Rules are the gameplay variants a lane can run with.
type Rules struct {
	Scoring ScoringMode `json:"scoring" yaml:"scoring"`
	// FoulLine credits zero pins to a ball released past the foul line.
	FoulLine bool `json:"foul_line" yaml:"foul_line"`
	// RampMode exempts every release from the foul line.
	RampMode bool `json:"ramp_mode" yaml:"ramp_mode"`
}

// Settings bundles everything a Game is tuned by.
type Settings struct {
	Lane      Lane         `json:"lane"`
	Launch    LaunchConfig `json:"launch"`
	PinDown   DownPolicy   `json:"pin_down"`
	Settle    SettleConfig `json:"settle"`
	Gutter    GutterConfig `json:"gutter"`
	Rules     Rules        `json:"rules"`
	PowerRate float64      `json:"power_rate"`
}

func DefaultSettings() Settings {
	return Settings{
		Lane:    DefaultLane(),
		Launch:  DefaultLaunchConfig(),
		PinDown: DefaultDownPolicy(),
		Settle:  DefaultSettleConfig(),
		Gutter:  DefaultGutterConfig(),
		Rules: Rules{
			Scoring:  ScoringTraditional,
			FoulLine: true,
		},
		PowerRate: 0.8,
	}
}
