package config

import (
	"fmt"
	"os"

	"github.com/playmatatu/lanes/internal/game"
	"github.com/playmatatu/lanes/internal/physics"
	"gopkg.in/yaml.v3"
)

// Tuning is the gameplay tuning file. Any section or field left out of the
// file keeps its default.
type Tuning struct {
	Launch  game.LaunchConfig `json:"launch" yaml:"launch"`
	PinDown game.DownPolicy   `json:"pin_down" yaml:"pin_down"`
	Settle  game.SettleConfig `json:"settle" yaml:"settle"`
	Gutter  game.GutterConfig `json:"gutter" yaml:"gutter"`
	Rules   game.Rules        `json:"rules" yaml:"rules"`
	Power   PowerConfig       `json:"power" yaml:"power"`
	Physics physics.Params    `json:"physics" yaml:"physics"`
}

type PowerConfig struct {
	// ChargeRate is how far the meter moves per second.
	ChargeRate float64 `json:"charge_rate" yaml:"charge_rate"`
}

func DefaultTuning() *Tuning {
	s := game.DefaultSettings()
	return &Tuning{
		Launch:  s.Launch,
		PinDown: s.PinDown,
		Settle:  s.Settle,
		Gutter:  s.Gutter,
		Rules:   s.Rules,
		Power:   PowerConfig{ChargeRate: s.PowerRate},
		Physics: physics.DefaultParams(),
	}
}

// LoadTuning reads a YAML tuning file. An empty path returns the defaults.
func LoadTuning(path string) (*Tuning, error) {
	t := DefaultTuning()
	if path == "" {
		return t, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read tuning file: %w", err)
	}
	if err := yaml.Unmarshal(data, t); err != nil {
		return nil, fmt.Errorf("failed to parse tuning file: %w", err)
	}
	if err := t.Validate(); err != nil {
		return nil, fmt.Errorf("invalid tuning file: %w", err)
	}
	return t, nil
}

func (t *Tuning) Validate() error {
	if t.Launch.MinSpeed < 0 || t.Launch.MinSpeed > t.Launch.MaxSpeed {
		return fmt.Errorf("launch speed range invalid: min(%.2f) max(%.2f)", t.Launch.MinSpeed, t.Launch.MaxSpeed)
	}
	if t.Launch.MaxAim < 0 {
		return fmt.Errorf("launch max_aim should be >= 0, got %.2f", t.Launch.MaxAim)
	}
	if t.PinDown.MaxTiltDeg < 0 || t.PinDown.MaxTiltDeg >= 90 {
		return fmt.Errorf("pin_down max_tilt_deg should be in [0, 90), got %.1f", t.PinDown.MaxTiltDeg)
	}
	if t.PinDown.MinHeightFraction < 0 || t.PinDown.MinHeightFraction > 1 {
		return fmt.Errorf("pin_down min_height_fraction should be in [0, 1], got %.2f", t.PinDown.MinHeightFraction)
	}
	if t.PinDown.MaxDisplacement < 0 {
		return fmt.Errorf("pin_down max_displacement should be >= 0, got %.2f", t.PinDown.MaxDisplacement)
	}
	if t.PinDown.MaxTiltDeg == 0 && t.PinDown.MinHeightFraction == 0 && t.PinDown.MaxDisplacement == 0 {
		return fmt.Errorf("pin_down has every rule disabled")
	}
	if t.Settle.BallSpeed < 0 || t.Settle.PinSpeed < 0 {
		return fmt.Errorf("settle thresholds should be >= 0, got ball=%.2f pin=%.2f", t.Settle.BallSpeed, t.Settle.PinSpeed)
	}
	if t.Gutter.Enabled && t.Gutter.HalfWidth <= 0 {
		return fmt.Errorf("gutter half_width should be > 0, got %.2f", t.Gutter.HalfWidth)
	}
	if _, err := game.ParseScoringMode(string(t.Rules.Scoring)); err != nil {
		return fmt.Errorf("rules: %w", err)
	}
	if t.Power.ChargeRate <= 0 {
		return fmt.Errorf("power charge_rate should be > 0, got %.2f", t.Power.ChargeRate)
	}
	if t.Physics.BallMass <= 0 || t.Physics.PinMass <= 0 {
		return fmt.Errorf("physics masses should be > 0, got ball=%.2f pin=%.2f", t.Physics.BallMass, t.Physics.PinMass)
	}
	if t.Physics.Substeps < 1 {
		return fmt.Errorf("physics substeps should be >= 1, got %d", t.Physics.Substeps)
	}
	return nil
}

// Settings converts the tuning into the state machine's settings.
func (t *Tuning) Settings() game.Settings {
	s := game.DefaultSettings()
	s.Launch = t.Launch
	s.PinDown = t.PinDown
	s.Settle = t.Settle
	s.Gutter = t.Gutter
	s.Rules = t.Rules
	if s.Rules.Scoring == "" {
		s.Rules.Scoring = game.ScoringTraditional
	}
	s.PowerRate = t.Power.ChargeRate
	return s
}
