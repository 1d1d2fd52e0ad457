package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/playmatatu/lanes/internal/game"
)

func TestLoadTuning(t *testing.T) {
	tests := []struct {
		name        string
		yamlContent string
		wantErr     bool
		errContains string
		validate    func(*testing.T, *Tuning)
	}{
		{
			name: "partial file keeps defaults",
			yamlContent: `
launch:
  max_speed: 24
rules:
  scoring: additive
  ramp_mode: true
`,
			validate: func(t *testing.T, tn *Tuning) {
				if tn.Launch.MaxSpeed != 24 {
					t.Errorf("expected max_speed = 24, got %f", tn.Launch.MaxSpeed)
				}
				if tn.Launch.MinSpeed != 5 {
					t.Errorf("expected default min_speed = 5, got %f", tn.Launch.MinSpeed)
				}
				if tn.PinDown.MaxTiltDeg != 15 {
					t.Errorf("expected default max_tilt_deg = 15, got %f", tn.PinDown.MaxTiltDeg)
				}
				if tn.Rules.Scoring != game.ScoringAdditive || !tn.Rules.RampMode {
					t.Errorf("rules not applied: %+v", tn.Rules)
				}
				if !tn.Rules.FoulLine {
					t.Error("expected foul_line default to survive")
				}
			},
		},
		{
			name: "full sections",
			yamlContent: `
pin_down:
  max_tilt_deg: 20
  min_height_fraction: 0.5
  max_displacement: 0.3
settle:
  ball_speed: 0.5
  pin_speed: 0.2
gutter:
  enabled: false
power:
  charge_rate: 1.5
physics:
  substeps: 8
`,
			validate: func(t *testing.T, tn *Tuning) {
				if tn.PinDown.MaxDisplacement != 0.3 || tn.PinDown.MinHeightFraction != 0.5 {
					t.Errorf("pin_down = %+v", tn.PinDown)
				}
				if tn.Gutter.Enabled {
					t.Error("gutter should be disabled")
				}
				if tn.Physics.Substeps != 8 || tn.Physics.BallMass != 7 {
					t.Errorf("physics = %+v", tn.Physics)
				}
				s := tn.Settings()
				if s.PowerRate != 1.5 || s.Settle.BallSpeed != 0.5 {
					t.Errorf("settings = %+v", s)
				}
			},
		},
		{
			name: "inverted speed range",
			yamlContent: `
launch:
  min_speed: 30
  max_speed: 20
`,
			wantErr:     true,
			errContains: "launch speed range invalid",
		},
		{
			name: "tilt out of range",
			yamlContent: `
pin_down:
  max_tilt_deg: 95
`,
			wantErr:     true,
			errContains: "max_tilt_deg",
		},
		{
			name: "every down rule disabled",
			yamlContent: `
pin_down:
  max_tilt_deg: 0
  min_height_fraction: 0
  max_displacement: 0
`,
			wantErr:     true,
			errContains: "every rule disabled",
		},
		{
			name: "unknown scoring mode",
			yamlContent: `
rules:
  scoring: duckpin
`,
			wantErr:     true,
			errContains: "unknown scoring mode",
		},
		{
			name:        "malformed yaml",
			yamlContent: "launch: [1, 2",
			wantErr:     true,
			errContains: "failed to parse",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "tuning.yaml")
			if err := os.WriteFile(path, []byte(tt.yamlContent), 0644); err != nil {
				t.Fatalf("failed to write temp file: %v", err)
			}

			tn, err := LoadTuning(path)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				if tt.errContains != "" && !strings.Contains(err.Error(), tt.errContains) {
					t.Errorf("expected error containing %q, got %q", tt.errContains, err.Error())
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if tt.validate != nil {
				tt.validate(t, tn)
			}
		})
	}
}

func TestLoadTuningEmptyPathUsesDefaults(t *testing.T) {
	tn, err := LoadTuning("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := tn.Validate(); err != nil {
		t.Errorf("defaults do not validate: %v", err)
	}
	if tn.Settings().Rules.Scoring != game.ScoringTraditional {
		t.Errorf("default scoring = %s", tn.Settings().Rules.Scoring)
	}
}

func TestLoadTuningMissingFile(t *testing.T) {
	_, err := LoadTuning(filepath.Join(t.TempDir(), "nope.yaml"))
	if err == nil || !strings.Contains(err.Error(), "failed to read") {
		t.Errorf("expected read error, got %v", err)
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("TICK_RATE_HZ", "120")
	t.Setenv("MIGRATE_ON_START", "true")
	t.Setenv("BROADCAST_HZ", "2.5")
	t.Setenv("MAX_SESSIONS", "not-a-number")

	cfg := Load()
	if cfg.TickRateHz != 120 {
		t.Errorf("TickRateHz = %d", cfg.TickRateHz)
	}
	if !cfg.MigrateOnStart {
		t.Error("MigrateOnStart not parsed")
	}
	if cfg.BroadcastHz != 2.5 {
		t.Errorf("BroadcastHz = %f", cfg.BroadcastHz)
	}
	if cfg.MaxSessions != 64 {
		t.Errorf("bad int should fall back to default, got %d", cfg.MaxSessions)
	}
}
