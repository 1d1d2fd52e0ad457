package game

// IntentType names a player command for the state machine.
type IntentType string

const (
	IntentBeginCharge IntentType = "begin_charge"
	IntentAim         IntentType = "aim"
	IntentApproach    IntentType = "approach"
	IntentRelease     IntentType = "release"
	IntentDebugSkip   IntentType = "debug_skip"
	IntentResetGame   IntentType = "reset_game"
)

// Intent is a command produced by an input layer and consumed by the
// state machine on its next tick.
type Intent struct {
	Type  IntentType `json:"type"`
	Angle float64    `json:"angle,omitempty"`
	Power float64    `json:"power,omitempty"`
	// FromMeter releases with the power meter's current value instead of Power.
	FromMeter bool    `json:"from_meter,omitempty"`
	DZ        float64 `json:"dz,omitempty"`
}

func BeginCharge() Intent { return Intent{Type: IntentBeginCharge} }

func Aim(angle float64) Intent { return Intent{Type: IntentAim, Angle: angle} }

// Approach slides the waiting ball along the approach by dz.
func Approach(dz float64) Intent { return Intent{Type: IntentApproach, DZ: dz} }

func Release(angle, power float64) Intent {
	return Intent{Type: IntentRelease, Angle: angle, Power: power}
}

func ReleaseCharged(angle float64) Intent {
	return Intent{Type: IntentRelease, Angle: angle, FromMeter: true}
}

func DebugSkip() Intent { return Intent{Type: IntentDebugSkip} }

func ResetGame() Intent { return Intent{Type: IntentResetGame} }

// Valid reports whether the intent names a known command.
func (in Intent) Valid() bool {
	switch in.Type {
	case IntentBeginCharge, IntentAim, IntentApproach, IntentRelease, IntentDebugSkip, IntentResetGame:
		return true
	}
	return false
}

// PowerMeter oscillates between 0 and 1 while the player holds a charge.
type PowerMeter struct {
	Rate      float64
	charging  bool
	value     float64
	direction float64
}

func (m *PowerMeter) Start() {
	m.charging = true
	m.value = 0
	m.direction = 1
}

func (m *PowerMeter) Advance(dt float64) {
	if !m.charging {
		return
	}
	m.value += m.direction * m.Rate * dt
	if m.value >= 1 {
		m.value = 1
		m.direction = -1
	} else if m.value <= 0 {
		m.value = 0
		m.direction = 1
	}
}

func (m *PowerMeter) Clear() {
	m.charging = false
	m.value = 0
	m.direction = 1
}

func (m *PowerMeter) Charging() bool { return m.charging }

func (m *PowerMeter) Value() float64 { return m.value }
