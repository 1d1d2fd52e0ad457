package game

import (
	"log"
	"math"
)

// DownPolicy decides whether a pin counts as knocked down. A pin is down
// when any enabled rule fires; a zero threshold disables that rule.
type DownPolicy struct {
	MaxTiltDeg        float64 `json:"max_tilt_deg" yaml:"max_tilt_deg"`
	MinHeightFraction float64 `json:"min_height_fraction" yaml:"min_height_fraction"`
	MaxDisplacement   float64 `json:"max_displacement" yaml:"max_displacement"`
}

// DefaultDownPolicy: 15 degrees of tilt or the centre dropping below
// three quarters of its standing height.
func DefaultDownPolicy() DownPolicy {
	return DownPolicy{
		MaxTiltDeg:        15,
		MinHeightFraction: 0.75,
	}
}

// IsDown applies the policy to a pin's current pose.
func (p DownPolicy) IsDown(pin *Pin, b Body) bool {
	if p.MaxTiltDeg > 0 && b.Orientation.TiltDegrees() > p.MaxTiltDeg {
		return true
	}
	if p.MinHeightFraction > 0 && b.Position.Y < pin.Spawn.Y*p.MinHeightFraction {
		return true
	}
	if p.MaxDisplacement > 0 && b.Position.Minus(pin.Spawn).Horizontal().Magnitude() > p.MaxDisplacement {
		return true
	}
	return false
}

// Pin is one of the ten pins of a rack.
type Pin struct {
	Index int
	Row   int
	Col   int
	Spawn Vec3
	body  BodyID
}

// PinState is a pin's pose as exposed to presentation layers.
type PinState struct {
	Index    int     `json:"index"`
	Row      int     `json:"row"`
	Col      int     `json:"col"`
	Position Vec3    `json:"position"`
	Tilt     float64 `json:"tilt"`
	Down     bool    `json:"down"`
}

// PinRack owns the pin bodies of the active frame.
type PinRack struct {
	world  World
	lane   Lane
	policy DownPolicy
	pins   []*Pin
}

// NewPinRack creates an empty rack; call Reset to set the pins.
func NewPinRack(world World, lane Lane, policy DownPolicy) *PinRack {
	return &PinRack{
		world:  world,
		lane:   lane,
		policy: policy,
		pins:   make([]*Pin, 0, PinsPerRack),
	}
}

// Reset destroys every pin and sets ten fresh upright ones.
func (r *PinRack) Reset() {
	r.clear()
	positions := r.lane.RackPositions()
	i := 0
	for row := 0; row < RackRows; row++ {
		for col := 0; col <= row; col++ {
			pin := &Pin{Index: i, Row: row, Col: col, Spawn: positions[i]}
			pin.body = r.world.SpawnPin(positions[i])
			r.pins = append(r.pins, pin)
			i++
		}
	}
}

func (r *PinRack) clear() {
	for _, pin := range r.pins {
		r.world.Remove(pin.body)
	}
	r.pins = r.pins[:0]
}

func (r *PinRack) isDown(pin *Pin) bool {
	b, ok := r.world.Body(pin.body)
	if !ok {
		return true
	}
	return r.policy.IsDown(pin, b)
}

// CountStanding returns how many pins are not down.
func (r *PinRack) CountStanding() int {
	count := 0
	for _, pin := range r.pins {
		if !r.isDown(pin) {
			count++
		}
	}
	return count
}

// RemoveDown deletes every down pin, leaving only standing pins for the
// next ball. A rack that would be left empty is reset instead. It returns
// the number of pins removed.
func (r *PinRack) RemoveDown() int {
	kept := r.pins[:0]
	removed := 0
	for _, pin := range r.pins {
		if r.isDown(pin) {
			r.world.Remove(pin.body)
			removed++
			continue
		}
		kept = append(kept, pin)
	}
	r.pins = kept

	if len(r.pins) == 0 {
		log.Printf("[RACK] no pins left after clearing %d, resetting rack", removed)
		r.Reset()
	}
	return removed
}

// Len is the number of pins still in the rack, standing or not.
func (r *PinRack) Len() int {
	return len(r.pins)
}

// MaxPinSpeed returns the speed of the fastest-moving pin.
func (r *PinRack) MaxPinSpeed() float64 {
	max := 0.0
	for _, pin := range r.pins {
		if b, ok := r.world.Body(pin.body); ok {
			max = math.Max(max, b.Speed())
		}
	}
	return max
}

// States returns a copy of every pin's pose.
func (r *PinRack) States() []PinState {
	out := make([]PinState, 0, len(r.pins))
	for _, pin := range r.pins {
		st := PinState{Index: pin.Index, Row: pin.Row, Col: pin.Col, Position: pin.Spawn, Down: true}
		if b, ok := r.world.Body(pin.body); ok {
			st.Position = b.Position
			st.Tilt = b.Orientation.TiltDegrees()
			st.Down = r.policy.IsDown(pin, b)
		}
		out = append(out, st)
	}
	return out
}
