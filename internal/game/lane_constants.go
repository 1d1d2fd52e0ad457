package game

import "math"

// Lane geometry and rule constants for ten-pin bowling.
// Distances are in metres along the lane axes described on Vec3.

const (
	NumFrames   = 10
	LastFrame   = NumFrames - 1
	PinsPerRack = 10
	RackRows    = 4

	BallRadius    = 0.18
	PinHeight     = 0.38
	PinRadius     = 0.06
	PinSpacing    = 0.3048
	HeadPinZ      = 8.0  // front pin of the triangle
	PitZ          = 11.0 // pit and settle line behind the back row; anything past it is out of play
	BallSpawnZ    = -1.0
	FoulLineZ     = 0.0
	ApproachMinZ  = -3.0
	LaneHalfWidth = 0.9

	PhysStep = 1.0 / 120
	MaxTick  = 1.0 / 30
)

// PinRowSpacing is the distance between rack rows of an equilateral triangle.
var PinRowSpacing = PinSpacing * math.Sqrt(3) / 2

// Lane describes where a single lane sits in the world.
type Lane struct {
	X             float64 `json:"x" yaml:"x"`
	HeadPinZ      float64 `json:"head_pin_z" yaml:"head_pin_z"`
	PitZ          float64 `json:"pit_z" yaml:"pit_z"`
	BallSpawnZ    float64 `json:"ball_spawn_z" yaml:"ball_spawn_z"`
	FoulLineZ     float64 `json:"foul_line_z" yaml:"foul_line_z"`
	ApproachMinZ  float64 `json:"approach_min_z" yaml:"approach_min_z"`
	HalfWidth     float64 `json:"half_width" yaml:"half_width"`
	PinSpacing    float64 `json:"pin_spacing" yaml:"pin_spacing"`
	PinRowSpacing float64 `json:"pin_row_spacing" yaml:"pin_row_spacing"`
}

// DefaultLane returns the standard single lane centred on x = 0.
func DefaultLane() Lane {
	return Lane{
		X:             0,
		HeadPinZ:      HeadPinZ,
		PitZ:          PitZ,
		BallSpawnZ:    BallSpawnZ,
		FoulLineZ:     FoulLineZ,
		ApproachMinZ:  ApproachMinZ,
		HalfWidth:     LaneHalfWidth,
		PinSpacing:    PinSpacing,
		PinRowSpacing: PinRowSpacing,
	}
}

// BallSpawn is where a fresh ball is placed for each roll.
func (l Lane) BallSpawn() Vec3 {
	return NewVec3(l.X, BallRadius+0.02, l.BallSpawnZ)
}

// RackPositions returns the spawn points of the ten pins, head pin first,
// in rows of 1, 2, 3 and 4 moving away from the bowler.
func (l Lane) RackPositions() [PinsPerRack]Vec3 {
	var pos [PinsPerRack]Vec3
	i := 0
	for row := 0; row < RackRows; row++ {
		inRow := row + 1
		for col := 0; col < inRow; col++ {
			x := l.X + (float64(col)-float64(inRow-1)/2)*l.PinSpacing
			z := l.HeadPinZ + float64(row)*l.PinRowSpacing
			pos[i] = NewVec3(x, PinHeight/2, z)
			i++
		}
	}
	return pos
}
