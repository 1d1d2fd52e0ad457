package game

// BodyID identifies a rigid body owned by a World.
type BodyID int

// Body is a read-only copy of a rigid body's state.
type Body struct {
	Position        Vec3 `json:"position"`
	Orientation     Quat `json:"orientation"`
	LinearVelocity  Vec3 `json:"linear_velocity"`
	AngularVelocity Vec3 `json:"angular_velocity"`
}

// Speed is the magnitude of the body's linear velocity.
func (b Body) Speed() float64 {
	return b.LinearVelocity.Magnitude()
}

// World is the rigid-body simulation the lane runs on. The state machine
// creates and destroys bodies through it and reads their poses back every
// tick; it never reaches into the simulation any other way.
type World interface {
	Step(dt float64)
	SpawnBall(pos Vec3) BodyID
	SpawnPin(pos Vec3) BodyID
	Remove(id BodyID)
	SetVelocity(id BodyID, linear, angular Vec3)
	SetPosition(id BodyID, pos Vec3)
	Body(id BodyID) (Body, bool)
}
