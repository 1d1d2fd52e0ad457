package game

import "math"

// fakeWorld is a scripted World: nothing moves unless a test moves it.
type fakeWorld struct {
	next   BodyID
	bodies map[BodyID]*Body
	pins   map[BodyID]bool
	order  []BodyID
	steps  int
}

func newFakeWorld() *fakeWorld {
	return &fakeWorld{
		bodies: make(map[BodyID]*Body),
		pins:   make(map[BodyID]bool),
	}
}

func (w *fakeWorld) spawn(pos Vec3, pin bool) BodyID {
	w.next++
	id := w.next
	w.bodies[id] = &Body{Position: pos, Orientation: IdentityQuat()}
	w.pins[id] = pin
	w.order = append(w.order, id)
	return id
}

func (w *fakeWorld) Step(dt float64) { w.steps++ }
func (w *fakeWorld) SpawnBall(pos Vec3) BodyID { return w.spawn(pos, false) }
func (w *fakeWorld) SpawnPin(pos Vec3) BodyID { return w.spawn(pos, true) }
func (w *fakeWorld) Remove(id BodyID) { delete(w.bodies, id) }

func (w *fakeWorld) SetPosition(id BodyID, p Vec3) {
	if b, ok := w.bodies[id]; ok {
		b.Position = p
	}
}

func (w *fakeWorld) SetVelocity(id BodyID, linear, angular Vec3) {
	if b, ok := w.bodies[id]; ok {
		b.LinearVelocity = linear
		b.AngularVelocity = angular
	}
}

func (w *fakeWorld) Body(id BodyID) (Body, bool) {
	b, ok := w.bodies[id]
	if !ok {
		return Body{}, false
	}
	return *b, true
}

// knock tips over up to n upright pins, oldest first, and returns how many
// it tipped.
func (w *fakeWorld) knock(n int) int {
	tipped := 0
	for _, id := range w.order {
		if tipped == n {
			break
		}
		b, ok := w.bodies[id]
		if !ok || !w.pins[id] || b.Orientation.TiltDegrees() > 1 {
			continue
		}
		b.Orientation = QuatFromAxisAngle(NewVec3(1, 0, 0), math.Pi/2)
		tipped++
	}
	return tipped
}

func (w *fakeWorld) livePins() int {
	n := 0
	for id := range w.bodies {
		if w.pins[id] {
			n++
		}
	}
	return n
}

func (w *fakeWorld) liveBalls() int {
	n := 0
	for id := range w.bodies {
		if !w.pins[id] {
			n++
		}
	}
	return n
}
