package physics

import (
	"math"

	"github.com/playmatatu/lanes/internal/game"
)

type kind int

const (
	kindBall kind = iota
	kindPin
)

// body is a ball or a pin. For a ball pos is the sphere centre; for a pin
// it is the point of the base that stays on the deck while the pin tips.
type body struct {
	id   game.BodyID
	kind kind

	pos    game.Vec3
	vel    game.Vec3
	orient game.Quat

	spin     float64 // ball side spin about the vertical axis
	inGutter bool
	inPit    bool

	fall  game.Vec3 // horizontal direction a pin is leaning toward
	theta float64   // pin lean from vertical, radians
	omega float64   // pin lean rate
	out   bool      // pin has left the deck
}

// Contact records an impact for presentation, typically sound.
type Contact struct {
	A       game.BodyID `json:"a"`
	B       game.BodyID `json:"b"`
	Impulse float64     `json:"impulse"`
}

// World is a small deterministic lane simulation: a sphere rolling on a
// flat deck and pins that tip about their base edge. Bodies are stepped in
// creation order, so identical inputs replay identically.
type World struct {
	lane     game.Lane
	params   Params
	next     game.BodyID
	bodies   []*body
	contacts []Contact
}

var _ game.World = (*World)(nil)

func NewWorld(lane game.Lane, params Params) *World {
	if params.Substeps < 1 {
		params.Substeps = 1
	}
	return &World{lane: lane, params: params}
}

func (w *World) add(b *body) game.BodyID {
	w.next++
	b.id = w.next
	w.bodies = append(w.bodies, b)
	return b.id
}

func (w *World) find(id game.BodyID) *body {
	for _, b := range w.bodies {
		if b.id == id {
			return b
		}
	}
	return nil
}

func (w *World) SpawnBall(pos game.Vec3) game.BodyID {
	return w.add(&body{kind: kindBall, pos: pos, orient: game.IdentityQuat()})
}

// SpawnPin stands a pin whose centre is at pos.
func (w *World) SpawnPin(pos game.Vec3) game.BodyID {
	return w.add(&body{
		kind:   kindPin,
		pos:    game.NewVec3(pos.X, 0, pos.Z),
		orient: game.IdentityQuat(),
		fall:   game.NewVec3(0, 0, 1),
	})
}

func (w *World) Remove(id game.BodyID) {
	for i, b := range w.bodies {
		if b.id == id {
			w.bodies = append(w.bodies[:i], w.bodies[i+1:]...)
			return
		}
	}
}

// SetVelocity sets a body's horizontal velocity. For a ball the vertical
// component of angular is kept as side spin.
func (w *World) SetVelocity(id game.BodyID, linear, angular game.Vec3) {
	b := w.find(id)
	if b == nil {
		return
	}
	b.vel = linear.Horizontal()
	if b.kind == kindBall {
		b.spin = angular.Y
	}
}

func (w *World) SetPosition(id game.BodyID, pos game.Vec3) {
	b := w.find(id)
	if b == nil {
		return
	}
	if b.kind == kindPin {
		pos.Y = 0
	}
	b.pos = pos
}

func (w *World) Body(id game.BodyID) (game.Body, bool) {
	b := w.find(id)
	if b == nil {
		return game.Body{}, false
	}
	if b.kind == kindBall {
		return game.Body{
			Position:        b.pos,
			Orientation:     b.orient,
			LinearVelocity:  b.vel,
			AngularVelocity: b.rollAxis(),
		}, true
	}

	hc := game.PinHeight / 2
	sin, cos := math.Sincos(b.theta)
	axis := game.NewVec3(0, 1, 0).Cross(b.fall)
	return game.Body{
		Position: b.pos.
			Plus(b.fall.Times(hc * sin)).
			Plus(game.NewVec3(0, hc*cos+game.PinRadius*sin, 0)),
		Orientation:     game.QuatFromAxisAngle(axis, b.theta),
		LinearVelocity:  b.pinVelocity().Plus(game.NewVec3(0, -b.omega*hc*sin, 0)),
		AngularVelocity: axis.Normalize().Times(b.omega),
	}, true
}

// Contacts returns and clears the impacts recorded since the last call.
func (w *World) Contacts() []Contact {
	out := w.contacts
	w.contacts = nil
	return out
}

// AllStopped reports whether every body is at rest.
func (w *World) AllStopped() bool {
	for _, b := range w.bodies {
		if !b.vel.IsZero() || b.omega != 0 {
			return false
		}
	}
	return true
}

// Step advances the simulation by dt in Params.Substeps equal parts.
func (w *World) Step(dt float64) {
	h := dt / float64(w.params.Substeps)
	for i := 0; i < w.params.Substeps; i++ {
		for _, b := range w.bodies {
			if b.kind == kindBall {
				w.moveBall(b, h)
			} else {
				w.movePin(b, h)
			}
		}
		w.collide()
	}
}

func (b *body) rollAxis() game.Vec3 {
	return game.NewVec3(0, 1, 0).Cross(b.vel).Times(1 / game.BallRadius).Plus(game.NewVec3(0, b.spin, 0))
}

// pinVelocity is the horizontal velocity of a pin's centre.
func (b *body) pinVelocity() game.Vec3 {
	hc := game.PinHeight / 2
	return b.vel.Plus(b.fall.Times(b.omega * hc * math.Cos(b.theta)))
}

func (w *World) moveBall(b *body, h float64) {
	if b.inPit {
		return
	}

	if !b.inGutter && b.spin != 0 {
		b.vel.X -= w.params.HookGain * b.spin * h
		b.spin -= b.spin * w.params.SpinDecay * h
	}

	speed := b.vel.Magnitude() - w.params.RollFriction*h
	if speed < minSpeed {
		b.vel = game.Vec3{}
	} else {
		b.vel = b.vel.Normalize().Times(speed)
	}

	b.pos = b.pos.Plus(b.vel.Times(h))
	b.orient = b.orient.Integrate(b.rollAxis(), h)

	if !b.inGutter && math.Abs(b.pos.X-w.lane.X) > w.lane.HalfWidth {
		side := math.Copysign(1, b.pos.X-w.lane.X)
		b.inGutter = true
		b.pos.X = w.lane.X + side*(w.lane.HalfWidth+gutterOffset)
		b.pos.Y = game.BallRadius - gutterDrop
		b.vel.X = 0
		b.spin = 0
	}
	if b.pos.Z > w.lane.PitZ+pitOverrun {
		b.inPit = true
		b.pos.Y = -pitDrop
		b.vel = game.Vec3{}
		b.spin = 0
	}
}

func (w *World) movePin(b *body, h float64) {
	if b.out {
		return
	}

	speed := b.vel.Magnitude() - w.params.PinFriction*h
	if speed < minSpeed {
		b.vel = game.Vec3{}
	} else {
		b.vel = b.vel.Normalize().Times(speed)
	}
	b.pos = b.pos.Plus(b.vel.Times(h))

	if b.theta > 0 || b.omega != 0 {
		// tipping about the base edge: restoring below the critical lean,
		// toppling above it
		hc := game.PinHeight / 2
		arm := math.Hypot(hc, game.PinRadius)
		critical := math.Atan2(game.PinRadius, hc)
		b.omega += w.params.Gravity / arm * math.Sin(b.theta-critical) * h
		b.theta += b.omega * h
		if b.theta <= 0 {
			b.theta = 0
			b.omega = 0
		}
		if b.theta >= math.Pi/2 {
			b.theta = math.Pi / 2
			b.omega = 0
		}
	}

	if math.Abs(b.pos.X-w.lane.X) > w.lane.HalfWidth+game.PinRadius || b.pos.Z > w.lane.PitZ {
		b.out = true
		b.theta = math.Pi / 2
		b.omega = 0
		b.vel = game.Vec3{}
	}
}

func (b *body) active() bool {
	if b.kind == kindBall {
		return !b.inGutter && !b.inPit
	}
	return !b.out
}

func (w *World) mass(b *body) float64 {
	if b.kind == kindBall {
		return w.params.BallMass
	}
	return w.params.PinMass
}

// segment is a pin's footprint on the deck, base to head.
func (b *body) segment() (game.Vec3, game.Vec3) {
	base := b.pos.Horizontal()
	return base, base.Plus(b.fall.Times(game.PinHeight * math.Sin(b.theta)))
}

func (w *World) collide() {
	for i := 0; i < len(w.bodies); i++ {
		a := w.bodies[i]
		if !a.active() {
			continue
		}
		for j := i + 1; j < len(w.bodies); j++ {
			c := w.bodies[j]
			if !c.active() || (a.kind == kindBall && c.kind == kindBall) {
				continue
			}

			var pa, pc game.Vec3
			reach := 2 * game.PinRadius
			switch {
			case a.kind == kindBall:
				s0, s1 := c.segment()
				pa = a.pos.Horizontal()
				pc = closestOnSegment(pa, s0, s1)
				reach = game.BallRadius + game.PinRadius
			case c.kind == kindBall:
				s0, s1 := a.segment()
				pc = c.pos.Horizontal()
				pa = closestOnSegment(pc, s0, s1)
				reach = game.BallRadius + game.PinRadius
			default:
				pa, pc = closestBetweenPins(a, c)
			}

			d := pc.Minus(pa)
			dist := d.Magnitude()
			if dist >= reach || dist == 0 {
				continue
			}
			w.resolve(a, c, d.Times(1/dist), reach-dist)
		}
	}
}

// resolve separates two overlapping bodies along n (pointing from a to c)
// and exchanges a restitution impulse if they are closing.
func (w *World) resolve(a, c *body, n game.Vec3, depth float64) {
	invA, invC := 1/w.mass(a), 1/w.mass(c)
	share := depth / (invA + invC)
	a.pos = a.pos.Minus(n.Times(share * invA))
	c.pos = c.pos.Plus(n.Times(share * invC))

	closing := velocityOf(a).Minus(velocityOf(c)).Dot(n)
	if closing <= 0 {
		return
	}
	j := (1 + w.params.Restitution) * closing / (invA + invC)
	w.impulse(a, n.Times(-j))
	w.impulse(c, n.Times(j))

	if j > contactThreshold {
		w.contacts = append(w.contacts, Contact{A: a.id, B: c.id, Impulse: j})
	}
}

func velocityOf(b *body) game.Vec3 {
	if b.kind == kindBall {
		return b.vel
	}
	return b.pinVelocity()
}

// tipLock is the lean under which a hit chooses the pin's fall direction.
const tipLock = 3 * math.Pi / 180

func (w *World) impulse(b *body, j game.Vec3) {
	dv := j.Times(1 / w.mass(b))
	if b.kind == kindBall {
		b.vel = b.vel.Plus(dv)
		return
	}
	if b.theta >= math.Pi/2 {
		b.vel = b.vel.Plus(dv)
		return
	}

	// half the hit slides the base, half tips the pin
	b.vel = b.vel.Plus(dv.Times(0.5))
	arm := game.PinHeight / 2
	kick := dv.Magnitude() * 0.5 / arm
	dir := dv.Normalize()
	if b.theta < tipLock {
		if b.omega < 0 {
			b.omega = 0
		}
		b.fall = dir
		b.omega += kick
		return
	}
	b.omega += kick * b.fall.Dot(dir)
}

func closestOnSegment(p, a, b game.Vec3) game.Vec3 {
	ab := b.Minus(a)
	l2 := ab.MagnitudeSquared()
	if l2 == 0 {
		return a
	}
	t := p.Minus(a).Dot(ab) / l2
	t = math.Max(0, math.Min(1, t))
	return a.Plus(ab.Times(t))
}

// closestBetweenPins approximates the nearest points of two pin footprints
// by sampling along each.
func closestBetweenPins(a, c *body) (game.Vec3, game.Vec3) {
	a0, a1 := a.segment()
	c0, c1 := c.segment()

	bestA, bestC := a0, closestOnSegment(a0, c0, c1)
	best := bestC.Minus(bestA).MagnitudeSquared()
	const samples = 4
	for i := 0; i <= samples; i++ {
		t := float64(i) / samples
		pa := a0.Plus(a1.Minus(a0).Times(t))
		if q := closestOnSegment(pa, c0, c1); q.Minus(pa).MagnitudeSquared() < best {
			best, bestA, bestC = q.Minus(pa).MagnitudeSquared(), pa, q
		}
		pc := c0.Plus(c1.Minus(c0).Times(t))
		if q := closestOnSegment(pc, a0, a1); pc.Minus(q).MagnitudeSquared() < best {
			best, bestA, bestC = pc.Minus(q).MagnitudeSquared(), q, pc
		}
	}
	return bestA, bestC
}
