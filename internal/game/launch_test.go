package game

import (
	"math"
	"testing"
)

func near(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func TestComputeLaunchStraight(t *testing.T) {
	cfg := DefaultLaunchConfig()

	linear, angular := ComputeLaunch(cfg, 0, 1)
	if !near(linear.Z, cfg.MaxSpeed) || !near(linear.X, 0) || !near(linear.Y, 0) {
		t.Errorf("full power straight = %+v", linear)
	}
	if !angular.IsZero() {
		t.Errorf("straight ball should have no hook, got %+v", angular)
	}

	linear, _ = ComputeLaunch(cfg, 0, 0)
	if !near(linear.Magnitude(), cfg.MinSpeed) {
		t.Errorf("zero power speed = %f, want %f", linear.Magnitude(), cfg.MinSpeed)
	}
}

func TestComputeLaunchClampsInputs(t *testing.T) {
	cfg := DefaultLaunchConfig()

	over, _ := ComputeLaunch(cfg, 0, 7)
	if !near(over.Magnitude(), cfg.MaxSpeed) {
		t.Errorf("power above 1 not clamped: %f", over.Magnitude())
	}

	wide, spin := ComputeLaunch(cfg, 3, 0.5)
	limit, _ := ComputeLaunch(cfg, cfg.MaxAim, 0.5)
	if !near(wide.X, limit.X) || !near(wide.Z, limit.Z) {
		t.Errorf("aim not clamped: %+v vs %+v", wide, limit)
	}
	if !near(spin.Y, cfg.MaxAim*cfg.HookFactor) {
		t.Errorf("hook = %f, want %f", spin.Y, cfg.MaxAim*cfg.HookFactor)
	}

	nan, _ := ComputeLaunch(cfg, math.NaN(), math.NaN())
	if math.IsNaN(nan.Magnitude()) {
		t.Error("NaN input leaked into launch velocity")
	}
}

func TestComputeLaunchAimDirection(t *testing.T) {
	cfg := DefaultLaunchConfig()
	right, _ := ComputeLaunch(cfg, 0.3, 0.5)
	left, _ := ComputeLaunch(cfg, -0.3, 0.5)
	if right.X <= 0 || left.X >= 0 {
		t.Errorf("aim sign wrong: right=%+v left=%+v", right, left)
	}
	if !near(right.Magnitude(), left.Magnitude()) {
		t.Error("aim should not change speed")
	}
}

func TestShouldSettle(t *testing.T) {
	cfg := DefaultSettleConfig()
	tests := []struct {
		name             string
		ball, pin, ballZ float64
		want             bool
	}{
		{"moving ball", 5, 0, 4, false},
		{"ball slow pins moving", 0.1, 1, 9, false},
		{"everything at rest", 0.1, 0.1, 9, true},
		{"ball past pit", 12, 3, PitZ + 0.1, true},
	}
	for _, tt := range tests {
		if got := ShouldSettle(cfg, tt.ball, tt.pin, tt.ballZ, PitZ); got != tt.want {
			t.Errorf("%s: got %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestInGutter(t *testing.T) {
	cfg := DefaultGutterConfig()
	if InGutter(cfg, 0, NewVec3(1.2, 0, 2)) {
		t.Error("gutter called before the check line")
	}
	if !InGutter(cfg, 0, NewVec3(1.2, 0, PitZ-1)) {
		t.Error("wide ball past the check line not in gutter")
	}
	if InGutter(cfg, 0, NewVec3(0.4, 0, PitZ-1)) {
		t.Error("ball on the lane called a gutter")
	}
	cfg.Enabled = false
	if InGutter(cfg, 0, NewVec3(5, 0, PitZ-1)) {
		t.Error("disabled gutter check fired")
	}
}

func TestPowerMeterBounces(t *testing.T) {
	m := PowerMeter{Rate: 0.8}
	m.Advance(1)
	if m.Value() != 0 {
		t.Fatal("idle meter moved")
	}

	m.Start()
	m.Advance(1)
	if !near(m.Value(), 0.8) {
		t.Errorf("value = %f, want 0.8", m.Value())
	}
	m.Advance(0.5)
	if m.Value() != 1 {
		t.Errorf("value = %f, want clamp at 1", m.Value())
	}
	m.Advance(0.25)
	if !near(m.Value(), 0.8) {
		t.Errorf("value = %f, want 0.8 on the way down", m.Value())
	}

	m.Clear()
	if m.Charging() || m.Value() != 0 {
		t.Error("clear did not stop the meter")
	}
}

func TestVecAndQuat(t *testing.T) {
	v := NewVec3(3, 4, 12)
	if !near(v.Magnitude(), 13) {
		t.Errorf("magnitude = %f", v.Magnitude())
	}
	if !near(v.Normalize().Magnitude(), 1) {
		t.Error("normalize not unit length")
	}
	if !(Vec3{}).Normalize().IsZero() {
		t.Error("zero vector should normalize to zero")
	}
	if c := NewVec3(1, 0, 0).Cross(NewVec3(0, 1, 0)); !near(c.Z, 1) {
		t.Errorf("x cross y = %+v", c)
	}

	q := QuatFromAxisAngle(NewVec3(1, 0, 0), math.Pi/2)
	if !near(q.TiltDegrees(), 90) {
		t.Errorf("tilt = %f, want 90", q.TiltDegrees())
	}
	if IdentityQuat().TiltDegrees() != 0 {
		t.Error("identity should be upright")
	}

	// spinning about the vertical axis never tilts
	spun := IdentityQuat()
	for i := 0; i < 100; i++ {
		spun = spun.Integrate(NewVec3(0, 5, 0), 0.01)
	}
	if spun.TiltDegrees() > 1e-6 {
		t.Errorf("yaw produced tilt %f", spun.TiltDegrees())
	}
}
