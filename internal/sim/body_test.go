package sim

import (
	"math"
	"testing"

	"github.com/Garsondee/Star-Sense/internal/geom"
)

func near(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func TestIntegrate_VelocityBeforePosition(t *testing.T) {
	b := newBody()
	b.Velocity = geom.V(1, 0)
	b.Acceleration = geom.V(0, 2)

	b.Integrate(1)

	if b.Velocity != geom.V(1, 2) {
		t.Fatalf("expected velocity (1,2), got %v", b.Velocity)
	}
	if b.Position != geom.V(1, 2) {
		t.Fatalf("expected position (1,2) after one step, got %v", b.Position)
	}
}

func TestIntegrate_DragDecaysGeometrically(t *testing.T) {
	b := newBody()
	b.Velocity = geom.V(10, 0)
	b.Drag = 0.1
	b.Mass = 2

	for range 3 {
		b.Integrate(1)
	}

	// factor 1 - 0.1*1/2 = 0.95 per step, applied after the position update
	wantV := 10 * math.Pow(0.95, 3)
	wantX := 10 + 10*0.95 + 10*0.95*0.95
	if !near(b.Velocity.X, wantV) {
		t.Fatalf("expected vx %.6f, got %.6f", wantV, b.Velocity.X)
	}
	if !near(b.Position.X, wantX) {
		t.Fatalf("expected x %.6f, got %.6f", wantX, b.Position.X)
	}
}

func TestIntegrate_Angular(t *testing.T) {
	b := newBody()
	b.AngularAcceleration = 2
	b.AngularDrag = 0.5

	b.Integrate(1)
	if !near(b.Angle, 2) {
		t.Fatalf("expected angle 2, got %v", b.Angle)
	}
	if !near(b.AngularVelocity, 1) {
		t.Fatalf("expected angular velocity 1 after drag, got %v", b.AngularVelocity)
	}
}

func TestIntegrate_InactiveBodyIsFrozen(t *testing.T) {
	b := newBody()
	b.Velocity = geom.V(3, 4)
	b.Active = false

	b.Integrate(1)
	if b.Position != (geom.Vec2{}) {
		t.Fatalf("expected inactive body to stay put, got %v", b.Position)
	}
}

func TestHandle_ZeroIsInvalid(t *testing.T) {
	var h Handle
	if h.Valid() {
		t.Fatal("expected zero handle to be invalid")
	}
	w := NewWorld()
	if w.Resolve(h) != nil {
		t.Fatal("expected zero handle to resolve to nothing")
	}
}

func TestParseStance(t *testing.T) {
	cases := map[string]Stance{
		"defend":    StanceDefend,
		"no-attack": StanceNoAttack,
		"NoAttack":  StanceNoAttack,
		"hunt":      StanceHunt,
		"attack":    StanceAttack,
		"bogus":     StanceDefend,
	}
	for in, want := range cases {
		if got := ParseStance(in); got != want {
			t.Fatalf("ParseStance(%q): expected %s, got %s", in, want, got)
		}
	}
}

func TestThrottleFor(t *testing.T) {
	if got := throttleFor(0); got != 1 {
		t.Fatalf("expected full throttle on target, got %v", got)
	}
	if got := throttleFor(90); !near(got, 0.25) {
		t.Fatalf("expected 0.25 at 90 degrees, got %v", got)
	}
	if got := throttleFor(-180); got != 0 {
		t.Fatalf("expected zero throttle facing away, got %v", got)
	}
}

func TestTurnBy_CoarseThenCubic(t *testing.T) {
	s := &Ship{TurnRate: 0.5}
	cases := []struct{ aimErr, want float64 }{
		{30, 0.5},
		{-30, -0.5},
		{0.5, 0.0625},
		{-0.5, -0.0625},
		{0, 0},
	}
	for _, tc := range cases {
		s.turnBy(tc.aimErr, 1)
		if s.AngularAcceleration != tc.want {
			t.Fatalf("turnBy(%.1f): expected %.4f, got %.4f", tc.aimErr, tc.want, s.AngularAcceleration)
		}
	}
}
