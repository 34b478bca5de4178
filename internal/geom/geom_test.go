package geom

import (
	"errors"
	"math"
	"testing"
)

const eps = 1e-9

func near(a, b float64) bool { return math.Abs(a-b) < 1e-6 }

func TestPointInTriangle_InsideEdgeOutside(t *testing.T) {
	a, b, c := V(0, 0), V(10, 0), V(0, 10)
	if !PointInTriangle(V(2, 2), a, b, c) {
		t.Fatal("expected (2,2) inside")
	}
	if !PointInTriangle(V(5, 0), a, b, c) {
		t.Fatal("expected edge point (5,0) to count as inside")
	}
	if PointInTriangle(V(6, 6), a, b, c) {
		t.Fatal("expected (6,6) outside")
	}
	// Reversed winding must give the same answer.
	if !PointInTriangle(V(2, 2), a, c, b) {
		t.Fatal("expected (2,2) inside with reversed winding")
	}
}

func TestCircleIntersectsCircle(t *testing.T) {
	if !CircleIntersectsCircle(V(0, 0), 5, V(9, 0), 5) {
		t.Fatal("expected overlapping circles to intersect")
	}
	if CircleIntersectsCircle(V(0, 0), 5, V(11, 0), 5) {
		t.Fatal("expected separated circles not to intersect")
	}
}

func TestCircleIntersectsTriangle_SampledApproximation(t *testing.T) {
	a, b, c := V(0, 0), V(10, 0), V(0, 10)
	// Right rim sample lands inside.
	if !CircleIntersectsTriangle(V(-3, 2), 4, a, b, c) {
		t.Fatal("expected rim sample inside triangle")
	}
	// The true circle touches the hypotenuse but no sample lands inside: the
	// approximation reports a miss.
	center := V(6, 6)
	if CircleIntersectsTriangle(center, 1.5, a, b, c) {
		t.Fatal("expected sampled test to miss a diagonal graze")
	}
}

func TestTriangleIntersectsTriangle_OneDirectional(t *testing.T) {
	big := [3]Vec2{V(-100, -100), V(100, -100), V(0, 100)}
	small := [3]Vec2{V(-1, 0), V(1, 0), V(0, 1)}
	if !TriangleIntersectsTriangle(small[0], small[1], small[2], big[0], big[1], big[2]) {
		t.Fatal("expected small-in-big to report intersection")
	}
	if TriangleIntersectsTriangle(big[0], big[1], big[2], small[0], small[1], small[2]) {
		t.Fatal("expected big-in-small to report no vertex containment")
	}
}

func TestTransform_RotateScaleTranslate(t *testing.T) {
	xf := Transform{Position: V(10, 20), Angle: 90, Scale: 2}
	got := xf.Apply(V(1, 0))
	if !near(got.X, 10) || !near(got.Y, 22) {
		t.Fatalf("expected (10,22), got (%.4f,%.4f)", got.X, got.Y)
	}
}

func TestHitboxContainsPoint(t *testing.T) {
	box := NewRectHitbox(-5, -5, 10, 10)
	xf := Transform{Position: V(100, 100), Angle: 45, Scale: 1}
	if !box.ContainsPoint(xf, V(100, 100)) {
		t.Fatal("expected centre inside rotated box")
	}
	if box.ContainsPoint(xf, V(106, 100)) == false {
		t.Fatal("expected (106,100) inside box rotated 45 degrees")
	}
	if box.ContainsPoint(xf, V(108, 100)) {
		t.Fatal("expected (108,100) outside rotated box")
	}

	circle := NewCircleHitbox(4)
	if !circle.ContainsPoint(Transform{Position: V(0, 0), Scale: 2}, V(7, 0)) {
		t.Fatal("expected scaled circle to contain (7,0)")
	}
}

func TestIntersects_SymmetricForCircles(t *testing.T) {
	a := NewCircleHitbox(3)
	b := NewCircleHitbox(5)
	for _, dx := range []float64{0, 7, 7.9, 8.1, 12, 20} {
		xa := Transform{Position: V(0, 0), Scale: 1}
		xb := Transform{Position: V(dx, 0), Scale: 1}
		if Intersects(a, xa, b, xb) != Intersects(b, xb, a, xa) {
			t.Fatalf("expected symmetric result at dx=%.1f", dx)
		}
	}
}

func TestIntersects_SymmetricForMeshes(t *testing.T) {
	big, err := NewMeshHitbox(V(-50, -50), V(50, -50), V(0, 50))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	small := NewRectHitbox(-2, -2, 4, 4)

	cases := []struct {
		offset Vec2
		angle  float64
		want   bool
	}{
		{V(0, 0), 0, true},
		{V(0, 0), 30, true},
		{V(200, 0), 0, false},
		{V(0, -49), 0, true},
	}
	for _, tc := range cases {
		xa := Transform{Position: V(0, 0), Scale: 1}
		xb := Transform{Position: tc.offset, Angle: tc.angle, Scale: 1}
		ab := Intersects(big, xa, small, xb)
		ba := Intersects(small, xb, big, xa)
		if ab != ba {
			t.Fatalf("expected symmetric result at offset %+v, got ab=%v ba=%v", tc.offset, ab, ba)
		}
		if ab != tc.want {
			t.Fatalf("expected %v at offset %+v, got %v", tc.want, tc.offset, ab)
		}
	}
}

func TestIntersects_CircleAgainstMesh(t *testing.T) {
	mesh := NewRectHitbox(-10, -10, 20, 20)
	circle := NewCircleHitbox(2)
	xm := Transform{Position: V(0, 0), Scale: 1}
	if !Intersects(circle, Transform{Position: V(11, 0), Scale: 1}, mesh, xm) {
		t.Fatal("expected circle rim at x=9 to hit the mesh")
	}
	if Intersects(circle, Transform{Position: V(13, 0), Scale: 1}, mesh, xm) {
		t.Fatal("expected circle at x=13 to miss")
	}
	// Scale applies to the circle's radius.
	if !Intersects(circle, Transform{Position: V(13, 0), Scale: 2}, mesh, xm) {
		t.Fatal("expected scaled circle at x=13 to hit")
	}
}

func TestIntersects_EmptyNeverCollides(t *testing.T) {
	var empty Hitbox
	circle := NewCircleHitbox(100)
	xf := Transform{Scale: 1}
	if Intersects(empty, xf, circle, xf) || Intersects(circle, xf, empty, xf) {
		t.Fatal("expected empty hitbox never to collide")
	}
}

func TestNewMeshHitbox_RejectsPartialTriangles(t *testing.T) {
	_, err := NewMeshHitbox(V(0, 0), V(1, 0))
	if !errors.Is(err, ErrVertexCount) {
		t.Fatalf("expected ErrVertexCount, got %v", err)
	}
}

func TestBoundingRadius(t *testing.T) {
	box := NewRectHitbox(-3, -4, 6, 8)
	if !near(box.BoundingRadius(), 5) {
		t.Fatalf("expected bounding radius 5, got %.4f", box.BoundingRadius())
	}
}

func TestWrapDegreesAndHeading(t *testing.T) {
	if got := WrapDegrees(270); !near(got, -90) {
		t.Fatalf("expected -90, got %.4f", got)
	}
	if got := WrapDegrees(-190); !near(got, 170) {
		t.Fatalf("expected 170, got %.4f", got)
	}
	h := Heading(0)
	if math.Abs(h.X) > eps || !near(h.Y, -1) {
		t.Fatalf("expected heading 0 to face up (0,-1), got (%.4f,%.4f)", h.X, h.Y)
	}
	h = Heading(90)
	if !near(h.X, 1) || math.Abs(h.Y) > 1e-9 {
		t.Fatalf("expected heading 90 to face right (1,0), got (%.4f,%.4f)", h.X, h.Y)
	}
}
