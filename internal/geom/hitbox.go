package geom

import (
	"errors"
	"fmt"
	"math"
)

// ErrVertexCount is returned when mesh vertices do not come in triples.
var ErrVertexCount = errors.New("vertex count is not a multiple of 3")

// Triangle is one face of a mesh hitbox in local space.
type Triangle struct {
	A, B, C Vec2
}

// Hitbox is collision geometry in local, unrotated, unscaled space. It is
// either a triangle mesh or a circle: a non-empty Triangles list wins over
// Radius.
type Hitbox struct {
	Triangles []Triangle
	Radius    float64
}

// Transform places a hitbox in the world: rotate by Angle degrees, scale,
// then translate to Position.
type Transform struct {
	Position Vec2
	Angle    float64
	Scale    float64
}

// Apply maps a local point into world space.
func (xf Transform) Apply(p Vec2) Vec2 {
	return p.RotateDeg(xf.Angle).Mul(xf.Scale).Add(xf.Position)
}

func (xf Transform) triangle(t Triangle) Triangle {
	return Triangle{A: xf.Apply(t.A), B: xf.Apply(t.B), C: xf.Apply(t.C)}
}

// NewCircleHitbox returns a circular hitbox.
func NewCircleHitbox(radius float64) Hitbox {
	return Hitbox{Radius: radius}
}

// NewRectHitbox returns a two-triangle mesh covering the rectangle with its
// top-left corner at (x, y).
func NewRectHitbox(x, y, w, h float64) Hitbox {
	hb, _ := NewMeshHitbox(
		V(x, y), V(x+w, y), V(x, y+h),
		V(x+w, y), V(x+w, y+h), V(x, y+h),
	)
	return hb
}

// NewMeshHitbox groups vertices into triangles, three at a time.
func NewMeshHitbox(vertices ...Vec2) (Hitbox, error) {
	if len(vertices)%3 != 0 {
		return Hitbox{}, fmt.Errorf("mesh hitbox with %d vertices: %w", len(vertices), ErrVertexCount)
	}
	tris := make([]Triangle, 0, len(vertices)/3)
	for i := 0; i < len(vertices); i += 3 {
		tris = append(tris, Triangle{A: vertices[i], B: vertices[i+1], C: vertices[i+2]})
	}
	return Hitbox{Triangles: tris}, nil
}

func (h Hitbox) IsMesh() bool { return len(h.Triangles) > 0 }

func (h Hitbox) IsCircle() bool { return len(h.Triangles) == 0 && h.Radius > 0 }

// Empty reports whether the hitbox can never collide.
func (h Hitbox) Empty() bool { return !h.IsMesh() && !h.IsCircle() }

// BoundingRadius is the radius of the smallest origin-centred circle that
// contains the local geometry.
func (h Hitbox) BoundingRadius() float64 {
	if !h.IsMesh() {
		return h.Radius
	}
	var r2 float64
	for _, t := range h.Triangles {
		r2 = math.Max(r2, math.Max(t.A.Len2(), math.Max(t.B.Len2(), t.C.Len2())))
	}
	return math.Sqrt(r2)
}

// ContainsPoint reports whether the world-space point p lies inside the
// hitbox placed by xf.
func (h Hitbox) ContainsPoint(xf Transform, p Vec2) bool {
	if h.IsMesh() {
		for _, t := range h.Triangles {
			w := xf.triangle(t)
			if PointInTriangle(p, w.A, w.B, w.C) {
				return true
			}
		}
		return false
	}
	if h.Radius <= 0 {
		return false
	}
	r := h.Radius * xf.Scale
	return p.Dist2(xf.Position) <= r*r
}

// Intersects tests two placed hitboxes against each other.
//
// Circle/circle and mesh/mesh are symmetric in their arguments. A mesh pair
// overlaps when a vertex of either mesh lies inside the other. Circle/mesh
// uses the sampled CircleIntersectsTriangle test with the circle's scaled
// radius.
func Intersects(a Hitbox, xa Transform, b Hitbox, xb Transform) bool {
	switch {
	case a.Empty() || b.Empty():
		return false
	case a.IsCircle() && b.IsCircle():
		return CircleIntersectsCircle(xa.Position, a.Radius*xa.Scale, xb.Position, b.Radius*xb.Scale)
	case a.IsCircle():
		return circleMesh(xa.Position, a.Radius*xa.Scale, b, xb)
	case b.IsCircle():
		return circleMesh(xb.Position, b.Radius*xb.Scale, a, xa)
	}

	for _, ta := range a.Triangles {
		wa := xa.triangle(ta)
		for _, tb := range b.Triangles {
			wb := xb.triangle(tb)
			if TriangleIntersectsTriangle(wa.A, wa.B, wa.C, wb.A, wb.B, wb.C) ||
				TriangleIntersectsTriangle(wb.A, wb.B, wb.C, wa.A, wa.B, wa.C) {
				return true
			}
		}
	}
	return false
}

func circleMesh(center Vec2, radius float64, mesh Hitbox, xf Transform) bool {
	for _, t := range mesh.Triangles {
		w := xf.triangle(t)
		if CircleIntersectsTriangle(center, radius, w.A, w.B, w.C) {
			return true
		}
	}
	return false
}
