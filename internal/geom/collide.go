package geom

// PointInTriangle reports whether p lies inside or on the edge of triangle
// abc. Winding order does not matter.
func PointInTriangle(p, a, b, c Vec2) bool {
	d1 := edgeSign(p, a, b)
	d2 := edgeSign(p, b, c)
	d3 := edgeSign(p, c, a)

	hasNeg := d1 < 0 || d2 < 0 || d3 < 0
	hasPos := d1 > 0 || d2 > 0 || d3 > 0
	return !(hasNeg && hasPos)
}

func edgeSign(p, a, b Vec2) float64 {
	return (p.X-b.X)*(a.Y-b.Y) - (a.X-b.X)*(p.Y-b.Y)
}

// CircleIntersectsCircle reports whether two circles overlap or touch.
func CircleIntersectsCircle(c1 Vec2, r1 float64, c2 Vec2, r2 float64) bool {
	r := r1 + r2
	return c1.Dist2(c2) <= r*r
}

// CircleIntersectsTriangle is a sampled test: the circle counts as touching
// the triangle when its center or one of its four cardinal rim points lies
// inside. Thin triangles passing between the samples are missed.
func CircleIntersectsTriangle(center Vec2, radius float64, a, b, c Vec2) bool {
	samples := [5]Vec2{
		center,
		{center.X + radius, center.Y},
		{center.X - radius, center.Y},
		{center.X, center.Y + radius},
		{center.X, center.Y - radius},
	}
	for _, p := range samples {
		if PointInTriangle(p, a, b, c) {
			return true
		}
	}
	return false
}

// TriangleIntersectsTriangle reports whether any vertex of the first triangle
// lies inside the second. It is one-directional: swap the arguments to test
// the other containment.
func TriangleIntersectsTriangle(a1, b1, c1, a2, b2, c2 Vec2) bool {
	return PointInTriangle(a1, a2, b2, c2) ||
		PointInTriangle(b1, a2, b2, c2) ||
		PointInTriangle(c1, a2, b2, c2)
}
