// Package geom holds the 2D vector math and hit-testing primitives shared by
// the simulation. Angles are in degrees unless a name says otherwise.
package geom

import "math"

// Vec2 is a point or direction in world space. +Y points down the screen.
type Vec2 struct {
	X, Y float64
}

// V is shorthand for Vec2{x, y}.
func V(x, y float64) Vec2 {
	return Vec2{X: x, Y: y}
}

func (v Vec2) Add(o Vec2) Vec2 { return Vec2{v.X + o.X, v.Y + o.Y} }

func (v Vec2) Sub(o Vec2) Vec2 { return Vec2{v.X - o.X, v.Y - o.Y} }

func (v Vec2) Mul(s float64) Vec2 { return Vec2{v.X * s, v.Y * s} }

func (v Vec2) Dot(o Vec2) float64 { return v.X*o.X + v.Y*o.Y }

// Len2 is the squared length.
func (v Vec2) Len2() float64 { return v.X*v.X + v.Y*v.Y }

func (v Vec2) Len() float64 { return math.Hypot(v.X, v.Y) }

// Dist2 is the squared distance between two points.
func (v Vec2) Dist2(o Vec2) float64 { return v.Sub(o).Len2() }

func (v Vec2) Dist(o Vec2) float64 { return math.Sqrt(v.Dist2(o)) }

// Normalize returns the unit vector in v's direction, or the zero vector when
// v has no length.
func (v Vec2) Normalize() Vec2 {
	l := v.Len()
	if l == 0 {
		return Vec2{}
	}
	return Vec2{v.X / l, v.Y / l}
}

// Rotate turns v counter-clockwise in math coordinates (clockwise on screen)
// by rad radians.
func (v Vec2) Rotate(rad float64) Vec2 {
	s, c := math.Sincos(rad)
	return Vec2{v.X*c - v.Y*s, v.X*s + v.Y*c}
}

// RotateDeg is Rotate with the angle in degrees.
func (v Vec2) RotateDeg(deg float64) Vec2 {
	return v.Rotate(DegToRad(deg))
}

func DegToRad(deg float64) float64 { return deg * math.Pi / 180 }

func RadToDeg(rad float64) float64 { return rad * 180 / math.Pi }

// AngleTo returns the absolute bearing from one point to another in degrees,
// measured from +X.
func AngleTo(from, to Vec2) float64 {
	return RadToDeg(math.Atan2(to.Y-from.Y, to.X-from.X))
}

// Heading returns the unit vector a ship with the given angle faces. Angle 0
// points up the screen (-Y).
func Heading(angleDeg float64) Vec2 {
	rad := DegToRad(angleDeg - 90)
	return Vec2{math.Cos(rad), math.Sin(rad)}
}

// WrapDegrees folds an angle into [-180, 180].
func WrapDegrees(a float64) float64 {
	a = math.Mod(a, 360)
	if a > 180 {
		a -= 360
	} else if a < -180 {
		a += 360
	}
	return a
}

// Clamp limits x to [lo, hi].
func Clamp(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
