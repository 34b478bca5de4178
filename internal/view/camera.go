package view

import (
	"math"

	"github.com/Garsondee/Star-Sense/internal/geom"
	"github.com/Garsondee/Star-Sense/internal/sim"
)

const (
	zoomMin   = 0.1
	zoomMax   = 4.0
	zoomStep  = 1.25
	wheelBase = 1.12
	panPixels = 8.0 // per frame, in screen pixels
)

// camera maps world space onto a viewport of width x height pixels centred
// on (x, y).
type camera struct {
	x, y   float64
	zoom   float64
	width  float64
	height float64
}

func (c *camera) toScreen(p geom.Vec2) (float32, float32) {
	sx := (p.X-c.x)*c.zoom + c.width/2
	sy := (p.Y-c.y)*c.zoom + c.height/2
	return float32(sx), float32(sy)
}

func (c *camera) toWorld(sx, sy int) geom.Vec2 {
	return geom.V(
		(float64(sx)-c.width/2)/c.zoom+c.x,
		(float64(sy)-c.height/2)/c.zoom+c.y,
	)
}

func (c *camera) pan(dx, dy float64) {
	c.x += dx * panPixels / c.zoom
	c.y += dy * panPixels / c.zoom
}

// zoomBy scales the zoom by f, clamped.
func (c *camera) zoomBy(f float64) {
	c.zoom = geom.Clamp(c.zoom*f, zoomMin, zoomMax)
}

func (c *camera) wheel(wy float64) {
	if wy != 0 {
		c.zoomBy(math.Pow(wheelBase, wy))
	}
}

// fit centres the camera on the frame's ships and zooms out until they all
// fit with a margin.
func (c *camera) fit(f *sim.Frame) {
	if len(f.Entities) == 0 {
		c.x, c.y, c.zoom = 0, 0, 1
		return
	}
	lo := f.Entities[0].Position
	hi := lo
	for _, e := range f.Entities[1:] {
		lo = geom.V(min(lo.X, e.Position.X), min(lo.Y, e.Position.Y))
		hi = geom.V(max(hi.X, e.Position.X), max(hi.Y, e.Position.Y))
	}
	c.x = (lo.X + hi.X) / 2
	c.y = (lo.Y + hi.Y) / 2
	const margin = 400
	zx := c.width / (hi.X - lo.X + margin)
	zy := c.height / (hi.Y - lo.Y + margin)
	c.zoom = geom.Clamp(min(zx, zy), zoomMin, zoomMax)
}

func (c *camera) transform() sim.ViewTransform {
	return sim.ViewTransform{Center: geom.V(c.x, c.y), Scale: c.zoom}
}
