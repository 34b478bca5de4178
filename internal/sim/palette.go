package sim

import (
	"image/color"

	"github.com/Garsondee/Star-Sense/internal/geom"
)

// ViewTransform is the renderer's camera, stored on the world so the core can
// express screen-space thresholds in world units. The world never writes it.
type ViewTransform struct {
	Center geom.Vec2
	Scale  float64 // screen pixels per world unit
}

// PixelsToWorld converts a screen distance to world units.
func (v ViewTransform) PixelsToWorld(px float64) float64 {
	if v.Scale <= 0 {
		return px
	}
	return px / v.Scale
}

var neutralColor = color.RGBA{R: 160, G: 160, B: 160, A: 255}

func defaultPalette() map[int]color.RGBA {
	return map[int]color.RGBA{
		1: {R: 70, G: 150, B: 255, A: 255},
		2: {R: 240, G: 70, B: 60, A: 255},
		3: {R: 90, G: 220, B: 110, A: 255},
		4: {R: 240, G: 200, B: 60, A: 255},
	}
}

// SetFactionColor assigns the color a faction is drawn in.
func (w *World) SetFactionColor(faction int, c color.RGBA) {
	w.palette[faction] = c
}

// FactionColor returns the faction's color, grey for unknown factions.
func (w *World) FactionColor(faction int) color.RGBA {
	if c, ok := w.palette[faction]; ok {
		return c
	}
	return neutralColor
}
