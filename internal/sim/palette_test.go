package sim

import (
	"image/color"
	"testing"

	"github.com/Garsondee/Star-Sense/internal/geom"
)

func TestFactionColor_DefaultsAndOverride(t *testing.T) {
	w := NewWorld()
	if w.FactionColor(1) == w.FactionColor(2) {
		t.Fatalf("expected factions 1 and 2 to differ, both %v", w.FactionColor(1))
	}
	if got := w.FactionColor(99); got != neutralColor {
		t.Fatalf("expected neutral color for unknown faction, got %v", got)
	}

	gold := color.RGBA{R: 255, G: 215, A: 255}
	w.SetFactionColor(99, gold)
	if got := w.FactionColor(99); got != gold {
		t.Fatalf("expected override %v, got %v", gold, got)
	}
}

func TestViewTransform_PixelsToWorld(t *testing.T) {
	if got := (ViewTransform{Scale: 2}).PixelsToWorld(10); got != 5 {
		t.Fatalf("expected 5 world units, got %.2f", got)
	}
	if got := (ViewTransform{}).PixelsToWorld(10); got != 10 {
		t.Fatalf("expected unscaled view to pass through, got %.2f", got)
	}
}

func TestShipAt_SlopFollowsViewScale(t *testing.T) {
	w := NewWorld()
	s := mustShip(t, w, "fighter", 0, 0, 1)
	w.drainSpawns()

	// Fighter hitbox radius is 14; 40 units out is a miss at native zoom.
	p := s.Position.Add(geom.V(40, 0))
	if got := w.ShipAt(p); got != nil {
		t.Fatalf("expected miss at 1x, got %s", got.Label)
	}
	// Zoomed far out, 40 world units is under the pick slop.
	w.View = ViewTransform{Scale: 0.1}
	if got := w.ShipAt(p); got != s {
		t.Fatalf("expected %s picked when zoomed out, got %v", s.Label, got)
	}
}
