package view

import (
	"math"
	"strings"
	"testing"

	"github.com/Garsondee/Star-Sense/internal/geom"
	"github.com/Garsondee/Star-Sense/internal/sim"
)

func TestCamera_ScreenWorldRoundTrip(t *testing.T) {
	c := camera{x: 250, y: -40, zoom: 2, width: 800, height: 600}

	// The camera centre lands in the middle of the viewport.
	sx, sy := c.toScreen(geom.V(250, -40))
	if sx != 400 || sy != 300 {
		t.Fatalf("expected centre at (400,300), got (%.1f,%.1f)", sx, sy)
	}

	p := c.toWorld(500, 100)
	bx, by := c.toScreen(p)
	if math.Abs(float64(bx)-500) > 1e-3 || math.Abs(float64(by)-100) > 1e-3 {
		t.Fatalf("expected round trip to (500,100), got (%.3f,%.3f)", bx, by)
	}
	if p.X != 300 || p.Y != -140 {
		t.Fatalf("expected world point (300,-140), got (%.1f,%.1f)", p.X, p.Y)
	}
}

func TestCamera_ZoomClamped(t *testing.T) {
	c := camera{zoom: 1}
	for range 40 {
		c.zoomBy(zoomStep)
	}
	if c.zoom != zoomMax {
		t.Fatalf("expected zoom clamped to %.1f, got %.3f", zoomMax, c.zoom)
	}
	for range 80 {
		c.wheel(-1)
	}
	if c.zoom != zoomMin {
		t.Fatalf("expected zoom clamped to %.1f, got %.3f", zoomMin, c.zoom)
	}
}

func TestCamera_PanScalesWithZoom(t *testing.T) {
	c := camera{zoom: 2}
	c.pan(1, 0)
	if c.x != panPixels/2 {
		t.Fatalf("expected pan of %.1f world units at 2x, got %.1f", panPixels/2, c.x)
	}
}

func TestCamera_FitFrame(t *testing.T) {
	c := camera{zoom: 1, width: 800, height: 600}
	f := &sim.Frame{Entities: []sim.EntityView{
		{Position: geom.V(-1000, 0)},
		{Position: geom.V(1000, 200)},
	}}
	c.fit(f)
	if c.x != 0 || c.y != 100 {
		t.Fatalf("expected centre (0,100), got (%.1f,%.1f)", c.x, c.y)
	}
	// 800 px across 2000 units plus margin.
	want := 800.0 / 2400.0
	if math.Abs(c.zoom-want) > 1e-9 {
		t.Fatalf("expected zoom %.4f, got %.4f", want, c.zoom)
	}

	c.fit(&sim.Frame{})
	if c.x != 0 || c.y != 0 || c.zoom != 1 {
		t.Fatalf("expected empty frame to reset camera, got (%.1f,%.1f) %.2fx", c.x, c.y, c.zoom)
	}
}

func TestStepSpeed(t *testing.T) {
	cases := []struct {
		cur  float64
		dir  int
		want float64
	}{
		{1, 1, 2},
		{1, -1, 0.5},
		{4, 1, 4},
		{0.25, -1, 0.25},
		{3, -1, 2}, // off-table speeds snap to the next entry up first
	}
	for _, tc := range cases {
		if got := stepSpeed(tc.cur, tc.dir); got != tc.want {
			t.Fatalf("stepSpeed(%.2f, %d): expected %.2f, got %.2f", tc.cur, tc.dir, tc.want, got)
		}
	}
}

func TestInspectorLine(t *testing.T) {
	w := sim.NewWorld()
	g, err := w.SpawnGroup("fighter-squadron", geom.V(0, 0), 1)
	if err != nil {
		t.Fatalf("expected squadron to spawn, got %v", err)
	}
	enemy, err := w.SpawnShip("fighter", geom.V(800, 0), 2)
	if err != nil {
		t.Fatalf("expected enemy to spawn, got %v", err)
	}
	lead := g.Leader()
	lead.AttackOrder(enemy.Handle())

	line := inspectorLine(w, lead)
	for _, want := range []string{lead.Label, "f1", "attacking", "hull=40/40", "target=" + enemy.Label, "(leader)"} {
		if !strings.Contains(line, want) {
			t.Fatalf("expected %q in inspector line, got %q", want, line)
		}
	}

	line = inspectorLine(w, enemy)
	if strings.Contains(line, "group=") || strings.Contains(line, "target=") {
		t.Fatalf("expected lone idle ship to omit group and target, got %q", line)
	}
}
