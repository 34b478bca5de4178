package sim

import (
	"testing"

	"github.com/Garsondee/Star-Sense/internal/geom"
)

func TestEffect_ParticlesChildrenAndExpiry(t *testing.T) {
	w := NewWorld()
	e, err := w.SpawnEffect("explosion", geom.V(10, 10), geom.V(1, 0))
	if err != nil {
		t.Fatal(err)
	}
	tmpl := e.Template

	w.Step(1)
	if n := len(e.Particles); n < tmpl.MinParticles || n >= tmpl.MaxParticles {
		t.Fatalf("expected particle count in [%d,%d), got %d", tmpl.MinParticles, tmpl.MaxParticles, n)
	}
	for i, p := range e.Particles {
		if p.Life > e.Lifespan+1 {
			t.Fatalf("particle %d: life %v outlives the effect (%v)", i, p.Life, e.Lifespan)
		}
	}
	children := pendingOfKind(w, KindEffect)
	if len(children) != 1 || children[0].Base().Label != "explosion-sparks" {
		t.Fatalf("expected one child effect queued, got %d", len(children))
	}
	if got := children[0].Base().Position; got != geom.V(10, 10) {
		t.Fatalf("expected child at the parent's position, got %v", got)
	}

	w.Step(1)
	if n := len(pendingOfKind(w, KindEffect)); n != 0 {
		t.Fatalf("expected children spawned only once, %d queued", n)
	}

	for range int(tmpl.Lifespan) {
		w.Step(1)
	}
	if e.Active {
		t.Fatal("expected effect to expire after its lifespan")
	}
}

func TestEffect_ModifiedTemplate(t *testing.T) {
	w := NewWorld()
	small, err := w.Catalog().Effect("explosion-small")
	if err != nil {
		t.Fatal(err)
	}
	big, _ := w.Catalog().Effect("explosion")
	if small.SpawnRadius != big.SpawnRadius/2 || small.MaxParticles != big.MaxParticles-12 {
		t.Fatalf("expected modifiers applied, got radius %v max %d", small.SpawnRadius, small.MaxParticles)
	}
	if small.Lifespan != big.Lifespan*0.5 {
		t.Fatalf("expected half lifespan, got %v", small.Lifespan)
	}
}

func TestEffect_UnknownName(t *testing.T) {
	w := NewWorld()
	if _, err := w.SpawnEffect("nope", geom.Vec2{}, geom.Vec2{}); err == nil {
		t.Fatal("expected an error for an unknown effect")
	}
}
