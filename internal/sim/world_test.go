package sim

import (
	"errors"
	"testing"

	"github.com/Garsondee/Star-Sense/internal/geom"
	"github.com/Garsondee/Star-Sense/internal/template"
)

func mustShip(t *testing.T, w *World, name string, x, y float64, faction int) *Ship {
	t.Helper()
	s, err := w.SpawnShip(name, geom.V(x, y), faction)
	if err != nil {
		t.Fatalf("spawn %s: %v", name, err)
	}
	return s
}

func TestSpawn_JoinsOnNextTick(t *testing.T) {
	w := NewWorld()
	enemy := mustShip(t, w, "fighter", 0, 0, 2)
	w.Step(1)

	s := mustShip(t, w, "fighter", 50, 0, 1)
	if w.Pending() != 1 {
		t.Fatalf("expected 1 pending, got %d", w.Pending())
	}
	if len(w.Entities()) != 1 {
		t.Fatalf("expected spawned ship to wait for the next tick, have %d entities", len(w.Entities()))
	}
	if w.Resolve(s.Handle()) == nil {
		t.Fatal("expected a pending ship to resolve")
	}
	if got := w.GetTargets(enemy, enemy.Position, 1000); len(got) != 0 {
		t.Fatalf("expected pending ship to be invisible to queries, got %d targets", len(got))
	}

	w.Step(1)
	if w.Pending() != 0 || len(w.Entities()) != 2 {
		t.Fatalf("expected 2 entities and nothing pending, got %d/%d", len(w.Entities()), w.Pending())
	}
}

func TestTick_PausedDoesNothingStepForces(t *testing.T) {
	w := NewWorld()
	mustShip(t, w, "fighter", 0, 0, 1)
	w.Paused = true

	w.Tick(1)
	if w.TickCount() != 0 || len(w.Entities()) != 0 {
		t.Fatalf("expected paused tick to be a no-op, tick=%d entities=%d", w.TickCount(), len(w.Entities()))
	}
	w.Step(1)
	if w.TickCount() != 1 || len(w.Entities()) != 1 {
		t.Fatalf("expected step to advance while paused, tick=%d entities=%d", w.TickCount(), len(w.Entities()))
	}
}

func TestPrune_Hysteresis(t *testing.T) {
	w := NewWorld(WithInitialPruneLimit(4))
	var ships []*Ship
	for i := range 6 {
		ships = append(ships, mustShip(t, w, "fighter", float64(i)*1000, 0, 1))
	}
	w.Step(1)
	if got := w.PruneLimit(); got != 12 {
		t.Fatalf("expected limit doubled to 12 after a prune with 6 left, got %d", got)
	}

	dead := ships[:3]
	for _, s := range dead {
		s.Active = false
	}
	w.Step(1)
	if len(w.Entities()) != 6 {
		t.Fatalf("expected inactive ships kept below the limit, got %d entities", len(w.Entities()))
	}

	for i := range 8 {
		mustShip(t, w, "fighter", float64(i)*1000, 5000, 1)
	}
	w.Step(1)
	if len(w.Entities()) != 11 {
		t.Fatalf("expected 11 entities after pruning 3 of 14, got %d", len(w.Entities()))
	}
	if got := w.PruneLimit(); got != 22 {
		t.Fatalf("expected limit 22, got %d", got)
	}
	for _, s := range dead {
		if w.Resolve(s.Handle()) != nil {
			t.Fatalf("expected pruned handle %s to stop resolving", s.Handle())
		}
	}
	if n := w.Sprites().Users("fighter"); n != 11 {
		t.Fatalf("expected 11 fighter sprite users, got %d", n)
	}
}

func TestPrune_RecyclesHandleSlots(t *testing.T) {
	w := NewWorld(WithInitialPruneLimit(1))
	a := mustShip(t, w, "fighter", 0, 0, 1)
	mustShip(t, w, "fighter", 1000, 0, 1)
	w.Step(1)
	old := a.Handle()
	a.Active = false
	w.pruneLimit = 1
	w.Step(1)
	if w.Resolve(old) != nil {
		t.Fatal("expected old handle to be dead")
	}

	b := mustShip(t, w, "fighter", 0, 0, 1)
	if b.Handle().index != old.index {
		t.Fatalf("expected slot %d reused, got %d", old.index, b.Handle().index)
	}
	if b.Handle() == old {
		t.Fatal("expected a new generation on reuse")
	}
	if w.Resolve(old) != nil {
		t.Fatal("expected old handle to stay dead after reuse")
	}
}

func TestCollision_SenderAndFactionExcluded(t *testing.T) {
	w := NewWorld()
	a := mustShip(t, w, "fighter", 0, 0, 1)
	b := mustShip(t, w, "fighter", 0, 0, 1)
	c := mustShip(t, w, "fighter", 0, 0, 1)
	laser, err := w.Catalog().Projectile("laser")
	if err != nil {
		t.Fatal(err)
	}

	friendly := w.spawnProjectile(laser, a, geom.Vec2{}, geom.Vec2{})
	w.Step(1)
	if !friendly.Active {
		t.Fatal("expected same-faction projectile to pass through")
	}
	for _, s := range []*Ship{a, b, c} {
		if s.Shield != s.MaxShield {
			t.Fatalf("expected %s untouched, shield %v", s.Label, s.Shield)
		}
	}
	friendly.Active = false

	stray := w.spawnProjectile(laser, a, geom.Vec2{}, geom.Vec2{})
	stray.Faction = 9
	w.Step(1)
	if stray.Active {
		t.Fatal("expected hostile projectile consumed")
	}
	if a.Shield != a.MaxShield {
		t.Fatal("expected the sender never to be hit by its own shot")
	}
	if b.Shield >= b.MaxShield {
		t.Fatalf("expected the first candidate in entity order to be hit, shield %v", b.Shield)
	}
	if c.Shield != c.MaxShield {
		t.Fatal("expected a projectile to hit at most one ship")
	}
	impacts := pendingOfKind(w, KindEffect)
	if len(impacts) != 1 || impacts[0].Base().Label != "impact" {
		t.Fatalf("expected one impact effect, got %d", len(impacts))
	}
}

func TestQueries_FactionAndRadius(t *testing.T) {
	w := NewWorld()
	self := mustShip(t, w, "fighter", 0, 0, 1)
	near := mustShip(t, w, "fighter", 100, 0, 2)
	mustShip(t, w, "fighter", 300, 0, 2)
	mustShip(t, w, "fighter", 50, 0, 1)
	w.drainSpawns()

	got := w.GetTargets(self, self.Position, 200)
	if len(got) != 1 || got[0] != near {
		t.Fatalf("expected only the near enemy, got %d targets", len(got))
	}
	if got := w.GetTargets(self, self.Position, 100); len(got) != 0 {
		t.Fatalf("expected the radius bound to be strict, got %d", len(got))
	}
}

func TestGetNeighbors_SkipsHardpointsAndSelfPosition(t *testing.T) {
	w := NewWorld()
	cruiser := mustShip(t, w, "cruiser", 0, 0, 1)
	wing := mustShip(t, w, "fighter", 40, 0, 1)
	mustShip(t, w, "fighter", 0, 0, 1)
	mustShip(t, w, "fighter", 60, 0, 2)
	w.drainSpawns()

	got := w.GetNeighbors(cruiser, cruiser.Position, 100)
	if len(got) != 1 || got[0] != wing {
		t.Fatalf("expected only the wingman, got %d neighbors", len(got))
	}
}

func TestHardpoint_SlavedToParent(t *testing.T) {
	w := NewWorld()
	c := mustShip(t, w, "cruiser", 100, 100, 1)
	w.Step(1)

	c.Angle = 90
	c.Velocity = geom.V(1, 0)
	c.Faction = 3
	c.Stance = StanceHunt
	c.MoveOrder(geom.V(5000, 100))
	w.Step(1)

	for i, h := range c.Hardpoints {
		hp := w.Resolve(h).(*Hardpoint)
		want := c.Position.Add(hp.Offset.RotateDeg(c.Angle))
		if hp.Position.Dist(want) > 1e-9 {
			t.Fatalf("hardpoint %d: expected %v, got %v", i, want, hp.Position)
		}
		if hp.Velocity != c.Velocity || hp.Faction != 3 || hp.Stance != StanceHunt {
			t.Fatalf("hardpoint %d: expected parent's velocity, faction and stance", i)
		}
		if hp.Behavior != BehaviorIdle {
			t.Fatalf("hardpoint %d: expected going to map to idle, got %s", i, hp.Behavior)
		}
		if hp.Depth != c.Depth+hp.Template.Depth || hp.Scale != c.Scale*hp.Template.Scale {
			t.Fatalf("hardpoint %d: expected composed depth and scale", i)
		}
	}
}

func TestHardpoint_OrphanDestroysItself(t *testing.T) {
	w := NewWorld()
	c := mustShip(t, w, "cruiser", 0, 0, 1)
	w.Step(1)

	c.Active = false
	w.Step(1)
	for _, h := range c.Hardpoints {
		if hp := w.Ship(h); hp.Active || !hp.Destroyed() {
			t.Fatalf("expected orphaned hardpoint %s destroyed", h)
		}
	}
}

func TestCombatRange_DerivedFromSprite(t *testing.T) {
	lib := template.Defaults()
	lib.Add(template.KindShip, "drone", template.Record{"sprite": "cruiser"})
	cat, err := template.Build(lib)
	if err != nil {
		t.Fatal(err)
	}
	w := NewWorld(WithTemplates(cat))
	s := mustShip(t, w, "drone", 0, 0, 1)
	if s.CombatRange != 960 {
		t.Fatalf("expected 10x the smaller sprite side (960), got %v", s.CombatRange)
	}

	fast := mustShip(t, w, "interceptor", 0, 0, 1)
	if d := fast.MaxThrust - 0.18; d > 1e-9 || d < -1e-9 {
		t.Fatalf("expected modified thrust 0.18, got %v", fast.MaxThrust)
	}
}

func TestSpawn_UnknownTemplates(t *testing.T) {
	w := NewWorld()
	if _, err := w.SpawnShip("nope", geom.Vec2{}, 1); !errors.Is(err, template.ErrUnknownTemplate) {
		t.Fatalf("expected ErrUnknownTemplate, got %v", err)
	}
	if _, err := w.SpawnGroup("nope", geom.Vec2{}, 1); !errors.Is(err, template.ErrUnknownTemplate) {
		t.Fatalf("expected ErrUnknownTemplate, got %v", err)
	}
	if w.Pending() != 0 {
		t.Fatalf("expected failed spawns to leave the world untouched, %d pending", w.Pending())
	}
}

func TestSnapshot_SortedByDepth(t *testing.T) {
	w := NewWorld()
	mustShip(t, w, "cruiser", 0, 0, 1)
	mustShip(t, w, "fighter", 500, 0, 2)
	if _, err := w.SpawnGroup("fighter-squadron", geom.V(-800, 0), 1); err != nil {
		t.Fatal(err)
	}
	w.drainSpawns()

	var f Frame
	w.Snapshot(&f)
	if len(f.Entities) != 10 {
		t.Fatalf("expected 10 entity views, got %d", len(f.Entities))
	}
	for i := 1; i < len(f.Entities); i++ {
		if f.Entities[i].Depth < f.Entities[i-1].Depth {
			t.Fatalf("expected depth order, %v after %v", f.Entities[i].Depth, f.Entities[i-1].Depth)
		}
	}
	if f.Entities[len(f.Entities)-1].Kind != KindHardpoint {
		t.Fatal("expected turrets drawn on top")
	}
	if len(f.Groups) != 1 || len(f.Groups[0].Members) != 4 {
		t.Fatalf("expected one group of 4 in the frame")
	}

	w.Snapshot(&f)
	if len(f.Entities) != 10 {
		t.Fatalf("expected a reused frame to be reset, got %d", len(f.Entities))
	}
}
