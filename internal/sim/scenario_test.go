package sim

import (
	"testing"

	"github.com/Garsondee/Star-Sense/internal/geom"
)

// dumpLog prints the full SimLog to t.Log so it appears in `go test -v` output.
func dumpLog(t *testing.T, ts *TestSim) {
	t.Helper()
	entries := ts.SimLog.Entries()
	if len(entries) == 0 {
		t.Log("(no log entries)")
		return
	}
	for _, e := range entries {
		t.Log(e.String())
	}
	t.Log(ts.SimLog.Summary(ts.World))
}

// --- Scenario: two fighters in range open fire ---

func TestScenario_BasicCombat(t *testing.T) {
	ts := NewTestSim(
		WithSeed(7),
		WithVerbose(true),
		WithShip("A", "fighter", 1, 0, 0),
		WithShip("B", "fighter", 2, 500, 0),
		WithStance("", StanceDefend),
		WithCombatRange("", 600),
	)
	a, b := ts.Ship("A"), ts.Ship("B")

	var shot *Projectile
	tick := ts.RunUntil(func(ts *TestSim) bool {
		for _, e := range ts.World.Entities() {
			if p, ok := e.(*Projectile); ok && p.Sender == a.Handle() {
				shot = p
				return true
			}
		}
		return false
	}, 600)
	if tick < 0 {
		dumpLog(t, ts)
		t.Fatal("expected A to fire within 600 ticks")
	}

	if a.Objective != b.Handle() {
		t.Fatalf("expected A's objective to be B, got %s", a.Objective)
	}
	if b.Objective != a.Handle() {
		t.Fatalf("expected B's objective to be A, got %s", b.Objective)
	}
	if a.CombatRange != 600 || b.CombatRange != 600 {
		t.Fatalf("expected combat range 600, got %.0f and %.0f", a.CombatRange, b.CombatRange)
	}
	if shot.Faction != a.Faction {
		t.Fatalf("expected projectile faction %d, got %d", a.Faction, shot.Faction)
	}
	if ts.SimLog.CountCategory("combat", "shot") == 0 {
		t.Fatal("expected shots in the verbose log")
	}
}

// --- Scenario: one hit kills ---

func TestScenario_Destruction(t *testing.T) {
	ts := NewTestSim(WithShip("victim", "fighter", 1, 0, 0))
	ts.RunTicks(1)
	s := ts.Ship("victim")
	s.Hull = 10
	s.Shield = 0

	s.Damage(ts.World, 15)

	if s.Active {
		t.Fatal("expected ship inactive after lethal damage")
	}
	fx := pendingOfKind(ts.World, KindEffect)
	if len(fx) != 1 || fx[0].Base().Label != "explosion" {
		dumpLog(t, ts)
		t.Fatalf("expected exactly one explosion queued, got %d", len(fx))
	}
	e, ok := ts.SimLog.LastOf("lifecycle", "destroyed")
	if !ok || e.Entity != "victim" {
		t.Fatalf("expected a destroyed entry for victim, got %+v", e)
	}
}

// --- Scenario: a displaced follower returns to its slot ---

func TestScenario_FormationCohesion(t *testing.T) {
	ts := NewTestSim(
		WithSeed(3),
		WithGroup("fighter-squadron", 1, 0, 0),
	)
	g := ts.Groups[0]
	members := g.Members()
	leader, straggler := members[0], members[3]
	straggler.Position = straggler.Position.Add(geom.V(-150, 0))

	scale := straggler.slotScale()
	if d := straggler.Position.Dist(ts.World.SlotPosition(straggler, scale)); d <= straggler.Sprite.Width {
		t.Fatalf("expected the straggler to start out of slot, off by %v", d)
	}

	tick := ts.RunUntil(func(ts *TestSim) bool {
		return straggler.Position.Dist(ts.World.SlotPosition(straggler, scale)) <= straggler.Sprite.Width
	}, 5000)
	if tick < 0 {
		dumpLog(t, ts)
		t.Fatalf("expected the straggler back in slot within 5000 ticks, still %v away",
			straggler.Position.Dist(ts.World.SlotPosition(straggler, scale)))
	}
	if leader.Behavior != BehaviorIdle {
		t.Fatalf("expected the leader to hold, got %s", leader.Behavior)
	}
	t.Logf("straggler back in slot at T=%d", tick)
}

// --- Scenario: a fleet battle runs to a result without faults ---

func TestScenario_FleetBattleIsDeterministic(t *testing.T) {
	run := func() (OutcomeReport, int) {
		ts := NewTestSim(
			WithSeed(11),
			WithGroup("fighter-squadron", 1, 0, 0),
			WithGroup("interceptor-wing", 2, 900, 0),
		)
		ts.RunTicks(1500)
		return ts.Outcome(), ts.SimLog.CountCategory("lifecycle", "destroyed")
	}
	first, kills := run()
	second, kills2 := run()
	if first.Outcome != second.Outcome || kills != kills2 || first.Description != second.Description {
		t.Fatalf("expected identical runs for one seed, got %s/%d vs %s/%d",
			first.Description, kills, second.Description, kills2)
	}
}

func TestDetermineOutcome(t *testing.T) {
	ts := NewTestSim(
		WithShip("A", "fighter", 1, 0, 0),
		WithShip("B", "fighter", 2, 5000, 0),
	)
	ts.RunTicks(1)
	if got := ts.Outcome(); got.Outcome != OutcomeInconclusive {
		t.Fatalf("expected inconclusive with both alive, got %s", got.Outcome)
	}

	ts.Ship("B").Destroy(ts.World)
	got := ts.Outcome()
	if got.Outcome != OutcomeVictory || got.Winner != 1 {
		t.Fatalf("expected faction 1 victory, got %s winner %d", got.Outcome, got.Winner)
	}
	if got.Description != "flawless_f1_victory" {
		t.Fatalf("expected flawless victory, got %s", got.Description)
	}

	ts.Ship("A").Destroy(ts.World)
	if got := ts.Outcome(); got.Outcome != OutcomeDraw {
		t.Fatalf("expected draw, got %s", got.Outcome)
	}
}
