package sim

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/Garsondee/Star-Sense/internal/geom"
	"github.com/Garsondee/Star-Sense/internal/template"
)

// TestSim is a headless harness around a World for tests and the headless
// runner. It has no ebiten dependency and is fully deterministic for a
// given seed.
type TestSim struct {
	World  *World
	SimLog *SimLog
	DT     float64
	Ships  map[string]*Ship // by label
	Groups []*UnitGroup

	seed       int64
	pruneLimit int
	catalog    *template.Catalog
	logger     zerolog.Logger
	verbose    bool
}

// simOptionKind controls the pass in which an option is applied.
type simOptionKind int

const (
	simOptInfra  simOptionKind = iota // seed, dt, catalog, logging: applied before the world exists
	simOptSpawn                       // ships and groups
	simOptOrders                      // stances and orders, applied once everything is spawned
)

// SimOption is a builder function applied to a TestSim during construction.
type SimOption struct {
	kind simOptionKind
	fn   func(*TestSim)
}

// WithSeed sets the RNG seed for deterministic runs.
func WithSeed(seed int64) SimOption {
	return SimOption{simOptInfra, func(ts *TestSim) { ts.seed = seed }}
}

// WithDT sets the time step of every tick.
func WithDT(dt float64) SimOption {
	return SimOption{simOptInfra, func(ts *TestSim) { ts.DT = dt }}
}

// WithPruneLimit sets the initial prune threshold.
func WithPruneLimit(n int) SimOption {
	return SimOption{simOptInfra, func(ts *TestSim) { ts.pruneLimit = n }}
}

// WithCatalog replaces the built-in templates.
func WithCatalog(c *template.Catalog) SimOption {
	return SimOption{simOptInfra, func(ts *TestSim) { ts.catalog = c }}
}

// WithVerbose enables per-shot and per-hit logging.
func WithVerbose(v bool) SimOption {
	return SimOption{simOptInfra, func(ts *TestSim) { ts.verbose = v }}
}

// WithLogOutput routes world logging to l.
func WithLogOutput(l zerolog.Logger) SimOption {
	return SimOption{simOptInfra, func(ts *TestSim) { ts.logger = l }}
}

// WithShip spawns a lone ship from a template under the given label.
func WithShip(label, tmpl string, faction int, x, y float64) SimOption {
	return SimOption{simOptSpawn, func(ts *TestSim) {
		s, err := ts.World.SpawnShip(tmpl, geom.V(x, y), faction)
		if err != nil {
			panic(fmt.Sprintf("test sim: ship %q: %v", label, err))
		}
		s.Label = label
		ts.Ships[label] = s
	}}
}

// WithGroup spawns a unit. Its ships are registered under their generated
// labels.
func WithGroup(unit string, faction int, x, y float64) SimOption {
	return SimOption{simOptSpawn, func(ts *TestSim) {
		g, err := ts.World.SpawnGroup(unit, geom.V(x, y), faction)
		if err != nil {
			panic(fmt.Sprintf("test sim: group %q: %v", unit, err))
		}
		ts.Groups = append(ts.Groups, g)
		for _, s := range g.Members() {
			ts.Ships[s.Label] = s
		}
	}}
}

// WithStance sets the stance of a labelled ship, or of every ship when label
// is empty.
func WithStance(label string, st Stance) SimOption {
	return SimOption{simOptOrders, func(ts *TestSim) {
		for l, s := range ts.Ships {
			if label == "" || l == label {
				s.Stance = st
			}
		}
	}}
}

// WithCombatRange sets the engagement radius of a labelled ship, or of every
// ship when label is empty.
func WithCombatRange(label string, r float64) SimOption {
	return SimOption{simOptOrders, func(ts *TestSim) {
		for l, s := range ts.Ships {
			if label == "" || l == label {
				s.CombatRange = r
			}
		}
	}}
}

// NewTestSim builds a TestSim from options in ordered passes:
//  1. Infrastructure (seed, dt, catalog, prune limit, logging)
//  2. Build the World
//  3. Ships and groups
//  4. Stances and orders
func NewTestSim(opts ...SimOption) *TestSim {
	ts := &TestSim{
		DT:     1,
		Ships:  map[string]*Ship{},
		seed:   1,
		logger: zerolog.Nop(),
	}
	for _, o := range opts {
		if o.kind == simOptInfra {
			o.fn(ts)
		}
	}

	ts.SimLog = NewSimLog(ts.verbose)
	worldOpts := []WorldOption{
		WithRand(ts.seed),
		WithLogger(ts.logger),
		WithSimLog(ts.SimLog),
	}
	if ts.catalog != nil {
		worldOpts = append(worldOpts, WithTemplates(ts.catalog))
	}
	if ts.pruneLimit > 0 {
		worldOpts = append(worldOpts, WithInitialPruneLimit(ts.pruneLimit))
	}
	ts.World = NewWorld(worldOpts...)

	for _, kind := range []simOptionKind{simOptSpawn, simOptOrders} {
		for _, o := range opts {
			if o.kind == kind {
				o.fn(ts)
			}
		}
	}
	return ts
}

// Ship returns the ship registered under label, or nil.
func (ts *TestSim) Ship(label string) *Ship { return ts.Ships[label] }

// Tick is the number of ticks run so far.
func (ts *TestSim) Tick() int { return ts.World.TickCount() }

// RunTicks advances the simulation n ticks.
func (ts *TestSim) RunTicks(n int) {
	for i := 0; i < n; i++ {
		ts.World.Step(ts.DT)
	}
}

// RunUntil advances the simulation up to maxTicks, stopping early once
// predicate holds. It returns the tick the predicate was satisfied on, or
// -1.
func (ts *TestSim) RunUntil(predicate func(*TestSim) bool, maxTicks int) int {
	for i := 0; i < maxTicks; i++ {
		ts.World.Step(ts.DT)
		if predicate(ts) {
			return ts.World.TickCount()
		}
	}
	return -1
}

// Alive returns the active free-flying ships of faction f.
func (ts *TestSim) Alive(f int) []*Ship {
	var out []*Ship
	for _, e := range ts.World.Entities() {
		if s, ok := e.(*Ship); ok && s.Active && s.Faction == f {
			out = append(out, s)
		}
	}
	return out
}

// Outcome grades the battle so far.
func (ts *TestSim) Outcome() OutcomeReport { return DetermineOutcome(ts.World) }
