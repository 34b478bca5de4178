// Package scenario holds the named battle setups shared by the viewer and
// the headless runner.
package scenario

import (
	"errors"
	"fmt"
	"slices"

	"github.com/Garsondee/Star-Sense/internal/geom"
	"github.com/Garsondee/Star-Sense/internal/sim"
)

// ErrUnknownScenario is returned for a name not in the table.
var ErrUnknownScenario = errors.New("unknown scenario")

// Placement puts one unit on the field. With Advance set the group is
// ordered toward Goal as soon as it spawns.
type Placement struct {
	Unit    string
	Faction int
	At      geom.Vec2
	Advance bool
	Goal    geom.Vec2
}

var scenarios = map[string][]Placement{
	"skirmish": {
		{Unit: "fighter-squadron", Faction: 1, At: geom.V(-700, 0), Advance: true, Goal: geom.V(0, 0)},
		{Unit: "fighter-squadron", Faction: 1, At: geom.V(-700, 500), Advance: true, Goal: geom.V(0, 300)},
		{Unit: "interceptor-wing", Faction: 2, At: geom.V(700, 0), Advance: true, Goal: geom.V(0, 0)},
		{Unit: "fighter-squadron", Faction: 2, At: geom.V(700, 500), Advance: true, Goal: geom.V(0, 300)},
	},
	"fleet": {
		{Unit: "cruiser", Faction: 1, At: geom.V(-1200, 0), Advance: true, Goal: geom.V(600, 0)},
		{Unit: "fighter-squadron", Faction: 1, At: geom.V(-1100, -400), Advance: true, Goal: geom.V(600, -300)},
		{Unit: "fighter-squadron", Faction: 1, At: geom.V(-1100, 400), Advance: true, Goal: geom.V(600, 300)},
		{Unit: "station", Faction: 2, At: geom.V(1200, 0)},
		{Unit: "fighter-squadron", Faction: 2, At: geom.V(900, -300)},
		{Unit: "interceptor-wing", Faction: 2, At: geom.V(900, 300)},
	},
	"duel": {
		{Unit: "cruiser", Faction: 1, At: geom.V(-500, 0), Advance: true, Goal: geom.V(0, 0)},
		{Unit: "cruiser", Faction: 2, At: geom.V(500, 0), Advance: true, Goal: geom.V(0, 0)},
	},
}

// Names lists the scenarios, sorted.
func Names() []string {
	names := make([]string, 0, len(scenarios))
	for n := range scenarios {
		names = append(names, n)
	}
	slices.Sort(names)
	return names
}

// Placements returns a copy of the named scenario's table.
func Placements(name string) ([]Placement, error) {
	p, ok := scenarios[name]
	if !ok {
		return nil, fmt.Errorf("%q: %w (have %v)", name, ErrUnknownScenario, Names())
	}
	return slices.Clone(p), nil
}

// Spawn places every unit of the named scenario in w and issues the advance
// orders. Every unit is checked against the world's catalog first, so a
// failure leaves w untouched.
func Spawn(w *sim.World, name string) ([]*sim.UnitGroup, error) {
	placements, err := Placements(name)
	if err != nil {
		return nil, err
	}
	for _, p := range placements {
		if _, err := w.Catalog().Unit(p.Unit); err != nil {
			return nil, fmt.Errorf("scenario %s: %w", name, err)
		}
	}

	groups := make([]*sim.UnitGroup, 0, len(placements))
	for _, p := range placements {
		g, err := w.SpawnGroup(p.Unit, p.At, p.Faction)
		if err != nil {
			return groups, fmt.Errorf("scenario %s: %w", name, err)
		}
		if p.Advance {
			if err := w.SetGoal(g.ID, p.Goal); err != nil {
				return groups, fmt.Errorf("scenario %s: %w", name, err)
			}
		}
		groups = append(groups, g)
	}
	return groups, nil
}
