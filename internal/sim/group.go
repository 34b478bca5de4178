package sim

import (
	"github.com/Garsondee/Star-Sense/internal/geom"
)

// UnitGroup is a set of ships managed as one tactical unit. Member 0 leads.
// Members are weak handles; the World owns the ships.
type UnitGroup struct {
	ID        int
	Name      string
	Formation *Formation

	world   *World
	members []Handle

	location      geom.Vec2
	locationValid bool
	retired       bool
}

// Add appends a ship to the group. The first ship added leads.
func (g *UnitGroup) Add(s *Ship) {
	s.GroupID = g.ID
	g.members = append(g.members, s.handle)
	g.locationValid = false
}

// Len is the number of members, destroyed ones included until the next tick.
func (g *UnitGroup) Len() int { return len(g.members) }

// Members resolves every member still in the World.
func (g *UnitGroup) Members() []*Ship {
	out := make([]*Ship, 0, len(g.members))
	for _, h := range g.members {
		if s := g.world.shipOf(h); s != nil {
			out = append(out, s)
		}
	}
	return out
}

// Leader returns member 0, or nil when it no longer resolves.
func (g *UnitGroup) Leader() *Ship {
	if len(g.members) == 0 {
		return nil
	}
	return g.world.shipOf(g.members[0])
}

func (g *UnitGroup) indexOf(h Handle) int {
	for i, m := range g.members {
		if m == h {
			return i
		}
	}
	return -1
}

// Faction reads the leader's faction.
func (g *UnitGroup) Faction() int {
	if l := g.Leader(); l != nil {
		return l.Faction
	}
	return 0
}

// SetFaction moves every member and its hardpoints to faction f.
func (g *UnitGroup) SetFaction(f int) {
	g.eachShipAndHardpoint(func(s *Ship) { s.Faction = f })
}

// Active reports whether any member is active.
func (g *UnitGroup) Active() bool {
	for _, s := range g.Members() {
		if s.Active {
			return true
		}
	}
	return false
}

// Selected reports whether any member is selected.
func (g *UnitGroup) Selected() bool {
	for _, s := range g.Members() {
		if s.Selected {
			return true
		}
	}
	return false
}

// SetSelected selects or deselects every member and its hardpoints.
func (g *UnitGroup) SetSelected(sel bool) {
	g.eachShipAndHardpoint(func(s *Ship) { s.Selected = sel })
}

// Location is the mean position of the members, or the sole member's
// position. It is computed once per tick.
func (g *UnitGroup) Location() geom.Vec2 {
	if g.locationValid {
		return g.location
	}
	members := g.Members()
	switch len(members) {
	case 0:
		return g.location
	case 1:
		g.location = members[0].Position
	default:
		var sum geom.Vec2
		for _, s := range members {
			sum = sum.Add(s.Position)
		}
		g.location = sum.Mul(1 / float64(len(members)))
	}
	g.locationValid = true
	return g.location
}

// Retired reports whether the group lost its last member and has left the
// World.
func (g *UnitGroup) Retired() bool { return g.retired }

// tick drops destroyed members so the next active one leads, and retires
// the group once nobody is left.
func (g *UnitGroup) tick() {
	g.locationValid = false
	var prev Handle
	if len(g.members) > 0 {
		prev = g.members[0]
	}
	kept := g.members[:0]
	for _, h := range g.members {
		if s := g.world.shipOf(h); s != nil && s.Active {
			kept = append(kept, h)
		}
	}
	// kept shares g.members' backing array, so compare against prev.
	if len(kept) > 0 && kept[0] != prev {
		g.world.SimLog.Add(g.world.tick, g.world.labelOf(kept[0]), factionLabel(g.Faction()),
			"group", "leader_promoted", g.Name, float64(g.ID))
	}
	// Zero the tail so dropped handles do not linger in the backing array.
	for i := len(kept); i < len(g.members); i++ {
		g.members[i] = Handle{}
	}
	g.members = kept
	if len(g.members) == 0 {
		g.retired = true
	}
}

func (g *UnitGroup) eachShipAndHardpoint(fn func(*Ship)) {
	for _, s := range g.Members() {
		fn(s)
		for _, h := range s.Hardpoints {
			if hp := g.world.shipOf(h); hp != nil {
				fn(hp)
			}
		}
	}
}
