package sim

import "github.com/Garsondee/Star-Sense/internal/geom"

// GetTargets returns the active ships, hardpoints included, of any faction
// other than self's that lie strictly within r of pos. Results are in entity
// order.
func (w *World) GetTargets(self *Ship, pos geom.Vec2, r float64) []*Ship {
	var out []*Ship
	r2 := r * r
	for _, e := range w.entities {
		c, ok := e.(combatant)
		if !ok {
			continue
		}
		s := c.ship()
		if !s.Active || s.Faction == self.Faction {
			continue
		}
		if s.Position.Dist2(pos) < r2 {
			out = append(out, s)
		}
	}
	return out
}

// GetNeighbors returns the active free-flying ships of self's faction within
// r of pos, excluding any ship sitting exactly on pos. Hardpoints are not
// neighbors. Results are in entity order.
func (w *World) GetNeighbors(self *Ship, pos geom.Vec2, r float64) []*Ship {
	var out []*Ship
	r2 := r * r
	for _, e := range w.entities {
		s, ok := e.(*Ship)
		if !ok || !s.Active || s.Faction != self.Faction || s.Position == pos {
			continue
		}
		if s.Position.Dist2(pos) < r2 {
			out = append(out, s)
		}
	}
	return out
}
