package sim

import (
	"errors"
	"fmt"

	"github.com/Garsondee/Star-Sense/internal/geom"
)

var (
	// ErrUnknownGroup is returned by commands naming a group that does not
	// exist or has retired.
	ErrUnknownGroup = errors.New("unknown group")
	// ErrUnknownEntity is returned by commands naming a handle that no
	// longer resolves to a ship.
	ErrUnknownEntity = errors.New("unknown entity")
)

// Commands write orders into ship fields; ships act on them next tick. A
// group in formation takes orders through its leader and the followers
// mirror it. A group without one passes the order to every member.

// SetObjective orders group id to attack target.
func (w *World) SetObjective(id int, target Handle) error {
	g := w.Group(id)
	if g == nil {
		return fmt.Errorf("set objective for group %d: %w", id, ErrUnknownGroup)
	}
	if w.shipOf(target) == nil {
		return fmt.Errorf("set objective %s: %w", target, ErrUnknownEntity)
	}
	w.orderGroup(g, func(s *Ship) { s.AttackOrder(target) })
	w.SimLog.Add(w.tick, g.Name, factionLabel(g.Faction()), "order", "attack", w.labelOf(target), float64(id))
	return nil
}

// SetGoal orders group id to move to p.
func (w *World) SetGoal(id int, p geom.Vec2) error {
	g := w.Group(id)
	if g == nil {
		return fmt.Errorf("set goal for group %d: %w", id, ErrUnknownGroup)
	}
	w.orderGroup(g, func(s *Ship) { s.MoveOrder(p) })
	w.SimLog.Add(w.tick, g.Name, factionLabel(g.Faction()), "order", "move",
		formatFloat(p.X)+","+formatFloat(p.Y), float64(id))
	return nil
}

func (w *World) orderGroup(g *UnitGroup, order func(*Ship)) {
	if g.Formation != nil {
		if l := g.Leader(); l != nil {
			order(l)
		}
		return
	}
	for _, s := range g.Members() {
		order(s)
	}
}

// SetSelected marks one ship and its hardpoints.
func (w *World) SetSelected(h Handle, sel bool) error {
	s := w.shipOf(h)
	if s == nil {
		return fmt.Errorf("select %s: %w", h, ErrUnknownEntity)
	}
	s.Selected = sel
	for _, hp := range s.Hardpoints {
		if c := w.shipOf(hp); c != nil {
			c.Selected = sel
		}
	}
	return nil
}

// SetGroupSelected marks every member of group id.
func (w *World) SetGroupSelected(id int, sel bool) error {
	g := w.Group(id)
	if g == nil {
		return fmt.Errorf("select group %d: %w", id, ErrUnknownGroup)
	}
	g.SetSelected(sel)
	return nil
}

// ClearSelection deselects everything.
func (w *World) ClearSelection() {
	for _, e := range w.entities {
		if c, ok := e.(combatant); ok {
			c.ship().Selected = false
		}
	}
}

// pickSlopPixels widens picking for ships drawn smaller than a few pixels.
const pickSlopPixels = 6

// ShipAt returns the frontmost active free-flying ship under p, or within a
// few screen pixels of its centre at the current view scale. Clicking a
// hardpoint finds its parent.
func (w *World) ShipAt(p geom.Vec2) *Ship {
	slop := w.View.PixelsToWorld(pickSlopPixels)
	var best *Ship
	for _, e := range w.entities {
		c, ok := e.(combatant)
		if !ok {
			continue
		}
		s := c.ship()
		if !s.Active || (!s.covers(p) && s.Position.Dist2(p) > slop*slop) {
			continue
		}
		if hp, ok := e.(*Hardpoint); ok {
			if s = w.shipOf(hp.Parent); s == nil {
				continue
			}
		}
		if best == nil || s.Depth > best.Depth {
			best = s
		}
	}
	return best
}

func (s *Ship) covers(p geom.Vec2) bool {
	if !s.Hitbox.Empty() {
		return s.Hitbox.ContainsPoint(s.Transform(), p)
	}
	r := max(s.Sprite.Width, s.Sprite.Height) * s.Scale / 2
	return s.Position.Dist2(p) <= r*r
}

// SelectAt replaces the selection with the ship under p, or its whole group
// when it has one. It returns the handle picked, or the zero Handle when
// nothing is there.
func (w *World) SelectAt(p geom.Vec2) Handle {
	w.ClearSelection()
	s := w.ShipAt(p)
	if s == nil {
		return Handle{}
	}
	if g := w.Group(s.GroupID); g != nil {
		g.SetSelected(true)
	} else {
		_ = w.SetSelected(s.handle, true)
	}
	return s.handle
}

// OrderSelected sends every selected group, and every selected groupless
// ship, against the enemy under p, or to p when there is none.
func (w *World) OrderSelected(p geom.Vec2, faction int) {
	target := w.ShipAt(p)
	if target != nil && target.Faction == faction {
		target = nil
	}
	seen := map[int]bool{}
	for _, e := range w.entities {
		s, ok := e.(*Ship)
		if !ok || !s.Active || !s.Selected || s.Faction != faction {
			continue
		}
		if s.GroupID != 0 {
			if seen[s.GroupID] {
				continue
			}
			seen[s.GroupID] = true
			if target != nil {
				_ = w.SetObjective(s.GroupID, target.handle)
			} else {
				_ = w.SetGoal(s.GroupID, p)
			}
			continue
		}
		if target != nil {
			s.AttackOrder(target.handle)
		} else {
			s.MoveOrder(p)
		}
	}
}
