package sim

import "github.com/Garsondee/Star-Sense/internal/geom"

// Hardpoint is a turret-like ship rigidly mounted on a parent. It picks its
// own targets but takes its position, velocity, faction, stance and behavior
// from the parent every tick.
type Hardpoint struct {
	Ship
	Parent Handle
	Offset geom.Vec2 // in the parent's local frame
}

func (h *Hardpoint) Kind() Kind { return KindHardpoint }

func (h *Hardpoint) tick(w *World, dt float64) {
	if !h.Active {
		return
	}
	parent := w.shipOf(h.Parent)
	if parent == nil || !parent.Active {
		h.Destroy(w)
		return
	}

	h.Ship.tick(w, dt)
	if !h.Active {
		return
	}
	h.slave(w, parent)
}

// slave snaps the hardpoint to its mount and mirrors the parent's state.
// Hardpoints never travel on their own, so Going becomes Idle.
func (h *Hardpoint) slave(w *World, parent *Ship) {
	h.Position = parent.Position.Add(h.Offset.RotateDeg(parent.Angle))
	h.Velocity = parent.Velocity
	h.Faction = parent.Faction
	h.Stance = parent.Stance

	h.Behavior = parent.Behavior
	if h.Behavior == BehaviorGoing {
		h.Behavior = BehaviorIdle
	}
	if h.Behavior == BehaviorAttacking {
		if t := w.shipOf(h.Objective); t == nil || !t.Active {
			h.Objective = parent.Objective
		}
	}
}
