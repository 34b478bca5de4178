package sim

import (
	"github.com/Garsondee/Star-Sense/internal/geom"
	"github.com/Garsondee/Star-Sense/internal/template"
)

// Formation is an ordered table of local slot offsets. Slot 0 is the leader
// and is always (0,0). Offsets are in units of the follower's slot scale and
// are rotated by the leader's heading.
type Formation struct {
	Name  string
	Slots []geom.Vec2
}

// DefaultFormation returns the standard nine-slot wedge.
func DefaultFormation() *Formation {
	return &Formation{
		Name: "wedge",
		Slots: []geom.Vec2{
			{X: 0, Y: 0},
			{X: -1.5, Y: 1}, {X: 1.5, Y: 1},
			{X: -3, Y: 2}, {X: 3, Y: 2},
			{X: -4.5, Y: 3}, {X: 4.5, Y: 3},
			{X: -6, Y: 4}, {X: 6, Y: 4},
		},
	}
}

// formationFrom copies a template's slot table.
func formationFrom(t *template.FormationTemplate) *Formation {
	if t == nil {
		return nil
	}
	return &Formation{Name: t.Name, Slots: append([]geom.Vec2(nil), t.Slots...)}
}

// Len is the number of slots, leader included.
func (f *Formation) Len() int { return len(f.Slots) }

// Slot returns the unrotated offset for member index i.
func (f *Formation) Slot(i int) (geom.Vec2, bool) {
	if i < 0 || i >= len(f.Slots) {
		return geom.Vec2{}, false
	}
	return f.Slots[i], true
}

// SlotPosition returns the world position the ship should hold in its
// group's formation. Ships without a group or formation, sole members,
// leaders, and members past the end of the slot table get their own
// position back.
func (w *World) SlotPosition(s *Ship, scalar float64) geom.Vec2 {
	g := w.Group(s.GroupID)
	if g == nil || g.Formation == nil || len(g.members) <= 1 {
		return s.Position
	}
	leader := g.Leader()
	if leader == nil || leader == s {
		return s.Position
	}
	idx := g.indexOf(s.handle)
	slot, ok := g.Formation.Slot(idx)
	if !ok {
		return s.Position
	}
	return leader.Position.Add(slot.RotateDeg(leader.Angle).Mul(scalar))
}
