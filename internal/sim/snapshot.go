package sim

import (
	"cmp"
	"slices"

	"github.com/Garsondee/Star-Sense/internal/geom"
	"github.com/Garsondee/Star-Sense/internal/resource"
)

// Frame is a copy of the world's committed state for a renderer. Reuse one
// Frame across calls to Snapshot to avoid reallocating.
type Frame struct {
	Tick      int
	Paused    bool
	Entities  []EntityView // sorted by Depth, back to front
	Groups    []GroupView
	Particles []ParticleView
}

// EntityView is the drawable state of one ship, hardpoint or projectile.
type EntityView struct {
	Handle   Handle
	Kind     Kind
	Label    string
	Position geom.Vec2
	Angle    float64
	Scale    float64
	Faction  int
	Selected bool
	Behavior Behavior
	Hull     float64 // fraction
	Shield   float64 // fraction
	Sprite   resource.Sprite
	Depth    float64
	Hitbox   geom.Hitbox
}

// GroupView is the drawable state of a unit group.
type GroupView struct {
	ID       int
	Name     string
	Faction  int
	Location geom.Vec2
	Members  []geom.Vec2
	Selected bool
}

// ParticleView is one effect particle in world space.
type ParticleView struct {
	Position geom.Vec2
	Angle    float64
	Scale    float64
	Alpha    float64
	Sprite   resource.Sprite
	Depth    float64
}

// Snapshot copies the world's active entities, groups and particles into
// dst, running each entity's draw hook on the way.
func (w *World) Snapshot(dst *Frame) {
	dst.Tick = w.tick
	dst.Paused = w.Paused
	dst.Entities = dst.Entities[:0]
	dst.Groups = dst.Groups[:0]
	dst.Particles = dst.Particles[:0]

	for _, e := range w.entities {
		b := e.Base()
		if !b.Active {
			continue
		}
		if h := b.hook; h != nil {
			h.OnDraw(e)
		}
		if fx, ok := e.(*Effect); ok {
			for _, p := range fx.Particles {
				dst.Particles = append(dst.Particles, ParticleView{
					Position: fx.Position.Add(p.Offset),
					Angle:    p.Angle,
					Scale:    fx.Scale * p.Scale,
					Alpha:    p.Alpha,
					Sprite:   fx.Sprite,
					Depth:    fx.Depth,
				})
			}
			continue
		}
		v := EntityView{
			Handle:   b.handle,
			Kind:     e.Kind(),
			Label:    b.Label,
			Position: b.Position,
			Angle:    b.Angle,
			Scale:    b.Scale,
			Faction:  b.Faction,
			Sprite:   b.Sprite,
			Depth:    b.Depth,
			Hitbox:   b.Hitbox,
		}
		if c, ok := e.(combatant); ok {
			s := c.ship()
			v.Selected = s.Selected
			v.Behavior = s.Behavior
			v.Hull = s.HullFraction()
			v.Shield = s.ShieldFraction()
		}
		dst.Entities = append(dst.Entities, v)
	}
	slices.SortStableFunc(dst.Entities, func(a, b EntityView) int { return cmp.Compare(a.Depth, b.Depth) })

	for _, g := range w.groups {
		members := g.Members()
		gv := GroupView{
			ID:       g.ID,
			Name:     g.Name,
			Faction:  g.Faction(),
			Location: g.Location(),
			Selected: g.Selected(),
			Members:  make([]geom.Vec2, 0, len(members)),
		}
		for _, s := range members {
			if s.Active {
				gv.Members = append(gv.Members, s.Position)
			}
		}
		dst.Groups = append(dst.Groups, gv)
	}
}
