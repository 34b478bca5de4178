// Package sim is the simulation core: kinematic bodies, ships and their
// combat behavior, hardpoints, formations, unit groups, and the World that
// owns them and drives the tick loop.
//
// A World is single-threaded. Nothing in this package is safe for concurrent
// use; renderers read committed state through Snapshot.
package sim

import (
	"fmt"

	"github.com/Garsondee/Star-Sense/internal/geom"
	"github.com/Garsondee/Star-Sense/internal/resource"
)

// Handle is a weak reference to an entity in a World. A handle to a pruned
// entity stops resolving; the zero Handle never resolves.
type Handle struct {
	index uint32
	gen   uint32
}

// Valid reports whether h was ever issued. It does not mean the entity still
// exists; use World.Resolve for that.
func (h Handle) Valid() bool { return h.gen != 0 }

func (h Handle) String() string {
	if !h.Valid() {
		return "#-"
	}
	return fmt.Sprintf("#%d.%d", h.index, h.gen)
}

// Kind identifies the concrete entity type behind an Entity.
type Kind int

const (
	KindShip Kind = iota
	KindHardpoint
	KindProjectile
	KindEffect
)

func (k Kind) String() string {
	switch k {
	case KindShip:
		return "ship"
	case KindHardpoint:
		return "hardpoint"
	case KindProjectile:
		return "projectile"
	case KindEffect:
		return "effect"
	default:
		return "unknown"
	}
}

// Entity is anything the World ticks.
type Entity interface {
	Base() *Body
	Kind() Kind
	tick(w *World, dt float64)
}

// Body is the kinematic state every entity shares.
type Body struct {
	handle Handle
	seq    uint64 // insertion order, used to keep query results stable

	Label string

	Position     geom.Vec2
	Velocity     geom.Vec2
	Acceleration geom.Vec2

	Angle               float64 // degrees, 0 faces up the screen
	AngularVelocity     float64
	AngularAcceleration float64

	Drag        float64
	AngularDrag float64
	Mass        float64
	Scale       float64

	Faction int
	Active  bool
	Hitbox  geom.Hitbox
	Depth   float64 // draw order only

	Sprite resource.Sprite
	hook   Hook
}

func newBody() Body {
	return Body{Mass: 1, Scale: 1, Active: true}
}

func (b *Body) Base() *Body { return b }

// Handle returns the entity's handle, or the zero Handle before it is spawned.
func (b *Body) Handle() Handle { return b.handle }

// Transform places the hitbox in the world.
func (b *Body) Transform() geom.Transform {
	return geom.Transform{Position: b.Position, Angle: b.Angle, Scale: b.Scale}
}

// Integrate advances the body by dt using semi-implicit Euler: acceleration
// feeds velocity before velocity feeds position, and drag decays velocity
// after the position update.
func (b *Body) Integrate(dt float64) {
	if !b.Active {
		return
	}
	b.Velocity = b.Velocity.Add(b.Acceleration.Mul(dt))
	b.Position = b.Position.Add(b.Velocity.Mul(dt))
	b.Velocity = b.Velocity.Mul(1 - b.Drag*dt/b.Mass)

	b.AngularVelocity += b.AngularAcceleration * dt
	b.Angle += b.AngularVelocity * dt
	b.AngularVelocity *= 1 - b.AngularDrag*dt
}
