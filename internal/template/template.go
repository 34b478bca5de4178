// Package template turns raw template records into flattened, immutable
// records the simulation builds entities from. Records may inherit from a
// base record and adjust its numbers with relative modifiers:
//
//	"++x" adds x, "--x" subtracts x, "*x" multiplies, "/x" divides.
//
// Any other value replaces the base value outright.
package template

import "github.com/Garsondee/Star-Sense/internal/geom"

// Kind names one family of templates. The values double as the top-level
// keys of a template file.
type Kind string

const (
	KindSprite     Kind = "sprites"
	KindProjectile Kind = "projectiles"
	KindEffect     Kind = "effects"
	KindShip       Kind = "ships"
	KindFormation  Kind = "formations"
	KindUnit       Kind = "units"
)

// Kinds lists every family in resolution order: later kinds may refer to
// earlier ones.
var Kinds = []Kind{KindSprite, KindProjectile, KindEffect, KindShip, KindFormation, KindUnit}

// SpriteTemplate carries the texture-derived dimensions of a sprite.
type SpriteTemplate struct {
	Name   string
	Width  float64
	Height float64
}

// ProjectileTemplate describes what a weapon fires.
type ProjectileTemplate struct {
	Name         string
	Sprite       string
	Scale        float64
	Damage       float64
	ShieldDamage float64
	Lifetime     float64
	Hitbox       geom.Hitbox
	Impact       string // effect spawned where the projectile hits
}

// EffectTemplate describes a short-lived particle emitter.
type EffectTemplate struct {
	Name     string
	Sprite   string
	Scale    float64
	Lifespan float64

	MinParticles int
	MaxParticles int
	SpawnRadius  float64

	ParticleLife      Range
	ParticleScale     Range
	ParticleRotation  Range
	ParticleAlpha     Range
	ParticleDirection Range // degrees, direction of travel
	ParticleAngle     Range // degrees, initial facing
	ParticleSpeed     Range
	ParticleFade      bool
	ParticleDrag      float64

	Children []string // effects spawned once at this effect's position
}

// Range is an inclusive [Min, Max] interval for randomised values.
type Range struct {
	Min, Max float64
}

// HardpointTemplate mounts a ship template on a parent at a local offset.
type HardpointTemplate struct {
	Ship   *ShipTemplate
	Offset geom.Vec2
}

// ShipTemplate is the flattened record a ship, hardpoint or station is built
// from.
type ShipTemplate struct {
	Name   string
	Sprite string

	Mass        float64
	Drag        float64
	AngularDrag float64
	Scale       float64
	Depth       float64

	Hull        float64
	MaxHull     float64
	Shield      float64
	MaxShield   float64
	ShieldRegen float64
	// ShieldRebootProbability is the chance out of 6000 per tick that a downed
	// shield recovers one point.
	ShieldRebootProbability float64

	MaxThrust   float64
	TurnRate    float64
	RateOfFire  float64
	CombatRange float64 // <= 0 derives the range from the sprite
	Stance      string
	Stationary  bool

	Hitbox     geom.Hitbox
	Weapon     string // projectile template
	Explosion  string // effect template spawned on destruction
	Hook       string
	Hardpoints []HardpointTemplate
}

// FormationTemplate is a named slot table. Slot 0 is the leader.
type FormationTemplate struct {
	Name  string
	Slots []geom.Vec2
}

// UnitTemplate is a group of ships spawned together; the first ship leads.
type UnitTemplate struct {
	Name      string
	Ships     []*ShipTemplate
	Formation *FormationTemplate
}
