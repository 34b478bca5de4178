package sim

import (
	"sync"

	"github.com/Garsondee/Star-Sense/internal/geom"
	"github.com/Garsondee/Star-Sense/internal/template"
)

const (
	projectileSpeed = 50.0  // world units per tick along the firing heading
	muzzleDistance  = 100.0 // spawn offset from the shooter's centre
)

// Projectile is a fired shot. It expires when Lifetime runs out or on impact.
type Projectile struct {
	Body
	Sender       Handle
	Damage       float64
	ShieldDamage float64
	Lifetime     float64
	Impact       string // effect spawned where it hits
}

func (p *Projectile) Kind() Kind { return KindProjectile }

func (p *Projectile) tick(w *World, dt float64) {
	if !p.Active {
		return
	}
	if p.Lifetime <= 0 {
		p.Active = false
		return
	}
	p.Lifetime--
	w.fireTick(p, dt)
	p.Integrate(dt)
}

var projectilePool = sync.Pool{
	New: func() any { return new(Projectile) },
}

func acquireProjectile() *Projectile {
	p := projectilePool.Get().(*Projectile)
	*p = Projectile{Body: newBody()}
	return p
}

func releaseProjectile(p *Projectile) {
	*p = Projectile{}
	projectilePool.Put(p)
}

// spawnProjectile fires tmpl from sender.
func (w *World) spawnProjectile(tmpl *template.ProjectileTemplate, sender *Ship, pos, vel geom.Vec2) *Projectile {
	p := acquireProjectile()
	p.Label = tmpl.Name
	p.Position = pos
	p.Velocity = vel
	p.Angle = geom.AngleTo(geom.Vec2{}, vel) + 90
	p.Scale = tmpl.Scale
	p.Hitbox = tmpl.Hitbox
	p.Faction = sender.Faction
	p.Sender = sender.handle
	p.Damage = tmpl.Damage
	p.ShieldDamage = tmpl.ShieldDamage
	p.Lifetime = tmpl.Lifetime
	p.Impact = tmpl.Impact
	p.Depth = sender.Depth - 0.5
	w.attachSprite(&p.Body, tmpl.Sprite)
	w.Spawn(p)
	return p
}
