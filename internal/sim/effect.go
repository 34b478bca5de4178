package sim

import (
	"sync"

	"github.com/Garsondee/Star-Sense/internal/geom"
	"github.com/Garsondee/Star-Sense/internal/template"
)

// Particle is one emitted sprite of an Effect. Its position is relative to
// the effect.
type Particle struct {
	Offset   geom.Vec2
	Velocity geom.Vec2
	Angle    float64
	Spin     float64
	Scale    float64
	Alpha    float64
	Life     float64
	MaxLife  float64
}

// Effect is a short-lived particle emitter such as an explosion or an impact
// flash.
type Effect struct {
	Body
	Template  *template.EffectTemplate
	Lifespan  float64
	Particles []Particle

	childrenSpawned bool
}

func (e *Effect) Kind() Kind { return KindEffect }

func (e *Effect) tick(w *World, dt float64) {
	if !e.Active {
		return
	}
	e.Lifespan -= dt
	if e.Lifespan <= 0 {
		e.Active = false
		return
	}

	t := e.Template
	target := t.MinParticles
	if t.MaxParticles > t.MinParticles {
		target += w.rng.Intn(t.MaxParticles - t.MinParticles)
	}
	for len(e.Particles) < target {
		e.Particles = append(e.Particles, e.emit(w))
	}

	// Age in place; dead particles are swapped out.
	for i := 0; i < len(e.Particles); {
		p := &e.Particles[i]
		if t.ParticleFade && p.MaxLife > 0 {
			p.Alpha = p.Life / p.MaxLife
		}
		p.Offset = p.Offset.Add(p.Velocity.Mul(dt))
		p.Velocity = p.Velocity.Mul(1 - t.ParticleDrag*dt)
		p.Angle += p.Spin * dt
		p.Life -= dt
		if p.Life <= 0 {
			last := len(e.Particles) - 1
			e.Particles[i] = e.Particles[last]
			e.Particles = e.Particles[:last]
			continue
		}
		i++
	}

	if !e.childrenSpawned {
		e.childrenSpawned = true
		for _, child := range t.Children {
			w.emitEffect(child, e.Position, e.Velocity)
		}
	}

	w.fireTick(e, dt)
	e.Integrate(dt)
}

func (e *Effect) emit(w *World) Particle {
	t := e.Template
	r := t.SpawnRadius
	life := min(randIn(w, t.ParticleLife), e.Lifespan)
	dir := geom.Heading(randIn(w, t.ParticleDirection) + 90)
	return Particle{
		Offset:   geom.V(randBetween(w, -r, r), randBetween(w, -r, r)),
		Velocity: dir.Mul(randIn(w, t.ParticleSpeed)),
		Angle:    randIn(w, t.ParticleAngle),
		Spin:     randIn(w, t.ParticleRotation),
		Scale:    randIn(w, t.ParticleScale),
		Alpha:    randIn(w, t.ParticleAlpha),
		Life:     life,
		MaxLife:  life,
	}
}

func randIn(w *World, r template.Range) float64 {
	return randBetween(w, r.Min, r.Max)
}

func randBetween(w *World, lo, hi float64) float64 {
	return lo + w.rng.Float64()*(hi-lo)
}

var effectPool = sync.Pool{
	New: func() any { return &Effect{Particles: make([]Particle, 0, 32)} },
}

func acquireEffect() *Effect {
	e := effectPool.Get().(*Effect)
	particles := e.Particles[:0]
	*e = Effect{Body: newBody(), Particles: particles}
	return e
}

func releaseEffect(e *Effect) {
	particles := e.Particles[:0]
	*e = Effect{Particles: particles}
	effectPool.Put(e)
}
