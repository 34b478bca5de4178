package sim

import (
	"fmt"

	"github.com/Garsondee/Star-Sense/internal/geom"
	"github.com/Garsondee/Star-Sense/internal/template"
)

// SpawnShip builds the named ship template, with its hardpoints, at pos. The
// ship joins the world on the next tick.
func (w *World) SpawnShip(name string, pos geom.Vec2, faction int) (*Ship, error) {
	t, err := w.catalog.Ship(name)
	if err != nil {
		return nil, fmt.Errorf("spawning ship: %w", err)
	}
	return w.spawnShip(t, pos, faction), nil
}

// SpawnGroup builds every ship of the named unit and binds them into a new
// group. The first ship leads and is placed at pos; the rest take their
// formation slots around it.
func (w *World) SpawnGroup(unitName string, pos geom.Vec2, faction int) (*UnitGroup, error) {
	u, err := w.catalog.Unit(unitName)
	if err != nil {
		return nil, fmt.Errorf("spawning group: %w", err)
	}
	if len(u.Ships) == 0 {
		return nil, fmt.Errorf("spawning group: unit %q has no ships", unitName)
	}

	g := w.AddGroup(u.Name, formationFrom(u.Formation))
	for i, t := range u.Ships {
		g.Add(w.spawnShip(t, w.startSlot(g.Formation, i, t, pos), faction))
	}
	w.log.Info().Str("unit", u.Name).Int("group", g.ID).Int("faction", faction).
		Int("ships", len(u.Ships)).Msg("group spawned")
	return g, nil
}

// startSlot is where member i starts: its formation slot around pos facing
// up, or a row to the right of pos when the formation has no slot for it.
func (w *World) startSlot(f *Formation, i int, t *template.ShipTemplate, pos geom.Vec2) geom.Vec2 {
	width := 0.0
	if s, ok := w.sprites.Lookup(t.Sprite); ok {
		width = s.Width
	}
	if f != nil {
		if slot, ok := f.Slot(i); ok {
			return pos.Add(slot.Mul(width * 0.5))
		}
	}
	return pos.Add(geom.V(float64(i)*width*1.5, 0))
}

// SpawnEffect starts the named effect at pos drifting with vel.
func (w *World) SpawnEffect(name string, pos, vel geom.Vec2) (*Effect, error) {
	t, err := w.catalog.Effect(name)
	if err != nil {
		return nil, fmt.Errorf("spawning effect: %w", err)
	}
	e := acquireEffect()
	e.Label = t.Name
	e.Template = t
	e.Lifespan = t.Lifespan
	e.Position = pos
	e.Velocity = vel
	e.Scale = t.Scale
	e.Depth = 10
	w.attachSprite(&e.Body, t.Sprite)
	w.Spawn(e)
	return e, nil
}

// emitEffect is SpawnEffect for names that come from already validated
// templates. Failures are logged.
func (w *World) emitEffect(name string, pos, vel geom.Vec2) {
	if _, err := w.SpawnEffect(name, pos, vel); err != nil {
		w.log.Warn().Err(err).Msg("effect dropped")
	}
}

func (w *World) spawnShip(t *template.ShipTemplate, pos geom.Vec2, faction int) *Ship {
	s := w.newShip(t, pos, faction, 1, 0)
	w.Spawn(s)
	s.Label = fmt.Sprintf("%s-%d", t.Name, s.seq)
	w.fielded[faction]++
	w.spawnHardpoints(s, t)
	return s
}

func (w *World) spawnHardpoints(parent *Ship, t *template.ShipTemplate) {
	for i, hp := range t.Hardpoints {
		pos := parent.Position.Add(hp.Offset.RotateDeg(parent.Angle))
		h := &Hardpoint{
			Ship:   *w.newShip(hp.Ship, pos, parent.Faction, parent.Scale, parent.Depth),
			Parent: parent.handle,
			Offset: hp.Offset,
		}
		h.Angle = parent.Angle
		h.Stance = parent.Stance
		w.Spawn(h)
		h.Label = fmt.Sprintf("%s/%s-%d", parent.Label, hp.Ship.Name, i)
		parent.Hardpoints = append(parent.Hardpoints, h.handle)
		w.spawnHardpoints(&h.Ship, hp.Ship)
	}
}

// newShip builds an unspawned ship. Scale and depth compose with the
// parent's for hardpoints.
func (w *World) newShip(t *template.ShipTemplate, pos geom.Vec2, faction int, parentScale, parentDepth float64) *Ship {
	s := &Ship{
		Body:                    newBody(),
		Template:                t,
		Hull:                    t.Hull,
		MaxHull:                 t.MaxHull,
		Shield:                  t.Shield,
		MaxShield:               t.MaxShield,
		ShieldRegen:             t.ShieldRegen,
		ShieldRebootProbability: t.ShieldRebootProbability,
		MaxThrust:               t.MaxThrust,
		TurnRate:                t.TurnRate,
		RateOfFire:              t.RateOfFire,
		CombatRange:             t.CombatRange,
		Stationary:              t.Stationary,
		Stance:                  ParseStance(t.Stance),
		explosion:               t.Explosion,
		targetIndex:             -1,
	}
	s.Label = t.Name
	s.Position = pos
	s.Faction = faction
	s.Mass = t.Mass
	s.Drag = t.Drag
	s.AngularDrag = t.AngularDrag
	s.Scale = t.Scale * parentScale
	s.Depth = t.Depth + parentDepth
	s.Hitbox = t.Hitbox
	if t.Weapon != "" {
		if p, err := w.catalog.Projectile(t.Weapon); err == nil {
			s.weapon = p
		}
	}
	w.attachSprite(&s.Body, t.Sprite)
	w.attachHook(&s.Body, t.Hook)
	if s.CombatRange <= 0 {
		s.CombatRange = 10 * min(s.Sprite.Width, s.Sprite.Height)
	}
	return s
}
