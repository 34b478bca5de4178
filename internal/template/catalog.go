package template

import (
	"errors"
	"fmt"

	"github.com/spf13/cast"

	"github.com/Garsondee/Star-Sense/internal/geom"
)

// Catalog is the flattened, immutable result of resolving a Library. The
// simulation only ever sees catalog records.
type Catalog struct {
	Sprites     map[string]*SpriteTemplate
	Projectiles map[string]*ProjectileTemplate
	Effects     map[string]*EffectTemplate
	Ships       map[string]*ShipTemplate
	Formations  map[string]*FormationTemplate
	Units       map[string]*UnitTemplate
}

// Build flattens and decodes every record in lib. It fails as a whole: a
// catalog is returned only when every record and reference resolves.
func Build(lib *Library) (*Catalog, error) {
	b := &builder{
		lib: lib,
		cat: &Catalog{
			Sprites:     map[string]*SpriteTemplate{},
			Projectiles: map[string]*ProjectileTemplate{},
			Effects:     map[string]*EffectTemplate{},
			Ships:       map[string]*ShipTemplate{},
			Formations:  map[string]*FormationTemplate{},
			Units:       map[string]*UnitTemplate{},
		},
	}

	var errs []error
	for _, kind := range Kinds {
		for _, name := range lib.Names(kind) {
			if err := b.resolve(kind, name); err != nil {
				errs = append(errs, err)
			}
		}
	}
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return b.cat, nil
}

// MustBuild is Build for catalogs known to be valid at compile time.
func MustBuild(lib *Library) *Catalog {
	cat, err := Build(lib)
	if err != nil {
		panic(err)
	}
	return cat
}

func (c *Catalog) Ship(name string) (*ShipTemplate, error) {
	if t, ok := c.Ships[name]; ok {
		return t, nil
	}
	return nil, fmt.Errorf("ship %q: %w", name, ErrUnknownTemplate)
}

func (c *Catalog) Unit(name string) (*UnitTemplate, error) {
	if t, ok := c.Units[name]; ok {
		return t, nil
	}
	return nil, fmt.Errorf("unit %q: %w", name, ErrUnknownTemplate)
}

func (c *Catalog) Effect(name string) (*EffectTemplate, error) {
	if t, ok := c.Effects[name]; ok {
		return t, nil
	}
	return nil, fmt.Errorf("effect %q: %w", name, ErrUnknownTemplate)
}

func (c *Catalog) Projectile(name string) (*ProjectileTemplate, error) {
	if t, ok := c.Projectiles[name]; ok {
		return t, nil
	}
	return nil, fmt.Errorf("projectile %q: %w", name, ErrUnknownTemplate)
}

type builder struct {
	lib *Library
	cat *Catalog
	// shipStack guards hardpoint recursion.
	shipStack []string
}

func (b *builder) resolve(kind Kind, name string) error {
	switch kind {
	case KindSprite:
		_, err := b.sprite(name)
		return err
	case KindProjectile:
		_, err := b.projectile(name)
		return err
	case KindEffect:
		_, err := b.effect(name, nil)
		return err
	case KindShip:
		_, err := b.ship(name)
		return err
	case KindFormation:
		_, err := b.formation(name)
		return err
	case KindUnit:
		_, err := b.unit(name)
		return err
	}
	return fmt.Errorf("kind %q: %w", kind, ErrUnknownTemplate)
}

func (b *builder) sprite(name string) (*SpriteTemplate, error) {
	if t, ok := b.cat.Sprites[name]; ok {
		return t, nil
	}
	rec, err := b.lib.Flatten(KindSprite, name)
	if err != nil {
		return nil, err
	}
	d := newDecoder(KindSprite, name, rec)
	t := &SpriteTemplate{
		Name:   name,
		Width:  d.float("width", 0),
		Height: d.float("height", 0),
	}
	if d.err != nil {
		return nil, d.err
	}
	b.cat.Sprites[name] = t
	return t, nil
}

// optionalSprite resolves a sprite reference; an empty name is allowed.
func (b *builder) optionalSprite(d *decoder) *SpriteTemplate {
	name := d.string("sprite", "")
	if name == "" {
		return nil
	}
	s, err := b.sprite(name)
	if err != nil {
		d.fail("sprite", err)
		return nil
	}
	return s
}

func (b *builder) projectile(name string) (*ProjectileTemplate, error) {
	if t, ok := b.cat.Projectiles[name]; ok {
		return t, nil
	}
	rec, err := b.lib.Flatten(KindProjectile, name)
	if err != nil {
		return nil, err
	}
	d := newDecoder(KindProjectile, name, rec)
	sprite := b.optionalSprite(d)
	t := &ProjectileTemplate{
		Name:         name,
		Sprite:       d.string("sprite", ""),
		Scale:        d.float("scale", 0.5),
		Damage:       d.float("damage", 5),
		ShieldDamage: d.float("shielddamage", 5),
		Lifetime:     d.float("lifetime", 120),
		Hitbox:       d.hitbox(sprite),
		Impact:       d.string("impact", ""),
	}
	if t.Impact != "" {
		if _, err := b.effect(t.Impact, nil); err != nil {
			d.fail("impact", err)
		}
	}
	if d.err != nil {
		return nil, d.err
	}
	b.cat.Projectiles[name] = t
	return t, nil
}

func (b *builder) effect(name string, chain []string) (*EffectTemplate, error) {
	if t, ok := b.cat.Effects[name]; ok {
		return t, nil
	}
	for _, seen := range chain {
		if seen == name {
			return nil, fmt.Errorf("effect %q children: %w", name, ErrTemplateCycle)
		}
	}
	rec, err := b.lib.Flatten(KindEffect, name)
	if err != nil {
		return nil, err
	}
	d := newDecoder(KindEffect, name, rec)
	b.optionalSprite(d)
	t := &EffectTemplate{
		Name:              name,
		Sprite:            d.string("sprite", ""),
		Scale:             d.float("scale", 1),
		Lifespan:          d.float("lifespan", 100),
		MinParticles:      d.int("minparticles", 1),
		MaxParticles:      d.int("maxparticles", 10),
		SpawnRadius:       d.float("spawnradius", 20),
		ParticleLife:      d.rangeOf("particlelife", Range{10, 50}),
		ParticleScale:     d.rangeOf("particlescale", Range{0.5, 2}),
		ParticleRotation:  d.rangeOf("particlerotation", Range{-5, 5}),
		ParticleAlpha:     d.rangeOf("particlealpha", Range{0.5, 1}),
		ParticleDirection: d.rangeOf("particledirection", Range{0, 360}),
		ParticleAngle:     d.rangeOf("particleangle", Range{0, 360}),
		ParticleSpeed:     d.rangeOf("particlespeed", Range{0, 5}),
		ParticleFade:      d.bool("particlefade", true),
		ParticleDrag:      d.float("particledrag", 0.1),
		Children:          d.strings("children"),
	}
	if t.MaxParticles < t.MinParticles {
		d.fail("maxparticles", fmt.Errorf("%d below minparticles %d", t.MaxParticles, t.MinParticles))
	}
	for _, child := range t.Children {
		if _, err := b.effect(child, append(chain, name)); err != nil {
			d.fail("children", err)
		}
	}
	if d.err != nil {
		return nil, d.err
	}
	b.cat.Effects[name] = t
	return t, nil
}

func (b *builder) ship(name string) (*ShipTemplate, error) {
	if t, ok := b.cat.Ships[name]; ok {
		return t, nil
	}
	for _, seen := range b.shipStack {
		if seen == name {
			return nil, fmt.Errorf("ship %q hardpoints: %w", name, ErrTemplateCycle)
		}
	}
	b.shipStack = append(b.shipStack, name)
	defer func() { b.shipStack = b.shipStack[:len(b.shipStack)-1] }()

	rec, err := b.lib.Flatten(KindShip, name)
	if err != nil {
		return nil, err
	}
	d := newDecoder(KindShip, name, rec)
	sprite := b.optionalSprite(d)
	t := &ShipTemplate{
		Name:                    name,
		Sprite:                  d.string("sprite", ""),
		Mass:                    d.float("mass", 1),
		Drag:                    d.float("drag", 0),
		AngularDrag:             d.float("angulardrag", 0),
		Scale:                   d.float("scale", 1),
		Depth:                   d.float("depth", 0),
		Hull:                    d.float("hull", 100),
		MaxHull:                 d.float("maxhull", 100),
		Shield:                  d.float("shield", 100),
		MaxShield:               d.float("maxshield", 100),
		ShieldRegen:             d.float("shieldregen", 0.25),
		ShieldRebootProbability: d.float("shieldrebootprobability", 4),
		MaxThrust:               d.float("maxthrust", 0.1),
		TurnRate:                d.float("turnrate", 0.25),
		RateOfFire:              d.float("rateoffire", 10),
		CombatRange:             d.float("combatrange", -1),
		Stance:                  d.string("stance", "defend"),
		Stationary:              d.bool("stationary", false),
		Hitbox:                  d.hitbox(sprite),
		Weapon:                  d.string("weapon", ""),
		Explosion:               d.string("explosion", ""),
		Hook:                    d.string("hook", ""),
	}
	if t.Mass <= 0 {
		d.fail("mass", fmt.Errorf("must be positive, got %v", t.Mass))
	}
	if t.Weapon != "" {
		if _, err := b.projectile(t.Weapon); err != nil {
			d.fail("weapon", err)
		}
	}
	if t.Explosion != "" {
		if _, err := b.effect(t.Explosion, nil); err != nil {
			d.fail("explosion", err)
		}
	}
	for _, raw := range d.list("hardpoints") {
		m, err := cast.ToStringMapE(raw)
		if err != nil {
			d.fail("hardpoints", err)
			continue
		}
		hpName := cast.ToString(m["template"])
		hp, err := b.ship(hpName)
		if err != nil {
			d.fail("hardpoints", err)
			continue
		}
		x, errX := cast.ToFloat64E(m["x"])
		y, errY := cast.ToFloat64E(m["y"])
		if errX != nil || errY != nil {
			d.fail("hardpoints", fmt.Errorf("offset of %q", hpName))
			continue
		}
		t.Hardpoints = append(t.Hardpoints, HardpointTemplate{Ship: hp, Offset: geom.V(x, y)})
	}
	if d.err != nil {
		return nil, d.err
	}
	b.cat.Ships[name] = t
	return t, nil
}

func (b *builder) formation(name string) (*FormationTemplate, error) {
	if t, ok := b.cat.Formations[name]; ok {
		return t, nil
	}
	rec, err := b.lib.Flatten(KindFormation, name)
	if err != nil {
		return nil, err
	}
	d := newDecoder(KindFormation, name, rec)
	t := &FormationTemplate{Name: name}
	for _, p := range d.list("slots") {
		t.Slots = append(t.Slots, d.vec("slots", p))
	}
	if len(t.Slots) == 0 {
		d.fail("slots", fmt.Errorf("formation needs at least the leader slot"))
	} else if t.Slots[0] != (geom.Vec2{}) {
		d.fail("slots", fmt.Errorf("slot 0 must be the leader at (0,0), got %v", t.Slots[0]))
	}
	if d.err != nil {
		return nil, d.err
	}
	b.cat.Formations[name] = t
	return t, nil
}

func (b *builder) unit(name string) (*UnitTemplate, error) {
	if t, ok := b.cat.Units[name]; ok {
		return t, nil
	}
	rec, err := b.lib.Flatten(KindUnit, name)
	if err != nil {
		return nil, err
	}
	d := newDecoder(KindUnit, name, rec)
	t := &UnitTemplate{Name: name}
	for _, shipName := range d.strings("ships") {
		s, err := b.ship(shipName)
		if err != nil {
			d.fail("ships", err)
			continue
		}
		t.Ships = append(t.Ships, s)
	}
	if len(t.Ships) == 0 && d.err == nil {
		d.fail("ships", fmt.Errorf("unit needs at least one ship"))
	}
	if f := d.string("formation", ""); f != "" {
		ft, err := b.formation(f)
		if err != nil {
			d.fail("formation", err)
		}
		t.Formation = ft
	}
	if d.err != nil {
		return nil, d.err
	}
	b.cat.Units[name] = t
	return t, nil
}
