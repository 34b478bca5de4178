package sim

import (
	"math"
	"strings"

	"github.com/Garsondee/Star-Sense/internal/geom"
	"github.com/Garsondee/Star-Sense/internal/template"
)

// Behavior is what a ship is currently doing.
type Behavior int

const (
	BehaviorIdle      Behavior = iota // hold position, defend when the stance allows
	BehaviorGoing                     // travel to Goal
	BehaviorAttacking                 // pursue and fire on Objective
	BehaviorFollowing                 // reserved
)

func (b Behavior) String() string {
	switch b {
	case BehaviorIdle:
		return "idle"
	case BehaviorGoing:
		return "going"
	case BehaviorAttacking:
		return "attacking"
	case BehaviorFollowing:
		return "following"
	default:
		return "unknown"
	}
}

// Stance is a ship's standing engagement policy. Only StanceDefend changes
// behavior today; the others are accepted and carried.
type Stance int

const (
	StanceNoAttack Stance = iota
	StanceDefend
	StanceAttack
	StanceHunt
)

func (s Stance) String() string {
	switch s {
	case StanceNoAttack:
		return "no_attack"
	case StanceDefend:
		return "defend"
	case StanceAttack:
		return "attack"
	case StanceHunt:
		return "hunt"
	default:
		return "unknown"
	}
}

// ParseStance maps a template stance name to a Stance. Unknown names fall
// back to StanceDefend.
func ParseStance(s string) Stance {
	switch strings.ToLower(strings.ReplaceAll(s, "-", "_")) {
	case "no_attack", "noattack":
		return StanceNoAttack
	case "attack":
		return StanceAttack
	case "hunt":
		return StanceHunt
	default:
		return StanceDefend
	}
}

const (
	idleDecay            = 0.95   // per-tick velocity factor while holding position
	shieldRebootOdds     = 6000   // denominator of ShieldRebootProbability
	targetRerollChance   = 0.001  // per-tick chance to pick a new target
	fineAimDegrees       = 1.0    // below this error the turn law goes cubic
	incidentalAimDegrees = 5.0    // alignment needed for opportunistic shots
	arrivalLookahead     = 600.0  // speed multiple at which arrival braking starts
	arrivalBrake         = 120.0  // speed multiple in the braking divisor
	heatDecay            = 0.1    // heat lost per unit dt
	maxHeat              = 100.0  // heat above this adds no extra spread
	slotPull             = 0.01   // constant pull of a follower toward its slot
	separationEpsilon    = 0.001
)

// Ship is a combat unit: a body with hull, shields, engines, a gun and a
// behavior state machine.
type Ship struct {
	Body
	Template *template.ShipTemplate

	Hull        float64
	MaxHull     float64
	Shield      float64
	MaxShield   float64
	ShieldRegen float64
	// ShieldRebootProbability is the chance out of 6000 per idle tick that a
	// downed shield recovers one point.
	ShieldRebootProbability float64

	Throttle    float64 // 0..1
	MaxThrust   float64
	TurnRate    float64
	RateOfFire  float64 // shots per 60 ticks
	Cooldown    float64
	Heat        float64
	CombatRange float64
	Stationary  bool

	Behavior  Behavior
	Stance    Stance
	Objective Handle
	Goal      geom.Vec2
	Selected  bool

	Hardpoints []Handle
	GroupID    int // 0 when not in a group

	weapon    *template.ProjectileTemplate
	explosion string

	targetIndex  int
	attackOffset geom.Vec2
	destroyed    bool
}

func (s *Ship) Kind() Kind { return KindShip }

func (s *Ship) ship() *Ship { return s }

// combatant is implemented by ships and hardpoints.
type combatant interface {
	Entity
	ship() *Ship
}

// HullFraction is hull over max hull, clamped to [0,1].
func (s *Ship) HullFraction() float64 {
	if s.MaxHull <= 0 {
		return 0
	}
	return geom.Clamp(s.Hull/s.MaxHull, 0, 1)
}

// ShieldFraction is shield over max shield, clamped to [0,1].
func (s *Ship) ShieldFraction() float64 {
	if s.MaxShield <= 0 {
		return 0
	}
	return geom.Clamp(s.Shield/s.MaxShield, 0, 1)
}

// Destroyed reports whether the ship has been destroyed.
func (s *Ship) Destroyed() bool { return s.destroyed }

// Damage applies a hit. Shields absorb first and the overflow reaches the
// hull in the same hit. A ship whose hull drops to zero is destroyed before
// Damage returns. Damaging an inactive ship does nothing.
func (s *Ship) Damage(w *World, amount float64) {
	if !s.Active {
		return
	}
	if s.Shield > amount {
		s.Shield -= amount
	} else {
		s.Hull -= amount - s.Shield
		s.Shield = 0
	}
	if s.Hull <= 0 {
		s.Destroy(w)
	}
}

// Destroy deactivates the ship and its hardpoints and spawns the explosion
// effect. It runs at most once per ship.
func (s *Ship) Destroy(w *World) {
	if s.destroyed {
		return
	}
	s.destroyed = true
	s.Active = false

	for _, h := range s.Hardpoints {
		if hp := w.combatant(h); hp != nil {
			hp.ship().Destroy(w)
		}
	}
	if s.explosion != "" {
		w.emitEffect(s.explosion, s.Position, s.Velocity)
	}

	w.metrics.destroyed(w.ctx, s.Faction)
	w.SimLog.Add(w.tick, s.Label, factionLabel(s.Faction), "lifecycle", "destroyed",
		"hull "+formatFloat(s.Hull), s.Hull)
	w.log.Info().Str("entity", s.Label).Int("faction", s.Faction).Int("tick", w.tick).Msg("ship destroyed")
	if e := w.Resolve(s.handle); e != nil {
		w.fireDestroy(e)
	}
}

// Shoot fires one projectile along the ship's heading with a random spread
// that widens as heat builds up.
func (s *Ship) Shoot(w *World) {
	if s.weapon == nil || s.RateOfFire <= 0 {
		return
	}
	spreadMax := int(math.Sqrt(math.Ceil(geom.Clamp(s.Heat, 0, maxHeat))))
	spread := float64(w.randIntn(spreadMax) - w.randIntn(spreadMax))
	dir := geom.Heading(s.Angle + spread)

	w.spawnProjectile(s.weapon, s, s.Position.Add(dir.Mul(muzzleDistance)), dir.Mul(projectileSpeed))
	s.Cooldown = 60 / s.RateOfFire
	s.Heat++

	w.metrics.shot(w.ctx, s.Faction)
	w.SimLog.AddVerbose(w.tick, s.Label, factionLabel(s.Faction), "combat", "shot",
		"spread "+formatFloat(spread), spread)
}

// AttackOrder makes the ship pursue target.
func (s *Ship) AttackOrder(target Handle) {
	s.Objective = target
	s.Behavior = BehaviorAttacking
}

// MoveOrder sends the ship to p, dropping any objective.
func (s *Ship) MoveOrder(p geom.Vec2) {
	s.Objective = Handle{}
	s.Goal = p
	s.Behavior = BehaviorGoing
}
