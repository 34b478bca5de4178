package sim

import (
	"math"

	"github.com/Garsondee/Star-Sense/internal/geom"
)

func (s *Ship) tick(w *World, dt float64) {
	if !s.Active {
		return
	}
	if s.Stationary {
		s.MaxThrust = 0
		s.TurnRate = 0
	}

	// --- Decision ---
	leader := s.formationLeader(w)
	if leader == nil {
		s.decide(w, dt)
	} else {
		s.follow(w, dt, leader)
	}

	// --- Controls ---
	s.Acceleration = geom.Heading(s.Angle).Mul(s.MaxThrust * s.Throttle * dt / s.Mass)
	s.separate(w)
	if leader != nil {
		slot := w.SlotPosition(s, s.slotScale())
		pull := slot.Sub(s.Position).Normalize().Mul(slotPull / s.Mass)
		s.Acceleration = s.Acceleration.Add(pull)
	}

	s.Cooldown -= dt * (w.rng.Float64() + w.rng.Float64() + w.rng.Float64())
	s.Heat = math.Max(0, s.Heat-heatDecay*dt)
	if s.Shield > 0 && s.Shield < s.MaxShield {
		s.Shield = math.Min(s.MaxShield, s.Shield+s.ShieldRegen)
	}

	w.fireTick(w.entityOf(s), dt)
	s.Integrate(dt)
}

// formationLeader returns the leader this ship follows, or nil when the ship
// makes its own decisions: it has no group, its group has no formation, or it
// leads.
func (s *Ship) formationLeader(w *World) *Ship {
	g := w.Group(s.GroupID)
	if g == nil || g.Formation == nil {
		return nil
	}
	leader := g.Leader()
	if leader == nil || leader == s {
		return nil
	}
	return leader
}

func (s *Ship) decide(w *World, dt float64) {
	switch s.Behavior {
	case BehaviorGoing:
		s.going(w, dt)
	case BehaviorAttacking:
		s.attacking(w, dt)
	default:
		s.idle(w, dt)
	}
}

func (s *Ship) idle(w *World, dt float64) {
	s.Throttle = 0
	s.Velocity = s.Velocity.Mul(idleDecay)
	s.AngularAcceleration = 0

	if s.Shield <= 0 && float64(w.rng.Intn(shieldRebootOdds)) < s.ShieldRebootProbability {
		s.Shield++
	}

	if s.Stance != StanceDefend || s.liveHardpoints(w) > 0 {
		return
	}
	target := s.pickTarget(w, s.CombatRange)
	if target == nil {
		return
	}
	s.Objective = target.handle
	aimErr, _ := s.engage(w, dt, target)
	if math.Abs(aimErr) <= fineAimDegrees && s.Cooldown <= 0 {
		s.Shoot(w)
	}
}

func (s *Ship) attacking(w *World, dt float64) {
	target := w.shipOf(s.Objective)
	if target == nil || !target.Active || target == s {
		s.Behavior = BehaviorIdle
		s.Objective = Handle{}
		s.Throttle = 0
		return
	}
	aimErr, dist := s.engage(w, dt, target)
	if math.Abs(aimErr) <= fineAimDegrees && s.Cooldown <= 0 && dist < s.CombatRange {
		s.Shoot(w)
	}
	s.Throttle = throttleFor(aimErr)
}

func (s *Ship) going(w *World, dt float64) {
	aimErr := s.turnToward(s.Goal, dt)
	s.Throttle = throttleFor(aimErr)
	if s.brake(s.Position.Dist(s.Goal)) {
		s.Behavior = BehaviorIdle
	}
	s.incidentalFire(w)
}

// follow keeps a formation follower in its slot, or fights alongside the
// leader when the leader is attacking.
func (s *Ship) follow(w *World, dt float64, leader *Ship) {
	s.Behavior = leader.Behavior
	s.Stance = leader.Stance

	if s.Behavior == BehaviorAttacking {
		if t := w.shipOf(s.Objective); t == nil || !t.Active || t == s {
			s.Objective = leader.Objective
		}
		s.attacking(w, dt)
		return
	}

	slot := w.SlotPosition(s, s.slotScale())
	dist := s.Position.Dist(slot)
	if dist > s.Sprite.Width {
		aimErr := s.turnToward(slot, dt)
		s.Throttle = throttleFor(aimErr)
		s.brake(dist)
	} else {
		s.Throttle = 0
		s.Velocity = s.Velocity.Mul(idleDecay)
		s.turnBy(geom.WrapDegrees(leader.Angle-s.Angle), dt)
	}
	s.incidentalFire(w)
}

func (s *Ship) slotScale() float64 {
	return s.Sprite.Width * 0.5
}

// engage aims at the predicted position of target and returns the heading
// error and the distance to it.
func (s *Ship) engage(w *World, dt float64, target *Ship) (aimErr, dist float64) {
	dist = s.Position.Dist(target.Position)
	if float64(w.rng.Intn(100)) <= 200/dist {
		spread := int(dist / 50)
		s.attackOffset = geom.V(
			float64(w.randIntn(spread)-w.randIntn(spread)),
			float64(w.randIntn(spread)-w.randIntn(spread)),
		)
	}
	s.Goal = s.aimPoint(target, dist)
	return s.turnToward(s.Goal, dt), dist
}

// aimPoint is where s shoots to hit target dist away: the target's position
// led by its motion, plus the ship's current attack offset.
func (s *Ship) aimPoint(target *Ship, dist float64) geom.Vec2 {
	lead := target.Position.Add(target.Velocity.Add(target.Acceleration).Mul(1 + dist/50))
	return lead.Add(s.attackOffset)
}

// pickTarget holds the same target index across ticks and rerolls it when
// the target list shrinks past it or on a small random chance.
func (s *Ship) pickTarget(w *World, radius float64) *Ship {
	targets := w.GetTargets(s, s.Position, radius)
	if len(targets) == 0 {
		return nil
	}
	if s.targetIndex < 0 || s.targetIndex >= len(targets) || w.rng.Float64() < targetRerollChance {
		s.targetIndex = w.rng.Intn(len(targets))
	}
	return targets[s.targetIndex]
}

// incidentalFire takes a shot at an enemy that happens to be lined up,
// without turning toward it. The detection radius grows with speed. Ships
// with live hardpoints leave the shooting to them.
func (s *Ship) incidentalFire(w *World) {
	if s.Stance != StanceDefend || s.Cooldown > 0 || s.liveHardpoints(w) > 0 {
		return
	}
	radius := math.Sqrt(s.Velocity.Len()) * 0.75 * s.CombatRange
	target := s.pickTarget(w, radius)
	if target == nil {
		return
	}
	aim := s.aimPoint(target, s.Position.Dist(target.Position))
	if math.Abs(s.headingError(aim)) < incidentalAimDegrees {
		s.Shoot(w)
	}
}

// brake scales the throttle down on approach. It reports arrival once the
// ship is within one sprite height of the destination.
func (s *Ship) brake(dist float64) bool {
	speed := s.Velocity.Len()
	if dist >= speed*arrivalLookahead {
		return false
	}
	if dist < s.Sprite.Height {
		return true
	}
	s.Throttle *= dist / (speed*arrivalBrake + 1) * 0.75
	return false
}

func (s *Ship) headingError(p geom.Vec2) float64 {
	return geom.WrapDegrees(geom.AngleTo(s.Position, p) - s.Angle + 90)
}

func (s *Ship) turnToward(p geom.Vec2, dt float64) float64 {
	aimErr := s.headingError(p)
	s.turnBy(aimErr, dt)
	return aimErr
}

// turnBy applies the turn law: full turn rate outside the fine band, cubic
// falloff inside it.
func (s *Ship) turnBy(aimErr, dt float64) {
	switch {
	case aimErr > fineAimDegrees:
		s.AngularAcceleration = s.TurnRate * dt
	case aimErr < -fineAimDegrees:
		s.AngularAcceleration = -s.TurnRate * dt
	default:
		s.AngularAcceleration = s.TurnRate * aimErr * aimErr * aimErr * dt
	}
}

// throttleFor is full power when pointed at the target and falls off
// quadratically to zero when facing away.
func throttleFor(aimErr float64) float64 {
	t := geom.Clamp((180-math.Abs(aimErr))/180, 0, 1)
	return t * t
}

// separate pushes the ship away from same-faction neighbors; the push grows
// as they get closer.
func (s *Ship) separate(w *World) {
	speed := s.Velocity.Len()
	for _, n := range w.GetNeighbors(s, s.Position, s.Sprite.Width+speed/2) {
		away := s.Position.Sub(n.Position)
		nudge := away.Normalize().Mul((speed + 0.1) / (away.Len()*2 + separationEpsilon))
		s.Acceleration = s.Acceleration.Add(nudge.Mul(1 / s.Mass))
	}
}

func (s *Ship) liveHardpoints(w *World) int {
	n := 0
	for _, h := range s.Hardpoints {
		if hp := w.combatant(h); hp != nil && hp.Base().Active {
			n++
		}
	}
	return n
}
