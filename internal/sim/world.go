package sim

import (
	"context"
	"image/color"
	"math/rand"
	"slices"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/Garsondee/Star-Sense/internal/geom"
	"github.com/Garsondee/Star-Sense/internal/logging"
	"github.com/Garsondee/Star-Sense/internal/resource"
	"github.com/Garsondee/Star-Sense/internal/template"
)

const (
	defaultPruneLimit = 100
	defaultGridCell   = 256.0
)

// World owns every entity and group and advances them one tick at a time.
// Entities spawned during a tick are buffered and join the world at the
// start of the next one.
type World struct {
	// Paused makes Tick a no-op. Step still advances.
	Paused bool
	SimLog *SimLog
	// View is written by the renderer each frame.
	View ViewTransform

	log   zerolog.Logger
	noisy zerolog.Logger // sampled, for per-tick events
	ctx   context.Context
	rng   *rand.Rand

	catalog *template.Catalog
	sprites *resource.Registry
	hooks   map[string]Hook
	metrics *metrics

	entities []Entity
	slots    []slot
	free     []uint32
	pending  queue[Entity]
	nextSeq  uint64

	groups      []*UnitGroup
	nextGroupID int

	fielded map[int]int // free-flying ships ever spawned, by faction
	palette map[int]color.RGBA

	grid       *grid
	candidates []int

	tick       int
	pruneLimit int
}

type slot struct {
	entity Entity
	gen    uint32
}

// WorldOption configures a World in NewWorld.
type WorldOption func(*World)

// WithLogger sets the logger. The default discards everything.
func WithLogger(l zerolog.Logger) WorldOption {
	return func(w *World) { w.log = logging.Component(l, "world") }
}

// WithRand seeds the world's random source.
func WithRand(seed int64) WorldOption {
	return func(w *World) {
		w.rng = rand.New(rand.NewSource(seed)) // #nosec G404 -- deterministic simulation
	}
}

// WithTemplates sets the catalog ships, units and effects are built from.
func WithTemplates(c *template.Catalog) WorldOption {
	return func(w *World) { w.catalog = c }
}

// WithInitialPruneLimit sets the entity count that triggers the first prune.
func WithInitialPruneLimit(n int) WorldOption {
	return func(w *World) {
		if n > 0 {
			w.pruneLimit = n
		}
	}
}

// WithGridCell sets the cell size of the collision broad phase.
func WithGridCell(size float64) WorldOption {
	return func(w *World) { w.grid = newGrid(size) }
}

// WithHook registers a named hook that templates can attach to entities.
func WithHook(name string, h Hook) WorldOption {
	return func(w *World) { w.hooks[name] = h }
}

// WithContext sets the context metrics are recorded under.
func WithContext(ctx context.Context) WorldOption {
	return func(w *World) { w.ctx = ctx }
}

// WithSimLog replaces the event log.
func WithSimLog(l *SimLog) WorldOption {
	return func(w *World) { w.SimLog = l }
}

// NewWorld returns an empty world. Without WithTemplates it uses the
// built-in catalog.
func NewWorld(opts ...WorldOption) *World {
	w := &World{
		SimLog:     NewSimLog(false),
		log:        zerolog.Nop(),
		ctx:        context.Background(),
		rng:        rand.New(rand.NewSource(1)), // #nosec G404 -- deterministic simulation
		sprites:    resource.NewRegistry(),
		hooks:      map[string]Hook{},
		fielded:    map[int]int{},
		palette:    defaultPalette(),
		View:       ViewTransform{Scale: 1},
		grid:       newGrid(defaultGridCell),
		pruneLimit: defaultPruneLimit,
	}
	for _, o := range opts {
		o(w)
	}
	if w.catalog == nil {
		w.catalog = template.DefaultCatalog()
	}
	if _, ok := w.hooks[LogHookName]; !ok {
		w.hooks[LogHookName] = NewLogHook(w.log)
	}
	for _, s := range w.catalog.Sprites {
		w.sprites.Register(resource.Sprite{Name: s.Name, Width: s.Width, Height: s.Height})
	}
	w.noisy = logging.Sampled(w.log, 5, time.Second)
	w.metrics = newMetrics(w.log)
	return w
}

// Catalog returns the templates the world builds from.
func (w *World) Catalog() *template.Catalog { return w.catalog }

// Sprites returns the sprite registry.
func (w *World) Sprites() *resource.Registry { return w.sprites }

// TickCount is the number of ticks stepped so far.
func (w *World) TickCount() int { return w.tick }

// PruneLimit is the entity count above which the next tick prunes.
func (w *World) PruneLimit() int { return w.pruneLimit }

// Pending is the number of spawned entities waiting for the next tick.
func (w *World) Pending() int { return w.pending.len() }

// Entities returns the live entity list in insertion order. The slice is
// owned by the world and valid until the next tick.
func (w *World) Entities() []Entity { return w.entities }

// Groups returns the groups in creation order.
func (w *World) Groups() []*UnitGroup { return w.groups }

// Spawn issues a handle for e and queues it. It joins the world at the start
// of the next tick; until then it resolves but is neither ticked nor found
// by queries.
func (w *World) Spawn(e Entity) Handle {
	b := e.Base()
	var idx uint32
	if n := len(w.free); n > 0 {
		idx = w.free[n-1]
		w.free = w.free[:n-1]
	} else {
		idx = uint32(len(w.slots))
		w.slots = append(w.slots, slot{gen: 1})
	}
	w.slots[idx].entity = e
	b.handle = Handle{index: idx, gen: w.slots[idx].gen}
	w.nextSeq++
	b.seq = w.nextSeq
	w.pending.push(e)
	return b.handle
}

// Resolve returns the entity behind h, or nil once it has been pruned.
func (w *World) Resolve(h Handle) Entity {
	if !h.Valid() || int(h.index) >= len(w.slots) {
		return nil
	}
	s := w.slots[h.index]
	if s.gen != h.gen {
		return nil
	}
	return s.entity
}

// Ship resolves h to a ship or hardpoint.
func (w *World) Ship(h Handle) *Ship { return w.shipOf(h) }

func (w *World) combatant(h Handle) combatant {
	c, _ := w.Resolve(h).(combatant)
	return c
}

func (w *World) shipOf(h Handle) *Ship {
	if c := w.combatant(h); c != nil {
		return c.ship()
	}
	return nil
}

// entityOf returns the Entity wrapping s, which differs from s for
// hardpoints.
func (w *World) entityOf(s *Ship) Entity {
	if e := w.Resolve(s.handle); e != nil {
		return e
	}
	return s
}

func (w *World) labelOf(h Handle) string {
	if e := w.Resolve(h); e != nil {
		return e.Base().Label
	}
	return "--"
}

// AddGroup registers a new, empty group.
func (w *World) AddGroup(name string, f *Formation) *UnitGroup {
	w.nextGroupID++
	g := &UnitGroup{ID: w.nextGroupID, Name: name, Formation: f, world: w}
	w.groups = append(w.groups, g)
	return g
}

// Group returns the group with the given id, or nil. Id 0 is never a group.
func (w *World) Group(id int) *UnitGroup {
	if id == 0 {
		return nil
	}
	for _, g := range w.groups {
		if g.ID == id {
			return g
		}
	}
	return nil
}

// Tick advances the world by dt unless it is paused.
func (w *World) Tick(dt float64) {
	if w.Paused {
		return
	}
	w.Step(dt)
}

// Step advances the world by dt whether or not it is paused.
func (w *World) Step(dt float64) {
	w.tick++
	w.drainSpawns()
	w.resolveCollisions()
	w.tickGroups()
	for _, e := range w.entities {
		e.tick(w, dt)
	}
	if len(w.entities) > w.pruneLimit {
		w.prune()
	}
}

func (w *World) drainSpawns() {
	for _, e := range w.pending.drain() {
		w.entities = append(w.entities, e)
		w.fireSpawn(e)
		w.metrics.spawned(w.ctx, e.Base().Faction)
	}
}

// resolveCollisions tests every active projectile against the ships near
// it. Candidates are checked in entity order and a projectile stops at its
// first hit.
func (w *World) resolveCollisions() {
	w.grid.reset()
	for i, e := range w.entities {
		if _, ok := e.(combatant); !ok {
			continue
		}
		b := e.Base()
		if !b.Active || b.Hitbox.Empty() {
			continue
		}
		w.grid.insert(i, b.Position, b.Hitbox.BoundingRadius()*b.Scale)
	}

	for _, e := range w.entities {
		p, ok := e.(*Projectile)
		if !ok || !p.Active || p.Hitbox.Empty() {
			continue
		}
		w.candidates = w.grid.query(p.Position, p.Hitbox.BoundingRadius()*p.Scale, w.candidates[:0])
		slices.Sort(w.candidates)
		w.candidates = slices.Compact(w.candidates)
		for _, idx := range w.candidates {
			s := w.entities[idx].(combatant).ship()
			if !s.Active || s.Faction == p.Faction || s.handle == p.Sender {
				continue
			}
			if !geom.Intersects(p.Hitbox, p.Transform(), s.Hitbox, s.Transform()) {
				continue
			}
			w.hit(p, s)
			break
		}
	}
}

func (w *World) hit(p *Projectile, s *Ship) {
	p.Active = false
	w.metrics.hit(w.ctx, p.Faction)
	w.noisy.Debug().Str("projectile", p.Label).Str("target", s.Label).Int("tick", w.tick).Msg("hit")
	w.SimLog.AddVerbose(w.tick, s.Label, factionLabel(s.Faction), "combat", "hit",
		"damage "+formatFloat(p.Damage), p.Damage)
	s.Damage(w, p.Damage)
	if p.Impact != "" {
		w.emitEffect(p.Impact, p.Position, s.Velocity)
	}
}

func (w *World) tickGroups() {
	kept := w.groups[:0]
	for _, g := range w.groups {
		g.tick()
		if g.retired {
			w.SimLog.Add(w.tick, "--", "--", "group", "retired", g.Name, float64(g.ID))
			continue
		}
		kept = append(kept, g)
	}
	clear(w.groups[len(kept):])
	w.groups = kept
}

// prune drops inactive entities, hands their sprites back to the registry
// and frees their handles. The next prune waits until the world doubles.
func (w *World) prune() {
	kept := w.entities[:0]
	removed := 0
	for _, e := range w.entities {
		b := e.Base()
		if b.Active {
			kept = append(kept, e)
			continue
		}
		removed++
		w.release(e)
	}
	clear(w.entities[len(kept):])
	w.entities = kept
	w.pruneLimit = 2 * len(w.entities)
	w.log.Debug().Int("tick", w.tick).Int("removed", removed).Int("remaining", len(w.entities)).
		Int("next_limit", w.pruneLimit).Msg("pruned")
}

func (w *World) release(e Entity) {
	b := e.Base()
	w.metrics.pruned(w.ctx, b.Faction)
	if b.Sprite.Name != "" {
		w.sprites.Release(b.Sprite.Name)
	}
	idx := b.handle.index
	w.slots[idx].entity = nil
	w.slots[idx].gen++
	if w.slots[idx].gen == 0 {
		w.slots[idx].gen = 1
	}
	w.free = append(w.free, idx)

	switch v := e.(type) {
	case *Projectile:
		releaseProjectile(v)
	case *Effect:
		releaseEffect(v)
	}
}

// attachSprite acquires the named sprite for b. An unknown or empty name
// leaves b without a sprite.
func (w *World) attachSprite(b *Body, name string) {
	if name == "" {
		return
	}
	s, err := w.sprites.Acquire(name)
	if err != nil {
		w.log.Warn().Err(err).Str("entity", b.Label).Msg("sprite unavailable")
		return
	}
	b.Sprite = s
}

func (w *World) attachHook(b *Body, name string) {
	if name == "" {
		return
	}
	h, ok := w.hooks[name]
	if !ok {
		w.log.Warn().Str("hook", name).Str("entity", b.Label).Msg("unknown hook")
		return
	}
	b.hook = h
}

// randIntn is rng.Intn that returns 0 for n <= 0.
func (w *World) randIntn(n int) int {
	if n <= 0 {
		return 0
	}
	return w.rng.Intn(n)
}

func factionLabel(f int) string {
	return "f" + strconv.Itoa(f)
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 1, 64)
}
