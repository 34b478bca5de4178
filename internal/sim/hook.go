package sim

import "github.com/rs/zerolog"

// Hook receives lifecycle callbacks for one entity. Hooks are compiled Go
// values registered on the World by name and attached to entities whose
// template names them.
type Hook interface {
	OnSpawn(e Entity)
	OnTick(e Entity, dt float64)
	OnDraw(e Entity)
	OnDestroy(e Entity)
}

// HookFuncs adapts plain functions to Hook. Nil fields are skipped.
type HookFuncs struct {
	Spawn   func(e Entity)
	Tick    func(e Entity, dt float64)
	Draw    func(e Entity)
	Destroy func(e Entity)
}

func (h HookFuncs) OnSpawn(e Entity) {
	if h.Spawn != nil {
		h.Spawn(e)
	}
}

func (h HookFuncs) OnTick(e Entity, dt float64) {
	if h.Tick != nil {
		h.Tick(e, dt)
	}
}

func (h HookFuncs) OnDraw(e Entity) {
	if h.Draw != nil {
		h.Draw(e)
	}
}

func (h HookFuncs) OnDestroy(e Entity) {
	if h.Destroy != nil {
		h.Destroy(e)
	}
}

// LogHookName is the name the built-in logging hook is registered under.
const LogHookName = "log"

// NewLogHook returns a hook that writes spawn and destroy lines.
func NewLogHook(l zerolog.Logger) Hook {
	return HookFuncs{
		Spawn: func(e Entity) {
			b := e.Base()
			l.Debug().Str("entity", b.Label).Str("kind", e.Kind().String()).
				Int("faction", b.Faction).Msg("spawned")
		},
		Destroy: func(e Entity) {
			b := e.Base()
			l.Debug().Str("entity", b.Label).Str("kind", e.Kind().String()).
				Int("faction", b.Faction).Msg("destroyed")
		},
	}
}

func (w *World) fireSpawn(e Entity) {
	if e == nil {
		return
	}
	if h := e.Base().hook; h != nil {
		h.OnSpawn(e)
	}
}

func (w *World) fireTick(e Entity, dt float64) {
	if e == nil {
		return
	}
	if h := e.Base().hook; h != nil {
		h.OnTick(e, dt)
	}
}

func (w *World) fireDestroy(e Entity) {
	if e == nil {
		return
	}
	if h := e.Base().hook; h != nil {
		h.OnDestroy(e)
	}
}
