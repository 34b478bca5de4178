// Package resource tracks sprite metadata and how many live entities use each
// sprite, so the presentation layer can unload what nothing references.
package resource

import (
	"errors"
	"fmt"
	"sort"
)

// ErrUnknownSprite is returned when acquiring a sprite that was never registered.
var ErrUnknownSprite = errors.New("unknown sprite")

// Sprite is the texture-derived geometry the simulation needs: nothing about
// pixels, only dimensions.
type Sprite struct {
	Name   string
	Width  float64
	Height float64
}

type entry struct {
	sprite Sprite
	users  int
	loaded bool
}

// Registry counts sprite users. It is owned by one World and is not safe for
// concurrent use.
type Registry struct {
	entries map[string]*entry
}

func NewRegistry() *Registry {
	return &Registry{entries: make(map[string]*entry)}
}

// Register records a sprite's dimensions. Registering a known name updates
// its dimensions and keeps its user count.
func (r *Registry) Register(s Sprite) {
	if e, ok := r.entries[s.Name]; ok {
		e.sprite = s
		return
	}
	r.entries[s.Name] = &entry{sprite: s}
}

// Acquire returns the sprite and adds one user, marking it loaded.
func (r *Registry) Acquire(name string) (Sprite, error) {
	e, ok := r.entries[name]
	if !ok {
		return Sprite{}, fmt.Errorf("acquire %q: %w", name, ErrUnknownSprite)
	}
	e.users++
	e.loaded = true
	return e.sprite, nil
}

// Lookup returns the sprite without touching its user count.
func (r *Registry) Lookup(name string) (Sprite, bool) {
	e, ok := r.entries[name]
	if !ok {
		return Sprite{}, false
	}
	return e.sprite, true
}

// Release drops one user. Releasing an unknown or unused sprite is a no-op.
func (r *Registry) Release(name string) {
	e, ok := r.entries[name]
	if !ok || e.users == 0 {
		return
	}
	e.users--
}

// Users returns the current user count for a sprite.
func (r *Registry) Users(name string) int {
	if e, ok := r.entries[name]; ok {
		return e.users
	}
	return 0
}

// Loaded reports whether a sprite is currently marked loaded.
func (r *Registry) Loaded(name string) bool {
	e, ok := r.entries[name]
	return ok && e.loaded
}

// Cull marks every loaded sprite without users as unloaded and returns their
// names in sorted order.
func (r *Registry) Cull() []string {
	var culled []string
	for name, e := range r.entries {
		if e.loaded && e.users <= 0 {
			e.loaded = false
			culled = append(culled, name)
		}
	}
	sort.Strings(culled)
	return culled
}
