package template

import (
	"fmt"
	"strings"

	"github.com/spf13/cast"

	"github.com/Garsondee/Star-Sense/internal/geom"
)

// decoder reads typed fields out of a flattened record and remembers the
// first failure so callers can decode a whole record before checking.
type decoder struct {
	kind Kind
	name string
	rec  Record
	err  error
}

func newDecoder(kind Kind, name string, rec Record) *decoder {
	return &decoder{kind: kind, name: name, rec: rec}
}

func (d *decoder) fail(key string, cause error) {
	if d.err == nil {
		d.err = fmt.Errorf("%s %q field %q: %w: %w", d.kind, d.name, key, cause, ErrBadField)
	}
}

func (d *decoder) float(key string, def float64) float64 {
	v, ok := d.rec[key]
	if !ok {
		return def
	}
	f, err := cast.ToFloat64E(v)
	if err != nil {
		d.fail(key, err)
		return def
	}
	return f
}

func (d *decoder) int(key string, def int) int {
	v, ok := d.rec[key]
	if !ok {
		return def
	}
	n, err := cast.ToIntE(v)
	if err != nil {
		d.fail(key, err)
		return def
	}
	return n
}

func (d *decoder) bool(key string, def bool) bool {
	v, ok := d.rec[key]
	if !ok {
		return def
	}
	b, err := cast.ToBoolE(v)
	if err != nil {
		d.fail(key, err)
		return def
	}
	return b
}

func (d *decoder) string(key, def string) string {
	v, ok := d.rec[key]
	if !ok {
		return def
	}
	s, err := cast.ToStringE(v)
	if err != nil {
		d.fail(key, err)
		return def
	}
	return s
}

func (d *decoder) strings(key string) []string {
	v, ok := d.rec[key]
	if !ok {
		return nil
	}
	s, err := cast.ToStringSliceE(v)
	if err != nil {
		d.fail(key, err)
		return nil
	}
	return s
}

func (d *decoder) rangeOf(prefix string, def Range) Range {
	return Range{
		Min: d.float(prefix+"min", def.Min),
		Max: d.float(prefix+"max", def.Max),
	}
}

func (d *decoder) list(key string) []any {
	v, ok := d.rec[key]
	if !ok {
		return nil
	}
	l, err := cast.ToSliceE(v)
	if err != nil {
		d.fail(key, err)
		return nil
	}
	return l
}

// vec accepts [x, y] or {x: .., y: ..}.
func (d *decoder) vec(key string, v any) geom.Vec2 {
	if m, err := cast.ToStringMapE(v); err == nil {
		x, errX := cast.ToFloat64E(m["x"])
		y, errY := cast.ToFloat64E(m["y"])
		if errX != nil || errY != nil {
			d.fail(key, fmt.Errorf("point %v", v))
		}
		return geom.V(x, y)
	}
	pair, err := cast.ToSliceE(v)
	if err != nil || len(pair) != 2 {
		d.fail(key, fmt.Errorf("point %v", v))
		return geom.Vec2{}
	}
	x, errX := cast.ToFloat64E(pair[0])
	y, errY := cast.ToFloat64E(pair[1])
	if errX != nil || errY != nil {
		d.fail(key, fmt.Errorf("point %v", v))
	}
	return geom.V(x, y)
}

// hitbox decodes {radius: r}, {rect: [x, y, w, h]} or {vertices: [[x, y], ...]}.
// A missing hitbox falls back to a circle sized from the sprite.
func (d *decoder) hitbox(sprite *SpriteTemplate) geom.Hitbox {
	v, ok := d.rec["hitbox"]
	if !ok {
		if sprite == nil {
			return geom.Hitbox{}
		}
		return geom.NewCircleHitbox((sprite.Width + sprite.Height) / 4)
	}
	m, err := cast.ToStringMapE(v)
	if err != nil {
		d.fail("hitbox", err)
		return geom.Hitbox{}
	}
	lower := make(map[string]any, len(m))
	for k, val := range m {
		lower[strings.ToLower(k)] = val
	}

	switch {
	case lower["vertices"] != nil:
		raw, err := cast.ToSliceE(lower["vertices"])
		if err != nil {
			d.fail("hitbox", err)
			return geom.Hitbox{}
		}
		verts := make([]geom.Vec2, 0, len(raw))
		for _, p := range raw {
			verts = append(verts, d.vec("hitbox", p))
		}
		hb, err := geom.NewMeshHitbox(verts...)
		if err != nil {
			d.fail("hitbox", err)
		}
		return hb
	case lower["rect"] != nil:
		raw, err := cast.ToSliceE(lower["rect"])
		if err != nil || len(raw) != 4 {
			d.fail("hitbox", fmt.Errorf("rect %v", lower["rect"]))
			return geom.Hitbox{}
		}
		var r [4]float64
		for i, x := range raw {
			if r[i], err = cast.ToFloat64E(x); err != nil {
				d.fail("hitbox", err)
				return geom.Hitbox{}
			}
		}
		return geom.NewRectHitbox(r[0], r[1], r[2], r[3])
	case lower["radius"] != nil:
		r, err := cast.ToFloat64E(lower["radius"])
		if err != nil {
			d.fail("hitbox", err)
		}
		return geom.NewCircleHitbox(r)
	}
	d.fail("hitbox", fmt.Errorf("needs vertices, rect or radius"))
	return geom.Hitbox{}
}
