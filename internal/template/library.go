package template

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cast"
)

var (
	// ErrUnknownTemplate is returned when a record or reference names a
	// template that does not exist.
	ErrUnknownTemplate = errors.New("unknown template")
	// ErrTemplateCycle is returned when base or hardpoint references loop.
	ErrTemplateCycle = errors.New("template cycle")
	// ErrBadField is returned when a field cannot be decoded or a modifier
	// cannot be applied.
	ErrBadField = errors.New("bad template field")
)

// baseKey names the record a template inherits from.
const baseKey = "base"

// Record is one raw template: field name to value. Keys are case-insensitive.
type Record map[string]any

// Library holds raw records before flattening.
type Library struct {
	records map[Kind]map[string]Record
}

func NewLibrary() *Library {
	return &Library{records: make(map[Kind]map[string]Record)}
}

// Add stores a raw record, replacing any record of the same kind and name.
func (l *Library) Add(kind Kind, name string, rec Record) {
	byName, ok := l.records[kind]
	if !ok {
		byName = make(map[string]Record)
		l.records[kind] = byName
	}
	byName[name] = normalizeKeys(rec)
}

// Merge copies every record of other into l, overriding on name clashes.
func (l *Library) Merge(other *Library) {
	for kind, byName := range other.records {
		for name, rec := range byName {
			l.Add(kind, name, rec)
		}
	}
}

// Names returns the record names of a kind in sorted order.
func (l *Library) Names(kind Kind) []string {
	names := make([]string, 0, len(l.records[kind]))
	for name := range l.records[kind] {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Flatten resolves the base chain of one record and returns the merged
// fields with every modifier applied. The base key is not carried over.
func (l *Library) Flatten(kind Kind, name string) (Record, error) {
	return l.flatten(kind, name, nil)
}

func (l *Library) flatten(kind Kind, name string, chain []string) (Record, error) {
	for _, seen := range chain {
		if seen == name {
			return nil, fmt.Errorf("%s %q via %s: %w", kind, name, strings.Join(chain, " -> "), ErrTemplateCycle)
		}
	}
	rec, ok := l.records[kind][name]
	if !ok {
		return nil, fmt.Errorf("%s %q: %w", kind, name, ErrUnknownTemplate)
	}

	base := Record{}
	if b, ok := rec[baseKey]; ok {
		baseName, err := cast.ToStringE(b)
		if err != nil {
			return nil, fmt.Errorf("%s %q base: %w", kind, name, ErrBadField)
		}
		base, err = l.flatten(kind, baseName, append(chain, name))
		if err != nil {
			return nil, err
		}
	}

	out := make(Record, len(base)+len(rec))
	for k, v := range base {
		out[k] = v
	}
	for k, v := range rec {
		if k == baseKey {
			continue
		}
		merged, err := applyOverride(out[k], v)
		if err != nil {
			return nil, fmt.Errorf("%s %q field %q: %w", kind, name, k, err)
		}
		out[k] = merged
	}
	return out, nil
}

// applyOverride returns the value a field takes when override is laid over
// base. Relative modifiers need a numeric base value.
func applyOverride(base, override any) (any, error) {
	s, ok := override.(string)
	if !ok {
		return override, nil
	}
	op, operand, isMod := parseModifier(s)
	if !isMod {
		return override, nil
	}
	if base == nil {
		return nil, fmt.Errorf("modifier %q without a base value: %w", s, ErrBadField)
	}
	b, err := cast.ToFloat64E(base)
	if err != nil {
		return nil, fmt.Errorf("modifier %q on non-numeric base %v: %w", s, base, ErrBadField)
	}
	x, err := cast.ToFloat64E(strings.TrimSpace(operand))
	if err != nil {
		return nil, fmt.Errorf("modifier %q operand: %w", s, ErrBadField)
	}
	switch op {
	case "++":
		return b + x, nil
	case "--":
		return b - x, nil
	case "*":
		return b * x, nil
	default:
		if x == 0 {
			return nil, fmt.Errorf("modifier %q divides by zero: %w", s, ErrBadField)
		}
		return b / x, nil
	}
}

func parseModifier(s string) (op, operand string, ok bool) {
	for _, prefix := range []string{"++", "--", "*", "/"} {
		if strings.HasPrefix(s, prefix) {
			return prefix, s[len(prefix):], true
		}
	}
	return "", "", false
}

func normalizeKeys(rec Record) Record {
	out := make(Record, len(rec))
	for k, v := range rec {
		out[strings.ToLower(k)] = v
	}
	return out
}
