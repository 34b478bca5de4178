package sim

import (
	"fmt"
	"slices"
	"strings"
)

// SimLogEntry is one recorded simulation event.
type SimLogEntry struct {
	Tick     int
	Entity   string  // label e.g. "fighter-3", or "--" for world events
	Faction  string  // "f0", "f1", or "--"
	Category string  // lifecycle, combat, group, order
	Key      string  // event name within the category
	Value    string  // human-readable detail
	NumVal   float64 // optional numeric value for threshold checks
}

// String formats the entry as a fixed-width log line.
//
//	[T=042] fighter-3    f1  lifecycle destroyed        hull -5.0
func (e SimLogEntry) String() string {
	return fmt.Sprintf("[T=%03d] %-12s %-3s %-9s %-16s %s",
		e.Tick, e.Entity, e.Faction, e.Category, e.Key, e.Value)
}

// SimLog collects machine-readable events for tests and reports. It is
// unbounded; the zerolog logger is for humans.
type SimLog struct {
	entries []SimLogEntry
	verbose bool
}

// NewSimLog creates a SimLog. If verbose is true, per-shot and per-hit
// entries are recorded too.
func NewSimLog(verbose bool) *SimLog {
	return &SimLog{verbose: verbose}
}

// Verbose reports whether per-shot entries are recorded.
func (sl *SimLog) Verbose() bool { return sl.verbose }

// Add records a new entry.
func (sl *SimLog) Add(tick int, entity, faction, category, key, value string, numVal float64) {
	sl.entries = append(sl.entries, SimLogEntry{
		Tick:     tick,
		Entity:   entity,
		Faction:  faction,
		Category: category,
		Key:      key,
		Value:    value,
		NumVal:   numVal,
	})
}

// AddVerbose records an entry only when verbose mode is on.
func (sl *SimLog) AddVerbose(tick int, entity, faction, category, key, value string, numVal float64) {
	if !sl.verbose {
		return
	}
	sl.Add(tick, entity, faction, category, key, value, numVal)
}

// Entries returns all recorded entries.
func (sl *SimLog) Entries() []SimLogEntry {
	return sl.entries
}

// Filter returns entries matching category and key. An empty string matches
// anything.
func (sl *SimLog) Filter(category, key string) []SimLogEntry {
	var out []SimLogEntry
	for _, e := range sl.entries {
		if category != "" && e.Category != category {
			continue
		}
		if key != "" && e.Key != key {
			continue
		}
		out = append(out, e)
	}
	return out
}

// FilterEntity returns entries for one entity label.
func (sl *SimLog) FilterEntity(label string) []SimLogEntry {
	var out []SimLogEntry
	for _, e := range sl.entries {
		if e.Entity == label {
			out = append(out, e)
		}
	}
	return out
}

// FilterTickRange returns entries within [fromTick, toTick] inclusive.
func (sl *SimLog) FilterTickRange(fromTick, toTick int) []SimLogEntry {
	var out []SimLogEntry
	for _, e := range sl.entries {
		if e.Tick >= fromTick && e.Tick <= toTick {
			out = append(out, e)
		}
	}
	return out
}

// CountCategory returns how many entries match category and key.
func (sl *SimLog) CountCategory(category, key string) int {
	return len(sl.Filter(category, key))
}

// FirstOf returns the earliest entry matching category and key.
func (sl *SimLog) FirstOf(category, key string) (SimLogEntry, bool) {
	for _, e := range sl.entries {
		if e.Category == category && e.Key == key {
			return e, true
		}
	}
	return SimLogEntry{}, false
}

// LastOf returns the most recent entry matching category and key.
func (sl *SimLog) LastOf(category, key string) (SimLogEntry, bool) {
	entries := sl.Filter(category, key)
	if len(entries) == 0 {
		return SimLogEntry{}, false
	}
	return entries[len(entries)-1], true
}

// HasEntry reports whether an entry matches category, key and value substring.
func (sl *SimLog) HasEntry(category, key, valueSubstr string) bool {
	for _, e := range sl.entries {
		if category != "" && e.Category != category {
			continue
		}
		if key != "" && e.Key != key {
			continue
		}
		if valueSubstr != "" && !strings.Contains(e.Value, valueSubstr) {
			continue
		}
		return true
	}
	return false
}

// Format returns the full log as one string for t.Log output.
func (sl *SimLog) Format() string {
	var sb strings.Builder
	for _, e := range sl.entries {
		sb.WriteString(e.String())
		sb.WriteByte('\n')
	}
	return sb.String()
}

// FormatRange returns the log filtered to a tick range.
func (sl *SimLog) FormatRange(fromTick, toTick int) string {
	var sb strings.Builder
	for _, e := range sl.FilterTickRange(fromTick, toTick) {
		sb.WriteString(e.String())
		sb.WriteByte('\n')
	}
	return sb.String()
}

// Summary describes the world as it stands: survivors and behaviors per
// faction, and each group's leader and spread.
func (sl *SimLog) Summary(w *World) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "--- Summary at T=%03d ---\n", w.TickCount())

	alive := map[int]int{}
	behaviors := map[int]map[Behavior]int{}
	for _, e := range w.Entities() {
		s, ok := e.(*Ship)
		if !ok || !s.Active {
			continue
		}
		alive[s.Faction]++
		if behaviors[s.Faction] == nil {
			behaviors[s.Faction] = map[Behavior]int{}
		}
		behaviors[s.Faction][s.Behavior]++
	}
	factions := make([]int, 0, len(alive))
	for f := range alive {
		factions = append(factions, f)
	}
	slices.Sort(factions)
	for _, f := range factions {
		fmt.Fprintf(&sb, "%s alive=%d  ", factionLabel(f), alive[f])
		for _, b := range []Behavior{BehaviorIdle, BehaviorGoing, BehaviorAttacking, BehaviorFollowing} {
			if n := behaviors[f][b]; n > 0 {
				fmt.Fprintf(&sb, "%s=%d  ", b, n)
			}
		}
		sb.WriteByte('\n')
	}
	if len(factions) == 0 {
		sb.WriteString("Alive: none\n")
	}

	for _, g := range w.Groups() {
		leader := "--"
		if l := g.Leader(); l != nil {
			leader = l.Label
		}
		loc := g.Location()
		spread := 0.0
		for _, s := range g.Members() {
			spread = max(spread, s.Position.Dist(loc))
		}
		fmt.Fprintf(&sb, "%s group %d (%s): leader %s  members %d  spread %.1f\n",
			factionLabel(g.Faction()), g.ID, g.Name, leader, g.Len(), spread)
	}
	return sb.String()
}
