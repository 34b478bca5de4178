package sim

import (
	"fmt"
	"slices"
)

type BattleOutcome int

const (
	OutcomeInconclusive BattleOutcome = iota
	OutcomeVictory
	OutcomeDraw
)

func (o BattleOutcome) String() string {
	switch o {
	case OutcomeVictory:
		return "victory"
	case OutcomeDraw:
		return "draw"
	case OutcomeInconclusive:
		return "inconclusive"
	default:
		return "unknown"
	}
}

// OutcomeReport grades a battle from the free-flying ships still active.
// Hardpoints and stations' turrets do not count on their own.
type OutcomeReport struct {
	Outcome     BattleOutcome
	Winner      int // faction, meaningful only for OutcomeVictory
	Survivors   map[int]int
	Fielded     map[int]int
	Description string
}

// Factions lists every faction that fielded or still has a ship, ascending.
func (r OutcomeReport) Factions() []int {
	out := make([]int, 0, len(r.Fielded))
	for f := range r.Fielded {
		out = append(out, f)
	}
	for f := range r.Survivors {
		if _, ok := r.Fielded[f]; !ok {
			out = append(out, f)
		}
	}
	slices.Sort(out)
	return out
}

// DetermineOutcome reports victory for the sole faction with survivors, a
// draw when nobody survives, and inconclusive while two or more fight on.
func DetermineOutcome(w *World) OutcomeReport {
	r := OutcomeReport{
		Survivors: map[int]int{},
		Fielded:   map[int]int{},
	}
	for f, n := range w.fielded {
		r.Fielded[f] = n
	}
	for _, e := range w.Entities() {
		if s, ok := e.(*Ship); ok && s.Active {
			r.Survivors[s.Faction]++
		}
	}

	var standing []int
	for _, f := range r.Factions() {
		if r.Survivors[f] > 0 {
			standing = append(standing, f)
		}
	}

	switch len(standing) {
	case 0:
		r.Outcome = OutcomeDraw
		r.Description = "draw_all_destroyed"
	case 1:
		r.Outcome = OutcomeVictory
		r.Winner = standing[0]
		if r.Survivors[r.Winner] == r.Fielded[r.Winner] {
			r.Description = fmt.Sprintf("flawless_%s_victory", factionLabel(r.Winner))
		} else {
			r.Description = fmt.Sprintf("decisive_%s_victory", factionLabel(r.Winner))
		}
	default:
		r.Outcome = OutcomeInconclusive
		r.Description = fmt.Sprintf("inconclusive_%d_factions_standing", len(standing))
	}
	return r
}
