package view

import (
	"fmt"
	"slices"
	"strings"

	"github.com/Garsondee/Star-Sense/internal/sim"
)

// inspectorLine is the one-line summary of s shown in the HUD and copied to
// the clipboard.
func inspectorLine(w *sim.World, s *sim.Ship) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s f%d %s/%s hull=%.0f/%.0f shield=%.0f/%.0f pos=(%.0f,%.0f)",
		s.Label, s.Faction, s.Behavior, s.Stance,
		s.Hull, s.MaxHull, s.Shield, s.MaxShield,
		s.Position.X, s.Position.Y)
	if t := w.Ship(s.Objective); t != nil {
		fmt.Fprintf(&b, " target=%s", t.Label)
	}
	if g := w.Group(s.GroupID); g != nil {
		role := "member"
		if g.Leader() == s {
			role = "leader"
		}
		fmt.Fprintf(&b, " group=%s(%s)", g.Name, role)
	}
	if n := len(s.Hardpoints); n > 0 {
		fmt.Fprintf(&b, " hardpoints=%d", n)
	}
	return b.String()
}

func sortedKeys(m map[int]int) []int {
	keys := make([]int, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
