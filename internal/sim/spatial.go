package sim

import (
	"math"

	"github.com/Garsondee/Star-Sense/internal/geom"
)

type cellKey struct{ x, y int32 }

// grid is a uniform spatial hash over an unbounded plane. It stores entity
// indices and is rebuilt from scratch every collision phase.
type grid struct {
	cell  float64
	cells map[cellKey][]int
}

func newGrid(cell float64) *grid {
	if cell <= 0 {
		cell = 256
	}
	return &grid{cell: cell, cells: make(map[cellKey][]int)}
}

// reset empties every bucket while keeping its backing array.
func (g *grid) reset() {
	for k, v := range g.cells {
		g.cells[k] = v[:0]
	}
}

func (g *grid) key(x, y float64) cellKey {
	return cellKey{int32(math.Floor(x / g.cell)), int32(math.Floor(y / g.cell))}
}

// insert files idx under every cell the circle (p, r) overlaps.
func (g *grid) insert(idx int, p geom.Vec2, r float64) {
	lo := g.key(p.X-r, p.Y-r)
	hi := g.key(p.X+r, p.Y+r)
	for cx := lo.x; cx <= hi.x; cx++ {
		for cy := lo.y; cy <= hi.y; cy++ {
			k := cellKey{cx, cy}
			g.cells[k] = append(g.cells[k], idx)
		}
	}
}

// query appends to buf every index filed in a cell the circle (p, r)
// overlaps. The result may hold duplicates and is unordered.
func (g *grid) query(p geom.Vec2, r float64, buf []int) []int {
	lo := g.key(p.X-r, p.Y-r)
	hi := g.key(p.X+r, p.Y+r)
	for cx := lo.x; cx <= hi.x; cx++ {
		for cy := lo.y; cy <= hi.y; cy++ {
			buf = append(buf, g.cells[cellKey{cx, cy}]...)
		}
	}
	return buf
}
