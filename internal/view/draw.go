package view

import (
	"fmt"
	"image/color"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/Garsondee/Star-Sense/internal/geom"
	"github.com/Garsondee/Star-Sense/internal/sim"
)

var (
	background  = color.RGBA{R: 6, G: 8, B: 14, A: 255}
	selectColor = color.RGBA{R: 255, G: 255, B: 255, A: 200}
	hullColor   = color.RGBA{R: 90, G: 210, B: 90, A: 255}
	shieldColor = color.RGBA{R: 80, G: 170, B: 255, A: 255}
	barBack     = color.RGBA{R: 40, G: 40, B: 40, A: 200}
	groupColor  = color.RGBA{R: 255, G: 255, B: 255, A: 60}
	panelColor  = color.RGBA{R: 8, G: 10, B: 16, A: 210}
	panelEdge   = color.RGBA{R: 70, G: 90, B: 130, A: 180}
	textColor   = color.RGBA{R: 200, G: 210, B: 230, A: 255}
)

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(background)

	for _, gv := range g.frame.Groups {
		if gv.Selected {
			g.drawGroup(screen, gv)
		}
	}
	for _, p := range g.frame.Particles {
		g.drawParticle(screen, p)
	}
	for _, e := range g.frame.Entities {
		g.drawEntity(screen, e)
	}

	if g.showHUD {
		g.drawHUD(screen)
	}
	if g.world.Paused {
		ebitenutil.DebugPrintAt(screen, "PAUSED", g.width/2-18, 8)
	}
}

// spriteRadius is an entity's drawn radius in world units: its circle
// hitbox when it has one, else half its larger sprite side.
func spriteRadius(e sim.EntityView) float64 {
	if e.Hitbox.Radius > 0 && len(e.Hitbox.Triangles) == 0 {
		return e.Hitbox.Radius * e.Scale
	}
	return max(e.Sprite.Width, e.Sprite.Height) * e.Scale / 2
}

func (g *Game) drawEntity(screen *ebiten.Image, e sim.EntityView) {
	clr := g.world.FactionColor(e.Faction)
	x, y := g.cam.toScreen(e.Position)
	r := float32(spriteRadius(e) * g.cam.zoom)

	if e.Kind == sim.KindProjectile {
		tail := e.Position.Sub(geom.Heading(e.Angle).Mul(e.Sprite.Height * e.Scale))
		tx, ty := g.cam.toScreen(tail)
		vector.StrokeLine(screen, tx, ty, x, y, 1.5, clr, false)
		return
	}

	nose := e.Position.Add(geom.Heading(e.Angle).Mul(spriteRadius(e)))
	nx, ny := g.cam.toScreen(nose)
	if e.Kind == sim.KindHardpoint {
		vector.FillCircle(screen, x, y, max(r, 2), clr, true)
		vector.StrokeLine(screen, x, y, nx, ny, 2, color.White, true)
		return
	}

	vector.StrokeCircle(screen, x, y, max(r, 3), 1.5, clr, true)
	vector.StrokeLine(screen, x, y, nx, ny, 1.5, clr, true)
	if g.showHitboxes {
		g.drawHitbox(screen, e)
	}
	if e.Selected {
		vector.StrokeCircle(screen, x, y, max(r, 3)+4, 1, selectColor, true)
	}
	g.drawBars(screen, x, y-max(r, 3)-8, max(2*r, 16), e)
}

func (g *Game) drawHitbox(screen *ebiten.Image, e sim.EntityView) {
	xf := geom.Transform{Position: e.Position, Angle: e.Angle, Scale: e.Scale}
	for _, t := range e.Hitbox.Triangles {
		a, b, c := xf.Apply(t.A), xf.Apply(t.B), xf.Apply(t.C)
		ax, ay := g.cam.toScreen(a)
		bx, by := g.cam.toScreen(b)
		cx, cy := g.cam.toScreen(c)
		vector.StrokeLine(screen, ax, ay, bx, by, 1, panelEdge, false)
		vector.StrokeLine(screen, bx, by, cx, cy, 1, panelEdge, false)
		vector.StrokeLine(screen, cx, cy, ax, ay, 1, panelEdge, false)
	}
}

// drawBars draws shield over hull, w pixels wide, centred on x.
func (g *Game) drawBars(screen *ebiten.Image, x, y, w float32, e sim.EntityView) {
	left := x - w/2
	vector.FillRect(screen, left, y, w, 3, barBack, false)
	vector.FillRect(screen, left, y, w*float32(e.Hull), 3, hullColor, false)
	if e.Shield > 0 {
		vector.FillRect(screen, left, y-4, w*float32(e.Shield), 2, shieldColor, false)
	}
}

func (g *Game) drawParticle(screen *ebiten.Image, p sim.ParticleView) {
	x, y := g.cam.toScreen(p.Position)
	r := float32(max(p.Sprite.Width, p.Sprite.Height) * p.Scale / 2 * g.cam.zoom)
	a := geom.Clamp(p.Alpha, 0, 1)
	clr := color.NRGBA{R: 255, G: 180, B: 90, A: uint8(a * 255)}
	vector.FillCircle(screen, x, y, max(r, 1), clr, true)
}

// drawGroup joins the members of a selected group to its centre.
func (g *Game) drawGroup(screen *ebiten.Image, gv sim.GroupView) {
	cx, cy := g.cam.toScreen(gv.Location)
	for _, m := range gv.Members {
		mx, my := g.cam.toScreen(m)
		vector.StrokeLine(screen, cx, cy, mx, my, 1, groupColor, true)
	}
	vector.StrokeRect(screen, cx-3, cy-3, 6, 6, 1, groupColor, false)
}

func (g *Game) hudLines() []string {
	state := fmt.Sprintf("%gx", g.simSpeed)
	if g.world.Paused {
		state = "PAUSED  .=step"
	}
	alive := map[int]int{}
	for _, e := range g.frame.Entities {
		if e.Kind == sim.KindShip {
			alive[e.Faction]++
		}
	}
	lines := []string{
		fmt.Sprintf("tick %d  %s  P=pause  ,/. speed", g.frame.Tick, state),
		fmt.Sprintf("zoom %.2fx  WASD=pan  scroll=zoom  F=fit", g.cam.zoom),
	}
	var forces []string
	for _, f := range sortedKeys(alive) {
		forces = append(forces, fmt.Sprintf("f%d:%d", f, alive[f]))
	}
	lines = append(lines, "ships "+strings.Join(forces, " "))
	lines = append(lines, "LMB=select  RMB=order  C=copy  B=hitboxes  H=hud")
	if s := g.world.Ship(g.inspected); s != nil {
		lines = append(lines, inspectorLine(g.world, s))
	}
	if g.status != "" {
		lines = append(lines, g.status)
	}
	return lines
}

func (g *Game) drawHUD(screen *ebiten.Image) {
	const (
		lineH = 14
		charW = 7
		pad   = 6
	)
	lines := g.hudLines()
	longest := 0
	for _, l := range lines {
		longest = max(longest, len(l))
	}
	w := float32(longest*charW + 2*pad)
	h := float32(len(lines)*lineH + 2*pad)
	x := float32(8)
	y := float32(g.height) - h - 8

	vector.FillRect(screen, x, y, w, h, panelColor, false)
	vector.StrokeRect(screen, x, y, w, h, 1, panelEdge, false)

	op := &text.DrawOptions{}
	op.GeoM.Translate(float64(x+pad), float64(y+pad))
	op.ColorScale.ScaleWithColor(textColor)
	op.LineSpacing = lineH
	text.Draw(screen, strings.Join(lines, "\n"), g.face, op)
}
