// Package view draws a running World with ebiten and turns mouse and
// keyboard input into world commands.
package view

import (
	"github.com/atotto/clipboard"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/rs/zerolog"
	"golang.org/x/image/font/basicfont"

	"github.com/Garsondee/Star-Sense/internal/logging"
	"github.com/Garsondee/Star-Sense/internal/sim"
)

// Options configures a Game.
type Options struct {
	Width, Height int
	DT            float64 // handed to World.Tick
	Faction       int     // the faction the player commands
	Logger        zerolog.Logger
}

// Game implements ebiten.Game over a sim.World.
type Game struct {
	world   *sim.World
	frame   sim.Frame
	cam     camera
	dt      float64
	faction int
	log     zerolog.Logger
	face    text.Face

	width, height int

	showHUD      bool
	showHitboxes bool
	prevKeys     map[ebiten.Key]bool

	// Simulation speed: ticks per frame, fractional speeds accumulate.
	simSpeed  float64
	tickAccum float64

	inspected sim.Handle
	status    string // last command feedback, shown in the HUD
}

var speeds = []float64{0.25, 0.5, 1, 2, 4}

// New returns a viewer for w with the camera fitted to its ships.
func New(w *sim.World, o Options) *Game {
	if o.Width <= 0 || o.Height <= 0 {
		o.Width, o.Height = 1600, 900
	}
	if o.DT <= 0 {
		o.DT = 1
	}
	if o.Faction == 0 {
		o.Faction = 1
	}
	g := &Game{
		world:    w,
		dt:       o.DT,
		faction:  o.Faction,
		log:      logging.Component(o.Logger, "view"),
		face:     text.NewGoXFace(basicfont.Face7x13),
		width:    o.Width,
		height:   o.Height,
		showHUD:  true,
		prevKeys: make(map[ebiten.Key]bool),
		simSpeed: 1,
		cam:      camera{zoom: 1, width: float64(o.Width), height: float64(o.Height)},
	}
	// Entities spawned before the first tick are still pending; step once so
	// the fit sees them.
	if w.TickCount() == 0 {
		w.Step(g.dt)
	}
	w.Snapshot(&g.frame)
	g.cam.fit(&g.frame)
	return g
}

func (g *Game) Update() error {
	g.handleInput()
	g.world.View = g.cam.transform()

	if !g.world.Paused {
		g.tickAccum += g.simSpeed
		for g.tickAccum >= 1 {
			g.tickAccum--
			g.world.Tick(g.dt)
		}
	}
	g.world.Snapshot(&g.frame)
	return nil
}

// pressed reports a key going down this frame and records it for the next.
func (g *Game) pressed(cur map[ebiten.Key]bool, k ebiten.Key) bool {
	cur[k] = ebiten.IsKeyPressed(k)
	return cur[k] && !g.prevKeys[k]
}

func (g *Game) handleInput() {
	cur := map[ebiten.Key]bool{}

	if g.pressed(cur, ebiten.KeyH) {
		g.showHUD = !g.showHUD
	}
	if g.pressed(cur, ebiten.KeyB) {
		g.showHitboxes = !g.showHitboxes
	}
	if g.pressed(cur, ebiten.KeyF) {
		g.cam.fit(&g.frame)
	}

	// Camera pan: WASD or arrow keys.
	if ebiten.IsKeyPressed(ebiten.KeyW) || ebiten.IsKeyPressed(ebiten.KeyArrowUp) {
		g.cam.pan(0, -1)
	}
	if ebiten.IsKeyPressed(ebiten.KeyS) || ebiten.IsKeyPressed(ebiten.KeyArrowDown) {
		g.cam.pan(0, 1)
	}
	if ebiten.IsKeyPressed(ebiten.KeyA) || ebiten.IsKeyPressed(ebiten.KeyArrowLeft) {
		g.cam.pan(-1, 0)
	}
	if ebiten.IsKeyPressed(ebiten.KeyD) || ebiten.IsKeyPressed(ebiten.KeyArrowRight) {
		g.cam.pan(1, 0)
	}

	// Zoom: mouse wheel or =/- keys.
	_, wy := ebiten.Wheel()
	g.cam.wheel(wy)
	if g.pressed(cur, ebiten.KeyEqual) {
		g.cam.zoomBy(zoomStep)
	}
	if g.pressed(cur, ebiten.KeyMinus) {
		g.cam.zoomBy(1 / zoomStep)
	}

	// P pauses. While paused "." advances one tick; while running ,/. change speed.
	if g.pressed(cur, ebiten.KeyP) {
		g.world.Paused = !g.world.Paused
		g.tickAccum = 0
	}
	if g.pressed(cur, ebiten.KeyComma) && !g.world.Paused {
		g.simSpeed = stepSpeed(g.simSpeed, -1)
	}
	if g.pressed(cur, ebiten.KeyPeriod) {
		if g.world.Paused {
			g.world.Step(g.dt)
		} else {
			g.simSpeed = stepSpeed(g.simSpeed, 1)
		}
	}

	if g.pressed(cur, ebiten.KeyC) {
		g.copyInspected()
	}
	if g.pressed(cur, ebiten.KeyEscape) {
		g.world.ClearSelection()
		g.inspected = sim.Handle{}
	}

	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		g.inspected = g.world.SelectAt(g.cam.toWorld(ebiten.CursorPosition()))
	}
	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonRight) {
		g.world.OrderSelected(g.cam.toWorld(ebiten.CursorPosition()), g.faction)
	}

	g.prevKeys = cur
}

// stepSpeed moves dir places along the speed table from cur.
func stepSpeed(cur float64, dir int) float64 {
	i := 0
	for i < len(speeds)-1 && speeds[i] < cur {
		i++
	}
	i += dir
	if i < 0 {
		i = 0
	}
	if i >= len(speeds) {
		i = len(speeds) - 1
	}
	return speeds[i]
}

func (g *Game) copyInspected() {
	s := g.world.Ship(g.inspected)
	if s == nil {
		g.status = "nothing selected"
		return
	}
	line := inspectorLine(g.world, s)
	if err := clipboard.WriteAll(line); err != nil {
		g.log.Warn().Err(err).Msg("clipboard write failed")
		g.status = "clipboard unavailable"
		return
	}
	g.status = "copied " + s.Label
}

func (g *Game) Layout(_, _ int) (int, int) {
	return g.width, g.height
}
