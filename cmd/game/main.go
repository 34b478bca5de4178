package main

import (
	"flag"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/rs/zerolog"

	"github.com/Garsondee/Star-Sense/internal/config"
	"github.com/Garsondee/Star-Sense/internal/logging"
	"github.com/Garsondee/Star-Sense/internal/scenario"
	"github.com/Garsondee/Star-Sense/internal/sim"
	"github.com/Garsondee/Star-Sense/internal/template"
	"github.com/Garsondee/Star-Sense/internal/view"
)

func main() {
	var cfgPath string
	var scenarioName string
	flag.StringVar(&cfgPath, "config", "", "optional YAML config file")
	flag.StringVar(&scenarioName, "scenario", "", "scenario to load (overrides config)")
	flag.Parse()

	cfg, err := config.Load(cfgPath)
	if err != nil {
		fatal(zerolog.New(os.Stderr), err, "loading config")
	}
	log, err := logging.New(os.Stderr, cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		fatal(zerolog.New(os.Stderr), err, "building logger")
	}
	if scenarioName != "" {
		cfg.Scenario = scenarioName
	}

	catalog, err := template.LoadCatalog(cfg.Templates)
	if err != nil {
		fatal(log, err, "loading templates")
	}

	w := sim.NewWorld(
		sim.WithLogger(log),
		sim.WithRand(cfg.Sim.Seed),
		sim.WithTemplates(catalog),
		sim.WithInitialPruneLimit(cfg.Sim.PruneLimit),
		sim.WithGridCell(cfg.Sim.GridCell),
	)
	if _, err := scenario.Spawn(w, cfg.Scenario); err != nil {
		fatal(log, err, "spawning scenario")
	}
	log.Info().Str("scenario", cfg.Scenario).Int64("seed", cfg.Sim.Seed).Msg("starting viewer")

	g := view.New(w, view.Options{
		Width:   cfg.Window.Width,
		Height:  cfg.Window.Height,
		DT:      cfg.Sim.DT,
		Faction: 1,
		Logger:  log,
	})
	ebiten.SetWindowTitle(cfg.Window.Title)
	ebiten.SetWindowSize(cfg.Window.Width, cfg.Window.Height)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetTPS(cfg.Sim.TPS)
	if err := ebiten.RunGame(g); err != nil {
		fatal(log, err, "viewer exited")
	}
}

func fatal(log zerolog.Logger, err error, msg string) {
	log.Fatal().Err(err).Msg(msg)
}
