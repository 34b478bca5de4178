// Package config loads process settings for the viewer and the headless
// runner.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/spf13/viper"
)

// Config is the resolved process configuration.
type Config struct {
	Sim       SimConfig
	Log       LogConfig
	Window    WindowConfig
	Templates string // optional template file merged over the built-in catalog
	Scenario  string
}

type SimConfig struct {
	TPS        int     // ticks per second in the viewer
	DT         float64 // simulation step handed to World.Tick
	Seed       int64
	PruneLimit int
	GridCell   float64 // broad-phase cell size in world units
}

type LogConfig struct {
	Level  string
	Format string // console or json
}

type WindowConfig struct {
	Width  int
	Height int
	Title  string
}

// EnvPrefix prefixes environment overrides, e.g. STARSENSE_SIM_SEED.
const EnvPrefix = "STARSENSE"

func setDefaults(v *viper.Viper) {
	v.SetDefault("sim.tps", 60)
	v.SetDefault("sim.dt", 1.0)
	v.SetDefault("sim.seed", 1)
	v.SetDefault("sim.pruneLimit", 100)
	v.SetDefault("sim.gridCell", 256.0)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")

	v.SetDefault("window.width", 1600)
	v.SetDefault("window.height", 900)
	v.SetDefault("window.title", "Star Sense")

	v.SetDefault("templates", "")
	v.SetDefault("scenario", "skirmish")
}

// Load reads the config file at path over the defaults. An empty path or a
// missing file yields the defaults; a file that exists but cannot be parsed
// is an error. Environment variables override both.
func Load(path string) (Config, error) {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
				return Config{}, fmt.Errorf("error reading config file: %w", err)
			}
		}
	}

	cfg := Config{
		Sim: SimConfig{
			TPS:        v.GetInt("sim.tps"),
			DT:         v.GetFloat64("sim.dt"),
			Seed:       v.GetInt64("sim.seed"),
			PruneLimit: v.GetInt("sim.pruneLimit"),
			GridCell:   v.GetFloat64("sim.gridCell"),
		},
		Log: LogConfig{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
		},
		Window: WindowConfig{
			Width:  v.GetInt("window.width"),
			Height: v.GetInt("window.height"),
			Title:  v.GetString("window.title"),
		},
		Templates: v.GetString("templates"),
		Scenario:  v.GetString("scenario"),
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	switch {
	case c.Sim.TPS <= 0:
		return fmt.Errorf("sim.tps must be positive, got %d", c.Sim.TPS)
	case c.Sim.DT <= 0:
		return fmt.Errorf("sim.dt must be positive, got %v", c.Sim.DT)
	case c.Sim.PruneLimit < 0:
		return fmt.Errorf("sim.pruneLimit must not be negative, got %d", c.Sim.PruneLimit)
	case c.Sim.GridCell <= 0:
		return fmt.Errorf("sim.gridCell must be positive, got %v", c.Sim.GridCell)
	}
	return nil
}
