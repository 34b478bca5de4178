package template

// Defaults returns the built-in template library used when no template file
// is configured. Callers may Merge a loaded library over it.
func Defaults() *Library {
	lib := NewLibrary()

	lib.Add(KindSprite, "fighter", Record{"width": 32, "height": 32})
	lib.Add(KindSprite, "cruiser", Record{"width": 96, "height": 192})
	lib.Add(KindSprite, "turret", Record{"width": 16, "height": 16})
	lib.Add(KindSprite, "station", Record{"width": 160, "height": 160})
	lib.Add(KindSprite, "laser", Record{"width": 6, "height": 16})
	lib.Add(KindSprite, "explosion", Record{"width": 64, "height": 64})
	lib.Add(KindSprite, "spark", Record{"width": 8, "height": 8})

	lib.Add(KindEffect, "explosion", Record{
		"sprite": "explosion", "lifespan": 60,
		"minparticles": 10, "maxparticles": 24, "spawnradius": 20,
		"particlespeedmin": 0.5, "particlespeedmax": 4,
		"children": []any{"explosion-sparks"},
	})
	lib.Add(KindEffect, "explosion-sparks", Record{
		"sprite": "spark", "lifespan": 30,
		"minparticles": 4, "maxparticles": 10, "spawnradius": 6,
		"particlelifemin": 10, "particlelifemax": 30,
		"particlespeedmin": 2, "particlespeedmax": 6,
	})
	lib.Add(KindEffect, "explosion-small", Record{
		"base": "explosion", "spawnradius": "/2", "maxparticles": "--12", "lifespan": "*0.5",
	})
	lib.Add(KindEffect, "impact", Record{
		"sprite": "spark", "lifespan": 15,
		"minparticles": 1, "maxparticles": 4, "spawnradius": 4,
		"particlelifemin": 5, "particlelifemax": 15,
		"particlespeedmin": 0, "particlespeedmax": 2,
	})

	lib.Add(KindProjectile, "laser", Record{
		"sprite": "laser", "scale": 0.5, "damage": 5, "shielddamage": 5,
		"lifetime": 120, "hitbox": map[string]any{"radius": 6}, "impact": "impact",
	})

	lib.Add(KindShip, "fighter", Record{
		"sprite": "fighter", "mass": 1, "drag": 0.02, "angulardrag": 0.2,
		"hull": 40, "maxhull": 40, "shield": 30, "maxshield": 30, "shieldregen": 0.05,
		"maxthrust": 0.12, "turnrate": 0.25, "rateoffire": 3, "combatrange": 600,
		"weapon": "laser", "explosion": "explosion",
		"hitbox": map[string]any{"radius": 14},
	})
	lib.Add(KindShip, "interceptor", Record{
		"base": "fighter", "maxthrust": "*1.5", "turnrate": "++0.1",
		"hull": "--10", "maxhull": "--10",
	})
	lib.Add(KindShip, "turret", Record{
		"sprite": "turret", "maxthrust": 0, "turnrate": 0.4, "angulardrag": 0.3,
		"hull": 60, "maxhull": 60, "shield": 40, "maxshield": 40,
		"rateoffire": 4, "combatrange": 700, "depth": 1,
		"weapon": "laser", "explosion": "explosion-small",
		"hitbox": map[string]any{"radius": 8},
	})
	lib.Add(KindShip, "cruiser", Record{
		"sprite": "cruiser", "mass": 8, "drag": 0.15, "angulardrag": 0.25,
		"hull": 900, "maxhull": 900, "shield": 500, "maxshield": 500, "shieldregen": 0.5,
		"maxthrust": 0.35, "turnrate": 0.08, "combatrange": 800,
		"weapon": "laser", "explosion": "explosion",
		"hitbox": map[string]any{"vertices": []any{
			[]any{0, -96}, []any{48, 0}, []any{-48, 0},
			[]any{-48, 0}, []any{48, 0}, []any{0, 96},
		}},
		"hardpoints": []any{
			map[string]any{"template": "turret", "x": 0, "y": -50},
			map[string]any{"template": "turret", "x": -24, "y": 10},
			map[string]any{"template": "turret", "x": 24, "y": 10},
			map[string]any{"template": "turret", "x": 0, "y": 60},
		},
	})
	lib.Add(KindShip, "station", Record{
		"sprite": "station", "mass": 100, "stationary": true,
		"hull": 3000, "maxhull": 3000, "shield": 1500, "maxshield": 1500, "shieldregen": 1,
		"combatrange": 900, "explosion": "explosion",
		"hitbox": map[string]any{"rect": []any{-70, -70, 140, 140}},
		"hardpoints": []any{
			map[string]any{"template": "turret", "x": -50, "y": -50},
			map[string]any{"template": "turret", "x": 50, "y": -50},
			map[string]any{"template": "turret", "x": -50, "y": 50},
			map[string]any{"template": "turret", "x": 50, "y": 50},
		},
	})

	lib.Add(KindFormation, "wedge", Record{"slots": []any{
		[]any{0, 0}, []any{-1.5, 1}, []any{1.5, 1}, []any{-3, 2}, []any{3, 2},
		[]any{-4.5, 3}, []any{4.5, 3}, []any{-6, 4}, []any{6, 4},
	}})
	lib.Add(KindFormation, "line", Record{"slots": []any{
		[]any{0, 0}, []any{-2, 0}, []any{2, 0}, []any{-4, 0}, []any{4, 0},
	}})

	lib.Add(KindUnit, "fighter-squadron", Record{
		"ships": []any{"fighter", "fighter", "fighter", "fighter"}, "formation": "wedge",
	})
	lib.Add(KindUnit, "interceptor-wing", Record{
		"ships": []any{"interceptor", "interceptor", "interceptor"}, "formation": "line",
	})
	lib.Add(KindUnit, "cruiser", Record{"ships": []any{"cruiser"}})
	lib.Add(KindUnit, "station", Record{"ships": []any{"station"}})

	return lib
}

// DefaultCatalog builds Defaults.
func DefaultCatalog() *Catalog {
	return MustBuild(Defaults())
}
