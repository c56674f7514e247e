// World generation using layered simplex noise.
// Generates elevation and moisture maps, then derives terrain kinds.
package world

import (
	"math"
	"math/rand"

	opensimplex "github.com/ojrac/opensimplex-go"
)

// GenConfig holds world generation parameters.
type GenConfig struct {
	Width       int
	Height      int
	Seed        int64   // Random seed (0 = random)
	SeaLevel    float64 // Elevation threshold for water (0.0–1.0)
	MountainLvl float64 // Elevation threshold for mountains
	SnowLvl     float64 // Elevation threshold for snow caps
	ForestLvl   float64 // Moisture threshold for forest on open ground
}

// DefaultGenConfig returns a reasonable starting configuration.
func DefaultGenConfig() GenConfig {
	return GenConfig{
		Width:       64,
		Height:      64,
		Seed:        0,
		SeaLevel:    0.30,
		MountainLvl: 0.74,
		SnowLvl:     0.86,
		ForestLvl:   0.62,
	}
}

// SmallTestConfig returns a tiny world for rapid iteration.
func SmallTestConfig() GenConfig {
	return GenConfig{
		Width:       16,
		Height:      16,
		Seed:        42,
		SeaLevel:    0.25,
		MountainLvl: 0.80,
		SnowLvl:     0.92,
		ForestLvl:   0.70,
	}
}

// Generate creates a complete grid with terrain derived from noise layers.
func Generate(cfg GenConfig) *Grid {
	seed := cfg.Seed
	if seed == 0 {
		seed = rand.Int63()
	}

	// Two noise generators for independent layers.
	elevNoise := opensimplex.NewNormalized(seed)
	moistNoise := opensimplex.NewNormalized(seed + 1)

	g := NewGrid(cfg.Width, cfg.Height)

	halfW := float64(cfg.Width) / 2
	halfH := float64(cfg.Height) / 2

	for y := 0; y < cfg.Height; y++ {
		for x := 0; x < cfg.Width; x++ {
			fx := float64(x)
			fy := float64(y)

			// Multi-octave noise for natural-looking terrain.
			elev := octaveNoise(elevNoise, fx, fy, 4, 0.06, 0.5)
			moist := octaveNoise(moistNoise, fx, fy, 3, 0.05, 0.5)

			// Continental shaping: lower elevation toward the edges so the
			// map is ringed by water rather than cut off mid-landmass.
			nx := (fx - halfW) / halfW
			ny := (fy - halfH) / halfH
			dist := math.Sqrt(nx*nx + ny*ny)
			falloff := 1.0 - math.Pow(dist, 3.0)
			if falloff < 0 {
				falloff = 0
			}
			elev *= falloff

			t := g.At(Coord{X: x, Y: y})
			t.Terrain = deriveTerrain(cfg, elev, moist)
			t.Buildable = t.Terrain == TerrainGrass
		}
	}

	return g
}

// deriveTerrain maps one elevation/moisture sample to a terrain kind.
func deriveTerrain(cfg GenConfig, elev, moist float64) Terrain {
	switch {
	case elev < cfg.SeaLevel:
		return TerrainWater
	case elev < cfg.SeaLevel+0.04:
		return TerrainSand
	case elev > cfg.SnowLvl:
		return TerrainSnow
	case elev > cfg.MountainLvl:
		return TerrainMountain
	case elev > cfg.MountainLvl-0.06:
		return TerrainStone
	case moist > cfg.ForestLvl:
		return TerrainForest
	default:
		return TerrainGrass
	}
}

// ClearArea forces a square patch centered on c to buildable grass. Used to
// guarantee the starting warehouse and its surroundings are placeable.
func ClearArea(g *Grid, c Coord, radius int) {
	for dy := -radius; dy <= radius; dy++ {
		for dx := -radius; dx <= radius; dx++ {
			t := g.At(Coord{X: c.X + dx, Y: c.Y + dy})
			if t == nil {
				continue
			}
			t.Terrain = TerrainGrass
			t.Buildable = true
		}
	}
}

// octaveNoise samples multiple noise octaves and normalizes to [0,1].
func octaveNoise(n opensimplex.Noise, x, y float64, octaves int, freq, persistence float64) float64 {
	total := 0.0
	amplitude := 1.0
	maxValue := 0.0
	f := freq

	for i := 0; i < octaves; i++ {
		total += n.Eval2(x*f, y*f) * amplitude
		maxValue += amplitude
		amplitude *= persistence
		f *= 2
	}

	return total / maxValue
}
