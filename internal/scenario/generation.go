// Package scenario builds starting worlds: a noise-generated map, start
// positions for each faction and the initial game state.
package scenario

import (
	"math"
	mrand "math/rand"

	opensimplex "github.com/ojrac/opensimplex-go"
	"github.com/rs/zerolog/log"

	"github.com/talgya/autociv/internal/entropy"
	"github.com/talgya/autociv/internal/reach"
	"github.com/talgya/autociv/internal/world"
)

// GenConfig holds map generation parameters.
type GenConfig struct {
	Radius       int     // Hex grid radius
	Seed         int64   // Random seed (0 = random)
	SeaLevel     float64 // Elevation threshold for water (0.0–1.0)
	MountainLvl  float64 // Elevation threshold for mountains (0.0–1.0)
	HillsLvl     float64 // Elevation threshold for hills, below MountainLvl
	ResourceRate float64 // Chance that a tile able to host a resource gets one
}

// DefaultGenConfig returns the configuration used by the CLI.
func DefaultGenConfig() GenConfig {
	return GenConfig{
		Radius:       16,
		Seed:         0,
		SeaLevel:     0.30,
		MountainLvl:  0.78,
		HillsLvl:     0.62,
		ResourceRate: 0.12,
	}
}

// SmallTestConfig returns a tiny map for tests.
func SmallTestConfig() GenConfig {
	return GenConfig{
		Radius:       8,
		Seed:         42,
		SeaLevel:     0.28,
		MountainLvl:  0.80,
		HillsLvl:     0.64,
		ResourceRate: 0.15,
	}
}

// Generate creates a map with terrain, rivers, resources and continent ids.
// The same config always yields the same map.
func Generate(cfg GenConfig) *world.Map {
	seed := cfg.Seed
	if seed == 0 {
		seed = entropy.CryptoSeed()
		log.Info().Int64("seed", seed).Msg("Generated random map seed")
	}

	// Three noise generators for independent layers.
	elevNoise := opensimplex.NewNormalized(seed)
	rainNoise := opensimplex.NewNormalized(seed + 1)
	tempNoise := opensimplex.NewNormalized(seed + 2)

	m := world.NewMap(cfg.Radius)
	for _, coord := range world.Spiral(world.HexCoord{}, cfg.Radius) {
		// Hex axial → cartesian: x = q + r*0.5, y = r * sqrt(3)/2
		x := float64(coord.Q) + float64(coord.R)*0.5
		y := float64(coord.R) * math.Sqrt(3.0) / 2.0

		elev := octaveNoise(elevNoise, x, y, 4, 0.08, 0.5)
		rain := octaveNoise(rainNoise, x, y, 3, 0.06, 0.5)
		temp := octaveNoise(tempNoise, x, y, 3, 0.05, 0.5)

		// Sink the rim so the map is ringed by sea.
		distFromCenter := math.Sqrt(x*x+y*y) / float64(max(cfg.Radius, 1))
		elev *= math.Max(0, 1.0-math.Pow(distFromCenter, 3.5))

		// Colder towards the poles and at altitude.
		temp = temp*0.6 + (1.0-math.Abs(y)/float64(max(cfg.Radius, 1)))*0.3 + (1.0-elev)*0.1

		m.Set(&world.Tile{
			Coord:       coord,
			Terrain:     deriveTerrain(elev, rain, temp, cfg),
			Elevation:   elev,
			Rainfall:    rain,
			Temperature: temp,
		})
	}

	markShallows(m)
	placeRivers(m, entropy.New(entropy.Derive(seed, "rivers")))
	placeResources(m, entropy.New(entropy.Derive(seed, "resources")), cfg.ResourceRate)
	labelContinents(m)
	return m
}

// deriveTerrain determines terrain type from environmental parameters.
func deriveTerrain(elev, rain, temp float64, cfg GenConfig) world.Terrain {
	switch {
	case elev < cfg.SeaLevel:
		return world.TerrainOcean
	case elev > cfg.MountainLvl:
		return world.TerrainMountain
	case elev > cfg.HillsLvl:
		return world.TerrainHills
	case temp < 0.25:
		return world.TerrainTundra
	case rain < 0.25 && temp > 0.5:
		return world.TerrainDesert
	case rain > 0.7 && elev < 0.45:
		return world.TerrainSwamp
	case rain > 0.45 && elev > 0.45:
		return world.TerrainForest
	case rain > 0.5:
		return world.TerrainGrassland
	}
	return world.TerrainPlains
}

// markShallows turns ocean next to land into coast.
func markShallows(m *world.Map) {
	var toMark []*world.Tile
	for _, t := range m.Tiles() {
		if t.Terrain != world.TerrainOcean {
			continue
		}
		for _, n := range m.Neighbors(t.Coord) {
			if n.IsLand() {
				toMark = append(toMark, t)
				break
			}
		}
	}
	for _, t := range toMark {
		t.Terrain = world.TerrainCoast
	}
}

// placeRivers traces rivers from a handful of highland sources down to the sea.
func placeRivers(m *world.Map, rng *mrand.Rand) {
	var sources []world.HexCoord
	for _, t := range m.Tiles() {
		if t.Elevation > 0.6 && t.IsLand() {
			sources = append(sources, t.Coord)
		}
	}

	numRivers := entropy.Clamp(len(sources)/8, 2, 10)
	rng.Shuffle(len(sources), func(i, j int) {
		sources[i], sources[j] = sources[j], sources[i]
	})
	if len(sources) > numRivers {
		sources = sources[:numRivers]
	}
	for _, start := range sources {
		traceRiver(m, start)
	}
}

// traceRiver follows the steepest descent from start until it reaches water
// or runs out of downhill path.
func traceRiver(m *world.Map, start world.HexCoord) {
	const maxSteps = 50
	current := start
	visited := make(map[world.HexCoord]bool)

	for range maxSteps {
		visited[current] = true
		t := m.Get(current)
		if t == nil || t.IsWater() {
			return
		}
		if t.Terrain != world.TerrainMountain && t.Terrain != world.TerrainHills {
			t.Terrain = world.TerrainRiver
		}

		var next *world.Tile
		for _, n := range m.Neighbors(current) {
			if visited[n.Coord] || n.Elevation >= t.Elevation {
				continue
			}
			if next == nil || n.Elevation < next.Elevation {
				next = n
			}
		}
		if next == nil {
			return
		}
		current = next.Coord
	}
}

// placeResources seeds bonus, strategic and luxury resources on tiles that
// can host them. Strategic deposits carry an amount.
func placeResources(m *world.Map, rng *mrand.Rand, rate float64) {
	for _, t := range m.Tiles() {
		if t.IsImpassable() || rng.Float64() >= rate {
			continue
		}
		var fits []*world.Resource
		for _, name := range world.ResourceNames {
			if res := world.Resources[name]; res.CanHost(t.Terrain) {
				fits = append(fits, res)
			}
		}
		if len(fits) == 0 {
			continue
		}
		res := entropy.Pick(rng, fits)
		t.Resource = res.Name
		switch res.Kind {
		case world.ResourceStrategic:
			t.ResourceAmount = 2 + rng.Intn(4)
		default:
			t.ResourceAmount = 1
		}
	}
}

// labelContinents numbers connected landmasses from 1 in spiral order.
// Water tiles keep continent 0.
func labelContinents(m *world.Map) int {
	next := 0
	for _, t := range m.Tiles() {
		if t.IsWater() || t.Continent != 0 {
			continue
		}
		next++
		bfs := reach.New(m, t.Coord, func(n *world.Tile) bool { return n.IsLand() })
		bfs.AdvanceToEnd()
		for _, c := range bfs.ReachedTiles() {
			m.Get(c).Continent = next
		}
	}
	return next
}

// octaveNoise generates fractal noise by layering multiple frequencies.
func octaveNoise(noise opensimplex.Noise, x, y float64, octaves int, frequency, persistence float64) float64 {
	total := 0.0
	amplitude := 1.0
	maxVal := 0.0

	for range octaves {
		total += noise.Eval2(x*frequency, y*frequency) * amplitude
		maxVal += amplitude
		amplitude *= persistence
		frequency *= 2
	}

	return total / maxVal
}
