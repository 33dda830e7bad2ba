package scenario

import (
	"errors"
	"fmt"
	"slices"

	"github.com/rs/zerolog/log"

	"github.com/talgya/autociv/internal/entropy"
	"github.com/talgya/autociv/internal/game"
	"github.com/talgya/autociv/internal/world"
)

// ErrNoRoom is returned when the map cannot fit the requested factions.
var ErrNoRoom = errors.New("not enough start positions")

// Config describes a starting scenario.
type Config struct {
	Gen              GenConfig
	Map              *world.Map // Prebuilt map; nil generates one from Gen
	Factions         int        // Automated factions, at most len(game.SeedFactions())
	Camps            int        // Barbarian encampments
	MinStartDistance int        // Closest two capitals may start
	HumanFaction     int        // Index of a faction left to a player, -1 for none
}

// DefaultConfig returns a four-faction game on the default map.
func DefaultConfig() Config {
	return Config{
		Gen:              DefaultGenConfig(),
		Factions:         4,
		Camps:            4,
		MinStartDistance: 7,
		HumanFaction:     -1,
	}
}

type scoredTile struct {
	coord world.HexCoord
	score float64
}

// startScore rates a tile as a capital site from the raw yields around it.
// Unsuitable tiles score 0.
func startScore(m *world.Map, t *world.Tile) float64 {
	if !t.IsLand() || t.IsImpassable() || t.Encampment {
		return 0
	}
	score := 0.0
	for _, n := range m.TilesInDistance(t.Coord, 2) {
		if n.IsImpassable() {
			continue
		}
		y := n.Yields(n.ResourceInfo() != nil && n.ResourceInfo().RevealTech == "")
		score += y.Food*1.5 + y.Production + y.Gold*0.5
	}
	if m.IsCoastal(t.Coord) {
		score += 2
	}
	if t.Terrain == world.TerrainRiver {
		score++
	}
	return score
}

// PlaceStarts picks n start tiles, best first, at least minDist apart. When
// the map is too crowded the distance is relaxed down to
// game.MinCityDistance+1 before giving up, so fewer than n tiles may return.
func PlaceStarts(m *world.Map, n, minDist int) []world.HexCoord {
	var candidates []scoredTile
	for _, t := range m.Tiles() {
		if s := startScore(m, t); s > 0 {
			candidates = append(candidates, scoredTile{t.Coord, s})
		}
	}
	slices.SortStableFunc(candidates, func(a, b scoredTile) int {
		switch {
		case a.score > b.score:
			return -1
		case a.score < b.score:
			return 1
		}
		return 0
	})

	var starts []world.HexCoord
	for dist := minDist; dist > game.MinCityDistance; dist-- {
		starts = starts[:0]
		for _, c := range candidates {
			if len(starts) == n {
				break
			}
			if !tooClose(c.coord, starts, dist) {
				starts = append(starts, c.coord)
			}
		}
		if len(starts) == n {
			break
		}
	}
	return starts
}

// PlaceCamps picks up to n encampment tiles, away from every start and from
// each other.
func PlaceCamps(m *world.Map, starts []world.HexCoord, n int, seed int64) []world.HexCoord {
	rng := entropy.New(entropy.Derive(seed, "camps"))
	var candidates []world.HexCoord
	for _, t := range m.Tiles() {
		if t.IsLand() && !t.IsImpassable() && !tooClose(t.Coord, starts, 6) {
			candidates = append(candidates, t.Coord)
		}
	}
	rng.Shuffle(len(candidates), func(i, j int) {
		candidates[i], candidates[j] = candidates[j], candidates[i]
	})

	var camps []world.HexCoord
	for _, c := range candidates {
		if len(camps) == n {
			break
		}
		if !tooClose(c, camps, 4) {
			camps = append(camps, c)
		}
	}
	return camps
}

func tooClose(coord world.HexCoord, existing []world.HexCoord, minDist int) bool {
	for _, e := range existing {
		if world.Distance(coord, e) < minDist {
			return true
		}
	}
	return false
}

// NewGame generates a map and seeds it with factions. Each faction gets a
// capital, a warrior, a worker and a settler; all factions have met. A
// barbarian faction holds the encampments, each guarded by a warrior.
func NewGame(cfg Config) (*game.World, error) {
	seeds := game.SeedFactions()
	if cfg.Factions < 1 || cfg.Factions > len(seeds) {
		return nil, fmt.Errorf("new game: %d factions, want 1..%d", cfg.Factions, len(seeds))
	}

	m := cfg.Map
	if m == nil {
		m = Generate(cfg.Gen)
	}
	starts := PlaceStarts(m, cfg.Factions, cfg.MinStartDistance)
	if len(starts) < cfg.Factions {
		return nil, fmt.Errorf("new game: placed %d of %d factions on radius %d: %w",
			len(starts), cfg.Factions, m.Radius, ErrNoRoom)
	}

	w := game.New(m)
	var factions []*game.Faction
	for i, start := range starts {
		seed := seeds[i]
		f := w.AddFaction(seed.Name, seed.Victory)
		f.Human = i == cfg.HumanFaction
		if _, err := w.AddCity(f.ID, start); err != nil {
			return nil, fmt.Errorf("new game: capital for %s: %w", f.Name, err)
		}
		for _, unit := range []string{game.UnitWarrior, game.UnitWorker, game.UnitSettler} {
			if _, err := w.SpawnUnit(f.ID, unit, start); err != nil {
				return nil, fmt.Errorf("new game: %s for %s: %w", unit, f.Name, err)
			}
		}
		factions = append(factions, f)
	}
	for i, a := range factions {
		for _, b := range factions[i+1:] {
			w.Meet(a.ID, b.ID)
		}
	}

	if cfg.Camps > 0 {
		barbs := w.AddBarbarians()
		for _, c := range PlaceCamps(m, starts, cfg.Camps, cfg.Gen.Seed) {
			m.Get(c).Encampment = true
			if _, err := w.SpawnUnit(barbs.ID, game.UnitWarrior, c); err != nil {
				return nil, fmt.Errorf("new game: camp at %v: %w", c, err)
			}
		}
	}

	for _, f := range w.Factions() {
		w.RefreshFaction(f)
	}
	log.Info().
		Int("radius", m.Radius).
		Int("tiles", m.HexCount()).
		Int("factions", len(factions)).
		Int("camps", cfg.Camps).
		Msg("New game ready")
	return w, nil
}
