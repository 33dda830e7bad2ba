package automation

import (
	"github.com/talgya/autociv/internal/game"
	"github.com/talgya/autociv/internal/world"
)

// SmallCityPopulation is the size below which cities value growth over
// everything else.
const SmallCityPopulation = 5

// ValueTile scores the per-turn worth of a tile to a city (which may be
// nil) of faction f. Tiles owned by another faction are worth nothing.
func ValueTile(w *game.World, t *world.Tile, c *game.City, f *game.Faction, foodWeight float64) float64 {
	if t == nil || (t.Owner != 0 && game.FactionID(t.Owner) != f.ID) {
		return 0
	}
	score := rankStats(w.TileYields(t, f), c, f, foodWeight)
	if t.Improvement == world.ImprovementNone && !t.CityCenter {
		score += 0.5
	}
	if res := t.ResourceInfo(); res != nil && res.Kind != world.ResourceBonus && f.CanSee(res) {
		score += 1
	}
	return score
}

// ValueSpecialist scores one specialist in the city.
func ValueSpecialist(c *game.City, f *game.Faction) float64 {
	return rankStats(game.SpecialistYields, c, f, 1) + 0.3
}

func rankStats(y world.Yields, c *game.City, f *game.Faction, foodWeight float64) float64 {
	if c != nil && c.Population < SmallCityPopulation {
		return y.Food*1.2*foodWeight + y.Production + y.Science/2 + y.Culture/2 + y.Faith/2 + y.Gold/5
	}

	var score float64
	if y.Food <= 2 {
		score += y.Food * 1.2 * foodWeight
	} else {
		score += (2.4 + (y.Food-2)/2) * foodWeight
	}

	if financialEmergency(f) {
		score += y.Gold
	} else {
		score += y.Gold / 3
	}

	if c != nil && len(c.Worked) > 12 && f.Victory != game.VictoryCulture {
		score += y.Culture / 2
	} else {
		score += y.Culture
	}

	return score + y.Production + y.Science + y.Faith
}

func financialEmergency(f *game.Faction) bool {
	return f.Gold <= 0 && f.Stats.Gold <= 0
}
