package automation

import (
	"github.com/talgya/autociv/internal/entropy"
	"github.com/talgya/autociv/internal/game"
	"github.com/talgya/autociv/internal/world"
)

// BeliefRadius is how far around each city tiles count towards a belief.
const BeliefRadius = 3

// PantheonDiscount undervalues pantheons against full religion beliefs.
const PantheonDiscount = 0.9

// ScoreBelief rates belief b for faction f. Tile bonuses are weighted by how
// the city uses the tile; every partial sum gets a little jitter from
// ctx.Rng.
func ScoreBelief(ctx *Context, f *game.Faction, b *game.Belief) float64 {
	w := ctx.World
	var score float64
	for _, c := range w.CitiesOf(f.ID) {
		for _, t := range w.Map.TilesInDistance(c.Center, BeliefRadius) {
			weight := 3.0
			switch {
			case c.IsWorked(t.Coord):
				weight = 8
			case game.CityID(t.City) == c.ID:
				weight = 5
			}
			score += beliefTileBonus(b, t, f) * weight * entropy.Jitter(ctx.Rng, 0.975, 1.025)
		}
		score += beliefCityBonus(w, b, c, f) * entropy.Jitter(ctx.Rng, 0.95, 1.05)
	}
	score += beliefFactionBonus(w, b, f) * entropy.Jitter(ctx.Rng, 0.85, 1.15)
	if b.Type == game.BeliefPantheon {
		score *= PantheonDiscount
	}
	return score
}

func beliefTileBonus(b *game.Belief, t *world.Tile, f *game.Faction) float64 {
	var bonus float64
	for _, e := range b.Effects {
		switch e.Kind {
		case game.EffectStatFromTerrain:
			if t.Terrain.String() == e.Filter {
				bonus += e.Amount
			}
		case game.EffectStatFromImprovement:
			imp := world.Improvement(e.Filter)
			if t.Improvement == imp {
				bonus += e.Amount
			} else if res := t.ResourceInfo(); res != nil && res.Improvement == imp && f.CanSee(res) {
				bonus += e.Amount / 2
			}
		case game.EffectStatFromResource:
			if res := t.ResourceInfo(); res != nil && res.Name == e.Filter && f.CanSee(res) {
				bonus += e.Amount
			}
		}
	}
	return bonus
}

func beliefCityBonus(w *game.World, b *game.Belief, c *game.City, f *game.Faction) float64 {
	var bonus float64
	for _, e := range b.Effects {
		switch e.Kind {
		case game.EffectStatFromBuilding:
			if bd := game.Buildings[e.Filter]; bd != nil {
				if bd.Wonder {
					bonus += e.Amount / 2
				} else {
					bonus += e.Amount
				}
			}
		case game.EffectStatPerPopulation:
			bonus += e.Amount
		case game.EffectStatPerTradeRoute:
			if f.ConnectedCities[c.ID] {
				bonus += e.Amount * 2
			} else {
				bonus += e.Amount
			}
		case game.EffectStatInHolyCity:
			// Before founding, the holy city is where the religion will start.
			if c.HolyCity != "" || (f.ReligionState < game.ReligionFounded && holiestCity(w, f) == c) {
				bonus += e.Amount
			}
		case game.EffectPercentStat:
			bonus += e.Amount / 3
		case game.EffectFollowerPercent:
			// Same rate as the city yield. Without a religion yet, every
			// citizen counts as a future follower.
			followers := c.Followers[f.Religion]
			if f.Religion == "" {
				followers = c.Population
			}
			bonus += min(e.Amount*float64(followers)/100, e.Max)
		case game.EffectHappinessPerCity:
			bonus += e.Amount
		}
	}
	return bonus
}

func beliefFactionBonus(w *game.World, b *game.Belief, f *game.Faction) float64 {
	// Spread beliefs pay off early, purchase discounts late.
	founded := 100 * len(w.Religions()) / max(1, w.MaxReligions())
	early, late := 1.0, 2.0
	switch {
	case founded >= 66:
		early, late = 4, 0.5
	case founded >= 33:
		early, late = 2, 1
	}

	var bonus float64
	for _, e := range b.Effects {
		switch e.Kind {
		case game.EffectCombatStrength:
			m := 1.0
			if f.Victory == game.VictoryDomination {
				m = 2
			}
			bonus += e.Amount / 4 * m
		case game.EffectSpreadRange:
			bonus += (10 + e.Amount) / early
		case game.EffectFaithPurchaseDiscount:
			bonus += e.Amount / late / 2
		}
	}
	return bonus
}

// ChooseBelief returns the best scoring candidate, or nil.
func ChooseBelief(ctx *Context, f *game.Faction, candidates []*game.Belief) *game.Belief {
	var best *game.Belief
	var bestScore float64
	for _, b := range candidates {
		if s := ScoreBelief(ctx, f, b); best == nil || s > bestScore {
			best, bestScore = b, s
		}
	}
	if best != nil {
		ctx.record("belief", f.Name, best.Name, bestScore)
	}
	return best
}
