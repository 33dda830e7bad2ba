package game

import (
	"math"

	"github.com/talgya/autociv/internal/world"
)

// SpecialistYields is what one citizen produces when it works no tile.
var SpecialistYields = world.Yields{Science: 2, Gold: 1}

// cityBeliefs returns the beliefs in force in a city: the owner's pantheon,
// the follower beliefs of the majority religion and, for the founder, the
// founder and enhancer beliefs of its own religion.
func (w *World) cityBeliefs(c *City) []*Belief {
	f := w.Faction(c.Owner)
	var out []*Belief
	if f.Pantheon != "" {
		out = append(out, Beliefs[f.Pantheon])
	}
	if r := w.religions[c.MajorityReligion()]; r != nil {
		for _, name := range r.Beliefs {
			if b := Beliefs[name]; b != nil && b.Type == BeliefFollower {
				out = append(out, b)
			}
		}
	}
	if r := w.religions[f.Religion]; r != nil && r.Founder == f.ID {
		for _, name := range r.Beliefs {
			if b := Beliefs[name]; b != nil && (b.Type == BeliefFounder || b.Type == BeliefEnhancer) {
				out = append(out, b)
			}
		}
	}
	return out
}

// FactionBeliefs returns every belief the faction has adopted itself.
func (w *World) FactionBeliefs(f *Faction) []*Belief {
	var out []*Belief
	if f.Pantheon != "" {
		out = append(out, Beliefs[f.Pantheon])
	}
	if r := w.religions[f.Religion]; r != nil && r.Founder == f.ID {
		for _, name := range r.Beliefs {
			out = append(out, Beliefs[name])
		}
	}
	return out
}

// TileYields returns what the tile produces for f, including tile belief
// effects of the city that owns it.
func (w *World) TileYields(t *world.Tile, f *Faction) world.Yields {
	visible := f != nil && f.CanSee(t.ResourceInfo())
	y := t.Yields(visible)
	var beliefs []*Belief
	if c := w.CityOwning(t.Coord); c != nil {
		beliefs = w.cityBeliefs(c)
	} else if f != nil && f.Pantheon != "" {
		beliefs = []*Belief{Beliefs[f.Pantheon]}
	}
	for _, b := range beliefs {
		for _, e := range b.Effects {
			if tileEffectApplies(e, t, visible) {
				y.AddStat(e.Stat, e.Amount)
			}
		}
	}
	return y
}

func tileEffectApplies(e Effect, t *world.Tile, resourceVisible bool) bool {
	switch e.Kind {
	case EffectStatFromTerrain:
		return t.Terrain.String() == e.Filter
	case EffectStatFromImprovement:
		return t.HasImprovement() && string(t.Improvement) == e.Filter
	case EffectStatFromResource:
		return resourceVisible && t.Resource == e.Filter
	}
	return false
}

// RefreshStats recomputes the cached per-turn output of a city. Food is
// stored as surplus after each citizen eats two.
func (w *World) RefreshStats(c *City) {
	f := w.Faction(c.Owner)
	var y world.Yields
	if t := w.Map.Get(c.Center); t != nil {
		y = y.Plus(w.TileYields(t, f))
	}
	for _, coord := range c.Worked {
		if t := w.Map.Get(coord); t != nil {
			y = y.Plus(w.TileYields(t, f))
		}
	}
	y = y.Plus(SpecialistYields.Times(float64(c.Specialists)))
	y.Science += float64(c.Population) / 2
	for _, name := range BuildingOrder {
		if c.Has(name) {
			y = y.Plus(Buildings[name].Yields)
		}
	}
	if w.IsCapital(c) {
		for _, name := range PolicyOrder {
			if f.Policies[name] {
				y = y.Plus(Policies[name].Yields)
			}
		}
	}

	percent := world.Yields{}
	for _, b := range w.cityBeliefs(c) {
		for _, e := range b.Effects {
			switch e.Kind {
			case EffectStatFromBuilding:
				if c.Has(e.Filter) {
					y.AddStat(e.Stat, e.Amount)
				}
			case EffectStatPerPopulation:
				y.AddStat(e.Stat, e.Amount*float64(c.Population/4))
			case EffectStatPerTradeRoute:
				if f.ConnectedCities[c.ID] && !w.IsCapital(c) {
					y.AddStat(e.Stat, e.Amount)
				}
			case EffectStatInHolyCity:
				if c.HolyCity != "" {
					y.AddStat(e.Stat, e.Amount)
				}
			case EffectPercentStat:
				percent.AddStat(e.Stat, e.Amount)
			case EffectFollowerPercent:
				followers := float64(c.Followers[f.Religion])
				y.AddStat(e.Stat, math.Min(followers*e.Amount/100, e.Max))
			}
		}
	}
	for _, s := range world.AllStats {
		if p := percent.Get(s); p != 0 {
			y.AddStat(s, y.Get(s)*p/100)
		}
	}
	y.Food -= 2 * float64(c.Population)
	c.Stats = y
}

// UnitUpkeep is the gold paid each turn for units beyond the free allowance.
func (w *World) UnitUpkeep(f *Faction) float64 {
	free := 3 + 2*len(w.CitiesOf(f.ID))
	n := 0
	for _, u := range w.UnitsOf(f.ID) {
		if u.IsMilitary() {
			n++
		}
	}
	return math.Max(0, float64(n-free)) / 2
}

// RefreshFaction recomputes resources, per-turn totals and happiness.
func (w *World) RefreshFaction(f *Faction) {
	w.UpdateResources(f)
	var total world.Yields
	cities := w.CitiesOf(f.ID)
	for _, c := range cities {
		w.RefreshStats(c)
		total = total.Plus(c.Stats)
	}
	for id := range f.ConnectedCities {
		if id != f.Capital {
			total.Gold++
		}
	}
	total.Gold -= w.UnitUpkeep(f)
	f.Stats = total
	f.Happiness = w.Happiness(f)
}

// Happiness is 9 plus 4 per luxury type plus building and belief happiness,
// minus 3 per city and 1 per citizen.
func (w *World) Happiness(f *Faction) int {
	h := 9 + 4*f.LuxuryTypes()
	pop := 0
	cities := w.CitiesOf(f.ID)
	for _, c := range cities {
		pop += c.Population
		for _, name := range BuildingOrder {
			if c.Has(name) {
				h += int(Buildings[name].Yields.Happiness)
			}
		}
	}
	for _, name := range PolicyOrder {
		if f.Policies[name] {
			h += int(Policies[name].Yields.Happiness)
		}
	}
	if r := w.religions[f.Religion]; r != nil && r.Founder == f.ID {
		for _, b := range w.FactionBeliefs(f) {
			for _, e := range b.Effects {
				if e.Kind != EffectHappinessPerCity {
					continue
				}
				for _, c := range w.Cities() {
					if c.MajorityReligion() == r.Name {
						h += int(e.Amount)
					}
				}
			}
		}
	}
	return h - 3*len(cities) - pop
}

// UpdateResources recounts connected resources on owned tiles and applies
// standing trades.
func (w *World) UpdateResources(f *Faction) {
	clear(f.Resources)
	for _, t := range w.Map.Tiles() {
		if FactionID(t.Owner) != f.ID {
			continue
		}
		res := t.ResourceInfo()
		if res == nil || !f.CanSee(res) {
			continue
		}
		if t.CityCenter || (t.HasImprovement() && t.Improvement == res.Improvement) {
			f.Resources[res.Name] += max(t.ResourceAmount, 1)
		}
	}
	for _, tr := range f.Trades {
		f.Resources[tr.Give]--
		f.Resources[tr.Receive]++
	}
}

// CombatBonus is the percent combat strength f gains from beliefs.
func (w *World) CombatBonus(f *Faction) float64 {
	bonus := 0.0
	for _, b := range w.FactionBeliefs(f) {
		for _, e := range b.Effects {
			if e.Kind == EffectCombatStrength {
				bonus += e.Amount
			}
		}
	}
	return bonus
}

// FaithCost is what f pays in faith for a unit after belief discounts.
func (w *World) FaithCost(f *Faction, ut *UnitType) float64 {
	cost := float64(ut.FaithCost)
	for _, b := range w.FactionBeliefs(f) {
		for _, e := range b.Effects {
			if e.Kind == EffectFaithPurchaseDiscount {
				cost *= 1 - e.Amount/100
			}
		}
	}
	return math.Ceil(cost)
}

// AverageProduction is the mean production over the faction's cities.
func (w *World) AverageProduction(f FactionID) float64 {
	cities := w.CitiesOf(f)
	if len(cities) == 0 {
		return 0
	}
	sum := 0.0
	for _, c := range cities {
		sum += c.Stats.Production
	}
	return sum / float64(len(cities))
}
