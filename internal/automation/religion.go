package automation

import (
	"github.com/talgya/autociv/internal/game"
	"github.com/talgya/autociv/internal/world"
)

// MissionaryRadius is how far from our cities a missionary is worth sending.
const MissionaryRadius = game.BaseSpreadRange

// FaithNeed compares the case for buying an inquisitor against the case for
// buying a missionary.
type FaithNeed struct {
	Inquisitor float64
	Missionary float64
}

// AssessFaithNeed counts contested own cities against unconverted cities
// near our borders, less the religious units already in the field. War
// favours inquisitors and a culture victory favours missionaries.
func AssessFaithNeed(w *game.World, f *game.Faction) FaithNeed {
	var need FaithNeed
	if f.Religion == "" {
		return need
	}
	own := w.CitiesOf(f.ID)
	for _, c := range own {
		if c.MajorityReligion() == f.Religion && heretics(c, f.Religion) > 0 {
			need.Inquisitor++
		}
	}
	for _, c := range w.Cities() {
		if c.MajorityReligion() == f.Religion || f.AtWarWith(w.Faction(c.Owner)) {
			continue
		}
		for _, o := range own {
			if world.Distance(o.Center, c.Center) <= MissionaryRadius {
				need.Missionary++
				break
			}
		}
	}
	for _, u := range w.UnitsOf(f.ID) {
		switch u.Type.Category {
		case game.CategoryInquisitor:
			need.Inquisitor--
		case game.CategoryMissionary:
			need.Missionary--
		}
	}
	need.Inquisitor = max(0, need.Inquisitor)
	need.Missionary = max(0, need.Missionary)
	if f.AtWar() {
		need.Inquisitor *= 1.5
	}
	if f.Victory == game.VictoryCulture {
		need.Missionary *= 1.5
	}
	return need
}

// DecideFaithPurchase returns the religious unit f should buy with faith,
// or "" when neither need wins. Human factions never buy.
func DecideFaithPurchase(w *game.World, f *game.Faction) string {
	if f.Human || f.Barbarian || f.ReligionState < game.ReligionFounded {
		return ""
	}
	need := AssessFaithNeed(w, f)
	switch {
	case need.Inquisitor > need.Missionary:
		return game.UnitInquisitor
	case need.Missionary > need.Inquisitor:
		return game.UnitMissionary
	}
	return ""
}

// SpendFaith buys the unit DecideFaithPurchase picks in the own city with
// the most faith, if it can be afforded.
func SpendFaith(ctx *Context) bool {
	w, f := ctx.World, ctx.Faction
	name := DecideFaithPurchase(w, f)
	if name == "" || f.Faith < w.FaithCost(f, game.UnitTypes[name]) {
		return false
	}
	var city *game.City
	for _, c := range w.CitiesOf(f.ID) {
		if city == nil || c.Stats.Faith > city.Stats.Faith {
			city = c
		}
	}
	if city == nil {
		return false
	}
	if _, err := w.PurchaseWithFaith(city, name); err != nil {
		ctx.Log.Debug().Err(err).Str("unit", name).Msg("faith purchase failed")
		return false
	}
	ctx.record("faith", city.Name, name, f.Faith)
	return true
}

// ChooseReligion advances f along the religious path when its stored faith
// allows: a pantheon, then a religion founded in the holiest city, then an
// enhancer belief.
func ChooseReligion(ctx *Context) {
	w, f := ctx.World, ctx.Faction
	if f.Barbarian {
		return
	}
	switch f.ReligionState {
	case game.ReligionNone:
		if f.Faith < game.PantheonFaith {
			return
		}
		if b := ChooseBelief(ctx, f, w.AvailableBeliefs(game.BeliefPantheon)); b != nil {
			if err := w.AdoptBelief(f, b.Name); err != nil {
				ctx.Log.Debug().Err(err).Str("belief", b.Name).Msg("pantheon failed")
			}
		}
	case game.ReligionPantheon:
		if f.Faith < game.ReligionFaith || len(w.Religions()) >= w.MaxReligions() {
			return
		}
		holy := holiestCity(w, f)
		founder := ChooseBelief(ctx, f, w.AvailableBeliefs(game.BeliefFounder))
		follower := ChooseBelief(ctx, f, w.AvailableBeliefs(game.BeliefFollower))
		if holy == nil || founder == nil || follower == nil {
			return
		}
		r, err := w.FoundReligion(f, holy, founder.Name, follower.Name)
		if err != nil {
			ctx.Log.Debug().Err(err).Msg("found religion failed")
			return
		}
		ctx.Log.Info().Str("religion", r.Name).Str("holy_city", holy.Name).Msg("religion founded")
		ctx.record("religion", holy.Name, r.Name, 0)
	case game.ReligionFounded:
		if f.Faith < game.EnhanceFaith {
			return
		}
		if b := ChooseBelief(ctx, f, w.AvailableBeliefs(game.BeliefEnhancer)); b != nil {
			if err := w.AdoptBelief(f, b.Name); err != nil {
				ctx.Log.Debug().Err(err).Str("belief", b.Name).Msg("enhancer failed")
			}
		}
	}
}

// holiestCity is the city producing the most faith, the capital on ties.
func holiestCity(w *game.World, f *game.Faction) *game.City {
	best := w.City(f.Capital)
	for _, c := range w.CitiesOf(f.ID) {
		if best == nil || c.Stats.Faith > best.Stats.Faith {
			best = c
		}
	}
	return best
}
