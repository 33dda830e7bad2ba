package automation

import (
	"cmp"
	"slices"

	"github.com/rs/zerolog"

	"github.com/talgya/autociv/internal/entropy"
	"github.com/talgya/autociv/internal/game"
	"github.com/talgya/autociv/internal/reach"
	"github.com/talgya/autociv/internal/rules"
	"github.com/talgya/autociv/internal/world"
)

// War scan thresholds.
const (
	WarMilitaryPerCity = 2 // Military units per city needed before looking for a war
	WarMaxDistance     = 7 // Farthest a victim's city may lie from our capital
)

// Orchestrator plays whole turns for automated factions. The zero value
// uses seed 0, the default doctrine and a disabled logger.
type Orchestrator struct {
	Seed     int64
	Doctrine *rules.Engine
	Journal  Journal
	Strict   bool
	Log      zerolog.Logger
}

// NewContext builds the context for f's current turn. Its random source is
// derived from the seed, the faction and the turn.
func (o *Orchestrator) NewContext(w *game.World, f *game.Faction) *Context {
	return &Context{
		World:    w,
		Faction:  f,
		Rng:      entropy.ForTurn(o.Seed, uint64(f.ID), w.Turn),
		Log:      o.Log.With().Str("faction", f.Name).Int("turn", w.Turn).Logger(),
		Journal:  o.Journal,
		Doctrine: o.Doctrine,
		Strict:   o.Strict,
	}
}

// PlayTurn takes every decision for f this turn and returns the controller
// holding the state each unit ended in. Human factions are left alone.
func (o *Orchestrator) PlayTurn(w *game.World, f *game.Faction) *Controller {
	ctx := o.NewContext(w, f)
	ctrl := NewController(ctx)
	if f.Human {
		return ctrl
	}
	if f.Barbarian {
		o.automateUnits(ctx, ctrl)
		return ctrl
	}

	ChooseResearch(ctx)
	AdoptPolicies(ctx)
	ChooseReligion(ctx)
	ExchangeLuxuries(ctx)
	DeclareWarIfStrong(ctx)
	f.ConnectedCities = reach.CapitalConnections(w, f).Set()
	o.automateUnits(ctx, ctrl)
	for _, c := range w.CitiesOf(f.ID) {
		if NeedsPlanning(w, c) {
			PlanConstruction(ctx, c)
		}
	}
	SpendFaith(ctx)
	ReassignWorkedTiles(ctx)
	TrainSettler(ctx)
	return ctrl
}

// unitPass orders automation: civilians clear tiles first, generals follow
// the army.
func unitPass(u *game.Unit) int {
	switch {
	case u.Type.Category == game.CategoryGreatGeneral:
		return 3
	case u.IsCivilian():
		return 0
	case u.Type.IsRanged() || u.Type.IsAir():
		return 1
	}
	return 2
}

func (o *Orchestrator) automateUnits(ctx *Context, ctrl *Controller) {
	units := ctx.World.UnitsOf(ctx.Faction.ID)
	slices.SortStableFunc(units, func(a, b *game.Unit) int {
		return cmp.Compare(unitPass(a), unitPass(b))
	})
	for _, u := range units {
		if ctx.World.Unit(u.ID) == nil {
			continue
		}
		runUnit(ctx, ctrl, u)
	}
}

// runUnit automates one unit. Outside strict mode a panic is logged and
// the turn goes on.
func runUnit(ctx *Context, ctrl *Controller, u *game.Unit) {
	if !ctx.Strict {
		defer func() {
			if r := recover(); r != nil {
				ctx.Log.Error().
					Interface("panic", r).
					Uint64("unit", uint64(u.ID)).
					Str("type", u.Type.Name).
					Msg("unit automation panicked")
			}
		}()
	}
	ctrl.Run(u)
}

// ChooseResearch starts a random tech among the cheapest researchable ones
// when nothing is being researched.
func ChooseResearch(ctx *Context) {
	f := ctx.Faction
	if f.Researching != "" {
		return
	}
	techs := f.ResearchableTechs()
	if len(techs) == 0 {
		return
	}
	cheapest := game.Techs[techs[0]].Cost
	for _, name := range techs {
		cheapest = min(cheapest, game.Techs[name].Cost)
	}
	var pool []string
	for _, name := range techs {
		if game.Techs[name].Cost == cheapest {
			pool = append(pool, name)
		}
	}
	tech := entropy.Pick(ctx.Rng, pool)
	if err := ctx.World.Research(f, tech); err != nil {
		ctx.Log.Debug().Err(err).Str("tech", tech).Msg("research failed")
		return
	}
	ctx.record("research", f.Name, tech, float64(cheapest))
}

// AdoptPolicies adopts random adoptable policies while culture lasts.
func AdoptPolicies(ctx *Context) {
	w, f := ctx.World, ctx.Faction
	for f.Culture >= w.NextPolicyCost(f) {
		options := f.AdoptablePolicies()
		if len(options) == 0 {
			return
		}
		policy := entropy.Pick(ctx.Rng, options)
		if err := w.AdoptPolicy(f, policy); err != nil {
			ctx.Log.Debug().Err(err).Str("policy", policy).Msg("policy failed")
			return
		}
		ctx.record("policy", f.Name, policy, f.Culture)
	}
}

// tradableLuxuries lists luxuries f holds more than one of and other holds
// none of.
func tradableLuxuries(f, other *game.Faction) []string {
	var out []string
	for _, name := range world.ResourceNames {
		if world.Resources[name].Kind != world.ResourceLuxury {
			continue
		}
		if f.Resources[name] > 1 && other.Resources[name] == 0 {
			out = append(out, name)
		}
	}
	return out
}

// ExchangeLuxuries swaps spare luxuries one for one with every known
// faction at peace, pairing them in catalog order.
func ExchangeLuxuries(ctx *Context) {
	w, f := ctx.World, ctx.Faction
	for _, other := range w.Factions() {
		if other.ID == f.ID || other.Barbarian || other.Human || !f.Knows(other.ID) || f.AtWarWith(other) {
			continue
		}
		give := tradableLuxuries(f, other)
		receive := tradableLuxuries(other, f)
		for i := range min(len(give), len(receive)) {
			if err := w.TradeResources(f.ID, other.ID, give[i], receive[i]); err != nil {
				ctx.Log.Debug().Err(err).Str("with", other.Name).Msg("trade failed")
				continue
			}
			ctx.record("trade", other.Name, give[i]+"->"+receive[i], 1)
		}
	}
}

// DeclareWarIfStrong declares war on the nearest known faction with less
// than half our combat power, when we are at peace and well armed.
func DeclareWarIfStrong(ctx *Context) {
	w, f := ctx.World, ctx.Faction
	cities := w.CitiesOf(f.ID)
	capital := w.City(f.Capital)
	if f.AtWar() || len(cities) == 0 || capital == nil {
		return
	}
	if float64(militaryCount(w, f))/float64(len(cities)) <= WarMilitaryPerCity {
		return
	}

	type victim struct {
		faction  *game.Faction
		distance int
	}
	var victims []victim
	for _, other := range w.Factions() {
		if other.ID == f.ID || other.Barbarian || !f.Knows(other.ID) {
			continue
		}
		d := -1
		for _, c := range w.CitiesOf(other.ID) {
			if x := world.Distance(capital.Center, c.Center); d < 0 || x < d {
				d = x
			}
		}
		if d < 0 || d > WarMaxDistance {
			continue
		}
		victims = append(victims, victim{other, d})
	}
	slices.SortStableFunc(victims, func(a, b victim) int {
		return cmp.Compare(a.distance, b.distance)
	})

	ours := CombatPower(w, f)
	for _, v := range victims {
		theirs := CombatPower(w, v.faction)
		if theirs*2 >= ours {
			continue
		}
		if err := w.DeclareWar(f.ID, v.faction.ID); err != nil {
			ctx.Log.Debug().Err(err).Str("target", v.faction.Name).Msg("declare war failed")
			return
		}
		ctx.Log.Info().
			Str("target", v.faction.Name).
			Int("power", ours).
			Int("target_power", theirs).
			Int("distance", v.distance).
			Msg("war declared")
		ctx.record("war", v.faction.Name, "declare", float64(ours)/float64(theirs))
		return
	}
}

// ReassignWorkedTiles redistributes every city's population: tile values
// are snapshotted first, then citizens take the best tiles that beat a
// specialist. A city under siege switches to training a defender.
func ReassignWorkedTiles(ctx *Context) {
	w, f := ctx.World, ctx.Faction
	for _, c := range w.CitiesOf(f.ID) {
		if w.UnderSiege(c) && game.UnitTypes[c.Construction] == nil {
			if name := ChooseMilitaryUnit(ctx, c); name != "" {
				if err := w.SetConstruction(c, name); err == nil {
					ctx.record("siege", c.Name, name, 0)
				}
			}
		}

		type valued struct {
			coord world.HexCoord
			value float64
		}
		var tiles []valued
		for _, t := range w.CityTiles(c) {
			if t.CityCenter {
				continue
			}
			tiles = append(tiles, valued{t.Coord, ValueTile(w, t, c, f, 1)})
		}
		slices.SortStableFunc(tiles, func(a, b valued) int {
			return descending(a.value, b.value)
		})
		specialist := ValueSpecialist(c, f)
		var worked []world.HexCoord
		for _, t := range tiles {
			if len(worked) >= c.Population || t.value <= specialist {
				break
			}
			worked = append(worked, t.coord)
		}
		if err := w.AssignWorkedTiles(c, worked); err != nil {
			ctx.Invariant("worked tiles rejected", map[string]any{"city": c.Name, "error": err.Error()})
		}
	}
}

// TrainSettler puts a settler into production in the most productive city
// once the faction is happy enough, unless a settler already exists or is
// being built. A city with fewer than two buildings grows itself first.
func TrainSettler(ctx *Context) {
	w, f := ctx.World, ctx.Faction
	cities := w.CitiesOf(f.ID)
	if len(cities) == 0 || f.Happiness <= len(cities)+5 {
		return
	}
	for _, u := range w.UnitsOf(f.ID) {
		if u.Type.Category == game.CategorySettler {
			return
		}
	}
	for _, c := range cities {
		if c.Construction == game.UnitSettler {
			return
		}
	}
	settler := game.UnitTypes[game.UnitSettler]
	var best *game.City
	for _, c := range cities {
		if !w.CanTrain(c, settler) {
			continue
		}
		if best == nil || c.Stats.Production > best.Stats.Production {
			best = c
		}
	}
	if best == nil || best.BuildingCount() <= 1 {
		return
	}
	if err := w.SetConstruction(best, game.UnitSettler); err != nil {
		ctx.Log.Debug().Err(err).Str("city", best.Name).Msg("settler rejected")
		return
	}
	ctx.record("settler", best.Name, game.UnitSettler, best.Stats.Production)
}
