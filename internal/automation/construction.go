package automation

import (
	"math"
	"slices"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/talgya/autociv/internal/entropy"
	"github.com/talgya/autociv/internal/game"
	"github.com/talgya/autociv/internal/reach"
	"github.com/talgya/autociv/internal/rules"
	"github.com/talgya/autociv/internal/world"
)

// ConstructionChoice is one candidate of a planning run.
type ConstructionChoice struct {
	Name          string
	Modifier      float64
	RemainingWork float64
}

// MaxCommitTurns is how many turns of production a choice may need before
// it is dropped in favour of quicker ones.
const MaxCommitTurns = 30

// SelectConstruction picks from choices for a city with the given
// production. Choices needing MaxCommitTurns turns or more are dropped
// unless all of them do, in which case the cheapest wins. Otherwise the
// lowest RemainingWork/Modifier wins.
func SelectConstruction(choices []ConstructionChoice, production float64, researchDone bool) ConstructionChoice {
	if len(choices) == 0 {
		if researchDone {
			return ConstructionChoice{Name: game.PerpetualGold}
		}
		return ConstructionChoice{Name: game.PerpetualScience}
	}
	cutoff := production * MaxCommitTurns
	var quick []ConstructionChoice
	for _, c := range choices {
		if c.RemainingWork < cutoff {
			quick = append(quick, c)
		}
	}
	if len(quick) == 0 {
		best, _ := entropy.ArgMin(choices, func(c ConstructionChoice) float64 { return c.RemainingWork })
		return best
	}
	best, _ := entropy.ArgMin(quick, func(c ConstructionChoice) float64 { return c.RemainingWork / c.Modifier })
	return best
}

var (
	defaultDoctrineOnce sync.Once
	defaultDoctrine     *rules.Engine
)

// doctrine is the attached engine, or the default rules.
func (ctx *Context) doctrine() *rules.Engine {
	if ctx.Doctrine != nil {
		return ctx.Doctrine
	}
	defaultDoctrineOnce.Do(func() {
		e, err := rules.NewEngine(rules.DefaultRules())
		if err != nil {
			log.Error().Err(err).Msg("default doctrine does not compile")
			return
		}
		defaultDoctrine = e
	})
	return defaultDoctrine
}

// Planner gathers construction candidates for one city.
type Planner struct {
	ctx     *Context
	city    *game.City
	env     rules.CityEnv
	adj     rules.Adjustments
	taken   map[string]bool
	choices []ConstructionChoice
}

// NewPlanner snapshots the city and evaluates the doctrine against it.
func NewPlanner(ctx *Context, c *game.City) *Planner {
	env := CityEnv(ctx, c)
	return &Planner{
		ctx:   ctx,
		city:  c,
		env:   env,
		adj:   ctx.doctrine().Evaluate(env),
		taken: make(map[string]bool),
	}
}

// CityEnv builds the snapshot doctrine rules see.
func CityEnv(ctx *Context, c *game.City) rules.CityEnv {
	w, f := ctx.World, ctx.Faction
	return rules.CityEnv{
		Turn:              w.Turn,
		Population:        c.Population,
		Production:        c.Stats.Production,
		AverageProduction: w.AverageProduction(f.ID),
		CityCulture:       c.Stats.Culture,
		GoldPerTurn:       f.Stats.Gold,
		Gold:              f.Gold,
		Happiness:         f.Happiness,
		Cities:            len(w.CitiesOf(f.ID)),
		MilitaryUnits:     militaryCount(w, f),
		AtWar:             f.AtWar(),
		Victory:           f.Victory.String(),
		BarbarianNearby:   barbarianNearby(w, c),
		SettlerIdle:       settlerIdle(w, c),
		ClosestToEnemy:    closestToEnemy(w, f, c),
	}
}

func militaryCount(w *game.World, f *game.Faction) int {
	n := 0
	for _, u := range w.UnitsOf(f.ID) {
		if u.IsMilitary() {
			n++
		}
	}
	return n
}

// BarbarianRadius is how close a barbarian unit must be to alarm a city.
const BarbarianRadius = 4

func barbarianNearby(w *game.World, c *game.City) bool {
	for _, t := range w.Map.TilesInDistance(c.Center, BarbarianRadius) {
		if u := w.MilitaryUnitAt(t.Coord); u != nil && w.Faction(u.Owner).Barbarian {
			return true
		}
	}
	return false
}

func settlerIdle(w *game.World, c *game.City) bool {
	civ := w.CivilianAt(c.Center)
	return civ != nil && civ.Owner == c.Owner && civ.Type.Category == game.CategorySettler && w.MilitaryUnitAt(c.Center) == nil
}

// closestToEnemy reports whether c is our nearest city to the cities of
// some other known faction.
func closestToEnemy(w *game.World, f *game.Faction, c *game.City) bool {
	own := w.CitiesOf(f.ID)
	for _, other := range w.Factions() {
		if other.ID == f.ID || other.Barbarian || !f.Knows(other.ID) {
			continue
		}
		theirs := w.CitiesOf(other.ID)
		if len(theirs) == 0 {
			continue
		}
		dist := func(x *game.City) int {
			best := math.MaxInt
			for _, t := range theirs {
				best = min(best, world.Distance(x.Center, t.Center))
			}
			return best
		}
		nearest, _ := entropy.ArgMin(own, dist)
		if nearest != nil && nearest.ID == c.ID {
			return true
		}
	}
	return false
}

func (p *Planner) add(name, category string, base float64) {
	if p.taken[name] {
		return
	}
	m := p.adj.Apply(category, base)
	if m <= 0 {
		return
	}
	p.taken[name] = true
	p.choices = append(p.choices, ConstructionChoice{
		Name:          name,
		Modifier:      m,
		RemainingWork: p.ctx.World.RemainingWork(p.city, name),
	})
}

// cheapestBuilding returns the cheapest buildable non-wonder matching keep.
func (p *Planner) cheapestBuilding(keep func(*game.Building) bool) *game.Building {
	var best *game.Building
	for _, name := range game.BuildingOrder {
		b := game.Buildings[name]
		if b.Wonder || p.taken[name] || !p.ctx.World.CanBuild(p.city, b) || !keep(b) {
			continue
		}
		if best == nil || b.Cost < best.Cost {
			best = b
		}
	}
	return best
}

func statBuilding(s world.Stat) func(*game.Building) bool {
	return func(b *game.Building) bool { return b.Yields.Get(s) > 0 }
}

// Choices runs every candidate strategy and returns the candidates.
func (p *Planner) Choices() []ConstructionChoice {
	p.choices = nil
	clear(p.taken)
	f := p.ctx.Faction
	atWar := p.env.AtWar

	if b := p.cheapestBuilding(statBuilding(world.StatFood)); b != nil {
		m := 1.0
		if p.city.Population < SmallCityPopulation {
			m = 1.3
		}
		p.add(b.Name, rules.CategoryFood, m)
	}
	if b := p.cheapestBuilding(statBuilding(world.StatProduction)); b != nil {
		p.add(b.Name, rules.CategoryProduction, 1.5)
	}
	if b := p.cheapestBuilding(statBuilding(world.StatGold)); b != nil {
		p.add(b.Name, rules.CategoryGold, 1.2)
	}
	if b := p.cheapestBuilding(statBuilding(world.StatScience)); b != nil {
		m := 1.1
		if f.Victory == game.VictoryScience {
			m *= 1.4
		}
		p.add(b.Name, rules.CategoryScience, m)
	}
	if b := p.cheapestBuilding(statBuilding(world.StatHappiness)); b != nil {
		p.add(b.Name, rules.CategoryHappiness, 1)
	}
	if f.Victory != game.VictoryCulture || atWar {
		if b := p.cheapestBuilding(func(b *game.Building) bool { return b.CityStrength > 0 }); b != nil {
			m := 0.2
			if atWar {
				m = 0.5
			}
			if p.env.ClosestToEnemy {
				m *= 1.5
			}
			p.add(b.Name, rules.CategoryDefense, m)
		}
	}
	if b := p.cheapestBuilding(statBuilding(world.StatCulture)); b != nil {
		m := 0.5
		if p.city.Stats.Culture == 0 {
			m = 0.8
		}
		if f.Victory == game.VictoryCulture {
			m = 1.6
		}
		p.add(b.Name, rules.CategoryCulture, m)
	}
	if f.Victory != game.VictoryCulture || atWar {
		if b := p.cheapestBuilding(func(b *game.Building) bool { return b.UnitXP > 0 }); b != nil {
			m := 0.5
			if p.env.BelowAverage() {
				m = 0.1
			}
			if atWar {
				m *= 2
			}
			if f.Victory == game.VictoryDomination {
				m *= 1.3
			}
			p.add(b.Name, rules.CategoryUnitTraining, m)
		}
	}
	p.addWonder()
	p.addMilitary()
	p.addWorkers()
	p.addWorkBoats()
	p.addSpaceship()
	if b := p.cheapestBuilding(func(*game.Building) bool { return true }); b != nil {
		p.add(b.Name, rules.CategoryMisc, 0.6)
	}
	return p.choices
}

// WonderPriority ranks a wonder for faction f.
func WonderPriority(b *game.Building, f *game.Faction) float64 {
	switch {
	case b.EnablesSpaceship:
		return 10
	case f.Victory == game.VictoryCulture && b.CultureVictory:
		return 3
	case f.Victory == game.VictoryCulture && b.Yields.Culture > 0:
		return 1.6
	case b.Yields.Science > 0 && f.Victory == game.VictoryScience:
		return 1.5
	case b.Yields.Science > 0:
		return 1.3
	case b.UltimateWeapon && f.Victory == game.VictoryDomination:
		return 2
	case b.UltimateWeapon:
		return 1.25
	case b.Yields.Happiness > 0:
		return 1.2
	case b.Yields.Production > 0:
		return 1.1
	}
	return 1
}

func (p *Planner) addWonder() {
	w, f := p.ctx.World, p.ctx.Faction
	var best *game.Building
	bestPriority := 0.0
	for _, name := range game.BuildingOrder {
		b := game.Buildings[name]
		if !b.Wonder || !w.CanBuild(p.city, b) {
			continue
		}
		if pr := WonderPriority(b, f); best == nil || pr > bestPriority {
			best, bestPriority = b, pr
		}
	}
	if best == nil {
		return
	}
	building := 0
	for _, c := range w.CitiesOf(f.ID) {
		if c.ID != p.city.ID && c.IsBuildingWonder() {
			building++
		}
	}
	m := 2 * bestPriority / float64(1+building)
	if p.env.BelowAverage() {
		m /= 2
	}
	p.add(best.Name, rules.CategoryWonder, m)
}

func (p *Planner) addMilitary() {
	f, env := p.ctx.Faction, p.env
	affordable := (!env.AtWar && f.Stats.Gold > 0 && env.MilitaryUnits < 2*env.Cities) || (env.AtWar && f.Gold > -50)
	if !affordable && !env.BarbarianNearby && !env.SettlerIdle {
		return
	}
	name := ChooseMilitaryUnit(p.ctx, p.city)
	if name == "" {
		return
	}
	m := math.Sqrt(float64(env.Cities)/float64(env.MilitaryUnits+1)) / 2
	p.add(name, rules.CategoryMilitary, m)
}

func (p *Planner) addWorkers() {
	w, f := p.ctx.World, p.ctx.Faction
	if len(p.ctx.idleWorkers) > 0 || !w.CanTrain(p.city, game.UnitTypes[game.UnitWorker]) {
		return
	}
	workers := 0
	for _, u := range w.UnitsOf(f.ID) {
		if u.Type.Category == game.CategoryWorker {
			workers++
		}
	}
	for _, c := range w.CitiesOf(f.ID) {
		if c.ID != p.city.ID && c.Construction == game.UnitWorker {
			workers++
		}
	}
	counted := float64(min(5, p.env.Cities))
	if float64(workers) < 0.6*counted {
		p.add(game.UnitWorker, rules.CategoryWorkers, counted/(float64(workers)+0.1))
	}
}

// WorkBoatSearchTiles bounds the search for unimproved sea resources.
const WorkBoatSearchTiles = 40

func (p *Planner) addWorkBoats() {
	w, f := p.ctx.World, p.ctx.Faction
	if !w.CanTrain(p.city, game.UnitTypes[game.UnitWorkBoats]) {
		return
	}
	target, ok := reach.FindNearest(w.Map, p.city.Center, WorkBoatSearchTiles, func(t *world.Tile) bool {
		return (t.IsWater() || t.CityCenter) && (t.Owner == 0 || game.FactionID(t.Owner) == f.ID)
	}, func(t *world.Tile) bool {
		return needsFishingBoats(f, t)
	})
	if !ok {
		return
	}
	for _, u := range w.UnitsOf(f.ID) {
		if u.Type.Category != game.CategoryWorkBoat {
			continue
		}
		if turns := w.TurnsTo(u, target); turns >= 0 && turns <= 2 {
			return
		}
	}
	p.add(game.UnitWorkBoats, rules.CategoryWorkBoats, 0.6)
}

// needsFishingBoats reports whether t is an unimproved water tile of f with
// a visible resource that fishing boats connect.
func needsFishingBoats(f *game.Faction, t *world.Tile) bool {
	res := t.ResourceInfo()
	return t.IsWater() && game.FactionID(t.Owner) == f.ID && f.CanSee(res) &&
		res.Improvement == world.ImprovementFishingBoats && !t.HasImprovement()
}

func (p *Planner) addSpaceship() {
	w, f := p.ctx.World, p.ctx.Faction
	if !w.HasSpaceshipEnabler(f.ID) || p.env.BelowAverage() {
		return
	}
	for _, name := range game.UnitTypeOrder {
		ut := game.UnitTypes[name]
		if ut.Category == game.CategorySpaceshipPart && w.CanTrain(p.city, ut) {
			p.add(name, rules.CategorySpaceship, 20)
		}
	}
}

// ChooseMilitaryUnit picks the unit a city trains for the army: ranged
// when some city has no defender, otherwise the most expensive unit of a
// random category. Sea units are only built when the city's water touches
// a foreign city or unit.
func ChooseMilitaryUnit(ctx *Context, c *game.City) string {
	w, f := ctx.World, ctx.Faction
	var units []*game.UnitType
	for _, name := range game.UnitTypeOrder {
		ut := game.UnitTypes[name]
		if ut.IsMilitary() && w.CanTrain(c, ut) {
			units = append(units, ut)
		}
	}
	if cur := game.UnitTypes[c.Construction]; cur != nil && slices.Contains(units, cur) {
		return cur.Name
	}
	if !waterTouchesOthers(w, c) {
		units = slices.DeleteFunc(units, func(ut *game.UnitType) bool { return ut.Domain != game.DomainLand })
	}
	if len(units) == 0 {
		return ""
	}

	mostExpensive := func(cat game.UnitCategory) string {
		var best *game.UnitType
		for _, ut := range units {
			if ut.Category == cat && (best == nil || ut.Cost > best.Cost) {
				best = ut
			}
		}
		if best == nil {
			return ""
		}
		return best.Name
	}

	undefended := false
	for _, own := range w.CitiesOf(f.ID) {
		if w.MilitaryUnitAt(own.Center) == nil {
			undefended = true
			break
		}
	}
	if !f.AtWar() && undefended {
		if name := mostExpensive(game.CategoryRanged); name != "" {
			return name
		}
	}

	var cats []game.UnitCategory
	for _, ut := range units {
		if ut.Category != game.CategoryScout && !slices.Contains(cats, ut.Category) {
			cats = append(cats, ut.Category)
		}
	}
	if len(cats) == 0 {
		return ""
	}
	return mostExpensive(entropy.Pick(ctx.Rng, cats))
}

// waterTouchesOthers floods the city's water body and reports whether it
// reaches a foreign city or military unit.
func waterTouchesOthers(w *game.World, c *game.City) bool {
	b := reach.New(w.Map, c.Center, func(t *world.Tile) bool { return t.IsWater() || t.CityCenter })
	b.AdvanceToEnd()
	for _, coord := range b.ReachedTiles() {
		if other := w.CityAt(coord); other != nil && other.Owner != c.Owner {
			return true
		}
		if u := w.MilitaryUnitAt(coord); u != nil && u.Owner != c.Owner {
			return true
		}
	}
	return false
}

// NeedsPlanning reports whether the city should pick a new construction:
// it is idle, on a perpetual item, blocked, or has just finished a unit.
func NeedsPlanning(w *game.World, c *game.City) bool {
	switch {
	case c.IsPerpetual(), !w.CanConstruct(c, c.Construction):
		return true
	case game.Buildings[c.Construction] != nil, c.Construction == game.UnitSettler:
		return false
	}
	return c.Progress[c.Construction] == 0
}

// PlanConstruction chooses and sets the city's next construction.
func PlanConstruction(ctx *Context, c *game.City) ConstructionChoice {
	w := ctx.World
	choices := NewPlanner(ctx, c).Choices()
	researchDone := len(ctx.Faction.ResearchableTechs()) == 0 && ctx.Faction.Researching == ""
	choice := SelectConstruction(choices, c.Stats.Production, researchDone)
	if err := w.SetConstruction(c, choice.Name); err != nil {
		ctx.Log.Warn().Err(err).Str("city", c.Name).Msg("construction rejected")
		return choice
	}
	ctx.Log.Debug().
		Str("city", c.Name).
		Str("construction", choice.Name).
		Float64("modifier", choice.Modifier).
		Int("candidates", len(choices)).
		Msg("construction chosen")
	ctx.record("construction", c.Name, choice.Name, choice.Modifier)
	return choice
}
