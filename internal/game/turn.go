package game

import (
	"math"

	"github.com/talgya/autociv/internal/world"
)

// CampSpawnInterval is how often, in turns, an encampment produces a unit.
const CampSpawnInterval = 8

// ReligionPressureInterval is how often, in turns, religions spread to
// nearby cities on their own.
const ReligionPressureInterval = 5

// BaseSpreadRange is the distance passive religious pressure reaches.
const BaseSpreadRange = 10

// EndTurn advances the world by one turn: cities produce and grow, ledgers
// fill, research completes, units heal and recover their movement.
func (w *World) EndTurn() {
	for _, f := range w.factions {
		w.RefreshFaction(f)
		for _, c := range w.CitiesOf(f.ID) {
			w.produce(c)
			w.grow(c)
			c.Health = min(c.MaxHealth, c.Health+20)
		}
		w.accumulate(f)
	}
	for _, u := range w.Units() {
		w.restUnit(u)
	}
	if w.Turn > 0 && w.Turn%ReligionPressureInterval == 0 {
		w.religiousPressure()
	}
	w.spawnFromCamps()
	w.Turn++
	for _, f := range w.factions {
		w.RefreshFaction(f)
	}
}

func (w *World) produce(c *City) {
	if c.IsPerpetual() {
		return
	}
	name := c.Construction
	if !w.CanConstruct(c, name) {
		c.Construction = ""
		return
	}
	c.Progress[name] += max(c.Stats.Production, 1)
	if c.Progress[name] < ConstructionCost(name) {
		return
	}
	f := w.Faction(c.Owner)
	if b := Buildings[name]; b != nil {
		c.Buildings[name] = true
		if b.Wonder {
			w.wonders[name] = c.ID
		}
		for _, other := range w.cities {
			if b.Wonder && other.Construction == name && other.ID != c.ID {
				other.Construction = ""
			}
		}
		delete(c.Progress, name)
		c.Construction = ""
		w.emit(f.ID, "city", "%s completed %s", c.Name, name)
		return
	}
	u, err := w.SpawnUnit(f.ID, name, c.Center)
	if err != nil {
		// Wait for room; progress is kept.
		return
	}
	delete(c.Progress, name)
	if u.Type.Category == CategorySettler {
		c.Population = max(1, c.Population-1)
		c.Construction = ""
		w.dropWorked(c)
	}
	w.emit(f.ID, "city", "%s trained %s", c.Name, name)
}

func (w *World) grow(c *City) {
	c.FoodStored += c.Stats.Food
	switch {
	case c.FoodStored >= c.FoodToGrow():
		c.FoodStored -= c.FoodToGrow()
		c.Population++
		w.autoAssignWorked(c)
	case c.FoodStored < 0 && c.Population > 1:
		c.Population--
		c.FoodStored = 0
		w.dropWorked(c)
	case c.FoodStored < 0:
		c.FoodStored = 0
	}
	c.cultureStored += c.Stats.Culture
	if c.cultureStored >= w.borderCost(c) {
		c.cultureStored -= w.borderCost(c)
		w.expandBorders(c)
	}
}

func (w *World) dropWorked(c *City) {
	for len(c.Worked) > c.Population {
		c.Worked = c.Worked[:len(c.Worked)-1]
	}
	c.Specialists = min(c.Specialists, c.Population-len(c.Worked))
	for name, n := range c.Followers {
		c.Followers[name] = min(n, c.Population)
	}
}

func (w *World) borderCost(c *City) float64 {
	n := len(w.CityTiles(c))
	return 10 + 6*math.Pow(float64(max(n-7, 0)), 1.3)
}

// expandBorders claims the best unowned tile within the work radius.
func (w *World) expandBorders(c *City) {
	f := w.Faction(c.Owner)
	var best *world.Tile
	bestScore := math.Inf(-1)
	for _, t := range w.Map.TilesInDistance(c.Center, CityWorkRadius) {
		if t.Owner != 0 {
			continue
		}
		near := false
		for _, n := range w.Map.Neighbors(t.Coord) {
			if CityID(n.City) == c.ID {
				near = true
				break
			}
		}
		if !near {
			continue
		}
		y := w.TileYields(t, f)
		score := y.Food + y.Production + y.Gold - float64(world.Distance(t.Coord, c.Center))
		if t.Resource != "" {
			score += 2
		}
		if score > bestScore {
			best, bestScore = t, score
		}
	}
	if best != nil {
		best.Owner = uint64(c.Owner)
		best.City = uint64(c.ID)
	}
}

func (w *World) accumulate(f *Faction) {
	f.Gold += f.Stats.Gold
	f.Faith += f.Stats.Faith
	f.Culture += f.Stats.Culture
	for _, c := range w.CitiesOf(f.ID) {
		switch c.Construction {
		case PerpetualGold:
			f.Gold += c.Stats.Production / 2
		case PerpetualScience:
			f.Science += c.Stats.Production / 2
		}
	}
	if f.Gold < 0 {
		f.Gold = 0
	}
	if f.Researching == "" {
		return
	}
	f.Science += max(f.Stats.Science, 1)
	t := Techs[f.Researching]
	if cost := float64(t.Cost); f.Science >= cost {
		f.Science -= cost
		f.Techs[t.Name] = true
		f.Researching = ""
		w.emit(f.ID, "research", "%s discovered %s", f.Name, t.Name)
	}
}

// restUnit heals, advances worker jobs and restores movement.
func (w *World) restUnit(u *Unit) {
	f := w.Faction(u.Owner)
	t := w.Map.Get(u.Pos)
	if u.JobTurns > 0 || u.JobRoute || u.Job != world.ImprovementNone {
		u.JobTurns--
		if u.JobTurns <= 0 {
			w.finishJob(u)
			if w.units[u.ID] == nil {
				return
			}
		}
	}
	if !u.Acted && u.IsDamaged() && !f.Barbarian {
		heal := 5
		switch {
		case t.CityCenter && FactionID(t.Owner) == u.Owner:
			heal = 20
		case FactionID(t.Owner) == u.Owner:
			heal = 10
		}
		u.Health = min(100, u.Health+heal)
	}
	u.MovementLeft = u.Type.Movement
	u.AttacksLeft = 1
	u.Acted = false
}

func (w *World) religiousPressure() {
	for _, r := range w.Religions() {
		reach := BaseSpreadRange
		for _, name := range r.Beliefs {
			for _, e := range Beliefs[name].Effects {
				if e.Kind == EffectSpreadRange {
					reach += int(e.Amount)
				}
			}
		}
		var sources []*City
		for _, c := range w.Cities() {
			if c.MajorityReligion() == r.Name {
				sources = append(sources, c)
			}
		}
		for _, c := range w.Cities() {
			if c.MajorityReligion() == r.Name {
				continue
			}
			for _, s := range sources {
				if world.Distance(s.Center, c.Center) <= reach {
					addFollowers(c, r.Name, 1)
					break
				}
			}
		}
	}
}

func (w *World) spawnFromCamps() {
	barbs := w.Barbarians()
	if barbs == nil || w.Turn == 0 || w.Turn%CampSpawnInterval != 0 {
		return
	}
	unit := UnitWarrior
	for _, name := range []string{"Swordsman", "Spearman"} {
		if ut := UnitTypes[name]; barbs.HasTech(ut.RequiredTech) {
			unit = name
			break
		}
	}
	for _, t := range w.Map.Tiles() {
		if !t.Encampment {
			continue
		}
		if _, err := w.SpawnUnit(barbs.ID, unit, t.Coord); err == nil {
			w.emit(barbs.ID, "barbarian", "barbarians gathered at %v", t.Coord)
		}
	}
}
