package game

import (
	"fmt"
	"slices"

	"github.com/talgya/autociv/internal/world"
)

// IsCoastal reports whether the city center touches water.
func (w *World) IsCoastal(c *City) bool {
	return w.Map.IsCoastal(c.Center)
}

// CanTrain reports whether the city can train the unit type now.
func (w *World) CanTrain(c *City, ut *UnitType) bool {
	f := w.Faction(c.Owner)
	if ut == nil || ut.Cost == 0 || !f.HasTech(ut.RequiredTech) {
		return false
	}
	if ut.ObsoleteTech != "" && f.HasTech(ut.ObsoleteTech) {
		return false
	}
	if ut.RequiresResource != "" && f.Resources[ut.RequiresResource] <= 0 {
		return false
	}
	if ut.Domain == DomainWater && !w.IsCoastal(c) {
		return false
	}
	if ut.Domain == DomainAir && len(w.Map.Get(c.Center).AirUnits) >= 6 {
		return false
	}
	if ut.Category == CategorySettler && c.Population < 2 {
		return false
	}
	if ut.Category == CategorySpaceshipPart && !w.HasSpaceshipEnabler(f.ID) {
		return false
	}
	return true
}

// HasSpaceshipEnabler reports whether f owns the wonder that unlocks
// spaceship parts.
func (w *World) HasSpaceshipEnabler(f FactionID) bool {
	for _, name := range BuildingOrder {
		if Buildings[name].EnablesSpaceship && w.HasBuilding(f, name) {
			return true
		}
	}
	return false
}

// CanBuild reports whether the city can construct the building now.
func (w *World) CanBuild(c *City, b *Building) bool {
	f := w.Faction(c.Owner)
	if b == nil || c.Has(b.Name) || !f.HasTech(b.RequiredTech) {
		return false
	}
	if b.RequiredBuilding != "" && !c.Has(b.RequiredBuilding) {
		return false
	}
	if b.RequiresCoast && !w.IsCoastal(c) {
		return false
	}
	if b.Wonder && w.WonderBuilt(b.Name) {
		return false
	}
	return true
}

// CanConstruct reports whether name is a valid construction for the city.
func (w *World) CanConstruct(c *City, name string) bool {
	if name == PerpetualScience || name == PerpetualGold {
		return true
	}
	if b := Buildings[name]; b != nil {
		return w.CanBuild(c, b)
	}
	return w.CanTrain(c, UnitTypes[name])
}

// ConstructionCost is the production cost of a building or unit.
func ConstructionCost(name string) float64 {
	if b := Buildings[name]; b != nil {
		return float64(b.Cost)
	}
	if u := UnitTypes[name]; u != nil {
		return float64(u.Cost)
	}
	return 0
}

// RemainingWork is the production still needed to finish name in the city.
func (w *World) RemainingWork(c *City, name string) float64 {
	return max(0, ConstructionCost(name)-c.Progress[name])
}

// SetConstruction switches the city's current construction. Progress on
// the previous item is kept.
func (w *World) SetConstruction(c *City, name string) error {
	if Buildings[name] == nil && UnitTypes[name] == nil && name != PerpetualScience && name != PerpetualGold {
		return fmt.Errorf("construct %q: %w", name, ErrUnknownConstruction)
	}
	if !w.CanConstruct(c, name) {
		return fmt.Errorf("construct %q in %s: %w", name, c.Name, ErrNotAvailable)
	}
	c.Construction = name
	return nil
}

// PurchaseWithFaith buys a unit in the city with stored faith.
func (w *World) PurchaseWithFaith(c *City, unitName string) (*Unit, error) {
	ut := UnitTypes[unitName]
	if ut == nil || ut.FaithCost == 0 {
		return nil, fmt.Errorf("buy %q: %w", unitName, ErrNotAvailable)
	}
	f := w.Faction(c.Owner)
	if (ut.Category == CategoryMissionary || ut.Category == CategoryInquisitor) && f.ReligionState < ReligionFounded {
		return nil, fmt.Errorf("buy %s: %w", unitName, ErrNotAvailable)
	}
	cost := w.FaithCost(f, ut)
	if f.Faith < cost {
		return nil, fmt.Errorf("buy %s for %.0f faith: %w", unitName, cost, ErrCannotAfford)
	}
	u, err := w.SpawnUnit(f.ID, unitName, c.Center)
	if err != nil {
		return nil, fmt.Errorf("buy %s: %w", unitName, err)
	}
	f.Faith -= cost
	u.MovementLeft = 0
	return u, nil
}

// AssignWorkedTiles replaces the tiles the city works. Citizens not
// assigned a tile become specialists.
func (w *World) AssignWorkedTiles(c *City, tiles []world.HexCoord) error {
	if len(tiles) > c.Population {
		return fmt.Errorf("assign %d tiles to %s: %w", len(tiles), c.Name, ErrInvalidTarget)
	}
	seen := make(map[world.HexCoord]bool, len(tiles))
	for _, coord := range tiles {
		t := w.Map.Get(coord)
		if t == nil || CityID(t.City) != c.ID || t.CityCenter || seen[coord] {
			return fmt.Errorf("assign %v to %s: %w", coord, c.Name, ErrInvalidTile)
		}
		seen[coord] = true
	}
	c.Worked = slices.Clone(tiles)
	c.Specialists = c.Population - len(tiles)
	w.RefreshStats(c)
	return nil
}

// CanResearch reports whether every prerequisite of the tech is known.
func (f *Faction) CanResearch(name string) bool {
	t := Techs[name]
	if t == nil || f.Techs[name] {
		return false
	}
	for _, p := range t.Prereqs {
		if !f.Techs[p] {
			return false
		}
	}
	return true
}

// ResearchableTechs lists techs f could start now in tree order.
func (f *Faction) ResearchableTechs() []string {
	var out []string
	for _, name := range TechOrder {
		if f.CanResearch(name) {
			out = append(out, name)
		}
	}
	return out
}

// Research sets the faction's current research.
func (w *World) Research(f *Faction, tech string) error {
	if !f.CanResearch(tech) {
		return fmt.Errorf("research %q: %w", tech, ErrNotAvailable)
	}
	f.Researching = tech
	return nil
}

// CanAdoptPolicy reports whether the policy's prerequisites are adopted.
func (f *Faction) CanAdoptPolicy(name string) bool {
	p := Policies[name]
	if p == nil || f.Policies[name] {
		return false
	}
	for _, pre := range p.Prereqs {
		if !f.Policies[pre] {
			return false
		}
	}
	return true
}

// AdoptablePolicies lists policies f could adopt, culture aside.
func (f *Faction) AdoptablePolicies() []string {
	var out []string
	for _, name := range PolicyOrder {
		if f.CanAdoptPolicy(name) {
			out = append(out, name)
		}
	}
	return out
}

// NextPolicyCost is the culture f needs for its next policy.
func (w *World) NextPolicyCost(f *Faction) float64 {
	return PolicyCost(len(f.Policies), len(w.CitiesOf(f.ID)))
}

// AdoptPolicy spends stored culture on a policy.
func (w *World) AdoptPolicy(f *Faction, name string) error {
	if !f.CanAdoptPolicy(name) {
		return fmt.Errorf("adopt %q: %w", name, ErrNotAvailable)
	}
	cost := w.NextPolicyCost(f)
	if f.Culture < cost {
		return fmt.Errorf("adopt %q: %w", name, ErrCannotAfford)
	}
	f.Culture -= cost
	f.Policies[name] = true
	w.emit(f.ID, "policy", "%s adopted %s", f.Name, name)
	return nil
}

func (w *World) beliefTaken(name string) bool {
	for _, f := range w.factions {
		if f.Pantheon == name {
			return true
		}
	}
	for _, r := range w.religions {
		if slices.Contains(r.Beliefs, name) {
			return true
		}
	}
	return false
}

// AvailableBeliefs lists untaken beliefs of the type in catalog order.
func (w *World) AvailableBeliefs(t BeliefType) []*Belief {
	var out []*Belief
	for _, name := range BeliefOrder {
		if b := Beliefs[name]; b.Type == t && !w.beliefTaken(name) {
			out = append(out, b)
		}
	}
	return out
}

// AdoptBelief adopts a pantheon, or an enhancer for a founded religion.
func (w *World) AdoptBelief(f *Faction, name string) error {
	b := Beliefs[name]
	if b == nil || w.beliefTaken(name) {
		return fmt.Errorf("adopt belief %q: %w", name, ErrNotAvailable)
	}
	switch b.Type {
	case BeliefPantheon:
		if f.ReligionState != ReligionNone {
			return fmt.Errorf("adopt pantheon %q: %w", name, ErrNotAvailable)
		}
		if f.Faith < PantheonFaith {
			return fmt.Errorf("adopt pantheon %q: %w", name, ErrCannotAfford)
		}
		f.Faith -= PantheonFaith
		f.Pantheon = name
		f.ReligionState = ReligionPantheon
	case BeliefEnhancer:
		r := w.religions[f.Religion]
		if f.ReligionState != ReligionFounded || r == nil {
			return fmt.Errorf("enhance with %q: %w", name, ErrNotAvailable)
		}
		if f.Faith < EnhanceFaith {
			return fmt.Errorf("enhance with %q: %w", name, ErrCannotAfford)
		}
		f.Faith -= EnhanceFaith
		r.Beliefs = append(r.Beliefs, name)
		f.ReligionState = ReligionEnhanced
	default:
		return fmt.Errorf("adopt belief %q outside founding: %w", name, ErrInvalidTarget)
	}
	w.emit(f.ID, "religion", "%s adopted %s", f.Name, name)
	return nil
}

// FoundReligion founds a religion with a founder and a follower belief and
// converts the holy city.
func (w *World) FoundReligion(f *Faction, holy *City, founder, follower string) (*Religion, error) {
	if f.ReligionState != ReligionPantheon || holy.Owner != f.ID {
		return nil, fmt.Errorf("found religion: %w", ErrNotAvailable)
	}
	if len(w.religions) >= w.MaxReligions() {
		return nil, fmt.Errorf("found religion: %w", ErrNotAvailable)
	}
	if f.Faith < ReligionFaith {
		return nil, fmt.Errorf("found religion: %w", ErrCannotAfford)
	}
	for name, want := range map[string]BeliefType{founder: BeliefFounder, follower: BeliefFollower} {
		if b := Beliefs[name]; b == nil || b.Type != want || w.beliefTaken(name) {
			return nil, fmt.Errorf("found religion with %q: %w", name, ErrNotAvailable)
		}
	}
	var name string
	for _, n := range ReligionNames {
		if w.religions[n] == nil {
			name = n
			break
		}
	}
	r := &Religion{Name: name, Founder: f.ID, HolyCity: holy.ID, Pantheon: f.Pantheon, Beliefs: []string{founder, follower}}
	w.religions[name] = r
	f.Faith -= ReligionFaith
	f.Religion = name
	f.ReligionState = ReligionFounded
	holy.HolyCity = name
	addFollowers(holy, name, holy.Population)
	w.emit(f.ID, "religion", "%s founded %s in %s", f.Name, name, holy.Name)
	return r, nil
}

// addFollowers converts n citizens of c to religion, taking them from other
// religions in name order when the city is full.
func addFollowers(c *City, religion string, n int) {
	c.Followers[religion] = min(c.Population, c.Followers[religion]+n)
	total := 0
	for _, v := range c.Followers {
		total += v
	}
	for _, other := range ReligionNames {
		if total <= c.Population {
			break
		}
		if other == religion {
			continue
		}
		take := min(c.Followers[other], total-c.Population)
		c.Followers[other] -= take
		total -= take
	}
}

// SpreadReligion uses one charge of a missionary on or next to a city.
func (w *World) SpreadReligion(u *Unit) error {
	if u.Type.Category != CategoryMissionary || !u.HasMovement() {
		return fmt.Errorf("spread: %w", ErrNoMovement)
	}
	f := w.Faction(u.Owner)
	var target *City
	for _, t := range w.Map.TilesInDistance(u.Pos, 1) {
		if c := w.CityAt(t.Coord); c != nil {
			target = c
			break
		}
	}
	if target == nil || f.Religion == "" {
		return fmt.Errorf("spread %s: %w", f.Religion, ErrInvalidTarget)
	}
	addFollowers(target, f.Religion, target.Population/2+1)
	u.Charges--
	u.MovementLeft = 0
	w.emit(f.ID, "religion", "%s spread %s to %s", f.Name, f.Religion, target.Name)
	if u.Charges <= 0 {
		w.removeUnit(u)
	}
	return nil
}

// RemoveHeresy clears other religions from an own city next to an inquisitor.
func (w *World) RemoveHeresy(u *Unit) error {
	if u.Type.Category != CategoryInquisitor || !u.HasMovement() {
		return fmt.Errorf("remove heresy: %w", ErrNoMovement)
	}
	f := w.Faction(u.Owner)
	for _, t := range w.Map.TilesInDistance(u.Pos, 1) {
		c := w.CityAt(t.Coord)
		if c == nil || c.Owner != f.ID {
			continue
		}
		for name := range c.Followers {
			if name != f.Religion {
				c.Followers[name] = 0
			}
		}
		w.removeUnit(u)
		w.emit(f.ID, "religion", "%s removed heresy in %s", f.Name, c.Name)
		return nil
	}
	return fmt.Errorf("remove heresy: %w", ErrInvalidTarget)
}
