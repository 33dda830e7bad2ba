package game

import (
	"fmt"
	"slices"

	"github.com/talgya/autociv/internal/world"
)

// Event is a notable occurrence produced while commands run.
type Event struct {
	Turn        int       `json:"turn"`
	Faction     FactionID `json:"faction"`
	Category    string    `json:"category"` // "war", "city", "combat", "religion", ...
	Description string    `json:"description"`
}

// World holds the complete game state. It is not safe for concurrent use;
// one faction acts at a time.
type World struct {
	Map  *world.Map
	Turn int

	factions  []*Faction
	cities    map[CityID]*City
	cityOrder []CityID
	units     map[UnitID]*Unit
	unitOrder []UnitID
	religions map[string]*Religion
	wonders   map[string]CityID
	nextID    uint64
	events    []Event
}

// New creates an empty world on the given map.
func New(m *world.Map) *World {
	return &World{
		Map:       m,
		cities:    make(map[CityID]*City),
		units:     make(map[UnitID]*Unit),
		religions: make(map[string]*Religion),
		wonders:   make(map[string]CityID),
	}
}

func (w *World) newID() uint64 {
	w.nextID++
	return w.nextID
}

func (w *World) emit(f FactionID, category, format string, args ...any) {
	w.events = append(w.events, Event{
		Turn:        w.Turn,
		Faction:     f,
		Category:    category,
		Description: fmt.Sprintf(format, args...),
	})
}

// DrainEvents returns and clears the events emitted since the last call.
func (w *World) DrainEvents() []Event {
	out := w.events
	w.events = nil
	return out
}

// AddFaction registers a new automated faction.
func (w *World) AddFaction(name string, victory VictoryType) *Faction {
	f := NewFaction(FactionID(w.newID()), name, victory)
	w.factions = append(w.factions, f)
	return f
}

// AddBarbarians registers the barbarian faction.
func (w *World) AddBarbarians() *Faction {
	f := w.AddFaction("Barbarians", VictoryDomination)
	f.Barbarian = true
	return f
}

// Meet makes two factions aware of each other.
func (w *World) Meet(a, b FactionID) {
	if a == b {
		return
	}
	w.Faction(a).Relation(b)
	w.Faction(b).Relation(a)
}

// Relation returns a's view of b, or nil when they have not met.
func (w *World) Relation(a, b FactionID) *Relation {
	f := w.Faction(a)
	if f == nil {
		return nil
	}
	return f.Relations[b]
}

// Factions returns every faction in creation order.
func (w *World) Factions() []*Faction {
	return w.factions
}

// Faction returns the faction with the id, or nil.
func (w *World) Faction(id FactionID) *Faction {
	for _, f := range w.factions {
		if f.ID == id {
			return f
		}
	}
	return nil
}

// Barbarians returns the barbarian faction, or nil.
func (w *World) Barbarians() *Faction {
	for _, f := range w.factions {
		if f.Barbarian {
			return f
		}
	}
	return nil
}

// City returns the city with the id, or nil.
func (w *World) City(id CityID) *City {
	return w.cities[id]
}

// Cities returns every city in founding order.
func (w *World) Cities() []*City {
	out := make([]*City, 0, len(w.cityOrder))
	for _, id := range w.cityOrder {
		out = append(out, w.cities[id])
	}
	return out
}

// CitiesOf returns the cities owned by the faction in founding order.
func (w *World) CitiesOf(f FactionID) []*City {
	var out []*City
	for _, id := range w.cityOrder {
		if c := w.cities[id]; c.Owner == f {
			out = append(out, c)
		}
	}
	return out
}

// CityAt returns the city centered on coord, or nil.
func (w *World) CityAt(coord world.HexCoord) *City {
	t := w.Map.Get(coord)
	if t == nil || !t.CityCenter {
		return nil
	}
	return w.cities[CityID(t.City)]
}

// CityOwning returns the city whose borders include coord, or nil.
func (w *World) CityOwning(coord world.HexCoord) *City {
	t := w.Map.Get(coord)
	if t == nil || t.City == 0 {
		return nil
	}
	return w.cities[CityID(t.City)]
}

// CityTiles returns the tiles inside the city borders, nearest first.
func (w *World) CityTiles(c *City) []*world.Tile {
	var out []*world.Tile
	for _, t := range w.Map.TilesInDistance(c.Center, CityWorkRadius) {
		if CityID(t.City) == c.ID {
			out = append(out, t)
		}
	}
	return out
}

// CityWorkRadius bounds the tiles a city may own and work.
const CityWorkRadius = 3

// IsCapital reports whether the city is its owner's capital.
func (w *World) IsCapital(c *City) bool {
	f := w.Faction(c.Owner)
	return f != nil && f.Capital == c.ID
}

// Unit returns the unit with the id, or nil.
func (w *World) Unit(id UnitID) *Unit {
	return w.units[id]
}

// Units returns every unit in creation order.
func (w *World) Units() []*Unit {
	out := make([]*Unit, 0, len(w.unitOrder))
	for _, id := range w.unitOrder {
		out = append(out, w.units[id])
	}
	return out
}

// UnitsOf returns the faction's units in creation order.
func (w *World) UnitsOf(f FactionID) []*Unit {
	var out []*Unit
	for _, id := range w.unitOrder {
		if u := w.units[id]; u.Owner == f {
			out = append(out, u)
		}
	}
	return out
}

// UnitAt returns the military unit on coord, else the civilian, else nil.
func (w *World) UnitAt(coord world.HexCoord) *Unit {
	if u := w.MilitaryUnitAt(coord); u != nil {
		return u
	}
	return w.CivilianAt(coord)
}

// MilitaryUnitAt returns the military unit on coord, or nil.
func (w *World) MilitaryUnitAt(coord world.HexCoord) *Unit {
	t := w.Map.Get(coord)
	if t == nil || t.MilitaryUnit == 0 {
		return nil
	}
	return w.units[UnitID(t.MilitaryUnit)]
}

// CivilianAt returns the civilian unit on coord, or nil.
func (w *World) CivilianAt(coord world.HexCoord) *Unit {
	t := w.Map.Get(coord)
	if t == nil || t.CivilianUnit == 0 {
		return nil
	}
	return w.units[UnitID(t.CivilianUnit)]
}

// AirUnitsAt returns the aircraft based on coord.
func (w *World) AirUnitsAt(coord world.HexCoord) []*Unit {
	t := w.Map.Get(coord)
	if t == nil {
		return nil
	}
	out := make([]*Unit, 0, len(t.AirUnits))
	for _, id := range t.AirUnits {
		out = append(out, w.units[UnitID(id)])
	}
	return out
}

// Religion returns a founded religion by name, or nil.
func (w *World) Religion(name string) *Religion {
	return w.religions[name]
}

// Religions returns the founded religions in founding order.
func (w *World) Religions() []*Religion {
	var out []*Religion
	for _, name := range ReligionNames {
		if r := w.religions[name]; r != nil {
			out = append(out, r)
		}
	}
	return out
}

// MaxReligions is how many religions the world can hold.
func (w *World) MaxReligions() int {
	return min(len(ReligionNames), len(w.factions)/2+1)
}

// WonderBuilt reports whether any city has completed the wonder.
func (w *World) WonderBuilt(name string) bool {
	_, ok := w.wonders[name]
	return ok
}

// HasBuilding reports whether any city of the faction has the building.
func (w *World) HasBuilding(f FactionID, name string) bool {
	for _, c := range w.CitiesOf(f) {
		if c.Has(name) {
			return true
		}
	}
	return false
}

func slot(t *world.Tile, ut *UnitType) *uint64 {
	if ut.IsCivilian() {
		return &t.CivilianUnit
	}
	return &t.MilitaryUnit
}

func (w *World) place(u *Unit, t *world.Tile) {
	u.Pos = t.Coord
	if u.Type.IsAir() {
		t.AirUnits = append(t.AirUnits, uint64(u.ID))
		return
	}
	*slot(t, u.Type) = uint64(u.ID)
	u.Embarked = t.IsWater() && u.Type.Domain == DomainLand
}

func (w *World) lift(u *Unit) {
	t := w.Map.Get(u.Pos)
	if t == nil {
		return
	}
	if u.Type.IsAir() {
		t.RemoveAirUnit(uint64(u.ID))
		return
	}
	if s := slot(t, u.Type); *s == uint64(u.ID) {
		*s = 0
	}
}

// SpawnUnit creates a unit on coord or, when that slot is taken, on the
// nearest free tile within two.
func (w *World) SpawnUnit(f FactionID, typeName string, coord world.HexCoord) (*Unit, error) {
	ut := UnitTypes[typeName]
	if ut == nil {
		return nil, fmt.Errorf("spawn %q: %w", typeName, ErrUnknownConstruction)
	}
	u := &Unit{
		ID:           UnitID(w.newID()),
		Type:         ut,
		Owner:        f,
		Health:       100,
		MovementLeft: ut.Movement,
		AttacksLeft:  1,
	}
	if ut.Category == CategoryMissionary {
		u.Charges = 2
	}
	for _, t := range w.Map.TilesInDistance(coord, 2) {
		if w.canHost(u, t) {
			w.units[u.ID] = u
			w.unitOrder = append(w.unitOrder, u.ID)
			w.place(u, t)
			return u, nil
		}
	}
	return nil, fmt.Errorf("spawn %s near %v: %w", typeName, coord, ErrNoRoom)
}

// canHost reports whether u could stand on t if it were there, ignoring movement.
func (w *World) canHost(u *Unit, t *world.Tile) bool {
	if t.IsImpassable() {
		return false
	}
	switch u.Type.Domain {
	case DomainAir:
		return t.CityCenter && FactionID(t.Owner) == u.Owner
	case DomainWater:
		if t.IsLand() && !(t.CityCenter && FactionID(t.Owner) == u.Owner) {
			return false
		}
	case DomainLand:
		if t.IsWater() && t.CityCenter {
			return false
		}
	}
	if occupant := *slot(t, u.Type); occupant != 0 && occupant != uint64(u.ID) {
		return false
	}
	// Never share a tile with a foreign unit or stand in a foreign city.
	for _, id := range []uint64{t.MilitaryUnit, t.CivilianUnit} {
		if o := w.units[UnitID(id)]; o != nil && o.Owner != u.Owner {
			return false
		}
	}
	if t.CityCenter && FactionID(t.Owner) != u.Owner {
		return false
	}
	return true
}

func (w *World) removeUnit(u *Unit) {
	w.lift(u)
	delete(w.units, u.ID)
	if i := slices.Index(w.unitOrder, u.ID); i >= 0 {
		w.unitOrder = slices.Delete(w.unitOrder, i, i+1)
	}
}

// AddCity founds a city for f on coord and claims the ring around it.
func (w *World) AddCity(f FactionID, coord world.HexCoord) (*City, error) {
	t := w.Map.Get(coord)
	if t == nil || !t.IsLand() || t.IsImpassable() {
		return nil, fmt.Errorf("found city at %v: %w", coord, ErrInvalidTile)
	}
	if t.CityCenter {
		return nil, fmt.Errorf("found city at %v: %w", coord, ErrCityTooClose)
	}
	faction := w.Faction(f)
	c := newCity(CityID(w.newID()), w.nextCityName(faction), f, coord, w.Turn)
	w.cities[c.ID] = c
	w.cityOrder = append(w.cityOrder, c.ID)

	t.CityCenter = true
	t.Improvement = world.ImprovementNone
	t.Route = max(t.Route, world.RouteRoad)
	for _, nt := range w.Map.TilesInDistance(coord, 1) {
		if nt.Owner == 0 || nt.Coord == coord {
			nt.Owner = uint64(f)
			nt.City = uint64(c.ID)
		}
	}
	if faction.Capital == 0 || w.City(faction.Capital) == nil {
		faction.Capital = c.ID
	}
	w.autoAssignWorked(c)
	w.RefreshStats(c)
	w.emit(f, "city", "%s founded %s at %v", faction.Name, c.Name, coord)
	return c, nil
}

// autoAssignWorked fills the city's worked tiles by raw yield total.
func (w *World) autoAssignWorked(c *City) {
	f := w.Faction(c.Owner)
	var best []world.HexCoord
	tiles := w.CityTiles(c)
	slices.SortStableFunc(tiles, func(a, b *world.Tile) int {
		ya, yb := w.TileYields(a, f), w.TileYields(b, f)
		sa := ya.Food + ya.Production + ya.Gold
		sb := yb.Food + yb.Production + yb.Gold
		switch {
		case sa > sb:
			return -1
		case sa < sb:
			return 1
		}
		return 0
	})
	for _, t := range tiles {
		if len(best) >= c.Population {
			break
		}
		if t.CityCenter {
			continue
		}
		best = append(best, t.Coord)
	}
	c.Worked = best
	c.Specialists = max(0, c.Population-len(best))
}
