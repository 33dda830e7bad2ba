package world

// Tile is a single hex of the world map together with its mutable state.
// Unit and city references are ids so the map carries no game logic.
type Tile struct {
	Coord   HexCoord `json:"coord"`
	Terrain Terrain  `json:"terrain"`

	// Set during world generation.
	Elevation   float64 `json:"elevation"`
	Rainfall    float64 `json:"rainfall"`
	Temperature float64 `json:"temperature"`
	Continent   int     `json:"continent"`

	Resource       string      `json:"resource,omitempty"`
	ResourceAmount int         `json:"resource_amount,omitempty"`
	Improvement    Improvement `json:"improvement,omitempty"`
	Pillaged       bool        `json:"pillaged,omitempty"`
	Route          Route       `json:"route"`

	Owner      uint64 `json:"owner,omitempty"` // owning faction, 0 when unclaimed
	City       uint64 `json:"city,omitempty"`  // city whose borders include the tile
	CityCenter bool   `json:"city_center,omitempty"`
	Encampment bool   `json:"encampment,omitempty"` // barbarian camp

	// At most one military and one civilian unit, plus any number of aircraft.
	MilitaryUnit uint64   `json:"military_unit,omitempty"`
	CivilianUnit uint64   `json:"civilian_unit,omitempty"`
	AirUnits     []uint64 `json:"air_units,omitempty"`
}

// IsWater reports whether the tile is coast or ocean.
func (t *Tile) IsWater() bool { return t.Terrain.IsWater() }

// IsLand reports whether the tile is not water.
func (t *Tile) IsLand() bool { return !t.Terrain.IsWater() }

// IsImpassable reports whether no unit may enter.
func (t *Tile) IsImpassable() bool { return t.Terrain.IsImpassable() }

// ResourceInfo returns the catalog entry for the tile resource, or nil.
func (t *Tile) ResourceInfo() *Resource {
	if t.Resource == "" {
		return nil
	}
	return Resources[t.Resource]
}

// HasImprovement reports whether a working improvement stands on the tile.
func (t *Tile) HasImprovement() bool {
	return t.Improvement != ImprovementNone && !t.Pillaged
}

// IsOccupied reports whether any unit stands on the tile.
func (t *Tile) IsOccupied() bool {
	return t.MilitaryUnit != 0 || t.CivilianUnit != 0 || len(t.AirUnits) > 0
}

// Yields returns terrain, resource and improvement yields. Resource yields
// are counted only when the caller can see the resource. City centers are
// raised to at least 2 food, 1 production and 1 gold.
func (t *Tile) Yields(resourceVisible bool) Yields {
	y := t.Terrain.BaseYields()
	if res := t.ResourceInfo(); res != nil && resourceVisible {
		y = y.Plus(res.Yields)
	}
	if t.HasImprovement() {
		y = y.Plus(Improvements[t.Improvement].Yields)
	}
	if t.CityCenter {
		y.Food = max(y.Food, 2)
		y.Production = max(y.Production, 1)
		y.Gold = max(y.Gold, 1)
	}
	return y
}

// CanBuild reports whether imp is valid on the tile given its terrain and
// resource. Tech requirements are checked by the caller.
func (t *Tile) CanBuild(imp Improvement) bool {
	if t.CityCenter || t.IsImpassable() || imp == ImprovementNone {
		return false
	}
	if res := t.ResourceInfo(); res != nil && res.Improvement == imp {
		return true
	}
	if t.IsWater() {
		return false
	}
	return containsTerrain(Improvements[imp].Terrains, t.Terrain)
}

// RemoveAirUnit drops id from the aircraft list.
func (t *Tile) RemoveAirUnit(id uint64) {
	for i, a := range t.AirUnits {
		if a == id {
			t.AirUnits = append(t.AirUnits[:i], t.AirUnits[i+1:]...)
			return
		}
	}
}
