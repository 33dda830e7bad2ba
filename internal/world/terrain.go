package world

// Terrain types for hex tiles.
type Terrain uint8

const (
	TerrainPlains    Terrain = iota // Balanced food and production
	TerrainForest                   // Production, slows movement
	TerrainMountain                 // Impassable
	TerrainCoast                    // Shallow water, workable by coastal cities
	TerrainRiver                    // Freshwater lowland
	TerrainDesert                   // Barren unless irrigated
	TerrainSwamp                    // Slow, poor yields
	TerrainTundra                   // Cold, poor yields
	TerrainOcean                    // Deep water
	TerrainGrassland                // Food
	TerrainHills                    // Production and defense
)

var terrainNames = map[Terrain]string{
	TerrainPlains:    "Plains",
	TerrainForest:    "Forest",
	TerrainMountain:  "Mountain",
	TerrainCoast:     "Coast",
	TerrainRiver:     "River",
	TerrainDesert:    "Desert",
	TerrainSwamp:     "Swamp",
	TerrainTundra:    "Tundra",
	TerrainOcean:     "Ocean",
	TerrainGrassland: "Grassland",
	TerrainHills:     "Hills",
}

// TerrainName returns a human-readable name for a terrain type.
func TerrainName(t Terrain) string {
	if n, ok := terrainNames[t]; ok {
		return n
	}
	return "Unknown"
}

func (t Terrain) String() string { return TerrainName(t) }

// IsWater reports whether the terrain is coast or ocean.
func (t Terrain) IsWater() bool {
	return t == TerrainCoast || t == TerrainOcean
}

// IsImpassable reports whether no unit may enter the terrain.
func (t Terrain) IsImpassable() bool {
	return t == TerrainMountain
}

// IsRough reports whether entering the terrain costs two movement points.
func (t Terrain) IsRough() bool {
	return t == TerrainForest || t == TerrainHills || t == TerrainSwamp
}

// DefenseBonus is the percentage added to a defender standing on the terrain.
func (t Terrain) DefenseBonus() float64 {
	switch t {
	case TerrainHills, TerrainForest:
		return 0.25
	case TerrainSwamp:
		return -0.15
	}
	return 0
}

// BaseYields returns the yields of the bare terrain.
func (t Terrain) BaseYields() Yields {
	switch t {
	case TerrainPlains:
		return Yields{Food: 1, Production: 1}
	case TerrainGrassland:
		return Yields{Food: 2}
	case TerrainForest:
		return Yields{Food: 1, Production: 1}
	case TerrainHills:
		return Yields{Production: 2}
	case TerrainCoast:
		return Yields{Food: 1, Gold: 1}
	case TerrainOcean:
		return Yields{Food: 1}
	case TerrainRiver:
		return Yields{Food: 2, Gold: 1}
	case TerrainSwamp, TerrainTundra:
		return Yields{Food: 1}
	}
	return Yields{}
}

// Route is a transport improvement layered on top of a tile.
type Route uint8

const (
	RouteNone Route = iota
	RouteRoad
	RouteRailroad
)

func (r Route) String() string {
	switch r {
	case RouteRoad:
		return "Road"
	case RouteRailroad:
		return "Railroad"
	}
	return "None"
}
