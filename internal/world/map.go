package world

import "fmt"

// Map holds the complete hex grid. Iteration goes through Tiles(), which
// preserves insertion order so that every consumer sees a stable order.
type Map struct {
	Hexes  map[HexCoord]*Tile `json:"-"` // All tiles keyed by coordinate
	Radius int                `json:"radius"`

	order []HexCoord
}

// NewMap creates an empty map with the given radius.
// A hex grid of radius R contains hexes where max(|q|, |r|, |s|) <= R.
func NewMap(radius int) *Map {
	return &Map{
		Hexes:  make(map[HexCoord]*Tile),
		Radius: radius,
	}
}

// FilledMap returns a map of the given radius where every tile has terrain t.
func FilledMap(radius int, t Terrain) *Map {
	m := NewMap(radius)
	for _, c := range Spiral(HexCoord{}, radius) {
		m.Set(&Tile{Coord: c, Terrain: t})
	}
	return m
}

// Get returns the tile at the given coordinate, or nil if out of bounds.
func (m *Map) Get(coord HexCoord) *Tile {
	return m.Hexes[coord]
}

// Set places a tile at its coordinate.
func (m *Map) Set(t *Tile) {
	if _, ok := m.Hexes[t.Coord]; !ok {
		m.order = append(m.order, t.Coord)
	}
	m.Hexes[t.Coord] = t
}

// InBounds returns true if the coordinate is within the map radius.
func (m *Map) InBounds(coord HexCoord) bool {
	return Distance(coord, HexCoord{}) <= m.Radius
}

// HexCount returns the total number of tiles in the map.
func (m *Map) HexCount() int {
	return len(m.Hexes)
}

// Tiles returns every tile in insertion order.
func (m *Map) Tiles() []*Tile {
	out := make([]*Tile, 0, len(m.order))
	for _, c := range m.order {
		out = append(out, m.Hexes[c])
	}
	return out
}

// Neighbors returns the existing tiles adjacent to coord.
func (m *Map) Neighbors(coord HexCoord) []*Tile {
	out := make([]*Tile, 0, 6)
	for _, n := range coord.Neighbors() {
		if t := m.Hexes[n]; t != nil {
			out = append(out, t)
		}
	}
	return out
}

// TilesInDistance returns existing tiles within r of center, nearest first.
func (m *Map) TilesInDistance(center HexCoord, r int) []*Tile {
	out := make([]*Tile, 0, HexesInRadius(r))
	for _, c := range Spiral(center, r) {
		if t := m.Hexes[c]; t != nil {
			out = append(out, t)
		}
	}
	return out
}

// TilesAtDistance returns existing tiles exactly r away from center.
func (m *Map) TilesAtDistance(center HexCoord, r int) []*Tile {
	var out []*Tile
	for _, c := range Ring(center, r) {
		if t := m.Hexes[c]; t != nil {
			out = append(out, t)
		}
	}
	return out
}

// IsCoastal reports whether a land tile touches water.
func (m *Map) IsCoastal(coord HexCoord) bool {
	t := m.Get(coord)
	if t == nil || t.IsWater() {
		return false
	}
	for _, n := range m.Neighbors(coord) {
		if n.IsWater() {
			return true
		}
	}
	return false
}

// IsAdjacentTo reports whether any neighbor of coord has terrain t.
func (m *Map) IsAdjacentTo(coord HexCoord, t Terrain) bool {
	for _, n := range m.Neighbors(coord) {
		if n.Terrain == t {
			return true
		}
	}
	return false
}

// TerrainCounts returns a summary of terrain type distribution.
func (m *Map) TerrainCounts() map[Terrain]int {
	counts := make(map[Terrain]int)
	for _, t := range m.Hexes {
		counts[t.Terrain]++
	}
	return counts
}

// String returns a summary of the map.
func (m *Map) String() string {
	return fmt.Sprintf("Map(radius=%d, hexes=%d)", m.Radius, m.HexCount())
}
