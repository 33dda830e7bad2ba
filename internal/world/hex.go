// Package world provides the hex grid, terrain, and tile data structures.
// Uses axial coordinates (q, r) for the hex grid.
package world

import "fmt"

// HexCoord represents a position on the hex grid using axial coordinates.
// The third cube coordinate s is derived: s = -q - r.
type HexCoord struct {
	Q int `json:"q"`
	R int `json:"r"`
}

// S returns the implicit third cube coordinate.
func (h HexCoord) S() int {
	return -h.Q - h.R
}

// Add returns the coordinate offset by d.
func (h HexCoord) Add(d HexCoord) HexCoord {
	return HexCoord{Q: h.Q + d.Q, R: h.R + d.R}
}

func (h HexCoord) String() string {
	return fmt.Sprintf("(%d,%d)", h.Q, h.R)
}

// HexNeighborDirections defines the six neighbor offsets in axial coordinates.
var HexNeighborDirections = [6]HexCoord{
	{Q: 1, R: 0},
	{Q: 1, R: -1},
	{Q: 0, R: -1},
	{Q: -1, R: 0},
	{Q: -1, R: 1},
	{Q: 0, R: 1},
}

// Neighbors returns the six adjacent hex coordinates.
func (h HexCoord) Neighbors() [6]HexCoord {
	var result [6]HexCoord
	for i, dir := range HexNeighborDirections {
		result[i] = h.Add(dir)
	}
	return result
}

// Ring returns the coordinates at exactly distance r from h, walking the
// ring in a fixed order. Ring(h, 0) is just h.
func Ring(h HexCoord, r int) []HexCoord {
	if r <= 0 {
		return []HexCoord{h}
	}
	out := make([]HexCoord, 0, 6*r)
	cur := HexCoord{Q: h.Q + HexNeighborDirections[4].Q*r, R: h.R + HexNeighborDirections[4].R*r}
	for side := 0; side < 6; side++ {
		for step := 0; step < r; step++ {
			out = append(out, cur)
			cur = cur.Add(HexNeighborDirections[side])
		}
	}
	return out
}

// Spiral returns every coordinate within distance r of h, nearest rings first.
func Spiral(h HexCoord, r int) []HexCoord {
	out := make([]HexCoord, 0, 1+3*r*(r+1))
	for i := 0; i <= r; i++ {
		out = append(out, Ring(h, i)...)
	}
	return out
}

// HexesInRadius is the number of hexes within distance r of a center.
func HexesInRadius(r int) int {
	return 1 + 3*r*(r+1)
}

// Distance returns the hex distance between two coordinates.
func Distance(a, b HexCoord) int {
	dq := abs(a.Q - b.Q)
	dr := abs(a.R - b.R)
	ds := abs(a.S() - b.S())
	// Max of the three absolute differences in cube coordinates.
	return max(dq, dr, ds)
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
