package game

import (
	"container/heap"
	"slices"

	"github.com/talgya/autociv/internal/world"
)

// EmbarkTech lets land units enter water tiles.
const EmbarkTech = "Optics"

// CanEnterTerritory reports whether units of f may enter the tile given its
// owner: unclaimed, own, open borders or at war.
func (w *World) CanEnterTerritory(f *Faction, t *world.Tile) bool {
	if t.Owner == 0 || FactionID(t.Owner) == f.ID || f.Barbarian {
		return true
	}
	owner := w.Faction(FactionID(t.Owner))
	if owner == nil {
		return true
	}
	if f.AtWarWith(owner) {
		return true
	}
	r := f.Relations[owner.ID]
	return r != nil && r.OpenBorders
}

// CanPassThrough reports whether u may move across t. It says nothing about
// stopping there.
func (w *World) CanPassThrough(u *Unit, t *world.Tile) bool {
	if t == nil || t.IsImpassable() || u.Type.IsAir() {
		return false
	}
	f := w.Faction(u.Owner)
	switch u.Type.Domain {
	case DomainLand:
		if t.IsWater() && !f.HasTech(EmbarkTech) {
			return false
		}
	case DomainWater:
		if t.IsLand() && !(t.CityCenter && FactionID(t.Owner) == u.Owner) {
			return false
		}
	}
	if !w.CanEnterTerritory(f, t) {
		return false
	}
	if t.CityCenter && FactionID(t.Owner) != u.Owner {
		return false
	}
	for _, id := range []uint64{t.MilitaryUnit, t.CivilianUnit} {
		if o := w.units[UnitID(id)]; o != nil && o.Owner != u.Owner {
			return false
		}
	}
	return true
}

// CanStopOn reports whether u may end its move on t.
func (w *World) CanStopOn(u *Unit, t *world.Tile) bool {
	if !w.CanPassThrough(u, t) {
		return false
	}
	occupant := *slot(t, u.Type)
	return occupant == 0 || occupant == uint64(u.ID)
}

// MoveCost is the movement u pays to step from one tile to the next.
// Crossing the shoreline costs a land unit all its movement.
func MoveCost(u *Unit, from, to *world.Tile) float64 {
	if u.Type.Domain == DomainLand && from.IsWater() != to.IsWater() {
		return u.Type.Movement
	}
	if u.Type.Domain == DomainLand && from.IsLand() && to.IsLand() {
		switch min(from.Route, to.Route) {
		case world.RouteRailroad:
			return 0.1
		case world.RouteRoad:
			return 1.0 / 3
		}
		if to.Terrain.IsRough() {
			return 2
		}
	}
	return 1
}

// ReachableThisTurn returns every tile u can get to with its remaining
// movement, mapped to the movement left on arrival. A unit with any movement
// left may always take one more step, arriving with none. The start tile is
// included.
func (w *World) ReachableThisTurn(u *Unit) map[world.HexCoord]float64 {
	out := map[world.HexCoord]float64{u.Pos: u.MovementLeft}
	if u.Type.IsAir() {
		return out
	}
	pq := &moveQueue{{coord: u.Pos, left: u.MovementLeft}}
	for pq.Len() > 0 {
		cur := heap.Pop(pq).(moveItem)
		if cur.left < out[cur.coord] || cur.left <= MovementEpsilon {
			continue
		}
		from := w.Map.Get(cur.coord)
		for _, t := range w.Map.Neighbors(cur.coord) {
			if !w.CanPassThrough(u, t) {
				continue
			}
			left := max(cur.left-MoveCost(u, from, t), 0)
			if left < MovementEpsilon {
				left = 0
			}
			if prev, seen := out[t.Coord]; seen && prev >= left {
				continue
			}
			out[t.Coord] = left
			heap.Push(pq, moveItem{coord: t.Coord, left: left})
		}
	}
	return out
}

// PathTo returns the cheapest path from u's position to dest, excluding the
// start, or nil when dest cannot be reached. Tiles held by other units of
// the same owner are crossed but never chosen as the destination.
func (w *World) PathTo(u *Unit, dest world.HexCoord) []world.HexCoord {
	if u.Pos == dest {
		return nil
	}
	target := w.Map.Get(dest)
	if target == nil || !w.CanPassThrough(u, target) {
		return nil
	}
	cost := map[world.HexCoord]float64{u.Pos: 0}
	prev := map[world.HexCoord]world.HexCoord{}
	pq := &moveQueue{{coord: u.Pos, left: 0}}
	for pq.Len() > 0 {
		cur := heap.Pop(pq).(moveItem)
		spent := -cur.left
		if spent > cost[cur.coord] {
			continue
		}
		if cur.coord == dest {
			break
		}
		from := w.Map.Get(cur.coord)
		for _, t := range w.Map.Neighbors(cur.coord) {
			if !w.CanPassThrough(u, t) {
				continue
			}
			c := spent + min(MoveCost(u, from, t), u.Type.Movement)
			if old, seen := cost[t.Coord]; seen && old <= c {
				continue
			}
			cost[t.Coord] = c
			prev[t.Coord] = cur.coord
			heap.Push(pq, moveItem{coord: t.Coord, left: -c})
		}
	}
	if _, ok := cost[dest]; !ok {
		return nil
	}
	var path []world.HexCoord
	for c := dest; c != u.Pos; c = prev[c] {
		path = append(path, c)
	}
	slices.Reverse(path)
	return path
}

// CanReach reports whether u can eventually get to dest.
func (w *World) CanReach(u *Unit, dest world.HexCoord) bool {
	return u.Pos == dest || w.PathTo(u, dest) != nil
}

// TurnsTo estimates the turns u needs to reach dest, or -1.
func (w *World) TurnsTo(u *Unit, dest world.HexCoord) int {
	if u.Pos == dest {
		return 0
	}
	if _, ok := w.ReachableThisTurn(u)[dest]; ok {
		return 1
	}
	path := w.PathTo(u, dest)
	if path == nil {
		return -1
	}
	spent := 0.0
	from := w.Map.Get(u.Pos)
	for _, c := range path {
		t := w.Map.Get(c)
		spent += min(MoveCost(u, from, t), u.Type.Movement)
		from = t
	}
	turns := int(spent/u.Type.Movement + 0.999)
	return max(turns, 1)
}

// moveQueue is a max-heap on movement left.
type moveItem struct {
	coord world.HexCoord
	left  float64
}

type moveQueue []moveItem

func (q moveQueue) Len() int           { return len(q) }
func (q moveQueue) Less(i, j int) bool { return q[i].left > q[j].left }
func (q moveQueue) Swap(i, j int)      { q[i], q[j] = q[j], q[i] }
func (q *moveQueue) Push(x any)        { *q = append(*q, x.(moveItem)) }
func (q *moveQueue) Pop() any {
	old := *q
	it := old[len(old)-1]
	*q = old[:len(old)-1]
	return it
}
