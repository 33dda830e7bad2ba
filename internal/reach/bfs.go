// Package reach answers "what can be reached from here" questions over the
// hex map with a predicate-driven breadth-first search.
package reach

import (
	"slices"

	"github.com/talgya/autociv/internal/world"
)

// BFS is an incremental breadth-first search. Tiles are reached at most
// once, so the reached set only grows.
type BFS struct {
	m        *world.Map
	canEnter func(*world.Tile) bool

	queue  []world.HexCoord
	head   int
	dist   map[world.HexCoord]int
	parent map[world.HexCoord]world.HexCoord
	order  []world.HexCoord
}

// New starts a search at start. The start tile is always reached; other
// tiles are reached only when canEnter accepts them. A nil predicate
// accepts nothing.
func New(m *world.Map, start world.HexCoord, canEnter func(*world.Tile) bool) *BFS {
	if canEnter == nil {
		canEnter = func(*world.Tile) bool { return false }
	}
	return &BFS{
		m:        m,
		canEnter: canEnter,
		queue:    []world.HexCoord{start},
		dist:     map[world.HexCoord]int{start: 0},
		parent:   map[world.HexCoord]world.HexCoord{},
		order:    []world.HexCoord{start},
	}
}

// Step expands one frontier tile and returns it. It returns false once the
// frontier is empty.
func (b *BFS) Step() (world.HexCoord, bool) {
	if b.head >= len(b.queue) {
		return world.HexCoord{}, false
	}
	cur := b.queue[b.head]
	b.head++
	for _, t := range b.m.Neighbors(cur) {
		if _, seen := b.dist[t.Coord]; seen || !b.canEnter(t) {
			continue
		}
		b.dist[t.Coord] = b.dist[cur] + 1
		b.parent[t.Coord] = cur
		b.order = append(b.order, t.Coord)
		b.queue = append(b.queue, t.Coord)
	}
	return cur, true
}

// Advance runs up to n steps and returns how many ran.
func (b *BFS) Advance(n int) int {
	done := 0
	for done < n {
		if _, ok := b.Step(); !ok {
			break
		}
		done++
	}
	return done
}

// AdvanceToEnd runs until the frontier is empty. It is a no-op on a
// finished search.
func (b *BFS) AdvanceToEnd() {
	for {
		if _, ok := b.Step(); !ok {
			return
		}
	}
}

// Done reports whether the frontier is empty.
func (b *BFS) Done() bool {
	return b.head >= len(b.queue)
}

// Reached reports whether c has been reached.
func (b *BFS) Reached(c world.HexCoord) bool {
	_, ok := b.dist[c]
	return ok
}

// Distance returns the step count from the start to c.
func (b *BFS) Distance(c world.HexCoord) (int, bool) {
	d, ok := b.dist[c]
	return d, ok
}

// ReachedTiles returns reached coordinates in the order they were found.
func (b *BFS) ReachedTiles() []world.HexCoord {
	return slices.Clone(b.order)
}

// Size is the number of reached tiles.
func (b *BFS) Size() int {
	return len(b.order)
}

// PathTo returns the path from the start to c, both ends included, or nil
// when c has not been reached.
func (b *BFS) PathTo(c world.HexCoord) []world.HexCoord {
	if !b.Reached(c) {
		return nil
	}
	path := []world.HexCoord{c}
	for {
		p, ok := b.parent[c]
		if !ok {
			break
		}
		path = append(path, p)
		c = p
	}
	slices.Reverse(path)
	return path
}

// FindNearest searches outwards from start for at most maxTiles expansions
// and returns the first reached tile that matches.
func FindNearest(m *world.Map, start world.HexCoord, maxTiles int, canEnter, match func(*world.Tile) bool) (world.HexCoord, bool) {
	b := New(m, start, canEnter)
	for steps := 0; steps < maxTiles; steps++ {
		c, ok := b.Step()
		if !ok {
			break
		}
		if t := m.Get(c); t != nil && match(t) {
			return c, true
		}
	}
	return world.HexCoord{}, false
}
