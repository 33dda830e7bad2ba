package reach

import (
	"github.com/talgya/autociv/internal/game"
	"github.com/talgya/autociv/internal/world"
)

// Medium is a way cities can be linked to the capital.
type Medium uint8

const (
	MediumRoad Medium = iota
	MediumRailroad
	MediumHarbor
)

func (m Medium) String() string {
	switch m {
	case MediumRailroad:
		return "Railroad"
	case MediumHarbor:
		return "Harbor"
	}
	return "Road"
}

// Connections maps each connected city to the mediums that reach it. The
// capital is always present.
type Connections map[game.CityID]map[Medium]bool

// Connected reports whether the city is linked to the capital.
func (c Connections) Connected(id game.CityID) bool {
	_, ok := c[id]
	return ok
}

// Set returns the connected cities as a set.
func (c Connections) Set() map[game.CityID]bool {
	out := make(map[game.CityID]bool, len(c))
	for id := range c {
		out[id] = true
	}
	return out
}

func (c Connections) add(id game.CityID, m Medium) bool {
	ms, ok := c[id]
	if !ok {
		ms = make(map[Medium]bool)
		c[id] = ms
	}
	added := !ms[m]
	ms[m] = true
	return added || !ok
}

func hasHarbor(c *game.City) bool {
	for name := range c.Buildings {
		if b := game.Buildings[name]; b != nil && b.Harbor {
			return true
		}
	}
	return false
}

// territory reports whether f may route trade through t.
func territory(w *game.World, f *game.Faction, t *world.Tile) bool {
	if t.Owner == 0 || game.FactionID(t.Owner) == f.ID {
		return true
	}
	owner := w.Faction(game.FactionID(t.Owner))
	if owner == nil || f.AtWarWith(owner) {
		return true
	}
	r := f.Relations[owner.ID]
	return r != nil && r.OpenBorders
}

func predicate(w *game.World, f *game.Faction, m Medium) func(*world.Tile) bool {
	return func(t *world.Tile) bool {
		if !territory(w, f, t) {
			return false
		}
		switch m {
		case MediumRailroad:
			return t.CityCenter || t.Route == world.RouteRailroad
		case MediumHarbor:
			if t.IsWater() {
				return true
			}
			c := w.CityAt(t.Coord)
			return c != nil && c.Owner == f.ID && hasHarbor(c)
		}
		return t.CityCenter || (t.IsLand() && t.Route >= world.RouteRoad)
	}
}

// CapitalConnections finds every own city linked to f's capital. Each
// medium is searched from a city only if the city was not itself reached
// through that medium, since it then shares the searching city's component.
func CapitalConnections(w *game.World, f *game.Faction) Connections {
	conns := Connections{}
	capital := w.City(f.Capital)
	if capital == nil {
		return conns
	}
	conns[capital.ID] = map[Medium]bool{}

	searched := map[Medium]map[game.CityID]bool{
		MediumRoad:     {},
		MediumRailroad: {},
		MediumHarbor:   {},
	}
	queue := []*game.City{capital}
	for len(queue) > 0 {
		origin := queue[0]
		queue = queue[1:]
		for _, m := range []Medium{MediumRailroad, MediumRoad, MediumHarbor} {
			if m == MediumHarbor && !hasHarbor(origin) {
				continue
			}
			if conns[origin.ID][m] || searched[m][origin.ID] {
				continue
			}
			searched[m][origin.ID] = true

			bfs := New(w.Map, origin.Center, predicate(w, f, m))
			bfs.AdvanceToEnd()
			for _, c := range w.CitiesOf(f.ID) {
				if c.ID == origin.ID || !bfs.Reached(c.Center) {
					continue
				}
				if m == MediumHarbor && !hasHarbor(c) {
					continue
				}
				added := conns.add(c.ID, m)
				if m == MediumRailroad {
					added = conns.add(c.ID, MediumRoad) || added
				}
				if added && c.ID != capital.ID {
					queue = append(queue, c)
				}
			}
		}
	}
	return conns
}
