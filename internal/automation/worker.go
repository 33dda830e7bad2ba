package automation

import (
	"slices"

	"github.com/talgya/autociv/internal/game"
	"github.com/talgya/autociv/internal/reach"
	"github.com/talgya/autociv/internal/world"
)

// WorkRadius is how far a worker looks for a tile to improve.
const WorkRadius = 4

// RoadPopulation is the size above which a city wants a road to the capital.
const RoadPopulation = 3

// ChooseImprovement picks what a worker should build on t for f, or
// ImprovementNone. Pillaged improvements are repaired first; visible
// resources get their own improvement; otherwise the terrain decides.
func ChooseImprovement(t *world.Tile, f *game.Faction) world.Improvement {
	if t.Improvement != world.ImprovementNone && t.Pillaged {
		return t.Improvement
	}
	var imp world.Improvement
	if res := t.ResourceInfo(); res != nil && f.CanSee(res) && res.Improvement != world.ImprovementNone {
		imp = res.Improvement
	} else {
		switch t.Terrain {
		case world.TerrainForest:
			imp = world.ImprovementLumberMill
		case world.TerrainHills:
			imp = world.ImprovementMine
		case world.TerrainGrassland, world.TerrainDesert, world.TerrainPlains, world.TerrainRiver:
			imp = world.ImprovementFarm
		case world.TerrainTundra, world.TerrainSwamp:
			imp = world.ImprovementTradingPost
		}
	}
	if imp == world.ImprovementNone || imp == t.Improvement {
		return world.ImprovementNone
	}
	if !t.CanBuild(imp) || !f.HasTech(world.Improvements[imp].Tech) {
		return world.ImprovementNone
	}
	// A built improvement is only replaced to connect a resource.
	if t.Improvement != world.ImprovementNone {
		if res := t.ResourceInfo(); res == nil || !f.CanSee(res) || res.Improvement != imp {
			return world.ImprovementNone
		}
	}
	return imp
}

// tileCanBeImproved reports whether a worker of f has anything to build on t.
func tileCanBeImproved(w *game.World, t *world.Tile, f *game.Faction) bool {
	if !t.IsLand() || t.IsImpassable() || t.CityCenter {
		return false
	}
	c := w.CityOwning(t.Coord)
	if c == nil || c.Owner != f.ID {
		return false
	}
	return ChooseImprovement(t, f) != world.ImprovementNone
}

// TilePriority ranks a tile for improvement: own tiles first, worked ones
// above all, then tiles next to our borders, plus one for a resource.
func TilePriority(w *game.World, t *world.Tile, f *game.Faction) int {
	priority := 0
	if game.FactionID(t.Owner) == f.ID {
		priority += 2
		if c := w.CityOwning(t.Coord); c != nil && c.IsWorked(t.Coord) {
			priority += 3
		}
	} else {
		for _, n := range w.Map.Neighbors(t.Coord) {
			if game.FactionID(n.Owner) == f.ID {
				priority++
				break
			}
		}
	}
	if res := t.ResourceInfo(); res != nil && f.CanSee(res) {
		priority++
	}
	return priority
}

// findTileToWork returns the highest-priority improvable tile within
// WorkRadius that u can reach.
func findTileToWork(w *game.World, u *game.Unit, f *game.Faction) (*world.Tile, bool) {
	type scored struct {
		tile     *world.Tile
		priority int
	}
	var candidates []scored
	for _, t := range w.Map.TilesInDistance(u.Pos, WorkRadius) {
		if civ := w.CivilianAt(t.Coord); civ != nil && civ.ID != u.ID {
			continue
		}
		if !tileCanBeImproved(w, t, f) {
			continue
		}
		candidates = append(candidates, scored{t, TilePriority(w, t, f)})
	}
	slices.SortStableFunc(candidates, func(a, b scored) int {
		return b.priority - a.priority
	})
	for _, c := range candidates {
		if c.priority <= 1 {
			break
		}
		if w.CanReach(u, c.tile.Coord) {
			return c.tile, true
		}
	}
	return nil, false
}

// enemyWithinReach reports whether an enemy military unit stands on or next
// to a tile u can reach this turn.
func (ctrl *Controller) enemyWithinReach(u *game.Unit) bool {
	w := ctrl.ctx.World
	coords, _ := sortedReachable(w, u)
	for _, c := range coords {
		if ctrl.enemyAdjacent(c) {
			return true
		}
	}
	return false
}

// automateWorker improves the best tile nearby, builds roads between
// cities or moves to the least developed city. Workers with nothing to do
// are marked idle so the planner trains no more of them.
func (ctrl *Controller) automateWorker(u *game.Unit) bool {
	ctx := ctrl.ctx
	w := ctx.World
	f := ctx.Faction

	if ctrl.enemyWithinReach(u) {
		return true
	}
	if u.Job != world.ImprovementNone {
		if err := w.BuildImprovement(u, u.Job); err == nil {
			return true
		}
	}
	if u.JobRoute {
		if err := w.BuildRoute(u); err == nil {
			return true
		}
	}

	tile, found := findTileToWork(w, u, f)
	if (!found || TilePriority(w, tile, f) < 3) && ctrl.tryConnectCities(u) {
		return true
	}
	if found {
		if tile.Coord != u.Pos {
			if _, err := w.HeadTowards(u, tile.Coord); err != nil {
				ctx.Log.Debug().Err(err).Str("unit", u.Type.Name).Msg("worker move failed")
				return false
			}
		}
		if u.Pos == tile.Coord && u.HasMovement() {
			imp := ChooseImprovement(tile, f)
			if err := w.BuildImprovement(u, imp); err != nil {
				ctx.Log.Debug().Err(err).Str("improvement", string(imp)).Msg("build failed")
				return false
			}
			ctx.record("improve", u.Type.Name, string(imp), float64(TilePriority(w, tile, f)))
		}
		return true
	}

	if ctrl.tryGoToUndevelopedCity(u) {
		return true
	}
	if ctx.idleWorkers == nil {
		ctx.idleWorkers = make(map[game.UnitID]bool)
	}
	ctx.idleWorkers[u.ID] = true
	return false
}

// targetRoute is the best route f can build.
func targetRoute(f *game.Faction) world.Route {
	if f.HasTech(game.RailroadTech) {
		return world.RouteRailroad
	}
	return world.RouteRoad
}

// tryConnectCities builds a road from a large unconnected city towards the
// nearest connected one. Searches from all candidate cities advance in
// lockstep so the shortest gap is found first.
func (ctrl *Controller) tryConnectCities(u *game.Unit) bool {
	ctx := ctrl.ctx
	w := ctx.World
	f := ctx.Faction
	capital := w.City(f.Capital)
	if capital == nil {
		return false
	}

	connected := []world.HexCoord{capital.Center}
	var searches []*reach.BFS
	for _, c := range w.CitiesOf(f.ID) {
		if c.ID == capital.ID {
			continue
		}
		if f.ConnectedCities[c.ID] {
			connected = append(connected, c.Center)
			continue
		}
		if c.Population <= RoadPopulation {
			continue
		}
		searches = append(searches, reach.New(w.Map, c.Center, func(t *world.Tile) bool {
			return t.IsLand() && !t.IsImpassable() && (t.Owner == 0 || game.FactionID(t.Owner) == f.ID)
		}))
	}

	var path []world.HexCoord
	for len(searches) > 0 && path == nil {
		var live []*reach.BFS
		for _, b := range searches {
			if _, ok := b.Step(); !ok {
				continue
			}
			for _, c := range connected {
				if b.Reached(c) {
					path = b.PathTo(c)
					break
				}
			}
			if path != nil {
				break
			}
			live = append(live, b)
		}
		searches = live
	}
	if path == nil {
		return false
	}

	route := targetRoute(f)
	var todo []world.HexCoord
	for _, c := range path {
		if t := w.Map.Get(c); t.Route < route && !t.CityCenter {
			todo = append(todo, c)
		}
	}
	if len(todo) == 0 {
		return false
	}
	if slices.Contains(todo, u.Pos) && u.HasMovement() {
		if err := w.BuildRoute(u); err != nil {
			ctx.Log.Debug().Err(err).Msg("road failed")
			return false
		}
		ctx.record("road", u.Type.Name, u.Pos.String(), float64(len(todo)))
		return true
	}

	var dest world.HexCoord
	bestTurns := -1
	for _, c := range todo {
		if civ := w.CivilianAt(c); civ != nil && civ.ID != u.ID {
			continue
		}
		turns := w.TurnsTo(u, c)
		if turns < 0 {
			continue
		}
		if bestTurns < 0 || turns < bestTurns {
			dest, bestTurns = c, turns
		}
	}
	if bestTurns < 0 {
		return false
	}
	if _, err := w.HeadTowards(u, dest); err != nil {
		ctx.Log.Debug().Err(err).Msg("road move failed")
		return false
	}
	if u.Pos == dest && u.HasMovement() {
		if err := w.BuildRoute(u); err == nil {
			ctx.record("road", u.Type.Name, dest.String(), float64(len(todo)))
		}
	}
	return true
}

// tryGoToUndevelopedCity moves towards the own city with the most
// improvable tiles.
func (ctrl *Controller) tryGoToUndevelopedCity(u *game.Unit) bool {
	ctx := ctrl.ctx
	w := ctx.World
	f := ctx.Faction
	var target *game.City
	best := 0
	for _, c := range w.CitiesOf(f.ID) {
		n := 0
		for _, t := range w.CityTiles(c) {
			if tileCanBeImproved(w, t, f) {
				n++
			}
		}
		if n > best && w.CanReach(u, c.Center) {
			target, best = c, n
		}
	}
	if target == nil || world.Distance(u.Pos, target.Center) <= 1 {
		return false
	}
	if _, err := w.HeadTowards(u, target.Center); err != nil {
		ctx.Log.Debug().Err(err).Str("unit", u.Type.Name).Msg("worker move failed")
		return false
	}
	return true
}

// automateWorkBoat heads to the nearest own unimproved sea resource and
// builds fishing boats on it.
func (ctrl *Controller) automateWorkBoat(u *game.Unit) bool {
	ctx := ctrl.ctx
	w := ctx.World
	f := ctx.Faction

	var target world.HexCoord
	bestTurns := -1
	for _, c := range w.CitiesOf(f.ID) {
		for _, t := range w.CityTiles(c) {
			if !needsFishingBoats(f, t) {
				continue
			}
			if civ := w.CivilianAt(t.Coord); civ != nil && civ.ID != u.ID {
				continue
			}
			turns := w.TurnsTo(u, t.Coord)
			if turns < 0 {
				continue
			}
			if bestTurns < 0 || turns < bestTurns {
				target, bestTurns = t.Coord, turns
			}
		}
	}
	if bestTurns < 0 {
		return ctrl.explore(u)
	}
	if u.Pos != target {
		if _, err := w.HeadTowards(u, target); err != nil {
			ctx.Log.Debug().Err(err).Str("unit", u.Type.Name).Msg("workboat move failed")
			return false
		}
	}
	if u.Pos == target {
		if err := w.BuildImprovement(u, world.ImprovementFishingBoats); err != nil {
			ctx.Log.Debug().Err(err).Msg("fishing boats failed")
			return false
		}
		ctx.record("improve", u.Type.Name, string(world.ImprovementFishingBoats), 0)
	}
	return true
}
