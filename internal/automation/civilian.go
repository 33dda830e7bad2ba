package automation

import (
	"cmp"
	"slices"

	"github.com/talgya/autociv/internal/game"
	"github.com/talgya/autociv/internal/world"
)

// automateGeneral moves a great general onto the reachable friendly unit
// with the most friendly military around it, else into the nearest own
// city with room.
func (ctrl *Controller) automateGeneral(u *game.Unit) bool {
	ctx := ctrl.ctx
	w := ctx.World
	if !u.HasMovement() {
		return false
	}

	coords, _ := sortedReachable(w, u)
	var best world.HexCoord
	bestCount := 0
	for _, c := range coords {
		t := w.Map.Get(c)
		m := w.MilitaryUnitAt(c)
		if m == nil || m.Owner != u.Owner || t.CityCenter {
			continue
		}
		if c != u.Pos && !w.CanStopOn(u, t) {
			continue
		}
		n := 0
		for _, near := range w.Map.TilesInDistance(c, game.GeneralRadius) {
			if o := w.MilitaryUnitAt(near.Coord); o != nil && o.Owner == u.Owner {
				n++
			}
		}
		if n > bestCount {
			best, bestCount = c, n
		}
	}
	if bestCount > 0 {
		if err := w.MoveUnit(u, best); err != nil {
			ctx.Log.Debug().Err(err).Str("unit", u.Type.Name).Msg("general move failed")
			return false
		}
		ctx.record("general", u.Type.Name, best.String(), float64(bestCount))
		return true
	}

	var refuge *game.City
	bestTurns := -1
	for _, c := range w.CitiesOf(u.Owner) {
		if civ := w.CivilianAt(c.Center); civ != nil && civ.ID != u.ID {
			continue
		}
		turns := w.TurnsTo(u, c.Center)
		if turns < 0 {
			continue
		}
		if bestTurns < 0 || turns < bestTurns {
			refuge, bestTurns = c, turns
		}
	}
	if refuge == nil || u.Pos == refuge.Center {
		return false
	}
	if _, err := w.HeadTowards(u, refuge.Center); err != nil {
		ctx.Log.Debug().Err(err).Str("unit", u.Type.Name).Msg("general retreat failed")
		return false
	}
	return true
}

// automateSpecialist joins a great person to the city where a specialist
// is worth the most.
func (ctrl *Controller) automateSpecialist(u *game.Unit) bool {
	ctx := ctrl.ctx
	w := ctx.World
	f := ctx.Faction

	var target *game.City
	var bestValue float64
	for _, c := range w.CitiesOf(f.ID) {
		if !w.CanReach(u, c.Center) {
			continue
		}
		if v := ValueSpecialist(c, f); target == nil || v > bestValue {
			target, bestValue = c, v
		}
	}
	if target == nil {
		return false
	}
	if u.Pos != target.Center {
		if _, err := w.HeadTowards(u, target.Center); err != nil {
			ctx.Log.Debug().Err(err).Str("unit", u.Type.Name).Msg("specialist move failed")
			return false
		}
	}
	if u.Pos != target.Center {
		return true
	}
	name := u.Type.Name
	if err := w.JoinCity(u, target); err != nil {
		ctx.Log.Debug().Err(err).Str("unit", name).Msg("join city failed")
		return false
	}
	ctx.record("join", name, target.Name, bestValue)
	return true
}

// moveNextTo heads u to the closest tile next to (or on) center that it
// can stop on and reach. It reports whether u now stands within one tile.
func (ctrl *Controller) moveNextTo(u *game.Unit, center world.HexCoord) (arrived, moving bool) {
	w := ctrl.ctx.World
	if world.Distance(u.Pos, center) <= 1 {
		return true, false
	}
	tiles := w.Map.TilesInDistance(center, 1)
	slices.SortStableFunc(tiles, func(a, b *world.Tile) int {
		return cmp.Compare(world.Distance(u.Pos, a.Coord), world.Distance(u.Pos, b.Coord))
	})
	for _, t := range tiles {
		if !w.CanStopOn(u, t) || !w.CanReach(u, t.Coord) {
			continue
		}
		if _, err := w.HeadTowards(u, t.Coord); err != nil {
			ctrl.ctx.Log.Debug().Err(err).Str("unit", u.Type.Name).Msg("move failed")
			return false, false
		}
		return world.Distance(u.Pos, center) <= 1, true
	}
	return false, false
}

// automateMissionary spreads the faction religion to the nearest city
// where it is not the majority.
func (ctrl *Controller) automateMissionary(u *game.Unit) bool {
	ctx := ctrl.ctx
	w := ctx.World
	f := ctx.Faction
	if f.Religion == "" {
		return false
	}

	var targets []*game.City
	for _, c := range w.Cities() {
		if c.MajorityReligion() != f.Religion && !f.AtWarWith(w.Faction(c.Owner)) {
			targets = append(targets, c)
		}
	}
	slices.SortStableFunc(targets, func(a, b *game.City) int {
		return cmp.Compare(world.Distance(u.Pos, a.Center), world.Distance(u.Pos, b.Center))
	})
	for _, c := range targets {
		arrived, moving := ctrl.moveNextTo(u, c.Center)
		if !arrived && !moving {
			continue
		}
		if arrived && u.HasMovement() {
			name := u.Type.Name
			if err := w.SpreadReligion(u); err != nil {
				ctx.Log.Debug().Err(err).Str("unit", name).Msg("spread failed")
				return false
			}
			ctx.record("spread", name, c.Name, float64(c.Followers[f.Religion]))
		}
		return true
	}
	return false
}

// automateInquisitor goes to the own city where other religions hold the
// most followers, or guards the holy city when there is none.
func (ctrl *Controller) automateInquisitor(u *game.Unit) bool {
	ctx := ctrl.ctx
	w := ctx.World
	f := ctx.Faction
	if f.Religion == "" {
		return false
	}

	var target *game.City
	heresy := 0
	for _, c := range w.CitiesOf(f.ID) {
		if n := heretics(c, f.Religion); n > heresy && w.CanReach(u, c.Center) {
			target, heresy = c, n
		}
	}
	if target == nil {
		for _, c := range w.CitiesOf(f.ID) {
			if c.HolyCity == f.Religion {
				target = c
				break
			}
		}
	}
	if target == nil {
		return false
	}

	arrived, moving := ctrl.moveNextTo(u, target.Center)
	if !arrived {
		return moving
	}
	if heresy == 0 || !u.HasMovement() {
		return true
	}
	name := u.Type.Name
	if err := w.RemoveHeresy(u); err != nil {
		ctx.Log.Debug().Err(err).Str("unit", name).Msg("remove heresy failed")
		return false
	}
	ctx.record("inquisition", name, target.Name, float64(heresy))
	return true
}

// heretics counts followers of religions other than ours.
func heretics(c *game.City, ours string) int {
	n := 0
	for name, count := range c.Followers {
		if name != ours {
			n += count
		}
	}
	return n
}
