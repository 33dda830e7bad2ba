package automation

import (
	"github.com/talgya/autociv/internal/game"
	"github.com/talgya/autociv/internal/world"
)

// enemyAirNear counts enemy aircraft based within r of coord.
func (ctrl *Controller) enemyAirNear(coord world.HexCoord, r int) int {
	w := ctrl.ctx.World
	n := 0
	for _, t := range w.Map.TilesInDistance(coord, r) {
		for _, a := range w.AirUnitsAt(t.Coord) {
			if ctrl.ctx.Faction.AtWarWith(w.Faction(a.Owner)) {
				n++
			}
		}
	}
	return n
}

// enemiesNear counts enemy military units within r of coord.
func (ctrl *Controller) enemiesNear(coord world.HexCoord, r int) int {
	w := ctrl.ctx.World
	n := 0
	for _, t := range w.Map.TilesInDistance(coord, r) {
		if e := w.MilitaryUnitAt(t.Coord); e != nil && ctrl.ctx.Faction.AtWarWith(w.Faction(e.Owner)) {
			n++
		}
		if c := w.CityAt(t.Coord); c != nil && ctrl.ctx.Faction.AtWarWith(w.Faction(c.Owner)) {
			n++
		}
	}
	return n
}

// rebase flies u to the own city in range scoring highest, if it beats
// the current base.
func (ctrl *Controller) rebase(u *game.Unit, score func(*game.City) int) bool {
	ctx := ctrl.ctx
	w := ctx.World
	if !u.HasMovement() {
		return false
	}
	var target *game.City
	best := 0
	if here := w.CityAt(u.Pos); here != nil {
		best = score(here)
	}
	for _, c := range w.CitiesOf(u.Owner) {
		if c.Center == u.Pos || world.Distance(u.Pos, c.Center) > u.Type.Range {
			continue
		}
		if len(w.Map.Get(c.Center).AirUnits) >= 6 {
			continue
		}
		if s := score(c); s > best {
			target, best = c, s
		}
	}
	if target == nil {
		return false
	}
	if err := w.Rebase(u, target); err != nil {
		ctx.Log.Debug().Err(err).Str("unit", u.Type.Name).Msg("rebase failed")
		return false
	}
	ctx.record("rebase", u.Type.Name, target.Name, float64(best))
	return true
}

// automateFighter sweeps enemy aircraft based in range, stands by to
// intercept while they are around, and otherwise relocates to the most
// threatened city in range.
func (ctrl *Controller) automateFighter(u *game.Unit) bool {
	if TryAttackNearbyEnemy(ctrl.ctx, u) {
		return true
	}
	if ctrl.enemyAirNear(u.Pos, u.Type.Range) > 0 {
		return true
	}
	return ctrl.rebase(u, func(c *game.City) int {
		return ctrl.enemyAirNear(c.Center, u.Type.Range)
	})
}

// automateBomber attacks the best target in range, else relocates to the
// own city with the most targets around it.
func (ctrl *Controller) automateBomber(u *game.Unit) bool {
	if TryAttackNearbyEnemy(ctrl.ctx, u) {
		return true
	}
	return ctrl.rebase(u, func(c *game.City) int {
		return ctrl.enemiesNear(c.Center, u.Type.Range)
	})
}
