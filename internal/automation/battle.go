package automation

import (
	"cmp"
	"slices"

	"github.com/talgya/autociv/internal/game"
	"github.com/talgya/autociv/internal/world"
)

// AttackableTile pairs a tile to attack from with a tile to attack.
type AttackableTile struct {
	From                    world.HexCoord
	Target                  world.HexCoord
	MovementLeftAfterMoving float64
}

type origin struct {
	coord world.HexCoord
	left  float64
}

// AttackableEnemies lists every enemy tile u could hit this turn from a
// tile in distances (as returned by World.ReachableThisTurn). Origins
// must keep more than MovementEpsilon after paying any set-up cost. When
// tilesToCheck is nil every tile in range is considered. With stayInPlace
// only the current tile is an origin.
func AttackableEnemies(w *game.World, u *game.Unit, distances map[world.HexCoord]float64, tilesToCheck []world.HexCoord, stayInPlace bool) []AttackableTile {
	if !u.IsMilitary() {
		return nil
	}
	var origins []origin
	if stayInPlace || u.Type.IsAir() {
		origins = []origin{{u.Pos, u.MovementLeft}}
	} else {
		for c, left := range distances {
			if c != u.Pos && !w.CanStopOn(u, w.Map.Get(c)) {
				continue
			}
			origins = append(origins, origin{c, left})
		}
		sortOrigins(u.Pos, origins)
	}

	var out []AttackableTile
	for _, o := range origins {
		left := o.left
		if u.Type.MustSetUp && !(o.coord == u.Pos && u.SetUp) {
			left--
		}
		if left <= game.MovementEpsilon {
			continue
		}
		out = append(out, targetsFrom(w, u, o.coord, left, tilesToCheck)...)
	}
	return out
}

// sortOrigins puts the current tile first, then the rest by movement left
// and coordinate so that map iteration order never leaks into decisions.
func sortOrigins(pos world.HexCoord, origins []origin) {
	slices.SortFunc(origins, func(a, b origin) int {
		if a.coord == pos {
			return -1
		}
		if b.coord == pos {
			return 1
		}
		if c := cmp.Compare(b.left, a.left); c != 0 {
			return c
		}
		if c := cmp.Compare(a.coord.Q, b.coord.Q); c != 0 {
			return c
		}
		return cmp.Compare(a.coord.R, b.coord.R)
	})
}

func targetsFrom(w *game.World, u *game.Unit, from world.HexCoord, left float64, tilesToCheck []world.HexCoord) []AttackableTile {
	f := w.Faction(u.Owner)
	candidates := tilesToCheck
	if candidates == nil {
		for _, t := range w.Map.TilesInDistance(from, u.Type.AttackRange()) {
			candidates = append(candidates, t.Coord)
		}
	}
	var out []AttackableTile
	for _, target := range candidates {
		if target == from || !w.IsEnemyTile(f, target) || !w.CanAttackFrom(u, from, target) {
			continue
		}
		out = append(out, AttackableTile{From: from, Target: target, MovementLeftAfterMoving: left})
	}
	return out
}

// safeTargets drops attacks whose retaliation would kill the attacker.
func safeTargets(w *game.World, u *game.Unit, tiles []AttackableTile) []AttackableTile {
	var out []AttackableTile
	for _, a := range tiles {
		if w.PredictDamage(u, a.Target).ToAttacker < u.Health {
			out = append(out, a)
		}
	}
	return out
}

// chooseAttackTarget picks, in order: a city a melee unit takes this attack,
// the weakest enemy unit, the weakest city. For the chosen target the origin
// with the most movement left wins.
func chooseAttackTarget(w *game.World, u *game.Unit, tiles []AttackableTile) (AttackableTile, bool) {
	if len(tiles) == 0 {
		return AttackableTile{}, false
	}

	var target world.HexCoord
	found := false
	if u.Type.IsMelee() {
		for _, a := range tiles {
			if w.CityAt(a.Target) != nil && w.PredictDamage(u, a.Target).Capture {
				target, found = a.Target, true
				break
			}
		}
	}
	if !found {
		best := 0
		for _, a := range tiles {
			if w.CityAt(a.Target) != nil {
				continue
			}
			d := w.UnitAt(a.Target)
			if d == nil {
				continue
			}
			if !found || d.Health < best {
				target, best, found = a.Target, d.Health, true
			}
		}
	}
	if !found {
		var best float64
		for _, a := range tiles {
			c := w.CityAt(a.Target)
			if c == nil {
				continue
			}
			if !found || c.Health < best {
				target, best, found = a.Target, c.Health, true
			}
		}
	}
	if !found {
		return AttackableTile{}, false
	}

	var pick AttackableTile
	picked := false
	for _, a := range tiles {
		if a.Target != target {
			continue
		}
		if !picked || a.MovementLeftAfterMoving > pick.MovementLeftAfterMoving {
			pick, picked = a, true
		}
	}
	return pick, picked
}

// TryAttackNearbyEnemy attacks the best safe target reachable this turn.
func TryAttackNearbyEnemy(ctx *Context, u *game.Unit) bool {
	w := ctx.World
	if !u.IsMilitary() || u.AttacksLeft <= 0 || !u.HasMovement() {
		return false
	}
	tiles := safeTargets(w, u, AttackableEnemies(w, u, w.ReachableThisTurn(u), nil, false))
	a, ok := chooseAttackTarget(w, u, tiles)
	if !ok {
		return false
	}
	name := u.Type.Name
	if err := w.MoveAndAttack(u, a.From, a.Target); err != nil {
		ctx.Log.Debug().Err(err).Str("unit", name).Msg("attack failed")
		return false
	}
	ctx.Log.Debug().Str("unit", name).Stringer("from", a.From).Stringer("target", a.Target).Msg("attacked")
	ctx.record("attack", name, a.Target.String(), a.MovementLeftAfterMoving)
	return true
}

// TryDisembarkToAttackPosition lands an embarked melee unit on a tile from
// which it can attack next turn without dying.
func TryDisembarkToAttackPosition(ctx *Context, u *game.Unit) bool {
	w := ctx.World
	if !u.Embarked || u.Type.Domain != game.DomainLand || !u.Type.IsMelee() || !u.HasMovement() {
		return false
	}
	var origins []origin
	for c := range w.ReachableThisTurn(u) {
		t := w.Map.Get(c)
		if c == u.Pos || !t.IsLand() || !w.CanStopOn(u, t) {
			continue
		}
		origins = append(origins, origin{c, u.Type.Movement})
	}
	sortOrigins(u.Pos, origins)

	var tiles []AttackableTile
	for _, o := range origins {
		tiles = append(tiles, targetsFrom(w, u, o.coord, o.left, nil)...)
	}
	a, ok := chooseAttackTarget(w, u, safeTargets(w, u, tiles))
	if !ok {
		return false
	}
	if err := w.MoveUnit(u, a.From); err != nil {
		ctx.Log.Debug().Err(err).Str("unit", u.Type.Name).Msg("disembark failed")
		return false
	}
	ctx.record("disembark", u.Type.Name, a.From.String(), 0)
	return true
}
