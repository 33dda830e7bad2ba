package automation

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/talgya/autociv/internal/entropy"
	"github.com/talgya/autociv/internal/game"
	"github.com/talgya/autociv/internal/world"
)

// State is where a unit stands in the behavior controller this turn.
type State uint8

const (
	StateIdle State = iota
	StateAutomated
	StateHealing
	StateFortified
	StateDone
)

var stateNames = [...]string{"Idle", "Automated", "Healing", "Fortified", "Done"}

func (s State) String() string {
	if int(s) < len(stateNames) {
		return stateNames[s]
	}
	return "Unknown"
}

// Role selects the behavior a unit runs.
type Role uint8

const (
	RoleSettler Role = iota
	RoleWorker
	RoleCivilianSpecialist
	RoleMissionary
	RoleInquisitor
	RoleRangedCombat
	RoleMeleeCombat
	RoleAirFighter
	RoleAirBomber
	RoleMissile
	RoleGreatGeneral
	RoleWorkBoat
	RoleNone // Units with nothing to automate, such as spaceship parts
)

var roleNames = [...]string{
	"Settler", "Worker", "CivilianSpecialist", "Missionary", "Inquisitor",
	"RangedCombat", "MeleeCombat", "AirFighter", "AirBomber", "Missile",
	"GreatGeneral", "WorkBoat", "None",
}

func (r Role) String() string {
	if int(r) < len(roleNames) {
		return roleNames[r]
	}
	return "Unknown"
}

// RoleOf maps a unit type to its automated role.
func RoleOf(ut *game.UnitType) Role {
	switch ut.Category {
	case game.CategorySettler:
		return RoleSettler
	case game.CategoryWorker:
		return RoleWorker
	case game.CategoryWorkBoat:
		return RoleWorkBoat
	case game.CategoryGreatGeneral:
		return RoleGreatGeneral
	case game.CategoryGreatPerson:
		return RoleCivilianSpecialist
	case game.CategoryMissionary:
		return RoleMissionary
	case game.CategoryInquisitor:
		return RoleInquisitor
	case game.CategoryFighter:
		return RoleAirFighter
	case game.CategoryBomber:
		return RoleAirBomber
	case game.CategoryMissile:
		return RoleMissile
	case game.CategorySpaceshipPart:
		return RoleNone
	}
	if ut.IsRanged() {
		return RoleRangedCombat
	}
	return RoleMeleeCombat
}

// UnitState is the controller's view of one unit.
type UnitState struct {
	State State
	Role  Role
}

func (s UnitState) String() string {
	if s.State == StateAutomated {
		return fmt.Sprintf("Automated(%s)", s.Role)
	}
	return s.State.String()
}

// Controller runs unit behaviors for one faction turn and remembers the
// state each unit ended in.
type Controller struct {
	ctx    *Context
	states map[game.UnitID]UnitState
}

// NewController returns a controller with every unit idle.
func NewController(ctx *Context) *Controller {
	return &Controller{ctx: ctx, states: make(map[game.UnitID]UnitState)}
}

// State returns the state u ended its turn in. Units not yet run are idle.
func (ctrl *Controller) State(id game.UnitID) UnitState {
	return ctrl.states[id]
}

func (ctrl *Controller) set(u *game.Unit, s State) {
	st := ctrl.states[u.ID]
	st.State = s
	ctrl.states[u.ID] = st
}

// Run automates a single unit and reports whether it did anything.
func (ctrl *Controller) Run(u *game.Unit) bool {
	role := RoleOf(u.Type)
	ctrl.states[u.ID] = UnitState{State: StateAutomated, Role: role}

	var acted bool
	switch role {
	case RoleSettler:
		acted = ctrl.automateSettler(u)
	case RoleWorker:
		acted = ctrl.automateWorker(u)
	case RoleWorkBoat:
		acted = ctrl.automateWorkBoat(u)
	case RoleGreatGeneral:
		acted = ctrl.automateGeneral(u)
	case RoleCivilianSpecialist:
		acted = ctrl.automateSpecialist(u)
	case RoleMissionary:
		acted = ctrl.automateMissionary(u)
	case RoleInquisitor:
		acted = ctrl.automateInquisitor(u)
	case RoleAirFighter:
		acted = ctrl.automateFighter(u)
	case RoleAirBomber, RoleMissile:
		acted = ctrl.automateBomber(u)
	case RoleRangedCombat, RoleMeleeCombat:
		acted = ctrl.automateMilitary(u)
	}

	if ctrl.ctx.World.Unit(u.ID) == nil {
		ctrl.set(u, StateDone)
		return true
	}
	switch st := ctrl.states[u.ID].State; {
	case st == StateHealing:
	case u.Fortified:
		ctrl.set(u, StateFortified)
	default:
		ctrl.set(u, StateDone)
	}
	return acted
}

// automateMilitary runs the combat ladder for land and sea units.
func (ctrl *Controller) automateMilitary(u *game.Unit) bool {
	ctx := ctrl.ctx
	w := ctx.World
	f := ctx.Faction

	if f.Barbarian && u.Type.Domain == game.DomainLand {
		if t := w.Map.Get(u.Pos); t.Encampment {
			return ctrl.holdEncampment(u)
		}
	}

	if f.Barbarian && u.Health < 50 && ctrl.tryPillage(u) {
		return true
	}
	if ctrl.tryUpgrade(u) {
		return true
	}
	if u.Type.IsMelee() && TryDisembarkToAttackPosition(ctx, u) {
		return true
	}
	if TryAttackNearbyEnemy(ctx, u) {
		return true
	}
	if ctrl.tryPillage(u) {
		return true
	}
	if f.Barbarian {
		if ctrl.tryAdvanceTowardsCloseEnemy(u) {
			return true
		}
		return ctrl.wander(u)
	}

	if u.Health < 50 && ctrl.tryHeal(u) {
		return true
	}
	if ctrl.tryAccompanyCivilian(u) {
		return true
	}
	if ctrl.tryGarrison(u) {
		return true
	}
	if u.Health < 80 && ctrl.tryHeal(u) {
		return true
	}
	if ctrl.tryAdvanceTowardsCloseEnemy(u) {
		return true
	}
	if ctrl.tryHeadTowardsEnemyCity(u) {
		return true
	}
	if u.IsDamaged() && ctrl.tryHeal(u) {
		return true
	}
	if u.Type.Category == game.CategoryScout && ctrl.explore(u) {
		return true
	}
	return ctrl.wander(u)
}

// holdEncampment keeps a barbarian on its camp: upgrade, attack, fortify.
func (ctrl *Controller) holdEncampment(u *game.Unit) bool {
	if ctrl.tryUpgrade(u) {
		return true
	}
	if TryAttackNearbyEnemy(ctrl.ctx, u) {
		return true
	}
	return ctrl.fortify(u)
}

func (ctrl *Controller) fortify(u *game.Unit) bool {
	if u.Fortified {
		return true
	}
	if err := ctrl.ctx.World.Fortify(u); err != nil {
		ctrl.ctx.Log.Debug().Err(err).Str("unit", u.Type.Name).Msg("fortify failed")
		return false
	}
	return true
}

func (ctrl *Controller) tryUpgrade(u *game.Unit) bool {
	ctx := ctrl.ctx
	w := ctx.World
	if !w.CanUpgrade(u) {
		return false
	}
	cost := game.UpgradeCost(u)
	if !ctx.Faction.Barbarian && ctx.Faction.Gold < float64(cost) {
		return false
	}
	from := u.Type.Name
	if err := w.Upgrade(u); err != nil {
		ctx.Log.Debug().Err(err).Str("unit", from).Msg("upgrade failed")
		return false
	}
	ctx.record("upgrade", from, u.Type.Name, float64(cost))
	return true
}

// sortedReachable returns the tiles reachable this turn ordered by
// coordinate.
func sortedReachable(w *game.World, u *game.Unit) ([]world.HexCoord, map[world.HexCoord]float64) {
	reachable := w.ReachableThisTurn(u)
	coords := make([]world.HexCoord, 0, len(reachable))
	for c := range reachable {
		coords = append(coords, c)
	}
	slices.SortFunc(coords, compareCoords)
	return coords, reachable
}

func compareCoords(a, b world.HexCoord) int {
	if c := cmp.Compare(a.Q, b.Q); c != 0 {
		return c
	}
	return cmp.Compare(a.R, b.R)
}

// tryPillage moves onto the reachable enemy improvement with the best
// defense and pillages it.
func (ctrl *Controller) tryPillage(u *game.Unit) bool {
	ctx := ctrl.ctx
	w := ctx.World
	if u.Type.Domain != game.DomainLand || !u.HasMovement() {
		return false
	}
	coords, reachable := sortedReachable(w, u)
	var best *world.Tile
	for _, c := range coords {
		t := w.Map.Get(c)
		if reachable[c] <= game.MovementEpsilon || !w.CanPillage(u, t) {
			continue
		}
		if c != u.Pos && !w.CanStopOn(u, t) {
			continue
		}
		if best == nil || t.Terrain.DefenseBonus() > best.Terrain.DefenseBonus() {
			best = t
		}
	}
	if best == nil {
		return false
	}
	if err := w.MoveUnit(u, best.Coord); err != nil {
		ctx.Log.Debug().Err(err).Str("unit", u.Type.Name).Msg("pillage move failed")
		return false
	}
	if err := w.Pillage(u); err != nil {
		ctx.Log.Debug().Err(err).Str("unit", u.Type.Name).Msg("pillage failed")
		return true
	}
	ctx.record("pillage", u.Type.Name, best.Coord.String(), float64(u.Health))
	return true
}

// healingRank mirrors the healing a tile gives at the end of the turn.
func healingRank(f *game.Faction, t *world.Tile) int {
	switch {
	case t.CityCenter && game.FactionID(t.Owner) == f.ID:
		return 20
	case game.FactionID(t.Owner) == f.ID:
		return 10
	}
	return 5
}

// tryHeal moves to the reachable tile that heals the most and fortifies.
// Pillaging heals immediately, so it goes first.
func (ctrl *Controller) tryHeal(u *game.Unit) bool {
	ctx := ctrl.ctx
	w := ctx.World
	if ctrl.tryPillage(u) {
		ctrl.set(u, StateHealing)
		return true
	}
	coords, _ := sortedReachable(w, u)
	var best *world.Tile
	bestRank := -1
	for _, c := range coords {
		t := w.Map.Get(c)
		if c != u.Pos && !w.CanStopOn(u, t) {
			continue
		}
		if ctrl.enemyAdjacent(t.Coord) {
			continue
		}
		rank := healingRank(ctx.Faction, t)
		if rank > bestRank || (rank == bestRank && t.Terrain.DefenseBonus() > best.Terrain.DefenseBonus()) {
			best, bestRank = t, rank
		}
	}
	if best == nil {
		return false
	}
	if best.Coord != u.Pos {
		if err := w.MoveUnit(u, best.Coord); err != nil {
			ctx.Log.Debug().Err(err).Str("unit", u.Type.Name).Msg("heal move failed")
			return false
		}
	}
	ctrl.fortify(u)
	ctrl.set(u, StateHealing)
	ctx.record("heal", u.Type.Name, best.Coord.String(), float64(bestRank))
	return true
}

func (ctrl *Controller) enemyAdjacent(coord world.HexCoord) bool {
	w := ctrl.ctx.World
	for _, t := range w.Map.Neighbors(coord) {
		if e := w.MilitaryUnitAt(t.Coord); e != nil && ctrl.ctx.Faction.AtWarWith(w.Faction(e.Owner)) {
			return true
		}
	}
	return false
}

// tryAccompanyCivilian sends a military unit to an own settler or great
// person that stands alone.
func (ctrl *Controller) tryAccompanyCivilian(u *game.Unit) bool {
	ctx := ctrl.ctx
	w := ctx.World
	if u.Type.Domain != game.DomainLand || u.Embarked || !u.HasMovement() {
		return false
	}
	// A unit already escorting stays put.
	if civ := w.CivilianAt(u.Pos); civ != nil && civ.Owner == u.Owner && needsEscort(civ) {
		return true
	}
	var target *game.Unit
	bestTurns := 0
	for _, civ := range w.UnitsOf(u.Owner) {
		if !needsEscort(civ) || w.MilitaryUnitAt(civ.Pos) != nil {
			continue
		}
		if world.Distance(u.Pos, civ.Pos) > EscortRadius {
			continue
		}
		turns := w.TurnsTo(u, civ.Pos)
		if turns < 0 {
			continue
		}
		if target == nil || turns < bestTurns {
			target, bestTurns = civ, turns
		}
	}
	if target == nil {
		return false
	}
	if _, err := w.HeadTowards(u, target.Pos); err != nil {
		ctx.Log.Debug().Err(err).Str("unit", u.Type.Name).Msg("escort move failed")
		return false
	}
	ctx.record("escort", u.Type.Name, target.Type.Name, float64(bestTurns))
	return true
}

// EscortRadius bounds how far a military unit goes to pick up a civilian.
const EscortRadius = 6

func needsEscort(u *game.Unit) bool {
	return u.Type.Category == game.CategorySettler || u.Type.Category == game.CategoryGreatPerson
}

// tryGarrison moves a land unit into an own city without a defender. A unit
// already in a city stays there in peacetime.
func (ctrl *Controller) tryGarrison(u *game.Unit) bool {
	ctx := ctrl.ctx
	w := ctx.World
	if u.Type.Domain != game.DomainLand {
		return false
	}
	if c := w.CityAt(u.Pos); c != nil && c.Owner == u.Owner && !ctx.Faction.AtWar() {
		return ctrl.fortify(u)
	}
	if u.Type.IsMelee() {
		return false
	}
	var target *game.City
	bestTurns := 0
	for _, c := range w.CitiesOf(u.Owner) {
		if w.MilitaryUnitAt(c.Center) != nil {
			continue
		}
		turns := w.TurnsTo(u, c.Center)
		if turns < 0 {
			continue
		}
		if target == nil || turns < bestTurns {
			target, bestTurns = c, turns
		}
	}
	if target == nil {
		return false
	}
	if _, err := w.HeadTowards(u, target.Center); err != nil {
		ctx.Log.Debug().Err(err).Str("unit", u.Type.Name).Msg("garrison move failed")
		return false
	}
	if u.Pos == target.Center {
		ctrl.fortify(u)
	}
	ctx.record("garrison", u.Type.Name, target.Name, float64(bestTurns))
	return true
}

// CloseEnemyRadius is how far a unit looks for enemies to close in on.
const CloseEnemyRadius = 5

// tryAdvanceTowardsCloseEnemy heads towards the nearest enemy within
// CloseEnemyRadius that can be approached.
func (ctrl *Controller) tryAdvanceTowardsCloseEnemy(u *game.Unit) bool {
	ctx := ctrl.ctx
	w := ctx.World
	if !u.HasMovement() {
		return false
	}
	var targets []world.HexCoord
	for _, t := range w.Map.TilesInDistance(u.Pos, CloseEnemyRadius) {
		if t.Coord == u.Pos || !w.IsEnemyTile(ctx.Faction, t.Coord) {
			continue
		}
		if t.CityCenter {
			c := w.CityAt(t.Coord)
			if !u.Type.CanTargetCity() || (u.Type.IsRanged() && c.Health <= 1) {
				continue
			}
		}
		if !u.Type.CanTargetTile(t) {
			continue
		}
		targets = append(targets, t.Coord)
	}
	slices.SortStableFunc(targets, func(a, b world.HexCoord) int {
		return cmp.Compare(world.Distance(u.Pos, a), world.Distance(u.Pos, b))
	})
	for _, target := range targets {
		if ctrl.approach(u, target) {
			ctx.record("advance", u.Type.Name, target.String(), float64(world.Distance(u.Pos, target)))
			return true
		}
	}
	return false
}

// approach heads towards a tile next to target, nearest first. It reports
// false when no such tile can be reached.
func (ctrl *Controller) approach(u *game.Unit, target world.HexCoord) bool {
	w := ctrl.ctx.World
	if world.Distance(u.Pos, target) <= 1 {
		return false
	}
	near := w.Map.Neighbors(target)
	slices.SortStableFunc(near, func(a, b *world.Tile) int {
		return cmp.Compare(world.Distance(u.Pos, a.Coord), world.Distance(u.Pos, b.Coord))
	})
	for _, t := range near {
		if !w.CanStopOn(u, t) || !w.CanReach(u, t.Coord) {
			continue
		}
		if _, err := w.HeadTowards(u, t.Coord); err != nil {
			ctrl.ctx.Log.Debug().Err(err).Str("unit", u.Type.Name).Msg("approach failed")
			return false
		}
		return true
	}
	return false
}

// SiegeTurns is how many turns of bombardment an attack on a city plans for.
const SiegeTurns = 3

// tryHeadTowardsEnemyCity marches on the enemy city closest to our own
// cities. Next to the city it waits until the units around could bring it
// down within SiegeTurns.
func (ctrl *Controller) tryHeadTowardsEnemyCity(u *game.Unit) bool {
	ctx := ctrl.ctx
	w := ctx.World
	f := ctx.Faction
	if !f.AtWar() || !u.Type.CanTargetCity() || !u.HasMovement() {
		return false
	}
	own := w.CitiesOf(f.ID)
	if len(own) == 0 {
		return false
	}
	var targets []*game.City
	for _, c := range w.Cities() {
		if f.AtWarWith(w.Faction(c.Owner)) {
			if u.Type.IsRanged() && c.Health <= 1 {
				continue
			}
			targets = append(targets, c)
		}
	}
	distanceToUs := func(c *game.City) int {
		d := -1
		for _, o := range own {
			if x := world.Distance(o.Center, c.Center); d < 0 || x < d {
				d = x
			}
		}
		return d
	}
	slices.SortStableFunc(targets, func(a, b *game.City) int {
		return cmp.Compare(distanceToUs(a), distanceToUs(b))
	})

	for _, c := range targets {
		if world.Distance(u.Pos, c.Center) <= u.Type.AttackRange()+1 && !ctrl.canTakeCity(c) {
			// Hold position until reinforcements arrive.
			return true
		}
		if ctrl.approach(u, c.Center) {
			ctx.record("march", u.Type.Name, c.Name, float64(world.Distance(u.Pos, c.Center)))
			return true
		}
	}
	return false
}

// canTakeCity estimates whether our units near c could wear it down
// within SiegeTurns.
func (ctrl *Controller) canTakeCity(c *game.City) bool {
	w := ctrl.ctx.World
	var damage int
	for _, t := range w.Map.TilesInDistance(c.Center, 3) {
		e := w.MilitaryUnitAt(t.Coord)
		if e == nil || e.Owner != ctrl.ctx.Faction.ID {
			continue
		}
		// Cities heal about 20 a turn.
		damage += max(0, w.PredictDamage(e, c.Center).ToTarget-20)
	}
	return float64(damage*SiegeTurns) > c.Health
}

// explore heads to a random unclaimed tile within CloseEnemyRadius.
func (ctrl *Controller) explore(u *game.Unit) bool {
	ctx := ctrl.ctx
	w := ctx.World
	if !u.HasMovement() {
		return false
	}
	var frontier []world.HexCoord
	for _, t := range w.Map.TilesInDistance(u.Pos, CloseEnemyRadius) {
		if t.Owner != 0 || t.Coord == u.Pos || !w.CanStopOn(u, t) {
			continue
		}
		if u.Type.Domain == game.DomainLand && !t.IsLand() {
			continue
		}
		frontier = append(frontier, t.Coord)
	}
	for len(frontier) > 0 {
		i := ctx.Rng.Intn(len(frontier))
		dest := frontier[i]
		if w.CanReach(u, dest) {
			if _, err := w.HeadTowards(u, dest); err == nil {
				ctx.record("explore", u.Type.Name, dest.String(), 0)
				return true
			}
		}
		frontier = slices.Delete(frontier, i, i+1)
	}
	return false
}

// wander moves to a random reachable tile, preferring the ones that use up
// all movement. Factions other than barbarians wander inside their own
// borders and fortify when there is nowhere to go.
func (ctrl *Controller) wander(u *game.Unit) bool {
	ctx := ctrl.ctx
	w := ctx.World
	f := ctx.Faction
	if !u.HasMovement() {
		return false
	}
	coords, reachable := sortedReachable(w, u)
	var far, near []world.HexCoord
	for _, c := range coords {
		t := w.Map.Get(c)
		if c == u.Pos || !w.CanStopOn(u, t) {
			continue
		}
		if !f.Barbarian && game.FactionID(t.Owner) != f.ID {
			continue
		}
		if u.Type.Domain == game.DomainLand && t.IsWater() {
			continue
		}
		if reachable[c] <= game.MovementEpsilon {
			far = append(far, c)
		} else {
			near = append(near, c)
		}
	}
	pool := far
	if len(pool) == 0 {
		pool = near
	}
	if len(pool) == 0 {
		if !f.Barbarian {
			return ctrl.fortify(u)
		}
		return false
	}
	dest := entropy.Pick(ctx.Rng, pool)
	if err := w.MoveUnit(u, dest); err != nil {
		ctx.Log.Debug().Err(err).Str("unit", u.Type.Name).Msg("wander failed")
		return false
	}
	return true
}
