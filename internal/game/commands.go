package game

import (
	"fmt"

	"github.com/talgya/autociv/internal/world"
)

// MinCityDistance is the closest two city centers may be.
const MinCityDistance = 3

// PillageHeal is the health a unit recovers by pillaging.
const PillageHeal = 25

// CampBounty is the gold for clearing a barbarian encampment.
const CampBounty = 25

// MoveUnit moves u to dest using this turn's movement.
func (w *World) MoveUnit(u *Unit, dest world.HexCoord) error {
	if u.Pos == dest {
		return nil
	}
	if !u.HasMovement() {
		return fmt.Errorf("move %s: %w", u.Type.Name, ErrNoMovement)
	}
	left, ok := w.ReachableThisTurn(u)[dest]
	if !ok {
		return fmt.Errorf("move %s to %v: %w", u.Type.Name, dest, ErrNotReachable)
	}
	t := w.Map.Get(dest)
	if !w.CanStopOn(u, t) {
		return fmt.Errorf("move %s to %v: %w", u.Type.Name, dest, ErrNotReachable)
	}
	w.relocate(u, t)
	u.MovementLeft = left
	return nil
}

func (w *World) relocate(u *Unit, t *world.Tile) {
	w.lift(u)
	w.place(u, t)
	u.Fortified = false
	u.SetUp = false
	u.Job = world.ImprovementNone
	u.JobRoute = false
	u.JobTurns = 0
	if t.Encampment && u.IsMilitary() && !w.Faction(u.Owner).Barbarian {
		t.Encampment = false
		f := w.Faction(u.Owner)
		f.Gold += CampBounty
		w.emit(f.ID, "combat", "%s cleared a barbarian encampment at %v", f.Name, t.Coord)
	}
}

// HeadTowards moves u as far along its path to dest as this turn allows and
// returns where it ended up.
func (w *World) HeadTowards(u *Unit, dest world.HexCoord) (world.HexCoord, error) {
	if u.Pos == dest {
		return u.Pos, nil
	}
	if !u.HasMovement() {
		return u.Pos, fmt.Errorf("head %s towards %v: %w", u.Type.Name, dest, ErrNoMovement)
	}
	path := w.PathTo(u, dest)
	if path == nil {
		return u.Pos, fmt.Errorf("head %s towards %v: %w", u.Type.Name, dest, ErrNotReachable)
	}
	reachable := w.ReachableThisTurn(u)
	for i := len(path) - 1; i >= 0; i-- {
		if _, ok := reachable[path[i]]; !ok {
			continue
		}
		if !w.CanStopOn(u, w.Map.Get(path[i])) {
			continue
		}
		if err := w.MoveUnit(u, path[i]); err != nil {
			return u.Pos, err
		}
		return u.Pos, nil
	}
	return u.Pos, fmt.Errorf("head %s towards %v: %w", u.Type.Name, dest, ErrNotReachable)
}

// CanAttackFrom reports whether u standing on from may hit target under the
// range, domain and target-kind rules. Diplomacy is not checked.
func (w *World) CanAttackFrom(u *Unit, from, target world.HexCoord) bool {
	if u.Type.IsCivilian() || from == target {
		return false
	}
	if world.Distance(from, target) > u.Type.AttackRange() {
		return false
	}
	t := w.Map.Get(target)
	if t == nil || !u.Type.CanTargetTile(t) {
		return false
	}
	// Embarked units cannot attack.
	if ft := w.Map.Get(from); ft == nil || (u.Type.Domain == DomainLand && ft.IsWater()) {
		return false
	}
	if c := w.CityAt(target); c != nil {
		if u.Type.CanTargetCity() {
			return true
		}
		return w.aircraftTarget(u, target) != nil
	}
	d := w.MilitaryUnitAt(target)
	if d == nil {
		civ := w.CivilianAt(target)
		if civ == nil || !u.Type.IsMelee() {
			return false
		}
		return w.canCaptureOn(u, t)
	}
	if !u.Type.CanTargetUnit(d.Type) {
		return false
	}
	if d.Type.Invisible && !u.Type.DetectsInvisible && !t.CityCenter {
		return false
	}
	if u.Type.IsMelee() {
		// Melee attackers fight across the boundary of their own domain only
		// when they could take the tile.
		if u.Type.Domain == DomainLand && t.IsWater() {
			return false
		}
		if u.Type.Domain == DomainWater && t.IsLand() {
			return false
		}
	}
	return true
}

// aircraftTarget returns the weakest enemy aircraft based on target that u
// may strike, or nil. Only units restricted to aircraft attack them.
func (w *World) aircraftTarget(u *Unit, target world.HexCoord) *Unit {
	if len(u.Type.OnlyAttacks) == 0 {
		return nil
	}
	f := w.Faction(u.Owner)
	var best *Unit
	for _, a := range w.AirUnitsAt(target) {
		if !u.Type.CanTargetUnit(a.Type) || !f.AtWarWith(w.Faction(a.Owner)) {
			continue
		}
		if best == nil || a.Health < best.Health {
			best = a
		}
	}
	return best
}

func (w *World) canCaptureOn(u *Unit, t *world.Tile) bool {
	if t.IsImpassable() || t.MilitaryUnit != 0 {
		return false
	}
	switch u.Type.Domain {
	case DomainLand:
		return t.IsLand()
	case DomainWater:
		return t.IsWater()
	}
	return false
}

// IsEnemyTile reports whether target holds a city or unit of a faction f is
// at war with.
func (w *World) IsEnemyTile(f *Faction, target world.HexCoord) bool {
	if c := w.CityAt(target); c != nil {
		return f.AtWarWith(w.Faction(c.Owner))
	}
	if d := w.MilitaryUnitAt(target); d != nil {
		return f.AtWarWith(w.Faction(d.Owner))
	}
	if d := w.CivilianAt(target); d != nil {
		return f.AtWarWith(w.Faction(d.Owner))
	}
	return false
}

// MoveAndAttack moves u to from, then attacks target.
func (w *World) MoveAndAttack(u *Unit, from, target world.HexCoord) error {
	if from != u.Pos {
		if err := w.MoveUnit(u, from); err != nil {
			return fmt.Errorf("move to attack: %w", err)
		}
	}
	return w.Attack(u, target)
}

// Attack resolves one attack from u's tile against target using the
// expected damage.
func (w *World) Attack(u *Unit, target world.HexCoord) error {
	f := w.Faction(u.Owner)
	switch {
	case u.AttacksLeft <= 0 || !u.HasMovement():
		return fmt.Errorf("attack %v: %w", target, ErrNoMovement)
	case !w.CanAttackFrom(u, u.Pos, target) || !w.IsEnemyTile(f, target):
		return fmt.Errorf("attack %v: %w", target, ErrInvalidTarget)
	}
	if u.Type.MustSetUp && !u.SetUp {
		u.MovementLeft--
		u.SetUp = true
		if !u.HasMovement() {
			return fmt.Errorf("set up %s: %w", u.Type.Name, ErrNoMovement)
		}
	}

	p := w.PredictDamage(u, target)
	t := w.Map.Get(target)
	u.AttacksLeft--
	u.Acted = true
	u.Fortified = false
	u.MovementLeft = 0
	u.Health -= p.ToAttacker

	switch c, d, civ := w.CityAt(target), w.MilitaryUnitAt(target), w.CivilianAt(target); {
	case c != nil && !u.Type.CanTargetCity():
		if a := w.aircraftTarget(u, target); a != nil {
			a.Health -= p.ToTarget
			w.emit(f.ID, "combat", "%s %s struck %s over %s for %d", f.Name, u.Type.Name, a.Type.Name, c.Name, p.ToTarget)
			if a.Health <= 0 {
				w.removeUnit(a)
			}
		}
	case c != nil:
		c.Health -= float64(p.ToTarget)
		w.emit(f.ID, "combat", "%s %s attacked %s for %d", f.Name, u.Type.Name, c.Name, p.ToTarget)
		if p.Capture && u.Type.IsMelee() && u.Health > 0 {
			w.captureCity(c, u)
		}
	case d != nil:
		d.Health -= p.ToTarget
		d.Fortified = false
		if d.Health <= 0 {
			w.emit(f.ID, "combat", "%s %s destroyed %s %s", f.Name, u.Type.Name, w.Faction(d.Owner).Name, d.Type.Name)
			w.removeUnit(d)
			if civ := w.CivilianAt(target); civ != nil && u.Type.IsMelee() {
				w.captureCivilian(civ, u)
			}
			if u.Type.IsMelee() && u.Health > 0 && w.CanStopOn(u, t) {
				w.relocate(u, t)
			}
		}
	case civ != nil:
		w.captureCivilian(civ, u)
		if u.Health > 0 && w.CanStopOn(u, t) {
			w.relocate(u, t)
		}
	}

	if u.Health <= 0 || u.Type.Consumed {
		w.removeUnit(u)
	}
	return nil
}

func (w *World) captureCivilian(civ, captor *Unit) {
	f := w.Faction(captor.Owner)
	cat := civ.Type.Category
	if f.Barbarian || (cat != CategoryWorker && cat != CategorySettler && cat != CategoryWorkBoat) {
		w.emit(f.ID, "combat", "%s destroyed a %s", f.Name, civ.Type.Name)
		w.removeUnit(civ)
		return
	}
	civ.Owner = f.ID
	civ.MovementLeft = 0
	civ.Job = world.ImprovementNone
	w.emit(f.ID, "combat", "%s captured a %s", f.Name, civ.Type.Name)
}

func (w *World) captureCity(c *City, captor *Unit) {
	old := w.Faction(c.Owner)
	f := w.Faction(captor.Owner)
	for _, o := range []*Unit{w.MilitaryUnitAt(c.Center), w.CivilianAt(c.Center)} {
		if o != nil {
			w.removeUnit(o)
		}
	}
	for _, a := range w.AirUnitsAt(c.Center) {
		w.removeUnit(a)
	}
	if f.Barbarian || c.Population <= 1 {
		w.emit(f.ID, "city", "%s razed %s", f.Name, c.Name)
		w.destroyCity(c)
	} else {
		c.Owner = f.ID
		c.Population = max(1, c.Population/2)
		c.Health = c.MaxHealth / 4
		c.Construction = ""
		clear(c.Progress)
		for _, t := range w.CityTiles(c) {
			t.Owner = uint64(f.ID)
		}
		w.autoAssignWorked(c)
		w.emit(f.ID, "city", "%s captured %s from %s", f.Name, c.Name, old.Name)
	}
	if old.Capital == c.ID {
		old.Capital = 0
		if rest := w.CitiesOf(old.ID); len(rest) > 0 {
			old.Capital = rest[0].ID
		}
	}
	if t := w.Map.Get(c.Center); t != nil && w.CanStopOn(captor, t) {
		w.relocate(captor, t)
	}
}

func (w *World) destroyCity(c *City) {
	for _, t := range w.CityTiles(c) {
		t.Owner = 0
		t.City = 0
		t.CityCenter = false
	}
	delete(w.cities, c.ID)
	for i, id := range w.cityOrder {
		if id == c.ID {
			w.cityOrder = append(w.cityOrder[:i], w.cityOrder[i+1:]...)
			break
		}
	}
}

// Fortify digs a military unit in for the rest of the turn and beyond.
func (w *World) Fortify(u *Unit) error {
	if !u.IsMilitary() || u.Type.IsAir() {
		return fmt.Errorf("fortify %s: %w", u.Type.Name, ErrInvalidTarget)
	}
	u.Fortified = true
	u.MovementLeft = 0
	return nil
}

// Pillage destroys the improvement under u, which must stand in territory
// of a faction it is at war with, and heals it.
func (w *World) Pillage(u *Unit) error {
	t := w.Map.Get(u.Pos)
	if !u.IsMilitary() || !u.HasMovement() {
		return fmt.Errorf("pillage: %w", ErrNoMovement)
	}
	if !w.CanPillage(u, t) {
		return fmt.Errorf("pillage %v: %w", t.Coord, ErrInvalidTarget)
	}
	t.Pillaged = true
	u.Health = min(100, u.Health+PillageHeal)
	u.MovementLeft = max(0, u.MovementLeft-1)
	u.Acted = true
	w.emit(u.Owner, "combat", "%s pillaged %s at %v", w.Faction(u.Owner).Name, t.Improvement, t.Coord)
	return nil
}

// CanPillage reports whether u may pillage t.
func (w *World) CanPillage(u *Unit, t *world.Tile) bool {
	if t == nil || !t.HasImprovement() || t.Owner == 0 || t.CityCenter {
		return false
	}
	return w.Faction(u.Owner).AtWarWith(w.Faction(FactionID(t.Owner)))
}

// UpgradeCost is the gold needed to upgrade u.
func UpgradeCost(u *Unit) int {
	next := UnitTypes[u.Type.UpgradesTo]
	if next == nil {
		return 0
	}
	return (next.Cost-u.Type.Cost)*2 + 10
}

// CanUpgrade reports whether u could upgrade now, gold aside.
func (w *World) CanUpgrade(u *Unit) bool {
	next := UnitTypes[u.Type.UpgradesTo]
	if next == nil {
		return false
	}
	f := w.Faction(u.Owner)
	if !f.HasTech(next.RequiredTech) {
		return false
	}
	if next.RequiresResource != "" && f.Resources[next.RequiresResource] <= 0 {
		return false
	}
	t := w.Map.Get(u.Pos)
	return f.Barbarian || FactionID(t.Owner) == f.ID
}

// Upgrade replaces u's type with its upgrade for gold.
func (w *World) Upgrade(u *Unit) error {
	if !w.CanUpgrade(u) {
		return fmt.Errorf("upgrade %s: %w", u.Type.Name, ErrNotAvailable)
	}
	f := w.Faction(u.Owner)
	cost := float64(UpgradeCost(u))
	if !f.Barbarian && f.Gold < cost {
		return fmt.Errorf("upgrade %s: %w", u.Type.Name, ErrCannotAfford)
	}
	if !f.Barbarian {
		f.Gold -= cost
	}
	u.Type = UnitTypes[u.Type.UpgradesTo]
	u.MovementLeft = 0
	u.AttacksLeft = 0
	return nil
}

// CanFoundCity reports whether a city may stand on coord.
func (w *World) CanFoundCity(coord world.HexCoord) error {
	t := w.Map.Get(coord)
	if t == nil || !t.IsLand() || t.IsImpassable() {
		return ErrInvalidTile
	}
	for _, n := range w.Map.TilesInDistance(coord, MinCityDistance) {
		if n.CityCenter {
			return ErrCityTooClose
		}
	}
	return nil
}

// FoundCity turns a settler into a city on its tile.
func (w *World) FoundCity(u *Unit) (*City, error) {
	if u.Type.Category != CategorySettler {
		return nil, fmt.Errorf("found city with %s: %w", u.Type.Name, ErrInvalidTarget)
	}
	if !u.HasMovement() {
		return nil, fmt.Errorf("found city: %w", ErrNoMovement)
	}
	if err := w.CanFoundCity(u.Pos); err != nil {
		return nil, fmt.Errorf("found city at %v: %w", u.Pos, err)
	}
	t := w.Map.Get(u.Pos)
	if t.Owner != 0 && FactionID(t.Owner) != u.Owner {
		return nil, fmt.Errorf("found city at %v: %w", u.Pos, ErrNotOwner)
	}
	pos := u.Pos
	w.removeUnit(u)
	return w.AddCity(u.Owner, pos)
}

// BuildImprovement starts or continues a worker job on u's tile.
func (w *World) BuildImprovement(u *Unit, imp world.Improvement) error {
	if u.Type.Category != CategoryWorker && u.Type.Category != CategoryWorkBoat {
		return fmt.Errorf("build %s: %w", imp, ErrInvalidTarget)
	}
	t := w.Map.Get(u.Pos)
	f := w.Faction(u.Owner)
	if t.Owner != 0 && FactionID(t.Owner) != u.Owner {
		return fmt.Errorf("build %s at %v: %w", imp, t.Coord, ErrNotOwner)
	}
	info, ok := world.Improvements[imp]
	if !ok || !t.CanBuild(imp) || !f.HasTech(info.Tech) {
		return fmt.Errorf("build %s at %v: %w", imp, t.Coord, ErrNotAvailable)
	}
	if (u.Type.Domain == DomainWater) != t.IsWater() {
		return fmt.Errorf("build %s at %v: %w", imp, t.Coord, ErrInvalidTile)
	}
	if u.Job == imp && !u.JobRoute {
		u.MovementLeft = 0
		return nil
	}
	if t.Improvement == imp && !t.Pillaged {
		return fmt.Errorf("build %s at %v: %w", imp, t.Coord, ErrInvalidTarget)
	}
	u.Job, u.JobRoute = imp, false
	u.JobTurns = info.BuildTurns
	if t.Improvement == imp && t.Pillaged {
		u.JobTurns = 1
	}
	if u.Type.Domain == DomainWater {
		u.JobTurns = 0
	}
	u.MovementLeft = 0
	if u.JobTurns == 0 {
		w.finishJob(u)
	}
	return nil
}

// RailroadTech turns roads into railroads.
const RailroadTech = "Refrigeration"

// BuildRoute starts or continues a route job on u's tile.
func (w *World) BuildRoute(u *Unit) error {
	if u.Type.Category != CategoryWorker {
		return fmt.Errorf("build route: %w", ErrInvalidTarget)
	}
	t := w.Map.Get(u.Pos)
	f := w.Faction(u.Owner)
	target := world.RouteRoad
	if f.HasTech(RailroadTech) {
		target = world.RouteRailroad
	}
	if t.IsWater() || t.Route >= target {
		return fmt.Errorf("build route at %v: %w", t.Coord, ErrInvalidTarget)
	}
	if u.JobRoute {
		u.MovementLeft = 0
		return nil
	}
	u.Job, u.JobRoute = world.ImprovementNone, true
	u.JobTurns = 3
	u.MovementLeft = 0
	return nil
}

func (w *World) finishJob(u *Unit) {
	t := w.Map.Get(u.Pos)
	if u.JobRoute {
		t.Route++
		w.emit(u.Owner, "work", "%s built a %s at %v", w.Faction(u.Owner).Name, t.Route, t.Coord)
	} else if u.Job != world.ImprovementNone {
		t.Improvement = u.Job
		t.Pillaged = false
		w.emit(u.Owner, "work", "%s built a %s at %v", w.Faction(u.Owner).Name, u.Job, t.Coord)
		if u.Type.Category == CategoryWorkBoat {
			w.removeUnit(u)
			return
		}
	}
	u.Job, u.JobRoute, u.JobTurns = world.ImprovementNone, false, 0
}

// JoinCity settles a civilian specialist into a city as an extra citizen.
func (w *World) JoinCity(u *Unit, c *City) error {
	if u.Type.Category != CategoryGreatPerson || c.Owner != u.Owner {
		return fmt.Errorf("join %s: %w", c.Name, ErrInvalidTarget)
	}
	if u.Pos != c.Center {
		return fmt.Errorf("join %s: %w", c.Name, ErrNotReachable)
	}
	w.removeUnit(u)
	c.Population++
	c.Specialists++
	w.RefreshStats(c)
	return nil
}

// Rebase flies an aircraft to another own city within its range.
func (w *World) Rebase(u *Unit, c *City) error {
	if !u.Type.IsAir() || c.Owner != u.Owner {
		return fmt.Errorf("rebase to %s: %w", c.Name, ErrInvalidTarget)
	}
	if !u.HasMovement() {
		return fmt.Errorf("rebase: %w", ErrNoMovement)
	}
	if world.Distance(u.Pos, c.Center) > u.Type.Range {
		return fmt.Errorf("rebase to %s: %w", c.Name, ErrNotReachable)
	}
	w.lift(u)
	w.place(u, w.Map.Get(c.Center))
	u.MovementLeft = 0
	return nil
}

// UnderSiege reports whether an enemy military unit stands within two tiles.
func (w *World) UnderSiege(c *City) bool {
	f := w.Faction(c.Owner)
	for _, t := range w.Map.TilesInDistance(c.Center, 2) {
		if e := w.MilitaryUnitAt(t.Coord); e != nil && f.AtWarWith(w.Faction(e.Owner)) {
			return true
		}
	}
	return false
}

// DeclareWar puts a and b at war and breaks their agreements.
func (w *World) DeclareWar(a, b FactionID) error {
	fa, fb := w.Faction(a), w.Faction(b)
	if fa == nil || fb == nil || a == b {
		return fmt.Errorf("declare war: %w", ErrInvalidTarget)
	}
	for _, r := range []*Relation{fa.Relation(b), fb.Relation(a)} {
		r.Status = StatusWar
		r.OpenBorders = false
		r.AgreedNotToSettle = false
	}
	w.emit(a, "war", "%s declared war on %s", fa.Name, fb.Name)
	return nil
}

// MakePeace ends a war between a and b.
func (w *World) MakePeace(a, b FactionID) {
	w.Faction(a).Relation(b).Status = StatusPeace
	w.Faction(b).Relation(a).Status = StatusPeace
	w.emit(a, "war", "%s made peace with %s", w.Faction(a).Name, w.Faction(b).Name)
}

// TradeResources sets up a standing one-for-one swap of resources.
func (w *World) TradeResources(a, b FactionID, give, receive string) error {
	fa, fb := w.Faction(a), w.Faction(b)
	if fa == nil || fb == nil || !fa.Knows(b) || fa.AtWarWith(fb) {
		return fmt.Errorf("trade with %d: %w", b, ErrInvalidTarget)
	}
	if fa.Resources[give] <= 0 || fb.Resources[receive] <= 0 {
		return fmt.Errorf("trade %s for %s: %w", give, receive, ErrNotAvailable)
	}
	fa.Trades = append(fa.Trades, Trade{With: b, Give: give, Receive: receive})
	fb.Trades = append(fb.Trades, Trade{With: a, Give: receive, Receive: give})
	fa.Resources[give]--
	fa.Resources[receive]++
	fb.Resources[receive]--
	fb.Resources[give]++
	w.emit(a, "trade", "%s traded %s to %s for %s", fa.Name, give, fb.Name, receive)
	return nil
}
