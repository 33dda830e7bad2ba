package game

import (
	"errors"
	"math"
	"testing"

	"github.com/talgya/autociv/internal/world"
)

func newTestWorld(t *testing.T) (*World, *Faction, *Faction) {
	t.Helper()
	w := New(world.FilledMap(6, world.TerrainGrassland))
	a := w.AddFaction("Alpha", VictoryNeutral)
	b := w.AddFaction("Beta", VictoryDomination)
	w.Meet(a.ID, b.ID)
	return w, a, b
}

func mustSpawn(t *testing.T, w *World, f FactionID, name string, at world.HexCoord) *Unit {
	t.Helper()
	u, err := w.SpawnUnit(f, name, at)
	if err != nil {
		t.Fatalf("SpawnUnit(%s, %v): %v", name, at, err)
	}
	if u.Pos != at {
		t.Fatalf("SpawnUnit(%s) placed at %v, want %v", name, u.Pos, at)
	}
	return u
}

func TestReachableThisTurn(t *testing.T) {
	w, a, _ := newTestWorld(t)
	u := mustSpawn(t, w, a.ID, UnitWarrior, world.HexCoord{})

	got := w.ReachableThisTurn(u)
	if left := got[world.HexCoord{Q: 1}]; left != 1 {
		t.Errorf("left at distance 1 = %v, want 1", left)
	}
	if left, ok := got[world.HexCoord{Q: 2}]; !ok || left != 0 {
		t.Errorf("left at distance 2 = %v (%v), want 0", left, ok)
	}
	if _, ok := got[world.HexCoord{Q: 3}]; ok {
		t.Error("distance 3 reachable with 2 movement")
	}
}

func TestMoveCost(t *testing.T) {
	w, a, _ := newTestWorld(t)
	u := mustSpawn(t, w, a.ID, UnitWarrior, world.HexCoord{})
	get := func(q, r int) *world.Tile { return w.Map.Get(world.HexCoord{Q: q, R: r}) }

	get(1, 0).Terrain = world.TerrainHills
	if c := MoveCost(u, get(0, 0), get(1, 0)); c != 2 {
		t.Errorf("MoveCost(hills) = %v, want 2", c)
	}
	for _, c := range []world.HexCoord{{Q: 0}, {Q: 1}, {Q: 2}} {
		w.Map.Get(c).Route = world.RouteRoad
	}
	if c := MoveCost(u, get(0, 0), get(1, 0)); math.Abs(c-1.0/3) > 1e-9 {
		t.Errorf("MoveCost(road) = %v, want 1/3", c)
	}
	left := w.ReachableThisTurn(u)[world.HexCoord{Q: 2}]
	if math.Abs(left-(2-2.0/3)) > 1e-9 {
		t.Errorf("left after two road steps = %v, want %v", left, 2-2.0/3)
	}
}

func TestEmbarkNeedsTech(t *testing.T) {
	w, a, _ := newTestWorld(t)
	u := mustSpawn(t, w, a.ID, UnitWarrior, world.HexCoord{})
	water := world.HexCoord{Q: 1}
	w.Map.Get(water).Terrain = world.TerrainCoast

	if _, ok := w.ReachableThisTurn(u)[water]; ok {
		t.Fatal("water reachable without embarking tech")
	}
	a.Techs[EmbarkTech] = true
	left, ok := w.ReachableThisTurn(u)[water]
	if !ok || left != 0 {
		t.Errorf("embark left = %v (%v), want 0", left, ok)
	}
	if err := w.MoveUnit(u, water); err != nil {
		t.Fatalf("MoveUnit: %v", err)
	}
	if !u.Embarked {
		t.Error("unit on water not embarked")
	}
}

func TestTerritoryRule(t *testing.T) {
	w, a, b := newTestWorld(t)
	u := mustSpawn(t, w, a.ID, UnitWarrior, world.HexCoord{})
	foreign := w.Map.Get(world.HexCoord{Q: 1})
	foreign.Owner = uint64(b.ID)

	if w.CanPassThrough(u, foreign) {
		t.Error("entered foreign territory at peace without open borders")
	}
	a.Relation(b.ID).OpenBorders = true
	if !w.CanPassThrough(u, foreign) {
		t.Error("blocked despite open borders")
	}
	a.Relation(b.ID).OpenBorders = false
	if err := w.DeclareWar(a.ID, b.ID); err != nil {
		t.Fatal(err)
	}
	if !w.CanPassThrough(u, foreign) {
		t.Error("blocked at war")
	}
}

func TestFoundCityDistance(t *testing.T) {
	w, a, b := newTestWorld(t)
	if _, err := w.AddCity(a.ID, world.HexCoord{}); err != nil {
		t.Fatal(err)
	}
	near := mustSpawn(t, w, b.ID, UnitSettler, world.HexCoord{Q: 3})
	if _, err := w.FoundCity(near); !errors.Is(err, ErrCityTooClose) {
		t.Errorf("FoundCity at distance 3 = %v, want ErrCityTooClose", err)
	}
	far := mustSpawn(t, w, b.ID, UnitSettler, world.HexCoord{Q: 4, R: -1})
	c, err := w.FoundCity(far)
	if err != nil {
		t.Fatalf("FoundCity at distance 4: %v", err)
	}
	if b.Capital != c.ID {
		t.Errorf("first city is not the capital")
	}
	if w.Unit(far.ID) != nil {
		t.Error("settler survived founding")
	}
}

func TestPredictDamage(t *testing.T) {
	w, a, b := newTestWorld(t)
	att := mustSpawn(t, w, a.ID, UnitWarrior, world.HexCoord{})
	def := mustSpawn(t, w, b.ID, UnitWarrior, world.HexCoord{Q: 1})

	p := w.PredictDamage(att, def.Pos)
	if p.ToTarget != BaseDamage || p.ToAttacker != BaseDamage {
		t.Errorf("equal strengths = %+v, want %d both ways", p, BaseDamage)
	}

	archer := mustSpawn(t, w, a.ID, "Archer", world.HexCoord{Q: -1})
	if p := w.PredictDamage(archer, def.Pos); p.ToAttacker != 0 || p.ToTarget == 0 {
		t.Errorf("ranged prediction = %+v, want damage and no retaliation", p)
	}

	def.Health = 50
	if weak := w.PredictDamage(att, def.Pos); weak.ToTarget <= BaseDamage || weak.ToAttacker >= BaseDamage {
		t.Errorf("against damaged defender = %+v, want more dealt and less taken", weak)
	}
}

func TestAttackCapturesCity(t *testing.T) {
	w, a, b := newTestWorld(t)
	c, err := w.AddCity(b.ID, world.HexCoord{})
	if err != nil {
		t.Fatal(err)
	}
	c.Population = 3
	c.Health = 1
	u := mustSpawn(t, w, a.ID, UnitWarrior, world.HexCoord{Q: 1})
	if err := w.DeclareWar(a.ID, b.ID); err != nil {
		t.Fatal(err)
	}
	if err := w.Attack(u, c.Center); err != nil {
		t.Fatalf("Attack: %v", err)
	}
	if got := w.CityAt(c.Center); got == nil || got.Owner != a.ID {
		t.Fatalf("city owner after capture = %v, want %d", got, a.ID)
	}
	if u.Pos != c.Center {
		t.Errorf("captor at %v, want %v", u.Pos, c.Center)
	}
	if b.Capital != 0 {
		t.Errorf("loser kept capital %d", b.Capital)
	}
}

func TestAttackRequiresWar(t *testing.T) {
	w, a, b := newTestWorld(t)
	u := mustSpawn(t, w, a.ID, UnitWarrior, world.HexCoord{})
	mustSpawn(t, w, b.ID, UnitWarrior, world.HexCoord{Q: 1})
	if err := w.Attack(u, world.HexCoord{Q: 1}); !errors.Is(err, ErrInvalidTarget) {
		t.Errorf("Attack at peace = %v, want ErrInvalidTarget", err)
	}
}

func TestEndTurnGrowthAndProduction(t *testing.T) {
	w, a, _ := newTestWorld(t)
	c, err := w.AddCity(a.ID, world.HexCoord{})
	if err != nil {
		t.Fatal(err)
	}
	c.FoodStored = c.FoodToGrow() - 0.5
	if err := w.SetConstruction(c, "Monument"); err != nil {
		t.Fatal(err)
	}
	c.Progress["Monument"] = 39

	w.EndTurn()

	if c.Population != 2 {
		t.Errorf("population = %d, want 2", c.Population)
	}
	if !c.Has("Monument") {
		t.Error("Monument not completed")
	}
	if c.Construction != "" {
		t.Errorf("construction = %q after completion, want empty", c.Construction)
	}
	if w.Turn != 1 {
		t.Errorf("turn = %d, want 1", w.Turn)
	}
}

func TestHappiness(t *testing.T) {
	w, a, _ := newTestWorld(t)
	if _, err := w.AddCity(a.ID, world.HexCoord{}); err != nil {
		t.Fatal(err)
	}
	if got := w.Happiness(a); got != 5 {
		t.Errorf("Happiness = %d, want 9-3-1 = 5", got)
	}
	a.Resources["Silk"] = 1
	if got := w.Happiness(a); got != 9 {
		t.Errorf("Happiness with one luxury = %d, want 9", got)
	}
}

func TestUpgradeCost(t *testing.T) {
	u := &Unit{Type: UnitTypes[UnitWarrior]}
	if got, want := UpgradeCost(u), (56-40)*2+10; got != want {
		t.Errorf("UpgradeCost(Warrior) = %d, want %d", got, want)
	}
	if got := UpgradeCost(&Unit{Type: UnitTypes["Infantry"]}); got != 0 {
		t.Errorf("UpgradeCost(Infantry) = %d, want 0", got)
	}
}

func TestFaithPurchaseNeedsReligion(t *testing.T) {
	w, a, _ := newTestWorld(t)
	c, err := w.AddCity(a.ID, world.HexCoord{})
	if err != nil {
		t.Fatal(err)
	}
	a.Faith = 1000
	if _, err := w.PurchaseWithFaith(c, UnitMissionary); !errors.Is(err, ErrNotAvailable) {
		t.Errorf("missionary without religion = %v, want ErrNotAvailable", err)
	}

	a.Faith = PantheonFaith + ReligionFaith + 100
	if err := w.AdoptBelief(a, "God of War"); err != nil {
		t.Fatal(err)
	}
	r, err := w.FoundReligion(a, c, "Tithe", "Guruship")
	if err != nil {
		t.Fatal(err)
	}
	if c.MajorityReligion() != r.Name {
		t.Errorf("holy city majority = %q, want %q", c.MajorityReligion(), r.Name)
	}
	if _, err := w.PurchaseWithFaith(c, UnitMissionary); err != nil {
		t.Errorf("missionary with religion: %v", err)
	}
	if a.Faith != 0 {
		t.Errorf("faith left = %v, want 0", a.Faith)
	}
}

func TestTradeResources(t *testing.T) {
	w, a, b := newTestWorld(t)
	a.Resources["Silk"] = 2
	b.Resources["Wine"] = 2
	if err := w.TradeResources(a.ID, b.ID, "Silk", "Wine"); err != nil {
		t.Fatal(err)
	}
	if a.Resources["Wine"] != 1 || b.Resources["Silk"] != 1 {
		t.Errorf("after trade a=%v b=%v", a.Resources, b.Resources)
	}
	if len(a.Trades) != 1 || len(b.Trades) != 1 {
		t.Errorf("trades not recorded on both sides")
	}
}

func TestHeadTowards(t *testing.T) {
	w, a, _ := newTestWorld(t)
	u := mustSpawn(t, w, a.ID, UnitWarrior, world.HexCoord{})
	dest := world.HexCoord{Q: 5}
	pos, err := w.HeadTowards(u, dest)
	if err != nil {
		t.Fatal(err)
	}
	if d := world.Distance(pos, dest); d != 3 {
		t.Errorf("distance after one turn = %d, want 3", d)
	}
	if u.HasMovement() {
		t.Error("movement left after full move")
	}
}

func TestCapitalConnectionGold(t *testing.T) {
	w, a, _ := newTestWorld(t)
	capital, err := w.AddCity(a.ID, world.HexCoord{})
	if err != nil {
		t.Fatal(err)
	}
	other, err := w.AddCity(a.ID, world.HexCoord{Q: 4, R: -1})
	if err != nil {
		t.Fatal(err)
	}
	w.RefreshFaction(a)
	base := a.Stats.Gold

	a.ConnectedCities = map[CityID]bool{capital.ID: true, other.ID: true}
	w.RefreshFaction(a)
	if got := a.Stats.Gold; got != base+1 {
		t.Errorf("gold with one connected city = %v, want %v", got, base+1)
	}
}

func TestCampsSpawnOnInterval(t *testing.T) {
	w, _, _ := newTestWorld(t)
	barbs := w.AddBarbarians()
	w.Map.Get(world.HexCoord{Q: 3}).Encampment = true

	w.Turn = CampSpawnInterval - 1
	w.EndTurn()
	if n := len(w.UnitsOf(barbs.ID)); n != 0 {
		t.Fatalf("units before interval = %d, want 0", n)
	}
	w.EndTurn()
	if n := len(w.UnitsOf(barbs.ID)); n != 1 {
		t.Errorf("units on interval = %d, want 1", n)
	}
}

func TestReligiousPressure(t *testing.T) {
	w, a, b := newTestWorld(t)
	src, err := w.AddCity(a.ID, world.HexCoord{})
	if err != nil {
		t.Fatal(err)
	}
	dst, err := w.AddCity(b.ID, world.HexCoord{Q: 4, R: -1})
	if err != nil {
		t.Fatal(err)
	}
	const name = "Buddhism"
	w.religions[name] = &Religion{Name: name, Founder: a.ID, HolyCity: src.ID}
	src.Population = 3
	src.Followers[name] = 3

	w.Turn = ReligionPressureInterval - 1
	w.EndTurn()
	if n := dst.Followers[name]; n != 0 {
		t.Fatalf("followers before interval = %d, want 0", n)
	}
	w.EndTurn()
	if n := dst.Followers[name]; n != 1 {
		t.Errorf("followers after pressure = %d, want 1", n)
	}
}
