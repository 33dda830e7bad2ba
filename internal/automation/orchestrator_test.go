package automation

import (
	"testing"

	"github.com/rs/zerolog"

	"github.com/talgya/autociv/internal/game"
	"github.com/talgya/autociv/internal/world"
)

func TestChooseResearchCheapest(t *testing.T) {
	w, a, _ := newTestWorld(t)
	ctx, journal := newTestContext(w, a)

	techs := a.ResearchableTechs()
	if len(techs) == 0 {
		t.Fatal("nothing researchable at start")
	}
	cheapest := game.Techs[techs[0]].Cost
	for _, name := range techs {
		cheapest = min(cheapest, game.Techs[name].Cost)
	}

	ChooseResearch(ctx)
	if a.Researching == "" {
		t.Fatal("no research chosen")
	}
	if got := game.Techs[a.Researching].Cost; got != cheapest {
		t.Errorf("research %s costs %d, want cheapest %d", a.Researching, got, cheapest)
	}
	if !hasDecision(journal, "research") {
		t.Error("research not journaled")
	}

	chosen := a.Researching
	ChooseResearch(ctx)
	if a.Researching != chosen {
		t.Errorf("research switched from %s to %s", chosen, a.Researching)
	}
}

func TestAdoptPolicies(t *testing.T) {
	w, a, _ := newTestWorld(t)
	mustCity(t, w, a.ID, world.HexCoord{})
	ctx, _ := newTestContext(w, a)

	a.Culture = w.NextPolicyCost(a) - 1
	AdoptPolicies(ctx)
	if len(a.Policies) != 0 {
		t.Fatalf("adopted %d policies without enough culture", len(a.Policies))
	}

	a.Culture = w.NextPolicyCost(a)
	AdoptPolicies(ctx)
	if len(a.Policies) != 1 {
		t.Errorf("adopted %d policies, want 1", len(a.Policies))
	}
	if a.Culture >= w.NextPolicyCost(a) {
		t.Errorf("culture %v left above the next cost", a.Culture)
	}
}

func TestExchangeLuxuries(t *testing.T) {
	w, a, b := newTestWorld(t)
	ctx, journal := newTestContext(w, a)
	a.Resources["Wine"] = 2
	b.Resources["Silk"] = 2
	b.Resources["Furs"] = 1

	ExchangeLuxuries(ctx)
	tests := []struct {
		f        *game.Faction
		resource string
		want     int
	}{
		{a, "Wine", 1},
		{a, "Silk", 1},
		{a, "Furs", 0},
		{b, "Wine", 1},
		{b, "Silk", 1},
		{b, "Furs", 1},
	}
	for _, tt := range tests {
		if got := tt.f.Resources[tt.resource]; got != tt.want {
			t.Errorf("%s holds %d %s, want %d", tt.f.Name, got, tt.resource, tt.want)
		}
	}
	if !hasDecision(journal, "trade") {
		t.Error("trade not journaled")
	}
}

func TestNoTradeAtWar(t *testing.T) {
	w, a, b := newTestWorld(t)
	ctx, _ := newTestContext(w, a)
	a.Resources["Wine"] = 2
	b.Resources["Silk"] = 2
	if err := w.DeclareWar(a.ID, b.ID); err != nil {
		t.Fatal(err)
	}

	ExchangeLuxuries(ctx)
	if a.Resources["Silk"] != 0 {
		t.Error("traded with an enemy")
	}
}

func TestDeclareWarIfStrong(t *testing.T) {
	tests := []struct {
		name     string
		warriors int
		want     bool
	}{
		{"two per city", 2, false},
		{"three per city", 3, true},
	}
	for _, tt := range tests {
		w, a, b := newTestWorld(t)
		ctx, journal := newTestContext(w, a)
		mustCity(t, w, a.ID, world.HexCoord{Q: -3})
		mustCity(t, w, b.ID, world.HexCoord{Q: 3})
		for i := range tt.warriors {
			mustSpawn(t, w, a.ID, game.UnitWarrior, world.HexCoord{Q: -3 + i, R: -1})
		}

		DeclareWarIfStrong(ctx)
		if got := a.AtWarWith(b); got != tt.want {
			t.Errorf("%s: at war = %v, want %v", tt.name, got, tt.want)
		}
		if got := hasDecision(journal, "war"); got != tt.want {
			t.Errorf("%s: war journaled = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestNoWarOnStrongNeighbor(t *testing.T) {
	w, a, b := newTestWorld(t)
	ctx, _ := newTestContext(w, a)
	mustCity(t, w, a.ID, world.HexCoord{Q: -3})
	mustCity(t, w, b.ID, world.HexCoord{Q: 3})
	for i := range 3 {
		mustSpawn(t, w, a.ID, game.UnitWarrior, world.HexCoord{Q: -3 + i, R: -1})
		mustSpawn(t, w, b.ID, game.UnitWarrior, world.HexCoord{Q: 3 - i, R: 1})
	}

	DeclareWarIfStrong(ctx)
	if a.AtWarWith(b) {
		t.Error("declared war on an equal neighbor")
	}
}

func TestReassignWorkedTiles(t *testing.T) {
	w, a, _ := newTestWorld(t)
	ctx, _ := newTestContext(w, a)
	c := mustCity(t, w, a.ID, world.HexCoord{})
	c.Population = 3

	ReassignWorkedTiles(ctx)
	if len(c.Worked) != 3 {
		t.Errorf("worked %d tiles, want 3", len(c.Worked))
	}
	if c.Specialists != 0 {
		t.Errorf("specialists = %d, want 0", c.Specialists)
	}
	for _, coord := range c.Worked {
		if coord == c.Center {
			t.Error("city center assigned as worked tile")
		}
	}
}

func TestReassignSkipsPoorTiles(t *testing.T) {
	w, a, _ := newTestWorld(t)
	ctx, _ := newTestContext(w, a)
	c := mustCity(t, w, a.ID, world.HexCoord{})
	for _, tile := range w.CityTiles(c) {
		if !tile.CityCenter {
			tile.Terrain = world.TerrainDesert
		}
	}
	c.Population = 2

	ReassignWorkedTiles(ctx)
	if len(c.Worked) != 0 || c.Specialists != 2 {
		t.Errorf("worked %d tiles with %d specialists, want 0 and 2", len(c.Worked), c.Specialists)
	}
}

func TestTrainSettler(t *testing.T) {
	w, a, _ := newTestWorld(t)
	ctx, journal := newTestContext(w, a)
	c := mustCity(t, w, a.ID, world.HexCoord{})
	c.Population = 2
	c.Buildings["Monument"] = true
	c.Buildings["Granary"] = true
	a.Happiness = 20

	TrainSettler(ctx)
	if c.Construction != game.UnitSettler {
		t.Fatalf("construction = %q, want %q", c.Construction, game.UnitSettler)
	}
	if !hasDecision(journal, "settler") {
		t.Error("settler not journaled")
	}
}

func TestTrainSettlerConditions(t *testing.T) {
	tests := []struct {
		name  string
		setup func(t *testing.T, w *game.World, a *game.Faction, c *game.City)
	}{
		{"unhappy", func(t *testing.T, w *game.World, a *game.Faction, c *game.City) {
			a.Happiness = 6
		}},
		{"bare capital", func(t *testing.T, w *game.World, a *game.Faction, c *game.City) {
			delete(c.Buildings, "Granary")
		}},
		{"settler alive", func(t *testing.T, w *game.World, a *game.Faction, c *game.City) {
			mustSpawn(t, w, a.ID, game.UnitSettler, world.HexCoord{Q: 2})
		}},
		{"too small", func(t *testing.T, w *game.World, a *game.Faction, c *game.City) {
			c.Population = 1
		}},
	}
	for _, tt := range tests {
		w, a, _ := newTestWorld(t)
		ctx, _ := newTestContext(w, a)
		c := mustCity(t, w, a.ID, world.HexCoord{})
		c.Population = 2
		c.Buildings["Monument"] = true
		c.Buildings["Granary"] = true
		a.Happiness = 20
		tt.setup(t, w, a, c)

		TrainSettler(ctx)
		if c.Construction == game.UnitSettler {
			t.Errorf("%s: settler queued", tt.name)
		}
	}
}

func TestTrainSettlerChecksChosenCity(t *testing.T) {
	tests := []struct {
		name          string
		capitalBuilt  []string
		frontierBuilt []string
		want          string // city expected to train the settler, "" for none
	}{
		{"productive city developed", nil, []string{"Monument", "Granary"}, "frontier"},
		{"only capital developed", []string{"Monument", "Granary"}, nil, ""},
	}
	for _, tt := range tests {
		w, a, _ := newTestWorld(t)
		ctx, _ := newTestContext(w, a)
		capital := mustCity(t, w, a.ID, world.HexCoord{})
		frontier := mustCity(t, w, a.ID, world.HexCoord{Q: 4, R: -1})
		for _, c := range []*game.City{capital, frontier} {
			c.Population = 2
		}
		capital.Stats.Production = 2
		frontier.Stats.Production = 6
		for _, b := range tt.capitalBuilt {
			capital.Buildings[b] = true
		}
		for _, b := range tt.frontierBuilt {
			frontier.Buildings[b] = true
		}
		a.Happiness = 20

		TrainSettler(ctx)
		got := ""
		if capital.Construction == game.UnitSettler {
			got = "capital"
		} else if frontier.Construction == game.UnitSettler {
			got = "frontier"
		}
		if got != tt.want {
			t.Errorf("%s: settler queued in %q, want %q", tt.name, got, tt.want)
		}
	}
}

func TestPlayTurnHumanUntouched(t *testing.T) {
	w, a, _ := newTestWorld(t)
	a.Human = true
	journal := &Memory{}
	o := &Orchestrator{Seed: 1, Journal: journal, Strict: true, Log: zerolog.Nop()}

	o.PlayTurn(w, a)
	if a.Researching != "" || len(journal.Decisions) != 0 {
		t.Errorf("human faction automated: research %q, %d decisions", a.Researching, len(journal.Decisions))
	}
}

func TestNewContextDeterministic(t *testing.T) {
	w, a, b := newTestWorld(t)
	o := &Orchestrator{Seed: 42, Log: zerolog.Nop()}

	x := o.NewContext(w, a).Rng.Int63()
	if y := o.NewContext(w, a).Rng.Int63(); x != y {
		t.Errorf("same faction and turn drew %d then %d", x, y)
	}
	if z := o.NewContext(w, b).Rng.Int63(); z == x {
		t.Error("two factions share a random stream")
	}
}

// newSmokeWorld sets up two rival factions with starting units plus a
// barbarian camp.
func newSmokeWorld(t *testing.T) *game.World {
	t.Helper()
	w, a, b := newTestWorld(t)
	barbs := w.AddBarbarians()
	for _, start := range []struct {
		f  *game.Faction
		at world.HexCoord
	}{
		{a, world.HexCoord{Q: -4, R: 1}},
		{b, world.HexCoord{Q: 4, R: -1}},
	} {
		mustCity(t, w, start.f.ID, start.at)
		mustSpawn(t, w, start.f.ID, game.UnitWarrior, start.at)
		mustSpawn(t, w, start.f.ID, game.UnitWorker, start.at)
		mustSpawn(t, w, start.f.ID, game.UnitSettler, world.HexCoord{Q: start.at.Q, R: start.at.R + 1})
		mustSpawn(t, w, start.f.ID, game.UnitWarrior, world.HexCoord{Q: start.at.Q, R: start.at.R + 1})
	}
	camp := world.HexCoord{Q: 0, R: 5}
	w.Map.Get(camp).Encampment = true
	mustSpawn(t, w, barbs.ID, game.UnitWarrior, camp)
	return w
}

func TestPlayTurnSmoke(t *testing.T) {
	w := newSmokeWorld(t)
	journal := &Memory{}
	o := &Orchestrator{Seed: 7, Journal: journal, Strict: true, Log: zerolog.Nop()}

	for range 20 {
		for _, f := range w.Factions() {
			ctrl := o.PlayTurn(w, f)
			for _, u := range w.UnitsOf(f.ID) {
				if f.Human {
					continue
				}
				if st := ctrl.State(u.ID).State; st == StateAutomated {
					t.Fatalf("turn %d: %s %s left in state %v", w.Turn, f.Name, u.Type.Name, st)
				}
			}
		}
		w.EndTurn()
	}

	if w.Turn < 20 {
		t.Errorf("turn = %d, want at least 20", w.Turn)
	}
	for _, kind := range []string{"research", "construction"} {
		if !hasDecision(journal, kind) {
			t.Errorf("no %q decision in 20 turns", kind)
		}
	}
	if len(w.Cities()) < 3 {
		t.Errorf("%d cities after 20 turns, want the settlers to found more", len(w.Cities()))
	}
}

func TestPlayTurnReproducible(t *testing.T) {
	run := func() []Decision {
		w := newSmokeWorld(t)
		journal := &Memory{}
		o := &Orchestrator{Seed: 3, Journal: journal, Strict: true, Log: zerolog.Nop()}
		for range 8 {
			for _, f := range w.Factions() {
				o.PlayTurn(w, f)
			}
			w.EndTurn()
		}
		return journal.Decisions
	}
	first, second := run(), run()
	if len(first) != len(second) {
		t.Fatalf("runs made %d and %d decisions", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("decision %d differs: %+v vs %+v", i, first[i], second[i])
		}
	}
}
