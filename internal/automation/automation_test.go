package automation

import (
	"errors"
	"math"
	"testing"

	"github.com/rs/zerolog"

	"github.com/talgya/autociv/internal/entropy"
	"github.com/talgya/autociv/internal/game"
	"github.com/talgya/autociv/internal/world"
)

func newTestWorld(t *testing.T) (*game.World, *game.Faction, *game.Faction) {
	t.Helper()
	w := game.New(world.FilledMap(6, world.TerrainGrassland))
	a := w.AddFaction("Alpha", game.VictoryNeutral)
	b := w.AddFaction("Beta", game.VictoryDomination)
	w.Meet(a.ID, b.ID)
	return w, a, b
}

func newTestContext(w *game.World, f *game.Faction) (*Context, *Memory) {
	journal := &Memory{}
	return &Context{
		World:   w,
		Faction: f,
		Rng:     entropy.New(1),
		Log:     zerolog.Nop(),
		Journal: journal,
		Strict:  true,
	}, journal
}

func mustSpawn(t *testing.T, w *game.World, f game.FactionID, name string, at world.HexCoord) *game.Unit {
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

func mustCity(t *testing.T, w *game.World, f game.FactionID, at world.HexCoord) *game.City {
	t.Helper()
	c, err := w.AddCity(f, at)
	if err != nil {
		t.Fatalf("AddCity(%v): %v", at, err)
	}
	return c
}

func hasDecision(m *Memory, kind string) bool {
	for _, d := range m.Decisions {
		if d.Kind == kind {
			return true
		}
	}
	return false
}

func TestRankStatsMonotonic(t *testing.T) {
	_, a, _ := newTestWorld(t)
	small := &game.City{Population: 2}
	large := &game.City{Population: 8}

	tests := []struct {
		name  string
		city  *game.City
		yield func(v float64) world.Yields
	}{
		{"food small", small, func(v float64) world.Yields { return world.Yields{Food: v} }},
		{"food large", large, func(v float64) world.Yields { return world.Yields{Food: v} }},
		{"food no city", nil, func(v float64) world.Yields { return world.Yields{Food: v} }},
		{"production", large, func(v float64) world.Yields { return world.Yields{Production: v} }},
		{"gold", large, func(v float64) world.Yields { return world.Yields{Gold: v} }},
		{"science", small, func(v float64) world.Yields { return world.Yields{Science: v} }},
		{"culture", large, func(v float64) world.Yields { return world.Yields{Culture: v} }},
		{"faith", large, func(v float64) world.Yields { return world.Yields{Faith: v} }},
	}
	for _, tt := range tests {
		prev := rankStats(tt.yield(0), tt.city, a, 1)
		for v := 0.5; v <= 8; v += 0.5 {
			got := rankStats(tt.yield(v), tt.city, a, 1)
			if got <= prev {
				t.Errorf("%s: rankStats(%v) = %v, not above %v", tt.name, v, got, prev)
			}
			prev = got
		}
	}
}

func TestRankStatsFoodSegments(t *testing.T) {
	_, a, _ := newTestWorld(t)
	large := &game.City{Population: 8}
	// Food above 2 is worth half as much per point.
	low := rankStats(world.Yields{Food: 2}, large, a, 1) - rankStats(world.Yields{Food: 1}, large, a, 1)
	high := rankStats(world.Yields{Food: 4}, large, a, 1) - rankStats(world.Yields{Food: 3}, large, a, 1)
	if math.Abs(low-1.2) > 1e-9 {
		t.Errorf("food step below 2 = %v, want 1.2", low)
	}
	if math.Abs(high-0.5) > 1e-9 {
		t.Errorf("food step above 2 = %v, want 0.5", high)
	}
}

func TestFinancialEmergencyWeighsGold(t *testing.T) {
	_, a, _ := newTestWorld(t)
	large := &game.City{Population: 8}
	y := world.Yields{Gold: 3}

	a.Gold = 100
	normal := rankStats(y, large, a, 1)
	a.Gold = 0
	a.Stats.Gold = -2
	broke := rankStats(y, large, a, 1)
	if normal != 1 || broke != 3 {
		t.Errorf("gold 3 scored %v normally and %v when broke, want 1 and 3", normal, broke)
	}
}

func TestValueTile(t *testing.T) {
	w, a, b := newTestWorld(t)
	tile := w.Map.Get(world.HexCoord{Q: 2})

	base := rankStats(w.TileYields(tile, a), nil, a, 1)
	if got := ValueTile(w, tile, nil, a, 1); math.Abs(got-(base+0.5)) > 1e-9 {
		t.Errorf("ValueTile(unimproved) = %v, want %v", got, base+0.5)
	}

	tile.Resource = "Wine"
	withWine := ValueTile(w, tile, nil, a, 1)
	wine := rankStats(w.TileYields(tile, a), nil, a, 1) + 0.5 + 1
	if math.Abs(withWine-wine) > 1e-9 {
		t.Errorf("ValueTile(wine) = %v, want %v", withWine, wine)
	}

	tile.Owner = uint64(b.ID)
	if got := ValueTile(w, tile, nil, a, 1); got != 0 {
		t.Errorf("ValueTile(foreign) = %v, want 0", got)
	}
	if got := ValueTile(w, nil, nil, a, 1); got != 0 {
		t.Errorf("ValueTile(nil) = %v, want 0", got)
	}
}

func TestValueSpecialist(t *testing.T) {
	_, a, _ := newTestWorld(t)
	c := &game.City{Population: 8}
	want := rankStats(game.SpecialistYields, c, a, 1) + 0.3
	if got := ValueSpecialist(c, a); got != want {
		t.Errorf("ValueSpecialist = %v, want %v", got, want)
	}
}

func TestCombatPower(t *testing.T) {
	w, a, _ := newTestWorld(t)
	if got := CombatPower(w, a); got != 1 {
		t.Fatalf("CombatPower(no units) = %d, want 1", got)
	}

	prev := 1
	for i, at := range []world.HexCoord{{Q: 0}, {Q: 1}, {Q: 2}, {Q: 3}} {
		mustSpawn(t, w, a.ID, game.UnitWarrior, at)
		got := CombatPower(w, a)
		if got < prev {
			t.Errorf("CombatPower after %d warriors = %d, below %d", i+1, got, prev)
		}
		prev = got
	}
	// Four warriors of strength 8: sqrt(4*64) + 1.
	if prev != 17 {
		t.Errorf("CombatPower(4 warriors) = %d, want 17", prev)
	}
}

func TestThreatFromPowers(t *testing.T) {
	tests := []struct {
		assessor, assessed int
		want               ThreatLevel
	}{
		{10, 21, ThreatVeryHigh},
		{100, 210, ThreatVeryHigh},
		{10, 16, ThreatHigh},
		{10, 15, ThreatMedium},
		{10, 10, ThreatMedium},
		{10, 7, ThreatMedium},
		{10, 6, ThreatLow},
		{10, 1, ThreatLow},
	}
	for _, tt := range tests {
		if got := ThreatFromPowers(tt.assessor, tt.assessed); got != tt.want {
			t.Errorf("ThreatFromPowers(%d, %d) = %v, want %v", tt.assessor, tt.assessed, got, tt.want)
		}
	}
}

func TestThreat(t *testing.T) {
	w, a, b := newTestWorld(t)
	for _, at := range []world.HexCoord{{Q: 3}, {Q: 4}, {Q: 5}} {
		mustSpawn(t, w, b.ID, game.UnitWarrior, at)
	}
	if got := Threat(w, a, b); got != ThreatVeryHigh {
		t.Errorf("Threat(a, b) = %v, want VeryHigh", got)
	}
	if got := Threat(w, b, a); got != ThreatLow {
		t.Errorf("Threat(b, a) = %v, want Low", got)
	}
}

func TestSelectConstruction(t *testing.T) {
	tests := []struct {
		name         string
		choices      []ConstructionChoice
		production   float64
		researchDone bool
		want         string
	}{
		{
			name:       "lowest work per modifier",
			choices:    []ConstructionChoice{{"A", 2, 50}, {"B", 0.5, 20}},
			production: 10,
			want:       "A",
		},
		{
			name:       "slow choices dropped",
			choices:    []ConstructionChoice{{"Slow", 100, 400}, {"Quick", 1, 100}},
			production: 10,
			want:       "Quick",
		},
		{
			name:       "all slow picks cheapest",
			choices:    []ConstructionChoice{{"C", 5, 400}, {"D", 1, 350}},
			production: 10,
			want:       "D",
		},
		{
			name: "nothing to build",
			want: game.PerpetualScience,
		},
		{
			name:         "nothing to build after research",
			researchDone: true,
			want:         game.PerpetualGold,
		},
	}
	for _, tt := range tests {
		got := SelectConstruction(tt.choices, tt.production, tt.researchDone)
		if got.Name != tt.want {
			t.Errorf("%s: SelectConstruction = %q, want %q", tt.name, got.Name, tt.want)
		}
	}
}

func TestPantheonDiscount(t *testing.T) {
	w, a, _ := newTestWorld(t)
	mustCity(t, w, a.ID, world.HexCoord{})
	ctx, _ := newTestContext(w, a)

	follower := *game.Beliefs["Fertility Rites"]
	follower.Type = game.BeliefFollower
	pantheon := follower
	pantheon.Type = game.BeliefPantheon

	ctx.Rng = entropy.New(7)
	full := ScoreBelief(ctx, a, &follower)
	ctx.Rng = entropy.New(7)
	discounted := ScoreBelief(ctx, a, &pantheon)

	if full <= 0 {
		t.Fatalf("ScoreBelief(follower) = %v, want positive", full)
	}
	if math.Abs(discounted-full*PantheonDiscount) > 1e-9 {
		t.Errorf("ScoreBelief(pantheon) = %v, want %v", discounted, full*PantheonDiscount)
	}
}

func TestChooseBelief(t *testing.T) {
	w, a, _ := newTestWorld(t)
	mustCity(t, w, a.ID, world.HexCoord{})
	ctx, journal := newTestContext(w, a)

	if got := ChooseBelief(ctx, a, nil); got != nil {
		t.Errorf("ChooseBelief(nil) = %v, want nil", got.Name)
	}
	candidates := []*game.Belief{game.Beliefs["Desert Folklore"], game.Beliefs["Fertility Rites"]}
	got := ChooseBelief(ctx, a, candidates)
	if got == nil || got.Name != "Fertility Rites" {
		t.Errorf("ChooseBelief on grassland = %v, want Fertility Rites", got)
	}
	if !hasDecision(journal, "belief") {
		t.Error("belief choice not journaled")
	}
}

func TestInvariant(t *testing.T) {
	w, a, _ := newTestWorld(t)
	ctx, _ := newTestContext(w, a)

	func() {
		defer func() {
			r := recover()
			err, ok := r.(error)
			if !ok || !errors.Is(err, ErrInvariant) {
				t.Errorf("strict Invariant panicked with %v, want ErrInvariant", r)
			}
		}()
		ctx.Invariant("broken", map[string]any{"k": 1})
	}()

	ctx.Strict = false
	ctx.Invariant("broken", nil)
}
