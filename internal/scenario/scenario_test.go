package scenario

import (
	"errors"
	"testing"

	"github.com/talgya/autociv/internal/game"
	"github.com/talgya/autociv/internal/world"
)

func TestGenerateDeterministic(t *testing.T) {
	cfg := SmallTestConfig()
	a, b := Generate(cfg), Generate(cfg)
	if a.HexCount() != b.HexCount() {
		t.Fatalf("hex counts %d and %d", a.HexCount(), b.HexCount())
	}
	for _, ta := range a.Tiles() {
		tb := b.Get(ta.Coord)
		if tb == nil {
			t.Fatalf("tile %v missing from second map", ta.Coord)
		}
		if ta.Terrain != tb.Terrain || ta.Resource != tb.Resource || ta.Continent != tb.Continent {
			t.Fatalf("tile %v differs: %v/%q/%d vs %v/%q/%d", ta.Coord,
				ta.Terrain, ta.Resource, ta.Continent, tb.Terrain, tb.Resource, tb.Continent)
		}
	}
}

func TestGenerateCoversRadius(t *testing.T) {
	cfg := SmallTestConfig()
	m := Generate(cfg)
	want := world.HexesInRadius(cfg.Radius)
	if m.HexCount() != want {
		t.Errorf("HexCount = %d, want %d", m.HexCount(), want)
	}
	if rim := m.Get(world.HexCoord{Q: cfg.Radius}); rim == nil || rim.IsLand() {
		t.Errorf("rim tile %v is land", rim)
	}
}

func TestGenerateShallowsAndContinents(t *testing.T) {
	m := Generate(SmallTestConfig())
	for _, tile := range m.Tiles() {
		if tile.IsWater() {
			if tile.Continent != 0 {
				t.Errorf("water tile %v on continent %d", tile.Coord, tile.Continent)
			}
			if tile.Terrain == world.TerrainOcean {
				for _, n := range m.Neighbors(tile.Coord) {
					if n.IsLand() {
						t.Errorf("ocean tile %v borders land at %v", tile.Coord, n.Coord)
					}
				}
			}
			continue
		}
		if tile.Continent == 0 {
			t.Errorf("land tile %v has no continent", tile.Coord)
		}
		for _, n := range m.Neighbors(tile.Coord) {
			if n.IsLand() && n.Continent != tile.Continent {
				t.Errorf("adjacent land %v and %v on continents %d and %d",
					tile.Coord, n.Coord, tile.Continent, n.Continent)
			}
		}
	}
}

func TestGenerateResourcesFitTerrain(t *testing.T) {
	m := Generate(SmallTestConfig())
	for _, tile := range m.Tiles() {
		res := tile.ResourceInfo()
		if res == nil {
			continue
		}
		if !res.CanHost(tile.Terrain) {
			t.Errorf("%s on %v at %v", res.Name, tile.Terrain, tile.Coord)
		}
		if tile.ResourceAmount < 1 {
			t.Errorf("%s at %v has amount %d", res.Name, tile.Coord, tile.ResourceAmount)
		}
	}
}

func TestDeriveTerrain(t *testing.T) {
	cfg := DefaultGenConfig()
	tests := []struct {
		elev, rain, temp float64
		want             world.Terrain
	}{
		{0.1, 0.5, 0.5, world.TerrainOcean},
		{0.9, 0.5, 0.5, world.TerrainMountain},
		{0.7, 0.5, 0.5, world.TerrainHills},
		{0.4, 0.5, 0.1, world.TerrainTundra},
		{0.4, 0.1, 0.8, world.TerrainDesert},
		{0.4, 0.8, 0.5, world.TerrainSwamp},
		{0.5, 0.6, 0.5, world.TerrainForest},
		{0.4, 0.6, 0.5, world.TerrainGrassland},
		{0.4, 0.4, 0.5, world.TerrainPlains},
	}
	for _, tt := range tests {
		if got := deriveTerrain(tt.elev, tt.rain, tt.temp, cfg); got != tt.want {
			t.Errorf("deriveTerrain(%v, %v, %v) = %v, want %v", tt.elev, tt.rain, tt.temp, got, tt.want)
		}
	}
}

func TestLabelContinents(t *testing.T) {
	m := world.FilledMap(4, world.TerrainOcean)
	m.Get(world.HexCoord{Q: -3}).Terrain = world.TerrainPlains
	m.Get(world.HexCoord{Q: -2}).Terrain = world.TerrainPlains
	m.Get(world.HexCoord{Q: 3}).Terrain = world.TerrainHills

	if got := labelContinents(m); got != 2 {
		t.Fatalf("labelContinents = %d, want 2", got)
	}
	west := m.Get(world.HexCoord{Q: -3}).Continent
	if m.Get(world.HexCoord{Q: -2}).Continent != west {
		t.Error("connected tiles on different continents")
	}
	if m.Get(world.HexCoord{Q: 3}).Continent == west {
		t.Error("separate islands share a continent")
	}
}

func TestPlaceStartsKeepsDistance(t *testing.T) {
	m := world.FilledMap(10, world.TerrainGrassland)
	starts := PlaceStarts(m, 4, 7)
	if len(starts) != 4 {
		t.Fatalf("placed %d starts, want 4", len(starts))
	}
	for i, a := range starts {
		for _, b := range starts[i+1:] {
			if d := world.Distance(a, b); d < 7 {
				t.Errorf("starts %v and %v only %d apart", a, b, d)
			}
		}
	}
}

func TestPlaceStartsPrefersFood(t *testing.T) {
	m := world.FilledMap(10, world.TerrainDesert)
	oasis := world.HexCoord{Q: 4, R: -2}
	for _, tile := range m.TilesInDistance(oasis, 2) {
		tile.Terrain = world.TerrainGrassland
	}
	starts := PlaceStarts(m, 1, 7)
	if len(starts) != 1 || starts[0] != oasis {
		t.Errorf("PlaceStarts = %v, want [%v]", starts, oasis)
	}
}

func TestPlaceStartsRelaxesDistance(t *testing.T) {
	m := world.FilledMap(5, world.TerrainGrassland)
	starts := PlaceStarts(m, 2, 20)
	if len(starts) != 2 {
		t.Fatalf("placed %d starts, want 2", len(starts))
	}
	if d := world.Distance(starts[0], starts[1]); d <= game.MinCityDistance {
		t.Errorf("starts %d apart, want more than %d", d, game.MinCityDistance)
	}
}

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.Map = world.FilledMap(12, world.TerrainGrassland)
	cfg.Gen.Seed = 5
	cfg.Factions = 3
	cfg.Camps = 2
	return cfg
}

func TestNewGame(t *testing.T) {
	w, err := NewGame(testConfig())
	if err != nil {
		t.Fatalf("NewGame: %v", err)
	}

	var majors []*game.Faction
	var barbs *game.Faction
	for _, f := range w.Factions() {
		if f.Barbarian {
			barbs = f
			continue
		}
		majors = append(majors, f)
	}
	if len(majors) != 3 {
		t.Fatalf("%d factions, want 3", len(majors))
	}
	for _, f := range majors {
		cities := w.CitiesOf(f.ID)
		if len(cities) != 1 || f.Capital != cities[0].ID {
			t.Errorf("%s has %d cities, capital %d", f.Name, len(cities), f.Capital)
		}
		counts := map[string]int{}
		for _, u := range w.UnitsOf(f.ID) {
			counts[u.Type.Name]++
		}
		for _, unit := range []string{game.UnitWarrior, game.UnitWorker, game.UnitSettler} {
			if counts[unit] != 1 {
				t.Errorf("%s has %d %s, want 1", f.Name, counts[unit], unit)
			}
		}
		for _, other := range majors {
			if other != f && w.Relation(f.ID, other.ID) == nil {
				t.Errorf("%s has not met %s", f.Name, other.Name)
			}
		}
	}

	if barbs == nil {
		t.Fatal("no barbarian faction")
	}
	camps := 0
	for _, tile := range w.Map.Tiles() {
		if tile.Encampment {
			camps++
		}
	}
	if camps != 2 || len(w.UnitsOf(barbs.ID)) != 2 {
		t.Errorf("%d camps with %d barbarians, want 2 and 2", camps, len(w.UnitsOf(barbs.ID)))
	}
}

func TestNewGameHuman(t *testing.T) {
	cfg := testConfig()
	cfg.HumanFaction = 0
	w, err := NewGame(cfg)
	if err != nil {
		t.Fatalf("NewGame: %v", err)
	}
	if !w.Factions()[0].Human || w.Factions()[1].Human {
		t.Error("human flag not set on the first faction only")
	}
}

func TestNewGameErrors(t *testing.T) {
	cfg := testConfig()
	cfg.Factions = 0
	if _, err := NewGame(cfg); err == nil {
		t.Error("NewGame with no factions succeeded")
	}

	cfg = testConfig()
	cfg.Map = world.FilledMap(1, world.TerrainGrassland)
	cfg.Factions = 2
	if _, err := NewGame(cfg); !errors.Is(err, ErrNoRoom) {
		t.Errorf("NewGame on a tiny map = %v, want ErrNoRoom", err)
	}
}
