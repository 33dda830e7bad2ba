package automation

import (
	"math"
	"testing"

	"github.com/talgya/autociv/internal/game"
	"github.com/talgya/autociv/internal/world"
)

func choiceModifiers(choices []ConstructionChoice) map[string]float64 {
	out := make(map[string]float64, len(choices))
	for _, c := range choices {
		out[c.Name] = c.Modifier
	}
	return out
}

func checkModifiers(t *testing.T, got map[string]float64, want map[string]float64) {
	t.Helper()
	for name, m := range want {
		g, ok := got[name]
		switch {
		case m == 0 && ok:
			t.Errorf("%s offered at %v, want absent", name, g)
		case m != 0 && !ok:
			t.Errorf("%s not offered, want %v", name, m)
		case m != 0 && math.Abs(g-m) > 1e-9:
			t.Errorf("%s modifier = %v, want %v", name, g, m)
		}
	}
}

func grantTechs(f *game.Faction, names ...string) {
	for _, n := range names {
		f.Techs[n] = true
	}
}

func TestPlannerChoicesByVictory(t *testing.T) {
	tests := []struct {
		name    string
		victory game.VictoryType
		atWar   bool
		want    map[string]float64
	}{
		{"neutral", game.VictoryNeutral, false, map[string]float64{
			"Granary": 1.3, "Library": 1.1, "Walls": 0.2, "Monument": 0.8,
			"Great Library": 2.6, game.UnitWorker: 10, "Shrine": 0.6, game.UnitWarrior: 0,
		}},
		{"science", game.VictoryScience, false, map[string]float64{
			"Library": 1.1 * 1.4, "Great Library": 3.0, "Walls": 0.2,
		}},
		{"culture skips walls", game.VictoryCulture, false, map[string]float64{
			"Walls": 0, "Monument": 1.6, "Great Library": 2.6,
		}},
		{"culture at war keeps walls", game.VictoryCulture, true, map[string]float64{
			"Walls": 0.5, "Monument": 1.6, game.UnitWarrior: 1.0,
		}},
		{"wartime", game.VictoryNeutral, true, map[string]float64{
			"Walls": 0.5, game.UnitWarrior: 1.0,
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, a, b := newTestWorld(t)
			a.Victory = tt.victory
			grantTechs(a, "Pottery", "Writing", "Masonry")
			c := mustCity(t, w, a.ID, world.HexCoord{})
			c.Stats = world.Yields{Production: 5}
			a.Stats = world.Yields{}
			if tt.atWar {
				if err := w.DeclareWar(a.ID, b.ID); err != nil {
					t.Fatal(err)
				}
			}
			ctx, _ := newTestContext(w, a)
			checkModifiers(t, choiceModifiers(NewPlanner(ctx, c).Choices()), tt.want)
		})
	}
}

func TestWonderPriority(t *testing.T) {
	tests := []struct {
		building string
		victory  game.VictoryType
		want     float64
	}{
		{"Apollo Program", game.VictoryNeutral, 10},
		{"Sistine Chapel", game.VictoryCulture, 3},
		{"Stonehenge", game.VictoryCulture, 1.6},
		{"Sistine Chapel", game.VictoryNeutral, 1},
		{"Great Library", game.VictoryScience, 1.5},
		{"Great Library", game.VictoryNeutral, 1.3},
		{"Manhattan Project", game.VictoryDomination, 2},
		{"Manhattan Project", game.VictoryNeutral, 1.25},
		{"Notre Dame", game.VictoryNeutral, 1.2},
		{"Pyramids", game.VictoryNeutral, 1.1},
		{"Hanging Gardens", game.VictoryNeutral, 1},
	}
	for _, tt := range tests {
		f := &game.Faction{Victory: tt.victory}
		if got := WonderPriority(game.Buildings[tt.building], f); got != tt.want {
			t.Errorf("WonderPriority(%s, %v) = %v, want %v", tt.building, tt.victory, got, tt.want)
		}
	}
}

func TestWonderWeight(t *testing.T) {
	tests := []struct {
		name            string
		production      float64
		otherProduction float64
		otherBuilding   string
		want            float64
	}{
		{"productive city", 10, 2, "", 2.2},
		{"below average halves", 2, 10, "", 1.1},
		{"shared with another wonder city", 10, 2, "Pyramids", 1.1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, a, _ := newTestWorld(t)
			grantTechs(a, "Masonry")
			c := mustCity(t, w, a.ID, world.HexCoord{})
			c.Stats = world.Yields{Production: tt.production}
			other := mustCity(t, w, a.ID, world.HexCoord{Q: 4, R: -1})
			other.Stats = world.Yields{Production: tt.otherProduction}
			other.Construction = tt.otherBuilding
			ctx, _ := newTestContext(w, a)
			checkModifiers(t, choiceModifiers(NewPlanner(ctx, c).Choices()), map[string]float64{"Pyramids": tt.want})
		})
	}
}

func TestPlannerMilitary(t *testing.T) {
	tests := []struct {
		name    string
		victory game.VictoryType
		atWar   bool
		gold    float64
		income  float64
		want    float64
	}{
		{"peace with income", game.VictoryNeutral, false, 0, 5, 0.5},
		{"peace without income", game.VictoryNeutral, false, 0, 0, 0},
		{"wartime doubles", game.VictoryNeutral, true, 0, 0, 1.0},
		{"domination triples", game.VictoryDomination, false, 0, 5, 1.5},
		{"broke at war", game.VictoryNeutral, true, -60, 5, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, a, b := newTestWorld(t)
			a.Victory = tt.victory
			a.Gold = tt.gold
			a.Stats = world.Yields{Gold: tt.income}
			c := mustCity(t, w, a.ID, world.HexCoord{})
			c.Stats = world.Yields{Production: 5}
			if tt.atWar {
				if err := w.DeclareWar(a.ID, b.ID); err != nil {
					t.Fatal(err)
				}
			}
			ctx, _ := newTestContext(w, a)
			checkModifiers(t, choiceModifiers(NewPlanner(ctx, c).Choices()), map[string]float64{game.UnitWarrior: tt.want})
		})
	}
}

func TestPlannerWorkers(t *testing.T) {
	tests := []struct {
		name    string
		workers int
		idle    bool
		want    float64
	}{
		{"no workers", 0, false, 10},
		{"enough workers", 1, false, 0},
		{"idle worker waiting", 0, true, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, a, _ := newTestWorld(t)
			c := mustCity(t, w, a.ID, world.HexCoord{})
			c.Stats = world.Yields{Production: 5}
			ctx, _ := newTestContext(w, a)
			for range tt.workers {
				mustSpawn(t, w, a.ID, game.UnitWorker, world.HexCoord{Q: -2})
			}
			if tt.idle {
				ctx.idleWorkers = map[game.UnitID]bool{1: true}
			}
			checkModifiers(t, choiceModifiers(NewPlanner(ctx, c).Choices()), map[string]float64{game.UnitWorker: tt.want})
		})
	}
}

func TestPlannerWorkBoats(t *testing.T) {
	tests := []struct {
		name  string
		setup func(t *testing.T, w *game.World, a *game.Faction)
		want  float64
	}{
		{"fish next door", func(t *testing.T, w *game.World, a *game.Faction) {
			channel(w, 1, 46)
			placeFish(w, a, world.HexCoord{Q: 1})
		}, 0.6},
		{"fish down the channel", func(t *testing.T, w *game.World, a *game.Faction) {
			channel(w, 1, 46)
			placeFish(w, a, world.HexCoord{Q: 30})
		}, 0.6},
		{"fish beyond search", func(t *testing.T, w *game.World, a *game.Faction) {
			channel(w, 1, 46)
			placeFish(w, a, world.HexCoord{Q: 45})
		}, 0},
		{"fish on another lake", func(t *testing.T, w *game.World, a *game.Faction) {
			channel(w, 1, 1)
			channel(w, 3, 3)
			placeFish(w, a, world.HexCoord{Q: 3})
		}, 0},
		{"boat already close", func(t *testing.T, w *game.World, a *game.Faction) {
			channel(w, 1, 46)
			placeFish(w, a, world.HexCoord{Q: 3})
			mustSpawn(t, w, a.ID, game.UnitWorkBoats, world.HexCoord{Q: 2})
		}, 0},
		{"improved fish", func(t *testing.T, w *game.World, a *game.Faction) {
			channel(w, 1, 46)
			placeFish(w, a, world.HexCoord{Q: 2})
			w.Map.Get(world.HexCoord{Q: 2}).Improvement = world.ImprovementFishingBoats
		}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := game.New(world.FilledMap(50, world.TerrainGrassland))
			a := w.AddFaction("Alpha", game.VictoryNeutral)
			grantTechs(a, "Sailing")
			tt.setup(t, w, a)
			c := mustCity(t, w, a.ID, world.HexCoord{})
			c.Stats = world.Yields{Production: 5}
			ctx, _ := newTestContext(w, a)
			checkModifiers(t, choiceModifiers(NewPlanner(ctx, c).Choices()), map[string]float64{game.UnitWorkBoats: tt.want})
		})
	}
}

// channel floods the tiles from (q0, 0) to (q1, 0).
func channel(w *game.World, q0, q1 int) {
	for q := q0; q <= q1; q++ {
		w.Map.Get(world.HexCoord{Q: q}).Terrain = world.TerrainCoast
	}
}

func placeFish(w *game.World, f *game.Faction, at world.HexCoord) {
	t := w.Map.Get(at)
	t.Resource = "Fish"
	t.Owner = uint64(f.ID)
}

func TestPlannerSpaceship(t *testing.T) {
	tests := []struct {
		name   string
		apollo bool
		behind bool
		want   float64
	}{
		{"enabled", true, false, 20},
		{"no enabler", false, false, 0},
		{"low production city", true, true, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, a, _ := newTestWorld(t)
			grantTechs(a, "Space Flight")
			c := mustCity(t, w, a.ID, world.HexCoord{})
			c.Stats = world.Yields{Production: 20}
			c.Buildings["Apollo Program"] = tt.apollo
			if tt.behind {
				mustCity(t, w, a.ID, world.HexCoord{Q: 4, R: -1}).Stats = world.Yields{Production: 60}
			}
			ctx, _ := newTestContext(w, a)
			checkModifiers(t, choiceModifiers(NewPlanner(ctx, c).Choices()), map[string]float64{
				"SS Booster": tt.want, "SS Cockpit": tt.want,
			})
		})
	}
}

func TestChooseMilitaryUnitWater(t *testing.T) {
	tests := []struct {
		name  string
		setup func(t *testing.T, w *game.World, b *game.Faction)
		want  string
	}{
		{"enemy ship on our sea", func(t *testing.T, w *game.World, b *game.Faction) {
			channel(w, 1, 3)
			mustSpawn(t, w, b.ID, "Trireme", world.HexCoord{Q: 3})
		}, "Trireme"},
		{"empty sea", func(t *testing.T, w *game.World, b *game.Faction) {
			channel(w, 1, 3)
		}, game.UnitWarrior},
		{"enemy ship on another lake", func(t *testing.T, w *game.World, b *game.Faction) {
			channel(w, 1, 1)
			channel(w, 5, 5)
			mustSpawn(t, w, b.ID, "Trireme", world.HexCoord{Q: 5})
		}, game.UnitWarrior},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, a, b := newTestWorld(t)
			grantTechs(a, "Sailing")
			tt.setup(t, w, b)
			c := mustCity(t, w, a.ID, world.HexCoord{})
			ctx, _ := newTestContext(w, a)
			if got := ChooseMilitaryUnit(ctx, c); got != tt.want {
				t.Errorf("ChooseMilitaryUnit = %q, want %q", got, tt.want)
			}
		})
	}
}
