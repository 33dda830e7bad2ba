package automation

import (
	"testing"

	"github.com/talgya/autociv/internal/game"
	"github.com/talgya/autociv/internal/world"
)

const testReligion = "Buddhism"

func foundTestReligion(f *game.Faction) {
	f.Religion = testReligion
	f.ReligionState = game.ReligionFounded
}

func TestDecideFaithPurchase(t *testing.T) {
	tests := []struct {
		name  string
		setup func(t *testing.T, w *game.World, a, b *game.Faction)
		want  string
	}{
		{
			name: "no religion",
			setup: func(t *testing.T, w *game.World, a, b *game.Faction) {
				mustCity(t, w, b.ID, world.HexCoord{Q: 3})
			},
			want: "",
		},
		{
			name: "tie",
			setup: func(t *testing.T, w *game.World, a, b *game.Faction) {
				foundTestReligion(a)
			},
			want: "",
		},
		{
			name: "unconverted neighbor",
			setup: func(t *testing.T, w *game.World, a, b *game.Faction) {
				foundTestReligion(a)
				mustCity(t, w, a.ID, world.HexCoord{Q: -3})
				mustCity(t, w, b.ID, world.HexCoord{Q: 3})
			},
			want: game.UnitMissionary,
		},
		{
			name: "heresy at home",
			setup: func(t *testing.T, w *game.World, a, b *game.Faction) {
				foundTestReligion(a)
				c := mustCity(t, w, a.ID, world.HexCoord{Q: -3})
				c.Population = 3
				c.Followers[testReligion] = 2
				c.Followers["Islam"] = 1
			},
			want: game.UnitInquisitor,
		},
		{
			name: "human",
			setup: func(t *testing.T, w *game.World, a, b *game.Faction) {
				foundTestReligion(a)
				a.Human = true
				mustCity(t, w, a.ID, world.HexCoord{Q: -3})
				mustCity(t, w, b.ID, world.HexCoord{Q: 3})
			},
			want: "",
		},
		{
			name: "missionary already sent",
			setup: func(t *testing.T, w *game.World, a, b *game.Faction) {
				foundTestReligion(a)
				c := mustCity(t, w, a.ID, world.HexCoord{Q: -3})
				c.Followers[testReligion] = 1
				mustCity(t, w, b.ID, world.HexCoord{Q: 3})
				mustSpawn(t, w, a.ID, game.UnitMissionary, world.HexCoord{Q: -3})
			},
			want: "",
		},
	}
	for _, tt := range tests {
		w, a, b := newTestWorld(t)
		tt.setup(t, w, a, b)
		if got := DecideFaithPurchase(w, a); got != tt.want {
			t.Errorf("%s: DecideFaithPurchase = %q, want %q", tt.name, got, tt.want)
		}
	}
}

func TestAssessFaithNeedWeights(t *testing.T) {
	w, a, b := newTestWorld(t)
	foundTestReligion(a)
	c := mustCity(t, w, a.ID, world.HexCoord{Q: -3})
	c.Population = 3
	c.Followers[testReligion] = 2
	c.Followers["Islam"] = 1
	mustCity(t, w, b.ID, world.HexCoord{Q: 3})

	if got := AssessFaithNeed(w, a); got != (FaithNeed{Inquisitor: 1, Missionary: 1}) {
		t.Errorf("AssessFaithNeed at peace = %+v, want 1/1", got)
	}

	a.Victory = game.VictoryCulture
	if got := AssessFaithNeed(w, a); got.Missionary != 1.5 {
		t.Errorf("missionary need for culture = %v, want 1.5", got.Missionary)
	}

	if err := w.DeclareWar(a.ID, b.ID); err != nil {
		t.Fatal(err)
	}
	got := AssessFaithNeed(w, a)
	if got.Inquisitor != 1.5 {
		t.Errorf("inquisitor need at war = %v, want 1.5", got.Inquisitor)
	}
	if got.Missionary != 0 {
		t.Errorf("missionary need towards enemy = %v, want 0", got.Missionary)
	}
}

func TestHeretics(t *testing.T) {
	c := &game.City{Followers: map[string]int{testReligion: 3, "Islam": 2, "Shinto": 1}}
	if got := heretics(c, testReligion); got != 3 {
		t.Errorf("heretics = %d, want 3", got)
	}
}

func TestChooseReligionPantheon(t *testing.T) {
	w, a, _ := newTestWorld(t)
	mustCity(t, w, a.ID, world.HexCoord{})
	ctx, _ := newTestContext(w, a)

	ChooseReligion(ctx)
	if a.ReligionState != game.ReligionNone {
		t.Fatalf("pantheon adopted without faith")
	}

	a.Faith = game.PantheonFaith
	ChooseReligion(ctx)
	if a.ReligionState != game.ReligionPantheon || a.Pantheon == "" {
		t.Errorf("religion state = %v (%q), want a pantheon", a.ReligionState, a.Pantheon)
	}
}

func TestBeliefHolyCityBonus(t *testing.T) {
	tests := []struct {
		name    string
		founded bool
		city    string
		want    float64
	}{
		{"holiest city before founding", false, "shrine", 4},
		{"capital before founding", false, "capital", 0},
		{"holy city after founding", true, "capital", 4},
		{"other city after founding", true, "shrine", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, a, _ := newTestWorld(t)
			cities := map[string]*game.City{
				"capital": mustCity(t, w, a.ID, world.HexCoord{}),
				"shrine":  mustCity(t, w, a.ID, world.HexCoord{Q: 4, R: -1}),
			}
			cities["capital"].Stats = world.Yields{Faith: 1}
			cities["shrine"].Stats = world.Yields{Faith: 3}
			if tt.founded {
				foundTestReligion(a)
				cities["capital"].HolyCity = testReligion
			}
			got := beliefCityBonus(w, game.Beliefs["Pilgrimage"], cities[tt.city], a)
			if got != tt.want {
				t.Errorf("beliefCityBonus(Pilgrimage, %s) = %v, want %v", tt.city, got, tt.want)
			}
		})
	}
}

func TestBeliefFollowerBonus(t *testing.T) {
	tests := []struct {
		name       string
		founded    bool
		population int
		followers  int
		want       float64
	}{
		{"whole city before founding", false, 6, 0, 1.5},
		{"followers after founding", true, 6, 2, 0.5},
		{"capped", true, 40, 40, 8},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, a, _ := newTestWorld(t)
			c := mustCity(t, w, a.ID, world.HexCoord{})
			c.Population = tt.population
			if tt.founded {
				foundTestReligion(a)
				c.Followers[testReligion] = tt.followers
			}
			got := beliefCityBonus(w, game.Beliefs["Tithe"], c, a)
			if got != tt.want {
				t.Errorf("beliefCityBonus(Tithe, pop %d, followers %d) = %v, want %v",
					tt.population, tt.followers, got, tt.want)
			}
		})
	}
}
