package rules

import (
	"errors"
	"strings"
	"testing"
)

func TestDefaultRulesCompile(t *testing.T) {
	engine, err := NewEngine(DefaultRules())
	if err != nil {
		t.Fatalf("NewEngine(DefaultRules()) failed: %v", err)
	}
	for i := 1; i < len(engine.rules); i++ {
		if engine.rules[i].Priority > engine.rules[i-1].Priority {
			t.Errorf("rules not sorted by priority: %s (%d) > %s (%d)",
				engine.rules[i].Name, engine.rules[i].Priority,
				engine.rules[i-1].Name, engine.rules[i-1].Priority)
		}
	}
}

func TestDefaultEscalations(t *testing.T) {
	engine, err := NewEngine(DefaultRules())
	if err != nil {
		t.Fatal(err)
	}
	cases := []struct {
		name     string
		env      CityEnv
		category string
		base     float64
		want     float64
	}{
		{"gold fine", CityEnv{GoldPerTurn: 2}, CategoryGold, 1.2, 1.2},
		{"gold deficit", CityEnv{GoldPerTurn: -1}, CategoryGold, 1.2, 3},
		{"unhappy", CityEnv{Happiness: -2}, CategoryHappiness, 1, 3},
		{"content", CityEnv{Happiness: 6}, CategoryHappiness, 1, 0.5},
		{"neutral happiness", CityEnv{Happiness: 3}, CategoryHappiness, 1, 1},
		{"war and domination", CityEnv{AtWar: true, Victory: "Domination", Production: 5, AverageProduction: 5}, CategoryMilitary, 0.5, 3},
		{"below average", CityEnv{Production: 1, AverageProduction: 5}, CategoryMilitary, 0.5, 0.1},
		{"barbarians override", CityEnv{AtWar: true, BarbarianNearby: true, SettlerIdle: true}, CategoryMilitary, 0.5, 10},
		{"idle settler", CityEnv{SettlerIdle: true, Production: 1, AverageProduction: 5}, CategoryMilitary, 0.5, 5},
		{"untouched category", CityEnv{GoldPerTurn: -1}, CategoryFood, 1.3, 1.3},
	}
	for _, c := range cases {
		got := engine.Evaluate(c.env).Apply(c.category, c.base)
		if diff := got - c.want; diff > 1e-9 || diff < -1e-9 {
			t.Errorf("%s: Apply(%s, %v) = %v, want %v", c.name, c.category, c.base, got, c.want)
		}
	}
}

func TestUnknownCategory(t *testing.T) {
	_, err := NewEngine([]*Rule{{Name: "x", Category: "navy", ConditionSrc: "true", Mode: ModeSet, Value: 1}})
	if !errors.Is(err, ErrUnknownCategory) {
		t.Errorf("NewEngine with unknown category = %v, want ErrUnknownCategory", err)
	}
}

func TestBadCondition(t *testing.T) {
	_, err := NewEngine([]*Rule{{Name: "bad", Category: CategoryGold, ConditionSrc: "NoSuchField > 1", Mode: ModeSet, Value: 1}})
	if err == nil {
		t.Error("NewEngine accepted a condition over an unknown field")
	}
}

func TestLoad(t *testing.T) {
	src := `[{"name":"science-push","priority":10,"category":"science","condition":"Cities > 2","mode":"scale","value":2}]`
	rules, err := Load(strings.NewReader(src))
	if err != nil {
		t.Fatal(err)
	}
	engine, err := NewEngine(rules)
	if err != nil {
		t.Fatal(err)
	}
	if got := engine.Evaluate(CityEnv{Cities: 3}).Apply(CategoryScience, 1.1); got != 2.2 {
		t.Errorf("science modifier = %v, want 2.2", got)
	}
	if got := engine.Evaluate(CityEnv{Cities: 1}).Apply(CategoryScience, 1.1); got != 1.1 {
		t.Errorf("science modifier = %v, want 1.1", got)
	}
}

func TestNilEngine(t *testing.T) {
	var e *Engine
	if got := e.Evaluate(CityEnv{}).Apply(CategoryGold, 1.2); got != 1.2 {
		t.Errorf("nil engine changed the modifier to %v", got)
	}
}
