package rules

import (
	"fmt"
	"slices"
	"sort"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
	"github.com/rs/zerolog/log"
)

// Engine evaluates compiled rules against city snapshots. It is read-only
// after construction and safe for concurrent use.
type Engine struct {
	rules []*Rule
}

// NewEngine compiles all rule conditions into expr bytecode and sorts by priority.
func NewEngine(rules []*Rule) (*Engine, error) {
	compiled, err := compileRules(rules)
	if err != nil {
		return nil, err
	}
	return &Engine{rules: compiled}, nil
}

// Rules returns the compiled rules in evaluation order.
func (e *Engine) Rules() []*Rule {
	return e.rules
}

// Adjustment is the combined effect of the rules fired for one category.
type Adjustment struct {
	Scale  float64
	Set    float64
	HasSet bool
	Fired  []string
}

// Adjustments maps a category to its adjustment.
type Adjustments map[string]*Adjustment

// Apply returns the adjusted modifier: base times every scale, replaced by
// the highest-priority set value if one fired.
func (a Adjustments) Apply(category string, base float64) float64 {
	adj, ok := a[category]
	if !ok {
		return base
	}
	if adj.HasSet {
		return adj.Set
	}
	return base * adj.Scale
}

// Evaluate runs all rules against the snapshot. Rules fire in priority
// order; an exclusive rule blocks lower-priority rules in its category.
func (e *Engine) Evaluate(env CityEnv) Adjustments {
	out := Adjustments{}
	if e == nil {
		return out
	}
	fired := make(map[string]bool) // category → exclusive rule already fired
	for _, r := range e.rules {
		if fired[r.Category] {
			continue
		}
		result, err := vm.Run(r.program, env)
		if err != nil {
			log.Warn().Str("rule", r.Name).Err(err).Msg("rule condition error")
			continue
		}
		if match, ok := result.(bool); !ok || !match {
			continue
		}

		adj := out[r.Category]
		if adj == nil {
			adj = &Adjustment{Scale: 1}
			out[r.Category] = adj
		}
		switch r.Mode {
		case ModeSet:
			if !adj.HasSet {
				adj.Set, adj.HasSet = r.Value, true
			}
		default:
			adj.Scale *= r.Value
		}
		adj.Fired = append(adj.Fired, r.Name)
		if r.Exclusive {
			fired[r.Category] = true
		}
	}
	return out
}

func compileRules(rules []*Rule) ([]*Rule, error) {
	for _, r := range rules {
		if !slices.Contains(Categories, r.Category) {
			return nil, fmt.Errorf("rule %q category %q: %w", r.Name, r.Category, ErrUnknownCategory)
		}
		if r.Mode != ModeSet && r.Mode != ModeScale {
			return nil, fmt.Errorf("rule %q: unknown mode %q", r.Name, r.Mode)
		}
		prog, err := expr.Compile(r.ConditionSrc, expr.Env(CityEnv{}), expr.AsBool())
		if err != nil {
			return nil, fmt.Errorf("compile rule %q: %w", r.Name, err)
		}
		r.program = prog
	}
	sort.SliceStable(rules, func(i, j int) bool {
		return rules[i].Priority > rules[j].Priority
	})
	return rules, nil
}
