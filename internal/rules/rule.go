// Package rules holds doctrine rules: expr conditions over a city snapshot
// that adjust the construction planner's modifiers.
package rules

import (
	"errors"

	"github.com/expr-lang/expr/vm"
)

// ErrUnknownCategory is returned for a rule aimed at a modifier the planner
// does not have.
var ErrUnknownCategory = errors.New("unknown rule category")

// Mode says how a fired rule changes its category's modifier.
type Mode string

const (
	ModeSet   Mode = "set"   // Replace the modifier; applied after scaling
	ModeScale Mode = "scale" // Multiply the modifier
)

// Construction modifier categories.
const (
	CategoryFood         = "food"
	CategoryProduction   = "production"
	CategoryGold         = "gold"
	CategoryScience      = "science"
	CategoryHappiness    = "happiness"
	CategoryDefense      = "defense"
	CategoryCulture      = "culture"
	CategoryUnitTraining = "unit_training"
	CategoryWonder       = "wonder"
	CategoryMilitary     = "military"
	CategoryWorkers      = "workers"
	CategoryWorkBoats    = "workboats"
	CategorySpaceship    = "spaceship"
	CategoryMisc         = "misc"
)

// Categories lists every category a rule may target.
var Categories = []string{
	CategoryFood, CategoryProduction, CategoryGold, CategoryScience, CategoryHappiness,
	CategoryDefense, CategoryCulture, CategoryUnitTraining, CategoryWonder, CategoryMilitary,
	CategoryWorkers, CategoryWorkBoats, CategorySpaceship, CategoryMisc,
}

// Rule is one condition with the adjustment it makes when true.
// The engine evaluates rules by priority and uses Category + Exclusive to
// stop lower-priority rules from touching a category once one has fired.
type Rule struct {
	Name         string      `json:"name"`
	Priority     int         `json:"priority"` // higher = evaluated first
	Category     string      `json:"category"`
	Exclusive    bool        `json:"exclusive"`
	ConditionSrc string      `json:"condition"`
	Mode         Mode        `json:"mode"`
	Value        float64     `json:"value"`
	program      *vm.Program // compiled bytecode
}
