package game

import "github.com/talgya/autociv/internal/world"

// MovementEpsilon absorbs rounding from fractional road movement. A unit
// with no more than this much movement left is treated as spent.
const MovementEpsilon = 0.1

// Unit is a single unit on the map.
type Unit struct {
	ID    UnitID         `json:"id"`
	Type  *UnitType      `json:"-"`
	Owner FactionID      `json:"owner"`
	Pos   world.HexCoord `json:"pos"`

	Health       int     `json:"health"` // 0–100
	MovementLeft float64 `json:"movement_left"`
	AttacksLeft  int     `json:"attacks_left"`

	Embarked  bool `json:"embarked"`
	Fortified bool `json:"fortified"`
	SetUp     bool `json:"set_up"` // Siege unit ready to fire from its tile
	Acted     bool `json:"acted"`  // Attacked or pillaged this turn; no passive healing

	// Worker job in progress.
	Job      world.Improvement `json:"job,omitempty"`
	JobRoute bool              `json:"job_route,omitempty"`
	JobTurns int               `json:"job_turns,omitempty"`

	// Remaining religious spreads for missionaries.
	Charges int `json:"charges,omitempty"`
}

// HasMovement reports whether the unit can still act this turn.
func (u *Unit) HasMovement() bool {
	return u.MovementLeft > MovementEpsilon
}

// IsCivilian reports whether the unit cannot fight.
func (u *Unit) IsCivilian() bool { return u.Type.IsCivilian() }

// IsMilitary reports whether the unit can fight.
func (u *Unit) IsMilitary() bool { return u.Type.IsMilitary() }

// IsDamaged reports whether the unit is below full health.
func (u *Unit) IsDamaged() bool { return u.Health < 100 }
