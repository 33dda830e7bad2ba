package automation

import (
	"math"

	"github.com/talgya/autociv/internal/game"
)

// ThreatLevel grades how dangerous another faction looks.
type ThreatLevel uint8

const (
	ThreatVeryLow ThreatLevel = iota
	ThreatLow
	ThreatMedium
	ThreatHigh
	ThreatVeryHigh
)

var threatNames = [...]string{"VeryLow", "Low", "Medium", "High", "VeryHigh"}

func (l ThreatLevel) String() string {
	if int(l) < len(threatNames) {
		return threatNames[l]
	}
	return "Unknown"
}

// CombatPower is the square root of the summed squared unit strengths,
// plus one so that it never divides by zero.
func CombatPower(w *game.World, f *game.Faction) int {
	var sum float64
	for _, u := range w.UnitsOf(f.ID) {
		s := u.Type.MaxStrength()
		sum += s * s
	}
	return int(math.Sqrt(sum)) + 1
}

// Threat grades assessed from the point of view of assessor.
func Threat(w *game.World, assessor, assessed *game.Faction) ThreatLevel {
	return ThreatFromPowers(CombatPower(w, assessor), CombatPower(w, assessed))
}

// ThreatFromPowers grades the ratio assessed/assessor. The checks run in
// this order, so VeryLow is never returned.
func ThreatFromPowers(assessor, assessed int) ThreatLevel {
	ratio := float64(assessed) / float64(assessor)
	switch {
	case ratio > 2:
		return ThreatVeryHigh
	case ratio > 1.5:
		return ThreatHigh
	case ratio < 1/1.5:
		return ThreatLow
	case ratio < 0.5:
		return ThreatVeryLow
	}
	return ThreatMedium
}
