package game

import (
	"math"

	"github.com/talgya/autociv/internal/world"
)

// BaseDamage is dealt when both sides are equally strong.
const BaseDamage = 24

// GeneralRadius is how far a great general's combat bonus reaches.
const GeneralRadius = 2

// Prediction is the expected outcome of one attack.
type Prediction struct {
	ToTarget   int  // Damage the defender takes
	ToAttacker int  // Damage the attacker takes in retaliation
	Capture    bool // Target is a lone civilian or a city that falls
}

func healthFactor(health float64) float64 {
	return 0.5 + health/200
}

func (w *World) generalNearby(u *Unit) bool {
	for _, t := range w.Map.TilesInDistance(u.Pos, GeneralRadius) {
		if o := w.CivilianAt(t.Coord); o != nil && o.Owner == u.Owner && o.Type.Category == CategoryGreatGeneral {
			return true
		}
	}
	return false
}

func (w *World) modifiers(u *Unit) float64 {
	m := 1 + w.CombatBonus(w.Faction(u.Owner))/100
	if w.generalNearby(u) {
		m *= 1.15
	}
	return m
}

// AttackStrength is u's effective strength when attacking.
func (w *World) AttackStrength(u *Unit) float64 {
	base := u.Type.Strength
	if u.Type.RangedStrength > 0 {
		base = u.Type.RangedStrength
	}
	return base * healthFactor(float64(u.Health)) * w.modifiers(u)
}

// DefenseStrength is u's effective strength when attacked on its tile.
func (w *World) DefenseStrength(u *Unit) float64 {
	s := u.Type.Strength
	if u.Type.IsAir() {
		s = u.Type.RangedStrength
	}
	if u.Embarked {
		s = math.Max(s, 4) / 2
	}
	t := w.Map.Get(u.Pos)
	if t != nil && u.Type.Domain == DomainLand && !u.Embarked {
		s *= 1 + t.Terrain.DefenseBonus()
	}
	if u.Fortified {
		s *= 1.25
	}
	return s * healthFactor(float64(u.Health)) * w.modifiers(u)
}

// CityStrength is the defensive strength of a city.
func (w *World) CityStrength(c *City) float64 {
	s := 6 + float64(c.Population)
	for name := range c.Buildings {
		if b := Buildings[name]; b != nil {
			s += b.CityStrength
		}
	}
	if t := w.Map.Get(c.Center); t != nil {
		s *= 1 + t.Terrain.DefenseBonus()
	}
	if g := w.MilitaryUnitAt(c.Center); g != nil {
		s += g.Type.Strength / 4
	}
	return s * healthFactor(100*c.Health/c.MaxHealth)
}

func ratioModifier(r float64) float64 {
	return (math.Pow((r+3)/4, 4) + 1) / 2
}

// exchange returns the damage dealt to the defender and to the attacker for
// the given strengths.
func exchange(attack, defense float64) (toDefender, toAttacker float64) {
	if defense <= 0 {
		return math.Inf(1), 0
	}
	if attack <= 0 {
		return 0, math.Inf(1)
	}
	if attack >= defense {
		m := ratioModifier(attack / defense)
		return BaseDamage * m, BaseDamage / m
	}
	m := ratioModifier(defense / attack)
	return BaseDamage / m, BaseDamage * m
}

// PredictDamage estimates what happens when attacker hits the target tile.
// Ranged units and aircraft take no retaliation.
func (w *World) PredictDamage(attacker *Unit, target world.HexCoord) Prediction {
	as := w.AttackStrength(attacker)
	noRetaliation := attacker.Type.RangedStrength > 0 || attacker.Type.IsAir()
	if c := w.CityAt(target); c != nil {
		if !attacker.Type.CanTargetCity() {
			a := w.aircraftTarget(attacker, target)
			if a == nil {
				return Prediction{}
			}
			toDef, toAtt := exchange(as, w.DefenseStrength(a))
			p := Prediction{ToTarget: min(round(toDef), 100), ToAttacker: min(round(toAtt), 100)}
			if noRetaliation {
				p.ToAttacker = 0
			}
			return p
		}
		toDef, toAtt := exchange(as, w.CityStrength(c))
		p := Prediction{ToTarget: round(toDef), ToAttacker: round(toAtt)}
		if noRetaliation {
			p.ToAttacker = 0
			p.ToTarget = min(p.ToTarget, int(c.Health)-1)
		} else if float64(p.ToTarget) >= c.Health {
			p.Capture = true
		}
		return p
	}
	defender := w.MilitaryUnitAt(target)
	if defender == nil {
		if w.CivilianAt(target) != nil {
			return Prediction{Capture: !noRetaliation}
		}
		return Prediction{}
	}
	toDef, toAtt := exchange(as, w.DefenseStrength(defender))
	p := Prediction{ToTarget: min(round(toDef), 100), ToAttacker: min(round(toAtt), 100)}
	if noRetaliation {
		p.ToAttacker = 0
	}
	return p
}

func round(v float64) int {
	if math.IsInf(v, 1) {
		return math.MaxInt32
	}
	return int(math.Round(v))
}
