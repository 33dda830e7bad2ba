package game

import "github.com/talgya/autociv/internal/world"

// Domain is where a unit moves.
type Domain uint8

const (
	DomainLand Domain = iota
	DomainWater
	DomainAir
)

func (d Domain) String() string {
	switch d {
	case DomainWater:
		return "Water"
	case DomainAir:
		return "Air"
	}
	return "Land"
}

// UnitCategory drives which automated role a unit gets.
type UnitCategory uint8

const (
	CategorySettler UnitCategory = iota
	CategoryWorker
	CategoryWorkBoat
	CategoryGreatGeneral
	CategoryGreatPerson
	CategoryMissionary
	CategoryInquisitor
	CategoryScout
	CategoryMelee
	CategoryRanged
	CategorySiege
	CategoryFighter
	CategoryBomber
	CategoryMissile
	CategorySpaceshipPart
)

var categoryNames = [...]string{
	"Settler", "Worker", "WorkBoat", "GreatGeneral", "GreatPerson", "Missionary",
	"Inquisitor", "Scout", "Melee", "Ranged", "Siege", "Fighter", "Bomber", "Missile",
	"SpaceshipPart",
}

func (c UnitCategory) String() string {
	if int(c) < len(categoryNames) {
		return categoryNames[c]
	}
	return "Unknown"
}

// UnitType is the static description of a unit.
type UnitType struct {
	Name           string
	Category       UnitCategory
	Domain         Domain
	Strength       float64
	RangedStrength float64
	Range          int
	Movement       float64
	Cost           int // Production cost; 0 means it cannot be trained
	FaithCost      int // Faith purchase cost; 0 means it cannot be bought with faith

	RequiredTech     string
	ObsoleteTech     string
	UpgradesTo       string
	RequiresResource string

	MustSetUp        bool           // Pays one movement point before firing unless already set up
	OnlyAttacks      []UnitCategory // Empty means any target
	OnlyAttacksWater bool           // May only target water tiles
	Invisible        bool           // Seen only by detecting units
	DetectsInvisible bool
	Consumed         bool // Destroyed after attacking
}

// IsCivilian reports whether the unit has no combat strength.
func (t *UnitType) IsCivilian() bool {
	return t.Strength == 0 && t.RangedStrength == 0
}

// IsMilitary reports whether the unit can fight.
func (t *UnitType) IsMilitary() bool { return !t.IsCivilian() }

// IsRanged reports whether the unit attacks from a distance without retaliation.
func (t *UnitType) IsRanged() bool {
	return t.RangedStrength > 0 && t.Domain != DomainAir
}

// IsMelee reports whether the unit attacks by moving into its target.
func (t *UnitType) IsMelee() bool {
	return t.Strength > 0 && t.RangedStrength == 0 && t.Domain != DomainAir
}

// IsAir reports whether the unit is an aircraft or missile.
func (t *UnitType) IsAir() bool { return t.Domain == DomainAir }

// MaxStrength is the larger of melee and ranged strength.
func (t *UnitType) MaxStrength() float64 {
	return max(t.Strength, t.RangedStrength)
}

// AttackRange is 1 for melee units.
func (t *UnitType) AttackRange() int {
	if t.RangedStrength > 0 {
		return t.Range
	}
	return 1
}

func (t *UnitType) attacksCategory(c UnitCategory) bool {
	if len(t.OnlyAttacks) == 0 {
		return true
	}
	for _, x := range t.OnlyAttacks {
		if x == c {
			return true
		}
	}
	return false
}

// CanTargetTile applies the terrain restriction of the unit.
func (t *UnitType) CanTargetTile(tile *world.Tile) bool {
	return !t.OnlyAttacksWater || tile.IsWater()
}

// CanTargetUnit applies the unit-kind restriction of the unit.
func (t *UnitType) CanTargetUnit(target *UnitType) bool {
	return t.attacksCategory(target.Category)
}

// CanTargetCity reports whether a unit with restrictions may hit cities.
func (t *UnitType) CanTargetCity() bool {
	return len(t.OnlyAttacks) == 0 && !t.OnlyAttacksWater
}

// Unit type names referenced by game rules.
const (
	UnitSettler        = "Settler"
	UnitWorker         = "Worker"
	UnitWorkBoats      = "Work Boats"
	UnitGreatGeneral   = "Great General"
	UnitGreatScientist = "Great Scientist"
	UnitMissionary     = "Missionary"
	UnitInquisitor     = "Inquisitor"
	UnitWarrior        = "Warrior"
)

// UnitTypes is the unit catalog keyed by name.
var UnitTypes = map[string]*UnitType{}

// UnitTypeOrder lists the catalog in a stable order.
var UnitTypeOrder []string

func init() {
	for _, u := range []*UnitType{
		{Name: UnitSettler, Category: CategorySettler, Movement: 2, Cost: 106},
		{Name: UnitWorker, Category: CategoryWorker, Movement: 2, Cost: 70},
		{Name: UnitWorkBoats, Category: CategoryWorkBoat, Domain: DomainWater, Movement: 4, Cost: 50, RequiredTech: "Sailing"},
		{Name: UnitGreatGeneral, Category: CategoryGreatGeneral, Movement: 2},
		{Name: UnitGreatScientist, Category: CategoryGreatPerson, Movement: 2},
		{Name: UnitMissionary, Category: CategoryMissionary, Movement: 4, FaithCost: 100},
		{Name: UnitInquisitor, Category: CategoryInquisitor, Movement: 3, FaithCost: 100},

		{Name: "Scout", Category: CategoryScout, Strength: 4, Movement: 2, Cost: 25, ObsoleteTech: "Education"},
		{Name: UnitWarrior, Category: CategoryMelee, Strength: 8, Movement: 2, Cost: 40, ObsoleteTech: "Bronze Working", UpgradesTo: "Spearman"},
		{Name: "Spearman", Category: CategoryMelee, Strength: 11, Movement: 2, Cost: 56, RequiredTech: "Bronze Working", ObsoleteTech: "Currency", UpgradesTo: "Swordsman"},
		{Name: "Swordsman", Category: CategoryMelee, Strength: 14, Movement: 2, Cost: 75, RequiredTech: "Currency", RequiresResource: "Iron", ObsoleteTech: "Refrigeration", UpgradesTo: "Infantry"},
		{Name: "Horseman", Category: CategoryMelee, Strength: 12, Movement: 4, Cost: 75, RequiredTech: "Horseback Riding", RequiresResource: "Horses"},
		{Name: "Infantry", Category: CategoryMelee, Strength: 36, Movement: 2, Cost: 320, RequiredTech: "Refrigeration"},
		{Name: "Archer", Category: CategoryRanged, Strength: 5, RangedStrength: 7, Range: 2, Movement: 2, Cost: 40, RequiredTech: "Archery", ObsoleteTech: "Machinery", UpgradesTo: "Crossbowman"},
		{Name: "Crossbowman", Category: CategoryRanged, Strength: 13, RangedStrength: 18, Range: 2, Movement: 2, Cost: 120, RequiredTech: "Machinery"},
		{Name: "Catapult", Category: CategorySiege, Strength: 7, RangedStrength: 14, Range: 2, Movement: 2, Cost: 75, RequiredTech: "Mathematics", MustSetUp: true},
		{Name: "Trireme", Category: CategoryMelee, Domain: DomainWater, Strength: 10, Movement: 4, Cost: 45, RequiredTech: "Sailing"},
		{Name: "Galleass", Category: CategoryRanged, Domain: DomainWater, Strength: 16, RangedStrength: 17, Range: 2, Movement: 3, Cost: 100, RequiredTech: "Optics"},
		{Name: "Submarine", Category: CategoryRanged, Domain: DomainWater, Strength: 25, RangedStrength: 35, Range: 2, Movement: 5, Cost: 325, RequiredTech: "Refrigeration", Invisible: true, OnlyAttacksWater: true},
		{Name: "Destroyer", Category: CategoryMelee, Domain: DomainWater, Strength: 55, Movement: 8, Cost: 375, RequiredTech: "Flight", DetectsInvisible: true},
		{Name: "Fighter", Category: CategoryFighter, Domain: DomainAir, RangedStrength: 45, Range: 8, Movement: 1, Cost: 375, RequiredTech: "Flight", OnlyAttacks: []UnitCategory{CategoryFighter, CategoryBomber}},
		{Name: "Bomber", Category: CategoryBomber, Domain: DomainAir, RangedStrength: 65, Range: 10, Movement: 1, Cost: 400, RequiredTech: "Flight"},
		{Name: "Guided Missile", Category: CategoryMissile, Domain: DomainAir, RangedStrength: 60, Range: 8, Movement: 1, Cost: 150, RequiredTech: "Rocketry", Consumed: true},

		{Name: "SS Booster", Category: CategorySpaceshipPart, Movement: 1, Cost: 750, RequiredTech: "Space Flight"},
		{Name: "SS Cockpit", Category: CategorySpaceshipPart, Movement: 1, Cost: 750, RequiredTech: "Space Flight"},
	} {
		UnitTypes[u.Name] = u
		UnitTypeOrder = append(UnitTypeOrder, u.Name)
	}
}
