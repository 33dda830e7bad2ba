package game

import (
	"slices"

	"github.com/talgya/autociv/internal/world"
)

// City is a population center owned by exactly one faction.
type City struct {
	ID      CityID         `json:"id"`
	Name    string         `json:"name"`
	Owner   FactionID      `json:"owner"`
	Center  world.HexCoord `json:"center"`
	Founded int            `json:"founded"`

	Population  int              `json:"population"`
	FoodStored  float64          `json:"food_stored"`
	Worked      []world.HexCoord `json:"worked"`
	Specialists int              `json:"specialists"`

	Health    float64 `json:"health"`
	MaxHealth float64 `json:"max_health"`

	Buildings    map[string]bool    `json:"buildings"`
	Construction string             `json:"construction"`
	Progress     map[string]float64 `json:"progress"`

	// Cached once per turn by World.RefreshStats.
	Stats world.Yields `json:"stats"`

	// Religion → population following it.
	Followers map[string]int `json:"followers"`
	HolyCity  string         `json:"holy_city,omitempty"`

	cultureStored float64
}

func newCity(id CityID, name string, owner FactionID, center world.HexCoord, turn int) *City {
	return &City{
		ID:         id,
		Name:       name,
		Owner:      owner,
		Center:     center,
		Founded:    turn,
		Population: 1,
		Health:     CityMaxHealth,
		MaxHealth:  CityMaxHealth,
		Buildings:  make(map[string]bool),
		Progress:   make(map[string]float64),
		Followers:  make(map[string]int),
	}
}

// CityMaxHealth is the health of an undamaged city.
const CityMaxHealth = 200

// IsWorked reports whether a citizen works the tile.
func (c *City) IsWorked(coord world.HexCoord) bool {
	return slices.Contains(c.Worked, coord)
}

// Has reports whether the building stands in the city.
func (c *City) Has(building string) bool {
	return c.Buildings[building]
}

// BuildingCount is the number of buildings in the city.
func (c *City) BuildingCount() int {
	return len(c.Buildings)
}

// MajorityReligion returns the religion followed by more than half the
// population, or "".
func (c *City) MajorityReligion() string {
	for _, name := range ReligionNames {
		if n := c.Followers[name]; n*2 > c.Population {
			return name
		}
	}
	return ""
}

// FoodToGrow is the food needed for the next citizen.
func (c *City) FoodToGrow() float64 {
	return 15 + 6*float64(c.Population-1)
}

// IsBuildingWonder reports whether the current construction is a wonder.
func (c *City) IsBuildingWonder() bool {
	b := Buildings[c.Construction]
	return b != nil && b.Wonder
}

// IsPerpetual reports whether the current construction never completes.
func (c *City) IsPerpetual() bool {
	return c.Construction == "" || c.Construction == PerpetualScience || c.Construction == PerpetualGold
}
