package game

import "github.com/talgya/autociv/internal/world"

// Building is a city construction that stays built.
type Building struct {
	Name             string
	Cost             int
	Yields           world.Yields // Includes happiness
	Wonder           bool
	RequiredTech     string
	RequiredBuilding string
	RequiresCoast    bool

	CityStrength     float64 // Defense added to the city
	UnitXP           int     // Experience for units trained in the city
	Harbor           bool    // Connects the city to others by sea
	EnablesSpaceship bool
	CultureVictory   bool // Wonder wanted by culture-minded factions
	UltimateWeapon   bool
}

// Perpetual constructions turn production into another stat.
const (
	PerpetualScience = "Science"
	PerpetualGold    = "Gold"
)

// Buildings is the building catalog keyed by name.
var Buildings = map[string]*Building{}

// BuildingOrder lists the catalog in a stable order.
var BuildingOrder []string

func init() {
	for _, b := range []*Building{
		{Name: "Monument", Cost: 40, Yields: world.Yields{Culture: 2}},
		{Name: "Granary", Cost: 60, Yields: world.Yields{Food: 2}, RequiredTech: "Pottery"},
		{Name: "Shrine", Cost: 40, Yields: world.Yields{Faith: 1}, RequiredTech: "Pottery"},
		{Name: "Temple", Cost: 100, Yields: world.Yields{Faith: 2, Happiness: 1}, RequiredTech: "Mysticism", RequiredBuilding: "Shrine"},
		{Name: "Library", Cost: 75, Yields: world.Yields{Science: 2}, RequiredTech: "Writing"},
		{Name: "Walls", Cost: 75, CityStrength: 5, RequiredTech: "Masonry"},
		{Name: "Barracks", Cost: 75, UnitXP: 15, RequiredTech: "Bronze Working"},
		{Name: "Market", Cost: 100, Yields: world.Yields{Gold: 3}, RequiredTech: "Currency"},
		{Name: "Colosseum", Cost: 100, Yields: world.Yields{Happiness: 3}, RequiredTech: "Construction"},
		{Name: "Harbor", Cost: 80, Yields: world.Yields{Food: 1}, RequiredTech: "Optics", RequiresCoast: true, Harbor: true},
		{Name: "Workshop", Cost: 100, Yields: world.Yields{Production: 2}, RequiredTech: "Metal Casting"},
		{Name: "Amphitheater", Cost: 100, Yields: world.Yields{Culture: 3}, RequiredTech: "Philosophy", RequiredBuilding: "Monument"},
		{Name: "University", Cost: 160, Yields: world.Yields{Science: 4}, RequiredTech: "Education", RequiredBuilding: "Library"},
		{Name: "Castle", Cost: 160, CityStrength: 8, RequiredTech: "Machinery", RequiredBuilding: "Walls"},
		{Name: "Bank", Cost: 200, Yields: world.Yields{Gold: 4}, RequiredTech: "Banking", RequiredBuilding: "Market"},
		{Name: "Armory", Cost: 160, UnitXP: 15, RequiredTech: "Machinery", RequiredBuilding: "Barracks"},
		{Name: "Lighthouse", Cost: 75, Yields: world.Yields{Food: 1, Production: 1}, RequiredTech: "Sailing", RequiresCoast: true},
		{Name: "Stable", Cost: 100, Yields: world.Yields{Production: 1}, UnitXP: 5, RequiredTech: "Horseback Riding"},

		{Name: "Pyramids", Cost: 185, Yields: world.Yields{Production: 3}, Wonder: true, RequiredTech: "Masonry"},
		{Name: "Stonehenge", Cost: 185, Yields: world.Yields{Culture: 3, Faith: 2}, Wonder: true, RequiredTech: "Calendar"},
		{Name: "Hanging Gardens", Cost: 250, Yields: world.Yields{Food: 6}, Wonder: true, RequiredTech: "Pottery"},
		{Name: "Colossus", Cost: 185, Yields: world.Yields{Gold: 4}, Wonder: true, RequiredTech: "Bronze Working", RequiresCoast: true},
		{Name: "Great Library", Cost: 250, Yields: world.Yields{Science: 4}, Wonder: true, RequiredTech: "Writing"},
		{Name: "Notre Dame", Cost: 400, Yields: world.Yields{Happiness: 5}, Wonder: true, RequiredTech: "Education"},
		{Name: "Sistine Chapel", Cost: 400, Yields: world.Yields{Culture: 6}, Wonder: true, RequiredTech: "Banking", CultureVictory: true},
		{Name: "Eiffel Tower", Cost: 900, Yields: world.Yields{Culture: 8, Happiness: 2}, Wonder: true, RequiredTech: "Refrigeration", CultureVictory: true},
		{Name: "Manhattan Project", Cost: 1500, Wonder: true, RequiredTech: "Nuclear Fission", UltimateWeapon: true},
		{Name: "Apollo Program", Cost: 1500, Wonder: true, RequiredTech: "Space Flight", EnablesSpaceship: true},
	} {
		Buildings[b.Name] = b
		BuildingOrder = append(BuildingOrder, b.Name)
	}
}

// Tech is a node of the research tree.
type Tech struct {
	Name    string
	Cost    int
	Prereqs []string
}

// Techs is the research tree keyed by name.
var Techs = map[string]*Tech{}

// TechOrder lists the tree in a stable order.
var TechOrder []string

func init() {
	for _, t := range []*Tech{
		{Name: "Agriculture", Cost: 20},
		{Name: "Pottery", Cost: 35, Prereqs: []string{"Agriculture"}},
		{Name: "Animal Husbandry", Cost: 35, Prereqs: []string{"Agriculture"}},
		{Name: "Archery", Cost: 35, Prereqs: []string{"Agriculture"}},
		{Name: "Mining", Cost: 35, Prereqs: []string{"Agriculture"}},
		{Name: "Sailing", Cost: 55, Prereqs: []string{"Pottery"}},
		{Name: "Calendar", Cost: 55, Prereqs: []string{"Pottery"}},
		{Name: "Writing", Cost: 55, Prereqs: []string{"Pottery"}},
		{Name: "Trapping", Cost: 55, Prereqs: []string{"Animal Husbandry"}},
		{Name: "Masonry", Cost: 55, Prereqs: []string{"Mining"}},
		{Name: "Bronze Working", Cost: 55, Prereqs: []string{"Mining"}},
		{Name: "Mysticism", Cost: 75, Prereqs: []string{"Calendar"}},
		{Name: "Horseback Riding", Cost: 75, Prereqs: []string{"Animal Husbandry"}},
		{Name: "Mathematics", Cost: 100, Prereqs: []string{"Archery", "Writing"}},
		{Name: "Construction", Cost: 100, Prereqs: []string{"Masonry"}},
		{Name: "Currency", Cost: 100, Prereqs: []string{"Bronze Working"}},
		{Name: "Optics", Cost: 150, Prereqs: []string{"Sailing"}},
		{Name: "Philosophy", Cost: 175, Prereqs: []string{"Mysticism", "Writing"}},
		{Name: "Metal Casting", Cost: 250, Prereqs: []string{"Bronze Working", "Construction"}},
		{Name: "Machinery", Cost: 300, Prereqs: []string{"Mathematics", "Construction"}},
		{Name: "Education", Cost: 400, Prereqs: []string{"Philosophy"}},
		{Name: "Banking", Cost: 450, Prereqs: []string{"Currency", "Education"}},
		{Name: "Refrigeration", Cost: 1200, Prereqs: []string{"Banking", "Machinery"}},
		{Name: "Flight", Cost: 1500, Prereqs: []string{"Refrigeration", "Metal Casting"}},
		{Name: "Rocketry", Cost: 2000, Prereqs: []string{"Flight"}},
		{Name: "Nuclear Fission", Cost: 2200, Prereqs: []string{"Flight", "Optics"}},
		{Name: "Space Flight", Cost: 2500, Prereqs: []string{"Rocketry"}},
	} {
		Techs[t.Name] = t
		TechOrder = append(TechOrder, t.Name)
	}
}

// Policy is a social policy in a branch; the branch opener has no prereqs.
type Policy struct {
	Name    string
	Branch  string
	Prereqs []string
	Yields  world.Yields // Added to the capital
}

// Policies is the policy catalog keyed by name.
var Policies = map[string]*Policy{}

// PolicyOrder lists the catalog in a stable order.
var PolicyOrder []string

func init() {
	for _, p := range []*Policy{
		{Name: "Tradition", Branch: "Tradition", Yields: world.Yields{Culture: 3}},
		{Name: "Aristocracy", Branch: "Tradition", Prereqs: []string{"Tradition"}, Yields: world.Yields{Production: 2}},
		{Name: "Oligarchy", Branch: "Tradition", Prereqs: []string{"Tradition"}, Yields: world.Yields{Gold: 2}},
		{Name: "Legalism", Branch: "Tradition", Prereqs: []string{"Aristocracy"}, Yields: world.Yields{Culture: 2, Happiness: 1}},
		{Name: "Liberty", Branch: "Liberty", Yields: world.Yields{Culture: 1, Production: 1}},
		{Name: "Collective Rule", Branch: "Liberty", Prereqs: []string{"Liberty"}, Yields: world.Yields{Food: 2}},
		{Name: "Citizenship", Branch: "Liberty", Prereqs: []string{"Liberty"}, Yields: world.Yields{Production: 2}},
		{Name: "Honor", Branch: "Honor", Yields: world.Yields{Culture: 1}},
		{Name: "Warrior Code", Branch: "Honor", Prereqs: []string{"Honor"}, Yields: world.Yields{Production: 1}},
		{Name: "Discipline", Branch: "Honor", Prereqs: []string{"Honor"}, Yields: world.Yields{Happiness: 1}},
		{Name: "Piety", Branch: "Piety", Yields: world.Yields{Faith: 2}},
		{Name: "Organized Religion", Branch: "Piety", Prereqs: []string{"Piety"}, Yields: world.Yields{Faith: 2, Happiness: 1}},
	} {
		Policies[p.Name] = p
		PolicyOrder = append(PolicyOrder, p.Name)
	}
}

// PolicyCost is the culture needed for the next policy.
func PolicyCost(adopted, cities int) float64 {
	base := 25 + 6*float64(adopted*adopted) + 10*float64(adopted)
	return base * (1 + 0.3*float64(max(cities-1, 0)))
}
