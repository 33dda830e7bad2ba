package game

import "github.com/talgya/autociv/internal/world"

// BeliefType is the slot a belief fills.
type BeliefType uint8

const (
	BeliefPantheon BeliefType = iota
	BeliefFounder
	BeliefFollower
	BeliefEnhancer
)

func (t BeliefType) String() string {
	switch t {
	case BeliefFounder:
		return "Founder"
	case BeliefFollower:
		return "Follower"
	case BeliefEnhancer:
		return "Enhancer"
	}
	return "Pantheon"
}

// EffectKind is the closed set of belief effects the engine understands.
type EffectKind uint8

const (
	EffectUnknown               EffectKind = iota
	EffectStatFromTerrain                  // Amount of Stat on tiles whose terrain matches Filter
	EffectStatFromImprovement              // Amount of Stat on tiles with improvement Filter
	EffectStatFromResource                 // Amount of Stat on tiles with resource Filter
	EffectStatFromBuilding                 // Amount of Stat in cities with building Filter
	EffectStatPerPopulation                // Amount of Stat per 4 population
	EffectStatPerTradeRoute                // Amount of Stat in cities connected to the capital
	EffectStatInHolyCity                   // Amount of Stat in the holy city
	EffectPercentStat                      // Amount percent of Stat in every city
	EffectFollowerPercent                  // Amount percent of Stat per follower, capped at Max
	EffectHappinessPerCity                 // Amount happiness per following city
	EffectCombatStrength                   // Amount percent combat strength
	EffectFaithPurchaseDiscount            // Amount percent cheaper faith purchases
	EffectSpreadRange                      // Amount extra tiles of religious pressure
)

// Effect is one typed effect descriptor of a belief.
type Effect struct {
	Kind   EffectKind
	Stat   world.Stat
	Amount float64
	Filter string
	Max    float64
}

// Belief is an immutable catalog entry.
type Belief struct {
	Name    string
	Type    BeliefType
	Effects []Effect
}

// Beliefs is the belief catalog keyed by name.
var Beliefs = map[string]*Belief{}

// BeliefOrder lists the catalog in a stable order.
var BeliefOrder []string

func init() {
	for _, b := range []*Belief{
		{Name: "God of the Open Sky", Type: BeliefPantheon, Effects: []Effect{{Kind: EffectStatFromImprovement, Stat: world.StatCulture, Amount: 1, Filter: string(world.ImprovementPasture)}}},
		{Name: "Goddess of the Hunt", Type: BeliefPantheon, Effects: []Effect{{Kind: EffectStatFromImprovement, Stat: world.StatFood, Amount: 1, Filter: string(world.ImprovementCamp)}}},
		{Name: "Fertility Rites", Type: BeliefPantheon, Effects: []Effect{{Kind: EffectPercentStat, Stat: world.StatFood, Amount: 10}}},
		{Name: "Religious Idols", Type: BeliefPantheon, Effects: []Effect{{Kind: EffectStatFromResource, Stat: world.StatFaith, Amount: 2, Filter: "Gems"}}},
		{Name: "Stone Circles", Type: BeliefPantheon, Effects: []Effect{{Kind: EffectStatFromImprovement, Stat: world.StatFaith, Amount: 2, Filter: string(world.ImprovementQuarry)}}},
		{Name: "Sacred Path", Type: BeliefPantheon, Effects: []Effect{{Kind: EffectStatFromTerrain, Stat: world.StatCulture, Amount: 1, Filter: "Forest"}}},
		{Name: "God of the Sea", Type: BeliefPantheon, Effects: []Effect{{Kind: EffectStatFromImprovement, Stat: world.StatProduction, Amount: 1, Filter: string(world.ImprovementFishingBoats)}}},
		{Name: "Desert Folklore", Type: BeliefPantheon, Effects: []Effect{{Kind: EffectStatFromTerrain, Stat: world.StatFaith, Amount: 1, Filter: "Desert"}}},
		{Name: "God of War", Type: BeliefPantheon, Effects: []Effect{{Kind: EffectCombatStrength, Amount: 10}}},
		{Name: "Messenger of the Gods", Type: BeliefPantheon, Effects: []Effect{{Kind: EffectUnknown, Amount: 2}}},

		{Name: "Tithe", Type: BeliefFounder, Effects: []Effect{{Kind: EffectFollowerPercent, Stat: world.StatGold, Amount: 25, Max: 8}}},
		{Name: "Ceremonial Burial", Type: BeliefFounder, Effects: []Effect{{Kind: EffectHappinessPerCity, Stat: world.StatHappiness, Amount: 1}}},
		{Name: "Pilgrimage", Type: BeliefFounder, Effects: []Effect{{Kind: EffectStatInHolyCity, Stat: world.StatFaith, Amount: 4}}},
		{Name: "World Church", Type: BeliefFounder, Effects: []Effect{{Kind: EffectFollowerPercent, Stat: world.StatCulture, Amount: 20, Max: 6}}},
		{Name: "Church Property", Type: BeliefFounder, Effects: []Effect{{Kind: EffectStatPerTradeRoute, Stat: world.StatGold, Amount: 2}}},

		{Name: "Feed the World", Type: BeliefFollower, Effects: []Effect{{Kind: EffectStatFromBuilding, Stat: world.StatFood, Amount: 1, Filter: "Shrine"}, {Kind: EffectStatFromBuilding, Stat: world.StatFood, Amount: 1, Filter: "Temple"}}},
		{Name: "Pagodas", Type: BeliefFollower, Effects: []Effect{{Kind: EffectStatFromBuilding, Stat: world.StatCulture, Amount: 2, Filter: "Temple"}}},
		{Name: "Religious Community", Type: BeliefFollower, Effects: []Effect{{Kind: EffectFollowerPercent, Stat: world.StatProduction, Amount: 10, Max: 5}}},
		{Name: "Guruship", Type: BeliefFollower, Effects: []Effect{{Kind: EffectStatPerPopulation, Stat: world.StatProduction, Amount: 1}}},
		{Name: "Swords into Plowshares", Type: BeliefFollower, Effects: []Effect{{Kind: EffectPercentStat, Stat: world.StatFood, Amount: 15}}},
		{Name: "Divine Inspiration", Type: BeliefFollower, Effects: []Effect{{Kind: EffectStatFromBuilding, Stat: world.StatFaith, Amount: 2, Filter: "Great Library"}}},

		{Name: "Evangelism", Type: BeliefEnhancer, Effects: []Effect{{Kind: EffectSpreadRange, Amount: 3}}},
		{Name: "Holy Order", Type: BeliefEnhancer, Effects: []Effect{{Kind: EffectFaithPurchaseDiscount, Amount: 30}}},
		{Name: "Defender of the Faith", Type: BeliefEnhancer, Effects: []Effect{{Kind: EffectCombatStrength, Amount: 20}}},
		{Name: "Religious Texts", Type: BeliefEnhancer, Effects: []Effect{{Kind: EffectSpreadRange, Amount: 2}}},
	} {
		Beliefs[b.Name] = b
		BeliefOrder = append(BeliefOrder, b.Name)
	}
}

// Religion is a founded religion.
type Religion struct {
	Name     string
	Founder  FactionID
	HolyCity CityID
	Pantheon string
	Beliefs  []string // Founder, follower and enhancer beliefs
}

// ReligionNames are handed out in order as religions are founded.
var ReligionNames = []string{"Buddhism", "Christianity", "Hinduism", "Islam", "Judaism", "Shinto", "Taoism"}

// Thresholds of stored faith for religious milestones.
const (
	PantheonFaith = 10
	ReligionFaith = 200
	EnhanceFaith  = 400
)
