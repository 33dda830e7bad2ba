// Package game holds factions, cities, units and the rules that move them.
// It is the in-memory world model that automation reads and commands.
package game

import "github.com/talgya/autociv/internal/world"

// Identifiers share one counter inside a World.
type (
	FactionID uint64
	CityID    uint64
	UnitID    uint64
)

// VictoryType is the long-term goal a faction leans towards.
type VictoryType uint8

const (
	VictoryNeutral VictoryType = iota
	VictoryCulture
	VictoryDomination
	VictoryScience
)

func (v VictoryType) String() string {
	switch v {
	case VictoryCulture:
		return "Culture"
	case VictoryDomination:
		return "Domination"
	case VictoryScience:
		return "Science"
	}
	return "Neutral"
}

// ReligionState tracks how far a faction has gone towards its own religion.
type ReligionState uint8

const (
	ReligionNone ReligionState = iota
	ReligionPantheon
	ReligionFounded
	ReligionEnhanced
)

// Status is the diplomatic state between two factions.
type Status uint8

const (
	StatusPeace Status = iota
	StatusWar
)

// Relation is one faction's view of another.
type Relation struct {
	Status            Status
	OpenBorders       bool
	AgreedNotToSettle bool // We promised not to settle near them
}

// Faction is a playable civilization, human or automated.
type Faction struct {
	ID        FactionID   `json:"id"`
	Name      string      `json:"name"`
	Human     bool        `json:"human"`
	Barbarian bool        `json:"barbarian"`
	Victory   VictoryType `json:"victory"`

	Capital CityID `json:"capital"`

	// Ledgers.
	Gold      float64        `json:"gold"`
	Faith     float64        `json:"faith"`
	Culture   float64        `json:"culture"` // Stored towards the next policy
	Science   float64        `json:"science"` // Stored towards the current tech
	Happiness int            `json:"happiness"`
	Stats     world.Yields   `json:"stats"` // Totals for the coming turn
	Resources map[string]int `json:"resources"`
	Trades    []Trade        `json:"trades"`

	Techs       map[string]bool `json:"techs"`
	Researching string          `json:"researching"`
	Policies    map[string]bool `json:"policies"`

	ReligionState ReligionState `json:"religion_state"`
	Pantheon      string        `json:"pantheon"`
	Religion      string        `json:"religion"`

	Relations map[FactionID]*Relation `json:"-"`

	// Cities reached from the capital, refreshed every turn by automation.
	ConnectedCities map[CityID]bool `json:"-"`

	cityNames []string
}

// Trade is a standing one-for-one resource swap.
type Trade struct {
	With    FactionID
	Give    string
	Receive string
}

// NewFaction creates a faction with empty ledgers.
func NewFaction(id FactionID, name string, victory VictoryType) *Faction {
	return &Faction{
		ID:              id,
		Name:            name,
		Victory:         victory,
		Resources:       make(map[string]int),
		Techs:           make(map[string]bool),
		Policies:        make(map[string]bool),
		Relations:       make(map[FactionID]*Relation),
		ConnectedCities: make(map[CityID]bool),
	}
}

// HasTech reports whether the tech is researched. Empty names always pass.
func (f *Faction) HasTech(name string) bool {
	return name == "" || f.Techs[name]
}

// CanSee reports whether the faction can see a tile resource.
func (f *Faction) CanSee(res *world.Resource) bool {
	return res != nil && f.HasTech(res.RevealTech)
}

// Relation returns the faction's view of other, creating a peaceful one on demand.
func (f *Faction) Relation(other FactionID) *Relation {
	r, ok := f.Relations[other]
	if !ok {
		r = &Relation{}
		f.Relations[other] = r
	}
	return r
}

// Knows reports whether the factions have met.
func (f *Faction) Knows(other FactionID) bool {
	_, ok := f.Relations[other]
	return ok
}

// AtWarWith reports whether the factions are at war. Barbarians are at war
// with everyone.
func (f *Faction) AtWarWith(other *Faction) bool {
	if other == nil || other.ID == f.ID {
		return false
	}
	if f.Barbarian || other.Barbarian {
		return true
	}
	r, ok := f.Relations[other.ID]
	return ok && r.Status == StatusWar
}

// AtWar reports whether the faction is at war with any non-barbarian faction.
func (f *Faction) AtWar() bool {
	for _, r := range f.Relations {
		if r.Status == StatusWar {
			return true
		}
	}
	return false
}

// HasLuxury reports whether the faction holds at least one of the luxury.
func (f *Faction) HasLuxury(name string) bool {
	return f.Resources[name] > 0
}

// LuxuryTypes counts the distinct luxuries the faction holds.
func (f *Faction) LuxuryTypes() int {
	n := 0
	for name, count := range f.Resources {
		if res := world.Resources[name]; res != nil && res.Kind == world.ResourceLuxury && count > 0 {
			n++
		}
	}
	return n
}

// FactionSeed is the starting personality of a faction.
type FactionSeed struct {
	Name    string
	Victory VictoryType
}

// SeedFactions returns the pool of faction personalities.
func SeedFactions() []FactionSeed {
	return []FactionSeed{
		{Name: "The Crown", Victory: VictoryNeutral},
		{Name: "Merchant's Compact", Victory: VictoryScience},
		{Name: "Iron Brotherhood", Victory: VictoryDomination},
		{Name: "Verdant Circle", Victory: VictoryCulture},
		{Name: "Ashen Path", Victory: VictoryDomination},
		{Name: "Silver League", Victory: VictoryScience},
		{Name: "Dawn Choir", Victory: VictoryCulture},
		{Name: "Stone Wardens", Victory: VictoryNeutral},
	}
}
