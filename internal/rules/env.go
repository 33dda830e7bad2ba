package rules

// CityEnv is the snapshot a rule condition sees.
type CityEnv struct {
	Turn              int
	Population        int
	Production        float64
	AverageProduction float64
	CityCulture       float64
	GoldPerTurn       float64
	Gold              float64
	Happiness         int
	Cities            int
	MilitaryUnits     int
	AtWar             bool
	Victory           string // "Neutral", "Culture", "Domination" or "Science"
	BarbarianNearby   bool   // Barbarian military unit within 4 tiles
	SettlerIdle       bool   // Settler waiting in the city without an escort
	ClosestToEnemy    bool   // Nearest own city to some known faction
}

// BelowAverage reports whether the city produces less than the faction mean.
func (e CityEnv) BelowAverage() bool {
	return e.Production < e.AverageProduction
}
