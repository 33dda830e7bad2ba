package rules

// DefaultRules returns the stock doctrine: the gold, happiness and military
// escalations of the construction planner.
func DefaultRules() []*Rule {
	return []*Rule{
		{Name: "gold-deficit", Priority: 100, Category: CategoryGold, Exclusive: true,
			ConditionSrc: "GoldPerTurn < 0", Mode: ModeSet, Value: 3},

		{Name: "unhappy", Priority: 100, Category: CategoryHappiness, Exclusive: true,
			ConditionSrc: "Happiness < 0", Mode: ModeSet, Value: 3},
		{Name: "content", Priority: 90, Category: CategoryHappiness, Exclusive: true,
			ConditionSrc: "Happiness > 5", Mode: ModeSet, Value: 0.5},

		{Name: "barbarian-pressure", Priority: 100, Category: CategoryMilitary, Exclusive: true,
			ConditionSrc: "BarbarianNearby", Mode: ModeSet, Value: 10},
		{Name: "idle-settler", Priority: 90, Category: CategoryMilitary, Exclusive: true,
			ConditionSrc: "SettlerIdle", Mode: ModeSet, Value: 5},
		{Name: "domination-focus", Priority: 50, Category: CategoryMilitary,
			ConditionSrc: `Victory == "Domination"`, Mode: ModeScale, Value: 3},
		{Name: "wartime", Priority: 50, Category: CategoryMilitary,
			ConditionSrc: "AtWar", Mode: ModeScale, Value: 2},
		{Name: "low-production", Priority: 40, Category: CategoryMilitary,
			ConditionSrc: "BelowAverage()", Mode: ModeScale, Value: 0.2},
	}
}
