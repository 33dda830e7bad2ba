package world

import "fmt"

// Stat names one kind of per-turn output.
type Stat uint8

const (
	StatFood Stat = iota
	StatProduction
	StatGold
	StatScience
	StatCulture
	StatFaith
	StatHappiness
)

var statNames = [...]string{"Food", "Production", "Gold", "Science", "Culture", "Faith", "Happiness"}

func (s Stat) String() string {
	if int(s) < len(statNames) {
		return statNames[s]
	}
	return fmt.Sprintf("Stat(%d)", s)
}

// AllStats lists every stat in declaration order.
var AllStats = []Stat{StatFood, StatProduction, StatGold, StatScience, StatCulture, StatFaith, StatHappiness}

// Yields is a bundle of per-turn stats produced by a tile, building or city.
type Yields struct {
	Food       float64 `json:"food"`
	Production float64 `json:"production"`
	Gold       float64 `json:"gold"`
	Science    float64 `json:"science"`
	Culture    float64 `json:"culture"`
	Faith      float64 `json:"faith"`
	Happiness  float64 `json:"happiness"`
}

// Get returns the value of a single stat.
func (y Yields) Get(s Stat) float64 {
	switch s {
	case StatFood:
		return y.Food
	case StatProduction:
		return y.Production
	case StatGold:
		return y.Gold
	case StatScience:
		return y.Science
	case StatCulture:
		return y.Culture
	case StatFaith:
		return y.Faith
	case StatHappiness:
		return y.Happiness
	}
	return 0
}

// AddStat adds v to a single stat.
func (y *Yields) AddStat(s Stat, v float64) {
	switch s {
	case StatFood:
		y.Food += v
	case StatProduction:
		y.Production += v
	case StatGold:
		y.Gold += v
	case StatScience:
		y.Science += v
	case StatCulture:
		y.Culture += v
	case StatFaith:
		y.Faith += v
	case StatHappiness:
		y.Happiness += v
	}
}

// Plus returns the element-wise sum.
func (y Yields) Plus(o Yields) Yields {
	return Yields{
		Food:       y.Food + o.Food,
		Production: y.Production + o.Production,
		Gold:       y.Gold + o.Gold,
		Science:    y.Science + o.Science,
		Culture:    y.Culture + o.Culture,
		Faith:      y.Faith + o.Faith,
		Happiness:  y.Happiness + o.Happiness,
	}
}

// Times returns every stat multiplied by f.
func (y Yields) Times(f float64) Yields {
	return Yields{
		Food:       y.Food * f,
		Production: y.Production * f,
		Gold:       y.Gold * f,
		Science:    y.Science * f,
		Culture:    y.Culture * f,
		Faith:      y.Faith * f,
		Happiness:  y.Happiness * f,
	}
}

// Has reports whether the stat is positive.
func (y Yields) Has(s Stat) bool {
	return y.Get(s) > 0
}
