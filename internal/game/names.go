package game

var namePrefixes = []string{
	"Iron", "Green", "Ash", "Stone", "Mill", "Cross", "Black",
	"Silver", "Red", "White", "Dark", "Bright", "High", "Low",
	"Old", "New", "Far", "Deep", "Long", "Broad", "Gold", "Frost",
	"Storm", "Thorn", "Elm", "Oak", "Pine", "Copper", "River",
}

var nameSuffixes = []string{
	"haven", "ford", "hollow", "wick", "bridge", "gate", "keep",
	"stead", "wood", "field", "dale", "crest", "vale", "port",
	"town", "bury", "marsh", "well", "brook", "cliff", "moor",
	"ridge", "watch", "fall", "rest", "point", "reach", "helm",
}

// nextCityName combines syllables into a name no city in the world carries.
// The walk is seeded by the faction id so every faction gets its own flavor
// without drawing from a random source.
func (w *World) nextCityName(f *Faction) string {
	used := make(map[string]bool, len(w.cities))
	for _, c := range w.cities {
		used[c.Name] = true
	}
	n := len(f.cityNames)
	base := int(f.ID)
	for i := 0; ; i++ {
		p := namePrefixes[(base*7+n+i)%len(namePrefixes)]
		s := nameSuffixes[(base*3+(n+i)*5)%len(nameSuffixes)]
		name := p + s
		if i >= len(namePrefixes)*len(nameSuffixes) {
			name = p + s + " " + romanSuffix(i/len(namePrefixes))
		}
		if !used[name] {
			f.cityNames = append(f.cityNames, name)
			return name
		}
	}
}

func romanSuffix(n int) string {
	numerals := []string{"I", "II", "III", "IV", "V", "VI", "VII", "VIII", "IX", "X"}
	return numerals[n%len(numerals)]
}
