package world

// ResourceKind classifies resources by how they are consumed.
type ResourceKind uint8

const (
	ResourceBonus     ResourceKind = iota // Extra yields only
	ResourceStrategic                     // Required to build some units
	ResourceLuxury                        // Grants happiness when owned
)

func (k ResourceKind) String() string {
	switch k {
	case ResourceStrategic:
		return "Strategic"
	case ResourceLuxury:
		return "Luxury"
	}
	return "Bonus"
}

// Resource describes a resource that can sit on a tile.
type Resource struct {
	Name        string
	Kind        ResourceKind
	Yields      Yields
	Terrains    []Terrain
	Improvement Improvement // Improvement that connects the resource
	RevealTech  string      // Tech required to see it; empty means always visible
}

// Resources is the resource catalog keyed by name.
var Resources = map[string]*Resource{
	"Wheat":  {Name: "Wheat", Kind: ResourceBonus, Yields: Yields{Food: 1}, Terrains: []Terrain{TerrainPlains, TerrainRiver}, Improvement: ImprovementFarm},
	"Cattle": {Name: "Cattle", Kind: ResourceBonus, Yields: Yields{Food: 1}, Terrains: []Terrain{TerrainGrassland}, Improvement: ImprovementPasture},
	"Fish":   {Name: "Fish", Kind: ResourceBonus, Yields: Yields{Food: 2}, Terrains: []Terrain{TerrainCoast, TerrainOcean}, Improvement: ImprovementFishingBoats},
	"Stone":  {Name: "Stone", Kind: ResourceBonus, Yields: Yields{Production: 1}, Terrains: []Terrain{TerrainDesert, TerrainTundra, TerrainHills}, Improvement: ImprovementQuarry},
	"Iron":   {Name: "Iron", Kind: ResourceStrategic, Yields: Yields{Production: 1}, Terrains: []Terrain{TerrainHills, TerrainDesert, TerrainTundra}, Improvement: ImprovementMine, RevealTech: "Bronze Working"},
	"Horses": {Name: "Horses", Kind: ResourceStrategic, Yields: Yields{Production: 1}, Terrains: []Terrain{TerrainPlains, TerrainGrassland}, Improvement: ImprovementPasture, RevealTech: "Animal Husbandry"},
	"Gems":   {Name: "Gems", Kind: ResourceLuxury, Yields: Yields{Gold: 3}, Terrains: []Terrain{TerrainHills}, Improvement: ImprovementMine},
	"Silk":   {Name: "Silk", Kind: ResourceLuxury, Yields: Yields{Gold: 2}, Terrains: []Terrain{TerrainForest}, Improvement: ImprovementPlantation},
	"Spices": {Name: "Spices", Kind: ResourceLuxury, Yields: Yields{Gold: 2}, Terrains: []Terrain{TerrainSwamp}, Improvement: ImprovementPlantation},
	"Wine":   {Name: "Wine", Kind: ResourceLuxury, Yields: Yields{Gold: 2}, Terrains: []Terrain{TerrainPlains, TerrainGrassland}, Improvement: ImprovementPlantation},
	"Furs":   {Name: "Furs", Kind: ResourceLuxury, Yields: Yields{Gold: 2}, Terrains: []Terrain{TerrainTundra, TerrainForest}, Improvement: ImprovementCamp},
	"Whales": {Name: "Whales", Kind: ResourceLuxury, Yields: Yields{Food: 1, Gold: 1}, Terrains: []Terrain{TerrainCoast}, Improvement: ImprovementFishingBoats},
	"Pearls": {Name: "Pearls", Kind: ResourceLuxury, Yields: Yields{Gold: 2}, Terrains: []Terrain{TerrainCoast}, Improvement: ImprovementFishingBoats},
}

// ResourceNames lists the catalog in a stable order.
var ResourceNames = []string{"Wheat", "Cattle", "Fish", "Stone", "Iron", "Horses", "Gems", "Silk", "Spices", "Wine", "Furs", "Whales", "Pearls"}

// Improvement is a worker-built tile improvement.
type Improvement string

const (
	ImprovementNone         Improvement = ""
	ImprovementFarm         Improvement = "Farm"
	ImprovementMine         Improvement = "Mine"
	ImprovementLumberMill   Improvement = "Lumber mill"
	ImprovementPasture      Improvement = "Pasture"
	ImprovementPlantation   Improvement = "Plantation"
	ImprovementCamp         Improvement = "Camp"
	ImprovementQuarry       Improvement = "Quarry"
	ImprovementFishingBoats Improvement = "Fishing Boats"
	ImprovementTradingPost  Improvement = "Trading post"
)

// ImprovementInfo holds the static data of an improvement.
type ImprovementInfo struct {
	Yields     Yields
	Terrains   []Terrain // Terrains it can be built on without a resource
	BuildTurns int
	Tech       string
}

// Improvements is the improvement catalog.
var Improvements = map[Improvement]ImprovementInfo{
	ImprovementFarm:         {Yields: Yields{Food: 1}, Terrains: []Terrain{TerrainPlains, TerrainGrassland, TerrainRiver, TerrainDesert}, BuildTurns: 3},
	ImprovementMine:         {Yields: Yields{Production: 1}, Terrains: []Terrain{TerrainHills}, BuildTurns: 4, Tech: "Mining"},
	ImprovementLumberMill:   {Yields: Yields{Production: 1}, Terrains: []Terrain{TerrainForest}, BuildTurns: 4, Tech: "Construction"},
	ImprovementPasture:      {Yields: Yields{Production: 1}, BuildTurns: 3, Tech: "Animal Husbandry"},
	ImprovementPlantation:   {Yields: Yields{Gold: 1}, BuildTurns: 3, Tech: "Calendar"},
	ImprovementCamp:         {Yields: Yields{Gold: 1}, BuildTurns: 3, Tech: "Trapping"},
	ImprovementQuarry:       {Yields: Yields{Production: 1}, BuildTurns: 4, Tech: "Masonry"},
	ImprovementFishingBoats: {Yields: Yields{Food: 1}, BuildTurns: 1, Tech: "Sailing"},
	ImprovementTradingPost:  {Yields: Yields{Gold: 1}, Terrains: []Terrain{TerrainPlains, TerrainGrassland, TerrainTundra, TerrainSwamp}, BuildTurns: 4, Tech: "Trapping"},
}

func containsTerrain(ts []Terrain, t Terrain) bool {
	for _, x := range ts {
		if x == t {
			return true
		}
	}
	return false
}

// CanHost reports whether the resource may be generated on the terrain.
func (r *Resource) CanHost(t Terrain) bool {
	return containsTerrain(r.Terrains, t)
}
