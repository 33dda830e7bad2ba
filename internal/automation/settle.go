package automation

import (
	"errors"
	"slices"

	"github.com/talgya/autociv/internal/game"
	"github.com/talgya/autociv/internal/world"
)

// Settler siting.
const (
	SiteSearchRadius = 5  // How far a settler looks for a site
	SiteValueRadius  = 7  // Tile values are computed this far out
	SiteBuffer       = 3  // Minimum gap to any existing city
	SitePromised     = 6  // Gap to cities of factions we agreed not to settle near
	CoastalBonus     = 5  // Added to coastal sites
	NewLuxuryBonus   = 10 // Added per luxury type the faction does not work yet
	siteTopTiles     = 5
)

// SiteCandidate is a scored city site.
type SiteCandidate struct {
	Coord world.HexCoord
	Score float64
}

// TileValues caches ValueTile for one faction around a point.
type TileValues map[world.HexCoord]float64

// NearbyTileValues values every tile within SiteValueRadius of center for f.
func NearbyTileValues(w *game.World, f *game.Faction, center world.HexCoord) TileValues {
	out := make(TileValues)
	for _, t := range w.Map.TilesInDistance(center, SiteValueRadius) {
		out[t.Coord] = ValueTile(w, t, nil, f, 1)
	}
	return out
}

// OwnedLuxuries returns the luxury types already inside f's borders.
func OwnedLuxuries(w *game.World, f *game.Faction) map[string]bool {
	out := make(map[string]bool)
	for _, c := range w.CitiesOf(f.ID) {
		for _, t := range w.CityTiles(c) {
			if res := t.ResourceInfo(); res != nil && res.Kind == world.ResourceLuxury {
				out[res.Name] = true
			}
		}
	}
	return out
}

// CitySiteScore ranks coord as a city center: the best five of its
// neighbors and the two best tiles two away, plus the coastal and new
// luxury bonuses. Missing values count as zero.
func CitySiteScore(w *game.World, f *game.Faction, coord world.HexCoord, values TileValues, owned map[string]bool) float64 {
	var near []float64
	for _, t := range w.Map.TilesAtDistance(coord, 1) {
		near = append(near, values[t.Coord])
	}
	var ring []float64
	for _, t := range w.Map.TilesAtDistance(coord, 2) {
		ring = append(ring, values[t.Coord])
	}
	slices.SortFunc(ring, descending)
	near = append(near, ring[:min(2, len(ring))]...)
	slices.SortFunc(near, descending)

	var score float64
	for _, v := range near[:min(siteTopTiles, len(near))] {
		score += v
	}
	if w.Map.IsCoastal(coord) {
		score += CoastalBonus
	}

	seen := make(map[string]bool)
	for _, t := range w.Map.TilesInDistance(coord, 2) {
		res := t.ResourceInfo()
		if res == nil || res.Kind != world.ResourceLuxury || owned[res.Name] || seen[res.Name] {
			continue
		}
		if !f.CanSee(res) {
			continue
		}
		seen[res.Name] = true
		score += NewLuxuryBonus
	}
	return score
}

func descending(a, b float64) int {
	switch {
	case a > b:
		return -1
	case a < b:
		return 1
	}
	return 0
}

// tooCloseToCities reports whether coord lies within the settling buffer of
// any city. Cities of factions we promised not to settle near get the wider
// buffer.
func tooCloseToCities(w *game.World, f *game.Faction, coord world.HexCoord) bool {
	for _, c := range w.Cities() {
		buffer := SiteBuffer
		if r := f.Relations[c.Owner]; r != nil && r.AgreedNotToSettle {
			buffer = SitePromised
		}
		if world.Distance(c.Center, coord) <= buffer {
			return true
		}
	}
	return false
}

// RankCitySites scores every acceptable site within SiteSearchRadius of u,
// best first. Ties keep spiral order around the unit.
func RankCitySites(w *game.World, u *game.Unit) []SiteCandidate {
	f := w.Faction(u.Owner)
	values := NearbyTileValues(w, f, u.Pos)
	owned := OwnedLuxuries(w, f)

	var out []SiteCandidate
	for _, t := range w.Map.TilesInDistance(u.Pos, SiteSearchRadius) {
		if !t.IsLand() || t.IsImpassable() {
			continue
		}
		if t.Owner != 0 && game.FactionID(t.Owner) != f.ID {
			continue
		}
		if t.Coord != u.Pos && !w.CanStopOn(u, t) {
			continue
		}
		if tooCloseToCities(w, f, t.Coord) {
			continue
		}
		out = append(out, SiteCandidate{t.Coord, CitySiteScore(w, f, t.Coord, values, owned)})
	}
	slices.SortStableFunc(out, func(a, b SiteCandidate) int {
		return descending(a.Score, b.Score)
	})
	return out
}

// BestCitySite returns the best ranked site u can reach.
func BestCitySite(w *game.World, u *game.Unit) (SiteCandidate, bool) {
	for _, s := range RankCitySites(w, u) {
		if w.CanReach(u, s.Coord) {
			return s, true
		}
	}
	return SiteCandidate{}, false
}

// automateSettler waits for an escort, then heads to the best site and
// founds a city on it.
func (ctrl *Controller) automateSettler(u *game.Unit) bool {
	ctx := ctrl.ctx
	w := ctx.World
	if !ctx.Faction.Barbarian && w.MilitaryUnitAt(u.Pos) == nil {
		return false
	}

	site, ok := BestCitySite(w, u)
	if !ok {
		return ctrl.explore(u)
	}
	if err := w.CanFoundCity(site.Coord); err != nil {
		if u.HasMovement() && errors.Is(err, game.ErrCityTooClose) {
			ctx.Invariant("City within distance", map[string]any{
				"unit": uint64(u.ID),
				"site": site.Coord.String(),
			})
		}
		return false
	}

	if u.Pos != site.Coord {
		if _, err := w.HeadTowards(u, site.Coord); err != nil {
			ctx.Log.Debug().Err(err).Str("unit", u.Type.Name).Msg("settler move failed")
			return false
		}
	}
	if u.Pos != site.Coord || !u.HasMovement() {
		ctx.record("settle-move", u.Type.Name, site.Coord.String(), site.Score)
		return true
	}
	c, err := w.FoundCity(u)
	if err != nil {
		ctx.Log.Debug().Err(err).Stringer("site", site.Coord).Msg("found city failed")
		return false
	}
	ctx.Log.Info().Str("city", c.Name).Stringer("at", site.Coord).Float64("score", site.Score).Msg("city founded")
	ctx.record("found", c.Name, site.Coord.String(), site.Score)
	return true
}
