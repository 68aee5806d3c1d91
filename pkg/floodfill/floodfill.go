// Package floodfill discovers connected regions of matching cell content
// over the 6-neighbor hex adjacency graph. It only previews: applying the
// fill is the caller's separate step, so large regions can be confirmed
// before anything mutates.
package floodfill

import (
	"github.com/parchment-games/hexcrawl/pkg/hexgrid"
	"github.com/parchment-games/hexcrawl/pkg/hexmap"
)

// Matcher is the frozen fill target: a specific terrain, a specific
// landmark, or empty cells. It is captured from the start hex before the
// traversal begins and never re-evaluated against cells changed mid-fill.
type Matcher struct {
	kind     matchKind
	terrain  hexmap.Terrain
	landmark hexmap.Landmark
}

type matchKind int

const (
	matchEmpty matchKind = iota
	matchTerrain
	matchLandmark
)

// MatchTerrain matches cells painted with the given terrain.
func MatchTerrain(t hexmap.Terrain) Matcher {
	return Matcher{kind: matchTerrain, terrain: t}
}

// MatchLandmark matches cells carrying the given landmark.
func MatchLandmark(l hexmap.Landmark) Matcher {
	return Matcher{kind: matchLandmark, landmark: l}
}

// MatchEmpty matches cells with neither terrain nor landmark.
func MatchEmpty() Matcher {
	return Matcher{kind: matchEmpty}
}

// MatcherAt derives the matcher from the content of the start hex.
// Terrain takes precedence when a cell carries both terrain and a landmark;
// an unpainted start hex yields the empty matcher.
func MatcherAt(cells hexmap.CellMap, start hexgrid.Axial) Matcher {
	content := cells.ContentAt(start)
	switch {
	case content.Terrain != "":
		return MatchTerrain(content.Terrain)
	case content.Landmark != "":
		return MatchLandmark(content.Landmark)
	default:
		return MatchEmpty()
	}
}

// Matches reports whether content satisfies the matcher.
func (m Matcher) Matches(content hexmap.Content) bool {
	switch m.kind {
	case matchTerrain:
		return content.Terrain == m.terrain
	case matchLandmark:
		return content.Landmark == m.landmark
	default:
		return content.IsEmpty()
	}
}

// Region returns the connected set of hexes reachable from start through
// neighbors whose content matches the frozen matcher, including start
// itself. Missing cells read as empty content, so the traversal is bounded
// by the map dimensions; without that the empty matcher would walk forever
// on a sparse map. It never mutates cells and enforces no size cap;
// confirmation policy for large regions belongs to the caller. A start hex
// that is out of bounds or does not match yields an empty region.
func Region(start hexgrid.Axial, cells hexmap.CellMap, matcher Matcher, dims hexmap.Dimensions) []hexgrid.Axial {
	if !dims.Contains(start) || !matcher.Matches(cells.ContentAt(start)) {
		return nil
	}

	visited := hexmap.NewCoordSet(start)
	region := []hexgrid.Axial{start}
	queue := []hexgrid.Axial{start}

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, n := range cur.Neighbors() {
			if visited.Contains(n) {
				continue
			}
			visited.Add(n)
			if !dims.Contains(n) || !matcher.Matches(cells.ContentAt(n)) {
				continue
			}
			region = append(region, n)
			queue = append(queue, n)
		}
	}
	return region
}
