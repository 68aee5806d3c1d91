// Package hexmap defines the map data model shared by the painting and
// reveal engines: cell content, the keyed cell collection, coordinate sets,
// and the rectangular map dimensions used for bounds checks.
package hexmap

import (
	"github.com/parchment-games/hexcrawl/pkg/hexgrid"
)

// Terrain identifies the terrain painted onto a hex.
type Terrain string

const (
	TerrainPlains   Terrain = "plains"
	TerrainForest   Terrain = "forest"
	TerrainMountain Terrain = "mountain"
	TerrainHills    Terrain = "hills"
	TerrainWater    Terrain = "water"
	TerrainDesert   Terrain = "desert"
	TerrainSwamp    Terrain = "swamp"
	TerrainTundra   Terrain = "tundra"
)

// Landmark identifies a point of interest placed on a hex.
type Landmark string

const (
	LandmarkCastle  Landmark = "castle"
	LandmarkCity    Landmark = "city"
	LandmarkVillage Landmark = "village"
	LandmarkRuins   Landmark = "ruins"
	LandmarkTower   Landmark = "tower"
	LandmarkCave    Landmark = "cave"
	LandmarkCamp    Landmark = "camp"
	LandmarkTemple  Landmark = "temple"
)

// Category selects which icon set a paint operation draws from.
type Category int

const (
	CategoryTerrain Category = iota
	CategoryLandmark
	CategoryMarker
	CategoryRoad
)

// String returns the wire name for a category.
func (c Category) String() string {
	switch c {
	case CategoryTerrain:
		return "terrain"
	case CategoryLandmark:
		return "landmark"
	case CategoryMarker:
		return "marker"
	case CategoryRoad:
		return "road"
	}
	return "unknown"
}

// ParseCategory maps a wire name to a Category.
func ParseCategory(s string) (Category, bool) {
	switch s {
	case "terrain":
		return CategoryTerrain, true
	case "landmark":
		return CategoryLandmark, true
	case "marker":
		return CategoryMarker, true
	case "road":
		return CategoryRoad, true
	}
	return 0, false
}

// Content is the copyable portion of a cell: what the GM painted, minus the
// per-player exploration flags. This is what clipboard patterns carry.
type Content struct {
	Terrain     Terrain  `json:"terrain,omitempty"`
	Landmark    Landmark `json:"landmark,omitempty"`
	Name        string   `json:"name,omitempty"`
	Description string   `json:"description,omitempty"`
	GMNotes     string   `json:"gmNotes,omitempty"`
}

// IsEmpty reports whether the content carries neither terrain nor landmark.
// A cell with empty content may still exist to hold exploration state.
func (c Content) IsEmpty() bool {
	return c.Terrain == "" && c.Landmark == ""
}

// Clear removes the content belonging to the category. The landmark layer
// carries landmark, marker and road icons alike.
func (c *Content) Clear(cat Category) {
	switch cat {
	case CategoryTerrain:
		c.Terrain = ""
	case CategoryLandmark, CategoryMarker, CategoryRoad:
		c.Landmark = ""
	}
}

// Cell is one hex of the map: painted content plus exploration flags.
type Cell struct {
	Content
	Explored bool `json:"isExplored"`
	Visible  bool `json:"isVisible"`
}

// Dimensions is the rectangular extent of the map in offset (row, col) space.
type Dimensions struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Contains reports whether the hex falls inside the rectangular map.
func (d Dimensions) Contains(a hexgrid.Axial) bool {
	row, col := hexgrid.ToRowCol(a)
	return row >= 0 && row < d.Height && col >= 0 && col < d.Width
}
