// Package pattern captures rectangular selections of map content into
// relocatable, transformable patterns for copy/paste and template placement.
package pattern

import (
	"fmt"
	"sort"

	"github.com/parchment-games/hexcrawl/pkg/hexgrid"
	"github.com/parchment-games/hexcrawl/pkg/hexmap"
)

// Pattern is a sparse, origin-relative snapshot of painted content.
// Width and Height describe the bounding box of the captured selection in
// offset space, not of the populated subset. Immutable once captured:
// every transform returns a new Pattern.
type Pattern struct {
	Cells  map[hexgrid.Axial]hexmap.Content
	Width  int
	Height int
}

// Placement is one absolute cell emitted by a paste.
type Placement struct {
	Coord   hexgrid.Axial  `json:"coord"`
	Content hexmap.Content `json:"content"`
}

// Len returns the number of populated entries.
func (p Pattern) Len() int { return len(p.Cells) }

// Capture records the painted content of the selected hexes relative to
// origin. Hexes with empty content are omitted, so a sparse selection
// yields a sparse pattern. The selection's offset-space bounding box
// becomes the pattern dimensions regardless of which hexes were populated.
func Capture(selected []hexgrid.Axial, cells hexmap.CellMap, origin hexgrid.Axial) Pattern {
	p := Pattern{Cells: make(map[hexgrid.Axial]hexmap.Content)}
	first := true
	var minRow, maxRow, minCol, maxCol int
	for _, sel := range selected {
		row, col := hexgrid.ToRowCol(sel)
		if first {
			minRow, maxRow, minCol, maxCol = row, row, col, col
			first = false
		} else {
			if row < minRow {
				minRow = row
			}
			if row > maxRow {
				maxRow = row
			}
			if col < minCol {
				minCol = col
			}
			if col > maxCol {
				maxCol = col
			}
		}
		content := cells.ContentAt(sel)
		if content.IsEmpty() {
			continue
		}
		p.Cells[sel.Sub(origin)] = content
	}
	if !first {
		p.Width = maxCol - minCol + 1
		p.Height = maxRow - minRow + 1
	}
	return p
}

// Paste emits the absolute placements for the pattern anchored at target.
// Out-of-bounds placements are the caller's responsibility to filter.
func Paste(p Pattern, target hexgrid.Axial) []Placement {
	out := make([]Placement, 0, len(p.Cells))
	for _, rel := range sortedCoords(p) {
		out = append(out, Placement{Coord: target.Add(rel), Content: p.Cells[rel]})
	}
	return out
}

// PreviewPaste returns the absolute coordinates a paste would touch,
// filtered to the map rectangle. Used for hover previews; mutates nothing.
func PreviewPaste(p Pattern, target hexgrid.Axial, dims hexmap.Dimensions) []hexgrid.Axial {
	out := make([]hexgrid.Axial, 0, len(p.Cells))
	for _, rel := range sortedCoords(p) {
		abs := target.Add(rel)
		if dims.Contains(abs) {
			out = append(out, abs)
		}
	}
	return out
}

// Rotate returns the pattern rotated clockwise by the given angle, which
// must be a multiple of 60 in [0, 360]. Relative coordinates are mapped
// through the cube rotation (x, y, z) -> (-z, -x, -y) once per step.
func Rotate(p Pattern, degrees int) Pattern {
	if degrees < 0 || degrees > 360 || degrees%60 != 0 {
		panic(fmt.Sprintf("pattern: invalid rotation angle %d", degrees))
	}
	steps := (degrees / 60) % 6
	return remap(p, func(rel hexgrid.Axial) hexgrid.Axial {
		c := rel.ToCube()
		for i := 0; i < steps; i++ {
			c = hexgrid.Cube{X: -c.Z, Y: -c.X, Z: -c.Y}
		}
		return c.ToAxial()
	})
}

// MirrorAxis selects the reflection applied by Mirror.
type MirrorAxis string

const (
	MirrorQ    MirrorAxis = "q"
	MirrorR    MirrorAxis = "r"
	MirrorBoth MirrorAxis = "both"
)

// Mirror reflects the pattern's relative coordinates: MirrorQ negates q,
// MirrorR negates r, MirrorBoth negates both (a 180-degree point
// reflection).
func Mirror(p Pattern, axis MirrorAxis) Pattern {
	switch axis {
	case MirrorQ:
		return remap(p, func(rel hexgrid.Axial) hexgrid.Axial {
			return hexgrid.Axial{Q: -rel.Q, R: rel.R}
		})
	case MirrorR:
		return remap(p, func(rel hexgrid.Axial) hexgrid.Axial {
			return hexgrid.Axial{Q: rel.Q, R: -rel.R}
		})
	case MirrorBoth:
		return remap(p, func(rel hexgrid.Axial) hexgrid.Axial {
			return hexgrid.Axial{Q: -rel.Q, R: -rel.R}
		})
	}
	panic(fmt.Sprintf("pattern: unknown mirror axis %q", axis))
}

// Scale multiplies both relative components by factor and rounds back to
// the nearest hex. Shrinking factors can land several entries on the same
// hex; entries are applied in (q, r) order so the result is deterministic.
func Scale(p Pattern, factor float64) Pattern {
	return remap(p, func(rel hexgrid.Axial) hexgrid.Axial {
		return hexgrid.RoundAxial(float64(rel.Q)*factor, float64(rel.R)*factor)
	})
}

// remap rebuilds the pattern with every relative coordinate passed through
// fn, visiting entries in sorted order so collisions resolve the same way
// every run. Dimensions carry over unchanged; they describe the original
// selection.
func remap(p Pattern, fn func(hexgrid.Axial) hexgrid.Axial) Pattern {
	out := Pattern{
		Cells:  make(map[hexgrid.Axial]hexmap.Content, len(p.Cells)),
		Width:  p.Width,
		Height: p.Height,
	}
	for _, rel := range sortedCoords(p) {
		out.Cells[fn(rel)] = p.Cells[rel]
	}
	return out
}

func sortedCoords(p Pattern) []hexgrid.Axial {
	coords := make([]hexgrid.Axial, 0, len(p.Cells))
	for rel := range p.Cells {
		coords = append(coords, rel)
	}
	sort.Slice(coords, func(i, j int) bool {
		if coords[i].Q != coords[j].Q {
			return coords[i].Q < coords[j].Q
		}
		return coords[i].R < coords[j].R
	})
	return coords
}
