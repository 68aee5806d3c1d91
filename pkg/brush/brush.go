// Package brush generates the coordinate sets painted by a brush stamp.
package brush

import (
	"fmt"

	"github.com/parchment-games/hexcrawl/pkg/hexgrid"
)

// Shape selects the brush footprint.
type Shape string

const (
	Circle  Shape = "circle"
	Square  Shape = "square"
	Diamond Shape = "diamond"
)

// Sizes is the fixed size ladder: side length / diameter in hexes.
var Sizes = [4]int{1, 3, 5, 7}

// ValidSize reports whether size is on the ladder.
func ValidSize(size int) bool {
	for _, s := range Sizes {
		if s == size {
			return true
		}
	}
	return false
}

// Stamp returns the hexes covered by a brush of the given size and shape
// centered on center. Map bounds are not applied; filtering against the
// map rectangle is the caller's job. An off-ladder size or unknown shape
// is a caller defect and panics.
func Stamp(center hexgrid.Axial, size int, shape Shape) []hexgrid.Axial {
	if !ValidSize(size) {
		panic(fmt.Sprintf("brush: invalid size %d", size))
	}
	half := (size - 1) / 2
	switch shape {
	case Circle:
		return hexgrid.Range(center, half)
	case Square:
		return squareStamp(center, half)
	case Diamond:
		return diamondStamp(center, half)
	}
	panic(fmt.Sprintf("brush: unknown shape %q", shape))
}

// squareStamp covers a size x size window in offset row/col space. The
// footprint is deliberately defined on the rectangular display grid, not
// in hex distance, so it is not rotationally symmetric on the hex grid.
func squareStamp(center hexgrid.Axial, half int) []hexgrid.Axial {
	row, col := hexgrid.ToRowCol(center)
	out := make([]hexgrid.Axial, 0, (2*half+1)*(2*half+1))
	for dr := -half; dr <= half; dr++ {
		for dc := -half; dc <= half; dc++ {
			out = append(out, hexgrid.FromRowCol(row+dr, col+dc))
		}
	}
	return out
}

// diamondStamp covers hexes with |dq|+|dr| within the size threshold,
// a footprint distinct from both the hex-metric circle and the offset
// square.
func diamondStamp(center hexgrid.Axial, half int) []hexgrid.Axial {
	out := make([]hexgrid.Axial, 0, 2*half*(half+1)+1)
	for dq := -half; dq <= half; dq++ {
		for dr := -half; dr <= half; dr++ {
			if absInt(dq)+absInt(dr) <= half {
				out = append(out, center.Add(hexgrid.Axial{Q: dq, R: dr}))
			}
		}
	}
	return out
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
