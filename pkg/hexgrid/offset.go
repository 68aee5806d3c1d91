package hexgrid

// The rectangular display grid addresses hexes by (row, col). Odd rows shift
// half a hex, which in axial terms means q = col - floor(row/2). Bounds
// checks against map dimensions are done in this offset space, so the mapping
// here must match the renderer's exactly.

// FromRowCol converts offset (row, col) to axial coordinates.
func FromRowCol(row, col int) Axial {
	return Axial{Q: col - floorDiv(row, 2), R: row}
}

// ToRowCol converts axial coordinates to offset (row, col).
func ToRowCol(a Axial) (row, col int) {
	return a.R, a.Q + floorDiv(a.R, 2)
}

// floorDiv divides rounding toward negative infinity, so negative rows map
// consistently with positive ones.
func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}
