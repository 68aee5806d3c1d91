package hexgrid

// Ring returns the axial coordinates at exact distance k from center c,
// starting from direction 4 and proceeding around. If k==0, returns [c].
func Ring(c Axial, k int) []Axial {
	if k == 0 {
		return []Axial{c}
	}
	res := make([]Axial, 0, 6*k)
	cur := c.Add(Directions[4].Mul(k))
	for side := 0; side < 6; side++ {
		for step := 0; step < k; step++ {
			res = append(res, cur)
			cur = cur.Add(Directions[side])
		}
	}
	return res
}

// Range returns all axial coordinates at distance <= radius from center c,
// including c itself. The result has exactly 3r²+3r+1 entries and no
// duplicates; order is unspecified.
func Range(c Axial, radius int) []Axial {
	if radius < 0 {
		return nil
	}
	res := make([]Axial, 0, 1+3*radius*(radius+1))
	for dq := -radius; dq <= radius; dq++ {
		lo := maxInt(-radius, -dq-radius)
		hi := minInt(radius, -dq+radius)
		for dr := lo; dr <= hi; dr++ {
			res = append(res, c.Add(Axial{dq, dr}))
		}
	}
	return res
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
