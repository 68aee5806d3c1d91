package hexgrid

import (
	"math"
	"testing"
)

func TestPixelRoundTrip(t *testing.T) {
	sizes := []float64{1, 12.5, 24, 64}
	for _, size := range sizes {
		for q := -10; q <= 10; q++ {
			for r := -10; r <= 10; r++ {
				want := Axial{Q: q, R: r}
				got := PixelToHex(AxialToPixel(want, size), size)
				if got != want {
					t.Fatalf("round trip failed for %v at size %v: got %v", want, size, got)
				}
			}
		}
	}
}

func TestAxialToPixelFormula(t *testing.T) {
	p := AxialToPixel(Axial{Q: 2, R: 3}, 10)
	wantX := 10 * (math.Sqrt(3)*2 + math.Sqrt(3)/2*3)
	wantY := 10 * 1.5 * 3
	if math.Abs(p.X-wantX) > 1e-9 || math.Abs(p.Y-wantY) > 1e-9 {
		t.Fatalf("unexpected projection: got (%v,%v), want (%v,%v)", p.X, p.Y, wantX, wantY)
	}
}

func TestPixelToHexPicksNearest(t *testing.T) {
	// a point nudged slightly off a hex center still picks that hex
	center := AxialToPixel(Axial{Q: 3, R: -2}, 20)
	got := PixelToHex(Pixel{X: center.X + 3, Y: center.Y - 3}, 20)
	if got != (Axial{Q: 3, R: -2}) {
		t.Fatalf("expected nudged point to pick (3,-2), got %v", got)
	}
}

func TestDistanceProperties(t *testing.T) {
	coords := []Axial{{0, 0}, {1, 0}, {0, 1}, {-2, 3}, {5, -5}, {-4, -1}, {7, 2}}
	for _, a := range coords {
		if d := Distance(a, a); d != 0 {
			t.Errorf("Distance(%v,%v) = %d, want 0", a, a, d)
		}
		for _, b := range coords {
			ab := Distance(a, b)
			ba := Distance(b, a)
			if ab != ba {
				t.Errorf("distance not symmetric: %v %v: %d vs %d", a, b, ab, ba)
			}
			if ab < 0 {
				t.Errorf("negative distance for %v %v", a, b)
			}
			if ab == 0 && a != b {
				t.Errorf("zero distance for distinct %v %v", a, b)
			}
			for _, c := range coords {
				if Distance(a, c) > ab+Distance(b, c) {
					t.Errorf("triangle inequality violated for %v %v %v", a, b, c)
				}
			}
		}
	}
}

func TestDistanceKnownValues(t *testing.T) {
	cases := []struct {
		a, b Axial
		want int
	}{
		{Axial{0, 0}, Axial{1, 0}, 1},
		{Axial{0, 0}, Axial{1, -1}, 1},
		{Axial{0, 0}, Axial{2, -1}, 2},
		{Axial{0, 0}, Axial{3, 0}, 3},
		{Axial{0, 0}, Axial{-2, -2}, 4},
		{Axial{1, 1}, Axial{1, 1}, 0},
	}
	for _, tc := range cases {
		if got := Distance(tc.a, tc.b); got != tc.want {
			t.Errorf("Distance(%v,%v) = %d, want %d", tc.a, tc.b, got, tc.want)
		}
	}
}

func TestRangeCardinality(t *testing.T) {
	center := Axial{Q: 2, R: -1}
	for n := 0; n <= 5; n++ {
		got := Range(center, n)
		want := 3*n*n + 3*n + 1
		if len(got) != want {
			t.Fatalf("Range radius %d: got %d hexes, want %d", n, len(got), want)
		}
		seen := make(map[Axial]bool, len(got))
		foundCenter := false
		for _, h := range got {
			if seen[h] {
				t.Fatalf("Range radius %d: duplicate %v", n, h)
			}
			seen[h] = true
			if d := Distance(center, h); d > n {
				t.Fatalf("Range radius %d: %v at distance %d", n, h, d)
			}
			if h == center {
				foundCenter = true
			}
		}
		if !foundCenter {
			t.Fatalf("Range radius %d: center missing", n)
		}
	}
}

func TestRingDistances(t *testing.T) {
	center := Axial{Q: -1, R: 4}
	for k := 1; k <= 4; k++ {
		ring := Ring(center, k)
		if len(ring) != 6*k {
			t.Fatalf("Ring %d: got %d hexes, want %d", k, len(ring), 6*k)
		}
		for _, h := range ring {
			if Distance(center, h) != k {
				t.Fatalf("Ring %d: %v at distance %d", k, h, Distance(center, h))
			}
		}
	}
	if r0 := Ring(center, 0); len(r0) != 1 || r0[0] != center {
		t.Fatalf("Ring 0 should be just the center, got %v", r0)
	}
}

func TestNeighbors(t *testing.T) {
	n := (Axial{Q: 0, R: 0}).Neighbors()
	if len(n) != 6 {
		t.Fatalf("expected 6 neighbors")
	}
	for _, h := range n {
		if Distance(Axial{}, h) != 1 {
			t.Errorf("neighbor %v not at distance 1", h)
		}
	}
}

func TestOffsetMappingRoundTrip(t *testing.T) {
	for row := -6; row <= 6; row++ {
		for col := -6; col <= 6; col++ {
			a := FromRowCol(row, col)
			gotRow, gotCol := ToRowCol(a)
			if gotRow != row || gotCol != col {
				t.Fatalf("offset round trip failed for (%d,%d): axial %v -> (%d,%d)",
					row, col, a, gotRow, gotCol)
			}
		}
	}
}

func TestOffsetMappingFormula(t *testing.T) {
	// q = col - floor(row/2), r = row; floor division matters for negative rows
	cases := []struct {
		row, col int
		want     Axial
	}{
		{0, 0, Axial{0, 0}},
		{1, 0, Axial{0, 1}},
		{2, 0, Axial{-1, 2}},
		{3, 4, Axial{3, 3}},
		{-1, 0, Axial{1, -1}},
		{-2, 0, Axial{1, -2}},
		{-3, 2, Axial{4, -3}},
	}
	for _, tc := range cases {
		if got := FromRowCol(tc.row, tc.col); got != tc.want {
			t.Errorf("FromRowCol(%d,%d) = %v, want %v", tc.row, tc.col, got, tc.want)
		}
	}
}

func TestKeyRoundTrip(t *testing.T) {
	coords := []Axial{{0, 0}, {-3, 7}, {12, -45}}
	for _, a := range coords {
		got, err := ParseKey(a.Key())
		if err != nil {
			t.Fatalf("ParseKey(%q): %v", a.Key(), err)
		}
		if got != a {
			t.Fatalf("key round trip failed: %v -> %q -> %v", a, a.Key(), got)
		}
	}
	if _, err := ParseKey("nonsense"); err == nil {
		t.Fatalf("expected error for malformed key")
	}
}
