// Package hexgrid implements axial coordinate math for a flat-top hex grid:
// pixel projection and picking, distance, range enumeration, and the offset
// row/column mapping used by rectangular maps.
package hexgrid

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Axial represents axial coordinates (q, r). The implicit third cube
// coordinate is s = -q-r.
type Axial struct {
	Q int `json:"q"`
	R int `json:"r"`
}

// Cube represents cube coordinates (x, y, z) with x+y+z=0.
type Cube struct {
	X int
	Y int
	Z int
}

// Pixel represents a point in screen/world space. Zoom and pan are the
// caller's concern.
type Pixel struct {
	X float64
	Y float64
}

// Directions lists the six axial neighbor offsets.
var Directions = [6]Axial{
	{+1, 0}, {+1, -1}, {0, -1}, {-1, 0}, {-1, +1}, {0, +1},
}

// Add returns a+b in axial space.
func (a Axial) Add(b Axial) Axial { return Axial{a.Q + b.Q, a.R + b.R} }

// Sub returns a-b in axial space.
func (a Axial) Sub(b Axial) Axial { return Axial{a.Q - b.Q, a.R - b.R} }

// Mul scales an axial vector by k.
func (a Axial) Mul(k int) Axial { return Axial{a.Q * k, a.R * k} }

// S returns the implicit third cube coordinate.
func (a Axial) S() int { return -a.Q - a.R }

// ToCube converts axial to cube.
func (a Axial) ToCube() Cube {
	return Cube{X: a.Q, Y: -a.Q - a.R, Z: a.R}
}

// ToAxial converts cube to axial.
func (c Cube) ToAxial() Axial { return Axial{Q: c.X, R: c.Z} }

// Neighbors returns the six adjacent axial coordinates.
func (a Axial) Neighbors() [6]Axial {
	var out [6]Axial
	for i, d := range Directions {
		out[i] = a.Add(d)
	}
	return out
}

// Key returns the canonical "q,r" string encoding, used wherever a
// coordinate has to serve as a serialized map key.
func (a Axial) Key() string {
	return fmt.Sprintf("%d,%d", a.Q, a.R)
}

// ParseKey decodes a "q,r" key produced by Key.
func ParseKey(key string) (Axial, error) {
	i := strings.IndexByte(key, ',')
	if i < 0 {
		return Axial{}, fmt.Errorf("invalid coordinate key %q", key)
	}
	q, err := strconv.Atoi(key[:i])
	if err != nil {
		return Axial{}, fmt.Errorf("invalid coordinate key %q: %w", key, err)
	}
	r, err := strconv.Atoi(key[i+1:])
	if err != nil {
		return Axial{}, fmt.Errorf("invalid coordinate key %q: %w", key, err)
	}
	return Axial{Q: q, R: r}, nil
}

// Distance returns the hex distance between two axial coords.
func Distance(a, b Axial) int {
	return DistanceCube(a.ToCube(), b.ToCube())
}

// DistanceCube returns the hex distance between two cube coords.
func DistanceCube(a, b Cube) int {
	dx := abs(a.X - b.X)
	dy := abs(a.Y - b.Y)
	dz := abs(a.Z - b.Z)
	if dx > dy && dx > dz {
		return dx
	}
	if dy > dz {
		return dy
	}
	return dz
}

// AxialToPixel converts axial to pixel coordinates for flat-top layout.
// size is the hex radius (corner to center) in pixels.
func AxialToPixel(a Axial, size float64) Pixel {
	return Pixel{
		X: size * (math.Sqrt(3)*float64(a.Q) + math.Sqrt(3)/2.0*float64(a.R)),
		Y: size * 1.5 * float64(a.R),
	}
}

// PixelToHex converts a pixel position to the nearest hex. It inverts
// AxialToPixel and rounds the fractional axial result, so it is an exact
// inverse for hex centers.
func PixelToHex(p Pixel, size float64) Axial {
	q := (math.Sqrt(3)/3.0*p.X - 1.0/3.0*p.Y) / size
	r := (2.0 / 3.0 * p.Y) / size
	return RoundAxial(q, r)
}

// RoundAxial rounds fractional axial coordinates to the nearest hex using
// cube rounding: round all three cube components, then recompute the one
// with the largest rounding error so x+y+z=0 still holds.
func RoundAxial(fq, fr float64) Axial {
	fs := -fq - fr

	x := math.Round(fq)
	y := math.Round(fs)
	z := math.Round(fr)

	dx := math.Abs(x - fq)
	dy := math.Abs(y - fs)
	dz := math.Abs(z - fr)

	if dx > dy && dx > dz {
		x = -y - z
	} else if dy > dz {
		y = -x - z
	} else {
		z = -x - y
	}
	return Cube{X: int(x), Y: int(y), Z: int(z)}.ToAxial()
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
