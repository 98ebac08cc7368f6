package domain

import (
	"fmt"
	"math"
)

// Coordinates is a barycentric cell address on a triangular board of side N,
// with X+Y+Z == N-1.
type Coordinates struct {
	X int `json:"x"`
	Y int `json:"y"`
	Z int `json:"z"`
}

// NewCoordinates builds a coordinate triple. Consistency with a board size is
// checked by Game.AddMove, not here.
func NewCoordinates(x, y, z int) Coordinates {
	return Coordinates{X: x, Y: y, Z: z}
}

// TotalCells returns the number of cells on a board of the given size.
func TotalCells(size int) int {
	return size * (size + 1) / 2
}

// Valid reports whether c lies inside a board of the given size.
func (c Coordinates) Valid(size int) bool {
	if size < 1 || c.X < 0 || c.Y < 0 || c.Z < 0 {
		return false
	}
	// bounded components keep the sum from overflowing
	if c.X > size-1 || c.Y > size-1 || c.Z > size-1 {
		return false
	}
	return c.X+c.Y+c.Z == size-1
}

// ToIndex maps c to its row-major linear index. Row r = size-1-x holds r+1
// cells ordered by y.
func (c Coordinates) ToIndex(size int) int {
	r := size - 1 - c.X
	return r*(r+1)/2 + c.Y
}

// FromIndex is the inverse of ToIndex.
func FromIndex(idx, size int) Coordinates {
	r := int((math.Sqrt(float64(8*idx+1)) - 1) / 2)
	// float rounding near perfect squares
	for r*(r+1)/2 > idx {
		r--
	}
	for (r+1)*(r+2)/2 <= idx {
		r++
	}
	y := idx - r*(r+1)/2
	x := size - 1 - r
	return Coordinates{X: x, Y: y, Z: size - 1 - x - y}
}

// Neighbors returns the edge-adjacent cells of c: six in the interior, four
// on a non-vertex edge, three on a vertex.
func (c Coordinates) Neighbors() []Coordinates {
	out := make([]Coordinates, 0, 6)
	x, y, z := c.X, c.Y, c.Z
	if x > 0 {
		out = append(out, Coordinates{x - 1, y + 1, z}, Coordinates{x - 1, y, z + 1})
	}
	if y > 0 {
		out = append(out, Coordinates{x + 1, y - 1, z}, Coordinates{x, y - 1, z + 1})
	}
	if z > 0 {
		out = append(out, Coordinates{x + 1, y, z - 1}, Coordinates{x, y + 1, z - 1})
	}
	return out
}

func (c Coordinates) TouchesSideA() bool { return c.X == 0 }
func (c Coordinates) TouchesSideB() bool { return c.Y == 0 }
func (c Coordinates) TouchesSideC() bool { return c.Z == 0 }

// SidesTouched counts how many of the three sides c lies on.
func (c Coordinates) SidesTouched() int {
	return bits[c.sides()]
}

func (c Coordinates) sides() sideSet {
	var s sideSet
	if c.TouchesSideA() {
		s |= sideA
	}
	if c.TouchesSideB() {
		s |= sideB
	}
	if c.TouchesSideC() {
		s |= sideC
	}
	return s
}

func (c Coordinates) String() string {
	return fmt.Sprintf("(%d,%d,%d)", c.X, c.Y, c.Z)
}

// sideSet is a bitmask of touched sides.
type sideSet uint8

const (
	sideA sideSet = 1 << iota
	sideB
	sideC

	allSides = sideA | sideB | sideC
)

var bits = [8]int{0, 1, 1, 2, 1, 2, 2, 3}
