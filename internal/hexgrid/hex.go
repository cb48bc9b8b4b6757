// Package hexgrid holds the geometry of the hexagonal grid cell parts are placed on.
//
// Positions use axial coordinates (q, r). The third cube coordinate is implicit (-q-r), and
// is only materialized when rounding fractional positions, see Cube.
//
// All functions are pure and allocation free, they are called in the hot paths of the
// layout queries.
package hexgrid

import (
	"fmt"
	"iter"
	"slices"
)

// Hex is a position in the grid in axial coordinates: Hex{q, r}.
type Hex [2]int

// Origin of the grid.
var Origin = Hex{0, 0}

// Q coordinate of the position.
func (h Hex) Q() int {
	return h[0]
}

// R coordinate of the position.
func (h Hex) R() int {
	return h[1]
}

// S returns the implicit third cube coordinate, -q-r.
func (h Hex) S() int {
	return -h[0] - h[1]
}

// Add returns h+h2.
func (h Hex) Add(h2 Hex) Hex {
	return Hex{h[0] + h2[0], h[1] + h2[1]}
}

// Sub returns h-h2.
func (h Hex) Sub(h2 Hex) Hex {
	return Hex{h[0] - h2[0], h[1] - h2[1]}
}

// Scale multiplies both coordinates by factor.
func (h Hex) Scale(factor int) Hex {
	return Hex{h[0] * factor, h[1] * factor}
}

// Neg returns -h.
func (h Hex) Neg() Hex {
	return Hex{-h[0], -h[1]}
}

// IsZero returns whether h is the origin.
func (h Hex) IsZero() bool {
	return h == Origin
}

// String returns a text representation of Hex.
func (h Hex) String() string {
	return fmt.Sprintf("(%d, %d)", h[0], h[1])
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// Length is the number of steps from the origin to h.
//
// The numerator |q|+|q+r|+|r| is always even: the largest of the three terms equals the
// sum of the other two.
func (h Hex) Length() int {
	return (absInt(h[0]) + absInt(h[0]+h[1]) + absInt(h[1])) / 2
}

// Distance is the minimum number of steps between adjacent cells to go from h to h2.
func (h Hex) Distance(h2 Hex) int {
	return h.Sub(h2).Length()
}

// Distance between two positions. See Hex.Distance.
func Distance(a, b Hex) int {
	return a.Distance(b)
}

// Rotate rotates h around the origin by one 60° step clockwise.
func (h Hex) Rotate() Hex {
	return Hex{-h[1], h[0] + h[1]}
}

// RotateN rotates h around the origin by n steps of 60° clockwise.
// Negative values rotate counter-clockwise.
func (h Hex) RotateN(n int) Hex {
	n = NormalizeRotation(n)
	for range n {
		h = h.Rotate()
	}
	return h
}

// NormalizeRotation maps any number of rotation steps to the equivalent in 0..5.
func NormalizeRotation(n int) int {
	n %= NumRotations
	if n < 0 {
		n += NumRotations
	}
	return n
}

// Reflect flips h horizontally.
func (h Hex) Reflect() Hex {
	return Hex{-h[0], h[0] + h[1]}
}

// NumRotations is the number of distinct 60° rotations.
const NumRotations = 6

// NumNeighbours of each position: the grid is hexagonal.
const NumNeighbours = 6

// Side of a hexagon, enumerated clockwise starting at the top.
type Side uint8

const (
	SideTop Side = iota
	SideTopRight
	SideBottomRight
	SideBottom
	SideBottomLeft
	SideTopLeft
)

var sideNames = [NumNeighbours]string{"Top", "TopRight", "BottomRight", "Bottom", "BottomLeft", "TopLeft"}

// String returns the name of the side.
func (s Side) String() string {
	if int(s) >= NumNeighbours {
		return fmt.Sprintf("Side(%d)", s)
	}
	return sideNames[s]
}

// Sides enumerates all sides in clockwise order.
var Sides = [NumNeighbours]Side{SideTop, SideTopRight, SideBottomRight, SideBottom, SideBottomLeft, SideTopLeft}

// NeighbourOffsets maps each Side to the relative position of the neighbour across it.
// Rotating the offset of side s by one step gives the offset of side s+1.
var NeighbourOffsets = [NumNeighbours]Hex{{0, -1}, {1, -1}, {1, 0}, {0, 1}, {-1, 1}, {-1, 0}}

// OppositeSides maps each Side to the one facing it.
var OppositeSides = [NumNeighbours]Side{SideBottom, SideBottomLeft, SideTopLeft, SideTop, SideTopRight, SideBottomRight}

// Offset returns the relative position of the neighbour across side s.
func (s Side) Offset() Hex {
	return NeighbourOffsets[s]
}

// Opposite returns the side facing s.
func (s Side) Opposite() Side {
	return OppositeSides[s]
}

// Neighbour returns the position adjacent to h across the given side.
func (h Hex) Neighbour(s Side) Hex {
	return h.Add(NeighbourOffsets[s])
}

// Neighbours returns the 6 neighbour positions of h, in the order of Sides.
// It returns an array, so it doesn't allocate.
func (h Hex) Neighbours() (neighbours [NumNeighbours]Hex) {
	for ii, offset := range NeighbourOffsets {
		neighbours[ii] = h.Add(offset)
	}
	return
}

// NeighboursIter iterates over the 6 neighbour positions of h, in the order of Sides.
func (h Hex) NeighboursIter() iter.Seq[Hex] {
	return func(yield func(Hex) bool) {
		for _, offset := range NeighbourOffsets {
			if !yield(h.Add(offset)) {
				return
			}
		}
	}
}

// IsNeighbour returns whether h and h2 are adjacent.
func (h Hex) IsNeighbour(h2 Hex) bool {
	return h.Distance(h2) == 1
}

// Compare orders positions by r first and then q. It can be used with slices.SortFunc.
func Compare(a, b Hex) int {
	if a[1] != b[1] {
		return a[1] - b[1]
	}
	return a[0] - b[0]
}

// SortHexes sorts positions in place, according to Compare.
func SortHexes(hexes []Hex) {
	slices.SortFunc(hexes, Compare)
}

// Strings converts positions to their text representation.
func Strings(hexes []Hex) []string {
	strs := make([]string, len(hexes))
	for ii, h := range hexes {
		strs[ii] = h.String()
	}
	return strs
}
