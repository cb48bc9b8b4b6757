package hexgrid

import (
	"fmt"
	"github.com/chewxy/math32"
)

// DefaultSize is the distance from the center of a hexagon to its corners, in world units.
const DefaultSize float32 = 0.75

var sqrt3 = math32.Sqrt(3)

// Vector3 is a position in the 3D world. Grids lie on the y=0 plane.
type Vector3 struct {
	X, Y, Z float32
}

// String returns a text representation of Vector3.
func (v Vector3) String() string {
	return fmt.Sprintf("(%.3f, %.3f, %.3f)", v.X, v.Y, v.Z)
}

// Cube holds cube coordinates, with the constraint X+Y+Z == 0.
// X and Y are the axial q and r, Z is the implicit -q-r.
type Cube [3]int

// ToCube converts axial to cube coordinates.
func (h Hex) ToCube() Cube {
	return Cube{h[0], h[1], -h[0] - h[1]}
}

// ToHex converts cube coordinates to axial, dropping the Z component.
func (c Cube) ToHex() Hex {
	return Hex{c[0], c[1]}
}

// CubeRound rounds fractional cube coordinates to the nearest cell.
//
// Each component is rounded independently, and the one with the largest rounding error
// is then recomputed from the other two, so the result satisfies X+Y+Z == 0 exactly.
func CubeRound(x, y, z float32) Cube {
	rx, ry, rz := math32.Round(x), math32.Round(y), math32.Round(z)
	dx, dy, dz := math32.Abs(rx-x), math32.Abs(ry-y), math32.Abs(rz-z)
	switch {
	case dx > dy && dx > dz:
		rx = -ry - rz
	case dy > dz:
		ry = -rx - rz
	default:
		rz = -rx - ry
	}
	return Cube{int(rx), int(ry), int(rz)}
}

// AxialToCartesian returns the world position of the center of the cell h, for hexagons
// of the given size.
func AxialToCartesian(h Hex, size float32) Vector3 {
	q, r := float32(h[0]), float32(h[1])
	return Vector3{
		X: q * size * 1.5,
		Y: 0,
		Z: size * sqrt3 * (r + q/2),
	}
}

// CartesianToAxial returns the cell containing the world position pos, for hexagons of the
// given size. The Y coordinate is ignored.
func CartesianToAxial(pos Vector3, size float32) Hex {
	q := pos.X * (2.0 / 3.0) / size
	r := (-pos.X/3 + sqrt3/3*pos.Z) / size
	return CubeRound(q, r, -q-r).ToHex()
}
