package cube

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Pos holds the position of a block. The position is represented of an array with an x, y and z value,
// where the y value is positive.
type Pos [3]int

// String converts the Pos to a string in the format (1,2,3) and returns it.
func (p Pos) String() string {
	return fmt.Sprintf("(%v,%v,%v)", p[0], p[1], p[2])
}

// X returns the X coordinate of the block position.
func (p Pos) X() int {
	return p[0]
}

// Y returns the Y coordinate of the block position.
func (p Pos) Y() int {
	return p[1]
}

// Z returns the Z coordinate of the block position.
func (p Pos) Z() int {
	return p[2]
}

// OutOfBounds checks if the Y value is either bigger than r[1] or smaller than r[0].
func (p Pos) OutOfBounds(r Range) bool {
	y := p[1]
	return y > r[1] || y < r[0]
}

// Add adds two block positions together and returns a new one with the combined values.
func (p Pos) Add(pos Pos) Pos {
	return Pos{p[0] + pos[0], p[1] + pos[1], p[2] + pos[2]}
}

// Sub subtracts pos from p and returns a new one with the subtracted values.
func (p Pos) Sub(pos Pos) Pos {
	return Pos{p[0] - pos[0], p[1] - pos[1], p[2] - pos[2]}
}

// Vec3 returns a vec3 holding the same coordinates as the block position.
func (p Pos) Vec3() mgl64.Vec3 {
	return mgl64.Vec3{float64(p[0]), float64(p[1]), float64(p[2])}
}

// Vec3Middle returns a Vec3 holding the coordinates of the block position with 0.5 added on both horizontal
// axes.
func (p Pos) Vec3Middle() mgl64.Vec3 {
	return mgl64.Vec3{float64(p[0]) + 0.5, float64(p[1]), float64(p[2]) + 0.5}
}

// Vec3Centre returns a Vec3 holding the coordinates of the block position with 0.5 added on all axes.
func (p Pos) Vec3Centre() mgl64.Vec3 {
	return mgl64.Vec3{float64(p[0]) + 0.5, float64(p[1]) + 0.5, float64(p[2]) + 0.5}
}

// Side returns the position on the side of this block position, at a specific face.
func (p Pos) Side(face Face) Pos {
	return p.SideN(face, 1)
}

// SideN returns the position n blocks away from this block position in the direction of face.
func (p Pos) SideN(face Face, n int) Pos {
	switch face {
	case FaceUp:
		p[1] += n
	case FaceDown:
		p[1] -= n
	case FaceNorth:
		p[2] -= n
	case FaceSouth:
		p[2] += n
	case FaceWest:
		p[0] -= n
	case FaceEast:
		p[0] += n
	}
	return p
}

// Neighbours calls the function passed for each of the block position's neighbours. If the Y value is out
// of bounds, the function will not be called for that position.
func (p Pos) Neighbours(f func(neighbour Pos), r Range) {
	for _, face := range Faces() {
		if n := p.Side(face); !n.OutOfBounds(r) {
			f(n)
		}
	}
}

// PosFromVec3 returns a block position by a Vec3, rounding the values down adequately.
func PosFromVec3(vec3 mgl64.Vec3) Pos {
	return Pos{int(math.Floor(vec3[0])), int(math.Floor(vec3[1])), int(math.Floor(vec3[2]))}
}

// Range represents the height range of a Dimension in blocks. The first value of the Range holds the minimum Y
// value, the second value holds the maximum Y value.
type Range [2]int

// Min returns the minimum Y value of a Range. It is equivalent to Range[0].
func (r Range) Min() int {
	return r[0]
}

// Max returns the maximum Y value of a Range. It is equivalent to Range[1].
func (r Range) Max() int {
	return r[1]
}

// Height returns the total height of the Range, the difference between Max and Min.
func (r Range) Height() int {
	return r[1] - r[0]
}
