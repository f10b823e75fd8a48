package cube

import "math"

// Direction represents a direction towards one of the horizontal axes of the world. The numeric values are
// the ones stored in block metadata by the original protocol: 0 is east and the values rotate clockwise.
type Direction int

const (
	// East represents the east direction, towards the positive X axis.
	East Direction = iota
	// South represents the south direction, towards the positive Z axis.
	South
	// West represents the west direction, towards the negative X axis.
	West
	// North represents the north direction, towards the negative Z axis.
	North
)

// Face converts the direction to a Face and returns it.
func (d Direction) Face() Face {
	switch d {
	case South:
		return FaceSouth
	case West:
		return FaceWest
	case North:
		return FaceNorth
	}
	return FaceEast
}

// Opposite returns the opposite direction.
func (d Direction) Opposite() Direction {
	return (d + 2) & 3
}

// String returns the Direction as a string.
func (d Direction) String() string {
	switch d {
	case East:
		return "east"
	case South:
		return "south"
	case West:
		return "west"
	case North:
		return "north"
	}
	panic("invalid direction")
}

// DirectionFromYaw returns the horizontal Direction an entity with the yaw passed is looking at. A yaw of 0
// looks south.
func DirectionFromYaw(yaw float64) Direction {
	rotation := math.Mod(yaw-90, 360)
	if rotation < 0 {
		rotation += 360
	}
	switch {
	case rotation < 45:
		return West
	case rotation < 135:
		return North
	case rotation < 225:
		return East
	case rotation < 315:
		return South
	}
	return West
}
