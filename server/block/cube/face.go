package cube

// Face represents the face of a block or entity.
type Face int

const (
	// FaceDown represents the bottom face of a block.
	FaceDown Face = iota
	// FaceUp represents the top face of a block.
	FaceUp
	// FaceNorth represents the north face of a block.
	FaceNorth
	// FaceSouth represents the south face of a block.
	FaceSouth
	// FaceWest represents the west face of the block.
	FaceWest
	// FaceEast represents the east face of the block.
	FaceEast
)

// Direction converts the Face to a Direction and returns it, assuming the Face is horizontal and not FaceUp
// or FaceDown.
func (f Face) Direction() Direction {
	switch f {
	case FaceSouth:
		return South
	case FaceWest:
		return West
	case FaceNorth:
		return North
	}
	return East
}

// Opposite returns the opposite face. FaceDown will return FaceUp, FaceNorth will return FaceSouth and
// FaceWest will return FaceEast, and vice versa.
func (f Face) Opposite() Face {
	switch f {
	default:
		return FaceUp
	case FaceUp:
		return FaceDown
	case FaceNorth:
		return FaceSouth
	case FaceSouth:
		return FaceNorth
	case FaceWest:
		return FaceEast
	case FaceEast:
		return FaceWest
	}
}

// Horizontal reports if the face is not FaceUp or FaceDown.
func (f Face) Horizontal() bool {
	return f > FaceUp && f <= FaceEast
}

// Valid reports if the face is one of the six known faces.
func (f Face) Valid() bool {
	return f >= FaceDown && f <= FaceEast
}

// String returns the Face as a string.
func (f Face) String() string {
	switch f {
	case FaceUp:
		return "up"
	case FaceDown:
		return "down"
	case FaceNorth:
		return "north"
	case FaceSouth:
		return "south"
	case FaceWest:
		return "west"
	case FaceEast:
		return "east"
	}
	panic("invalid face")
}

// Faces returns all faces in the order down, up, north, south, west, east.
func Faces() []Face {
	return faces[:]
}

// HorizontalFaces returns all horizontal faces.
func HorizontalFaces() []Face {
	return hFaces[:]
}

var faces = [...]Face{FaceDown, FaceUp, FaceNorth, FaceSouth, FaceWest, FaceEast}

var hFaces = [...]Face{FaceNorth, FaceSouth, FaceWest, FaceEast}
