package world

// AbsCoord addresses a block anywhere in the streaming window, independent of
// which chunk currently owns it. (0,0,0) is the lower corner of grid slot (0,0,0).
type AbsCoord struct {
	X, Y, Z int
}

// GridCoord addresses a chunk slot of the window.
type GridCoord struct {
	X, Y, Z int
}

// LocalCoord addresses a block inside a chunk, each component in [0, ChunkSize).
type LocalCoord struct {
	X, Y, Z int
}

// Split decomposes an absolute block coordinate into the owning grid slot and
// the block position inside that chunk. Negative coordinates floor, so a block
// just below the window maps to grid coordinate -1.
func Split(a AbsCoord) (GridCoord, LocalCoord) {
	return GridCoord{
			X: floorDiv(a.X, ChunkSize),
			Y: floorDiv(a.Y, ChunkSize),
			Z: floorDiv(a.Z, ChunkSize),
		}, LocalCoord{
			X: mod(a.X, ChunkSize),
			Y: mod(a.Y, ChunkSize),
			Z: mod(a.Z, ChunkSize),
		}
}

// Join is the inverse of Split.
func Join(g GridCoord, l LocalCoord) AbsCoord {
	return AbsCoord{
		X: g.X*ChunkSize + l.X,
		Y: g.Y*ChunkSize + l.Y,
		Z: g.Z*ChunkSize + l.Z,
	}
}

// Base returns the absolute coordinate of the chunk's lower corner.
func (g GridCoord) Base() AbsCoord {
	return Join(g, LocalCoord{})
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

func mod(a, b int) int {
	m := a % b
	if m < 0 {
		m += b
	}
	return m
}
