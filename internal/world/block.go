package world

type BlockType uint8

const (
	BlockTypeAir BlockType = iota
	BlockTypeTerrain
)

// Block data
const (
	BlockSize = 1.0
)

// BlockFace identifies a face of a block
type BlockFace int

const (
	FaceNorth BlockFace = iota // +Z
	FaceSouth                  // -Z
	FaceEast                   // +X
	FaceWest                   // -X
	FaceTop                    // +Y
	FaceBottom                 // -Y
)

// NumFaces is the number of axis-aligned faces of a block.
const NumFaces = 6

// FaceNormals holds the outward unit normal of every face, indexed by BlockFace.
var FaceNormals = [NumFaces][3]int{
	FaceNorth:  {0, 0, 1},
	FaceSouth:  {0, 0, -1},
	FaceEast:   {1, 0, 0},
	FaceWest:   {-1, 0, 0},
	FaceTop:    {0, 1, 0},
	FaceBottom: {0, -1, 0},
}

// Texture array layers. Top, bottom and sides of the same block type use
// distinct layers.
const (
	LayerTerrainTop    = 0
	LayerTerrainBottom = 1
	LayerTerrainSide   = 2

	NumTextureLayers = 3
)

// TextureLayer returns the texture-array layer for a block face.
func TextureLayer(bt BlockType, face BlockFace) int {
	switch bt {
	case BlockTypeTerrain:
		switch face {
		case FaceTop:
			return LayerTerrainTop
		case FaceBottom:
			return LayerTerrainBottom
		default:
			return LayerTerrainSide
		}
	default:
		return 0
	}
}

func (bt BlockType) String() string {
	switch bt {
	case BlockTypeAir:
		return "air"
	case BlockTypeTerrain:
		return "terrain"
	default:
		return "unknown"
	}
}
