package meshing

import (
	"fmt"

	"voxland/internal/profiling"
	"voxland/internal/world"

	"github.com/go-gl/mathgl/mgl32"
)

// VertexStride is number of float32 per vertex (pos.xyz + normal.xyz + uv.st + layer)
const VertexStride = 9

const (
	// VerticesPerFace is two triangles, not indexed.
	VerticesPerFace = 6
	// MaxVertices is the worst case: every block exposed on all six faces.
	MaxVertices = world.NumFaces * VerticesPerFace * world.ChunkVolume
)

type corner struct {
	pos [3]float32
	uv  [2]float32
}

// faceCorners lists each face's quad counter-clockwise seen from outside.
// Triangles are (0,1,2) and (2,3,0).
var faceCorners = [world.NumFaces][4]corner{
	world.FaceNorth: {
		{[3]float32{0, 0, 1}, [2]float32{0, 0}},
		{[3]float32{1, 0, 1}, [2]float32{1, 0}},
		{[3]float32{1, 1, 1}, [2]float32{1, 1}},
		{[3]float32{0, 1, 1}, [2]float32{0, 1}},
	},
	world.FaceSouth: {
		{[3]float32{0, 0, 0}, [2]float32{1, 0}},
		{[3]float32{0, 1, 0}, [2]float32{1, 1}},
		{[3]float32{1, 1, 0}, [2]float32{0, 1}},
		{[3]float32{1, 0, 0}, [2]float32{0, 0}},
	},
	world.FaceEast: {
		{[3]float32{1, 0, 0}, [2]float32{1, 0}},
		{[3]float32{1, 1, 0}, [2]float32{1, 1}},
		{[3]float32{1, 1, 1}, [2]float32{0, 1}},
		{[3]float32{1, 0, 1}, [2]float32{0, 0}},
	},
	world.FaceWest: {
		{[3]float32{0, 0, 0}, [2]float32{0, 0}},
		{[3]float32{0, 0, 1}, [2]float32{1, 0}},
		{[3]float32{0, 1, 1}, [2]float32{1, 1}},
		{[3]float32{0, 1, 0}, [2]float32{0, 1}},
	},
	world.FaceTop: {
		{[3]float32{0, 1, 0}, [2]float32{0, 0}},
		{[3]float32{0, 1, 1}, [2]float32{0, 1}},
		{[3]float32{1, 1, 1}, [2]float32{1, 1}},
		{[3]float32{1, 1, 0}, [2]float32{1, 0}},
	},
	world.FaceBottom: {
		{[3]float32{0, 0, 0}, [2]float32{0, 0}},
		{[3]float32{1, 0, 0}, [2]float32{1, 0}},
		{[3]float32{1, 0, 1}, [2]float32{1, 1}},
		{[3]float32{0, 0, 1}, [2]float32{0, 1}},
	},
}

var quadOrder = [VerticesPerFace]int{0, 1, 2, 2, 3, 0}

// Mesher emits one quad per exposed block face. It owns a single scratch
// buffer sized for the worst case and reuses it on every Build, so a Mesher
// must not be shared between goroutines.
type Mesher struct {
	buf []float32
}

// NewMesher allocates the scratch buffer.
func NewMesher() *Mesher {
	return &Mesher{
		buf: make([]float32, 0, MaxVertices*VertexStride),
	}
}

// Build regenerates the full vertex stream for c. A face is emitted when its
// neighbour is air or lies outside the window (exists returns false there).
// The returned slice aliases the scratch buffer and is only valid until the
// next Build.
func (m *Mesher) Build(c *world.Chunk, base world.AbsCoord, exists world.BlockQuery) ([]float32, int32) {
	defer profiling.Track("meshing.Build")()
	m.buf = m.buf[:0]

	for x := range world.ChunkSize {
		for y := range world.ChunkSize {
			for z := range world.ChunkSize {
				bt := c.GetBlock(x, y, z)
				if bt == world.BlockTypeAir {
					continue
				}
				for f := range world.NumFaces {
					face := world.BlockFace(f)
					n := world.FaceNormals[face]
					nx, ny, nz := x+n[0], y+n[1], z+n[2]

					var solid bool
					if nx >= 0 && nx < world.ChunkSize && ny >= 0 && ny < world.ChunkSize && nz >= 0 && nz < world.ChunkSize {
						solid = !c.IsAir(nx, ny, nz)
					} else {
						solid = exists(base.X+nx, base.Y+ny, base.Z+nz)
					}
					if solid {
						continue
					}
					m.emitFace(c.Origin, x, y, z, face, world.TextureLayer(bt, face))
				}
			}
		}
	}

	return m.buf, int32(len(m.buf) / VertexStride)
}

func (m *Mesher) emitFace(origin mgl32.Vec3, x, y, z int, face world.BlockFace, layer int) {
	if len(m.buf)+VerticesPerFace*VertexStride > cap(m.buf) {
		panic(fmt.Sprintf("meshing: vertex buffer overflow (%d floats, capacity %d)", len(m.buf), cap(m.buf)))
	}

	bx := origin.X() + float32(x)*world.BlockSize
	by := origin.Y() + float32(y)*world.BlockSize
	bz := origin.Z() + float32(z)*world.BlockSize
	n := world.FaceNormals[face]
	fnx, fny, fnz := float32(n[0]), float32(n[1]), float32(n[2])
	fl := float32(layer)

	corners := &faceCorners[face]
	for _, i := range quadOrder {
		cr := corners[i]
		m.buf = append(m.buf,
			bx+cr.pos[0]*world.BlockSize, by+cr.pos[1]*world.BlockSize, bz+cr.pos[2]*world.BlockSize,
			fnx, fny, fnz,
			cr.uv[0], cr.uv[1], fl,
		)
	}
}
