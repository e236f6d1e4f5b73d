package world

import (
	"voxland/internal/gpu"

	"github.com/go-gl/mathgl/mgl32"
)

const (
	// Blocks per chunk axis
	ChunkSize   = 16
	ChunkVolume = ChunkSize * ChunkSize * ChunkSize

	// ChunkWorldSize is the world-space edge length of a chunk.
	ChunkWorldSize = ChunkSize * BlockSize
)

// Chunk represents a 16x16x16 cube of blocks with its GPU geometry.
type Chunk struct {
	// Origin is the world-space lower corner.
	Origin mgl32.Vec3
	// Serial is unique per constructed chunk; a recycled arena slot gets a new one.
	Serial uint64

	// Mesh holds the vertex-array and vertex-buffer handles.
	Mesh gpu.Pair
	// VertexCount is the number of vertices currently uploaded to Mesh.
	VertexCount int32

	blocks [ChunkVolume]BlockType
	dirty  bool
	live   bool
}

// index converts local coordinates (x, y, z) → flat index
func index(x, y, z int) int {
	return x*ChunkSize*ChunkSize + y*ChunkSize + z
}

func inChunk(x, y, z int) bool {
	return x >= 0 && x < ChunkSize && y >= 0 && y < ChunkSize && z >= 0 && z < ChunkSize
}

// GetBlock returns the block type at the specified local coordinates
func (c *Chunk) GetBlock(x, y, z int) BlockType {
	if !inChunk(x, y, z) {
		return BlockTypeAir
	}
	return c.blocks[index(x, y, z)]
}

// SetBlock sets the block type at the specified local coordinates.
// Only generation writes blocks; the chunk is not marked dirty here.
func (c *Chunk) SetBlock(x, y, z int, bt BlockType) {
	if !inChunk(x, y, z) {
		return
	}
	c.blocks[index(x, y, z)] = bt
}

// IsAir checks if the block at the specified local coordinates is air
func (c *Chunk) IsAir(x, y, z int) bool {
	return c.GetBlock(x, y, z) == BlockTypeAir
}

// IsDirty returns whether the chunk mesh must be rebuilt
func (c *Chunk) IsDirty() bool {
	return c.dirty
}

// MarkDirty flags the chunk for a mesh rebuild
func (c *Chunk) MarkDirty() {
	c.dirty = true
}

// SetClean marks the chunk as clean (mesh up to date)
func (c *Chunk) SetClean() {
	c.dirty = false
}

// IsLive reports whether the arena slot currently holds a constructed chunk.
func (c *Chunk) IsLive() bool {
	return c.live
}

// Blocks returns a copy of the block grid.
func (c *Chunk) Blocks() [ChunkVolume]BlockType {
	return c.blocks
}

// SolidCount returns the number of non-air blocks.
func (c *Chunk) SolidCount() int {
	n := 0
	for _, b := range c.blocks {
		if b != BlockTypeAir {
			n++
		}
	}
	return n
}

// construct initialises an arena slot as a fresh, empty, dirty chunk.
func (c *Chunk) construct(origin mgl32.Vec3, serial uint64, mesh gpu.Pair) {
	c.Origin = origin
	c.Serial = serial
	c.Mesh = mesh
	c.VertexCount = 0
	c.blocks = [ChunkVolume]BlockType{}
	c.dirty = true
	c.live = true
}

// destroy tears a chunk down and returns its handles so the owner can release them.
func (c *Chunk) destroy() gpu.Pair {
	mesh := c.Mesh
	c.Mesh = gpu.Pair{}
	c.VertexCount = 0
	c.dirty = false
	c.live = false
	return mesh
}
