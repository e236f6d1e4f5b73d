package world

// HeightMap holds the resolved absolute surface height of every block column
// of one chunk column, indexed [x][z].
type HeightMap [ChunkSize][ChunkSize]int

// Generator fills chunks from the noise field, one column at a time.
type Generator struct {
	field         *NoiseField
	totalVertical int
}

// NewGenerator creates a generator for a window chunksY chunks tall.
func NewGenerator(field *NoiseField, chunksY int) *Generator {
	return &Generator{
		field:         field,
		totalVertical: chunksY * ChunkSize,
	}
}

// TotalVertical returns the window height in blocks.
func (g *Generator) TotalVertical() int {
	return g.totalVertical
}

// HeightAt computes the absolute surface block index at world X,Z.
func (g *Generator) HeightAt(worldX, worldZ float64) int {
	return HeightIndex(g.totalVertical, g.field.HeightFraction(worldX, worldZ))
}

// ColumnHeights evaluates the height map for the chunk column whose lower
// corner sits at world (originX, originZ).
func (g *Generator) ColumnHeights(originX, originZ float64) *HeightMap {
	var hm HeightMap
	for lx := range ChunkSize {
		for lz := range ChunkSize {
			wx := originX + float64(lx)*BlockSize
			wz := originZ + float64(lz)*BlockSize
			hm[lx][lz] = g.HeightAt(wx, wz)
		}
	}
	return &hm
}

// PopulateChunk fills the part of each column owned by a chunk at grid layer
// gridY: blocks at or below the surface become terrain, the rest stay air.
func (g *Generator) PopulateChunk(c *Chunk, gridY int, hm *HeightMap) {
	baseY := gridY * ChunkSize
	for lx := range ChunkSize {
		for lz := range ChunkSize {
			top := hm[lx][lz] - baseY
			if top < 0 {
				continue
			}
			if top >= ChunkSize {
				top = ChunkSize - 1
			}
			for ly := 0; ly <= top; ly++ {
				c.SetBlock(lx, ly, lz, BlockTypeTerrain)
			}
		}
	}
	c.dirty = true
}
