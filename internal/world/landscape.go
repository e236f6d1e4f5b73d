package world

import (
	"errors"
	"fmt"
	"log"
	"math"
	"time"

	"voxland/internal/gpu"
	"voxland/internal/profiling"

	"github.com/go-gl/mathgl/mgl32"
)

// ErrDimensions reports an unusable window size.
var ErrDimensions = errors.New("invalid landscape dimensions")

const maxAxisChunks = 256

// Dimensions is the window size in chunks.
type Dimensions struct {
	X, Y, Z int
}

// DefaultDimensions is the window used by the viewer.
var DefaultDimensions = Dimensions{X: 15, Y: 4, Z: 15}

// Count returns the number of chunk slots.
func (d Dimensions) Count() int {
	return d.X * d.Y * d.Z
}

// Blocks returns the window extent in blocks.
func (d Dimensions) Blocks() AbsCoord {
	return AbsCoord{X: d.X * ChunkSize, Y: d.Y * ChunkSize, Z: d.Z * ChunkSize}
}

func (d Dimensions) validate() error {
	for _, a := range []struct {
		name string
		n    int
	}{{"x", d.X}, {"y", d.Y}, {"z", d.Z}} {
		if a.n < 1 || a.n > maxAxisChunks {
			return fmt.Errorf("%w: %s=%d, want [1,%d]", ErrDimensions, a.name, a.n, maxAxisChunks)
		}
	}
	return nil
}

// BlockQuery reports whether a solid block exists at an absolute coordinate.
type BlockQuery func(x, y, z int) bool

// MeshBuilder turns a chunk into an interleaved vertex stream. base is the
// absolute coordinate of the chunk's lower corner; exists answers neighbour
// queries across chunk borders. The returned slice may be reused by the
// builder on the next call.
type MeshBuilder interface {
	Build(c *Chunk, base AbsCoord, exists BlockQuery) (vertices []float32, count int32)
}

// DrawCall is what the renderer needs for one non-empty chunk.
type DrawCall struct {
	Mesh        gpu.Pair
	VertexCount int32
	Origin      mgl32.Vec3
}

// TickStats summarises one Update.
type TickStats struct {
	Tick      uint64
	ShiftX    int
	ShiftZ    int
	Generated int
	Rebuilt   int
	Vertices  int64
	Origin    mgl32.Vec3
	Duration  time.Duration
}

// Stats accumulates over the landscape's lifetime.
type Stats struct {
	Ticks           uint64
	ShiftsX         uint64
	ShiftsZ         uint64
	ChunksGenerated uint64
	MeshRebuilds    uint64
	Vertices        int64
}

// Option configures a Landscape.
type Option func(*Landscape)

// WithLogger logs window shifts and lifecycle events.
func WithLogger(l *log.Logger) Option {
	return func(ls *Landscape) { ls.logger = l }
}

// WithTickObserver is called at the end of every Update.
func WithTickObserver(fn func(TickStats)) Option {
	return func(ls *Landscape) { ls.observer = fn }
}

// Landscape is the streaming chunk window. Chunks live in a fixed arena; the
// grid index maps each slot coordinate to an arena position. Not safe for
// concurrent use.
type Landscape struct {
	dims     Dimensions
	field    *NoiseField
	gen      *Generator
	registry *gpu.Registry
	mesher   MeshBuilder

	arena []Chunk
	index []int32

	// window anchor in chunk units; Y never streams
	anchorX, anchorZ int

	serial    uint64
	generated bool
	closed    bool
	exists    BlockQuery

	logger   *log.Logger
	observer func(TickStats)
	stats    Stats
}

// NewLandscape allocates every chunk slot and its GPU handles. Blocks stay
// empty until Generate.
func NewLandscape(field *NoiseField, dims Dimensions, reg *gpu.Registry, mesher MeshBuilder, opts ...Option) (*Landscape, error) {
	if field == nil {
		return nil, fmt.Errorf("%w: nil noise field", ErrNoiseInit)
	}
	if err := dims.validate(); err != nil {
		return nil, err
	}
	if reg == nil || mesher == nil {
		return nil, errors.New("landscape requires a handle registry and a mesher")
	}

	n := dims.Count()
	l := &Landscape{
		dims:     dims,
		field:    field,
		gen:      NewGenerator(field, dims.Y),
		registry: reg,
		mesher:   mesher,
		arena:    make([]Chunk, n),
		index:    make([]int32, n),
	}
	l.exists = l.BlockExists
	for _, opt := range opts {
		opt(l)
	}

	for gx := range dims.X {
		for gy := range dims.Y {
			for gz := range dims.Z {
				g := GridCoord{X: gx, Y: gy, Z: gz}
				slot := l.slotIndex(g)
				l.index[slot] = int32(slot)
				l.construct(slot, g)
			}
		}
	}

	l.logf("landscape: %dx%dx%d chunks, seed %d", dims.X, dims.Y, dims.Z, field.Params().Seed)
	return l, nil
}

// Generate fills every chunk column from the noise field and marks every
// chunk dirty. Meant to be called once after construction.
func (l *Landscape) Generate() {
	defer profiling.Track("world.Generate")()
	l.mustBeOpen()

	for gx := range l.dims.X {
		for gz := range l.dims.Z {
			hm := l.columnHeights(gx, gz)
			for gy := range l.dims.Y {
				c := l.chunkAt(GridCoord{X: gx, Y: gy, Z: gz})
				c.blocks = [ChunkVolume]BlockType{}
				l.gen.PopulateChunk(c, gy, hm)
				l.stats.ChunksGenerated++
			}
		}
	}
	l.generated = true
}

// Update recentres the window on the viewpoint and rebuilds dirty meshes.
func (l *Landscape) Update(viewpoint mgl32.Vec3) {
	defer profiling.Track("world.Update")()
	l.mustBeOpen()
	if !l.generated {
		panic("world: Landscape.Update called before Generate")
	}

	start := time.Now()
	dx, dz, generated := l.stream(viewpoint)
	rebuilt := l.rebuildDirty()

	l.stats.Ticks++
	ts := TickStats{
		Tick:      l.stats.Ticks,
		ShiftX:    dx,
		ShiftZ:    dz,
		Generated: generated,
		Rebuilt:   rebuilt,
		Vertices:  l.stats.Vertices,
		Origin:    l.Origin(),
		Duration:  time.Since(start),
	}
	if l.observer != nil {
		l.observer(ts)
	}
}

// stream shifts the window at most one chunk per axis toward the viewpoint.
func (l *Landscape) stream(viewpoint mgl32.Vec3) (dx, dz, generated int) {
	defer profiling.Track("world.stream")()
	center := l.Center()

	if d := viewpoint.X() - center.X(); math.Abs(float64(d)) > ChunkWorldSize {
		dx = sign(d)
		generated += l.shiftX(dx)
		l.stats.ShiftsX++
	}
	if d := viewpoint.Z() - center.Z(); math.Abs(float64(d)) > ChunkWorldSize {
		dz = sign(d)
		generated += l.shiftZ(dz)
		l.stats.ShiftsZ++
	}
	if dx != 0 || dz != 0 {
		l.logf("landscape: shifted (%+d, %+d), origin %v", dx, dz, l.Origin())
	}
	return dx, dz, generated
}

// shiftX moves the window one chunk along X. The trailing chunk of every row
// is destroyed before its slot is overwritten, the rest move one slot back and
// the freed arena entry is rebuilt as the leading chunk.
func (l *Landscape) shiftX(dir int) int {
	l.anchorX += dir
	last := l.dims.X - 1
	trail, lead := 0, last
	if dir < 0 {
		trail, lead = last, 0
	}

	created := 0
	for gz := range l.dims.Z {
		var hm *HeightMap
		for gy := range l.dims.Y {
			evicted := l.index[l.slotIndex(GridCoord{X: trail, Y: gy, Z: gz})]
			l.destroy(int(evicted))
			if dir > 0 {
				for gx := 1; gx <= last; gx++ {
					l.index[l.slotIndex(GridCoord{X: gx - 1, Y: gy, Z: gz})] = l.index[l.slotIndex(GridCoord{X: gx, Y: gy, Z: gz})]
				}
			} else {
				for gx := last; gx > 0; gx-- {
					l.index[l.slotIndex(GridCoord{X: gx, Y: gy, Z: gz})] = l.index[l.slotIndex(GridCoord{X: gx - 1, Y: gy, Z: gz})]
				}
			}
			g := GridCoord{X: lead, Y: gy, Z: gz}
			l.index[l.slotIndex(g)] = evicted
			if hm == nil {
				hm = l.columnHeights(lead, gz)
			}
			l.spawn(int(evicted), g, hm)
			created++
		}
	}
	return created
}

// shiftZ mirrors shiftX along Z.
func (l *Landscape) shiftZ(dir int) int {
	l.anchorZ += dir
	last := l.dims.Z - 1
	trail, lead := 0, last
	if dir < 0 {
		trail, lead = last, 0
	}

	created := 0
	for gx := range l.dims.X {
		var hm *HeightMap
		for gy := range l.dims.Y {
			evicted := l.index[l.slotIndex(GridCoord{X: gx, Y: gy, Z: trail})]
			l.destroy(int(evicted))
			if dir > 0 {
				for gz := 1; gz <= last; gz++ {
					l.index[l.slotIndex(GridCoord{X: gx, Y: gy, Z: gz - 1})] = l.index[l.slotIndex(GridCoord{X: gx, Y: gy, Z: gz})]
				}
			} else {
				for gz := last; gz > 0; gz-- {
					l.index[l.slotIndex(GridCoord{X: gx, Y: gy, Z: gz})] = l.index[l.slotIndex(GridCoord{X: gx, Y: gy, Z: gz - 1})]
				}
			}
			g := GridCoord{X: gx, Y: gy, Z: lead}
			l.index[l.slotIndex(g)] = evicted
			if hm == nil {
				hm = l.columnHeights(gx, lead)
			}
			l.spawn(int(evicted), g, hm)
			created++
		}
	}
	return created
}

// rebuildDirty meshes and uploads every dirty chunk.
func (l *Landscape) rebuildDirty() int {
	defer profiling.Track("world.rebuildDirty")()
	rebuilt := 0
	for gx := range l.dims.X {
		for gy := range l.dims.Y {
			for gz := range l.dims.Z {
				g := GridCoord{X: gx, Y: gy, Z: gz}
				c := l.chunkAt(g)
				if !c.dirty {
					continue
				}
				verts, count := l.mesher.Build(c, g.Base(), l.exists)
				l.registry.Upload(c.Mesh, verts)
				l.stats.Vertices += int64(count) - int64(c.VertexCount)
				c.VertexCount = count
				c.SetClean()
				rebuilt++
			}
		}
	}
	l.stats.MeshRebuilds += uint64(rebuilt)
	return rebuilt
}

// construct initialises an arena slot for grid coordinate g with fresh handles.
func (l *Landscape) construct(slot int, g GridCoord) {
	l.serial++
	l.arena[slot].construct(l.originFor(g), l.serial, l.registry.CreatePair())
}

// spawn constructs and generates the chunk at g in arena slot slot.
func (l *Landscape) spawn(slot int, g GridCoord, hm *HeightMap) {
	l.construct(slot, g)
	l.gen.PopulateChunk(&l.arena[slot], g.Y, hm)
	l.stats.ChunksGenerated++
}

// destroy releases the chunk held in arena slot slot.
func (l *Landscape) destroy(slot int) {
	c := &l.arena[slot]
	if !c.live {
		panic(fmt.Sprintf("world: destroying dead arena slot %d", slot))
	}
	l.stats.Vertices -= int64(c.VertexCount)
	l.registry.DeletePair(c.destroy())
}

func (l *Landscape) columnHeights(gx, gz int) *HeightMap {
	o := l.originFor(GridCoord{X: gx, Z: gz})
	return l.gen.ColumnHeights(float64(o.X()), float64(o.Z()))
}

// BlockExists reports whether a non-air block sits at the absolute coordinate.
// Coordinates outside the window are empty.
func (l *Landscape) BlockExists(x, y, z int) bool {
	return l.Block(x, y, z) != BlockTypeAir
}

// Block returns the block at an absolute coordinate, air outside the window.
func (l *Landscape) Block(x, y, z int) BlockType {
	ext := l.dims.Blocks()
	if x < 0 || y < 0 || z < 0 || x >= ext.X || y >= ext.Y || z >= ext.Z {
		return BlockTypeAir
	}
	g, lc := Split(AbsCoord{X: x, Y: y, Z: z})
	return l.chunkAt(g).blocks[index(lc.X, lc.Y, lc.Z)]
}

// ChunkAt returns the chunk at a grid coordinate, nil outside the window.
func (l *Landscape) ChunkAt(g GridCoord) *Chunk {
	if !l.inGrid(g) {
		return nil
	}
	return l.chunkAt(g)
}

// ForEachChunk visits every slot in x, y, z order.
func (l *Landscape) ForEachChunk(fn func(g GridCoord, c *Chunk)) {
	for gx := range l.dims.X {
		for gy := range l.dims.Y {
			for gz := range l.dims.Z {
				g := GridCoord{X: gx, Y: gy, Z: gz}
				fn(g, l.chunkAt(g))
			}
		}
	}
}

// AppendDrawCalls appends one draw call per chunk with uploaded vertices.
func (l *Landscape) AppendDrawCalls(dst []DrawCall) []DrawCall {
	for i := range l.index {
		c := &l.arena[l.index[i]]
		if c.VertexCount <= 0 {
			continue
		}
		dst = append(dst, DrawCall{Mesh: c.Mesh, VertexCount: c.VertexCount, Origin: c.Origin})
	}
	return dst
}

// Origin returns the world-space lower corner of the window.
func (l *Landscape) Origin() mgl32.Vec3 {
	return mgl32.Vec3{
		float32(l.anchorX) * ChunkWorldSize,
		0,
		float32(l.anchorZ) * ChunkWorldSize,
	}
}

// Center returns the world-space centre of the window.
func (l *Landscape) Center() mgl32.Vec3 {
	ext := l.dims.Blocks()
	return l.Origin().Add(mgl32.Vec3{
		float32(ext.X) * BlockSize / 2,
		float32(ext.Y) * BlockSize / 2,
		float32(ext.Z) * BlockSize / 2,
	})
}

// Dimensions returns the window size in chunks.
func (l *Landscape) Dimensions() Dimensions {
	return l.dims
}

// Generator returns the column generator.
func (l *Landscape) Generator() *Generator {
	return l.gen
}

// Stats returns lifetime counters.
func (l *Landscape) Stats() Stats {
	return l.stats
}

// LiveChunks counts arena slots holding a constructed chunk.
func (l *Landscape) LiveChunks() int {
	n := 0
	for i := range l.arena {
		if l.arena[i].live {
			n++
		}
	}
	return n
}

// Close releases every chunk's handles. The landscape is unusable afterwards.
func (l *Landscape) Close() {
	if l.closed {
		return
	}
	for i := range l.arena {
		if l.arena[i].live {
			l.destroy(i)
		}
	}
	l.closed = true
}

func (l *Landscape) originFor(g GridCoord) mgl32.Vec3 {
	return mgl32.Vec3{
		float32(l.anchorX+g.X) * ChunkWorldSize,
		float32(g.Y) * ChunkWorldSize,
		float32(l.anchorZ+g.Z) * ChunkWorldSize,
	}
}

func (l *Landscape) slotIndex(g GridCoord) int {
	return (g.X*l.dims.Y+g.Y)*l.dims.Z + g.Z
}

func (l *Landscape) inGrid(g GridCoord) bool {
	return g.X >= 0 && g.X < l.dims.X && g.Y >= 0 && g.Y < l.dims.Y && g.Z >= 0 && g.Z < l.dims.Z
}

func (l *Landscape) chunkAt(g GridCoord) *Chunk {
	return &l.arena[l.index[l.slotIndex(g)]]
}

func (l *Landscape) mustBeOpen() {
	if l.closed {
		panic("world: landscape used after Close")
	}
}

func (l *Landscape) logf(format string, args ...any) {
	if l.logger != nil {
		l.logger.Printf(format, args...)
	}
}

func sign(v float32) int {
	if v < 0 {
		return -1
	}
	return 1
}
