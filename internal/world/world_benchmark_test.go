package world

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

// Benchmark streaming while the viewpoint flies along +X, one shift every
// other update
func BenchmarkStreamAlongX(b *testing.B) {
	f := newFixture(b, DefaultDimensions)
	f.l.Generate()
	f.l.Update(f.l.Center())

	pos := f.l.Center()
	step := mgl32.Vec3{ChunkWorldSize / 2, 0, 0}

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		pos = pos.Add(step)
		f.l.Update(pos)
	}
}

func BenchmarkGenerate(b *testing.B) {
	f := newFixture(b, DefaultDimensions)
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		f.l.Generate()
	}
}
