package telemetry

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl32"

	"voxland/internal/world"
)

func TestTraceRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run", "trace.jsonl.zst")
	tw, err := Create(path)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	for i := uint64(1); i <= 50; i++ {
		tw.Observe(world.TickStats{
			Tick:     i,
			ShiftX:   int(i % 2),
			Rebuilt:  int(i),
			Vertices: int64(i) * 36,
			Origin:   mgl32.Vec3{float32(i) * 16, 0, 0},
			Duration: time.Duration(i) * time.Microsecond,
		})
	}
	if err := tw.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if err := tw.Write(TickEntry{}); err == nil {
		t.Fatalf("Write after Close succeeded")
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	entries, err := ReadTrace(f)
	if err != nil {
		t.Fatalf("ReadTrace: %v", err)
	}
	if len(entries) != 50 {
		t.Fatalf("read %d entries, want 50", len(entries))
	}
	last := entries[49]
	if last.Tick != 50 || last.Vertices != 1800 || last.Origin[0] != 800 || last.DurationUS != 50 {
		t.Fatalf("last entry = %+v", last)
	}
	if entries[1].ShiftX != 0 || entries[0].ShiftX != 1 {
		t.Fatalf("shift fields not preserved: %+v %+v", entries[0], entries[1])
	}
}
