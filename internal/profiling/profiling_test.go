package profiling

import (
	"strings"
	"testing"
	"time"
)

func TestTrackAccumulates(t *testing.T) {
	ResetFrame()
	for range 3 {
		stop := Track("world.stream")
		stop()
	}
	if got := Count("world.stream"); got != 3 {
		t.Fatalf("count = %d, want 3", got)
	}
	if _, ok := Snapshot()["world.stream"]; !ok {
		t.Fatalf("snapshot missing world.stream")
	}

	ResetFrame()
	if len(Snapshot()) != 0 {
		t.Fatalf("ResetFrame left entries behind")
	}
}

func TestSumWithPrefix(t *testing.T) {
	ResetFrame()
	mu.Lock()
	frameTotals["world.a"] = 2 * time.Millisecond
	frameTotals["world.b"] = 3 * time.Millisecond
	frameTotals["meshing.c"] = 7 * time.Millisecond
	mu.Unlock()

	if got := SumWithPrefix("world."); got != 5*time.Millisecond {
		t.Fatalf("SumWithPrefix = %v, want 5ms", got)
	}
}

func TestTopNOrdersByDuration(t *testing.T) {
	ResetFrame()
	mu.Lock()
	frameTotals["world.Update"] = 4200 * time.Microsecond
	frameTotals["world.stream"] = 300 * time.Microsecond
	frameTotals["world.rebuildDirty"] = 2 * time.Millisecond
	mu.Unlock()

	got := TopN(2)
	want := "world.Update:4.2ms, world.rebuildDirty:2ms"
	if got != want {
		t.Fatalf("TopN(2) = %q, want %q", got, want)
	}
	if strings.Count(TopN(10), ",") != 2 {
		t.Fatalf("TopN(10) should list all three entries: %q", TopN(10))
	}
}
