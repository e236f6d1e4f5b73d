package main

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"voxland/internal/config"
	"voxland/internal/gpu"
)

func TestPathsStartAtCentre(t *testing.T) {
	for _, name := range []string{"line", "circle", "zigzag"} {
		fn, err := pathFunc(name)
		if err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		o := fn(0, 24)
		if o.X() != 0 || o.Y() != 0 || (name != "zigzag" && o.Z() != 0) {
			t.Fatalf("%s starts at %v", name, o)
		}
	}
	if _, err := pathFunc("spiral"); err == nil {
		t.Fatalf("unknown path accepted")
	}
}

func TestHeadlessRunStreams(t *testing.T) {
	l := config.Default().Landscape
	l.Chunks = []int{5, 2, 5}

	backend := gpu.NewNullBackend()
	land, err := newLandscape(l, backend)
	if err != nil {
		t.Fatal(err)
	}
	land.Generate()

	walk, _ := pathFunc("line")
	centre := land.Center()
	for i := 0; i < 120; i++ {
		land.Update(centre.Add(walk(float64(i)/60, 24)))
	}
	st := land.Stats()
	// 48 blocks of travel: the window trails by at most one chunk
	if st.ShiftsX < 2 || st.ShiftsZ != 0 {
		t.Fatalf("shifts = %d/%d", st.ShiftsX, st.ShiftsZ)
	}
	if st.ChunksGenerated != uint64(l.Dimensions().Count())+st.ShiftsX*uint64(2*5) {
		t.Fatalf("generated %d chunks for %d shifts", st.ChunksGenerated, st.ShiftsX)
	}

	var out bytes.Buffer
	report(&out, land, backend, time.Millisecond, time.Second, time.Millisecond, 120)
	if !strings.Contains(out.String(), "window           5x2x5 chunks (50)") {
		t.Fatalf("report:\n%s", out.String())
	}

	land.Close()
	if backend.LiveCount() != 0 {
		t.Fatalf("%d backend handles leaked", backend.LiveCount())
	}
}
