package world

import "testing"

func TestSplitTable(t *testing.T) {
	cases := []struct {
		abs   AbsCoord
		grid  GridCoord
		local LocalCoord
	}{
		{AbsCoord{0, 0, 0}, GridCoord{0, 0, 0}, LocalCoord{0, 0, 0}},
		{AbsCoord{15, 16, 17}, GridCoord{0, 1, 1}, LocalCoord{15, 0, 1}},
		{AbsCoord{239, 63, 32}, GridCoord{14, 3, 2}, LocalCoord{15, 15, 0}},
		{AbsCoord{-1, -16, -17}, GridCoord{-1, -1, -2}, LocalCoord{15, 0, 15}},
	}
	for _, tc := range cases {
		g, l := Split(tc.abs)
		if g != tc.grid || l != tc.local {
			t.Errorf("Split(%v) = %v %v, want %v %v", tc.abs, g, l, tc.grid, tc.local)
		}
		if back := Join(g, l); back != tc.abs {
			t.Errorf("Join(Split(%v)) = %v", tc.abs, back)
		}
	}
}

func TestSplitLocalAlwaysInChunk(t *testing.T) {
	for a := -40; a <= 40; a++ {
		_, l := Split(AbsCoord{a, a, a})
		if !inChunk(l.X, l.Y, l.Z) {
			t.Fatalf("Split(%d) local %v outside chunk", a, l)
		}
	}
}

func TestGridBase(t *testing.T) {
	g := GridCoord{X: 2, Y: 1, Z: 3}
	if got, want := g.Base(), (AbsCoord{X: 32, Y: 16, Z: 48}); got != want {
		t.Fatalf("Base() = %v, want %v", got, want)
	}
}
