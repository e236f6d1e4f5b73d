package graphics

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func lookingDownNegZ() Frustum {
	proj := mgl32.Perspective(mgl32.DegToRad(70), 16.0/9.0, 0.1, 500)
	view := mgl32.LookAtV(mgl32.Vec3{0, 0, 0}, mgl32.Vec3{0, 0, -1}, mgl32.Vec3{0, 1, 0})
	return NewFrustum(proj.Mul4(view))
}

func TestFrustumContainsChunk(t *testing.T) {
	f := lookingDownNegZ()
	cases := []struct {
		name   string
		origin mgl32.Vec3
		want   bool
	}{
		{"ahead", mgl32.Vec3{-8, -8, -40}, true},
		{"around camera", mgl32.Vec3{-8, -8, -8}, true},
		{"behind", mgl32.Vec3{-8, -8, 40}, false},
		{"far left", mgl32.Vec3{-400, -8, -40}, false},
		{"beyond far plane", mgl32.Vec3{-8, -8, -800}, false},
		{"high above", mgl32.Vec3{-8, 300, -40}, false},
	}
	for _, tc := range cases {
		if got := f.ContainsChunk(tc.origin, 16); got != tc.want {
			t.Errorf("%s: ContainsChunk(%v) = %v, want %v", tc.name, tc.origin, got, tc.want)
		}
	}
}

func TestCameraViewport(t *testing.T) {
	c := NewCamera(1280, 720, 70)
	if c.AspectRatio != float32(1280)/720 {
		t.Fatalf("aspect = %v", c.AspectRatio)
	}
	c.SetViewport(0, 0)
	if c.AspectRatio != float32(1280)/720 {
		t.Fatalf("minimised window changed aspect to %v", c.AspectRatio)
	}
}
