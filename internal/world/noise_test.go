package world

import (
	"errors"
	"math"
	"math/rand"
	"testing"
)

// scenarioParams is the reference terrain used across the package tests.
var scenarioParams = NoiseParams{
	Seed:       -1283,
	Amplitude:  0.70,
	Frequency:  0.02,
	Octaves:    5,
	Lacunarity: 2.0,
	Gain:       0.5,
}

func mustField(t testing.TB, p NoiseParams) *NoiseField {
	t.Helper()
	f, err := NewNoiseField(p)
	if err != nil {
		t.Fatalf("NewNoiseField(%+v): %v", p, err)
	}
	return f
}

// TestHeightFractionDeterministic verifies two fields with the same parameters agree
func TestHeightFractionDeterministic(t *testing.T) {
	a := mustField(t, scenarioParams)
	b := mustField(t, scenarioParams)

	rng := rand.New(rand.NewSource(12345))
	for i := 0; i < 500; i++ {
		x := rng.Float64()*2000 - 1000
		z := rng.Float64()*2000 - 1000
		if va, vb := a.HeightFraction(x, z), b.HeightFraction(x, z); va != vb {
			t.Fatalf("HeightFraction(%f, %f) differs: %v vs %v", x, z, va, vb)
		}
	}
}

// TestHeightFractionRange verifies the renormalised output stays in [0,1]
func TestHeightFractionRange(t *testing.T) {
	f := mustField(t, scenarioParams)
	rng := rand.New(rand.NewSource(99))
	for i := 0; i < 2000; i++ {
		x := rng.Float64()*10000 - 5000
		z := rng.Float64()*10000 - 5000
		v := f.HeightFraction(x, z)
		if v < 0 || v > 1 {
			t.Fatalf("HeightFraction(%f, %f) = %f, expected in [0,1]", x, z, v)
		}
	}
}

// TestHeightFractionContinuity verifies nearby samples stay close
func TestHeightFractionContinuity(t *testing.T) {
	f := mustField(t, scenarioParams)
	v1 := f.HeightFraction(100, 100)
	v2 := f.HeightFraction(100.01, 100)
	if diff := math.Abs(v1 - v2); diff >= 0.01 {
		t.Fatalf("height field not continuous: %f vs %f (diff %f)", v1, v2, diff)
	}
}

func TestSeedChangesField(t *testing.T) {
	a := mustField(t, scenarioParams)
	p := scenarioParams
	p.Seed = 7
	b := mustField(t, p)

	same := 0
	for i := 0; i < 64; i++ {
		x, z := float64(i)*13.7, float64(i)*-9.1
		if a.HeightFraction(x, z) == b.HeightFraction(x, z) {
			same++
		}
	}
	if same == 64 {
		t.Fatalf("different seeds produced identical fields")
	}
}

func TestNewNoiseFieldRejectsBadParams(t *testing.T) {
	mutate := []struct {
		name string
		fn   func(*NoiseParams)
	}{
		{"zero octaves", func(p *NoiseParams) { p.Octaves = 0 }},
		{"too many octaves", func(p *NoiseParams) { p.Octaves = maxOctaves + 1 }},
		{"zero amplitude", func(p *NoiseParams) { p.Amplitude = 0 }},
		{"negative frequency", func(p *NoiseParams) { p.Frequency = -0.1 }},
		{"nan gain", func(p *NoiseParams) { p.Gain = math.NaN() }},
		{"inf lacunarity", func(p *NoiseParams) { p.Lacunarity = math.Inf(1) }},
	}
	for _, m := range mutate {
		p := scenarioParams
		m.fn(&p)
		f, err := NewNoiseField(p)
		if err == nil || f != nil {
			t.Errorf("%s: expected error, got field %v", m.name, f)
			continue
		}
		if !errors.Is(err, ErrNoiseInit) {
			t.Errorf("%s: error %v does not wrap ErrNoiseInit", m.name, err)
		}
	}
}

func TestHeightIndex(t *testing.T) {
	cases := []struct {
		total int
		v     float64
		want  int
	}{
		{64, 0.0, 0},
		{64, 0.5, 32}, // round(31.5)
		{64, 1.0, 63},
		{16, 0.0, 0},
		{16, 0.5, 8}, // round(7.5)
		{16, 1.0, 15},
		{48, 0.5, 24}, // round(23.5)
		{256, 0.5, 128},
	}
	for _, tc := range cases {
		if got := HeightIndex(tc.total, tc.v); got != tc.want {
			t.Errorf("HeightIndex(%d, %v) = %d, want %d", tc.total, tc.v, got, tc.want)
		}
	}
}

func BenchmarkHeightFraction(b *testing.B) {
	f := mustField(b, scenarioParams)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = f.HeightFraction(float64(i%1024), float64((i*31)%1024))
	}
}
