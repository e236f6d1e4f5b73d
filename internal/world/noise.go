package world

import (
	"errors"
	"fmt"
	"math"

	"github.com/ojrac/opensimplex-go"
)

// ErrNoiseInit reports an unusable noise configuration. A landscape cannot be
// built without a working noise field.
var ErrNoiseInit = errors.New("noise field initialisation failed")

// maxOctaves bounds the octave loop; beyond it lacunarity^i overflows usefulness.
const maxOctaves = 16

// heightEpsilon is the tolerance around [0,1] for a renormalised height.
const heightEpsilon = 1e-9

// NoiseParams shapes the fractal height field.
type NoiseParams struct {
	Seed       int64
	Amplitude  float64
	Frequency  float64
	Octaves    int
	Lacunarity float64
	Gain       float64
}

// NoiseField maps a world (x, z) to a height fraction in [0,1] by summing
// simplex noise octaves.
type NoiseField struct {
	params NoiseParams
	noise  opensimplex.Noise
	// span is the sum of octave amplitudes; the raw sum lies in [-span, span].
	span float64
}

// NewNoiseField validates the parameters and sets up the noise context.
func NewNoiseField(p NoiseParams) (*NoiseField, error) {
	if err := p.validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoiseInit, err)
	}

	n := opensimplex.New(p.Seed)
	if n == nil {
		return nil, fmt.Errorf("%w: no noise source for seed %d", ErrNoiseInit, p.Seed)
	}
	if probe := n.Eval2(0.5, 0.5); math.IsNaN(probe) || math.IsInf(probe, 0) {
		return nil, fmt.Errorf("%w: noise source for seed %d is not finite", ErrNoiseInit, p.Seed)
	}

	span := 0.0
	amp := p.Amplitude
	for i := 0; i < p.Octaves; i++ {
		span += amp
		amp *= p.Gain
	}
	if span <= 0 || math.IsInf(span, 0) {
		return nil, fmt.Errorf("%w: octave amplitude sum %v", ErrNoiseInit, span)
	}

	return &NoiseField{params: p, noise: n, span: span}, nil
}

func (p NoiseParams) validate() error {
	reals := []struct {
		name string
		v    float64
	}{
		{"amplitude", p.Amplitude},
		{"frequency", p.Frequency},
		{"lacunarity", p.Lacunarity},
		{"gain", p.Gain},
	}
	for _, r := range reals {
		if math.IsNaN(r.v) || math.IsInf(r.v, 0) {
			return fmt.Errorf("%s is not finite", r.name)
		}
		if r.v <= 0 {
			return fmt.Errorf("%s must be positive, got %v", r.name, r.v)
		}
	}
	if p.Octaves < 1 || p.Octaves > maxOctaves {
		return fmt.Errorf("octaves must be in [1,%d], got %d", maxOctaves, p.Octaves)
	}
	return nil
}

// Params returns the shaping parameters.
func (f *NoiseField) Params() NoiseParams {
	return f.params
}

// HeightFraction returns the normalised terrain height at world (x, z).
// A result outside [0,1] beyond rounding error is a renormalisation bug and panics.
func (f *NoiseField) HeightFraction(x, z float64) float64 {
	sum := 0.0
	amp := f.params.Amplitude
	freq := f.params.Frequency
	for i := 0; i < f.params.Octaves; i++ {
		sum += amp * f.noise.Eval2(x*freq, z*freq)
		amp *= f.params.Gain
		freq *= f.params.Lacunarity
	}

	v := (sum + f.span) / (2 * f.span)
	if v < -heightEpsilon || v > 1+heightEpsilon || math.IsNaN(v) {
		panic(fmt.Sprintf("world: height fraction %v at (%v, %v) outside [0,1]", v, x, z))
	}
	return min(max(v, 0), 1)
}

// HeightIndex maps a height fraction to an absolute block height in
// [0, totalVertical-1].
func HeightIndex(totalVertical int, v float64) int {
	return int(math.Round(float64(totalVertical-1) * v))
}
