package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"voxland/internal/world"
)

func TestDefaultIsReferenceTerrain(t *testing.T) {
	f := Default()
	p := f.Landscape.NoiseParams()
	want := world.NoiseParams{Seed: -1283, Amplitude: 0.70, Frequency: 0.02, Octaves: 5, Lacunarity: 2.0, Gain: 0.5}
	if p != want {
		t.Fatalf("default noise params = %+v, want %+v", p, want)
	}
	if d := f.Landscape.Dimensions(); d != world.DefaultDimensions {
		t.Fatalf("default dims = %+v", d)
	}
	if _, err := world.NewNoiseField(p); err != nil {
		t.Fatalf("default params rejected: %v", err)
	}
}

func TestParseOverridesDefaults(t *testing.T) {
	doc := []byte(`
landscape:
  seed: 42
  octaves: 3
  chunks: [7, 2, 9]
render:
  fps_limit: 0
`)
	f, err := Parse(doc)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if f.Landscape.Seed != 42 || f.Landscape.Octaves != 3 {
		t.Fatalf("landscape not decoded: %+v", f.Landscape)
	}
	if f.Landscape.Gain != 0.5 || f.Landscape.Frequency != 0.02 {
		t.Fatalf("unset keys lost their defaults: %+v", f.Landscape)
	}
	if d := f.Landscape.Dimensions(); d != (world.Dimensions{X: 7, Y: 2, Z: 9}) {
		t.Fatalf("dims = %+v", d)
	}
	if f.Render.FPSLimit != 0 || f.Render.TickRate != 60 {
		t.Fatalf("render = %+v", f.Render)
	}
}

func TestParseEmptyDocument(t *testing.T) {
	f, err := Parse(nil)
	if err != nil {
		t.Fatalf("Parse(empty): %v", err)
	}
	if f.Landscape.Seed != Default().Landscape.Seed {
		t.Fatalf("empty document did not yield defaults")
	}
}

func TestParseRejectsInvalid(t *testing.T) {
	cases := map[string]string{
		"octaves too high": "landscape:\n  octaves: 17\n",
		"zero amplitude":   "landscape:\n  amplitude: 0\n",
		"two dims":         "landscape:\n  chunks: [4, 4]\n",
		"unknown key":      "landscape:\n  biome: desert\n",
		"unknown section":  "physics:\n  gravity: 9.8\n",
		"wrong type":       "render:\n  tick_rate_hz: fast\n",
		"bad yaml":         "landscape: [\n",
	}
	for name, doc := range cases {
		if _, err := Parse([]byte(doc)); !errors.Is(err, ErrInvalid) {
			t.Errorf("%s: err = %v, want ErrInvalid", name, err)
		}
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "landscape.yaml")
	if err := os.WriteFile(path, []byte("assets:\n  dir: packs/stone\n  top: grass.png\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	f, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	layers := f.Assets.Layers()
	if got, want := layers[world.LayerTerrainTop], filepath.Join("packs/stone", "grass.png"); got != want {
		t.Fatalf("top layer = %q, want %q", got, want)
	}
	if got, want := layers[world.LayerTerrainSide], filepath.Join("packs/stone", "terrain_side.png"); got != want {
		t.Fatalf("side layer = %q, want %q", got, want)
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("missing file: err = %v", err)
	}
}

func TestRuntimeSettingsClamp(t *testing.T) {
	defer SetTickRate(GetTickRate())
	defer SetFPSLimit(GetFPSLimit())

	SetTickRate(1)
	if got := GetTickRate(); got != minTickRate {
		t.Fatalf("tick rate = %d, want %d", got, minTickRate)
	}
	SetTickRate(10000)
	if got := GetTickRate(); got != maxTickRate {
		t.Fatalf("tick rate = %d, want %d", got, maxTickRate)
	}
	SetFPSLimit(-5)
	if got := GetFPSLimit(); got != 0 {
		t.Fatalf("fps limit = %d, want 0", got)
	}

	f := Default()
	f.Render.TickRate = 30
	f.Render.FPSLimit = 75
	Apply(f)
	if GetTickRate() != 30 || GetFPSLimit() != 75 {
		t.Fatalf("Apply: tick %d fps %d", GetTickRate(), GetFPSLimit())
	}
}
