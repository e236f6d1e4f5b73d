package config

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"

	"voxland/internal/world"
)

// ErrInvalid wraps every schema or decode failure of a config document.
var ErrInvalid = errors.New("invalid config")

//go:embed landscape.schema.json
var schemaSource string

const schemaURL = "https://voxland.local/landscape.schema.json"

// File is the on-disk configuration.
type File struct {
	Landscape Landscape `yaml:"landscape"`
	Render    Render    `yaml:"render"`
	Assets    Assets    `yaml:"assets"`
}

// Landscape shapes the terrain and sizes the streaming window.
type Landscape struct {
	Seed       int64   `yaml:"seed"`
	Amplitude  float64 `yaml:"amplitude"`
	Frequency  float64 `yaml:"frequency"`
	Octaves    int     `yaml:"octaves"`
	Lacunarity float64 `yaml:"lacunarity"`
	Gain       float64 `yaml:"gain"`
	Chunks     []int   `yaml:"chunks"` // x, y, z
}

type Render struct {
	TickRate int     `yaml:"tick_rate_hz"`
	FPSLimit int     `yaml:"fps_limit"`
	FOV      float32 `yaml:"fov_degrees"`
	Width    int     `yaml:"width"`
	Height   int     `yaml:"height"`
}

// Assets names the three terrain texture layers, relative to Dir.
type Assets struct {
	Dir    string `yaml:"dir"`
	Top    string `yaml:"top"`
	Bottom string `yaml:"bottom"`
	Side   string `yaml:"side"`
	// PackSource is an optional go-getter source fetched into Dir on startup.
	PackSource string `yaml:"pack_source"`
	LayerSize  int    `yaml:"layer_size"`
}

// Default returns the reference terrain in the default window.
func Default() File {
	d := world.DefaultDimensions
	return File{
		Landscape: Landscape{
			Seed:       -1283,
			Amplitude:  0.70,
			Frequency:  0.02,
			Octaves:    5,
			Lacunarity: 2.0,
			Gain:       0.5,
			Chunks:     []int{d.X, d.Y, d.Z},
		},
		Render: Render{
			TickRate: 60,
			FPSLimit: 144,
			FOV:      70,
			Width:    1280,
			Height:   720,
		},
		Assets: Assets{
			Dir:       "assets/textures",
			Top:       "terrain_top.png",
			Bottom:    "terrain_bottom.png",
			Side:      "terrain_side.png",
			LayerSize: 16,
		},
	}
}

// NoiseParams converts the landscape section for world.NewNoiseField.
func (l Landscape) NoiseParams() world.NoiseParams {
	return world.NoiseParams{
		Seed:       l.Seed,
		Amplitude:  l.Amplitude,
		Frequency:  l.Frequency,
		Octaves:    l.Octaves,
		Lacunarity: l.Lacunarity,
		Gain:       l.Gain,
	}
}

// Dimensions returns the window size in chunks.
func (l Landscape) Dimensions() world.Dimensions {
	if len(l.Chunks) != 3 {
		return world.DefaultDimensions
	}
	return world.Dimensions{X: l.Chunks[0], Y: l.Chunks[1], Z: l.Chunks[2]}
}

// Layers returns the texture paths ordered by texture layer.
func (a Assets) Layers() []string {
	paths := make([]string, world.NumTextureLayers)
	paths[world.LayerTerrainTop] = filepath.Join(a.Dir, a.Top)
	paths[world.LayerTerrainBottom] = filepath.Join(a.Dir, a.Bottom)
	paths[world.LayerTerrainSide] = filepath.Join(a.Dir, a.Side)
	return paths
}

// Load reads a YAML config. Keys missing from the file keep their Default value.
func Load(path string) (File, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return File{}, err
	}
	f, err := Parse(raw)
	if err != nil {
		return File{}, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	return f, nil
}

// Parse validates a YAML document against the embedded schema and decodes it
// over Default.
func Parse(raw []byte) (File, error) {
	if err := validate(raw); err != nil {
		return File{}, err
	}

	f := Default()
	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil && !errors.Is(err, io.EOF) {
		return File{}, fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	return f, nil
}

var schema = sync.OnceValues(func() (*jsonschema.Schema, error) {
	return jsonschema.CompileString(schemaURL, schemaSource)
})

// validate checks the YAML document shape. The schema library works on JSON
// values, so the document is round-tripped through encoding/json first.
func validate(raw []byte) error {
	var doc any
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	if doc == nil {
		doc = map[string]any{}
	}
	js, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	var v any
	if err := json.Unmarshal(js, &v); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}

	s, err := schema()
	if err != nil {
		return fmt.Errorf("compile config schema: %w", err)
	}
	if err := s.Validate(v); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	return nil
}
