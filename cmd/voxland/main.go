package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"image"
	"log"
	"os"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/xlab/closer"

	"voxland/internal/assets"
	"voxland/internal/camera"
	"voxland/internal/config"
	"voxland/internal/game"
	"voxland/internal/gpu"
	"voxland/internal/graphics"
	"voxland/internal/input"
	"voxland/internal/meshing"
	"voxland/internal/profiling"
	"voxland/internal/world"
)

func init() {
	runtime.LockOSThread()
}

func main() {
	configPath := flag.String("config", "landscape.yaml", "config file; defaults are used when it does not exist")
	seed := flag.Int64("seed", 0, "override the terrain seed (0 keeps the config value)")
	verbose := flag.Bool("v", false, "log window shifts")
	flag.Parse()

	cfg, err := loadConfig(*configPath)
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if *seed != 0 {
		cfg.Landscape.Seed = *seed
	}
	config.Apply(cfg)

	quit := new(atomic.Bool)
	finished := make(chan struct{})
	closer.Bind(func() {
		quit.Store(true)
		<-finished
	})

	if err := run(cfg, *verbose, quit); err != nil {
		log.Printf("voxland: %v", err)
		close(finished)
		closer.Exit(1)
	}
	close(finished)
	closer.Close()
}

func loadConfig(path string) (config.File, error) {
	cfg, err := config.Load(path)
	if errors.Is(err, os.ErrNotExist) {
		log.Printf("config %s not found, using defaults", path)
		return config.Default(), nil
	}
	return cfg, err
}

func run(cfg config.File, verbose bool, quit *atomic.Bool) error {
	layers, err := loadTextures(cfg.Assets)
	if err != nil {
		return err
	}

	if err := glfw.Init(); err != nil {
		return err
	}
	defer glfw.Terminate()

	window, err := setupWindow(cfg.Render)
	if err != nil {
		return err
	}
	if err := gl.Init(); err != nil {
		return fmt.Errorf("gl init: %w", err)
	}
	log.Printf("OpenGL %s", gl.GoStr(gl.GetString(gl.VERSION)))

	cam := graphics.NewCamera(cfg.Render.Width, cfg.Render.Height, cfg.Render.FOV)
	terrain, err := graphics.NewTerrain(cam, layers)
	if err != nil {
		return err
	}
	defer terrain.Dispose()

	field, err := world.NewNoiseField(cfg.Landscape.NoiseParams())
	if err != nil {
		return err
	}
	var opts []world.Option
	if verbose {
		opts = append(opts, world.WithLogger(log.Default()))
	}
	registry := gpu.NewRegistry(graphics.NewGLBackend())
	land, err := world.NewLandscape(field, cfg.Landscape.Dimensions(), registry, meshing.NewMesher(), opts...)
	if err != nil {
		return err
	}
	defer land.Close()

	start := time.Now()
	land.Generate()
	log.Printf("generated %d chunks in %v", land.Dimensions().Count(), time.Since(start))

	centre := land.Center()
	spawnY := float32(land.Generator().HeightAt(float64(centre.X()), float64(centre.Z()))) + 8
	fly := camera.NewFlyCamera(mgl32.Vec3{centre.X(), spawnY, centre.Z()})

	im := input.NewInputManager()
	im.SetCallbacks(window)
	window.SetFramebufferSizeCallback(func(w *glfw.Window, width, height int) {
		gl.Viewport(0, 0, int32(width), int32(height))
		cam.SetViewport(width, height)
	})

	loop := game.NewLoop(log.Default())
	wireframe := false
	frames, lastFPS := 0, time.Now()

	loop.Run(
		func() bool { return window.ShouldClose() || quit.Load() },
		func(dt float64) {
			if !loop.Paused {
				fly.Step(dt, im)
			}
			land.Update(fly.Position)
		},
		func(alpha float64) {
			func() {
				defer profiling.Track("glfw.PollEvents")()
				glfw.PollEvents()
			}()
			handleToggles(window, im, loop, &wireframe)

			if wireframe {
				gl.PolygonMode(gl.FRONT_AND_BACK, gl.LINE)
			} else {
				gl.PolygonMode(gl.FRONT_AND_BACK, gl.FILL)
			}
			terrain.Render(land, fly.ViewMatrix(alpha))
			window.SwapBuffers()
			im.PostUpdate()

			frames++
			if time.Since(lastFPS) >= time.Second {
				st := land.Stats()
				window.SetTitle(fmt.Sprintf("voxland | FPS: %d | chunks %d/%d | vertices %d",
					frames, terrain.Drawn, terrain.Drawn+terrain.Culled, st.Vertices))
				frames, lastFPS = 0, time.Now()
			}
		},
	)
	return nil
}

func handleToggles(window *glfw.Window, im *input.InputManager, loop *game.Loop, wireframe *bool) {
	if im.JustPressed(input.ActionToggleWireframe) {
		*wireframe = !*wireframe
	}
	if im.JustPressed(input.ActionToggleProfiling) {
		log.Printf("profile: %s", profiling.TopN(8))
	}
	if im.JustPressed(input.ActionReleaseCursor) && !loop.Paused {
		loop.Paused = true
		window.SetInputMode(glfw.CursorMode, glfw.CursorNormal)
	}
	if im.JustPressed(input.ActionMouseLeft) && loop.Paused {
		loop.Paused = false
		window.SetInputMode(glfw.CursorMode, glfw.CursorDisabled)
		im.ResetCursor()
	}
}

func setupWindow(r config.Render) (*glfw.Window, error) {
	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 1)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)

	window, err := glfw.CreateWindow(r.Width, r.Height, "voxland", nil, nil)
	if err != nil {
		return nil, err
	}
	window.MakeContextCurrent()

	glfw.SwapInterval(0)
	window.SetInputMode(glfw.CursorMode, glfw.CursorDisabled)

	return window, nil
}

// loadTextures fetches the optional pack and decodes the three terrain layers
// on the asset worker.
func loadTextures(a config.Assets) ([]*image.RGBA, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	if a.PackSource != "" {
		if err := assets.FetchPack(ctx, a.PackSource, a.Dir); err != nil {
			return nil, err
		}
	}

	loader := assets.NewLoader(a.LayerSize, log.Default())
	defer loader.Close()
	return loader.LoadLayers(ctx, a.Layers())
}
