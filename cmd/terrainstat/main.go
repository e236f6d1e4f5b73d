// Command terrainstat generates a landscape without a window, flies a
// scripted path across it and reports streaming and meshing statistics.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"math"
	"os"
	"sync/atomic"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/xlab/closer"

	"voxland/internal/config"
	"voxland/internal/gpu"
	"voxland/internal/meshing"
	"voxland/internal/profiling"
	"voxland/internal/telemetry"
	"voxland/internal/world"
)

func main() {
	var (
		configPath = flag.String("config", "", "config file (defaults when empty)")
		ticks      = flag.Int("ticks", 600, "number of fixed updates to run")
		speed      = flag.Float64("speed", 24, "viewpoint speed in blocks per second")
		path       = flag.String("path", "circle", "viewpoint path: line, circle or zigzag")
		tracePath  = flag.String("trace", "", "write a zstd-compressed JSONL tick trace here")
		verbose    = flag.Bool("v", false, "log every window shift")
	)
	flag.Parse()

	cfg := config.Default()
	if *configPath != "" {
		var err error
		if cfg, err = config.Load(*configPath); err != nil {
			log.Fatalf("config: %v", err)
		}
	}
	config.Apply(cfg)

	walk, err := pathFunc(*path)
	if err != nil {
		log.Fatal(err)
	}

	stop := new(atomic.Bool)
	var trace *telemetry.TraceWriter
	closer.Bind(func() {
		stop.Store(true)
		if trace != nil {
			if err := trace.Close(); err != nil {
				log.Printf("trace: %v", err)
			}
		}
	})

	opts := []world.Option{}
	if *verbose {
		opts = append(opts, world.WithLogger(log.Default()))
	}
	if *tracePath != "" {
		if trace, err = telemetry.Create(*tracePath); err != nil {
			log.Fatalf("trace: %v", err)
		}
		opts = append(opts, world.WithTickObserver(trace.Observe))
	}

	backend := gpu.NewNullBackend()
	land, err := newLandscape(cfg.Landscape, backend, opts...)
	if err != nil {
		log.Printf("terrainstat: %v", err)
		closer.Exit(1)
	}

	start := time.Now()
	land.Generate()
	genTime := time.Since(start)

	dt := 1.0 / float64(config.GetTickRate())
	centre := land.Center()
	var slowest time.Duration
	// profile totals cover the whole run
	profiling.ResetFrame()
	start = time.Now()
	ran := 0
	for i := 0; i < *ticks && !stop.Load(); i++ {
		t0 := time.Now()
		offset := walk(float64(i)*dt, *speed)
		land.Update(centre.Add(offset))
		if d := time.Since(t0); d > slowest {
			slowest = d
		}
		ran++
	}
	runTime := time.Since(start)

	report(os.Stdout, land, backend, genTime, runTime, slowest, ran)
	land.Close()
	closer.Close()
}

func newLandscape(l config.Landscape, backend gpu.Backend, opts ...world.Option) (*world.Landscape, error) {
	field, err := world.NewNoiseField(l.NoiseParams())
	if err != nil {
		return nil, err
	}
	return world.NewLandscape(field, l.Dimensions(), gpu.NewRegistry(backend), meshing.NewMesher(), opts...)
}

// pathFunc returns the viewpoint offset from the initial window centre at
// time t for a given speed.
func pathFunc(name string) (func(t, speed float64) mgl32.Vec3, error) {
	switch name {
	case "line":
		return func(t, speed float64) mgl32.Vec3 {
			return mgl32.Vec3{float32(t * speed), 0, 0}
		}, nil
	case "circle":
		const radius = 96.0
		return func(t, speed float64) mgl32.Vec3 {
			a := t * speed / radius
			return mgl32.Vec3{float32(radius * math.Sin(a)), 0, float32(radius - radius*math.Cos(a))}
		}, nil
	case "zigzag":
		return func(t, speed float64) mgl32.Vec3 {
			d := t * speed
			leg := math.Mod(d, 128)
			if int(d/128)%2 == 1 {
				leg = 128 - leg
			}
			return mgl32.Vec3{float32(d * 0.7), 0, float32(leg - 64)}
		}, nil
	}
	return nil, errors.New("unknown path " + name + ", want line, circle or zigzag")
}

func report(w io.Writer, land *world.Landscape, backend *gpu.NullBackend, genTime, runTime, slowest time.Duration, ticks int) {
	st := land.Stats()
	d := land.Dimensions()
	fmt.Fprintf(w, "window           %dx%dx%d chunks (%d)\n", d.X, d.Y, d.Z, d.Count())
	fmt.Fprintf(w, "generate         %v\n", genTime)
	fmt.Fprintf(w, "ticks            %d in %v (slowest %v)\n", ticks, runTime, slowest)
	fmt.Fprintf(w, "shifts x/z       %d/%d\n", st.ShiftsX, st.ShiftsZ)
	fmt.Fprintf(w, "chunks generated %d\n", st.ChunksGenerated)
	fmt.Fprintf(w, "mesh rebuilds    %d\n", st.MeshRebuilds)
	fmt.Fprintf(w, "vertices         %d\n", st.Vertices)
	fmt.Fprintf(w, "gpu allocs       %d (released %d, uploads %d)\n", backend.Allocs, backend.Releases, backend.Uploads)
	fmt.Fprintf(w, "origin           %v\n", land.Origin())
	fmt.Fprintf(w, "hot spots        %s\n", profiling.TopN(4))
}
