package game

import (
	"log"
	"time"

	"voxland/internal/config"
	"voxland/internal/profiling"
)

const (
	// maxFrameTime bounds the catch-up after a hitch so the loop never spirals
	maxFrameTime = 250 * time.Millisecond
	slowTick     = 16 * time.Millisecond
)

// Loop runs fixed-rate updates and hands the leftover fraction of a tick to
// the renderer for interpolation.
type Loop struct {
	now         func() time.Time
	last        time.Time
	accumulator time.Duration
	limiter     *FPSLimiter
	logger      *log.Logger

	// Ticks counts fixed updates since creation.
	Ticks uint64
	// Paused lowers the frame cap, updates still run.
	Paused bool
}

// NewLoop creates a loop timed by the wall clock.
func NewLoop(logger *log.Logger) *Loop {
	return newLoop(time.Now, logger)
}

func newLoop(now func() time.Time, logger *log.Logger) *Loop {
	if logger == nil {
		logger = log.Default()
	}
	return &Loop{
		now:     now,
		last:    now(),
		limiter: NewFPSLimiter(),
		logger:  logger,
	}
}

// TickDuration is the fixed step at the current tick rate.
func TickDuration() time.Duration {
	return time.Second / time.Duration(config.GetTickRate())
}

// Frame runs every update that is due, then render with alpha in [0,1).
// It returns the number of updates run.
func (l *Loop) Frame(update func(dt float64), render func(alpha float64)) int {
	profiling.ResetFrame()

	now := l.now()
	elapsed := now.Sub(l.last)
	l.last = now
	if elapsed > maxFrameTime {
		elapsed = maxFrameTime
	}
	l.accumulator += elapsed

	step := TickDuration()
	ran := 0
	for l.accumulator >= step {
		start := l.now()
		update(step.Seconds())
		// Check if tick took too long
		if d := l.now().Sub(start); d > slowTick {
			l.logger.Printf("Slow tick: %v. Top tasks: %s", d, profiling.TopN(5))
		}
		l.accumulator -= step
		l.Ticks++
		ran++
	}

	if render != nil {
		render(float64(l.accumulator) / float64(step))
	}
	return ran
}

// Run calls Frame until done reports true, capping the frame rate in between.
func (l *Loop) Run(done func() bool, update func(dt float64), render func(alpha float64)) {
	for !done() {
		l.Frame(update, render)
		l.limiter.Wait(l.Paused)
	}
}
