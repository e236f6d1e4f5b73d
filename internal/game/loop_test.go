package game

import (
	"bytes"
	"log"
	"strings"
	"testing"
	"time"

	"voxland/internal/config"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time { return c.t }

func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func withTickRate(t *testing.T, hz int) {
	t.Helper()
	prev := config.GetTickRate()
	config.SetTickRate(hz)
	t.Cleanup(func() { config.SetTickRate(prev) })
}

func TestFrameRunsDueTicks(t *testing.T) {
	withTickRate(t, 50) // 20ms step
	clock := &fakeClock{t: time.Unix(0, 0)}
	l := newLoop(clock.now, nil)

	var dts []float64
	var alpha float64
	update := func(dt float64) { dts = append(dts, dt) }
	render := func(a float64) { alpha = a }

	clock.advance(50 * time.Millisecond)
	if n := l.Frame(update, render); n != 2 {
		t.Fatalf("ran %d ticks, want 2", n)
	}
	if alpha < 0.49 || alpha > 0.51 {
		t.Fatalf("alpha = %v, want 0.5", alpha)
	}

	clock.advance(10 * time.Millisecond)
	if n := l.Frame(update, render); n != 1 {
		t.Fatalf("leftover not carried: ran %d ticks", n)
	}
	if alpha > 1e-9 {
		t.Fatalf("alpha = %v, want 0", alpha)
	}
	for _, dt := range dts {
		if dt != 0.02 {
			t.Fatalf("dt = %v, want fixed 0.02", dt)
		}
	}
	if l.Ticks != 3 {
		t.Fatalf("Ticks = %d", l.Ticks)
	}
}

func TestFrameClampsHitch(t *testing.T) {
	withTickRate(t, 100)
	clock := &fakeClock{t: time.Unix(0, 0)}
	l := newLoop(clock.now, nil)

	clock.advance(5 * time.Second)
	if n := l.Frame(func(float64) {}, nil); n != int(maxFrameTime/(10*time.Millisecond)) {
		t.Fatalf("ran %d ticks after a hitch", n)
	}
}

func TestSlowTickLogged(t *testing.T) {
	withTickRate(t, 60)
	clock := &fakeClock{t: time.Unix(0, 0)}
	var buf bytes.Buffer
	l := newLoop(clock.now, log.New(&buf, "", 0))

	clock.advance(TickDuration())
	l.Frame(func(float64) { clock.advance(40 * time.Millisecond) }, nil)
	if !strings.Contains(buf.String(), "Slow tick") {
		t.Fatalf("slow tick not logged: %q", buf.String())
	}
}
