package telemetry

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/klauspost/compress/zstd"

	"voxland/internal/world"
)

// TickEntry is one line of a tick trace.
type TickEntry struct {
	Tick       uint64     `json:"tick"`
	ShiftX     int        `json:"shift_x,omitempty"`
	ShiftZ     int        `json:"shift_z,omitempty"`
	Generated  int        `json:"generated,omitempty"`
	Rebuilt    int        `json:"rebuilt,omitempty"`
	Vertices   int64      `json:"vertices"`
	Origin     [3]float32 `json:"origin"`
	DurationUS int64      `json:"duration_us"`
}

// EntryFromStats converts landscape tick stats to a trace line.
func EntryFromStats(ts world.TickStats) TickEntry {
	return TickEntry{
		Tick:       ts.Tick,
		ShiftX:     ts.ShiftX,
		ShiftZ:     ts.ShiftZ,
		Generated:  ts.Generated,
		Rebuilt:    ts.Rebuilt,
		Vertices:   ts.Vertices,
		Origin:     [3]float32(ts.Origin),
		DurationUS: ts.Duration.Microseconds(),
	}
}

// TraceWriter writes zstd-compressed JSONL, one entry per tick.
type TraceWriter struct {
	mu  sync.Mutex
	f   *os.File
	enc *zstd.Encoder
	w   *bufio.Writer
	err error
}

// Create opens path for writing, truncating an existing trace.
func Create(path string) (*TraceWriter, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return nil, err
	}
	enc, err := zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedFastest))
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	return &TraceWriter{f: f, enc: enc, w: bufio.NewWriterSize(enc, 64*1024)}, nil
}

// Write appends one entry.
func (t *TraceWriter) Write(e TickEntry) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.w == nil {
		return errors.New("trace writer closed")
	}

	b, err := json.Marshal(e)
	if err != nil {
		return err
	}
	if _, err := t.w.Write(b); err != nil {
		return err
	}
	return t.w.WriteByte('\n')
}

// Observe is a world.WithTickObserver callback. The first write error is kept
// and returned by Close.
func (t *TraceWriter) Observe(ts world.TickStats) {
	if err := t.Write(EntryFromStats(ts)); err != nil && t.err == nil {
		t.err = err
	}
}

// Close flushes the compressed stream and closes the file.
func (t *TraceWriter) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.w == nil {
		return t.err
	}

	errs := []error{t.err, t.w.Flush(), t.enc.Close(), t.f.Close()}
	t.w, t.enc, t.f = nil, nil, nil
	return errors.Join(errs...)
}

// ReadTrace decodes every entry of a compressed trace.
func ReadTrace(r io.Reader) ([]TickEntry, error) {
	dec, err := zstd.NewReader(r)
	if err != nil {
		return nil, err
	}
	defer dec.Close()

	var out []TickEntry
	jd := json.NewDecoder(dec)
	for {
		var e TickEntry
		if err := jd.Decode(&e); err != nil {
			if errors.Is(err, io.EOF) {
				return out, nil
			}
			return out, fmt.Errorf("trace entry %d: %w", len(out), err)
		}
		out = append(out, e)
	}
}
