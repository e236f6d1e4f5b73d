package assets

import (
	"context"
	"errors"
	"fmt"
	"image"
	"log"
	"sync"
	"sync/atomic"

	"github.com/alitto/pond/v2"
	"github.com/google/uuid"

	"voxland/internal/profiling"
)

// ErrClosed is returned when submitting to a closed Loader.
var ErrClosed = errors.New("asset loader closed")

// Status is the lifecycle of a Task.
type Status int32

const (
	StatusPending Status = iota
	StatusLoading
	StatusComplete
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusLoading:
		return "loading"
	case StatusComplete:
		return "complete"
	case StatusFailed:
		return "failed"
	}
	return fmt.Sprintf("Status(%d)", int32(s))
}

// Task is one queued texture decode. Image and Err may only be read once
// Status reports Complete or Failed.
type Task struct {
	ID   uuid.UUID
	Path string

	status atomic.Int32
	done   chan struct{}
	img    *image.RGBA
	err    error
}

// Status returns the current state. It is safe to call from any goroutine.
func (t *Task) Status() Status {
	return Status(t.status.Load())
}

// Done is closed once the task reaches Complete or Failed.
func (t *Task) Done() <-chan struct{} {
	return t.done
}

// Result returns the decoded image. It fails if the task has not finished.
func (t *Task) Result() (*image.RGBA, error) {
	switch t.Status() {
	case StatusComplete:
		return t.img, nil
	case StatusFailed:
		return nil, t.err
	}
	return nil, fmt.Errorf("task %s for %s still %s", t.ID, t.Path, t.Status())
}

// Wait blocks until the task finishes or ctx is cancelled.
func (t *Task) Wait(ctx context.Context) (*image.RGBA, error) {
	select {
	case <-t.done:
		return t.Result()
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (t *Task) finish(img *image.RGBA, err error) {
	t.img, t.err = img, err
	if err != nil {
		t.status.Store(int32(StatusFailed))
	} else {
		t.status.Store(int32(StatusComplete))
	}
	close(t.done)
}

// Loader decodes textures on a single background worker, in submission order.
type Loader struct {
	pool      pond.Pool
	layerSize int
	logger    *log.Logger

	mu     sync.Mutex
	closed bool
}

// NewLoader starts the worker. Every decoded image is scaled to
// layerSize x layerSize so the results can share one texture array.
func NewLoader(layerSize int, logger *log.Logger) *Loader {
	if logger == nil {
		logger = log.Default()
	}
	return &Loader{
		pool:      pond.NewPool(1),
		layerSize: layerSize,
		logger:    logger,
	}
}

// Load queues a decode of the file at path.
func (l *Loader) Load(path string) (*Task, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return nil, ErrClosed
	}

	t := &Task{ID: uuid.New(), Path: path, done: make(chan struct{})}
	l.pool.Submit(func() { l.run(t) })
	return t, nil
}

func (l *Loader) run(t *Task) {
	defer profiling.Track("assets.decode")()
	t.status.Store(int32(StatusLoading))

	img, err := DecodeFile(t.Path, l.layerSize)
	if err != nil {
		l.logger.Printf("assets: task %s failed: %v", t.ID, err)
	}
	t.finish(img, err)
}

// LoadLayers decodes every path and returns the images in the same order.
func (l *Loader) LoadLayers(ctx context.Context, paths []string) ([]*image.RGBA, error) {
	tasks := make([]*Task, 0, len(paths))
	for _, p := range paths {
		t, err := l.Load(p)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}

	layers := make([]*image.RGBA, len(tasks))
	for i, t := range tasks {
		img, err := t.Wait(ctx)
		if err != nil {
			return nil, err
		}
		layers[i] = img
	}
	return layers, nil
}

// Pending returns the number of queued tasks not yet picked up by the worker.
func (l *Loader) Pending() int {
	return int(l.pool.WaitingTasks())
}

// Close stops accepting tasks and waits for queued ones to finish.
func (l *Loader) Close() {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return
	}
	l.closed = true
	l.mu.Unlock()

	l.pool.StopAndWait()
}
