package gpu

import (
	"errors"
	"fmt"
)

// Kind distinguishes the handle namespaces of the backend.
type Kind uint8

const (
	KindVertexArray Kind = iota + 1
	KindBuffer
)

func (k Kind) String() string {
	switch k {
	case KindVertexArray:
		return "vertex-array"
	case KindBuffer:
		return "buffer"
	default:
		return "unknown"
	}
}

// Handle identifies a backend resource. The zero Handle is never issued.
type Handle struct {
	Kind Kind
	ID   uint32
}

func (h Handle) String() string {
	return fmt.Sprintf("%s#%d", h.Kind, h.ID)
}

// IsZero reports whether h is the zero handle.
func (h Handle) IsZero() bool {
	return h == Handle{}
}

// Pair is the geometry-array + vertex-buffer couple owned by a chunk.
type Pair struct {
	Array  Handle
	Buffer Handle
}

// IsZero reports whether neither handle is set.
func (p Pair) IsZero() bool {
	return p.Array.IsZero() && p.Buffer.IsZero()
}

// Backend allocates, releases and fills the underlying resources.
type Backend interface {
	Alloc(kind Kind) uint32
	Release(kind Kind, id uint32)
	Upload(p Pair, vertices []float32)
}

// ErrHandleMisuse is the panic value wrapped for every registry contract violation.
var ErrHandleMisuse = errors.New("gpu: handle misuse")

// Registry reference-counts backend handles so buffers can be shared across
// chunk recycles without premature release or leaks. Not safe for concurrent use.
type Registry struct {
	backend Backend
	refs    map[Handle]int
}

// NewRegistry creates a registry over the given backend.
func NewRegistry(b Backend) *Registry {
	return &Registry{
		backend: b,
		refs:    make(map[Handle]int),
	}
}

// Create allocates a fresh handle with reference count 1.
func (r *Registry) Create(kind Kind) Handle {
	id := r.backend.Alloc(kind)
	h := Handle{Kind: kind, ID: id}
	if id == 0 {
		misuse("backend returned id 0 for %s", kind)
	}
	if n, ok := r.refs[h]; ok && n > 0 {
		misuse("backend reissued live handle %s", h)
	}
	r.refs[h] = 1
	return h
}

// AddReference increments the count of a live handle.
func (r *Registry) AddReference(h Handle) {
	n, ok := r.refs[h]
	if !ok {
		misuse("add reference to unregistered handle %s", h)
	}
	if n <= 0 {
		misuse("add reference to released handle %s (count %d)", h, n)
	}
	r.refs[h] = n + 1
}

// Delete drops one reference and releases the resource when none remain.
func (r *Registry) Delete(h Handle) {
	n, ok := r.refs[h]
	if !ok {
		misuse("delete of unregistered handle %s", h)
	}
	if n <= 0 {
		misuse("delete of released handle %s (count %d)", h, n)
	}
	n--
	if n > 0 {
		r.refs[h] = n
		return
	}
	delete(r.refs, h)
	r.backend.Release(h.Kind, h.ID)
}

// CreatePair allocates a vertex array and a vertex buffer.
func (r *Registry) CreatePair() Pair {
	return Pair{
		Array:  r.Create(KindVertexArray),
		Buffer: r.Create(KindBuffer),
	}
}

// DeletePair drops one reference to both handles.
func (r *Registry) DeletePair(p Pair) {
	r.Delete(p.Buffer)
	r.Delete(p.Array)
}

// Upload replaces the contents of the pair's buffer.
func (r *Registry) Upload(p Pair, vertices []float32) {
	if r.RefCount(p.Array) <= 0 || r.RefCount(p.Buffer) <= 0 {
		misuse("upload to released pair %s/%s", p.Array, p.Buffer)
	}
	r.backend.Upload(p, vertices)
}

// RefCount returns the current count, 0 for unknown handles.
func (r *Registry) RefCount(h Handle) int {
	return r.refs[h]
}

// Live returns the number of handles that have not been released.
func (r *Registry) Live() int {
	return len(r.refs)
}

func misuse(format string, args ...any) {
	panic(fmt.Errorf("%w: "+format, append([]any{ErrHandleMisuse}, args...)...))
}
