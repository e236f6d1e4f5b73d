package gpu

// NullBackend is a headless Backend. It hands out sequential ids per kind and
// remembers upload sizes so callers can inspect what would reach the GPU.
type NullBackend struct {
	next     map[Kind]uint32
	live     map[Handle]struct{}
	uploaded map[Handle]int

	Allocs   int
	Releases int
	Uploads  int
}

// NewNullBackend creates an empty headless backend.
func NewNullBackend() *NullBackend {
	return &NullBackend{
		next:     make(map[Kind]uint32),
		live:     make(map[Handle]struct{}),
		uploaded: make(map[Handle]int),
	}
}

func (b *NullBackend) Alloc(kind Kind) uint32 {
	b.next[kind]++
	id := b.next[kind]
	b.live[Handle{Kind: kind, ID: id}] = struct{}{}
	b.Allocs++
	return id
}

func (b *NullBackend) Release(kind Kind, id uint32) {
	h := Handle{Kind: kind, ID: id}
	delete(b.live, h)
	delete(b.uploaded, h)
	b.Releases++
}

func (b *NullBackend) Upload(p Pair, vertices []float32) {
	b.uploaded[p.Buffer] = len(vertices)
	b.Uploads++
}

// IsLive reports whether the resource behind h has been allocated and not released.
func (b *NullBackend) IsLive(h Handle) bool {
	_, ok := b.live[h]
	return ok
}

// UploadedFloats returns the size of the last upload to buffer h.
func (b *NullBackend) UploadedFloats(h Handle) int {
	return b.uploaded[h]
}

// LiveCount returns the number of allocated, unreleased resources.
func (b *NullBackend) LiveCount() int {
	return len(b.live)
}
