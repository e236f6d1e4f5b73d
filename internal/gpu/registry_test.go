package gpu

import (
	"errors"
	"testing"
)

func expectMisuse(t *testing.T, name string, fn func()) {
	t.Helper()
	defer func() {
		r := recover()
		if r == nil {
			t.Fatalf("%s: expected panic", name)
		}
		err, ok := r.(error)
		if !ok || !errors.Is(err, ErrHandleMisuse) {
			t.Fatalf("%s: panic value %v is not ErrHandleMisuse", name, r)
		}
	}()
	fn()
}

func TestCreateStartsAtOne(t *testing.T) {
	b := NewNullBackend()
	r := NewRegistry(b)

	h := r.Create(KindBuffer)
	if got := r.RefCount(h); got != 1 {
		t.Fatalf("new handle count = %d, want 1", got)
	}
	if !b.IsLive(h) {
		t.Fatalf("backend resource for %s not allocated", h)
	}
}

func TestDeleteReleasesAtZero(t *testing.T) {
	b := NewNullBackend()
	r := NewRegistry(b)

	h := r.Create(KindVertexArray)
	r.AddReference(h)
	r.AddReference(h)

	r.Delete(h)
	r.Delete(h)
	if !b.IsLive(h) {
		t.Fatalf("resource released while one reference remains")
	}
	if got := r.RefCount(h); got != 1 {
		t.Fatalf("count = %d, want 1", got)
	}

	r.Delete(h)
	if b.IsLive(h) {
		t.Fatalf("resource not released at count 0")
	}
	if b.Releases != 1 {
		t.Fatalf("releases = %d, want 1", b.Releases)
	}
	if r.Live() != 0 {
		t.Fatalf("live = %d, want 0", r.Live())
	}
}

func TestKindsDoNotCollide(t *testing.T) {
	r := NewRegistry(NewNullBackend())
	p := r.CreatePair()
	// NullBackend numbers each kind from 1
	if p.Array.ID != p.Buffer.ID {
		t.Fatalf("expected equal ids across kinds, got %d and %d", p.Array.ID, p.Buffer.ID)
	}
	r.Delete(p.Buffer)
	if r.RefCount(p.Array) != 1 {
		t.Fatalf("deleting buffer affected vertex array with same id")
	}
}

func TestMisusePanics(t *testing.T) {
	r := NewRegistry(NewNullBackend())

	expectMisuse(t, "add unregistered", func() {
		r.AddReference(Handle{Kind: KindBuffer, ID: 42})
	})
	expectMisuse(t, "delete unregistered", func() {
		r.Delete(Handle{Kind: KindBuffer, ID: 42})
	})

	h := r.Create(KindBuffer)
	r.Delete(h)
	expectMisuse(t, "double delete", func() { r.Delete(h) })
	expectMisuse(t, "add after release", func() { r.AddReference(h) })

	p := r.CreatePair()
	r.DeletePair(p)
	expectMisuse(t, "upload after release", func() { r.Upload(p, []float32{1}) })
}

func TestUploadReachesBackend(t *testing.T) {
	b := NewNullBackend()
	r := NewRegistry(b)
	p := r.CreatePair()

	r.Upload(p, make([]float32, 54))
	if got := b.UploadedFloats(p.Buffer); got != 54 {
		t.Fatalf("uploaded floats = %d, want 54", got)
	}
}

func TestSharedPairSurvivesOneOwner(t *testing.T) {
	b := NewNullBackend()
	r := NewRegistry(b)

	p := r.CreatePair()
	r.AddReference(p.Array)
	r.AddReference(p.Buffer)

	r.DeletePair(p)
	if !b.IsLive(p.Array) || !b.IsLive(p.Buffer) {
		t.Fatalf("shared pair released after first owner dropped it")
	}
	r.DeletePair(p)
	if b.LiveCount() != 0 {
		t.Fatalf("live resources = %d, want 0", b.LiveCount())
	}
}
