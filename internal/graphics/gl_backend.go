package graphics

import (
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"

	"voxland/internal/gpu"
	"voxland/internal/meshing"
)

// GLBackend allocates vertex arrays and buffers on the current GL context.
// It must only be used from the thread owning that context.
type GLBackend struct{}

func NewGLBackend() *GLBackend {
	return &GLBackend{}
}

func (b *GLBackend) Alloc(kind gpu.Kind) uint32 {
	var id uint32
	switch kind {
	case gpu.KindVertexArray:
		gl.GenVertexArrays(1, &id)
	case gpu.KindBuffer:
		gl.GenBuffers(1, &id)
	default:
		panic(fmt.Sprintf("graphics: cannot allocate %v", kind))
	}
	return id
}

func (b *GLBackend) Release(kind gpu.Kind, id uint32) {
	switch kind {
	case gpu.KindVertexArray:
		gl.DeleteVertexArrays(1, &id)
	case gpu.KindBuffer:
		gl.DeleteBuffers(1, &id)
	}
}

// Upload replaces the buffer contents and binds the terrain vertex layout:
// location 0 position, 1 normal, 2 uv + texture layer.
func (b *GLBackend) Upload(p gpu.Pair, vertices []float32) {
	gl.BindVertexArray(p.Array.ID)
	gl.BindBuffer(gl.ARRAY_BUFFER, p.Buffer.ID)

	if len(vertices) == 0 {
		gl.BufferData(gl.ARRAY_BUFFER, 0, nil, gl.STATIC_DRAW)
	} else {
		gl.BufferData(gl.ARRAY_BUFFER, len(vertices)*4, gl.Ptr(vertices), gl.STATIC_DRAW)
	}

	stride := int32(meshing.VertexStride * 4)
	gl.VertexAttribPointer(0, 3, gl.FLOAT, false, stride, gl.PtrOffset(0))
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointer(1, 3, gl.FLOAT, false, stride, gl.PtrOffset(3*4))
	gl.EnableVertexAttribArray(1)
	gl.VertexAttribPointer(2, 3, gl.FLOAT, false, stride, gl.PtrOffset(6*4))
	gl.EnableVertexAttribArray(2)

	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	gl.BindVertexArray(0)
}
