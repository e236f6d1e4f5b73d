package graphics

import (
	_ "embed"
	"image"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"

	"voxland/internal/profiling"
	"voxland/internal/world"
)

var (
	//go:embed shaders/terrain.vert
	terrainVertSrc string
	//go:embed shaders/terrain.frag
	terrainFragSrc string
)

// SkyColor is the clear colour and fog target.
var SkyColor = mgl32.Vec3{0.53, 0.81, 0.92}

// Terrain draws landscape chunks, one draw call per visible non-empty chunk.
type Terrain struct {
	shader   *Shader
	textures *TextureArray
	camera   *Camera

	calls []world.DrawCall
	// Drawn and Culled count the last frame's chunks.
	Drawn, Culled int
}

// NewTerrain compiles the terrain shader and uploads the texture layers,
// ordered by world texture layer.
func NewTerrain(camera *Camera, layers []*image.RGBA) (*Terrain, error) {
	shader, err := NewShader(terrainVertSrc, terrainFragSrc)
	if err != nil {
		return nil, err
	}
	textures, err := NewTextureArray(layers)
	if err != nil {
		shader.Delete()
		return nil, err
	}

	gl.Enable(gl.DEPTH_TEST)
	gl.Enable(gl.CULL_FACE)
	gl.CullFace(gl.BACK)
	gl.FrontFace(gl.CCW)

	return &Terrain{
		shader:   shader,
		textures: textures,
		camera:   camera,
		calls:    make([]world.DrawCall, 0, world.DefaultDimensions.Count()),
	}, nil
}

// Render clears the frame and draws the landscape seen from view.
func (t *Terrain) Render(l *world.Landscape, view mgl32.Mat4) {
	defer profiling.Track("graphics.Terrain.Render")()

	gl.ClearColor(SkyColor.X(), SkyColor.Y(), SkyColor.Z(), 1.0)
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)

	proj := t.camera.ProjectionMatrix()
	frustum := NewFrustum(proj.Mul4(view))

	t.shader.Use()
	t.shader.SetMatrix4("proj", &proj[0])
	t.shader.SetMatrix4("view", &view[0])
	t.shader.SetInt("terrain", 0)
	t.shader.SetVector3("skyColor", SkyColor.X(), SkyColor.Y(), SkyColor.Z())
	// fog hides the window edge where chunks appear and vanish
	ext := l.Dimensions().Blocks()
	fogEnd := float32(min(ext.X, ext.Z)) * world.BlockSize / 2
	t.shader.SetFloat("fogStart", fogEnd*0.6)
	t.shader.SetFloat("fogEnd", fogEnd)
	t.textures.Bind(0)

	t.calls = l.AppendDrawCalls(t.calls[:0])
	t.Drawn, t.Culled = 0, 0
	for _, dc := range t.calls {
		if !frustum.ContainsChunk(dc.Origin, world.ChunkWorldSize) {
			t.Culled++
			continue
		}
		gl.BindVertexArray(dc.Mesh.Array.ID)
		gl.DrawArrays(gl.TRIANGLES, 0, dc.VertexCount)
		t.Drawn++
	}
	gl.BindVertexArray(0)
}

// Dispose cleans up OpenGL resources
func (t *Terrain) Dispose() {
	t.textures.Delete()
	t.shader.Delete()
}
