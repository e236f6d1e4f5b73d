package graphics

import (
	"fmt"
	"image"
	"log"

	"github.com/go-gl/gl/v4.1-core/gl"
)

// TextureArray is a GL_TEXTURE_2D_ARRAY with one layer per terrain texture.
type TextureArray struct {
	ID     uint32
	Layers int
}

// NewTextureArray uploads equally sized RGBA images as consecutive layers.
func NewTextureArray(images []*image.RGBA) (*TextureArray, error) {
	if len(images) == 0 {
		return nil, fmt.Errorf("texture array needs at least one layer")
	}
	width, height := images[0].Rect.Dx(), images[0].Rect.Dy()
	for i, img := range images {
		if img.Rect.Dx() != width || img.Rect.Dy() != height {
			return nil, fmt.Errorf("texture layer %d is %dx%d, want %dx%d", i, img.Rect.Dx(), img.Rect.Dy(), width, height)
		}
	}

	var texture uint32
	gl.GenTextures(1, &texture)
	gl.BindTexture(gl.TEXTURE_2D_ARRAY, texture)

	// Storage
	gl.TexImage3D(
		gl.TEXTURE_2D_ARRAY,
		0,
		gl.RGBA8,
		int32(width),
		int32(height),
		int32(len(images)),
		0,
		gl.RGBA,
		gl.UNSIGNED_BYTE,
		nil,
	)

	// Upload layers
	for i, img := range images {
		gl.TexSubImage3D(
			gl.TEXTURE_2D_ARRAY,
			0,
			0, 0, int32(i),
			int32(width),
			int32(height),
			1,
			gl.RGBA,
			gl.UNSIGNED_BYTE,
			gl.Ptr(img.Pix),
		)
	}

	gl.TexParameteri(gl.TEXTURE_2D_ARRAY, gl.TEXTURE_MIN_FILTER, gl.NEAREST_MIPMAP_LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D_ARRAY, gl.TEXTURE_MAG_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_2D_ARRAY, gl.TEXTURE_WRAP_S, gl.REPEAT)
	gl.TexParameteri(gl.TEXTURE_2D_ARRAY, gl.TEXTURE_WRAP_T, gl.REPEAT)
	gl.GenerateMipmap(gl.TEXTURE_2D_ARRAY)

	gl.BindTexture(gl.TEXTURE_2D_ARRAY, 0)

	log.Printf("Loaded %d textures into array (size: %dx%d)", len(images), width, height)
	return &TextureArray{ID: texture, Layers: len(images)}, nil
}

// Bind attaches the array to texture unit unit.
func (t *TextureArray) Bind(unit uint32) {
	gl.ActiveTexture(gl.TEXTURE0 + unit)
	gl.BindTexture(gl.TEXTURE_2D_ARRAY, t.ID)
}

func (t *TextureArray) Delete() {
	if t.ID != 0 {
		gl.DeleteTextures(1, &t.ID)
		t.ID = 0
	}
}
