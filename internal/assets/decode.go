package assets

import (
	"fmt"
	"image"
	_ "image/png"
	"io"
	"os"

	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
)

// DecodeFile opens and decodes a texture file, see Decode.
func DecodeFile(path string, size int) (*image.RGBA, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open texture %s: %w", path, err)
	}
	defer f.Close()

	img, err := Decode(f, size)
	if err != nil {
		return nil, fmt.Errorf("failed to decode texture %s: %w", path, err)
	}
	return img, nil
}

// Decode reads a PNG or BMP image and converts it to RGBA. When size is
// positive the image is scaled to size x size with nearest-neighbour
// sampling so pixel art stays crisp.
func Decode(r io.Reader, size int) (*image.RGBA, error) {
	img, _, err := image.Decode(r)
	if err != nil {
		return nil, err
	}

	b := img.Bounds()
	if size <= 0 || (b.Dx() == size && b.Dy() == size) {
		rgba := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
		draw.Draw(rgba, rgba.Bounds(), img, b.Min, draw.Src)
		return rgba, nil
	}

	rgba := image.NewRGBA(image.Rect(0, 0, size, size))
	draw.NearestNeighbor.Scale(rgba, rgba.Bounds(), img, b, draw.Src, nil)
	return rgba, nil
}
