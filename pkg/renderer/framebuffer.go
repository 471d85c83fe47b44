package renderer

import (
	"image"

	"github.com/df07/go-whitted-raytracer/pkg/core"
)

// PixelSink receives rendered colours. Coordinates outside Dimensions are a caller error.
// Implementations used with RenderParallel must accept concurrent writes to distinct pixels.
type PixelSink interface {
	Dimensions() (width, height int)
	SetPixel(x, y int, color core.Vec3)
}

// Framebuffer stores unclamped floating point colours in row-major order
type Framebuffer struct {
	width, height int
	pixels        []core.Vec3
}

// NewFramebuffer creates a black framebuffer
func NewFramebuffer(width, height int) *Framebuffer {
	return &Framebuffer{
		width:  width,
		height: height,
		pixels: make([]core.Vec3, width*height),
	}
}

// Dimensions returns the framebuffer size
func (fb *Framebuffer) Dimensions() (int, int) {
	return fb.width, fb.height
}

// SetPixel stores a colour. Bounds are not checked.
func (fb *Framebuffer) SetPixel(x, y int, color core.Vec3) {
	fb.pixels[y*fb.width+x] = color
}

// At returns the colour stored at (x, y)
func (fb *Framebuffer) At(x, y int) core.Vec3 {
	return fb.pixels[y*fb.width+x]
}

// Image converts the framebuffer to 8-bit RGBA
func (fb *Framebuffer) Image() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, fb.width, fb.height))
	for y := 0; y < fb.height; y++ {
		for x := 0; x < fb.width; x++ {
			img.SetRGBA(x, y, fb.At(x, y).ToRGBA())
		}
	}
	return img
}
