package renderer

import (
	"math"

	"github.com/df07/go-whitted-raytracer/pkg/core"
)

// Camera generates primary rays from a fixed pinhole at the origin looking down -Z
type Camera struct {
	origin  core.Vec3
	width   float64
	height  float64
	tanHalf float64 // tan(fov/2)
}

// NewCamera creates a camera for an image of width x height pixels
func NewCamera(width, height int, fov float64) *Camera {
	return &Camera{
		origin:  core.NewVec3(0, 0, 0),
		width:   float64(width),
		height:  float64(height),
		tanHalf: math.Tan(fov / 2),
	}
}

// GetRay returns the normalized ray through the centre of pixel (i, j), j growing downwards
func (c *Camera) GetRay(i, j int) core.Ray {
	x := (2*(float64(i)+0.5)/c.width - 1) * c.tanHalf * c.width / c.height
	y := -(2*(float64(j)+0.5)/c.height - 1) * c.tanHalf

	return core.NewRay(c.origin, core.NewVec3(x, y, -1).Normalize())
}
