package geometry

import (
	"math"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/material"
)

// parallelEpsilon rejects rays too close to parallel with the plane
const parallelEpsilon = 1e-3

// Checkerboard is a horizontal ground plane y = Y tiled with 2-unit squares.
// It is bounded to |x| < HalfWidth and z > MinZ.
type Checkerboard struct {
	Y         float64
	HalfWidth float64
	MinZ      float64
	Light     core.Vec3 // Colour of odd tiles
	Dark      core.Vec3 // Colour of even tiles
}

// NewCheckerboard creates the default floor: y = -4, |x| < 10, z > -30,
// white and tan tiles dimmed to 30%.
func NewCheckerboard() *Checkerboard {
	return &Checkerboard{
		Y:         -4,
		HalfWidth: 10,
		MinZ:      -30,
		Light:     core.NewVec3(1, 1, 1).Multiply(0.3),
		Dark:      core.NewVec3(1, 0.7, 0.3).Multiply(0.3),
	}
}

// Intersect returns the distance to the board along the ray
func (c *Checkerboard) Intersect(ray core.Ray) (float64, bool) {
	// Near-parallel rays would divide by almost zero
	if math.Abs(ray.Direction.Y) <= parallelEpsilon {
		return 0, false
	}

	d := -(ray.Origin.Y - c.Y) / ray.Direction.Y
	if d <= 0 {
		return 0, false
	}

	p := ray.At(d)
	if math.Abs(p.X) >= c.HalfWidth || p.Z <= c.MinZ {
		return 0, false
	}
	return d, true
}

// MaterialAt synthesises the pure diffuse material of the tile containing point
func (c *Checkerboard) MaterialAt(point core.Vec3) material.Material {
	m := material.Default()
	tile := int(math.Floor(0.5*point.X)) + int(math.Floor(0.5*point.Z))
	if tile&1 != 0 {
		m.DiffuseColor = c.Light
	} else {
		m.DiffuseColor = c.Dark
	}
	return m
}

// Hit intersects the ray and builds a full hit record with the upward normal
func (c *Checkerboard) Hit(ray core.Ray) (HitRecord, bool) {
	d, ok := c.Intersect(ray)
	if !ok {
		return Miss, false
	}
	return NewHitRecord(ray, d, core.NewVec3(0, 1, 0), c.MaterialAt(ray.At(d))), true
}
