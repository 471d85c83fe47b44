package geometry

import (
	"math"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/material"
)

// Sphere represents a sphere shape
type Sphere struct {
	Center   core.Vec3
	Radius   float64
	Material material.Material
}

// NewSphere creates a new sphere. The radius is not validated.
func NewSphere(center core.Vec3, radius float64, mat material.Material) *Sphere {
	return &Sphere{
		Center:   center,
		Radius:   radius,
		Material: mat,
	}
}

// Intersect returns the nearest distance t > tMin at which the ray meets the sphere.
// The ray direction must be normalized: the geometric solution projects the centre onto it.
func (s *Sphere) Intersect(ray core.Ray, tMin float64) (float64, bool) {
	// Vector from ray origin to sphere center and its projection on the ray
	l := s.Center.Subtract(ray.Origin)
	tca := l.Dot(ray.Direction)

	// Squared distance from the center to the ray line
	d2 := l.LengthSquared() - tca*tca
	r2 := s.Radius * s.Radius
	if d2 > r2 {
		return 0, false
	}

	thc := math.Sqrt(r2 - d2)
	t0 := tca - thc
	t1 := tca + thc

	if t0 > tMin {
		return t0, true
	}
	// Origin is inside the sphere (or just left its surface)
	if t1 > tMin {
		return t1, true
	}
	return 0, false
}

// NormalAt returns the outward unit normal for a point on the surface
func (s *Sphere) NormalAt(point core.Vec3) core.Vec3 {
	return point.Subtract(s.Center).Normalize()
}

// Hit intersects the ray and builds a full hit record
func (s *Sphere) Hit(ray core.Ray, tMin float64) (HitRecord, bool) {
	t, ok := s.Intersect(ray, tMin)
	if !ok {
		return Miss, false
	}
	return NewHitRecord(ray, t, s.NormalAt(ray.At(t)), s.Material), true
}
