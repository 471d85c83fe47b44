package geometry

import (
	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/material"
)

// HitRecord is the immutable result of a nearest-hit query.
// Normal is the outward geometric normal of the surface; FrontFace reports whether
// it faces the ray origin, so a ray leaving a sphere sees FrontFace == false.
type HitRecord struct {
	Hit       bool              // False when the ray escaped to the background
	T         float64           // Parameter t along the ray
	Point     core.Vec3         // Point of intersection
	Normal    core.Vec3         // Outward unit normal at the hit point
	FrontFace bool              // Whether the ray arrived from the normal's side
	Material  material.Material // Resolved material at the hit point
}

// Miss is the record returned when nothing was hit
var Miss = HitRecord{}

// NewHitRecord builds a hit record and derives FrontFace from the ray direction
func NewHitRecord(ray core.Ray, t float64, outwardNormal core.Vec3, mat material.Material) HitRecord {
	return HitRecord{
		Hit:       true,
		T:         t,
		Point:     ray.At(t),
		Normal:    outwardNormal,
		FrontFace: ray.Direction.Dot(outwardNormal) < 0,
		Material:  mat,
	}
}
