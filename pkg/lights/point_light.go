package lights

import "github.com/df07/go-whitted-raytracer/pkg/core"

// PointLight is an infinitesimal light with scalar intensity
type PointLight struct {
	Position  core.Vec3
	Intensity float64
}

// NewPointLight creates a point light. Intensity is not validated.
func NewPointLight(position core.Vec3, intensity float64) PointLight {
	return PointLight{Position: position, Intensity: intensity}
}

// DirectionFrom returns the unit direction from point towards the light
func (l PointLight) DirectionFrom(point core.Vec3) core.Vec3 {
	return l.Position.Subtract(point).Normalize()
}
