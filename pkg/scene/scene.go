package scene

import (
	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/geometry"
	"github.com/df07/go-whitted-raytracer/pkg/lights"
	"github.com/df07/go-whitted-raytracer/pkg/material"
)

// Scene contains all the elements needed for rendering.
// It is built once and only read while rendering, so it can be shared between workers.
type Scene struct {
	Name    string
	Spheres []*geometry.Sphere     // Order breaks ties between equidistant hits
	Lights  []lights.PointLight    // Point lights
	Floor   *geometry.Checkerboard // Optional ground plane, nil for none
}

// New creates an empty scene with the default checkerboard floor
func New(name string) *Scene {
	return &Scene{
		Name:    name,
		Spheres: make([]*geometry.Sphere, 0),
		Lights:  make([]lights.PointLight, 0),
		Floor:   geometry.NewCheckerboard(),
	}
}

// AddSphere appends a sphere to the scene
func (s *Scene) AddSphere(center core.Vec3, radius float64, mat material.Material) *Scene {
	s.Spheres = append(s.Spheres, geometry.NewSphere(center, radius, mat))
	return s
}

// AddLight appends a point light to the scene
func (s *Scene) AddLight(position core.Vec3, intensity float64) *Scene {
	s.Lights = append(s.Lights, lights.NewPointLight(position, intensity))
	return s
}
