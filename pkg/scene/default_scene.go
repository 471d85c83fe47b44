package scene

import (
	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/material"
)

// NewDefaultScene creates the classic four sphere scene: ivory, glass, red rubber and a
// mirror above a checkerboard, lit by three point lights.
func NewDefaultScene() *Scene {
	s := New("default")

	s.AddSphere(core.NewVec3(-3, 0, -16), 2, material.Ivory()).
		AddSphere(core.NewVec3(-1.0, -1.5, -12), 2, material.Glass()).
		AddSphere(core.NewVec3(1.5, -0.5, -18), 3, material.RedRubber()).
		AddSphere(core.NewVec3(7, 5, -18), 4, material.Mirror())

	s.AddLight(core.NewVec3(-20, 20, 20), 1.5).
		AddLight(core.NewVec3(30, 50, -25), 1.8).
		AddLight(core.NewVec3(30, 20, 30), 1.7)

	return s
}

// NewMirrorsScene creates two fully reflective spheres facing each other.
// Rays bounce between them until the depth cap ends the recursion.
func NewMirrorsScene() *Scene {
	perfectMirror := material.NewMaterial(1.0, material.NewAlbedo(0, 0, 1, 0), core.NewVec3(1, 1, 1), 0)

	s := New("mirrors")
	s.AddSphere(core.NewVec3(-2.5, 0, -14), 2, perfectMirror).
		AddSphere(core.NewVec3(2.5, 0, -14), 2, perfectMirror).
		AddSphere(core.NewVec3(0, -2.5, -10), 1, material.RedRubber())

	s.AddLight(core.NewVec3(-20, 20, 20), 1.5).
		AddLight(core.NewVec3(30, 20, 30), 1.7)

	return s
}

// builtinScenes maps built-in scene names to their constructors
var builtinScenes = map[string]func() *Scene{
	"default": NewDefaultScene,
	"mirrors": NewMirrorsScene,
}
