package material

import (
	"github.com/df07/go-whitted-raytracer/pkg/core"
)

// Albedo weights the four contributions to a surface's final colour.
// The weights are not required to sum to 1; values above 1 overexpose.
type Albedo struct {
	Diffuse    float64 // Lambertian term
	Specular   float64 // Phong highlight term
	Reflection float64 // Mirror ray term
	Refraction float64 // Transmitted ray term
}

// NewAlbedo creates albedo weights in (diffuse, specular, reflection, refraction) order
func NewAlbedo(diffuse, specular, reflection, refraction float64) Albedo {
	return Albedo{
		Diffuse:    diffuse,
		Specular:   specular,
		Reflection: reflection,
		Refraction: refraction,
	}
}

// Material holds immutable shading parameters. It is a value type and is copied freely.
type Material struct {
	Albedo           Albedo
	DiffuseColor     core.Vec3 // Base colour, components nominally in [0,1]
	SpecularExponent float64   // Phong exponent, >= 0
	RefractiveIndex  float64   // 1.0 means no bending
}

// NewMaterial creates a material. No validation is performed.
func NewMaterial(refractiveIndex float64, albedo Albedo, diffuseColor core.Vec3, specularExponent float64) Material {
	return Material{
		Albedo:           albedo,
		DiffuseColor:     diffuseColor,
		SpecularExponent: specularExponent,
		RefractiveIndex:  refractiveIndex,
	}
}

// Default returns a pure diffuse black material with index 1
func Default() Material {
	return NewMaterial(1.0, NewAlbedo(1, 0, 0, 0), core.Vec3{}, 0)
}

// Ivory is a dull off-white with a soft highlight
func Ivory() Material {
	return NewMaterial(1.0, NewAlbedo(0.6, 0.3, 0.1, 0.0), core.NewVec3(0.4, 0.4, 0.3), 50)
}

// Glass is a mostly transparent dielectric with index 1.5
func Glass() Material {
	return NewMaterial(1.5, NewAlbedo(0.0, 0.5, 0.1, 0.8), core.NewVec3(0.6, 0.7, 0.8), 125)
}

// RedRubber is almost purely diffuse
func RedRubber() Material {
	return NewMaterial(1.0, NewAlbedo(0.9, 0.1, 0.0, 0.0), core.NewVec3(0.3, 0.1, 0.1), 10)
}

// Mirror reflects most incoming light with a very tight highlight
func Mirror() Material {
	return NewMaterial(1.0, NewAlbedo(0.0, 10.0, 0.8, 0.0), core.NewVec3(1.0, 1.0, 1.0), 1425)
}

// Presets maps preset names to their constructors
var Presets = map[string]func() Material{
	"ivory":      Ivory,
	"glass":      Glass,
	"red_rubber": RedRubber,
	"mirror":     Mirror,
}
