package renderer

import (
	"math"

	"github.com/df07/go-whitted-raytracer/pkg/core"
)

// Config contains rendering configuration
type Config struct {
	FOV               float64   // Vertical field of view in radians
	BackgroundColor   core.Vec3 // Colour of rays that escape the scene
	MaxDepth          int       // Rays cast deeper than this return the background
	ShadowEpsilon     float64   // Offset for secondary ray origins and minimum hit distance
	MaxDistance       float64   // Hits at or beyond this distance count as misses
	TrueLightDistance bool      // Compare shadow occluders against the real distance to the light
}

// DefaultConfig returns sensible default values
func DefaultConfig() Config {
	return Config{
		FOV:             math.Pi / 3,
		BackgroundColor: core.NewVec3(0.2, 0.7, 0.8),
		MaxDepth:        4,
		ShadowEpsilon:   1e-3,
		MaxDistance:     1000,
	}
}
