package renderer

import (
	"image"
	"math"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/geometry"
	"github.com/df07/go-whitted-raytracer/pkg/material"
	"github.com/df07/go-whitted-raytracer/pkg/scene"
)

var (
	white = core.NewVec3(1, 1, 1)

	// totalInternalReflection stands in for the refracted direction when none exists
	totalInternalReflection = core.NewVec3(1, 0, 0)
)

// Raytracer evaluates rays against a read-only scene.
// It keeps ray counters, so each goroutine needs its own Raytracer.
type Raytracer struct {
	scene  *scene.Scene
	config Config
	stats  RenderStats
}

// NewRaytracer creates a new raytracer
func NewRaytracer(s *scene.Scene, config Config) *Raytracer {
	return &Raytracer{
		scene:  s,
		config: config,
	}
}

// Stats returns the ray counters accumulated so far
func (rt *Raytracer) Stats() RenderStats {
	return rt.stats
}

// Intersect finds the nearest surface along the ray: spheres in list order, then the floor.
// Ties between spheres keep the first one; anything at or beyond MaxDistance is a miss.
func (rt *Raytracer) Intersect(ray core.Ray) geometry.HitRecord {
	closestSoFar := math.MaxFloat64
	hit := geometry.Miss

	for _, sphere := range rt.scene.Spheres {
		if rec, ok := sphere.Hit(ray, rt.config.ShadowEpsilon); ok && rec.T < closestSoFar {
			closestSoFar = rec.T
			hit = rec
		}
	}

	if floor := rt.scene.Floor; floor != nil {
		if rec, ok := floor.Hit(ray); ok && rec.T < closestSoFar {
			closestSoFar = rec.T
			hit = rec
		}
	}

	if closestSoFar >= rt.config.MaxDistance {
		return geometry.Miss
	}
	return hit
}

// CastRay returns the colour seen along the ray. Primary rays start at depth 0.
func (rt *Raytracer) CastRay(ray core.Ray, depth int) core.Vec3 {
	rt.stats.TotalRays++
	rt.stats.MaxDepthReached = max(rt.stats.MaxDepthReached, depth)

	if depth > rt.config.MaxDepth {
		return rt.config.BackgroundColor
	}

	hit := rt.Intersect(ray)
	if !hit.Hit {
		return rt.config.BackgroundColor
	}

	dir := ray.Direction
	mat := hit.Material

	reflectDir := dir.Reflect(hit.Normal).Normalize()
	refractDir := Refract(dir, hit.Normal, mat.RefractiveIndex).Normalize()

	// Both child rays are always traced, whatever their albedo weight
	reflectColor := rt.CastRay(core.NewRay(rt.offsetOrigin(hit.Point, reflectDir, hit.Normal), reflectDir), depth+1)
	refractColor := rt.CastRay(core.NewRay(rt.offsetOrigin(hit.Point, refractDir, hit.Normal), refractDir), depth+1)

	diffuse, specular := rt.illuminate(hit.Point, hit.Normal, dir, mat)

	return mat.DiffuseColor.Multiply(diffuse * mat.Albedo.Diffuse).
		Add(white.Multiply(specular * mat.Albedo.Specular)).
		Add(reflectColor.Multiply(mat.Albedo.Reflection)).
		Add(refractColor.Multiply(mat.Albedo.Refraction))
}

// illuminate accumulates diffuse and specular intensity from every unshadowed light
func (rt *Raytracer) illuminate(point, normal, viewDir core.Vec3, mat material.Material) (diffuse, specular float64) {
	for _, light := range rt.scene.Lights {
		lightDir := light.DirectionFrom(point)

		if rt.inShadow(point, normal, lightDir, rt.lightDistance(point, lightDir, light.Position)) {
			continue
		}

		diffuse += math.Max(0, lightDir.Dot(normal)) * light.Intensity
		specular += math.Pow(math.Max(0, lightDir.Reflect(normal).Dot(viewDir)), mat.SpecularExponent) * light.Intensity
	}
	return diffuse, specular
}

// lightDistance is the distance an occluder must beat to cast a shadow.
// By default this is |lightDir - point|, which is not the distance to the light; see
// Config.TrueLightDistance.
func (rt *Raytracer) lightDistance(point, lightDir, lightPos core.Vec3) float64 {
	if rt.config.TrueLightDistance {
		return lightPos.Subtract(point).Length()
	}
	return lightDir.Subtract(point).Length()
}

// inShadow casts a shadow ray from just off the surface towards the light
func (rt *Raytracer) inShadow(point, normal, lightDir core.Vec3, lightDistance float64) bool {
	rt.stats.ShadowRays++

	origin := rt.offsetOrigin(point, lightDir, normal)
	shadowHit := rt.Intersect(core.NewRay(origin, lightDir))
	return shadowHit.Hit && shadowHit.Point.Subtract(origin).Length() < lightDistance
}

// offsetOrigin nudges point off the surface on the side dir travels to
func (rt *Raytracer) offsetOrigin(point, dir, normal core.Vec3) core.Vec3 {
	offset := normal.Multiply(rt.config.ShadowEpsilon)
	if dir.Dot(normal) < 0 {
		return point.Subtract(offset)
	}
	return point.Add(offset)
}

// Refract bends the unit direction dir through a surface with outward normal n between
// vacuum and a medium of index eta (Snell's law). A ray leaving the medium is handled by
// flipping the normal and swapping the indices once. When total internal reflection leaves
// no transmitted ray, the sentinel direction (1,0,0) is returned.
func Refract(dir, n core.Vec3, eta float64) core.Vec3 {
	etaI, etaT := 1.0, eta
	cosI := -math.Max(-1, math.Min(1, dir.Dot(n)))
	if cosI < 0 {
		cosI = -cosI
		n = n.Negate()
		etaI, etaT = etaT, etaI
	}

	ratio := etaI / etaT
	k := 1 - ratio*ratio*(1-cosI*cosI)
	if k < 0 {
		return totalInternalReflection
	}
	return dir.Multiply(ratio).Add(n.Multiply(ratio*cosI - math.Sqrt(k)))
}

// RenderBounds renders the pixels inside bounds into sink
func (rt *Raytracer) RenderBounds(sink PixelSink, camera *Camera, bounds image.Rectangle) {
	for j := bounds.Min.Y; j < bounds.Max.Y; j++ {
		for i := bounds.Min.X; i < bounds.Max.X; i++ {
			rt.stats.TotalPixels++
			sink.SetPixel(i, j, rt.CastRay(camera.GetRay(i, j), 0))
		}
	}
}
