package renderer

import (
	"math"
	"testing"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/material"
	"github.com/df07/go-whitted-raytracer/pkg/scene"
)

var (
	origin  = core.NewVec3(0, 0, 0)
	forward = core.NewVec3(0, 0, -1)
)

// newTestScene creates an empty scene without the checkerboard floor
func newTestScene() *scene.Scene {
	s := scene.New("test")
	s.Floor = nil
	return s
}

func diffuseGrey() material.Material {
	return material.NewMaterial(1.0, material.NewAlbedo(1, 0, 0, 0), core.NewVec3(0.5, 0.5, 0.5), 10)
}

func perfectMirror() material.Material {
	return material.NewMaterial(1.0, material.NewAlbedo(0, 0, 1, 0), core.NewVec3(1, 1, 1), 0)
}

func TestRaytracer_Intersect(t *testing.T) {
	tests := []struct {
		name      string
		build     func(s *scene.Scene)
		ray       core.Ray
		expectHit bool
		expectedT float64
	}{
		{
			name:      "sphere dead ahead",
			build:     func(s *scene.Scene) { s.AddSphere(core.NewVec3(0, 0, -5), 1, diffuseGrey()) },
			ray:       core.NewRay(origin, forward),
			expectHit: true,
			expectedT: 4,
		},
		{
			name:      "sphere off axis",
			build:     func(s *scene.Scene) { s.AddSphere(core.NewVec3(5, 0, -5), 1, diffuseGrey()) },
			ray:       core.NewRay(origin, forward),
			expectHit: false,
		},
		{
			name: "nearest of two spheres",
			build: func(s *scene.Scene) {
				s.AddSphere(core.NewVec3(0, 0, -10), 1, diffuseGrey())
				s.AddSphere(core.NewVec3(0, 0, -5), 1, diffuseGrey())
			},
			ray:       core.NewRay(origin, forward),
			expectHit: true,
			expectedT: 4,
		},
		{
			name:      "beyond max distance",
			build:     func(s *scene.Scene) { s.AddSphere(core.NewVec3(0, 0, -2000), 1, diffuseGrey()) },
			ray:       core.NewRay(origin, forward),
			expectHit: false,
		},
		{
			name:      "empty scene",
			build:     func(s *scene.Scene) {},
			ray:       core.NewRay(origin, forward),
			expectHit: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestScene()
			tt.build(s)
			rt := NewRaytracer(s, DefaultConfig())

			hit := rt.Intersect(tt.ray)
			if hit.Hit != tt.expectHit {
				t.Fatalf("Expected hit=%t, got hit=%t (t=%f)", tt.expectHit, hit.Hit, hit.T)
			}
			if tt.expectHit && math.Abs(hit.T-tt.expectedT) > 1e-9 {
				t.Errorf("Expected t=%f, got t=%f", tt.expectedT, hit.T)
			}
		})
	}
}

func TestRaytracer_Intersect_TieKeepsFirstSphere(t *testing.T) {
	s := newTestScene()
	s.AddSphere(core.NewVec3(0, 0, -5), 1, material.Ivory())
	s.AddSphere(core.NewVec3(0, 0, -5), 1, material.RedRubber())
	rt := NewRaytracer(s, DefaultConfig())

	hit := rt.Intersect(core.NewRay(origin, forward))
	if !hit.Hit {
		t.Fatal("Expected hit, but got miss")
	}
	if hit.Material != material.Ivory() {
		t.Errorf("Expected the first sphere's material, got %+v", hit.Material)
	}
}

func TestRaytracer_Intersect_Floor(t *testing.T) {
	s := scene.New("floor")
	s.AddSphere(core.NewVec3(0, -4, -25), 1, material.Ivory())
	rt := NewRaytracer(s, DefaultConfig())

	// Steep downward ray meets the floor long before the sphere
	ray := core.NewRay(core.NewVec3(0, 0, -20), core.NewVec3(0, -1, -0.1).Normalize())
	hit := rt.Intersect(ray)
	if !hit.Hit {
		t.Fatal("Expected floor hit, but got miss")
	}
	if math.Abs(hit.Point.Y+4) > 1e-9 {
		t.Errorf("Expected hit on y=-4, got %v", hit.Point)
	}
	if hit.Normal != core.NewVec3(0, 1, 0) {
		t.Errorf("Expected upward normal, got %v", hit.Normal)
	}
	if hit.Material.Albedo != material.NewAlbedo(1, 0, 0, 0) {
		t.Errorf("Expected pure diffuse floor, got %+v", hit.Material.Albedo)
	}

	// A sphere in front of the floor wins
	s.AddSphere(core.NewVec3(0, -2, -20.2), 1, material.RedRubber())
	hit = rt.Intersect(ray)
	if hit.Material != material.RedRubber() {
		t.Errorf("Expected the nearer sphere to win over the floor, got %+v", hit.Material)
	}
}

func TestRaytracer_Intersect_MatchesShapeHit(t *testing.T) {
	s := scene.New("records")
	s.AddSphere(core.NewVec3(0, 0, -10), 2, material.Glass())
	rt := NewRaytracer(s, DefaultConfig())
	config := DefaultConfig()

	toSphere := core.NewRay(origin, core.NewVec3(0.05, 0.1, -1).Normalize())
	want, ok := s.Spheres[0].Hit(toSphere, config.ShadowEpsilon)
	if !ok {
		t.Fatal("Expected the sphere to be hit")
	}
	if got := rt.Intersect(toSphere); got != want {
		t.Errorf("Expected sphere record %+v, got %+v", want, got)
	}

	toFloor := core.NewRay(origin, core.NewVec3(0.3, -1, -0.5).Normalize())
	want, ok = s.Floor.Hit(toFloor)
	if !ok {
		t.Fatal("Expected the floor to be hit")
	}
	if got := rt.Intersect(toFloor); got != want {
		t.Errorf("Expected floor record %+v, got %+v", want, got)
	}
}

func TestRaytracer_CastRay_MissReturnsBackground(t *testing.T) {
	config := DefaultConfig()
	rt := NewRaytracer(newTestScene(), config)

	if got := rt.CastRay(core.NewRay(origin, forward), 0); got != config.BackgroundColor {
		t.Errorf("Expected background %v, got %v", config.BackgroundColor, got)
	}
}

func TestRaytracer_CastRay_DiffuseShading(t *testing.T) {
	s := newTestScene()
	s.AddSphere(core.NewVec3(0, 0, -5), 1, diffuseGrey())
	s.AddLight(core.NewVec3(0, 0, 0), 1)
	rt := NewRaytracer(s, DefaultConfig())

	// Head-on hit with the light behind the camera: N·L = 1
	got := rt.CastRay(core.NewRay(origin, forward), 0)
	want := core.NewVec3(0.5, 0.5, 0.5)
	if got.Subtract(want).Length() > 1e-12 {
		t.Errorf("Expected %v, got %v", want, got)
	}
}

func TestRaytracer_CastRay_SpecularHighlight(t *testing.T) {
	shiny := material.NewMaterial(1.0, material.NewAlbedo(0, 1, 0, 0), core.NewVec3(0, 0, 0), 50)
	s := newTestScene()
	s.AddSphere(core.NewVec3(0, 0, -5), 1, shiny)
	s.AddLight(core.NewVec3(0, 0, 0), 2)
	rt := NewRaytracer(s, DefaultConfig())

	// Light and viewer coincide, so the highlight is at full strength
	got := rt.CastRay(core.NewRay(origin, forward), 0)
	want := core.NewVec3(2, 2, 2)
	if got.Subtract(want).Length() > 1e-9 {
		t.Errorf("Expected %v, got %v", want, got)
	}
}

func TestRaytracer_CastRay_MirrorShowsBackground(t *testing.T) {
	s := newTestScene()
	s.AddSphere(core.NewVec3(0, 0, -5), 1, perfectMirror())
	config := DefaultConfig()
	rt := NewRaytracer(s, config)

	// Reflected straight back out of the scene
	if got := rt.CastRay(core.NewRay(origin, forward), 0); got != config.BackgroundColor {
		t.Errorf("Expected background %v, got %v", config.BackgroundColor, got)
	}
}

func TestRaytracer_Shadow(t *testing.T) {
	point := core.NewVec3(0, 0, -10)
	normal := core.NewVec3(0, 0, 1)
	viewDir := core.NewVec3(0, 0, -1)
	mat := diffuseGrey()

	tests := []struct {
		name              string
		light             core.Vec3
		occluder          bool
		trueLightDistance bool
		expectLit         bool
	}{
		{"unoccluded", core.NewVec3(0, 0, 10), false, false, true},
		{"occluder between point and light", core.NewVec3(0, 0, 10), true, false, false},
		{"occluder between point and light, true distance", core.NewVec3(0, 0, 10), true, true, false},
		// The light sits before the occluder; only the real distance sees that
		{"light in front of occluder", core.NewVec3(0, 0, -8), true, false, false},
		{"light in front of occluder, true distance", core.NewVec3(0, 0, -8), true, true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestScene()
			if tt.occluder {
				s.AddSphere(core.NewVec3(0, 0, -5), 1, material.RedRubber())
			}
			s.AddLight(tt.light, 1)

			config := DefaultConfig()
			config.TrueLightDistance = tt.trueLightDistance
			rt := NewRaytracer(s, config)

			diffuse, specular := rt.illuminate(point, normal, viewDir, mat)
			if tt.expectLit {
				if math.Abs(diffuse-1) > 1e-12 || math.Abs(specular-1) > 1e-12 {
					t.Errorf("Expected full contribution, got diffuse=%f specular=%f", diffuse, specular)
				}
			} else if diffuse != 0 || specular != 0 {
				t.Errorf("Expected zero contribution, got diffuse=%f specular=%f", diffuse, specular)
			}
			if rt.Stats().ShadowRays != 1 {
				t.Errorf("Expected 1 shadow ray, got %d", rt.Stats().ShadowRays)
			}
		})
	}
}

func TestRefract_NormalIncidence(t *testing.T) {
	for _, eta := range []float64{1.0, 1.33, 1.5, 2.42} {
		// Entering through the front face and leaving through the back face
		entering := Refract(forward, core.NewVec3(0, 0, 1), eta)
		exiting := Refract(forward, core.NewVec3(0, 0, -1), eta)

		for name, got := range map[string]core.Vec3{"entering": entering, "exiting": exiting} {
			if got.Subtract(forward).Length() > 1e-12 {
				t.Errorf("eta=%f %s: expected no bending, got %v", eta, name, got)
			}
		}
	}
}

func TestRefract_BendsMonotonically(t *testing.T) {
	dir := core.NewVec3(1, -1, 0).Normalize()
	normal := core.NewVec3(0, 1, 0)

	previous := -1.0
	for _, eta := range []float64{1.0, 1.1, 1.33, 1.5, 2.0, 2.42} {
		refracted := Refract(dir, normal, eta).Normalize()
		deviation := math.Acos(math.Min(1, refracted.Dot(dir)))

		if eta == 1.0 && deviation > 1e-7 {
			t.Errorf("Expected no bending for eta=1, got %f rad", deviation)
		}
		if deviation <= previous && eta != 1.0 {
			t.Errorf("eta=%f: expected deviation > %f, got %f", eta, previous, deviation)
		}
		if refracted.Y >= 0 {
			t.Errorf("eta=%f: refracted ray should continue into the surface, got %v", eta, refracted)
		}
		previous = deviation
	}
}

func TestRefract_SnellsLaw(t *testing.T) {
	dir := core.NewVec3(1, -1, 0).Normalize()
	normal := core.NewVec3(0, 1, 0)
	eta := 1.5

	refracted := Refract(dir, normal, eta).Normalize()
	sinI := math.Abs(dir.X)
	sinT := math.Abs(refracted.X)
	if math.Abs(sinI-eta*sinT) > 1e-12 {
		t.Errorf("Expected sin(i) = eta*sin(t), got %f vs %f", sinI, eta*sinT)
	}
}

func TestRefract_TotalInternalReflection(t *testing.T) {
	// Leaving glass at a grazing angle
	dir := core.NewVec3(1, 0.3, 0).Normalize()
	normal := core.NewVec3(0, 1, 0)

	got := Refract(dir, normal, 1.5)
	if got != core.NewVec3(1, 0, 0) {
		t.Errorf("Expected sentinel (1,0,0), got %v", got)
	}
	for _, c := range []float64{got.X, got.Y, got.Z} {
		if math.IsNaN(c) {
			t.Fatal("Expected no NaN in the sentinel direction")
		}
	}
}

// newFacingMirrorsScene traps a ray between two perfect mirrors. It has no lights,
// so every level of recursion reduces to the reflected colour.
func newFacingMirrorsScene() *scene.Scene {
	s := newTestScene()
	s.AddSphere(core.NewVec3(-3, 0, -10), 1, perfectMirror())
	s.AddSphere(core.NewVec3(3, 0, -10), 1, perfectMirror())
	return s
}

func TestRaytracer_CastRay_DepthCap(t *testing.T) {
	betweenMirrors := core.NewRay(core.NewVec3(0, 0, -10), core.NewVec3(1, 0, 0))

	for maxDepth := 1; maxDepth <= 20; maxDepth++ {
		config := DefaultConfig()
		config.MaxDepth = maxDepth
		rt := NewRaytracer(newFacingMirrorsScene(), config)

		if got := rt.CastRay(betweenMirrors, maxDepth+1); got != config.BackgroundColor {
			t.Errorf("MaxDepth=%d: expected background beyond the cap, got %v", maxDepth, got)
		}
		if rt.Stats().TotalRays != 1 {
			t.Errorf("MaxDepth=%d: expected a single ray beyond the cap, got %d", maxDepth, rt.Stats().TotalRays)
		}
	}
}

func TestRaytracer_CastRay_MirrorsTerminate(t *testing.T) {
	betweenMirrors := core.NewRay(core.NewVec3(0, 0, -10), core.NewVec3(1, 0, 0))

	for maxDepth := 1; maxDepth <= 20; maxDepth++ {
		// Deep caps trace millions of rays
		if maxDepth > 12 && testing.Short() {
			break
		}
		config := DefaultConfig()
		config.MaxDepth = maxDepth
		rt := NewRaytracer(newFacingMirrorsScene(), config)

		got := rt.CastRay(betweenMirrors, 0)
		if got != config.BackgroundColor {
			t.Errorf("MaxDepth=%d: expected background through perfect mirrors, got %v", maxDepth, got)
		}

		stats := rt.Stats()
		if stats.MaxDepthReached != maxDepth+1 {
			t.Errorf("MaxDepth=%d: expected recursion to stop at %d, reached %d", maxDepth, maxDepth+1, stats.MaxDepthReached)
		}
		// Each hit spawns at most two children
		if limit := 1<<(maxDepth+2) - 1; stats.TotalRays > limit {
			t.Errorf("MaxDepth=%d: expected at most %d rays, got %d", maxDepth, limit, stats.TotalRays)
		}
	}
}
