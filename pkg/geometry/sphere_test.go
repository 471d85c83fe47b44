package geometry

import (
	"math"
	"testing"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/material"
)

const hitEpsilon = 1e-3

func TestSphere_Intersect(t *testing.T) {
	origin := core.NewVec3(0, 0, 0)
	forward := core.NewVec3(0, 0, -1)

	tests := []struct {
		name      string
		center    core.Vec3
		radius    float64
		ray       core.Ray
		expectHit bool
		expectedT float64
	}{
		{
			name:      "dead ahead",
			center:    core.NewVec3(0, 0, -5),
			radius:    1,
			ray:       core.NewRay(origin, forward),
			expectHit: true,
			expectedT: 4,
		},
		{
			name:      "off to the side",
			center:    core.NewVec3(5, 0, -5),
			radius:    1,
			ray:       core.NewRay(origin, forward),
			expectHit: false,
		},
		{
			name:      "behind the origin",
			center:    core.NewVec3(0, 0, 5),
			radius:    1,
			ray:       core.NewRay(origin, forward),
			expectHit: false,
		},
		{
			name:      "origin inside uses far root",
			center:    core.NewVec3(0, 0, 0),
			radius:    2,
			ray:       core.NewRay(origin, forward),
			expectHit: true,
			expectedT: 2,
		},
		{
			name:      "origin on surface skips itself",
			center:    core.NewVec3(0, 0, -1),
			radius:    1,
			ray:       core.NewRay(origin, forward),
			expectHit: true,
			expectedT: 2,
		},
		{
			name:      "grazing tangent",
			center:    core.NewVec3(1, 0, -5),
			radius:    1,
			ray:       core.NewRay(origin, forward),
			expectHit: true,
			expectedT: 5,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sphere := NewSphere(tt.center, tt.radius, material.Ivory())
			d, isHit := sphere.Intersect(tt.ray, hitEpsilon)

			if isHit != tt.expectHit {
				t.Fatalf("Expected hit=%t, got hit=%t (t=%f)", tt.expectHit, isHit, d)
			}
			if tt.expectHit && math.Abs(d-tt.expectedT) > 1e-9 {
				t.Errorf("Expected t=%f, got t=%f", tt.expectedT, d)
			}
		})
	}
}

func TestSphere_Hit_Record(t *testing.T) {
	sphere := NewSphere(core.NewVec3(0, 0, -5), 1, material.Glass())

	t.Run("entering", func(t *testing.T) {
		hit, ok := sphere.Hit(core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, -1)), hitEpsilon)
		if !ok || !hit.Hit {
			t.Fatal("Expected hit, but got miss")
		}
		if hit.Point.Subtract(core.NewVec3(0, 0, -4)).Length() > 1e-9 {
			t.Errorf("Expected point (0,0,-4), got %v", hit.Point)
		}
		if hit.Normal.Subtract(core.NewVec3(0, 0, 1)).Length() > 1e-9 {
			t.Errorf("Expected outward normal (0,0,1), got %v", hit.Normal)
		}
		if !hit.FrontFace {
			t.Error("Expected front face when entering")
		}
		if hit.Material.RefractiveIndex != 1.5 {
			t.Errorf("Expected glass material, got %+v", hit.Material)
		}
	})

	t.Run("exiting", func(t *testing.T) {
		hit, ok := sphere.Hit(core.NewRay(core.NewVec3(0, 0, -5), core.NewVec3(0, 0, -1)), hitEpsilon)
		if !ok {
			t.Fatal("Expected hit, but got miss")
		}
		if hit.Normal.Subtract(core.NewVec3(0, 0, -1)).Length() > 1e-9 {
			t.Errorf("Expected outward normal (0,0,-1), got %v", hit.Normal)
		}
		if hit.FrontFace {
			t.Error("Expected back face when exiting")
		}
	})
}
