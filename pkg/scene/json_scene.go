package scene

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/geometry"
	"github.com/df07/go-whitted-raytracer/pkg/material"
)

// Vec3JSON is a vector written as [x, y, z]
type Vec3JSON [3]float64

func (v Vec3JSON) vec() core.Vec3 { return core.NewVec3(v[0], v[1], v[2]) }

// MaterialJSON describes a named material. Albedo is [diffuse, specular, reflection, refraction].
type MaterialJSON struct {
	RefractiveIndex  float64    `json:"refractiveIndex"`
	Albedo           [4]float64 `json:"albedo"`
	DiffuseColor     Vec3JSON   `json:"diffuseColor"`
	SpecularExponent float64    `json:"specularExponent"`
}

type SphereJSON struct {
	Center   Vec3JSON `json:"center"`
	Radius   float64  `json:"radius"`
	Material string   `json:"material"` // Name from Materials or a built-in preset
}

type LightJSON struct {
	Position  Vec3JSON `json:"position"`
	Intensity float64  `json:"intensity"`
}

// FloorJSON overrides the checkerboard; zero fields keep the default
type FloorJSON struct {
	Y         *float64  `json:"y,omitempty"`
	HalfWidth *float64  `json:"halfWidth,omitempty"`
	MinZ      *float64  `json:"minZ,omitempty"`
	Light     *Vec3JSON `json:"light,omitempty"`
	Dark      *Vec3JSON `json:"dark,omitempty"`
}

// SceneJSON is the on-disk scene format
type SceneJSON struct {
	Name         string                  `json:"name"`
	Description  string                  `json:"description,omitempty"`
	Materials    map[string]MaterialJSON `json:"materials,omitempty"`
	Spheres      []SphereJSON            `json:"spheres"`
	Lights       []LightJSON             `json:"lights"`
	Floor        *FloorJSON              `json:"floor,omitempty"`
	DisableFloor bool                    `json:"disableFloor,omitempty"`
}

// LoadJSON reads a scene file
func LoadJSON(path string) (*Scene, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open scene file: %w", err)
	}
	defer f.Close()

	s, err := ParseJSON(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if s.Name == "" {
		s.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return s, nil
}

// ParseJSON decodes and validates a scene
func ParseJSON(r io.Reader) (*Scene, error) {
	var cfg SceneJSON
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode scene: %w", err)
	}
	return cfg.Build()
}

// Build converts the decoded description into a scene
func (cfg SceneJSON) Build() (*Scene, error) {
	s := New(cfg.Name)

	for i, sp := range cfg.Spheres {
		if sp.Radius <= 0 {
			return nil, fmt.Errorf("sphere %d: radius must be positive, got %g", i, sp.Radius)
		}
		mat, err := cfg.lookupMaterial(sp.Material)
		if err != nil {
			return nil, fmt.Errorf("sphere %d: %w", i, err)
		}
		s.AddSphere(sp.Center.vec(), sp.Radius, mat)
	}

	for i, l := range cfg.Lights {
		if l.Intensity <= 0 {
			return nil, fmt.Errorf("light %d: intensity must be positive, got %g", i, l.Intensity)
		}
		s.AddLight(l.Position.vec(), l.Intensity)
	}

	switch {
	case cfg.DisableFloor:
		s.Floor = nil
	case cfg.Floor != nil:
		s.Floor = cfg.Floor.apply(geometry.NewCheckerboard())
	}

	return s, nil
}

func (cfg SceneJSON) lookupMaterial(name string) (material.Material, error) {
	if m, ok := cfg.Materials[name]; ok {
		if m.RefractiveIndex <= 0 {
			return material.Material{}, fmt.Errorf("material %q: refractive index must be positive", name)
		}
		albedo := material.NewAlbedo(m.Albedo[0], m.Albedo[1], m.Albedo[2], m.Albedo[3])
		return material.NewMaterial(m.RefractiveIndex, albedo, m.DiffuseColor.vec(), m.SpecularExponent), nil
	}
	if ctor, ok := material.Presets[name]; ok {
		return ctor(), nil
	}
	return material.Material{}, fmt.Errorf("unknown material %q", name)
}

func (f *FloorJSON) apply(c *geometry.Checkerboard) *geometry.Checkerboard {
	if f.Y != nil {
		c.Y = *f.Y
	}
	if f.HalfWidth != nil {
		c.HalfWidth = *f.HalfWidth
	}
	if f.MinZ != nil {
		c.MinZ = *f.MinZ
	}
	if f.Light != nil {
		c.Light = f.Light.vec()
	}
	if f.Dark != nil {
		c.Dark = f.Dark.vec()
	}
	return c
}
