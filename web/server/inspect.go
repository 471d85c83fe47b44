package server

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/geometry"
	"github.com/df07/go-whitted-raytracer/pkg/material"
	"github.com/df07/go-whitted-raytracer/pkg/renderer"
	"github.com/df07/go-whitted-raytracer/pkg/scene"
)

// InspectResponse represents the JSON response for object inspection
type InspectResponse struct {
	Hit          bool                   `json:"hit"`
	GeometryType string                 `json:"geometryType,omitempty"` // "sphere" or "checkerboard"
	SphereIndex  int                    `json:"sphereIndex"`            // -1 unless a sphere was hit
	Point        [3]float64             `json:"point"`
	Normal       [3]float64             `json:"normal"`
	Distance     float64                `json:"distance"`
	FrontFace    bool                   `json:"frontFace"`
	Color        [3]float64             `json:"color"` // Traced colour before conversion to 8 bits
	Properties   map[string]interface{} `json:"properties,omitempty"`
}

// extractMaterialInfo describes a material for display
func extractMaterialInfo(mat material.Material) map[string]interface{} {
	c := mat.DiffuseColor.ToRGBA()
	return map[string]interface{}{
		"albedo": [4]float64{
			mat.Albedo.Diffuse, mat.Albedo.Specular, mat.Albedo.Reflection, mat.Albedo.Refraction,
		},
		"diffuseColor":     vecArray(mat.DiffuseColor),
		"color":            fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B),
		"specularExponent": mat.SpecularExponent,
		"refractiveIndex":  mat.RefractiveIndex,
	}
}

// InspectResult contains rich information about the object hit by an inspection ray
type InspectResult struct {
	HitRecord   geometry.HitRecord
	SphereIndex int // -1 for the floor or a miss
	Color       core.Vec3
}

// inspectPixel casts the primary ray through the specified pixel and reports the first
// object hit along with the colour the renderer computes for it
func inspectPixel(sceneObj *scene.Scene, config renderer.Config, width, height, pixelX, pixelY int) InspectResult {
	camera := renderer.NewCamera(width, height, config.FOV)
	ray := camera.GetRay(pixelX, pixelY)

	rt := renderer.NewRaytracer(sceneObj, config)
	result := InspectResult{
		HitRecord:   rt.Intersect(ray),
		SphereIndex: -1,
		Color:       rt.CastRay(ray, 0),
	}
	if !result.HitRecord.Hit {
		return result
	}

	// Intersect does not say which sphere was hit, so find the one at the same distance
	for i, sphere := range sceneObj.Spheres {
		if t, ok := sphere.Intersect(ray, config.ShadowEpsilon); ok && t == result.HitRecord.T {
			result.SphereIndex = i
			break
		}
	}
	return result
}

// extractGeometryInfo describes the geometry that was hit
func extractGeometryInfo(sceneObj *scene.Scene, sphereIndex int) (string, map[string]interface{}) {
	if sphereIndex < 0 {
		floor := sceneObj.Floor
		if floor == nil {
			return "unknown", nil
		}
		return "checkerboard", map[string]interface{}{
			"y":         floor.Y,
			"halfWidth": floor.HalfWidth,
			"minZ":      floor.MinZ,
		}
	}

	sphere := sceneObj.Spheres[sphereIndex]
	return "sphere", map[string]interface{}{
		"center": vecArray(sphere.Center),
		"radius": sphere.Radius,
	}
}

func vecArray(v core.Vec3) [3]float64 {
	return [3]float64{v.X, v.Y, v.Z}
}

// handleInspect handles ray casting inspection requests
func (s *Server) handleInspect(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Access-Control-Allow-Origin", "*")

	// Parse common scene parameters using shared function
	req, err := s.parseRenderRequest(r)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "Invalid scene parameters: "+err.Error())
		return
	}

	// Parse pixel coordinates
	pixelX, err := strconv.Atoi(r.URL.Query().Get("x"))
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "Invalid x coordinate")
		return
	}

	pixelY, err := strconv.Atoi(r.URL.Query().Get("y"))
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "Invalid y coordinate")
		return
	}

	// Validate pixel coordinates
	if pixelX < 0 || pixelX >= req.Width || pixelY < 0 || pixelY >= req.Height {
		writeJSONError(w, http.StatusBadRequest, "Pixel coordinates out of bounds")
		return
	}

	sceneObj, err := s.createScene(req.Scene)
	if err != nil {
		writeJSONError(w, http.StatusNotFound, err.Error())
		return
	}

	result := inspectPixel(sceneObj, req.renderConfig(), req.Width, req.Height, pixelX, pixelY)

	if !result.HitRecord.Hit {
		writeJSON(w, http.StatusOK, InspectResponse{SphereIndex: -1, Color: vecArray(result.Color)})
		return
	}

	hit := result.HitRecord
	geometryType, geometryProps := extractGeometryInfo(sceneObj, result.SphereIndex)

	response := InspectResponse{
		Hit:          true,
		GeometryType: geometryType,
		SphereIndex:  result.SphereIndex,
		Point:        vecArray(hit.Point),
		Normal:       vecArray(hit.Normal),
		Distance:     hit.T,
		FrontFace:    hit.FrontFace,
		Color:        vecArray(result.Color),
		Properties: map[string]interface{}{
			"material": extractMaterialInfo(hit.Material),
			"geometry": geometryProps,
		},
	}

	writeJSON(w, http.StatusOK, response)
}
