package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/df07/go-whitted-raytracer/pkg/config"
	"github.com/df07/go-whitted-raytracer/pkg/output"
	"github.com/df07/go-whitted-raytracer/pkg/renderer"
	"github.com/df07/go-whitted-raytracer/pkg/scene"
)

// Request limits
const (
	minImageSize = 1
	maxImageSize = 2000
	maxDepth     = 32
)

// Uploader stores encoded renders
type Uploader interface {
	Upload(ctx context.Context, key string, data []byte, contentType string) error
}

// Server handles web requests for the raytracer
type Server struct {
	settings config.Settings
	uploader Uploader // nil when uploads are not configured
}

// NewServer creates a new web server. uploader may be nil.
func NewServer(settings config.Settings, uploader Uploader) *Server {
	return &Server{settings: settings, uploader: uploader}
}

// RenderRequest represents a render request from the client
type RenderRequest struct {
	Scene             string `json:"scene"`             // Scene name or JSON scene ID
	Width             int    `json:"width"`             // Image width
	Height            int    `json:"height"`            // Image height
	MaxDepth          int    `json:"maxDepth"`          // Recursion depth cap
	Format            string `json:"format"`            // Output encoding
	TrueLightDistance bool   `json:"trueLightDistance"` // Exact shadow distance test
	Upload            bool   `json:"upload"`            // Also store the render in S3
}

// renderConfig returns the renderer configuration for the request
func (req *RenderRequest) renderConfig() renderer.Config {
	config := renderer.DefaultConfig()
	config.MaxDepth = req.MaxDepth
	config.TrueLightDistance = req.TrueLightDistance
	return config
}

// Stats represents render statistics
type Stats struct {
	TotalPixels     int     `json:"totalPixels"`
	TotalRays       int     `json:"totalRays"`
	ShadowRays      int     `json:"shadowRays"`
	RaysPerPixel    float64 `json:"raysPerPixel"`
	MaxDepthReached int     `json:"maxDepthReached"`
	ElapsedMs       int64   `json:"elapsedMs"`
}

func newStats(s renderer.RenderStats) Stats {
	return Stats{
		TotalPixels:     s.TotalPixels,
		TotalRays:       s.TotalRays,
		ShadowRays:      s.ShadowRays,
		RaysPerPixel:    s.RaysPerPixel(),
		MaxDepthReached: s.MaxDepthReached,
		ElapsedMs:       s.Elapsed.Milliseconds(),
	}
}

// Handler returns the HTTP routes of the server
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/render", s.handleRender)
	mux.HandleFunc("/api/render-stream", s.handleRenderStream)
	mux.HandleFunc("/api/inspect", s.handleInspect)
	mux.HandleFunc("/api/scenes", s.handleScenes)
	mux.HandleFunc("/api/scene-config", s.handleSceneConfig)
	mux.HandleFunc("/api/health", s.handleHealth)
	return mux
}

// Start starts the web server
func (s *Server) Start() error {
	log.Printf("Starting web server on %s", s.settings.ServerAddress)
	return http.ListenAndServe(s.settings.ServerAddress, s.Handler())
}

// handleHealth provides a simple health check endpoint
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

// handleScenes lists built-in and JSON scenes
func (s *Server) handleScenes(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Access-Control-Allow-Origin", "*")

	scenes := scene.ListBuiltinScenes()
	jsonScenes, err := scene.ListJSONScenes("")
	if err != nil {
		writeJSONError(w, http.StatusInternalServerError, err.Error())
		return
	}
	scenes = append(scenes, jsonScenes...)

	writeJSON(w, http.StatusOK, map[string]interface{}{"scenes": scenes})
}

// handleSceneConfig returns the render defaults and limits for a scene
func (s *Server) handleSceneConfig(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Access-Control-Allow-Origin", "*")

	sceneName := r.URL.Query().Get("scene")
	if sceneName == "" {
		sceneName = s.settings.Scene
	}

	sceneObj, err := s.createScene(sceneName)
	if err != nil {
		writeJSONError(w, http.StatusNotFound, err.Error())
		return
	}

	defaults := s.defaultRequest()
	response := map[string]interface{}{
		"scene":   sceneName,
		"spheres": len(sceneObj.Spheres),
		"lights":  len(sceneObj.Lights),
		"floor":   sceneObj.Floor != nil,
		"defaults": map[string]interface{}{
			"width":    defaults.Width,
			"height":   defaults.Height,
			"maxDepth": defaults.MaxDepth,
			"format":   defaults.Format,
		},
		"limits": map[string]interface{}{
			"width":    map[string]int{"min": minImageSize, "max": maxImageSize},
			"height":   map[string]int{"min": minImageSize, "max": maxImageSize},
			"maxDepth": map[string]int{"min": 0, "max": maxDepth},
		},
		"uploads": s.uploader != nil,
	}

	writeJSON(w, http.StatusOK, response)
}

// defaultRequest returns the request used for missing parameters, clamped to the limits
func (s *Server) defaultRequest() RenderRequest {
	return RenderRequest{
		Scene:             s.settings.Scene,
		Width:             min(max(s.settings.Width, minImageSize), maxImageSize),
		Height:            min(max(s.settings.Height, minImageSize), maxImageSize),
		MaxDepth:          min(max(s.settings.MaxDepth, 0), maxDepth),
		Format:            s.settings.Format,
		TrueLightDistance: s.settings.TrueLightDistance,
	}
}

// parseRenderRequest parses request parameters
func (s *Server) parseRenderRequest(r *http.Request) (*RenderRequest, error) {
	defaults := s.defaultRequest()
	query := r.URL.Query()
	req := &defaults

	if sceneName := query.Get("scene"); sceneName != "" {
		req.Scene = sceneName
	}

	var err error
	if req.Width, err = parseIntParam(query, "width", defaults.Width, minImageSize, maxImageSize); err != nil {
		return nil, err
	}
	if req.Height, err = parseIntParam(query, "height", defaults.Height, minImageSize, maxImageSize); err != nil {
		return nil, err
	}
	if req.MaxDepth, err = parseIntParam(query, "depth", defaults.MaxDepth, 0, maxDepth); err != nil {
		return nil, err
	}
	if req.TrueLightDistance, err = parseBoolParam(query, "trueLightDistance", defaults.TrueLightDistance); err != nil {
		return nil, err
	}
	if req.Upload, err = parseBoolParam(query, "upload", false); err != nil {
		return nil, err
	}

	format := query.Get("format")
	if format == "" {
		format = defaults.Format
	}
	if req.Format, err = output.NormalizeFormat(format); err != nil {
		return nil, err
	}

	if req.Upload && s.uploader == nil {
		return nil, fmt.Errorf("uploads are not configured on this server")
	}

	return req, nil
}

// parseIntParam parses an integer parameter from URL query with validation
func parseIntParam(values url.Values, key string, defaultValue, min, max int) (int, error) {
	if value := values.Get(key); value != "" {
		parsed, err := strconv.Atoi(value)
		if err != nil {
			return 0, fmt.Errorf("invalid %s: %s", key, value)
		}
		if parsed < min || parsed > max {
			return 0, fmt.Errorf("%s must be between %d and %d, got: %d", key, min, max, parsed)
		}
		return parsed, nil
	}
	return defaultValue, nil
}

// parseBoolParam parses a boolean parameter from URL query
func parseBoolParam(values url.Values, key string, defaultValue bool) (bool, error) {
	if value := values.Get(key); value != "" {
		parsed, err := strconv.ParseBool(value)
		if err != nil {
			return false, fmt.Errorf("invalid %s: %s", key, value)
		}
		return parsed, nil
	}
	return defaultValue, nil
}

// createScene resolves a built-in scene or a JSON scene from the scenes directory.
// Paths are rejected so clients cannot load arbitrary files.
func (s *Server) createScene(sceneName string) (*scene.Scene, error) {
	if strings.ContainsAny(sceneName, `/\`) || strings.HasSuffix(sceneName, ".json") {
		return nil, fmt.Errorf("unknown scene: %s", sceneName)
	}
	sceneObj, err := scene.Resolve(sceneName)
	if err != nil {
		return nil, fmt.Errorf("unknown scene %s: %w", sceneName, err)
	}
	return sceneObj, nil
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeJSONError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
