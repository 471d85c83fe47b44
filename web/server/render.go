package server

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/df07/go-whitted-raytracer/pkg/output"
	"github.com/df07/go-whitted-raytracer/pkg/renderer"
	"github.com/df07/go-whitted-raytracer/pkg/scene"
)

// consoleBufferSize bounds console messages queued between two SSE flushes
const consoleBufferSize = 64

var renderCounter atomic.Int64

// nextRenderID returns a process-unique identifier used to tag log lines
func nextRenderID() string {
	return fmt.Sprintf("render-%d", renderCounter.Add(1))
}

// TileUpdate reports render progress after each finished tile
type TileUpdate struct {
	TilesDone  int   `json:"tilesDone"`
	TotalTiles int   `json:"totalTiles"`
	ElapsedMs  int64 `json:"elapsedMs"`
}

// CompleteUpdate carries the finished image and its statistics
type CompleteUpdate struct {
	RenderID  string `json:"renderId"`
	Format    string `json:"format"`
	ImageData string `json:"imageData"` // Base64 encoded image
	UploadKey string `json:"uploadKey,omitempty"`
	Stats     Stats  `json:"stats"`
}

// renderResult is a finished, encoded render
type renderResult struct {
	data        []byte
	contentType string
	uploadKey   string
	stats       renderer.RenderStats
}

// render traces sceneObj for req, encodes the image and uploads it when requested
func (s *Server) render(ctx context.Context, req *RenderRequest, sceneObj *scene.Scene, opts renderer.ParallelOptions) (*renderResult, error) {
	opts.NumWorkers = s.settings.Workers
	opts.TileSize = s.settings.TileSize

	fb := renderer.NewFramebuffer(req.Width, req.Height)
	stats, err := renderer.RenderParallel(ctx, fb, sceneObj, req.renderConfig(), opts)
	if err != nil {
		return nil, fmt.Errorf("render error: %w", err)
	}

	data, contentType, err := output.Encode(fb.Image(), req.Format)
	if err != nil {
		return nil, err
	}

	result := &renderResult{data: data, contentType: contentType, stats: stats}
	if req.Upload {
		result.uploadKey = output.RenderName(req.Scene, req.Format, time.Now())
		if err := s.uploader.Upload(ctx, result.uploadKey, data, contentType); err != nil {
			return nil, err
		}
	}
	return result, nil
}

// handleRender renders a scene and responds with the encoded image
func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Access-Control-Allow-Origin", "*")

	if r.Method != http.MethodGet {
		writeJSONError(w, http.StatusMethodNotAllowed, "only GET is supported")
		return
	}

	req, err := s.parseRenderRequest(r)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "Invalid request: "+err.Error())
		return
	}

	sceneObj, err := s.createScene(req.Scene)
	if err != nil {
		writeJSONError(w, http.StatusNotFound, err.Error())
		return
	}

	renderID := nextRenderID()
	result, err := s.render(r.Context(), req, sceneObj, renderer.ParallelOptions{Logger: NewWebLogger(renderID, nil)})
	if err != nil {
		writeJSONError(w, http.StatusInternalServerError, err.Error())
		return
	}

	w.Header().Set("Content-Type", result.contentType)
	w.Header().Set("Content-Length", strconv.Itoa(len(result.data)))
	w.Header().Set("X-Render-Id", renderID)
	w.Header().Set("X-Render-Time-Ms", strconv.FormatInt(result.stats.Elapsed.Milliseconds(), 10))
	w.Header().Set("X-Rays-Per-Pixel", strconv.FormatFloat(result.stats.RaysPerPixel(), 'f', 2, 64))
	if result.uploadKey != "" {
		w.Header().Set("X-Upload-Key", result.uploadKey)
	}
	w.WriteHeader(http.StatusOK)
	w.Write(result.data)
}

// handleRenderStream renders a scene while streaming console output and tile progress as
// server-sent events, finishing with a "complete" event holding the encoded image
func (s *Server) handleRenderStream(w http.ResponseWriter, r *http.Request) {
	s.setSSEHeaders(w)

	req, err := s.parseRenderRequest(r)
	if err != nil {
		s.sendSSEError(w, fmt.Sprintf("Invalid request: %v", err))
		return
	}

	sceneObj, err := s.createScene(req.Scene)
	if err != nil {
		s.sendSSEError(w, err.Error())
		return
	}

	renderID := nextRenderID()
	consoleChan := make(chan ConsoleMessage, consoleBufferSize)
	startTime := time.Now()

	// Progress runs on this goroutine, so events are written in order without locking
	opts := renderer.ParallelOptions{
		Logger: NewWebLogger(renderID, consoleChan),
		Progress: func(done, total int) {
			s.flushConsole(w, consoleChan)
			s.sendSSEJSON(w, "progress", TileUpdate{
				TilesDone:  done,
				TotalTiles: total,
				ElapsedMs:  time.Since(startTime).Milliseconds(),
			})
		},
	}

	result, err := s.render(r.Context(), req, sceneObj, opts)
	s.flushConsole(w, consoleChan)
	if err != nil {
		s.sendSSEError(w, err.Error())
		return
	}

	s.sendSSEJSON(w, "complete", CompleteUpdate{
		RenderID:  renderID,
		Format:    req.Format,
		ImageData: base64.StdEncoding.EncodeToString(result.data),
		UploadKey: result.uploadKey,
		Stats:     newStats(result.stats),
	})
}

// setSSEHeaders sets the headers for a server-sent event stream
func (s *Server) setSSEHeaders(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("Access-Control-Allow-Origin", "*")
}

// flushConsole forwards queued console messages
func (s *Server) flushConsole(w http.ResponseWriter, consoleChan chan ConsoleMessage) {
	for {
		select {
		case msg := <-consoleChan:
			s.sendSSEJSON(w, "console", msg)
		default:
			return
		}
	}
}

// sendSSEJSON sends v as the JSON payload of an event
func (s *Server) sendSSEJSON(w http.ResponseWriter, event string, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return s.sendSSEEvent(w, event, string(data))
}

// sendSSEError sends an error via SSE
func (s *Server) sendSSEError(w http.ResponseWriter, message string) error {
	return s.sendSSEEvent(w, "error", message)
}

// sendSSEEvent sends a generic SSE event
func (s *Server) sendSSEEvent(w http.ResponseWriter, event, data string) error {
	if flusher, ok := w.(http.Flusher); ok {
		fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event, data)
		flusher.Flush()
		return nil
	}
	return fmt.Errorf("streaming not supported")
}
