package renderer

import (
	"context"
	"fmt"
	"image"
	"log"
	"time"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/scene"
)

// DefaultTileSize is the edge length of tiles used by RenderParallel
const DefaultTileSize = 32

// DefaultLogger implements core.Logger with the standard logger
type DefaultLogger struct{}

func (dl *DefaultLogger) Printf(format string, args ...interface{}) {
	log.Printf(format, args...)
}

// NewDefaultLogger creates a new default logger
func NewDefaultLogger() core.Logger {
	return &DefaultLogger{}
}

// Render fills every pixel of sink by casting one primary ray per pixel, row by row
func Render(sink PixelSink, s *scene.Scene, config Config) RenderStats {
	startTime := time.Now()

	width, height := sink.Dimensions()
	rt := NewRaytracer(s, config)
	rt.RenderBounds(sink, NewCamera(width, height, config.FOV), image.Rect(0, 0, width, height))

	stats := rt.Stats()
	stats.Elapsed = time.Since(startTime)
	return stats
}

// ParallelOptions configures RenderParallel
type ParallelOptions struct {
	TileSize   int         // Edge length of each tile (0 = DefaultTileSize)
	NumWorkers int         // Number of parallel workers (0 = use CPU count)
	Logger     core.Logger // Optional progress logger

	// Progress is called after each finished tile with the number of tiles done so far.
	// It runs on the goroutine that called RenderParallel.
	Progress func(done, total int)
}

// RenderParallel renders the same image as Render, split into tiles spread over a worker pool.
// Pixels are independent, so the result matches Render exactly. If ctx is cancelled the
// remaining tiles are skipped and ctx.Err() is returned; pixels already written stay valid.
func RenderParallel(ctx context.Context, sink PixelSink, s *scene.Scene, config Config, opts ParallelOptions) (RenderStats, error) {
	startTime := time.Now()

	width, height := sink.Dimensions()
	tiles := NewTileGrid(width, height, opts.TileSize)

	pool := NewWorkerPool(s, config, sink, len(tiles), opts.NumWorkers)
	if opts.Logger != nil {
		opts.Logger.Printf("Rendering %dx%d in %d tiles (using %d workers)...\n",
			width, height, len(tiles), pool.GetNumWorkers())
	}

	pool.Start(ctx)
	for taskID, tile := range tiles {
		pool.SubmitTask(TileTask{Tile: tile, TaskID: taskID})
	}

	var stats RenderStats
	var firstErr error
	done := 0
	for i := 0; i < len(tiles); i++ {
		result, ok := pool.GetResult()
		if !ok {
			firstErr = fmt.Errorf("worker pool closed unexpectedly")
			break
		}
		if result.Error != nil {
			if firstErr == nil {
				firstErr = result.Error
			}
			continue
		}
		stats.Merge(result.Stats)
		done++
		if opts.Progress != nil {
			opts.Progress(done, len(tiles))
		}
	}
	pool.Stop()

	stats.Elapsed = time.Since(startTime)
	if firstErr != nil {
		if opts.Logger != nil {
			opts.Logger.Printf("Rendering stopped after %d of %d pixels: %v\n", stats.TotalPixels, width*height, firstErr)
		}
		return stats, firstErr
	}

	if opts.Logger != nil {
		opts.Logger.Printf("Render completed in %v (%.1f rays/pixel, %d shadow rays, max depth %d)\n",
			stats.Elapsed, stats.RaysPerPixel(), stats.ShadowRays, stats.MaxDepthReached)
	}
	return stats, nil
}
