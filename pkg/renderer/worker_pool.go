package renderer

import (
	"context"
	"runtime"
	"sync"

	"github.com/df07/go-whitted-raytracer/pkg/scene"
)

// TileTask represents a tile rendering task for the worker pool
type TileTask struct {
	Tile   *Tile
	TaskID int // For deterministic ordering
}

// TileResult contains the result from rendering a tile
type TileResult struct {
	TaskID int
	Stats  RenderStats
	Error  error
}

// WorkerPool manages parallel tile rendering
type WorkerPool struct {
	taskQueue   chan TileTask
	resultQueue chan TileResult
	workers     []*Worker
	numWorkers  int
	wg          sync.WaitGroup
}

// Worker handles individual tile rendering tasks
type Worker struct {
	ID          int
	raytracer   *Raytracer
	camera      *Camera
	sink        PixelSink
	taskQueue   chan TileTask
	resultQueue chan TileResult
}

// NewWorkerPool creates a worker pool with the specified number of workers.
// Each worker owns a Raytracer; the scene is shared read-only.
func NewWorkerPool(s *scene.Scene, config Config, sink PixelSink, numTiles, numWorkers int) *WorkerPool {
	if numWorkers <= 0 {
		numWorkers = runtime.NumCPU()
	}

	width, height := sink.Dimensions()
	camera := NewCamera(width, height, config.FOV)

	wp := &WorkerPool{
		taskQueue:   make(chan TileTask, numTiles),   // Buffer for all tiles
		resultQueue: make(chan TileResult, numTiles), // Buffer for all results
		numWorkers:  numWorkers,
	}

	for i := 0; i < numWorkers; i++ {
		wp.workers = append(wp.workers, &Worker{
			ID:          i,
			raytracer:   NewRaytracer(s, config),
			camera:      camera,
			sink:        sink,
			taskQueue:   wp.taskQueue,
			resultQueue: wp.resultQueue,
		})
	}

	return wp
}

// Start begins all workers. Once ctx is done, remaining tasks are answered with ctx.Err()
// instead of being rendered.
func (wp *WorkerPool) Start(ctx context.Context) {
	for _, worker := range wp.workers {
		wp.wg.Add(1)
		go worker.run(ctx, &wp.wg)
	}
}

// Stop gracefully shuts down all workers
func (wp *WorkerPool) Stop() {
	close(wp.taskQueue) // No more tasks
	wp.wg.Wait()        // Wait for workers to finish
	close(wp.resultQueue)
}

// SubmitTask submits a tile task to the worker pool
func (wp *WorkerPool) SubmitTask(task TileTask) {
	wp.taskQueue <- task
}

// GetResult retrieves a completed tile result
func (wp *WorkerPool) GetResult() (TileResult, bool) {
	result, ok := <-wp.resultQueue
	return result, ok
}

// GetNumWorkers returns the number of workers in the pool
func (wp *WorkerPool) GetNumWorkers() int {
	return wp.numWorkers
}

// run is the main worker loop
func (w *Worker) run(ctx context.Context, wg *sync.WaitGroup) {
	defer wg.Done()

	for task := range w.taskQueue {
		if err := ctx.Err(); err != nil {
			w.resultQueue <- TileResult{TaskID: task.TaskID, Error: err}
			continue
		}

		before := w.raytracer.Stats()

		// Tiles have non-overlapping bounds, so writes to the sink never collide
		w.raytracer.RenderBounds(w.sink, w.camera, task.Tile.Bounds)

		after := w.raytracer.Stats()
		w.resultQueue <- TileResult{
			TaskID: task.TaskID,
			Stats: RenderStats{
				TotalPixels:     after.TotalPixels - before.TotalPixels,
				TotalRays:       after.TotalRays - before.TotalRays,
				ShadowRays:      after.ShadowRays - before.ShadowRays,
				MaxDepthReached: after.MaxDepthReached,
			},
		}
	}
}
