package renderer

import "time"

// RenderStats contains statistics about the rendering process
type RenderStats struct {
	TotalPixels     int           // Number of pixels rendered
	TotalRays       int           // Primary and secondary rays cast, including depth-capped ones
	ShadowRays      int           // Shadow rays cast towards lights
	MaxDepthReached int           // Deepest recursion level entered
	Elapsed         time.Duration // Wall clock time of the render
}

// Merge adds the counters of other into s
func (s *RenderStats) Merge(other RenderStats) {
	s.TotalPixels += other.TotalPixels
	s.TotalRays += other.TotalRays
	s.ShadowRays += other.ShadowRays
	s.MaxDepthReached = max(s.MaxDepthReached, other.MaxDepthReached)
}

// RaysPerPixel returns the average number of non-shadow rays per pixel
func (s RenderStats) RaysPerPixel() float64 {
	if s.TotalPixels == 0 {
		return 0
	}
	return float64(s.TotalRays) / float64(s.TotalPixels)
}
