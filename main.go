package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"github.com/df07/go-whitted-raytracer/pkg/config"
	"github.com/df07/go-whitted-raytracer/pkg/output"
	"github.com/df07/go-whitted-raytracer/pkg/renderer"
	"github.com/df07/go-whitted-raytracer/pkg/scene"
)

func main() {
	defaults := config.Defaults()

	// Parse command line flags
	sceneName := flag.String("scene", defaults.Scene, "Scene name: built-in ('default', 'mirrors'), JSON scene name or path to a .json file")
	width := flag.Int("width", defaults.Width, "Image width in pixels")
	height := flag.Int("height", defaults.Height, "Image height in pixels")
	depth := flag.Int("depth", defaults.MaxDepth, "Maximum recursion depth for reflection and refraction")
	workers := flag.Int("workers", defaults.Workers, "Number of parallel workers (0 = use CPU count)")
	format := flag.String("format", defaults.Format, "Output format: png, jpg, gif, tif, bmp, ppm or ppm.gz")
	out := flag.String("out", "", "Output file (default output/<scene>/render_<timestamp>.<format>)")
	thumb := flag.Int("thumb", defaults.ThumbWidth, "Also write a thumbnail of this width (0 = none)")
	upload := flag.Bool("upload", defaults.Upload, "Upload the render to the configured S3 bucket")
	trueLightDistance := flag.Bool("true-light-distance", defaults.TrueLightDistance, "Test shadows against the real distance to each light")
	envFile := flag.String("env", config.DefaultEnvFile, "Environment file with RAYTRACER_* and S3_* settings")
	list := flag.Bool("list", false, "List available scenes and exit")
	help := flag.Bool("help", false, "Show help information")
	flag.Parse()

	// Show help if requested
	if *help {
		fmt.Println("Whitted Raytracer")
		fmt.Println("Usage: raytracer [options]")
		fmt.Println()
		fmt.Println("Options:")
		flag.PrintDefaults()
		fmt.Println()
		printScenes()
		fmt.Println()
		fmt.Println("Settings are read from the environment file, then environment variables; flags win.")
		fmt.Println("Output will be saved to output/<scene>/render_<timestamp>.<format>")
		return
	}

	if *list {
		printScenes()
		return
	}

	settings, err := config.Load(*envFile)
	if err != nil {
		fmt.Printf("Error loading configuration: %v\n", err)
		os.Exit(1)
	}

	// Explicitly set flags override the environment
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "scene":
			settings.Scene = *sceneName
		case "width":
			settings.Width = *width
		case "height":
			settings.Height = *height
		case "depth":
			settings.MaxDepth = *depth
		case "workers":
			settings.Workers = *workers
		case "format":
			settings.Format = *format
		case "thumb":
			settings.ThumbWidth = *thumb
		case "upload":
			settings.Upload = *upload
		case "true-light-distance":
			settings.TrueLightDistance = *trueLightDistance
		}
	})

	if *out != "" {
		if f, err := output.FormatFromPath(*out); err == nil {
			settings.Format = f
		}
	}

	if err := settings.Validate(); err != nil {
		fmt.Printf("Invalid configuration: %v\n", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, settings, *out); err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
}

// run renders the configured scene, saves it and optionally uploads it
func run(ctx context.Context, settings config.Settings, outPath string) error {
	fmt.Println("Starting Whitted Raytracer...")

	selectedScene, err := createScene(settings.Scene)
	if err != nil {
		return err
	}
	fmt.Printf("Using %s scene (%d spheres, %d lights)...\n",
		selectedScene.Name, len(selectedScene.Spheres), len(selectedScene.Lights))

	logger := renderer.NewDefaultLogger()
	fb := renderer.NewFramebuffer(settings.Width, settings.Height)
	stats, err := renderer.RenderParallel(ctx, fb, selectedScene, settings.RenderConfig(), settings.ParallelOptions(logger))
	if err != nil {
		return fmt.Errorf("render failed: %w", err)
	}

	fmt.Printf("Render completed in %v\n", stats.Elapsed)
	fmt.Printf("Rays per pixel: %.2f (%d shadow rays, max depth %d)\n",
		stats.RaysPerPixel(), stats.ShadowRays, stats.MaxDepthReached)

	if outPath == "" {
		format, err := output.NormalizeFormat(settings.Format)
		if err != nil {
			return err
		}
		outPath = defaultOutputPath(settings.OutputDir, settings.Scene, format, time.Now())
	}

	img := fb.Image()
	if err := output.SaveImage(img, outPath); err != nil {
		return err
	}
	fmt.Printf("Render saved as %s\n", outPath)

	var thumbPath string
	if settings.ThumbWidth > 0 {
		thumbPath = output.ThumbnailPath(outPath)
		if err := output.SaveImage(output.Thumbnail(img, uint(settings.ThumbWidth)), thumbPath); err != nil {
			return err
		}
		fmt.Printf("Thumbnail saved as %s\n", thumbPath)
	}

	if settings.Upload {
		uploader, err := output.NewS3Uploader(settings.S3, logger)
		if err != nil {
			return err
		}
		for _, path := range []string{outPath, thumbPath} {
			if path == "" {
				continue
			}
			if err := uploadFile(ctx, uploader, settings.OutputDir, path); err != nil {
				return err
			}
		}
	}

	return nil
}

// createScene resolves a scene name or JSON path
func createScene(name string) (*scene.Scene, error) {
	s, err := scene.Resolve(name)
	if err != nil {
		return nil, fmt.Errorf("failed to create scene: %w", err)
	}
	return s, nil
}

// defaultOutputPath builds output/<scene>/render_<timestamp>.<ext>
func defaultOutputPath(outputDir, sceneName, format string, now time.Time) string {
	return filepath.Join(outputDir, filepath.FromSlash(output.RenderName(sceneName, format, now)))
}

// uploadFile uploads a saved render under its path relative to the output directory,
// or under its base name when it was written elsewhere
func uploadFile(ctx context.Context, uploader *output.S3Uploader, outputDir, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	format, err := output.FormatFromPath(path)
	if err != nil {
		return err
	}
	key, err := filepath.Rel(outputDir, path)
	if err != nil || strings.HasPrefix(key, "..") {
		key = filepath.Base(path)
	}
	return uploader.Upload(ctx, filepath.ToSlash(key), data, output.ContentType(format))
}

func printScenes() {
	fmt.Println("Available scenes:")
	for _, info := range scene.ListBuiltinScenes() {
		fmt.Printf("  %-16s (built-in)\n", info.ID)
	}

	jsonScenes, err := scene.ListJSONScenes("")
	if err != nil {
		fmt.Printf("  Error scanning JSON scenes: %v\n", err)
		return
	}
	for _, info := range jsonScenes {
		if info.Description != "" {
			fmt.Printf("  %-16s %s\n", info.ID, info.Description)
		} else {
			fmt.Printf("  %-16s %s\n", info.ID, info.FilePath)
		}
	}
}
