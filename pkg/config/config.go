// Package config gathers process settings from a .env file and the environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/output"
	"github.com/df07/go-whitted-raytracer/pkg/renderer"
	"github.com/joho/godotenv"
)

// DefaultEnvFile is read when no other file is named
const DefaultEnvFile = ".env"

// Settings holds everything the CLI and the web server need to render and store an image
type Settings struct {
	Scene             string
	Width             int
	Height            int
	MaxDepth          int
	Workers           int // 0 = use CPU count
	TileSize          int // 0 = renderer default
	Format            string
	OutputDir         string
	ThumbWidth        int // 0 = no thumbnail
	TrueLightDistance bool
	Upload            bool
	ServerAddress     string
	S3                output.S3Config
}

// Defaults returns the settings used when nothing is configured
func Defaults() Settings {
	return Settings{
		Scene:         "default",
		Width:         1024,
		Height:        768,
		MaxDepth:      renderer.DefaultConfig().MaxDepth,
		Format:        "png",
		OutputDir:     "output",
		ServerAddress: ":8080",
		S3: output.S3Config{
			Region: "us-east-1",
		},
	}
}

// lookupFunc resolves a variable name to its value
type lookupFunc func(key string) (string, bool)

// Helper to get a variable with a default value
func getEnv(lookup lookupFunc, key, fallback string) string {
	if value, ok := lookup(key); ok {
		return value
	}
	return fallback
}

func getEnvInt(lookup lookupFunc, key string, fallback int) (int, error) {
	value, ok := lookup(key)
	if !ok || value == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, value, err)
	}
	return n, nil
}

func getEnvBool(lookup lookupFunc, key string, fallback bool) (bool, error) {
	value, ok := lookup(key)
	if !ok || value == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return false, fmt.Errorf("invalid %s %q: %w", key, value, err)
	}
	return b, nil
}

// Load reads envFile (if it exists) and the process environment on top of Defaults.
// Process environment variables win over the file. A missing file is not an error.
func Load(envFile string) (Settings, error) {
	fileVars := map[string]string{}
	if envFile != "" {
		if _, err := os.Stat(envFile); err == nil {
			fileVars, err = godotenv.Read(envFile)
			if err != nil {
				return Settings{}, fmt.Errorf("failed to read %s: %w", envFile, err)
			}
		} else if !errors.Is(err, fs.ErrNotExist) {
			return Settings{}, fmt.Errorf("failed to stat %s: %w", envFile, err)
		}
	}

	lookup := func(key string) (string, bool) {
		if value, ok := os.LookupEnv(key); ok {
			return value, true
		}
		value, ok := fileVars[key]
		return value, ok
	}
	return fromLookup(Defaults(), lookup)
}

func fromLookup(base Settings, lookup lookupFunc) (Settings, error) {
	s := base
	var err error

	s.Scene = getEnv(lookup, "RAYTRACER_SCENE", s.Scene)
	s.Format = getEnv(lookup, "RAYTRACER_FORMAT", s.Format)
	s.OutputDir = getEnv(lookup, "RAYTRACER_OUTPUT_DIR", s.OutputDir)
	s.ServerAddress = getEnv(lookup, "SERVER_ADDRESS", s.ServerAddress)

	ints := []struct {
		key    string
		target *int
	}{
		{"RAYTRACER_WIDTH", &s.Width},
		{"RAYTRACER_HEIGHT", &s.Height},
		{"RAYTRACER_DEPTH", &s.MaxDepth},
		{"RAYTRACER_WORKERS", &s.Workers},
		{"RAYTRACER_TILE_SIZE", &s.TileSize},
		{"RAYTRACER_THUMB_WIDTH", &s.ThumbWidth},
	}
	for _, v := range ints {
		if *v.target, err = getEnvInt(lookup, v.key, *v.target); err != nil {
			return Settings{}, err
		}
	}

	if s.TrueLightDistance, err = getEnvBool(lookup, "RAYTRACER_TRUE_LIGHT_DISTANCE", s.TrueLightDistance); err != nil {
		return Settings{}, err
	}
	if s.Upload, err = getEnvBool(lookup, "RAYTRACER_UPLOAD", s.Upload); err != nil {
		return Settings{}, err
	}

	s.S3 = output.S3Config{
		AccessKey: getEnv(lookup, "S3_ACCESS_KEY", s.S3.AccessKey),
		SecretKey: getEnv(lookup, "S3_SECRET_KEY", s.S3.SecretKey),
		Endpoint:  getEnv(lookup, "S3_ENDPOINT", s.S3.Endpoint),
		Region:    getEnv(lookup, "S3_REGION", s.S3.Region),
		Bucket:    getEnv(lookup, "S3_BUCKET", s.S3.Bucket),
		ACL:       getEnv(lookup, "S3_ACL", s.S3.ACL),
	}

	return s, nil
}

// Validate reports the first setting that cannot be used for a render
func (s Settings) Validate() error {
	if s.Scene == "" {
		return fmt.Errorf("scene name is required")
	}
	if s.Width <= 0 || s.Height <= 0 {
		return fmt.Errorf("image size must be positive, got %dx%d", s.Width, s.Height)
	}
	if s.MaxDepth < 0 {
		return fmt.Errorf("max depth must not be negative, got %d", s.MaxDepth)
	}
	if s.Workers < 0 {
		return fmt.Errorf("workers must not be negative, got %d", s.Workers)
	}
	if s.TileSize < 0 {
		return fmt.Errorf("tile size must not be negative, got %d", s.TileSize)
	}
	if s.ThumbWidth < 0 {
		return fmt.Errorf("thumbnail width must not be negative, got %d", s.ThumbWidth)
	}
	if _, err := output.NormalizeFormat(s.Format); err != nil {
		return err
	}
	if s.Upload && !s.S3.Enabled() {
		return fmt.Errorf("upload requested but S3_BUCKET, S3_ACCESS_KEY and S3_SECRET_KEY are not all set")
	}
	return nil
}

// RenderConfig returns the renderer configuration these settings describe
func (s Settings) RenderConfig() renderer.Config {
	config := renderer.DefaultConfig()
	config.MaxDepth = s.MaxDepth
	config.TrueLightDistance = s.TrueLightDistance
	return config
}

// ParallelOptions returns the tiling and worker options for renderer.RenderParallel
func (s Settings) ParallelOptions(logger core.Logger) renderer.ParallelOptions {
	return renderer.ParallelOptions{
		TileSize:   s.TileSize,
		NumWorkers: s.Workers,
		Logger:     logger,
	}
}
