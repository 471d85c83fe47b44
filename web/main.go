package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/df07/go-whitted-raytracer/pkg/config"
	"github.com/df07/go-whitted-raytracer/pkg/output"
	"github.com/df07/go-whitted-raytracer/pkg/renderer"
	"github.com/df07/go-whitted-raytracer/web/server"
)

func main() {
	// Parse command line flags
	port := flag.Int("port", 0, "Port to serve on (overrides SERVER_ADDRESS)")
	envFile := flag.String("env", config.DefaultEnvFile, "Environment file with RAYTRACER_*, SERVER_ADDRESS and S3_* settings")
	flag.Parse()

	settings, err := config.Load(*envFile)
	if err != nil {
		log.Printf("Error loading configuration: %v", err)
		os.Exit(1)
	}
	if *port != 0 {
		settings.ServerAddress = fmt.Sprintf(":%d", *port)
	}

	// Uploads are optional; the render endpoints reject upload=true without them
	var uploader server.Uploader
	if settings.S3.Enabled() {
		s3Uploader, err := output.NewS3Uploader(settings.S3, renderer.NewDefaultLogger())
		if err != nil {
			log.Printf("Error creating S3 uploader: %v", err)
			os.Exit(1)
		}
		uploader = s3Uploader
		log.Printf("Uploading renders to bucket %s", settings.S3.Bucket)
	}

	// Create and start web server
	webServer := server.NewServer(settings, uploader)

	log.Printf("Whitted Raytracer Web Server")
	log.Printf("Try http://localhost%s/api/render?scene=%s", settings.ServerAddress, settings.Scene)

	if err := webServer.Start(); err != nil {
		log.Printf("Error starting server: %v", err)
		os.Exit(1)
	}
}
