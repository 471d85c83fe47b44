// Package output encodes rendered images and ships them to disk or object storage.
package output

import (
	"bytes"
	"fmt"
	"image"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/disintegration/imaging"
)

// JPEGQuality is used for every JPEG encode
const JPEGQuality = 95

const (
	formatPPM   = "ppm"
	formatPPMGz = "ppm.gz"
)

// NormalizeFormat maps a file extension or format name ("png", ".JPG", "ppm.gz") to its
// canonical form, rejecting formats that cannot be encoded.
func NormalizeFormat(format string) (string, error) {
	f := strings.TrimPrefix(strings.ToLower(format), ".")
	switch f {
	case formatPPM, formatPPMGz:
		return f, nil
	}

	imgFormat, err := imaging.FormatFromExtension(f)
	if err != nil {
		return "", fmt.Errorf("unsupported image format %q: %w", format, err)
	}
	return strings.ToLower(imgFormat.String()), nil
}

// FormatFromPath returns the canonical format of a file name, recognising the double
// extension .ppm.gz
func FormatFromPath(path string) (string, error) {
	lower := strings.ToLower(path)
	if strings.HasSuffix(lower, ".ppm.gz") {
		return formatPPMGz, nil
	}
	ext := filepath.Ext(lower)
	if ext == "" {
		return "", fmt.Errorf("no file extension in %q", path)
	}
	return NormalizeFormat(ext)
}

// ContentType returns the MIME type for a canonical format
func ContentType(format string) string {
	switch format {
	case "png":
		return "image/png"
	case "jpeg":
		return "image/jpeg"
	case "gif":
		return "image/gif"
	case "tiff":
		return "image/tiff"
	case "bmp":
		return "image/bmp"
	case formatPPM:
		return "image/x-portable-pixmap"
	case formatPPMGz:
		return "application/gzip"
	default:
		return "application/octet-stream"
	}
}

// RenderName returns <scene>/render_<timestamp>.<ext> with forward slashes, usable both as
// an object key and, through filepath.FromSlash, as a relative file path. JSON scene paths
// are reduced to their base name.
func RenderName(sceneName, format string, now time.Time) string {
	dir := strings.TrimSuffix(filepath.Base(filepath.FromSlash(sceneName)), ".json")
	ext := format
	if ext == "jpeg" {
		ext = "jpg"
	}
	return path.Join(dir, fmt.Sprintf("render_%s.%s", now.Format("20060102_150405"), ext))
}

// Encode renders img into memory in the given format and returns the bytes together with
// their content type
func Encode(img image.Image, format string) ([]byte, string, error) {
	f, err := NormalizeFormat(format)
	if err != nil {
		return nil, "", err
	}

	var buf bytes.Buffer
	switch f {
	case formatPPM:
		err = WritePPM(&buf, img)
	case formatPPMGz:
		err = WritePPMGzip(&buf, img)
	default:
		imgFormat, _ := imaging.FormatFromExtension(f)
		err = imaging.Encode(&buf, img, imgFormat, imaging.JPEGQuality(JPEGQuality))
	}
	if err != nil {
		return nil, "", fmt.Errorf("failed to encode %s: %w", f, err)
	}

	return buf.Bytes(), ContentType(f), nil
}

// SaveImage writes img to path, choosing the encoding from the file extension.
// Missing parent directories are created.
func SaveImage(img image.Image, path string) error {
	format, err := FormatFromPath(path)
	if err != nil {
		return err
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	if format != formatPPM && format != formatPPMGz {
		if err := imaging.Save(img, path, imaging.JPEGQuality(JPEGQuality)); err != nil {
			return fmt.Errorf("failed to save %s: %w", path, err)
		}
		return nil
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer file.Close()

	if format == formatPPMGz {
		err = WritePPMGzip(file, img)
	} else {
		err = WritePPM(file, img)
	}
	if err != nil {
		return fmt.Errorf("failed to save %s: %w", path, err)
	}
	return file.Close()
}
