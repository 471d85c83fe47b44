package output

import (
	"image"
	"path/filepath"
	"strings"

	"github.com/nfnt/resize"
)

// Thumbnail scales img down to the given width, preserving the aspect ratio.
// Images already no wider than width are returned unchanged.
func Thumbnail(img image.Image, width uint) image.Image {
	if width == 0 || int(width) >= img.Bounds().Dx() {
		return img
	}
	return resize.Resize(width, 0, img, resize.Lanczos3)
}

// ThumbnailPath derives the thumbnail file name for an output path: render.png -> render_thumb.png
func ThumbnailPath(path string) string {
	ext := filepath.Ext(path)
	if strings.HasSuffix(strings.ToLower(path), ".ppm.gz") {
		ext = path[len(path)-len(".ppm.gz"):]
	}
	return strings.TrimSuffix(path, ext) + "_thumb" + ext
}
