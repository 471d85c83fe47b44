package output

import (
	"bufio"
	"fmt"
	"image"
	"image/color"
	"io"

	"github.com/klauspost/compress/gzip"
)

// WritePPM writes img as a binary PPM (P6) with 8 bits per channel. Alpha is dropped.
func WritePPM(w io.Writer, img image.Image) error {
	bounds := img.Bounds()
	bw := bufio.NewWriter(w)

	if _, err := fmt.Fprintf(bw, "P6\n%d %d\n255\n", bounds.Dx(), bounds.Dy()); err != nil {
		return fmt.Errorf("failed to write PPM header: %w", err)
	}

	row := make([]byte, 3*bounds.Dx())
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			c := color.RGBAModel.Convert(img.At(x, y)).(color.RGBA)
			i := 3 * (x - bounds.Min.X)
			row[i], row[i+1], row[i+2] = c.R, c.G, c.B
		}
		if _, err := bw.Write(row); err != nil {
			return fmt.Errorf("failed to write PPM row %d: %w", y-bounds.Min.Y, err)
		}
	}

	if err := bw.Flush(); err != nil {
		return fmt.Errorf("failed to flush PPM data: %w", err)
	}
	return nil
}

// WritePPMGzip writes img as a gzip-compressed binary PPM
func WritePPMGzip(w io.Writer, img image.Image) error {
	zw, err := gzip.NewWriterLevel(w, gzip.BestCompression)
	if err != nil {
		return fmt.Errorf("failed to create gzip writer: %w", err)
	}

	if err := WritePPM(zw, img); err != nil {
		zw.Close()
		return err
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("failed to finish gzip stream: %w", err)
	}
	return nil
}
