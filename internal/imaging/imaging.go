package imaging

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png"

	"golang.org/x/image/draw"
)

const (
	DefaultMaxDimension = 1024
	DefaultJPEGQuality  = 80
)

var ErrUnsupportedImage = errors.New("unsupported image")

// Prepare decodes a JPEG or PNG photo, scales it down so the longer edge is at most
// maxDimension pixels, and re-encodes it as JPEG with the given quality.
func Prepare(data []byte, maxDimension, jpegQuality int) ([]byte, error) {
	if maxDimension <= 0 {
		maxDimension = DefaultMaxDimension
	}
	if jpegQuality <= 0 || jpegQuality > 100 {
		jpegQuality = DefaultJPEGQuality
	}

	src, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedImage, err)
	}

	bounds := src.Bounds()
	width, height := FitWithin(bounds.Dx(), bounds.Dy(), maxDimension)

	var out image.Image = src
	if width != bounds.Dx() || height != bounds.Dy() {
		dst := image.NewRGBA(image.Rect(0, 0, width, height))
		draw.CatmullRom.Scale(dst, dst.Bounds(), src, bounds, draw.Over, nil)
		out = dst
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, out, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return nil, fmt.Errorf("encode %s as jpeg: %w", format, err)
	}

	return buf.Bytes(), nil
}

// FitWithin returns dimensions with the same aspect ratio whose longer edge is at most maxDimension.
func FitWithin(width, height, maxDimension int) (int, int) {
	longer := max(width, height)
	if longer <= maxDimension || longer == 0 {
		return width, height
	}

	scale := float64(maxDimension) / float64(longer)
	w := max(1, int(float64(width)*scale+0.5))
	h := max(1, int(float64(height)*scale+0.5))

	return w, h
}
