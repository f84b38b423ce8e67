// Package capture post-processes screen captures: cursor marking,
// downscaling and re-encoding.
package capture

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"strings"

	"golang.org/x/image/draw"
)

const (
	FormatPNG  = "png"
	FormatJPEG = "jpg"

	DefaultQuality = 80
)

// Point is a location in screen points.
type Point struct {
	X, Y float64
}

// Options controls Process.
type Options struct {
	// Scale is the output size relative to the capture, in (0, 1].
	Scale float64
	// Format is "png" or "jpg".
	Format string
	// Quality is the JPEG quality, 1-100.
	Quality int

	// Cursor, when set, is marked on the image with a crosshair and its
	// coordinates. ScreenWidth is the captured display width in points and
	// maps the cursor onto image pixels; zero means one pixel per point.
	Cursor      *Point
	ScreenWidth float64
}

// Image is an encoded result.
type Image struct {
	Data     []byte
	MIMEType string
	Width    int
	Height   int
}

// NormalizeFormat maps accepted spellings to FormatPNG or FormatJPEG.
func NormalizeFormat(s string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "png":
		return FormatPNG, nil
	case "jpg", "jpeg":
		return FormatJPEG, nil
	}
	return "", fmt.Errorf("unsupported image format: %q (expected png or jpg)", s)
}

// Process decodes a PNG capture and re-encodes it per opts.
func Process(data []byte, opts Options) (Image, error) {
	format, err := NormalizeFormat(opts.Format)
	if err != nil {
		return Image{}, err
	}
	if opts.Scale <= 0 || opts.Scale > 1 {
		return Image{}, fmt.Errorf("invalid scale %g: must be in (0, 1]", opts.Scale)
	}
	src, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		return Image{}, fmt.Errorf("decode capture: %w", err)
	}

	img := toRGBA(src)
	if opts.Cursor != nil {
		ratio := 1.0
		if opts.ScreenWidth > 0 {
			ratio = float64(img.Bounds().Dx()) / opts.ScreenWidth
		}
		markCursor(img, *opts.Cursor, ratio)
	}
	out := Scale(img, opts.Scale)

	var buf bytes.Buffer
	mime := "image/png"
	if format == FormatJPEG {
		q := opts.Quality
		if q <= 0 || q > 100 {
			q = DefaultQuality
		}
		err = jpeg.Encode(&buf, out, &jpeg.Options{Quality: q})
		mime = "image/jpeg"
	} else {
		err = png.Encode(&buf, out)
	}
	if err != nil {
		return Image{}, fmt.Errorf("encode %s: %w", format, err)
	}
	b := out.Bounds()
	return Image{Data: buf.Bytes(), MIMEType: mime, Width: b.Dx(), Height: b.Dy()}, nil
}

// Scale resizes img by factor with Catmull-Rom resampling. A factor of 1
// returns img unchanged. Each side is at least one pixel.
func Scale(img image.Image, factor float64) image.Image {
	if factor == 1 {
		return img
	}
	b := img.Bounds()
	w := max(1, int(float64(b.Dx())*factor+0.5))
	h := max(1, int(float64(b.Dy())*factor+0.5))
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, b, draw.Over, nil)
	return dst
}

func toRGBA(img image.Image) *image.RGBA {
	if rgba, ok := img.(*image.RGBA); ok {
		return rgba
	}
	b := img.Bounds()
	rgba := image.NewRGBA(b)
	draw.Draw(rgba, b, img, b.Min, draw.Src)
	return rgba
}

var (
	markerColor  = color.RGBA{R: 255, G: 0, B: 0, A: 255}
	labelColor   = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	outlineColor = color.RGBA{R: 0, G: 0, B: 0, A: 200}
)
