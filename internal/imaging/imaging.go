// Package imaging normalizes uploaded gear photos before they are stored.
package imaging

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"net/http"

	"golang.org/x/image/draw"
	"golang.org/x/image/webp"
)

// MaxDimension is the maximum width or height for stored images.
const MaxDimension = 2048

// JPEGQuality is the compression quality for JPEG output.
const JPEGQuality = 85

// ErrUnsupportedFormat is returned for uploads that are not an accepted image.
var ErrUnsupportedFormat = errors.New("unsupported image format")

// decoders maps sniffed MIME types to decoders.
var decoders = map[string]func([]byte) (image.Image, error){
	"image/jpeg": func(b []byte) (image.Image, error) { return jpeg.Decode(bytes.NewReader(b)) },
	"image/png":  func(b []byte) (image.Image, error) { return png.Decode(bytes.NewReader(b)) },
	"image/webp": func(b []byte) (image.Image, error) { return webp.Decode(bytes.NewReader(b)) },
}

// Result is a processed image ready to be stored.
type Result struct {
	Data   []byte
	MIME   string
	Ext    string
	Width  int
	Height int
}

// Process validates the format by sniffing bytes, downscales images larger
// than MaxDimension, and re-encodes as JPEG. Transparent areas are flattened
// onto white.
func Process(data []byte) (*Result, error) {
	// Sniff actual MIME type from bytes (not trusting client headers).
	detected := http.DetectContentType(data)
	decode, ok := decoders[detected]
	if !ok {
		return nil, fmt.Errorf("%w: %s (JPEG, PNG and WebP accepted)", ErrUnsupportedFormat, detected)
	}

	img, err := decode(data)
	if err != nil {
		return nil, fmt.Errorf("%w: decoding %s: %v", ErrUnsupportedFormat, detected, err)
	}

	img = flatten(downscale(img, MaxDimension))

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: JPEGQuality}); err != nil {
		return nil, fmt.Errorf("encoding JPEG: %w", err)
	}

	b := img.Bounds()
	return &Result{
		Data:   buf.Bytes(),
		MIME:   "image/jpeg",
		Ext:    ".jpg",
		Width:  b.Dx(),
		Height: b.Dy(),
	}, nil
}

// downscale resizes the image so neither dimension exceeds maxDim, keeping
// the aspect ratio. Images already within bounds are returned unchanged.
func downscale(img image.Image, maxDim int) image.Image {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()

	if w <= maxDim && h <= maxDim {
		return img
	}

	newW, newH := maxDim, maxDim
	if w > h {
		newH = max(1, h*maxDim/w)
	} else {
		newW = max(1, w*maxDim/h)
	}

	dst := image.NewRGBA(image.Rect(0, 0, newW, newH))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)
	return dst
}

// flatten composites img over an opaque white background.
func flatten(img image.Image) image.Image {
	b := img.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)
	draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Over)
	return dst
}
