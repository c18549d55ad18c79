// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package imaging normalizes uploaded images: EXIF auto-rotation and
// downscaling of oversized photos.
package imaging

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"

	"github.com/disintegration/imaging"
	"github.com/rwcarlsen/goexif/exif"
	_ "golang.org/x/image/webp" // WebP decoder for dimension checks
)

const (
	// MaxDimension is the longest edge kept for uploaded photos.
	MaxDimension = 2000
	// JPEGQuality is used when re-encoding JPEGs.
	JPEGQuality = 85
)

// ErrUnsupportedFormat is returned for image types that cannot be processed.
var ErrUnsupportedFormat = errors.New("imaging: unsupported image format")

// Image MIME types.
const (
	MimeTypeJPEG = "image/jpeg"
	MimeTypePNG  = "image/png"
	MimeTypeGIF  = "image/gif"
	MimeTypeWebP = "image/webp"
)

// Result is a processed image.
type Result struct {
	Data    []byte
	Width   int
	Height  int
	Changed bool // Data differs from the input
}

// IsImage reports whether mimeType is an image type this package understands.
func IsImage(mimeType string) bool {
	switch mimeType {
	case MimeTypeJPEG, MimeTypePNG, MimeTypeGIF, MimeTypeWebP:
		return true
	}
	return false
}

// Normalize rotates JPEGs according to their EXIF orientation and shrinks
// JPEG and PNG images whose longest edge exceeds maxDim. GIF and WebP are
// returned untouched since they cannot be re-encoded without losing
// animation or format. The input is returned as-is when nothing changes.
func Normalize(data []byte, mimeType string, maxDim int) (*Result, error) {
	if !IsImage(mimeType) {
		return nil, ErrUnsupportedFormat
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("reading image header: %w", err)
	}
	unchanged := &Result{Data: data, Width: cfg.Width, Height: cfg.Height}

	if mimeType == MimeTypeGIF || mimeType == MimeTypeWebP {
		return unchanged, nil
	}

	orientation := 1
	if mimeType == MimeTypeJPEG {
		orientation = readExifOrientation(bytes.NewReader(data))
	}
	tooLarge := maxDim > 0 && (cfg.Width > maxDim || cfg.Height > maxDim)
	if orientation == 1 && !tooLarge {
		return unchanged, nil
	}

	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decoding image: %w", err)
	}
	img = applyOrientation(img, orientation)
	if tooLarge {
		img = imaging.Fit(img, maxDim, maxDim, imaging.Lanczos)
	}

	out, err := encodeImage(img, mimeType)
	if err != nil {
		return nil, fmt.Errorf("encoding image: %w", err)
	}

	b := img.Bounds()
	return &Result{Data: out, Width: b.Dx(), Height: b.Dy(), Changed: true}, nil
}

// readExifOrientation returns 1 (normal) if the orientation cannot be determined.
func readExifOrientation(r io.Reader) int {
	x, err := exif.Decode(r)
	if err != nil {
		return 1
	}
	tag, err := x.Get(exif.Orientation)
	if err != nil {
		return 1
	}
	orientation, err := tag.Int(0)
	if err != nil {
		return 1
	}
	return orientation
}

// applyOrientation applies an EXIF orientation (1-8) to img.
func applyOrientation(img image.Image, orientation int) image.Image {
	switch orientation {
	case 2:
		return imaging.FlipH(img)
	case 3:
		return imaging.Rotate180(img)
	case 4:
		return imaging.FlipV(img)
	case 5:
		return imaging.FlipH(imaging.Rotate270(img))
	case 6:
		return imaging.Rotate270(img)
	case 7:
		return imaging.FlipH(imaging.Rotate90(img))
	case 8:
		return imaging.Rotate90(img)
	default:
		return img
	}
}

func encodeImage(img image.Image, mimeType string) ([]byte, error) {
	var buf bytes.Buffer
	switch mimeType {
	case MimeTypePNG:
		if err := png.Encode(&buf, img); err != nil {
			return nil, err
		}
	default:
		if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: JPEGQuality}); err != nil {
			return nil, err
		}
	}
	return buf.Bytes(), nil
}
