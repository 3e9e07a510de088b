// Package pixels implements the post-generation pixel pipeline.
//
// resample.go rescales a processed buffer back to the original input
// dimensions and encodes the result as PNG.
package pixels

import (
	"fmt"
	"image"

	"golang.org/x/image/draw"
)

// Resample encodes the buffer to PNG, scaling it to the target dimensions
// first when they differ from the buffer's own.
//
// A nil target, or a target equal to the buffer size, skips scaling
// entirely: the output then carries the buffer's pixel content unchanged.
// Scaling uses the Catmull-Rom kernel over all four channels, so alpha is
// interpolated exactly like color and soft edges survive the resize.
//
// Errors: an empty or zero-dimension buffer fails validation (decode-class
// errors ErrEmptyBuffer / ErrInvalidDimensions); a serialization failure
// wraps ErrEncodeFailed.
func Resample(buf *PixelBuffer, target *Dimensions) ([]byte, error) {
	if err := buf.Validate(); err != nil {
		return nil, err
	}

	if target == nil || (target.Width == buf.Width && target.Height == buf.Height) {
		return EncodePNG(buf)
	}

	if target.Width <= 0 || target.Height <= 0 {
		return nil, fmt.Errorf("%w: target %s", ErrInvalidDimensions, target)
	}

	scaled, err := scale(buf, *target)
	if err != nil {
		return nil, err
	}
	return EncodePNG(scaled)
}

// ResampleBuffer is the buffer-to-buffer variant of Resample, used when the
// caller needs the scaled pixels rather than an encoded artifact.
func ResampleBuffer(buf *PixelBuffer, target Dimensions) (*PixelBuffer, error) {
	if err := buf.Validate(); err != nil {
		return nil, err
	}
	if target.Width <= 0 || target.Height <= 0 {
		return nil, fmt.Errorf("%w: target %s", ErrInvalidDimensions, target)
	}
	if target == buf.Dims() {
		return buf.Clone(), nil
	}
	return scale(buf, target)
}

// scale resamples the buffer to the target size with the Catmull-Rom kernel.
// draw.Src replaces destination pixels outright, so the interpolated alpha
// lands in the output instead of being composited away.
func scale(buf *PixelBuffer, target Dimensions) (*PixelBuffer, error) {
	dst := image.NewNRGBA(image.Rect(0, 0, target.Width, target.Height))
	src := buf.toNRGBA()

	draw.CatmullRom.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)

	return &PixelBuffer{Width: target.Width, Height: target.Height, Pix: dst.Pix}, nil
}

// ThumbnailDims returns dimensions that fit the source inside a maxPx square
// while preserving aspect ratio. Sources already within the square are
// returned unchanged.
func ThumbnailDims(src Dimensions, maxPx int) Dimensions {
	if maxPx <= 0 || (src.Width <= maxPx && src.Height <= maxPx) {
		return src
	}

	longest := src.Width
	if src.Height > longest {
		longest = src.Height
	}

	w := src.Width * maxPx / longest
	h := src.Height * maxPx / longest
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	return Dimensions{Width: w, Height: h}
}
