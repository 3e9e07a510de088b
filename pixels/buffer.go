// Package pixels implements the post-generation pixel pipeline: decoding
// encoded images into raw RGBA buffers, chroma-key alpha extraction, and
// dimension-preserving resampling back to a lossless PNG.
//
// buffer.go contains the PixelBuffer atom shared by the rest of the package.
package pixels

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/draw"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
)

// Pixel buffer errors
var (
	ErrEmptyBuffer        = errors.New("pixels: buffer is empty")
	ErrInvalidDimensions  = errors.New("pixels: invalid dimensions")
	ErrBufferSizeMismatch = errors.New("pixels: buffer length does not match dimensions")
	ErrDecodeFailed       = errors.New("pixels: failed to decode image")
	ErrEncodeFailed       = errors.New("pixels: failed to encode image")
)

// bytesPerPixel is the size of one RGBA pixel.
const bytesPerPixel = 4

// Dimensions is a width/height pair in pixels.
type Dimensions struct {
	Width  int
	Height int
}

// String returns the dimensions in "WxH" form.
func (d Dimensions) String() string {
	return fmt.Sprintf("%dx%d", d.Width, d.Height)
}

// PixelBuffer is a decoded image as raw RGBA pixel data.
// Pix holds exactly Width*Height pixels, 4 bytes each, ordered (R,G,B,A)
// row by row. The buffer is the unit of work for ExtractKey and Resample.
type PixelBuffer struct {
	Width  int
	Height int
	Pix    []byte
}

// NewPixelBuffer allocates a zeroed buffer of the given size.
// Returns an error if either dimension is not positive.
func NewPixelBuffer(width, height int) (*PixelBuffer, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidDimensions, width, height)
	}
	return &PixelBuffer{
		Width:  width,
		Height: height,
		Pix:    make([]byte, width*height*bytesPerPixel),
	}, nil
}

// Decode decodes PNG, JPEG, or GIF data into a PixelBuffer.
// The result is always 8-bit RGBA regardless of the source color model.
// This is a pure function with no side effects.
func Decode(data []byte) (*PixelBuffer, error) {
	if len(data) == 0 {
		return nil, ErrEmptyBuffer
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecodeFailed, err)
	}

	return fromImage(img), nil
}

// DecodeDims reads only the image header and returns its dimensions.
// Cheaper than Decode when the pixel data is not needed.
func DecodeDims(data []byte) (Dimensions, error) {
	if len(data) == 0 {
		return Dimensions{}, ErrEmptyBuffer
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return Dimensions{}, fmt.Errorf("%w: %v", ErrDecodeFailed, err)
	}

	return Dimensions{Width: cfg.Width, Height: cfg.Height}, nil
}

// fromImage converts any image.Image into a PixelBuffer, normalizing the
// pixel data to 8-bit non-premultiplied RGBA. Non-premultiplied storage is
// what lets key pixels keep their RGB after alpha is dropped to zero.
func fromImage(img image.Image) *PixelBuffer {
	bounds := img.Bounds()

	// Fast path: an *image.NRGBA with zero-origin bounds and a tight stride
	// already has the exact layout PixelBuffer expects.
	if nrgba, ok := img.(*image.NRGBA); ok &&
		bounds.Min == (image.Point{}) &&
		nrgba.Stride == bounds.Dx()*bytesPerPixel {
		pix := make([]byte, len(nrgba.Pix))
		copy(pix, nrgba.Pix)
		return &PixelBuffer{Width: bounds.Dx(), Height: bounds.Dy(), Pix: pix}
	}

	dst := image.NewNRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Draw(dst, dst.Bounds(), img, bounds.Min, draw.Src)
	return &PixelBuffer{Width: bounds.Dx(), Height: bounds.Dy(), Pix: dst.Pix}
}

// Validate checks the buffer invariant: positive dimensions and a pixel
// slice of exactly 4*Width*Height bytes.
func (b *PixelBuffer) Validate() error {
	if b == nil || len(b.Pix) == 0 {
		return ErrEmptyBuffer
	}
	if b.Width <= 0 || b.Height <= 0 {
		return fmt.Errorf("%w: %dx%d", ErrInvalidDimensions, b.Width, b.Height)
	}
	if expected := b.Width * b.Height * bytesPerPixel; len(b.Pix) != expected {
		return fmt.Errorf("%w: expected %d bytes for %dx%d RGBA, got %d",
			ErrBufferSizeMismatch, expected, b.Width, b.Height, len(b.Pix))
	}
	return nil
}

// Dims returns the buffer dimensions.
func (b *PixelBuffer) Dims() Dimensions {
	return Dimensions{Width: b.Width, Height: b.Height}
}

// Clone returns a deep copy of the buffer.
func (b *PixelBuffer) Clone() *PixelBuffer {
	pix := make([]byte, len(b.Pix))
	copy(pix, b.Pix)
	return &PixelBuffer{Width: b.Width, Height: b.Height, Pix: pix}
}

// toNRGBA wraps the buffer in an *image.NRGBA without copying pixel data.
// Mutating the returned image mutates the buffer.
func (b *PixelBuffer) toNRGBA() *image.NRGBA {
	return &image.NRGBA{
		Pix:    b.Pix,
		Stride: b.Width * bytesPerPixel,
		Rect:   image.Rect(0, 0, b.Width, b.Height),
	}
}

// EncodePNG serializes the buffer to PNG, the lossless format used for all
// pipeline output. The NRGBA encode path writes channel bytes verbatim, so
// fully transparent pixels keep their RGB values in the output artifact.
func EncodePNG(b *PixelBuffer) ([]byte, error) {
	if err := b.Validate(); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, b.toNRGBA()); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEncodeFailed, err)
	}
	return buf.Bytes(), nil
}
