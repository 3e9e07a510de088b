package imagegen

import "errors"

// Sentinel errors returned by the providers. Wrapped errors carry these as
// their base, so callers can test with errors.Is.
var (
	// ErrEmptyPrompt is returned when an edit or analysis is requested
	// with a blank prompt.
	ErrEmptyPrompt = errors.New("imagegen: prompt cannot be empty")

	// ErrEmptyImage is returned when the input image bytes are empty.
	ErrEmptyImage = errors.New("imagegen: image cannot be empty")

	// ErrNoImageData is returned when the API responds without usable
	// image content.
	ErrNoImageData = errors.New("imagegen: response contained no image data")

	// ErrLocalEndpoint is returned when the configured endpoint is a
	// local address, which cannot serve image edits.
	ErrLocalEndpoint = errors.New("imagegen: local endpoint does not support image editing")
)
