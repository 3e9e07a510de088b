// Package orchestrator coordinates one generation cycle: it accepts a
// source image, calls the external edit service, runs the pixel
// post-processing, and records successful results in the history cache.
//
// state.go defines the application state enum and the read-only snapshot.
package orchestrator

import (
	"greenroom/pixels"
)

// State is the generation state machine position. Exactly one state is
// active at a time.
type State int

const (
	// StateIdle means a source may be selected or a generation started.
	StateIdle State = iota
	// StateProcessing means an edit call is in flight.
	StateProcessing
	// StateSuccess means the last generation completed and its result is
	// the current generated image.
	StateSuccess
	// StateError means the last generation failed; ErrMessage explains why.
	StateError
)

// String returns the state name for logs and display.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateProcessing:
		return "processing"
	case StateSuccess:
		return "success"
	case StateError:
		return "error"
	default:
		return "unknown"
	}
}

// Snapshot is a point-in-time copy of the application state. Byte slices
// are copied, so holders never alias the orchestrator's internals.
type Snapshot struct {
	State      State
	Source     []byte
	SourceMIME string
	SourceDims pixels.Dimensions
	Generated  []byte
	ErrMessage string
	Analysis   string
}

// HasSource reports whether a source image is currently selected.
func (s Snapshot) HasSource() bool {
	return len(s.Source) > 0
}
