package core

import (
	"github.com/google/uuid"
)

// NewCorrelationID returns a fresh identifier for tracing one generation
// attempt across log entries and persisted records.
func NewCorrelationID() string {
	return uuid.NewString()
}
