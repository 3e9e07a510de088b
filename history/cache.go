// Package history keeps a bounded, insertion-ordered record of past
// successful generations for quick recall.
package history

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// DefaultCapacity is the number of entries retained when no explicit
// capacity is configured.
const DefaultCapacity = 10

// Entry is an immutable record of one completed generation. Entries are
// copied in and out of the cache by value; callers never hold a reference
// into cache storage, so eviction cannot invalidate an entry a caller is
// still using.
type Entry struct {
	// ID uniquely identifies the entry for the lifetime of the cache.
	ID string

	// CreatedAt is when the generation completed.
	CreatedAt time.Time

	// Original is the encoded source image the user submitted.
	Original []byte

	// Generated is the encoded post-processed result with transparency.
	Generated []byte

	// Prompt is the edit prompt that produced the result.
	Prompt string

	// Thumbnail is a small preview; may equal Generated when thumbnail
	// derivation was skipped or failed.
	Thumbnail []byte
}

// Cache is a bounded most-recent-first sequence of entries. New entries are
// inserted at the front; once the capacity is exceeded the oldest entry is
// dropped. Safe for concurrent use.
type Cache struct {
	mu       sync.Mutex
	capacity int
	entries  []Entry
}

// NewCache creates a cache with the given capacity.
// Non-positive capacities fall back to DefaultCapacity.
func NewCache(capacity int) *Cache {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Cache{capacity: capacity}
}

// Push inserts the entry at the front and evicts the back entry if the
// cache would exceed its capacity. Push never fails.
//
// A missing ID is assigned a fresh UUID and a zero CreatedAt is stamped
// with the current time. The assigned ID is returned.
func (c *Cache) Push(e Entry) string {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now()
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = append([]Entry{e}, c.entries...)
	if len(c.entries) > c.capacity {
		c.entries = c.entries[:c.capacity]
	}
	return e.ID
}

// List returns a fresh snapshot of the entries, most recent first.
// The returned slice is independent of cache storage.
func (c *Cache) List() []Entry {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]Entry, len(c.entries))
	copy(out, c.entries)
	return out
}

// Select returns the entry with the given ID. The second return value is
// false when no entry matches; an unknown ID is not an error.
func (c *Cache) Select(id string) (Entry, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, e := range c.entries {
		if e.ID == id {
			return e, true
		}
	}
	return Entry{}, false
}

// Len returns the current number of entries.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Capacity returns the maximum number of entries retained.
func (c *Cache) Capacity() int {
	return c.capacity
}
