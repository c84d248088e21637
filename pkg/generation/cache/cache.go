package cache

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"ai-studyaid-be/pkg/generation"

	"github.com/cespare/xxhash/v2"
)

// entry wraps a cached result with its insertion time.
type entry struct {
	fingerprint uint64
	value       generation.Result
	insertedAt  time.Time
}

// ResponseCache is a TTL-bounded store of generation results keyed by content
// fingerprint. When the entry count exceeds capacity, the earliest-inserted
// entry is evicted regardless of read recency. Insertion-order eviction is the
// contract here, not true LRU.
type ResponseCache struct {
	mu       sync.Mutex
	entries  map[uint64]*entry
	order    []uint64 // fingerprints in insertion order
	ttl      time.Duration
	capacity int
	now      func() time.Time
}

func NewResponseCache(ttl time.Duration, capacity int) *ResponseCache {
	if ttl <= 0 {
		ttl = time.Hour
	}
	if capacity <= 0 {
		capacity = 100
	}
	return &ResponseCache{
		entries:  make(map[uint64]*entry),
		ttl:      ttl,
		capacity: capacity,
		now:      time.Now,
	}
}

// WithClock overrides the time source. Used by tests.
func (c *ResponseCache) WithClock(now func() time.Time) *ResponseCache {
	c.now = now
	return c
}

// Get returns the cached result for the fingerprint, if present and unexpired.
// An expired entry encountered here is evicted on the spot.
func (c *ResponseCache) Get(fingerprint uint64) (generation.Result, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[fingerprint]
	if !ok {
		return generation.Result{}, false
	}
	if c.now().Sub(e.insertedAt) >= c.ttl {
		c.remove(fingerprint)
		return generation.Result{}, false
	}
	return e.value, true
}

// Set inserts the result, evicting the oldest-inserted entry when the table
// grows past capacity.
func (c *ResponseCache) Set(fingerprint uint64, value generation.Result) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.entries[fingerprint]; exists {
		c.remove(fingerprint)
	}

	c.entries[fingerprint] = &entry{
		fingerprint: fingerprint,
		value:       value,
		insertedAt:  c.now(),
	}
	c.order = append(c.order, fingerprint)

	for len(c.entries) > c.capacity && len(c.order) > 0 {
		oldest := c.order[0]
		c.remove(oldest)
	}
}

// Len reports the current entry count.
func (c *ResponseCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// remove must be called with the mutex held.
func (c *ResponseCache) remove(fingerprint uint64) {
	delete(c.entries, fingerprint)
	for i, fp := range c.order {
		if fp == fingerprint {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
}

// Fingerprint computes a stable 64-bit digest over the operation kind, the
// whitespace-normalized input and the normalized parameters.
func Fingerprint(kind generation.OperationKind, req *generation.Request, normalized generation.Parameters) uint64 {
	h := xxhash.New()
	_, _ = h.WriteString(string(kind))
	_, _ = h.WriteString("\x00")
	_, _ = h.WriteString(normalizeWhitespace(req.Text))
	_, _ = h.WriteString("\x00")
	_, _ = h.WriteString(req.ImageRef)
	_, _ = h.WriteString("\x00")
	_, _ = h.WriteString(req.ContextRefs.SessionId.String())
	_, _ = h.WriteString("\x00")
	_, _ = h.WriteString(req.ContextRefs.ImageId.String())
	_, _ = h.WriteString("\x00")
	_, _ = h.WriteString(fmt.Sprintf("%d|%.3f|%.3f", normalized.MaxTokens, normalized.Temperature, normalized.TopP))
	return h.Sum64()
}

func normalizeWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
