package testutil

import (
	"fmt"
	"sync"
)

// FixedRunIDGenerator returns run IDs from a fixed sequence:
// "<prefix>-0001", "<prefix>-0002", ...
//
// This enables deterministic store contents and golden snapshot comparison.
// Thread-safety: Generate is safe for concurrent use.
type FixedRunIDGenerator struct {
	mu     sync.Mutex
	prefix string
	next   int
}

// NewFixedRunIDGenerator creates a generator. If prefix is empty, "test-run"
// is used.
func NewFixedRunIDGenerator(prefix string) *FixedRunIDGenerator {
	if prefix == "" {
		prefix = "test-run"
	}
	return &FixedRunIDGenerator{prefix: prefix, next: 1}
}

// Generate returns the next run ID.
//
// Implements store.RunIDGenerator.
func (g *FixedRunIDGenerator) Generate() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	id := fmt.Sprintf("%s-%04d", g.prefix, g.next)
	g.next++
	return id
}
