// Package fingerprint computes and tracks the deterministic identifiers
// attached to every finding.
//
// A Registry is owned by the driver and passed by reference into each
// checker at construction time rather than kept as a package-level global,
// so tests can reset it between runs.
package fingerprint

import (
	"fmt"
	"sync"

	"github.com/cespare/xxhash/v2"
)

// Registry assigns fingerprints and breaks collisions by incrementing the
// low byte (with carry) until the result is unique within the registry's
// lifetime.
type Registry struct {
	mu   sync.Mutex
	seen map[string]bool
}

// NewRegistry returns an empty fingerprint registry.
func NewRegistry() *Registry {
	return &Registry{seen: make(map[string]bool)}
}

// Reset clears all previously assigned fingerprints. Call at driver exit,
// or between test cases that must not observe each other's collisions.
func (r *Registry) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seen = make(map[string]bool)
}

// Assign returns a 16-hex-digit fingerprint for the given (path, line,
// checkName, description) tuple. Identical tuples always hash to the same
// starting point; if that fingerprint was already handed out, the low byte
// is incremented (with carry) until a free one is found.
func (r *Registry) Assign(path string, line int, checkName, description string) string {
	key := fmt.Sprintf("%s\x00%d\x00%s\x00%s", path, line, checkName, description)
	sum := xxhash.Sum64String(key)

	r.mu.Lock()
	defer r.mu.Unlock()
	for {
		fp := fmt.Sprintf("%016x", sum)
		if !r.seen[fp] {
			r.seen[fp] = true
			return fp
		}
		sum++ // increment the low byte, carrying into higher bytes as needed
	}
}
