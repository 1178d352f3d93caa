// Package identity supplies the clock and unique-id capabilities the
// normalization layer depends on. Injecting them keeps migration
// deterministic under test; the surrounding application wires the real
// implementations.
package identity

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Source generates unique identifiers.
type Source interface {
	NextID() string
}

// Clock reports the current time.
type Clock interface {
	Now() time.Time
}

// UUIDSource is the production id generator.
type UUIDSource struct{}

// NextID returns a random UUID string.
func (UUIDSource) NextID() string {
	return uuid.NewString()
}

// SystemClock is the production clock.
type SystemClock struct{}

// Now returns the current local time.
func (SystemClock) Now() time.Time {
	return time.Now()
}

// Sequence is a deterministic Source for tests: prefix-1, prefix-2, ...
type Sequence struct {
	Prefix string
	n      int
}

// NextID returns the next sequential identifier.
func (s *Sequence) NextID() string {
	s.n++
	return fmt.Sprintf("%s-%d", s.Prefix, s.n)
}

// FixedClock is a deterministic Clock for tests.
type FixedClock struct {
	Time time.Time
}

// Now returns the fixed instant.
func (c FixedClock) Now() time.Time {
	return c.Time
}
