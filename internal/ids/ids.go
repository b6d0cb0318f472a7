// Package ids provides injectable identifier generation.
package ids

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// Provider generates unique identifiers of the form "<prefix>:<suffix>".
type Provider interface {
	NewID(prefix string) string
}

// UUIDProvider generates collision-resistant random identifiers.
type UUIDProvider struct{}

// NewID returns prefix:uuid.
func (UUIDProvider) NewID(prefix string) string {
	return prefix + ":" + uuid.NewString()
}

// SequenceProvider generates monotonically increasing identifiers. It is
// deterministic, which makes it the provider of choice in tests.
type SequenceProvider struct {
	mu   sync.Mutex
	next uint64
}

// NewSequenceProvider returns a provider whose first id ends in 1.
func NewSequenceProvider() *SequenceProvider {
	return &SequenceProvider{}
}

// NewID returns prefix:n for the next n.
func (s *SequenceProvider) NewID(prefix string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.next++
	return fmt.Sprintf("%s:%d", prefix, s.next)
}
