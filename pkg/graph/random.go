package graph

import (
	"math/rand/v2"
	"sync"
)

// lockedSource serialises access to a rand.Source so that a graph whose sampling tables
// were prebuilt can be drawn from by several goroutines.
type lockedSource struct {
	mu  sync.Mutex
	src rand.Source
}

func (s *lockedSource) Uint64() uint64 {
	s.mu.Lock()
	v := s.src.Uint64()
	s.mu.Unlock()
	return v
}

// newLockedSource wraps src, or a freshly seeded PCG source when src is nil.
// A source that is already locked is shared as is.
func newLockedSource(src rand.Source) *lockedSource {
	if ls, ok := src.(*lockedSource); ok {
		return ls
	}
	if src == nil {
		src = rand.NewPCG(rand.Uint64(), rand.Uint64())
	}
	return &lockedSource{src: src}
}
