package memory

import (
	"context"
	"sync/atomic"
)

// Sequence is a process-local provider id generator. It is collision-free
// within one process; run a single replica or use the Redis sequence.
type Sequence struct {
	last atomic.Int64
}

// NewSequence creates a sequence whose first id is 1.
func NewSequence() *Sequence {
	return &Sequence{}
}

// Seed makes the next id greater than floor.
func (s *Sequence) Seed(_ context.Context, floor int64) error {
	for {
		cur := s.last.Load()
		if cur >= floor {
			return nil
		}
		if s.last.CompareAndSwap(cur, floor) {
			return nil
		}
	}
}

func (s *Sequence) NextProviderID(_ context.Context) (int64, error) {
	return s.last.Add(1), nil
}
