package analysis

import (
	"math/rand"
	"sync"
)

// RandSource yields uniform values in [0, 1)
type RandSource interface {
	Float64() float64
}

// LockedSource is a RandSource safe for concurrent use
type LockedSource struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewLockedSource creates a LockedSource seeded with seed
func NewLockedSource(seed int64) *LockedSource {
	return &LockedSource{rng: rand.New(rand.NewSource(seed))}
}

func (s *LockedSource) Float64() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.Float64()
}

// FixedSource always returns the same value
type FixedSource float64

func (f FixedSource) Float64() float64 { return float64(f) }

// SequenceSource replays values in order, wrapping around at the end
type SequenceSource struct {
	mu     sync.Mutex
	values []float64
	next   int
}

// NewSequenceSource creates a SequenceSource over values
func NewSequenceSource(values ...float64) *SequenceSource {
	return &SequenceSource{values: values}
}

func (s *SequenceSource) Float64() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.values) == 0 {
		return 0
	}
	v := s.values[s.next%len(s.values)]
	s.next++
	return v
}
