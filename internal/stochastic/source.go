package stochastic

import "math/rand/v2"

// Source yields uniform draws in [0, 1).
type Source interface {
	Float64() float64
}

// NewSource returns a deterministic PCG source for the given seed.
func NewSource(seed uint64) Source {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// NewRandomSource returns a fresh, non-deterministically seeded source.
func NewRandomSource() Source {
	return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
}

// Sequence replays a fixed list of draws, wrapping around at the end.
type Sequence struct {
	draws []float64
	next  int
}

func NewSequence(draws ...float64) *Sequence {
	return &Sequence{draws: draws}
}

func (s *Sequence) Float64() float64 {
	if len(s.draws) == 0 {
		return 0
	}
	u := s.draws[s.next%len(s.draws)]
	s.next++
	return u
}
