// Package random provides the engine's seedable, snapshot-able randomness.
package random

import (
	"fmt"
	"math/rand/v2"
)

// Rand is the subset of randomness the simulation consumes.
type Rand interface {
	Float64() float64
	IntN(n int) int
}

// Source is a PCG-backed Rand whose internal state can be saved and restored,
// so a restored game replays the same rolls.
type Source struct {
	pcg *rand.PCG
	r   *rand.Rand
}

// New creates a Source seeded with seed.
func New(seed uint64) *Source {
	pcg := rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)
	return &Source{pcg: pcg, r: rand.New(pcg)}
}

func (s *Source) Float64() float64 { return s.r.Float64() }

// IntN returns a value in [0,n). n <= 0 yields 0.
func (s *Source) IntN(n int) int {
	if n <= 0 {
		return 0
	}
	return s.r.IntN(n)
}

// Between returns a value in [lo,hi].
func Between(r Rand, lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + r.IntN(hi-lo+1)
}

// State serialises the generator position.
func (s *Source) State() ([]byte, error) {
	b, err := s.pcg.MarshalBinary()
	if err != nil {
		return nil, fmt.Errorf("marshal rng state: %w", err)
	}
	return b, nil
}

// Restore rewinds the generator to a previously saved position.
func (s *Source) Restore(state []byte) error {
	if err := s.pcg.UnmarshalBinary(state); err != nil {
		return fmt.Errorf("restore rng state: %w", err)
	}
	return nil
}

// Fixed replays a list of floats, then repeats the last one. Handy in tests.
type Fixed struct {
	Floats []float64
	Ints   []int
	fi, ii int
}

func (f *Fixed) Float64() float64 {
	if len(f.Floats) == 0 {
		return 0
	}
	v := f.Floats[min(f.fi, len(f.Floats)-1)]
	f.fi++
	return v
}

func (f *Fixed) IntN(n int) int {
	if len(f.Ints) == 0 || n <= 0 {
		return 0
	}
	v := f.Ints[min(f.ii, len(f.Ints)-1)]
	f.ii++
	return v % n
}
