package tendril

import (
	"math"
	"math/rand/v2"
)

// Source is the pseudo-random stream the engine draws from. It is injected
// per driver so tests can supply a fixed sequence and assert exact geometry.
// *rand.Rand from math/rand/v2 satisfies Source.
type Source interface {
	// Float64 returns a value in [0, 1).
	Float64() float64
}

// SineSource is the sine-hash sequence used to make growth look the same on
// every run: x = sin(seed++) * 10000, returning the fractional part of x.
type SineSource struct {
	seed float64
}

// NewSineSource returns a SineSource starting at seed.
func NewSineSource(seed int) *SineSource {
	return &SineSource{seed: float64(seed)}
}

// Float64 implements Source.
func (s *SineSource) Float64() float64 {
	x := math.Sin(s.seed) * 10000
	s.seed++
	f := x - math.Floor(x)
	if f >= 1 {
		// float rounding on huge negatives can land exactly on 1
		return 0
	}
	return f
}

// NewSource returns a PCG-backed Source. A zero seed still yields a valid
// stream.
func NewSource(seed uint64) Source {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// SequenceSource replays a fixed list of values, cycling when exhausted.
// Intended for tests and reproducible demos.
type SequenceSource struct {
	values []float64
	next   int
}

// NewSequenceSource returns a Source that yields values in order. An empty
// list yields 0 forever.
func NewSequenceSource(values ...float64) *SequenceSource {
	return &SequenceSource{values: values}
}

// Float64 implements Source.
func (s *SequenceSource) Float64() float64 {
	if len(s.values) == 0 {
		return 0
	}
	v := s.values[s.next%len(s.values)]
	s.next++
	return v
}
