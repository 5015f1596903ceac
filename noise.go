package tendril

import (
	"math"

	"github.com/ojrac/opensimplex-go"
)

// Oscillator maps a segment's running sway phase to a value in [-1, 1].
// Each segment owns its phase; the oscillator is shared and stateless.
type Oscillator interface {
	Value(phase float64) float64
}

// SineOscillator is sin(phase).
type SineOscillator struct{}

// Value implements Oscillator.
func (SineOscillator) Value(phase float64) float64 { return math.Sin(phase) }

// SimplexOscillator samples 2D OpenSimplex noise along a fixed row, giving a
// smooth but non-periodic sway.
type SimplexOscillator struct {
	noise opensimplex.Noise
	row   float64
}

// NewSimplexOscillator returns a SimplexOscillator seeded with seed.
func NewSimplexOscillator(seed int64) *SimplexOscillator {
	return &SimplexOscillator{noise: opensimplex.New(seed), row: 0.5}
}

// Value implements Oscillator.
func (o *SimplexOscillator) Value(phase float64) float64 {
	v := o.noise.Eval2(phase, o.row)
	return math.Max(-1, math.Min(1, v))
}

// NewOscillator returns the oscillator named kind ("sine" or "simplex").
// Unknown kinds fall back to sine.
func NewOscillator(kind string, seed int64) Oscillator {
	if kind == "simplex" {
		return NewSimplexOscillator(seed)
	}
	return SineOscillator{}
}
