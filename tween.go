package tendril

import (
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// popTween plays a chain of gween tweens back to back and tracks the
// current value. Time is measured in frames; call Update(1) once per frame.
//
// Each decoration owns its tween; there is no global animation manager.
type popTween struct {
	tweens []*gween.Tween
	cur    int
	value  float64
	Done   bool
}

// newPopTween overshoots from → peak over the first 40% of frames, then
// settles peak → to over the rest.
func newPopTween(from, peak, to, frames float64) *popTween {
	frames = max(frames, 2)
	rise := frames * 0.4
	return &popTween{
		tweens: []*gween.Tween{
			gween.New(float32(from), float32(peak), float32(rise), ease.OutQuad),
			gween.New(float32(peak), float32(to), float32(frames-rise), ease.InOutQuad),
		},
		value: from,
	}
}

// newGrowTween moves linearly from → to over frames.
func newGrowTween(from, to, frames float64) *popTween {
	return &popTween{
		tweens: []*gween.Tween{gween.New(float32(from), float32(to), float32(max(frames, 1)), ease.Linear)},
		value:  from,
	}
}

// Update advances the active tween by dt frames and returns the new value.
// Once every tween has finished, Done is set and the value holds.
func (p *popTween) Update(dt float32) float64 {
	if p.Done {
		return p.value
	}
	val, finished := p.tweens[p.cur].Update(dt)
	p.value = float64(val)
	if finished {
		p.cur++
		if p.cur >= len(p.tweens) {
			p.Done = true
		}
	}
	return p.value
}

// easeOutBack overshoots past 1 before settling, for bubble pop-ins.
func easeOutBack(t float64) float64 {
	return float64(ease.OutBack(float32(clamp01(t)), 0, 1, 1))
}
