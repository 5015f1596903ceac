package tendril

import "math"

// Vec2 is a 2D vector used for positions, offsets, sizes, and directions
// throughout the API. Coordinates are logical (CSS-style) pixels; the
// surface applies the device pixel ratio.
type Vec2 struct {
	X, Y float64
}

// Add returns v + o.
func (v Vec2) Add(o Vec2) Vec2 { return Vec2{v.X + o.X, v.Y + o.Y} }

// Sub returns v - o.
func (v Vec2) Sub(o Vec2) Vec2 { return Vec2{v.X - o.X, v.Y - o.Y} }

// Len returns the Euclidean length of v.
func (v Vec2) Len() float64 { return math.Hypot(v.X, v.Y) }

// Polar returns the vector of length r pointing along angle (radians).
func Polar(angle, r float64) Vec2 {
	return Vec2{math.Cos(angle) * r, math.Sin(angle) * r}
}

// Circle is a center and radius. Used for keep-out regions and orbits.
type Circle struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
	R float64 `yaml:"r"`
}

// Contains reports whether p lies strictly inside the circle grown by margin.
// A circle with a negative radius contains nothing.
func (c Circle) Contains(p Vec2, margin float64) bool {
	if c.R < 0 {
		return false
	}
	return math.Hypot(p.X-c.X, p.Y-c.Y) < c.R+margin
}

// Range is a general-purpose min/max range.
type Range struct {
	Min float64 `yaml:"min"`
	Max float64 `yaml:"max"`
}

// Random returns a value in [Min, Max] drawn from src.
func (r Range) Random(src Source) float64 {
	if r.Min == r.Max {
		return r.Min
	}
	return r.Min + src.Float64()*(r.Max-r.Min)
}

// IntRange is an inclusive integer range.
type IntRange struct {
	Min int `yaml:"min"`
	Max int `yaml:"max"`
}

// Random returns an integer in [Min, Max] drawn from src, rounding the
// way the growth presets were tuned (Min + round(rand*(Max-Min))).
func (r IntRange) Random(src Source) int {
	if r.Max <= r.Min {
		return r.Min
	}
	return r.Min + int(math.Round(src.Float64()*float64(r.Max-r.Min)))
}

// Viewport is the logical size of a drawing surface plus its device pixel
// ratio. Physical pixel size is Width*PixelRatio by Height*PixelRatio.
type Viewport struct {
	Width      float64
	Height     float64
	PixelRatio float64
}

// Pixels returns the physical pixel dimensions, rounded down.
func (v Viewport) Pixels() (int, int) {
	ratio := v.ratio()
	return int(math.Floor(v.Width * ratio)), int(math.Floor(v.Height * ratio))
}

func (v Viewport) ratio() float64 {
	if v.PixelRatio <= 0 {
		return 1
	}
	return v.PixelRatio
}

// clamp01 clamps x to [0, 1].
func clamp01(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}
