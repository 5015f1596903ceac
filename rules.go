package tendril

import "math"

// RoleKind tags a segment for spawn and rendering rules. The zero value is
// an untagged segment.
type RoleKind string

const (
	RoleNone            RoleKind = ""
	RoleTrunk           RoleKind = "trunk"
	RoleEducation       RoleKind = "education"
	RoleEducationDetail RoleKind = "education-detail"
	RoleSkill           RoleKind = "skill"
	RoleSubSkill        RoleKind = "subskill"
)

// Role identifies a tagged segment. It is comparable and used as the key
// for at-most-once tip callbacks.
type Role struct {
	Kind  RoleKind `yaml:"kind"`
	Index int      `yaml:"index"`
	Name  string   `yaml:"name"`
}

// Tagged reports whether r carries a role.
func (r Role) Tagged() bool { return r.Kind != RoleNone }

// GrowthConfig holds the tunable constants for one family of segments.
// Children share their parent's config.
type GrowthConfig struct {
	StepSize       float64   `yaml:"step_size"`
	MinThickness   float64   `yaml:"min_thickness"`
	DiscThreshold  float64   `yaml:"disc_threshold"`
	DiscScale      float64   `yaml:"disc_scale"`
	LineWidthScale float64   `yaml:"line_width_scale"`
	Palette        []Color   `yaml:"palette"`
	Gradient       *Stroke   `yaml:"gradient,omitempty"`
	Pulse          Pulse     `yaml:"pulse"`
	Steering       Steering  `yaml:"steering"`
	DepthCap       int       `yaml:"depth_cap"`
	Triggers       []Trigger `yaml:"triggers"`
	Leaves         LeafRule  `yaml:"leaves"`
	Tip            TipRule   `yaml:"tip"`

	osc Oscillator
}

// Stroke is a two-stop gradient laid along the heading for Length units.
type Stroke struct {
	From   Color   `yaml:"from"`
	To     Color   `yaml:"to"`
	Length float64 `yaml:"length"`
}

// Pulse modulates stroke width by 1 + Amplitude*sin(age*Rate). Visual only;
// Segment.Thickness is unaffected.
type Pulse struct {
	Amplitude float64 `yaml:"amplitude"`
	Rate      float64 `yaml:"rate"`
}

// Steering weights the heading blend. Heading is
// base + outward + upright + sway, where outward = (depth-1)*OutwardBias
// signed by the base angle, upright = (π/2 - |base|)*UprightBias and
// sway = SwayAmplitude*osc(phase). The phase advances by SwayRate per step.
type Steering struct {
	OutwardBias   float64 `yaml:"outward_bias"`
	UprightBias   float64 `yaml:"upright_bias"`
	SwayAmplitude float64 `yaml:"sway_amplitude"`
	SwayRate      float64 `yaml:"sway_rate"`
	Oscillator    string  `yaml:"oscillator"`
	// AvoidMargin extends the keep-out circle; inside it the base angle is
	// bent toward the away direction by AvoidBlend each step.
	AvoidMargin float64 `yaml:"avoid_margin"`
	AvoidBlend  float64 `yaml:"avoid_blend"`
}

// Trigger spawns children once, when a segment's age reaches Age (if set)
// or Fraction of its lifetime.
type Trigger struct {
	Fraction float64 `yaml:"fraction"`
	Age      int     `yaml:"age"`
	// Depths restricts the trigger to segments at these depths. Empty means
	// every depth below the cap.
	Depths []int `yaml:"depths"`
	// ForRole restricts the trigger to segments whose role name matches.
	ForRole string `yaml:"for_role"`

	// Explicit children, used for role-tagged layouts.
	Children []ChildSpec `yaml:"children"`

	// Random children, used when Children is empty.
	Count          IntRange `yaml:"count"`
	Spread         float64  `yaml:"spread"`
	Splay          Range    `yaml:"splay"`
	Angle          float64  `yaml:"angle"`
	LifetimeScale  Range    `yaml:"lifetime_scale"`
	ThicknessScale float64  `yaml:"thickness_scale"`
	MaxThickness   float64  `yaml:"max_thickness"`
}

// ChildSpec is one explicitly configured child.
type ChildSpec struct {
	Angle          float64 `yaml:"angle"`
	LifetimeScale  float64 `yaml:"lifetime_scale"`
	ThicknessScale float64 `yaml:"thickness_scale"`
	Role           Role    `yaml:"role"`
}

// LeafRule controls probabilistic leaf spawning on thin segments.
type LeafRule struct {
	Chance float64 `yaml:"chance"`
	// A segment is leaf-bearing when Thickness <= MaxThickness, or when
	// Depth >= MinDepth and Thickness <= DepthMaxThickness.
	MaxThickness      float64   `yaml:"max_thickness"`
	MinDepth          int       `yaml:"min_depth"`
	DepthMaxThickness float64   `yaml:"depth_max_thickness"`
	Paired            bool      `yaml:"paired"`
	Jitter            float64   `yaml:"jitter"`
	Colors            []Color   `yaml:"colors"`
	Style             LeafStyle `yaml:"style"`
}

// LeafStyle selects leaf geometry and growth curve.
type LeafStyle struct {
	// Shape is "quad" (two quadratic arcs) or "vine" (two cubic arcs with a
	// shifted point).
	Shape     string  `yaml:"shape"`
	Width     Range   `yaml:"width"`
	Height    Range   `yaml:"height"`
	PopFrames Range   `yaml:"pop_frames"`
	Scale     Range   `yaml:"scale"`
	Shift     Range   `yaml:"shift"`
	GrowRate  float64 `yaml:"grow_rate"`
}

// TipRule controls the decoration emitted on the FINISHED edge.
type TipRule struct {
	Bubble BubbleStyle `yaml:"bubble"`
	// Leaf emits one leaf at the tip of untagged segments.
	Leaf bool `yaml:"leaf"`
}

// BubbleStyle is the look of a role bubble.
type BubbleStyle struct {
	Radius     float64 `yaml:"radius"`
	Offset     Vec2    `yaml:"offset"`
	Fill       Color   `yaml:"fill"`
	Edge       Color   `yaml:"edge"`
	EdgeWidth  float64 `yaml:"edge_width"`
	PopFrames  float64 `yaml:"pop_frames"`
	HoverScale float64 `yaml:"hover_scale"`
	IconScale  float64 `yaml:"icon_scale"`
}

// Normalize fills zero fields with the defaults the presets were tuned
// against. It is idempotent.
func (c *GrowthConfig) Normalize() {
	if c.StepSize <= 0 {
		c.StepSize = 3.5
	}
	if c.MinThickness <= 0 {
		c.MinThickness = 1
	}
	if c.DiscThreshold == 0 {
		c.DiscThreshold = 2
	}
	if c.DiscScale <= 0 {
		c.DiscScale = 1
	}
	if c.LineWidthScale <= 0 {
		c.LineWidthScale = 1.2
	}
	if len(c.Palette) == 0 {
		c.Palette = []Color{Hex("#3B2F2F")}
	}
	if c.DepthCap <= 0 {
		c.DepthCap = 2
	}
	if c.osc == nil {
		c.osc = NewOscillator(c.Steering.Oscillator, 1)
	}
	if c.Steering.AvoidBlend <= 0 {
		c.Steering.AvoidBlend = 0.2
	}
	if len(c.Leaves.Colors) == 0 {
		c.Leaves.Colors = []Color{Hex("#228B22")}
	}
	b := &c.Tip.Bubble
	if b.PopFrames <= 0 {
		b.PopFrames = 48
	}
	if b.HoverScale <= 0 {
		b.HoverScale = 1.15
	}
	if b.IconScale <= 0 {
		b.IconScale = 1.3
	}
	if b.EdgeWidth <= 0 {
		b.EdgeWidth = 2
	}
	if b.Fill == (Color{}) {
		b.Fill = Hex("#f5f5f5")
	}
	if b.Edge == (Color{}) {
		b.Edge = Color{R: 27.0 / 255, G: 16.0 / 255, B: 6.0 / 255, A: 0.4}
	}
}

// SetOscillator replaces the sway oscillator shared by every segment using c.
func (c *GrowthConfig) SetOscillator(o Oscillator) {
	c.osc = o
}

// color returns the palette entry for depth, clamped to the last entry.
func (c *GrowthConfig) color(depth int) Color {
	i := min(max(depth, 0), len(c.Palette)-1)
	return c.Palette[i]
}

// at returns the age at which t fires for a segment with the given lifetime.
func (t *Trigger) at(lifetime int) int {
	if t.Age > 0 {
		return t.Age
	}
	return max(1, int(math.Ceil(t.Fraction*float64(lifetime))))
}

// appliesTo reports whether t is eligible for s, ignoring age.
func (t *Trigger) appliesTo(s *Segment) bool {
	if t.ForRole != "" && t.ForRole != s.Role.Name {
		return false
	}
	if len(t.Depths) == 0 {
		return true
	}
	for _, d := range t.Depths {
		if d == s.Depth {
			return true
		}
	}
	return false
}

// plan returns the children t spawns from parent. It does not mutate parent.
func (t *Trigger) plan(parent *Segment, src Source) []SegmentSpec {
	base := SegmentSpec{
		Pos:   parent.Pos,
		Depth: parent.Depth + 1,
		Avoid: parent.avoid,
	}
	if len(t.Children) > 0 {
		specs := make([]SegmentSpec, 0, len(t.Children))
		for _, c := range t.Children {
			s := base
			s.Angle = parent.BaseAngle + c.Angle
			s.Lifetime = scaleLifetime(parent.Lifetime, c.LifetimeScale)
			s.Thickness = t.capThickness(parent.Thickness * c.ThicknessScale)
			s.Role = c.Role
			specs = append(specs, s)
		}
		return specs
	}

	n := t.Count.Random(src)
	specs := make([]SegmentSpec, 0, max(n, 0))
	for i := 0; i < n; i++ {
		s := base
		offset := t.Angle + (src.Float64()-0.5)*t.Spread
		if t.Splay.Max > 0 {
			side := 1.0
			if src.Float64() < 0.5 {
				side = -1
			}
			offset += side * t.Splay.Random(src)
		}
		s.Angle = parent.BaseAngle + offset
		s.Lifetime = scaleLifetime(parent.Lifetime, t.LifetimeScale.Random(src))
		s.Thickness = t.capThickness(parent.Thickness * t.ThicknessScale)
		specs = append(specs, s)
	}
	return specs
}

func (t *Trigger) capThickness(v float64) float64 {
	if t.MaxThickness > 0 && v > t.MaxThickness {
		return t.MaxThickness
	}
	return v
}

func scaleLifetime(lifetime int, scale float64) int {
	return int(math.Round(float64(lifetime) * scale))
}

// bears reports whether the rule makes s leaf-bearing at its current
// thickness.
func (r *LeafRule) bears(s *Segment) bool {
	if r.Chance <= 0 {
		return false
	}
	if s.Thickness <= r.MaxThickness {
		return true
	}
	return r.DepthMaxThickness > 0 && s.Depth >= r.MinDepth && s.Thickness <= r.DepthMaxThickness
}
