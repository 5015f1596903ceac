package tendril

import "math"

// State is a segment's lifecycle state. Finished is terminal.
type State uint8

const (
	Growing  State = iota // advancing one step per frame
	Finished              // geometry frozen; children and decorations still step
)

func (s State) String() string {
	if s == Finished {
		return "finished"
	}
	return "growing"
}

// segmentIDCounter is a plain counter (no atomic; tendril is single-threaded).
var segmentIDCounter uint32

func nextSegmentID() uint32 {
	segmentIDCounter++
	return segmentIDCounter
}

// SegmentSpec describes a segment to create.
type SegmentSpec struct {
	Pos       Vec2
	Angle     float64
	Lifetime  int
	Thickness float64
	Depth     int
	Role      Role
	// Orbit, when set, makes the segment trace the circle instead of
	// steering freely. Pos is projected onto it.
	Orbit *Circle
	// Avoid is a keep-out circle inherited by every descendant.
	Avoid *Circle
}

// Segment is one growing unit of a branch, root, or vine tree. A segment
// owns its children and decorations exclusively; nothing points back up the
// tree. Tip reporting goes through Frame.Finish.
type Segment struct {
	ID        uint32
	Role      Role
	Pos       Vec2
	Heading   float64
	BaseAngle float64
	Thickness float64
	Age       int
	Lifetime  int
	Depth     int

	state       State
	start       float64
	phase       float64
	fired       []bool
	orbit       *Circle
	orbitAngle  float64
	avoid       *Circle
	cfg         *GrowthConfig
	children    []*Segment
	decorations []*Decoration
}

// NewSegment creates a root segment using cfg, which is normalized in place.
// A non-positive lifetime or negative thickness yields a segment that is
// already Finished: it never draws, spawns, or reports a tip.
func NewSegment(cfg *GrowthConfig, spec SegmentSpec, src Source) *Segment {
	cfg.Normalize()
	return newSegment(cfg, spec, src)
}

func newSegment(cfg *GrowthConfig, spec SegmentSpec, src Source) *Segment {
	s := &Segment{
		ID:        nextSegmentID(),
		Role:      spec.Role,
		Pos:       spec.Pos,
		Heading:   spec.Angle,
		BaseAngle: spec.Angle,
		Lifetime:  spec.Lifetime,
		Depth:     max(spec.Depth, 0),
		start:     spec.Thickness,
		fired:     make([]bool, len(cfg.Triggers)),
		avoid:     spec.Avoid,
		cfg:       cfg,
	}
	s.Thickness = math.Max(cfg.MinThickness, spec.Thickness)
	if src != nil {
		s.phase = src.Float64() * 10
	}
	if spec.Orbit != nil && spec.Orbit.R > 0 {
		o := *spec.Orbit
		s.orbit = &o
		s.orbitAngle = spec.Angle
		s.Pos = Vec2{o.X, o.Y}.Add(Polar(spec.Angle, o.R))
		s.Heading = spec.Angle + math.Pi/2
	}
	if spec.Lifetime <= 0 || spec.Thickness < 0 || (spec.Orbit != nil && spec.Orbit.R <= 0) {
		s.state = Finished
	}
	return s
}

// State returns the lifecycle state.
func (s *Segment) State() State { return s.state }

// Finished reports whether the segment has stopped growing.
func (s *Segment) Finished() bool { return s.state == Finished }

// Children returns the live children. The returned slice MUST NOT be mutated.
func (s *Segment) Children() []*Segment { return s.children }

// Decorations returns the decorations the segment still owns. The returned
// slice MUST NOT be mutated.
func (s *Segment) Decorations() []*Decoration { return s.decorations }

// Config returns the growth config shared by the segment's tree.
func (s *Segment) Config() *GrowthConfig { return s.cfg }

// Live reports whether s or any descendant is still growing.
func (s *Segment) Live() bool {
	if s.state == Growing {
		return true
	}
	for _, c := range s.children {
		if c.Live() {
			return true
		}
	}
	return false
}

// Walk calls fn for s and every descendant, parent before children.
func (s *Segment) Walk(fn func(*Segment)) {
	fn(s)
	for _, c := range s.children {
		c.Walk(fn)
	}
}

// Step advances the segment by one frame. While growing it tapers, draws
// its extension, moves, steers, ages, and evaluates branching and leaf
// rules, in that order. It then steps its own decorations, steps every
// child, and prunes finished childless children. A finished segment only
// does the last three.
func (s *Segment) Step(f *Frame) {
	f.Stats.segment(s)
	if s.state == Growing {
		s.grow(f)
	}
	for _, d := range s.decorations {
		d.Step(f)
	}
	for _, c := range s.children {
		c.Step(f)
	}
	s.prune(f)
}

func (s *Segment) grow(f *Frame) {
	cfg := s.cfg
	progress := float64(s.Age) / float64(s.Lifetime)
	s.Thickness = math.Min(s.Thickness, math.Max(cfg.MinThickness, s.start*(1-progress)))

	next := s.advance(f)
	s.draw(f, next)
	s.Pos = next
	if s.orbit == nil {
		s.steer()
	}
	s.Age++

	src := f.source()
	s.branch(f, src)
	s.spawnLeaves(src)

	if s.Age >= s.Lifetime {
		s.finish(f)
	}
}

// advance returns the next position without committing it.
func (s *Segment) advance(f *Frame) Vec2 {
	step := s.cfg.StepSize
	if s.orbit == nil {
		return s.Pos.Add(Polar(s.Heading, step))
	}
	o := s.orbit
	jitter := 0.9 + f.source().Float64()*0.2
	s.orbitAngle += step / o.R * jitter
	s.Heading = s.orbitAngle + math.Pi/2
	return Vec2{o.X, o.Y}.Add(Polar(s.orbitAngle, o.R))
}

func (s *Segment) draw(f *Frame, next Vec2) {
	if f.Surface == nil {
		return
	}
	cfg := s.cfg
	col := cfg.color(s.Depth)
	if s.orbit == nil && cfg.Gradient == nil && s.Thickness > cfg.DiscThreshold {
		f.Surface.FillCircle(s.Pos.X, s.Pos.Y, s.Thickness*cfg.DiscScale, col)
		f.Stats.drawCall()
		return
	}

	width := s.Thickness * cfg.LineWidthScale
	if cfg.Pulse.Amplitude != 0 {
		width *= 1 + cfg.Pulse.Amplitude*math.Sin(float64(s.Age)*cfg.Pulse.Rate)
	}
	paint := SolidPaint(col)
	if g := cfg.Gradient; g != nil {
		paint = Paint{Color: g.From, Gradient: true, To: g.To, Length: g.Length}
	}
	f.Surface.StrokeLine(s.Pos.X, s.Pos.Y, next.X, next.Y, width, paint)
	f.Stats.drawCall()
}

// steer recomputes the heading from the base angle. Inside the keep-out
// circle the base angle itself is bent away, so the turn persists.
func (s *Segment) steer() {
	st := &s.cfg.Steering
	if s.avoid != nil && s.avoid.Contains(s.Pos, st.AvoidMargin) {
		away := math.Atan2(s.Pos.Y-s.avoid.Y, s.Pos.X-s.avoid.X)
		s.BaseAngle = s.BaseAngle*(1-st.AvoidBlend) + away*st.AvoidBlend
	}

	base := s.BaseAngle
	outward := 0.0
	if s.Depth > 0 {
		sign := -1.0
		if base > 0 {
			sign = 1
		}
		outward = float64(s.Depth-1) * st.OutwardBias * sign
	}
	upright := (math.Pi/2 - math.Abs(base)) * st.UprightBias
	sway := 0.0
	if st.SwayAmplitude != 0 && s.cfg.osc != nil {
		sway = st.SwayAmplitude * s.cfg.osc.Value(s.phase)
	}
	s.phase += st.SwayRate
	s.Heading = base + outward + upright + sway
}

func (s *Segment) branch(f *Frame, src Source) {
	if s.Depth >= s.cfg.DepthCap {
		return
	}
	for i := range s.cfg.Triggers {
		if s.fired[i] {
			continue
		}
		t := &s.cfg.Triggers[i]
		if !t.appliesTo(s) || s.Age < t.at(s.Lifetime) {
			continue
		}
		s.fired[i] = true
		for _, spec := range t.plan(s, src) {
			s.children = append(s.children, newSegment(s.cfg, spec, src))
			f.Stats.spawn()
		}
	}
}

func (s *Segment) spawnLeaves(src Source) {
	lr := &s.cfg.Leaves
	if !lr.bears(s) || src.Float64() >= lr.Chance {
		return
	}
	col := lr.Colors[int(src.Float64()*float64(len(lr.Colors)))%len(lr.Colors)]
	angle := s.Heading + (src.Float64()-0.5)*lr.Jitter
	s.decorations = append(s.decorations, newLeaf(s.Pos, angle, col, &lr.Style, src))
	if lr.Paired {
		s.decorations = append(s.decorations, newLeaf(s.Pos, angle+math.Pi, col, &lr.Style, src))
	}
}

// finish runs the FINISHED edge effects exactly once.
func (s *Segment) finish(f *Frame) {
	s.state = Finished
	tip := &s.cfg.Tip
	switch {
	case s.Role.Tagged() && tip.Bubble.Radius > 0:
		s.decorations = append(s.decorations, newBubble(s.Pos.Add(tip.Bubble.Offset), s.Role, &tip.Bubble))
	case !s.Role.Tagged() && tip.Leaf:
		lr := &s.cfg.Leaves
		s.decorations = append(s.decorations, newLeaf(s.Pos, s.Heading, lr.Colors[0], &lr.Style, f.source()))
	}
	if f.Finish != nil {
		f.Finish(s)
	}
}

// prune drops finished children with no children of their own. Their
// decorations are handed to Frame.Release so they keep animating; without a
// Release hook such a child is kept until it has no decorations.
func (s *Segment) prune(f *Frame) {
	kept := s.children[:0]
	for _, c := range s.children {
		if c.state != Finished || len(c.children) > 0 || (len(c.decorations) > 0 && f.Release == nil) {
			kept = append(kept, c)
			continue
		}
		for _, d := range c.decorations {
			f.Release(d)
		}
		c.decorations = nil
		f.Stats.prune()
	}
	for i := len(kept); i < len(s.children); i++ {
		s.children[i] = nil
	}
	s.children = kept
}
