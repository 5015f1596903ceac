package tendril

import (
	"image"
	"math"
)

// DecorationKind distinguishes decoration geometry and animation.
type DecorationKind uint8

const (
	KindLeaf   DecorationKind = iota // leaf shape that pops or grows in
	KindBubble                       // role bubble with optional icon
	KindLabel                        // text label
)

func (k DecorationKind) String() string {
	switch k {
	case KindBubble:
		return "bubble"
	case KindLabel:
		return "label"
	default:
		return "leaf"
	}
}

// decorationIDCounter is a plain counter (no atomic; tendril is single-threaded).
var decorationIDCounter uint32

func nextDecorationID() uint32 {
	decorationIDCounter++
	return decorationIDCounter
}

const (
	defaultGrowRate = 0.03
	hoverEasing     = 0.1
	labelPopFrames  = 30
)

// Decoration is a non-structural visual attached at a point: a leaf, a role
// bubble, or a label. It animates independently of the segment that spawned
// it and never touches segment state.
type Decoration struct {
	ID    uint32
	Kind  DecorationKind
	Pos   Vec2
	Angle float64
	// Size is the final size: leaf scale, bubble radius, or label height.
	Size  float64
	Color Color
	Role  Role
	Text  string

	frames   float64
	age      int
	progress float64
	scale    float64
	tween    *popTween
	shape    Shape
	bubble   *BubbleStyle
	hover    float64
	label    *image.RGBA
}

// Progress returns growth progress in [0, 1]. It never decreases.
func (d *Decoration) Progress() float64 { return d.progress }

// Scale returns the size multiplier drawn on the last step.
func (d *Decoration) Scale() float64 { return d.scale }

// Done reports whether the growth animation has completed.
func (d *Decoration) Done() bool { return d.progress >= 1 }

func newLeaf(pos Vec2, angle float64, col Color, st *LeafStyle, src Source) *Decoration {
	d := &Decoration{
		ID:    nextDecorationID(),
		Kind:  KindLeaf,
		Pos:   pos,
		Angle: angle,
		Color: col,
	}
	if st.Shape == "vine" {
		scale := orRange(st.Scale, Range{0.7, 1.2}).Random(src)
		shift := orRange(st.Shift, Range{-20, 20}).Random(src)
		rate := st.GrowRate
		if rate <= 0 {
			rate = defaultGrowRate
		}
		d.shape = vineLeafShape(shift)
		d.Size = scale
		d.frames = math.Max(1, math.Ceil((scale-0.1)/rate))
		d.tween = newGrowTween(0.1, scale, d.frames)
		d.scale = 0.1
		return d
	}
	w := orRange(st.Width, Range{15, 21}).Random(src)
	h := orRange(st.Height, Range{30, 40}).Random(src)
	d.shape = quadLeafShape(w, h)
	d.Size = 1
	d.frames = math.Max(2, orRange(st.PopFrames, Range{25, 35}).Random(src))
	d.tween = newPopTween(0.9, 1.15, 1, d.frames)
	d.scale = 0.9
	return d
}

func newBubble(pos Vec2, role Role, st *BubbleStyle) *Decoration {
	return &Decoration{
		ID:     nextDecorationID(),
		Kind:   KindBubble,
		Pos:    pos,
		Size:   st.Radius,
		Color:  st.Fill,
		Role:   role,
		frames: math.Max(1, st.PopFrames),
		bubble: st,
	}
}

// NewLabel creates a text label decoration anchored at pos.
func NewLabel(pos Vec2, text string, col Color, role Role) *Decoration {
	return &Decoration{
		ID:     nextDecorationID(),
		Kind:   KindLabel,
		Pos:    pos,
		Size:   labelLineHeight,
		Color:  col,
		Role:   role,
		Text:   text,
		frames: labelPopFrames,
	}
}

func orRange(r, def Range) Range {
	if r == (Range{}) {
		return def
	}
	return r
}

// Step advances the decoration one frame and draws it.
func (d *Decoration) Step(f *Frame) {
	switch d.Kind {
	case KindBubble:
		d.stepBubble(f)
	case KindLabel:
		d.stepLabel(f)
	default:
		d.stepLeaf(f)
	}
}

func (d *Decoration) stepLeaf(f *Frame) {
	if f.Surface != nil {
		f.Surface.FillShape(d.shape, Placement{X: d.Pos.X, Y: d.Pos.Y, Rotation: d.Angle, Scale: d.scale}, d.Color)
		f.Stats.drawCall()
	}
	if d.progress < 1 {
		d.scale = d.tween.Update(1)
		d.age++
		d.progress = clamp01(float64(d.age) / d.frames)
		if d.tween.Done {
			d.progress = 1
		}
	}
}

// elapsed returns the visible-frame count used for pop-in curves.
func (d *Decoration) elapsed(f *Frame) int {
	if f.PopIn != nil {
		return f.PopIn(d)
	}
	n := d.age
	d.age++
	return n
}

func (d *Decoration) stepBubble(f *Frame) {
	if f.HoldBubbles {
		return
	}
	st := d.bubble
	d.progress = math.Max(d.progress, clamp01(float64(d.elapsed(f))/d.frames))

	target := 1.0
	if f.Pointer != nil && f.Pointer.Sub(d.Pos).Len() < d.Size {
		target = st.HoverScale
	}
	d.hover += (target - d.hover) * hoverEasing
	d.scale = easeOutBack(d.progress) * d.hover
	if f.Surface == nil || d.scale <= 0 {
		return
	}

	alpha := math.Min(d.progress*1.2, 1)
	r := d.Size * d.scale
	f.Surface.FillCircle(d.Pos.X, d.Pos.Y, r, st.Fill.WithAlpha(alpha))
	f.Surface.StrokeCircle(d.Pos.X, d.Pos.Y, r, st.EdgeWidth, st.Edge.WithAlpha(alpha))
	f.Stats.drawCall()
	f.Stats.drawCall()

	if f.Icons == nil {
		return
	}
	if img := f.Icons.Icon(d.Role.Name); img != nil {
		size := r * st.IconScale
		f.Surface.DrawImage(img, d.Pos.X-size/2, d.Pos.Y-size/2, size, size, alpha)
		f.Stats.drawCall()
	}
}

func (d *Decoration) stepLabel(f *Frame) {
	d.progress = math.Max(d.progress, clamp01(float64(d.elapsed(f))/d.frames))
	d.scale = easeOutBack(d.progress)
	if f.Surface == nil || d.scale <= 0 {
		return
	}
	alpha := math.Min(d.progress*1.2, 1)
	f.Surface.FillCircle(d.Pos.X, d.Pos.Y, 3*d.scale, d.Color.WithAlpha(alpha))
	f.Stats.drawCall()
	if d.label == nil {
		d.label = renderLabel(d.Text, d.Color)
	}
	if d.label == nil {
		return
	}
	b := d.label.Bounds()
	w := float64(b.Dx()) * d.scale
	h := float64(b.Dy()) * d.scale
	f.Surface.DrawImage(d.label, d.Pos.X+8, d.Pos.Y-h/2, w, h, alpha)
	f.Stats.drawCall()
}

// quadLeafShape is a pointed leaf from two quadratic arcs, w wide and h
// long, with its stem at the origin.
func quadLeafShape(w, h float64) Shape {
	return Shape{
		{Op: OpMoveTo, P: [3]Vec2{{0, 0}}},
		{Op: OpQuadTo, P: [3]Vec2{{w, 0}, {w, h}}},
		{Op: OpQuadTo, P: [3]Vec2{{0, h}, {0, 0}}},
	}
}

// vineLeafShape is a 50-unit leaf along +X whose tip is pushed by shift.
func vineLeafShape(shift float64) Shape {
	return Shape{
		{Op: OpMoveTo, P: [3]Vec2{{0, 0}}},
		{Op: OpCubicTo, P: [3]Vec2{{10, -15}, {40 + shift, -5 + shift/2}, {50 + shift, 0}}},
		{Op: OpCubicTo, P: [3]Vec2{{40 + shift, 10}, {10, 25}, {0, 0}}},
	}
}
