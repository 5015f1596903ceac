package tendril

// Frame is the per-frame context passed down a segment tree. The driver
// builds one per frame; code stepping segments by hand can build its own.
type Frame struct {
	// Index is the number of frames the owner has run, starting at 1.
	Index uint64
	// Surface receives draw calls. Nil steps geometry without drawing.
	Surface Surface
	// Rand feeds every random decision. Nil behaves as a constant 0.5.
	Rand Source
	// Icons resolves bubble icons by role name. May be nil.
	Icons IconSource
	// Pointer is the hover position in logical coordinates, if any.
	Pointer *Vec2
	// HoldBubbles keeps bubbles hidden and unanimated while set.
	HoldBubbles bool

	// Finish is called once per segment on its FINISHED edge.
	Finish func(s *Segment)
	// Release receives the decorations of a pruned segment.
	Release func(d *Decoration)
	// PopIn reports how many frames d has been visible. When nil a
	// decoration counts its own steps.
	PopIn func(d *Decoration) int

	// Stats, when set, accumulates counters for this frame.
	Stats *FrameStats
}

// constSource returns the same value forever.
type constSource float64

func (c constSource) Float64() float64 { return float64(c) }

func (f *Frame) source() Source {
	if f.Rand == nil {
		return constSource(0.5)
	}
	return f.Rand
}
