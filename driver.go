package tendril

import "time"

// DriverState is the driver lifecycle. Stopped is terminal.
type DriverState uint8

const (
	Running DriverState = iota
	Stopped
)

func (s DriverState) String() string {
	if s == Stopped {
		return "stopped"
	}
	return "running"
}

// Trunk is one root segment planted by the driver.
type Trunk struct {
	Position  Vec2
	Heading   float64
	Lifetime  int
	Thickness float64
	Role      Role
	// Growth overrides Options.Growth for this trunk's tree.
	Growth *GrowthConfig
	// Orbit makes the trunk trace a circle.
	Orbit *Circle
}

// Origin is the starting configuration of a scene.
type Origin struct {
	Trunks []Trunk
	// Avoid is a keep-out circle every segment steers around.
	Avoid *Circle
}

// RevealConfig stages detail labels after the education root finishes.
// Item i appears Delay*(i+1) after the tip, at tip+Offset+Spacing*i.
type RevealConfig struct {
	Items   []string
	Delay   time.Duration
	Offset  Vec2
	Spacing Vec2
	Color   Color
}

// TipEvent reports where a role-tagged segment finished.
type TipEvent struct {
	Role  Role
	Pos   Vec2
	Frame uint64
}

// Options configures a driver.
type Options struct {
	Growth GrowthConfig
	// Rand feeds every random decision. Nil seeds a PCG source from the
	// clock.
	Rand Source
	// OnTip is called at most once per role, after its segment finishes.
	OnTip func(TipEvent)
	// Clear repaints Background every frame. Otherwise strokes accumulate.
	Clear      bool
	Background Color
	// Regrow replants once every tree has been pruned. Each generation
	// starts from Replant's origin when it is set, otherwise from the
	// original origin again.
	Regrow  bool
	Replant func(v Viewport, src Source) Origin
	// HoldBubbles hides role bubbles until every tree stops growing.
	HoldBubbles bool
	Reveal      RevealConfig
	Icons       IconSource
	// Debug logs frame stats at debug level.
	Debug bool
}

// Driver animates the trees of one origin on one surface. Create it with
// Start; Stop is its cancellation handle.
type Driver struct {
	loop    *Loop
	surface Surface
	origin  Origin
	opts    Options
	src     Source
	growth  GrowthConfig

	state        DriverState
	frame        uint64
	frameID      uint64
	hasFrame     bool
	timers       map[uint64]struct{}
	removeResize func()

	roots     []*Segment
	orphans   []*Decoration
	endpoints []Vec2
	tipped    map[Role]bool
	// popIns records the frame each held bubble first became visible.
	popIns  map[uint32]uint64
	pointer *Vec2
	stats   FrameStats
}

// Start plants origin's trunks and begins animating on loop. With a nil
// loop or surface the returned driver is inert: it never draws, and Stop is
// still valid.
func Start(loop *Loop, surface Surface, origin Origin, opts Options) *Driver {
	d := &Driver{
		loop:    loop,
		surface: surface,
		origin:  origin,
		opts:    opts,
		src:     opts.Rand,
		growth:  opts.Growth,
		timers:  make(map[uint64]struct{}),
		tipped:  make(map[Role]bool),
		popIns:  make(map[uint32]uint64),
	}
	if loop == nil || surface == nil {
		Logger().Info("tendril: no surface, driver inert")
		d.state = Stopped
		return d
	}
	if d.src == nil {
		d.src = NewSource(uint64(time.Now().UnixNano()))
	}
	d.growth.Normalize()
	d.plant()

	d.removeResize = loop.OnResize(d.onResize)
	d.schedule()
	Logger().Info("tendril: driver started", "trunks", len(origin.Trunks))
	return d
}

func (d *Driver) plant() {
	for _, t := range d.origin.Trunks {
		cfg := &d.growth
		if t.Growth != nil {
			c := *t.Growth
			c.Normalize()
			cfg = &c
		}
		d.roots = append(d.roots, newSegment(cfg, SegmentSpec{
			Pos:       t.Position,
			Angle:     t.Heading,
			Lifetime:  t.Lifetime,
			Thickness: t.Thickness,
			Role:      t.Role,
			Orbit:     t.Orbit,
			Avoid:     d.origin.Avoid,
		}, d.src))
	}
}

// regrow starts a new generation. Decorations and endpoints of the previous
// one are dropped.
func (d *Driver) regrow() {
	d.orphans = nil
	d.endpoints = nil
	clear(d.popIns)
	if d.opts.Replant != nil {
		d.origin = d.opts.Replant(d.surface.Viewport(), d.src)
	}
	d.plant()
	Logger().Debug("tendril: replanted", "frame", d.frame, "trunks", len(d.origin.Trunks))
}

func (d *Driver) schedule() {
	d.frameID = d.loop.RequestFrame(d.tick)
	d.hasFrame = true
}

// Stop tears the driver down: it cancels the pending frame and every
// scheduled reveal, detaches the resize listener, and drops the pop-in
// map. No callback fires and nothing is drawn afterwards. Stop is
// idempotent.
func (d *Driver) Stop() {
	if d.state == Stopped {
		return
	}
	d.state = Stopped
	if d.hasFrame {
		d.loop.CancelFrame(d.frameID)
		d.hasFrame = false
	}
	for id := range d.timers {
		d.loop.CancelTimer(id)
	}
	clear(d.timers)
	if d.removeResize != nil {
		d.removeResize()
		d.removeResize = nil
	}
	clear(d.popIns)
	Logger().Info("tendril: driver stopped", "frames", d.frame)
}

// State returns the lifecycle state.
func (d *Driver) State() DriverState { return d.state }

// Roots returns the live root segments. The returned slice MUST NOT be
// mutated.
func (d *Driver) Roots() []*Segment { return d.roots }

// Decorations returns the standalone decorations handed over by pruned
// segments of the current generation.
func (d *Driver) Decorations() []*Decoration { return d.orphans }

// Endpoints returns the tip position of every segment of the current
// generation that has finished, in finishing order.
func (d *Driver) Endpoints() []Vec2 { return d.endpoints }

// Frames returns the number of frames drawn.
func (d *Driver) Frames() uint64 { return d.frame }

// Stats returns the counters of the last frame.
func (d *Driver) Stats() FrameStats { return d.stats }

// SetPointer sets the hover position in logical coordinates. Nil clears it.
func (d *Driver) SetPointer(p *Vec2) {
	if p == nil {
		d.pointer = nil
		return
	}
	v := *p
	d.pointer = &v
}

// Growing reports whether any tree still has a growing segment.
func (d *Driver) Growing() bool {
	for _, r := range d.roots {
		if r.Live() {
			return true
		}
	}
	return false
}

func (d *Driver) onResize(v Viewport) {
	if d.state != Running {
		return
	}
	if err := d.surface.Resize(v); err != nil {
		Logger().Warn("tendril: surface resize failed", "err", err)
		return
	}
	Logger().Info("tendril: surface resized", "width", v.Width, "height", v.Height, "ratio", v.PixelRatio)
}

func (d *Driver) tick(time.Duration) {
	d.hasFrame = false
	if d.state != Running {
		return
	}
	d.frame++
	start := time.Now()

	var stats FrameStats
	f := &Frame{
		Index:       d.frame,
		Surface:     d.surface,
		Rand:        d.src,
		Icons:       d.opts.Icons,
		Pointer:     d.pointer,
		HoldBubbles: d.opts.HoldBubbles && d.Growing(),
		Finish:      d.onFinish,
		Release:     d.release,
		PopIn:       d.popIn,
		Stats:       &stats,
	}
	if d.opts.Clear {
		d.surface.Clear(d.opts.Background)
	}
	for _, r := range d.roots {
		if d.state != Running {
			return
		}
		r.Step(f)
	}
	for _, o := range d.orphans {
		if d.state != Running {
			return
		}
		o.Step(f)
		stats.decoration()
	}
	d.pruneRoots(f)
	if d.opts.Regrow && len(d.roots) == 0 {
		d.regrow()
	}

	stats.StepTime = time.Since(start)
	d.stats = stats
	if d.opts.Debug {
		debugLog(d.frame, stats)
	}
	if d.state == Running {
		d.schedule()
	}
}

// pruneRoots drops finished childless roots, keeping their decorations.
func (d *Driver) pruneRoots(f *Frame) {
	kept := d.roots[:0]
	for _, r := range d.roots {
		if !r.Finished() || len(r.children) > 0 {
			kept = append(kept, r)
			continue
		}
		for _, dec := range r.decorations {
			d.release(dec)
		}
		r.decorations = nil
		f.Stats.prune()
	}
	for i := len(kept); i < len(d.roots); i++ {
		d.roots[i] = nil
	}
	d.roots = kept
}

func (d *Driver) release(dec *Decoration) {
	d.orphans = append(d.orphans, dec)
}

func (d *Driver) popIn(dec *Decoration) int {
	first, ok := d.popIns[dec.ID]
	if !ok {
		d.popIns[dec.ID] = d.frame
		return 0
	}
	return int(d.frame - first)
}

func (d *Driver) onFinish(s *Segment) {
	d.endpoints = append(d.endpoints, s.Pos)
	if !s.Role.Tagged() || d.tipped[s.Role] {
		return
	}
	d.tipped[s.Role] = true
	d.emitTip(s.Role, s.Pos)
	if s.Role.Kind == RoleEducation {
		d.scheduleReveal(s.Pos)
	}
}

func (d *Driver) emitTip(r Role, pos Vec2) {
	if d.state != Running {
		return
	}
	Logger().Debug("tendril tip", "role", r.Kind, "index", r.Index, "name", r.Name, "x", pos.X, "y", pos.Y)
	if d.opts.OnTip != nil {
		d.opts.OnTip(TipEvent{Role: r, Pos: pos, Frame: d.frame})
	}
}

// scheduleReveal stages one label per reveal item. Each is a driver-owned
// timer cancelled by Stop.
func (d *Driver) scheduleReveal(tip Vec2) {
	rv := &d.opts.Reveal
	col := rv.Color
	if col == (Color{}) {
		col = d.growth.color(0)
	}
	for i, item := range rv.Items {
		pos := tip.Add(rv.Offset).Add(Vec2{rv.Spacing.X * float64(i), rv.Spacing.Y * float64(i)})
		role := Role{Kind: RoleEducationDetail, Index: i, Name: item}
		var id uint64
		id = d.loop.AfterFunc(rv.Delay*time.Duration(i+1), func() {
			delete(d.timers, id)
			if d.state != Running {
				return
			}
			d.orphans = append(d.orphans, NewLabel(pos, item, col, role))
			if !d.tipped[role] {
				d.tipped[role] = true
				d.emitTip(role, pos)
			}
		})
		d.timers[id] = struct{}{}
	}
}
