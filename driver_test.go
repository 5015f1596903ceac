package tendril

import (
	"errors"
	"math"
	"testing"
	"time"
)

func singleTrunk(lifetime int, role Role) Origin {
	return Origin{Trunks: []Trunk{{
		Position:  Vec2{100, 190},
		Heading:   Up,
		Lifetime:  lifetime,
		Thickness: 10,
		Role:      role,
	}}}
}

func startTestDriver(origin Origin, opts Options) (*Loop, *recordingSurface, *Driver) {
	surf := newRecordingSurface(200, 200)
	loop := NewLoop(surf.Viewport())
	if opts.Rand == nil {
		opts.Rand = NewSineSource(42)
	}
	return loop, surf, Start(loop, surf, origin, opts)
}

func tickN(l *Loop, n int) {
	for i := 0; i < n; i++ {
		l.Tick()
	}
}

func TestStartWithoutSurfaceIsInert(t *testing.T) {
	loop := NewLoop(Viewport{Width: 10, Height: 10})
	d := Start(loop, nil, PlantOrigin(loop.Viewport()), Options{})
	if d.State() != Stopped {
		t.Errorf("state = %v, want stopped", d.State())
	}
	if loop.Pending() != 0 || len(d.Roots()) != 0 {
		t.Errorf("inert driver scheduled work: pending=%d roots=%d", loop.Pending(), len(d.Roots()))
	}
	d.Stop()

	d = Start(nil, newRecordingSurface(10, 10), Origin{}, Options{})
	if d.State() != Stopped {
		t.Error("nil loop should give an inert driver")
	}
	d.Stop()
}

func TestTipReportedOnceAtLifetime(t *testing.T) {
	growth := GrowthConfig{
		DepthCap: 2,
		Triggers: []Trigger{
			{Fraction: 0.35, Depths: []int{0}, Count: IntRange{2, 3}, Spread: math.Pi / 1.5,
				LifetimeScale: Range{1.2, 1.2}, ThicknessScale: 0.4},
			{Fraction: 0.25, Depths: []int{1}, Count: IntRange{2, 2}, Spread: math.Pi / 1.5,
				LifetimeScale: Range{1.2, 1.2}, ThicknessScale: 0.4},
		},
	}
	var (
		tips       []TipEvent
		d          *Driver
		liveAtTip  bool
		depthAtTip int
	)
	role := Role{Kind: RoleEducation, Name: "Education"}
	loop, _, d := startTestDriver(singleTrunk(100, role), Options{
		Growth: growth,
		OnTip: func(e TipEvent) {
			tips = append(tips, e)
			liveAtTip = d.Growing()
			d.Roots()[0].Walk(func(s *Segment) { depthAtTip = max(depthAtTip, s.Depth) })
		},
	})
	tickN(loop, 150)

	if len(tips) != 1 {
		t.Fatalf("tips = %d, want 1", len(tips))
	}
	if tips[0].Frame != 100 || tips[0].Role != role {
		t.Errorf("tip = %+v, want frame 100", tips[0])
	}
	if !liveAtTip || depthAtTip != 2 {
		t.Errorf("at tip: growing=%v max depth=%d, want a live subtree down to depth 2", liveAtTip, depthAtTip)
	}
	if tips[0].Pos == (Vec2{100, 190}) {
		t.Error("tip should be away from the start")
	}
	if len(d.Endpoints()) == 0 || d.Endpoints()[0] != tips[0].Pos {
		t.Errorf("endpoints = %v", d.Endpoints())
	}
}

func TestTipsAtMostOncePerRole(t *testing.T) {
	role := Role{Kind: RoleSkill, Name: "React"}
	origin := Origin{Trunks: []Trunk{
		{Position: Vec2{50, 100}, Heading: Up, Lifetime: 5, Thickness: 3, Role: role},
		{Position: Vec2{150, 100}, Heading: Up, Lifetime: 8, Thickness: 3, Role: role},
	}}
	n := 0
	loop, _, d := startTestDriver(origin, Options{OnTip: func(TipEvent) { n++ }})
	tickN(loop, 20)
	if n != 1 {
		t.Errorf("OnTip called %d times for one role, want 1", n)
	}
	if len(d.Endpoints()) != 2 {
		t.Errorf("endpoints = %d, want 2", len(d.Endpoints()))
	}
}

func TestStopHaltsDrawing(t *testing.T) {
	loop, surf, d := startTestDriver(singleTrunk(100, Role{}), Options{})
	tickN(loop, 10)
	drawn := len(surf.calls)
	if drawn == 0 {
		t.Fatal("nothing drawn in 10 frames")
	}
	d.Stop()
	d.Stop()
	if d.State() != Stopped {
		t.Fatalf("state = %v", d.State())
	}
	if loop.Pending() != 0 {
		t.Errorf("Pending = %d after Stop, want 0", loop.Pending())
	}
	tickN(loop, 10)
	if len(surf.calls) != drawn || d.Frames() != 10 {
		t.Errorf("drew %d more calls over %d frames after Stop", len(surf.calls)-drawn, d.Frames())
	}
	loop.Resize(Viewport{Width: 300, Height: 300, PixelRatio: 1})
	if len(surf.resizes) != 0 {
		t.Error("stopped driver still listens for resizes")
	}
}

func testReveal() RevealConfig {
	return RevealConfig{
		Items:   []string{"Coursework", "Projects", "Activities"},
		Delay:   100 * time.Millisecond,
		Offset:  Vec2{45, 10},
		Spacing: Vec2{0, 18},
	}
}

func TestRevealStagesLabels(t *testing.T) {
	var tips []TipEvent
	loop, _, d := startTestDriver(singleTrunk(10, Role{Kind: RoleEducation, Name: "Education"}), Options{
		Reveal: testReveal(),
		OnTip:  func(e TipEvent) { tips = append(tips, e) },
	})
	tickN(loop, 10)
	if len(tips) != 1 || loop.Pending() != 4 {
		t.Fatalf("after tip: tips=%d pending=%d, want 1 tip and 3 timers plus a frame", len(tips), loop.Pending())
	}
	tip := tips[0].Pos

	tickN(loop, 60)
	labels := d.Decorations()
	if len(labels) != 3 {
		t.Fatalf("labels = %d, want 3", len(labels))
	}
	for i, l := range labels {
		if l.Kind != KindLabel || l.Text != testReveal().Items[i] {
			t.Errorf("label %d = %v %q", i, l.Kind, l.Text)
		}
		want := tip.Add(Vec2{45, 10 + 18*float64(i)})
		if math.Abs(l.Pos.X-want.X) > 1e-9 || math.Abs(l.Pos.Y-want.Y) > 1e-9 {
			t.Errorf("label %d at %v, want %v", i, l.Pos, want)
		}
	}
	if len(tips) != 4 || tips[2].Role.Kind != RoleEducationDetail || tips[2].Role.Name != "Projects" {
		t.Errorf("tips = %+v", tips)
	}
	if !(tips[1].Frame < tips[2].Frame && tips[2].Frame < tips[3].Frame) {
		t.Error("labels should appear one after another")
	}
}

func TestStopCancelsReveal(t *testing.T) {
	tips := 0
	loop, _, d := startTestDriver(singleTrunk(10, Role{Kind: RoleEducation}), Options{
		Reveal: testReveal(),
		OnTip:  func(TipEvent) { tips++ },
	})
	tickN(loop, 10)
	d.Stop()
	if loop.Pending() != 0 {
		t.Fatalf("Pending = %d, want reveal timers cancelled", loop.Pending())
	}
	tickN(loop, 60)
	if tips != 1 || len(d.Decorations()) != 0 {
		t.Errorf("after Stop: tips=%d labels=%d", tips, len(d.Decorations()))
	}
}

func TestResizeKeepsGrowth(t *testing.T) {
	loop, surf, d := startTestDriver(singleTrunk(100, Role{}), Options{})
	tickN(loop, 20)
	root := d.Roots()[0]
	age, pos := root.Age, root.Pos

	v := Viewport{Width: 400, Height: 300, PixelRatio: 2}
	loop.Resize(v)
	if len(surf.resizes) != 1 || surf.Viewport() != v {
		t.Fatalf("surface resizes = %v", surf.resizes)
	}
	if root.Age != age || root.Pos != pos || d.State() != Running {
		t.Error("resize changed growth state")
	}
	tickN(loop, 1)
	if root.Age != age+1 {
		t.Errorf("age = %d after resize, want %d", root.Age, age+1)
	}
}

func TestResizeErrorKeepsRunning(t *testing.T) {
	loop, surf, d := startTestDriver(singleTrunk(100, Role{}), Options{})
	surf.resizeErr = errors.New("out of memory")
	tickN(loop, 2)
	loop.Resize(Viewport{Width: 1, Height: 1})
	before := len(surf.calls)
	tickN(loop, 2)
	if d.State() != Running || len(surf.calls) == before {
		t.Error("driver should keep drawing after a failed resize")
	}
}

func TestHoldBubblesUntilGrown(t *testing.T) {
	growth := GrowthConfig{Tip: TipRule{Bubble: BubbleStyle{Radius: 35}}}
	origin := Origin{Trunks: []Trunk{
		{Position: Vec2{50, 100}, Heading: Up, Lifetime: 5, Thickness: 1, Role: Role{Kind: RoleSkill, Name: "SQL"}},
		{Position: Vec2{150, 100}, Heading: Up, Lifetime: 50, Thickness: 1},
	}}
	loop, surf, d := startTestDriver(origin, Options{Growth: growth, HoldBubbles: true})

	tickN(loop, 50)
	if surf.count("strokeCircle") != 0 {
		t.Fatal("bubble drawn while trees were growing")
	}
	if len(d.Decorations()) != 1 || d.Decorations()[0].Kind != KindBubble {
		t.Fatalf("decorations = %+v, want the pruned root's bubble", d.Decorations())
	}
	// The first visible frame starts the pop-in at zero size.
	tickN(loop, 2)
	if surf.count("strokeCircle") == 0 {
		t.Fatal("bubble not drawn once growth stopped")
	}
	b := d.Decorations()[0]
	if want := 1.0 / 48; math.Abs(b.Progress()-want) > 1e-12 {
		t.Errorf("progress on second visible frame = %v, want %v", b.Progress(), want)
	}
	tickN(loop, 46)
	if b.Done() {
		t.Fatal("bubble finished early")
	}
	tickN(loop, 1)
	if !b.Done() {
		t.Errorf("progress = %v after 48 visible frames, want 1", b.Progress())
	}
}

func TestRegrowReplants(t *testing.T) {
	loop, _, d := startTestDriver(singleTrunk(5, Role{}), Options{Regrow: true})
	tickN(loop, 5)
	if len(d.Roots()) != 1 || d.Roots()[0].Age != 0 {
		t.Fatalf("roots after first tree = %d", len(d.Roots()))
	}
	if d.Roots()[0].Pos != (Vec2{100, 190}) {
		t.Errorf("without Replant the origin is reused, got %v", d.Roots()[0].Pos)
	}
	tickN(loop, 3)
	if d.Roots()[0].Age != 3 {
		t.Errorf("second generation age = %d, want 3", d.Roots()[0].Age)
	}
}

func TestRegrowStartsFreshGeneration(t *testing.T) {
	starts := map[Vec2]bool{}
	replant := func(v Viewport, src Source) Origin {
		o := VinesOrigin(v, src, 5, 3, nil)
		starts[o.Trunks[0].Position] = true
		return o
	}
	growth := GrowthConfig{Tip: TipRule{Leaf: true}}
	loop, _, d := startTestDriver(singleTrunk(5, Role{}), Options{
		Growth:  growth,
		Regrow:  true,
		Replant: replant,
	})

	maxDraws := 0
	for i := 0; i < 600; i++ {
		loop.Tick()
		maxDraws = max(maxDraws, d.Stats().DrawCalls)
		if n := len(d.Decorations()); n > 1 {
			t.Fatalf("frame %d: %d decorations carried over between generations", i+1, n)
		}
		if n := len(d.Endpoints()); n > 1 {
			t.Fatalf("frame %d: %d endpoints carried over between generations", i+1, n)
		}
	}
	if len(starts) < 2 {
		t.Errorf("replanted from %d distinct positions, want several", len(starts))
	}
	if maxDraws > 4 {
		t.Errorf("frame cost grew to %d draw calls", maxDraws)
	}
	if len(d.Roots()) != 1 {
		t.Errorf("roots = %d, want 1", len(d.Roots()))
	}
}

func TestNoRegrowLeavesEmpty(t *testing.T) {
	loop, _, d := startTestDriver(singleTrunk(5, Role{}), Options{})
	tickN(loop, 6)
	if len(d.Roots()) != 0 || d.Growing() {
		t.Errorf("roots = %d, growing = %v", len(d.Roots()), d.Growing())
	}
	if d.State() != Running {
		t.Error("driver stops only on Stop")
	}
}

func TestClearPaintsBackground(t *testing.T) {
	loop, surf, _ := startTestDriver(singleTrunk(10, Role{}), Options{Clear: true})
	tickN(loop, 3)
	if surf.clears != 3 {
		t.Errorf("clears = %d, want 3", surf.clears)
	}
}

func TestDriverStats(t *testing.T) {
	loop, _, d := startTestDriver(PlantOrigin(Viewport{Width: 200, Height: 200}), Options{
		Growth: *testGrowth(),
	})
	var total FrameStats
	for i := 0; i < 40; i++ {
		loop.Tick()
		total.Add(d.Stats())
	}
	if total.Spawned == 0 || total.DrawCalls == 0 {
		t.Errorf("stats = %+v", total)
	}
	if s := d.Stats(); s.Segments < 1+total.Spawned-total.Pruned {
		t.Errorf("last frame saw %d segments, spawned %d pruned %d", s.Segments, total.Spawned, total.Pruned)
	}
}

func TestSetPointerCopies(t *testing.T) {
	_, _, d := startTestDriver(Origin{}, Options{})
	p := Vec2{1, 2}
	d.SetPointer(&p)
	p.X = 9
	if d.pointer.X != 1 {
		t.Error("SetPointer kept the caller's pointer")
	}
	d.SetPointer(nil)
	if d.pointer != nil {
		t.Error("SetPointer(nil) did not clear")
	}
}

func TestDriverStateString(t *testing.T) {
	if Running.String() != "running" || Stopped.String() != "stopped" {
		t.Error("unexpected DriverState strings")
	}
}

func TestResizeDrawsAtNewPixelRatio(t *testing.T) {
	c, err := NewCanvas(Viewport{Width: 100, Height: 100, PixelRatio: 1})
	if err != nil {
		t.Fatal(err)
	}
	loop := NewLoop(c.Viewport())
	origin := Origin{Trunks: []Trunk{{Position: Vec2{50, 90}, Heading: Up, Lifetime: 100, Thickness: 10}}}
	d := Start(loop, c, origin, Options{Rand: NewSineSource(3)})
	defer d.Stop()

	tickN(loop, 5)
	pos := d.Roots()[0].Pos
	loop.Resize(Viewport{Width: 100, Height: 100, PixelRatio: 2})
	if d.Roots()[0].Pos != pos {
		t.Fatal("resize moved the segment")
	}
	tickN(loop, 1)

	img := c.Image()
	if b := img.Bounds(); b.Dx() != 200 {
		t.Fatalf("pixel width = %d, want 200", b.Dx())
	}
	if _, _, _, a := img.At(int(pos.X*2), int(pos.Y*2)).RGBA(); a == 0 {
		t.Errorf("no paint at the scaled position (%v, %v)", pos.X*2, pos.Y*2)
	}
}
