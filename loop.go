package tendril

import (
	"cmp"
	"slices"
	"time"
)

// DefaultFrameInterval is the virtual time a Loop advances per Tick.
const DefaultFrameInterval = time.Second / 60

// Loop is a single-threaded frame host: the equivalent of a browser's
// animation frame queue, one-shot timers and resize events. The owner calls
// Tick once per display refresh. Time is virtual and advances only on Tick,
// so runs are reproducible.
//
// Loop is not safe for concurrent use.
type Loop struct {
	// FrameInterval is the time added by each Tick.
	FrameInterval time.Duration

	now    time.Duration
	frame  uint64
	nextID uint64
	vp     Viewport

	frames     map[uint64]func(now time.Duration)
	frameOrder []uint64
	timers     map[uint64]*loopTimer
	resize     []resizeListener
}

type loopTimer struct {
	id uint64
	at time.Duration
	fn func()
}

type resizeListener struct {
	id uint64
	fn func(Viewport)
}

// NewLoop returns a loop with the given initial viewport.
func NewLoop(v Viewport) *Loop {
	return &Loop{
		FrameInterval: DefaultFrameInterval,
		vp:            v,
		frames:        make(map[uint64]func(time.Duration)),
		timers:        make(map[uint64]*loopTimer),
	}
}

func (l *Loop) id() uint64 {
	l.nextID++
	return l.nextID
}

// Now returns the virtual time elapsed since the loop was created.
func (l *Loop) Now() time.Duration { return l.now }

// Frame returns the number of ticks run so far.
func (l *Loop) Frame() uint64 { return l.frame }

// Viewport returns the last viewport passed to Resize (or NewLoop).
func (l *Loop) Viewport() Viewport { return l.vp }

// RequestFrame queues fn to run on the next Tick and returns a handle for
// CancelFrame. A callback queued during a Tick runs on the following one.
func (l *Loop) RequestFrame(fn func(now time.Duration)) uint64 {
	id := l.id()
	l.frames[id] = fn
	l.frameOrder = append(l.frameOrder, id)
	return id
}

// CancelFrame drops a queued frame callback. Unknown or already-run handles
// are ignored.
func (l *Loop) CancelFrame(id uint64) {
	delete(l.frames, id)
}

// AfterFunc schedules fn to run once, on the first Tick at or after d from
// now. It returns a handle for CancelTimer.
func (l *Loop) AfterFunc(d time.Duration, fn func()) uint64 {
	id := l.id()
	l.timers[id] = &loopTimer{id: id, at: l.now + max(d, 0), fn: fn}
	return id
}

// CancelTimer drops a pending timer. Unknown or fired handles are ignored.
func (l *Loop) CancelTimer(id uint64) {
	delete(l.timers, id)
}

// OnResize registers fn to be called by Resize. The returned function
// removes the listener and may be called more than once.
func (l *Loop) OnResize(fn func(Viewport)) (remove func()) {
	id := l.id()
	l.resize = append(l.resize, resizeListener{id: id, fn: fn})
	return func() {
		l.resize = slices.DeleteFunc(l.resize, func(r resizeListener) bool { return r.id == id })
	}
}

// Resize records v and notifies every resize listener in registration order.
func (l *Loop) Resize(v Viewport) {
	l.vp = v
	for _, r := range slices.Clone(l.resize) {
		r.fn(v)
	}
}

// Pending reports the number of queued frame callbacks and timers.
func (l *Loop) Pending() int {
	return len(l.frames) + len(l.timers)
}

// Tick advances virtual time by FrameInterval, fires due timers in deadline
// order, then runs the frame callbacks queued before this tick.
func (l *Loop) Tick() {
	l.frame++
	l.now += l.FrameInterval

	var due []*loopTimer
	for _, t := range l.timers {
		if t.at <= l.now {
			due = append(due, t)
		}
	}
	slices.SortFunc(due, func(a, b *loopTimer) int {
		if c := cmp.Compare(a.at, b.at); c != 0 {
			return c
		}
		return cmp.Compare(a.id, b.id)
	})
	for _, t := range due {
		// An earlier timer may have cancelled this one.
		if _, ok := l.timers[t.id]; !ok {
			continue
		}
		delete(l.timers, t.id)
		t.fn()
	}

	order := l.frameOrder
	l.frameOrder = nil
	for _, id := range order {
		fn, ok := l.frames[id]
		if !ok {
			continue
		}
		delete(l.frames, id)
		fn(l.now)
	}
}
