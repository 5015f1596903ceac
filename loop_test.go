package tendril

import (
	"slices"
	"testing"
	"time"
)

func TestLoopFrameOrder(t *testing.T) {
	l := NewLoop(Viewport{Width: 100, Height: 100})
	var got []string
	l.RequestFrame(func(time.Duration) { got = append(got, "a") })
	l.RequestFrame(func(time.Duration) {
		got = append(got, "b")
		l.RequestFrame(func(time.Duration) { got = append(got, "c") })
	})
	l.Tick()
	if !slices.Equal(got, []string{"a", "b"}) {
		t.Fatalf("first tick = %v, want [a b]", got)
	}
	l.Tick()
	if !slices.Equal(got, []string{"a", "b", "c"}) {
		t.Errorf("second tick = %v, want [a b c]", got)
	}
	if l.Frame() != 2 || l.Now() != 2*DefaultFrameInterval {
		t.Errorf("frame=%d now=%v", l.Frame(), l.Now())
	}
}

func TestLoopCancelFrame(t *testing.T) {
	l := NewLoop(Viewport{})
	ran := false
	id := l.RequestFrame(func(time.Duration) { ran = true })
	l.CancelFrame(id)
	l.CancelFrame(id)
	l.Tick()
	if ran {
		t.Error("cancelled frame ran")
	}
	if l.Pending() != 0 {
		t.Errorf("Pending = %d, want 0", l.Pending())
	}
}

func TestLoopTimersFireInDeadlineOrder(t *testing.T) {
	l := NewLoop(Viewport{})
	l.FrameInterval = 10 * time.Millisecond
	var got []string
	l.AfterFunc(25*time.Millisecond, func() { got = append(got, "late") })
	l.AfterFunc(20*time.Millisecond, func() { got = append(got, "early") })
	l.AfterFunc(0, func() { got = append(got, "now") })

	l.Tick()
	if !slices.Equal(got, []string{"now"}) {
		t.Fatalf("after 10ms: %v", got)
	}
	l.Tick()
	if !slices.Equal(got, []string{"now", "early"}) {
		t.Fatalf("after 20ms: %v", got)
	}
	l.Tick()
	if !slices.Equal(got, []string{"now", "early", "late"}) {
		t.Errorf("after 30ms: %v", got)
	}
}

func TestLoopTimersBeforeFrames(t *testing.T) {
	l := NewLoop(Viewport{})
	var got []string
	l.RequestFrame(func(time.Duration) { got = append(got, "frame") })
	l.AfterFunc(0, func() { got = append(got, "timer") })
	l.Tick()
	if !slices.Equal(got, []string{"timer", "frame"}) {
		t.Errorf("order = %v, want [timer frame]", got)
	}
}

func TestLoopTimerCancelledByEarlierTimer(t *testing.T) {
	l := NewLoop(Viewport{})
	ran := false
	var second uint64
	l.AfterFunc(0, func() { l.CancelTimer(second) })
	second = l.AfterFunc(0, func() { ran = true })
	l.Tick()
	if ran {
		t.Error("timer cancelled mid-tick still ran")
	}
}

func TestLoopResizeListeners(t *testing.T) {
	l := NewLoop(Viewport{Width: 10, Height: 10})
	var a, b []Viewport
	removeA := l.OnResize(func(v Viewport) { a = append(a, v) })
	l.OnResize(func(v Viewport) { b = append(b, v) })

	v := Viewport{Width: 20, Height: 30, PixelRatio: 2}
	l.Resize(v)
	if l.Viewport() != v || len(a) != 1 || len(b) != 1 {
		t.Fatalf("viewport=%v a=%v b=%v", l.Viewport(), a, b)
	}
	removeA()
	removeA()
	l.Resize(Viewport{Width: 5, Height: 5})
	if len(a) != 1 || len(b) != 2 {
		t.Errorf("after remove: a=%d b=%d calls", len(a), len(b))
	}
}
