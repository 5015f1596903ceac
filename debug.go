package tendril

import (
	"log/slog"
	"time"
)

// FrameStats holds per-frame counters. Every method is safe on a nil
// receiver so stepping code can count unconditionally.
type FrameStats struct {
	Segments    int
	Growing     int
	Spawned     int
	Pruned      int
	Decorations int
	DrawCalls   int
	StepTime    time.Duration
}

func (s *FrameStats) segment(seg *Segment) {
	if s == nil {
		return
	}
	s.Segments++
	if seg.state == Growing {
		s.Growing++
	}
	s.Decorations += len(seg.decorations)
}

func (s *FrameStats) drawCall() {
	if s != nil {
		s.DrawCalls++
	}
}

func (s *FrameStats) spawn() {
	if s != nil {
		s.Spawned++
	}
}

func (s *FrameStats) prune() {
	if s != nil {
		s.Pruned++
	}
}

func (s *FrameStats) decoration() {
	if s != nil {
		s.Decorations++
	}
}

// Add accumulates o into s.
func (s *FrameStats) Add(o FrameStats) {
	s.Segments += o.Segments
	s.Growing += o.Growing
	s.Spawned += o.Spawned
	s.Pruned += o.Pruned
	s.Decorations += o.Decorations
	s.DrawCalls += o.DrawCalls
	s.StepTime += o.StepTime
}

// LogValue implements slog.LogValuer.
func (s FrameStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("segments", s.Segments),
		slog.Int("growing", s.Growing),
		slog.Int("spawned", s.Spawned),
		slog.Int("pruned", s.Pruned),
		slog.Int("decorations", s.Decorations),
		slog.Int("draw_calls", s.DrawCalls),
		slog.Duration("step", s.StepTime),
	)
}

// debugMaxSegments is the live segment count above which a frame logs a
// warning in debug mode.
const debugMaxSegments = 5000

// debugLog reports frame stats at debug level and warns when the tree grows
// past debugMaxSegments.
func debugLog(frame uint64, stats FrameStats) {
	l := Logger()
	l.Debug("tendril frame", "frame", frame, "stats", stats)
	if stats.Segments > debugMaxSegments {
		l.Warn("tendril: segment count exceeds threshold",
			"frame", frame, "segments", stats.Segments, "threshold", debugMaxSegments)
	}
}
