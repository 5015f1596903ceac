package telemetry

import "github.com/phanxgames/tendril"

// TipRecord is one tip callback.
type TipRecord struct {
	Frame uint64  `csv:"frame"`
	Kind  string  `csv:"kind"`
	Index int     `csv:"index"`
	Name  string  `csv:"name"`
	X     float64 `csv:"x"`
	Y     float64 `csv:"y"`
}

// NewTipRecord converts a driver tip event.
func NewTipRecord(ev tendril.TipEvent) TipRecord {
	return TipRecord{
		Frame: ev.Frame,
		Kind:  string(ev.Role.Kind),
		Index: ev.Role.Index,
		Name:  ev.Role.Name,
		X:     ev.Pos.X,
		Y:     ev.Pos.Y,
	}
}

// FrameRecord is the stats of one frame.
type FrameRecord struct {
	Frame       uint64 `csv:"frame"`
	Segments    int    `csv:"segments"`
	Growing     int    `csv:"growing"`
	Spawned     int    `csv:"spawned"`
	Pruned      int    `csv:"pruned"`
	Decorations int    `csv:"decorations"`
	DrawCalls   int    `csv:"draw_calls"`
	StepMicros  int64  `csv:"step_us"`
}

// NewFrameRecord converts the driver's stats for a frame.
func NewFrameRecord(frame uint64, s tendril.FrameStats) FrameRecord {
	return FrameRecord{
		Frame:       frame,
		Segments:    s.Segments,
		Growing:     s.Growing,
		Spawned:     s.Spawned,
		Pruned:      s.Pruned,
		Decorations: s.Decorations,
		DrawCalls:   s.DrawCalls,
		StepMicros:  s.StepTime.Microseconds(),
	}
}
