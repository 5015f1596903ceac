package telemetry

import (
	"log/slog"
	"slices"

	"gonum.org/v1/gonum/stat"
)

// Summary aggregates a run's tips and frames.
type Summary struct {
	Frames        int     `csv:"frames"`
	Tips          int     `csv:"tips"`
	TipMeanX      float64 `csv:"tip_mean_x"`
	TipStdX       float64 `csv:"tip_std_x"`
	TipMeanY      float64 `csv:"tip_mean_y"`
	TipStdY       float64 `csv:"tip_std_y"`
	PeakSegments  int     `csv:"peak_segments"`
	TotalSpawned  int     `csv:"total_spawned"`
	MeanDrawCalls float64 `csv:"mean_draw_calls"`
	StepP50Micros float64 `csv:"step_p50_us"`
	StepP90Micros float64 `csv:"step_p90_us"`
}

// Summarize computes summary statistics. Empty inputs leave the
// corresponding fields zero.
func Summarize(tips []TipRecord, frames []FrameRecord) Summary {
	s := Summary{Frames: len(frames), Tips: len(tips)}

	if len(tips) > 0 {
		xs := make([]float64, len(tips))
		ys := make([]float64, len(tips))
		for i, t := range tips {
			xs[i], ys[i] = t.X, t.Y
		}
		s.TipMeanX, s.TipStdX = meanStd(xs)
		s.TipMeanY, s.TipStdY = meanStd(ys)
	}

	if len(frames) > 0 {
		draws := make([]float64, len(frames))
		steps := make([]float64, len(frames))
		for i, f := range frames {
			draws[i] = float64(f.DrawCalls)
			steps[i] = float64(f.StepMicros)
			s.PeakSegments = max(s.PeakSegments, f.Segments)
			s.TotalSpawned += f.Spawned
		}
		s.MeanDrawCalls = stat.Mean(draws, nil)
		slices.Sort(steps)
		s.StepP50Micros = stat.Quantile(0.5, stat.Empirical, steps, nil)
		s.StepP90Micros = stat.Quantile(0.9, stat.Empirical, steps, nil)
	}
	return s
}

// meanStd returns the mean and sample standard deviation. A single sample
// has zero spread.
func meanStd(x []float64) (float64, float64) {
	if len(x) == 1 {
		return x[0], 0
	}
	return stat.MeanStdDev(x, nil)
}

// LogValue implements slog.LogValuer.
func (s Summary) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("frames", s.Frames),
		slog.Int("tips", s.Tips),
		slog.Float64("tip_mean_x", s.TipMeanX),
		slog.Float64("tip_mean_y", s.TipMeanY),
		slog.Int("peak_segments", s.PeakSegments),
		slog.Int("spawned", s.TotalSpawned),
		slog.Float64("mean_draw_calls", s.MeanDrawCalls),
		slog.Float64("step_p90_us", s.StepP90Micros),
	)
}
