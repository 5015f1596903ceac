// Package tendril grows procedural branches, roots and vines onto a 2D
// raster surface, one step per animation frame.
//
// A tree is a [Segment] that extends itself each frame, tapering as it
// ages, and spawns children when its [Trigger] rules fire. Children share
// their parent's [GrowthConfig]. Finished segments keep stepping their
// decorations (leaves, role bubbles and labels) and are pruned once they
// have no children left. Strokes accumulate on the surface; nothing is
// redrawn unless [Options.Clear] is set.
//
// # Quick start
//
// [Run] opens a window and hosts a driver for you:
//
//	tendril.Run(tendril.RunConfig{Title: "Plant", Width: 800, Height: 600},
//		func(loop *tendril.Loop, s tendril.Surface) *tendril.Driver {
//			return tendril.Start(loop, s, tendril.PlantOrigin(s.Viewport()), tendril.Options{})
//		})
//
// For headless use, drive a [Loop] yourself and draw onto a [Canvas]:
//
//	vp := tendril.Viewport{Width: 800, Height: 600, PixelRatio: 1}
//	canvas, _ := tendril.NewCanvas(vp)
//	loop := tendril.NewLoop(vp)
//	d := tendril.Start(loop, canvas, tendril.PlantOrigin(vp), tendril.Options{})
//	for i := 0; i < 600; i++ {
//		loop.Tick()
//	}
//	d.Stop()
//
// # Frames and time
//
// A [Loop] is a single-threaded frame host with virtual time. Each
// [Loop.Tick] fires due timers, then runs the frame callbacks queued before
// the tick. A [Driver] re-queues itself every frame until [Driver.Stop],
// which cancels the pending frame and every staged reveal. Nothing in
// tendril is safe for concurrent use; run everything on the loop's
// goroutine.
//
// # Randomness
//
// Every random decision reads from a [Source] passed in [Options.Rand].
// [NewSineSource] reproduces the sine-hash sequence the presets were tuned
// with, [NewSource] is a seeded PCG stream, and [NewSequenceSource] replays
// fixed values for exact tests.
//
// # Roles and tips
//
// Segments may carry a [Role]. When a tagged segment finishes, the driver
// calls [Options.OnTip] once for that role, and segments with a bubble
// style emit a role bubble. The education root additionally stages its
// [RevealConfig] labels after the tip.
//
// # Configuration
//
// The config subpackage loads scene presets from YAML merged over embedded
// defaults, and the telemetry subpackage writes tips and per-frame stats as
// CSV.
package tendril
