// Command tendril-render grows a scene headlessly and writes the final frame
// as a PNG, with optional CSV telemetry and a scripted run.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/phanxgames/tendril"
	"github.com/phanxgames/tendril/config"
	"github.com/phanxgames/tendril/telemetry"
)

type options struct {
	scene      string
	frames     int
	out        string
	scriptPath string
	shotDir    string
	outputDir  string
	debug      bool
}

func main() {
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	scene := flag.String("scene", "plant", "Scene to grow: plant, roots, vines or about")
	frames := flag.Int("frames", 600, "Number of frames to run")
	out := flag.String("out", "tendril.png", "Output PNG path")
	scriptPath := flag.String("script", "", "JSON script of waits, resizes, hovers and screenshots")
	shotDir := flag.String("screenshot-dir", "screenshots", "Directory for script screenshots")
	outputDir := flag.String("output-dir", "", "Directory for CSV telemetry (empty = config telemetry.dir)")
	seed := flag.Uint64("seed", 0, "RNG seed (0 = use config)")
	verbose := flag.Bool("v", false, "Log per-frame stats")

	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	tendril.SetLogger(logger)

	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := config.Cfg()
	if *seed != 0 {
		cfg.Random.Seed = *seed
	}
	if *outputDir != "" {
		cfg.Telemetry.Dir = *outputDir
	}

	err := run(cfg, options{
		scene:      *scene,
		frames:     *frames,
		out:        *out,
		scriptPath: *scriptPath,
		shotDir:    *shotDir,
		outputDir:  cfg.Telemetry.Dir,
		debug:      *verbose,
	})
	if err != nil {
		slog.Error("render failed", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, o options) error {
	vp := cfg.Derived.Viewport
	canvas, err := tendril.NewCanvas(vp)
	if err != nil {
		return err
	}
	loop := tendril.NewLoop(vp)

	origin, opts, err := cfg.Scene(o.scene, vp, cfg.Source())
	if err != nil {
		return err
	}
	opts.Debug = o.debug

	om, err := telemetry.NewOutputManager(o.outputDir)
	if err != nil {
		return err
	}
	defer om.Close()
	if err := om.WriteConfig(cfg); err != nil {
		slog.Warn("failed to write config snapshot", "error", err)
	}

	var tips []telemetry.TipRecord
	opts.OnTip = func(ev tendril.TipEvent) {
		rec := telemetry.NewTipRecord(ev)
		tips = append(tips, rec)
		if err := om.WriteTip(rec); err != nil {
			slog.Warn("failed to write tip", "error", err)
		}
	}

	var script *tendril.Script
	if o.scriptPath != "" {
		data, err := os.ReadFile(o.scriptPath)
		if err != nil {
			return fmt.Errorf("reading script: %w", err)
		}
		if script, err = tendril.LoadScript(data); err != nil {
			return err
		}
	}

	d := tendril.Start(loop, canvas, origin, opts)
	defer d.Stop()
	env := &tendril.ScriptEnv{Loop: loop, Driver: d, Canvas: canvas, ScreenshotDir: o.shotDir}

	slog.Info("rendering", "scene", o.scene, "frames", o.frames,
		"width", vp.Width, "height", vp.Height, "seed", cfg.Random.Seed)

	var frames []telemetry.FrameRecord
	every := uint64(cfg.Telemetry.FrameEvery)
	for i := 0; i < o.frames; i++ {
		if script != nil {
			if err := script.Step(env); err != nil {
				slog.Warn("script step failed", "error", err)
			}
		}
		loop.Tick()
		if d.State() == tendril.Stopped {
			slog.Info("driver stopped", "frame", d.Frames())
			break
		}
		if d.Frames()%every == 0 {
			rec := telemetry.NewFrameRecord(d.Frames(), d.Stats())
			frames = append(frames, rec)
			if err := om.WriteFrame(rec); err != nil {
				slog.Warn("failed to write frame", "error", err)
			}
		}
	}

	if err := writePNG(o.out, canvas); err != nil {
		return err
	}
	for _, p := range env.Shots {
		slog.Info("screenshot written", "path", p)
	}

	summary := telemetry.Summarize(tips, frames)
	if err := om.WriteSummary(summary); err != nil {
		slog.Warn("failed to write summary", "error", err)
	}
	slog.Info("render complete", "out", o.out, "telemetry", om.Dir(), "summary", summary)
	return nil
}

func writePNG(path string, c *tendril.Canvas) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	if err := c.EncodePNG(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
