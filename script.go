package tendril

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrNoSteps is returned by LoadScript for a script without steps.
var ErrNoSteps = errors.New("no steps")

// scriptStep is a single action in a script.
type scriptStep struct {
	Action string  `json:"action"`
	Label  string  `json:"label,omitempty"`
	X      float64 `json:"x,omitempty"`
	Y      float64 `json:"y,omitempty"`
	FromX  float64 `json:"fromX,omitempty"`
	FromY  float64 `json:"fromY,omitempty"`
	ToX    float64 `json:"toX,omitempty"`
	ToY    float64 `json:"toY,omitempty"`
	Width  float64 `json:"width,omitempty"`
	Height float64 `json:"height,omitempty"`
	Ratio  float64 `json:"ratio,omitempty"`
	Frames int     `json:"frames,omitempty"`
}

// scriptFile is the top-level JSON structure for a script.
type scriptFile struct {
	Steps []scriptStep `json:"steps"`
}

// ScriptEnv is what a script acts on. Canvas and ScreenshotDir are only
// needed by screenshot steps.
type ScriptEnv struct {
	Loop          *Loop
	Driver        *Driver
	Canvas        *Canvas
	ScreenshotDir string
	// Shots receives the path of every screenshot written.
	Shots []string
}

// Script sequences waits, resizes, pointer moves and screenshots across
// frames for reproducible headless runs. Call Step once before each
// Loop.Tick.
//
// Supported actions:
//
//	{"action": "wait", "frames": 30}
//	{"action": "resize", "width": 800, "height": 600, "ratio": 2}
//	{"action": "hover", "x": 100, "y": 200}
//	{"action": "sweep", "fromX": 0, "fromY": 0, "toX": 200, "toY": 0, "frames": 20}
//	{"action": "leave"}
//	{"action": "screenshot", "label": "grown"}
//	{"action": "stop"}
type Script struct {
	steps     []scriptStep
	cursor    int
	waitCount int
	pointer   []Vec2
	done      bool
}

// LoadScript parses a JSON script.
func LoadScript(jsonData []byte) (*Script, error) {
	var f scriptFile
	if err := json.Unmarshal(jsonData, &f); err != nil {
		return nil, fmt.Errorf("parse script: %w", err)
	}
	if len(f.Steps) == 0 {
		return nil, fmt.Errorf("parse script: %w", ErrNoSteps)
	}
	return &Script{steps: f.Steps}, nil
}

// Done reports whether every step has been executed.
func (r *Script) Done() bool {
	return r.done
}

// Step advances the script by one frame. It returns an error only when a
// screenshot cannot be written; the script continues regardless.
func (r *Script) Step(env *ScriptEnv) error {
	if r.done {
		return nil
	}
	// Play queued pointer moves before advancing.
	if len(r.pointer) > 0 {
		p := r.pointer[0]
		r.pointer = r.pointer[1:]
		env.Driver.SetPointer(&p)
		r.finishIfDrained()
		return nil
	}
	if r.waitCount > 0 {
		r.waitCount--
		r.finishIfDrained()
		return nil
	}
	if r.cursor >= len(r.steps) {
		r.done = true
		return nil
	}

	st := r.steps[r.cursor]
	r.cursor++

	var err error
	switch st.Action {
	case "wait":
		if st.Frames > 0 {
			r.waitCount = st.Frames - 1 // this frame counts as one
		}
	case "resize":
		vp := env.Loop.Viewport()
		if st.Width > 0 {
			vp.Width = st.Width
		}
		if st.Height > 0 {
			vp.Height = st.Height
		}
		if st.Ratio > 0 {
			vp.PixelRatio = st.Ratio
		}
		env.Loop.Resize(vp)
	case "hover":
		env.Driver.SetPointer(&Vec2{st.X, st.Y})
	case "sweep":
		r.queueSweep(st)
	case "leave":
		env.Driver.SetPointer(nil)
	case "screenshot":
		err = r.screenshot(env, st.Label)
	case "stop":
		env.Driver.Stop()
	default:
		Logger().Warn("tendril: unknown script action", "action", st.Action, "step", r.cursor-1)
	}

	r.finishIfDrained()
	return err
}

func (r *Script) finishIfDrained() {
	if r.cursor >= len(r.steps) && r.waitCount == 0 && len(r.pointer) == 0 {
		r.done = true
	}
}

// queueSweep queues a pointer path from (FromX, FromY) to (ToX, ToY)
// spread over Frames frames, endpoints included.
func (r *Script) queueSweep(st scriptStep) {
	frames := max(st.Frames, 2)
	for i := 0; i < frames; i++ {
		t := float64(i) / float64(frames-1)
		r.pointer = append(r.pointer, Vec2{
			X: st.FromX + (st.ToX-st.FromX)*t,
			Y: st.FromY + (st.ToY-st.FromY)*t,
		})
	}
}

func (r *Script) screenshot(env *ScriptEnv, label string) error {
	if env.Canvas == nil {
		return fmt.Errorf("script: screenshot %q: no canvas", label)
	}
	dir := env.ScreenshotDir
	if dir == "" {
		dir = "screenshots"
	}
	path, err := WriteScreenshot(env.Canvas, dir, label)
	if err != nil {
		return err
	}
	env.Shots = append(env.Shots, path)
	return nil
}
