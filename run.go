package tendril

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
)

// RunConfig holds optional parameters for Run.
type RunConfig struct {
	// Title sets the window title.
	Title string
	// Width and Height set the window size in logical pixels. Zero
	// defaults to 640x480.
	Width, Height int
	// ShowFPS draws an FPS and segment counter in the top-left corner.
	ShowFPS bool
	// Resizable lets the user resize the window. Resizes reach the driver
	// through the loop's resize listeners.
	Resizable bool
}

// Run opens a window and animates the driver returned by setup. setup is
// called once, after the first layout, with a fresh Loop and a Canvas sized
// to the window. The loop ticks once per ebiten Update. Escape stops the
// driver and closes the window.
func Run(cfg RunConfig, setup func(loop *Loop, s Surface) *Driver) error {
	if cfg.Width <= 0 {
		cfg.Width = 640
	}
	if cfg.Height <= 0 {
		cfg.Height = 480
	}
	ebiten.SetWindowTitle(cfg.Title)
	ebiten.SetWindowSize(cfg.Width, cfg.Height)
	if cfg.Resizable {
		ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	}

	g := &host{cfg: cfg, setup: setup}
	if cfg.ShowFPS {
		g.fps = newFPSOverlay()
	}
	err := ebiten.RunGame(g)
	if g.driver != nil {
		g.driver.Stop()
	}
	if err != nil && !errors.Is(err, ebiten.Termination) {
		return err
	}
	return g.err
}

// host implements ebiten.Game around a Loop and a Canvas.
type host struct {
	cfg    RunConfig
	setup  func(*Loop, Surface) *Driver
	vp     Viewport
	loop   *Loop
	canvas *Canvas
	driver *Driver
	img    *ebiten.Image
	fps    *fpsOverlay
	err    error
}

func (g *host) Update() error {
	if g.loop == nil {
		if err := g.start(); err != nil {
			g.err = err
			return ebiten.Termination
		}
	}
	if ebiten.IsKeyPressed(ebiten.KeyEscape) {
		g.driver.Stop()
		return ebiten.Termination
	}

	x, y := ebiten.CursorPosition()
	ratio := g.vp.ratio()
	g.driver.SetPointer(&Vec2{float64(x) / ratio, float64(y) / ratio})
	g.loop.Tick()

	if g.fps != nil {
		g.fps.update(1/float64(ebiten.TPS()), g.driver.Stats())
	}
	return nil
}

func (g *host) start() error {
	c, err := NewCanvas(g.vp)
	if err != nil {
		return fmt.Errorf("run: %w", err)
	}
	g.canvas = c
	g.loop = NewLoop(g.vp)
	g.loop.FrameInterval = time.Second / time.Duration(ebiten.TPS())
	g.driver = g.setup(g.loop, c)
	if g.driver == nil {
		return errors.New("run: setup returned no driver")
	}
	return nil
}

func (g *host) Draw(screen *ebiten.Image) {
	if g.canvas == nil {
		return
	}
	w, h := g.canvas.Viewport().Pixels()
	if g.img == nil || g.img.Bounds().Dx() != w || g.img.Bounds().Dy() != h {
		if g.img != nil {
			g.img.Deallocate()
		}
		g.img = ebiten.NewImage(w, h)
	}
	g.img.WritePixels(g.canvas.Pixels())
	screen.DrawImage(g.img, nil)
	if g.fps != nil {
		g.fps.draw(screen)
	}
}

// Layout reports the physical pixel size so the canvas maps 1:1 onto the
// screen, and forwards size or scale changes to the loop.
func (g *host) Layout(outsideWidth, outsideHeight int) (int, int) {
	ratio := ebiten.Monitor().DeviceScaleFactor()
	vp := Viewport{Width: float64(outsideWidth), Height: float64(outsideHeight), PixelRatio: ratio}
	if vp != g.vp {
		g.vp = vp
		if g.loop != nil {
			g.loop.Resize(vp)
		}
	}
	return int(math.Floor(vp.Width * ratio)), int(math.Floor(vp.Height * ratio))
}
