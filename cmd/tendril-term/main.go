// Command tendril-term previews a scene in the terminal. Each cell shows two
// vertically stacked canvas samples using the upper half block glyph. Move
// the mouse over a bubble to hover it; r replants, q or Esc quits.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/phanxgames/tendril"
	"github.com/phanxgames/tendril/config"
)

const frameInterval = 16 * time.Millisecond // ~60 FPS

type preview struct {
	screen tcell.Screen
	cfg    *config.Config
	scene  string

	canvas *tendril.Canvas
	loop   *tendril.Loop
	driver *tendril.Driver
	bg     tendril.Color
}

func main() {
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	scene := flag.String("scene", "vines", "Scene to grow: plant, roots, vines or about")
	logPath := flag.String("log", "", "Write logs to this file (the terminal is in use)")
	flag.Parse()

	if *logPath != "" {
		f, err := os.Create(*logPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to open log: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		tendril.SetLogger(slog.New(slog.NewTextHandler(f, nil)))
	}

	if err := config.Init(*configPath); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize: %v\n", err)
		os.Exit(1)
	}
	if err := screen.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize: %v\n", err)
		os.Exit(1)
	}
	screen.EnableMouse()

	p := &preview{screen: screen, cfg: config.Cfg(), scene: *scene}
	if err := p.start(); err != nil {
		screen.Fini()
		fmt.Fprintf(os.Stderr, "Failed to start scene: %v\n", err)
		os.Exit(1)
	}
	p.run()
	p.driver.Stop()
	screen.Fini()
}

// start plants the scene on a fresh canvas, stopping any previous driver.
func (p *preview) start() error {
	if p.driver != nil {
		p.driver.Stop()
	}
	vp := p.cfg.Derived.Viewport
	canvas, err := tendril.NewCanvas(vp)
	if err != nil {
		return err
	}
	origin, opts, err := p.cfg.Scene(p.scene, vp, p.cfg.Source())
	if err != nil {
		return err
	}
	p.canvas = canvas
	p.loop = tendril.NewLoop(vp)
	p.bg = opts.Background
	p.driver = tendril.Start(p.loop, canvas, origin, opts)
	return nil
}

func (p *preview) run() {
	ticker := time.NewTicker(frameInterval)
	defer ticker.Stop()

	done := make(chan struct{})
	defer close(done)
	eventChan := pollEvents(p.screen, done)

	for {
		select {
		case ev, ok := <-eventChan:
			if !ok || !p.handleEvent(ev) {
				return
			}
		case <-ticker.C:
			p.loop.Tick()
			p.draw()
		}
	}
}

// pollEvents forwards screen events until the screen is finalized
// (PollEvent returns nil) or done is closed.
func pollEvents(src interface{ PollEvent() tcell.Event }, done <-chan struct{}) <-chan tcell.Event {
	events := make(chan tcell.Event, 100)
	go func() {
		defer close(events)
		for {
			ev := src.PollEvent()
			if ev == nil {
				return
			}
			select {
			case events <- ev:
			case <-done:
				return
			}
		}
	}()
	return events
}

func (p *preview) handleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC {
			return false
		}
		if ev.Key() == tcell.KeyRune {
			switch ev.Rune() {
			case 'q':
				return false
			case 'r':
				if err := p.start(); err != nil {
					tendril.Logger().Warn("restart failed", "error", err)
				}
			}
		}
	case *tcell.EventMouse:
		x, y := ev.Position()
		pt := p.toLogical(x, y)
		p.driver.SetPointer(&pt)
	case *tcell.EventResize:
		p.screen.Sync()
	}
	return true
}

// toLogical maps a cell to the logical canvas point at its center.
func (p *preview) toLogical(x, y int) tendril.Vec2 {
	cols, rows := p.screen.Size()
	vp := p.canvas.Viewport()
	return tendril.Vec2{
		X: (float64(x) + 0.5) * vp.Width / float64(max(cols, 1)),
		Y: (float64(y) + 0.5) * vp.Height / float64(max(rows, 1)),
	}
}

func (p *preview) draw() {
	cols, rows := p.screen.Size()
	if cols <= 0 || rows <= 0 {
		return
	}
	w, h := p.canvas.Viewport().Pixels()
	pix := p.canvas.Pixels()
	for cy := 0; cy < rows; cy++ {
		for cx := 0; cx < cols; cx++ {
			top := p.sample(pix, w, h, cx, cy*2, cols, rows*2)
			bottom := p.sample(pix, w, h, cx, cy*2+1, cols, rows*2)
			p.screen.SetContent(cx, cy, '▀', nil, tcell.StyleDefault.Foreground(top).Background(bottom))
		}
	}
	p.screen.Show()
}

// sample returns the canvas pixel at the center of cell (x, y) in a
// cols by rows grid, composited over the scene background.
func (p *preview) sample(pix []byte, w, h, x, y, cols, rows int) tcell.Color {
	px := (2*x + 1) * w / (2 * cols)
	py := (2*y + 1) * h / (2 * rows)
	i := (py*w + px) * 4
	if i < 0 || i+3 >= len(pix) {
		return tcell.ColorBlack
	}
	a := int32(pix[i+3])
	over := func(c uint8, bg float64) int32 {
		return int32(c) + int32(bg*255)*(255-a)/255
	}
	return tcell.NewRGBColor(over(pix[i], p.bg.R), over(pix[i+1], p.bg.G), over(pix[i+2], p.bg.B))
}
