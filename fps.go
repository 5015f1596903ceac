package tendril

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
)

// fpsOverlay shows FPS, TPS and the driver's segment count. It redraws
// its image about every half second.
type fpsOverlay struct {
	img     *ebiten.Image
	elapsed float64
}

func newFPSOverlay() *fpsOverlay {
	// 140x48 fits three DebugPrint lines.
	return &fpsOverlay{img: ebiten.NewImage(140, 48), elapsed: 1}
}

func (o *fpsOverlay) update(dt float64, stats FrameStats) {
	o.elapsed += dt
	if o.elapsed < 0.5 {
		return
	}
	o.elapsed = 0

	o.img.Clear()
	o.img.Fill(color.RGBA{0, 0, 0, 128})
	ebitenutil.DebugPrint(o.img, fmt.Sprintf("FPS: %.1f\nTPS: %.1f\nSEG: %d",
		ebiten.ActualFPS(), ebiten.ActualTPS(), stats.Segments))
}

func (o *fpsOverlay) draw(screen *ebiten.Image) {
	screen.DrawImage(o.img, nil)
}
