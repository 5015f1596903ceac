package tendril

import (
	"image"
	"image/color"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

const labelLineHeight = 13

// renderLabel rasterizes text with the 7x13 bitmap face. It returns nil for
// empty text.
func renderLabel(text string, c Color) *image.RGBA {
	if text == "" {
		return nil
	}
	face := basicfont.Face7x13
	width := font.MeasureString(face, text).Ceil()
	img := image.NewRGBA(image.Rect(0, 0, width, labelLineHeight))
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(color.NRGBA{R: to255(c.R), G: to255(c.G), B: to255(c.B), A: 255}),
		Face: face,
		Dot:  fixed.P(0, face.Metrics().Ascent.Ceil()),
	}
	d.DrawString(text)
	return img
}
