package tendril

import (
	"fmt"
	"image"
	"io"

	"github.com/gogpu/gg"
)

// Canvas is a CPU raster Surface backed by a gg drawing context. The
// context is sized in physical pixels and carries a base scale of the pixel
// ratio, so callers always draw in logical coordinates.
type Canvas struct {
	dc     *gg.Context
	vp     Viewport
	images map[image.Image]*gg.ImageBuf
	// rasterFailed is set after the first fill or stroke error is logged.
	rasterFailed bool
}

// NewCanvas allocates a canvas for the viewport. It returns an error when
// the physical size is empty.
func NewCanvas(v Viewport) (*Canvas, error) {
	w, h := v.Pixels()
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("canvas: invalid size %dx%d", w, h)
	}
	c := &Canvas{
		dc:     gg.NewContext(w, h),
		images: make(map[image.Image]*gg.ImageBuf),
	}
	c.vp = v
	c.vp.PixelRatio = v.ratio()
	c.applyBase()
	return c, nil
}

// Viewport implements Surface.
func (c *Canvas) Viewport() Viewport { return c.vp }

// Resize implements Surface. The pixel buffer is reallocated (and so
// cleared) when the physical size changes; the base transform is always
// reset to the new pixel ratio.
func (c *Canvas) Resize(v Viewport) error {
	w, h := v.Pixels()
	if w <= 0 || h <= 0 {
		return fmt.Errorf("canvas: invalid size %dx%d", w, h)
	}
	if err := c.dc.Resize(w, h); err != nil {
		return fmt.Errorf("canvas: resize: %w", err)
	}
	c.vp = v
	c.vp.PixelRatio = v.ratio()
	c.applyBase()
	return nil
}

func (c *Canvas) applyBase() {
	c.dc.Identity()
	c.dc.Scale(c.vp.PixelRatio, c.vp.PixelRatio)
	c.dc.SetLineCap(gg.LineCapRound)
	c.dc.SetLineJoin(gg.LineJoinRound)
}

// rasterErr logs the first fill or stroke failure at debug level. Drawing
// carries on regardless.
func (c *Canvas) rasterErr(op string, err error) {
	if err == nil || c.rasterFailed {
		return
	}
	c.rasterFailed = true
	Logger().Debug("tendril: canvas raster failed", "op", op, "err", err)
}

// Clear implements Surface.
func (c *Canvas) Clear(col Color) {
	c.dc.ClearWithColor(col.rgba())
}

// FillCircle implements Surface.
func (c *Canvas) FillCircle(x, y, r float64, col Color) {
	if r <= 0 {
		return
	}
	c.dc.SetFillBrush(gg.Solid(col.rgba()))
	c.dc.DrawCircle(x, y, r)
	c.rasterErr("fill circle", c.dc.Fill())
}

// StrokeCircle implements Surface.
func (c *Canvas) StrokeCircle(x, y, r, width float64, col Color) {
	if r <= 0 || width <= 0 {
		return
	}
	c.dc.SetStrokeBrush(gg.Solid(col.rgba()))
	c.dc.SetLineWidth(width)
	c.dc.DrawCircle(x, y, r)
	c.rasterErr("stroke circle", c.dc.Stroke())
}

// StrokeLine implements Surface.
func (c *Canvas) StrokeLine(x0, y0, x1, y1, width float64, p Paint) {
	if width <= 0 {
		return
	}
	if p.Gradient {
		dir := Vec2{x1 - x0, y1 - y0}
		n := dir.Len()
		if n == 0 {
			n = 1
		}
		l := p.Length
		if l <= 0 {
			l = n
		}
		ex := x0 + dir.X/n*l
		ey := y0 + dir.Y/n*l
		c.dc.SetStrokeBrush(gg.NewLinearGradientBrush(x0, y0, ex, ey).
			AddColorStop(0, p.Color.rgba()).
			AddColorStop(1, p.To.rgba()))
	} else {
		c.dc.SetStrokeBrush(gg.Solid(p.Color.rgba()))
	}
	c.dc.SetLineWidth(width)
	c.dc.DrawLine(x0, y0, x1, y1)
	c.rasterErr("stroke line", c.dc.Stroke())
}

// FillShape implements Surface.
func (c *Canvas) FillShape(s Shape, pl Placement, col Color) {
	if len(s) == 0 || pl.Scale <= 0 {
		return
	}
	c.dc.Push()
	c.dc.Translate(pl.X, pl.Y)
	c.dc.Rotate(pl.Rotation)
	c.dc.Scale(pl.Scale, pl.Scale)
	for _, cmd := range s {
		p := cmd.P
		switch cmd.Op {
		case OpMoveTo:
			c.dc.MoveTo(p[0].X, p[0].Y)
		case OpLineTo:
			c.dc.LineTo(p[0].X, p[0].Y)
		case OpQuadTo:
			c.dc.QuadraticTo(p[0].X, p[0].Y, p[1].X, p[1].Y)
		case OpCubicTo:
			c.dc.CubicTo(p[0].X, p[0].Y, p[1].X, p[1].Y, p[2].X, p[2].Y)
		}
	}
	c.dc.ClosePath()
	c.dc.SetFillBrush(gg.Solid(col.rgba()))
	c.rasterErr("fill shape", c.dc.Fill())
	c.dc.Pop()
}

// DrawImage implements Surface. Converted images are cached by identity.
func (c *Canvas) DrawImage(img image.Image, x, y, w, h, alpha float64) {
	if img == nil || w <= 0 || h <= 0 || alpha <= 0 {
		return
	}
	buf, ok := c.images[img]
	if !ok {
		buf = gg.ImageBufFromImage(img)
		c.images[img] = buf
	}
	c.dc.DrawImageEx(buf, gg.DrawImageOptions{
		X:             x,
		Y:             y,
		DstWidth:      w,
		DstHeight:     h,
		Interpolation: gg.InterpBilinear,
		Opacity:       clamp01(alpha),
		BlendMode:     gg.BlendNormal,
	})
}

// Image returns a copy of the physical pixels.
func (c *Canvas) Image() *image.RGBA {
	_ = c.dc.FlushGPU()
	return c.dc.ResizeTarget().ToImage()
}

// Pixels returns the live RGBA pixel buffer. The slice is invalidated by
// Resize and must not be retained across frames.
func (c *Canvas) Pixels() []byte {
	_ = c.dc.FlushGPU()
	return c.dc.ResizeTarget().Data()
}

// EncodePNG writes the canvas as PNG.
func (c *Canvas) EncodePNG(w io.Writer) error {
	if err := c.dc.EncodePNG(w); err != nil {
		return fmt.Errorf("canvas: encode png: %w", err)
	}
	return nil
}
