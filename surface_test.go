package tendril

import "image"

// drawCall is one call recorded by recordingSurface.
type drawCall struct {
	op        string
	x, y      float64
	x1, y1    float64
	r, width  float64
	color     Color
	paint     Paint
	placement Placement
	img       image.Image
}

// recordingSurface is a Surface that records calls instead of drawing.
type recordingSurface struct {
	vp        Viewport
	calls     []drawCall
	clears    int
	resizes   []Viewport
	resizeErr error
}

func newRecordingSurface(w, h float64) *recordingSurface {
	return &recordingSurface{vp: Viewport{Width: w, Height: h, PixelRatio: 1}}
}

func (s *recordingSurface) Viewport() Viewport { return s.vp }

func (s *recordingSurface) Resize(v Viewport) error {
	s.resizes = append(s.resizes, v)
	if s.resizeErr != nil {
		return s.resizeErr
	}
	s.vp = v
	return nil
}

func (s *recordingSurface) Clear(c Color) { s.clears++ }

func (s *recordingSurface) FillCircle(x, y, r float64, c Color) {
	s.calls = append(s.calls, drawCall{op: "fillCircle", x: x, y: y, r: r, color: c})
}

func (s *recordingSurface) StrokeCircle(x, y, r, width float64, c Color) {
	s.calls = append(s.calls, drawCall{op: "strokeCircle", x: x, y: y, r: r, width: width, color: c})
}

func (s *recordingSurface) StrokeLine(x0, y0, x1, y1, width float64, p Paint) {
	s.calls = append(s.calls, drawCall{op: "line", x: x0, y: y0, x1: x1, y1: y1, width: width, paint: p})
}

func (s *recordingSurface) FillShape(sh Shape, p Placement, c Color) {
	s.calls = append(s.calls, drawCall{op: "shape", x: p.X, y: p.Y, placement: p, color: c})
}

func (s *recordingSurface) DrawImage(img image.Image, x, y, w, h, alpha float64) {
	s.calls = append(s.calls, drawCall{op: "image", x: x, y: y, x1: w, y1: h, img: img})
}

// count returns the number of recorded calls with the given op.
func (s *recordingSurface) count(op string) int {
	n := 0
	for _, c := range s.calls {
		if c.op == op {
			n++
		}
	}
	return n
}
