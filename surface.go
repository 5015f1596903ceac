package tendril

import "image"

// Surface is the mutable 2D raster target a driver draws onto. All
// coordinates are logical; implementations scale by the viewport's pixel
// ratio so strokes stay crisp on high-density displays.
//
// A surface is owned by exactly one driver at a time.
type Surface interface {
	// Viewport reports the current logical size and pixel ratio.
	Viewport() Viewport
	// Resize reallocates the backing store. Existing pixels may be lost.
	Resize(v Viewport) error
	// Clear fills the whole surface with c.
	Clear(c Color)
	// FillCircle fills a disc of radius r centered at (x, y).
	FillCircle(x, y, r float64, c Color)
	// StrokeCircle outlines a circle of radius r with the given line width.
	StrokeCircle(x, y, r, width float64, c Color)
	// StrokeLine draws a round-capped line from (x0, y0) to (x1, y1).
	StrokeLine(x0, y0, x1, y1, width float64, p Paint)
	// FillShape fills a closed shape placed at p.
	FillShape(s Shape, p Placement, c Color)
	// DrawImage draws img scaled into the w by h box at (x, y).
	DrawImage(img image.Image, x, y, w, h, alpha float64)
}

// Paint is a stroke style: a solid color or a two-stop linear gradient
// running from the start of the line along its direction for Length units.
type Paint struct {
	Color    Color
	Gradient bool
	To       Color
	Length   float64
}

// SolidPaint returns a Paint with a single color.
func SolidPaint(c Color) Paint { return Paint{Color: c} }

// PathOp is one command of a Shape outline.
type PathOp uint8

const (
	OpMoveTo  PathOp = iota // start a new subpath at P[0]
	OpLineTo                // straight line to P[0]
	OpQuadTo                // quadratic curve, control P[0], end P[1]
	OpCubicTo               // cubic curve, controls P[0] P[1], end P[2]
)

// PathCmd is a single outline command with up to three points.
type PathCmd struct {
	Op PathOp
	P  [3]Vec2
}

// Shape is a closed outline in local coordinates.
type Shape []PathCmd

// Placement positions a Shape: translate to (X, Y), rotate, then scale.
type Placement struct {
	X, Y     float64
	Rotation float64
	Scale    float64
}
