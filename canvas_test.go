package tendril

import (
	"bytes"
	"errors"
	"image/png"
	"strings"
	"testing"
)

func TestNewCanvasRejectsEmptySize(t *testing.T) {
	if _, err := NewCanvas(Viewport{Width: 0, Height: 10}); err == nil {
		t.Error("expected error for zero width")
	}
	if _, err := NewCanvas(Viewport{Width: 10, Height: 0.2, PixelRatio: 2}); err == nil {
		t.Error("expected error for sub-pixel height")
	}
}

func TestCanvasAppliesPixelRatio(t *testing.T) {
	c, err := NewCanvas(Viewport{Width: 40, Height: 30, PixelRatio: 2})
	if err != nil {
		t.Fatal(err)
	}
	img := c.Image()
	if b := img.Bounds(); b.Dx() != 80 || b.Dy() != 60 {
		t.Fatalf("pixel size = %v, want 80x60", b)
	}

	c.FillCircle(10, 10, 4, Hex("#ff0000"))
	img = c.Image()
	if _, _, _, a := img.At(20, 20).RGBA(); a == 0 {
		t.Error("circle at logical (10, 10) should cover pixel (20, 20)")
	}
	if _, _, _, a := img.At(10, 10).RGBA(); a != 0 {
		t.Error("pixel (10, 10) is outside the scaled circle")
	}
}

func TestCanvasResize(t *testing.T) {
	c, err := NewCanvas(Viewport{Width: 10, Height: 10})
	if err != nil {
		t.Fatal(err)
	}
	if c.Viewport().PixelRatio != 1 {
		t.Errorf("default ratio = %v, want 1", c.Viewport().PixelRatio)
	}
	if err := c.Resize(Viewport{Width: 20, Height: 15, PixelRatio: 3}); err != nil {
		t.Fatal(err)
	}
	if b := c.Image().Bounds(); b.Dx() != 60 || b.Dy() != 45 {
		t.Errorf("pixel size after resize = %v, want 60x45", b)
	}
	if got := len(c.Pixels()); got != 60*45*4 {
		t.Errorf("len(Pixels) = %d, want %d", got, 60*45*4)
	}
}

func TestCanvasEncodePNG(t *testing.T) {
	c, err := NewCanvas(Viewport{Width: 16, Height: 8})
	if err != nil {
		t.Fatal(err)
	}
	c.Clear(Hex("#ffffff"))
	c.StrokeLine(0, 4, 16, 4, 2, Paint{Color: Hex("#000000"), Gradient: true, To: Hex("#00000000"), Length: 8})
	c.FillShape(quadLeafShape(4, 6), Placement{X: 8, Y: 1, Scale: 1}, Hex("#228B22"))

	var buf bytes.Buffer
	if err := c.EncodePNG(&buf); err != nil {
		t.Fatal(err)
	}
	img, err := png.Decode(&buf)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 16 || b.Dy() != 8 {
		t.Errorf("png size = %v", b)
	}
}

func TestCanvasResizeRejectsEmptySize(t *testing.T) {
	c, err := NewCanvas(Viewport{Width: 10, Height: 10})
	if err != nil {
		t.Fatal(err)
	}
	if err := c.Resize(Viewport{Width: 0, Height: 10}); err == nil {
		t.Error("expected error for zero width")
	}
	if c.Viewport().Width != 10 {
		t.Error("failed resize should keep the old viewport")
	}
}

func TestCanvasLogsFirstRasterError(t *testing.T) {
	buf := captureLogs(t)
	c, err := NewCanvas(Viewport{Width: 10, Height: 10, PixelRatio: 1})
	if err != nil {
		t.Fatal(err)
	}
	c.rasterErr("fill circle", nil)
	if buf.Len() != 0 {
		t.Fatalf("logged without an error: %q", buf.String())
	}
	c.rasterErr("fill circle", errors.New("no pixmap"))
	c.rasterErr("stroke line", errors.New("no pixmap"))

	out := buf.String()
	if n := strings.Count(out, "canvas raster failed"); n != 1 {
		t.Errorf("logged %d raster failures, want 1:\n%s", n, out)
	}
	if !strings.Contains(out, "level=DEBUG") || !strings.Contains(out, "op=\"fill circle\"") {
		t.Errorf("log = %q", out)
	}
}
