package tendril

import "testing"

func TestRenderLabel(t *testing.T) {
	img := renderLabel("Hi", Hex("#ff0000"))
	if img == nil {
		t.Fatal("renderLabel returned nil")
	}
	if b := img.Bounds(); b.Dx() != 14 || b.Dy() != labelLineHeight {
		t.Errorf("bounds = %v, want 14x%d", b, labelLineHeight)
	}
	inked := false
	for i := 3; i < len(img.Pix); i += 4 {
		if img.Pix[i] != 0 {
			if img.Pix[i-3] != 255 || img.Pix[i-1] != 0 {
				t.Fatalf("glyph pixel rgb = %v, want red", img.Pix[i-3:i])
			}
			inked = true
		}
	}
	if !inked {
		t.Error("label has no glyph pixels")
	}
	if renderLabel("", ColorWhite) != nil {
		t.Error("empty text should render nothing")
	}
}
