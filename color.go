package tendril

import (
	"fmt"
	"strings"

	"github.com/gogpu/gg"
	"gopkg.in/yaml.v3"
)

// Color represents an RGBA color with components in [0, 1]. Not premultiplied.
// Premultiplication occurs when the surface rasterizes.
type Color struct {
	R, G, B, A float64
}

// ColorWhite is opaque white.
var ColorWhite = Color{1, 1, 1, 1}

// Hex parses "#RGB", "#RRGGBB" or "#RRGGBBAA" (the leading '#' is optional).
func Hex(s string) Color {
	c := gg.Hex(s)
	return Color{c.R, c.G, c.B, c.A}
}

// WithAlpha returns c with its alpha multiplied by a.
func (c Color) WithAlpha(a float64) Color {
	c.A *= clamp01(a)
	return c
}

// String formats the color as #RRGGBBAA.
func (c Color) String() string {
	return fmt.Sprintf("#%02x%02x%02x%02x", to255(c.R), to255(c.G), to255(c.B), to255(c.A))
}

func (c Color) rgba() gg.RGBA {
	return gg.RGBA2(c.R, c.G, c.B, c.A)
}

func to255(v float64) uint8 {
	return uint8(clamp01(v)*255 + 0.5)
}

// UnmarshalYAML decodes a hex string such as "#3B2F2F".
func (c *Color) UnmarshalYAML(n *yaml.Node) error {
	var s string
	if err := n.Decode(&s); err != nil {
		return fmt.Errorf("color: %w", err)
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return fmt.Errorf("color: empty value at line %d", n.Line)
	}
	*c = Hex(s)
	return nil
}

// MarshalYAML encodes the color as a hex string.
func (c Color) MarshalYAML() (any, error) {
	return c.String(), nil
}
