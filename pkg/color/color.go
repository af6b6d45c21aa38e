// Package color parses the CSS colors marks carry and blends them during
// transitions.
//
// Hex colors go through go-colorful; rgb() and rgba() are split by hand
// since go-colorful reads neither. Alpha travels alongside the RGB value.
package color

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// Color is an RGB color with an alpha in [0, 1].
type Color struct {
	colorful.Color
	A float64
}

// RGB255 builds an opaque color from 8-bit channels.
func RGB255(r, g, b uint8) Color {
	return Color{Color: colorful.Color{R: float64(r) / 255, G: float64(g) / 255, B: float64(b) / 255}, A: 1}
}

// Hex parses "#rrggbb" or "#rgb". The leading '#' is optional.
func Hex(s string) (Color, error) {
	if !strings.HasPrefix(s, "#") {
		s = "#" + s
	}
	if len(s) != 4 && len(s) != 7 {
		return Color{}, fmt.Errorf("invalid hex color %q", s)
	}
	c, err := colorful.Hex(s)
	if err != nil {
		return Color{}, fmt.Errorf("invalid hex color %q: %w", s, err)
	}
	return Color{Color: c, A: 1}, nil
}

// Parse reads "#rrggbb", "#rgb", "rgb(r, g, b)" or "rgba(r, g, b, a)".
func Parse(s string) (Color, bool) {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "#") {
		c, err := Hex(s)
		return c, err == nil
	}

	var body string
	switch {
	case strings.HasPrefix(s, "rgba(") && strings.HasSuffix(s, ")"):
		body = s[5 : len(s)-1]
	case strings.HasPrefix(s, "rgb(") && strings.HasSuffix(s, ")"):
		body = s[4 : len(s)-1]
	default:
		return Color{}, false
	}
	parts := strings.Split(body, ",")
	if len(parts) != 3 && len(parts) != 4 {
		return Color{}, false
	}
	vals := []float64{0, 0, 0, 1}
	for i, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return Color{}, false
		}
		vals[i] = f
	}
	return Color{
		Color: colorful.Color{R: vals[0] / 255, G: vals[1] / 255, B: vals[2] / 255},
		A:     vals[3],
	}, true
}

// Blend mixes c toward o in RGB space.
func (c Color) Blend(o Color, t float64) Color {
	return Color{Color: c.BlendRgb(o.Color, t), A: c.A + (o.A-c.A)*t}
}

// String formats c as a CSS rgba() value.
func (c Color) String() string {
	r, g, b := c.Clamped().RGB255()
	a := math.Round(max(0, min(1, c.A))*1000) / 1000
	return fmt.Sprintf("rgba(%d, %d, %d, %s)", r, g, b, strconv.FormatFloat(a, 'f', -1, 64))
}

// RGBA combines a hex color and an alpha into a CSS rgba() value. It
// returns "" when hex is missing or malformed.
func RGBA(hex string, alpha float64) string {
	c, err := Hex(hex)
	if err != nil {
		return ""
	}
	c.A = alpha
	return c.String()
}
