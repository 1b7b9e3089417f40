package colormath

import (
	"fmt"
	"math"
	"strings"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// RGB is a normalized sRGB color with components in [0,1].
type RGB struct {
	R float64 `json:"r"`
	G float64 `json:"g"`
	B float64 `json:"b"`
}

// CMYK is a process color with components in [0,1].
type CMYK struct {
	C, M, Y, K float64
}

var (
	White = RGB{1, 1, 1}
	Black = RGB{0, 0, 0}
)

// Clamp limits every component to [0,1].
func (c RGB) Clamp() RGB {
	return RGB{clamp01(c.R), clamp01(c.G), clamp01(c.B)}
}

// To8 returns the color as 8-bit components, rounding to nearest.
func (c RGB) To8() (r, g, b uint8) {
	c = c.Clamp()
	return uint8(math.Round(c.R * 255)), uint8(math.Round(c.G * 255)), uint8(math.Round(c.B * 255))
}

// From8 builds a normalized color from 8-bit components.
func From8(r, g, b uint8) RGB {
	return RGB{float64(r) / 255, float64(g) / 255, float64(b) / 255}
}

// Slice returns the components as [r g b].
func (c RGB) Slice() []float64 {
	return []float64{c.R, c.G, c.B}
}

// Hex formats the color as "#rrggbb".
func Hex(c RGB) string {
	return colorful.Color{R: c.R, G: c.G, B: c.B}.Clamped().Hex()
}

// ParseHex parses "#rrggbb" or "#rgb".
func ParseHex(s string) (RGB, error) {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "#") {
		s = "#" + s
	}
	c, err := colorful.Hex(s)
	if err != nil {
		return RGB{}, fmt.Errorf("invalid hex color %q: %w", s, err)
	}
	return RGB{c.R, c.G, c.B}, nil
}

// CMYKToRGB is the analytic device-independent approximation
// R = (1-c)(1-k), G = (1-m)(1-k), B = (1-y)(1-k).
func CMYKToRGB(c CMYK) RGB {
	return RGB{
		R: (1 - c.C) * (1 - c.K),
		G: (1 - c.M) * (1 - c.K),
		B: (1 - c.Y) * (1 - c.K),
	}
}

// RGBToCMYK converts with full gray component replacement: k is the
// common part of c, m and y. Pure black maps to (0,0,0,1).
func RGBToCMYK(rgb RGB) CMYK {
	c := 1 - rgb.R
	m := 1 - rgb.G
	y := 1 - rgb.B
	k := min(c, m, y)
	if k >= 1 {
		return CMYK{0, 0, 0, 1}
	}
	return CMYK{
		C: (c - k) / (1 - k),
		M: (m - k) / (1 - k),
		Y: (y - k) / (1 - k),
		K: k,
	}
}

// RGBToGray returns the Rec. 601 luma.
func RGBToGray(c RGB) float64 {
	return 0.299*c.R + 0.587*c.G + 0.114*c.B
}

// GrayToRGB spreads a gray value over all three channels.
func GrayToRGB(v float64) RGB {
	return RGB{v, v, v}
}

// HSL returns hue in degrees [0,360), saturation and lightness in [0,1].
func HSL(c RGB) (h, s, l float64) {
	return colorful.Color{R: c.R, G: c.G, B: c.B}.Clamped().Hsl()
}

func clamp01(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
