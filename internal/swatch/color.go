package swatch

import (
	"math"

	"github.com/ironsheep/palette-tools-mcp/internal/colormath"
)

// RGBColor represents an RGB color with 8-bit components.
type RGBColor struct {
	R uint8 `json:"r"` // Red component (0-255)
	G uint8 `json:"g"` // Green component (0-255)
	B uint8 `json:"b"` // Blue component (0-255)
}

// HSLColor represents a color in HSL (Hue, Saturation, Lightness) color space.
type HSLColor struct {
	H int `json:"h"` // Hue: 0-360 degrees (0=red, 120=green, 240=blue)
	S int `json:"s"` // Saturation: 0-100 percent (0=gray, 100=vivid)
	L int `json:"l"` // Lightness: 0-100 percent (0=black, 50=normal, 100=white)
}

// ColorResult contains a display color in multiple representations.
//
// This struct provides the same color in three formats to suit different use cases:
//   - Hex: Compact string format for CSS/web usage
//   - RGB: Standard 8-bit components
//   - HSL: Perceptual color space, the same one used for sorting
type ColorResult struct {
	Hex string   `json:"hex"` // Hex format "#rrggbb"
	RGB RGBColor `json:"rgb"` // RGB components
	HSL HSLColor `json:"hsl"` // HSL representation
}

// DescribeColor expresses a resolved display color for output.
//
// Components outside [0,1] are clamped first, so the three representations
// always agree. Hue is rounded to whole degrees; saturation and lightness to
// whole percent.
func DescribeColor(c colormath.RGB) ColorResult {
	c = c.Clamp()
	r, g, b := c.To8()
	h, s, l := colormath.HSL(c)

	hue := int(math.Round(h))
	if hue == 360 {
		hue = 0
	}
	return ColorResult{
		Hex: colormath.Hex(c),
		RGB: RGBColor{R: r, G: g, B: b},
		HSL: HSLColor{
			H: hue,
			S: int(math.Round(s * 100)),
			L: int(math.Round(l * 100)),
		},
	}
}
