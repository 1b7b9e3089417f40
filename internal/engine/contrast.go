package engine

import (
	"github.com/ironsheep/palette-tools-mcp/internal/colormath"
	"github.com/ironsheep/palette-tools-mcp/internal/palette"
)

// Contrast describes how readable white and black text are on a color.
type Contrast struct {
	Luminance    float64 `json:"luminance"`
	AgainstWhite float64 `json:"contrast_white"`
	AgainstBlack float64 `json:"contrast_black"`
	Text         string  `json:"text_color"` // "white" or "black"
}

// ContrastOf computes text contrast for a display color.
func ContrastOf(bg colormath.RGB) Contrast {
	res := Contrast{
		Luminance:    colormath.RelativeLuminance(bg),
		AgainstWhite: colormath.ContrastRatio(bg, colormath.White),
		AgainstBlack: colormath.ContrastRatio(bg, colormath.Black),
		Text:         "black",
	}
	if colormath.BestTextColor(bg) == colormath.White {
		res.Text = "white"
	}
	return res
}

// Contrast computes text contrast for c's display color.
func (e *Engine) Contrast(c *palette.Color) Contrast {
	return ContrastOf(e.ResolveDisplayColor(c))
}

// TextColor returns white or black, whichever reads better on c.
func (e *Engine) TextColor(c *palette.Color) colormath.RGB {
	return colormath.BestTextColor(e.ResolveDisplayColor(c))
}
