package colormath

// RelativeLuminance is the WCAG relative luminance of an sRGB color.
func RelativeLuminance(c RGB) float64 {
	c = c.Clamp()
	return 0.2126*Linearize(c.R) + 0.7152*Linearize(c.G) + 0.0722*Linearize(c.B)
}

// ContrastRatio returns (L_lighter + 0.05) / (L_darker + 0.05), in [1,21].
func ContrastRatio(a, b RGB) float64 {
	la, lb := RelativeLuminance(a), RelativeLuminance(b)
	if la < lb {
		la, lb = lb, la
	}
	return (la + 0.05) / (lb + 0.05)
}

// BestTextColor picks white or black, whichever contrasts more with bg.
// Ties go to black.
func BestTextColor(bg RGB) RGB {
	if ContrastRatio(bg, White) > ContrastRatio(bg, Black) {
		return White
	}
	return Black
}
