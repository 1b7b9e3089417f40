// Package colormath holds the pure color-model arithmetic behind display
// colors: RGB, CMYK, CIE Lab, CIE XYZ and gray, plus HSL keys and WCAG
// luminance and contrast.
//
// RGB values are normalized sRGB in [0,1]. Lab uses L* in 0..100 and a D50
// reference white; conversion to and from sRGB goes through a Bradford
// chromatic adaptation between D50 and D65.
//
// All functions are side-effect free and safe for concurrent use.
package colormath
