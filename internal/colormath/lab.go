package colormath

import "math"

// Lab is a CIE 1976 L*a*b* color relative to D50, with L in 0..100.
type Lab struct {
	L, A, B float64
}

// XYZ is a CIE 1931 tristimulus value scaled so that Y=1 is white.
type XYZ struct {
	X, Y, Z float64
}

// D50 reference white, Y=100 scale.
const (
	WhiteD50X = 96.422
	WhiteD50Y = 100.0
	WhiteD50Z = 82.521
)

// D50 is the D50 white in Y=1 scale.
var D50 = XYZ{WhiteD50X / 100, WhiteD50Y / 100, WhiteD50Z / 100}

// CIE thresholds.
const (
	labEpsilon = 0.008856
	labKappa   = 903.3
)

// labLScaleLimit is the largest L taken to be stored in 0..1.
const labLScaleLimit = 1.05

// NormalizeLabL maps an L value that looks stored as a 0..1 fraction onto
// 0..100. Values in (0, 1.05] are scaled by 100; a genuine near-black L
// around 1.0 in 0..100 units is therefore misread as bright.
func NormalizeLabL(l float64) float64 {
	if l > 0 && l <= labLScaleLimit {
		return l * 100
	}
	return l
}

var (
	bradfordD50toD65 = [9]float64{
		0.9555766, -0.0230393, 0.0631636,
		-0.0282895, 1.0099416, 0.0210077,
		0.0122982, -0.0204830, 1.3299098,
	}
	bradfordD65toD50 = [9]float64{
		1.0478112, 0.0228866, -0.0501270,
		0.0295424, 0.9904844, -0.0170491,
		-0.0092345, 0.0150436, 0.7521316,
	}
	xyzD65toLinearSRGB = [9]float64{
		3.2404542, -1.5371385, -0.4985314,
		-0.9692660, 1.8760108, 0.0415560,
		0.0556434, -0.2040259, 1.0572252,
	}
	linearSRGBtoXYZD65 = [9]float64{
		0.4124564, 0.3575761, 0.1804375,
		0.2126729, 0.7151522, 0.0721750,
		0.0193339, 0.1191920, 0.9503041,
	}
)

func mul(m [9]float64, x, y, z float64) (float64, float64, float64) {
	return m[0]*x + m[1]*y + m[2]*z,
		m[3]*x + m[4]*y + m[5]*z,
		m[6]*x + m[7]*y + m[8]*z
}

// LabToXYZ converts Lab (L in 0..100) to XYZ relative to D50.
func LabToXYZ(c Lab) XYZ {
	fy := (c.L + 16) / 116
	fx := c.A/500 + fy
	fz := fy - c.B/200

	xr := fx * fx * fx
	if xr <= labEpsilon {
		xr = (116*fx - 16) / labKappa
	}
	var yr float64
	if c.L > labKappa*labEpsilon {
		yr = fy * fy * fy
	} else {
		yr = c.L / labKappa
	}
	zr := fz * fz * fz
	if zr <= labEpsilon {
		zr = (116*fz - 16) / labKappa
	}

	return XYZ{xr * D50.X, yr * D50.Y, zr * D50.Z}
}

// XYZToLab converts XYZ relative to D50 to Lab.
func XYZToLab(c XYZ) Lab {
	f := func(t float64) float64 {
		if t > labEpsilon {
			return math.Cbrt(t)
		}
		return (labKappa*t + 16) / 116
	}
	fx := f(c.X / D50.X)
	fy := f(c.Y / D50.Y)
	fz := f(c.Z / D50.Z)
	return Lab{
		L: 116*fy - 16,
		A: 500 * (fx - fy),
		B: 200 * (fy - fz),
	}
}

// XYZD50ToRGB adapts D50 XYZ to D65, applies the sRGB matrix and transfer
// curve, and clamps the result.
func XYZD50ToRGB(c XYZ) RGB {
	x, y, z := mul(bradfordD50toD65, c.X, c.Y, c.Z)
	r, g, b := mul(xyzD65toLinearSRGB, x, y, z)
	return RGB{gammaEncode(r), gammaEncode(g), gammaEncode(b)}.Clamp()
}

// RGBToXYZD50 linearizes sRGB and maps it to XYZ adapted to D50.
func RGBToXYZD50(c RGB) XYZ {
	x, y, z := mul(linearSRGBtoXYZD65, Linearize(c.R), Linearize(c.G), Linearize(c.B))
	x, y, z = mul(bradfordD65toD50, x, y, z)
	return XYZ{x, y, z}
}

// LabToRGB converts Lab (L in 0..100) to clamped sRGB.
func LabToRGB(c Lab) RGB {
	return XYZD50ToRGB(LabToXYZ(c))
}

// RGBToLab converts sRGB to Lab with L in 0..100.
func RGBToLab(c RGB) Lab {
	return XYZToLab(RGBToXYZD50(c))
}

func gammaEncode(v float64) float64 {
	if v <= 0.0031308 {
		return 12.92 * v
	}
	return 1.055*math.Pow(v, 1/2.4) - 0.055
}

// Linearize removes the sRGB transfer curve from one channel.
func Linearize(v float64) float64 {
	if v <= 0.04045 {
		return v / 12.92
	}
	return math.Pow((v+0.055)/1.055, 2.4)
}
