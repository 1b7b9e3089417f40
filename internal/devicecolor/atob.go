package devicecolor

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/go-andiamo/iccarus"
)

// lutAToB is an ICC v4 lutAtoBType table. Stages run in the order A curves,
// CLUT, M curves, matrix, B curves; absent stages are skipped.
type lutAToB struct {
	in, out int
	a       []iccarus.ChannelTransformer
	clut    *iccarus.CLUTTag
	m       []iccarus.ChannelTransformer
	matrix  *iccarus.MatrixTag
	b       []iccarus.ChannelTransformer
}

var _ iccarus.ChannelTransformer = (*lutAToB)(nil)

// paraParams is the parameter count of each parametric curve function.
var paraParams = map[iccarus.ParametricCurveFunction]int{
	iccarus.SimpleGammaFunction:     1,
	iccarus.ConditionalZeroFunction: 3,
	iccarus.ConditionalCFunction:    4,
	iccarus.SplitFunction:           5,
	iccarus.ComplexFunction:         7,
}

// decodeLutAToB decodes an "mAB " tag. Element offsets are relative to the
// start of the tag; zero means the element is absent.
func decodeLutAToB(raw []byte) (any, error) {
	if len(raw) < 32 {
		return nil, errors.New("mAB tag too short")
	}
	l := &lutAToB{in: int(raw[8]), out: int(raw[9])}
	offB := binary.BigEndian.Uint32(raw[12:])
	offMatrix := binary.BigEndian.Uint32(raw[16:])
	offM := binary.BigEndian.Uint32(raw[20:])
	offCLUT := binary.BigEndian.Uint32(raw[24:])
	offA := binary.BigEndian.Uint32(raw[28:])

	if offB == 0 {
		return nil, errors.New("mAB: missing B curves")
	}
	// Without a CLUT the channel count cannot change.
	if offCLUT == 0 && l.in != l.out {
		return nil, fmt.Errorf("mAB: %d to %d channels without a CLUT", l.in, l.out)
	}

	var err error
	if l.b, err = readCurves(raw, offB, l.out); err != nil {
		return nil, fmt.Errorf("mAB: B curves: %w", err)
	}
	if offM != 0 {
		if l.m, err = readCurves(raw, offM, l.out); err != nil {
			return nil, fmt.Errorf("mAB: M curves: %w", err)
		}
	}
	if offMatrix != 0 {
		if l.out != 3 {
			return nil, fmt.Errorf("mAB: matrix needs 3 output channels, have %d", l.out)
		}
		if l.matrix, err = readMatrix(raw, offMatrix); err != nil {
			return nil, err
		}
	}
	if offCLUT != 0 {
		if l.clut, err = readCLUT(raw, offCLUT, l.in, l.out); err != nil {
			return nil, err
		}
	}
	if offA != 0 {
		if l.a, err = readCurves(raw, offA, l.in); err != nil {
			return nil, fmt.Errorf("mAB: A curves: %w", err)
		}
	}
	return l, nil
}

// Transform implements iccarus.ChannelTransformer.
func (l *lutAToB) Transform(inputs ...float64) ([]float64, error) {
	if len(inputs) != l.in {
		return nil, fmt.Errorf("mAB: expected %d input channels, got %d", l.in, len(inputs))
	}
	v := append([]float64(nil), inputs...)
	var err error
	if v, err = applyCurves(l.a, v); err != nil {
		return nil, err
	}
	if l.clut != nil {
		if v, err = l.clut.Transform(v...); err != nil {
			return nil, err
		}
	}
	if v, err = applyCurves(l.m, v); err != nil {
		return nil, err
	}
	if l.matrix != nil {
		if v, err = l.matrix.Transform(v...); err != nil {
			return nil, err
		}
	}
	return applyCurves(l.b, v)
}

func applyCurves(curves []iccarus.ChannelTransformer, v []float64) ([]float64, error) {
	for i, c := range curves {
		out, err := c.Transform(clamp01(v[i]))
		if err != nil {
			return nil, fmt.Errorf("curve %d: %w", i, err)
		}
		v[i] = out[0]
	}
	return v, nil
}

// readCurves reads n consecutive curv or para elements, each padded to a
// four-byte boundary.
func readCurves(raw []byte, off uint32, n int) ([]iccarus.ChannelTransformer, error) {
	pos := int(off)
	curves := make([]iccarus.ChannelTransformer, n)
	for i := range curves {
		if pos+12 > len(raw) {
			return nil, fmt.Errorf("curve %d out of bounds", i)
		}
		var size int
		switch string(raw[pos : pos+4]) {
		case "curv":
			count := int(binary.BigEndian.Uint32(raw[pos+8:]))
			size = 12 + 2*count
			if pos+size > len(raw) {
				return nil, fmt.Errorf("curv %d truncated", i)
			}
			curves[i] = curveFromPoints(raw[pos+12:pos+size], count)
		case "para":
			fn := iccarus.ParametricCurveFunction(binary.BigEndian.Uint16(raw[pos+8:]))
			np, ok := paraParams[fn]
			if !ok {
				return nil, fmt.Errorf("para %d: unknown function %d", i, fn)
			}
			size = 12 + 4*np
			if pos+size > len(raw) {
				return nil, fmt.Errorf("para %d truncated", i)
			}
			params := make([]float64, np)
			for j := range params {
				params[j] = s15Fixed16(raw[pos+12+4*j:])
			}
			curves[i] = &iccarus.ParametricCurveTag{FunctionType: fn, Parameters: params}
		default:
			return nil, fmt.Errorf("curve %d has type %q", i, raw[pos:pos+4])
		}
		pos += (size + 3) &^ 3
	}
	return curves, nil
}

func curveFromPoints(body []byte, count int) *iccarus.CurveTag {
	switch count {
	case 0:
		return &iccarus.CurveTag{Type: iccarus.CurveTypeIdentity}
	case 1:
		// u8Fixed8 gamma
		return &iccarus.CurveTag{Type: iccarus.CurveTypeGamma, Gamma: float64(binary.BigEndian.Uint16(body)) / 256}
	}
	points := make([]uint16, count)
	for i := range points {
		points[i] = binary.BigEndian.Uint16(body[2*i:])
	}
	return &iccarus.CurveTag{Type: iccarus.CurveTypePoints, Points: points}
}

// readMatrix reads a 3x3 matrix followed by three offsets, all s15Fixed16.
func readMatrix(raw []byte, off uint32) (*iccarus.MatrixTag, error) {
	pos := int(off)
	if pos+48 > len(raw) {
		return nil, errors.New("mAB: matrix out of bounds")
	}
	m := &iccarus.MatrixTag{Offset: &[3]float64{}}
	for i := range 9 {
		m.Matrix[i/3][i%3] = s15Fixed16(raw[pos+4*i:])
	}
	for i := range 3 {
		m.Offset[i] = s15Fixed16(raw[pos+36+4*i:])
	}
	return m, nil
}

// readCLUT reads the CLUT element: 16 grid-point bytes, a precision byte
// (1 or 2 bytes per value), three bytes of padding, then the values with
// the first input varying slowest.
func readCLUT(raw []byte, off uint32, in, out int) (*iccarus.CLUTTag, error) {
	pos := int(off)
	if in > 16 || pos+20 > len(raw) {
		return nil, errors.New("mAB: CLUT header out of bounds")
	}
	grid := make([]uint8, in)
	copy(grid, raw[pos:pos+in])
	n := out
	for i, g := range grid {
		if g < 2 {
			return nil, fmt.Errorf("mAB: CLUT input %d has %d grid points", i, g)
		}
		n *= int(g)
	}

	precision := int(raw[pos+16])
	if precision != 1 && precision != 2 {
		return nil, fmt.Errorf("mAB: CLUT precision %d", precision)
	}
	body := raw[pos+20:]
	if len(body) < n*precision {
		return nil, errors.New("mAB: CLUT values out of bounds")
	}

	values := make([]float64, n)
	for i := range values {
		if precision == 1 {
			values[i] = float64(body[i]) / 255
		} else {
			values[i] = float64(binary.BigEndian.Uint16(body[2*i:])) / 65535
		}
	}
	return &iccarus.CLUTTag{
		GridPoints:     grid,
		InputChannels:  uint8(in),
		OutputChannels: uint8(out),
		Values:         values,
	}, nil
}

func s15Fixed16(b []byte) float64 {
	return float64(int32(binary.BigEndian.Uint32(b))) / 65536
}
