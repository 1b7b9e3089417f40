package devicecolor

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/go-andiamo/iccarus"
	"seehuhn.de/go/icc"

	"github.com/ironsheep/palette-tools-mcp/internal/colormath"
)

// Device-to-PCS tags, colorimetric first. A2B0 (perceptual) is the fallback
// when a profile only ships one.
const (
	tagA2B1 icc.TagType = 0x41324231
	tagA2B0 icc.TagType = 0x41324230
)

var a2bTags = []struct {
	sig  icc.TagType
	name iccarus.TagHeaderName
}{
	{tagA2B1, iccarus.TagHeaderAToB1},
	{tagA2B0, iccarus.TagHeaderAToB0},
}

// LoadProfileFile returns a LoadFunc that reads and parses the CMYK
// output profile at path.
func LoadProfileFile(path string) LoadFunc {
	return func(ctx context.Context) (Transformer, error) {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("devicecolor: read profile: %w", err)
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		return ParseProfile(data)
	}
}

// ProfileTransform converts CMYK to sRGB with a profile's device-to-PCS
// table, relative colorimetric intent and black point compensation. The
// sRGB side uses the fixed D50 to sRGB path from colormath.
type ProfileTransform struct {
	table     iccarus.ChannelTransformer
	pcsLab    bool
	legacyLab bool // mft2 16-bit Lab, L up to 0xFF00
	black     colormath.XYZ
}

// ParseProfile validates data as a CMYK ICC profile and builds its
// transform.
func ParseProfile(data []byte) (*ProfileTransform, error) {
	// icc.Decode may zero header fields while checking the profile ID.
	p, err := icc.Decode(bytes.Clone(data))
	if err != nil {
		return nil, fmt.Errorf("devicecolor: decode profile: %w", err)
	}
	if p.ColorSpace != icc.CMYKSpace {
		return nil, fmt.Errorf("devicecolor: profile color space is %v, want CMYK", p.ColorSpace)
	}

	var pcsLab bool
	switch p.PCS {
	case icc.PCSLabSpace:
		pcsLab = true
	case icc.PCSXYZSpace:
	default:
		return nil, fmt.Errorf("devicecolor: unsupported PCS %v", p.PCS)
	}

	var name iccarus.TagHeaderName
	for _, t := range a2bTags {
		if _, ok := p.TagData[t.sig]; ok {
			name = t.name
			break
		}
	}
	if name == "" {
		return nil, errors.New("devicecolor: profile has no A2B1 or A2B0 table")
	}

	prof, err := iccarus.ParseProfile(bytes.NewReader(data), &iccarus.ParseOptions{
		LazyTagDecode: true,
		TagDecoders: map[string]func([]byte) (any, error){
			iccarus.TagModularAB: decodeLutAToB,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("devicecolor: parse tags: %w", err)
	}
	v, err := prof.TagValue(name)
	if err != nil {
		return nil, fmt.Errorf("devicecolor: %s: %w", name, err)
	}

	t := &ProfileTransform{pcsLab: pcsLab}
	var in, out int
	switch lut := v.(type) {
	case *iccarus.MFT2Tag:
		in, out = int(lut.InputChannels), int(lut.OutputChannels)
		t.table, t.legacyLab = lut, pcsLab
	case *iccarus.MFT1Tag:
		in, out = int(lut.InputChannels), int(lut.OutputChannels)
		t.table = lut
	case *lutAToB:
		in, out = lut.in, lut.out
		t.table = lut
	default:
		return nil, fmt.Errorf("devicecolor: %s has unsupported type %T", name, v)
	}
	if in != 4 || out != 3 {
		return nil, fmt.Errorf("devicecolor: table maps %d to %d channels, want 4 to 3", in, out)
	}

	// Source black is the darker of key-only black and full ink.
	k, err := t.pcs(0, 0, 0, 1)
	if err != nil {
		return nil, fmt.Errorf("devicecolor: %s: %w", name, err)
	}
	rich, err := t.pcs(1, 1, 1, 1)
	if err != nil {
		return nil, fmt.Errorf("devicecolor: %s: %w", name, err)
	}
	t.black = k
	if rich.Y < k.Y {
		t.black = rich
	}
	return t, nil
}

// TransformCMYK implements Transformer.
func (t *ProfileTransform) TransformCMYK(c, m, y, k float64) (uint8, uint8, uint8, error) {
	xyz, err := t.pcs(c, m, y, k)
	if err != nil {
		return 0, 0, 0, err
	}
	r, g, b := colormath.XYZD50ToRGB(t.compensate(xyz)).To8()
	return r, g, b, nil
}

// pcs evaluates the table and decodes its output as D50 XYZ.
func (t *ProfileTransform) pcs(c, m, y, k float64) (colormath.XYZ, error) {
	out, err := t.table.Transform(clamp01(c), clamp01(m), clamp01(y), clamp01(k))
	if err != nil {
		return colormath.XYZ{}, err
	}

	if t.pcsLab {
		var lab colormath.Lab
		if t.legacyLab {
			// Legacy 16-bit Lab: L 0..0xFF00, a/b offset by 0x8000.
			lab = colormath.Lab{
				L: out[0] * 65535 / 65280 * 100,
				A: out[1]*65535/256 - 128,
				B: out[2]*65535/256 - 128,
			}
		} else {
			lab = colormath.Lab{
				L: out[0] * 100,
				A: out[1]*255 - 128,
				B: out[2]*255 - 128,
			}
		}
		return colormath.LabToXYZ(lab), nil
	}

	// u1Fixed15: 0x8000 is 1.0.
	const scale = 65535.0 / 32768.0
	return colormath.XYZ{X: out[0] * scale, Y: out[1] * scale, Z: out[2] * scale}, nil
}

// compensate maps the source black point onto sRGB black, keeping the
// white point fixed.
func (t *ProfileTransform) compensate(c colormath.XYZ) colormath.XYZ {
	w := colormath.D50
	b := t.black
	return colormath.XYZ{
		X: bpc(c.X, b.X, w.X),
		Y: bpc(c.Y, b.Y, w.Y),
		Z: bpc(c.Z, b.Z, w.Z),
	}
}

func bpc(v, black, white float64) float64 {
	if black >= white {
		return v
	}
	return max(0, white*(v-black)/(white-black))
}

func clamp01(v float64) float64 {
	if v < 0 || v != v {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
