// Package engine turns stored swatch values into display colors.
//
// ResolveDisplayColor is the one function rendering and contrast checks
// depend on. It checks the reference table first, so a color that still
// carries its reference's numbers shows the canonical color. Otherwise it
// converts from the color's own model: CMYK through the device transform
// when one is loaded (analytic formula otherwise), Lab through XYZ with
// D50 to D65 adaptation, RGB and Gray directly.
package engine

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/ironsheep/palette-tools-mcp/internal/authority"
	"github.com/ironsheep/palette-tools-mcp/internal/colormath"
	"github.com/ironsheep/palette-tools-mcp/internal/devicecolor"
	"github.com/ironsheep/palette-tools-mcp/internal/palette"
)

// ErrUnsupportedModel is returned when converting from or to a color model
// the engine has no math for.
var ErrUnsupportedModel = errors.New("engine: unsupported color model")

// Engine resolves and converts colors against one reference table and an
// optional device transform. It holds no mutable state and is safe for
// concurrent use when its Transformer is.
type Engine struct {
	refs   *authority.Table
	device devicecolor.Transformer
	log    *zap.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithDeviceTransform sets the CMYK to sRGB transform. Without one, or
// whenever it fails, CMYK uses the analytic approximation.
func WithDeviceTransform(t devicecolor.Transformer) Option {
	return func(e *Engine) {
		e.device = t
	}
}

// WithLogger sets the logger used for debug output.
func WithLogger(l *zap.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.log = l
		}
	}
}

// New returns an engine using refs, which may be nil.
func New(refs *authority.Table, opts ...Option) *Engine {
	e := &Engine{refs: refs, log: zap.NewNop()}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// References returns the engine's reference table.
func (e *Engine) References() *authority.Table {
	return e.refs
}

// Device transform states reported by DeviceStatus.
const (
	DeviceNone    = "none"
	DeviceLoading = "loading"
	DeviceFailed  = "failed"
	DeviceReady   = "ready"
)

// DeviceStatus reports whether CMYK colors go through the device
// transform. A transform that loads in the background, like
// devicecolor.Service, is loading until its Ready method reports true.
func (e *Engine) DeviceStatus() string {
	switch d := e.device.(type) {
	case nil:
		return DeviceNone
	case interface {
		Ready() bool
		Err() error
	}:
		if d.Ready() {
			return DeviceReady
		}
		if d.Err() != nil {
			return DeviceFailed
		}
		return DeviceLoading
	default:
		return DeviceReady
	}
}

// MatchReference looks c up by name. It returns the entry when found, and
// whether the stored values are authoritative for it.
func (e *Engine) MatchReference(c *palette.Color) (authority.Entry, bool, bool) {
	ref, ok := e.refs.Lookup(c.Name)
	if !ok {
		return authority.Entry{}, false, false
	}
	return ref, true, ref.Matches(c.Model, c.Float64s())
}

// IsAuthoritative reports whether c matches a reference by name and, for
// RGB and CMYK, by value within authority.Tolerance.
func (e *Engine) IsAuthoritative(c *palette.Color) bool {
	_, _, auth := e.MatchReference(c)
	return auth
}

// ResolveDisplayColor returns the sRGB color to show for c.
//
// RGB and Gray values pass through as stored; Lab results are clamped to
// [0,1]. Missing channels read as zero.
func (e *Engine) ResolveDisplayColor(c *palette.Color) colormath.RGB {
	if ref, _, auth := e.MatchReference(c); auth {
		return ref.Canonical()
	}

	switch c.Model {
	case palette.ModelCMYK:
		return e.cmykToRGB(colormath.CMYK{
			C: c.Channel(0), M: c.Channel(1), Y: c.Channel(2), K: c.Channel(3),
		})
	case palette.ModelLab:
		return colormath.LabToRGB(colormath.Lab{
			L: colormath.NormalizeLabL(c.Channel(0)),
			A: c.Channel(1),
			B: c.Channel(2),
		})
	case palette.ModelRGB:
		return colormath.RGB{R: c.Channel(0), G: c.Channel(1), B: c.Channel(2)}
	case palette.ModelGray:
		return colormath.GrayToRGB(c.Channel(0))
	default:
		return colormath.Black
	}
}

func (e *Engine) cmykToRGB(c colormath.CMYK) colormath.RGB {
	if e.device != nil {
		r, g, b, err := e.device.TransformCMYK(c.C, c.M, c.Y, c.K)
		if err == nil {
			return colormath.From8(r, g, b)
		}
		if !errors.Is(err, devicecolor.ErrUnavailable) {
			e.log.Debug("device transform failed, using analytic CMYK", zap.Error(err))
		}
	}
	return colormath.CMYKToRGB(c)
}

// ConvertModel returns a copy of c with its values expressed in target.
//
// The display color is resolved first, so CMYK sources go through the
// device transform. When c is authoritative the reference's own numbers
// for target are used. Lab results store L as a 0..1 fraction, the file
// convention.
func (e *Engine) ConvertModel(c *palette.Color, target palette.ColorModel) (*palette.Color, error) {
	if c.Model.Channels() == 0 {
		return nil, fmt.Errorf("%w: source %s", ErrUnsupportedModel, c.Model)
	}
	if target.Channels() == 0 {
		return nil, fmt.Errorf("%w: target %s", ErrUnsupportedModel, target)
	}
	if target == c.Model {
		return c.Clone(), nil
	}

	var values []float64
	if ref, _, auth := e.MatchReference(c); auth {
		values, _ = ref.ValuesFor(target)
	} else {
		values = fromRGB(e.ResolveDisplayColor(c), target)
	}
	if target == palette.ModelLab {
		values = []float64{values[0] / 100, values[1], values[2]}
	}

	res := &palette.Color{
		Name:   c.Name,
		Model:  target,
		Values: make([]float32, len(values)),
		Type:   c.Type,
	}
	for i, v := range values {
		res.Values[i] = float32(v)
	}
	return res, nil
}

// fromRGB expresses rgb in model; Lab has L in 0..100.
func fromRGB(rgb colormath.RGB, model palette.ColorModel) []float64 {
	switch model {
	case palette.ModelCMYK:
		c := colormath.RGBToCMYK(rgb.Clamp())
		return []float64{c.C, c.M, c.Y, c.K}
	case palette.ModelLab:
		l := colormath.RGBToLab(rgb.Clamp())
		return []float64{l.L, l.A, l.B}
	case palette.ModelGray:
		return []float64{colormath.RGBToGray(rgb.Clamp())}
	default:
		return rgb.Slice()
	}
}
