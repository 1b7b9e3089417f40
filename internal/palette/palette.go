package palette

import (
	"fmt"
	"strings"
)

// Version is the major/minor version pair stored in a document header.
type Version struct {
	Major uint16 `json:"major"`
	Minor uint16 `json:"minor"`
}

// String returns the version as "major.minor".
func (v Version) String() string {
	return fmt.Sprintf("%d.%d", v.Major, v.Minor)
}

// DefaultVersion is the version written for newly created documents.
var DefaultVersion = Version{Major: 1, Minor: 0}

// Document is a swatch palette: a version and an ordered block sequence.
//
// Block order is meaningful. It is both the palette order and, through
// GroupStart/GroupEnd bracketing, the group nesting.
type Document struct {
	Version Version
	Blocks  []Block
}

// NewDocument returns an empty document with DefaultVersion.
func NewDocument() *Document {
	return &Document{Version: DefaultVersion}
}

// BlockKind identifies the variant of a Block.
type BlockKind uint8

const (
	KindGroupStart BlockKind = iota + 1
	KindGroupEnd
	KindColor
)

// String returns a lowercase name for the kind.
func (k BlockKind) String() string {
	switch k {
	case KindGroupStart:
		return "group_start"
	case KindGroupEnd:
		return "group_end"
	case KindColor:
		return "color"
	default:
		return fmt.Sprintf("unknown(%d)", k)
	}
}

// Block is one structural unit of a document.
//
// The implementations are *GroupStart, *GroupEnd and *Color.
type Block interface {
	Kind() BlockKind
	clone() Block
}

// GroupStart opens a named group.
type GroupStart struct {
	Name string
}

// Kind returns KindGroupStart.
func (g *GroupStart) Kind() BlockKind { return KindGroupStart }

func (g *GroupStart) clone() Block { return &GroupStart{Name: g.Name} }

// GroupEnd closes the innermost open group. It carries no name.
type GroupEnd struct{}

// Kind returns KindGroupEnd.
func (g *GroupEnd) Kind() BlockKind { return KindGroupEnd }

func (g *GroupEnd) clone() Block { return &GroupEnd{} }

// Color is a named swatch.
//
// Values holds the channel values in Model's native domain. The slice
// normally has Model.Channels() entries, but decoded colors with an
// unrecognized model have none, and callers must not assume the length.
type Color struct {
	Name   string
	Model  ColorModel
	Values []float32
	Type   ColorType
}

// Kind returns KindColor.
func (c *Color) Kind() BlockKind { return KindColor }

func (c *Color) clone() Block { return c.Clone() }

// Clone returns a deep copy of c.
func (c *Color) Clone() *Color {
	res := *c
	res.Values = append([]float32(nil), c.Values...)
	return &res
}

// Channel returns channel i as float64, or 0 if Values is shorter.
func (c *Color) Channel(i int) float64 {
	if i < 0 || i >= len(c.Values) {
		return 0
	}
	return float64(c.Values[i])
}

// Float64s returns the channel values widened to float64.
func (c *Color) Float64s() []float64 {
	res := make([]float64, len(c.Values))
	for i, v := range c.Values {
		res[i] = float64(v)
	}
	return res
}

// ColorModel is the color space a Color's channel values are expressed in.
type ColorModel uint8

const (
	ModelUnknown ColorModel = iota
	ModelRGB
	ModelCMYK
	ModelLab
	ModelGray
)

// Channels returns the number of channels stored for the model.
// ModelUnknown has no channels.
func (m ColorModel) Channels() int {
	switch m {
	case ModelRGB, ModelLab:
		return 3
	case ModelCMYK:
		return 4
	case ModelGray:
		return 1
	default:
		return 0
	}
}

// Tag returns the 4-byte, space-padded tag used on the wire.
// Unknown models are written as RGB.
func (m ColorModel) Tag() string {
	switch m {
	case ModelCMYK:
		return "CMYK"
	case ModelLab:
		return "LAB "
	case ModelGray:
		return "Gray"
	default:
		return "RGB "
	}
}

// String returns the user-facing model name.
func (m ColorModel) String() string {
	switch m {
	case ModelRGB:
		return "RGB"
	case ModelCMYK:
		return "CMYK"
	case ModelLab:
		return "Lab"
	case ModelGray:
		return "Gray"
	default:
		return "unknown"
	}
}

// ParseModelTag maps a wire tag to a model. Tags compare case-insensitively
// after trimming padding; anything else yields ModelUnknown.
func ParseModelTag(tag string) ColorModel {
	switch strings.ToUpper(strings.TrimSpace(tag)) {
	case "RGB":
		return ModelRGB
	case "CMYK":
		return ModelCMYK
	case "LAB":
		return ModelLab
	case "GRAY":
		return ModelGray
	default:
		return ModelUnknown
	}
}

// ParseModel parses a user-supplied model name such as "rgb" or "grey".
func ParseModel(name string) (ColorModel, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "rgb":
		return ModelRGB, nil
	case "cmyk":
		return ModelCMYK, nil
	case "lab":
		return ModelLab, nil
	case "gray", "grey":
		return ModelGray, nil
	default:
		return ModelUnknown, fmt.Errorf("unknown color model: %q", name)
	}
}

// ColorType is the swatch usage class stored with every color.
type ColorType uint16

const (
	TypeGlobal  ColorType = 0
	TypeSpot    ColorType = 1
	TypeProcess ColorType = 2
)

// IsGlobal reports whether the color is selected as a global swatch.
// Spot colors count as global.
func (t ColorType) IsGlobal() bool {
	return t == TypeGlobal || t == TypeSpot
}

// String returns "global", "spot", "process", or the raw number.
func (t ColorType) String() string {
	switch t {
	case TypeGlobal:
		return "global"
	case TypeSpot:
		return "spot"
	case TypeProcess:
		return "process"
	default:
		return fmt.Sprintf("type(%d)", uint16(t))
	}
}

// Stats summarises the block sequence of a document.
type Stats struct {
	Blocks     int `json:"blocks"`
	Groups     int `json:"groups"`
	Colors     int `json:"colors"`
	GroupEnds  int `json:"group_ends"`
	OrphanEnds int `json:"orphan_ends"`
	Unclosed   int `json:"unclosed_groups"`
}

// Stats counts blocks by kind and reports bracket mismatches.
func (d *Document) Stats() Stats {
	var s Stats
	depth := 0
	for _, b := range d.Blocks {
		s.Blocks++
		switch b.Kind() {
		case KindGroupStart:
			s.Groups++
			depth++
		case KindGroupEnd:
			s.GroupEnds++
			if depth == 0 {
				s.OrphanEnds++
			} else {
				depth--
			}
		case KindColor:
			s.Colors++
		}
	}
	s.Unclosed = depth
	return s
}

// Colors returns the color blocks in document order.
func (d *Document) Colors() []*Color {
	var res []*Color
	for _, b := range d.Blocks {
		if c, ok := b.(*Color); ok {
			res = append(res, c)
		}
	}
	return res
}

// GroupPaths returns, for every color in document order, the names of the
// groups enclosing it from outermost to innermost. Orphan GroupEnd blocks
// are ignored.
func (d *Document) GroupPaths() [][]string {
	var res [][]string
	var stack []string
	for _, b := range d.Blocks {
		switch b := b.(type) {
		case *GroupStart:
			stack = append(stack, b.Name)
		case *GroupEnd:
			if len(stack) > 0 {
				stack = stack[:len(stack)-1]
			}
		case *Color:
			res = append(res, append([]string(nil), stack...))
		}
	}
	return res
}

// Clone returns a deep copy of the document.
func (d *Document) Clone() *Document {
	res := &Document{
		Version: d.Version,
		Blocks:  make([]Block, len(d.Blocks)),
	}
	for i, b := range d.Blocks {
		res.Blocks[i] = b.clone()
	}
	return res
}
