package ase

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"

	"golang.org/x/text/encoding/unicode"

	"github.com/ironsheep/palette-tools-mcp/internal/palette"
)

// Signature is the four-byte magic at the start of every file.
const Signature = "ASEF"

// Block type codes.
const (
	BlockGroupStart uint16 = 0xC001
	BlockGroupEnd   uint16 = 0xC002
	BlockColor      uint16 = 0x0001
)

const (
	headerSize      = 12
	blockHeaderSize = 6
)

var utf16BE = unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM)

// DecodeOption configures Decode.
type DecodeOption func(*decoder)

// WithWarningHandler registers fn to receive non-fatal problems found while
// decoding: *UnknownBlockError and *UnsupportedModelError.
func WithWarningHandler(fn func(error)) DecodeOption {
	return func(d *decoder) {
		d.warn = fn
	}
}

type decoder struct {
	warn func(error)
}

func (d *decoder) warning(err error) {
	if d.warn != nil {
		d.warn(err)
	}
}

// Decode parses a complete file held in data.
//
// On a *FormatError no document is returned.
func Decode(data []byte, opts ...DecodeOption) (*palette.Document, error) {
	d := &decoder{}
	for _, opt := range opts {
		opt(d)
	}
	return d.decode(data)
}

// DecodeReader reads all of r and decodes it.
func DecodeReader(r io.Reader, opts ...DecodeOption) (*palette.Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read palette: %w", err)
	}
	return Decode(data, opts...)
}

func (d *decoder) decode(data []byte) (*palette.Document, error) {
	if len(data) < len(Signature) || string(data[:len(Signature)]) != Signature {
		return nil, &FormatError{Offset: 0, Reason: "missing ASEF signature"}
	}

	r := &cursor{data: data}
	r.pos = len(Signature)
	major, err := r.uint16()
	if err != nil {
		return nil, err
	}
	minor, err := r.uint16()
	if err != nil {
		return nil, err
	}
	count, err := r.uint32()
	if err != nil {
		return nil, err
	}

	doc := &palette.Document{
		Version: palette.Version{Major: major, Minor: minor},
		Blocks:  make([]palette.Block, 0, min(int(count), (len(data)-headerSize)/blockHeaderSize)),
	}

	for i := uint32(0); i < count; i++ {
		blockStart := r.pos
		typ, err := r.uint16()
		if err != nil {
			return nil, err
		}
		length, err := r.uint32()
		if err != nil {
			return nil, err
		}

		end := int64(blockStart) + blockHeaderSize + int64(length)
		if end > int64(len(data)) {
			return nil, &FormatError{
				Offset: int64(blockStart),
				Reason: fmt.Sprintf("block %d declares %d payload bytes but only %d remain",
					i, length, len(data)-r.pos),
			}
		}

		payload := &cursor{data: data[:end], pos: r.pos}
		block, err := d.decodeBlock(typ, length, blockStart, payload)
		if err != nil {
			return nil, err
		}
		if block != nil {
			doc.Blocks = append(doc.Blocks, block)
		}

		// The declared length wins over however far the fields took us.
		r.pos = int(end)
	}

	return doc, nil
}

func (d *decoder) decodeBlock(typ uint16, length uint32, start int, p *cursor) (palette.Block, error) {
	switch typ {
	case BlockGroupStart:
		name, err := p.name()
		if err != nil {
			return nil, err
		}
		return &palette.GroupStart{Name: name}, nil

	case BlockGroupEnd:
		return &palette.GroupEnd{}, nil

	case BlockColor:
		name, err := p.name()
		if err != nil {
			return nil, err
		}
		if p.remaining() < 4 {
			d.warning(&UnsupportedModelError{Offset: int64(start), Name: name, Have: p.remaining()})
			return &palette.Color{Name: name, Model: palette.ModelUnknown, Type: palette.TypeProcess}, nil
		}
		tag, _ := p.bytes(4)
		model := palette.ParseModelTag(string(tag))
		if model == palette.ModelUnknown {
			d.warning(&UnsupportedModelError{Offset: int64(start), Name: name, Tag: string(tag)})
			return &palette.Color{Name: name, Model: model, Type: palette.TypeProcess}, nil
		}
		// A payload cut short of the channels keeps the color without values.
		if need := 4 * model.Channels(); p.remaining() < need {
			d.warning(&UnsupportedModelError{
				Offset: int64(start), Name: name, Tag: string(tag),
				Need: need, Have: p.remaining(),
			})
			return &palette.Color{Name: name, Model: palette.ModelUnknown, Type: palette.TypeProcess}, nil
		}

		values := make([]float32, model.Channels())
		for i := range values {
			bits, _ := p.uint32()
			values[i] = math.Float32frombits(bits)
		}
		ct := uint16(palette.TypeProcess)
		if p.remaining() >= 2 {
			ct, _ = p.uint16()
		}
		return &palette.Color{
			Name:   name,
			Model:  model,
			Values: values,
			Type:   palette.ColorType(ct),
		}, nil

	default:
		d.warning(&UnknownBlockError{Offset: int64(start), Type: typ, Length: length})
		return nil, nil
	}
}

// cursor reads big-endian fields from data, failing with a FormatError
// instead of reading past its end.
type cursor struct {
	data []byte
	pos  int
}

func (c *cursor) remaining() int {
	return len(c.data) - c.pos
}

func (c *cursor) bytes(n int) ([]byte, error) {
	if n < 0 || len(c.data)-c.pos < n {
		return nil, &FormatError{
			Offset: int64(c.pos),
			Reason: fmt.Sprintf("truncated: need %d bytes, have %d", n, len(c.data)-c.pos),
		}
	}
	b := c.data[c.pos : c.pos+n]
	c.pos += n
	return b, nil
}

func (c *cursor) uint16() (uint16, error) {
	b, err := c.bytes(2)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint16(b), nil
}

func (c *cursor) uint32() (uint32, error) {
	b, err := c.bytes(4)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint32(b), nil
}

// name reads a length-prefixed UTF-16 string whose length includes a
// trailing null unit.
func (c *cursor) name() (string, error) {
	n, err := c.uint16()
	if err != nil {
		return "", err
	}
	if n == 0 {
		return "", nil
	}
	raw, err := c.bytes(2 * int(n))
	if err != nil {
		return "", err
	}
	s, err := utf16BE.NewDecoder().Bytes(raw[:2*(int(n)-1)])
	if err != nil {
		return "", &FormatError{Offset: int64(c.pos - len(raw)), Reason: "invalid UTF-16 name: " + err.Error()}
	}
	return string(s), nil
}
