package ase

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/ironsheep/palette-tools-mcp/internal/palette"
)

// maxNameUnits is the longest name that fits a uint16 length with its null.
const maxNameUnits = math.MaxUint16 - 1

// Encode serialises doc.
//
// Lengths are recomputed from the block contents, so the output may differ
// byte-for-byte from the file the document was decoded from while carrying
// the same blocks.
func Encode(doc *palette.Document) ([]byte, error) {
	var buf bytes.Buffer
	if err := EncodeTo(&buf, doc); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// EncodeTo writes doc to w.
func EncodeTo(w io.Writer, doc *palette.Document) error {
	if doc == nil {
		return errors.New("ase: nil document")
	}
	if uint64(len(doc.Blocks)) > math.MaxUint32 {
		return fmt.Errorf("ase: too many blocks: %d", len(doc.Blocks))
	}

	out := make([]byte, 0, headerSize+len(doc.Blocks)*32)
	out = append(out, Signature...)
	out = binary.BigEndian.AppendUint16(out, doc.Version.Major)
	out = binary.BigEndian.AppendUint16(out, doc.Version.Minor)
	out = binary.BigEndian.AppendUint32(out, uint32(len(doc.Blocks)))

	for i, b := range doc.Blocks {
		typ, payload, err := encodeBlock(b)
		if err != nil {
			return fmt.Errorf("ase: block %d: %w", i, err)
		}
		out = binary.BigEndian.AppendUint16(out, typ)
		out = binary.BigEndian.AppendUint32(out, uint32(len(payload)))
		out = append(out, payload...)
	}

	_, err := w.Write(out)
	return err
}

func encodeBlock(b palette.Block) (uint16, []byte, error) {
	switch b := b.(type) {
	case *palette.GroupStart:
		payload, err := appendName(nil, b.Name)
		if err != nil {
			return 0, nil, err
		}
		return BlockGroupStart, payload, nil

	case *palette.GroupEnd:
		return BlockGroupEnd, nil, nil

	case *palette.Color:
		payload, err := appendName(nil, b.Name)
		if err != nil {
			return 0, nil, err
		}
		payload = append(payload, b.Model.Tag()...)
		for _, v := range b.Values {
			payload = binary.BigEndian.AppendUint32(payload, math.Float32bits(v))
		}
		payload = binary.BigEndian.AppendUint16(payload, uint16(b.Type))
		return BlockColor, payload, nil

	case nil:
		return 0, nil, errors.New("nil block")

	default:
		return 0, nil, fmt.Errorf("unsupported block %T", b)
	}
}

// appendName writes the uint16 unit count (including the null) followed
// by the UTF-16 units and the null terminator.
func appendName(dst []byte, name string) ([]byte, error) {
	units, err := utf16BE.NewEncoder().String(name)
	if err != nil {
		return nil, fmt.Errorf("encode name %q: %w", name, err)
	}
	n := len(units) / 2
	if n > maxNameUnits {
		return nil, fmt.Errorf("name has %d UTF-16 units, limit is %d", n, maxNameUnits)
	}
	dst = binary.BigEndian.AppendUint16(dst, uint16(n+1))
	dst = append(dst, units...)
	dst = append(dst, 0, 0)
	return dst, nil
}
