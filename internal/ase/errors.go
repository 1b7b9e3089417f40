package ase

import "fmt"

// FormatError reports input that cannot be decoded: a bad signature or a
// truncated header, block header or payload field.
type FormatError struct {
	Offset int64  // byte offset where decoding failed
	Reason string // human-readable description
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("ase: format error at offset %d: %s", e.Offset, e.Reason)
}

// UnknownBlockError is a non-fatal warning for a block type the decoder
// does not understand. The block is skipped using its declared length.
type UnknownBlockError struct {
	Offset int64
	Type   uint16
	Length uint32
}

func (e *UnknownBlockError) Error() string {
	return fmt.Sprintf("ase: skipped unknown block type 0x%04X (%d bytes) at offset %d",
		e.Type, e.Length, e.Offset)
}

// UnsupportedModelError is a non-fatal warning for a color block whose
// model tag is not recognized, or whose payload ends before the model's
// channels. The color is kept with no channel values.
type UnsupportedModelError struct {
	Offset int64
	Name   string
	Tag    string // empty when the payload ends before the tag
	Need   int    // channel bytes the tag calls for, 0 for an unknown tag
	Have   int    // payload bytes left after the name or tag
}

func (e *UnsupportedModelError) Error() string {
	switch {
	case e.Tag == "":
		return fmt.Sprintf("ase: color %q at offset %d has no model tag (%d bytes left)",
			e.Name, e.Offset, e.Have)
	case e.Need > 0:
		return fmt.Sprintf("ase: color %q at offset %d: model %q needs %d channel bytes, block has %d",
			e.Name, e.Offset, e.Tag, e.Need, e.Have)
	}
	return fmt.Sprintf("ase: color %q at offset %d has unsupported model %q",
		e.Name, e.Offset, e.Tag)
}
