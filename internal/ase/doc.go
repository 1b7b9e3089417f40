// Package ase reads and writes swatch exchange files.
//
// The format is block-oriented and big-endian throughout:
//
//	header  "ASEF" · major uint16 · minor uint16 · blockCount uint32
//	block   type uint16 · length uint32 · payload[length]
//
// Block types:
//   - 0xC001 group start: nameLength uint16 · name UTF-16
//   - 0xC002 group end: empty payload
//   - 0x0001 color: nameLength uint16 · name UTF-16 · model [4]byte ·
//     N × float32 · colorType uint16
//
// nameLength counts UTF-16 code units including a trailing null, which is
// consumed but not part of the name.
//
// # Forward Compatibility
//
// The declared block length is authoritative. After the known fields of a
// block are parsed, decoding continues at the end offset recorded before
// parsing, so extra trailing bytes and unknown block types are skipped
// without misaligning the blocks that follow. Unknown block types and
// unknown color models are reported through the optional warning handler
// and never fail the decode.
//
// # Errors
//
// A bad signature or any truncated read returns a *FormatError and no
// document.
package ase
