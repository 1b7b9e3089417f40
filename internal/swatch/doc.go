// Package swatch presents resolved palette colors for people and tools.
//
// It describes single display colors in hex, 8-bit RGB and HSL, and draws
// whole palettes as swatch sheets.
//
// # Color Representation
//
// Colors are handed in as normalized sRGB from the conversion engine and
// returned in multiple formats:
//   - Hex: 6-character format "#rrggbb"
//   - RGB: 8-bit components (0-255)
//   - HSL: Hue (0-360), Saturation (0-100), Lightness (0-100)
//
// # Swatch Sheets
//
// A sheet is a grid of square tiles, one per color in document order, with
// an optional index label in each tile. Sheets are returned as base64 PNG
// for transport or written to disk with SaveSheet. Drawing depends only on
// a Resolver, so the same sheet code serves any engine configuration.
//
// # Thread Safety
//
// All functions are stateless and may be called concurrently as long as
// the Resolver is safe for concurrent use and the document is not being
// modified.
package swatch
