package swatch

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"strconv"

	"github.com/anthonynsimon/bild/imgio"
	"github.com/disintegration/imaging"

	"github.com/ironsheep/palette-tools-mcp/internal/colormath"
	"github.com/ironsheep/palette-tools-mcp/internal/palette"
)

// Resolver supplies the display color of each swatch.
type Resolver interface {
	ResolveDisplayColor(c *palette.Color) colormath.RGB
}

// Sheet layout defaults.
const (
	DefaultColumns    = 8
	DefaultSwatchSize = 48
	tileGap           = 4
	maxSwatchSize     = 512
	maxScale          = 8
)

// ErrNoColors is returned when a document has nothing to draw.
var ErrNoColors = errors.New("swatch: palette has no colors")

// SheetOptions controls the layout of a swatch sheet.
//
// Zero values select the defaults: DefaultColumns columns, DefaultSwatchSize
// pixel tiles, scale 1 and a white background.
type SheetOptions struct {
	Columns    int     // Tiles per row
	SwatchSize int     // Tile edge length in pixels, before scaling
	Labels     bool    // Draw each color's index in its tile
	Scale      float64 // Output scale factor (0.1-8)
	Background string  // Hex background color, "#rrggbb"
}

// SheetResult contains a rendered swatch sheet.
type SheetResult struct {
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	Columns     int    `json:"columns"`
	Rows        int    `json:"rows"`
	Count       int    `json:"count"`
	ImageBase64 string `json:"image_base64"`
	MimeType    string `json:"mime_type"`
}

func (o SheetOptions) withDefaults() (SheetOptions, error) {
	if o.Columns <= 0 {
		o.Columns = DefaultColumns
	}
	if o.SwatchSize <= 0 {
		o.SwatchSize = DefaultSwatchSize
	}
	if o.SwatchSize > maxSwatchSize {
		return o, fmt.Errorf("swatch size %d exceeds %d", o.SwatchSize, maxSwatchSize)
	}
	if o.Scale == 0 {
		o.Scale = 1
	}
	if o.Scale < 0.1 || o.Scale > maxScale {
		return o, fmt.Errorf("scale %v outside 0.1-%d", o.Scale, maxScale)
	}
	if o.Background == "" {
		o.Background = "#ffffff"
	}
	return o, nil
}

// Draw composes one tile per color of doc, in document order, left to
// right and top to bottom. Groups do not affect the layout.
//
// # Layout
//
// Tiles are SwatchSize pixels square with a fixed gap between them and
// around the edge. When Labels is set, the color's zero-based index is
// drawn in the tile's top-left corner in white or black, whichever has the
// higher contrast against the tile. The finished sheet is resized by Scale
// with nearest-neighbor sampling so tile edges stay sharp.
func Draw(doc *palette.Document, r Resolver, opts SheetOptions) (*image.NRGBA, error) {
	opts, err := opts.withDefaults()
	if err != nil {
		return nil, err
	}
	bg, err := colormath.ParseHex(opts.Background)
	if err != nil {
		return nil, fmt.Errorf("invalid background: %w", err)
	}

	colors := doc.Colors()
	if len(colors) == 0 {
		return nil, ErrNoColors
	}

	cols := min(opts.Columns, len(colors))
	rows := (len(colors) + cols - 1) / cols
	size := opts.SwatchSize
	width := tileGap + cols*(size+tileGap)
	height := tileGap + rows*(size+tileGap)

	sheet := imaging.New(width, height, toNRGBA(bg))
	for i, c := range colors {
		display := r.ResolveDisplayColor(c)
		tile := imaging.New(size, size, toNRGBA(display))
		if opts.Labels {
			drawLabel(tile, 3, 3, strconv.Itoa(i), toNRGBA(colormath.BestTextColor(display)))
		}
		x := tileGap + (i%cols)*(size+tileGap)
		y := tileGap + (i/cols)*(size+tileGap)
		sheet = imaging.Paste(sheet, tile, image.Pt(x, y))
	}

	if opts.Scale != 1 {
		w := max(1, int(float64(width)*opts.Scale))
		h := max(1, int(float64(height)*opts.Scale))
		sheet = imaging.Resize(sheet, w, h, imaging.NearestNeighbor)
	}
	return sheet, nil
}

// RenderSheet draws doc and returns the sheet as a base64 PNG.
func RenderSheet(doc *palette.Document, r Resolver, opts SheetOptions) (*SheetResult, error) {
	img, err := Draw(doc, r, opts)
	if err != nil {
		return nil, err
	}
	return EncodeSheet(img, len(doc.Colors()), opts)
}

// EncodeSheet encodes a sheet made by Draw for count colors as a base64 PNG.
func EncodeSheet(img image.Image, count int, opts SheetOptions) (*SheetResult, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("failed to encode sheet: %w", err)
	}

	cols := opts.Columns
	if cols <= 0 {
		cols = DefaultColumns
	}
	cols = max(1, min(cols, count))
	return &SheetResult{
		Width:       img.Bounds().Dx(),
		Height:      img.Bounds().Dy(),
		Columns:     cols,
		Rows:        (count + cols - 1) / cols,
		Count:       count,
		ImageBase64: base64.StdEncoding.EncodeToString(buf.Bytes()),
		MimeType:    "image/png",
	}, nil
}

// SaveSheet writes img to path as PNG.
func SaveSheet(path string, img image.Image) error {
	if err := imgio.Save(path, img, imgio.PNGEncoder()); err != nil {
		return fmt.Errorf("failed to save sheet: %w", err)
	}
	return nil
}

func toNRGBA(c colormath.RGB) color.NRGBA {
	r, g, b := c.To8()
	return color.NRGBA{R: r, G: g, B: b, A: 255}
}

// 3x5 pixel digits.
var glyphs = map[rune][]string{
	'0': {"111", "101", "101", "101", "111"},
	'1': {"010", "110", "010", "010", "111"},
	'2': {"111", "001", "111", "100", "111"},
	'3': {"111", "001", "111", "001", "111"},
	'4': {"101", "101", "111", "001", "001"},
	'5': {"111", "100", "111", "001", "111"},
	'6': {"111", "100", "111", "101", "111"},
	'7': {"111", "001", "001", "001", "001"},
	'8': {"111", "101", "111", "101", "111"},
	'9': {"111", "101", "111", "001", "111"},
}

// drawLabel draws text at (x, y) in fg, clipped to img. Runes without a
// glyph leave a blank cell.
func drawLabel(img draw.Image, x, y int, text string, fg color.Color) {
	const charWidth = 4

	bounds := img.Bounds()
	cx := x
	for _, ch := range text {
		for row, line := range glyphs[ch] {
			for col, pixel := range line {
				px, py := cx+col, y+row
				if pixel == '1' && image.Pt(px, py).In(bounds) {
					img.Set(px, py, fg)
				}
			}
		}
		cx += charWidth
	}
}
