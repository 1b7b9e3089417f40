package swatch

import (
	"bytes"
	"encoding/base64"
	"errors"
	"image"
	"image/png"
	"path/filepath"
	"testing"

	"github.com/anthonynsimon/bild/imgio"
	"github.com/google/go-cmp/cmp"

	"github.com/ironsheep/palette-tools-mcp/internal/colormath"
	"github.com/ironsheep/palette-tools-mcp/internal/palette"
)

type rgbResolver struct{}

func (rgbResolver) ResolveDisplayColor(c *palette.Color) colormath.RGB {
	return colormath.RGB{R: c.Channel(0), G: c.Channel(1), B: c.Channel(2)}
}

func testDocument(colors ...[3]float32) *palette.Document {
	doc := palette.NewDocument()
	doc.Blocks = append(doc.Blocks, &palette.GroupStart{Name: "group"})
	for _, c := range colors {
		doc.Blocks = append(doc.Blocks, &palette.Color{
			Name:   "c",
			Model:  palette.ModelRGB,
			Values: []float32{c[0], c[1], c[2]},
		})
	}
	doc.Blocks = append(doc.Blocks, &palette.GroupEnd{})
	return doc
}

func rgbAt(img image.Image, x, y int) (uint8, uint8, uint8) {
	r, g, b, _ := img.At(x, y).RGBA()
	return uint8(r >> 8), uint8(g >> 8), uint8(b >> 8)
}

func TestDescribeColor(t *testing.T) {
	tests := []struct {
		name string
		in   colormath.RGB
		want ColorResult
	}{
		{
			name: "red",
			in:   colormath.RGB{R: 1},
			want: ColorResult{Hex: "#ff0000", RGB: RGBColor{R: 255}, HSL: HSLColor{H: 0, S: 100, L: 50}},
		},
		{
			name: "gray",
			in:   colormath.RGB{R: 0.5, G: 0.5, B: 0.5},
			want: ColorResult{Hex: "#808080", RGB: RGBColor{R: 128, G: 128, B: 128}, HSL: HSLColor{L: 50}},
		},
		{
			name: "out of range clamps",
			in:   colormath.RGB{R: 2, G: -1, B: 1},
			want: ColorResult{Hex: "#ff00ff", RGB: RGBColor{R: 255, B: 255}, HSL: HSLColor{H: 300, S: 100, L: 50}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, DescribeColor(tt.in)); diff != "" {
				t.Errorf("DescribeColor mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestDraw_Layout(t *testing.T) {
	doc := testDocument([3]float32{1, 0, 0}, [3]float32{0, 1, 0}, [3]float32{0, 0, 1})

	img, err := Draw(doc, rgbResolver{}, SheetOptions{Columns: 2, SwatchSize: 10})
	if err != nil {
		t.Fatalf("Draw failed: %v", err)
	}

	// Two columns, two rows of 10px tiles with 4px gaps.
	if w, h := img.Bounds().Dx(), img.Bounds().Dy(); w != 32 || h != 32 {
		t.Fatalf("dimensions: got %dx%d, want 32x32", w, h)
	}

	tests := []struct {
		name    string
		x, y    int
		r, g, b uint8
	}{
		{"first tile", 9, 9, 255, 0, 0},
		{"second tile", 23, 9, 0, 255, 0},
		{"third tile wraps", 9, 23, 0, 0, 255},
		{"empty slot is background", 23, 23, 255, 255, 255},
		{"gap is background", 1, 1, 255, 255, 255},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, g, b := rgbAt(img, tt.x, tt.y)
			if r != tt.r || g != tt.g || b != tt.b {
				t.Errorf("at (%d,%d): got (%d,%d,%d), want (%d,%d,%d)", tt.x, tt.y, r, g, b, tt.r, tt.g, tt.b)
			}
		})
	}
}

func TestDraw_Labels(t *testing.T) {
	doc := testDocument([3]float32{0, 0, 0.2}, [3]float32{1, 1, 0.8})

	img, err := Draw(doc, rgbResolver{}, SheetOptions{SwatchSize: 20, Labels: true})
	if err != nil {
		t.Fatalf("Draw failed: %v", err)
	}

	// The "0" glyph's top-left pixel sits at tile origin + (3,3).
	if r, g, b := rgbAt(img, tileGap+3, tileGap+3); r != 255 || g != 255 || b != 255 {
		t.Errorf("label on dark tile: got (%d,%d,%d), want white", r, g, b)
	}
	x := tileGap + 20 + tileGap
	if r, g, b := rgbAt(img, x+3+1, tileGap+3); r != 0 || g != 0 || b != 0 {
		t.Errorf("label on light tile: got (%d,%d,%d), want black", r, g, b)
	}
}

func TestDraw_ScaleAndBackground(t *testing.T) {
	doc := testDocument([3]float32{1, 0, 0})

	img, err := Draw(doc, rgbResolver{}, SheetOptions{SwatchSize: 10, Scale: 2, Background: "#000000"})
	if err != nil {
		t.Fatalf("Draw failed: %v", err)
	}
	if w := img.Bounds().Dx(); w != 36 {
		t.Errorf("scaled width: got %d, want 36", w)
	}
	if r, g, b := rgbAt(img, 0, 0); r != 0 || g != 0 || b != 0 {
		t.Errorf("background: got (%d,%d,%d), want black", r, g, b)
	}
}

func TestDraw_Errors(t *testing.T) {
	full := testDocument([3]float32{1, 0, 0})
	tests := []struct {
		name string
		doc  *palette.Document
		opts SheetOptions
	}{
		{"no colors", palette.NewDocument(), SheetOptions{}},
		{"scale too large", full, SheetOptions{Scale: 20}},
		{"negative scale", full, SheetOptions{Scale: -1}},
		{"swatch too large", full, SheetOptions{SwatchSize: 4096}},
		{"bad background", full, SheetOptions{Background: "nope"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Draw(tt.doc, rgbResolver{}, tt.opts); err == nil {
				t.Error("Draw should fail")
			}
		})
	}

	if _, err := Draw(palette.NewDocument(), rgbResolver{}, SheetOptions{}); !errors.Is(err, ErrNoColors) {
		t.Errorf("expected ErrNoColors, got %v", err)
	}
}

func TestRenderSheet(t *testing.T) {
	doc := testDocument([3]float32{1, 0, 0}, [3]float32{0, 1, 0}, [3]float32{0, 0, 1})

	result, err := RenderSheet(doc, rgbResolver{}, SheetOptions{SwatchSize: 8})
	if err != nil {
		t.Fatalf("RenderSheet failed: %v", err)
	}
	if result.MimeType != "image/png" {
		t.Errorf("MimeType: got %s, want image/png", result.MimeType)
	}
	if result.Count != 3 || result.Columns != 3 || result.Rows != 1 {
		t.Errorf("layout: got %d colors in %dx%d", result.Count, result.Columns, result.Rows)
	}

	data, err := base64.StdEncoding.DecodeString(result.ImageBase64)
	if err != nil {
		t.Fatalf("failed to decode base64: %v", err)
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("failed to decode png: %v", err)
	}
	if img.Bounds().Dx() != result.Width || img.Bounds().Dy() != result.Height {
		t.Errorf("reported %dx%d, decoded %dx%d", result.Width, result.Height, img.Bounds().Dx(), img.Bounds().Dy())
	}
}

func TestEncodeSheet_MatchesRenderSheet(t *testing.T) {
	doc := testDocument([3]float32{1, 0, 0}, [3]float32{0, 1, 0}, [3]float32{0, 0, 1})
	opts := SheetOptions{Columns: 2, SwatchSize: 8, Labels: true}

	img, err := Draw(doc, rgbResolver{}, opts)
	if err != nil {
		t.Fatalf("Draw failed: %v", err)
	}
	got, err := EncodeSheet(img, len(doc.Colors()), opts)
	if err != nil {
		t.Fatalf("EncodeSheet failed: %v", err)
	}
	want, err := RenderSheet(doc, rgbResolver{}, opts)
	if err != nil {
		t.Fatalf("RenderSheet failed: %v", err)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("EncodeSheet differs from RenderSheet (-want +got):\n%s", diff)
	}
	if got.Columns != 2 || got.Rows != 2 {
		t.Errorf("layout: got %dx%d, want 2x2", got.Columns, got.Rows)
	}
}

func TestSaveSheet(t *testing.T) {
	img, err := Draw(testDocument([3]float32{0, 0.5, 1}), rgbResolver{}, SheetOptions{SwatchSize: 6})
	if err != nil {
		t.Fatalf("Draw failed: %v", err)
	}

	path := filepath.Join(t.TempDir(), "sheet.png")
	if err := SaveSheet(path, img); err != nil {
		t.Fatalf("SaveSheet failed: %v", err)
	}

	back, err := imgio.Open(path)
	if err != nil {
		t.Fatalf("failed to reopen sheet: %v", err)
	}
	if r, g, b := rgbAt(back, tileGap+2, tileGap+2); r != 0 || g != 128 || b != 255 {
		t.Errorf("saved tile: got (%d,%d,%d), want (0,128,255)", r, g, b)
	}

	if err := SaveSheet(filepath.Join(t.TempDir(), "missing", "sheet.png"), img); err == nil {
		t.Error("SaveSheet into a missing directory should fail")
	}
}
