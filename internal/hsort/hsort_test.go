package hsort

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"golang.org/x/text/language"

	"github.com/ironsheep/palette-tools-mcp/internal/colormath"
	"github.com/ironsheep/palette-tools-mcp/internal/palette"
)

// rgbResolver displays RGB colors as stored.
type rgbResolver struct{}

func (rgbResolver) ResolveDisplayColor(c *palette.Color) colormath.RGB {
	return colormath.RGB{R: c.Channel(0), G: c.Channel(1), B: c.Channel(2)}
}

func start(name string) *palette.GroupStart { return &palette.GroupStart{Name: name} }

func end() *palette.GroupEnd { return &palette.GroupEnd{} }

func rgb(name string, r, g, b float32) *palette.Color {
	return &palette.Color{Name: name, Model: palette.ModelRGB, Values: []float32{r, g, b}}
}

// layout renders blocks as a compact string: groups as "[name", ends as
// "]", colors by name.
func layout(blocks []palette.Block) string {
	parts := make([]string, len(blocks))
	for i, b := range blocks {
		switch x := b.(type) {
		case *palette.GroupStart:
			parts[i] = "[" + x.Name
		case *palette.GroupEnd:
			parts[i] = "]"
		case *palette.Color:
			parts[i] = x.Name
		}
	}
	return strings.Join(parts, " ")
}

func TestParseCriterion(t *testing.T) {
	tests := []struct {
		in      string
		want    Criterion
		wantErr bool
	}{
		{"name", ByName, false},
		{"Hue", ByHue, false},
		{" saturation ", BySaturation, false},
		{"LIGHTNESS", ByLightness, false},
		{"brightness", 0, true},
		{"", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseCriterion(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseCriterion(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
	if ByHue.String() != "hue" || Criterion(9).String() != "Criterion(9)" {
		t.Error("Criterion.String mismatch")
	}
}

func TestSort_NestedGroupsByName(t *testing.T) {
	blocks := []palette.Block{
		rgb("zeta", 0, 0, 0),
		start("Warm"),
		rgb("red", 1, 0, 0),
		rgb("orange", 1, 0.5, 0),
		end(),
		start("Cool"),
		rgb("teal", 0, 0.5, 0.5),
		rgb("blue", 0, 0, 1),
		end(),
		rgb("alpha", 1, 1, 1),
	}
	before := layout(blocks)

	got := Sort(blocks, ByName, rgbResolver{})

	want := "[Cool blue teal ] [Warm orange red ] alpha zeta"
	if diff := cmp.Diff(want, layout(got)); diff != "" {
		t.Errorf("layout mismatch (-want +got):\n%s", diff)
	}
	if layout(blocks) != before {
		t.Error("Sort modified its input")
	}

	doc := &palette.Document{Blocks: got}
	stats := doc.Stats()
	if stats.Groups != 2 || stats.Colors != 6 || stats.Blocks != len(blocks) {
		t.Errorf("counts changed: %+v", stats)
	}
}

func TestSort_ColorCriteria(t *testing.T) {
	// Hues: red 0, yellow 60, green 120, blue 240.
	blocks := []palette.Block{
		rgb("blue", 0, 0, 1),
		rgb("pale green", 0.6, 0.8, 0.6),
		rgb("red", 1, 0, 0),
		rgb("dark yellow", 0.4, 0.4, 0),
	}
	tests := []struct {
		crit Criterion
		want string
	}{
		{ByName, "blue dark yellow pale green red"},
		{ByHue, "red dark yellow pale green blue"},
		{BySaturation, "blue red dark yellow pale green"},
		{ByLightness, "dark yellow blue red pale green"},
	}
	for _, tt := range tests {
		t.Run(tt.crit.String(), func(t *testing.T) {
			got := layout(Sort(blocks, tt.crit, rgbResolver{}))
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSort_ByNameIsByteOrder(t *testing.T) {
	blocks := []palette.Block{rgb("b", 0, 0, 0), rgb("B", 0, 0, 0), rgb("a", 0, 0, 0)}
	if got := layout(Sort(blocks, ByName, nil)); got != "B a b" {
		t.Errorf("got %q, want %q", got, "B a b")
	}
}

func TestSort_GroupsCollate(t *testing.T) {
	blocks := []palette.Block{
		start("Beta"), end(),
		start("facet"), end(),
		start("éclair"), end(),
		start("alpha"), end(),
	}
	got := layout(Sort(blocks, ByName, nil))
	want := "[alpha ] [Beta ] [éclair ] [facet ]"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}

	sv := layout(Sort([]palette.Block{start("öl"), end(), start("zon"), end()}, ByName, nil,
		WithLanguage(language.Swedish)))
	if sv != "[zon ] [öl ]" {
		t.Errorf("swedish collation: got %q", sv)
	}
}

func TestSort_Idempotent(t *testing.T) {
	blocks := []palette.Block{
		start("B"),
		rgb("y", 0.2, 0.3, 0.9),
		start("inner"),
		rgb("k", 0.1, 0.1, 0.1),
		rgb("k", 0.9, 0.1, 0.1),
		end(),
		rgb("x", 0.9, 0.3, 0.2),
		end(),
		start("A"),
		end(),
		rgb("lone", 0.5, 0.5, 0.5),
	}
	for _, crit := range []Criterion{ByName, ByHue, BySaturation, ByLightness} {
		t.Run(crit.String(), func(t *testing.T) {
			once := Sort(blocks, crit, rgbResolver{})
			twice := Sort(once, crit, rgbResolver{})
			if len(once) != len(twice) {
				t.Fatalf("length changed: %d vs %d", len(once), len(twice))
			}
			for i := range once {
				if once[i] != twice[i] {
					t.Fatalf("block %d moved on second sort: %s vs %s", i, layout(once), layout(twice))
				}
			}
		})
	}
}

func TestSort_KeepsPairing(t *testing.T) {
	outer := start("outer")
	inner := start("inner")
	innerEnd, outerEnd := end(), end()
	c1, c2, c3 := rgb("c", 0, 0, 0), rgb("a", 0, 0, 0), rgb("b", 0, 0, 0)
	blocks := []palette.Block{outer, c1, inner, c2, innerEnd, c3, outerEnd}

	got := Sort(blocks, ByName, nil)
	want := []palette.Block{outer, inner, c2, innerEnd, c3, c1, outerEnd}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %s, want %s", layout(got), layout(want))
		}
	}
}

func TestSort_OrphanEnd(t *testing.T) {
	orphan := end()
	blocks := []palette.Block{
		rgb("b", 0, 0, 0),
		orphan,
		start("G"),
		rgb("z", 0, 0, 0),
		end(),
		rgb("a", 0, 0, 0),
	}
	got := Sort(blocks, ByName, nil)

	if want := "[G z ] a b ]"; layout(got) != want {
		t.Errorf("got %q, want %q", layout(got), want)
	}
	if got[len(got)-1] != orphan {
		t.Error("orphan end should sort after the colors")
	}
	if d := Depths(got); d[len(d)-1] != 0 {
		t.Errorf("orphan depth: got %d, want 0", d[len(d)-1])
	}
}

func TestSort_UnclosedGroup(t *testing.T) {
	blocks := []palette.Block{
		start("open"),
		rgb("b", 0, 0, 0),
		rgb("a", 0, 0, 0),
	}
	got := Sort(blocks, ByName, nil)
	if want := "[open a b"; layout(got) != want {
		t.Errorf("got %q, want %q", layout(got), want)
	}
}

func TestSort_PreservesDepths(t *testing.T) {
	blocks := []palette.Block{
		rgb("top", 0, 0, 0),
		start("one"),
		rgb("m", 0, 0, 0),
		start("two"),
		rgb("deep", 0, 0, 0),
		end(),
		end(),
		end(),
	}
	depthOf := func(bs []palette.Block) map[palette.Block]int {
		m := make(map[palette.Block]int, len(bs))
		for i, d := range Depths(bs) {
			m[bs[i]] = d
		}
		return m
	}
	before := depthOf(blocks)
	after := depthOf(Sort(blocks, ByName, nil))
	for b, d := range before {
		if after[b] != d {
			t.Errorf("%s: depth %d became %d", layout([]palette.Block{b}), d, after[b])
		}
	}
}

func TestDepths(t *testing.T) {
	blocks := []palette.Block{
		rgb("a", 0, 0, 0),
		start("g"),
		rgb("b", 0, 0, 0),
		start("h"),
		rgb("c", 0, 0, 0),
		end(),
		end(),
		end(),
	}
	want := []int{0, 0, 1, 1, 2, 1, 0, 0}
	if diff := cmp.Diff(want, Depths(blocks)); diff != "" {
		t.Errorf("Depths mismatch (-want +got):\n%s", diff)
	}
}

func TestSortDocument(t *testing.T) {
	doc := &palette.Document{
		Version: palette.DefaultVersion,
		Blocks:  []palette.Block{rgb("b", 0, 0, 0), rgb("a", 0, 0, 0)},
	}
	SortDocument(doc, ByName, nil)
	if got := layout(doc.Blocks); got != "a b" {
		t.Errorf("got %q, want %q", got, "a b")
	}
}
