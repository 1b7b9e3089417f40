package palette

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestColorModel_Channels(t *testing.T) {
	tests := []struct {
		model ColorModel
		want  int
		tag   string
	}{
		{ModelRGB, 3, "RGB "},
		{ModelCMYK, 4, "CMYK"},
		{ModelLab, 3, "LAB "},
		{ModelGray, 1, "Gray"},
		{ModelUnknown, 0, "RGB "},
	}

	for _, tt := range tests {
		t.Run(tt.model.String(), func(t *testing.T) {
			if got := tt.model.Channels(); got != tt.want {
				t.Errorf("Channels: got %d, want %d", got, tt.want)
			}
			if got := tt.model.Tag(); got != tt.tag {
				t.Errorf("Tag: got %q, want %q", got, tt.tag)
			}
			if len(tt.model.Tag()) != 4 {
				t.Errorf("Tag %q is not 4 bytes", tt.model.Tag())
			}
		})
	}
}

func TestParseModelTag(t *testing.T) {
	tests := []struct {
		tag  string
		want ColorModel
	}{
		{"RGB ", ModelRGB},
		{"CMYK", ModelCMYK},
		{"LAB ", ModelLab},
		{"Lab ", ModelLab},
		{"Gray", ModelGray},
		{"GRAY", ModelGray},
		{"HSV ", ModelUnknown},
		{"", ModelUnknown},
	}

	for _, tt := range tests {
		if got := ParseModelTag(tt.tag); got != tt.want {
			t.Errorf("ParseModelTag(%q): got %v, want %v", tt.tag, got, tt.want)
		}
	}
}

func TestParseModel(t *testing.T) {
	for _, name := range []string{"rgb", "CMYK", " lab ", "grey", "Gray"} {
		if _, err := ParseModel(name); err != nil {
			t.Errorf("ParseModel(%q) failed: %v", name, err)
		}
	}
	if _, err := ParseModel("hsv"); err == nil {
		t.Error("ParseModel should reject hsv")
	}
}

func TestColorType_IsGlobal(t *testing.T) {
	if !TypeGlobal.IsGlobal() || !TypeSpot.IsGlobal() {
		t.Error("global and spot colors should be global")
	}
	if TypeProcess.IsGlobal() {
		t.Error("process colors should not be global")
	}
}

func TestDocument_Stats(t *testing.T) {
	doc := &Document{Blocks: []Block{
		&GroupEnd{}, // orphan
		&GroupStart{Name: "A"},
		&Color{Name: "a1", Model: ModelRGB, Values: []float32{1, 0, 0}},
		&GroupStart{Name: "B"},
		&Color{Name: "b1", Model: ModelGray, Values: []float32{0.5}},
		&GroupEnd{},
	}}

	got := doc.Stats()
	want := Stats{Blocks: 6, Groups: 2, Colors: 2, GroupEnds: 2, OrphanEnds: 1, Unclosed: 1}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Stats mismatch (-want +got):\n%s", diff)
	}
}

func TestDocument_GroupPaths(t *testing.T) {
	doc := &Document{Blocks: []Block{
		&Color{Name: "top"},
		&GroupStart{Name: "Outer"},
		&GroupStart{Name: "Inner"},
		&Color{Name: "deep"},
		&GroupEnd{},
		&Color{Name: "mid"},
		&GroupEnd{},
		&GroupEnd{},
		&Color{Name: "after"},
	}}

	want := [][]string{nil, {"Outer", "Inner"}, {"Outer"}, nil}
	got := doc.GroupPaths()
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("GroupPaths mismatch (-want +got):\n%s", diff)
	}
}

func TestDocument_Clone(t *testing.T) {
	doc := &Document{
		Version: Version{Major: 1, Minor: 0},
		Blocks: []Block{
			&GroupStart{Name: "G"},
			&Color{Name: "c", Model: ModelRGB, Values: []float32{0.1, 0.2, 0.3}, Type: TypeSpot},
			&GroupEnd{},
		},
	}

	cp := doc.Clone()
	cp.Blocks[1].(*Color).Values[0] = 0.9
	cp.Blocks[0].(*GroupStart).Name = "changed"

	if doc.Blocks[1].(*Color).Values[0] != 0.1 {
		t.Error("Clone shares color values with the original")
	}
	if doc.Blocks[0].(*GroupStart).Name != "G" {
		t.Error("Clone shares group blocks with the original")
	}
}

func TestColor_Channel(t *testing.T) {
	c := &Color{Model: ModelCMYK, Values: []float32{0.25, 0.5}}
	if got := c.Channel(1); got != 0.5 {
		t.Errorf("Channel(1): got %v, want 0.5", got)
	}
	if got := c.Channel(3); got != 0 {
		t.Errorf("Channel(3) on short values: got %v, want 0", got)
	}
}
