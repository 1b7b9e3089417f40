package session

import (
	"encoding/binary"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/ironsheep/palette-tools-mcp/internal/ase"
	"github.com/ironsheep/palette-tools-mcp/internal/palette"
)

func testDocument() *palette.Document {
	doc := palette.NewDocument()
	doc.Blocks = []palette.Block{
		&palette.GroupStart{Name: "Brand"},
		&palette.Color{Name: "Red", Model: palette.ModelRGB, Values: []float32{1, 0, 0}},
		&palette.Color{Name: "Ink", Model: palette.ModelCMYK, Values: []float32{0, 0, 0, 1}, Type: palette.TypeSpot},
		&palette.GroupEnd{},
		&palette.Color{Name: "Paper", Model: palette.ModelLab, Values: []float32{0.95, 0, 2}},
	}
	return doc
}

// writePalette encodes doc into a temp file and returns its path.
func writePalette(t *testing.T, doc *palette.Document) string {
	t.Helper()
	data, err := ase.Encode(doc)
	if err != nil {
		t.Fatalf("failed to encode palette: %v", err)
	}
	path := filepath.Join(t.TempDir(), "test.ase")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("failed to write palette: %v", err)
	}
	return path
}

func TestDocumentCache_Load(t *testing.T) {
	path := writePalette(t, testDocument())
	cache := NewDocumentCache()

	doc, err := cache.Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(doc.Blocks) != 5 {
		t.Errorf("blocks: got %d, want 5", len(doc.Blocks))
	}
	if cache.Len() != 1 {
		t.Errorf("Len: got %d, want 1", cache.Len())
	}

	// Loads are served from memory once cached.
	if err := os.Remove(path); err != nil {
		t.Fatal(err)
	}
	if _, err := cache.Load(path); err != nil {
		t.Errorf("cached Load failed: %v", err)
	}
}

func TestDocumentCache_LoadReturnsCopies(t *testing.T) {
	path := writePalette(t, testDocument())
	cache := NewDocumentCache()

	first, err := cache.Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	first.Blocks = first.Blocks[:1]

	second, err := cache.Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(second.Blocks) != 5 {
		t.Errorf("cached document was modified through a loaded copy")
	}
}

func TestDocumentCache_LoadErrors(t *testing.T) {
	cache := NewDocumentCache()

	if _, err := cache.Load(filepath.Join(t.TempDir(), "missing.ase")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("missing file: expected not-exist error, got %v", err)
	}

	bad := filepath.Join(t.TempDir(), "bad.ase")
	if err := os.WriteFile(bad, []byte("ASEX\x00\x01\x00\x00\x00\x00\x00\x00"), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := cache.Load(bad)
	var ferr *ase.FormatError
	if !errors.As(err, &ferr) {
		t.Errorf("bad signature: expected *ase.FormatError, got %v", err)
	}
	if cache.Len() != 0 {
		t.Error("failed loads should not be cached")
	}
}

func TestDocumentCache_PutEvictClear(t *testing.T) {
	cache := NewDocumentCache()
	doc := testDocument()

	cache.Put("/virtual/a.ase", doc)
	doc.Blocks = nil // Put keeps its own copy

	got, err := cache.Load("/virtual/a.ase")
	if err != nil {
		t.Fatalf("Load after Put failed: %v", err)
	}
	if len(got.Blocks) != 5 {
		t.Errorf("blocks: got %d, want 5", len(got.Blocks))
	}

	cache.Evict("/virtual/a.ase")
	if _, err := cache.Load("/virtual/a.ase"); err == nil {
		t.Error("Load after Evict should read the (missing) file")
	}
	cache.Evict("/virtual/never-loaded.ase")

	cache.Put("/virtual/a.ase", testDocument())
	cache.Put("/virtual/b.ase", testDocument())
	cache.Clear()
	if cache.Len() != 0 {
		t.Errorf("Len after Clear: got %d, want 0", cache.Len())
	}
}

func TestDocumentCache_Save(t *testing.T) {
	cache := NewDocumentCache()
	path := filepath.Join(t.TempDir(), "saved.ase")

	want := testDocument()
	if err := cache.Save(path, want); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("saved file missing: %v", err)
	}
	got, err := ase.Decode(data)
	if err != nil {
		t.Fatalf("saved file does not decode: %v", err)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("saved document mismatch (-want +got):\n%s", diff)
	}

	if err := cache.Save(path, &palette.Document{Blocks: []palette.Block{nil}}); err == nil {
		t.Error("Save should fail on an unencodable document")
	}
}

func TestLoadInfo(t *testing.T) {
	path := writePalette(t, testDocument())

	info, err := LoadInfo(NewDocumentCache(), path)
	if err != nil {
		t.Fatalf("LoadInfo failed: %v", err)
	}

	stat, _ := os.Stat(path)
	want := &Info{
		Version:       "1.0",
		Blocks:        5,
		Groups:        1,
		Colors:        3,
		Models:        map[string]int{"RGB": 1, "CMYK": 1, "Lab": 1},
		FileSizeBytes: stat.Size(),
	}
	if diff := cmp.Diff(want, info); diff != "" {
		t.Errorf("LoadInfo mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadInfo_Warnings(t *testing.T) {
	data, err := ase.Encode(testDocument())
	if err != nil {
		t.Fatal(err)
	}
	// Append an unknown block and bump the block count.
	data = append(data, 0x00, 0x09, 0, 0, 0, 2, 0xAA, 0xBB)
	binary.BigEndian.PutUint32(data[8:], binary.BigEndian.Uint32(data[8:])+1)

	path := filepath.Join(t.TempDir(), "extra.ase")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}

	info, err := LoadInfo(NewDocumentCache(), path)
	if err != nil {
		t.Fatalf("LoadInfo failed: %v", err)
	}
	if info.Blocks != 5 {
		t.Errorf("blocks: got %d, want 5", info.Blocks)
	}
	if len(info.Warnings) != 1 {
		t.Errorf("warnings: got %v, want one", info.Warnings)
	}
}

func TestDocumentCache_Concurrent(t *testing.T) {
	path := writePalette(t, testDocument())
	cache := NewDocumentCache()

	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 20 {
				doc, err := cache.Load(path)
				if err != nil {
					t.Errorf("Load failed: %v", err)
					return
				}
				doc.Blocks = doc.Blocks[:0]
			}
		}()
	}
	wg.Wait()

	if doc, _ := cache.Load(path); len(doc.Blocks) != 5 {
		t.Errorf("blocks after concurrent use: got %d, want 5", len(doc.Blocks))
	}
}
