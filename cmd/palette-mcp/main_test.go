package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ironsheep/palette-tools-mcp/internal/authority"
	"github.com/ironsheep/palette-tools-mcp/internal/config"
)

func TestBuildReferences(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "refs.yaml")
	yaml := "references:\n  - name: ChromaForge Red\n    hex: \"#EE0000\"\n  - name: House Teal\n    hex: \"#008080\"\n"
	if err := os.WriteFile(file, []byte(yaml), 0o644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name    string
		cfg     config.Authority
		lookup  string
		wantHex string
		wantOK  bool
	}{
		{"built-in only", config.Authority{}, "ChromaForge Red", "#FF3434", true},
		{"css names off", config.Authority{}, "tomato", "", false},
		{"css names on", config.Authority{CSSNames: true}, "tomato", "#ff6347", true},
		{"file overrides built-in", config.Authority{File: file}, "chromaforge red", "#EE0000", true},
		{"file adds names", config.Authority{File: file, CSSNames: true}, "House Teal", "#008080", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			refs, err := buildReferences(tt.cfg)
			if err != nil {
				t.Fatalf("buildReferences failed: %v", err)
			}
			e, ok := refs.Lookup(tt.lookup)
			if ok != tt.wantOK {
				t.Fatalf("Lookup(%q): found %v, want %v", tt.lookup, ok, tt.wantOK)
			}
			if ok && e.Hex != tt.wantHex {
				t.Errorf("Hex: got %s, want %s", e.Hex, tt.wantHex)
			}
		})
	}
}

func TestBuildReferences_MissingFile(t *testing.T) {
	_, err := buildReferences(config.Authority{File: filepath.Join(t.TempDir(), "none.yaml")})
	if err == nil {
		t.Fatal("expected error for missing reference file")
	}
}

func TestBuildReferences_CSSAddsEntries(t *testing.T) {
	refs, err := buildReferences(config.Authority{CSSNames: true})
	if err != nil {
		t.Fatal(err)
	}
	if refs.Len() <= authority.Default().Len() {
		t.Errorf("merged table should hold more than the built-in entries, got %d", refs.Len())
	}
}
