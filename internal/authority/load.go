package authority

import (
	"bytes"
	_ "embed" // for the default reference table
	"fmt"
	"io"
	"os"
	"sort"
	"sync"

	"golang.org/x/image/colornames"
	"gopkg.in/yaml.v3"

	"github.com/ironsheep/palette-tools-mcp/internal/colormath"
)

//go:embed references.yaml
var defaultReferences []byte

type tableFile struct {
	References []Entry `yaml:"references"`
}

// Load reads a YAML reference table. The document is either a mapping
// with a "references" list or a bare list of entries.
func Load(r io.Reader) (*Table, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read reference table: %w", err)
	}

	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return nil, fmt.Errorf("failed to parse reference table: %w", err)
	}
	if len(node.Content) == 0 {
		return New(nil)
	}

	var entries []Entry
	if node.Content[0].Kind == yaml.SequenceNode {
		err = node.Content[0].Decode(&entries)
	} else {
		var f tableFile
		err = node.Content[0].Decode(&f)
		entries = f.References
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse reference table: %w", err)
	}
	return New(entries)
}

// LoadFile reads a YAML reference table from path.
func LoadFile(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open reference table: %w", err)
	}
	defer f.Close()
	return Load(f)
}

var defaultTable = sync.OnceValue(func() *Table {
	t, err := Load(bytes.NewReader(defaultReferences))
	if err != nil {
		panic("authority: embedded reference table: " + err.Error())
	}
	return t
})

// Default returns the built-in reference table.
func Default() *Table {
	return defaultTable()
}

// CSSColors returns references for the CSS/SVG named colors, e.g. "tomato".
func CSSColors() *Table {
	names := make([]string, 0, len(colornames.Map))
	for name := range colornames.Map {
		names = append(names, name)
	}
	sort.Strings(names)

	entries := make([]Entry, 0, len(names))
	for _, name := range names {
		c := colornames.Map[name]
		entries = append(entries, Entry{
			Name: name,
			Hex:  colormath.Hex(colormath.From8(c.R, c.G, c.B)),
		})
	}

	t, err := New(entries)
	if err != nil {
		// colornames keys are unique lowercase ASCII.
		panic("authority: " + err.Error())
	}
	return t
}
