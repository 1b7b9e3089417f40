// Package authority holds the reference table of canonical swatch
// definitions and answers whether a stored color still matches its
// reference.
//
// A Table is immutable once built and may be read from any number of
// goroutines without locking.
package authority

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"

	"github.com/ironsheep/palette-tools-mcp/internal/colormath"
	"github.com/ironsheep/palette-tools-mcp/internal/palette"
)

// Tolerance is the largest per-channel difference, in normalized units,
// for which stored RGB or CMYK values still count as the reference.
const Tolerance = 0.01

// ErrDuplicate is returned by New when two entries normalize to one name.
var ErrDuplicate = errors.New("authority: duplicate reference name")

// Entry is one canonical color definition.
//
// Hex is the canonical display color. The per-model slices are optional;
// a missing model is derived from Hex. Lab uses L in 0..100.
type Entry struct {
	Name string    `yaml:"name" json:"name"`
	Hex  string    `yaml:"hex" json:"hex"`
	RGB  []float64 `yaml:"rgb,omitempty" json:"rgb,omitempty"`
	CMYK []float64 `yaml:"cmyk,omitempty" json:"cmyk,omitempty"`
	Lab  []float64 `yaml:"lab,omitempty" json:"lab,omitempty"`
	Gray []float64 `yaml:"gray,omitempty" json:"gray,omitempty"`

	canonical colormath.RGB
}

// Canonical returns the display color the reference defines.
func (e Entry) Canonical() colormath.RGB {
	return e.canonical
}

// ValuesFor returns the reference's numbers expressed in model. Stored
// values win; otherwise they are computed from the canonical color.
func (e Entry) ValuesFor(model palette.ColorModel) ([]float64, bool) {
	switch model {
	case palette.ModelRGB:
		if e.RGB != nil {
			return e.RGB, true
		}
		return e.canonical.Slice(), true
	case palette.ModelCMYK:
		if e.CMYK != nil {
			return e.CMYK, true
		}
		c := colormath.RGBToCMYK(e.canonical)
		return []float64{c.C, c.M, c.Y, c.K}, true
	case palette.ModelLab:
		if e.Lab != nil {
			return e.Lab, true
		}
		l := colormath.RGBToLab(e.canonical)
		return []float64{l.L, l.A, l.B}, true
	case palette.ModelGray:
		if e.Gray != nil {
			return e.Gray, true
		}
		return []float64{colormath.RGBToGray(e.canonical)}, true
	default:
		return nil, false
	}
}

// Matches reports whether values, in model, equal the reference within
// Tolerance on every channel. Lab and Gray colors match on name alone.
func (e Entry) Matches(model palette.ColorModel, values []float64) bool {
	switch model {
	case palette.ModelLab, palette.ModelGray:
		return true
	case palette.ModelRGB, palette.ModelCMYK:
	default:
		return false
	}

	ref, _ := e.ValuesFor(model)
	if len(values) != len(ref) {
		return false
	}
	for i := range ref {
		if math.Abs(values[i]-ref[i]) > Tolerance {
			return false
		}
	}
	return true
}

func (e *Entry) validate() error {
	if strings.TrimSpace(e.Name) == "" {
		return errors.New("reference without a name")
	}
	c, err := colormath.ParseHex(e.Hex)
	if err != nil {
		return fmt.Errorf("reference %q: %w", e.Name, err)
	}
	e.canonical = c

	check := func(model palette.ColorModel, v []float64) error {
		if v != nil && len(v) != model.Channels() {
			return fmt.Errorf("reference %q: %s needs %d values, got %d",
				e.Name, model, model.Channels(), len(v))
		}
		return nil
	}
	return errors.Join(
		check(palette.ModelRGB, e.RGB),
		check(palette.ModelCMYK, e.CMYK),
		check(palette.ModelLab, e.Lab),
		check(palette.ModelGray, e.Gray),
	)
}

// Normalize is the lookup key for a name: trimmed, NFC-normalized and
// case-folded.
func Normalize(name string) string {
	// A Caser carries state, so each call gets its own.
	return cases.Fold().String(norm.NFC.String(strings.TrimSpace(name)))
}

// Table is an immutable set of references keyed by normalized name.
type Table struct {
	entries map[string]Entry
	order   []string
}

// New validates entries and builds a table. Two entries whose names
// normalize to the same key yield ErrDuplicate.
func New(entries []Entry) (*Table, error) {
	t := &Table{entries: make(map[string]Entry, len(entries))}
	for _, e := range entries {
		if err := e.validate(); err != nil {
			return nil, err
		}
		key := Normalize(e.Name)
		if _, dup := t.entries[key]; dup {
			return nil, fmt.Errorf("%w: %q", ErrDuplicate, e.Name)
		}
		t.entries[key] = e
		t.order = append(t.order, key)
	}
	return t, nil
}

// Merge combines tables. A name defined in a later table replaces the
// earlier definition. Nil tables are skipped.
func Merge(tables ...*Table) *Table {
	res := &Table{entries: make(map[string]Entry)}
	for _, t := range tables {
		if t == nil {
			continue
		}
		for _, key := range t.order {
			if _, seen := res.entries[key]; !seen {
				res.order = append(res.order, key)
			}
			res.entries[key] = t.entries[key]
		}
	}
	return res
}

// Lookup finds the reference for name. It does exact lookups on the
// normalized key, with no fuzzy matching. A nil table has no entries.
func (t *Table) Lookup(name string) (Entry, bool) {
	if t == nil {
		return Entry{}, false
	}
	e, ok := t.entries[Normalize(name)]
	return e, ok
}

// Len returns the number of references.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.entries)
}
