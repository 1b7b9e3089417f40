// Package hsort reorders a palette's blocks within their groups.
//
// Sorting never moves a block across group boundaries: groups keep their
// children and end markers, and only sibling order changes.
package hsort

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/ironsheep/palette-tools-mcp/internal/colormath"
	"github.com/ironsheep/palette-tools-mcp/internal/palette"
)

// Criterion selects how sibling colors are ordered.
type Criterion int

const (
	ByName Criterion = iota
	ByHue
	BySaturation
	ByLightness
)

var criterionNames = [...]string{"name", "hue", "saturation", "lightness"}

func (c Criterion) String() string {
	if c < 0 || int(c) >= len(criterionNames) {
		return fmt.Sprintf("Criterion(%d)", int(c))
	}
	return criterionNames[c]
}

// ParseCriterion accepts "name", "hue", "saturation" or "lightness",
// in any case.
func ParseCriterion(s string) (Criterion, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, name := range criterionNames {
		if s == name {
			return Criterion(i), nil
		}
	}
	return 0, fmt.Errorf("unknown sort criterion %q (want name, hue, saturation or lightness)", s)
}

// DisplayResolver supplies the display color used for hue, saturation and
// lightness keys.
type DisplayResolver interface {
	ResolveDisplayColor(c *palette.Color) colormath.RGB
}

type options struct {
	lang language.Tag
}

// Option configures a sort.
type Option func(*options)

// WithLanguage sets the collation language for group names. The default
// is English.
func WithLanguage(tag language.Tag) Option {
	return func(o *options) {
		o.lang = tag
	}
}

// Sort returns blocks reordered within every group. Groups come before
// colors, and unmatched end markers last. Equal keys keep their input
// order, so sorting sorted input is a no-op. blocks is not modified.
func Sort(blocks []palette.Block, crit Criterion, r DisplayResolver, opts ...Option) []palette.Block {
	o := options{lang: language.English}
	for _, opt := range opts {
		opt(&o)
	}

	s := &sorter{
		crit: crit,
		r:    r,
		coll: collate.New(o.lang),
		keys: make(map[*palette.Color]float64),
	}
	root := buildTree(blocks)
	s.sortChildren(root)
	return root.flatten(make([]palette.Block, 0, len(blocks)))
}

// SortDocument sorts doc's blocks in place.
func SortDocument(doc *palette.Document, crit Criterion, r DisplayResolver, opts ...Option) {
	doc.Blocks = Sort(doc.Blocks, crit, r, opts...)
}

type sorter struct {
	crit Criterion
	r    DisplayResolver
	coll *collate.Collator
	keys map[*palette.Color]float64
}

func (s *sorter) sortChildren(n *node) {
	for _, c := range n.children {
		s.sortChildren(c)
	}
	slices.SortStableFunc(n.children, s.compare)
}

func rank(b palette.Block) int {
	switch b.Kind() {
	case palette.KindGroupStart:
		return 0
	case palette.KindColor:
		return 1
	default:
		return 2
	}
}

func (s *sorter) compare(a, b *node) int {
	if r := cmp.Compare(rank(a.block), rank(b.block)); r != 0 {
		return r
	}
	switch x := a.block.(type) {
	case *palette.GroupStart:
		return s.coll.CompareString(x.Name, b.block.(*palette.GroupStart).Name)
	case *palette.Color:
		return s.compareColors(x, b.block.(*palette.Color))
	}
	return 0
}

func (s *sorter) compareColors(a, b *palette.Color) int {
	switch s.crit {
	case ByHue, ByLightness:
		return cmp.Compare(s.key(a), s.key(b))
	case BySaturation:
		return cmp.Compare(s.key(b), s.key(a))
	default:
		return strings.Compare(a.Name, b.Name)
	}
}

// key returns the HSL component the criterion orders by, resolving each
// color once.
func (s *sorter) key(c *palette.Color) float64 {
	if k, ok := s.keys[c]; ok {
		return k
	}
	h, sat, l := colormath.HSL(s.r.ResolveDisplayColor(c))
	var k float64
	switch s.crit {
	case ByHue:
		k = h
	case BySaturation:
		k = sat
	default:
		k = l
	}
	s.keys[c] = k
	return k
}
