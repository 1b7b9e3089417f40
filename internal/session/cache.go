// Package session keeps decoded palettes in memory between tool calls.
package session

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"

	"github.com/ironsheep/palette-tools-mcp/internal/ase"
	"github.com/ironsheep/palette-tools-mcp/internal/palette"
)

// entry is one cached file: its document and the decoder's warnings.
type entry struct {
	doc      *palette.Document
	warnings []string
}

// DocumentCache provides thread-safe caching of decoded palettes to avoid
// redundant disk reads.
//
// Documents are keyed by the exact path string given. Load hands out
// clones, so callers may sort or convert what they get without affecting
// the cached copy; Put replaces it.
//
// # Memory Management
//
// Cached documents remain in memory until explicitly removed via Evict()
// or Clear().
type DocumentCache struct {
	mu   sync.RWMutex
	docs map[string]entry
	log  *zap.Logger
}

// Option configures a DocumentCache.
type Option func(*DocumentCache)

// WithLogger sets the logger that receives decode warnings.
func WithLogger(l *zap.Logger) Option {
	return func(c *DocumentCache) {
		if l != nil {
			c.log = l
		}
	}
}

// NewDocumentCache creates and initializes a new empty cache.
func NewDocumentCache(opts ...Option) *DocumentCache {
	c := &DocumentCache{
		docs: make(map[string]entry),
		log:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Load returns the document at path, decoding it from disk if it is not
// cached.
//
// # Errors
//
//   - Returns error if the file does not exist or cannot be read
//   - Returns an *ase.FormatError if the file is not a valid palette
func (c *DocumentCache) Load(path string) (*palette.Document, error) {
	doc, _, err := c.load(path)
	if err != nil {
		return nil, err
	}
	return doc.Clone(), nil
}

// Warnings returns the non-fatal decode problems recorded for path, such
// as skipped unknown blocks. It loads the file if needed.
func (c *DocumentCache) Warnings(path string) ([]string, error) {
	_, warnings, err := c.load(path)
	return warnings, err
}

func (c *DocumentCache) load(path string) (*palette.Document, []string, error) {
	c.mu.RLock()
	if e, ok := c.docs[path]; ok {
		c.mu.RUnlock()
		return e.doc, e.warnings, nil
	}
	c.mu.RUnlock()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read palette: %w", err)
	}

	var warnings []string
	doc, err := ase.Decode(data, ase.WithWarningHandler(func(w error) {
		warnings = append(warnings, w.Error())
		c.log.Warn("palette decode warning", zap.String("path", path), zap.Error(w))
	}))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to decode palette %s: %w", filepath.Base(path), err)
	}

	c.mu.Lock()
	c.docs[path] = entry{doc: doc, warnings: warnings}
	c.mu.Unlock()

	return doc, warnings, nil
}

// Put stores a copy of doc under path without touching the disk. Later
// loads of path return it.
func (c *DocumentCache) Put(path string, doc *palette.Document) {
	c.mu.Lock()
	c.docs[path] = entry{doc: doc.Clone()}
	c.mu.Unlock()
}

// Save encodes doc, writes it to path and caches it there.
func (c *DocumentCache) Save(path string, doc *palette.Document) error {
	data, err := ase.Encode(doc)
	if err != nil {
		return fmt.Errorf("failed to encode palette: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write palette: %w", err)
	}
	c.Put(path, doc)
	c.log.Debug("palette saved", zap.String("path", path), zap.Int("bytes", len(data)))
	return nil
}

// Evict removes a specific document from the cache by its path. If the
// path is not in the cache, this method does nothing.
func (c *DocumentCache) Evict(path string) {
	c.mu.Lock()
	delete(c.docs, path)
	c.mu.Unlock()
}

// Clear removes all documents from the cache.
func (c *DocumentCache) Clear() {
	c.mu.Lock()
	c.docs = make(map[string]entry)
	c.mu.Unlock()
}

// Len returns the number of cached documents.
func (c *DocumentCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.docs)
}

// Info contains metadata about a loaded palette file.
type Info struct {
	// Version is the file format version, "major.minor".
	Version string `json:"version"`

	// Blocks counts every block in the file after skipping unknown ones.
	Blocks int `json:"blocks"`

	// Groups and Colors count group start markers and color entries.
	Groups int `json:"groups"`
	Colors int `json:"colors"`

	// OrphanEnds counts group end markers with no open group; Unclosed
	// counts groups never closed. Both are zero in well-formed files.
	OrphanEnds int `json:"orphan_ends"`
	Unclosed   int `json:"unclosed_groups"`

	// Models counts colors per color model name.
	Models map[string]int `json:"models"`

	// Warnings lists non-fatal decode problems.
	Warnings []string `json:"warnings,omitempty"`

	// FileSizeBytes is the size of the palette file on disk in bytes.
	FileSizeBytes int64 `json:"file_size_bytes"`
}

// LoadInfo loads a palette and summarises it.
func LoadInfo(cache *DocumentCache, path string) (*Info, error) {
	doc, warnings, err := cache.load(path)
	if err != nil {
		return nil, err
	}

	stat, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}

	stats := doc.Stats()
	models := make(map[string]int)
	for _, c := range doc.Colors() {
		models[c.Model.String()]++
	}

	return &Info{
		Version:       doc.Version.String(),
		Blocks:        stats.Blocks,
		Groups:        stats.Groups,
		Colors:        stats.Colors,
		OrphanEnds:    stats.OrphanEnds,
		Unclosed:      stats.Unclosed,
		Models:        models,
		Warnings:      warnings,
		FileSizeBytes: stat.Size(),
	}, nil
}
