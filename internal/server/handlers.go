package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/ironsheep/palette-tools-mcp/internal/authority"
	"github.com/ironsheep/palette-tools-mcp/internal/colormath"
	"github.com/ironsheep/palette-tools-mcp/internal/engine"
	"github.com/ironsheep/palette-tools-mcp/internal/hsort"
	"github.com/ironsheep/palette-tools-mcp/internal/palette"
	"github.com/ironsheep/palette-tools-mcp/internal/session"
	"github.com/ironsheep/palette-tools-mcp/internal/swatch"
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "palette_load", "palette_sort").
	Name string `json:"name"`

	// Arguments contains the tool-specific parameters as JSON.
	Arguments json.RawMessage `json:"arguments"`
}

var errMissingPath = errors.New("path is required")

// handleToolsCall processes a tools/call request and executes the specified tool.
//
// The response wraps the tool result in MCP's content format:
//
//	{
//	  "content": [{"type": "text", "text": "<JSON result>"}]
//	}
//
// Tool execution errors return a JSON-RPC error response with code -32000.
func (s *Server) handleToolsCall(req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, codeInvalidParams, "Invalid params", err.Error())
	}

	start := time.Now()
	result, err := s.executeTool(params.Name, params.Arguments)
	if err != nil {
		s.log.Debug("tool failed", zap.String("tool", params.Name), zap.Error(err))
		return s.errorResponse(req.ID, codeToolFailed, "Tool execution failed", err.Error())
	}
	s.log.Debug("tool done", zap.String("tool", params.Name), zap.Duration("took", time.Since(start)))

	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"content": []map[string]interface{}{
				{
					"type": "text",
					"text": mustMarshalJSON(result),
				},
			},
		},
	}
}

// executeTool dispatches tool execution to the appropriate handler function.
func (s *Server) executeTool(name string, args json.RawMessage) (interface{}, error) {
	switch name {
	// Palette Information
	case "palette_load":
		return s.handlePaletteLoad(args)
	case "palette_colors":
		return s.handlePaletteColors(args)
	case "palette_inspect":
		return s.handlePaletteInspect(args)

	// Editing
	case "palette_convert":
		return s.handlePaletteConvert(args)
	case "palette_sort":
		return s.handlePaletteSort(args)

	// Verification
	case "palette_verify":
		return s.handlePaletteVerify(args)

	// Presentation
	case "palette_preview":
		return s.handlePalettePreview(args)
	case "color_contrast":
		return s.handleColorContrast(args)

	default:
		return nil, fmt.Errorf("unknown tool: %s", name)
	}
}

// errorResponse creates a JSON-RPC error response with the given details.
func (s *Server) errorResponse(id interface{}, code int, message, data string) *MCPResponse {
	e := &MCPError{
		Code:    code,
		Message: message,
	}
	if data != "" {
		e.Data = data
	}
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      id,
		Error:   e,
	}
}

// mustMarshalJSON converts a value to pretty-printed JSON string.
// On marshal failure, returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

func decodeArgs(args json.RawMessage, dst interface{ pathArg() string }) error {
	if err := json.Unmarshal(args, dst); err != nil {
		return err
	}
	if dst.pathArg() == "" {
		return errMissingPath
	}
	return nil
}

// === Palette Information Handlers ===

type pathArgs struct {
	Path string `json:"path"`
}

func (a *pathArgs) pathArg() string { return a.Path }

// LoadResult is a palette summary plus the references and device
// transform the other tools will use on it.
type LoadResult struct {
	*session.Info
	References    int    `json:"references"`
	DeviceProfile string `json:"device_profile"`
}

func (s *Server) handlePaletteLoad(args json.RawMessage) (interface{}, error) {
	var a pathArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	info, err := session.LoadInfo(s.cache, a.Path)
	if err != nil {
		return nil, err
	}
	return &LoadResult{
		Info:          info,
		References:    s.engine.References().Len(),
		DeviceProfile: s.engine.DeviceStatus(),
	}, nil
}

// ColorEntry describes one color for palette_colors.
type ColorEntry struct {
	Index     int                `json:"index"`
	Name      string             `json:"name"`
	Group     []string           `json:"group,omitempty"`
	Model     string             `json:"model"`
	Values    []float32          `json:"values"`
	Type      string             `json:"type"`
	Global    bool               `json:"global"`
	Display   swatch.ColorResult `json:"display"`
	Verified  bool               `json:"verified"`
	Reference string             `json:"reference,omitempty"`
	TextColor string             `json:"text_color"`
	Luminance float64            `json:"luminance"`
}

// ColorsResult lists a palette's colors.
type ColorsResult struct {
	Count  int          `json:"count"`
	Colors []ColorEntry `json:"colors"`
}

func (s *Server) handlePaletteColors(args json.RawMessage) (interface{}, error) {
	var a pathArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	doc, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}

	colors := doc.Colors()
	groups := doc.GroupPaths()
	res := &ColorsResult{Count: len(colors), Colors: make([]ColorEntry, len(colors))}
	for i, c := range colors {
		ref, found, auth := s.engine.MatchReference(c)
		contrast := s.engine.Contrast(c)
		entry := ColorEntry{
			Index:     i,
			Name:      c.Name,
			Group:     groups[i],
			Model:     c.Model.String(),
			Values:    c.Values,
			Type:      c.Type.String(),
			Global:    c.Type.IsGlobal(),
			Display:   swatch.DescribeColor(s.engine.ResolveDisplayColor(c)),
			Verified:  auth,
			TextColor: contrast.Text,
			Luminance: contrast.Luminance,
		}
		if found {
			entry.Reference = ref.Name
		}
		res.Colors[i] = entry
	}
	return res, nil
}

// BlockEntry describes one block for palette_inspect and palette_sort.
type BlockEntry struct {
	Index int    `json:"index"`
	Kind  string `json:"kind"`
	Depth int    `json:"depth"`
	Name  string `json:"name,omitempty"`
	Model string `json:"model,omitempty"`
}

// InspectResult lists a palette's blocks.
type InspectResult struct {
	Stats  palette.Stats `json:"stats"`
	Blocks []BlockEntry  `json:"blocks"`
}

func describeBlocks(doc *palette.Document) *InspectResult {
	depths := hsort.Depths(doc.Blocks)
	res := &InspectResult{Stats: doc.Stats(), Blocks: make([]BlockEntry, len(doc.Blocks))}
	for i, b := range doc.Blocks {
		e := BlockEntry{Index: i, Kind: b.Kind().String(), Depth: depths[i]}
		switch b := b.(type) {
		case *palette.GroupStart:
			e.Name = b.Name
		case *palette.Color:
			e.Name = b.Name
			e.Model = b.Model.String()
		}
		res.Blocks[i] = e
	}
	return res
}

func (s *Server) handlePaletteInspect(args json.RawMessage) (interface{}, error) {
	var a pathArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	doc, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}
	return describeBlocks(doc), nil
}

// === Editing Handlers ===

type paletteConvertArgs struct {
	Path   string `json:"path"`
	Model  string `json:"model"`
	Index  *int   `json:"index"`
	Output string `json:"output"`
}

func (a *paletteConvertArgs) pathArg() string { return a.Path }

// ConvertedColor is one color after palette_convert.
type ConvertedColor struct {
	Index   int                `json:"index"`
	Name    string             `json:"name"`
	Model   string             `json:"model"`
	Values  []float32          `json:"values"`
	Display swatch.ColorResult `json:"display"`
}

// ConvertResult reports palette_convert.
type ConvertResult struct {
	Model     string           `json:"model"`
	Converted []ConvertedColor `json:"converted"`
	Saved     string           `json:"saved,omitempty"`
}

func (s *Server) handlePaletteConvert(args json.RawMessage) (interface{}, error) {
	var a paletteConvertArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	target, err := palette.ParseModel(a.Model)
	if err != nil {
		return nil, err
	}
	doc, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}

	count := len(doc.Colors())
	if a.Index != nil && (*a.Index < 0 || *a.Index >= count) {
		return nil, fmt.Errorf("color index %d out of range (palette has %d colors)", *a.Index, count)
	}

	res := &ConvertResult{Model: target.String()}
	idx := -1
	for i, b := range doc.Blocks {
		c, ok := b.(*palette.Color)
		if !ok {
			continue
		}
		idx++
		if a.Index != nil && idx != *a.Index {
			continue
		}
		out, err := s.engine.ConvertModel(c, target)
		if err != nil {
			return nil, fmt.Errorf("color %d (%s): %w", idx, c.Name, err)
		}
		doc.Blocks[i] = out
		res.Converted = append(res.Converted, ConvertedColor{
			Index:   idx,
			Name:    out.Name,
			Model:   out.Model.String(),
			Values:  out.Values,
			Display: swatch.DescribeColor(s.engine.ResolveDisplayColor(out)),
		})
	}

	if a.Output != "" {
		if err := s.cache.Save(a.Output, doc); err != nil {
			return nil, err
		}
		res.Saved = a.Output
	}
	return res, nil
}

type paletteSortArgs struct {
	Path      string `json:"path"`
	Criterion string `json:"criterion"`
	Output    string `json:"output"`
}

func (a *paletteSortArgs) pathArg() string { return a.Path }

// SortResult reports palette_sort.
type SortResult struct {
	Criterion string       `json:"criterion"`
	Blocks    []BlockEntry `json:"blocks"`
	Saved     string       `json:"saved,omitempty"`
}

func (s *Server) handlePaletteSort(args json.RawMessage) (interface{}, error) {
	var a paletteSortArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if a.Criterion == "" {
		a.Criterion = "name"
	}
	crit, err := hsort.ParseCriterion(a.Criterion)
	if err != nil {
		return nil, err
	}
	doc, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}

	hsort.SortDocument(doc, crit, s.engine, hsort.WithLanguage(s.lang))

	res := &SortResult{Criterion: crit.String(), Blocks: describeBlocks(doc).Blocks}
	if a.Output != "" {
		if err := s.cache.Save(a.Output, doc); err != nil {
			return nil, err
		}
		res.Saved = a.Output
	}
	return res, nil
}

// === Verification Handlers ===

// VerifiedColor is one reference match for palette_verify.
type VerifiedColor struct {
	Index         int       `json:"index"`
	Name          string    `json:"name"`
	Reference     string    `json:"reference"`
	Model         string    `json:"model"`
	Values        []float32 `json:"values"`
	Authoritative bool      `json:"authoritative"`
	CanonicalHex  string    `json:"canonical_hex"`
	DisplayHex    string    `json:"display_hex"`
}

// VerifyResult reports palette_verify.
type VerifyResult struct {
	Colors        int             `json:"colors"`
	References    int             `json:"references"`
	Authoritative int             `json:"authoritative"`
	Drifted       int             `json:"drifted"`
	Tolerance     float64         `json:"tolerance"`
	Matches       []VerifiedColor `json:"matches"`
}

func (s *Server) handlePaletteVerify(args json.RawMessage) (interface{}, error) {
	var a pathArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	doc, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}

	colors := doc.Colors()
	res := &VerifyResult{Colors: len(colors), Tolerance: authority.Tolerance, Matches: []VerifiedColor{}}
	for i, c := range colors {
		ref, found, auth := s.engine.MatchReference(c)
		if !found {
			continue
		}
		res.References++
		if auth {
			res.Authoritative++
		} else {
			res.Drifted++
		}
		res.Matches = append(res.Matches, VerifiedColor{
			Index:         i,
			Name:          c.Name,
			Reference:     ref.Name,
			Model:         c.Model.String(),
			Values:        c.Values,
			Authoritative: auth,
			CanonicalHex:  colormath.Hex(ref.Canonical()),
			DisplayHex:    colormath.Hex(s.engine.ResolveDisplayColor(c)),
		})
	}
	return res, nil
}

// === Presentation Handlers ===

type palettePreviewArgs struct {
	Path       string  `json:"path"`
	Columns    int     `json:"columns"`
	SwatchSize int     `json:"swatch_size"`
	Scale      float64 `json:"scale"`
	Labels     *bool   `json:"labels"`
	Background string  `json:"background"`
	Output     string  `json:"output"`
}

func (a *palettePreviewArgs) pathArg() string { return a.Path }

// PreviewResult is a rendered sheet plus where it was saved, if anywhere.
type PreviewResult struct {
	*swatch.SheetResult
	Saved string `json:"saved,omitempty"`
}

func (s *Server) handlePalettePreview(args json.RawMessage) (interface{}, error) {
	var a palettePreviewArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if a.Scale == 0 {
		a.Scale = 1.0
	}
	doc, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}

	opts := swatch.SheetOptions{
		Columns:    a.Columns,
		SwatchSize: a.SwatchSize,
		Labels:     a.Labels == nil || *a.Labels,
		Scale:      a.Scale,
		Background: a.Background,
	}
	img, err := swatch.Draw(doc, s.engine, opts)
	if err != nil {
		return nil, err
	}
	sheet, err := swatch.EncodeSheet(img, len(doc.Colors()), opts)
	if err != nil {
		return nil, err
	}

	res := &PreviewResult{SheetResult: sheet}
	if a.Output != "" {
		if err := swatch.SaveSheet(a.Output, img); err != nil {
			return nil, err
		}
		res.Saved = a.Output
	}
	return res, nil
}

type colorContrastArgs struct {
	Hex     string `json:"hex"`
	Against string `json:"against"`
}

// ContrastResult reports color_contrast.
type ContrastResult struct {
	Color swatch.ColorResult `json:"color"`
	engine.Contrast
	Against      *swatch.ColorResult `json:"against,omitempty"`
	AgainstRatio float64             `json:"contrast_against,omitempty"`
}

func (s *Server) handleColorContrast(args json.RawMessage) (interface{}, error) {
	var a colorContrastArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Hex == "" {
		return nil, errors.New("hex is required")
	}
	c, err := colormath.ParseHex(a.Hex)
	if err != nil {
		return nil, err
	}

	res := &ContrastResult{
		Color:    swatch.DescribeColor(c),
		Contrast: engine.ContrastOf(c),
	}
	if a.Against != "" {
		other, err := colormath.ParseHex(a.Against)
		if err != nil {
			return nil, fmt.Errorf("against: %w", err)
		}
		desc := swatch.DescribeColor(other)
		res.Against = &desc
		res.AgainstRatio = colormath.ContrastRatio(c, other)
	}
	return res, nil
}
