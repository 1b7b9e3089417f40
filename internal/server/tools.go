package server

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

func pathProperty() map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": "Absolute path to the .ase palette file",
	}
}

func outputProperty() map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": "Optional absolute path to write the result to. The source file is never modified unless output names it.",
	}
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	return []Tool{
		// Palette Information
		{
			Name:        "palette_load",
			Description: "Load an Adobe Swatch Exchange (.ase) palette and summarise it: version, block, group and color counts, color models used, and any non-fatal decode warnings such as skipped unknown blocks. Also reports how many reference swatches are known and whether the CMYK device profile is none, loading, failed or ready.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "palette_colors",
			Description: "List every color in a palette with its stored model and values, group path, resolved display color (hex, RGB, HSL), color type, whether it matches a known reference swatch, and the better text color (white or black) to draw on it.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "palette_inspect",
			Description: "List the raw block sequence of a palette (group starts, group ends, colors) with nesting depth. Use this to diagnose malformed grouping such as unmatched group ends.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
				},
				"required": []string{"path"},
			},
		},

		// Editing
		{
			Name:        "palette_convert",
			Description: "Convert one color, or every color, to another color model (RGB, CMYK, Lab, Gray). Conversion starts from the resolved display color, so CMYK input uses the configured press profile and reference swatches use their canonical values.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
					"model": map[string]interface{}{
						"type":        "string",
						"description": "Target model",
						"enum":        []string{"RGB", "CMYK", "Lab", "Gray"},
					},
					"index": map[string]interface{}{
						"type":        "integer",
						"description": "Zero-based color index as listed by palette_colors. Omit to convert all colors.",
					},
					"output": outputProperty(),
				},
				"required": []string{"path", "model"},
			},
		},
		{
			Name:        "palette_sort",
			Description: "Sort a palette within its groups. Groups come before colors and keep their contents; group names sort alphabetically for the configured locale, colors by the chosen criterion.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
					"criterion": map[string]interface{}{
						"type":        "string",
						"description": "name, hue (ascending), saturation (descending) or lightness (ascending). Default name",
						"enum":        []string{"name", "hue", "saturation", "lightness"},
						"default":     "name",
					},
					"output": outputProperty(),
				},
				"required": []string{"path"},
			},
		},

		// Verification
		{
			Name:        "palette_verify",
			Description: "Check palette colors against the reference swatch table. Reports each color whose name is a known reference, whether its stored values still match within tolerance, and the canonical color.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
				},
				"required": []string{"path"},
			},
		},

		// Presentation
		{
			Name:        "palette_preview",
			Description: "Render the palette as a swatch sheet and return it as base64-encoded PNG. Tiles appear in palette order, each optionally labeled with its color index.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
					"columns": map[string]interface{}{
						"type":        "integer",
						"description": "Tiles per row. Default 8",
						"default":     8,
					},
					"swatch_size": map[string]interface{}{
						"type":        "integer",
						"description": "Tile edge in pixels. Default 48",
						"default":     48,
					},
					"scale": map[string]interface{}{
						"type":        "number",
						"description": "Optional scale factor for the whole sheet. Default 1.0",
						"default":     1.0,
					},
					"labels": map[string]interface{}{
						"type":        "boolean",
						"description": "Draw color indexes on tiles. Default true",
						"default":     true,
					},
					"background": map[string]interface{}{
						"type":        "string",
						"description": "Sheet background as hex. Default #FFFFFF",
						"default":     "#FFFFFF",
					},
					"output": map[string]interface{}{
						"type":        "string",
						"description": "Optional absolute path to also save the sheet as PNG",
					},
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "color_contrast",
			Description: "Report WCAG relative luminance and contrast ratios for a hex color against white and black, the better text color, and optionally the ratio against a second color.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"hex": map[string]interface{}{
						"type":        "string",
						"description": "Color as #RRGGBB or #RGB",
					},
					"against": map[string]interface{}{
						"type":        "string",
						"description": "Optional second color as hex",
					},
				},
				"required": []string{"hex"},
			},
		},
	}
}

// handleToolsList returns the list of available tools
func (s *Server) handleToolsList(req *MCPRequest) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"tools": GetToolDefinitions(),
		},
	}
}
