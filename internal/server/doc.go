// Package server implements the MCP (Model Context Protocol) server for swatch
// palette tools.
//
// This package provides a JSON-RPC 2.0 server that exposes palette decoding,
// conversion, verification, sorting and preview through the MCP protocol.
//
// # Protocol
//
// The server communicates over stdio using JSON-RPC 2.0:
//   - Input: JSON-RPC requests on stdin (one per line)
//   - Output: JSON-RPC responses on stdout
//
// Supported MCP methods:
//   - initialize: Protocol handshake
//   - tools/list: Enumerate available tools
//   - tools/call: Execute a tool with arguments
//   - ping: Health check
//
// # Available Tools
//
// Palette Information:
//   - palette_load: Decode a palette and summarise it
//   - palette_colors: List colors with display values and reference status
//   - palette_inspect: List raw blocks with nesting depth
//
// Editing:
//   - palette_convert: Convert colors to another model
//   - palette_sort: Sort within groups by name, hue, saturation or lightness
//
// Verification:
//   - palette_verify: Check colors against the reference table
//
// Presentation:
//   - palette_preview: Render a swatch sheet as PNG
//   - color_contrast: WCAG contrast for a hex color
//
// Editing tools never touch the source file. They write only to an explicit
// output path.
//
// # Palette Caching
//
// Decoded palettes are cached by path in a session.DocumentCache and reused
// across tool calls. Handlers receive copies, so an edit that is not saved
// leaves the cache as it was.
//
// # Error Handling
//
// Tool execution errors are returned as JSON-RPC error responses with:
//   - code: -32000 (tool execution failure) or standard JSON-RPC codes
//   - message: Human-readable error description
//   - data: Additional error details (typically the Go error string)
//
// # Usage
//
//	srv := server.New(server.WithEngine(eng), server.WithLogger(l))
//	if err := srv.Run(ctx); err != nil {
//	    l.Fatal("server error", zap.Error(err))
//	}
package server
