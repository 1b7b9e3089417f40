package server

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"
	"golang.org/x/text/language"

	"github.com/ironsheep/palette-tools-mcp/internal/authority"
	"github.com/ironsheep/palette-tools-mcp/internal/engine"
	"github.com/ironsheep/palette-tools-mcp/internal/session"
)

// Name and Version identify the server in the initialize handshake.
const Name = "palette-tools-mcp"

var Version = "0.1.0"

// Server handles MCP protocol communication
type Server struct {
	cache  *session.DocumentCache
	engine *engine.Engine
	lang   language.Tag
	log    *zap.Logger

	in  io.Reader
	out io.Writer
}

// Option configures a Server.
type Option func(*Server)

// WithEngine sets the conversion engine. The default resolves against the
// built-in reference table with analytic CMYK.
func WithEngine(e *engine.Engine) Option {
	return func(s *Server) { s.engine = e }
}

// WithCache sets the document cache.
func WithCache(c *session.DocumentCache) Option {
	return func(s *Server) { s.cache = c }
}

// WithLogger sets the logger for protocol problems and tool calls.
func WithLogger(l *zap.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.log = l
		}
	}
}

// WithLanguage sets the collation language for sorting group names.
func WithLanguage(tag language.Tag) Option {
	return func(s *Server) { s.lang = tag }
}

// WithIO replaces stdin and stdout.
func WithIO(in io.Reader, out io.Writer) Option {
	return func(s *Server) {
		s.in = in
		s.out = out
	}
}

// MCPRequest represents an incoming JSON-RPC request
type MCPRequest struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      interface{}     `json:"id"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
}

// MCPResponse represents an outgoing JSON-RPC response
type MCPResponse struct {
	JSONRPC string      `json:"jsonrpc"`
	ID      interface{} `json:"id"`
	Result  interface{} `json:"result,omitempty"`
	Error   *MCPError   `json:"error,omitempty"`
}

// MCPError represents a JSON-RPC error
type MCPError struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// JSON-RPC error codes used by the server.
const (
	codeParseError     = -32700
	codeMethodNotFound = -32601
	codeInvalidParams  = -32602
	codeToolFailed     = -32000
)

// New creates a new MCP server instance
func New(opts ...Option) *Server {
	s := &Server{
		lang: language.English,
		log:  zap.NewNop(),
		in:   os.Stdin,
		out:  os.Stdout,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.engine == nil {
		s.engine = engine.New(authority.Default(), engine.WithLogger(s.log))
	}
	if s.cache == nil {
		s.cache = session.NewDocumentCache(session.WithLogger(s.log))
	}
	return s
}

// Run reads one JSON-RPC message per line until the input ends or ctx is
// cancelled, answering requests on the output.
func (s *Server) Run(ctx context.Context) error {
	scanner := bufio.NewScanner(s.in)
	// Increase buffer size for large requests
	buf := make([]byte, 0, 64*1024)
	scanner.Buffer(buf, 1024*1024)

	encoder := json.NewEncoder(s.out)

	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var req MCPRequest
		if err := json.Unmarshal(line, &req); err != nil {
			s.log.Warn("failed to parse request", zap.Error(err))
			if err := encoder.Encode(s.errorResponse(nil, codeParseError, "Parse error", err.Error())); err != nil {
				s.log.Error("failed to encode response", zap.Error(err))
			}
			continue
		}

		resp := s.handleRequest(&req)
		if resp != nil {
			if err := encoder.Encode(resp); err != nil {
				s.log.Error("failed to encode response", zap.Error(err))
			}
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("scanner error: %w", err)
	}

	return nil
}

// handleRequest routes requests to appropriate handlers
func (s *Server) handleRequest(req *MCPRequest) *MCPResponse {
	switch req.Method {
	case "initialize":
		return s.handleInitialize(req)
	case "notifications/initialized":
		// Client acknowledgment, no response needed
		return nil
	case "tools/list":
		return s.handleToolsList(req)
	case "tools/call":
		return s.handleToolsCall(req)
	case "ping":
		return &MCPResponse{
			JSONRPC: "2.0",
			ID:      req.ID,
			Result:  map[string]interface{}{},
		}
	default:
		return s.errorResponse(req.ID, codeMethodNotFound, fmt.Sprintf("Method not found: %s", req.Method), "")
	}
}

// handleInitialize responds to the initialize request
func (s *Server) handleInitialize(req *MCPRequest) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"protocolVersion": "2024-11-05",
			"capabilities": map[string]interface{}{
				"tools": map[string]interface{}{},
			},
			"serverInfo": map[string]interface{}{
				"name":    Name,
				"version": Version,
			},
		},
	}
}
