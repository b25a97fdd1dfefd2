package server

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"

	"github.com/ironsheep/image-highlights-mcp/internal/config"
	"github.com/ironsheep/image-highlights-mcp/internal/imaging"
	"github.com/ironsheep/image-highlights-mcp/internal/logging"
)

// Version is reported in the initialize handshake.
const Version = "0.1.0"

// ProtocolVersion is the MCP revision this server speaks.
const ProtocolVersion = "2024-11-05"

// JSON-RPC error codes.
const (
	codeParseError     = -32700
	codeInvalidRequest = -32600
	codeMethodNotFound = -32601
	codeInvalidParams  = -32602
	codeToolFailed     = -32000
)

// maxLine bounds a single request line. Base64 images in tool results only
// travel outward, so requests stay small.
const maxLine = 1024 * 1024

// Server answers MCP requests against a shared image cache.
type Server struct {
	cache *imaging.ImageCache

	// base is the pipeline configuration tool arguments are layered on.
	base config.Config
}

// MCPRequest is an incoming JSON-RPC message. Notifications carry no ID.
type MCPRequest struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      interface{}     `json:"id"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
}

// MCPResponse is an outgoing JSON-RPC response.
type MCPResponse struct {
	JSONRPC string      `json:"jsonrpc"`
	ID      interface{} `json:"id"`
	Result  interface{} `json:"result,omitempty"`
	Error   *MCPError   `json:"error,omitempty"`
}

// MCPError is the error member of a response.
type MCPError struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// methods maps JSON-RPC method names to handlers. A handler returning nil
// sends nothing back.
var methods = map[string]func(*Server, *MCPRequest) *MCPResponse{
	"initialize":                (*Server).handleInitialize,
	"notifications/initialized": func(*Server, *MCPRequest) *MCPResponse { return nil },
	"tools/list":                (*Server).handleToolsList,
	"tools/call":                (*Server).handleToolsCall,
	"ping": func(s *Server, req *MCPRequest) *MCPResponse {
		return s.resultResponse(req.ID, map[string]interface{}{})
	},
}

// New returns a server whose tools start from cfg.
func New(cfg config.Config) *Server {
	return &Server{
		cache: imaging.NewImageCache(),
		base:  cfg,
	}
}

// Run reads one request per line from in and writes each response as one
// line of JSON to out. It returns when in is exhausted or a line exceeds the
// size limit.
func (s *Server) Run(in io.Reader, out io.Writer) error {
	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLine)
	encoder := json.NewEncoder(out)

	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		resp := s.handleLine(line)
		if resp == nil {
			continue
		}
		if err := encoder.Encode(resp); err != nil {
			logging.Logf("Failed to encode response to %v: %v", resp.ID, err)
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read request: %w", err)
	}
	return nil
}

// handleLine decodes one raw request. Lines that are not JSON get a parse
// error with a null ID, as JSON-RPC requires.
func (s *Server) handleLine(line []byte) *MCPResponse {
	var req MCPRequest
	if err := json.Unmarshal(line, &req); err != nil {
		logging.Logf("Failed to parse request: %v", err)
		return s.errorResponse(nil, codeParseError, "Parse error", err.Error())
	}
	return s.handleRequest(&req)
}

// handleRequest routes a decoded request to its method handler.
func (s *Server) handleRequest(req *MCPRequest) *MCPResponse {
	logging.Debugf("request %v: %s", req.ID, req.Method)

	if req.JSONRPC != "2.0" {
		return s.errorResponse(req.ID, codeInvalidRequest, "Invalid Request",
			fmt.Sprintf("unsupported jsonrpc version %q", req.JSONRPC))
	}

	handle, ok := methods[req.Method]
	if !ok {
		if req.ID == nil {
			// Unknown notifications are ignored.
			return nil
		}
		return s.errorResponse(req.ID, codeMethodNotFound,
			fmt.Sprintf("Method not found: %s", req.Method), nil)
	}
	return handle(s, req)
}

func (s *Server) handleInitialize(req *MCPRequest) *MCPResponse {
	return s.resultResponse(req.ID, map[string]interface{}{
		"protocolVersion": ProtocolVersion,
		"capabilities": map[string]interface{}{
			"tools": map[string]interface{}{},
		},
		"serverInfo": map[string]interface{}{
			"name":    "image-highlights-mcp",
			"version": Version,
		},
		"instructions": "Load an image with image_load, then call highlights_extract " +
			"to find its busy regions, highlights_cut to crop them, or " +
			"highlights_annotate to outline them on the image.",
	})
}

func (s *Server) resultResponse(id, result interface{}) *MCPResponse {
	return &MCPResponse{JSONRPC: "2.0", ID: id, Result: result}
}

// errorResponse builds a JSON-RPC error response. data is omitted when nil.
func (s *Server) errorResponse(id interface{}, code int, message string, data interface{}) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      id,
		Error: &MCPError{
			Code:    code,
			Message: message,
			Data:    data,
		},
	}
}
