package server

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/ironsheep/picwizard/internal/dispatch"
	"github.com/ironsheep/picwizard/internal/raster"
	"github.com/ironsheep/picwizard/internal/transform"
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "image_load", "image_enhance").
	Name string `json:"name"`

	// Arguments contains the tool-specific parameters as JSON.
	Arguments json.RawMessage `json:"arguments"`
}

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
		return s.errorResponse(req.ID, -32602, "Invalid params", err.Error())
	}

	result, err := s.executeTool(params.Name, params.Arguments)
	if err != nil {
		return s.errorResponse(req.ID, -32000, "Tool execution failed", err.Error())
	}

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
//
// Each tool handler:
//  1. Unmarshals arguments from JSON
//  2. Applies default values for optional parameters
//  3. Loads images from cache as needed
//  4. Runs the requested catalog operation through the dispatcher
//  5. Returns the result or error
func (s *Server) executeTool(name string, args json.RawMessage) (interface{}, error) {
	switch name {
	case "image_load":
		return s.handleImageLoad(args)
	case "image_enhance":
		return s.handleImageEnhance(args)
	case "image_extract_palette":
		return s.handleImageExtractPalette(args)
	case "image_list_operations":
		return s.handleListOperations()
	default:
		return nil, fmt.Errorf("unknown tool: %s", name)
	}
}

// errorResponse creates a JSON-RPC error response with the given details.
func (s *Server) errorResponse(id interface{}, code int, message, data string) *MCPResponse {
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

// mustMarshalJSON converts a value to pretty-printed JSON string.
// Panics are suppressed; on marshal failure, returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

// === Image Information ===

type imageLoadArgs struct {
	Path string `json:"path"`
}

func (s *Server) handleImageLoad(args json.RawMessage) (interface{}, error) {
	var a imageLoadArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	return raster.LoadImageInfo(s.cache, a.Path)
}

// === Enhancement ===

// EnhanceResult describes an enhanced image. The pixels are either inline
// (ImageBase64) or written to OutputPath, never both.
type EnhanceResult struct {
	Operation   string `json:"operation"`
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	Channels    int    `json:"channels"`
	MimeType    string `json:"mime_type"`
	ImageBase64 string `json:"image_base64,omitempty"`
	OutputPath  string `json:"output_path,omitempty"`
}

type imageEnhanceArgs struct {
	Path       string                     `json:"path"`
	Operation  string                     `json:"operation"`
	Params     map[string]json.RawMessage `json:"params"`
	OutputPath string                     `json:"output_path"`
	Format     string                     `json:"format"`
	Quality    int                        `json:"quality"`
}

func (s *Server) handleImageEnhance(args json.RawMessage) (interface{}, error) {
	var a imageEnhanceArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Operation == "" {
		return nil, fmt.Errorf("operation is required")
	}
	if a.Format == "" {
		a.Format = s.format
	}
	if a.Quality == 0 {
		a.Quality = s.jpegQuality
	}
	format := raster.NormalizeFormat(a.Format)

	params, err := stringParams(a.Params)
	if err != nil {
		return nil, err
	}
	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}

	res, err := s.dispatcher.Apply(a.Operation, img, params)
	if err != nil {
		return nil, err
	}
	if res.Image == nil {
		return nil, fmt.Errorf("%s does not produce an image; use image_extract_palette", a.Operation)
	}

	var buf bytes.Buffer
	if err := raster.Encode(&buf, res.Image, format, a.Quality); err != nil {
		return nil, fmt.Errorf("failed to encode result: %w", err)
	}

	out := &EnhanceResult{
		Operation: a.Operation,
		Width:     res.Image.Width(),
		Height:    res.Image.Height(),
		Channels:  res.Image.Channels(),
		MimeType:  raster.MimeType(format),
	}
	if a.OutputPath != "" {
		if err := os.WriteFile(a.OutputPath, buf.Bytes(), 0644); err != nil {
			return nil, fmt.Errorf("failed to write %s: %w", a.OutputPath, err)
		}
		out.OutputPath = a.OutputPath
	} else {
		out.ImageBase64 = base64.StdEncoding.EncodeToString(buf.Bytes())
	}
	return out, nil
}

// stringParams flattens JSON parameter values into the string form the
// dispatcher coerces. Strings are taken verbatim; numbers, booleans and
// arrays (control points) keep their JSON text.
func stringParams(raw map[string]json.RawMessage) (map[string]string, error) {
	params := make(map[string]string, len(raw))
	for k, v := range raw {
		var s string
		if err := json.Unmarshal(v, &s); err == nil {
			params[k] = s
			continue
		}
		var decoded interface{}
		if err := json.Unmarshal(v, &decoded); err != nil {
			return nil, fmt.Errorf("parameter %s: %w", k, err)
		}
		switch val := decoded.(type) {
		case float64:
			params[k] = strconv.FormatFloat(val, 'f', -1, 64)
		default:
			params[k] = string(v)
		}
	}
	return params, nil
}

// === Palette ===

// PaletteResult lists dominant colors, most common first.
type PaletteResult struct {
	Colors []transform.Swatch `json:"colors"`
}

type imagePaletteArgs struct {
	Path      string `json:"path"`
	NumColors int    `json:"num_colors"`
}

func (s *Server) handleImageExtractPalette(args json.RawMessage) (interface{}, error) {
	var a imagePaletteArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.NumColors == 0 {
		a.NumColors = 5
	}
	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}

	res, err := s.dispatcher.Apply("extract_palette", img, map[string]string{
		"num_colors": strconv.Itoa(a.NumColors),
	})
	if err != nil {
		return nil, err
	}
	return &PaletteResult{Colors: res.Palette}, nil
}

// === Catalog ===

func (s *Server) handleListOperations() (interface{}, error) {
	return map[string][]dispatch.OperationInfo{
		"operations": s.dispatcher.Operations(),
	}, nil
}
