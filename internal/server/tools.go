package server

import (
	"github.com/ironsheep/picwizard/internal/transform"
)

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

// ToolDefinitions returns all available tools. The operation enum of
// image_enhance is taken from the server's dispatcher so the listing always
// matches what Apply accepts.
func (s *Server) ToolDefinitions() []Tool {
	ops := s.dispatcher.Operations()
	names := make([]string, 0, len(ops))
	for _, op := range ops {
		if op.Output == "image" {
			names = append(names, op.Name)
		}
	}

	return []Tool{
		{
			Name:        "image_load",
			Description: "Load an image file and return its dimensions, channel count and format. The decoded image is cached for subsequent operations.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to the image file",
					},
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "image_enhance",
			Description: "Apply one enhancement operation to an image. The result is returned as base64 data, or written to output_path when given. Use image_list_operations to see each operation's parameters.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to the image file",
					},
					"operation": map[string]interface{}{
						"type":        "string",
						"description": "Enhancement operation name",
						"enum":        names,
					},
					"params": map[string]interface{}{
						"type":                 "object",
						"description":          "Operation parameters by name. Missing parameters take their defaults.",
						"additionalProperties": true,
					},
					"output_path": map[string]interface{}{
						"type":        "string",
						"description": "Optional path to write the result to instead of returning it inline",
					},
					"format": map[string]interface{}{
						"type":        "string",
						"description": "Output encoding. Default from server configuration",
						"enum":        []string{"png", "jpeg"},
					},
					"quality": map[string]interface{}{
						"type":        "integer",
						"description": "JPEG quality 1-100",
						"minimum":     1,
						"maximum":     100,
					},
				},
				"required": []string{"path", "operation"},
			},
		},
		{
			Name:        "image_extract_palette",
			Description: "Find the dominant colors of an image by k-means clustering. Returns hex, RGB, HSL and the share of pixels for each color, most common first.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to the image file",
					},
					"num_colors": map[string]interface{}{
						"type":        "integer",
						"description": "Number of colors to extract. Default 5",
						"default":     5,
						"minimum":     1,
						"maximum":     transform.MaxPaletteColors,
					},
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "image_list_operations",
			Description: "List every enhancement operation with its accepted input, output kind and parameters.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": map[string]interface{}{},
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
			"tools": s.ToolDefinitions(),
		},
	}
}
