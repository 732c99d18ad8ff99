// Package server implements the MCP (Model Context Protocol) server that
// exposes the picwizard enhancement catalog as tools.
//
// # Protocol
//
// The server communicates over stdio using JSON-RPC 2.0:
//   - Input: JSON-RPC requests on stdin (one per line)
//   - Output: JSON-RPC responses on stdout
//
// Logs go to stderr so they never interleave with protocol traffic.
//
// Supported MCP methods:
//   - initialize: Protocol handshake
//   - tools/list: Enumerate available tools
//   - tools/call: Execute a tool with arguments
//   - ping: Health check
//
// # Available Tools
//
//   - image_load: Load an image and report its metadata
//   - image_enhance: Apply one catalog operation, returning base64 image
//     data or writing the result to output_path
//   - image_extract_palette: Dominant colors by k-means clustering
//   - image_list_operations: Catalog operations with their parameters
//
// # Image Caching
//
// Decoded images are cached by path for the lifetime of the process, so a
// sequence of enhancements on one file decodes it once. Cached rasters are
// never modified; every operation writes a new buffer.
//
// # Error Handling
//
// Tool execution errors are returned as JSON-RPC error responses with:
//   - code: -32000 (tool execution failure) or standard JSON-RPC codes
//   - message: Human-readable error description
//   - data: The Go error string, e.g. `gamma_correction: invalid parameter gamma="abc": expected a finite number`
//
// # Usage
//
//	srv := server.New(server.WithOutput("png", 95))
//	if err := srv.Run(); err != nil {
//	    log.Fatal().Err(err).Msg("server stopped")
//	}
package server
