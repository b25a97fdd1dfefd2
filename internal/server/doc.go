// Package server implements the MCP (Model Context Protocol) server for the
// highlight pipeline.
//
// This package provides a JSON-RPC 2.0 server that exposes the pipeline
// stages as MCP tools, so a client can ask where the busy regions of an
// image are and get them back as crops.
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
//   - image_load: Load image and get metadata
//   - highlights_find_edges: Binary edge map
//   - highlights_heat_map: Edge-density heat map and its statistics
//   - highlights_extract: Full pipeline, region list
//   - highlights_cut: Cropped regions, inline or written to a directory
//   - highlights_annotate: Source image with regions outlined
//
// Every highlights_* tool accepts the pipeline tunables (cell_size, dark,
// bright, edge_coef, max_iterations, parallel). A missing field keeps the
// configuration the server was started with; any value given, zero
// included, replaces it and must pass validation.
//
// # Image Caching
//
// The server maintains an in-memory cache of loaded images. Images are cached
// by path and reused across multiple tool calls, avoiding redundant disk I/O.
// The cache persists for the lifetime of the server process.
//
// # Error Handling
//
// Tool execution errors are returned as JSON-RPC error responses with:
//   - code: -32000 (tool execution failure), or the standard -32700 (line
//     is not JSON), -32600 (wrong jsonrpc version), -32601 and -32602
//   - message: Human-readable error description
//   - data: The Go error string, which names the failing stage and path
//
// An image with no edge activity is not an error; the tools report
// no_activity and an empty region list.
//
// # Usage
//
//	srv := server.New(config.Default())
//	if err := srv.Run(os.Stdin, os.Stdout); err != nil {
//	    log.Fatal(err)
//	}
package server
