// Package server implements the MCP (Model Context Protocol) server for the
// image filter pipeline.
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
// Session lifecycle:
//   - filter_open: Load an image and return a session id
//   - filter_info: Size, frame count, format and orientation of a session
//   - filter_save: Write the session's image
//   - filter_release: Close a session
//
// Pipeline operations, each taking a session id:
//   - filter_resize, filter_resize_crop, filter_resize_quad
//   - filter_desaturate
//   - filter_add_border
//   - filter_process_orientation
//   - filter_rotate
//   - filter_set_format
//   - filter_set_orientation: Replace the EXIF tag, applied by filter_process_orientation
//
// One-shot and inspection:
//   - filter_apply: open, run a list of operations, save and close
//   - image_sample_color: Get color at a pixel of an image file
//
// # Sessions
//
// Each filter_open creates a session holding one decoded image until
// filter_release is called or the server's input ends. The number of open
// sessions is capped by the max_sessions setting. An operation that fails
// leaves its session in a failed state in which every later operation
// reports the same error; release it and open the file again.
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
//	cfg, _ := config.Load("")
//	srv := server.New(cfg, logger, version)
//	if err := srv.Run(); err != nil {
//	    logger.Fatal("server error", zap.Error(err))
//	}
package server
