// Package server implements the MCP (Model Context Protocol) server for
// perceptual image hashing.
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
// Image information:
//   - image_load: Load image and get metadata
//
// Hashing:
//   - image_hash: Hash an image or a region of it
//   - image_hash_batch: Hash many images concurrently
//
// Hash comparison:
//   - hash_distance: Hamming distance between two hashes
//   - hash_similar: Threshold test on two hashes
//
// Image comparison:
//   - image_compare: Hash and compare two images
//   - image_compare_regions: Hash and compare two regions of one image
//
// Hash index (requires an index file):
//   - index_add, index_remove, index_list
//   - index_search: Nearest indexed images to a file or hash
//   - index_duplicates: Groups of near-duplicate indexed images
//
// # Image Caching
//
// Decoded images are cached by path for the lifetime of the process and
// reloaded when the file on disk changes.
//
// # Error Handling
//
// Tool execution errors are returned as JSON-RPC error responses with:
//   - code: -32000 (tool execution failure) or standard JSON-RPC codes
//   - message: Human-readable error description
//   - data: The Go error string
//
// # Usage
//
//	cfg, err := config.Load()
//	if err != nil {
//	    logrus.Fatal(err)
//	}
//	srv := server.New(cfg, nil, logrus.StandardLogger())
//	if err := srv.Run(ctx); err != nil {
//	    logrus.Fatal(err)
//	}
package server
