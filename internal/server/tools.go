package server

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

var (
	pathProp = map[string]interface{}{
		"type":        "string",
		"description": "Absolute path to the image file",
	}
	algorithmProp = map[string]interface{}{
		"type":        "string",
		"enum":        []string{"dct", "phash", "ahash", "dhash"},
		"description": "Hash algorithm. Default dct",
		"default":     "dct",
	}
	grayscaleProp = map[string]interface{}{
		"type":        "string",
		"enum":        []string{"rec601", "rec709", "lightness"},
		"description": "Gray conversion used by the dct algorithm. Defaults to the server setting",
	}
	thresholdProp = map[string]interface{}{
		"type":        "integer",
		"description": "Hashes are similar when their distance is strictly below this value (1-65). Defaults to the server setting, normally 13",
	}
	regionProp = map[string]interface{}{
		"type":        "object",
		"description": "Rectangle in pixels; x2 and y2 are exclusive",
		"properties": map[string]interface{}{
			"x1": map[string]interface{}{"type": "integer"},
			"y1": map[string]interface{}{"type": "integer"},
			"x2": map[string]interface{}{"type": "integer"},
			"y2": map[string]interface{}{"type": "integer"},
		},
		"required": []string{"x1", "y1", "x2", "y2"},
	}
	hashProp = map[string]interface{}{
		"type":        "string",
		"description": "Hash as returned by image_hash (lowercase hex, up to 16 digits)",
	}
)

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	return []Tool{
		// Image information
		{
			Name:        "image_load",
			Description: "Load an image file and return its dimensions, format and file size.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProp,
				},
				"required": []string{"path"},
			},
		},

		// Hashing
		{
			Name:        "image_hash",
			Description: "Compute the 64-bit perceptual hash of an image, or of a region of it. Visually similar images have hashes with a small Hamming distance.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path":      pathProp,
					"algorithm": algorithmProp,
					"grayscale": grayscaleProp,
					"region":    regionProp,
					"named_region": map[string]interface{}{
						"type":        "string",
						"enum":        []string{"top-left", "top-right", "bottom-left", "bottom-right", "top-half", "bottom-half", "left-half", "right-half", "center"},
						"description": "Hash a named part of the image instead of a pixel region",
					},
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "image_hash_batch",
			Description: "Hash many images concurrently. Each path reports its hash or its own error.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"paths": map[string]interface{}{
						"type":        "array",
						"items":       map[string]interface{}{"type": "string"},
						"description": "Absolute paths to the image files",
					},
					"algorithm": algorithmProp,
					"grayscale": grayscaleProp,
				},
				"required": []string{"paths"},
			},
		},

		// Hash comparison
		{
			Name:        "hash_distance",
			Description: "Count the differing bits between two hashes (0-64).",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"hash1": hashProp,
					"hash2": hashProp,
				},
				"required": []string{"hash1", "hash2"},
			},
		},
		{
			Name:        "hash_similar",
			Description: "Report whether two hashes are closer than a threshold.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"hash1":     hashProp,
					"hash2":     hashProp,
					"threshold": thresholdProp,
				},
				"required": []string{"hash1", "hash2"},
			},
		},

		// Image comparison
		{
			Name:        "image_compare",
			Description: "Hash two images and report their distance and whether they look alike.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path1":     pathProp,
					"path2":     pathProp,
					"algorithm": algorithmProp,
					"grayscale": grayscaleProp,
					"threshold": thresholdProp,
				},
				"required": []string{"path1", "path2"},
			},
		},
		{
			Name:        "image_compare_regions",
			Description: "Hash two regions of one image and report their distance and whether they look alike.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path":      pathProp,
					"region1":   regionProp,
					"region2":   regionProp,
					"algorithm": algorithmProp,
					"grayscale": grayscaleProp,
					"threshold": thresholdProp,
				},
				"required": []string{"path", "region1", "region2"},
			},
		},

		// Hash index
		{
			Name:        "index_add",
			Description: "Hash an image and store it in the index. Re-adding a path replaces its entry.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path":      pathProp,
					"algorithm": algorithmProp,
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "index_search",
			Description: "Find indexed images similar to an image file or to a given hash, nearest first.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path":      pathProp,
					"hash":      hashProp,
					"algorithm": algorithmProp,
					"threshold": thresholdProp,
					"limit": map[string]interface{}{
						"type":        "integer",
						"description": "Maximum matches to return. Default 0 (no limit)",
					},
				},
			},
		},
		{
			Name:        "index_remove",
			Description: "Remove an entry from the index by ID or path.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"id":   map[string]interface{}{"type": "string", "description": "Entry ID returned by index_add"},
					"path": pathProp,
				},
			},
		},
		{
			Name:        "index_list",
			Description: "List indexed images sorted by path.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"algorithm": map[string]interface{}{
						"type":        "string",
						"enum":        []string{"dct", "phash", "ahash", "dhash"},
						"description": "Only list entries of this algorithm. Default: all",
					},
				},
			},
		},
		{
			Name:        "index_duplicates",
			Description: "Group indexed images that are near-duplicates of each other.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"algorithm": algorithmProp,
					"threshold": thresholdProp,
				},
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
