package server

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

var (
	sessionIDProp = map[string]interface{}{
		"type":        "string",
		"description": "Session id returned by filter_open",
	}
	behaviorProp = map[string]interface{}{
		"type":        "string",
		"enum":        []string{"both", "decrease", "increase"},
		"description": "decrease only shrinks, increase only enlarges, both always resizes. Defaults to the server's default_behavior",
	}
	qualityProp = map[string]interface{}{
		"type":        "integer",
		"minimum":     0,
		"maximum":     100,
		"description": "JPEG compression quality. Defaults to the server's default_quality",
	}
	formatProp = map[string]interface{}{
		"type":        "string",
		"enum":        []string{"jpeg", "png", "gif", "bmp"},
		"description": "Output format. gif keeps every frame, the others keep the first",
	}
	orientationProp = map[string]interface{}{
		"type":        "string",
		"description": "EXIF orientation as a name (top-left, right-top, ...) or its number 0-8",
	}
)

func sessionOnlySchema() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"session_id": sessionIDProp,
		},
		"required": []string{"session_id"},
	}
}

func resizeSchema() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"session_id": sessionIDProp,
			"width": map[string]interface{}{
				"type":        "integer",
				"description": "Target width in pixels",
			},
			"height": map[string]interface{}{
				"type":        "integer",
				"description": "Target height in pixels",
			},
			"behavior": behaviorProp,
			"quality":  qualityProp,
		},
		"required": []string{"session_id", "width", "height"},
	}
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	return []Tool{
		// Session lifecycle
		{
			Name:        "filter_open",
			Description: "Open an image (JPEG, PNG, GIF or BMP) for filtering. Animated GIFs keep all frames. Returns a session id for the other filter_* tools.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to the image file",
					},
					"format": formatProp,
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "filter_info",
			Description: "Get the current width, height, frame count, output format and EXIF orientation of a session.",
			InputSchema: sessionOnlySchema(),
		},
		{
			Name:        "filter_save",
			Description: "Write the session's image to a file in the session's output format.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"session_id": sessionIDProp,
					"path": map[string]interface{}{
						"type":        "string",
						"description": "Absolute output path",
					},
				},
				"required": []string{"session_id", "path"},
			},
		},
		{
			Name:        "filter_release",
			Description: "Close a session and free its image. The session id is invalid afterwards.",
			InputSchema: sessionOnlySchema(),
		},

		// Resizing
		{
			Name:        "filter_resize",
			Description: "Scale every frame to fit within width x height, keeping the aspect ratio.",
			InputSchema: resizeSchema(),
		},
		{
			Name:        "filter_resize_crop",
			Description: "Scale every frame to cover width x height and crop the centered overflow, giving exactly width x height.",
			InputSchema: resizeSchema(),
		},
		{
			Name:        "filter_resize_quad",
			Description: "Scale and center-crop every frame to a size x size square.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"session_id": sessionIDProp,
					"size": map[string]interface{}{
						"type":        "integer",
						"description": "Edge length of the square in pixels",
					},
					"behavior": behaviorProp,
					"quality":  qualityProp,
				},
				"required": []string{"session_id", "size"},
			},
		},

		// Pixel operations
		{
			Name:        "filter_desaturate",
			Description: "Remove all color from the image, keeping lightness.",
			InputSchema: sessionOnlySchema(),
		},
		{
			Name:        "filter_add_border",
			Description: "Pad the image symmetrically to at least width x height using the color of its left edge. Images already that large are left unchanged.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"session_id": sessionIDProp,
					"width": map[string]interface{}{
						"type":        "integer",
						"description": "Minimum width in pixels",
					},
					"height": map[string]interface{}{
						"type":        "integer",
						"description": "Minimum height in pixels",
					},
				},
				"required": []string{"session_id", "width", "height"},
			},
		},
		{
			Name:        "filter_process_orientation",
			Description: "Rotate and flip the pixels to match the EXIF orientation tag, then clear the tag.",
			InputSchema: sessionOnlySchema(),
		},
		{
			Name:        "filter_rotate",
			Description: "Rotate every frame clockwise. Quarter turns are exact; other angles enlarge the canvas to fit.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"session_id": sessionIDProp,
					"degrees": map[string]interface{}{
						"type":        "number",
						"description": "Clockwise angle in degrees",
					},
				},
				"required": []string{"session_id", "degrees"},
			},
		},
		{
			Name:        "filter_set_format",
			Description: "Change the format filter_save writes.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"session_id": sessionIDProp,
					"format":     formatProp,
				},
				"required": []string{"session_id", "format"},
			},
		},

		{
			Name:        "filter_set_orientation",
			Description: "Replace the EXIF orientation tag without touching the pixels, for images whose tag is missing or wrong. Run filter_process_orientation afterwards to apply it.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"session_id":  sessionIDProp,
					"orientation": orientationProp,
				},
				"required": []string{"session_id", "orientation"},
			},
		},

		// One-shot
		{
			Name:        "filter_apply",
			Description: "Open an image, run a list of operations in order, save it and close it in a single call. The image is closed even when an operation fails.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"input": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to the source image",
					},
					"output": map[string]interface{}{
						"type":        "string",
						"description": "Absolute output path",
					},
					"format": formatProp,
					"operations": map[string]interface{}{
						"type": "array",
						"items": map[string]interface{}{
							"type": "object",
							"properties": map[string]interface{}{
								"op": map[string]interface{}{
									"type": "string",
									"enum": []string{
										"resize", "resize_crop", "resize_quad", "desaturate",
										"add_border", "process_orientation", "rotate", "set_format",
										"set_orientation",
									},
								},
								"width":       map[string]interface{}{"type": "integer"},
								"height":      map[string]interface{}{"type": "integer"},
								"size":        map[string]interface{}{"type": "integer"},
								"degrees":     map[string]interface{}{"type": "number"},
								"behavior":    behaviorProp,
								"quality":     qualityProp,
								"format":      formatProp,
								"orientation": orientationProp,
							},
							"required": []string{"op"},
						},
						"description": "Operations applied in order",
					},
				},
				"required": []string{"input", "output", "operations"},
			},
		},

		// Inspection
		{
			Name:        "image_sample_color",
			Description: "Get the exact color value at a specific pixel coordinate of an image file, for example to check a border fill.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to the image file",
					},
					"x": map[string]interface{}{
						"type":        "integer",
						"description": "X coordinate (0-based, from left)",
					},
					"y": map[string]interface{}{
						"type":        "integer",
						"description": "Y coordinate (0-based, from top)",
					},
				},
				"required": []string{"path", "x", "y"},
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
