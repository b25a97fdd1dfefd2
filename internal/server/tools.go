package server

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

// pipelineProperties returns the schema properties shared by every
// highlights_* tool, merged with extra.
func pipelineProperties(extra map[string]interface{}) map[string]interface{} {
	props := map[string]interface{}{
		"path": map[string]interface{}{
			"type":        "string",
			"description": "Absolute path to the image file",
		},
		"cell_size": map[string]interface{}{
			"type":        "integer",
			"description": "Heat-map brick size in pixels. Must be even and divide both image dimensions. Default 8",
		},
		"dark": map[string]interface{}{
			"type":        "integer",
			"description": "Lower luminance clamp, 1-254 and below bright. Default 5",
		},
		"bright": map[string]interface{}{
			"type":        "integer",
			"description": "Upper luminance clamp, 1-254 and above dark. Default 250",
		},
		"edge_coef": map[string]interface{}{
			"type":        "number",
			"description": "Outer weight of the 3x3 edge kernels. Lower is less sensitive. Default 10",
		},
		"max_iterations": map[string]interface{}{
			"type":        "integer",
			"description": "Cap on cellular automaton passes. Default 1000",
		},
		"parallel": map[string]interface{}{
			"type":        "boolean",
			"description": "Split each automaton pass across CPUs",
		},
	}
	for k, v := range extra {
		props[k] = v
	}
	return props
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	return []Tool{
		// Basic Image Information
		{
			Name:        "image_load",
			Description: "Load an image file and return its dimensions and format. The decoded image is cached for subsequent highlight operations.",
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

		// Pipeline stages
		{
			Name:        "highlights_find_edges",
			Description: "Run the edge detector and return the binary edge map as base64 PNG (edges black, background white) with the edge pixel count.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": pipelineProperties(nil),
				"required":   []string{"path"},
			},
		},
		{
			Name:        "highlights_heat_map",
			Description: "Build the edge-density heat map. Returns its statistics and a rendering from black (cold) to pale yellow (hot).",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": pipelineProperties(map[string]interface{}{
					"scale": map[string]interface{}{
						"type":        "integer",
						"description": "Rendered pixels per heat cell. Default 4",
						"default":     4,
					},
				}),
				"required": []string{"path"},
			},
		},
		{
			Name:        "highlights_extract",
			Description: "Run the full pipeline and list the highlighted regions with their cell and pixel bounds, heat statistics and automaton passes.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": pipelineProperties(map[string]interface{}{
					"include_image": map[string]interface{}{
						"type":        "boolean",
						"description": "Also return the stabilized cells as base64 PNG",
					},
					"scale": map[string]interface{}{
						"type":        "integer",
						"description": "Rendered pixels per cell when include_image is set. Default 4",
						"default":     4,
					},
				}),
				"required": []string{"path"},
			},
		},

		// Output
		{
			Name:        "highlights_cut",
			Description: "Crop every highlighted region out of the image. Returns base64 PNGs, or writes highlight_NNN.png files when output_dir is given.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": pipelineProperties(map[string]interface{}{
					"output_dir": map[string]interface{}{
						"type":        "string",
						"description": "Directory to write crops into instead of returning them inline",
					},
					"scale": map[string]interface{}{
						"type":        "number",
						"description": "Optional scale factor for inline crops. Default 1.0",
						"default":     1.0,
					},
				}),
				"required": []string{"path"},
			},
		},
		{
			Name:        "highlights_annotate",
			Description: "Return the image with every highlighted region outlined, optionally numbered in the order highlights_extract lists them.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": pipelineProperties(map[string]interface{}{
					"color": map[string]interface{}{
						"type":        "string",
						"description": "Outline color as hex (#RRGGBB or #RRGGBBAA). Default #FF0000",
						"default":     "#FF0000",
					},
					"line_width": map[string]interface{}{
						"type":        "integer",
						"description": "Outline thickness in pixels. Default 2",
						"default":     2,
					},
					"labels": map[string]interface{}{
						"type":        "boolean",
						"description": "Draw each region's index in its corner",
					},
				}),
				"required": []string{"path"},
			},
		},
	}
}

// handleToolsList returns the list of available tools
func (s *Server) handleToolsList(req *MCPRequest) *MCPResponse {
	return s.resultResponse(req.ID, map[string]interface{}{
		"tools": GetToolDefinitions(),
	})
}
