package server

// Tool represents an MCP tool definition.
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

// filterProperties is the shared schema fragment for filter options.
func filterProperties() map[string]interface{} {
	return map[string]interface{}{
		"grayscale": map[string]interface{}{
			"type":        "boolean",
			"description": "Replace R,G,B with shared luminance. Default true",
			"default":     true,
		},
		"contrast": map[string]interface{}{
			"type":        "number",
			"description": "Contrast factor in [0,2]; 1.0 is a no-op. Default 1.4",
			"default":     1.4,
		},
		"brightness": map[string]interface{}{
			"type":        "integer",
			"description": "Signed brightness offset added to each channel. Default 10",
			"default":     10,
		},
		"sharpen": map[string]interface{}{
			"type":        "number",
			"description": "Sharpen blend weight in [0,1]; 0 disables. Default 0.5",
			"default":     0.5,
		},
		"denoise": map[string]interface{}{
			"type":        "number",
			"description": "Gaussian denoise radius; 0 disables. Default 0",
			"default":     0,
		},
	}
}

// GetToolDefinitions returns all available tools.
func GetToolDefinitions() []Tool {
	captureProps := map[string]interface{}{
		"path": map[string]interface{}{
			"type":        "string",
			"description": "Absolute path to the image file standing in for the live feed",
		},
		"facing": map[string]interface{}{
			"type":        "string",
			"enum":        []string{"back", "front"},
			"description": "Camera facing. Front-facing captures are mirrored horizontally. Default back",
			"default":     "back",
		},
		"torch": map[string]interface{}{
			"type":        "boolean",
			"description": "Whether the simulated device advertises a torch. Default true",
			"default":     true,
		},
		"torch_settle_ms": map[string]interface{}{
			"type":        "integer",
			"description": "Override the illumination settle delay in milliseconds. Default 300",
			"default":     300,
		},
		"focus_settle_ms": map[string]interface{}{
			"type":        "integer",
			"description": "Override the focus settle delay in milliseconds. Default 400",
			"default":     400,
		},
	}
	for k, v := range filterProperties() {
		captureProps[k] = v
	}

	processProps := map[string]interface{}{
		"path": map[string]interface{}{
			"type":        "string",
			"description": "Absolute path to the image file",
		},
	}
	for k, v := range filterProperties() {
		processProps[k] = v
	}

	return []Tool{
		{
			Name:        "brightness_sample",
			Description: "Measure ambient brightness from the center of an image: mean luminance (0-255), perceptual lightness, and the low-light classification that decides whether a capture would engage the torch.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to the image file standing in for the live feed",
					},
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "capture_still",
			Description: "Run the full capture sequence against a simulated device fed by an image file: brightness sampling, conditional illumination with settle delay, focus settle, frame grab, front-camera mirroring, illumination restore, then the OCR post-processing pipeline. Returns the processed JPEG as base64.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": captureProps,
				"required":   []string{"path"},
			},
		},
		{
			Name:        "image_process",
			Description: "Apply the OCR post-processing pipeline (grayscale, contrast, brightness, optional denoise and sharpen) to an image file and return the processed JPEG as base64.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": processProps,
				"required":   []string{"path"},
			},
		},
		{
			Name:        "ocr_extract",
			Description: "Run the OCR post-processing pipeline over an image file and extract text with Tesseract. Requires a build with OCR support; check the error message otherwise.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to the image file",
					},
					"language": map[string]interface{}{
						"type":        "string",
						"description": "Tesseract language code (e.g. 'eng'). Default 'eng'",
						"default":     "eng",
					},
					"preprocess": map[string]interface{}{
						"type":        "boolean",
						"description": "Run the OCR preset pipeline before recognition. Default true",
						"default":     true,
					},
				},
				"required": []string{"path"},
			},
		},
	}
}
