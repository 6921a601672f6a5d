package server

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/disintegration/imaging"

	"github.com/capturelab/ocrshot/internal/capture"
	"github.com/capturelab/ocrshot/internal/device"
	"github.com/capturelab/ocrshot/internal/filter"
	"github.com/capturelab/ocrshot/internal/luminance"
	"github.com/capturelab/ocrshot/internal/ocr"
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g. "capture_still").
	Name string `json:"name"`

	// Arguments contains the tool-specific parameters as JSON.
	Arguments json.RawMessage `json:"arguments"`
}

// handleToolsCall processes a tools/call request and executes the specified
// tool, wrapping the result in MCP's content format. Tool execution errors
// return a JSON-RPC error response with code -32000.
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
func (s *Server) executeTool(name string, args json.RawMessage) (interface{}, error) {
	switch name {
	case "brightness_sample":
		return s.handleBrightnessSample(args)
	case "capture_still":
		return s.handleCaptureStill(args)
	case "image_process":
		return s.handleImageProcess(args)
	case "ocr_extract":
		return s.handleOCRExtract(args)
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
// On marshal failure, returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

// filterArgs carries the shared filter option arguments. Pointer fields
// distinguish "absent" from zero so defaults can come from the OCR preset.
type filterArgs struct {
	Grayscale  *bool    `json:"grayscale,omitempty"`
	Contrast   *float64 `json:"contrast,omitempty"`
	Brightness *int     `json:"brightness,omitempty"`
	Sharpen    *float64 `json:"sharpen,omitempty"`
	Denoise    *float64 `json:"denoise,omitempty"`
}

// options merges the supplied arguments over the OCR preset defaults.
func (a filterArgs) options() filter.Options {
	opts := filter.OCRPreset()
	if a.Grayscale != nil {
		opts.Grayscale = *a.Grayscale
	}
	if a.Contrast != nil {
		opts.Contrast = *a.Contrast
	}
	if a.Brightness != nil {
		opts.Brightness = *a.Brightness
	}
	if a.Sharpen != nil {
		opts.Sharpen = *a.Sharpen
	}
	if a.Denoise != nil {
		opts.Denoise = *a.Denoise
	}
	return opts
}

// === brightness_sample ===

type brightnessSampleArgs struct {
	Path string `json:"path"`
}

type brightnessSampleResult struct {
	Known         bool    `json:"known"`
	MeanLuma      float64 `json:"mean_luma,omitempty"`
	MeanLightness float64 `json:"mean_lightness,omitempty"`
	LowLight      bool    `json:"low_light"`
}

func (s *Server) handleBrightnessSample(args json.RawMessage) (interface{}, error) {
	var a brightnessSampleArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}

	stats := luminance.Stats(device.NewFileSource(a.Path))
	if stats == nil {
		// Not ready or too small to sample: callers assume adequate light.
		return &brightnessSampleResult{Known: false}, nil
	}
	return &brightnessSampleResult{
		Known:         true,
		MeanLuma:      stats.MeanLuma,
		MeanLightness: stats.MeanLightness,
		LowLight:      stats.LowLight,
	}, nil
}

// === capture_still ===

type captureStillArgs struct {
	filterArgs
	Path          string `json:"path"`
	Facing        string `json:"facing,omitempty"`
	Torch         *bool  `json:"torch,omitempty"`
	TorchSettleMs *int   `json:"torch_settle_ms,omitempty"`
	FocusSettleMs *int   `json:"focus_settle_ms,omitempty"`
}

type captureStillResult struct {
	Width       int     `json:"width"`
	Height      int     `json:"height"`
	Mirrored    bool    `json:"mirrored"`
	TorchFired  bool    `json:"torch_fired"`
	Brightness  float64 `json:"brightness"`
	TorchCycle  []bool  `json:"torch_cycle"`
	ImageBase64 string  `json:"image_base64"`
	MimeType    string  `json:"mime_type"`
}

func (s *Server) handleCaptureStill(args json.RawMessage) (interface{}, error) {
	var a captureStillArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}

	facing := device.FacingBack
	if a.Facing == "front" {
		facing = device.FacingFront
	}
	torch := true
	if a.Torch != nil {
		torch = *a.Torch
	}

	track := &device.StaticTrack{
		Caps: device.Capabilities{
			Torch:      torch,
			Zoom:       &device.ZoomRange{Min: 1, Max: 4, Step: 0.1},
			FocusModes: []device.FocusMode{device.FocusContinuous},
		},
		CameraSide: facing,
	}
	source := device.NewFileSource(a.Path)

	session := device.NewSession(device.DefaultResolution)
	if err := session.Start(track, source); err != nil {
		return nil, err
	}
	defer session.Dispose()

	sessTrack, sessSource, cfg, err := session.Stream()
	if err != nil {
		return nil, err
	}

	s.orch.Settle = settlePolicy(a.TorchSettleMs, a.FocusSettleMs)
	raw, err := s.orch.Capture(context.Background(), sessSource, sessTrack, cfg)
	if err != nil {
		return nil, err
	}

	processed, err := filter.Process(raw.Pix, a.options())
	if err != nil {
		return nil, err
	}

	return &captureStillResult{
		Width:       processed.Width,
		Height:      processed.Height,
		Mirrored:    raw.Mirrored,
		TorchFired:  raw.TorchFired,
		Brightness:  raw.Brightness,
		TorchCycle:  track.TorchTransitions(),
		ImageBase64: base64.StdEncoding.EncodeToString(processed.Data),
		MimeType:    processed.MimeType,
	}, nil
}

// settlePolicy builds the capture settle delays from optional overrides.
func settlePolicy(torchMs, focusMs *int) capture.SettlePolicy {
	policy := capture.DefaultSettlePolicy()
	if torchMs != nil && *torchMs >= 0 {
		policy.Torch = time.Duration(*torchMs) * time.Millisecond
	}
	if focusMs != nil && *focusMs >= 0 {
		policy.Focus = time.Duration(*focusMs) * time.Millisecond
	}
	return policy
}

// === image_process ===

type imageProcessArgs struct {
	filterArgs
	Path string `json:"path"`
}

type imageProcessResult struct {
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	ImageBase64 string `json:"image_base64"`
	MimeType    string `json:"mime_type"`
}

func (s *Server) handleImageProcess(args json.RawMessage) (interface{}, error) {
	var a imageProcessArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}

	img, err := imaging.Open(a.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", a.Path, err)
	}

	processed, err := filter.Process(img, a.options())
	if err != nil {
		return nil, err
	}

	return &imageProcessResult{
		Width:       processed.Width,
		Height:      processed.Height,
		ImageBase64: base64.StdEncoding.EncodeToString(processed.Data),
		MimeType:    processed.MimeType,
	}, nil
}

// === ocr_extract ===

type ocrExtractArgs struct {
	Path       string `json:"path"`
	Language   string `json:"language,omitempty"`
	Preprocess *bool  `json:"preprocess,omitempty"`
}

func (s *Server) handleOCRExtract(args json.RawMessage) (interface{}, error) {
	var a ocrExtractArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if !ocr.Available() {
		return nil, ocr.ErrUnavailable
	}

	var data []byte
	if a.Preprocess == nil || *a.Preprocess {
		img, err := imaging.Open(a.Path)
		if err != nil {
			return nil, fmt.Errorf("failed to open %s: %w", a.Path, err)
		}
		processed, err := filter.Process(img, filter.OCRPreset())
		if err != nil {
			return nil, err
		}
		data = processed.Data
	} else {
		raw, err := os.ReadFile(a.Path)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", a.Path, err)
		}
		data = raw
	}

	return ocr.ExtractText(data, a.Language)
}
