package server

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/capturelab/ocrshot/internal/ocr"
)

// writeTestPNG writes a solid-color image to a temp file and returns its path.
func writeTestPNG(t *testing.T, w, h int, c color.Color) string {
	t.Helper()

	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}

	path := filepath.Join(t.TempDir(), "frame.png")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("failed to create test image: %v", err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatalf("failed to encode test image: %v", err)
	}
	return path
}

func callTool(t *testing.T, s *Server, name string, args interface{}) (interface{}, error) {
	t.Helper()
	raw, err := json.Marshal(args)
	if err != nil {
		t.Fatalf("failed to marshal args: %v", err)
	}
	return s.executeTool(name, raw)
}

func TestExecuteTool_Unknown(t *testing.T) {
	s := New()
	if _, err := callTool(t, s, "no_such_tool", map[string]interface{}{}); err == nil {
		t.Error("unknown tool did not fail")
	}
}

func TestBrightnessSample_Dark(t *testing.T) {
	path := writeTestPNG(t, 100, 100, color.NRGBA{10, 10, 10, 255})
	s := New()

	result, err := callTool(t, s, "brightness_sample", map[string]interface{}{"path": path})
	if err != nil {
		t.Fatalf("brightness_sample failed: %v", err)
	}

	r := result.(*brightnessSampleResult)
	if !r.Known {
		t.Fatal("Known = false for a decodable image")
	}
	if !r.LowLight {
		t.Errorf("LowLight = false for a dark frame (luma %v)", r.MeanLuma)
	}
	if r.MeanLuma > 15 {
		t.Errorf("MeanLuma = %v, want near 10", r.MeanLuma)
	}
}

func TestBrightnessSample_MissingFile(t *testing.T) {
	s := New()

	result, err := callTool(t, s, "brightness_sample",
		map[string]interface{}{"path": filepath.Join(t.TempDir(), "nope.png")})
	if err != nil {
		t.Fatalf("brightness_sample failed: %v", err)
	}

	// A source that cannot serve a frame reads as "unknown", not as an error.
	r := result.(*brightnessSampleResult)
	if r.Known || r.LowLight {
		t.Errorf("result = %+v, want unknown and not low-light", r)
	}
}

func TestCaptureStill_LowLightFiresTorch(t *testing.T) {
	path := writeTestPNG(t, 120, 90, color.NRGBA{20, 20, 20, 255})
	s := New()
	zero := 0

	result, err := callTool(t, s, "capture_still", captureStillArgs{
		Path:          path,
		TorchSettleMs: &zero,
		FocusSettleMs: &zero,
	})
	if err != nil {
		t.Fatalf("capture_still failed: %v", err)
	}

	r := result.(*captureStillResult)
	if !r.TorchFired {
		t.Error("TorchFired = false for a dark frame with torch support")
	}
	if len(r.TorchCycle) != 2 || !r.TorchCycle[0] || r.TorchCycle[1] {
		t.Errorf("TorchCycle = %v, want [true false]", r.TorchCycle)
	}
	if r.Width != 120 || r.Height != 90 {
		t.Errorf("dimensions = %dx%d, want 120x90", r.Width, r.Height)
	}
	if r.MimeType != "image/jpeg" {
		t.Errorf("MimeType = %q, want image/jpeg", r.MimeType)
	}

	// The payload must decode as a JPEG of the same size.
	data, err := base64.StdEncoding.DecodeString(r.ImageBase64)
	if err != nil {
		t.Fatalf("invalid base64 payload: %v", err)
	}
	img, err := jpeg.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("payload is not a valid JPEG: %v", err)
	}
	if img.Bounds().Dx() != 120 || img.Bounds().Dy() != 90 {
		t.Errorf("decoded size = %dx%d, want 120x90", img.Bounds().Dx(), img.Bounds().Dy())
	}
}

func TestCaptureStill_BrightSceneNoTorch(t *testing.T) {
	path := writeTestPNG(t, 100, 100, color.NRGBA{230, 230, 230, 255})
	s := New()
	zero := 0

	result, err := callTool(t, s, "capture_still", captureStillArgs{
		Path:          path,
		TorchSettleMs: &zero,
		FocusSettleMs: &zero,
	})
	if err != nil {
		t.Fatalf("capture_still failed: %v", err)
	}

	r := result.(*captureStillResult)
	if r.TorchFired {
		t.Error("TorchFired = true for a bright frame")
	}
	if len(r.TorchCycle) != 0 {
		t.Errorf("TorchCycle = %v, want empty", r.TorchCycle)
	}
}

func TestCaptureStill_FrontFacingMirrored(t *testing.T) {
	path := writeTestPNG(t, 100, 100, color.NRGBA{200, 200, 200, 255})
	s := New()
	zero := 0

	result, err := callTool(t, s, "capture_still", captureStillArgs{
		Path:          path,
		Facing:        "front",
		TorchSettleMs: &zero,
		FocusSettleMs: &zero,
	})
	if err != nil {
		t.Fatalf("capture_still failed: %v", err)
	}

	if r := result.(*captureStillResult); !r.Mirrored {
		t.Error("Mirrored = false for a front-facing capture")
	}
}

func TestCaptureStill_MissingFrame(t *testing.T) {
	s := New()
	zero := 0

	_, err := callTool(t, s, "capture_still", captureStillArgs{
		Path:          filepath.Join(t.TempDir(), "missing.png"),
		TorchSettleMs: &zero,
		FocusSettleMs: &zero,
	})
	if err == nil {
		t.Fatal("capture_still succeeded without a usable frame source")
	}
}

func TestImageProcess_AppliesOptions(t *testing.T) {
	path := writeTestPNG(t, 50, 40, color.NRGBA{120, 60, 200, 255})
	s := New()

	gray := true
	contrast := 1.0
	brightness := 0
	sharpen := 0.0

	result, err := callTool(t, s, "image_process", imageProcessArgs{
		Path: path,
		filterArgs: filterArgs{
			Grayscale:  &gray,
			Contrast:   &contrast,
			Brightness: &brightness,
			Sharpen:    &sharpen,
		},
	})
	if err != nil {
		t.Fatalf("image_process failed: %v", err)
	}

	r := result.(*imageProcessResult)
	if r.Width != 50 || r.Height != 40 {
		t.Errorf("dimensions = %dx%d, want 50x40", r.Width, r.Height)
	}

	data, err := base64.StdEncoding.DecodeString(r.ImageBase64)
	if err != nil {
		t.Fatalf("invalid base64 payload: %v", err)
	}
	img, err := jpeg.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("payload is not a valid JPEG: %v", err)
	}
	// Grayscale output: channels stay together even through JPEG.
	r8, g8, b8, _ := img.At(25, 20).RGBA()
	if diff(r8>>8, g8>>8) > 3 || diff(g8>>8, b8>>8) > 3 {
		t.Errorf("grayscale output has diverging channels: %d/%d/%d", r8>>8, g8>>8, b8>>8)
	}
}

func TestImageProcess_InvalidOptions(t *testing.T) {
	path := writeTestPNG(t, 10, 10, color.NRGBA{0, 0, 0, 255})
	s := New()
	bad := 5.0

	_, err := callTool(t, s, "image_process", imageProcessArgs{
		Path:       path,
		filterArgs: filterArgs{Contrast: &bad},
	})
	if err == nil {
		t.Error("out-of-range contrast accepted")
	}
}

func TestOCRExtract_UnavailableBuilds(t *testing.T) {
	if ocr.Available() {
		t.Skip("build has OCR support; unavailability path not reachable")
	}
	path := writeTestPNG(t, 60, 60, color.NRGBA{255, 255, 255, 255})
	s := New()

	_, err := callTool(t, s, "ocr_extract", ocrExtractArgs{Path: path})
	if !errors.Is(err, ocr.ErrUnavailable) {
		t.Errorf("err = %v, want ErrUnavailable", err)
	}
}

func TestHandleToolsCall_InvalidParams(t *testing.T) {
	s := New()
	resp := s.handleToolsCall(&MCPRequest{
		JSONRPC: "2.0",
		ID:      1,
		Params:  json.RawMessage(`{"name": 42}`),
	})
	if resp.Error == nil || resp.Error.Code != -32602 {
		t.Errorf("response = %+v, want -32602 error", resp)
	}
}

func TestHandleToolsCall_WrapsResultInContent(t *testing.T) {
	path := writeTestPNG(t, 100, 100, color.NRGBA{128, 128, 128, 255})
	s := New()

	params, _ := json.Marshal(ToolCallParams{
		Name:      "brightness_sample",
		Arguments: json.RawMessage(`{"path":` + mustQuote(path) + `}`),
	})
	resp := s.handleToolsCall(&MCPRequest{JSONRPC: "2.0", ID: 5, Params: params})
	if resp.Error != nil {
		t.Fatalf("tools/call failed: %+v", resp.Error)
	}

	result := resp.Result.(map[string]interface{})
	content := result["content"].([]map[string]interface{})
	if len(content) != 1 || content[0]["type"] != "text" {
		t.Fatalf("unexpected content shape: %+v", content)
	}

	var parsed brightnessSampleResult
	if err := json.Unmarshal([]byte(content[0]["text"].(string)), &parsed); err != nil {
		t.Fatalf("content text is not the JSON result: %v", err)
	}
	if !parsed.Known {
		t.Error("wrapped result lost the brightness reading")
	}
}

func diff(a, b uint32) uint32 {
	if a > b {
		return a - b
	}
	return b - a
}

func mustQuote(s string) string {
	b, _ := json.Marshal(s)
	return string(b)
}
