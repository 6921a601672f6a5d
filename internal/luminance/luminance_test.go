package luminance

import (
	"image"
	"image/color"
	"math"
	"testing"

	"github.com/capturelab/ocrshot/internal/device"
)

// fillSource builds a FrameSource serving a solid-color frame.
func fillSource(w, h int, c color.Color) device.FrameSource {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	return &device.ImageSource{Img: img}
}

func TestSample_AllBlack(t *testing.T) {
	src := fillSource(200, 200, color.NRGBA{0, 0, 0, 255})

	got := Sample(src)
	if got != 0 {
		t.Errorf("Sample(black) = %v, want 0", got)
	}
	if !IsLowLight(got) {
		t.Error("all-black scene should classify as low-light")
	}
}

func TestSample_AllWhite(t *testing.T) {
	src := fillSource(200, 200, color.NRGBA{255, 255, 255, 255})

	got := Sample(src)
	if got != 255 {
		t.Errorf("Sample(white) = %v, want 255", got)
	}
	if IsLowLight(got) {
		t.Error("all-white scene should classify as well-lit")
	}
}

func TestSample_MidGray(t *testing.T) {
	src := fillSource(200, 200, color.NRGBA{128, 128, 128, 255})

	got := Sample(src)
	// Luma weights sum to 1, so a uniform gray reads as its own value.
	if math.Abs(got-128) > 0.5 {
		t.Errorf("Sample(gray 128) = %v, want ~128", got)
	}
	if IsLowLight(got) {
		t.Error("gray 128 should classify as well-lit")
	}
}

func TestSample_CenterWindowOnly(t *testing.T) {
	// Dark frame with a bright center: the sample must see only the center.
	img := image.NewNRGBA(image.Rect(0, 0, 300, 300))
	for y := 0; y < 300; y++ {
		for x := 0; x < 300; x++ {
			img.Set(x, y, color.NRGBA{0, 0, 0, 255})
		}
	}
	cx, cy := 150-SampleSize/2, 150-SampleSize/2
	for y := cy; y < cy+SampleSize; y++ {
		for x := cx; x < cx+SampleSize; x++ {
			img.Set(x, y, color.NRGBA{255, 255, 255, 255})
		}
	}

	got := Sample(&device.ImageSource{Img: img})
	if got != 255 {
		t.Errorf("Sample(bright center) = %v, want 255 (window must not include the dark border)", got)
	}
}

func TestSample_NotReady(t *testing.T) {
	tests := []struct {
		name string
		src  device.FrameSource
	}{
		{"nil frame", &device.ImageSource{}},
		{"too small", fillSource(SampleSize-1, SampleSize-1, color.NRGBA{255, 255, 255, 255})},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Sample(tt.src)
			if got != Unknown {
				t.Errorf("Sample = %v, want Unknown", got)
			}
			if IsLowLight(got) {
				t.Error("Unknown must never classify as low-light")
			}
		})
	}
}

func TestIsLowLight_Threshold(t *testing.T) {
	tests := []struct {
		value float64
		want  bool
	}{
		{0, true},
		{60, true},
		{79.9, true},
		{80, false},
		{255, false},
		{Unknown, false},
	}

	for _, tt := range tests {
		if got := IsLowLight(tt.value); got != tt.want {
			t.Errorf("IsLowLight(%v) = %v, want %v", tt.value, got, tt.want)
		}
	}
}

func TestStats(t *testing.T) {
	stats := Stats(fillSource(100, 100, color.NRGBA{255, 255, 255, 255}))
	if stats == nil {
		t.Fatal("Stats returned nil for a ready source")
	}
	if math.Abs(stats.MeanLuma-255) > 0.5 {
		t.Errorf("MeanLuma = %v, want ~255", stats.MeanLuma)
	}
	if math.Abs(stats.MeanLightness-100) > 1 {
		t.Errorf("MeanLightness = %v, want ~100 for white", stats.MeanLightness)
	}
	if stats.LowLight {
		t.Error("white scene reported low-light")
	}
}

func TestStats_NotReady(t *testing.T) {
	if got := Stats(&device.ImageSource{}); got != nil {
		t.Errorf("Stats on a not-ready source = %+v, want nil", got)
	}
}
