package luminance

import (
	"image"

	"github.com/disintegration/imaging"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/capturelab/ocrshot/internal/device"
)

// SampleSize is the edge length of the square window sampled from the
// frame center. Small enough to stay cheap on every capture attempt, large
// enough to average out local speckle.
const SampleSize = 50

// LowLightThreshold is the mean-luma value (0-255 scale) below which a scene
// is classified as low-light. Empirically chosen for document capture.
const LowLightThreshold = 80.0

// Unknown is the sentinel returned when the source has no valid dimensions
// yet. Callers must treat it as "assume adequate light" rather than as a
// dark reading.
const Unknown = -1.0

// Sample measures ambient brightness from the live feed's visual center.
//
// It extracts a SampleSize×SampleSize window centered on the current frame,
// computes per-pixel luma with the ITU-R BT.601 weights
// (0.299*R + 0.587*G + 0.114*B), and returns the arithmetic mean on the
// 0-255 scale.
//
// Returns Unknown when the source is not ready (no valid dimensions or no
// frame); a misleading numeric value here would trigger needless
// illumination. The sample window is discarded immediately; Sample has no
// side effects on the source.
func Sample(src device.FrameSource) float64 {
	window, ok := sampleWindow(src)
	if !ok {
		return Unknown
	}

	var sum float64
	var count int
	b := window.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			r, g, bl, _ := window.At(x, y).RGBA()
			sum += 0.299*float64(r>>8) + 0.587*float64(g>>8) + 0.114*float64(bl>>8)
			count++
		}
	}
	if count == 0 {
		return Unknown
	}
	return sum / float64(count)
}

// IsLowLight classifies a Sample reading. Unknown is never low-light:
// without a reading we assume adequate light and skip compensation.
func IsLowLight(v float64) bool {
	return v >= 0 && v < LowLightThreshold
}

// SceneStats bundles the raw luma reading with a perceptual lightness value
// for UI feedback readouts.
type SceneStats struct {
	// MeanLuma is the BT.601 mean luma on the 0-255 scale (Unknown when the
	// source is not ready).
	MeanLuma float64 `json:"mean_luma"`

	// MeanLightness is the mean CIE L* lightness (0-100), which tracks
	// perceived brightness more closely than raw luma.
	MeanLightness float64 `json:"mean_lightness"`

	// LowLight is the classification of MeanLuma.
	LowLight bool `json:"low_light"`
}

// Stats computes SceneStats from the same center window Sample uses.
// Returns nil when the source is not ready.
func Stats(src device.FrameSource) *SceneStats {
	window, ok := sampleWindow(src)
	if !ok {
		return nil
	}

	var lumaSum, lightSum float64
	var count int
	b := window.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c, _ := colorful.MakeColor(window.At(x, y))
			l, _, _ := c.Lab()
			lightSum += l * 100
			lumaSum += 0.299*c.R*255 + 0.587*c.G*255 + 0.114*c.B*255
			count++
		}
	}
	if count == 0 {
		return nil
	}
	luma := lumaSum / float64(count)
	return &SceneStats{
		MeanLuma:      luma,
		MeanLightness: lightSum / float64(count),
		LowLight:      IsLowLight(luma),
	}
}

// sampleWindow extracts the center sample region, reporting ok=false when
// the source is not ready or too small to sample.
func sampleWindow(src device.FrameSource) (image.Image, bool) {
	w, h := src.Dimensions()
	if w < SampleSize || h < SampleSize {
		return nil, false
	}
	frame, err := src.Frame()
	if err != nil || frame == nil {
		return nil, false
	}
	return imaging.CropCenter(frame, SampleSize, SampleSize), true
}
