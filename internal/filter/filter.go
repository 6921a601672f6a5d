package filter

import (
	"bytes"
	"fmt"
	"image"
	"image/draw"

	"github.com/anthonynsimon/bild/blur"
	"github.com/disintegration/imaging"
)

// Quality is the fixed JPEG quality factor for processed output. High enough
// that compression artifacts do not compound before OCR.
const Quality = 95

// Options selects the post-processing stages applied to a captured frame.
//
// The zero value applies nothing useful (contrast 0 flattens the image);
// start from Identity or OCRPreset and adjust.
type Options struct {
	// Grayscale replaces R, G and B with the shared BT.601 luma.
	Grayscale bool `json:"grayscale"`

	// Contrast remaps channels around the midpoint. 1.0 is the identity,
	// values below soften, values above (up to 2.0) harden.
	Contrast float64 `json:"contrast"`

	// Brightness is a signed constant offset added to each channel.
	Brightness int `json:"brightness"`

	// Sharpen blends an edge-enhancing convolution with the image by this
	// weight (0-1). 0 skips the convolution entirely.
	Sharpen float64 `json:"sharpen"`

	// Denoise applies a Gaussian pre-blur with this radius before
	// sharpening, suppressing sensor speckle. 0 disables.
	Denoise float64 `json:"denoise"`
}

// Identity returns options that leave pixels untouched.
func Identity() Options {
	return Options{Contrast: 1.0}
}

// OCRPreset returns the default stage mix for document captures: grayscale,
// hardened contrast, a slight lift for dim paper, and mild sharpening.
func OCRPreset() Options {
	return Options{
		Grayscale:  true,
		Contrast:   1.4,
		Brightness: 10,
		Sharpen:    0.5,
	}
}

// Validate reports whether the options are within their supported ranges.
func (o Options) Validate() error {
	if o.Contrast < 0 || o.Contrast > 2.0 {
		return fmt.Errorf("contrast %.2f outside [0, 2]", o.Contrast)
	}
	if o.Sharpen < 0 || o.Sharpen > 1.0 {
		return fmt.Errorf("sharpen %.2f outside [0, 1]", o.Sharpen)
	}
	if o.Denoise < 0 {
		return fmt.Errorf("denoise %.2f negative", o.Denoise)
	}
	return nil
}

// Processed is the encoded output of one pipeline invocation. Ownership
// transfers to the caller; the pipeline retains no reference.
type Processed struct {
	Width    int    `json:"width"`
	Height   int    `json:"height"`
	MimeType string `json:"mime_type"` // always "image/jpeg"
	Data     []byte `json:"-"`
}

// Process runs the deterministic post-processing pipeline over a frame and
// encodes the result as JPEG at the fixed Quality factor.
//
// Stage order is fixed: grayscale, contrast, brightness (computed per pixel
// with a single clamp to [0, 255] after all arithmetic, so additive and
// multiplicative steps cannot double-clamp each other), then optional
// denoise and sharpen passes over the whole image. Alpha passes through the
// per-pixel stages untouched.
//
// # Contrast Remapping
//
// Channels are remapped as factor*(v-128)+128 with
//
//	factor = 259*(c+255) / (255*(259-c)),  c = (Contrast-1)*255
//
// so Contrast=1.0 yields factor 1 (identity), 0 flattens to mid-gray, and
// 2.0 approaches binarization.
//
// # Determinism
//
// For identical input pixels and identical Options the output bytes are
// byte-for-byte reproducible: no randomness, no timing dependence.
func Process(frame image.Image, opts Options) (*Processed, error) {
	out, err := Apply(frame, opts)
	if err != nil {
		return nil, err
	}

	var enc bytes.Buffer
	if err := imaging.Encode(&enc, out, imaging.JPEG, imaging.JPEGQuality(Quality)); err != nil {
		return nil, fmt.Errorf("failed to encode processed image: %w", err)
	}

	b := out.Bounds()
	return &Processed{
		Width:    b.Dx(),
		Height:   b.Dy(),
		MimeType: "image/jpeg",
		Data:     enc.Bytes(),
	}, nil
}

// Apply runs the pipeline stages and returns the resulting pixel buffer
// without encoding it. Process is Apply plus JPEG encoding; callers that
// feed the pixels onward (OCR, further analysis) can skip the round trip.
//
// The returned buffer is always a fresh allocation; the input image is
// never modified.
func Apply(frame image.Image, opts Options) (*image.NRGBA, error) {
	if err := opts.Validate(); err != nil {
		return nil, fmt.Errorf("invalid filter options: %w", err)
	}
	if frame == nil {
		return nil, fmt.Errorf("nil frame")
	}

	buf := cloneNRGBA(frame)
	applyPixelStages(buf, opts)

	if opts.Denoise > 0 {
		buf = cloneNRGBA(blur.Gaussian(buf, opts.Denoise))
	}
	if opts.Sharpen > 0 {
		buf = sharpen(buf, opts.Sharpen)
	}
	return buf, nil
}

// applyPixelStages runs grayscale, contrast and brightness in place.
func applyPixelStages(buf *image.NRGBA, opts Options) {
	c := (opts.Contrast - 1) * 255
	factor := (259 * (c + 255)) / (255 * (259 - c))
	offset := float64(opts.Brightness)

	for i := 0; i < len(buf.Pix); i += 4 {
		r := float64(buf.Pix[i])
		g := float64(buf.Pix[i+1])
		b := float64(buf.Pix[i+2])

		if opts.Grayscale {
			l := 0.299*r + 0.587*g + 0.114*b
			r, g, b = l, l, l
		}

		r = factor*(r-128) + 128 + offset
		g = factor*(g-128) + 128 + offset
		b = factor*(b-128) + 128 + offset

		// Single clamp after all arithmetic.
		buf.Pix[i] = clamp8(r)
		buf.Pix[i+1] = clamp8(g)
		buf.Pix[i+2] = clamp8(b)
		// Alpha untouched.
	}
}

// clamp8 rounds to the nearest 8-bit value, clamping to [0, 255].
func clamp8(v float64) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 255 {
		return 255
	}
	return uint8(v + 0.5)
}

// cloneNRGBA copies img into a fresh zero-origin NRGBA buffer.
func cloneNRGBA(img image.Image) *image.NRGBA {
	b := img.Bounds()
	buf := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(buf, buf.Bounds(), img, b.Min, draw.Src)
	return buf
}
