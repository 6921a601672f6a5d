package ocr

import "errors"

// ErrUnavailable is returned by ExtractText on builds without Tesseract
// support (no cgo, or a non-Linux target).
var ErrUnavailable = errors.New("ocr support not compiled in")

// Bounds is a rectangular bounding box in pixel coordinates.
type Bounds struct {
	X1 int `json:"x1"` // Left edge
	Y1 int `json:"y1"` // Top edge
	X2 int `json:"x2"` // Right edge
	Y2 int `json:"y2"` // Bottom edge
}

// TextRegion is one recognized word with its location and confidence.
type TextRegion struct {
	// Text is the recognized word.
	Text string `json:"text"`

	// Confidence is the recognition confidence (0.0 to 1.0).
	Confidence float64 `json:"confidence"`

	// Bounds locates the word in the processed image.
	Bounds Bounds `json:"bounds"`
}

// Result holds the complete recognition output for one processed capture.
type Result struct {
	// FullText is all recognized text with original spacing and newlines.
	FullText string `json:"full_text"`

	// Regions lists individual words with bounding boxes and confidence.
	// May be empty when word-level extraction fails; FullText is still set.
	Regions []TextRegion `json:"regions"`
}

// DefaultLanguage is the Tesseract language code used when none is given.
const DefaultLanguage = "eng"
