//go:build cgo && linux

package ocr

import (
	"fmt"

	"github.com/otiai10/gosseract/v2"
)

// Available reports whether this build can run text recognition.
func Available() bool { return true }

// ExtractText runs Tesseract over encoded image bytes (JPEG or PNG) and
// returns the recognized text with word-level regions.
//
// The input is normally the output of the filter pipeline (grayscale, high
// contrast, sharpened), which is what Tesseract's page segmentation likes.
// Language is a Tesseract language code ("eng", "deu", ...); the matching
// traineddata must be installed on the system. An empty language falls back
// to DefaultLanguage.
//
// If word-level bounding box extraction fails, the full text is still
// returned with an empty Regions slice.
func ExtractText(imageData []byte, language string) (*Result, error) {
	if language == "" {
		language = DefaultLanguage
	}

	client := gosseract.NewClient()
	defer client.Close()

	if err := client.SetLanguage(language); err != nil {
		return nil, fmt.Errorf("failed to set language %q: %w", language, err)
	}
	if err := client.SetImageFromBytes(imageData); err != nil {
		return nil, fmt.Errorf("failed to set image: %w", err)
	}

	text, err := client.Text()
	if err != nil {
		return nil, fmt.Errorf("ocr failed: %w", err)
	}

	result := &Result{FullText: text}

	boxes, err := client.GetBoundingBoxes(gosseract.RIL_WORD)
	if err != nil {
		// Version-dependent; the text alone is still useful.
		return result, nil
	}
	for _, box := range boxes {
		if box.Word == "" {
			continue
		}
		result.Regions = append(result.Regions, TextRegion{
			Text:       box.Word,
			Confidence: box.Confidence / 100.0,
			Bounds: Bounds{
				X1: box.Box.Min.X,
				Y1: box.Box.Min.Y,
				X2: box.Box.Max.X,
				Y2: box.Box.Max.Y,
			},
		})
	}
	return result, nil
}
