// Package ocr runs text recognition over processed captures using Tesseract.
//
// It is the downstream consumer the capture and filter stages exist to feed:
// a processed JPEG goes in, recognized text with word-level bounding boxes
// and confidence scores comes out.
//
// # Build Requirements
//
// The real implementation needs cgo on Linux with Tesseract installed
// (apt-get install tesseract-ocr tesseract-ocr-eng, or the distro
// equivalent). Other builds compile a stub whose ExtractText returns
// ErrUnavailable; check Available() before offering OCR to callers.
//
// # Languages
//
// Language codes are Tesseract's ("eng", "deu", "fra", "spa", "chi_sim",
// ...); the corresponding traineddata must be present on the system. The
// default is English.
package ocr
