// Package filter is the deterministic pixel post-processing pipeline that
// turns a captured frame into an OCR-ready image.
//
// The stage order is fixed: grayscale, contrast, brightness (one clamp per
// pixel after all arithmetic), then optional denoise and sharpen passes.
// The whole pipeline is reproducible: identical input pixels and
// identical Options always yield identical output bytes. Output is JPEG at
// a fixed high quality factor so compression artifacts do not compound
// before text recognition.
//
// Only the OCR-oriented filter set lives here; this is not a general image
// editor.
package filter
