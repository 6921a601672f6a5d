// Package server implements the MCP (Model Context Protocol) surface of
// ocrshot: a JSON-RPC 2.0 server over stdin/stdout exposing the capture and
// post-processing operations as tools.
//
// # Protocol
//
// The server speaks newline-delimited JSON-RPC. Supported methods:
//
//   - initialize / notifications/initialized: MCP handshake
//   - tools/list: tool catalog (see tools.go)
//   - tools/call: tool execution; results are wrapped in MCP's content
//     format as pretty-printed JSON text
//   - ping
//
// # Tools
//
//   - brightness_sample: center-window luminance reading and low-light
//     classification for an image file
//   - capture_still: the full capture sequence against a simulated device
//     fed by an image file, followed by the post-processing pipeline
//   - image_process: the post-processing pipeline alone
//   - ocr_extract: pipeline plus Tesseract text extraction (builds with
//     OCR support only)
//
// The simulated device pairs a file-backed frame source with an in-memory
// track, so the real negotiation, session lifecycle and orchestration code
// paths run end to end without camera hardware.
//
// Logging goes to stderr; stdout carries only protocol frames.
package server
