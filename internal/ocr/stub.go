//go:build !(cgo && linux)

package ocr

// Available reports whether this build can run text recognition.
func Available() bool { return false }

// ExtractText always returns ErrUnavailable on builds without Tesseract.
func ExtractText(imageData []byte, language string) (*Result, error) {
	return nil, ErrUnavailable
}
