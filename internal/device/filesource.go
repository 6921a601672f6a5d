package device

import (
	"fmt"
	"image"
	"sync"

	"github.com/disintegration/imaging"
)

// FileSource is a FrameSource backed by an image file on disk.
//
// It stands in for a live camera feed wherever the capture flow runs without
// hardware: the MCP server's simulated device and most tests. The file is
// decoded once on first use and served as the current frame on every call.
//
// FileSource is safe for concurrent use.
type FileSource struct {
	path string

	mu  sync.Mutex
	img image.Image
	err error
}

// NewFileSource creates a source serving the image at path. The file is not
// touched until the first Dimensions or Frame call.
func NewFileSource(path string) *FileSource {
	return &FileSource{path: path}
}

// Dimensions returns the decoded image's size, or (0, 0) when the file
// cannot be decoded, mirroring a live source that is not ready yet.
func (f *FileSource) Dimensions() (int, int) {
	img, err := f.load()
	if err != nil {
		return 0, 0
	}
	b := img.Bounds()
	return b.Dx(), b.Dy()
}

// Frame returns the decoded image. Decode failures are reported as a wrapped
// ErrNoFrame so callers can treat them as a missing frame.
func (f *FileSource) Frame() (image.Image, error) {
	img, err := f.load()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoFrame, err)
	}
	return img, nil
}

func (f *FileSource) load() (image.Image, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.img != nil || f.err != nil {
		return f.img, f.err
	}
	img, err := imaging.Open(f.path)
	if err != nil {
		f.err = fmt.Errorf("failed to open %s: %w", f.path, err)
		return nil, f.err
	}
	f.img = img
	return f.img, nil
}

// ImageSource is a FrameSource serving a fixed in-memory image. A nil image
// models a source with no frame available.
type ImageSource struct {
	Img image.Image
	// FrontFacing is informational only; Facing lives on the Track. Kept so
	// synthetic test fixtures can carry the intent alongside the pixels.
	FrontFacing bool
}

// Dimensions returns the image size, or (0, 0) for a nil image.
func (s *ImageSource) Dimensions() (int, int) {
	if s.Img == nil {
		return 0, 0
	}
	b := s.Img.Bounds()
	return b.Dx(), b.Dy()
}

// Frame returns the image, or ErrNoFrame for a nil image.
func (s *ImageSource) Frame() (image.Image, error) {
	if s.Img == nil {
		return nil, ErrNoFrame
	}
	return s.Img, nil
}
