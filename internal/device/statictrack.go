package device

import (
	"fmt"
	"sync"
)

// StaticTrack is an in-memory Track with a declared capability set.
//
// It backs the MCP server's simulated device and the package tests. Setters
// succeed or fail according to the declared capabilities, and every applied
// constraint is recorded so tests can assert on the exact device interaction
// sequence.
type StaticTrack struct {
	Caps       Capabilities
	CameraSide Facing

	// RejectTorch forces SetTorch to fail even when Torch is advertised,
	// modeling a device that lies about its capabilities.
	RejectTorch bool

	mu        sync.Mutex
	torchOn   bool
	torchOps  []bool
	zoom      float64
	focusMode FocusMode
	width     int
	height    int
}

// Capabilities returns the declared capability set.
func (t *StaticTrack) Capabilities() Capabilities { return t.Caps }

// Facing returns the declared camera side.
func (t *StaticTrack) Facing() Facing { return t.CameraSide }

// SetTorch toggles the simulated torch, recording each transition.
func (t *StaticTrack) SetTorch(on bool) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.Caps.Torch {
		return fmt.Errorf("torch not supported")
	}
	if t.RejectTorch {
		return fmt.Errorf("torch constraint rejected")
	}
	t.torchOn = on
	t.torchOps = append(t.torchOps, on)
	return nil
}

// SetZoom applies a zoom level within the declared range.
func (t *StaticTrack) SetZoom(level float64) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.Caps.Zoom == nil {
		return fmt.Errorf("zoom not supported")
	}
	if level < t.Caps.Zoom.Min || level > t.Caps.Zoom.Max {
		return fmt.Errorf("zoom %.2f outside range [%.2f, %.2f]", level, t.Caps.Zoom.Min, t.Caps.Zoom.Max)
	}
	t.zoom = level
	return nil
}

// SetFocusMode accepts any mode listed in the declared capabilities.
func (t *StaticTrack) SetFocusMode(mode FocusMode) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.Caps.SupportsFocusMode(mode) {
		return fmt.Errorf("focus mode %q not supported", mode)
	}
	t.focusMode = mode
	return nil
}

// SetResolution records the requested resolution. Always accepted.
func (t *StaticTrack) SetResolution(width, height int) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.width, t.height = width, height
	return nil
}

// TorchOn reports the current simulated torch state.
func (t *StaticTrack) TorchOn() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.torchOn
}

// TorchTransitions returns every SetTorch value applied, in order.
func (t *StaticTrack) TorchTransitions() []bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]bool, len(t.torchOps))
	copy(out, t.torchOps)
	return out
}

// Zoom returns the last applied zoom level (0 when never set).
func (t *StaticTrack) Zoom() float64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.zoom
}

// FocusMode returns the last applied focus hint ("" when never set).
func (t *StaticTrack) FocusMode() FocusMode {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.focusMode
}

// Resolution returns the last requested resolution (0, 0 when never set).
func (t *StaticTrack) Resolution() (int, int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.width, t.height
}
