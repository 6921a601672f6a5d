package device

import (
	"errors"
	"image"
)

// ErrNoFrame is returned by a FrameSource that has no decodable frame to
// offer. Callers treat it as a hard capture failure.
var ErrNoFrame = errors.New("frame source has no frame available")

// FrameSource is the live feed abstraction the capture flow reads from.
//
// Implementations range from real camera previews to file-backed or synthetic
// sources used in tests. A source that is not ready yet reports zero
// dimensions; callers must check dimensions before trusting Frame().
type FrameSource interface {
	// Dimensions returns the intrinsic width and height of the source in
	// pixels. Both are 0 while the source is not ready.
	Dimensions() (width, height int)

	// Frame returns the current frame at native resolution.
	// Returns ErrNoFrame (possibly wrapped) when no frame is available.
	Frame() (image.Image, error)
}

// Facing identifies which way the active camera points.
type Facing int

const (
	// FacingBack is the environment-facing camera (the default).
	FacingBack Facing = iota

	// FacingFront is the self-facing camera. Captures from it are mirrored
	// horizontally so the output matches the user's self-view.
	FacingFront
)

// String returns "back" or "front".
func (f Facing) String() string {
	if f == FacingFront {
		return "front"
	}
	return "back"
}

// FocusMode is a best-effort autofocus hint. Devices are free to ignore it;
// downstream settle delays compensate rather than depending on it.
type FocusMode string

const (
	FocusContinuous FocusMode = "continuous"
	FocusSingleShot FocusMode = "single-shot"
	FocusManual     FocusMode = "manual"
)

// ZoomRange describes the zoom levels a track supports.
type ZoomRange struct {
	Min  float64 `json:"min"`
	Max  float64 `json:"max"`
	Step float64 `json:"step,omitempty"` // 0 when the device reports none
}

// Clamp constrains v to [Min, Max].
func (z ZoomRange) Clamp(v float64) float64 {
	if v < z.Min {
		return z.Min
	}
	if v > z.Max {
		return z.Max
	}
	return v
}

// Capabilities is a snapshot of what the active capture track supports.
//
// Every field is optional: a zero-value Capabilities describes a device that
// advertises nothing, and all consumers must degrade gracefully. The snapshot
// is taken once per session and re-taken whenever the track is replaced.
type Capabilities struct {
	// Torch reports whether the device explicitly advertises a continuous
	// illumination source. All later torch toggling is gated on this flag.
	Torch bool `json:"torch"`

	// Zoom is the supported zoom range, or nil when zoom is unavailable.
	Zoom *ZoomRange `json:"zoom,omitempty"`

	// FocusModes lists the focus-hint modes the device claims to accept.
	// Empty when focus hinting is unsupported.
	FocusModes []FocusMode `json:"focus_modes,omitempty"`
}

// SupportsFocusMode reports whether mode appears in the capability snapshot.
func (c Capabilities) SupportsFocusMode(mode FocusMode) bool {
	for _, m := range c.FocusModes {
		if m == mode {
			return true
		}
	}
	return false
}

// Track is the constraint-adjustment surface of an active capture device.
//
// Every setter is best-effort: a device may reject any call, and callers must
// treat rejection as a degradation, never a session failure.
type Track interface {
	// Capabilities returns the track's declared capability set.
	Capabilities() Capabilities

	// Facing reports which way the camera points.
	Facing() Facing

	// SetTorch switches the continuous illumination source on or off.
	SetTorch(on bool) error

	// SetZoom applies a zoom level. The value should already be clamped to
	// the capability range; out-of-range values may be rejected.
	SetZoom(level float64) error

	// SetFocusMode issues a focus hint. Honoring it is not guaranteed.
	SetFocusMode(mode FocusMode) error

	// SetResolution requests a capture resolution. Devices pick the nearest
	// supported mode and may ignore the request entirely.
	SetResolution(width, height int) error
}

// Config holds the negotiated best-effort capture settings for one active
// stream. It is owned by the capture orchestrator and replaced wholesale when
// the stream is replaced.
type Config struct {
	// Zoom is the operating zoom level, 0 when left at the device default.
	Zoom float64 `json:"zoom"`

	// TorchAvailable gates all illumination compensation.
	TorchAvailable bool `json:"torch_available"`

	// FocusMode is the hint issued at session start, "" when unsupported.
	FocusMode FocusMode `json:"focus_mode,omitempty"`

	// Facing mirrors Track.Facing at negotiation time.
	Facing Facing `json:"-"`
}

// ResolutionPreference is the capture resolution requested at session start.
type ResolutionPreference struct {
	IdealWidth  int
	IdealHeight int
}

// DefaultResolution is a 4:3 high-megapixel target that favors OCR legibility
// over frame rate.
var DefaultResolution = ResolutionPreference{IdealWidth: 2048, IdealHeight: 1536}
