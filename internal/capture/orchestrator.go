package capture

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/draw"
	"log"
	"sync/atomic"
	"time"

	"github.com/disintegration/imaging"

	"github.com/capturelab/ocrshot/internal/device"
	"github.com/capturelab/ocrshot/internal/luminance"
)

// ErrFrameUnavailable is the hard failure of a capture attempt: the live
// source produced no frame to grab. Callers may retry.
var ErrFrameUnavailable = errors.New("no frame available to capture")

// ErrCaptureInFlight is returned when Capture is called while a previous
// capture on the same orchestrator has not finished.
var ErrCaptureInFlight = errors.New("capture already in flight")

// SettlePolicy configures the fixed waits inserted to let hardware state
// stabilize before a frame is read. The delays are a coarse substitute for
// true hardware-ready signals, which heterogeneous devices do not provide.
type SettlePolicy struct {
	// Torch is the wait after enabling illumination, letting exposure adapt
	// to the new light level.
	Torch time.Duration

	// Focus is the unconditional wait before the grab, giving autofocus
	// time to converge. This compensates for focus hints being advisory.
	Focus time.Duration
}

// DefaultSettlePolicy preserves the empirically tuned production delays.
func DefaultSettlePolicy() SettlePolicy {
	return SettlePolicy{
		Torch: 300 * time.Millisecond,
		Focus: 400 * time.Millisecond,
	}
}

// RawFrame is the full-resolution pixel buffer captured at the moment of
// exposure. Exactly one RawFrame exists per capture invocation; the buffer
// is owned exclusively by that invocation and never reused.
type RawFrame struct {
	// Pix is the captured pixel buffer (8-bit RGBA, premultiplication-free).
	Pix *image.NRGBA

	// Width and Height are the buffer dimensions in pixels.
	Width  int
	Height int

	// Mirrored reports whether the buffer was flipped horizontally to undo
	// the live self-view mirroring of a front-facing camera.
	Mirrored bool

	// TorchFired reports whether illumination compensation was engaged for
	// this capture.
	TorchFired bool

	// Brightness is the pre-capture luma reading (luminance.Unknown when
	// the source was not ready to sample).
	Brightness float64
}

// Orchestrator sequences illumination, focus settling, frame grab and
// illumination restoration into one atomic "take a photo" operation.
//
// An orchestrator serves one capture session and allows at most one capture
// in flight; overlapping Capture calls fail with ErrCaptureInFlight.
type Orchestrator struct {
	// Settle holds the hardware settle delays. New installs
	// DefaultSettlePolicy; a zero policy waits not at all.
	Settle SettlePolicy

	// OnShutter, when non-nil, is invoked immediately before the frame grab
	// so callers can drive a visual shutter effect. It must return quickly.
	OnShutter func()

	inFlight atomic.Bool
}

// New creates an orchestrator with the default settle policy.
func New() *Orchestrator {
	return &Orchestrator{Settle: DefaultSettlePolicy()}
}

// Capture runs the full capture sequence against the given stream:
//
//  1. Sample brightness from the frame center. When the scene is low-light
//     and the config reports torch support, enable illumination and wait
//     for the torch settle delay.
//  2. Wait the focus settle delay unconditionally, letting autofocus
//     converge on hardware where hints are ignored.
//  3. Fire the shutter hook and grab the current frame into a fresh pixel
//     buffer at native resolution.
//  4. Mirror the buffer horizontally when the camera is front-facing.
//  5. Disable illumination if it was enabled. This runs even when the
//     grab fails.
//
// Device-level rejections of the torch toggle are logged and swallowed;
// only a missing frame is a hard failure, surfaced as ErrFrameUnavailable.
// Cancelling ctx during a settle wait aborts the sequence after the torch
// has been reverted.
func (o *Orchestrator) Capture(ctx context.Context, src device.FrameSource, track device.Track, cfg device.Config) (*RawFrame, error) {
	if !o.inFlight.CompareAndSwap(false, true) {
		return nil, ErrCaptureInFlight
	}
	defer o.inFlight.Store(false)

	settle := o.Settle
	brightness := luminance.Sample(src)

	torchFired := false
	if luminance.IsLowLight(brightness) && cfg.TorchAvailable {
		if err := track.SetTorch(true); err != nil {
			log.Printf("torch on rejected, capturing without illumination: %v", err)
		} else {
			torchFired = true
		}
	}
	// Illumination must be reverted on every exit path once enabled,
	// including grab failures and cancellation.
	defer func() {
		if torchFired {
			if err := track.SetTorch(false); err != nil {
				log.Printf("torch off rejected after capture: %v", err)
			}
		}
	}()

	if torchFired {
		if err := wait(ctx, settle.Torch); err != nil {
			return nil, err
		}
	}

	if err := wait(ctx, settle.Focus); err != nil {
		return nil, err
	}

	if o.OnShutter != nil {
		o.OnShutter()
	}

	frame, err := src.Frame()
	if err != nil || frame == nil {
		return nil, fmt.Errorf("%w: %v", ErrFrameUnavailable, err)
	}

	buf := grab(frame)
	mirrored := false
	if cfg.Facing == device.FacingFront {
		buf = imaging.FlipH(buf)
		mirrored = true
	}

	b := buf.Bounds()
	return &RawFrame{
		Pix:        buf,
		Width:      b.Dx(),
		Height:     b.Dy(),
		Mirrored:   mirrored,
		TorchFired: torchFired,
		Brightness: brightness,
	}, nil
}

// Abort is the teardown hook for a capture session being torn down
// mid-sequence: it forces illumination off best-effort. Pending settle
// waits are abandoned by cancelling the context passed to Capture.
func (o *Orchestrator) Abort(track device.Track) {
	if track == nil || !track.Capabilities().Torch {
		return
	}
	if err := track.SetTorch(false); err != nil {
		log.Printf("torch off rejected during abort: %v", err)
	}
}

// grab copies a frame into a freshly allocated NRGBA buffer so the capture
// owns its pixels outright; the source may overwrite its frame at any time.
func grab(frame image.Image) *image.NRGBA {
	b := frame.Bounds()
	buf := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(buf, buf.Bounds(), frame, b.Min, draw.Src)
	return buf
}

// wait suspends for d without blocking unrelated work, honoring ctx.
func wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
