// Package capture sequences a single still-frame capture: low-light
// detection, illumination compensation, focus settling, frame grab, and
// illumination restoration.
//
// The stages are strictly sequential, since hardware state (torch, focus)
// must stabilize before the frame is read. The waits are cooperative,
// suspending only the calling goroutine. Capability failures along the way
// degrade rather than abort; the only hard failure is the absence of a
// usable frame at grab time.
//
// One capture is in flight at a time per Orchestrator. A session being torn
// down mid-sequence cancels the Capture context and calls Abort to revert
// illumination.
package capture
