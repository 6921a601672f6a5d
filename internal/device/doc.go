// Package device models the capture device surface the rest of the system
// talks to: frame sources, constraint tracks, capability negotiation, and
// the capture session lifecycle.
//
// # Capability Model
//
// Capture hardware varies wildly: some devices expose a torch, some a zoom
// range, some accept focus hints, many none of the above. A device may also
// advertise a capability and still reject the constraint when applied. The
// package therefore treats every capability as optional and every setter as
// best-effort:
//
//   - Capabilities is a typed snapshot of what the track claims to support,
//     taken once per session rather than probed ad hoc.
//   - Negotiate turns a snapshot into a Config, applying defaults (zoom,
//     focus hint, resolution preference) and degrading to the device default
//     with a logged warning on any rejection. Negotiation never fails.
//
// # Session Lifecycle
//
// Session owns the mutable "current stream" state with an explicit
// Uninitialized -> Active -> Disposed state machine. Start and Replace
// invalidate the previous capability snapshot and re-negotiate; Dispose
// forces the torch off best-effort and rejects further use.
//
// # Test Implementations
//
// FileSource, ImageSource and StaticTrack provide hardware-free FrameSource
// and Track implementations for the simulated MCP device and for tests.
package device
