package device

import "log"

// DefaultZoom is the preferred operating zoom before clamping to the
// device's reported range. A modest magnification near the low end of typical
// ranges fills the frame with the document without starving the autofocus.
const DefaultZoom = 2.0

// Negotiate inspects a track's capability set and produces a best-effort
// capture configuration.
//
// Negotiation never fails: every capability is optional, and every constraint
// the device rejects degrades to the device default with a logged warning.
//
// Policy:
//   - Zoom: apply DefaultZoom clamped to the reported range; leave the device
//     default when no range is reported or the device rejects the value.
//   - Focus: hint continuous autofocus when the track claims to support it.
//     The hint is advisory; capture timing compensates for devices that
//     ignore it.
//   - Torch: marked available only when the capability snapshot explicitly
//     advertises it.
//   - Resolution: request pref best-effort; rejection is ignored.
func Negotiate(track Track, pref ResolutionPreference) (Capabilities, Config) {
	caps := track.Capabilities()

	cfg := Config{
		TorchAvailable: caps.Torch,
		Facing:         track.Facing(),
	}

	if caps.Zoom != nil {
		level := caps.Zoom.Clamp(DefaultZoom)
		if err := track.SetZoom(level); err != nil {
			log.Printf("zoom %.2f rejected, keeping device default: %v", level, err)
		} else {
			cfg.Zoom = level
		}
	}

	if caps.SupportsFocusMode(FocusContinuous) {
		if err := track.SetFocusMode(FocusContinuous); err != nil {
			log.Printf("focus hint %q rejected: %v", FocusContinuous, err)
		} else {
			cfg.FocusMode = FocusContinuous
		}
	}

	if pref.IdealWidth > 0 && pref.IdealHeight > 0 {
		if err := track.SetResolution(pref.IdealWidth, pref.IdealHeight); err != nil {
			log.Printf("resolution %dx%d rejected: %v", pref.IdealWidth, pref.IdealHeight, err)
		}
	}

	return caps, cfg
}
