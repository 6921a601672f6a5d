// Package luminance estimates ambient scene brightness from a live frame
// source, driving the low-light classification that decides whether the
// capture flow engages illumination compensation.
//
// Brightness is the mean BT.601 luma over a small window cut from the frame
// center, on a 0-255 scale. Readings below LowLightThreshold classify the
// scene as low-light. A source with no valid dimensions yields the Unknown
// sentinel, which callers treat as adequate light; guessing dark on a
// not-yet-ready source would fire the torch for nothing.
package luminance
