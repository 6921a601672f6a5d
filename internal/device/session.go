package device

import (
	"errors"
	"log"
	"sync"
)

// ErrSessionDisposed is returned by session operations after Dispose.
var ErrSessionDisposed = errors.New("capture session disposed")

// ErrSessionNotActive is returned when a session has no active stream.
var ErrSessionNotActive = errors.New("capture session has no active stream")

// SessionState is the lifecycle state of a capture session.
type SessionState int

const (
	// Uninitialized: created but no stream attached yet.
	Uninitialized SessionState = iota
	// Active: a track and frame source are attached and negotiated.
	Active
	// Disposed: torn down; the session rejects further use.
	Disposed
)

// String returns the lowercase state name.
func (s SessionState) String() string {
	switch s {
	case Active:
		return "active"
	case Disposed:
		return "disposed"
	default:
		return "uninitialized"
	}
}

// Session owns the active stream state for one camera session: the current
// track, frame source, capability snapshot, and negotiated config.
//
// The lifecycle is Uninitialized -> Active (Start) -> Active (Replace, any
// number of times) -> Disposed (Dispose). Capabilities and config are
// invalidated and re-negotiated on every Start/Replace, never re-checked ad
// hoc in between.
//
// Session is safe for concurrent use; capture callers are still expected to
// keep at most one capture in flight (see the capture package).
type Session struct {
	mu     sync.Mutex
	state  SessionState
	pref   ResolutionPreference
	track  Track
	source FrameSource
	caps   Capabilities
	config Config
}

// NewSession creates an Uninitialized session with the given resolution
// preference. A zero preference falls back to DefaultResolution.
func NewSession(pref ResolutionPreference) *Session {
	if pref.IdealWidth <= 0 || pref.IdealHeight <= 0 {
		pref = DefaultResolution
	}
	return &Session{pref: pref}
}

// State returns the current lifecycle state.
func (s *Session) State() SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Start attaches the first track and frame source and negotiates capture
// settings. Starting an already Active session behaves like Replace.
func (s *Session) Start(track Track, source FrameSource) error {
	return s.attach(track, source)
}

// Replace swaps in a new track and frame source (e.g. on camera switch),
// discarding the previous capability snapshot and re-negotiating. The
// outgoing track's torch is forced off best-effort first.
func (s *Session) Replace(track Track, source FrameSource) error {
	return s.attach(track, source)
}

func (s *Session) attach(track Track, source FrameSource) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == Disposed {
		return ErrSessionDisposed
	}
	if s.track != nil {
		forceTorchOff(s.track)
	}

	s.track = track
	s.source = source
	s.caps, s.config = Negotiate(track, s.pref)
	s.state = Active
	return nil
}

// Stream returns the active track, frame source and negotiated config.
func (s *Session) Stream() (Track, FrameSource, Config, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.state {
	case Disposed:
		return nil, nil, Config{}, ErrSessionDisposed
	case Uninitialized:
		return nil, nil, Config{}, ErrSessionNotActive
	}
	return s.track, s.source, s.config, nil
}

// Capabilities returns the capability snapshot taken at the last
// Start/Replace. The zero value is returned while not Active.
func (s *Session) Capabilities() Capabilities {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.caps
}

// Dispose tears the session down: the torch is forced off best-effort and
// the track, source and config are released. Dispose is idempotent.
func (s *Session) Dispose() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == Disposed {
		return
	}
	if s.track != nil {
		forceTorchOff(s.track)
	}
	s.track = nil
	s.source = nil
	s.caps = Capabilities{}
	s.config = Config{}
	s.state = Disposed
}

// forceTorchOff reverts illumination without propagating device rejections.
func forceTorchOff(track Track) {
	if !track.Capabilities().Torch {
		return
	}
	if err := track.SetTorch(false); err != nil {
		log.Printf("torch off rejected during teardown: %v", err)
	}
}
