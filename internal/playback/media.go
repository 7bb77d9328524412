package playback

import "time"

// Media is the single media element the controller owns. Implementations must not block for long: commands are
// issued from the UI event loop.
type Media interface {
	// Load replaces the current source with the given URL
	Load(url string) error
	Play() error
	Pause() error
	// Seek moves to an absolute position in seconds
	Seek(seconds float64) error
	SetSpeed(rate float64) error
	// SetVolume takes a volume in the range [0, 1]
	SetVolume(volume float64) error
	SetMute(muted bool) error
	// SetFullscreen requests a fullscreen change.  The outcome is reported back through a MediaEvent of type
	// EventFullscreenChanged or EventFullscreenRejected.
	SetFullscreen(on bool) error
}

// MediaEventType represents the type of signal emitted by the media element
type MediaEventType string

const (
	// EventMetadataLoaded fires when the duration of the current source becomes known
	EventMetadataLoaded MediaEventType = "metadata_loaded"
	// EventTimeUpdate fires whenever the playback position advances
	EventTimeUpdate MediaEventType = "time_update"
	// EventDataLoaded fires when the current source has buffered enough to be played back
	EventDataLoaded MediaEventType = "data_loaded"
	// EventPauseChanged fires when the media element was paused or resumed outside the controller
	EventPauseChanged MediaEventType = "pause_changed"
	// EventFullscreenChanged confirms a fullscreen change
	EventFullscreenChanged MediaEventType = "fullscreen_changed"
	// EventFullscreenRejected reports a fullscreen request the media element refused
	EventFullscreenRejected MediaEventType = "fullscreen_rejected"
	// EventEnded fires when the current source played to its end
	EventEnded MediaEventType = "ended"
	// EventError reports a media level error that does not fit any of the above
	EventError MediaEventType = "error"
)

// MediaEvent is a single signal from the media element
type MediaEvent struct {
	Type  MediaEventType
	Value float64 // Seconds for EventMetadataLoaded and EventTimeUpdate
	Flag  bool    // Paused for EventPauseChanged, fullscreen state for EventFullscreenChanged
	Err   error
}

// Timer is a handle to a scheduled callback
type Timer interface {
	// Stop prevents the callback from running.  It returns false if the callback already ran or the timer was
	// already stopped.
	Stop() bool
}

// Scheduler creates timers whose callbacks run on the same goroutine as the rest of the controller.
type Scheduler interface {
	AfterFunc(d time.Duration, f func()) Timer
}
