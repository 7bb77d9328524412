package playback

import "errors"

var (
	// ErrUnsupportedRate is returned when a playback rate outside of SpeedOptions is requested
	ErrUnsupportedRate = errors.New("unsupported playback rate")
	// ErrUnknownQuality is returned when the current episode has no rendition with the requested quality
	ErrUnknownQuality = errors.New("unknown quality for current episode")
	// ErrUnknownEpisode is returned when selecting an episode that is not in the episode list
	ErrUnknownEpisode = errors.New("unknown episode")
)
