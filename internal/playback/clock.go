package playback

import (
	"math"

	"github.com/PizzaHomicide/kagami/internal/log"
)

// State is the playback state of the current source
type State struct {
	CurrentTime float64
	Duration    float64
	Playing     bool
	Volume      float64
	Muted       bool
	Rate        float64
	Fullscreen  bool
}

// restorePoint captures where playback was before a source swap
type restorePoint struct {
	url        string
	position   float64
	wasPlaying bool
	dataLoaded bool // The new source reported it can play, but may still be waiting on its duration
}

// Clock translates the media element's time signals into State and is the only place that moves the playback
// position.  A nil media makes every command a no-op.
type Clock struct {
	media          Media
	state          State
	metadataLoaded bool
	pending        *restorePoint
}

// NewClock creates a clock over the given media.  The initial volume and rate are pushed to the media when a
// source is loaded.
func NewClock(media Media, volume float64) *Clock {
	return &Clock{
		media: media,
		state: State{
			Volume: clamp(volume, 0, 1),
			Rate:   1,
		},
	}
}

// State returns a copy of the current playback state
func (c *Clock) State() State {
	return c.state
}

// CurrentTime returns the last known playback position in seconds
func (c *Clock) CurrentTime() float64 {
	return c.state.CurrentTime
}

// Duration returns the duration of the current source, or 0 if it is not yet known
func (c *Clock) Duration() float64 {
	return c.state.Duration
}

// MetadataLoaded reports whether the duration of the current source is known
func (c *Clock) MetadataLoaded() bool {
	return c.metadataLoaded
}

// Swapping reports whether a source swap is waiting for the new source to load
func (c *Clock) Swapping() bool {
	return c.pending != nil
}

// HasMedia reports whether a media element is attached
func (c *Clock) HasMedia() bool {
	return c.media != nil
}

// SeekTo moves playback to t, clamped to [0, duration].  Out of range requests are clamped, never rejected.
// During a source swap the restore point moves instead; the new source is left alone until it is restored.
func (c *Clock) SeekTo(t float64) {
	if c.media == nil {
		return
	}
	if c.pending != nil {
		c.pending.position = math.Max(0, t)
		log.Debug("Moved source swap restore point", "position", c.pending.position)
		return
	}
	target := clamp(t, 0, c.state.Duration)
	c.state.CurrentTime = target
	if err := c.media.Seek(target); err != nil {
		log.Warn("Seek command failed", "target", target, "error", err)
	}
}

// SeekBy moves playback relative to the current position, or to the restore point while a swap is pending
func (c *Clock) SeekBy(delta float64) {
	if c.pending != nil {
		c.SeekTo(c.pending.position + delta)
		return
	}
	c.SeekTo(c.state.CurrentTime + delta)
}

// SetRate changes the playback rate.  Callers validate the rate.
func (c *Clock) SetRate(rate float64) {
	if c.media == nil {
		return
	}
	if err := c.media.SetSpeed(rate); err != nil {
		log.Warn("Set speed command failed", "rate", rate, "error", err)
		return
	}
	c.state.Rate = rate
}

// Play resumes playback
func (c *Clock) Play() {
	if c.media == nil {
		return
	}
	if err := c.media.Play(); err != nil {
		log.Warn("Play command failed", "error", err)
		return
	}
	c.state.Playing = true
}

// Pause halts playback
func (c *Clock) Pause() {
	if c.media == nil {
		return
	}
	if err := c.media.Pause(); err != nil {
		log.Warn("Pause command failed", "error", err)
		return
	}
	c.state.Playing = false
}

// SetVolume stores the volume and mute flag and pushes both to the media
func (c *Clock) SetVolume(volume float64, muted bool) {
	c.state.Volume = clamp(volume, 0, 1)
	c.state.Muted = muted
	if c.media == nil {
		return
	}
	if err := c.media.SetVolume(c.state.Volume); err != nil {
		log.Warn("Set volume command failed", "volume", c.state.Volume, "error", err)
	}
	if err := c.media.SetMute(muted); err != nil {
		log.Warn("Set mute command failed", "muted", muted, "error", err)
	}
}

// SetFullscreen records a confirmed fullscreen state
func (c *Clock) SetFullscreen(on bool) {
	c.state.Fullscreen = on
}

// Load starts a fresh source from position 0.  Any pending swap is abandoned.
func (c *Clock) Load(url string) {
	if c.media == nil {
		return
	}
	if c.pending != nil {
		log.Warn("Abandoning source swap that never loaded", "url", c.pending.url)
		c.pending = nil
	}
	c.reset()
	if err := c.media.Load(url); err != nil {
		log.Warn("Load command failed", "url", url, "error", err)
		return
	}
	c.pushSettings()
}

// Swap replaces the source while keeping the playback position and play state.  The position is restored on the
// new source's first data loaded signal.  If that signal never arrives playback stays paused at 0.
func (c *Clock) Swap(url string) {
	if c.media == nil {
		return
	}
	restore := &restorePoint{
		url:        url,
		position:   c.state.CurrentTime,
		wasPlaying: c.state.Playing,
	}
	if c.pending != nil {
		// A swap that never loaded still owns the position the user was at
		log.Warn("Superseding source swap that never loaded", "url", c.pending.url)
		restore.position = c.pending.position
		restore.wasPlaying = c.pending.wasPlaying
	}
	log.Info("Swapping media source", "url", url, "position", restore.position, "was_playing", restore.wasPlaying)

	if err := c.media.Pause(); err != nil {
		log.Warn("Pause before source swap failed", "error", err)
	}
	c.reset()
	c.pending = restore
	if err := c.media.Load(url); err != nil {
		log.Warn("Load command failed during source swap", "url", url, "error", err)
		return
	}
	c.pushSettings()
}

// OnMetadataLoaded records the duration of the current source
func (c *Clock) OnMetadataLoaded(duration float64) {
	if duration < 0 || math.IsNaN(duration) || math.IsInf(duration, 0) {
		log.Warn("Ignoring invalid duration", "duration", duration)
		return
	}
	c.state.Duration = duration
	c.metadataLoaded = duration > 0
	c.state.CurrentTime = clamp(c.state.CurrentTime, 0, duration)
	if c.pending != nil && c.pending.dataLoaded && c.metadataLoaded {
		c.restore()
	}
}

// OnTimeUpdate records a new playback position reported by the media
func (c *Clock) OnTimeUpdate(t float64) {
	if math.IsNaN(t) {
		return
	}
	if c.pending != nil {
		// The new source reports its own position until the old one is restored
		return
	}
	if c.metadataLoaded {
		t = clamp(t, 0, c.state.Duration)
	} else {
		t = math.Max(0, t)
	}
	c.state.CurrentTime = t
}

// OnDataLoaded handles the media reporting that the current source can play
func (c *Clock) OnDataLoaded() {
	if c.pending == nil {
		return
	}
	c.pending.dataLoaded = true
	if c.metadataLoaded {
		c.restore()
	}
}

// OnPauseChanged syncs a pause/resume that happened outside of the controller, e.g. inside the mpv window
func (c *Clock) OnPauseChanged(paused bool) {
	if c.pending != nil {
		return
	}
	c.state.Playing = !paused
}

// OnEnded marks the current source as finished
func (c *Clock) OnEnded() {
	c.state.Playing = false
}

func (c *Clock) restore() {
	p := c.pending
	c.pending = nil
	log.Info("Restoring playback after source swap", "url", p.url, "position", p.position, "resume", p.wasPlaying)
	c.SeekTo(p.position)
	if p.wasPlaying {
		c.Play()
	}
}

// reset puts the state back to an unloaded source while keeping user preferences
func (c *Clock) reset() {
	c.state.CurrentTime = 0
	c.state.Duration = 0
	c.state.Playing = false
	c.metadataLoaded = false
}

// pushSettings re-applies user preferences to a freshly loaded source
func (c *Clock) pushSettings() {
	if err := c.media.SetSpeed(c.state.Rate); err != nil {
		log.Warn("Set speed command failed", "rate", c.state.Rate, "error", err)
	}
	if err := c.media.SetVolume(c.state.Volume); err != nil {
		log.Warn("Set volume command failed", "volume", c.state.Volume, "error", err)
	}
	if err := c.media.SetMute(c.state.Muted); err != nil {
		log.Warn("Set mute command failed", "muted", c.state.Muted, "error", err)
	}
}

func clamp(v, lo, hi float64) float64 {
	if hi < lo {
		hi = lo
	}
	return math.Min(hi, math.Max(lo, v))
}
