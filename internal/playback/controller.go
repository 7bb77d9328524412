package playback

import (
	"fmt"
	"time"

	"github.com/PizzaHomicide/kagami/internal/domain"
	"github.com/PizzaHomicide/kagami/internal/log"
)

// Options parameterises a Controller
type Options struct {
	Volume           float64 // Initial volume in [0, 1]
	PreferredQuality string  // Rendition to start each episode with, when available
	SeekStep         float64 // Seconds moved by a discrete seek (arrow keys)
	VolumeStep       float64 // Volume change per volume key press
	Skip             SkipDefaults
	FastSeek         FastSeekOptions
	HideDelay        time.Duration
}

// DefaultOptions returns the options used when nothing is configured
func DefaultOptions() Options {
	return Options{
		Volume:     1,
		SeekStep:   10,
		VolumeStep: 0.1,
		Skip:       DefaultSkipDefaults,
		FastSeek:   DefaultFastSeekOptions,
		HideDelay:  DefaultHideDelay,
	}
}

// Snapshot is everything a view needs to render the player
type Snapshot struct {
	State           State
	Skips           SkipWindows
	Backward        FastSeekSession
	Forward         FastSeekSession
	ControlsVisible bool
	Settings        SettingsPanel
	EpisodesOpen    bool
	Episode         domain.Episode
	Quality         string
	Qualities       []string
	Swapping        bool
	FullscreenBusy  bool
}

// Controller is the player: it owns the clock, skip windows, fast-seek sessions, control visibility and the menus,
// and exposes the commands the UI may issue.  A Controller is not safe for concurrent use; every method, media
// event and timer callback must run on the same goroutine.
type Controller struct {
	opts       Options
	clock      *Clock
	skips      SkipWindows
	fastSeek   *FastSeek
	visibility *Visibility

	settings       SettingsPanel
	episodesOpen   bool
	fullscreenBusy bool

	episodes []domain.Episode
	episode  domain.Episode
	quality  string
	closed   bool
}

// New creates a controller over media.  Timers are created through sched.  Call Close when the player goes away.
func New(media Media, sched Scheduler, episodes []domain.Episode, opts Options) *Controller {
	c := &Controller{
		opts:     opts,
		clock:    NewClock(media, opts.Volume),
		episodes: episodes,
		skips:    NewSkipWindows(opts.Skip),
	}
	c.fastSeek = NewFastSeek(opts.FastSeek, sched, c.fastSeekBy)
	c.visibility = NewVisibility(sched, opts.HideDelay, c.PanelOpen)
	return c
}

// Snapshot returns the current state for rendering
func (c *Controller) Snapshot() Snapshot {
	return Snapshot{
		State:           c.clock.State(),
		Skips:           c.skips,
		Backward:        c.fastSeek.Session(Backward),
		Forward:         c.fastSeek.Session(Forward),
		ControlsVisible: c.visibility.Visible(),
		Settings:        c.settings,
		EpisodesOpen:    c.episodesOpen,
		Episode:         c.episode,
		Quality:         c.quality,
		Qualities:       c.episode.Qualities(),
		Swapping:        c.clock.Swapping(),
		FullscreenBusy:  c.fullscreenBusy,
	}
}

// Episodes returns the episode list
func (c *Controller) Episodes() []domain.Episode {
	return c.episodes
}

// SetEpisodes replaces the episode list, e.g. after the catalog changed on disk.  The current episode keeps
// playing; its metadata is refreshed if it is still listed.
func (c *Controller) SetEpisodes(episodes []domain.Episode) {
	c.episodes = episodes
	for _, ep := range episodes {
		if ep.ID == c.episode.ID {
			c.episode = ep
			return
		}
	}
}

// HandleMediaEvent feeds a signal from the media element into the player
func (c *Controller) HandleMediaEvent(ev MediaEvent) {
	if c.closed {
		return
	}
	switch ev.Type {
	case EventMetadataLoaded:
		log.Debug("Media metadata loaded", "duration", ev.Value)
		c.clock.OnMetadataLoaded(ev.Value)
		c.skips = c.skips.WithDuration(c.clock.Duration())
		c.evaluateSkips()
	case EventTimeUpdate:
		log.Trace("Media time update", "time", ev.Value)
		c.clock.OnTimeUpdate(ev.Value)
		c.evaluateSkips()
	case EventDataLoaded:
		c.clock.OnDataLoaded()
		c.evaluateSkips()
	case EventPauseChanged:
		c.clock.OnPauseChanged(ev.Flag)
	case EventFullscreenChanged:
		c.fullscreenBusy = false
		c.clock.SetFullscreen(ev.Flag)
	case EventFullscreenRejected:
		c.fullscreenBusy = false
		log.Warn("Fullscreen request rejected", "error", ev.Err, "fullscreen", c.clock.State().Fullscreen)
	case EventEnded:
		log.Info("Episode playback ended", "episode", c.episode.ID)
		c.clock.OnEnded()
	case EventError:
		log.Warn("Media error", "error", ev.Err)
	}
}

// evaluateSkips hides every button until the duration is known, and while a swap is pending since the new source
// reports 0 until the old position is restored.
func (c *Controller) evaluateSkips() {
	if !c.clock.MetadataLoaded() || c.clock.Swapping() {
		c.skips = c.skips.Hidden()
		return
	}
	c.skips = c.skips.Evaluate(c.clock.CurrentTime(), c.clock.Duration())
}

// PlayEpisode loads an episode from the start using the preferred rendition
func (c *Controller) PlayEpisode(id string) error {
	for _, ep := range c.episodes {
		if ep.ID != id {
			continue
		}
		src, ok := ep.PreferredSource(c.preferredQuality())
		if !ok {
			return fmt.Errorf("episode %s has no sources: %w", id, ErrUnknownQuality)
		}
		log.Info("Loading episode", "episode", ep.ID, "title", ep.Title, "quality", src.Quality)
		c.fastSeek.StopAll()
		c.episode = ep
		c.quality = src.Quality
		c.skips = NewSkipWindows(skipDefaultsFor(ep, c.opts.Skip))
		c.clock.Load(src.URL)
		c.evaluateSkips()
		return nil
	}
	return fmt.Errorf("%w: %s", ErrUnknownEpisode, id)
}

// SelectEpisode switches to another episode from the episode panel and closes the panel
func (c *Controller) SelectEpisode(id string) error {
	if err := c.PlayEpisode(id); err != nil {
		return err
	}
	c.episodesOpen = false
	return nil
}

// preferredQuality keeps the quality the user picked last when moving between episodes
func (c *Controller) preferredQuality() string {
	if c.quality != "" {
		return c.quality
	}
	return c.opts.PreferredQuality
}

// TogglePlay flips between playing and paused.  It does nothing until the media has loaded.
func (c *Controller) TogglePlay() {
	if !c.clock.HasMedia() || !c.clock.MetadataLoaded() {
		return
	}
	if c.clock.State().Playing {
		c.clock.Pause()
	} else {
		c.clock.Play()
	}
}

// ToggleMute flips the mute flag, leaving the volume untouched
func (c *Controller) ToggleMute() {
	s := c.clock.State()
	c.clock.SetVolume(s.Volume, !s.Muted)
}

// AdjustVolume changes the volume by delta.  Reaching 0 mutes; any audible volume unmutes.
func (c *Controller) AdjustVolume(delta float64) {
	s := c.clock.State()
	volume := clamp(s.Volume+delta, 0, 1)
	muted := s.Muted
	if volume == 0 {
		muted = true
	} else if muted {
		muted = false
	}
	c.clock.SetVolume(volume, muted)
}

// SetVolume sets an absolute volume, as a volume slider would.  Muted follows whether the volume is zero.
func (c *Controller) SetVolume(volume float64) {
	volume = clamp(volume, 0, 1)
	c.clock.SetVolume(volume, volume == 0)
}

// SetPlaybackRate changes the playback rate and closes the settings menu
func (c *Controller) SetPlaybackRate(rate float64) error {
	if !ValidRate(rate) {
		return fmt.Errorf("%w: %v", ErrUnsupportedRate, rate)
	}
	c.clock.SetRate(rate)
	c.settings = SettingsClosed
	return nil
}

// SetQuality swaps to another rendition of the current episode, keeping position and play state, and closes the
// settings menu.
func (c *Controller) SetQuality(quality string) error {
	src, ok := c.episode.Source(quality)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownQuality, quality)
	}
	c.settings = SettingsClosed
	if src.Quality == c.quality && !c.clock.Swapping() {
		return nil
	}
	c.quality = src.Quality
	c.clock.Swap(src.URL)
	c.evaluateSkips()
	return nil
}

// ToggleFullscreen asks the media to enter or leave fullscreen.  State only changes once the media confirms.
func (c *Controller) ToggleFullscreen() {
	media := c.clock.media
	if media == nil || c.fullscreenBusy {
		return
	}
	want := !c.clock.State().Fullscreen
	if err := media.SetFullscreen(want); err != nil {
		log.Warn("Fullscreen request failed", "fullscreen", want, "error", err)
		return
	}
	c.fullscreenBusy = true
}

// SeekAbsolute moves to t seconds, clamped to the episode
func (c *Controller) SeekAbsolute(t float64) {
	c.clock.SeekTo(t)
	c.evaluateSkips()
}

// SeekRelative moves by delta seconds, clamped to the episode
func (c *Controller) SeekRelative(delta float64) {
	c.clock.SeekBy(delta)
	c.evaluateSkips()
}

// SeekStep is the discrete seek distance configured for this player
func (c *Controller) SeekStep() float64 {
	return c.opts.SeekStep
}

// VolumeStep is the volume change configured for this player
func (c *Controller) VolumeStep() float64 {
	return c.opts.VolumeStep
}

// Skip jumps to the end of the given window.  It works whether or not the window's button is showing.  During a
// source swap the jump is applied once the new source is restored.
func (c *Controller) Skip(kind SkipKind) {
	w, ok := c.skips.Window(kind)
	if !ok {
		return
	}
	log.Debug("Skipping section", "kind", kind, "to", w.End, "swapping", c.clock.Swapping())
	c.SeekAbsolute(w.End)
}

// SkipActive skips whichever window's button currently has priority.  It reports whether anything was skipped.
func (c *Controller) SkipActive() bool {
	w, ok := c.skips.Active()
	if !ok {
		return false
	}
	c.Skip(w.Kind)
	return true
}

// StartFastSeek begins a press-and-hold seek
func (c *Controller) StartFastSeek(d Direction) {
	if c.closed {
		return
	}
	c.fastSeek.Start(d)
}

// StopFastSeek ends a press-and-hold seek
func (c *Controller) StopFastSeek(d Direction) {
	c.fastSeek.Stop(d)
}

func (c *Controller) fastSeekBy(delta float64) {
	c.SeekRelative(delta)
}

// PointerMoved shows the controls and restarts the auto-hide timer
func (c *Controller) PointerMoved() {
	if c.closed {
		return
	}
	c.visibility.PointerMoved()
}

// PanelOpen reports whether any panel that keeps the controls up is open
func (c *Controller) PanelOpen() bool {
	return c.settings != SettingsClosed || c.episodesOpen
}

// ToggleSettings opens or closes the settings menu
func (c *Controller) ToggleSettings() {
	c.settings = c.settings.Toggle()
}

// OpenQualityMenu enters the quality sub menu from the main settings menu
func (c *Controller) OpenQualityMenu() {
	c.settings = c.settings.Open(SettingsQuality)
}

// OpenSpeedMenu enters the speed sub menu from the main settings menu
func (c *Controller) OpenSpeedMenu() {
	c.settings = c.settings.Open(SettingsSpeed)
}

// Back steps out of the innermost open panel.  It reports whether a panel was closed.
func (c *Controller) Back() bool {
	switch {
	case c.settings != SettingsClosed:
		c.settings = c.settings.Back()
		return true
	case c.episodesOpen:
		c.episodesOpen = false
		return true
	default:
		return false
	}
}

// ToggleEpisodes opens or closes the episode panel
func (c *Controller) ToggleEpisodes() {
	c.episodesOpen = !c.episodesOpen
}

// Close cancels every timer the player owns.  The controller ignores timers and media events afterwards.
func (c *Controller) Close() {
	if c.closed {
		return
	}
	c.closed = true
	c.fastSeek.StopAll()
	c.visibility.Stop()
	log.Debug("Player closed", "episode", c.episode.ID)
}

// skipDefaultsFor applies an episode's catalog overrides on top of the configured defaults
func skipDefaultsFor(ep domain.Episode, d SkipDefaults) SkipDefaults {
	if ep.Skip == nil {
		return d
	}
	if r := ep.Skip.Intro; r != nil {
		d.IntroStart, d.IntroEnd = r.Start, r.End
	}
	if r := ep.Skip.Recap; r != nil {
		d.RecapStart, d.RecapEnd = r.Start, r.End
	}
	if l := ep.Skip.OutroLength; l != nil {
		d.OutroLength = *l
	}
	return d
}
