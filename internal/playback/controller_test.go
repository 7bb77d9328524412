package playback

import (
	"errors"
	"testing"
	"time"

	"github.com/PizzaHomicide/kagami/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testEpisodes() []domain.Episode {
	outro := 60.0
	return []domain.Episode{
		{
			ID:     "1",
			Number: 1,
			Title:  "The Beginning",
			Sources: []domain.Source{
				{Quality: "480p", URL: "https://example.test/ep1-480.mp4"},
				{Quality: "720p", URL: "https://example.test/ep1-720.mp4"},
				{Quality: "1080p", URL: "https://example.test/ep1-1080.mp4"},
			},
		},
		{
			ID:     "2",
			Number: 2,
			Title:  "New Powers",
			Skip: &domain.SkipOverrides{
				Intro:       &domain.SkipRange{Start: 60, End: 150},
				OutroLength: &outro,
			},
			Sources: []domain.Source{
				{Quality: "480p", URL: "https://example.test/ep2-480.mp4"},
				{Quality: "1080p", URL: "https://example.test/ep2-1080.mp4"},
			},
		},
	}
}

type testPlayer struct {
	*Controller
	media *fakeMedia
	sched *manualScheduler
}

// newLoadedPlayer starts episode 1 at 480p and delivers its metadata
func newLoadedPlayer(t *testing.T, duration float64) testPlayer {
	t.Helper()
	media := &fakeMedia{}
	sched := &manualScheduler{}
	opts := DefaultOptions()
	opts.PreferredQuality = "480p"
	c := New(media, sched, testEpisodes(), opts)
	require.NoError(t, c.PlayEpisode("1"))
	c.HandleMediaEvent(MediaEvent{Type: EventMetadataLoaded, Value: duration})
	c.HandleMediaEvent(MediaEvent{Type: EventDataLoaded})
	t.Cleanup(c.Close)
	return testPlayer{Controller: c, media: media, sched: sched}
}

func (p testPlayer) timeUpdate(t float64) {
	p.HandleMediaEvent(MediaEvent{Type: EventTimeUpdate, Value: t})
}

func TestOutroScenario(t *testing.T) {
	p := newLoadedPlayer(t, 1500)

	snap := p.Snapshot()
	assert.Equal(t, 1410.0, snap.Skips.Outro.Start)
	assert.Equal(t, 1500.0, snap.Skips.Outro.End)

	p.timeUpdate(1420)
	assert.True(t, p.Snapshot().Skips.Outro.Visible)

	p.Skip(SkipOutro)
	assert.Equal(t, 1500.0, p.Snapshot().State.CurrentTime)
	assert.Equal(t, 1500.0, p.media.lastSeek())
}

func TestSkipIsUnconditional(t *testing.T) {
	p := newLoadedPlayer(t, 1500)

	p.timeUpdate(600)
	require.False(t, p.Snapshot().Skips.Intro.Visible)

	p.Skip(SkipIntro)
	assert.Equal(t, 90.0, p.Snapshot().State.CurrentTime)
}

func TestSkipActiveFollowsPriority(t *testing.T) {
	p := newLoadedPlayer(t, 1500)

	p.timeUpdate(10)
	assert.True(t, p.SkipActive())
	assert.Equal(t, 30.0, p.Snapshot().State.CurrentTime, "recap skipped first")

	p.timeUpdate(45)
	assert.True(t, p.Snapshot().Skips.Intro.Visible)
	assert.True(t, p.SkipActive())
	assert.Equal(t, 90.0, p.Snapshot().State.CurrentTime)

	p.timeUpdate(600)
	assert.False(t, p.SkipActive())
}

func TestNoSkipWindowsBeforeMetadata(t *testing.T) {
	c := New(&fakeMedia{}, &manualScheduler{}, testEpisodes(), DefaultOptions())
	defer c.Close()
	require.NoError(t, c.PlayEpisode("1"))

	c.HandleMediaEvent(MediaEvent{Type: EventTimeUpdate, Value: 10})
	skips := c.Snapshot().Skips
	assert.False(t, skips.Intro.Visible)
	assert.False(t, skips.Recap.Visible)
	assert.False(t, skips.Outro.Visible)
}

func TestEpisodeSkipOverrides(t *testing.T) {
	p := newLoadedPlayer(t, 1500)

	require.NoError(t, p.SelectEpisode("2"))
	p.HandleMediaEvent(MediaEvent{Type: EventMetadataLoaded, Value: 1200})

	skips := p.Snapshot().Skips
	assert.Equal(t, 60.0, skips.Intro.Start)
	assert.Equal(t, 150.0, skips.Intro.End)
	assert.Equal(t, 30.0, skips.Recap.End, "recap keeps the default")
	assert.Equal(t, 1140.0, skips.Outro.Start)
}

func TestHoldForwardScenario(t *testing.T) {
	p := newLoadedPlayer(t, 1500)
	p.timeUpdate(100)

	p.StartFastSeek(Forward)
	p.sched.Advance(1000 * time.Millisecond)

	snap := p.Snapshot()
	assert.Equal(t, 110.0, snap.State.CurrentTime)
	assert.Equal(t, 3.0, snap.Forward.Speed)

	p.StopFastSeek(Forward)
	p.sched.Advance(time.Second)
	snap = p.Snapshot()
	assert.Equal(t, 110.0, snap.State.CurrentTime)
	assert.Equal(t, 1.0, snap.Forward.Speed)
	assert.False(t, snap.Forward.Active)
}

func TestFastSeekBeforeMetadataLocksAtZero(t *testing.T) {
	sched := &manualScheduler{}
	c := New(&fakeMedia{}, sched, testEpisodes(), DefaultOptions())
	defer c.Close()
	require.NoError(t, c.PlayEpisode("1"))

	c.StartFastSeek(Forward)
	sched.Advance(time.Second)
	assert.Equal(t, 0.0, c.Snapshot().State.CurrentTime)
}

func TestAdjustVolume(t *testing.T) {
	tests := []struct {
		name       string
		start      float64
		startMuted bool
		delta      float64
		wantVolume float64
		wantMuted  bool
	}{
		{name: "clamps at zero and mutes", start: 0.3, delta: -1.5, wantVolume: 0, wantMuted: true},
		{name: "clamps at one", start: 0.95, delta: 0.1, wantVolume: 1},
		{name: "unmutes when audible", start: 0.5, startMuted: true, delta: 0.1, wantVolume: 0.6},
		{name: "stays unmuted", start: 0.5, delta: -0.1, wantVolume: 0.4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newLoadedPlayer(t, 1500)
			p.clock.SetVolume(tt.start, tt.startMuted)

			p.AdjustVolume(tt.delta)

			state := p.Snapshot().State
			assert.InDelta(t, tt.wantVolume, state.Volume, 1e-9)
			assert.Equal(t, tt.wantMuted, state.Muted)
			assert.InDelta(t, tt.wantVolume, p.media.volume, 1e-9)
			assert.Equal(t, tt.wantMuted, p.media.muted)
		})
	}
}

func TestToggleMuteKeepsVolume(t *testing.T) {
	p := newLoadedPlayer(t, 1500)
	p.SetVolume(0.7)

	p.ToggleMute()
	state := p.Snapshot().State
	assert.True(t, state.Muted)
	assert.Equal(t, 0.7, state.Volume)

	p.ToggleMute()
	assert.False(t, p.Snapshot().State.Muted)
}

func TestSetVolumeSlider(t *testing.T) {
	p := newLoadedPlayer(t, 1500)

	p.SetVolume(0)
	assert.True(t, p.Snapshot().State.Muted)

	p.SetVolume(1.4)
	state := p.Snapshot().State
	assert.False(t, state.Muted)
	assert.Equal(t, 1.0, state.Volume)
}

func TestTogglePlay(t *testing.T) {
	p := newLoadedPlayer(t, 1500)

	p.TogglePlay()
	assert.True(t, p.Snapshot().State.Playing)
	assert.Equal(t, 1, p.media.plays)

	p.TogglePlay()
	assert.False(t, p.Snapshot().State.Playing)
}

func TestTogglePlayBeforeLoadIsNoop(t *testing.T) {
	media := &fakeMedia{}
	c := New(media, &manualScheduler{}, testEpisodes(), DefaultOptions())
	defer c.Close()
	require.NoError(t, c.PlayEpisode("1"))

	c.TogglePlay()
	assert.Equal(t, 0, media.plays)
	assert.False(t, c.Snapshot().State.Playing)
}

func TestNilMediaIsNoop(t *testing.T) {
	c := New(nil, &manualScheduler{}, testEpisodes(), DefaultOptions())
	defer c.Close()

	assert.NoError(t, c.PlayEpisode("1"))
	c.TogglePlay()
	c.SeekAbsolute(100)
	c.ToggleFullscreen()
	c.HandleMediaEvent(MediaEvent{Type: EventMetadataLoaded, Value: 1500})

	state := c.Snapshot().State
	assert.False(t, state.Playing)
	assert.Equal(t, 0.0, state.CurrentTime)
}

func TestSeekClamps(t *testing.T) {
	p := newLoadedPlayer(t, 1500)

	p.SeekAbsolute(-20)
	assert.Equal(t, 0.0, p.Snapshot().State.CurrentTime)

	p.SeekAbsolute(99999)
	assert.Equal(t, 1500.0, p.Snapshot().State.CurrentTime)

	p.SeekAbsolute(700)
	p.SeekRelative(p.SeekStep())
	assert.Equal(t, 710.0, p.Snapshot().State.CurrentTime)
	p.SeekRelative(-p.SeekStep())
	assert.Equal(t, 700.0, p.Snapshot().State.CurrentTime)
}

func TestSetPlaybackRate(t *testing.T) {
	p := newLoadedPlayer(t, 1500)
	p.ToggleSettings()
	p.OpenSpeedMenu()

	require.NoError(t, p.SetPlaybackRate(1.5))
	assert.Equal(t, 1.5, p.Snapshot().State.Rate)
	assert.Equal(t, 1.5, p.media.speed)
	assert.Equal(t, SettingsClosed, p.Snapshot().Settings)

	p.ToggleSettings()
	err := p.SetPlaybackRate(3)
	assert.True(t, errors.Is(err, ErrUnsupportedRate))
	assert.Equal(t, 1.5, p.Snapshot().State.Rate)
	assert.Equal(t, SettingsMain, p.Snapshot().Settings, "rejected rate leaves the menu open")
}

func TestQualitySwitchScenario(t *testing.T) {
	p := newLoadedPlayer(t, 1500)
	p.TogglePlay()
	p.timeUpdate(200)
	p.ToggleSettings()
	p.OpenQualityMenu()

	require.NoError(t, p.SetQuality("1080p"))

	snap := p.Snapshot()
	assert.True(t, snap.Swapping)
	assert.Equal(t, "1080p", snap.Quality)
	assert.Equal(t, SettingsClosed, snap.Settings)
	assert.False(t, snap.State.Playing)
	assert.Equal(t, "https://example.test/ep1-1080.mp4", p.media.loaded[len(p.media.loaded)-1])

	// The new source starts from 0 before it is restored
	p.HandleMediaEvent(MediaEvent{Type: EventMetadataLoaded, Value: 1500})
	p.timeUpdate(0)
	p.HandleMediaEvent(MediaEvent{Type: EventDataLoaded})

	snap = p.Snapshot()
	assert.False(t, snap.Swapping)
	assert.InDelta(t, 200, snap.State.CurrentTime, 0.001)
	assert.True(t, snap.State.Playing)
	assert.Equal(t, 200.0, p.media.lastSeek())
	assert.Equal(t, 2, p.media.plays)
}

func TestQualitySwitchWaitsForMetadata(t *testing.T) {
	p := newLoadedPlayer(t, 1500)
	p.timeUpdate(300)

	require.NoError(t, p.SetQuality("720p"))
	p.HandleMediaEvent(MediaEvent{Type: EventDataLoaded})
	assert.True(t, p.Snapshot().Swapping, "restore waits until the duration is known")

	p.HandleMediaEvent(MediaEvent{Type: EventMetadataLoaded, Value: 1500})
	snap := p.Snapshot()
	assert.False(t, snap.Swapping)
	assert.Equal(t, 300.0, snap.State.CurrentTime)
	assert.False(t, snap.State.Playing, "was paused before the swap")
}

func TestQualitySwitchHidesSkipsUntilRestored(t *testing.T) {
	p := newLoadedPlayer(t, 1500)
	p.TogglePlay()
	p.timeUpdate(200)

	require.NoError(t, p.SetQuality("1080p"))
	seeks := len(p.media.seeks)

	// Duration arrives before the new source can play; it still reports 0
	p.HandleMediaEvent(MediaEvent{Type: EventMetadataLoaded, Value: 1500})
	p.timeUpdate(0)
	skips := p.Snapshot().Skips
	assert.False(t, skips.Recap.Visible)
	assert.False(t, skips.Intro.Visible)
	assert.False(t, p.SkipActive())

	p.HandleMediaEvent(MediaEvent{Type: EventDataLoaded})
	snap := p.Snapshot()
	assert.Equal(t, 200.0, snap.State.CurrentTime)
	assert.False(t, snap.Skips.Recap.Visible)
	assert.Equal(t, []float64{200}, p.media.seeks[seeks:])
}

func TestSkipDuringQualitySwitchAppliesAfterRestore(t *testing.T) {
	p := newLoadedPlayer(t, 1500)
	p.timeUpdate(10)

	require.NoError(t, p.SetQuality("1080p"))
	p.Skip(SkipIntro)

	p.HandleMediaEvent(MediaEvent{Type: EventMetadataLoaded, Value: 1500})
	p.HandleMediaEvent(MediaEvent{Type: EventDataLoaded})
	assert.Equal(t, 90.0, p.Snapshot().State.CurrentTime)
	assert.Equal(t, 90.0, p.media.lastSeek())
}

func TestFastSeekDuringQualitySwitch(t *testing.T) {
	p := newLoadedPlayer(t, 1500)
	p.timeUpdate(100)

	require.NoError(t, p.SetQuality("1080p"))
	seeks := len(p.media.seeks)

	p.StartFastSeek(Forward)
	p.sched.Advance(time.Second)
	p.StopFastSeek(Forward)
	assert.Len(t, p.media.seeks, seeks, "ticks never seek the source that is still loading")

	p.HandleMediaEvent(MediaEvent{Type: EventMetadataLoaded, Value: 1500})
	p.HandleMediaEvent(MediaEvent{Type: EventDataLoaded})
	assert.Equal(t, 110.0, p.Snapshot().State.CurrentTime, "the hold carries over to the restored position")
}

func TestQualitySwitchThatNeverLoadsStallsAtZero(t *testing.T) {
	p := newLoadedPlayer(t, 1500)
	p.TogglePlay()
	p.timeUpdate(200)

	require.NoError(t, p.SetQuality("720p"))
	p.sched.Advance(time.Hour)

	snap := p.Snapshot()
	assert.Equal(t, 0.0, snap.State.CurrentTime)
	assert.False(t, snap.State.Playing)
	assert.True(t, snap.Swapping)
}

func TestSupersededSwapKeepsOriginalPosition(t *testing.T) {
	p := newLoadedPlayer(t, 1500)
	p.TogglePlay()
	p.timeUpdate(200)

	require.NoError(t, p.SetQuality("720p"))
	require.NoError(t, p.SetQuality("1080p"))
	p.HandleMediaEvent(MediaEvent{Type: EventMetadataLoaded, Value: 1500})
	p.HandleMediaEvent(MediaEvent{Type: EventDataLoaded})

	snap := p.Snapshot()
	assert.Equal(t, 200.0, snap.State.CurrentTime)
	assert.True(t, snap.State.Playing)
}

func TestSetQualityUnknown(t *testing.T) {
	p := newLoadedPlayer(t, 1500)

	err := p.SetQuality("4k")
	assert.True(t, errors.Is(err, ErrUnknownQuality))
	assert.Equal(t, "480p", p.Snapshot().Quality)
	assert.Len(t, p.media.loaded, 1)
}

func TestSelectedQualityCarriesToNextEpisode(t *testing.T) {
	p := newLoadedPlayer(t, 1500)
	require.NoError(t, p.SetQuality("1080p"))

	p.ToggleEpisodes()
	require.NoError(t, p.SelectEpisode("2"))

	snap := p.Snapshot()
	assert.Equal(t, "2", snap.Episode.ID)
	assert.Equal(t, "1080p", snap.Quality)
	assert.False(t, snap.EpisodesOpen)
	assert.False(t, snap.Swapping, "a new episode is a fresh load, not a swap")
	assert.Equal(t, "https://example.test/ep2-1080.mp4", p.media.loaded[len(p.media.loaded)-1])
}

func TestSelectUnknownEpisode(t *testing.T) {
	p := newLoadedPlayer(t, 1500)
	p.ToggleEpisodes()

	err := p.SelectEpisode("99")
	assert.True(t, errors.Is(err, ErrUnknownEpisode))
	assert.True(t, p.Snapshot().EpisodesOpen)
	assert.Equal(t, "1", p.Snapshot().Episode.ID)
}

func TestFullscreen(t *testing.T) {
	p := newLoadedPlayer(t, 1500)

	p.ToggleFullscreen()
	assert.Equal(t, []bool{true}, p.media.fullscreenReq)
	assert.False(t, p.Snapshot().State.Fullscreen, "state waits for confirmation")
	assert.True(t, p.Snapshot().FullscreenBusy)

	p.ToggleFullscreen()
	assert.Len(t, p.media.fullscreenReq, 1, "no second request while one is in flight")

	p.HandleMediaEvent(MediaEvent{Type: EventFullscreenChanged, Flag: true})
	assert.True(t, p.Snapshot().State.Fullscreen)

	p.ToggleFullscreen()
	p.HandleMediaEvent(MediaEvent{Type: EventFullscreenRejected, Err: errFakeDenied})
	snap := p.Snapshot()
	assert.True(t, snap.State.Fullscreen, "rejection keeps the pre-request state")
	assert.False(t, snap.FullscreenBusy)
}

func TestFullscreenRequestError(t *testing.T) {
	p := newLoadedPlayer(t, 1500)
	p.media.fullscreenErr = errFakeDenied

	p.ToggleFullscreen()
	snap := p.Snapshot()
	assert.False(t, snap.State.Fullscreen)
	assert.False(t, snap.FullscreenBusy)
}

func TestControlsHideUnlessPanelOpen(t *testing.T) {
	p := newLoadedPlayer(t, 1500)

	p.PointerMoved()
	p.sched.Advance(3 * time.Second)
	assert.False(t, p.Snapshot().ControlsVisible)

	p.PointerMoved()
	p.ToggleSettings()
	p.OpenQualityMenu()
	p.sched.Advance(10 * time.Second)
	assert.True(t, p.Snapshot().ControlsVisible)

	p.Back()
	p.Back()
	p.ToggleEpisodes()
	p.PointerMoved()
	p.sched.Advance(10 * time.Second)
	assert.True(t, p.Snapshot().ControlsVisible, "episode panel also keeps controls up")
}

func TestBackClosesInnermostPanel(t *testing.T) {
	p := newLoadedPlayer(t, 1500)
	p.ToggleEpisodes()
	p.ToggleSettings()
	p.OpenSpeedMenu()

	assert.True(t, p.Back())
	assert.Equal(t, SettingsMain, p.Snapshot().Settings)
	assert.True(t, p.Back())
	assert.Equal(t, SettingsClosed, p.Snapshot().Settings)
	assert.True(t, p.Back())
	assert.False(t, p.Snapshot().EpisodesOpen)
	assert.False(t, p.Back())
}

func TestCloseCancelsAllTimers(t *testing.T) {
	p := newLoadedPlayer(t, 1500)
	p.timeUpdate(100)
	p.PointerMoved()
	p.StartFastSeek(Forward)
	p.StartFastSeek(Backward)
	require.Equal(t, 3, p.sched.pending())

	p.Close()
	assert.Equal(t, 0, p.sched.pending())

	p.sched.Advance(time.Minute)
	assert.Equal(t, 100.0, p.Snapshot().State.CurrentTime)

	p.StartFastSeek(Forward)
	p.PointerMoved()
	assert.Equal(t, 0, p.sched.pending(), "a closed player never arms timers")
	p.Close()
}

func TestPauseChangedOutsideController(t *testing.T) {
	p := newLoadedPlayer(t, 1500)

	p.HandleMediaEvent(MediaEvent{Type: EventPauseChanged, Flag: false})
	assert.True(t, p.Snapshot().State.Playing)

	p.HandleMediaEvent(MediaEvent{Type: EventEnded})
	assert.False(t, p.Snapshot().State.Playing)
}

func TestSetEpisodesRefreshesCurrent(t *testing.T) {
	p := newLoadedPlayer(t, 1500)

	episodes := testEpisodes()
	episodes[0].Title = "Renamed"
	p.SetEpisodes(episodes)

	assert.Equal(t, "Renamed", p.Snapshot().Episode.Title)
	assert.Len(t, p.Episodes(), 2)
}
