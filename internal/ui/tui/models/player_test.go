package models

import (
	"testing"
	"time"

	"github.com/PizzaHomicide/kagami/internal/domain"
	"github.com/PizzaHomicide/kagami/internal/playback"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingMedia accepts every command and remembers the interesting ones
type recordingMedia struct {
	loads []string
	seeks []float64
	plays int
	rate  float64
	muted bool
}

func (r *recordingMedia) Load(url string) error { r.loads = append(r.loads, url); return nil }
func (r *recordingMedia) Play() error { r.plays++; return nil }
func (r *recordingMedia) Pause() error { return nil }
func (r *recordingMedia) Seek(seconds float64) error { r.seeks = append(r.seeks, seconds); return nil }
func (r *recordingMedia) SetSpeed(rate float64) error { r.rate = rate; return nil }
func (r *recordingMedia) SetVolume(float64) error { return nil }
func (r *recordingMedia) SetMute(muted bool) error { r.muted = muted; return nil }
func (r *recordingMedia) SetFullscreen(bool) error { return nil }
func (r *recordingMedia) lastSeek() float64 { return r.seeks[len(r.seeks)-1] }

var testEpisodes = []domain.Episode{
	{
		ID: "1", Number: 1, Title: "Episode 1: The Beginning", Duration: "24:30",
		Sources: []domain.Source{
			{Quality: "480p", URL: "ep1-480", SizeBytes: 157286400},
			{Quality: "1080p", URL: "ep1-1080"},
		},
	},
	{
		ID: "2", Number: 2, Title: "Episode 2: New Powers", Duration: "23:45",
		Sources: []domain.Source{{Quality: "1080p", URL: "ep2-1080"}},
	},
	{
		ID: "3", Number: 3, Title: "Episode 3: Hidden Truth", Duration: "23:30",
		Sources: []domain.Source{{Quality: "1080p", URL: "ep3-1080"}},
	},
}

const (
	testWidth  = 83
	testHeight = 24
	// Rows and columns derived from the layout at the test size
	videoRow    = 5
	statusRow   = testHeight - 4
	progressRow = testHeight - 3
	panelX      = 60
)

func newTestPlayer(t *testing.T, hideDelay time.Duration) (*PlayerModel, *recordingMedia, *LoopScheduler) {
	t.Helper()

	sched := NewLoopScheduler()
	t.Cleanup(sched.Close)

	media := &recordingMedia{}
	opts := playback.DefaultOptions()
	opts.PreferredQuality = "1080p"
	opts.HideDelay = hideDelay

	ctrl := playback.New(media, sched, testEpisodes, opts)
	t.Cleanup(ctrl.Close)
	require.NoError(t, ctrl.PlayEpisode("1"))

	m := NewPlayerModel(ctrl, sched, make(chan playback.MediaEvent), "Test Series")
	m.Update(tea.WindowSizeMsg{Width: testWidth, Height: testHeight})
	return m, media, sched
}

// loadMedia reports a loaded 24:30 episode positioned at t
func loadMedia(m *PlayerModel, t float64) {
	m.Update(MediaEventMsg{Event: playback.MediaEvent{Type: playback.EventMetadataLoaded, Value: 1470}})
	m.Update(MediaEventMsg{Event: playback.MediaEvent{Type: playback.EventDataLoaded}})
	m.Update(MediaEventMsg{Event: playback.MediaEvent{Type: playback.EventTimeUpdate, Value: t}})
}

func key(k string) tea.KeyMsg {
	switch k {
	case " ":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	case "ctrl+h":
		return tea.KeyMsg{Type: tea.KeyCtrlH}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
}

func typeKeys(m *PlayerModel, keys ...string) tea.Cmd {
	var cmd tea.Cmd
	for _, k := range keys {
		_, cmd = m.Update(key(k))
	}
	return cmd
}

func mouse(m *PlayerModel, action tea.MouseAction, x, y int) tea.Cmd {
	button := tea.MouseButtonLeft
	if action == tea.MouseActionMotion {
		button = tea.MouseButtonNone
	}
	_, cmd := m.Update(tea.MouseMsg{X: x, Y: y, Action: action, Button: button})
	return cmd
}

// collect runs cmd and returns the messages it produces, unpacking batches
func collect(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var msgs []tea.Msg
		for _, c := range batch {
			msgs = append(msgs, collect(c)...)
		}
		return msgs
	}
	return []tea.Msg{msg}
}

func TestPlayerKeyboardControls(t *testing.T) {
	m, media, _ := newTestPlayer(t, time.Hour)

	typeKeys(m, " ")
	assert.Equal(t, 0, media.plays, "play is ignored until metadata has loaded")

	loadMedia(m, 100)
	typeKeys(m, " ")
	assert.True(t, m.ctrl.Snapshot().State.Playing)
	assert.Equal(t, 1, media.plays)

	typeKeys(m, "right")
	assert.Equal(t, 110.0, media.lastSeek())

	typeKeys(m, "down", "down")
	assert.InDelta(t, 0.8, m.ctrl.Snapshot().State.Volume, 1e-9)

	typeKeys(m, "m")
	assert.True(t, media.muted)
	assert.Contains(t, m.View(), "Muted")
}

func TestPlayerSkipButton(t *testing.T) {
	m, media, _ := newTestPlayer(t, time.Hour)
	loadMedia(m, 10)

	assert.Contains(t, m.View(), "Skip Recap")

	buttons := m.layout(m.ctrl.Snapshot()).skipButtons(m.ctrl.Snapshot())
	require.Len(t, buttons, 1)
	assert.Equal(t, playback.SkipRecap, buttons[0].kind)
	assert.Equal(t, testWidth-1, buttons[0].x1)

	mouse(m, tea.MouseActionPress, buttons[0].x0+2, statusRow)
	assert.Equal(t, 30.0, media.lastSeek())

	// Recap's end is inclusive, so enter skips it again rather than the intro
	typeKeys(m, "enter")
	assert.Equal(t, 30.0, media.lastSeek())

	m.Update(MediaEventMsg{Event: playback.MediaEvent{Type: playback.EventTimeUpdate, Value: 45}})
	typeKeys(m, "enter")
	assert.Equal(t, 90.0, media.lastSeek(), "intro is skipped once the recap is over")
}

func TestPlayerMouseFastSeek(t *testing.T) {
	m, _, _ := newTestPlayer(t, time.Hour)
	loadMedia(m, 100)

	mouse(m, tea.MouseActionPress, testWidth-5, videoRow)
	assert.True(t, m.ctrl.Snapshot().Forward.Active)
	assert.Contains(t, m.View(), "1.0x ⏩")

	// Moving into the centre leaves the zone and ends the hold
	mouse(m, tea.MouseActionMotion, testWidth/2, videoRow)
	assert.False(t, m.ctrl.Snapshot().Forward.Active)

	mouse(m, tea.MouseActionPress, 3, videoRow)
	assert.True(t, m.ctrl.Snapshot().Backward.Active)
	mouse(m, tea.MouseActionMotion, 4, videoRow+1)
	assert.True(t, m.ctrl.Snapshot().Backward.Active, "moving within the zone keeps holding")

	mouse(m, tea.MouseActionRelease, 4, videoRow+1)
	assert.False(t, m.ctrl.Snapshot().Backward.Active)
}

func TestPlayerMouseClicks(t *testing.T) {
	m, media, _ := newTestPlayer(t, time.Hour)
	loadMedia(m, 100)

	mouse(m, tea.MouseActionPress, testWidth/2, videoRow)
	assert.True(t, m.ctrl.Snapshot().State.Playing, "a click in the centre toggles play")

	// The bar spans 65 columns after the time label
	mouse(m, tea.MouseActionPress, timeLabelWidth+32, progressRow)
	assert.Equal(t, 735.0, media.lastSeek())

	mouse(m, tea.MouseActionMotion, timeLabelWidth+64, progressRow)
	assert.Equal(t, 1470.0, media.lastSeek(), "dragging keeps seeking")

	mouse(m, tea.MouseActionRelease, timeLabelWidth+64, progressRow)
	seeks := len(media.seeks)
	mouse(m, tea.MouseActionMotion, timeLabelWidth, progressRow)
	assert.Len(t, media.seeks, seeks, "motion after release does not seek")
}

func TestPlayerControlsHide(t *testing.T) {
	m, media, sched := newTestPlayer(t, 10*time.Millisecond)
	loadMedia(m, 100)

	mouse(m, tea.MouseActionMotion, 10, videoRow)
	m.Update(nextFired(t, sched))
	assert.False(t, m.ctrl.Snapshot().ControlsVisible)
	assert.NotContains(t, m.View(), "Vol 100%")

	seeks := len(media.seeks)
	mouse(m, tea.MouseActionPress, timeLabelWidth+32, progressRow)
	assert.True(t, m.ctrl.Snapshot().ControlsVisible)
	assert.Len(t, media.seeks, seeks, "clicking hidden controls only shows them")
	assert.Contains(t, m.View(), "Vol 100%")
}

func TestPlayerSettingsMenu(t *testing.T) {
	m, media, _ := newTestPlayer(t, time.Hour)
	loadMedia(m, 100)

	typeKeys(m, "s")
	assert.Equal(t, playback.SettingsMain, m.ctrl.Snapshot().Settings)
	assert.Contains(t, m.View(), "Speed")

	typeKeys(m, "down", "enter")
	require.Equal(t, playback.SettingsSpeed, m.ctrl.Snapshot().Settings)
	assert.Equal(t, 3, m.menuCursor, "cursor starts on the current speed")

	typeKeys(m, "down", "down", "enter")
	assert.Equal(t, 1.5, media.rate)
	assert.Equal(t, playback.SettingsClosed, m.ctrl.Snapshot().Settings)
	assert.Contains(t, m.View(), "1.5x")

	typeKeys(m, "s", "down", "enter", "esc")
	assert.Equal(t, playback.SettingsMain, m.ctrl.Snapshot().Settings, "esc steps back one level")
	typeKeys(m, "esc")
	assert.Equal(t, playback.SettingsClosed, m.ctrl.Snapshot().Settings)
}

func TestPlayerQualityByMouse(t *testing.T) {
	m, media, _ := newTestPlayer(t, time.Hour)
	loadMedia(m, 100)

	typeKeys(m, "s")
	// First entry of the main menu is quality
	mouse(m, tea.MouseActionPress, panelX, 3)
	require.Equal(t, playback.SettingsQuality, m.ctrl.Snapshot().Settings)
	assert.Contains(t, m.View(), "157 MB")

	cmd := mouse(m, tea.MouseActionPress, panelX, 3)
	snap := m.ctrl.Snapshot()
	assert.Equal(t, "480p", snap.Quality)
	assert.True(t, snap.Swapping)
	assert.Equal(t, playback.SettingsClosed, snap.Settings)
	assert.Equal(t, "ep1-480", media.loads[len(media.loads)-1])
	assert.NotNil(t, cmd, "the swap spinner starts")
	assert.Contains(t, m.View(), "Switching to 480p")

	m.Update(MediaEventMsg{Event: playback.MediaEvent{Type: playback.EventMetadataLoaded, Value: 1470}})
	m.Update(MediaEventMsg{Event: playback.MediaEvent{Type: playback.EventDataLoaded}})
	assert.False(t, m.ctrl.Snapshot().Swapping)
	assert.Equal(t, 100.0, media.lastSeek(), "position is restored on the new source")
}

func TestPlayerEpisodePanelFilter(t *testing.T) {
	m, media, _ := newTestPlayer(t, time.Hour)
	loadMedia(m, 100)

	typeKeys(m, "e", "/")
	require.True(t, m.episodes.Searching())

	// Shortcuts are suppressed while typing
	typeKeys(m, "m", "e")
	assert.False(t, media.muted)
	assert.True(t, m.ctrl.Snapshot().EpisodesOpen)

	typeKeys(m, "esc")
	assert.False(t, m.episodes.Searching())
	assert.Len(t, m.episodes.filtered, 3, "esc clears the filter")

	typeKeys(m, "/", "n", "e", "w", "enter")
	require.Len(t, m.episodes.filtered, 1)

	msgs := collect(typeKeys(m, "enter"))
	require.Contains(t, msgs, EpisodeSelectedMsg{ID: "2"})
	m.Update(EpisodeSelectedMsg{ID: "2"})

	snap := m.ctrl.Snapshot()
	assert.Equal(t, "2", snap.Episode.ID)
	assert.False(t, snap.EpisodesOpen)
	assert.Equal(t, "ep2-1080", media.loads[len(media.loads)-1])
}

func TestPlayerEpisodePanelClick(t *testing.T) {
	m, _, _ := newTestPlayer(t, time.Hour)

	typeKeys(m, "e")
	assert.Contains(t, m.View(), "Episode 3: Hidden Truth")

	// Border, title and filter line come before the list
	msgs := collect(mouse(m, tea.MouseActionPress, panelX, 1+3+2))
	assert.Contains(t, msgs, EpisodeSelectedMsg{ID: "3"})

	typeKeys(m, "e")
	assert.False(t, m.ctrl.Snapshot().EpisodesOpen)
}

func TestPlayerUnknownEpisodeShowsError(t *testing.T) {
	m, _, _ := newTestPlayer(t, time.Hour)

	m.Update(EpisodeSelectedMsg{ID: "99"})
	assert.Contains(t, m.View(), "Unable to play episode")
	assert.Equal(t, "1", m.ctrl.Snapshot().Episode.ID)
}

func TestPlayerCatalogReload(t *testing.T) {
	m, _, _ := newTestPlayer(t, time.Hour)

	reloaded := append([]domain.Episode{}, testEpisodes[:2]...)
	reloaded[0].Title = "Episode 1: Renamed"
	m.Update(CatalogReloadedMsg{Series: domain.Series{Title: "Renamed Series", Episodes: reloaded}})

	assert.Len(t, m.ctrl.Episodes(), 2)
	view := m.View()
	assert.Contains(t, view, "Renamed Series")
	assert.Contains(t, view, "Episode 1: Renamed")
}

func TestPlayerView(t *testing.T) {
	m, _, _ := newTestPlayer(t, time.Hour)
	assert.Contains(t, m.View(), "Loading...")

	loadMedia(m, 10)
	view := m.View()
	for _, want := range []string{"Test Series", "Episode 1: The Beginning", "0:10", "24:30", "Paused", "1080p"} {
		assert.Contains(t, view, want)
	}

	m.Update(tea.WindowSizeMsg{Width: 20, Height: 5})
	assert.Contains(t, m.View(), "Terminal too small")
}

func TestPlayerHelp(t *testing.T) {
	m, _, _ := newTestPlayer(t, time.Hour)

	typeKeys(m, "ctrl+h")
	assert.Contains(t, m.View(), "Keybindings")

	typeKeys(m, "esc")
	assert.NotContains(t, m.View(), "Keybindings")
}

func TestPlayerQuits(t *testing.T) {
	t.Run("quit key", func(t *testing.T) {
		m, _, _ := newTestPlayer(t, time.Hour)
		assert.Contains(t, collect(typeKeys(m, "q")), tea.QuitMsg{})
	})

	t.Run("mpv went away", func(t *testing.T) {
		m, _, _ := newTestPlayer(t, time.Hour)
		_, cmd := m.Update(MediaClosedMsg{})
		assert.Contains(t, collect(cmd), tea.QuitMsg{})

		// The controller is closed, later events are ignored
		loadMedia(m, 10)
		assert.Zero(t, m.ctrl.Snapshot().State.Duration)
	})
}

func TestListenForMediaEvents(t *testing.T) {
	events := make(chan playback.MediaEvent, 1)
	events <- playback.MediaEvent{Type: playback.EventEnded}

	assert.Equal(t, MediaEventMsg{Event: playback.MediaEvent{Type: playback.EventEnded}}, listenForMediaEvents(events)())

	close(events)
	assert.Equal(t, MediaClosedMsg{}, listenForMediaEvents(events)())
}
