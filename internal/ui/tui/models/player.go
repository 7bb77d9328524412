package models

import (
	"github.com/PizzaHomicide/kagami/internal/log"
	"github.com/PizzaHomicide/kagami/internal/playback"
	"github.com/PizzaHomicide/kagami/internal/ui/tui/styles"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

// PlayerModel is the root model.  It owns the playback controller and is the only goroutine that touches it: media
// events, timer expiries and catalog reloads all arrive here as messages.
type PlayerModel struct {
	ctrl   *playback.Controller
	sched  *LoopScheduler
	events <-chan playback.MediaEvent

	seriesTitle   string
	width, height int
	activeModal   Modal

	episodes *EpisodeSelectModel
	help     *HelpModel
	spinner  spinner.Model
	spinning bool

	// Settings menu cursor and the panel it belongs to
	menuPanel  playback.SettingsPanel
	menuCursor int

	// Mouse state
	held     zone // Fast-seek zone the button went down in, zoneNone when nothing is held
	heldDir  playback.Direction
	dragging bool // Button went down on the progress bar

	status string // Last error, shown until the next key press
}

// NewPlayerModel creates the root model.  events is the media element's event stream; the program quits when it
// closes.
func NewPlayerModel(ctrl *playback.Controller, sched *LoopScheduler, events <-chan playback.MediaEvent, seriesTitle string) *PlayerModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = styles.Key

	return &PlayerModel{
		ctrl:        ctrl,
		sched:       sched,
		events:      events,
		seriesTitle: seriesTitle,
		activeModal: ModalNone,
		episodes:    NewEpisodeSelectModel(ctrl.Episodes()),
		help:        NewHelpModel(),
		spinner:     s,
	}
}

func (m *PlayerModel) Init() tea.Cmd {
	log.Info("Initialising Kagami TUI")
	return tea.Batch(
		listenForMediaEvents(m.events),
		m.sched.Listen(),
		tea.SetWindowTitle("kagami"),
	)
}

// Update handles messages and updates the models as appropriate
func (m *PlayerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		log.Debug("Window size changed", "old_width", m.width, "new_width", msg.Width, "old_height", m.height, "new_height", msg.Height)
		m.Resize(msg.Width, msg.Height)

	case tea.KeyMsg:
		cmd = m.handleKey(msg)

	case tea.MouseMsg:
		cmd = m.handleMouse(msg)

	case MediaEventMsg:
		m.ctrl.HandleMediaEvent(msg.Event)
		cmd = listenForMediaEvents(m.events)

	case MediaClosedMsg:
		log.Info("mpv event stream closed.  Shutting down...")
		cmd = m.quit()

	case TimerFiredMsg:
		m.sched.Run(msg)
		cmd = m.sched.Listen()

	case CatalogReloadedMsg:
		log.Info("Catalog reloaded", "title", msg.Series.Title, "episodes", len(msg.Series.Episodes))
		m.seriesTitle = msg.Series.Title
		m.ctrl.SetEpisodes(msg.Series.Episodes)
		m.episodes.SetEpisodes(msg.Series.Episodes)

	case EpisodeSelectedMsg:
		if err := m.ctrl.SelectEpisode(msg.ID); err != nil {
			m.fail("Unable to play episode", err)
		}

	case spinner.TickMsg:
		if !m.ctrl.Snapshot().Swapping {
			m.spinning = false
			return m, nil
		}
		m.spinner, cmd = m.spinner.Update(msg)
	}

	m.syncMenu()
	return m, tea.Batch(cmd, m.startSpinner())
}

// Resize propagates a new window size to every view
func (m *PlayerModel) Resize(width, height int) {
	m.width = width
	m.height = height
	m.help.Resize(width, height)
	m.episodes.Resize(panelWidth(width), max(1, height-rowsOutsideVideo))
}

// startSpinner begins animating while a quality swap is in flight.  The animation stops itself once it is done.
func (m *PlayerModel) startSpinner() tea.Cmd {
	if m.spinning || !m.ctrl.Snapshot().Swapping {
		return nil
	}
	m.spinning = true
	return m.spinner.Tick
}

func (m *PlayerModel) fail(msg string, err error) {
	log.Warn(msg, "error", err)
	m.status = msg + ": " + err.Error()
}

func (m *PlayerModel) quit() tea.Cmd {
	log.Info("Quit command received.  Shutting down...")
	m.releaseHold()
	m.ctrl.Close()
	return tea.Quit
}
