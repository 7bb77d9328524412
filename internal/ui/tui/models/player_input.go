package models

import (
	"github.com/PizzaHomicide/kagami/internal/log"
	"github.com/PizzaHomicide/kagami/internal/playback"
	"github.com/PizzaHomicide/kagami/internal/ui/tui/components"
	kb "github.com/PizzaHomicide/kagami/internal/ui/tui/keybindings"
	tea "github.com/charmbracelet/bubbletea"
)

func (m *PlayerModel) handleKey(msg tea.KeyMsg) tea.Cmd {
	// The filter input owns the keyboard while focused, so typing never triggers player shortcuts
	if m.activeModal == ModalNone && m.ctrl.Snapshot().EpisodesOpen && m.episodes.Searching() {
		return m.episodes.Update(msg)
	}

	m.status = ""

	switch kb.GetActionByKey(msg, kb.ContextGlobal) {
	case kb.ActionQuit:
		return m.quit()
	case kb.ActionToggleHelp:
		log.Debug("Help requested")
		if m.activeModal == ModalHelp {
			m.activeModal = ModalNone
		} else {
			m.activeModal = ModalHelp
		}
		return nil
	case kb.ActionBack:
		if m.activeModal != ModalNone {
			m.activeModal = ModalNone
			return nil
		}
		m.ctrl.Back()
		return nil
	}

	if m.activeModal == ModalHelp {
		return m.help.Update(msg)
	}

	// Terminals without mouse reporting would otherwise never see the controls again once they hide
	m.ctrl.PointerMoved()

	snap := m.ctrl.Snapshot()
	switch {
	case snap.Settings != playback.SettingsClosed:
		return m.handleSettingsKey(msg)
	case snap.EpisodesOpen:
		return m.handleEpisodePanelKey(msg)
	}
	return m.handlePlayerKey(msg, snap)
}

func (m *PlayerModel) handlePlayerKey(msg tea.KeyMsg, snap playback.Snapshot) tea.Cmd {
	switch kb.GetActionByKey(msg, kb.ContextPlayer) {
	case kb.ActionTogglePlay:
		m.ctrl.TogglePlay()
	case kb.ActionToggleMute:
		m.ctrl.ToggleMute()
	case kb.ActionToggleFullscreen:
		m.ctrl.ToggleFullscreen()
	case kb.ActionSeekForward:
		m.ctrl.SeekRelative(m.ctrl.SeekStep())
	case kb.ActionSeekBackward:
		m.ctrl.SeekRelative(-m.ctrl.SeekStep())
	case kb.ActionVolumeUp:
		m.ctrl.AdjustVolume(m.ctrl.VolumeStep())
	case kb.ActionVolumeDown:
		m.ctrl.AdjustVolume(-m.ctrl.VolumeStep())
	case kb.ActionToggleSettings:
		m.ctrl.ToggleSettings()
	case kb.ActionToggleEpisodes:
		m.ctrl.ToggleEpisodes()
		m.episodes.Focus(snap.Episode.ID)
	case kb.ActionSkip:
		m.ctrl.SkipActive()
	case kb.ActionQuit:
		return m.quit()
	}
	return nil
}

func (m *PlayerModel) handleEpisodePanelKey(msg tea.KeyMsg) tea.Cmd {
	if kb.GetActionByKey(msg, kb.ContextEpisodePanel) == kb.ActionToggleEpisodes {
		m.ctrl.ToggleEpisodes()
		return nil
	}
	return m.episodes.Update(msg)
}

func (m *PlayerModel) handleMouse(msg tea.MouseMsg) tea.Cmd {
	if m.activeModal == ModalHelp {
		return m.help.Update(msg)
	}

	snap := m.ctrl.Snapshot()
	l := m.layout(snap)
	z := l.zoneAt(msg.X, msg.Y)

	switch msg.Action {
	case tea.MouseActionMotion:
		m.ctrl.PointerMoved()
		if m.held != zoneNone && z != m.held {
			m.releaseHold()
		}
		if m.dragging && z == zoneProgress {
			m.seekToColumn(l, snap, msg.X)
		}

	case tea.MouseActionRelease:
		m.releaseHold()
		m.dragging = false

	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft {
			return nil
		}
		m.ctrl.PointerMoved()

		if kind, ok := l.skipButtonAt(snap, msg.X, msg.Y); ok {
			m.ctrl.Skip(kind)
			return nil
		}

		switch z {
		case zoneRewind:
			m.hold(z, playback.Backward)
		case zoneForward:
			m.hold(z, playback.Forward)
		case zoneCentre:
			m.ctrl.TogglePlay()
		case zoneProgress:
			// A click on hidden controls only brings them back
			if snap.ControlsVisible {
				m.dragging = true
				m.seekToColumn(l, snap, msg.X)
			}
		case zonePanel:
			return m.clickPanel(l, snap, msg.Y)
		}
	}
	return nil
}

func (m *PlayerModel) hold(z zone, d playback.Direction) {
	m.releaseHold()
	m.held = z
	m.heldDir = d
	m.ctrl.StartFastSeek(d)
}

func (m *PlayerModel) releaseHold() {
	if m.held == zoneNone {
		return
	}
	m.ctrl.StopFastSeek(m.heldDir)
	m.held = zoneNone
}

func (m *PlayerModel) seekToColumn(l layout, snap playback.Snapshot, x int) {
	fraction := components.FractionAt(x-timeLabelWidth, l.barWidth())
	m.ctrl.SeekAbsolute(fraction * snap.State.Duration)
}

// clickPanel picks the menu entry or episode under the pointer
func (m *PlayerModel) clickPanel(l layout, snap playback.Snapshot, y int) tea.Cmd {
	// Rows below the panel's top border and title line
	row := y - l.videoTop - 2
	switch {
	case snap.Settings != playback.SettingsClosed:
		m.syncMenu()
		if _, items := m.menuItems(); row >= 0 && row < len(items) {
			m.menuCursor = row
			m.chooseMenuItem(row)
		}
	case snap.EpisodesOpen:
		// Episodes start one line lower, below the filter line
		if ep := m.episodes.EpisodeAt(row - 1); ep != nil {
			id := ep.ID
			return func() tea.Msg { return EpisodeSelectedMsg{ID: id} }
		}
	}
	return nil
}
