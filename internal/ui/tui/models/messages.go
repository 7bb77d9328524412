package models

import (
	"github.com/PizzaHomicide/kagami/internal/domain"
	"github.com/PizzaHomicide/kagami/internal/playback"
	tea "github.com/charmbracelet/bubbletea"
)

// MediaEventMsg carries a signal from mpv into the update loop
type MediaEventMsg struct {
	Event playback.MediaEvent
}

// MediaClosedMsg is sent when mpv's event stream ends, usually because its window was closed
type MediaClosedMsg struct{}

// CatalogReloadedMsg is sent when the catalog file changed on disk and was loaded successfully
type CatalogReloadedMsg struct {
	Series domain.Series
}

// EpisodeSelectedMsg is sent when an episode is chosen from the episode panel
type EpisodeSelectedMsg struct {
	ID string
}

// listenForMediaEvents waits for the next media event.  The model re-issues it after each event.
func listenForMediaEvents(events <-chan playback.MediaEvent) tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-events
		if !ok {
			return MediaClosedMsg{}
		}
		return MediaEventMsg{Event: ev}
	}
}
