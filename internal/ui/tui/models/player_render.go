package models

import (
	"fmt"
	"math"
	"strings"

	"github.com/PizzaHomicide/kagami/internal/playback"
	"github.com/PizzaHomicide/kagami/internal/ui/tui/components"
	"github.com/PizzaHomicide/kagami/internal/ui/tui/styles"
	"github.com/PizzaHomicide/kagami/internal/ui/tui/util"
	"github.com/charmbracelet/lipgloss"
)

const (
	// timeLabelWidth is the width of the time labels on either side of the progress bar
	timeLabelWidth = 9
	maxPanelWidth  = 44
	// rowsOutsideVideo counts the header plus the status, progress, controls and key rows
	rowsOutsideVideo = 5

	minWidth  = 40
	minHeight = 10
)

// zone is a clickable region of the player screen
type zone int

const (
	zoneNone zone = iota
	zoneRewind
	zoneCentre
	zoneForward
	zoneProgress
	zonePanel
)

// layout places every part of the screen.  Rendering and mouse handling both derive from it so they always agree.
type layout struct {
	width, height int
	videoTop      int // First row of the video area
	videoBottom   int // Row after the video area
	videoWidth    int // Columns left of the panel, if one is open
	statusRow     int
	progressRow   int
	controlsRow   int
	keysRow       int
}

func (m *PlayerModel) layout(snap playback.Snapshot) layout {
	l := layout{
		width:       m.width,
		height:      m.height,
		videoTop:    1,
		videoBottom: m.height - 4,
		videoWidth:  m.width,
		statusRow:   m.height - 4,
		progressRow: m.height - 3,
		controlsRow: m.height - 2,
		keysRow:     m.height - 1,
	}
	if snap.Settings != playback.SettingsClosed || snap.EpisodesOpen {
		l.videoWidth = m.width - panelWidth(m.width)
	}
	return l
}

func panelWidth(width int) int {
	return min(maxPanelWidth, width/2)
}

func (l layout) videoHeight() int {
	return max(1, l.videoBottom-l.videoTop)
}

func (l layout) barWidth() int {
	return max(1, l.width-2*timeLabelWidth)
}

// zoneAt maps a cell to the region under it.  The video area splits into thirds: rewind, play/pause, fast forward.
func (l layout) zoneAt(x, y int) zone {
	switch {
	case y >= l.videoTop && y < l.videoBottom:
		if x >= l.videoWidth {
			return zonePanel
		}
		third := l.videoWidth / 3
		switch {
		case x < third:
			return zoneRewind
		case x >= l.videoWidth-third:
			return zoneForward
		default:
			return zoneCentre
		}
	case y == l.progressRow && x >= timeLabelWidth && x < timeLabelWidth+l.barWidth():
		return zoneProgress
	}
	return zoneNone
}

// skipButton is a rendered skip button and the columns it covers, end exclusive
type skipButton struct {
	kind   playback.SkipKind
	label  string
	x0, x1 int
}

var skipLabels = map[playback.SkipKind]string{
	playback.SkipRecap: "Skip Recap",
	playback.SkipIntro: "Skip Intro",
	playback.SkipOutro: "Skip Outro",
}

// skipButtons lays out the visible skip buttons right aligned on the status row
func (l layout) skipButtons(snap playback.Snapshot) []skipButton {
	windows := []playback.SkipWindow{snap.Skips.Recap, snap.Skips.Intro, snap.Skips.Outro}

	var buttons []skipButton
	x := l.width - 1
	for i := len(windows) - 1; i >= 0; i-- {
		w := windows[i]
		if !w.Visible {
			continue
		}
		label := skipLabels[w.Kind]
		width := lipgloss.Width(styles.SkipButton.Render(label))
		buttons = append([]skipButton{{kind: w.Kind, label: label, x0: x - width, x1: x}}, buttons...)
		x -= width + 1
	}
	return buttons
}

func (l layout) skipButtonAt(snap playback.Snapshot, x, y int) (playback.SkipKind, bool) {
	if y != l.statusRow {
		return "", false
	}
	for _, b := range l.skipButtons(snap) {
		if x >= b.x0 && x < b.x1 {
			return b.kind, true
		}
	}
	return "", false
}

// View renders the player
func (m *PlayerModel) View() string {
	if m.activeModal == ModalHelp {
		return m.help.View()
	}
	if m.width < minWidth || m.height < minHeight {
		return fmt.Sprintf("Terminal too small (%dx%d).\nPress ctrl+c to quit.", m.width, m.height)
	}

	snap := m.ctrl.Snapshot()
	l := m.layout(snap)

	rows := []string{
		m.renderHeader(snap),
		m.renderVideoArea(snap, l),
		m.renderStatusRow(snap, l),
	}
	if snap.ControlsVisible {
		rows = append(rows,
			m.renderProgressRow(snap, l),
			m.renderControlsRow(snap),
			components.KeyBindingsBar(m.width, []components.KeyBinding{
				{Key: "space", Desc: "Play"},
				{Key: "←/→", Desc: "Seek"},
				{Key: "↑/↓", Desc: "Volume"},
				{Key: "s", Desc: "Settings"},
				{Key: "e", Desc: "Episodes"},
				{Key: "ctrl+h", Desc: "Help"},
				{Key: "q", Desc: "Quit"},
			}),
		)
	} else {
		rows = append(rows, "", "", "")
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func (m *PlayerModel) renderHeader(snap playback.Snapshot) string {
	title := "Kagami"
	if m.seriesTitle != "" {
		title += " • " + m.seriesTitle
	}
	if snap.Episode.ID != "" {
		title += " • " + snap.Episode.DisplayTitle()
	}
	return styles.Header(m.width, util.TruncateString(title, m.width-2))
}

func (m *PlayerModel) renderVideoArea(snap playback.Snapshot, l layout) string {
	height := l.videoHeight()
	third := l.videoWidth / 3
	centre := l.videoWidth - 2*third

	video := lipgloss.JoinHorizontal(lipgloss.Top,
		styles.CenteredView(third, height, fastSeekLabel(snap.Backward)),
		styles.CenteredView(centre, height, stateLabel(snap)),
		styles.CenteredView(third, height, fastSeekLabel(snap.Forward)),
	)

	var panel string
	switch {
	case snap.Settings != playback.SettingsClosed:
		panel = m.renderSettings(panelWidth(m.width), height)
	case snap.EpisodesOpen:
		panel = m.episodes.View(snap.Episode.ID)
	default:
		return video
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, video, panel)
}

func stateLabel(snap playback.Snapshot) string {
	switch {
	case snap.Episode.ID == "":
		return styles.Muted.Render("No episode loaded")
	case snap.State.Duration == 0:
		return styles.Muted.Render("Loading...")
	case snap.State.Playing:
		return styles.Info.Render("▶  Playing")
	default:
		return styles.Info.Render("⏸  Paused")
	}
}

func fastSeekLabel(s playback.FastSeekSession) string {
	if !s.Active {
		return ""
	}
	if s.Direction == playback.Forward {
		return styles.FastSeek.Render(fmt.Sprintf("%.1fx ⏩", s.Speed))
	}
	return styles.FastSeek.Render(fmt.Sprintf("⏪ %.1fx", s.Speed))
}

// renderStatusRow shows swap progress or the last error on the left and the skip buttons on the right
func (m *PlayerModel) renderStatusRow(snap playback.Snapshot, l layout) string {
	var left string
	switch {
	case snap.Swapping:
		left = " " + m.spinner.View() + " Switching to " + snap.Quality + "..."
	case m.status != "":
		left = " " + styles.Warning.Render(m.status)
	}

	buttons := l.skipButtons(snap)
	start := l.width
	if len(buttons) > 0 {
		start = buttons[0].x0
	}

	var b strings.Builder
	b.WriteString(lipgloss.NewStyle().MaxWidth(max(0, start-1)).Render(left))
	x := lipgloss.Width(b.String())
	for _, btn := range buttons {
		b.WriteString(strings.Repeat(" ", max(0, btn.x0-x)))
		b.WriteString(styles.SkipButton.Render(btn.label))
		x = btn.x1
	}
	return b.String()
}

func (m *PlayerModel) renderProgressRow(snap playback.Snapshot, l layout) string {
	fraction := 0.0
	if snap.State.Duration > 0 {
		fraction = snap.State.CurrentTime / snap.State.Duration
	}
	return fmt.Sprintf(" %7s ", util.FormatTime(snap.State.CurrentTime)) +
		components.ProgressBar(l.barWidth(), fraction) +
		fmt.Sprintf(" %-7s ", util.FormatTime(snap.State.Duration))
}

func (m *PlayerModel) renderControlsRow(snap playback.Snapshot) string {
	s := snap.State

	play := "▶ Play"
	if s.Playing {
		play = "⏸ Pause"
	}

	volume := fmt.Sprintf("Vol %d%%", int(math.Round(s.Volume*100)))
	if s.Muted {
		volume = "Muted"
	}

	screen := "Windowed"
	if s.Fullscreen {
		screen = "Fullscreen"
	}
	if snap.FullscreenBusy {
		screen += "..."
	}

	parts := []string{play, volume, speedLabel(s.Rate), snap.Quality, screen}
	return styles.CenteredText(m.width, styles.Info.Render(strings.Join(parts, "  •  ")))
}
