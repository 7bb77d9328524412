package models

import (
	"strings"

	"github.com/PizzaHomicide/kagami/internal/playback"
	kb "github.com/PizzaHomicide/kagami/internal/ui/tui/keybindings"
	"github.com/PizzaHomicide/kagami/internal/ui/tui/styles"
	"github.com/PizzaHomicide/kagami/internal/ui/tui/util"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-runewidth"
)

// menuItem is one entry of the settings menu
type menuItem struct {
	label   string
	detail  string
	current bool
	choose  func() error
}

// menuItems lists the entries of the settings panel that is open
func (m *PlayerModel) menuItems() (string, []menuItem) {
	snap := m.ctrl.Snapshot()

	switch snap.Settings {
	case playback.SettingsMain:
		return "Settings", []menuItem{
			{label: "Quality", detail: snap.Quality, choose: func() error { m.ctrl.OpenQualityMenu(); return nil }},
			{label: "Speed", detail: speedLabel(snap.State.Rate), choose: func() error { m.ctrl.OpenSpeedMenu(); return nil }},
		}

	case playback.SettingsQuality:
		items := make([]menuItem, 0, len(snap.Qualities))
		for _, q := range snap.Qualities {
			src, _ := snap.Episode.Source(q)
			items = append(items, menuItem{
				label:   q,
				detail:  src.SizeLabel(),
				current: strings.EqualFold(q, snap.Quality),
				choose:  func() error { return m.ctrl.SetQuality(q) },
			})
		}
		return "Quality", items

	case playback.SettingsSpeed:
		items := make([]menuItem, 0, len(playback.SpeedOptions))
		for _, r := range playback.SpeedOptions {
			items = append(items, menuItem{
				label:   speedLabel(r),
				current: r == snap.State.Rate,
				choose:  func() error { return m.ctrl.SetPlaybackRate(r) },
			})
		}
		return "Playback speed", items
	}
	return "", nil
}

// syncMenu puts the cursor on the current value whenever a different settings panel opens
func (m *PlayerModel) syncMenu() {
	panel := m.ctrl.Snapshot().Settings
	if panel == m.menuPanel {
		return
	}
	m.menuPanel = panel
	m.menuCursor = 0
	_, items := m.menuItems()
	for i, item := range items {
		if item.current {
			m.menuCursor = i
			break
		}
	}
}

func speedLabel(rate float64) string {
	if rate == 1 {
		return "Normal"
	}
	return util.FormatRate(rate)
}

func (m *PlayerModel) handleSettingsKey(msg tea.KeyMsg) tea.Cmd {
	m.syncMenu()
	_, items := m.menuItems()

	switch kb.GetActionByKey(msg, kb.ContextSettings) {
	case kb.ActionMoveUp:
		if m.menuCursor > 0 {
			m.menuCursor--
		}
	case kb.ActionMoveDown:
		if m.menuCursor < len(items)-1 {
			m.menuCursor++
		}
	case kb.ActionSelect:
		m.chooseMenuItem(m.menuCursor)
	case kb.ActionToggleSettings:
		m.ctrl.ToggleSettings()
	}
	return nil
}

func (m *PlayerModel) chooseMenuItem(i int) {
	_, items := m.menuItems()
	if i < 0 || i >= len(items) {
		return
	}
	if err := items[i].choose(); err != nil {
		m.fail("Unable to apply setting", err)
	}
}

func (m *PlayerModel) renderSettings(width, height int) string {
	inner := max(1, width-2)
	title, items := m.menuItems()

	var b strings.Builder
	b.WriteString(styles.MenuHeader.Render(title))
	for i, item := range items {
		b.WriteString("\n")

		marker := "  "
		if item.current {
			marker = "✓ "
		}
		// Marker and the row style's padding
		labelWidth := max(1, inner-runewidth.StringWidth(item.detail)-5)
		row := marker + util.PadRight(item.label, labelWidth) + " " + item.detail

		if i == m.menuCursor {
			b.WriteString(styles.MenuSelected.Width(inner).Render(row))
		} else {
			b.WriteString(styles.MenuItem.Width(inner).Render(row))
		}
	}
	return styles.Panel(inner, max(1, height-2), b.String())
}
