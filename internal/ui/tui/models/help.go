package models

import (
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"

	kb "github.com/PizzaHomicide/kagami/internal/ui/tui/keybindings"
	"github.com/PizzaHomicide/kagami/internal/ui/tui/styles"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// HelpModel displays the key and mouse reference with scrolling
type HelpModel struct {
	width, height int
	viewport      viewport.Model
}

// NewHelpModel creates a new help model
func NewHelpModel() *HelpModel {
	return &HelpModel{
		viewport: viewport.New(0, 0),
	}
}

// Update handles messages
func (m *HelpModel) Update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	switch msg := msg.(type) {
	case tea.MouseMsg:
		m.viewport, cmd = m.viewport.Update(msg)
	case tea.KeyMsg:
		switch kb.GetActionByKey(msg, kb.ContextHelp) {
		case kb.ActionMoveUp, kb.ActionMoveDown, kb.ActionPageUp, kb.ActionPageDown:
			m.viewport, cmd = m.viewport.Update(msg)
		case kb.ActionMoveTop:
			m.viewport.GotoTop()
		case kb.ActionMoveBottom:
			m.viewport.GotoBottom()
		}
	}
	return cmd
}

// Resize updates the dimensions
func (m *HelpModel) Resize(width, height int) {
	m.width = width
	m.height = height

	// Borders, header, footer and spacing
	m.viewport.Width = max(1, width-4)
	m.viewport.Height = max(1, height-10)

	m.viewport.SetContent(m.generateHelpContent())
	m.viewport.GotoTop()
}

// View renders the help screen
func (m *HelpModel) View() string {
	header := styles.Header(m.width, "Help")

	scrollText := "↑/↓: Scroll • PgUp/PgDn: Page scroll • Home/End: Goto top/bottom • ESC: Return"
	footer := styles.CenteredText(m.width, styles.Info.Render(scrollText))

	return lipgloss.JoinVertical(
		lipgloss.Left,
		header,
		"",
		styles.ContentBox(m.width-2, m.viewport.View(), 1),
		"",
		footer,
	)
}

// formatKeybindingSection formats a section of keybindings with aligned colons
func formatKeybindingSection(title string, bindings []kb.Binding) string {
	if len(bindings) == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString(lipgloss.NewStyle().Bold(true).Render(title))
	b.WriteString("\n\n")

	keyTexts := make([]string, len(bindings))
	maxKeyWidth := 0
	for i, binding := range bindings {
		keyText := kb.DisplayKey(binding.KeyMap.Primary)
		if binding.KeyMap.Secondary != "" {
			keyText += " or " + kb.DisplayKey(binding.KeyMap.Secondary)
		}
		keyTexts[i] = keyText
		maxKeyWidth = max(maxKeyWidth, runewidth.StringWidth(keyText))
	}

	for i, binding := range bindings {
		padding := strings.Repeat(" ", maxKeyWidth-runewidth.StringWidth(keyTexts[i]))
		b.WriteString(fmt.Sprintf("• %s%s : %s\n",
			lipgloss.NewStyle().Bold(true).Render(keyTexts[i]),
			padding,
			binding.KeyMap.Help))
	}

	return b.String()
}

// generateHelpContent builds the complete help content
func (m *HelpModel) generateHelpContent() string {
	var b strings.Builder

	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(styles.Accent)

	b.WriteString(titleStyle.Render("Player"))
	b.WriteString("\n\n")
	b.WriteString("Kagami drives an mpv window and shows its controls here.  Controls hide after a few seconds " +
		"without mouse movement, unless the settings menu or the episode list is open.\n\n")

	b.WriteString(titleStyle.Render("Keybindings"))
	b.WriteString("\n\n")

	sections := []struct {
		title   string
		context kb.ContextName
	}{
		{"Global commands:", kb.ContextGlobal},
		{"Player commands:", kb.ContextPlayer},
		{"Settings menu:", kb.ContextSettings},
		{"Episode list:", kb.ContextEpisodePanel},
		{"When filtering episodes:", kb.ContextSearchMode},
	}
	for i, s := range sections {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(formatKeybindingSection(s.title, kb.ContextBindings[s.context]))
	}

	b.WriteString("\n")
	b.WriteString(titleStyle.Render("Mouse"))
	b.WriteString("\n\n")
	b.WriteString("• Hold the left third of the video area to rewind, the right third to fast forward.  " +
		"The longer you hold, the faster the indicator climbs.\n")
	b.WriteString("• Click the centre of the video area to play or pause.\n")
	b.WriteString("• Click or drag on the progress bar to seek.\n")
	b.WriteString("• Click a skip button to jump past the recap, intro or outro.\n")

	return b.String()
}
