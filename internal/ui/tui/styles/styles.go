package styles

import (
	"github.com/charmbracelet/lipgloss"
)

// Accent is the highlight colour used across the player
const Accent = lipgloss.Color("#7D56F4")

var (
	// Text styles
	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#FAFAFA")).
		Background(Accent).
		Padding(0, 1)

	Info = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#DEDEDE"))

	Muted = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#888888"))

	Warning = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#F25D94"))

	Key = lipgloss.NewStyle().
		Foreground(Accent).
		Bold(true)

	// Player styles
	SkipButton = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(Accent).
			Padding(0, 1)

	FastSeek = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA"))

	ProgressPlayed = lipgloss.NewStyle().
			Foreground(Accent)

	ProgressRest = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#555555"))

	// Menu styles
	MenuItem = lipgloss.NewStyle().
			Padding(0, 1)

	MenuSelected = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(Accent).
			Padding(0, 1)

	MenuHeader = lipgloss.NewStyle().
			Bold(true).
			Foreground(Accent).
			Padding(0, 1)
)

// Layout helpers
func Header(width int, title string) string {
	return Title.
		Width(width).
		Align(lipgloss.Center).
		Render(title)
}

func ContentBox(width int, content string, padding int) string {
	return lipgloss.NewStyle().
		Width(width).
		Padding(padding).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#555555")).
		Render(content)
}

// Panel renders a bordered box of fixed size, used for menus drawn over the video area
func Panel(width, height int, content string) string {
	return lipgloss.NewStyle().
		Width(width).
		Height(height).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(Accent).
		Render(content)
}

func CenteredView(width int, height int, content string) string {
	return lipgloss.NewStyle().
		Width(width).
		Height(height).
		Align(lipgloss.Center, lipgloss.Center).
		Render(content)
}

func CenteredText(width int, text string) string {
	return lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Render(text)
}
