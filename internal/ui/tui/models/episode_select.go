package models

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/PizzaHomicide/kagami/internal/domain"
	kb "github.com/PizzaHomicide/kagami/internal/ui/tui/keybindings"
	"github.com/PizzaHomicide/kagami/internal/ui/tui/styles"
	"github.com/PizzaHomicide/kagami/internal/ui/tui/util"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/lithammer/fuzzysearch/fuzzy"
)

// EpisodeSelectModel is the episode panel drawn beside the video area
type EpisodeSelectModel struct {
	width, height  int
	episodes       []domain.Episode
	filtered       []domain.Episode
	cursor         int
	searchInput    textinput.Model
	searchMode     bool
	viewportOffset int // For scrolling
}

// NewEpisodeSelectModel creates the episode panel
func NewEpisodeSelectModel(episodes []domain.Episode) *EpisodeSelectModel {
	input := textinput.New()
	input.Placeholder = "Filter episodes..."
	input.Prompt = "/ "
	input.SetValue("")

	return &EpisodeSelectModel{
		searchInput: input,
		episodes:    episodes,
		filtered:    episodes,
	}
}

// SetEpisodes replaces the list, keeping the cursor on the same episode when it still exists
func (m *EpisodeSelectModel) SetEpisodes(episodes []domain.Episode) {
	selected := m.GetSelectedEpisode()
	m.episodes = episodes
	m.applyFilter()
	if selected != nil {
		m.Focus(selected.ID)
	}
}

// Focus moves the cursor to the episode with the given id, if it is listed
func (m *EpisodeSelectModel) Focus(id string) {
	for i, ep := range m.filtered {
		if ep.ID == id {
			m.cursor = i
			m.ensureCursorVisible()
			return
		}
	}
}

// Searching reports whether the filter input has the keyboard
func (m *EpisodeSelectModel) Searching() bool {
	return m.searchMode
}

// GetSelectedEpisode returns the currently selected episode
func (m *EpisodeSelectModel) GetSelectedEpisode() *domain.Episode {
	if m.cursor < 0 || m.cursor >= len(m.filtered) {
		return nil
	}
	return &m.filtered[m.cursor]
}

// EpisodeAt returns the episode shown on the given row of the list, nil for rows without one
func (m *EpisodeSelectModel) EpisodeAt(row int) *domain.Episode {
	i := m.viewportOffset + row
	if row < 0 || row >= m.listHeight() || i >= len(m.filtered) {
		return nil
	}
	return &m.filtered[i]
}

// Update handles a key while the panel has the keyboard
func (m *EpisodeSelectModel) Update(msg tea.KeyMsg) tea.Cmd {
	if m.searchMode {
		return m.handleSearchModeKeyMsg(msg)
	}
	return m.handleKeyMsg(msg)
}

func (m *EpisodeSelectModel) handleKeyMsg(msg tea.KeyMsg) tea.Cmd {
	switch kb.GetActionByKey(msg, kb.ContextEpisodePanel) {
	case kb.ActionSelect:
		if selected := m.GetSelectedEpisode(); selected != nil {
			id := selected.ID
			return func() tea.Msg {
				return EpisodeSelectedMsg{ID: id}
			}
		}
	case kb.ActionEnableSearch:
		m.searchMode = true
		return m.searchInput.Focus()
	case kb.ActionMoveDown:
		if len(m.filtered) > 0 && m.cursor < len(m.filtered)-1 {
			m.cursor++
			m.ensureCursorVisible()
		}
	case kb.ActionMoveUp:
		if m.cursor > 0 {
			m.cursor--
			m.ensureCursorVisible()
		}
	case kb.ActionPageDown:
		m.cursor += m.listHeight()
		m.ensureCursorVisible()
	case kb.ActionPageUp:
		m.cursor -= m.listHeight()
		m.ensureCursorVisible()
	case kb.ActionMoveTop:
		m.cursor = 0
		m.ensureCursorVisible()
	case kb.ActionMoveBottom:
		m.cursor = len(m.filtered) - 1
		m.ensureCursorVisible()
	}
	return nil
}

func (m *EpisodeSelectModel) handleSearchModeKeyMsg(msg tea.KeyMsg) tea.Cmd {
	switch kb.GetActionByKey(msg, kb.ContextSearchMode) {
	case kb.ActionBack:
		// Cancels search, clearing the filter
		m.searchMode = false
		m.searchInput.Blur()
		m.searchInput.SetValue("")
		m.applyFilter()
		return nil
	case kb.ActionSearchComplete:
		m.searchMode = false
		m.searchInput.Blur()
		m.applyFilter()
		return nil
	}

	// Let the text input model handle other keys
	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)

	// Apply filters as we type
	m.applyFilter()

	return cmd
}

// applyFilter filters episodes based on search input
func (m *EpisodeSelectModel) applyFilter() {
	query := m.searchInput.Value()
	if query == "" {
		m.filtered = m.episodes
		m.ensureCursorVisible()
		return
	}

	var filtered []domain.Episode
	for _, ep := range m.episodes {
		if fuzzy.MatchFold(query, strconv.Itoa(ep.Number)) ||
			fuzzy.MatchFold(query, ep.Title) ||
			fuzzy.MatchFold(query, ep.ID) {
			filtered = append(filtered, ep)
		}
	}

	m.filtered = filtered
	m.ensureCursorVisible()
}

// listHeight is the number of rows available for episodes
func (m *EpisodeSelectModel) listHeight() int {
	// Border, title and search line
	return max(1, m.height-4)
}

// ensureCursorVisible adjusts the viewport offset to keep the cursor visible
func (m *EpisodeSelectModel) ensureCursorVisible() {
	if len(m.filtered) == 0 {
		m.cursor = 0
		m.viewportOffset = 0
		return
	}
	m.cursor = max(0, min(m.cursor, len(m.filtered)-1))

	visibleCount := m.listHeight()
	if len(m.filtered) <= visibleCount {
		m.viewportOffset = 0
		return
	}
	if m.cursor < m.viewportOffset {
		m.viewportOffset = m.cursor
	}
	if m.cursor >= m.viewportOffset+visibleCount {
		m.viewportOffset = m.cursor - visibleCount + 1
	}
	m.viewportOffset = min(m.viewportOffset, len(m.filtered)-visibleCount)
}

// Resize sets the size of the panel including its border
func (m *EpisodeSelectModel) Resize(width, height int) {
	m.width = width
	m.height = height
	m.searchInput.Width = max(1, width-6)
	m.ensureCursorVisible()
}

// View renders the panel.  The episode currently playing is marked.
func (m *EpisodeSelectModel) View(playingID string) string {
	inner := max(1, m.width-2)

	var b strings.Builder
	b.WriteString(styles.MenuHeader.Render(fmt.Sprintf("Episodes (%d)", len(m.episodes))))
	b.WriteString("\n")
	if m.searchMode || m.searchInput.Value() != "" {
		b.WriteString(m.searchInput.View())
	}
	b.WriteString("\n")

	if len(m.filtered) == 0 {
		if m.searchInput.Value() != "" {
			b.WriteString(styles.Muted.Render(" No episodes match your filter"))
		} else {
			b.WriteString(styles.Muted.Render(" No episodes found"))
		}
	}

	end := min(len(m.filtered), m.viewportOffset+m.listHeight())
	for i := m.viewportOffset; i < end; i++ {
		b.WriteString(m.formatEpisodeListItem(m.filtered[i], inner, i == m.cursor, m.filtered[i].ID == playingID))
		if i < end-1 {
			b.WriteString("\n")
		}
	}

	return styles.Panel(inner, max(1, m.height-2), b.String())
}

// formatEpisodeListItem formats a single episode row
func (m *EpisodeSelectModel) formatEpisodeListItem(ep domain.Episode, width int, selected, playing bool) string {
	marker := " "
	if playing {
		marker = "▶"
	}
	duration := ep.Duration
	// Marker, number, spaces and padding from the row style
	titleWidth := max(1, width-len(duration)-9)
	row := fmt.Sprintf("%s %3d %s %s", marker, ep.Number, util.PadRight(ep.DisplayTitle(), titleWidth), duration)

	if selected {
		return styles.MenuSelected.Width(width).Render(row)
	}
	return styles.MenuItem.Width(width).Render(row)
}
