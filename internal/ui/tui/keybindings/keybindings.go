package keybindings

import tea "github.com/charmbracelet/bubbletea"

// Action represents a specific action that can be triggered by a key
type Action string

// Define all possible actions
const (
	// Global actions
	ActionQuit       Action = "quit"
	ActionToggleHelp Action = "toggle_help"
	ActionBack       Action = "back" // General purpose "go back" or "cancel"

	// Navigation actions
	ActionMoveUp     Action = "move_up"
	ActionMoveDown   Action = "move_down"
	ActionPageUp     Action = "page_up"
	ActionPageDown   Action = "page_down"
	ActionMoveTop    Action = "move_top"
	ActionMoveBottom Action = "move_bottom"
	ActionSelect     Action = "select"

	// Player actions
	ActionTogglePlay       Action = "toggle_play"
	ActionToggleMute       Action = "toggle_mute"
	ActionToggleFullscreen Action = "toggle_fullscreen"
	ActionSeekForward      Action = "seek_forward"
	ActionSeekBackward     Action = "seek_backward"
	ActionVolumeUp         Action = "volume_up"
	ActionVolumeDown       Action = "volume_down"
	ActionToggleSettings   Action = "toggle_settings"
	ActionToggleEpisodes   Action = "toggle_episodes"
	ActionSkip             Action = "skip"

	// Search mode actions
	ActionEnableSearch   Action = "enable_search"
	ActionSearchComplete Action = "search_complete"
)

// ContextName represents a specific UI context in the application that has its own keybinds
type ContextName string

const (
	ContextGlobal       ContextName = "global"
	ContextPlayer       ContextName = "player"
	ContextSettings     ContextName = "settings"
	ContextEpisodePanel ContextName = "episode_panel"
	ContextSearchMode   ContextName = "search_mode"
	ContextHelp         ContextName = "help"
)

var ContextBindings = map[ContextName][]Binding{
	ContextGlobal:       globalBindings,
	ContextPlayer:       playerBindings,
	ContextSettings:     settingsBindings,
	ContextEpisodePanel: episodePanelBindings,
	ContextSearchMode:   searchModeBindings,
	ContextHelp:         helpBindings,
}

// KeyMap stores the mappings from actions to key sequences for each context
type KeyMap struct {
	Primary   string
	Secondary string // Optional alternative key
	Help      string // Description for help screen
}

// Binding maps an action to its keys and help text
type Binding struct {
	Action Action
	KeyMap KeyMap
}

// navigationBindings contains general navigation bindings for consistent navigation across the app
var navigationBindings = []Binding{
	{
		Action: ActionMoveUp,
		KeyMap: KeyMap{
			Primary:   "up",
			Secondary: "k",
			Help:      "Move cursor up",
		},
	},
	{
		Action: ActionMoveDown,
		KeyMap: KeyMap{
			Primary:   "down",
			Secondary: "j",
			Help:      "Move cursor down",
		},
	},
	{
		Action: ActionPageUp,
		KeyMap: KeyMap{
			Primary: "pgup",
			Help:    "Move up one page",
		},
	},
	{
		Action: ActionPageDown,
		KeyMap: KeyMap{
			Primary: "pgdown",
			Help:    "Move down one page",
		},
	},
	{
		Action: ActionMoveTop,
		KeyMap: KeyMap{
			Primary: "home",
			Help:    "Move top of view",
		},
	},
	{
		Action: ActionMoveBottom,
		KeyMap: KeyMap{
			Primary: "end",
			Help:    "Move bottom of view",
		},
	},
}

// globalBindings contains key bindings that work across all views
var globalBindings = []Binding{
	{
		Action: ActionQuit,
		KeyMap: KeyMap{
			Primary: "ctrl+c",
			Help:    "Quit application",
		},
	},
	{
		Action: ActionToggleHelp,
		KeyMap: KeyMap{
			Primary: "ctrl+h",
			Help:    "Toggle help screen",
		},
	},
	{
		Action: ActionBack,
		KeyMap: KeyMap{
			Primary: "esc",
			Help:    "Close the open menu or panel",
		},
	},
}

// helpBindings contains key bindings specific to the help view
var helpBindings = withNavigation([]Binding{})

// playerBindings are active while no menu or panel has the keyboard
var playerBindings = []Binding{
	{
		Action: ActionTogglePlay,
		KeyMap: KeyMap{
			Primary: " ",
			Help:    "Play/pause",
		},
	},
	{
		Action: ActionToggleMute,
		KeyMap: KeyMap{
			Primary: "m",
			Help:    "Mute/unmute",
		},
	},
	{
		Action: ActionToggleFullscreen,
		KeyMap: KeyMap{
			Primary: "f",
			Help:    "Toggle fullscreen",
		},
	},
	{
		Action: ActionSeekForward,
		KeyMap: KeyMap{
			Primary: "right",
			Help:    "Seek forward",
		},
	},
	{
		Action: ActionSeekBackward,
		KeyMap: KeyMap{
			Primary: "left",
			Help:    "Seek backward",
		},
	},
	{
		Action: ActionVolumeUp,
		KeyMap: KeyMap{
			Primary: "up",
			Help:    "Volume up",
		},
	},
	{
		Action: ActionVolumeDown,
		KeyMap: KeyMap{
			Primary: "down",
			Help:    "Volume down",
		},
	},
	{
		Action: ActionToggleSettings,
		KeyMap: KeyMap{
			Primary: "s",
			Help:    "Open/close settings",
		},
	},
	{
		Action: ActionToggleEpisodes,
		KeyMap: KeyMap{
			Primary: "e",
			Help:    "Open/close the episode list",
		},
	},
	{
		Action: ActionSkip,
		KeyMap: KeyMap{
			Primary: "enter",
			Help:    "Press the visible skip button",
		},
	},
	{
		Action: ActionQuit,
		KeyMap: KeyMap{
			Primary: "q",
			Help:    "Quit",
		},
	},
}

// settingsBindings drive the settings menu and its quality and speed submenus
var settingsBindings = []Binding{
	{
		Action: ActionMoveUp,
		KeyMap: KeyMap{
			Primary:   "up",
			Secondary: "k",
			Help:      "Move cursor up",
		},
	},
	{
		Action: ActionMoveDown,
		KeyMap: KeyMap{
			Primary:   "down",
			Secondary: "j",
			Help:      "Move cursor down",
		},
	},
	{
		Action: ActionSelect,
		KeyMap: KeyMap{
			Primary: "enter",
			Help:    "Choose the highlighted entry",
		},
	},
	{
		Action: ActionToggleSettings,
		KeyMap: KeyMap{
			Primary: "s",
			Help:    "Close settings",
		},
	},
}

// episodePanelBindings contains key bindings specific to the episode panel
var episodePanelBindings = withNavigation([]Binding{
	{
		Action: ActionSelect,
		KeyMap: KeyMap{
			Primary: "enter",
			Help:    "Play episode",
		},
	},
	{
		Action: ActionEnableSearch,
		KeyMap: KeyMap{
			Primary:   "/",
			Secondary: "ctrl+f",
			Help:      "Filter episodes",
		},
	},
	{
		Action: ActionToggleEpisodes,
		KeyMap: KeyMap{
			Primary: "e",
			Help:    "Close the episode list",
		},
	},
})

// searchModeBindings contains key bindings specific for when search mode is active
var searchModeBindings = []Binding{
	{
		Action: ActionBack,
		KeyMap: KeyMap{
			Primary:   "esc",
			Secondary: "ctrl+f",
			Help:      "Exit search mode and remove the filter",
		},
	},
	{
		Action: ActionSearchComplete,
		KeyMap: KeyMap{
			Primary: "enter",
			Help:    "Apply the search filter and return control to the list",
		},
	},
}

// GetActionByKey returns just the action for a given key, or an empty Action if not found
func GetActionByKey(keyMsg tea.KeyMsg, name ContextName) Action {
	if bindings, exists := ContextBindings[name]; exists {
		key := keyMsg.String()
		for _, binding := range bindings {
			if binding.KeyMap.Primary == key || binding.KeyMap.Secondary == key {
				return binding.Action
			}
		}
	}
	return ""
}

// DisplayKey returns how a key is shown to the user
func DisplayKey(key string) string {
	if key == " " {
		return "space"
	}
	return key
}

// FormatKeyHelp formats a key binding for display in help text
func FormatKeyHelp(binding Binding) string {
	if binding.KeyMap.Secondary != "" {
		return DisplayKey(binding.KeyMap.Primary) + "/" + DisplayKey(binding.KeyMap.Secondary) + ": " + binding.KeyMap.Help
	}
	return DisplayKey(binding.KeyMap.Primary) + ": " + binding.KeyMap.Help
}

// withNavigation is a helper function to include navigation bindings in other binding sets
func withNavigation(bindings []Binding) []Binding {
	return append(append([]Binding{}, navigationBindings...), bindings...)
}
