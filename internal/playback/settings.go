package playback

// SettingsPanel is the navigation state of the settings menu: Main, then at most one of Quality or Speed.
type SettingsPanel int

const (
	SettingsClosed SettingsPanel = iota
	SettingsMain
	SettingsQuality
	SettingsSpeed
)

func (p SettingsPanel) String() string {
	switch p {
	case SettingsMain:
		return "main"
	case SettingsQuality:
		return "quality"
	case SettingsSpeed:
		return "speed"
	default:
		return "closed"
	}
}

// SpeedOptions are the playback rates offered in the speed menu
var SpeedOptions = []float64{0.25, 0.5, 0.75, 1, 1.25, 1.5, 1.75, 2}

// ValidRate reports whether rate is one of SpeedOptions
func ValidRate(rate float64) bool {
	for _, r := range SpeedOptions {
		if r == rate {
			return true
		}
	}
	return false
}

// Toggle opens the main menu when closed and closes the menu from any level otherwise
func (p SettingsPanel) Toggle() SettingsPanel {
	if p == SettingsClosed {
		return SettingsMain
	}
	return SettingsClosed
}

// Open enters a sub menu.  Sub menus are only reachable from the main menu.
func (p SettingsPanel) Open(sub SettingsPanel) SettingsPanel {
	if p != SettingsMain || (sub != SettingsQuality && sub != SettingsSpeed) {
		return p
	}
	return sub
}

// Back leaves a sub menu for the main menu, or closes the main menu
func (p SettingsPanel) Back() SettingsPanel {
	switch p {
	case SettingsQuality, SettingsSpeed:
		return SettingsMain
	default:
		return SettingsClosed
	}
}
