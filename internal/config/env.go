package config

import (
	"os"
	"strconv"
)

type envVar struct {
	name  string
	desc  string
	apply func(*Config, string)
}

var supportedEnvVars = []envVar{
	{
		// Only here for documentation purposes.  Does not override any values in the config as this environment variable
		// points to where the config should be loaded.  It is handled prior to loading the config.
		name:  "KAGAMI_CONFIG_PATH",
		desc:  "Sets the path to the config file.  Default: OS-specific config directory",
		apply: func(c *Config, s string) {}, // Special case, no-op
	},
	{
		name:  "KAGAMI_CONFIG_PLAYER_PATH",
		desc:  "Sets the path to the mpv binary.  Default: mpv",
		apply: func(c *Config, s string) { c.Player.Path = s },
	},
	{
		name:  "KAGAMI_CONFIG_PLAYER_ARGS",
		desc:  "Sets extra arguments passed to mpv.  Default: None",
		apply: func(c *Config, s string) { c.Player.Args = s },
	},
	{
		name:  "KAGAMI_CONFIG_PLAYER_SOCKET_PATH",
		desc:  "Sets the mpv IPC socket or named pipe.  Default: OS-specific",
		apply: func(c *Config, s string) { c.Player.SocketPath = s },
	},
	{
		name:  "KAGAMI_CONFIG_PLAYER_PREFERRED_QUALITY",
		desc:  "Sets the quality each episode starts with.  Default: 1080p",
		apply: func(c *Config, s string) { c.Player.PreferredQuality = s },
	},
	{
		name:  "KAGAMI_CONFIG_PLAYBACK_VOLUME",
		desc:  "Sets the initial volume between 0 and 1.  Default: 1",
		apply: func(c *Config, s string) { applyFloat(&c.Playback.Volume, s) },
	},
	{
		name:  "KAGAMI_CONFIG_PLAYBACK_SEEK_STEP",
		desc:  "Sets the seconds moved per seek key press.  Default: 10",
		apply: func(c *Config, s string) { applyFloat(&c.Playback.SeekStep, s) },
	},
	{
		name:  "KAGAMI_CONFIG_PLAYBACK_OUTRO_LENGTH",
		desc:  "Sets the seconds at the end of an episode offered as outro.  Default: 90",
		apply: func(c *Config, s string) { applyFloat(&c.Playback.OutroLength, s) },
	},
	{
		name:  "KAGAMI_CONFIG_UI_CONTROLS_HIDE_DELAY_MS",
		desc:  "Sets how long the controls stay up after the last input.  Default: 3000",
		apply: func(c *Config, s string) { applyInt(&c.UI.ControlsHideDelayMillis, s) },
	},
	{
		name:  "KAGAMI_CONFIG_CATALOG_PATH",
		desc:  "Sets the path to the episode catalog.  Default: built-in sample catalog",
		apply: func(c *Config, s string) { c.Catalog.Path = s },
	},
	{
		name:  "KAGAMI_CONFIG_CATALOG_WATCH",
		desc:  "Reload the catalog when it changes on disk.  Default: false",
		apply: func(c *Config, s string) {
			if v, err := strconv.ParseBool(s); err == nil {
				c.Catalog.Watch = v
			}
		},
	},
	{
		name:  "KAGAMI_CONFIG_LOGGING_LEVEL",
		desc:  "Sets the logging level.  One of: trace, debug, info, warn, error.  Default: info",
		apply: func(c *Config, s string) { c.Logging.Level = s },
	},
	{
		name:  "KAGAMI_CONFIG_LOGGING_FILE_PATH",
		desc:  "Sets the logging file path.  Default: OS-specific",
		apply: func(c *Config, s string) { c.Logging.FilePath = s },
	},
}

func applyEnvVarOverrides(c *Config) {
	for _, envVar := range supportedEnvVars {
		if value := os.Getenv(envVar.name); value != "" {
			envVar.apply(c, value)
		}
	}
}

// Unparseable numbers leave the configured value alone
func applyFloat(dst *float64, s string) {
	if v, err := strconv.ParseFloat(s, 64); err == nil {
		*dst = v
	}
}

func applyInt(dst *int, s string) {
	if v, err := strconv.Atoi(s); err == nil {
		*dst = v
	}
}
