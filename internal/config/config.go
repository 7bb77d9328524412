package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"dario.cat/mergo"
	"gopkg.in/yaml.v3"
)

// ErrInvalidConfig is returned when the merged configuration holds values the player cannot use
var ErrInvalidConfig = errors.New("invalid config")

// Config represents the application configuration
type Config struct {
	Player   PlayerConfig   `yaml:"player,omitempty"`
	Playback PlaybackConfig `yaml:"playback,omitempty"`
	UI       UIConfig       `yaml:"ui,omitempty"`
	Catalog  CatalogConfig  `yaml:"catalog,omitempty"`
	Logging  LoggingConfig  `yaml:"logging,omitempty"`
}

// PlayerConfig contains media player settings
type PlayerConfig struct {
	Path             string `yaml:"path,omitempty"`
	Args             string `yaml:"args,omitempty"`
	SocketPath       string `yaml:"socket_path,omitempty"`
	PreferredQuality string `yaml:"preferred_quality,omitempty"` // e.g. "1080p".  Falls back to the best available.
}

// PlaybackConfig contains the behaviour of the player controls
type PlaybackConfig struct {
	Volume      float64        `yaml:"volume,omitempty"`      // Initial volume, 0 to 1
	SeekStep    float64        `yaml:"seek_step,omitempty"`   // Seconds per arrow key press
	VolumeStep  float64        `yaml:"volume_step,omitempty"` // Volume change per key press
	Intro       RangeConfig    `yaml:"intro,omitempty"`
	Recap       RangeConfig    `yaml:"recap,omitempty"`
	OutroLength float64        `yaml:"outro_length,omitempty"` // Seconds at the end of an episode treated as outro
	FastSeek    FastSeekConfig `yaml:"fast_seek,omitempty"`
}

// RangeConfig is a time range in seconds
type RangeConfig struct {
	Start float64 `yaml:"start"`
	End   float64 `yaml:"end"`
}

// FastSeekConfig tunes press and hold seeking
type FastSeekConfig struct {
	IntervalMillis int     `yaml:"interval_ms,omitempty"`
	Step           float64 `yaml:"step,omitempty"`
	SpeedIncrement float64 `yaml:"speed_increment,omitempty"`
	MaxSpeed       float64 `yaml:"max_speed,omitempty"`
}

// UIConfig contains UI display preferences
type UIConfig struct {
	ControlsHideDelayMillis int `yaml:"controls_hide_delay_ms,omitempty"`
}

// CatalogConfig points at the episode catalog
type CatalogConfig struct {
	Path  string `yaml:"path,omitempty"`  // Empty uses the built-in sample catalog
	Watch bool   `yaml:"watch,omitempty"` // Reload the catalog when the file changes
}

// LoggingConfig contains log related settings
type LoggingConfig struct {
	Level    string `yaml:"level,omitempty"`
	FilePath string `yaml:"file_path,omitempty"`
}

// Load builds a configuration struct from multiple sources using these steps:
// 1. Create a base config with default values
// 2. If no config file exists on disk, save the default config to that location
// 3. Apply 'dynamic' properties.  Dynamic properties are those that are determined at runtime, for example log file location which is different per OS.
// 4. Load & merge the config file, overwriting any defaults with user-specified values
// 5. Apply environment variable overrides
//
// An empty path falls back to KAGAMI_CONFIG_PATH and then the OS config directory.
func Load(path string) (*Config, error) {
	// 1. Start with base defaults
	cfg := createBaseDefaultConfig()

	configPath, err := getConfigPath(path)
	if err != nil {
		return nil, fmt.Errorf("unable to determine config file path: %w", err)
	}

	// 2. If no config file exists on disk, then write a default one
	if _, err := os.Stat(configPath); errors.Is(err, os.ErrNotExist) {
		// If there is an error saving the default config, then still let the application startup using the defaults.
		if err := save(cfg, configPath); err != nil {
			applyDynamicDefaults(cfg)
			applyEnvVarOverrides(cfg)
			if err := validate(cfg); err != nil {
				return nil, err
			}
			return cfg, nil
		}
	}

	// 3. Apply dynamic defaults if necessary
	applyDynamicDefaults(cfg)

	// 4. Load the config from disk and merge it into the base defaults
	fileConfig, err := loadFromDisk(configPath)
	if err != nil {
		return nil, err
	}
	// Overrides the config with any values coming from the loaded file
	if err = mergo.Merge(cfg, fileConfig, mergo.WithOverride); err != nil {
		return nil, fmt.Errorf("error merging config loaded from disk: %w", err)
	}

	// 5. Apply the environment variable overrides which take precedence
	applyEnvVarOverrides(cfg)

	if err := validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// validate rejects skip ranges that cannot form a window: bounds must not be negative and must not be inverted
func validate(cfg *Config) error {
	p := cfg.Playback
	ranges := []struct {
		name string
		r    RangeConfig
	}{{"intro", p.Intro}, {"recap", p.Recap}}
	for _, rc := range ranges {
		if rc.r.Start < 0 || rc.r.End < rc.r.Start {
			return fmt.Errorf("%w: playback.%s must satisfy 0 <= start <= end, got start=%v end=%v",
				ErrInvalidConfig, rc.name, rc.r.Start, rc.r.End)
		}
	}
	if p.OutroLength < 0 {
		return fmt.Errorf("%w: playback.outro_length must not be negative, got %v", ErrInvalidConfig, p.OutroLength)
	}
	return nil
}

// applyDynamicDefaults sets runtime-determined default values for any properties that haven't been explicitly configured.
// Unlike static defaults, these values might change between runs based on the environment or system configuration.
func applyDynamicDefaults(cfg *Config) {
	cfg.Logging.FilePath = defaultLogFilePath()
}

// loadFromDisk loads the YAML config from disk and returns the unmarshalled Config
func loadFromDisk(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("unable to read config file: %w", err)
	}

	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("unable to parse config file: %w", err)
	}

	return cfg, nil
}

func save(cfg *Config, configPath string) error {
	// Create config dir if not exists
	configDir := filepath.Dir(configPath)
	if err := os.MkdirAll(configDir, 0700); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	return writeFile(configPath, data)
}

// getConfigPath returns the path to the config file.  An explicit path wins, then the environment variable override,
// then the OS config location default.
func getConfigPath(path string) (string, error) {
	if path != "" {
		return path, nil
	}
	if configPath := os.Getenv("KAGAMI_CONFIG_PATH"); configPath != "" {
		return configPath, nil
	}

	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}

	return filepath.Join(configDir, "kagami", "config.yaml"), nil
}

// createBaseDefaultConfig creates a config with all default values
func createBaseDefaultConfig() *Config {
	return &Config{
		Player: PlayerConfig{
			Path:             "mpv",
			PreferredQuality: "1080p",
		},
		Playback: PlaybackConfig{
			Volume:      1,
			SeekStep:    10,
			VolumeStep:  0.1,
			Intro:       RangeConfig{Start: 0, End: 90},
			Recap:       RangeConfig{Start: 0, End: 30},
			OutroLength: 90,
			FastSeek: FastSeekConfig{
				IntervalMillis: 200,
				Step:           2,
				SpeedIncrement: 0.5,
				MaxSpeed:       5,
			},
		},
		UI: UIConfig{
			ControlsHideDelayMillis: 3000,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// defaultLogFilePath returns the path to the log file.  Tries to use expected OS location defaults.
func defaultLogFilePath() string {
	var basePath string
	homedir, err := os.UserHomeDir()
	if err != nil {
		// Fallback to logging in the current directory if home directory cannot be determined
		return filepath.Join(".", "kagami.log")
	}

	switch runtime.GOOS {
	case "windows":
		// Windows:  %LOCALAPPDATA%\kagami\logs
		if appData := os.Getenv("LOCALAPPDATA"); appData != "" {
			basePath = filepath.Join(appData, "kagami", "logs")
		} else {
			basePath = filepath.Join(homedir, "AppData", "local", "kagami", "logs")
		}
	case "darwin":
		// macOS:  ~/Library/Logs/kagami
		basePath = filepath.Join(homedir, "Library", "Logs", "kagami")
	default:
		// Linux/BSD:  XDG_STATE_HOME
		if xdgState := os.Getenv("XDG_STATE_HOME"); xdgState != "" {
			basePath = filepath.Join(xdgState, "kagami", "logs")
		} else {
			basePath = filepath.Join(homedir, ".local", "state", "kagami", "logs")
		}
	}

	err = os.MkdirAll(basePath, 0700)
	if err != nil {
		// If we failed to create the directory, fallback to logging in the current directory
		return filepath.Join(".", "kagami.log")
	}
	return filepath.Join(basePath, "kagami.log")
}
