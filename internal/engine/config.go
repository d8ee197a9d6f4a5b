package engine

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"github.com/BurntSushi/toml"
	"github.com/driquet/ezinit/internal/template"
	"github.com/driquet/ezinit/internal/ui"
)

// Config holds the configuration for the Engine.
type Config struct {
	// DatabasePath specifies the path to the SQLite database file.
	DatabasePath string `toml:"database_path"`
	// DefaultUI specifies the user interface to use ("terminal", "fuzzy" or "rofi").
	// This can be overridden by the --ui command-line flag.
	DefaultUI string `toml:"default_ui"`
	// Editor is the command used to edit template overrides. When empty,
	// $VISUAL then $EDITOR are used.
	Editor string `toml:"editor"`
	// DefaultLanguage is preselected by "new" when --lang is not given.
	// When empty, the user is asked to pick a template.
	DefaultLanguage string `toml:"default_language"`
	// Rofi holds configuration specific to the Rofi user interface.
	Rofi ui.RofiConfig `toml:"rofi"`
}

const (
	appName                 = "ezinit"
	defaultConfigFileName   = "config.toml"
	defaultDatabaseFileName = "ezinit.db"
	defaultUI               = "terminal"
)

var validUIs = []string{"terminal", "fuzzy", "rofi"}

// ConfigDirPath returns the ezinit directory of the user configuration
// directory, creating it if needed.
func ConfigDirPath() (string, error) {
	userConfigPath, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("unable to retrieve user config path: %w", err)
	}

	configDirPath := filepath.Join(userConfigPath, appName)
	if err := os.MkdirAll(configDirPath, 0750); err != nil {
		return "", fmt.Errorf("failed to create config directory %s: %w", configDirPath, err)
	}

	return configDirPath, nil
}

// DefaultConfig returns the configuration used when configDir holds no
// config file.
func DefaultConfig(configDir string) Config {
	return Config{
		DatabasePath: filepath.Join(configDir, defaultDatabaseFileName),
		DefaultUI:    defaultUI,
		Rofi: ui.RofiConfig{
			Path:       "rofi",
			SelectArgs: []string{},
			InputArgs:  []string{},
		},
	}
}

// LoadConfigFromFile loads the configuration from configDir/config.toml.
// If the file doesn't exist, a commented default one is created.
// Invalid or missing values fall back to their defaults.
func LoadConfigFromFile(configDir string) (Config, error) {
	configFilePath := filepath.Join(configDir, defaultConfigFileName)
	defaultConfig := DefaultConfig(configDir)

	if _, err := os.Stat(configFilePath); os.IsNotExist(err) {
		if err := writeDefaultConfig(configDir, configFilePath, defaultConfig); err != nil {
			return Config{}, err
		}
		return defaultConfig, nil
	} else if err != nil {
		return Config{}, fmt.Errorf("failed to stat config file %s: %w", configFilePath, err)
	}

	var loadedConfig Config
	if _, err := toml.DecodeFile(configFilePath, &loadedConfig); err != nil {
		return Config{}, fmt.Errorf("failed to decode config file %s: %w", configFilePath, err)
	}

	if loadedConfig.DatabasePath == "" {
		loadedConfig.DatabasePath = defaultConfig.DatabasePath
	}

	if !slices.Contains(validUIs, loadedConfig.DefaultUI) {
		loadedConfig.DefaultUI = defaultConfig.DefaultUI
	}

	if loadedConfig.DefaultLanguage != "" {
		lang, _ := template.ParseLanguage(loadedConfig.DefaultLanguage)
		loadedConfig.DefaultLanguage = string(lang)
	}

	if loadedConfig.Rofi.Path == "" {
		loadedConfig.Rofi.Path = defaultConfig.Rofi.Path
	}

	return loadedConfig, nil
}

// writeDefaultConfig writes the default configuration with comments, which
// toml.Encoder cannot produce.
func writeDefaultConfig(configDir, configFilePath string, config Config) error {
	if err := os.MkdirAll(configDir, 0750); err != nil {
		return fmt.Errorf("failed to create config directory %s: %w", configDir, err)
	}

	content := fmt.Sprintf(`database_path = %q

# default_ui specifies the user interface.
# Valid options are "terminal", "fuzzy" or "rofi".
# This can be overridden by the --ui command-line flag.
default_ui = %q

# editor is used by "ezinit override set" when no content is given.
# Falls back to $VISUAL, then $EDITOR.
# editor = "vim"

# default_language is used by "ezinit new" when --lang is not given.
# Valid options are "c", "cxx" or "python".
# default_language = "c"

# Rofi User Interface settings
# These settings are used if default_ui = "rofi" or --ui=rofi is specified.
[rofi]
  # Path to the Rofi executable.
  path = %q
  # Optional: Specify a Rofi theme file (e.g., "solarized", "dracula").
  # theme = ""
  # Extra arguments to pass to Rofi for selection dialogs.
  # Example: select_args = ["-i"] (case-insensitive)
  # select_args = []
  # Extra arguments to pass to Rofi for input dialogs.
  # input_args = []
`, config.DatabasePath, config.DefaultUI, config.Rofi.Path)

	if err := os.WriteFile(configFilePath, []byte(content), 0600); err != nil {
		return fmt.Errorf("failed to write default config file %s: %w", configFilePath, err)
	}

	return nil
}
