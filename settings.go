package main

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/charmbracelet/lipgloss"
)

// Settings represents user-configurable settings stored in ~/.termfolio/settings.json
type Settings struct {
	Theme ThemeSettings `json:"theme"`
	Store StoreSettings `json:"store"`
	Boot  BootSettings  `json:"boot"`
}

// ThemeSettings configures the UI appearance
type ThemeSettings struct {
	// Name is the theme preset name
	Name string `json:"name"`
}

// StoreSettings selects where the virtual filesystem lives
type StoreSettings struct {
	// Type is sqlite, s3 or memory
	Type string `json:"type"`
	// Path is the SQLite database file
	Path string `json:"path,omitempty"`
	// Bucket and Endpoint configure the s3 store
	Bucket   string `json:"bucket,omitempty"`
	Endpoint string `json:"endpoint,omitempty"`
}

// BootSettings configures startup
type BootSettings struct {
	Skip bool `json:"skip"`
}

// ThemePreset defines colors for a complete theme
type ThemePreset struct {
	Text   lipgloss.Color
	Prompt lipgloss.Color
	Error  lipgloss.Color
	Info   lipgloss.Color
	Accent lipgloss.Color
	Dim    lipgloss.Color
}

// DefaultSettings returns the default settings
func DefaultSettings() *Settings {
	return &Settings{
		Theme: ThemeSettings{Name: "default"},
		Store: StoreSettings{Type: StoreSQLite},
	}
}

// SettingsPath returns the path to the settings file
func SettingsPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".termfolio", "settings.json"), nil
}

// LoadSettings loads settings from ~/.termfolio/settings.json
// Returns default settings if the file doesn't exist or can't be read
func LoadSettings() (*Settings, error) {
	settings := DefaultSettings()

	path, err := SettingsPath()
	if err != nil {
		return settings, nil //nolint:nilerr // intentional: return defaults when path unavailable
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return settings, nil
		}
		return settings, err
	}

	// Missing fields keep their defaults
	if err := json.Unmarshal(data, settings); err != nil {
		return settings, err
	}

	return settings, nil
}

// SaveSettings saves settings to ~/.termfolio/settings.json
func SaveSettings(settings *Settings) error {
	path, err := SettingsPath()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return err
	}

	data, err := json.MarshalIndent(settings, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0600)
}

// ThemePresets contains all available theme presets (256-color codes)
var ThemePresets = map[string]ThemePreset{
	"default": {
		Text:   "252",
		Prompt: "12",
		Error:  "9",
		Info:   "14",
		Accent: "13",
		Dim:    "8",
	},
	"matrix": {
		Text:   "46",
		Prompt: "46",
		Error:  "22",
		Info:   "46",
		Accent: "46",
		Dim:    "22",
	},
	"solarized": {
		Text:   "244",
		Prompt: "33",
		Error:  "160",
		Info:   "37",
		Accent: "136",
		Dim:    "240",
	},
	"gruvbox": {
		Text:   "223",
		Prompt: "208",
		Error:  "167",
		Info:   "108",
		Accent: "214",
		Dim:    "245",
	},
	"dracula": {
		Text:   "255",
		Prompt: "141",
		Error:  "210",
		Info:   "117",
		Accent: "212",
		Dim:    "61",
	},
	"nord": {
		Text:   "255",
		Prompt: "67",
		Error:  "174",
		Info:   "110",
		Accent: "222",
		Dim:    "60",
	},
}

// Theme holds the lipgloss styles for a preset
type Theme struct {
	Name   string
	Text   lipgloss.Style
	Prompt lipgloss.Style
	Error  lipgloss.Style
	Info   lipgloss.Style
	Accent lipgloss.Style
	Dim    lipgloss.Style
	Cursor lipgloss.Style
	Border lipgloss.Style
}

// NewTheme builds styles for the named preset, falling back to default
func NewTheme(name string) *Theme {
	preset, ok := ThemePresets[name]
	if !ok {
		name = "default"
		preset = ThemePresets[name]
	}
	return &Theme{
		Name:   name,
		Text:   lipgloss.NewStyle().Foreground(preset.Text),
		Prompt: lipgloss.NewStyle().Foreground(preset.Prompt).Bold(true),
		Error:  lipgloss.NewStyle().Foreground(preset.Error),
		Info:   lipgloss.NewStyle().Foreground(preset.Info),
		Accent: lipgloss.NewStyle().Foreground(preset.Accent),
		Dim:    lipgloss.NewStyle().Foreground(preset.Dim),
		Cursor: lipgloss.NewStyle().Reverse(true),
		Border: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(preset.Accent).
			Padding(0, 1),
	}
}

// AvailableThemes returns the list of available theme names
func AvailableThemes() []string {
	return []string{"default", "matrix", "solarized", "gruvbox", "dracula", "nord"}
}
