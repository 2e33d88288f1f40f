package config

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/OpenTraceLab/OpenTracePNP/internal/palette"
)

// MaxRecent is how many recent projects Settings remembers.
const MaxRecent = 8

// Settings stores per-user viewer preferences.
type Settings struct {
	Theme          string   `json:"theme"`
	RecentProjects []string `json:"recent_projects,omitempty"`
}

// SettingsPath returns the settings file location:
// %APPDATA%\OpenTracePNP on Windows, ~/.config/opentracepnp elsewhere.
func SettingsPath() (string, error) {
	var dir string
	if appData := os.Getenv("APPDATA"); appData != "" {
		dir = filepath.Join(appData, "OpenTracePNP")
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		dir = filepath.Join(home, ".config", "opentracepnp")
	}
	return filepath.Join(dir, "config.json"), nil
}

// LoadSettings reads the user settings. A missing file yields defaults.
func LoadSettings() (*Settings, error) {
	path, err := SettingsPath()
	if err != nil {
		return &Settings{Theme: palette.DefaultTheme}, err
	}
	return LoadSettingsFrom(path)
}

// LoadSettingsFrom reads the settings at path.
func LoadSettingsFrom(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Settings{Theme: palette.DefaultTheme}, nil
		}
		return nil, err
	}

	var s Settings
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, err
	}
	if _, ok := palette.Lookup(s.Theme); !ok {
		s.Theme = palette.DefaultTheme
	}
	return &s, nil
}

// SaveSettings writes the user settings.
func SaveSettings(s *Settings) error {
	path, err := SettingsPath()
	if err != nil {
		return err
	}
	return SaveSettingsTo(path, s)
}

// SaveSettingsTo writes s to path, creating its directory.
func SaveSettingsTo(path string, s *Settings) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// AddRecent moves path to the front of the recent list.
func (s *Settings) AddRecent(path string) {
	out := []string{path}
	for _, p := range s.RecentProjects {
		if p != path && len(out) < MaxRecent {
			out = append(out, p)
		}
	}
	s.RecentProjects = out
}
