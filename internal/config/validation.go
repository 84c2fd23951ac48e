// Package config provides validation utilities for configuration values.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// ParseHexColor parses a hex RGB string, with or without # prefix, into
// 0x00RRGGBB. Exactly six hex digits are accepted.
func ParseHexColor(s string) (uint32, bool) {
	hex := strings.TrimPrefix(s, "#")
	if len(hex) != 6 {
		return 0, false
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return 0, false
	}
	return uint32(v), true
}

// normalizeConfig applies the lenient fallbacks: anything repairable is
// repaired and reported as a warning rather than rejected. The config
// comes out with at least one profile, the Default profile at index 0,
// resolved working directories and a usable background color.
func normalizeConfig(config *Config) []string {
	var warnings []string

	if _, ok := ParseHexColor(config.Window.BackgroundColor); !ok {
		if config.Window.BackgroundColor != "" {
			warnings = append(warnings,
				fmt.Sprintf("invalid background color %q, using %s", config.Window.BackgroundColor, DefaultBackgroundColor))
		}
		config.Window.BackgroundColor = DefaultBackgroundColor
	}

	config.Profiles, warnings = normalizeProfiles(config.Profiles, warnings)

	// A missing hotkey table enables the stock bindings; an explicitly
	// empty one is the documented way to disable them.
	if config.Hotkeys.Tab == nil {
		config.Hotkeys.Tab = DefaultTabHotkeys()
	}

	return warnings
}

// normalizeProfiles fills per-profile fallbacks and guarantees the
// Default profile sits at index 0, generating it when absent.
func normalizeProfiles(profiles []Profile, warnings []string) ([]Profile, []string) {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}

	for i := range profiles {
		if profiles[i].Icon == "" {
			profiles[i].Icon = DefaultIcon
		}
		resolved, warning := resolveWorkingDir(profiles[i].WorkingDirectory, home)
		if warning != "" {
			warnings = append(warnings, warning)
		}
		profiles[i].WorkingDirectory = resolved
	}

	defaultIndex := -1
	for i := range profiles {
		if profiles[i].Name == DefaultProfileName {
			defaultIndex = i
			break
		}
	}
	switch {
	case defaultIndex < 0:
		generated := DefaultProfile()
		generated.WorkingDirectory = home
		profiles = append([]Profile{generated}, profiles...)
	case defaultIndex > 0:
		// Move Default to the front, keeping the user's settings for it.
		def := profiles[defaultIndex]
		profiles = append(profiles[:defaultIndex], profiles[defaultIndex+1:]...)
		profiles = append([]Profile{def}, profiles...)
	}

	return profiles, warnings
}

// resolveWorkingDir expands ~ against home and falls back to home when
// the directory does not exist. The returned warning is empty when no
// fallback was needed.
func resolveWorkingDir(dir, home string) (string, string) {
	if dir == "" {
		return home, ""
	}
	if strings.HasPrefix(dir, "~") {
		rest := strings.TrimPrefix(dir, "~")
		rest = strings.TrimPrefix(rest, "/")
		rest = strings.TrimPrefix(rest, `\`)
		if rest == "" {
			return home, ""
		}
		return filepath.Join(home, rest), ""
	}
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return home, fmt.Sprintf("working directory %q does not exist, using home directory", dir)
	}
	return dir, ""
}

// validateConfig rejects values normalizeConfig cannot repair.
func validateConfig(config *Config) error {
	var validationErrors []string

	if config.Content.Program == "" {
		validationErrors = append(validationErrors, "content.program cannot be empty")
	}

	if config.Window.TitlebarHeight < 0 {
		validationErrors = append(validationErrors, "window.titlebar_height must be non-negative")
	}
	if config.Window.ContentInset < 0 {
		validationErrors = append(validationErrors, "window.content_inset must be non-negative")
	}
	if config.Window.MinWidth < 1 || config.Window.MinHeight < 1 {
		validationErrors = append(validationErrors, "window.min_width and window.min_height must be positive")
	}

	if config.Discovery.Interval <= 0 {
		validationErrors = append(validationErrors, "discovery.interval must be positive")
	}
	if config.Discovery.MaxAttempts < 1 {
		validationErrors = append(validationErrors, "discovery.max_attempts must be at least 1")
	}

	for i, p := range config.Profiles {
		if p.Name == "" {
			validationErrors = append(validationErrors, fmt.Sprintf("profiles[%d].name cannot be empty", i))
		}
	}

	for hk, num := range config.Hotkeys.Tab {
		if num < 1 || num > 10 {
			validationErrors = append(validationErrors, fmt.Sprintf("hotkeys.tab[%q] must target tab 1-10 (got: %d)", hk, num))
		}
	}

	if config.Session.AutosaveInterval < 0 {
		validationErrors = append(validationErrors, "session.autosave_interval must be non-negative")
	}

	if len(validationErrors) > 0 {
		return fmt.Errorf("config validation failed:\n  - %s", strings.Join(validationErrors, "\n  - "))
	}

	return nil
}
