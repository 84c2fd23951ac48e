// Package config provides default configuration values for tabnest.
package config

import (
	"fmt"
	"time"
)

// Default configuration constants
const (
	// DefaultBackgroundColor is the host window background (Tokyo Night dark).
	DefaultBackgroundColor = "#1a1b26"

	// DefaultIcon is the tab icon filename used when a profile declares none.
	DefaultIcon = "neovide.png"

	// AppIcon is the host window icon filename.
	AppIcon = "tabnest.png"

	// DefaultProfileName names the generated fallback profile.
	DefaultProfileName = "Default"

	// DefaultProfileHotkey is the hotkey bound to the generated Default profile.
	DefaultProfileHotkey = "Ctrl+Shift+F1"

	// Content process defaults
	defaultProgram         = "neovide"
	defaultFrameArg        = "--frame=none"
	defaultSizeArgTemplate = "--size=%dx%d"

	// Window discovery defaults: the content window is matched by exact
	// title and class.
	defaultWindowTitle = "Neovide"
	defaultWindowClass = "Window Class"

	defaultDiscoveryInterval    = 100 * time.Millisecond
	defaultDiscoveryMaxAttempts = 600

	// Host window defaults
	defaultTitlebarHeight = 32
	defaultContentInset   = 0
	defaultMinWidth       = 800
	defaultMinHeight      = 600

	// Session defaults
	defaultAutosaveInterval = 30 * time.Second
)

// DefaultConfig returns the default configuration values for tabnest.
func DefaultConfig() *Config {
	return &Config{
		Content: ContentConfig{
			Program:         defaultProgram,
			FrameArg:        defaultFrameArg,
			SizeArgTemplate: defaultSizeArgTemplate,
		},
		Window: WindowConfig{
			BackgroundColor: DefaultBackgroundColor,
			TitlebarHeight:  defaultTitlebarHeight,
			ContentInset:    defaultContentInset,
			MinWidth:        defaultMinWidth,
			MinHeight:       defaultMinHeight,
		},
		Discovery: DiscoveryConfig{
			Title:       defaultWindowTitle,
			Class:       defaultWindowClass,
			Interval:    defaultDiscoveryInterval,
			MaxAttempts: defaultDiscoveryMaxAttempts,
		},
		Profiles: []Profile{DefaultProfile()},
		Hotkeys: HotkeysConfig{
			Tab: DefaultTabHotkeys(),
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
		Session: SessionConfig{
			Restore:          true,
			AutosaveInterval: defaultAutosaveInterval,
		},
	}
}

// DefaultProfile returns the generated Default profile: home directory,
// stock icon, stock hotkey.
func DefaultProfile() Profile {
	return Profile{
		Name:   DefaultProfileName,
		Icon:   DefaultIcon,
		Hotkey: DefaultProfileHotkey,
	}
}

// DefaultTabHotkeys returns the stock tab bindings: Ctrl+Shift+1 through
// Ctrl+Shift+9 select tabs 1-9, Ctrl+Shift+0 selects tab 10.
func DefaultTabHotkeys() map[string]int {
	m := make(map[string]int, 10)
	for i := 1; i <= 9; i++ {
		m[fmt.Sprintf("Ctrl+Shift+%d", i)] = i
	}
	m["Ctrl+Shift+0"] = 10
	return m
}
