// Package config provides configuration management for tabnest with Viper integration.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/viper"
)

// File permission constants
const (
	dirPerm  = 0755 // Standard directory permissions (rwxr-xr-x)
	filePerm = 0644 // Standard file permissions (rw-r--r--)
)

// Config represents the complete configuration for tabnest.
type Config struct {
	Content   ContentConfig   `mapstructure:"content" toml:"content" json:"content"`
	Window    WindowConfig    `mapstructure:"window" toml:"window" json:"window"`
	Discovery DiscoveryConfig `mapstructure:"discovery" toml:"discovery" json:"discovery"`
	Profiles  []Profile       `mapstructure:"profiles" toml:"profiles" json:"profiles"`
	Hotkeys   HotkeysConfig   `mapstructure:"hotkeys" toml:"hotkeys" json:"hotkeys"`
	Logging   LoggingConfig   `mapstructure:"logging" toml:"logging" json:"logging"`
	Database  DatabaseConfig  `mapstructure:"database" toml:"database" json:"database"`
	Session   SessionConfig   `mapstructure:"session" toml:"session" json:"session"`
}

// ContentConfig describes the child process hosted in each tab.
type ContentConfig struct {
	// Program is the executable looked up on PATH.
	Program string `mapstructure:"program" toml:"program" json:"program"`
	// FrameArg strips the child's own window decorations.
	FrameArg string `mapstructure:"frame_arg" toml:"frame_arg" json:"frame_arg"`
	// SizeArgTemplate receives the content area width and height.
	SizeArgTemplate string `mapstructure:"size_arg_template" toml:"size_arg_template" json:"size_arg_template"`
}

// SpawnArgs builds the argument list for a content process sized to the
// host's content area. Empty template fields are omitted.
func (c ContentConfig) SpawnArgs(width, height int32) []string {
	var args []string
	if c.FrameArg != "" {
		args = append(args, c.FrameArg)
	}
	if c.SizeArgTemplate != "" {
		args = append(args, fmt.Sprintf(c.SizeArgTemplate, width, height))
	}
	return args
}

// WindowConfig holds host window appearance and geometry limits.
type WindowConfig struct {
	// BackgroundColor is a hex RGB string, with or without # prefix.
	BackgroundColor string `mapstructure:"background_color" toml:"background_color" json:"background_color"`
	TitlebarHeight  int32  `mapstructure:"titlebar_height" toml:"titlebar_height" json:"titlebar_height"`
	// ContentInset shrinks the content rectangle on all sides.
	ContentInset int32 `mapstructure:"content_inset" toml:"content_inset" json:"content_inset"`
	MinWidth     int32 `mapstructure:"min_width" toml:"min_width" json:"min_width"`
	MinHeight    int32 `mapstructure:"min_height" toml:"min_height" json:"min_height"`
}

// BackgroundRGB returns the parsed background color as 0x00RRGGBB,
// falling back to the stock color when the string does not parse.
func (w WindowConfig) BackgroundRGB() uint32 {
	if rgb, ok := ParseHexColor(w.BackgroundColor); ok {
		return rgb
	}
	rgb, _ := ParseHexColor(DefaultBackgroundColor)
	return rgb
}

// DiscoveryConfig controls how a freshly spawned content window is found.
type DiscoveryConfig struct {
	// Title and Class must match the content window exactly.
	Title       string        `mapstructure:"title" toml:"title" json:"title"`
	Class       string        `mapstructure:"class" toml:"class" json:"class"`
	Interval    time.Duration `mapstructure:"interval" toml:"interval" json:"interval"`
	MaxAttempts int           `mapstructure:"max_attempts" toml:"max_attempts" json:"max_attempts"`
}

// Profile describes one tab preset.
type Profile struct {
	// Name identifies the profile; the first profile is always "Default".
	Name string `mapstructure:"name" toml:"name" json:"name"`
	// Icon is the tab icon filename.
	Icon string `mapstructure:"icon" toml:"icon" json:"icon,omitempty"`
	// WorkingDirectory is where the content process starts; supports ~.
	WorkingDirectory string `mapstructure:"working_directory" toml:"working_directory" json:"working_directory,omitempty"`
	// Hotkey is an optional global binding that opens or focuses this profile.
	Hotkey string `mapstructure:"hotkey" toml:"hotkey" json:"hotkey,omitempty"`
	// Title is the tab title format; empty means the profile name.
	Title string `mapstructure:"title" toml:"title" json:"title,omitempty"`
}

// HotkeysConfig holds global hotkey bindings.
type HotkeysConfig struct {
	// Tab maps a binding string to a 1-based tab number. A missing table
	// enables the stock bindings; an explicitly empty one disables them.
	Tab map[string]int `mapstructure:"tab" toml:"tab" json:"tab"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level  string `mapstructure:"level" toml:"level" json:"level"`
	Format string `mapstructure:"format" toml:"format" json:"format"`
}

// DatabaseConfig holds database-related configuration.
type DatabaseConfig struct {
	Path string `mapstructure:"path" toml:"path" json:"path,omitempty"`
}

// SessionConfig controls session snapshot and restore behavior.
type SessionConfig struct {
	Restore          bool          `mapstructure:"restore" toml:"restore" json:"restore"`
	AutosaveInterval time.Duration `mapstructure:"autosave_interval" toml:"autosave_interval" json:"autosave_interval"`
}

// Manager handles configuration loading, watching, and reloading.
type Manager struct {
	config    *Config
	viper     *viper.Viper
	mu        sync.RWMutex
	callbacks []func(*Config)
	watching  bool
}

// NewManager creates a new configuration manager.
func NewManager() (*Manager, error) {
	v := viper.New()

	// Configure Viper - supports toml, yaml, json automatically
	v.SetConfigName("config")

	configDir, err := GetConfigDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get config directory: %w", err)
	}
	v.AddConfigPath(configDir)
	v.AddConfigPath(".") // Current directory for development

	// Set up environment variable support
	v.SetEnvPrefix("TABNEST")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Bind specific environment variables
	bindings := map[string]string{
		"content.program":           "CONTENT_PROGRAM",
		"window.background_color":   "WINDOW_BACKGROUND_COLOR",
		"window.titlebar_height":    "WINDOW_TITLEBAR_HEIGHT",
		"discovery.title":           "DISCOVERY_TITLE",
		"discovery.class":           "DISCOVERY_CLASS",
		"logging.level":             "LOGGING_LEVEL",
		"logging.format":            "LOGGING_FORMAT",
		"database.path":             "DATABASE_PATH",
		"session.restore":           "SESSION_RESTORE",
		"session.autosave_interval": "SESSION_AUTOSAVE_INTERVAL",
	}

	for key, env := range bindings {
		if err := v.BindEnv(key, "TABNEST_"+env); err != nil {
			return nil, fmt.Errorf("failed to bind environment variable %s: %w", env, err)
		}
	}

	return &Manager{
		viper:     v,
		callbacks: make([]func(*Config), 0),
	}, nil
}

// Load loads the configuration from file and environment variables.
func (m *Manager) Load() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	// Ensure directories exist
	if err := EnsureDirectories(); err != nil {
		return fmt.Errorf("failed to ensure directories: %w", err)
	}

	// Set defaults
	m.setDefaults()

	// Read config file if it exists
	if err := m.viper.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if errors.As(err, &configFileNotFoundError) {
			// Config file not found, create default one
			if err := m.createDefaultConfig(); err != nil {
				return fmt.Errorf("failed to create default config: %w", err)
			}
		} else {
			return fmt.Errorf("failed to read config file: %w", err)
		}
	}

	config, err := m.unmarshal()
	if err != nil {
		return err
	}

	m.config = config
	return nil
}

// unmarshal decodes, normalizes and validates the current Viper state.
func (m *Manager) unmarshal() (*Config, error) {
	config := &Config{}
	if err := m.viper.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Set database path if not specified
	if config.Database.Path == "" {
		dbPath, err := GetDatabaseFile()
		if err != nil {
			return nil, fmt.Errorf("failed to get database path: %w", err)
		}
		config.Database.Path = dbPath
	}

	// Apply the lenient fallbacks first, then reject what cannot be
	// repaired. A typo in one profile should not take down the host.
	for _, warning := range normalizeConfig(config) {
		fmt.Fprintf(os.Stderr, "Warning: %s\n", warning)
	}
	if err := validateConfig(config); err != nil {
		return nil, err
	}

	return config, nil
}

// Get returns the current configuration (thread-safe).
func (m *Manager) Get() *Config {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.config.clone()
}

// clone copies the config deeply enough that callers can hold onto it
// across reloads.
func (c *Config) clone() *Config {
	out := *c
	out.Profiles = make([]Profile, len(c.Profiles))
	copy(out.Profiles, c.Profiles)
	if c.Hotkeys.Tab != nil {
		out.Hotkeys.Tab = make(map[string]int, len(c.Hotkeys.Tab))
		for k, v := range c.Hotkeys.Tab {
			out.Hotkeys.Tab[k] = v
		}
	}
	return &out
}

// Watch starts watching the config file for changes and reloads automatically.
func (m *Manager) Watch() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.watching {
		return nil // Already watching
	}

	m.viper.WatchConfig()
	m.viper.OnConfigChange(func(_ fsnotify.Event) {
		// Reload config
		if err := m.reload(); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to reload config: %v\n", err)
			return
		}

		// Notify callbacks
		m.mu.RLock()
		config := m.config
		callbacks := make([]func(*Config), len(m.callbacks))
		copy(callbacks, m.callbacks)
		m.mu.RUnlock()

		for _, callback := range callbacks {
			callback(config)
		}
	})

	m.watching = true
	return nil
}

// OnConfigChange registers a callback function to be called when config changes.
func (m *Manager) OnConfigChange(callback func(*Config)) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.callbacks = append(m.callbacks, callback)
}

// reload reloads the configuration after a file change.
func (m *Manager) reload() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.viper.ReadInConfig(); err != nil {
		return err
	}

	config, err := m.unmarshal()
	if err != nil {
		return err
	}

	m.config = config
	return nil
}

// setDefaults sets default configuration values in Viper.
func (m *Manager) setDefaults() {
	defaults := DefaultConfig()

	// Content defaults
	m.viper.SetDefault("content.program", defaults.Content.Program)
	m.viper.SetDefault("content.frame_arg", defaults.Content.FrameArg)
	m.viper.SetDefault("content.size_arg_template", defaults.Content.SizeArgTemplate)

	// Window defaults
	m.viper.SetDefault("window.background_color", defaults.Window.BackgroundColor)
	m.viper.SetDefault("window.titlebar_height", defaults.Window.TitlebarHeight)
	m.viper.SetDefault("window.content_inset", defaults.Window.ContentInset)
	m.viper.SetDefault("window.min_width", defaults.Window.MinWidth)
	m.viper.SetDefault("window.min_height", defaults.Window.MinHeight)

	// Discovery defaults
	m.viper.SetDefault("discovery.title", defaults.Discovery.Title)
	m.viper.SetDefault("discovery.class", defaults.Discovery.Class)
	m.viper.SetDefault("discovery.interval", defaults.Discovery.Interval)
	m.viper.SetDefault("discovery.max_attempts", defaults.Discovery.MaxAttempts)

	// Logging defaults
	m.viper.SetDefault("logging.level", defaults.Logging.Level)
	m.viper.SetDefault("logging.format", defaults.Logging.Format)

	// Session defaults
	m.viper.SetDefault("session.restore", defaults.Session.Restore)
	m.viper.SetDefault("session.autosave_interval", defaults.Session.AutosaveInterval)

	// profiles and hotkeys.tab deliberately have no Viper defaults:
	// normalizeConfig distinguishes an absent table (stock values) from
	// an explicitly empty one (feature disabled).
}

// createDefaultConfig creates a default configuration file and its schema.
func (m *Manager) createDefaultConfig() error {
	configFile, err := GetConfigFile()
	if err != nil {
		return err
	}

	// Create config directory if it doesn't exist
	if err := os.MkdirAll(filepath.Dir(configFile), dirPerm); err != nil {
		return err
	}

	configData, err := toml.Marshal(DefaultConfig())
	if err != nil {
		return fmt.Errorf("failed to marshal default config: %w", err)
	}

	if err := os.WriteFile(configFile, configData, filePerm); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	fmt.Printf("Created default configuration file: %s\n", configFile)

	if err := GenerateSchemaFile(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to generate config schema: %v\n", err)
	}
	return nil
}

// GetConfigFile returns the path to the configuration file being used.
func (m *Manager) GetConfigFile() string {
	return m.viper.ConfigFileUsed()
}

// Global configuration manager instance
var globalManager *Manager
var globalManagerOnce sync.Once

// Init initializes the global configuration manager.
func Init() error {
	var err error
	globalManagerOnce.Do(func() {
		globalManager, err = NewManager()
		if err != nil {
			return
		}
		err = globalManager.Load()
	})
	return err
}

// Get returns the global configuration.
func Get() *Config {
	if globalManager == nil {
		// Return defaults if not initialized
		return DefaultConfig()
	}
	return globalManager.Get()
}

// Watch starts watching the global configuration for changes.
func Watch() error {
	if globalManager == nil {
		return fmt.Errorf("configuration not initialized")
	}
	return globalManager.Watch()
}

// OnConfigChange registers a callback for global configuration changes.
func OnConfigChange(callback func(*Config)) {
	if globalManager == nil {
		return
	}
	globalManager.OnConfigChange(callback)
}
