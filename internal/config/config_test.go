package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseHexColor(t *testing.T) {
	t.Parallel()

	valid := []struct {
		in   string
		want uint32
	}{
		{"1a1b26", 0x1a1b26},
		{"ffffff", 0xffffff},
		{"000000", 0x000000},
		{"ABCDEF", 0xABCDEF},
		{"#1a1b26", 0x1a1b26},
		{"#ff0000", 0xff0000},
	}
	for _, tt := range valid {
		got, ok := ParseHexColor(tt.in)
		assert.True(t, ok, "ParseHexColor(%q)", tt.in)
		assert.Equal(t, tt.want, got, "ParseHexColor(%q)", tt.in)
	}

	invalid := []string{"", "#", "1a1b2", "1a1b267", "#1a1b2", "gggggg", "##1a1b26"}
	for _, in := range invalid {
		_, ok := ParseHexColor(in)
		assert.False(t, ok, "ParseHexColor(%q) must fail", in)
	}
}

func TestDefaultConfig(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	assert.Equal(t, DefaultBackgroundColor, cfg.Window.BackgroundColor)
	assert.Equal(t, int32(32), cfg.Window.TitlebarHeight)
	assert.Equal(t, int32(800), cfg.Window.MinWidth)
	assert.Equal(t, int32(600), cfg.Window.MinHeight)

	assert.Equal(t, "neovide", cfg.Content.Program)

	assert.Equal(t, "Neovide", cfg.Discovery.Title)
	assert.Equal(t, "Window Class", cfg.Discovery.Class)
	assert.Equal(t, 100*time.Millisecond, cfg.Discovery.Interval)
	assert.Equal(t, 600, cfg.Discovery.MaxAttempts)

	require.Len(t, cfg.Profiles, 1)
	assert.Equal(t, DefaultProfileName, cfg.Profiles[0].Name)
	assert.Equal(t, DefaultProfileHotkey, cfg.Profiles[0].Hotkey)

	assert.Len(t, cfg.Hotkeys.Tab, 10)
	assert.True(t, cfg.Session.Restore)
}

func TestDefaultTabHotkeys(t *testing.T) {
	t.Parallel()

	hotkeys := DefaultTabHotkeys()
	require.Len(t, hotkeys, 10)
	assert.Equal(t, 1, hotkeys["Ctrl+Shift+1"])
	assert.Equal(t, 9, hotkeys["Ctrl+Shift+9"])
	assert.Equal(t, 10, hotkeys["Ctrl+Shift+0"])
}

func TestSpawnArgs(t *testing.T) {
	t.Parallel()

	content := DefaultConfig().Content
	assert.Equal(t, []string{"--frame=none", "--size=1280x720"}, content.SpawnArgs(1280, 720))

	empty := ContentConfig{Program: "foo"}
	assert.Empty(t, empty.SpawnArgs(800, 600))

	sizeOnly := ContentConfig{SizeArgTemplate: "--geometry=%dx%d"}
	assert.Equal(t, []string{"--geometry=800x600"}, sizeOnly.SpawnArgs(800, 600))
}

func TestBackgroundRGB(t *testing.T) {
	t.Parallel()

	assert.Equal(t, uint32(0xff0000), WindowConfig{BackgroundColor: "#ff0000"}.BackgroundRGB())
	assert.Equal(t, uint32(0x1a1b26), WindowConfig{BackgroundColor: "invalid"}.BackgroundRGB())
	assert.Equal(t, uint32(0x1a1b26), WindowConfig{}.BackgroundRGB())
}

func TestNormalizeProfilesEmpty(t *testing.T) {
	profiles, warnings := normalizeProfiles(nil, nil)
	require.Len(t, profiles, 1)
	assert.Equal(t, DefaultProfileName, profiles[0].Name)
	assert.Equal(t, DefaultProfileHotkey, profiles[0].Hotkey)
	assert.NotEmpty(t, profiles[0].WorkingDirectory)
	assert.Empty(t, warnings)
}

func TestNormalizeProfilesKeepsUserDefault(t *testing.T) {
	profiles, _ := normalizeProfiles([]Profile{
		{Name: "Default", Icon: "custom.png", WorkingDirectory: "~"},
	}, nil)
	require.Len(t, profiles, 1)
	assert.Equal(t, DefaultProfileName, profiles[0].Name)
	assert.Equal(t, "custom.png", profiles[0].Icon)
	// A user-defined Default without a hotkey keeps none.
	assert.Empty(t, profiles[0].Hotkey)
}

func TestNormalizeProfilesInsertsDefaultFront(t *testing.T) {
	profiles, _ := normalizeProfiles([]Profile{{Name: "Work"}}, nil)
	require.Len(t, profiles, 2)
	assert.Equal(t, DefaultProfileName, profiles[0].Name)
	assert.Equal(t, DefaultProfileHotkey, profiles[0].Hotkey)
	assert.Equal(t, "Work", profiles[1].Name)
	assert.Empty(t, profiles[1].Hotkey)
	assert.Equal(t, DefaultIcon, profiles[1].Icon)
}

func TestNormalizeProfilesMovesDefaultToFront(t *testing.T) {
	profiles, _ := normalizeProfiles([]Profile{
		{Name: "Work"},
		{Name: "Default", Hotkey: "Ctrl+Shift+F2"},
	}, nil)
	require.Len(t, profiles, 2)
	assert.Equal(t, DefaultProfileName, profiles[0].Name)
	// The user's hotkey for Default is preserved across the move.
	assert.Equal(t, "Ctrl+Shift+F2", profiles[0].Hotkey)
	assert.Equal(t, "Work", profiles[1].Name)
}

func TestResolveWorkingDir(t *testing.T) {
	home := "/home/test"

	got, warning := resolveWorkingDir("~", home)
	assert.Equal(t, home, got)
	assert.Empty(t, warning)

	got, warning = resolveWorkingDir("~/projects", home)
	assert.Equal(t, filepath.Join(home, "projects"), got)
	assert.Empty(t, warning)

	got, warning = resolveWorkingDir("", home)
	assert.Equal(t, home, got)
	assert.Empty(t, warning)

	existing := t.TempDir()
	got, warning = resolveWorkingDir(existing, home)
	assert.Equal(t, existing, got)
	assert.Empty(t, warning)

	got, warning = resolveWorkingDir("/definitely/not/a/real/dir", home)
	assert.Equal(t, home, got)
	assert.Contains(t, warning, "does not exist")
}

func TestNormalizeConfigHotkeys(t *testing.T) {
	cfg := &Config{Window: WindowConfig{BackgroundColor: DefaultBackgroundColor}}
	normalizeConfig(cfg)
	assert.Len(t, cfg.Hotkeys.Tab, 10, "missing table enables stock bindings")

	cfg = &Config{
		Window:  WindowConfig{BackgroundColor: DefaultBackgroundColor},
		Hotkeys: HotkeysConfig{Tab: map[string]int{}},
	}
	normalizeConfig(cfg)
	assert.Empty(t, cfg.Hotkeys.Tab, "explicitly empty table disables bindings")

	cfg = &Config{
		Window:  WindowConfig{BackgroundColor: DefaultBackgroundColor},
		Hotkeys: HotkeysConfig{Tab: map[string]int{"Alt+1": 1, "Alt+2": 2}},
	}
	normalizeConfig(cfg)
	assert.Len(t, cfg.Hotkeys.Tab, 2)
	assert.Equal(t, 1, cfg.Hotkeys.Tab["Alt+1"])
}

func TestNormalizeConfigBackgroundColor(t *testing.T) {
	cfg := &Config{Window: WindowConfig{BackgroundColor: "invalid"}}
	warnings := normalizeConfig(cfg)
	assert.Equal(t, DefaultBackgroundColor, cfg.Window.BackgroundColor)
	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0], "invalid background color")

	cfg = &Config{}
	warnings = normalizeConfig(cfg)
	assert.Equal(t, DefaultBackgroundColor, cfg.Window.BackgroundColor)
	assert.Empty(t, warnings, "an unset color is not worth a warning")

	cfg = &Config{Window: WindowConfig{BackgroundColor: "#ff0000"}}
	normalizeConfig(cfg)
	assert.Equal(t, "#ff0000", cfg.Window.BackgroundColor)
}

func TestValidateConfig(t *testing.T) {
	t.Parallel()

	valid := DefaultConfig()
	require.NoError(t, validateConfig(valid))

	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"emptyProgram", func(c *Config) { c.Content.Program = "" }, "content.program"},
		{"negativeTitlebar", func(c *Config) { c.Window.TitlebarHeight = -1 }, "titlebar_height"},
		{"negativeInset", func(c *Config) { c.Window.ContentInset = -1 }, "content_inset"},
		{"zeroMinWidth", func(c *Config) { c.Window.MinWidth = 0 }, "min_width"},
		{"zeroInterval", func(c *Config) { c.Discovery.Interval = 0 }, "discovery.interval"},
		{"zeroAttempts", func(c *Config) { c.Discovery.MaxAttempts = 0 }, "max_attempts"},
		{"emptyProfileName", func(c *Config) { c.Profiles[0].Name = "" }, "profiles[0].name"},
		{"tabTargetZero", func(c *Config) { c.Hotkeys.Tab["Ctrl+Shift+1"] = 0 }, "target tab 1-10"},
		{"tabTargetEleven", func(c *Config) { c.Hotkeys.Tab["Ctrl+Shift+1"] = 11 }, "target tab 1-10"},
		{"negativeAutosave", func(c *Config) { c.Session.AutosaveInterval = -time.Second }, "autosave_interval"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := validateConfig(cfg)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func setTestDirs(t *testing.T) string {
	t.Helper()
	tmp := t.TempDir()
	t.Setenv("ENV", "")
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(tmp, "config"))
	t.Setenv("XDG_DATA_HOME", filepath.Join(tmp, "data"))
	t.Setenv("XDG_STATE_HOME", filepath.Join(tmp, "state"))
	return tmp
}

func TestManagerLoadCreatesDefaultConfig(t *testing.T) {
	tmp := setTestDirs(t)

	m, err := NewManager()
	require.NoError(t, err)
	require.NoError(t, m.Load())

	configFile := filepath.Join(tmp, "config", "tabnest", "config.toml")
	data, err := os.ReadFile(configFile)
	require.NoError(t, err, "Load must write a default config file")
	assert.Contains(t, string(data), "background_color")

	_, err = os.Stat(filepath.Join(tmp, "config", "tabnest", "config.schema.json"))
	assert.NoError(t, err, "Load must write the schema next to the config")

	cfg := m.Get()
	require.Len(t, cfg.Profiles, 1)
	assert.Equal(t, DefaultProfileName, cfg.Profiles[0].Name)
	assert.Len(t, cfg.Hotkeys.Tab, 10)
	assert.Equal(t, filepath.Join(tmp, "data", "tabnest", "tabnest.sqlite"), cfg.Database.Path)

	// A second startup must be able to read the file it just wrote.
	m2, err := NewManager()
	require.NoError(t, err)
	require.NoError(t, m2.Load())
	assert.Equal(t, "neovide", m2.Get().Content.Program)
	assert.Equal(t, 100*time.Millisecond, m2.Get().Discovery.Interval)
}

func TestManagerLoadReadsExistingConfig(t *testing.T) {
	tmp := setTestDirs(t)

	configDir := filepath.Join(tmp, "config", "tabnest")
	require.NoError(t, os.MkdirAll(configDir, 0o755))
	content := `
[window]
background_color = "#ff0000"
titlebar_height = 40

[[profiles]]
name = "Work"
working_directory = "~/code"

[hotkeys.tab]
"Ctrl+Shift+1" = 1
`
	require.NoError(t, os.WriteFile(filepath.Join(configDir, "config.toml"), []byte(content), 0o644))

	m, err := NewManager()
	require.NoError(t, err)
	require.NoError(t, m.Load())

	cfg := m.Get()
	assert.Equal(t, uint32(0xff0000), cfg.Window.BackgroundRGB())
	assert.Equal(t, int32(40), cfg.Window.TitlebarHeight)
	// Untouched sections keep their defaults.
	assert.Equal(t, "neovide", cfg.Content.Program)
	assert.Equal(t, 600, cfg.Discovery.MaxAttempts)

	require.Len(t, cfg.Profiles, 2)
	assert.Equal(t, DefaultProfileName, cfg.Profiles[0].Name)
	assert.Equal(t, "Work", cfg.Profiles[1].Name)
	home, err := os.UserHomeDir()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "code"), cfg.Profiles[1].WorkingDirectory)

	// Viper lowercases map keys read from the file; the parser in the
	// hotkeys package is case-insensitive so the binding still works.
	require.Len(t, cfg.Hotkeys.Tab, 1)
	for k, v := range cfg.Hotkeys.Tab {
		assert.Equal(t, "ctrl+shift+1", strings.ToLower(k))
		assert.Equal(t, 1, v)
	}
}

func TestManagerGetReturnsCopy(t *testing.T) {
	setTestDirs(t)

	m, err := NewManager()
	require.NoError(t, err)
	require.NoError(t, m.Load())

	first := m.Get()
	first.Profiles[0].Name = "mutated"
	first.Hotkeys.Tab["Ctrl+Shift+1"] = 7

	second := m.Get()
	assert.Equal(t, DefaultProfileName, second.Profiles[0].Name)
	assert.Equal(t, 1, second.Hotkeys.Tab["Ctrl+Shift+1"])
}
