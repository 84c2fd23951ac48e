package cmd

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"

	"github.com/tabnest/tabnest/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect and manage the configuration",
	Long: `Inspect and manage the tabnest configuration.

The configuration lives in a TOML file under the user config directory
and can be overridden per-key with TABNEST_* environment variables.

  tabnest config path      # where the file is
  tabnest config show      # the effective configuration
  tabnest config schema    # JSON schema for editor completion
  tabnest config init      # write the default file if missing`,
}

func init() {
	rootCmd.AddCommand(configCmd)
}

// config path
var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the configuration file path",
	RunE:  runConfigPath,
}

func init() {
	configCmd.AddCommand(configPathCmd)
}

func runConfigPath(_ *cobra.Command, _ []string) error {
	file, err := resolvedConfigFile()
	if err != nil {
		return err
	}
	fmt.Println(file)
	return nil
}

// config show
var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration as TOML",
	Long: `Print the configuration the host would run with: file values,
environment overrides, and defaults for everything unset.`,
	RunE: runConfigShow,
}

func init() {
	configCmd.AddCommand(configShowCmd)
}

func runConfigShow(_ *cobra.Command, _ []string) error {
	cliApp := GetApp()
	if cliApp == nil {
		return fmt.Errorf("app not initialized")
	}
	if cliApp.Manager == nil {
		fmt.Fprintln(os.Stderr, "Warning: configuration file failed to load; showing built-in defaults")
	}

	data, err := toml.Marshal(cliApp.Config)
	if err != nil {
		return fmt.Errorf("marshal configuration: %w", err)
	}
	fmt.Print(string(data))
	return nil
}

// config schema
var configSchemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Print the configuration JSON schema",
	Long: `Print the JSON schema for the configuration file.

Point your editor's TOML language server at it (or at the copy written
next to the config file) for completion and validation.`,
	RunE: runConfigSchema,
}

func init() {
	configCmd.AddCommand(configSchemaCmd)
}

func runConfigSchema(_ *cobra.Command, _ []string) error {
	data, err := config.SchemaJSON()
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}

// config init
var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create the default configuration file",
	Long: `Create the default configuration file if none exists.

An existing file is never overwritten, even when it fails to parse.`,
	RunE: runConfigInit,
}

func init() {
	configCmd.AddCommand(configInitCmd)
}

func runConfigInit(_ *cobra.Command, _ []string) error {
	file, err := resolvedConfigFile()
	if err != nil {
		return err
	}
	if _, statErr := os.Stat(file); statErr == nil {
		fmt.Printf("Configuration file already exists: %s\n", file)
		return nil
	}

	// Load creates the default file and schema when none is found.
	mgr, err := config.NewManager()
	if err != nil {
		return err
	}
	if err := mgr.Load(); err != nil {
		return fmt.Errorf("create default configuration: %w", err)
	}
	fmt.Printf("Created configuration file: %s\n", file)
	return nil
}

// resolvedConfigFile prefers the file viper actually read; first runs
// fall back to the canonical location the default was written to.
func resolvedConfigFile() (string, error) {
	cliApp := GetApp()
	if cliApp != nil && cliApp.Manager != nil {
		if file := cliApp.Manager.GetConfigFile(); file != "" {
			return file, nil
		}
	}
	return config.GetConfigFile()
}
