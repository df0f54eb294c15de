package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
	"xmedia/pkg/config"
	"xmedia/pkg/ui"
)

// configCmd represents the config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration files",
	Long: `Manage xmedia configuration files.

Configuration can be loaded from:
  - Command line flags (highest priority)
  - Environment variables (XMEDIA_*)
  - .env file
  - Configuration file
  - Default values (lowest priority)`,
}

// initCmd represents the config init command
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write the default configuration to a file",
	Long: `Write every option with its default value to .xmedia.yaml in the
current directory, or to the path given with --config.`,
	Args: cobra.NoArgs,
	RunE: runConfigInit,
}

// showCmd represents the config show command
var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective configuration",
	Args:  cobra.NoArgs,
	RunE:  runConfigShow,
}

// validateCmd represents the config validate command
var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the configuration",
	Long: `Load the configuration from all sources and check it.

Besides value ranges this checks that the output and log directories can be
created.`,
	Args: cobra.NoArgs,
	RunE: runConfigValidate,
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(initCmd)
	configCmd.AddCommand(showCmd)
	configCmd.AddCommand(validateCmd)
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	configPath := configFile
	if configPath == "" {
		configPath = ".xmedia.yaml"
	}

	if _, err := os.Stat(configPath); err == nil {
		return fmt.Errorf("configuration file already exists: %s", configPath)
	}

	if err := config.DefaultConfig().Save(configPath); err != nil {
		return err
	}

	ui.PrintSuccess("Configuration file created: " + configPath)
	fmt.Println("\nNext steps:")
	fmt.Println("1. Adjust the scroll count and the yt-dlp path")
	fmt.Println("2. Run 'xmedia config validate' to check the configuration")
	fmt.Println("3. Start Chrome with --remote-debugging-port=9222 and run 'xmedia <username>'")
	return nil
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configFile, nil)
	if err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to format configuration: %w", err)
	}

	ui.PrintHighlight("Current Configuration")
	fmt.Println()
	fmt.Print(string(data))

	fmt.Println("\nConfiguration sources (in order of priority):")
	fmt.Println("1. Command line flags")
	fmt.Println("2. Environment variables (XMEDIA_*)")
	fmt.Println("3. .env file")
	if configFile != "" {
		fmt.Printf("4. Configuration file: %s\n", configFile)
	} else {
		fmt.Println("4. Configuration file: (searched in default locations)")
	}
	fmt.Println("5. Default values")
	return nil
}

func runConfigValidate(cmd *cobra.Command, args []string) error {
	if configFile != "" {
		ui.PrintInfo("Validating configuration", configFile)
	}

	cfg, err := config.Load(configFile, nil)
	if err != nil {
		return err
	}

	var problems []string
	if err := os.MkdirAll(cfg.Output.BaseDirectory, 0755); err != nil {
		problems = append(problems, fmt.Sprintf("Cannot create output directory: %v", err))
	}
	if cfg.Logging.File != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.Logging.File), 0755); err != nil {
			problems = append(problems, fmt.Sprintf("Cannot create log directory: %v", err))
		}
	}

	if len(problems) > 0 {
		for _, p := range problems {
			fmt.Printf("  - %s\n", p)
		}
		return fmt.Errorf("configuration has %d error(s)", len(problems))
	}

	ui.PrintSuccess("Configuration is valid")

	fmt.Println("\nConfiguration summary:")
	fmt.Printf("  Debug URL: %s\n", cfg.Browser.DebugURL)
	fmt.Printf("  Max scrolls: %d\n", cfg.Scroll.MaxIterations)
	fmt.Printf("  Output directory: %s\n", cfg.Output.BaseDirectory)
	fmt.Printf("  Downloader: %s\n", cfg.Downloader.Path)
	fmt.Printf("  Log level: %s\n", cfg.Logging.Level)
	return nil
}
