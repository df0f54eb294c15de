package main

import (
	"fmt"
	"os"
	"runtime"

	"github.com/spf13/cobra"
	"xmedia/pkg/logger"
	"xmedia/pkg/ui"
)

var (
	// Version information
	version   = "1.0.0"
	gitCommit = "unknown"
	buildDate = "unknown"

	// Global flags
	configFile string
	logLevel   string
	noColor    bool
	quiet      bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "xmedia [username]",
	Short: "Collect images and videos from a profile's media timeline",
	Long: `xmedia scrolls a profile's media timeline in your own Chrome session,
downloads every image it finds and hands the video posts to yt-dlp.

Chrome must already be running with remote debugging enabled, for example:

  google-chrome --remote-debugging-port=9222

Configuration is read from command line flags, XMEDIA_* environment
variables, a .env file and .xmedia.yaml, in that order of priority.`,
	Version:       fmt.Sprintf("%s (commit: %s, built: %s)", version, gitCommit, buildDate),
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		ui.SetNoColor(noColor)
		if quiet || logLevel == "error" {
			ui.SetQuietMode(true)
		}

		if cmd.Name() != "version" && cmd.Name() != "help" && cmd.Name() != "config" && cmd.Parent() != configCmd {
			ui.PrintLogo()
		}
	},
	Args: cobra.MaximumNArgs(1),
}

// Execute is the single error boundary of the program: any error returned by
// a command is logged and the process exits with status 1.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		logger.WithError(err).Error("Run failed")
		ui.PrintError("Error", err.Error())
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "config file (default is ./.xmedia.yaml or $HOME/.xmedia.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "suppress all output except errors")

	rootCmd.SetVersionTemplate(`xmedia {{.Version}}
Go Version: ` + runtime.Version() + `
OS/Arch: ` + runtime.GOOS + `/` + runtime.GOARCH + `
`)

	rootCmd.CompletionOptions.DisableDefaultCmd = true

	// A bare username runs collect
	rootCmd.RunE = runDefault
}

func runDefault(cmd *cobra.Command, args []string) error {
	if len(args) > 0 && !isKnownCommand(args[0]) {
		return runCollect(cmd, args)
	}
	if len(args) == 0 && ui.IsTerminal(os.Stdin) {
		return runCollect(cmd, args)
	}
	return cmd.Help()
}

func isKnownCommand(arg string) bool {
	for _, cmd := range rootCmd.Commands() {
		if cmd.Name() == arg || cmd.HasAlias(arg) {
			return true
		}
	}
	return false
}
