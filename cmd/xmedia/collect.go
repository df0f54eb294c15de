package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"xmedia/pkg/browser"
	"xmedia/pkg/config"
	"xmedia/pkg/fetcher"
	"xmedia/pkg/handoff"
	"xmedia/pkg/logger"
	"xmedia/pkg/media"
	"xmedia/pkg/models"
	"xmedia/pkg/scraper"
	"xmedia/pkg/ui"
)

var (
	// Collect command flags
	debugURL       string
	maxScrolls     int
	outputDir      string
	downloaderPath string
	pause          time.Duration
	notify         bool
)

// collectCmd represents the collect command
var collectCmd = &cobra.Command{
	Use:   "collect [username]",
	Short: "Collect media from a profile's media timeline",
	Long: `Attach to the running Chrome, open https://x.com/<username>/media and
scroll it a fixed number of times. New images are downloaded immediately into
<output>/<username>_media. Video post links are written to
<output>/<username>_videos.txt and passed to yt-dlp once scrolling ends.

Without a username and with a terminal on stdin, the command explains how to
start Chrome and asks for the username, the number of scrolls and the
yt-dlp path.`,
	Example: `  # Interactive start
  xmedia collect

  # Twenty scrolls, yt-dlp from PATH
  xmedia collect nasa --max-scrolls 20 --downloader yt-dlp

  # Chrome listening on another port
  xmedia nasa --debug-url http://localhost:9333`,
	Args: cobra.MaximumNArgs(1),
	RunE: runCollect,
}

func init() {
	rootCmd.AddCommand(collectCmd)

	for _, cmd := range []*cobra.Command{collectCmd, rootCmd} {
		addRunFlags(cmd)
		cmd.Flags().StringVar(&debugURL, "debug-url", "", "Chrome remote debugging endpoint (default http://localhost:9222)")
	}
}

// addRunFlags registers flags shared by collect and replay
func addRunFlags(cmd *cobra.Command) {
	cmd.Flags().IntVarP(&maxScrolls, "max-scrolls", "n", 0, "number of scroll iterations (default 10)")
	cmd.Flags().StringVarP(&outputDir, "output", "o", "", "base output directory (default current directory)")
	cmd.Flags().StringVar(&downloaderPath, "downloader", "", "path or name of the yt-dlp executable (default ./dlp)")
	cmd.Flags().DurationVar(&pause, "pause", -1, "pause after each scroll step (default 2s)")
	cmd.Flags().BoolVar(&notify, "notify", false, "send a desktop notification when the run ends")
}

// flagOverrides collects the flags the user actually set
func flagOverrides(cmd *cobra.Command) map[string]interface{} {
	flags := make(map[string]interface{})
	changed := func(name string) bool {
		f := cmd.Flags().Lookup(name)
		return f != nil && f.Changed
	}

	if changed("debug-url") {
		flags["debug-url"] = debugURL
	}
	if changed("max-scrolls") {
		flags["max-scrolls"] = maxScrolls
	}
	if changed("output") {
		flags["output"] = outputDir
	}
	if changed("downloader") {
		flags["downloader"] = downloaderPath
	}
	if changed("pause") {
		flags["pause"] = pause
	}
	if logLevel != "" {
		flags["log-level"] = logLevel
	}
	return flags
}

// setupRun loads configuration and the logger and tags every log line with a run id
func setupRun(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(configFile, flagOverrides(cmd))
	if err != nil {
		return nil, err
	}

	if err := logger.Initialize(&cfg.Logging); err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	logger.SetLogger(logger.GetLogger().WithField("run_id", uuid.NewString()))
	logger.WithField("version", version).Debug("xmedia starting")

	return cfg, nil
}

// promptStartup runs the interactive start: Chrome instructions, then the
// username, scroll count and downloader path
func promptStartup(p *ui.Prompter, cfg *config.Config, cmd *cobra.Command) (string, error) {
	ui.PrintChromeInstructions(cfg.Browser.DebugURL)

	if err := p.WaitForEnter("Press Enter once Chrome is running with debugging enabled..."); err != nil {
		return "", err
	}

	username, err := p.Ask("Enter the username of the target profile", "")
	if err != nil {
		return "", err
	}

	if f := cmd.Flags().Lookup("max-scrolls"); f == nil || !f.Changed {
		n, err := p.AskInt("Enter max number of scrolls", cfg.Scroll.MaxIterations)
		if err != nil {
			return "", err
		}
		cfg.Scroll.MaxIterations = n
	}

	if f := cmd.Flags().Lookup("downloader"); f == nil || !f.Changed {
		path, err := p.Ask("Enter path to yt-dlp executable", cfg.Downloader.Path)
		if err != nil {
			return "", err
		}
		cfg.Downloader.Path = path
	}

	return username, nil
}

func runCollect(cmd *cobra.Command, args []string) error {
	cfg, err := setupRun(cmd)
	if err != nil {
		return err
	}

	var username string
	if len(args) > 0 {
		username = args[0]
	} else {
		if !ui.IsTerminal(os.Stdin) {
			return fmt.Errorf("username is required when stdin is not a terminal")
		}
		if username, err = promptStartup(ui.NewPrompter(os.Stdin, os.Stdout), cfg, cmd); err != nil {
			return fmt.Errorf("failed to read input: %w", err)
		}
	}
	username = strings.TrimPrefix(strings.TrimSpace(username), "@")
	if username == "" {
		return fmt.Errorf("username is required")
	}
	if !media.ValidUsername(username) {
		return fmt.Errorf("invalid username %q", username)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ui.PrintInfo("Target Profile", "@"+username)
	ui.PrintInfo("Scrolls", fmt.Sprintf("%d", cfg.Scroll.MaxIterations))
	ui.PrintInfo("Connecting to Chrome", cfg.Browser.DebugURL)

	page, err := browser.Attach(ctx, cfg.Browser.DebugURL, cfg.Browser.AttachAttempts, logger.GetLogger())
	if err != nil {
		return fmt.Errorf("could not attach to Chrome at %s (is it running with --remote-debugging-port?): %w",
			cfg.Browser.DebugURL, err)
	}
	defer page.Close()

	_, err = runPipeline(ctx, cfg, page, username, ui.Pause)
	return err
}

// runPipeline wires the collector for one profile, runs it and reports the outcome
func runPipeline(ctx context.Context, cfg *config.Config, page browser.Page, username string, pauseFn scraper.PauseFunc) (*models.Result, error) {
	log := logger.GetLogger()

	logger.LogComponentStart("collector", map[string]interface{}{
		"username":       username,
		"max_iterations": cfg.Scroll.MaxIterations,
		"media_dir":      cfg.MediaDir(username),
	})

	f := fetcher.New(cfg.Download.Timeout, cfg.Download.UserAgent, cfg.Output.ImageExtension, log)
	h := handoff.New(cfg, handoff.NewExecRunner(), log)

	s := scraper.New(cfg, page, f, h, log)
	s.SetPauseFunc(pauseFn)

	display := ui.NewProgressDisplay(username, cfg.Scroll.MaxIterations, strings.EqualFold(cfg.Logging.Level, "debug"))
	s.SetObserver(display)

	notifier := ui.NewNotifier(notify)
	start := time.Now()

	result, err := s.Collect(ctx, username)
	if err != nil {
		reason := "error"
		if ctx.Err() != nil {
			reason = "interrupted"
		}
		logger.LogComponentStop("collector", reason)
		notifier.SendError("xmedia", fmt.Sprintf("Collecting @%s failed", username))
		return result, err
	}

	display.Complete(result)
	logger.LogMetrics("collect", map[string]interface{}{
		"username":          result.Username,
		"iterations":        result.Iterations,
		"images_found":      result.ImagesFound,
		"images_downloaded": result.ImagesDownloaded,
		"image_failures":    result.ImageFailures,
		"video_urls":        len(result.VideoURLs),
		"duration":          time.Since(start),
	})
	logger.LogComponentStop("collector", "completed")
	notifier.SendSuccess("xmedia", fmt.Sprintf("@%s: %d images, %d videos", username, result.ImagesDownloaded, len(result.VideoURLs)))

	return result, nil
}
