package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"xmedia/pkg/browser"
	"xmedia/pkg/ui"
)

var snapshotFiles []string

// replayCmd runs the collector against saved pages instead of a live browser
var replayCmd = &cobra.Command{
	Use:   "replay <username> --snapshot page1.html [--snapshot page2.html ...]",
	Short: "Run the collector against saved HTML snapshots",
	Long: `Replay feeds saved copies of the media timeline to the collector, one
file per scroll iteration in order. Images found in the snapshots are downloaded
and video links are handed to yt-dlp exactly as in a live run. Scroll pauses
are skipped unless --pause is given.`,
	Example: `  xmedia replay nasa --snapshot scroll-0.html --snapshot scroll-1.html`,
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(snapshotFiles) == 0 {
			return fmt.Errorf("at least one --snapshot is required")
		}
		cfg, err := setupRun(cmd)
		if err != nil {
			return err
		}
		cfg.Browser.PageLoadWait = 0
		cfg.Scroll.RenavigateWait = 0
		if f := cmd.Flags().Lookup("pause"); f == nil || !f.Changed {
			cfg.Scroll.Pause = 0
		}

		page, err := browser.LoadSnapshotFiles(snapshotFiles)
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		ui.PrintInfo("Replaying snapshots", fmt.Sprintf("%d", len(snapshotFiles)))
		_, err = runPipeline(ctx, cfg, page, args[0], ui.Pause)
		return err
	},
}

func init() {
	rootCmd.AddCommand(replayCmd)
	addRunFlags(replayCmd)
	replayCmd.Flags().StringArrayVar(&snapshotFiles, "snapshot", nil, "saved timeline page, one per scroll iteration in order")
}
