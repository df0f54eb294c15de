// Package handoff passes collected video page URLs to an external
// yt-dlp compatible downloader.
package handoff

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"al.essio.dev/pkg/shellescape"
	"xmedia/pkg/config"
	errs "xmedia/pkg/errors"
	"xmedia/pkg/logger"
	"xmedia/pkg/models"
	"xmedia/pkg/storage"
)

// Handoff writes the batch file and invokes the downloader once per run
type Handoff struct {
	config   *config.Config
	runner   Runner
	logger   logger.Logger
	lookPath func(string) (string, error)
}

// New creates a Handoff
func New(cfg *config.Config, runner Runner, log logger.Logger) *Handoff {
	if log == nil {
		log = logger.GetLogger()
	}
	if runner == nil {
		runner = NewExecRunner()
	}

	return &Handoff{
		config:   cfg,
		runner:   runner,
		logger:   log,
		lookPath: exec.LookPath,
	}
}

// Args builds the downloader argument list
func (h *Handoff) Args(batchFile, mediaDir string) []string {
	d := h.config.Downloader

	var args []string
	if d.CookiesFromBrowser != "" {
		args = append(args, "--cookies-from-browser", d.CookiesFromBrowser)
	}
	args = append(args, "-a", batchFile)
	if d.Format != "" {
		args = append(args, "-f", d.Format)
	}
	args = append(args, "-o", filepath.Join(mediaDir, d.OutputTemplate))
	if d.ConcurrentFragments > 0 {
		args = append(args, "--concurrent-fragments", strconv.Itoa(d.ConcurrentFragments))
	}
	return args
}

// ManualCommand renders the invocation as a shell-safe command line
func (h *Handoff) ManualCommand(batchFile, mediaDir string) string {
	return shellescape.QuoteCommand(append([]string{h.config.Downloader.Path}, h.Args(batchFile, mediaDir)...))
}

// resolveDownloader finds the configured executable. Paths are checked on
// disk; bare names are looked up on PATH.
func (h *Handoff) resolveDownloader() (string, bool) {
	path := h.config.Downloader.Path
	if path == "" {
		return "", false
	}

	if !strings.ContainsRune(path, filepath.Separator) && !strings.ContainsRune(path, '/') {
		resolved, err := h.lookPath(path)
		return resolved, err == nil
	}

	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return "", false
	}
	return path, true
}

// Run hands videoURLs to the downloader. With no URLs it does nothing.
// Only failing to write the batch file is returned as an error; a failing
// downloader is logged and recorded in the report.
func (h *Handoff) Run(ctx context.Context, username string, videoURLs []string) (*models.HandoffReport, error) {
	report := &models.HandoffReport{URLCount: len(videoURLs)}
	log := h.logger.WithField("username", username)

	if len(videoURLs) == 0 {
		log.Info("No video links collected, skipping downloader")
		return report, nil
	}

	batchFile, err := storage.WriteLines(h.config.BatchFile(username), videoURLs)
	if err != nil {
		return report, errs.Wrap(errs.ErrorTypeFilesystem, "failed to write batch file", err)
	}
	report.BatchFile = batchFile

	log.WithFields(map[string]interface{}{
		"batch_file": batchFile,
		"count":      len(videoURLs),
	}).Info("Saved video URLs")

	mediaDir := h.config.MediaDir(username)
	report.Args = h.Args(batchFile, mediaDir)

	downloader, ok := h.resolveDownloader()
	if !ok {
		report.ManualCommand = h.ManualCommand(batchFile, mediaDir)
		log.WithFields(map[string]interface{}{
			"downloader": h.config.Downloader.Path,
			"command":    report.ManualCommand,
		}).Warn("Downloader not found, videos must be downloaded manually")
		return report, nil
	}

	log.WithField("downloader", downloader).Info("Downloading videos")
	report.Invoked = true

	if err := h.runner.Run(ctx, downloader, report.Args); err != nil {
		if ctx.Err() != nil {
			return report, ctx.Err()
		}
		report.ExitError = err.Error()
		log.WithError(err).Error("Video download failed")
		return report, nil
	}

	log.Info("Video download completed")
	return report, nil
}
