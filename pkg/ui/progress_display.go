package ui

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"xmedia/pkg/models"
)

// ProgressDisplay prints a one-line progress bar over scroll iterations
type ProgressDisplay struct {
	mu        sync.Mutex
	username  string
	iteration int
	maxIter   int
	saved     int
	failed    int
	videos    int
	lastImage string
	startTime time.Time
	isDebug   bool
}

// NewProgressDisplay creates a new progress display
func NewProgressDisplay(username string, maxIterations int, debug bool) *ProgressDisplay {
	return &ProgressDisplay{
		username:  username,
		maxIter:   maxIterations,
		startTime: time.Now(),
		isDebug:   debug,
	}
}

// ImageSaved records a downloaded image
func (p *ProgressDisplay) ImageSaved(url string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.saved++
	p.lastImage = shortName(url)
	if p.isDebug {
		printf(false, "\n%s %s", Green("✓"), url)
		return
	}
	p.printProgress()
}

// ImageFailed records an image that could not be downloaded
func (p *ProgressDisplay) ImageFailed(url string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.failed++
	if p.isDebug {
		printf(false, "\n%s %s", Red("✗"), url)
		return
	}
	p.printProgress()
}

// VideoFound records a new video link
func (p *ProgressDisplay) VideoFound(url string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.videos++
	if p.isDebug {
		printf(false, "\n%s %s", Magenta("▶"), url)
		return
	}
	p.printProgress()
}

// IterationDone advances the bar
func (p *ProgressDisplay) IterationDone(iteration, maxIterations int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.iteration = iteration
	p.maxIter = maxIterations
	p.printProgress()
}

func (p *ProgressDisplay) printProgress() {
	barWidth := 20
	filled := 0
	if p.maxIter > 0 {
		filled = p.iteration * barWidth / p.maxIter
	}
	bar := strings.Repeat("━", filled) + strings.Repeat("─", barWidth-filled)

	line := fmt.Sprintf("%s [%s] scroll %d/%d • %d images • %d videos",
		Cyan("@"+p.username), bar, p.iteration, p.maxIter, p.saved, p.videos)
	if p.lastImage != "" {
		line += " • " + Dim(p.lastImage)
	}
	if p.failed > 0 {
		line += " • " + Red(fmt.Sprintf("%d failed", p.failed))
	}

	printf(false, "\r%s\r%s", strings.Repeat(" ", 120), line)
}

// Complete prints the run summary
func (p *ProgressDisplay) Complete(result *models.Result) {
	p.mu.Lock()
	defer p.mu.Unlock()

	printf(false, "\n\n%s Finished collecting media from @%s in %s\n",
		Green("✓"), result.Username, FormatDuration(time.Since(p.startTime)))
	printf(false, "  %s %d images downloaded to %s\n", Dim("•"), result.ImagesDownloaded, result.MediaDir)
	if result.ImageFailures > 0 {
		printf(false, "  %s %d image downloads failed\n", Dim("•"), result.ImageFailures)
	}
	printf(false, "  %s %d video links collected\n", Dim("•"), len(result.VideoURLs))

	if h := result.Handoff; h != nil && h.BatchFile != "" {
		printf(false, "  %s video URLs saved to %s\n", Dim("•"), h.BatchFile)
		switch {
		case h.ManualCommand != "":
			PrintWarning("\nDownloader not found. Download the videos manually with:")
			PrintCommand(h.ManualCommand)
		case h.ExitError != "":
			PrintError("Video download failed", h.ExitError)
		case h.Invoked:
			PrintSuccess("Video download completed")
		}
	}
}

// FormatDuration formats a duration in a human-readable way
func FormatDuration(d time.Duration) string {
	if d < time.Minute {
		return fmt.Sprintf("%ds", int(d.Seconds()))
	} else if d < time.Hour {
		return fmt.Sprintf("%dm%ds", int(d.Minutes()), int(d.Seconds())%60)
	}
	return fmt.Sprintf("%dh%dm", int(d.Hours()), int(d.Minutes())%60)
}

func shortName(url string) string {
	base, _, _ := strings.Cut(url, "?")
	if i := strings.LastIndex(base, "/"); i >= 0 {
		return base[i+1:]
	}
	return base
}
