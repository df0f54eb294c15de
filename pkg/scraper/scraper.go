package scraper

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"xmedia/pkg/browser"
	"xmedia/pkg/config"
	errs "xmedia/pkg/errors"
	"xmedia/pkg/ledger"
	"xmedia/pkg/logger"
	"xmedia/pkg/media"
	"xmedia/pkg/models"
	"xmedia/pkg/retry"
)

// State is the position of a run in the scroll-collect cycle
type State int

const (
	StateIdle State = iota
	StateCollecting
	StateScrolling
	StateDone
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateCollecting:
		return "collecting"
	case StateScrolling:
		return "scrolling"
	case StateDone:
		return "done"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Scraper drives one profile's media timeline: it collects image and video
// URLs from the page, fetches new images immediately and hands the video
// URLs over once scrolling is finished.
type Scraper struct {
	page     browser.Page
	fetcher  ImageFetcher
	handoff  VideoHandoff
	config   *config.Config
	logger   logger.Logger
	pause    PauseFunc
	observer Observer

	state  State
	ledger *ledger.Ledger
	result *models.Result
}

// New creates a Scraper
func New(cfg *config.Config, page browser.Page, fetcher ImageFetcher, handoff VideoHandoff, log logger.Logger) *Scraper {
	if log == nil {
		log = logger.GetLogger()
	}

	return &Scraper{
		page:    page,
		fetcher: fetcher,
		handoff: handoff,
		config:  cfg,
		logger:  log,
		pause: func(ctx context.Context, d time.Duration, _ string) error {
			return retry.Wait(ctx, d)
		},
		ledger: ledger.New(),
	}
}

// SetPauseFunc replaces the fixed-delay wait, e.g. with a spinner
func (s *Scraper) SetPauseFunc(p PauseFunc) {
	if p != nil {
		s.pause = p
	}
}

// SetObserver registers a progress observer
func (s *Scraper) SetObserver(o Observer) {
	s.observer = o
}

// State returns the current state
func (s *Scraper) State() State {
	return s.state
}

// Ledger returns the dedup ledger of the last run
func (s *Scraper) Ledger() *ledger.Ledger {
	return s.ledger
}

func (s *Scraper) imageSelector() string {
	return fmt.Sprintf(`img[src*="%s"]`, s.config.Site.ImageMarker)
}

func (s *Scraper) videoSelector() string {
	return fmt.Sprintf(`a[href*="%s"]`, s.config.Site.VideoMarker)
}

// Collect runs the full cycle for username and returns the run summary.
// Browser failures and cancellation abort the run; failed image downloads
// do not.
func (s *Scraper) Collect(ctx context.Context, username string) (*models.Result, error) {
	username = strings.TrimPrefix(strings.TrimSpace(username), "@")
	if username == "" {
		return nil, errs.New(errs.ErrorTypeConfig, "username is required")
	}
	if !media.ValidUsername(username) {
		return nil, errs.New(errs.ErrorTypeConfig, fmt.Sprintf("invalid username %q", username))
	}

	s.state = StateIdle
	s.ledger = ledger.New()
	s.result = &models.Result{
		Username: username,
		MediaDir: s.config.MediaDir(username),
	}

	log := s.logger.WithField("username", username)
	target := media.TimelineURL(s.config.Site.BaseURL, username)
	maxIterations := s.config.Scroll.MaxIterations

	log.WithFields(map[string]interface{}{
		"url":            target,
		"max_iterations": maxIterations,
	}).Info("Opening media timeline")

	if err := s.page.Navigate(ctx, target); err != nil {
		return s.result, fmt.Errorf("failed to open %s: %w", target, err)
	}
	if err := s.pause(ctx, s.config.Browser.PageLoadWait, "Waiting for page load"); err != nil {
		return s.result, err
	}

	for iteration := 1; iteration <= maxIterations; iteration++ {
		if err := s.ensureOnTimeline(ctx, username, target); err != nil {
			return s.result, fmt.Errorf("iteration %d: %w", iteration, err)
		}

		s.state = StateCollecting
		if err := s.collectImages(ctx, log); err != nil {
			return s.result, fmt.Errorf("iteration %d: %w", iteration, err)
		}
		if err := s.collectVideos(ctx, log); err != nil {
			return s.result, fmt.Errorf("iteration %d: %w", iteration, err)
		}

		s.state = StateScrolling
		if err := s.scroll(ctx); err != nil {
			return s.result, fmt.Errorf("iteration %d: %w", iteration, err)
		}

		s.result.Iterations = iteration
		s.syncCounts()
		logger.LogScrollProgress(username, iteration, maxIterations,
			s.result.ImagesFound, s.result.ImagesDownloaded, len(s.result.VideoURLs))
		if s.observer != nil {
			s.observer.IterationDone(iteration, maxIterations)
		}
	}

	s.state = StateDone
	s.syncCounts()

	report, err := s.handoff.Run(ctx, username, s.result.VideoURLs)
	s.result.Handoff = report
	if err != nil {
		return s.result, fmt.Errorf("video handoff failed: %w", err)
	}

	log.WithFields(map[string]interface{}{
		"iterations": s.result.Iterations,
		"images":     s.result.ImagesFound,
		"downloaded": s.result.ImagesDownloaded,
		"failed":     s.result.ImageFailures,
		"videos":     len(s.result.VideoURLs),
	}).Info("Collect finished")

	return s.result, nil
}

// ensureOnTimeline navigates back when the tab has left the media listing
func (s *Scraper) ensureOnTimeline(ctx context.Context, username, target string) error {
	loc, err := s.page.Location(ctx)
	if err != nil {
		return err
	}

	if u, perr := url.Parse(loc); perr == nil && media.IsTimelinePath(u.Path, username) {
		return nil
	}

	s.logger.WithFields(map[string]interface{}{
		"location": loc,
		"target":   target,
	}).Warn("Page left the media timeline, navigating back")

	if err := s.page.Navigate(ctx, target); err != nil {
		return errs.Wrap(errs.ErrorTypeNavigation, "failed to return to timeline", err)
	}
	return s.pause(ctx, s.config.Scroll.RenavigateWait, "Returning to timeline")
}

func (s *Scraper) collectImages(ctx context.Context, log logger.Logger) error {
	elements, err := s.page.QueryAll(ctx, s.imageSelector())
	if err != nil {
		return err
	}

	for _, el := range elements {
		src, ok := el.Attribute("src")
		if !ok || !strings.Contains(src, s.config.Site.ImageMarker) {
			continue
		}
		if strings.Contains(src, s.config.Site.ThumbnailMarker) {
			continue
		}

		m := media.NewMediaURL(src)
		if s.ledger.SeenImage(m.Canonical) {
			continue
		}
		s.ledger.MarkImageSeen(m.Canonical)

		if s.fetcher.Fetch(ctx, m.Canonical, s.result.MediaDir) {
			s.ledger.MarkImageDownloaded(m.Canonical)
			logger.LogDownload(s.result.Username, media.ImageID(m.Canonical), m.Canonical, true)
			if s.observer != nil {
				s.observer.ImageSaved(m.Canonical)
			}
		} else {
			s.result.ImageFailures++
			logger.LogDownload(s.result.Username, media.ImageID(m.Canonical), m.Canonical, false)
			if s.observer != nil {
				s.observer.ImageFailed(m.Canonical)
			}
		}

		if err := ctx.Err(); err != nil {
			return err
		}
	}

	log.DebugWithFields("Images collected", map[string]interface{}{
		"matched": len(elements),
		"seen":    s.ledger.ImageCount(),
	})
	return nil
}

func (s *Scraper) collectVideos(ctx context.Context, log logger.Logger) error {
	elements, err := s.page.QueryAll(ctx, s.videoSelector())
	if err != nil {
		return err
	}

	for _, el := range elements {
		href, ok := el.Attribute("href")
		if !ok || !strings.Contains(href, s.config.Site.VideoMarker) {
			continue
		}

		v, err := media.NewVideoPageURL(s.config.Site.BaseURL, href)
		if err != nil {
			log.WithError(err).WithField("href", href).Warn("Skipping unresolvable video link")
			continue
		}
		if s.ledger.SeenVideo(v.Absolute) {
			continue
		}
		s.ledger.MarkVideoSeen(v.Absolute)

		log.WithField("url", v.Absolute).Debug("Video link found")
		if s.observer != nil {
			s.observer.VideoFound(v.Absolute)
		}
	}
	return nil
}

func (s *Scraper) scroll(ctx context.Context) error {
	script := fmt.Sprintf("window.scrollBy(0, %d)", s.config.Scroll.StepPixels)

	for step := 0; step < s.config.Scroll.StepsPerIteration; step++ {
		if err := s.page.Evaluate(ctx, script); err != nil {
			return err
		}
		if err := s.pause(ctx, s.config.Scroll.Pause, "Loading more media"); err != nil {
			return err
		}
	}
	return nil
}

func (s *Scraper) syncCounts() {
	s.result.ImagesFound = s.ledger.ImageCount()
	s.result.ImagesDownloaded = s.ledger.DownloadedCount()
	s.result.VideoURLs = s.ledger.VideoURLs()
}
